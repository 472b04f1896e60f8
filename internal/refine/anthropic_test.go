package refine

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/eventwire/internal/model"
	"github.com/sells-group/eventwire/internal/parser"
	"github.com/sells-group/eventwire/pkg/anthropic"
)

type fakeClient struct {
	text string
	err  error
	last anthropic.MessageRequest
}

func (f *fakeClient) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: f.text}},
	}, nil
}

func refineReq() parser.RefineRequest {
	return parser.RefineRequest{
		Text:          "Bitwise files an S-1 for a spot Solana ETF.",
		SchemaVersion: model.SchemaV1,
		EventType:     "UNKNOWN",
		Confidence:    0.4,
		Assets:        []string{"SOL"},
	}
}

func TestRefineAcceptsValidProposal(t *testing.T) {
	t.Parallel()

	client := &fakeClient{text: `{"event_type":"ETF_FILING","assets":["sol "],"entities":["Bitwise"]}`}
	r := NewAnthropicRefiner(client, "")

	ref, err := r.Refine(t.Context(), refineReq())
	require.NoError(t, err)
	require.NotNil(t, ref.EventType)
	assert.Equal(t, "ETF_FILING", *ref.EventType)
	assert.Equal(t, []string{"SOL"}, ref.Assets)
	assert.Equal(t, []string{"Bitwise"}, ref.Entities)

	require.NotNil(t, client.last.Temperature)
	assert.Zero(t, *client.last.Temperature)
	assert.Equal(t, defaultModel, client.last.Model)
}

func TestRefineRejectsUnknownEventType(t *testing.T) {
	t.Parallel()

	client := &fakeClient{text: `{"event_type":"NOT_A_TYPE","assets":[],"entities":[]}`}
	r := NewAnthropicRefiner(client, "claude-sonnet-4-5-20250929")

	ref, err := r.Refine(t.Context(), refineReq())
	require.NoError(t, err)
	assert.Nil(t, ref.EventType)
}

func TestRefineKeepsHeuristicOnNull(t *testing.T) {
	t.Parallel()

	client := &fakeClient{text: `{"event_type":null,"assets":[],"entities":[]}`}
	r := NewAnthropicRefiner(client, "")

	ref, err := r.Refine(t.Context(), refineReq())
	require.NoError(t, err)
	assert.Nil(t, ref.EventType)
	assert.Empty(t, ref.Assets)
}

func TestRefineToleratesFencedOutput(t *testing.T) {
	t.Parallel()

	client := &fakeClient{text: "```json\n{\"event_type\":\"ETF_FILING\",\"assets\":[],\"entities\":[]}\n```"}
	r := NewAnthropicRefiner(client, "")

	ref, err := r.Refine(t.Context(), refineReq())
	require.NoError(t, err)
	require.NotNil(t, ref.EventType)
	assert.Equal(t, "ETF_FILING", *ref.EventType)
}

func TestRefineErrors(t *testing.T) {
	t.Parallel()

	t.Run("provider error propagates", func(t *testing.T) {
		t.Parallel()
		r := NewAnthropicRefiner(&fakeClient{err: eris.New("rate limited")}, "")
		_, err := r.Refine(t.Context(), refineReq())
		assert.Error(t, err)
	})

	t.Run("garbage output is an error", func(t *testing.T) {
		t.Parallel()
		r := NewAnthropicRefiner(&fakeClient{text: "I think this is an ETF filing."}, "")
		_, err := r.Refine(t.Context(), refineReq())
		assert.Error(t, err)
	})
}

func TestDeterminismFlag(t *testing.T) {
	t.Parallel()

	r := NewAnthropicRefiner(&fakeClient{}, "")
	assert.False(t, r.SupportsDeterminism())
	assert.Equal(t, "anthropic", r.Name())
}
