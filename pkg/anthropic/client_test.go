package anthropic

import (
	"testing"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSDKMessages(t *testing.T) {
	t.Parallel()

	msgs := toSDKMessages([]Message{
		{Role: "user", Content: "classify this"},
		{Role: "assistant", Content: "{}"},
	})
	require.Len(t, msgs, 2)
	assert.Equal(t, sdk.MessageParamRoleUser, msgs[0].Role)
	assert.Equal(t, sdk.MessageParamRoleAssistant, msgs[1].Role)
}

func TestToSDKSystemBlocks(t *testing.T) {
	t.Parallel()

	blocks := toSDKSystemBlocks(BuildCachedSystemBlocks("you are a classifier"))
	require.Len(t, blocks, 1)
	assert.Equal(t, "you are a classifier", blocks[0].Text)
	assert.Equal(t, sdk.CacheControlEphemeralTTL("1h"), blocks[0].CacheControl.TTL)
}

func TestResponseText(t *testing.T) {
	t.Parallel()

	resp := &MessageResponse{Content: []ContentBlock{
		{Type: "text", Text: `{"event_type":`},
		{Type: "tool_use", Text: "ignored"},
		{Type: "text", Text: `"UNKNOWN"}`},
	}}
	assert.Equal(t, `{"event_type":"UNKNOWN"}`, resp.Text())
}
