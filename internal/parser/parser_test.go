package parser

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/eventwire/internal/model"
)

func newTestParser(t *testing.T, opts ...Option) *Parser {
	t.Helper()
	p, err := New(opts...)
	require.NoError(t, err)
	return p
}

func TestNewValidatesTables(t *testing.T) {
	t.Parallel()

	t.Run("version mismatch", func(t *testing.T) {
		t.Parallel()
		tables := DefaultTables()
		tables[model.SchemaV1].Version = model.SchemaV2
		_, err := New(WithTables(tables))
		require.Error(t, err)
	})

	t.Run("missing table", func(t *testing.T) {
		t.Parallel()
		tables := DefaultTables()
		delete(tables, model.SchemaV2)
		_, err := New(WithTables(tables))
		require.Error(t, err)
	})
}

func TestParseETFInflow(t *testing.T) {
	t.Parallel()

	p := newTestParser(t)
	got := p.Parse(t.Context(), "BlackRock's Bitcoin ETF saw $400M in inflows after SEC approval.", model.SchemaV1, true)

	assert.Equal(t, string(model.V1ETFInflow), got.EventType)
	assert.Equal(t, []string{"BTC"}, got.Assets)
	assert.Contains(t, got.Entities, "BlackRock")
	assert.Equal(t, []string{"ETF", "REGULATION"}, got.Topics)

	assert.Equal(t, model.JurisdictionUS, got.Jurisdiction)
	assert.Equal(t, model.BasisExplicit, got.JurisdictionBasis)
	assert.GreaterOrEqual(t, got.JurisdictionConfidence, 0.8)

	assert.InDelta(t, 0.82, got.Confidence, 1e-9)
	assert.Equal(t, model.SchemaV1, got.SchemaVersion)
	assert.Equal(t, DefaultModelVersion, got.ModelVersion)
}

func TestParseUnrelatedText(t *testing.T) {
	t.Parallel()

	p := newTestParser(t)
	got := p.Parse(t.Context(), "Sunny weather is expected across the region this weekend.", model.SchemaV1, true)

	assert.Equal(t, string(model.V1Unknown), got.EventType)
	assert.InDelta(t, 0.2, got.ImpactScore, 1e-9)
	assert.InDelta(t, 0.4, got.Confidence, 1e-9)
	assert.Equal(t, model.JurisdictionGlobal, got.Jurisdiction)
	assert.Equal(t, model.BasisNone, got.JurisdictionBasis)
	assert.InDelta(t, 0.3, got.JurisdictionConfidence, 1e-9)
	assert.Empty(t, got.Topics)
	assert.NotNil(t, got.Assets)
	assert.NotNil(t, got.Entities)
}

func TestParseV2Enforcement(t *testing.T) {
	t.Parallel()

	p := newTestParser(t)
	got := p.Parse(t.Context(), "The SEC sues Binance over unregistered securities offerings in the United States.", model.SchemaV2, true)

	assert.Equal(t, string(model.V2RegulationRestriction), got.EventType)
	require.NotNil(t, got.EventSubtype)
	assert.Equal(t, "regulation.enforcement.lawsuit", *got.EventSubtype)
	require.NotNil(t, got.V1EventType)
	assert.Equal(t, model.V1EnforcementAction, *got.V1EventType)
	assert.Equal(t, []string{"REGULATION"}, got.Topics)
	assert.Contains(t, got.Entities, "Binance")

	assert.Equal(t, model.JurisdictionUS, got.Jurisdiction)
	assert.Equal(t, model.BasisExplicit, got.JurisdictionBasis)
	assert.InDelta(t, 0.9, got.JurisdictionConfidence, 1e-9)
}

func TestParseV2MiscOther(t *testing.T) {
	t.Parallel()

	p := newTestParser(t)
	got := p.Parse(t.Context(), "A new crypto wallet art project drew attention.", model.SchemaV2, true)

	assert.Equal(t, string(model.V2MiscOther), got.EventType)
	require.NotNil(t, got.EventSubtype)
	assert.Equal(t, "misc", *got.EventSubtype)
	assert.Nil(t, got.V1EventType)
	assert.InDelta(t, 0.25, got.ImpactScore, 1e-9)
	assert.InDelta(t, 0.45, got.Confidence, 1e-9)
}

func TestParseExchangeHack(t *testing.T) {
	t.Parallel()

	p := newTestParser(t)
	got := p.Parse(t.Context(), "Hackers drained $100 million from a crypto exchange hot wallet.", model.SchemaV1, true)

	assert.Equal(t, string(model.V1ExchangeHack), got.EventType)
	assert.Equal(t, []string{"RISK"}, got.Topics)
	assert.GreaterOrEqual(t, got.ImpactScore, 0.7)
}

func TestParseInvalidVersionFallsBackToV1(t *testing.T) {
	t.Parallel()

	p := newTestParser(t)
	got := p.Parse(t.Context(), "Sunny weather is expected.", model.SchemaVersion("v9"), true)
	assert.Equal(t, model.SchemaV1, got.SchemaVersion)
	assert.Equal(t, string(model.V1Unknown), got.EventType)
}

func TestParseDeterministic(t *testing.T) {
	t.Parallel()

	p := newTestParser(t)
	inputs := []string{
		"BlackRock's Bitcoin ETF saw $400M in inflows after SEC approval.",
		"The SEC sues Binance over unregistered securities offerings in the United States.",
		"A new crypto wallet art project drew attention.",
		"Sunny weather is expected across the region this weekend.",
	}
	for _, text := range inputs {
		for _, version := range []model.SchemaVersion{model.SchemaV1, model.SchemaV2} {
			first, err := json.Marshal(p.Parse(t.Context(), text, version, true))
			require.NoError(t, err)
			for range 10 {
				next, err := json.Marshal(p.Parse(t.Context(), text, version, true))
				require.NoError(t, err)
				require.Equal(t, string(first), string(next))
			}
		}
	}
}

type stubRefiner struct {
	deterministic bool
	refinement    *Refinement
	err           error

	calls   int
	lastReq RefineRequest
}

func (s *stubRefiner) Name() string              { return "stub" }
func (s *stubRefiner) SupportsDeterminism() bool { return s.deterministic }

func (s *stubRefiner) Refine(_ context.Context, req RefineRequest) (*Refinement, error) {
	s.calls++
	s.lastReq = req
	return s.refinement, s.err
}

func TestRefinementGating(t *testing.T) {
	t.Parallel()

	lowConfidence := "Sunny weather is expected across the region this weekend."

	t.Run("deterministic request skips non-deterministic provider", func(t *testing.T) {
		t.Parallel()
		stub := &stubRefiner{deterministic: false}
		p := newTestParser(t, WithRefiner(stub))
		p.Parse(t.Context(), lowConfidence, model.SchemaV1, true)
		assert.Zero(t, stub.calls)
	})

	t.Run("confident result skips the provider", func(t *testing.T) {
		t.Parallel()
		stub := &stubRefiner{deterministic: true}
		p := newTestParser(t, WithRefiner(stub))
		p.Parse(t.Context(), "BlackRock's Bitcoin ETF saw $400M in inflows after SEC approval.", model.SchemaV1, true)
		assert.Zero(t, stub.calls)
	})

	t.Run("unknown result consults the provider with a stable seed", func(t *testing.T) {
		t.Parallel()
		stub := &stubRefiner{deterministic: true, refinement: &Refinement{}}
		p := newTestParser(t, WithRefiner(stub))
		p.Parse(t.Context(), lowConfidence, model.SchemaV1, true)
		require.Equal(t, 1, stub.calls)
		assert.True(t, stub.lastReq.Deterministic)
		assert.Equal(t, StableSeed(lowConfidence), stub.lastReq.Seed)
		assert.Equal(t, string(model.V1Unknown), stub.lastReq.EventType)
	})

	t.Run("non-deterministic request carries no seed", func(t *testing.T) {
		t.Parallel()
		stub := &stubRefiner{deterministic: false, refinement: &Refinement{}}
		p := newTestParser(t, WithRefiner(stub))
		p.Parse(t.Context(), lowConfidence, model.SchemaV1, false)
		require.Equal(t, 1, stub.calls)
		assert.False(t, stub.lastReq.Deterministic)
		assert.Zero(t, stub.lastReq.Seed)
	})
}

func TestRefinementApplied(t *testing.T) {
	t.Parallel()

	t.Run("valid proposal replaces type and re-derives topics", func(t *testing.T) {
		t.Parallel()
		proposed := string(model.V1EnforcementAction)
		stub := &stubRefiner{deterministic: true, refinement: &Refinement{
			EventType: &proposed,
			Assets:    []string{"BTC"},
		}}
		p := newTestParser(t, WithRefiner(stub))
		got := p.Parse(t.Context(), "Sunny weather is expected across the region this weekend.", model.SchemaV1, true)
		assert.Equal(t, string(model.V1EnforcementAction), got.EventType)
		assert.Equal(t, []string{"RISK"}, got.Topics)
		assert.Equal(t, []string{"BTC"}, got.Assets)
	})

	t.Run("invalid proposal is ignored", func(t *testing.T) {
		t.Parallel()
		proposed := "NOT_A_TYPE"
		stub := &stubRefiner{deterministic: true, refinement: &Refinement{EventType: &proposed}}
		p := newTestParser(t, WithRefiner(stub))
		got := p.Parse(t.Context(), "Sunny weather is expected across the region this weekend.", model.SchemaV1, true)
		assert.Equal(t, string(model.V1Unknown), got.EventType)
	})

	t.Run("provider error keeps the heuristic result", func(t *testing.T) {
		t.Parallel()
		stub := &stubRefiner{deterministic: true, err: context.DeadlineExceeded}
		p := newTestParser(t, WithRefiner(stub))
		got := p.Parse(t.Context(), "Sunny weather is expected across the region this weekend.", model.SchemaV1, true)
		require.Equal(t, 1, stub.calls)
		assert.Equal(t, string(model.V1Unknown), got.EventType)
		assert.InDelta(t, 0.4, got.Confidence, 1e-9)
	})

	t.Run("v2 proposal re-derives subtype and legacy mapping", func(t *testing.T) {
		t.Parallel()
		proposed := string(model.V2RegulatoryGuidance)
		stub := &stubRefiner{deterministic: true, refinement: &Refinement{EventType: &proposed}}
		p := newTestParser(t, WithRefiner(stub))
		got := p.Parse(t.Context(), "The ministry's new policy left analysts puzzled.", model.SchemaV2, true)
		require.Equal(t, 1, stub.calls)
		assert.Equal(t, string(model.V2RegulatoryGuidance), got.EventType)
		assert.Equal(t, []string{"REGULATION"}, got.Topics)
		require.NotNil(t, got.EventSubtype)
		assert.Equal(t, "regulation.policy", *got.EventSubtype)
	})
}

func TestStableSeed(t *testing.T) {
	t.Parallel()

	assert.Equal(t, StableSeed("abc"), StableSeed("abc"))
	assert.NotEqual(t, StableSeed("abc"), StableSeed("abd"))
}

func TestNoopRefiner(t *testing.T) {
	t.Parallel()

	r := NoopRefiner{}
	assert.True(t, r.SupportsDeterminism())
	ref, err := r.Refine(t.Context(), RefineRequest{})
	require.NoError(t, err)
	assert.Nil(t, ref.EventType)
}

func TestMergeDistinct(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"BTC", "ETH"}, mergeDistinct([]string{"BTC"}, []string{"ETH", "BTC"}))
	assert.Equal(t, []string{"BTC"}, mergeDistinct([]string{"BTC"}, nil))
	assert.Equal(t, []string{"ETH"}, mergeDistinct(nil, []string{"ETH", "ETH"}))
}
