package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/eventwire/internal/model"
)

func TestDefaultTablesValidate(t *testing.T) {
	t.Parallel()

	for version, table := range DefaultTables() {
		assert.NoError(t, table.Validate(), version)
	}
}

func TestValidateRejectsBadTables(t *testing.T) {
	t.Parallel()

	base := func() *RuleTable {
		return &RuleTable{
			Version: model.SchemaV1,
			Unknown: string(model.V1Unknown),
			Rules: []Rule{{
				EventType:  string(model.V1ExchangeHack),
				Triggers:   []string{"hack"},
				Weight:     0.9,
				Confidence: 0.7,
				Precedence: 1,
			}},
		}
	}

	t.Run("event type outside taxonomy", func(t *testing.T) {
		t.Parallel()
		tbl := base()
		tbl.Rules[0].EventType = "NOT_A_TYPE"
		assert.Error(t, tbl.Validate())
	})

	t.Run("unknown sentinel outside taxonomy", func(t *testing.T) {
		t.Parallel()
		tbl := base()
		tbl.Unknown = "NOPE"
		assert.Error(t, tbl.Validate())
	})

	t.Run("no triggers", func(t *testing.T) {
		t.Parallel()
		tbl := base()
		tbl.Rules[0].Triggers = nil
		assert.Error(t, tbl.Validate())
	})

	t.Run("weight out of range", func(t *testing.T) {
		t.Parallel()
		tbl := base()
		tbl.Rules[0].Weight = 1.2
		assert.Error(t, tbl.Validate())
	})

	t.Run("precedence below one", func(t *testing.T) {
		t.Parallel()
		tbl := base()
		tbl.Rules[0].Precedence = 0
		assert.Error(t, tbl.Validate())
	})

	t.Run("conflicting precedence per event type", func(t *testing.T) {
		t.Parallel()
		tbl := base()
		second := tbl.Rules[0]
		second.Precedence = 3
		tbl.Rules = append(tbl.Rules, second)
		assert.Error(t, tbl.Validate())
	})

	t.Run("empty co-occurrence set", func(t *testing.T) {
		t.Parallel()
		tbl := base()
		tbl.Rules[0].Requires = [][]string{{}}
		assert.Error(t, tbl.Validate())
	})
}

func TestFindPhrase(t *testing.T) {
	t.Parallel()

	t.Run("word bounded", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, findPhrase("etfs and inflowsurge", "inflow"))
		assert.Len(t, findPhrase("inflows follow inflow", "inflow"), 1)
		assert.Len(t, findPhrase("the etf, the etf.", "etf"), 2)
	})

	t.Run("multiword phrases", func(t *testing.T) {
		t.Parallel()
		spans := findPhrase("a hard fork happened", "hard fork")
		require.Len(t, spans, 1)
		assert.Equal(t, Span{Start: 2, End: 11}, spans[0])
	})

	t.Run("punctuation is a boundary", func(t *testing.T) {
		t.Parallel()
		assert.Len(t, findPhrase("depeg: confirmed", "depeg"), 1)
	})
}

func TestCryptoRelevant(t *testing.T) {
	t.Parallel()

	t.Run("asset signal wins", func(t *testing.T) {
		t.Parallel()
		nt := Normalize("BTC steadied.")
		assert.True(t, CryptoRelevant(nt, SignalSet{{Kind: SignalAsset, Value: "BTC"}}))
	})

	t.Run("lexical cue without assets", func(t *testing.T) {
		t.Parallel()
		nt := Normalize("A new crypto wallet art project drew attention.")
		assert.True(t, CryptoRelevant(nt, nil))
	})

	t.Run("unrelated text", func(t *testing.T) {
		t.Parallel()
		nt := Normalize("The weather was nice today.")
		assert.False(t, CryptoRelevant(nt, nil))
	})
}

func TestSeverityBoost(t *testing.T) {
	t.Parallel()

	assert.Zero(t, SeverityRoutine.Boost())
	assert.InDelta(t, 0.05, SeverityElevated.Boost(), 1e-9)
	assert.InDelta(t, 0.12, SeverityCritical.Boost(), 1e-9)
}
