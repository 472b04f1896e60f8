package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAssets(t *testing.T) {
	t.Parallel()

	t.Run("spelled-out names map to tickers", func(t *testing.T) {
		t.Parallel()
		nt := Normalize("Bitcoin and Ethereum rose; Solana followed.")
		values := SignalSet(ExtractAssets(nt)).Values(SignalAsset)
		assert.Equal(t, []string{"BTC", "ETH", "SOL"}, values)
	})

	t.Run("possessive names still match", func(t *testing.T) {
		t.Parallel()
		nt := Normalize("BlackRock's Bitcoin ETF saw $400M in inflows after SEC approval.")
		values := SignalSet(ExtractAssets(nt)).Values(SignalAsset)
		assert.Equal(t, []string{"BTC"}, values)
	})

	t.Run("bare tickers need the allowlist", func(t *testing.T) {
		t.Parallel()
		nt := Normalize("XRP and ADA gained while ZZZZ was flat.")
		values := SignalSet(ExtractAssets(nt)).Values(SignalAsset)
		assert.Equal(t, []string{"XRP", "ADA"}, values)
	})

	t.Run("cashtags pass without the allowlist", func(t *testing.T) {
		t.Parallel()
		nt := Normalize("Traders piled into $PEPE on Tuesday.")
		values := SignalSet(ExtractAssets(nt)).Values(SignalAsset)
		assert.Equal(t, []string{"PEPE"}, values)
	})

	t.Run("denylisted tokens never match", func(t *testing.T) {
		t.Parallel()
		nt := Normalize("The SEC, the CEO, and the ETF: USD held steady against $USD.")
		assert.Empty(t, ExtractAssets(nt))
	})
}

func TestExtractEntities(t *testing.T) {
	t.Parallel()

	t.Run("multiword proper nouns", func(t *testing.T) {
		t.Parallel()
		nt := Normalize("Galaxy Digital expanded while Marathon Digital Holdings idled.")
		values := SignalSet(ExtractEntities(nt)).Values(SignalEntity)
		assert.Equal(t, []string{"Galaxy Digital", "Marathon Digital Holdings"}, values)
	})

	t.Run("connector words join runs", func(t *testing.T) {
		t.Parallel()
		nt := Normalize("The Bank of England issued a statement.")
		values := SignalSet(ExtractEntities(nt)).Values(SignalEntity)
		assert.Contains(t, values, "Bank of England")
	})

	t.Run("allowlisted single words", func(t *testing.T) {
		t.Parallel()
		nt := Normalize("Coinbase listed the product while Kraken waited.")
		values := SignalSet(ExtractEntities(nt)).Values(SignalEntity)
		assert.Contains(t, values, "Coinbase")
		assert.Contains(t, values, "Kraken")
	})

	t.Run("sentence starters are not entities", func(t *testing.T) {
		t.Parallel()
		nt := Normalize("Investors bought the dip. Trading resumed.")
		assert.Empty(t, ExtractEntities(nt))
	})

	t.Run("possessives are normalized", func(t *testing.T) {
		t.Parallel()
		nt := Normalize("Tether's reserves report cited BlackRock's filing.")
		values := SignalSet(ExtractEntities(nt)).Values(SignalEntity)
		assert.Contains(t, values, "BlackRock")
	})
}

func TestExtractJurisdictionSignals(t *testing.T) {
	t.Parallel()

	t.Run("acronyms are case sensitive", func(t *testing.T) {
		t.Parallel()
		nt := Normalize("They told us the plan was ready.")
		assert.Empty(t, ExtractJurisdictionSignals(nt))

		nt = Normalize("The US plan was ready.")
		sigs := ExtractJurisdictionSignals(nt)
		require.NotEmpty(t, sigs)
		assert.Equal(t, "US", sigs[0].Value)
		assert.Equal(t, cueRegion, sigs[0].Detail)
	})

	t.Run("regulators carry their region", func(t *testing.T) {
		t.Parallel()
		nt := Normalize("The SEC and the FCA both commented.")
		sigs := SignalSet(ExtractJurisdictionSignals(nt))
		values := sigs.Values(SignalJurisdiction)
		assert.Contains(t, values, "US")
		assert.Contains(t, values, "EUROPE")
		for _, s := range sigs {
			assert.Equal(t, cueRegulator, s.Detail)
		}
	})

	t.Run("venues are implied cues", func(t *testing.T) {
		t.Parallel()
		nt := Normalize("Shares listed on nasdaq jumped.")
		sigs := ExtractJurisdictionSignals(nt)
		require.Len(t, sigs, 1)
		assert.Equal(t, "US", sigs[0].Value)
		assert.Equal(t, cueVenue, sigs[0].Detail)
		assert.InDelta(t, 0.6, sigs[0].Strength, 1e-9)
	})
}

func TestExtractSentiment(t *testing.T) {
	t.Parallel()

	t.Run("neutral default", func(t *testing.T) {
		t.Parallel()
		sigs := ExtractSentiment(Normalize("The weather was nice today."))
		require.Len(t, sigs, 1)
		assert.Equal(t, "neutral", sigs[0].Value)
		assert.InDelta(t, 0.5, sigs[0].Strength, 1e-9)
	})

	t.Run("negative dominates positive", func(t *testing.T) {
		t.Parallel()
		sigs := ExtractSentiment(Normalize("Approval celebrated, then the exchange was hacked."))
		require.Len(t, sigs, 1)
		assert.Equal(t, "negative", sigs[0].Value)
	})

	t.Run("strength grows with hits", func(t *testing.T) {
		t.Parallel()
		one := ExtractSentiment(Normalize("inflows continued"))[0]
		two := ExtractSentiment(Normalize("record inflows surged"))[0]
		assert.Greater(t, two.Strength, one.Strength)
		assert.LessOrEqual(t, two.Strength, 0.95)
	})
}

func TestExtractSignalsPoolOrder(t *testing.T) {
	t.Parallel()

	nt := Normalize("Coinbase saw Bitcoin inflows after SEC approval.")
	first := ExtractSignals(t.Context(), nt)

	// Kinds are pooled in a fixed order regardless of goroutine completion.
	for range 20 {
		again := ExtractSignals(t.Context(), nt)
		require.Equal(t, first, again)
	}

	kinds := []SignalKind{}
	for _, s := range first {
		kinds = append(kinds, s.Kind)
	}
	assert.IsNonDecreasing(t, indexOfKinds(kinds))
}

func indexOfKinds(kinds []SignalKind) []int {
	order := map[SignalKind]int{
		SignalAsset: 0, SignalEntity: 1, SignalJurisdiction: 2, SignalSentiment: 3,
	}
	out := make([]int, len(kinds))
	for i, k := range kinds {
		out[i] = order[k]
	}
	return out
}

func TestSignalSetHelpers(t *testing.T) {
	t.Parallel()

	set := SignalSet{
		{Kind: SignalAsset, Value: "BTC"},
		{Kind: SignalAsset, Value: "ETH"},
		{Kind: SignalAsset, Value: "BTC"},
		{Kind: SignalEntity, Value: "Coinbase"},
		{Kind: SignalSentiment, Value: "negative"},
	}

	assert.Equal(t, []string{"BTC", "ETH"}, set.Values(SignalAsset))
	assert.Len(t, set.OfKind(SignalAsset), 3)
	assert.Equal(t, "negative", set.Sentiment())
	assert.Equal(t, "neutral", SignalSet{}.Sentiment())
}
