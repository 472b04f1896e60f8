package parser

import "github.com/sells-group/eventwire/internal/model"

// Polarity lexicons. Negative terms dominate when both sides match, which
// suits risk-sensitive consumers.
var negativeTerms = []string{
	"hack", "hacked", "exploit", "breach", "lawsuit", "charges", "indict",
	"ban", "banned", "depeg", "plunge", "crash", "sell-off", "selloff",
	"fraud", "warning", "warned",
}

var positiveTerms = []string{
	"approval", "approved", "inflows", "record", "surge", "surged",
	"partnership", "rally", "adoption", "milestone",
}

// ExtractSentiment produces exactly one sentiment signal. Strength grows
// with the number of matched terms, capped at 0.95; neutral text gets a flat
// 0.5 with a zero span.
func ExtractSentiment(nt NormalizedText) []Signal {
	negHits, negSpan := countPhraseHits(nt.Folded, negativeTerms)
	posHits, posSpan := countPhraseHits(nt.Folded, positiveTerms)

	value := model.SentimentNeutral
	hits := 0
	span := Span{}
	switch {
	case negHits > 0:
		value, hits, span = model.SentimentNegative, negHits, negSpan
	case posHits > 0:
		value, hits, span = model.SentimentPositive, posHits, posSpan
	}

	strength := 0.5
	if hits > 0 {
		strength = 0.5 + 0.15*float64(hits)
		if strength > 0.95 {
			strength = 0.95
		}
	}

	return []Signal{{
		Kind:     SignalSentiment,
		Value:    string(value),
		Span:     span,
		Strength: strength,
	}}
}

// countPhraseHits counts word-bounded occurrences across all phrases and
// returns the earliest matching span.
func countPhraseHits(folded string, phrases []string) (int, Span) {
	total := 0
	first := Span{Start: -1}
	for _, phrase := range phrases {
		for _, sp := range findPhrase(folded, phrase) {
			total++
			if first.Start < 0 || sp.Start < first.Start {
				first = sp
			}
		}
	}
	if first.Start < 0 {
		first = Span{}
	}
	return total, first
}
