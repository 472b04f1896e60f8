package parser

import "sort"

// Sentinel scores for the empty candidate set, kept apart from the rule
// tables so the "no match" path is byte-stable across taxonomy edits.
const (
	unknownImpact     = 0.2
	unknownConfidence = 0.4
	miscImpact        = 0.25
	miscConfidence    = 0.45
)

// SelectPrimary reduces the scored candidate set to exactly one winner.
//
// The ordering is total: impact descending, confidence descending,
// precedence rank ascending, first-mention offset in the original text
// ascending, then generation order. Same candidates in, same winner out,
// every call.
//
// An empty set selects the taxonomy's reserved catch-all: the crypto default
// (MISC_OTHER in v2) when the signal pool showed crypto relevance, otherwise
// UNKNOWN.
func SelectPrimary(candidates []ScoredCandidate, table *RuleTable, cryptoRelevant bool) ScoredCandidate {
	if len(candidates) == 0 {
		if cryptoRelevant && table.CryptoDefault != "" {
			return ScoredCandidate{
				CandidateEvent: CandidateEvent{EventType: table.CryptoDefault},
				ImpactScore:    miscImpact,
				Confidence:     miscConfidence,
			}
		}
		return ScoredCandidate{
			CandidateEvent: CandidateEvent{EventType: table.Unknown},
			ImpactScore:    unknownImpact,
			Confidence:     unknownConfidence,
		}
	}

	ordered := make([]ScoredCandidate, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.ImpactScore != b.ImpactScore {
			return a.ImpactScore > b.ImpactScore
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.Precedence != b.Precedence {
			return a.Precedence < b.Precedence
		}
		if a.FirstMention != b.FirstMention {
			return a.FirstMention < b.FirstMention
		}
		return a.Seq < b.Seq
	})
	return ordered[0]
}
