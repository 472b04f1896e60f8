package parser

import "github.com/sells-group/eventwire/internal/model"

// JurisdictionResult reports where an event is attributed and how that was
// derived. Invariants: basis explicit implies confidence >= 0.8; basis none
// implies confidence <= 0.4.
type JurisdictionResult struct {
	Jurisdiction model.Jurisdiction
	Basis        model.JurisdictionBasis
	Confidence   float64
}

// ResolveJurisdiction picks the jurisdiction from the pooled signals and the
// selected event's context. When several jurisdictions appear, the signal
// nearest the winning trigger span wins. No signals means GLOBAL: false
// positives here are worse than defaulting.
func ResolveJurisdiction(signals SignalSet, winner ScoredCandidate) JurisdictionResult {
	cues := signals.OfKind(SignalJurisdiction)
	if len(cues) == 0 {
		return JurisdictionResult{
			Jurisdiction: model.JurisdictionGlobal,
			Basis:        model.BasisNone,
			Confidence:   0.3,
		}
	}

	best := cues[0]
	bestDist := spanDistance(best.Span, winner.TriggerSpan)
	for _, cue := range cues[1:] {
		d := spanDistance(cue.Span, winner.TriggerSpan)
		// Explicit cues outrank implied ones regardless of distance.
		if cueRank(cue) > cueRank(best) {
			continue
		}
		if cueRank(cue) < cueRank(best) || d < bestDist ||
			(d == bestDist && cue.Span.Start < best.Span.Start) {
			best, bestDist = cue, d
		}
	}

	basis := model.BasisExplicit
	confidence := 0.85
	switch best.Detail {
	case cueRegion:
		confidence = 0.9
	case cueRegulator:
		confidence = 0.85
	case cueVenue:
		basis = model.BasisImplied
		confidence = 0.6
	}

	// Corroborating cues for the same jurisdiction raise confidence.
	agreeing := 0
	for _, cue := range cues {
		if cue.Value == best.Value && cue.Span != best.Span {
			agreeing++
		}
	}
	if agreeing > 0 {
		confidence += 0.05
	}
	if confidence > 0.98 {
		confidence = 0.98
	}

	return JurisdictionResult{
		Jurisdiction: model.Jurisdiction(best.Value),
		Basis:        basis,
		Confidence:   confidence,
	}
}

// cueRank orders cue classes: explicit cues (regions, regulators) before
// implied venues.
func cueRank(s Signal) int {
	if s.Detail == cueVenue {
		return 1
	}
	return 0
}

// spanDistance is the gap in bytes between two spans (0 when overlapping).
func spanDistance(a, b Span) int {
	if a.End <= b.Start {
		return b.Start - a.End
	}
	if b.End <= a.Start {
		return a.Start - b.End
	}
	return 0
}
