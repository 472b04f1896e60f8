package parser

// ScoredCandidate is a CandidateEvent plus its computed scores. Both scores
// are pure functions of the candidate, the signal pool, and the rule
// weights: no randomness, no clock, no external state.
type ScoredCandidate struct {
	CandidateEvent
	ImpactScore float64
	Confidence  float64
}

// Score derives a ScoredCandidate.
//
// impact     = clamp01(0.7*baseWeight + 0.15*meanSignalStrength + severityBoost)
// confidence = clamp01(baseConfidence + 0.05*min(len(signals), 4))
//
// The rule weight dominates impact; signal strength nudges it; the severity
// class lifts exploit/enforcement families over routine flows. Confidence
// tracks corroboration count only, independent of impact.
func Score(c CandidateEvent) ScoredCandidate {
	impact := 0.7*c.BaseWeight + 0.15*meanStrength(c.Signals) + c.Severity.Boost()

	corroborating := len(c.Signals)
	if corroborating > 4 {
		corroborating = 4
	}
	confidence := c.BaseConfidence + 0.05*float64(corroborating)

	return ScoredCandidate{
		CandidateEvent: c,
		ImpactScore:    clamp01(impact),
		Confidence:     clamp01(confidence),
	}
}

// ScoreAll scores every candidate, preserving generation order.
func ScoreAll(candidates []CandidateEvent) []ScoredCandidate {
	scored := make([]ScoredCandidate, len(candidates))
	for i, c := range candidates {
		scored[i] = Score(c)
	}
	return scored
}

func meanStrength(signals SignalSet) float64 {
	if len(signals) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range signals {
		sum += s.Strength
	}
	return sum / float64(len(signals))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
