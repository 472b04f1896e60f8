package parser

// CandidateEvent is a provisional classification hypothesis produced by the
// generator. Candidates are never mutated after creation; scoring derives a
// ScoredCandidate instead.
type CandidateEvent struct {
	EventType string
	Subtype   string

	// Signals contributing corroboration for this candidate (assets and
	// entities from the pool).
	Signals SignalSet

	BaseWeight     float64
	BaseConfidence float64
	Precedence     int
	Severity       SeverityClass

	// TriggerSpan is the span in normalized text that fired the rule;
	// FirstMention is its start mapped back to the original text, which is
	// what tie-breaking orders by.
	TriggerSpan  Span
	FirstMention int

	// Seq is the generation order, the final tie-break.
	Seq int
}

// GenerateCandidates scans the normalized text against the table's rules and
// emits zero or more candidates. A rule fires at most once per distinct
// triggering span; several spans for the same rule yield several candidates
// differing only in mention position. Which one survives is the selector's
// job, not this stage's.
func GenerateCandidates(nt NormalizedText, signals SignalSet, table *RuleTable, cryptoRelevant bool) []CandidateEvent {
	contributing := contributingSignals(signals)

	var out []CandidateEvent
	seq := 0
	for _, rule := range table.Rules {
		if !ruleGated(nt, signals, rule, cryptoRelevant) {
			continue
		}

		seen := make(map[Span]struct{})
		for _, trigger := range rule.Triggers {
			for _, span := range findPhrase(nt.Folded, trigger) {
				if _, dup := seen[span]; dup {
					continue
				}
				seen[span] = struct{}{}
				out = append(out, CandidateEvent{
					EventType:      rule.EventType,
					Subtype:        rule.Subtype,
					Signals:        contributing,
					BaseWeight:     rule.Weight,
					BaseConfidence: rule.Confidence,
					Precedence:     rule.Precedence,
					Severity:       rule.Severity,
					TriggerSpan:    span,
					FirstMention:   nt.OriginalOffset(span.Start),
					Seq:            seq,
				})
				seq++
			}
		}
	}
	return out
}

// ruleGated checks a rule's co-occurrence and signal requirements.
func ruleGated(nt NormalizedText, signals SignalSet, rule Rule, cryptoRelevant bool) bool {
	if rule.RequireCrypto && !cryptoRelevant {
		return false
	}
	for _, kind := range rule.RequireKinds {
		if len(signals.OfKind(kind)) == 0 {
			return false
		}
	}
	for _, alternatives := range rule.Requires {
		matched := false
		for _, phrase := range alternatives {
			if len(findPhrase(nt.Folded, phrase)) > 0 {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func contributingSignals(signals SignalSet) SignalSet {
	var out SignalSet
	for _, sig := range signals {
		if sig.Kind == SignalAsset || sig.Kind == SignalEntity {
			out = append(out, sig)
		}
	}
	return out
}
