package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rotisserie/eris"

	"github.com/sells-group/eventwire/internal/model"
)

// SeverityClass buckets event families by newsworthiness. The scorer turns
// the class into a flat impact boost, so exploits and enforcement outrank
// routine flows without any per-rule branching.
type SeverityClass int

const (
	SeverityRoutine SeverityClass = iota
	SeverityElevated
	SeverityCritical
)

// Boost returns the impact boost for the class.
func (s SeverityClass) Boost() float64 {
	switch s {
	case SeverityElevated:
		return 0.05
	case SeverityCritical:
		return 0.12
	default:
		return 0
	}
}

// Rule binds a trigger pattern set to an event type. Rules are data: new
// event types are added by adding rows, not code paths.
//
// Triggers fire the rule once per distinct matching span. Requires is a
// conjunction of alternative sets: every inner set must have at least one
// phrase co-occurring anywhere in the text. RequireKinds demands at least
// one pooled signal per listed kind, and RequireCrypto gates the rule on
// overall crypto relevance of the input.
type Rule struct {
	EventType     string
	Subtype       string
	Triggers      []string
	Requires      [][]string
	RequireKinds  []SignalKind
	RequireCrypto bool

	Weight     float64
	Confidence float64
	Precedence int
	Severity   SeverityClass
}

// RuleTable is one taxonomy version's rule set plus its reserved catch-all
// sentinels. Tables are loaded once at process start and never mutated.
type RuleTable struct {
	Version model.SchemaVersion
	Rules   []Rule

	// Sentinels for the empty candidate set.
	Unknown       string
	CryptoDefault string // catch-all for crypto-relevant unmatched text; empty falls back to Unknown
}

// Validate checks table consistency. Violations are programming errors and
// fatal at process start, never per-request.
func (t *RuleTable) Validate() error {
	if !t.Version.IsValid() {
		return eris.Errorf("rules: invalid taxonomy version %q", t.Version)
	}
	if !model.IsValidEventType(t.Version, t.Unknown) {
		return eris.Errorf("rules: %s unknown sentinel %q outside taxonomy", t.Version, t.Unknown)
	}
	if t.CryptoDefault != "" && !model.IsValidEventType(t.Version, t.CryptoDefault) {
		return eris.Errorf("rules: %s catch-all %q outside taxonomy", t.Version, t.CryptoDefault)
	}

	precedence := make(map[string]int)
	for i, r := range t.Rules {
		if !model.IsValidEventType(t.Version, r.EventType) {
			return eris.Errorf("rules: %s rule %d event type %q outside taxonomy", t.Version, i, r.EventType)
		}
		if len(r.Triggers) == 0 {
			return eris.Errorf("rules: %s rule %d (%s) has no triggers", t.Version, i, r.EventType)
		}
		if r.Weight < 0 || r.Weight > 1 {
			return eris.Errorf("rules: %s rule %d (%s) weight %v outside [0,1]", t.Version, i, r.EventType, r.Weight)
		}
		if r.Confidence < 0 || r.Confidence > 1 {
			return eris.Errorf("rules: %s rule %d (%s) confidence %v outside [0,1]", t.Version, i, r.EventType, r.Confidence)
		}
		if r.Precedence < 1 {
			return eris.Errorf("rules: %s rule %d (%s) precedence %d must be >= 1", t.Version, i, r.EventType, r.Precedence)
		}
		if prev, ok := precedence[r.EventType]; ok && prev != r.Precedence {
			return eris.Errorf("rules: %s event type %s has conflicting precedence %d vs %d", t.Version, r.EventType, prev, r.Precedence)
		}
		precedence[r.EventType] = r.Precedence
		for _, trig := range r.Triggers {
			if strings.TrimSpace(trig) == "" {
				return eris.Errorf("rules: %s rule %d (%s) has an empty trigger", t.Version, i, r.EventType)
			}
		}
		for _, set := range r.Requires {
			if len(set) == 0 {
				return eris.Errorf("rules: %s rule %d (%s) has an empty co-occurrence set", t.Version, i, r.EventType)
			}
		}
	}
	return nil
}

// cryptoCues mark the input as crypto-relevant even without an extracted
// asset. Used for the MISC_OTHER / UNKNOWN distinction and for rules gated
// by RequireCrypto.
var cryptoCues = []string{
	"crypto", "cryptocurrency", "blockchain", "bitcoin", "ethereum",
	"stablecoin", "token", "defi", "exchange", "wallet", "web3", "onchain",
}

// CryptoRelevant reports whether the signal pool or a lexical cue ties the
// text to crypto at all.
func CryptoRelevant(nt NormalizedText, signals SignalSet) bool {
	if len(signals.OfKind(SignalAsset)) > 0 {
		return true
	}
	for _, cue := range cryptoCues {
		if len(findPhrase(nt.Folded, cue)) > 0 {
			return true
		}
	}
	return false
}

// findPhrase returns all word-bounded occurrences of phrase in haystack.
// The phrase is matched literally; both sides must not touch a letter or
// digit.
func findPhrase(haystack, phrase string) []Span {
	var out []Span
	for from := 0; from < len(haystack); {
		idx := strings.Index(haystack[from:], phrase)
		if idx < 0 {
			break
		}
		start := from + idx
		end := start + len(phrase)
		if wordBoundary(haystack, start, end) {
			out = append(out, Span{Start: start, End: end})
		}
		from = start + 1
	}
	return out
}

func wordBoundary(s string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	if end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
