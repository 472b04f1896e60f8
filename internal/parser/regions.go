package parser

import (
	"regexp"

	"github.com/sells-group/eventwire/internal/model"
)

// Jurisdiction cue classes. Regions and named regulators are explicit cues;
// market venues and financial-center cities only imply a region.
const (
	cueRegion    = "region"
	cueRegulator = "regulator"
	cueVenue     = "venue"
)

type jurisdictionCue struct {
	re           *regexp.Regexp
	jurisdiction model.Jurisdiction
	class        string

	// Acronym cues match against the original-cased text: "US" is a
	// jurisdiction, "us" is a pronoun.
	caseSensitive bool
}

// jurisdictionCues matches explicit country/region names, named regulators,
// and market venues. Nothing is ever inferred from currency, language, or
// general context.
var jurisdictionCues = []jurisdictionCue{
	// US
	{re: regexp.MustCompile(`\bunited states\b`), jurisdiction: model.JurisdictionUS, class: cueRegion},
	{re: regexp.MustCompile(`\bU\.?S\.?\b`), jurisdiction: model.JurisdictionUS, class: cueRegion, caseSensitive: true},
	{re: regexp.MustCompile(`\bSEC\b`), jurisdiction: model.JurisdictionUS, class: cueRegulator, caseSensitive: true},
	{re: regexp.MustCompile(`\bCFTC\b`), jurisdiction: model.JurisdictionUS, class: cueRegulator, caseSensitive: true},
	{re: regexp.MustCompile(`\bDOJ\b`), jurisdiction: model.JurisdictionUS, class: cueRegulator, caseSensitive: true},
	{re: regexp.MustCompile(`\bFINRA\b`), jurisdiction: model.JurisdictionUS, class: cueRegulator, caseSensitive: true},
	{re: regexp.MustCompile(`\bOFAC\b`), jurisdiction: model.JurisdictionUS, class: cueRegulator, caseSensitive: true},
	{re: regexp.MustCompile(`\bnyse\b`), jurisdiction: model.JurisdictionUS, class: cueVenue},
	{re: regexp.MustCompile(`\bnasdaq\b`), jurisdiction: model.JurisdictionUS, class: cueVenue},
	{re: regexp.MustCompile(`\bwall street\b`), jurisdiction: model.JurisdictionUS, class: cueVenue},

	// Europe (incl. UK and Russia, mirroring the response taxonomy)
	{re: regexp.MustCompile(`\beuropean union\b`), jurisdiction: model.JurisdictionEurope, class: cueRegion},
	{re: regexp.MustCompile(`\bEU\b`), jurisdiction: model.JurisdictionEurope, class: cueRegion, caseSensitive: true},
	{re: regexp.MustCompile(`\bunited kingdom\b`), jurisdiction: model.JurisdictionEurope, class: cueRegion},
	{re: regexp.MustCompile(`\bUK\b`), jurisdiction: model.JurisdictionEurope, class: cueRegion, caseSensitive: true},
	{re: regexp.MustCompile(`\brussia(?:n)?\b`), jurisdiction: model.JurisdictionEurope, class: cueRegion},
	{re: regexp.MustCompile(`\bESMA\b`), jurisdiction: model.JurisdictionEurope, class: cueRegulator, caseSensitive: true},
	{re: regexp.MustCompile(`\bmica\b`), jurisdiction: model.JurisdictionEurope, class: cueRegulator},
	{re: regexp.MustCompile(`\bECB\b`), jurisdiction: model.JurisdictionEurope, class: cueRegulator, caseSensitive: true},
	{re: regexp.MustCompile(`\bFCA\b`), jurisdiction: model.JurisdictionEurope, class: cueRegulator, caseSensitive: true},
	{re: regexp.MustCompile(`\bmoscow\b`), jurisdiction: model.JurisdictionEurope, class: cueVenue},
	{re: regexp.MustCompile(`\blondon\b`), jurisdiction: model.JurisdictionEurope, class: cueVenue},

	// Americas outside the US
	{re: regexp.MustCompile(`\bcanada\b`), jurisdiction: model.JurisdictionAmericasNonUS, class: cueRegion},
	{re: regexp.MustCompile(`\bmexico\b`), jurisdiction: model.JurisdictionAmericasNonUS, class: cueRegion},
	{re: regexp.MustCompile(`\bbrazil\b`), jurisdiction: model.JurisdictionAmericasNonUS, class: cueRegion},
	{re: regexp.MustCompile(`\bargentina\b`), jurisdiction: model.JurisdictionAmericasNonUS, class: cueRegion},
	{re: regexp.MustCompile(`\bchile\b`), jurisdiction: model.JurisdictionAmericasNonUS, class: cueRegion},
	{re: regexp.MustCompile(`\bOSC\b`), jurisdiction: model.JurisdictionAmericasNonUS, class: cueRegulator, caseSensitive: true},
	{re: regexp.MustCompile(`\bCSA\b`), jurisdiction: model.JurisdictionAmericasNonUS, class: cueRegulator, caseSensitive: true},

	// Asia & Middle East
	{re: regexp.MustCompile(`\bjapan\b`), jurisdiction: model.JurisdictionAsia, class: cueRegion},
	{re: regexp.MustCompile(`\bsingapore\b`), jurisdiction: model.JurisdictionAsia, class: cueRegion},
	{re: regexp.MustCompile(`\bhong\s+kong\b`), jurisdiction: model.JurisdictionAsia, class: cueRegion},
	{re: regexp.MustCompile(`\b(?:south |north )?korea\b`), jurisdiction: model.JurisdictionAsia, class: cueRegion},
	{re: regexp.MustCompile(`\bindia\b`), jurisdiction: model.JurisdictionAsia, class: cueRegion},
	{re: regexp.MustCompile(`\bchina\b`), jurisdiction: model.JurisdictionAsia, class: cueRegion},
	{re: regexp.MustCompile(`\bUAE\b`), jurisdiction: model.JurisdictionAsia, class: cueRegion, caseSensitive: true},
	{re: regexp.MustCompile(`\bunited arab emirates\b`), jurisdiction: model.JurisdictionAsia, class: cueRegion},
	{re: regexp.MustCompile(`\bMAS\b`), jurisdiction: model.JurisdictionAsia, class: cueRegulator, caseSensitive: true},
	{re: regexp.MustCompile(`\bdubai\b`), jurisdiction: model.JurisdictionAsia, class: cueVenue},
	{re: regexp.MustCompile(`\babu dhabi\b`), jurisdiction: model.JurisdictionAsia, class: cueVenue},

	// Oceania
	{re: regexp.MustCompile(`\baustralia\b`), jurisdiction: model.JurisdictionOceania, class: cueRegion},
	{re: regexp.MustCompile(`\bnew zealand\b`), jurisdiction: model.JurisdictionOceania, class: cueRegion},
	{re: regexp.MustCompile(`\bASIC\b`), jurisdiction: model.JurisdictionOceania, class: cueRegulator, caseSensitive: true},

	// Africa
	{re: regexp.MustCompile(`\bnigeria\b`), jurisdiction: model.JurisdictionAfrica, class: cueRegion},
	{re: regexp.MustCompile(`\bkenya\b`), jurisdiction: model.JurisdictionAfrica, class: cueRegion},
	{re: regexp.MustCompile(`\bsouth africa\b`), jurisdiction: model.JurisdictionAfrica, class: cueRegion},
}

func cueStrength(class string) float64 {
	switch class {
	case cueRegion:
		return 0.95
	case cueRegulator:
		return 0.9
	default:
		return 0.6
	}
}

// ExtractJurisdictionSignals finds explicit jurisdiction cues. The cue class
// is carried in Signal.Detail for the resolver's basis reporting.
func ExtractJurisdictionSignals(nt NormalizedText) []Signal {
	var out []Signal
	for _, cue := range jurisdictionCues {
		haystack := nt.Folded
		if cue.caseSensitive {
			haystack = nt.Text
		}
		for _, loc := range cue.re.FindAllStringIndex(haystack, -1) {
			out = append(out, Signal{
				Kind:     SignalJurisdiction,
				Value:    string(cue.jurisdiction),
				Span:     Span{Start: loc[0], End: loc[1]},
				Strength: cueStrength(cue.class),
				Detail:   cue.class,
			})
		}
	}
	return out
}
