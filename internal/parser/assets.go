package parser

import "regexp"

// assetNamePatterns maps spelled-out asset names to tickers. Matching runs
// over the folded text, so patterns are lowercase.
var assetNamePatterns = []struct {
	re     *regexp.Regexp
	ticker string
}{
	{regexp.MustCompile(`\bbitcoin(?:'s|’s)?\b`), "BTC"},
	{regexp.MustCompile(`\bethereum(?:'s|’s)?\b`), "ETH"},
	{regexp.MustCompile(`\bether(?:'s|’s)?\b`), "ETH"},
	{regexp.MustCompile(`\bsolana(?:'s|’s)?\b`), "SOL"},
	{regexp.MustCompile(`\btether(?:'s|’s)?\b`), "USDT"},
	{regexp.MustCompile(`\busdc\b`), "USDC"},
}

var tickerRe = regexp.MustCompile(`(\$)?([A-Z]{2,6})\b`)

// assetAllowlist is the known-ticker vocabulary. Bare uppercase tokens are
// accepted only from this set.
var assetAllowlist = map[string]struct{}{
	"BTC": {}, "ETH": {}, "SOL": {}, "XRP": {}, "BNB": {}, "ADA": {},
	"DOGE": {}, "LTC": {}, "AVAX": {}, "DOT": {}, "LINK": {}, "UNI": {},
	"AAVE": {}, "USDT": {}, "USDC": {},
}

// assetDenylist rejects ambiguous uppercase tokens that are common words,
// org names, or market shorthand rather than assets. Applied even to
// $-prefixed tokens.
var assetDenylist = map[string]struct{}{
	"USD": {}, "EUR": {}, "GBP": {}, "CEO": {}, "CTO": {}, "CFO": {},
	"ETF": {}, "IPO": {}, "SEC": {}, "CFTC": {}, "DOJ": {}, "FCA": {},
	"US": {}, "UK": {}, "EU": {}, "UAE": {}, "NYSE": {}, "API": {},
	"AI": {}, "DEFI": {}, "NFT": {}, "THE": {}, "AND": {}, "FOR": {},
	"NEW": {}, "ALL": {}, "ONE": {},
}

// ExtractAssets finds asset tickers. It favors precision over recall:
// spelled-out names map through a fixed table, bare uppercase tokens must be
// allowlisted, and $-prefixed tokens pass the heuristic unless deny-listed.
func ExtractAssets(nt NormalizedText) []Signal {
	var out []Signal

	for _, p := range assetNamePatterns {
		for _, loc := range p.re.FindAllStringIndex(nt.Folded, -1) {
			out = append(out, Signal{
				Kind:     SignalAsset,
				Value:    p.ticker,
				Span:     Span{Start: loc[0], End: loc[1]},
				Strength: 0.9,
			})
		}
	}

	for _, m := range tickerRe.FindAllStringSubmatchIndex(nt.Text, -1) {
		dollar := m[2] >= 0
		token := nt.Text[m[4]:m[5]]
		if _, denied := assetDenylist[token]; denied {
			continue
		}
		_, allowed := assetAllowlist[token]
		switch {
		case allowed:
			out = append(out, Signal{
				Kind:     SignalAsset,
				Value:    token,
				Span:     Span{Start: m[0], End: m[1]},
				Strength: 0.8,
			})
		case dollar:
			// Unknown but cashtagged, e.g. "$PEPE".
			out = append(out, Signal{
				Kind:     SignalAsset,
				Value:    token,
				Span:     Span{Start: m[0], End: m[1]},
				Strength: 0.6,
			})
		}
	}

	return out
}
