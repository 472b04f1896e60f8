package parser

import (
	"regexp"
	"strings"
	"unicode"
)

var entityTokenRe = regexp.MustCompile(`[A-Za-z][A-Za-z0-9'’\-\.]*`)

// Single capitalized words are kept only when allowlisted; everything else
// needs at least two tokens to count as an entity.
var entitySingleWordAllow = map[string]struct{}{
	"Bybit": {}, "Ledger": {}, "Robinhood": {}, "BlackRock": {},
	"Coinbase": {}, "Binance": {}, "Kraken": {}, "Circle": {},
	"CoinDesk": {}, "Cointelegraph": {}, "Reuters": {},
}

var entitySingleWordDeny = map[string]struct{}{
	"A": {}, "An": {}, "The": {}, "This": {}, "That": {}, "These": {},
	"Those": {}, "Crypto": {}, "Trading": {}, "Tokenized": {}, "Digital": {},
	"New": {}, "York": {}, "White": {}, "House": {},
}

// Capitalized determiners never begin an entity: "The Bank of England" is
// "Bank of England".
var entityLeadingSkip = map[string]struct{}{
	"A": {}, "An": {}, "The": {}, "This": {}, "That": {}, "These": {}, "Those": {},
}

// All-caps tokens that duplicate assets, jurisdictions, or regulators are
// not entities.
var entityAllCapsDeny = map[string]struct{}{
	"USD": {}, "US": {}, "UAE": {}, "EU": {}, "UK": {}, "SEC": {},
	"CFTC": {}, "DOJ": {}, "ETF": {}, "IBAN": {},
}

var entityConnectors = map[string]struct{}{
	"of": {}, "the": {}, "and": {}, "for": {},
}

type entityToken struct {
	text string
	span Span
}

func cleanEntityToken(tok string) string {
	t := strings.Trim(tok, `"'“”‘’.,;:()[]{}`)
	// Normalize possessives like "Saylor's" -> "Saylor".
	t = strings.TrimSuffix(t, "'s")
	t = strings.TrimSuffix(t, "’s")
	return t
}

func isTitleToken(tok string) bool {
	if tok == "" {
		return false
	}
	runes := []rune(tok)
	if !unicode.IsUpper(runes[0]) {
		return false
	}
	// Require a lowercase tail so tickers don't read as Title Case.
	for _, r := range runes[1:] {
		if unicode.IsLower(r) {
			return true
		}
	}
	return false
}

func isAllCapsToken(tok string) bool {
	if len(tok) < 2 {
		return false
	}
	hasAlpha := false
	for _, r := range tok {
		if unicode.IsLetter(r) {
			hasAlpha = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasAlpha
}

// ExtractEntities finds named entities with a conservative proper-noun
// heuristic: runs of capitalized tokens, optionally joined by connector
// words, filtered through stoplists.
func ExtractEntities(nt NormalizedText) []Signal {
	var tokens []entityToken
	for _, loc := range entityTokenRe.FindAllStringIndex(nt.Text, -1) {
		cleaned := cleanEntityToken(nt.Text[loc[0]:loc[1]])
		if cleaned == "" {
			continue
		}
		tokens = append(tokens, entityToken{text: cleaned, span: Span{Start: loc[0], End: loc[1]}})
	}

	var out []Signal
	i := 0
	for i < len(tokens) {
		tok := tokens[i]
		next := ""
		if i+1 < len(tokens) {
			next = tokens[i+1].text
		}

		if _, skip := entityLeadingSkip[tok.text]; skip {
			i++
			continue
		}

		_, capsDenied := entityAllCapsDeny[tok.text]
		starts := isTitleToken(tok.text) ||
			(isAllCapsToken(tok.text) && !capsDenied && isTitleToken(next))
		if !starts {
			i++
			continue
		}

		phrase := []string{tok.text}
		span := tok.span
		i++

		for i < len(tokens) {
			t := tokens[i]
			if _, conn := entityConnectors[strings.ToLower(t.text)]; conn &&
				i+1 < len(tokens) && isTitleToken(tokens[i+1].text) {
				phrase = append(phrase, t.text)
				span.End = t.span.End
				i++
				continue
			}
			if isTitleToken(t.text) {
				phrase = append(phrase, t.text)
				span.End = t.span.End
				i++
				continue
			}
			break
		}

		name := strings.Join(phrase, " ")
		strength := 0.75
		if len(phrase) == 1 {
			if _, denied := entitySingleWordDeny[name]; denied {
				continue
			}
			if _, allowed := entitySingleWordAllow[name]; !allowed {
				// Random single capitalized words are usually sentence
				// starters, not entities.
				continue
			}
			strength = 0.6
		}

		out = append(out, Signal{
			Kind:     SignalEntity,
			Value:    name,
			Span:     span,
			Strength: strength,
		})
	}

	return out
}
