package fetch

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
)

// maxTextChars mirrors the parser's input cap. Anything past it is cut at
// a word boundary.
const maxTextChars = 20000

// noiseLinePatterns mark navigation and boilerplate lines that news sites
// wrap around the article body.
var noiseLinePatterns = []string{
	"cookie", "subscribe", "newsletter", "sign up", "sign in", "log in",
	"advertisement", "sponsored", "related articles", "read more",
	"share this", "follow us", "all rights reserved", "privacy policy",
	"terms of service", "terms of use",
}

// htmlToText extracts readable article text from an HTML document.
func htmlToText(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", eris.Wrap(err, "fetch: parse HTML")
	}

	doc.Find("script, style, noscript, nav, header, footer, aside, form, iframe, svg, figure").Remove()

	root := doc.Find("article").First()
	if root.Length() == 0 {
		root = doc.Find("main").First()
	}
	if root.Length() == 0 {
		root = doc.Find("body").First()
	}

	var lines []string
	root.Find("h1, h2, h3, p, li, blockquote").Each(func(_ int, s *goquery.Selection) {
		line := strings.Join(strings.Fields(s.Text()), " ")
		if line != "" {
			lines = append(lines, line)
		}
	})
	if len(lines) == 0 {
		line := strings.Join(strings.Fields(root.Text()), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}

	return capText(strings.Join(cleanLines(lines), "\n")), nil
}

// cleanLines drops boilerplate: noise phrases, 400+ character walls of
// text without sentence structure, ticker-menu lines, and duplicates.
func cleanLines(lines []string) []string {
	seen := make(map[string]bool, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" || seen[line] {
			continue
		}
		if isNoiseLine(line) {
			continue
		}
		seen[line] = true
		out = append(out, line)
	}
	return out
}

func isNoiseLine(line string) bool {
	lower := strings.ToLower(line)
	if len(line) < 80 {
		for _, pat := range noiseLinePatterns {
			if strings.Contains(lower, pat) {
				return true
			}
		}
	}
	if len(line) > 400 && !strings.ContainsAny(line, ".!?") {
		return true
	}
	if isTickerMenu(line) {
		return true
	}
	return false
}

// isTickerMenu catches price-widget strips like "BTC $64,210 ETH $3,105".
func isTickerMenu(line string) bool {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return false
	}
	symbolish := 0
	for _, f := range fields {
		f = strings.TrimLeft(f, "$")
		f = strings.TrimRight(f, "%")
		if f == "" {
			continue
		}
		upper := f == strings.ToUpper(f) && strings.IndexFunc(f, isLetter) >= 0
		numeric := strings.IndexFunc(f, isDigit) >= 0
		if upper || numeric {
			symbolish++
		}
	}
	return symbolish*10 >= len(fields)*8
}

func isLetter(r rune) bool { return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }

// capText truncates to maxTextChars at a word boundary.
func capText(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxTextChars {
		return s
	}
	cut := s[:maxTextChars]
	if idx := strings.LastIndexAny(cut, " \n"); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut)
}
