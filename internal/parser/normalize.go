// Package parser implements the deterministic classification and extraction
// pipeline: normalization, signal extraction, candidate generation, scoring,
// primary-event selection, jurisdiction resolution, and versioned taxonomy
// mapping. The pipeline performs no I/O and shares no mutable state between
// invocations; the only shared data is the read-only rule tables.
package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Span is a half-open byte range [Start, End) into the normalized text.
type Span struct {
	Start int
	End   int
}

// NormalizedText is the immutable working representation of one input.
// Text is the NFC-normalized, whitespace-collapsed form; Folded is an
// ASCII-lowercased copy of Text with identical byte layout, so offsets found
// in Folded are valid in Text. The span index maps normalized byte offsets
// back to byte offsets in Original, which is what first-mention tie-breaking
// orders by.
type NormalizedText struct {
	Original string
	Text     string
	Folded   string

	spanMap []int
}

// Normalize canonicalizes raw text. It is pure and total over any valid
// UTF-8 string, including the empty string, and idempotent: normalizing
// already-normalized text is a no-op.
func Normalize(raw string) NormalizedText {
	var (
		out      strings.Builder
		spanMap  = make([]int, 0, len(raw))
		pending  = false
		pendAt   = 0
		iter     norm.Iter
	)
	iter.InitString(norm.NFC, raw)

	for !iter.Done() {
		srcPos := iter.Pos()
		chunk := iter.Next()

		for i := 0; i < len(chunk); {
			r, size := utf8.DecodeRune(chunk[i:])
			if unicode.IsSpace(r) {
				if !pending {
					pending = true
					pendAt = srcPos
				}
				i += size
				continue
			}
			if pending && out.Len() > 0 {
				out.WriteByte(' ')
				spanMap = append(spanMap, pendAt)
			}
			pending = false
			out.Write(chunk[i : i+size])
			// Bytes inside a recomposed chunk all map to the chunk start;
			// first-mention ordering only needs span starts to be monotone.
			for j := 0; j < size; j++ {
				spanMap = append(spanMap, srcPos)
			}
			i += size
		}
	}

	text := out.String()
	return NormalizedText{
		Original: raw,
		Text:     text,
		Folded:   asciiFold(text),
		spanMap:  spanMap,
	}
}

// OriginalOffset maps a byte offset in Text back to a byte offset in
// Original. Offsets past the end map to len(Original).
func (n NormalizedText) OriginalOffset(off int) int {
	if off < 0 {
		return 0
	}
	if off >= len(n.spanMap) {
		return len(n.Original)
	}
	return n.spanMap[off]
}

// asciiFold lowercases ASCII letters only, preserving byte length so that
// offsets in the folded string are valid in the source string.
func asciiFold(s string) string {
	b := []byte(s)
	changed := false
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
			changed = true
		}
	}
	if !changed {
		return s
	}
	return string(b)
}
