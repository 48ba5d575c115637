// Package diff compares two articles: a word-level content diff plus the
// metadata and performance deltas shown side by side.
package diff

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Span is one run of a word diff. At most one of Added and Removed is set.
type Span struct {
	Value   string `json:"value"`
	Added   bool   `json:"added,omitempty"`
	Removed bool   `json:"removed,omitempty"`
}

// Unchanged reports whether the span appears in both sides.
func (s Span) Unchanged() bool {
	return !s.Added && !s.Removed
}

// Words computes a word-level diff from a to b.
//
// Text is split into runs of word characters, runs of whitespace, and single
// punctuation characters; the token sequences are diffed and adjacent spans
// of the same kind are merged. Identical inputs, empty ones included, yield
// one unchanged span; an empty side yields the other side as a single added
// or removed span.
func Words(a, b string) []Span {
	switch {
	case a == b:
		return []Span{{Value: a}}
	case a == "":
		return []Span{{Value: b, Added: true}}
	case b == "":
		return []Span{{Value: a, Removed: true}}
	}

	enc := newEncoder()
	ra := enc.encode(Tokenize(a))
	rb := enc.encode(Tokenize(b))

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	diffs := dmp.DiffMainRunes(ra, rb, false)

	spans := make([]Span, 0, len(diffs))
	for _, d := range diffs {
		text := enc.decode(d.Text)
		if text == "" {
			continue
		}
		spans = appendSpan(spans, Span{
			Value:   text,
			Added:   d.Type == diffmatchpatch.DiffInsert,
			Removed: d.Type == diffmatchpatch.DiffDelete,
		})
	}
	return spans
}

func appendSpan(spans []Span, s Span) []Span {
	if n := len(spans); n > 0 {
		last := &spans[n-1]
		if last.Added == s.Added && last.Removed == s.Removed {
			last.Value += s.Value
			return spans
		}
	}
	return append(spans, s)
}

// Tokenize splits text into word, whitespace and punctuation tokens.
// Concatenating the tokens reproduces text byte for byte; an invalid UTF-8
// byte is a token of its own.
func Tokenize(text string) []string {
	var tokens []string
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		j := i + size
		switch {
		case r == utf8.RuneError && size == 1:
		case isWordRune(r):
			j = scan(text, j, isWordRune)
		case unicode.IsSpace(r):
			j = scan(text, j, unicode.IsSpace)
		}
		tokens = append(tokens, text[i:j])
		i = j
	}
	return tokens
}

// scan advances from byte offset i while runes satisfy keep.
func scan(text string, i int, keep func(rune) bool) int {
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if (r == utf8.RuneError && size == 1) || !keep(r) {
			break
		}
		i += size
	}
	return i
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// encoder maps each distinct token to a single rune so the character-level
// diff operates on whole tokens.
type encoder struct {
	index  map[string]rune
	tokens []string
}

func newEncoder() *encoder {
	return &encoder{index: make(map[string]rune)}
}

func (e *encoder) encode(tokens []string) []rune {
	out := make([]rune, len(tokens))
	for i, tok := range tokens {
		r, ok := e.index[tok]
		if !ok {
			r = runeFor(len(e.tokens))
			e.index[tok] = r
			e.tokens = append(e.tokens, tok)
		}
		out[i] = r
	}
	return out
}

func (e *encoder) decode(s string) string {
	var b strings.Builder
	for _, r := range s {
		b.WriteString(e.tokens[indexFor(r)])
	}
	return b.String()
}

// runeFor skips the UTF-16 surrogate block so every code is a valid rune.
func runeFor(i int) rune {
	r := rune(i + 1)
	if r >= 0xD800 {
		r += 0x800
	}
	return r
}

func indexFor(r rune) int {
	if r >= 0xE000 {
		r -= 0x800
	}
	return int(r) - 1
}

// Source reconstructs the original text from spans.
func Source(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		if !s.Added {
			b.WriteString(s.Value)
		}
	}
	return b.String()
}

// Target reconstructs the new text from spans.
func Target(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		if !s.Removed {
			b.WriteString(s.Value)
		}
	}
	return b.String()
}

// SpanStats counts spans by kind.
type SpanStats struct {
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Unchanged int `json:"unchanged"`
}

// Changed is the number of added and removed spans.
func (s SpanStats) Changed() int {
	return s.Added + s.Removed
}

// Stats counts spans by kind.
func Stats(spans []Span) SpanStats {
	var st SpanStats
	for _, s := range spans {
		switch {
		case s.Added:
			st.Added++
		case s.Removed:
			st.Removed++
		default:
			st.Unchanged++
		}
	}
	return st
}
