// Package worddiff provides the word-level and character-level sub-line diff
// collaborators consumed by the line classifier. Both are deterministic pure
// functions of their inputs.
//
// Word boundaries follow UAX #29 segmentation. The language knob only affects
// boundary heuristics: prose languages fold trailing punctuation into the
// preceding word so "end." survives as one token, which reads better in
// rendered sub-line diffs; code languages keep punctuation tokens separate.
package worddiff

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/v2/words"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// proseLanguages are the languages where trailing punctuation merges into the
// preceding word. Everything else is treated as code.
var proseLanguages = map[string]bool{
	"text":     true,
	"plain":    true,
	"markdown": true,
	"html":     true,
}

// Span is one run of sub-line diff output. A span with neither flag set is
// unchanged content present in both inputs.
type Span struct {
	Text    string
	Added   bool
	Removed bool
}

// Differ computes word- and character-level diffs between two lines.
type Differ struct {
	prose bool
	dmp   *diffmatchpatch.DiffMatchPatch
}

// New creates a Differ with the word-boundary heuristics of the given
// language. An empty language selects code heuristics.
func New(language string) *Differ {
	dmp := diffmatchpatch.New()
	// The classifier depends on byte-identical reruns; an internal diff
	// timeout would make output depend on machine speed.
	dmp.DiffTimeout = 0

	return &Differ{
		prose: proseLanguages[strings.ToLower(language)],
		dmp:   dmp,
	}
}

// Words returns the word-level diff between a and b.
func (d *Differ) Words(a, b string) []Span {
	tokensA := d.tokenize(a)
	tokensB := d.tokenize(b)

	encodedA, encodedB, vocab := encodeTokens(tokensA, tokensB)

	diffs := d.dmp.DiffMain(encodedA, encodedB, false)

	return decodeSpans(diffs, vocab)
}

// Chars returns the character-level diff between a and b.
func (d *Differ) Chars(a, b string) []Span {
	diffs := d.dmp.DiffCleanupMerge(d.dmp.DiffMain(a, b, false))

	spans := make([]Span, 0, len(diffs))
	for _, df := range diffs {
		spans = append(spans, spanFromDiff(df))
	}

	return spans
}

// UnchangedChars returns the total rune count of unchanged spans.
// This is the numerator of the Dice-style line similarity.
func UnchangedChars(spans []Span) int {
	total := 0

	for _, s := range spans {
		if !s.Added && !s.Removed {
			total += utf8.RuneCountInString(s.Text)
		}
	}

	return total
}

// tokenize splits a line into UAX #29 word tokens, including whitespace runs.
func (d *Differ) tokenize(line string) []string {
	var tokens []string

	iter := words.FromString(line)
	for iter.Next() {
		tokens = append(tokens, iter.Value())
	}

	if d.prose {
		tokens = mergeTrailingPunct(tokens)
	}

	return tokens
}

// mergeTrailingPunct folds punctuation tokens into the preceding word token.
func mergeTrailingPunct(tokens []string) []string {
	merged := tokens[:0]

	for _, tok := range tokens {
		if len(merged) > 0 && isPunct(tok) && !isPunct(merged[len(merged)-1]) && !isSpace(merged[len(merged)-1]) {
			merged[len(merged)-1] += tok

			continue
		}

		merged = append(merged, tok)
	}

	return merged
}

func isPunct(tok string) bool {
	for _, r := range tok {
		if !unicode.IsPunct(r) {
			return false
		}
	}

	return tok != ""
}

func isSpace(tok string) bool {
	return strings.TrimSpace(tok) == ""
}

// encodeTokens maps each distinct token to one rune so the token sequences
// can be diffed as strings. Runes start above the surrogate range to avoid
// invalid encodings for large vocabularies.
func encodeTokens(a, b []string) (string, string, []string) {
	vocab := make([]string, 0, len(a)+len(b))
	index := make(map[string]rune)

	encode := func(tokens []string) string {
		var sb strings.Builder

		for _, tok := range tokens {
			r, ok := index[tok]
			if !ok {
				r = rune(runeBase + len(vocab))
				index[tok] = r

				vocab = append(vocab, tok)
			}

			sb.WriteRune(r)
		}

		return sb.String()
	}

	encodedA := encode(a)
	encodedB := encode(b)

	return encodedA, encodedB, vocab
}

// runeBase is the first code point used for token encoding: the start of
// the private use area, clear of the surrogate range.
const runeBase = 0xE000

// decodeSpans maps encoded diff output back to token text.
func decodeSpans(diffs []diffmatchpatch.Diff, vocab []string) []Span {
	spans := make([]Span, 0, len(diffs))

	for _, df := range diffs {
		var sb strings.Builder

		for _, r := range df.Text {
			sb.WriteString(vocab[int(r)-runeBase])
		}

		span := spanFromDiff(df)
		span.Text = sb.String()
		spans = append(spans, span)
	}

	return spans
}

// spanFromDiff converts one diffmatchpatch op into a Span.
func spanFromDiff(df diffmatchpatch.Diff) Span {
	return Span{
		Text:    df.Text,
		Added:   df.Type == diffmatchpatch.DiffInsert,
		Removed: df.Type == diffmatchpatch.DiffDelete,
	}
}
