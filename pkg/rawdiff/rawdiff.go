// Package rawdiff produces the ordered per-line operation sequence that
// feeds the classifier: each line of the old and new documents marked
// unchanged, removed, or added by a line-mode LCS diff. The classifier
// treats this package as an opaque, deterministic collaborator.
package rawdiff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/linesift/linesift/pkg/textutil"
)

// Kind is the raw operation applied to one line.
type Kind int

const (
	// Unchanged marks a line present in both documents.
	Unchanged Kind = iota

	// Removed marks a line present only in the old document.
	Removed

	// Added marks a line present only in the new document.
	Added
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case Removed:
		return "removed"
	case Added:
		return "added"
	default:
		return "unchanged"
	}
}

// LineOp is one raw diff operation on one line. Text carries the line
// without its terminator.
type LineOp struct {
	Text string
	Kind Kind
}

// Lines computes the raw line-operation sequence between two documents
// using a line-mode LCS diff. Output order is old-document order with added
// lines interleaved at their insertion points, which is the input contract
// of the change-block segmenter.
func Lines(oldText, newText string) []LineOp {
	if oldText == "" && newText == "" {
		return nil
	}

	dmp := diffmatchpatch.New()
	// Determinism: an internal timeout would make output machine-dependent.
	dmp.DiffTimeout = 0

	chars1, chars2, lineArray := dmp.DiffLinesToChars(terminated(oldText), terminated(newText))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(chars1, chars2, false), lineArray)

	var ops []LineOp

	for _, df := range diffs {
		kind := Unchanged

		switch df.Type {
		case diffmatchpatch.DiffDelete:
			kind = Removed
		case diffmatchpatch.DiffInsert:
			kind = Added
		case diffmatchpatch.DiffEqual:
		}

		for _, line := range textutil.SplitLines(df.Text) {
			ops = append(ops, LineOp{Text: line, Kind: kind})
		}
	}

	return ops
}

// terminated guarantees a trailing newline so line-mode diffing treats the
// final line as a whole line.
func terminated(text string) string {
	if text == "" || strings.HasSuffix(text, "\n") {
		return text
	}

	return text + "\n"
}
