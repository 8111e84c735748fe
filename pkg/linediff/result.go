package linediff

import "github.com/linesift/linesift/pkg/worddiff"

// LineClass is the final classification of one output record.
type LineClass int

const (
	// ClassUnchanged marks a line present in both documents at the same
	// relative position.
	ClassUnchanged LineClass = iota

	// ClassAdded marks a line present only in the new document.
	ClassAdded

	// ClassRemoved marks a line present only in the old document.
	ClassRemoved

	// ClassModified marks a removed/added pair rewritten in place.
	ClassModified

	// ClassMoved marks a line that reappeared unmodified at a different
	// position across block boundaries.
	ClassMoved

	// ClassMovedModified marks a line that moved across blocks and was also
	// modified; it carries a sub-line diff like a Modified record.
	ClassMovedModified
)

// String returns the lowercase name of the class.
func (c LineClass) String() string {
	switch c {
	case ClassAdded:
		return "added"
	case ClassRemoved:
		return "removed"
	case ClassModified:
		return "modified"
	case ClassMoved:
		return "moved"
	case ClassMovedModified:
		return "moved-modified"
	default:
		return "unchanged"
	}
}

// ClassifiedLine is one record of the ordered classification stream. Paired
// classes (Modified, Moved, MovedModified, Unchanged) account for one line
// on each side; Added and Removed account for one line on one side.
// Indexes are 0-based originals; -1 marks an absent side.
type ClassifiedLine struct {
	Class LineClass

	// Text is set for Unchanged, Added, Removed, and pure Moved records.
	Text string

	// RemovedText and AddedText are set for Modified and MovedModified.
	RemovedText string
	AddedText   string

	OldIndex int
	NewIndex int

	// Similarity is set for Modified, Moved, and MovedModified records.
	Similarity float64

	// SubLineWords and SubLineChars carry the word- and character-level
	// sub-line diffs of Modified and MovedModified records.
	SubLineWords []worddiff.Span
	SubLineChars []worddiff.Span
}

// MoveRecord reports one single-line move across blocks. FromBlock and
// ToBlock always differ: same-block reuse is handled as local modification,
// never as a move. Each FromIndex and ToIndex appears in at most one record.
type MoveRecord struct {
	FromIndex  int
	ToIndex    int
	FromBlock  int
	ToBlock    int
	Similarity float64
}

// BlockMoveRecord reports one contiguous moved run of at least MinBlockSize
// lines. Accepted records never overlap; overlap resolution keeps the
// highest size-times-similarity score.
type BlockMoveRecord struct {
	FromStart  int
	ToStart    int
	Size       int
	Similarity float64
}

// Detection reports how the move-detection phase ended. It is a structured
// result, never an error: governance refusals set Skipped with a Reason, and
// budget exhaustion sets Partial with whatever moves were confirmed before
// the limit hit. Callers must treat partial as degraded-but-usable.
type Detection struct {
	Ran     bool
	Skipped bool
	Partial bool
	Reason  string
}

// Result is the complete output of one diff invocation.
type Result struct {
	Lines      []ClassifiedLine
	Stats      Statistics
	Moves      []MoveRecord
	BlockMoves []BlockMoveRecord
	Detection  Detection
}
