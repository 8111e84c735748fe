package linediff

// Line is one line of one side of the diff, immutable once produced by the
// raw-diff step. Index is the 0-based original position within its side and
// is unique and monotonically increasing there.
type Line struct {
	Text  string
	Index int
}

// ChangeBlock is one maximal contiguous run of removed lines immediately
// followed by a maximal contiguous run of added lines in the raw diff. It is
// the unit of local pairing: created by the segmenter, consumed by the matrix
// builder and pairing engine, discarded after classification.
type ChangeBlock struct {
	ID      int
	Removed []Line
	Added   []Line
}

// ChangedLines returns the number of lines the block touches on both sides.
func (b ChangeBlock) ChangedLines() int {
	return len(b.Removed) + len(b.Added)
}
