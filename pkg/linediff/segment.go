package linediff

import "github.com/linesift/linesift/pkg/rawdiff"

// streamEntry is one slot of the output skeleton: either a single unchanged
// line or a whole change block, in original-document order.
type streamEntry struct {
	block    int // block ID, or -1 for an unchanged line.
	text     string
	oldIndex int
	newIndex int
}

// segmentation is the segmenter output: the ordered skeleton plus the blocks
// it references, with per-side line totals for the completeness invariant.
type segmentation struct {
	entries  []streamEntry
	blocks   []ChangeBlock
	oldLines int
	newLines int
}

// segment groups the raw operation sequence into change blocks in one scan.
// Consecutive removed lines followed by consecutive added lines form one
// block; an unchanged line, or a removed line after an added line without an
// intervening unchanged line, closes the block. Original per-side indices
// are preserved on every line for move-detection cross-referencing.
func segment(ops []rawdiff.LineOp) segmentation {
	var seg segmentation

	var (
		removed []Line
		added   []Line
	)

	oldIndex, newIndex := 0, 0

	flush := func() {
		if len(removed) == 0 && len(added) == 0 {
			return
		}

		id := len(seg.blocks)
		seg.blocks = append(seg.blocks, ChangeBlock{ID: id, Removed: removed, Added: added})
		seg.entries = append(seg.entries, streamEntry{block: id})

		removed = nil
		added = nil
	}

	for _, op := range ops {
		switch op.Kind {
		case rawdiff.Unchanged:
			flush()

			seg.entries = append(seg.entries, streamEntry{
				block:    -1,
				text:     op.Text,
				oldIndex: oldIndex,
				newIndex: newIndex,
			})

			oldIndex++
			newIndex++
			seg.oldLines++
			seg.newLines++

		case rawdiff.Removed:
			// A removed line after added lines starts a new block.
			if len(added) > 0 {
				flush()
			}

			removed = append(removed, Line{Text: op.Text, Index: oldIndex})
			oldIndex++
			seg.oldLines++

		case rawdiff.Added:
			added = append(added, Line{Text: op.Text, Index: newIndex})
			newIndex++
			seg.newLines++
		}
	}

	flush()

	return seg
}

// changedLines returns the total changed-line count across all blocks, the
// quantity the detection governance window is measured against.
func (s segmentation) changedLines() int {
	total := 0

	for _, b := range s.blocks {
		total += b.ChangedLines()
	}

	return total
}
