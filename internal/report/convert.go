package report

import (
	"github.com/linesift/linesift/pkg/linediff"
	"github.com/linesift/linesift/pkg/worddiff"
)

// classFromName maps persisted class names back to their engine values.
var classFromName = map[string]linediff.LineClass{
	"unchanged":      linediff.ClassUnchanged,
	"added":          linediff.ClassAdded,
	"removed":        linediff.ClassRemoved,
	"modified":       linediff.ClassModified,
	"moved":          linediff.ClassMoved,
	"moved-modified": linediff.ClassMovedModified,
}

// ToResult converts a loaded report back into the engine result form, so a
// saved report can be rendered the same way as a fresh run. Unknown class
// names decode as unchanged.
func (r *Report) ToResult() *linediff.Result {
	result := &linediff.Result{
		Stats: linediff.Statistics{
			Added:       r.Stats.Added,
			Removed:     r.Stats.Removed,
			Modified:    r.Stats.Modified,
			Moved:       r.Stats.Moved,
			Unchanged:   r.Stats.Unchanged,
			OldLines:    r.Stats.OldLines,
			NewLines:    r.Stats.NewLines,
			CacheHits:   r.Stats.CacheHits,
			CacheMisses: r.Stats.CacheMisses,
		},
		Detection: linediff.Detection{
			Ran:     r.Detection.Ran,
			Skipped: r.Detection.Skipped,
			Partial: r.Detection.Partial,
			Reason:  r.Detection.Reason,
		},
		Lines: make([]linediff.ClassifiedLine, 0, len(r.Lines)),
	}

	for _, entry := range r.Lines {
		result.Lines = append(result.Lines, linediff.ClassifiedLine{
			Class:        classFromName[entry.Class],
			Text:         entry.Text,
			RemovedText:  entry.RemovedText,
			AddedText:    entry.AddedText,
			OldIndex:     entry.OldIndex,
			NewIndex:     entry.NewIndex,
			Similarity:   entry.Similarity,
			SubLineWords: spansTo(entry.Words),
			SubLineChars: spansTo(entry.Chars),
		})
	}

	for _, move := range r.Moves {
		result.Moves = append(result.Moves, linediff.MoveRecord(move))
	}

	for _, bm := range r.BlockMoves {
		result.BlockMoves = append(result.BlockMoves, linediff.BlockMoveRecord(bm))
	}

	return result
}

func spansTo(spans []Span) []worddiff.Span {
	if len(spans) == 0 {
		return nil
	}

	out := make([]worddiff.Span, 0, len(spans))

	for _, s := range spans {
		out = append(out, worddiff.Span(s))
	}

	return out
}
