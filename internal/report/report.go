// Package report provides the serializable form of a classification result
// and codec-based persistence for it.
package report

import (
	"time"

	"github.com/linesift/linesift/pkg/linediff"
	"github.com/linesift/linesift/pkg/worddiff"
)

// FormatVersion identifies the report schema. Bumped on incompatible change.
const FormatVersion = 1

// Report is the persisted form of one diff invocation.
type Report struct {
	Version     int         `json:"version"               yaml:"version"`
	GeneratedAt time.Time   `json:"generated_at"          yaml:"generated_at"`
	OldPath     string      `json:"old_path,omitempty"    yaml:"old_path,omitempty"`
	NewPath     string      `json:"new_path,omitempty"    yaml:"new_path,omitempty"`
	Language    string      `json:"language,omitempty"    yaml:"language,omitempty"`
	Stats       Stats       `json:"stats"                 yaml:"stats"`
	Detection   Detection   `json:"detection"             yaml:"detection"`
	Lines       []LineEntry `json:"lines"                 yaml:"lines"`
	Moves       []Move      `json:"moves,omitempty"       yaml:"moves,omitempty"`
	BlockMoves  []BlockMove `json:"block_moves,omitempty" yaml:"block_moves,omitempty"`
}

// Stats mirrors the engine statistics.
type Stats struct {
	Added       int   `json:"added"        yaml:"added"`
	Removed     int   `json:"removed"      yaml:"removed"`
	Modified    int   `json:"modified"     yaml:"modified"`
	Moved       int   `json:"moved"        yaml:"moved"`
	Unchanged   int   `json:"unchanged"    yaml:"unchanged"`
	OldLines    int   `json:"old_lines"    yaml:"old_lines"`
	NewLines    int   `json:"new_lines"    yaml:"new_lines"`
	CacheHits   int64 `json:"cache_hits"   yaml:"cache_hits"`
	CacheMisses int64 `json:"cache_misses" yaml:"cache_misses"`
}

// Detection mirrors the engine detection outcome.
type Detection struct {
	Ran     bool   `json:"ran"              yaml:"ran"`
	Skipped bool   `json:"skipped"          yaml:"skipped"`
	Partial bool   `json:"partial"          yaml:"partial"`
	Reason  string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// LineEntry is one classified line. Indexes are 0-based; -1 marks an absent
// side.
type LineEntry struct {
	Class       string  `json:"class"                  yaml:"class"`
	Text        string  `json:"text,omitempty"         yaml:"text,omitempty"`
	RemovedText string  `json:"removed_text,omitempty" yaml:"removed_text,omitempty"`
	AddedText   string  `json:"added_text,omitempty"   yaml:"added_text,omitempty"`
	OldIndex    int     `json:"old_index"              yaml:"old_index"`
	NewIndex    int     `json:"new_index"              yaml:"new_index"`
	Similarity  float64 `json:"similarity,omitempty"   yaml:"similarity,omitempty"`
	Words       []Span  `json:"words,omitempty"        yaml:"words,omitempty"`
	Chars       []Span  `json:"chars,omitempty"        yaml:"chars,omitempty"`
}

// Span is one sub-line diff segment.
type Span struct {
	Text    string `json:"text"              yaml:"text"`
	Added   bool   `json:"added,omitempty"   yaml:"added,omitempty"`
	Removed bool   `json:"removed,omitempty" yaml:"removed,omitempty"`
}

// Move is one single-line move record.
type Move struct {
	FromIndex  int     `json:"from_index" yaml:"from_index"`
	ToIndex    int     `json:"to_index"   yaml:"to_index"`
	FromBlock  int     `json:"from_block" yaml:"from_block"`
	ToBlock    int     `json:"to_block"   yaml:"to_block"`
	Similarity float64 `json:"similarity" yaml:"similarity"`
}

// BlockMove is one contiguous moved-run record.
type BlockMove struct {
	FromStart  int     `json:"from_start" yaml:"from_start"`
	ToStart    int     `json:"to_start"   yaml:"to_start"`
	Size       int     `json:"size"       yaml:"size"`
	Similarity float64 `json:"similarity" yaml:"similarity"`
}

// Meta carries invocation metadata into the report header.
type Meta struct {
	OldPath  string
	NewPath  string
	Language string
}

// FromResult converts an engine result into its persisted form.
func FromResult(result *linediff.Result, meta Meta) *Report {
	rep := &Report{
		Version:     FormatVersion,
		GeneratedAt: time.Now().UTC(),
		OldPath:     meta.OldPath,
		NewPath:     meta.NewPath,
		Language:    meta.Language,
		Stats: Stats{
			Added:       result.Stats.Added,
			Removed:     result.Stats.Removed,
			Modified:    result.Stats.Modified,
			Moved:       result.Stats.Moved,
			Unchanged:   result.Stats.Unchanged,
			OldLines:    result.Stats.OldLines,
			NewLines:    result.Stats.NewLines,
			CacheHits:   result.Stats.CacheHits,
			CacheMisses: result.Stats.CacheMisses,
		},
		Detection: Detection{
			Ran:     result.Detection.Ran,
			Skipped: result.Detection.Skipped,
			Partial: result.Detection.Partial,
			Reason:  result.Detection.Reason,
		},
		Lines: make([]LineEntry, 0, len(result.Lines)),
	}

	for _, line := range result.Lines {
		rep.Lines = append(rep.Lines, LineEntry{
			Class:       line.Class.String(),
			Text:        line.Text,
			RemovedText: line.RemovedText,
			AddedText:   line.AddedText,
			OldIndex:    line.OldIndex,
			NewIndex:    line.NewIndex,
			Similarity:  line.Similarity,
			Words:       spansFrom(line.SubLineWords),
			Chars:       spansFrom(line.SubLineChars),
		})
	}

	for _, move := range result.Moves {
		rep.Moves = append(rep.Moves, Move(move))
	}

	for _, bm := range result.BlockMoves {
		rep.BlockMoves = append(rep.BlockMoves, BlockMove(bm))
	}

	return rep
}

func spansFrom(spans []worddiff.Span) []Span {
	if len(spans) == 0 {
		return nil
	}

	out := make([]Span, 0, len(spans))

	for _, s := range spans {
		out = append(out, Span(s))
	}

	return out
}
