// Package render turns a classification result into terminal output: a
// marker-per-line listing followed by a summary table.
package render

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/linesift/linesift/pkg/linediff"
)

// Line markers, one per class.
const (
	markerUnchanged = "  "
	markerAdded     = "+ "
	markerRemoved   = "- "
	markerModified  = "~ "
	markerMoved     = "> "
	markerMovedMod  = "* "
)

// Renderer writes a result as human-readable text. The zero value renders
// without color.
type Renderer struct {
	// Color enables ANSI colors on the line markers and texts.
	Color bool

	// ShowMoves appends the move records after the summary table.
	ShowMoves bool
}

// classStyle returns the color for a class. Unchanged stays unstyled.
func classStyle(class linediff.LineClass) *color.Color {
	switch class {
	case linediff.ClassAdded:
		return color.New(color.FgGreen)
	case linediff.ClassRemoved:
		return color.New(color.FgRed)
	case linediff.ClassModified:
		return color.New(color.FgYellow)
	case linediff.ClassMoved:
		return color.New(color.FgCyan)
	case linediff.ClassMovedModified:
		return color.New(color.FgMagenta)
	default:
		return color.New()
	}
}

// Render writes the line listing and the summary to w.
func (r *Renderer) Render(w io.Writer, result *linediff.Result) error {
	for _, line := range result.Lines {
		err := r.renderLine(w, line)
		if err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "\n%s\n", r.summaryTable(result))
	if err != nil {
		return fmt.Errorf("render summary: %w", err)
	}

	if r.ShowMoves {
		err = r.renderMoves(w, result)
		if err != nil {
			return err
		}
	}

	return nil
}

// renderLine writes one marker-prefixed line. Modified lines show both
// sides; moved lines show their position change.
func (r *Renderer) renderLine(w io.Writer, line linediff.ClassifiedLine) error {
	style := classStyle(line.Class)
	if !r.Color {
		style.DisableColor()
	}

	var err error

	switch line.Class {
	case linediff.ClassModified:
		_, err = style.Fprintf(w, "%s%s\n%s%s\n", markerRemoved, line.RemovedText, markerAdded, line.AddedText)
	case linediff.ClassMovedModified:
		_, err = style.Fprintf(w, "%s%s (moved from line %d, modified)\n",
			markerMovedMod, line.AddedText, line.OldIndex+1)
	case linediff.ClassMoved:
		_, err = style.Fprintf(w, "%s%s (moved from line %d)\n",
			markerMoved, line.Text, line.OldIndex+1)
	case linediff.ClassAdded:
		_, err = style.Fprintf(w, "%s%s\n", markerAdded, line.Text)
	case linediff.ClassRemoved:
		_, err = style.Fprintf(w, "%s%s\n", markerRemoved, line.Text)
	default:
		_, err = fmt.Fprintf(w, "%s%s\n", markerUnchanged, line.Text)
	}

	if err != nil {
		return fmt.Errorf("render line: %w", err)
	}

	return nil
}

// summaryTable builds the class-count summary.
func (r *Renderer) summaryTable(result *linediff.Result) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Class", "Lines"})

	tbl.AppendRow(table.Row{"added", humanize.Comma(int64(result.Stats.Added))})
	tbl.AppendRow(table.Row{"removed", humanize.Comma(int64(result.Stats.Removed))})
	tbl.AppendRow(table.Row{"modified", humanize.Comma(int64(result.Stats.Modified))})
	tbl.AppendRow(table.Row{"moved", humanize.Comma(int64(result.Stats.Moved))})
	tbl.AppendRow(table.Row{"unchanged", humanize.Comma(int64(result.Stats.Unchanged))})
	tbl.AppendFooter(table.Row{"total", humanize.Comma(int64(result.Stats.Total()))})

	out := tbl.Render()

	if note := detectionNote(result.Detection); note != "" {
		out += "\n" + note
	}

	return out
}

// detectionNote describes a skipped or partial detection outcome.
func detectionNote(det linediff.Detection) string {
	switch {
	case det.Partial:
		return fmt.Sprintf("move detection partial: %s", det.Reason)
	case det.Skipped:
		return fmt.Sprintf("move detection skipped: %s", det.Reason)
	default:
		return ""
	}
}

// renderMoves writes the move and block-move records.
func (r *Renderer) renderMoves(w io.Writer, result *linediff.Result) error {
	for _, bm := range result.BlockMoves {
		_, err := fmt.Fprintf(w, "block moved: lines %d-%d -> %d-%d (similarity %.2f)\n",
			bm.FromStart+1, bm.FromStart+bm.Size, bm.ToStart+1, bm.ToStart+bm.Size, bm.Similarity)
		if err != nil {
			return fmt.Errorf("render block move: %w", err)
		}
	}

	for _, move := range result.Moves {
		_, err := fmt.Fprintf(w, "line moved: %d -> %d (similarity %.2f)\n",
			move.FromIndex+1, move.ToIndex+1, move.Similarity)
		if err != nil {
			return fmt.Errorf("render move: %w", err)
		}
	}

	return nil
}
