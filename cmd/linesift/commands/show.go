package commands

import (
	"github.com/spf13/cobra"

	"github.com/linesift/linesift/internal/render"
	"github.com/linesift/linesift/internal/report"
)

// ShowCommand holds the flags of the show command.
type ShowCommand struct {
	noColor   bool
	showMoves bool
}

// NewShowCommand creates the show command, which renders a saved report.
func NewShowCommand() *cobra.Command {
	sc := &ShowCommand{}

	cmd := &cobra.Command{
		Use:   "show <report>",
		Short: "Render a previously saved report",
		Args:  cobra.ExactArgs(1),
		RunE:  sc.run,
	}

	cmd.Flags().BoolVar(&sc.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVar(&sc.showMoves, "show-moves", false, "List move records after the summary")

	return cmd
}

func (sc *ShowCommand) run(cmd *cobra.Command, args []string) error {
	rep, err := report.Load(args[0], codecForPath(args[0]))
	if err != nil {
		return err
	}

	renderer := &render.Renderer{
		Color:     !sc.noColor,
		ShowMoves: sc.showMoves,
	}

	return renderer.Render(cmd.OutOrStdout(), rep.ToResult())
}
