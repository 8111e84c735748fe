// Package main provides the entry point for the linesift CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/linesift/linesift/cmd/linesift/commands"
	"github.com/linesift/linesift/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "linesift",
		Short: "linesift - line-level change classification",
		Long: `linesift classifies the difference between two text documents:
which lines were added, removed, modified in place, or moved, with
sub-line detail for modified lines.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewDiffCommand())
	rootCmd.AddCommand(commands.NewShowCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "linesift %s\n", version.String())
		},
	}
}
