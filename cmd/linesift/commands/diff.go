// Package commands implements CLI command handlers for linesift.
package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/src-d/enry/v2"

	"github.com/linesift/linesift/internal/config"
	"github.com/linesift/linesift/internal/observability"
	"github.com/linesift/linesift/internal/render"
	"github.com/linesift/linesift/internal/report"
	"github.com/linesift/linesift/pkg/linediff"
	"github.com/linesift/linesift/pkg/textutil"
)

var (
	// ErrBinaryInput indicates one of the input files looks binary.
	ErrBinaryInput = errors.New("binary input is not supported")

	// ErrUnknownFormat indicates an unrecognized --format value.
	ErrUnknownFormat = errors.New("unknown output format")
)

// metricsReadTimeout bounds header reads on the scrape endpoint.
const metricsReadTimeout = 10 * time.Second

// DiffCommand holds the flags of the diff command.
type DiffCommand struct {
	configPath string
	format     string
	language   string
	outputPath string
	compress   bool
	noMoves    bool
	noColor    bool
	showMoves  bool
	verbose    bool
	logJSON    bool

	modifiedThreshold float64
	moveThreshold     float64

	metricsAddr string
}

// NewDiffCommand creates the diff command.
func NewDiffCommand() *cobra.Command {
	dc := &DiffCommand{}

	cmd := &cobra.Command{
		Use:   "diff <old-file> <new-file>",
		Short: "Classify line changes between two files",
		Long: `Diff two files and classify every line as unchanged, added, removed,
modified in place, or moved, with sub-line detail for modified lines.`,
		Args: cobra.ExactArgs(2),
		RunE: dc.run,
	}

	cmd.Flags().StringVar(&dc.configPath, "config", "", "Config file path (default: .linesift.yaml in CWD or $HOME)")
	cmd.Flags().StringVar(&dc.format, "format", "", "Output format: text, json, yaml (default from config)")
	cmd.Flags().StringVar(&dc.language, "language", "", "Word-boundary language hint (default: auto-detect)")
	cmd.Flags().StringVarP(&dc.outputPath, "output", "o", "", "Write a report file instead of stdout")
	cmd.Flags().BoolVar(&dc.compress, "compress", false, "LZ4-compress the written report")
	cmd.Flags().BoolVar(&dc.noMoves, "no-moves", false, "Disable move detection")
	cmd.Flags().BoolVar(&dc.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVar(&dc.showMoves, "show-moves", false, "List move records after the summary")
	cmd.Flags().BoolVarP(&dc.verbose, "verbose", "v", false, "Verbose logging")
	cmd.Flags().BoolVar(&dc.logJSON, "log-json", false, "JSON log output")
	cmd.Flags().Float64Var(&dc.modifiedThreshold, "modified-threshold", 0, "Minimum similarity for a modified pairing")
	cmd.Flags().Float64Var(&dc.moveThreshold, "move-threshold", 0, "Minimum similarity for a pure move")
	cmd.Flags().StringVar(&dc.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics at this address until interrupted")

	return cmd
}

func (dc *DiffCommand) run(cmd *cobra.Command, args []string) error {
	logger := dc.newLogger(cmd.ErrOrStderr())

	cfg, err := config.LoadConfig(dc.configPath)
	if err != nil {
		return err
	}

	dc.applyOverrides(cmd, cfg)

	validateErr := cfg.Validate()
	if validateErr != nil {
		return validateErr
	}

	oldPath, newPath := args[0], args[1]

	oldData, err := readInput(oldPath)
	if err != nil {
		return err
	}

	newData, err := readInput(newPath)
	if err != nil {
		return err
	}

	if cfg.Diff.Language == "" {
		cfg.Diff.Language = detectLanguage(newPath, newData)
	}

	logger.Debug("inputs loaded",
		slog.String("old", oldPath),
		slog.String("new", newPath),
		slog.Int("old_lines", textutil.CountLines(oldData)),
		slog.Int("new_lines", textutil.CountLines(newData)),
		slog.String("language", cfg.Diff.Language))

	var metrics *observability.DiffMetrics

	var scrapeHandler http.Handler

	if dc.metricsAddr != "" {
		exporter, exportErr := observability.NewPrometheusExporter()
		if exportErr != nil {
			return exportErr
		}

		metrics, err = observability.NewDiffMetrics(exporter.Meter)
		if err != nil {
			return err
		}

		scrapeHandler = exporter.Handler
	}

	start := time.Now()

	result, err := linediff.Diff(string(oldData), string(newData), cfg.ToOptions())

	elapsed := time.Since(start)

	if err != nil {
		if metrics != nil {
			metrics.RecordError(cmd.Context(), elapsed)
		}

		return err
	}

	if metrics != nil {
		metrics.RecordDiff(cmd.Context(), result, elapsed)
	}

	logger.Info("classified",
		slog.Int("lines", result.Stats.Total()),
		slog.Int("moves", result.Stats.Moved),
		slog.Duration("elapsed", elapsed))

	emitErr := dc.emit(cmd.OutOrStdout(), cfg, result, report.Meta{
		OldPath:  oldPath,
		NewPath:  newPath,
		Language: cfg.Diff.Language,
	})
	if emitErr != nil {
		return emitErr
	}

	if scrapeHandler != nil {
		return dc.serveMetrics(logger, scrapeHandler)
	}

	return nil
}

// newLogger builds the command logger from the verbosity flags.
func (dc *DiffCommand) newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if dc.verbose {
		level = slog.LevelDebug
	}

	return observability.NewLogger(w, level, dc.logJSON)
}

// applyOverrides copies changed flags over the loaded config.
func (dc *DiffCommand) applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	if dc.format != "" {
		cfg.Output.Format = dc.format
	}

	if dc.language != "" {
		cfg.Diff.Language = dc.language
	}

	if dc.noMoves {
		cfg.Diff.DetectMoves = "off"
	}

	if cmd.Flags().Changed("modified-threshold") {
		cfg.Diff.ModifiedThreshold = dc.modifiedThreshold
	}

	if cmd.Flags().Changed("move-threshold") {
		cfg.Diff.MoveThreshold = dc.moveThreshold
	}
}

// emit writes the result to a report file or renders it to w.
func (dc *DiffCommand) emit(w io.Writer, cfg *config.Config, result *linediff.Result, meta report.Meta) error {
	if dc.outputPath != "" {
		compress := dc.compress || cfg.Output.Compress

		return report.Save(dc.outputPath, codecForPath(dc.outputPath), report.FromResult(result, meta), compress)
	}

	switch cfg.Output.Format {
	case config.FormatText:
		renderer := &render.Renderer{
			Color:     cfg.Output.Color && !dc.noColor,
			ShowMoves: dc.showMoves,
		}

		return renderer.Render(w, result)

	case config.FormatJSON:
		return report.NewJSONCodec().Encode(w, report.FromResult(result, meta))

	case config.FormatYAML:
		return report.NewYAMLCodec().Encode(w, report.FromResult(result, meta))

	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, cfg.Output.Format)
	}
}

// serveMetrics blocks serving the scrape endpoint until the process exits.
func (dc *DiffCommand) serveMetrics(logger *slog.Logger, handler http.Handler) error {
	logger.Info("serving metrics", slog.String("addr", dc.metricsAddr))

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	server := &http.Server{
		Addr:              dc.metricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: metricsReadTimeout,
	}

	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve metrics: %w", err)
	}

	return nil
}

// readInput reads one input file and refuses binary content.
func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	if textutil.IsBinary(data) {
		return nil, fmt.Errorf("%w: %s", ErrBinaryInput, path)
	}

	return data, nil
}

// detectLanguage guesses the word-boundary language hint from the file name
// and content. Unknown languages fall back to code-style boundaries.
func detectLanguage(path string, data []byte) string {
	lang := enry.GetLanguage(filepath.Base(path), data)
	if lang == "" || lang == enry.OtherLanguage {
		return ""
	}

	return strings.ToLower(lang)
}

// codecForPath picks the report codec from the output file extension.
func codecForPath(path string) report.Codec {
	trimmed := strings.TrimSuffix(path, ".lz4")

	switch filepath.Ext(trimmed) {
	case ".yaml", ".yml":
		return report.NewYAMLCodec()
	default:
		return report.NewJSONCodec()
	}
}
