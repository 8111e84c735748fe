package config

import (
	"errors"
	"time"

	"github.com/linesift/linesift/pkg/linediff"
)

// Config is the top-level configuration struct for linesift.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Diff   DiffConfig   `mapstructure:"diff"`
	Output OutputConfig `mapstructure:"output"`
}

// DiffConfig holds the classification engine knobs.
type DiffConfig struct {
	Language             string  `mapstructure:"language"`
	ModifiedThreshold    float64 `mapstructure:"modified_threshold"`
	MoveThreshold        float64 `mapstructure:"move_threshold"`
	FastThreshold        float64 `mapstructure:"fast_threshold"`
	MinBlockSize         int     `mapstructure:"min_block_size"`
	MaxBlockSize         int     `mapstructure:"max_block_size"`
	MinLinesForDetection int     `mapstructure:"min_lines_for_detection"`
	MaxLinesForDetection int     `mapstructure:"max_lines_for_detection"`
	NumBands             int     `mapstructure:"num_bands"`
	SignatureWidth       int     `mapstructure:"signature_width"`
	MaxBlocksReturned    int     `mapstructure:"max_blocks_returned"`
	MaxOperations        int64   `mapstructure:"max_operations"`
	TimeoutMS            int     `mapstructure:"timeout_ms"`
	DetectMoves          string  `mapstructure:"detect_moves"`
}

// OutputConfig holds rendering and report settings.
type OutputConfig struct {
	Format   string `mapstructure:"format"`
	Color    bool   `mapstructure:"color"`
	Compress bool   `mapstructure:"compress"`
}

// Default configuration values.
const (
	DefaultOutputFormat   = "text"
	DefaultOutputColor    = true
	DefaultOutputCompress = false
	DefaultDetectMoves    = "auto"
	DefaultTimeoutMS      = 5000
)

// Detect mode names accepted by diff.detect_moves.
const (
	detectAuto = "auto"
	detectOn   = "on"
	detectOff  = "off"
)

// Output format names accepted by output.format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Sentinel errors for configuration validation.
var (
	// ErrInvalidFormat indicates output.format is not a known format name.
	ErrInvalidFormat = errors.New("output.format must be text, json, or yaml")
	// ErrInvalidDetectMoves indicates diff.detect_moves is not a known mode.
	ErrInvalidDetectMoves = errors.New("diff.detect_moves must be auto, on, or off")
	// ErrInvalidTimeout indicates diff.timeout_ms is negative.
	ErrInvalidTimeout = errors.New("diff.timeout_ms must be non-negative")
)

// Validate checks Config invariants and returns the first error found.
// Engine thresholds are validated by the engine itself via ToOptions.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return ErrInvalidFormat
	}

	switch c.Diff.DetectMoves {
	case detectAuto, detectOn, detectOff:
	default:
		return ErrInvalidDetectMoves
	}

	if c.Diff.TimeoutMS < 0 {
		return ErrInvalidTimeout
	}

	return c.ToOptions().Validate()
}

// ToOptions converts the diff section into engine options.
func (c *Config) ToOptions() linediff.Options {
	opts := linediff.Options{
		Language:             c.Diff.Language,
		ModifiedThreshold:    c.Diff.ModifiedThreshold,
		MoveThreshold:        c.Diff.MoveThreshold,
		FastThreshold:        c.Diff.FastThreshold,
		MinBlockSize:         c.Diff.MinBlockSize,
		MaxBlockSize:         c.Diff.MaxBlockSize,
		MinLinesForDetection: c.Diff.MinLinesForDetection,
		MaxLinesForDetection: c.Diff.MaxLinesForDetection,
		NumBands:             c.Diff.NumBands,
		SignatureWidth:       c.Diff.SignatureWidth,
		MaxBlocksReturned:    c.Diff.MaxBlocksReturned,
		MaxOperations:        c.Diff.MaxOperations,
		Timeout:              time.Duration(c.Diff.TimeoutMS) * time.Millisecond,
	}

	switch c.Diff.DetectMoves {
	case detectOn:
		opts.DetectMoves = linediff.DetectOn
	case detectOff:
		opts.DetectMoves = linediff.DetectOff
	default:
		opts.DetectMoves = linediff.DetectAuto
	}

	return opts
}
