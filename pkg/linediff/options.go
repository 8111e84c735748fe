package linediff

import (
	"errors"
	"fmt"
	"time"

	"github.com/linesift/linesift/pkg/alg/linehash"
	"github.com/linesift/linesift/pkg/budget"
)

// Default option values. Thresholds are empirically tuned; the adaptive
// block-move relaxation in particular is behavioral, not load-bearing for
// correctness.
const (
	// DefaultModifiedThreshold is the minimum similarity for a removed/added
	// pair to classify as Modified rather than a separate remove and add.
	DefaultModifiedThreshold = 0.50

	// DefaultMoveThreshold is the minimum similarity for a cross-block pair
	// to classify as a pure move. Pairs between the modified and move
	// thresholds classify as moved-and-modified.
	DefaultMoveThreshold = 0.90

	// DefaultFastThreshold is the fuzzy-signature similarity below which the
	// expensive word-level comparison is skipped entirely.
	DefaultFastThreshold = 0.30

	// DefaultMinBlockSize is the minimum contiguous run length reported as a
	// block move.
	DefaultMinBlockSize = 3

	// DefaultMaxBlockSize caps contiguous run growth during move detection.
	DefaultMaxBlockSize = 100

	// DefaultMinLinesForDetection is the changed-line count below which move
	// detection is skipped for lack of signal.
	DefaultMinLinesForDetection = 5

	// DefaultMaxLinesForDetection is the changed-line count above which move
	// detection is skipped for cost control.
	DefaultMaxLinesForDetection = 50000

	// DefaultNumBands is the number of LSH bands over the fuzzy signature.
	DefaultNumBands = 8

	// DefaultMaxBlocksReturned caps how many block moves are reported.
	DefaultMaxBlocksReturned = 50
)

// ErrInvalidOptions is returned by Validate for any out-of-range field.
var ErrInvalidOptions = errors.New("linediff: invalid options")

// DetectMode controls whether move detection runs.
type DetectMode int

const (
	// DetectAuto runs move detection when the changed-line count is within
	// the detection governance window.
	DetectAuto DetectMode = iota

	// DetectOn requests move detection explicitly. The governance window
	// still applies: the detector refuses degenerate inputs by contract.
	DetectOn

	// DetectOff disables move detection.
	DetectOff
)

// Options is the single configuration surface of one diff invocation. Every
// recognized field is enumerated here and defaulted by DefaultOptions;
// Validate runs once at the pipeline entry point.
type Options struct {
	// Language selects word-boundary heuristics for sub-line diffs.
	// Empty means code-style boundaries.
	Language string

	// ModifiedThreshold is the minimum similarity for a Modified pairing.
	ModifiedThreshold float64

	// MoveThreshold is the minimum similarity for a pure move.
	MoveThreshold float64

	// FastThreshold is the fuzzy prefilter cutoff for tier-2 comparison.
	FastThreshold float64

	// MinBlockSize is the minimum block-move run length.
	MinBlockSize int

	// MaxBlockSize caps block-move run growth.
	MaxBlockSize int

	// MinLinesForDetection is the lower governance bound for move detection.
	MinLinesForDetection int

	// MaxLinesForDetection is the upper governance bound for move detection.
	MaxLinesForDetection int

	// NumBands is the LSH band count; it must divide SignatureWidth.
	NumBands int

	// SignatureWidth is the fuzzy signature width in bits.
	SignatureWidth int

	// MaxBlocksReturned caps reported block moves.
	MaxBlocksReturned int

	// MaxOperations is the move-detection operation budget.
	MaxOperations int64

	// Timeout is the move-detection wall-clock budget.
	Timeout time.Duration

	// DetectMoves controls whether move detection runs.
	DetectMoves DetectMode
}

// DefaultOptions returns Options with every field at its default.
func DefaultOptions() Options {
	return Options{
		ModifiedThreshold:    DefaultModifiedThreshold,
		MoveThreshold:        DefaultMoveThreshold,
		FastThreshold:        DefaultFastThreshold,
		MinBlockSize:         DefaultMinBlockSize,
		MaxBlockSize:         DefaultMaxBlockSize,
		MinLinesForDetection: DefaultMinLinesForDetection,
		MaxLinesForDetection: DefaultMaxLinesForDetection,
		NumBands:             DefaultNumBands,
		SignatureWidth:       linehash.DefaultWidth,
		MaxBlocksReturned:    DefaultMaxBlocksReturned,
		MaxOperations:        budget.DefaultMaxOperations,
		Timeout:              budget.DefaultTimeout,
		DetectMoves:          DetectAuto,
	}
}

// Validate checks every field once. All pipeline entry points call it before
// touching input.
func (o Options) Validate() error {
	for _, th := range []struct {
		name  string
		value float64
	}{
		{"modifiedThreshold", o.ModifiedThreshold},
		{"moveThreshold", o.MoveThreshold},
		{"fastThreshold", o.FastThreshold},
	} {
		if th.value < 0 || th.value > 1 {
			return fmt.Errorf("%w: %s %v outside [0, 1]", ErrInvalidOptions, th.name, th.value)
		}
	}

	if o.ModifiedThreshold > o.MoveThreshold {
		return fmt.Errorf("%w: modifiedThreshold %v above moveThreshold %v",
			ErrInvalidOptions, o.ModifiedThreshold, o.MoveThreshold)
	}

	if o.MinBlockSize < 1 {
		return fmt.Errorf("%w: minBlockSize %d below 1", ErrInvalidOptions, o.MinBlockSize)
	}

	if o.MaxBlockSize < o.MinBlockSize {
		return fmt.Errorf("%w: maxBlockSize %d below minBlockSize %d",
			ErrInvalidOptions, o.MaxBlockSize, o.MinBlockSize)
	}

	if o.MinLinesForDetection < 0 || o.MaxLinesForDetection < o.MinLinesForDetection {
		return fmt.Errorf("%w: detection window [%d, %d]",
			ErrInvalidOptions, o.MinLinesForDetection, o.MaxLinesForDetection)
	}

	if o.SignatureWidth < 1 || o.SignatureWidth > linehash.MaxWidth {
		return fmt.Errorf("%w: signatureWidth %d outside [1, %d]",
			ErrInvalidOptions, o.SignatureWidth, linehash.MaxWidth)
	}

	if o.NumBands < 1 || o.SignatureWidth%o.NumBands != 0 {
		return fmt.Errorf("%w: numBands %d must divide signatureWidth %d",
			ErrInvalidOptions, o.NumBands, o.SignatureWidth)
	}

	if o.MaxBlocksReturned < 1 {
		return fmt.Errorf("%w: maxBlocksReturned %d below 1", ErrInvalidOptions, o.MaxBlocksReturned)
	}

	return nil
}
