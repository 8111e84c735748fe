package linediff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptions_Valid(t *testing.T) {
	t.Parallel()

	require.NoError(t, DefaultOptions().Validate())
}

func TestOptionsValidate_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"modified threshold above one", func(o *Options) { o.ModifiedThreshold = 1.1 }},
		{"move threshold negative", func(o *Options) { o.MoveThreshold = -0.1 }},
		{"fast threshold above one", func(o *Options) { o.FastThreshold = 2 }},
		{"modified above move", func(o *Options) { o.ModifiedThreshold = 0.95 }},
		{"zero min block size", func(o *Options) { o.MinBlockSize = 0 }},
		{"max block below min", func(o *Options) { o.MaxBlockSize = 2 }},
		{"inverted detection window", func(o *Options) { o.MaxLinesForDetection = 1 }},
		{"zero signature width", func(o *Options) { o.SignatureWidth = 0 }},
		{"signature width above cap", func(o *Options) { o.SignatureWidth = 65 }},
		{"bands not dividing width", func(o *Options) { o.NumBands = 7 }},
		{"zero bands", func(o *Options) { o.NumBands = 0 }},
		{"zero max blocks returned", func(o *Options) { o.MaxBlocksReturned = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := DefaultOptions()
			tt.mutate(&opts)

			assert.ErrorIs(t, opts.Validate(), ErrInvalidOptions)
		})
	}
}
