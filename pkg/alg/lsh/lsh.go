// Package lsh provides a banded locality-sensitive index over fuzzy line
// signatures. A signature is split into equal bit-bands; lines sharing any
// (band, value) bucket become comparison candidates, turning an all-pairs
// similarity scan into a candidates-only scan.
//
// Bucket collisions are expected and harmless: every candidate pair is
// re-verified with the exact similarity function before being trusted.
// With the default 8 bands over 32 bits, lines at similarity >= 0.90 share
// at least one band with probability around 99.95%.
//
// Bucket keys are compact integers (band << bitsPerBand | bandValue), which
// keeps the hot path free of string allocation.
package lsh

import (
	"errors"
	"slices"

	"github.com/linesift/linesift/pkg/alg/linehash"
)

var (
	// ErrInvalidParams is returned when numBands is not positive or does not
	// evenly divide the signature width.
	ErrInvalidParams = errors.New("lsh: numBands must be positive and divide the signature width")

	// ErrWidthMismatch is returned when a signature's width does not match
	// the width the index was built for.
	ErrWidthMismatch = errors.New("lsh: signature width does not match index width")
)

// Index buckets line identifiers by signature band values. It is built once
// per diff invocation and is not safe for concurrent mutation.
type Index struct {
	numBands    int
	bitsPerBand int
	width       int
	buckets     map[uint64][]int
}

// New creates an index splitting width-bit signatures into numBands bands.
func New(numBands, width int) (*Index, error) {
	if numBands <= 0 || width <= 0 || width%numBands != 0 {
		return nil, ErrInvalidParams
	}

	return &Index{
		numBands:    numBands,
		bitsPerBand: width / numBands,
		width:       width,
		buckets:     make(map[uint64][]int),
	}, nil
}

// NumBands returns the number of bands.
func (idx *Index) NumBands() int {
	return idx.numBands
}

// Insert adds id to the bucket of every band of sig.
func (idx *Index) Insert(id int, sig linehash.Signature) error {
	if sig.Width() != idx.width {
		return ErrWidthMismatch
	}

	for band := range idx.numBands {
		key := idx.bucketKey(band, sig)
		idx.buckets[key] = append(idx.buckets[key], id)
	}

	return nil
}

// Candidates returns the ids sharing at least one band bucket with sig,
// deduplicated and in ascending order for deterministic iteration.
func (idx *Index) Candidates(sig linehash.Signature) ([]int, error) {
	if sig.Width() != idx.width {
		return nil, ErrWidthMismatch
	}

	var out []int

	seen := make(map[int]bool)

	for band := range idx.numBands {
		for _, id := range idx.buckets[idx.bucketKey(band, sig)] {
			if !seen[id] {
				seen[id] = true

				out = append(out, id)
			}
		}
	}

	slices.Sort(out)

	return out, nil
}

// bucketKey packs (band, bandValue) into one integer key.
func (idx *Index) bucketKey(band int, sig linehash.Signature) uint64 {
	mask := uint64(1)<<idx.bitsPerBand - 1
	value := (sig.Bits() >> (band * idx.bitsPerBand)) & mask

	return uint64(band)<<idx.bitsPerBand | value
}
