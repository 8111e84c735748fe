// Package linediff classifies the difference between two versions of a text
// document: which lines are unchanged, added, removed, modified in place, or
// moved, with sub-line word and character detail for modified lines.
//
// The pipeline consumes the raw add/remove/unchanged line sequence of an
// LCS-style diff (see the rawdiff package), segments it into change blocks,
// scores removed/added pairs with a two-tier similarity strategy, pairs them
// greedily within each block, then detects cross-block moves by exact-hash
// run growth and LSH-bucketed candidate search.
//
// One invocation is a single synchronous pass with no I/O and no shared
// state: the hash cache is created fresh per call, so concurrent invocations
// are safe by construction. Output is deterministic: identical input yields
// byte-identical classification.
package linediff

import (
	"github.com/linesift/linesift/pkg/rawdiff"
	"github.com/linesift/linesift/pkg/worddiff"
)

// engine is the per-invocation pipeline state.
type engine struct {
	opts   Options
	cache  *HashCache
	differ *worddiff.Differ
}

// Run classifies a raw line-operation sequence. Options are validated once
// here; the only error conditions are invalid options and mismatched
// signature widths, both configuration bugs. Degenerate inputs (empty,
// single-character lines, unicode, all-duplicate blocks) are normal data.
func Run(ops []rawdiff.LineOp, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	e := &engine{
		opts:   opts,
		cache:  NewHashCache(opts.SignatureWidth),
		differ: worddiff.New(opts.Language),
	}

	seg := segment(ops)

	// Blocks are independent of each other; pairing them sequentially keeps
	// the pipeline deterministic and is fast enough in practice.
	pairings := make([][]Pairing, len(seg.blocks))

	for i, block := range seg.blocks {
		matrix, err := e.buildMatrix(block)
		if err != nil {
			return nil, err
		}

		pairings[i] = pairBlock(block, matrix, opts.ModifiedThreshold)
	}

	mv, err := e.detectMoves(seg)
	if err != nil {
		return nil, err
	}

	return e.aggregate(seg, pairings, mv), nil
}

// Diff is the convenience entry point for hosts holding whole documents: it
// runs the raw line diff and then Run.
func Diff(oldText, newText string, opts Options) (*Result, error) {
	return Run(rawdiff.Lines(oldText, newText), opts)
}
