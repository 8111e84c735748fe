package linediff

import (
	"unicode/utf8"

	"github.com/linesift/linesift/pkg/worddiff"
)

// fastPenalty scales the fuzzy score of pairs that fail the prefilter: a
// cheap, conservative lower bound so no pair is ever fully excluded from
// pairing consideration.
const fastPenalty = 0.5

// SimilarityMatrix holds the removed-by-added pairwise scores of one block.
// Scores are in [0, 1]; 1.0 means content-identical after normalization.
type SimilarityMatrix struct {
	scores [][]float64
}

// At returns the score of the (removed, added) pair.
func (m *SimilarityMatrix) At(removed, added int) float64 {
	return m.scores[removed][added]
}

// Dims returns the matrix dimensions (removed count, added count).
func (m *SimilarityMatrix) Dims() (int, int) {
	if len(m.scores) == 0 {
		return 0, 0
	}

	return len(m.scores), len(m.scores[0])
}

// buildMatrix scores every removed/added pair of one block with the two-tier
// strategy: the O(1) signature similarity first, then the exact word-level
// comparison only for pairs that pass the fuzzy prefilter. This bounds the
// expensive comparisons to the prefiltered fraction of the N*M pairs.
func (e *engine) buildMatrix(block ChangeBlock) (*SimilarityMatrix, error) {
	scores := make([][]float64, len(block.Removed))

	for i, removed := range block.Removed {
		scores[i] = make([]float64, len(block.Added))
		removedFP := e.cache.Lookup(removed.Text)

		for j, added := range block.Added {
			addedFP := e.cache.Lookup(added.Text)

			score, err := e.scorePair(removedFP, addedFP)
			if err != nil {
				return nil, err
			}

			scores[i][j] = score
		}
	}

	return &SimilarityMatrix{scores: scores}, nil
}

// scorePair runs the two-tier comparison for one pair of fingerprints.
func (e *engine) scorePair(a, b fingerprint) (float64, error) {
	sigSim, err := a.sig.Similarity(b.sig)
	if err != nil {
		return 0, err
	}

	if sigSim < e.opts.FastThreshold {
		return sigSim * fastPenalty, nil
	}

	return e.exactSimilarity(a.normalized, b.normalized), nil
}

// exactSimilarity is the tier-2 score: exact equality after normalization is
// 1.0; otherwise a Dice-style coefficient over the unchanged characters of
// the word-level diff. Equality is decided on the strings themselves, never
// on hashes, so a digest collision can never produce a false 1.0.
func (e *engine) exactSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}

	unchanged := worddiff.UnchangedChars(e.differ.Words(a, b))

	return diceScore(unchanged, utf8.RuneCountInString(a), utf8.RuneCountInString(b))
}

// charOverlapSimilarity is the fast heuristic used to score block-move runs:
// a Dice-style coefficient over the character multiset intersection. Much
// cheaper than a word-level diff and good enough for runs that are already
// anchored by exact hash matches.
func charOverlapSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}

	counts := make(map[rune]int)

	lenA := 0

	for _, r := range a {
		counts[r]++
		lenA++
	}

	overlap := 0
	lenB := 0

	for _, r := range b {
		lenB++

		if counts[r] > 0 {
			counts[r]--
			overlap++
		}
	}

	return diceScore(overlap, lenA, lenB)
}

// diceScore computes 2*shared/(lenA+lenB), defining two empty strings as
// fully similar.
func diceScore(shared, lenA, lenB int) float64 {
	if lenA+lenB == 0 {
		return 1.0
	}

	return 2 * float64(shared) / float64(lenA+lenB)
}
