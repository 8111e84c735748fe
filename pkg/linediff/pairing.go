package linediff

import "sort"

// PairKind is the local classification of one block-level pairing.
type PairKind int

const (
	// PairRemoved marks a removed line with no acceptable partner.
	PairRemoved PairKind = iota

	// PairAdded marks an added line with no acceptable partner.
	PairAdded

	// PairModified marks a committed removed/added pair.
	PairModified
)

// Pairing is the block-local pairing of one line (or pair of lines).
// RemovedIndex and AddedIndex are positions within the block's slices;
// -1 marks an absent side.
type Pairing struct {
	Kind         PairKind
	RemovedIndex int
	AddedIndex   int
	Similarity   float64
}

// matrixCell is one candidate pairing during greedy selection.
type matrixCell struct {
	removed  int
	added    int
	score    float64
	locality int // |original removed index - original added index|
}

// pairBlock selects pairings for one block by greedy maximum-weight matching:
// repeatedly commit the highest-scoring unconsumed cell while it reaches the
// modified threshold, then classify the remainder as pure removes and adds.
//
// This is a deliberate approximation of the exact bipartite optimum, chosen
// for near-linear behavior on large blocks. Ties prefer the pair whose
// original positions are closest, which keeps diffs visually local.
func pairBlock(block ChangeBlock, matrix *SimilarityMatrix, threshold float64) []Pairing {
	cells := make([]matrixCell, 0, len(block.Removed)*len(block.Added))

	for i, removed := range block.Removed {
		for j, added := range block.Added {
			score := matrix.At(i, j)
			if score < threshold {
				continue
			}

			cells = append(cells, matrixCell{
				removed:  i,
				added:    j,
				score:    score,
				locality: absInt(removed.Index - added.Index),
			})
		}
	}

	sort.Slice(cells, func(a, b int) bool {
		if cells[a].score != cells[b].score {
			return cells[a].score > cells[b].score
		}

		if cells[a].locality != cells[b].locality {
			return cells[a].locality < cells[b].locality
		}

		if cells[a].removed != cells[b].removed {
			return cells[a].removed < cells[b].removed
		}

		return cells[a].added < cells[b].added
	})

	removedTaken := make([]bool, len(block.Removed))
	addedTaken := make([]bool, len(block.Added))

	var pairings []Pairing

	for _, cell := range cells {
		if removedTaken[cell.removed] || addedTaken[cell.added] {
			continue
		}

		removedTaken[cell.removed] = true
		addedTaken[cell.added] = true

		pairings = append(pairings, Pairing{
			Kind:         PairModified,
			RemovedIndex: cell.removed,
			AddedIndex:   cell.added,
			Similarity:   cell.score,
		})
	}

	for i := range block.Removed {
		if !removedTaken[i] {
			pairings = append(pairings, Pairing{Kind: PairRemoved, RemovedIndex: i, AddedIndex: -1})
		}
	}

	for j := range block.Added {
		if !addedTaken[j] {
			pairings = append(pairings, Pairing{Kind: PairAdded, RemovedIndex: -1, AddedIndex: j})
		}
	}

	return pairings
}

// absInt returns the absolute value of an int.
func absInt(v int) int {
	if v < 0 {
		return -v
	}

	return v
}
