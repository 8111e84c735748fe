package linediff

import (
	"sort"

	"github.com/linesift/linesift/pkg/alg/linehash"
	"github.com/linesift/linesift/pkg/alg/lsh"
	"github.com/linesift/linesift/pkg/budget"
)

// Detection reason strings for governance refusals.
const (
	reasonDisabled       = "move detection disabled"
	reasonTooFewChanges  = "too few changes"
	reasonTooManyChanges = "too many changes"
)

// backwardGrowthLimit bounds how far a run may grow behind its anchor.
const backwardGrowthLimit = 3

// adaptiveRelaxStep is how much the run-acceptance threshold relaxes per
// line beyond the minimum run size. Longer exact-hash-anchored runs are
// trusted more because spurious long hash coincidences are statistically
// unlikely. Empirically tuned; preserved verbatim for behavioral
// compatibility, not load-bearing for correctness.
const adaptiveRelaxStep = 0.01

// adaptiveFloorRatio floors the relaxed threshold at this fraction of the
// move threshold.
const adaptiveFloorRatio = 0.9

// moveLine is one changed line prepared for move detection: its block, its
// position among all changed lines of its side, and its fingerprint.
type moveLine struct {
	line  Line
	block int
	fp    fingerprint
}

// movePair is one committed cross-block line move. Indexes are originals;
// the texts ride along so the aggregator can emit records and sub-line
// diffs without re-resolving lines.
type movePair struct {
	fromIndex  int
	toIndex    int
	fromBlock  int
	toBlock    int
	fromText   string
	toText     string
	similarity float64
	modified   bool
	inRun      bool
}

// candidateRun is one contiguous exact-hash run before overlap resolution.
// Starts are positions in the detector's global line slices.
type candidateRun struct {
	remStart   int
	addStart   int
	size       int
	similarity float64
}

// moveResult is everything the aggregator needs from move detection.
type moveResult struct {
	bySource   map[int]movePair // keyed by old-side original index.
	byDest     map[int]movePair // keyed by new-side original index.
	moves      []MoveRecord
	blockMoves []BlockMoveRecord
	detection  Detection
}

// emptyMoveResult returns a result with no moves and the given detection.
func emptyMoveResult(det Detection) moveResult {
	return moveResult{
		bySource:  map[int]movePair{},
		byDest:    map[int]movePair{},
		detection: det,
	}
}

// detectMoves finds contiguous runs and single lines that reappear across
// block boundaries, possibly modified. Governance refusals and budget
// exhaustion produce structured Detection outcomes, never errors, and never
// disturb the block-local pairings already computed.
func (e *engine) detectMoves(seg segmentation) (moveResult, error) {
	if e.opts.DetectMoves == DetectOff {
		return emptyMoveResult(Detection{Skipped: true, Reason: reasonDisabled}), nil
	}

	changed := seg.changedLines()

	if changed < e.opts.MinLinesForDetection {
		return emptyMoveResult(Detection{Skipped: true, Reason: reasonTooFewChanges}), nil
	}

	if changed > e.opts.MaxLinesForDetection {
		return emptyMoveResult(Detection{Skipped: true, Reason: reasonTooManyChanges}), nil
	}

	det := &moveDetector{
		engine:  e,
		tracker: budget.NewTracker(e.opts.MaxOperations, e.opts.Timeout),
	}
	det.collectLines(seg)

	return det.run()
}

// moveDetector holds the working state of one detection pass.
type moveDetector struct {
	engine  *engine
	tracker *budget.Tracker

	removed []moveLine
	added   []moveLine

	// addedByHash indexes added lines by content digest, in slice order.
	addedByHash map[linehash.ContentHash][]int

	remTaken []bool
	addTaken []bool

	pairs []movePair
	runs  []BlockMoveRecord

	exhausted bool
}

// collectLines flattens the blocks into the global removed and added slices.
func (d *moveDetector) collectLines(seg segmentation) {
	for _, block := range seg.blocks {
		for _, line := range block.Removed {
			d.removed = append(d.removed, moveLine{
				line:  line,
				block: block.ID,
				fp:    d.engine.cache.Lookup(line.Text),
			})
		}

		for _, line := range block.Added {
			d.added = append(d.added, moveLine{
				line:  line,
				block: block.ID,
				fp:    d.engine.cache.Lookup(line.Text),
			})
		}
	}

	d.addedByHash = make(map[linehash.ContentHash][]int)

	for i, ml := range d.added {
		if ml.fp.hash.IsZero() {
			continue
		}

		d.addedByHash[ml.fp.hash] = append(d.addedByHash[ml.fp.hash], i)
	}

	d.remTaken = make([]bool, len(d.removed))
	d.addTaken = make([]bool, len(d.added))
}

// run executes the detection phases and assembles the result.
func (d *moveDetector) run() (moveResult, error) {
	d.growRuns()

	if !d.exhausted {
		d.matchSinglesByHash()
	}

	if !d.exhausted {
		if err := d.matchSinglesByLSH(); err != nil {
			return moveResult{}, err
		}
	}

	result := moveResult{
		bySource:   make(map[int]movePair, len(d.pairs)),
		byDest:     make(map[int]movePair, len(d.pairs)),
		blockMoves: d.runs,
		detection:  Detection{Ran: true},
	}

	for _, pair := range d.pairs {
		result.bySource[pair.fromIndex] = pair
		result.byDest[pair.toIndex] = pair

		if !pair.inRun {
			result.moves = append(result.moves, MoveRecord{
				FromIndex:  pair.fromIndex,
				ToIndex:    pair.toIndex,
				FromBlock:  pair.fromBlock,
				ToBlock:    pair.toBlock,
				Similarity: pair.similarity,
			})
		}
	}

	if d.exhausted {
		_, cause := d.tracker.Exhausted()
		result.detection.Partial = true
		result.detection.Reason = cause.String()
	}

	return result, nil
}

// growRuns finds contiguous exact-hash runs, scores them, and resolves
// overlaps greedily by size-times-similarity.
func (d *moveDetector) growRuns() {
	var candidates []candidateRun

	covered := make(map[int64]bool)

	for gi := range d.removed {
		if d.removed[gi].fp.hash.IsZero() {
			continue
		}

		for _, ai := range d.addedByHash[d.removed[gi].fp.hash] {
			d.tracker.Spend(1)

			if over, _ := d.tracker.Exhausted(); over {
				d.exhausted = true
				d.resolveRuns(candidates)

				return
			}

			if d.removed[gi].block == d.added[ai].block {
				continue
			}

			if covered[pairKey(gi, ai)] {
				continue
			}

			// Digest equality is never trusted alone.
			if d.removed[gi].fp.normalized != d.added[ai].fp.normalized {
				continue
			}

			run, ok := d.growRun(gi, ai)
			if !ok {
				continue
			}

			for k := range run.size {
				covered[pairKey(run.remStart+k, run.addStart+k)] = true
			}

			candidates = append(candidates, run)
		}
	}

	d.resolveRuns(candidates)
}

// growRun extends an anchor pair forward, then up to backwardGrowthLimit
// lines backward, while consecutive lines keep matching on both sides.
// Returns false if the run is too short or fails the adaptive threshold.
func (d *moveDetector) growRun(gi, ai int) (candidateRun, bool) {
	start, end := 0, 1 // offsets relative to the anchor: [gi+start, gi+end).

	for end-start < d.engine.opts.MaxBlockSize &&
		d.pairMatches(gi+end, ai+end) &&
		d.contiguous(gi+end-1, gi+end, ai+end-1, ai+end) {
		d.tracker.Spend(1)

		end++
	}

	for end-start < d.engine.opts.MaxBlockSize && start > -backwardGrowthLimit &&
		d.pairMatches(gi+start-1, ai+start-1) &&
		d.contiguous(gi+start-1, gi+start, ai+start-1, ai+start) {
		d.tracker.Spend(1)

		start--
	}

	size := end - start
	if size < d.engine.opts.MinBlockSize {
		return candidateRun{}, false
	}

	run := candidateRun{remStart: gi + start, addStart: ai + start, size: size}
	run.similarity = d.scoreRun(run)

	if run.similarity < d.adaptiveThreshold(size) {
		return candidateRun{}, false
	}

	return run, true
}

// pairMatches reports whether the removed and added lines at the given
// global positions are cross-block and equal after normalization.
func (d *moveDetector) pairMatches(gi, ai int) bool {
	if gi < 0 || ai < 0 || gi >= len(d.removed) || ai >= len(d.added) {
		return false
	}

	rem, add := d.removed[gi], d.added[ai]

	if rem.fp.hash.IsZero() || rem.fp.hash != add.fp.hash {
		return false
	}

	if rem.fp.normalized != add.fp.normalized {
		return false
	}

	return rem.block != add.block
}

// contiguous reports whether the two slice positions on each side are
// adjacent in their original documents, not merely in the slices.
func (d *moveDetector) contiguous(gPrev, gNext, aPrev, aNext int) bool {
	return d.removed[gNext].line.Index == d.removed[gPrev].line.Index+1 &&
		d.added[aNext].line.Index == d.added[aPrev].line.Index+1
}

// scoreRun returns the mean per-line raw-text character-overlap similarity.
// Normalized texts inside a run are identical by construction; scoring the
// raw texts lets case- or indentation-shifted moves rank below byte-exact
// ones.
func (d *moveDetector) scoreRun(run candidateRun) float64 {
	total := 0.0

	for k := range run.size {
		d.tracker.Spend(1)

		total += charOverlapSimilarity(d.removed[run.remStart+k].line.Text, d.added[run.addStart+k].line.Text)
	}

	return total / float64(run.size)
}

// adaptiveThreshold relaxes the move threshold slightly for longer runs,
// floored at adaptiveFloorRatio of the configured threshold.
func (d *moveDetector) adaptiveThreshold(size int) float64 {
	threshold := d.engine.opts.MoveThreshold - adaptiveRelaxStep*float64(size-d.engine.opts.MinBlockSize)

	floor := adaptiveFloorRatio * d.engine.opts.MoveThreshold
	if threshold < floor {
		threshold = floor
	}

	return threshold
}

// resolveRuns greedily accepts non-overlapping runs by descending
// size-times-similarity, committing their member lines as move pairs.
func (d *moveDetector) resolveRuns(candidates []candidateRun) {
	sort.Slice(candidates, func(a, b int) bool {
		scoreA := float64(candidates[a].size) * candidates[a].similarity
		scoreB := float64(candidates[b].size) * candidates[b].similarity

		if scoreA != scoreB {
			return scoreA > scoreB
		}

		if candidates[a].similarity != candidates[b].similarity {
			return candidates[a].similarity > candidates[b].similarity
		}

		return candidates[a].remStart < candidates[b].remStart
	})

	accepted := 0

	for _, run := range candidates {
		if accepted >= d.engine.opts.MaxBlocksReturned {
			break
		}

		if d.runOverlapsTaken(run) {
			continue
		}

		for k := range run.size {
			gi, ai := run.remStart+k, run.addStart+k
			d.remTaken[gi] = true
			d.addTaken[ai] = true

			d.pairs = append(d.pairs, movePair{
				fromIndex:  d.removed[gi].line.Index,
				toIndex:    d.added[ai].line.Index,
				fromBlock:  d.removed[gi].block,
				toBlock:    d.added[ai].block,
				fromText:   d.removed[gi].line.Text,
				toText:     d.added[ai].line.Text,
				similarity: run.similarity,
				inRun:      true,
			})
		}

		d.runs = append(d.runs, BlockMoveRecord{
			FromStart:  d.removed[run.remStart].line.Index,
			ToStart:    d.added[run.addStart].line.Index,
			Size:       run.size,
			Similarity: run.similarity,
		})

		accepted++
	}
}

// runOverlapsTaken reports whether any member line is already consumed.
func (d *moveDetector) runOverlapsTaken(run candidateRun) bool {
	for k := range run.size {
		if d.remTaken[run.remStart+k] || d.addTaken[run.addStart+k] {
			return true
		}
	}

	return false
}

// matchSinglesByHash pairs leftover lines by exact digest across blocks,
// preferring the closest destination for visual locality.
func (d *moveDetector) matchSinglesByHash() {
	for gi := range d.removed {
		if d.remTaken[gi] || d.removed[gi].fp.hash.IsZero() {
			continue
		}

		best := -1

		for _, ai := range d.addedByHash[d.removed[gi].fp.hash] {
			d.tracker.Spend(1)

			if over, _ := d.tracker.Exhausted(); over {
				d.exhausted = true

				return
			}

			if d.addTaken[ai] || d.added[ai].block == d.removed[gi].block {
				continue
			}

			if d.removed[gi].fp.normalized != d.added[ai].fp.normalized {
				continue
			}

			if best < 0 || d.closerDest(gi, ai, best) {
				best = ai
			}
		}

		if best >= 0 {
			d.commitSingle(gi, best, 1.0, false)
		}
	}
}

// closerDest reports whether candidate is a closer destination than current
// for the removed line at gi.
func (d *moveDetector) closerDest(gi, candidate, current int) bool {
	distC := absInt(d.added[candidate].line.Index - d.removed[gi].line.Index)
	distB := absInt(d.added[current].line.Index - d.removed[gi].line.Index)

	if distC != distB {
		return distC < distB
	}

	return d.added[candidate].line.Index < d.added[current].line.Index
}

// matchSinglesByLSH pairs the remaining lines through LSH candidate buckets.
// Every bucketed candidate is re-scored with the exact similarity function
// before being trusted; scores at or above the move threshold commit as pure
// moves, scores between the modified and move thresholds commit as
// moved-and-modified.
func (d *moveDetector) matchSinglesByLSH() error {
	index, err := lsh.New(d.engine.opts.NumBands, d.engine.opts.SignatureWidth)
	if err != nil {
		return err
	}

	for ai := range d.added {
		if d.addTaken[ai] || d.added[ai].fp.sig.IsZero() {
			continue
		}

		if err := index.Insert(ai, d.added[ai].fp.sig); err != nil {
			return err
		}
	}

	for gi := range d.removed {
		if d.remTaken[gi] || d.removed[gi].fp.sig.IsZero() {
			continue
		}

		candidates, err := index.Candidates(d.removed[gi].fp.sig)
		if err != nil {
			return err
		}

		best, bestScore := -1, 0.0

		for _, ai := range candidates {
			d.tracker.Spend(1)

			if over, _ := d.tracker.Exhausted(); over {
				d.exhausted = true

				return nil
			}

			if d.addTaken[ai] || d.added[ai].block == d.removed[gi].block {
				continue
			}

			score := d.engine.exactSimilarity(d.removed[gi].fp.normalized, d.added[ai].fp.normalized)

			if score > bestScore || (score == bestScore && best >= 0 && d.closerDest(gi, ai, best)) {
				best, bestScore = ai, score
			}
		}

		if best < 0 || bestScore < d.engine.opts.ModifiedThreshold {
			continue
		}

		d.commitSingle(gi, best, bestScore, bestScore < d.engine.opts.MoveThreshold)
	}

	return nil
}

// commitSingle records one single-line move pair and consumes both lines.
func (d *moveDetector) commitSingle(gi, ai int, similarity float64, modified bool) {
	d.remTaken[gi] = true
	d.addTaken[ai] = true

	d.pairs = append(d.pairs, movePair{
		fromIndex:  d.removed[gi].line.Index,
		toIndex:    d.added[ai].line.Index,
		fromBlock:  d.removed[gi].block,
		toBlock:    d.added[ai].block,
		fromText:   d.removed[gi].line.Text,
		toText:     d.added[ai].line.Text,
		similarity: similarity,
		modified:   modified,
	})
}

// pairKey packs a (removed, added) global position pair into one map key.
func pairKey(gi, ai int) int64 {
	return int64(gi)<<32 | int64(uint32(ai))
}
