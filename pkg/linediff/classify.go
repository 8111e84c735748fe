package linediff

// aggregate merges block-local pairings with the move-detection results into
// the final ordered classification stream and summary statistics. Move
// results take priority: a line consumed by a move must not also appear as
// locally modified, so its local pairing partner degrades to a pure add or
// remove.
func (e *engine) aggregate(seg segmentation, pairings [][]Pairing, mv moveResult) *Result {
	result := &Result{
		Moves:      mv.moves,
		BlockMoves: mv.blockMoves,
		Detection:  mv.detection,
	}

	for _, entry := range seg.entries {
		if entry.block < 0 {
			result.Lines = append(result.Lines, ClassifiedLine{
				Class:    ClassUnchanged,
				Text:     entry.text,
				OldIndex: entry.oldIndex,
				NewIndex: entry.newIndex,
			})
			result.Stats.Unchanged++

			continue
		}

		e.emitBlock(result, seg.blocks[entry.block], pairings[entry.block], mv)
	}

	result.Stats.OldLines = seg.oldLines
	result.Stats.NewLines = seg.newLines
	result.Stats.CacheHits = e.cache.Hits()
	result.Stats.CacheMisses = e.cache.Misses()

	return result
}

// emitBlock appends one block's records: the removed side in order, then the
// added side. Moved lines are emitted once, at their destination.
func (e *engine) emitBlock(result *Result, block ChangeBlock, pairings []Pairing, mv moveResult) {
	pairedByRemoved := make(map[int]Pairing)
	pairedByAdded := make(map[int]Pairing)

	for _, p := range pairings {
		if p.Kind == PairModified {
			pairedByRemoved[p.RemovedIndex] = p
			pairedByAdded[p.AddedIndex] = p
		}
	}

	for i, removed := range block.Removed {
		if _, moved := mv.bySource[removed.Index]; moved {
			// Emitted at the destination block.
			continue
		}

		p, paired := pairedByRemoved[i]
		if paired {
			partner := block.Added[p.AddedIndex]

			if _, partnerMoved := mv.byDest[partner.Index]; !partnerMoved {
				result.Lines = append(result.Lines, e.modifiedRecord(removed, partner, p.Similarity))
				result.Stats.Modified++

				continue
			}
		}

		result.Lines = append(result.Lines, ClassifiedLine{
			Class:    ClassRemoved,
			Text:     removed.Text,
			OldIndex: removed.Index,
			NewIndex: -1,
		})
		result.Stats.Removed++
	}

	for j, added := range block.Added {
		if pair, moved := mv.byDest[added.Index]; moved {
			result.Lines = append(result.Lines, e.movedRecord(pair))
			result.Stats.Moved++

			continue
		}

		if p, paired := pairedByAdded[j]; paired {
			if _, partnerMoved := mv.bySource[block.Removed[p.RemovedIndex].Index]; !partnerMoved {
				// Already emitted with its removed partner.
				continue
			}
		}

		result.Lines = append(result.Lines, ClassifiedLine{
			Class:    ClassAdded,
			Text:     added.Text,
			OldIndex: -1,
			NewIndex: added.Index,
		})
		result.Stats.Added++
	}
}

// modifiedRecord builds a Modified record with its sub-line diffs.
func (e *engine) modifiedRecord(removed, added Line, similarity float64) ClassifiedLine {
	return ClassifiedLine{
		Class:        ClassModified,
		RemovedText:  removed.Text,
		AddedText:    added.Text,
		OldIndex:     removed.Index,
		NewIndex:     added.Index,
		Similarity:   similarity,
		SubLineWords: e.differ.Words(removed.Text, added.Text),
		SubLineChars: e.differ.Chars(removed.Text, added.Text),
	}
}

// movedRecord builds a Moved or MovedModified record from a move pair.
func (e *engine) movedRecord(pair movePair) ClassifiedLine {
	if !pair.modified {
		return ClassifiedLine{
			Class:      ClassMoved,
			Text:       pair.toText,
			OldIndex:   pair.fromIndex,
			NewIndex:   pair.toIndex,
			Similarity: pair.similarity,
		}
	}

	return ClassifiedLine{
		Class:        ClassMovedModified,
		RemovedText:  pair.fromText,
		AddedText:    pair.toText,
		OldIndex:     pair.fromIndex,
		NewIndex:     pair.toIndex,
		Similarity:   pair.similarity,
		SubLineWords: e.differ.Words(pair.fromText, pair.toText),
		SubLineChars: e.differ.Chars(pair.fromText, pair.toText),
	}
}
