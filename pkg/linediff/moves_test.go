package linediff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A move outranks a local pairing: when the removed line of a would-be
// Modified pair leaves for another block, its local partner degrades to a
// pure Added record.
func TestRun_MoveInvalidatesLocalPairing(t *testing.T) {
	t.Parallel()

	result, err := Run(opsFromStrings(t,
		"-shared alpha beta gamma",
		"+shared alpha beta qqqqq",
		" anchor",
		"+shared alpha beta gamma",
		"+wwww eeee rrrr tttt",
		"+yyyy uuuu iiii oooo",
	), DefaultOptions())

	require.NoError(t, err)
	require.True(t, result.Detection.Ran)
	require.Len(t, result.Moves, 1)

	move := result.Moves[0]
	assert.Equal(t, 0, move.FromIndex)
	assert.Equal(t, 2, move.ToIndex)
	assert.InDelta(t, 1.0, move.Similarity, 0)

	counts := classCounts(result)
	assert.Equal(t, 1, counts[ClassMoved])
	assert.Zero(t, counts[ClassModified])
	assert.Zero(t, counts[ClassRemoved])
	assert.Equal(t, 3, counts[ClassAdded])
	assert.True(t, result.Stats.Consistent())
}

// Runs shorter than MinBlockSize never surface as block moves; their lines
// still pair individually through the single-line phases.
func TestRun_ShortRunFallsBackToSingles(t *testing.T) {
	t.Parallel()

	result, err := Run(opsFromStrings(t,
		"-pair one content",
		"-pair two content",
		"-solo removed line",
		" anchor",
		"+pair one content",
		"+pair two content",
		"+extra added line",
	), DefaultOptions())

	require.NoError(t, err)
	require.True(t, result.Detection.Ran)

	assert.Empty(t, result.BlockMoves)
	assert.Len(t, result.Moves, 2)

	counts := classCounts(result)
	assert.Equal(t, 2, counts[ClassMoved])
	assert.True(t, result.Stats.Consistent())
}

// MaxBlocksReturned caps accepted runs; surplus run lines stay with the
// single-line phases rather than vanishing.
func TestRun_MaxBlocksReturnedCap(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.MaxBlocksReturned = 1

	result, err := Run(opsFromStrings(t,
		"-run a line one",
		"-run a line two",
		"-run a line three",
		" anchor one",
		"-run b line one",
		"-run b line two",
		"-run b line three",
		" anchor two",
		"+run a line one",
		"+run a line two",
		"+run a line three",
		" anchor three",
		"+run b line one",
		"+run b line two",
		"+run b line three",
	), opts)

	require.NoError(t, err)
	assert.Len(t, result.BlockMoves, 1)
	assert.True(t, result.Stats.Consistent())
}

func TestAdaptiveThreshold(t *testing.T) {
	t.Parallel()

	d := &moveDetector{engine: newTestEngine(t, DefaultOptions())}

	atMin := d.adaptiveThreshold(DefaultMinBlockSize)
	longer := d.adaptiveThreshold(DefaultMinBlockSize + 4)
	huge := d.adaptiveThreshold(1000)

	assert.InDelta(t, DefaultMoveThreshold, atMin, 1e-12)
	assert.InDelta(t, DefaultMoveThreshold-4*adaptiveRelaxStep, longer, 1e-12)
	assert.InDelta(t, adaptiveFloorRatio*DefaultMoveThreshold, huge, 1e-12)
}

func TestPairKey_Distinct(t *testing.T) {
	t.Parallel()

	assert.NotEqual(t, pairKey(1, 2), pairKey(2, 1))
	assert.Equal(t, pairKey(3, 4), pairKey(3, 4))
	assert.NotEqual(t, pairKey(0, 1), pairKey(1, 0))
}
