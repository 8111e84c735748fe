package rawdiff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countKinds(ops []LineOp) (unchanged, removed, added int) {
	for _, op := range ops {
		switch op.Kind {
		case Unchanged:
			unchanged++
		case Removed:
			removed++
		case Added:
			added++
		}
	}

	return unchanged, removed, added
}

func TestLines_Identical(t *testing.T) {
	t.Parallel()

	ops := Lines("a\nb\nc", "a\nb\nc")

	unchanged, removed, added := countKinds(ops)

	assert.Equal(t, 3, unchanged)
	assert.Zero(t, removed)
	assert.Zero(t, added)
}

func TestLines_EmptyDocuments(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Lines("", ""))
}

func TestLines_AllAdded(t *testing.T) {
	t.Parallel()

	ops := Lines("", "one\ntwo")

	unchanged, removed, added := countKinds(ops)

	assert.Zero(t, unchanged)
	assert.Zero(t, removed)
	assert.Equal(t, 2, added)
}

func TestLines_AllRemoved(t *testing.T) {
	t.Parallel()

	ops := Lines("one\ntwo", "")

	unchanged, removed, added := countKinds(ops)

	assert.Zero(t, unchanged)
	assert.Equal(t, 2, removed)
	assert.Zero(t, added)
}

func TestLines_MiddleReplacement(t *testing.T) {
	t.Parallel()

	ops := Lines("keep\nold\nkeep", "keep\nnew\nkeep")

	require.Len(t, ops, 4)

	unchanged, removed, added := countKinds(ops)

	assert.Equal(t, 2, unchanged)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, added)
}

func TestLines_AccountsForEverySourceLine(t *testing.T) {
	t.Parallel()

	oldText := "a\nb\nc\nd"
	newText := "a\nx\nc\ny\nz"

	ops := Lines(oldText, newText)

	unchanged, removed, added := countKinds(ops)

	// Old lines = unchanged + removed; new lines = unchanged + added.
	assert.Equal(t, 4, unchanged+removed)
	assert.Equal(t, 5, unchanged+added)
}

func TestLines_NoTrailingNewlineStillWholeLine(t *testing.T) {
	t.Parallel()

	ops := Lines("alpha", "alpha")

	require.Len(t, ops, 1)
	assert.Equal(t, "alpha", ops[0].Text)
	assert.Equal(t, Unchanged, ops[0].Kind)
}

func TestLines_Deterministic(t *testing.T) {
	t.Parallel()

	oldText := "f\ne\nd\nc\nb\na"
	newText := "a\nb\nc\nd\ne\nf"

	assert.Equal(t, Lines(oldText, newText), Lines(oldText, newText))
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "unchanged", Unchanged.String())
	assert.Equal(t, "removed", Removed.String())
	assert.Equal(t, "added", Added.String())
}
