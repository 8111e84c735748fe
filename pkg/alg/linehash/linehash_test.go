package linehash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test constants for signature tests.
const (
	// testWidth is the signature width used by width-sensitive tests.
	testWidth = 32

	// testAltWidth is a deliberately different width for mismatch tests.
	testAltWidth = 16
)

func TestHash_BlankIsZero(t *testing.T) {
	t.Parallel()

	assert.True(t, Hash("").IsZero())
}

func TestHash_NonBlankIsNonZero(t *testing.T) {
	t.Parallel()

	h := Hash("return nil")

	assert.False(t, h.IsZero())
	assert.Len(t, h.Hex(), 32)
}

func TestHash_EqualInputsEqualHashes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Hash("same text"), Hash("same text"))
	assert.NotEqual(t, Hash("same text"), Hash("other text"))
}

func TestSign_BlankIsZero(t *testing.T) {
	t.Parallel()

	sig := Sign("")

	assert.True(t, sig.IsZero())
	assert.Equal(t, DefaultWidth, sig.Width())
}

func TestSignWidth_InvalidWidth(t *testing.T) {
	t.Parallel()

	_, err := SignWidth("x", 0)
	require.ErrorIs(t, err, ErrInvalidWidth)

	_, err = SignWidth("x", MaxWidth+1)
	require.ErrorIs(t, err, ErrInvalidWidth)
}

func TestSignWidth_SingleRune(t *testing.T) {
	t.Parallel()

	// A one-character line still gets a non-zero signature.
	sig, err := SignWidth("a", testWidth)

	require.NoError(t, err)
	assert.False(t, sig.IsZero())
}

func TestSignature_SelfSimilarityIsOne(t *testing.T) {
	t.Parallel()

	sig := Sign("func main() {")

	sim, err := sig.Similarity(sig)

	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 0)
}

func TestSignature_BlankPairFullySimilar(t *testing.T) {
	t.Parallel()

	sim, err := Sign("").Similarity(Sign(""))

	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 0)
}

func TestSignature_DisjointContentLowSimilarity(t *testing.T) {
	t.Parallel()

	a := Sign("aaaaaaa")
	b := Sign("zzzzzzz")

	sim, err := a.Similarity(b)

	require.NoError(t, err)
	assert.Less(t, sim, 1.0)
}

func TestSignature_SimilarLinesHighSimilarity(t *testing.T) {
	t.Parallel()

	a := Sign("the quick brown fox jumps")
	b := Sign("the quick brown fox jumped")

	sim, err := a.Similarity(b)

	require.NoError(t, err)
	assert.Greater(t, sim, 0.8)
}

func TestSignature_WidthMismatchIsHardFailure(t *testing.T) {
	t.Parallel()

	a, err := SignWidth("left", testWidth)
	require.NoError(t, err)

	b, err := SignWidth("right", testAltWidth)
	require.NoError(t, err)

	_, err = a.Distance(b)
	require.ErrorIs(t, err, ErrWidthMismatch)

	_, err = a.Similarity(b)
	require.ErrorIs(t, err, ErrWidthMismatch)
}

func TestSignature_SimilaritySymmetry(t *testing.T) {
	t.Parallel()

	a := Sign("for i := range items {")
	b := Sign("for j := range values {")

	ab, err := a.Similarity(b)
	require.NoError(t, err)

	ba, err := b.Similarity(a)
	require.NoError(t, err)

	assert.InDelta(t, ab, ba, 0)
}
