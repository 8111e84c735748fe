package linediff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesift/linesift/pkg/alg/linehash"
)

func TestHashCache_HitOnSecondLookup(t *testing.T) {
	t.Parallel()

	cache := NewHashCache(linehash.DefaultWidth)

	first := cache.Lookup("some line")
	second := cache.Lookup("some line")

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), cache.Hits())
	assert.Equal(t, int64(1), cache.Misses())
}

// The cache keys on raw text: two raw forms that normalize identically are
// distinct entries with equal fingerprints.
func TestHashCache_RawTextKeying(t *testing.T) {
	t.Parallel()

	cache := NewHashCache(linehash.DefaultWidth)

	a := cache.Lookup("  Mixed Case  ")
	b := cache.Lookup("mixed case")

	assert.Equal(t, int64(2), cache.Misses())
	assert.Zero(t, cache.Hits())
	assert.Equal(t, a.normalized, b.normalized)
	assert.Equal(t, a.hash, b.hash)
}

func TestHashCache_BlankLine(t *testing.T) {
	t.Parallel()

	cache := NewHashCache(linehash.DefaultWidth)

	fp := cache.Lookup("   \t  ")

	assert.Empty(t, fp.normalized)
	assert.True(t, fp.hash.IsZero())
	assert.True(t, fp.sig.IsZero())
}

func TestHashCache_Reset(t *testing.T) {
	t.Parallel()

	cache := NewHashCache(linehash.DefaultWidth)

	cache.Lookup("line")
	cache.Lookup("line")
	cache.Reset()

	require.Zero(t, cache.Hits())
	require.Zero(t, cache.Misses())

	cache.Lookup("line")

	assert.Equal(t, int64(1), cache.Misses())
}

// Statistics must surface the cache counters of their own invocation.
func TestRun_CacheCountersInStats(t *testing.T) {
	t.Parallel()

	result, err := Run(opsFromStrings(t,
		"-repeated content",
		"-repeated content",
		"+repeated content",
	), DefaultOptions())

	require.NoError(t, err)
	assert.Positive(t, result.Stats.CacheHits)
	assert.Positive(t, result.Stats.CacheMisses)
}
