package linediff

import (
	"github.com/linesift/linesift/pkg/alg/linehash"
	"github.com/linesift/linesift/pkg/textutil"
)

// fingerprint is the memoized per-line computation: normalized form, content
// digest, and fuzzy signature.
type fingerprint struct {
	normalized string
	hash       linehash.ContentHash
	sig        linehash.Signature
}

// HashCache memoizes line fingerprints for the lifetime of exactly one diff
// invocation. It is keyed by raw (pre-normalization) text and is never shared
// across invocations: stale entries from a previous document must never
// satisfy a lookup for unrelated text, so the pipeline constructs a fresh
// cache per call and Reset exists for hosts that pool them.
//
// The cache is the only mutable shared state in an invocation and is not
// safe for concurrent use; concurrent invocations each get their own.
type HashCache struct {
	width   int
	entries map[string]fingerprint
	hits    int64
	misses  int64
}

// NewHashCache creates an empty cache producing signatures of the given
// width. The width must already be validated by Options.Validate.
func NewHashCache(width int) *HashCache {
	return &HashCache{
		width:   width,
		entries: make(map[string]fingerprint),
	}
}

// Lookup returns the fingerprint of text, computing and memoizing it on the
// first request. Every lookup increments the hit or miss counter.
func (c *HashCache) Lookup(text string) fingerprint {
	if entry, ok := c.entries[text]; ok {
		c.hits++

		return entry
	}

	c.misses++

	normalized := textutil.Normalize(text)

	// Width is validated at the entry point, so SignWidth cannot fail here.
	sig, _ := linehash.SignWidth(normalized, c.width)

	entry := fingerprint{
		normalized: normalized,
		hash:       linehash.Hash(normalized),
		sig:        sig,
	}
	c.entries[text] = entry

	return entry
}

// Reset discards all entries and counters, making the cache safe to reuse
// for a new invocation.
func (c *HashCache) Reset() {
	c.entries = make(map[string]fingerprint)
	c.hits = 0
	c.misses = 0
}

// Hits returns the number of lookups served from memory.
func (c *HashCache) Hits() int64 { return c.hits }

// Misses returns the number of lookups that had to compute.
func (c *HashCache) Misses() int64 { return c.misses }
