// Package hashutil provides the hash primitives shared by the line-content
// digest and the fuzzy bigram signature: FNV-1a in 64-bit and 128-bit widths
// plus the splitmix64 finalizer by Vigna (2014) for full-avalanche mixing.
package hashutil

import (
	"encoding/binary"
	"hash/fnv"
)

// Splitmix64 constants from the splitmix64 finalizer by Vigna (2014).
const (
	// MixShift1 is the first right-shift in the splitmix64 finalizer.
	MixShift1 = 30

	// MixMul1 is the first multiplier in the splitmix64 finalizer.
	MixMul1 = 0xbf58476d1ce4e5b9

	// MixShift2 is the second right-shift in the splitmix64 finalizer.
	MixShift2 = 27

	// MixMul2 is the second multiplier in the splitmix64 finalizer.
	MixMul2 = 0x94d049bb133111eb

	// MixShift3 is the third right-shift in the splitmix64 finalizer.
	MixShift3 = 31
)

// Mix64 applies the splitmix64 finalizer for full-avalanche mixing.
// This is a pure output function with no internal state.
func Mix64(v uint64) uint64 {
	v ^= v >> MixShift1
	v *= MixMul1
	v ^= v >> MixShift2
	v *= MixMul2
	v ^= v >> MixShift3

	return v
}

// FNV64a computes a 64-bit FNV-1a hash of the given data.
func FNV64a(data []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(data)

	return h.Sum64()
}

// FNV128a computes a 128-bit FNV-1a hash of the given data and returns it as
// two 64-bit words (high, low).
func FNV128a(data []byte) (hi, lo uint64) {
	h := fnv.New128a()
	_, _ = h.Write(data)

	sum := h.Sum(nil)

	return binary.BigEndian.Uint64(sum[:8]), binary.BigEndian.Uint64(sum[8:])
}

// Bigram packs two runes into a single value for bigram hashing.
// The high word carries the first rune so that "ab" and "ba" hash apart.
func Bigram(a, b rune) uint64 {
	return uint64(uint32(a))<<32 | uint64(uint32(b))
}

// BigramHash hashes a packed bigram with full-avalanche mixing.
func BigramHash(a, b rune) uint64 {
	return Mix64(Bigram(a, b))
}
