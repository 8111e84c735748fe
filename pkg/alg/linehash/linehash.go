// Package linehash provides the two per-line fingerprints used by the diff
// classifier: a 128-bit content digest for exact-match indexing and a
// fixed-width fuzzy bigram bit-signature for approximate pre-filtering.
//
// The digest is collision-tolerant by design: it is not cryptographic, and
// every consumer re-verifies normalized text before trusting an equality.
// The signature is never ground truth; it only bounds how many expensive
// comparisons run.
//
// Both fingerprints are pure functions of their input. Callers are expected
// to pass already-normalized text (trimmed, case-folded); blank input maps
// to the zero value of each type.
package linehash

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/linesift/linesift/pkg/alg/internal/hashutil"
)

const (
	// DefaultWidth is the default signature width in bits.
	DefaultWidth = 32

	// MaxWidth is the largest supported signature width in bits.
	MaxWidth = 64
)

var (
	// ErrInvalidWidth is returned when a signature width is not in [1, MaxWidth].
	ErrInvalidWidth = errors.New("linehash: signature width must be in [1, 64]")

	// ErrWidthMismatch is returned when two signatures of different widths are
	// compared. This indicates a configuration bug, not a data condition, and
	// is the one hard failure in the package.
	ErrWidthMismatch = errors.New("linehash: signature widths do not match")
)

// ContentHash is a 128-bit digest of a normalized line. The zero value marks
// an empty or whitespace-only line. Comparable with ==, usable as a map key.
type ContentHash struct {
	Hi uint64
	Lo uint64
}

// Hash computes the ContentHash of normalized text.
// Empty input returns the zero hash.
func Hash(normalized string) ContentHash {
	if normalized == "" {
		return ContentHash{}
	}

	hi, lo := hashutil.FNV128a([]byte(normalized))

	return ContentHash{Hi: hi, Lo: lo}
}

// IsZero reports whether the hash is the reserved blank-line value.
func (h ContentHash) IsZero() bool {
	return h.Hi == 0 && h.Lo == 0
}

// Hex returns the 32-character hexadecimal form of the hash.
func (h ContentHash) Hex() string {
	return fmt.Sprintf("%016x%016x", h.Hi, h.Lo)
}

// Signature is a fixed-width fuzzy bit-vector built from character-bigram
// hashing. Two signatures are comparable only when their widths match.
// Blank lines produce an all-zero bit-vector of the requested width.
type Signature struct {
	bits  uint64
	width int
}

// Sign computes a signature of the default width. See SignWidth.
func Sign(normalized string) Signature {
	sig, _ := SignWidth(normalized, DefaultWidth)

	return sig
}

// SignWidth computes a signature of the given width over the character
// bigrams of normalized text. A single-rune line contributes one synthetic
// bigram so degenerate short lines still produce a usable signature.
// Empty input returns an all-zero signature of the requested width.
func SignWidth(normalized string, width int) (Signature, error) {
	if width < 1 || width > MaxWidth {
		return Signature{}, ErrInvalidWidth
	}

	sig := Signature{width: width}

	runes := []rune(normalized)
	if len(runes) == 0 {
		return sig, nil
	}

	if len(runes) == 1 {
		sig.bits |= 1 << (hashutil.BigramHash(runes[0], 0) % uint64(width))

		return sig, nil
	}

	for i := 0; i < len(runes)-1; i++ {
		sig.bits |= 1 << (hashutil.BigramHash(runes[i], runes[i+1]) % uint64(width))
	}

	return sig, nil
}

// Width returns the signature width in bits.
func (s Signature) Width() int {
	return s.width
}

// Bits returns the raw bit-vector. Only the low Width bits are significant.
func (s Signature) Bits() uint64 {
	return s.bits
}

// IsZero reports whether no bits are set (blank line).
func (s Signature) IsZero() bool {
	return s.bits == 0
}

// Distance returns the Hamming distance to another signature.
// Signatures of different widths cannot be compared.
func (s Signature) Distance(other Signature) (int, error) {
	if s.width != other.width {
		return 0, ErrWidthMismatch
	}

	return bits.OnesCount64(s.bits ^ other.bits), nil
}

// Similarity returns 1 - distance/width, a fuzzy overlap estimate in [0, 1].
// Two blank-line signatures are fully similar.
func (s Signature) Similarity(other Signature) (float64, error) {
	if s.bits == 0 && other.bits == 0 {
		return 1.0, nil
	}

	dist, err := s.Distance(other)
	if err != nil {
		return 0, err
	}

	return 1.0 - float64(dist)/float64(s.width), nil
}
