package lsh

import (
	"fmt"
	"testing"

	"github.com/linesift/linesift/pkg/alg/linehash"
)

// Benchmark constants.
const (
	// benchBands is the number of bands for benchmarks.
	benchBands = 8

	// benchWidth is the signature width for benchmarks.
	benchWidth = 32

	// benchIndexSize is the number of signatures to index for benchmarks.
	benchIndexSize = 1000
)

func BenchmarkInsert1K(b *testing.B) {
	sigs := make([]linehash.Signature, benchIndexSize)
	for i := range benchIndexSize {
		sigs[i] = linehash.Sign(fmt.Sprintf("line %d with some body text", i))
	}

	b.ReportAllocs()
	b.ResetTimer()

	for range b.N {
		idx, err := New(benchBands, benchWidth)
		if err != nil {
			b.Fatal(err)
		}

		for i, sig := range sigs {
			if insertErr := idx.Insert(i, sig); insertErr != nil {
				b.Fatal(insertErr)
			}
		}
	}
}

func BenchmarkCandidates1K(b *testing.B) {
	idx, err := New(benchBands, benchWidth)
	if err != nil {
		b.Fatal(err)
	}

	for i := range benchIndexSize {
		if insertErr := idx.Insert(i, linehash.Sign(fmt.Sprintf("line %d with some body text", i))); insertErr != nil {
			b.Fatal(insertErr)
		}
	}

	query := linehash.Sign("line 0 with some body text")

	b.ReportAllocs()
	b.ResetTimer()

	for range b.N {
		candidates, queryErr := idx.Candidates(query)
		_ = candidates
		_ = queryErr
	}
}
