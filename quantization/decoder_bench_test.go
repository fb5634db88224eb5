package quantization

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/hupe1980/vecops/distance"
)

func BenchmarkBulkSimilarity(b *testing.B) {
	for _, m := range []int{8, 32, 64} {
		b.Run(fmt.Sprintf("m=%d", m), func(b *testing.B) {
			rng := rand.New(rand.NewSource(1))
			dim := 4 * m
			cb, err := NewCodebooks(dim, randCentroids(rng, dim, m))
			if err != nil {
				b.Fatal(err)
			}
			dec, err := NewDecoder(cb, randVector(rng, dim), distance.MetricDot)
			if err != nil {
				b.Fatal(err)
			}
			packed := make([]byte, BatchSize*m)
			if err := PackNeighbors(randCodes(rng, BatchSize, m), m, packed); err != nil {
				b.Fatal(err)
			}
			results := make([]float32, BatchSize)

			b.ReportAllocs()
			for b.Loop() {
				_ = dec.BulkSimilarity(packed, results)
			}
		})
	}
}

func BenchmarkNewDecoder(b *testing.B) {
	rng := rand.New(rand.NewSource(2))
	const dim, m = 768, 96
	cb, err := NewCodebooks(dim, randCentroids(rng, dim, m))
	if err != nil {
		b.Fatal(err)
	}
	query := randVector(rng, dim)

	b.ReportAllocs()
	for b.Loop() {
		if _, err := NewDecoder(cb, query, distance.MetricDot); err != nil {
			b.Fatal(err)
		}
	}
}
