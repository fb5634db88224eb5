package quantization

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func randVector(rng *rand.Rand, n int) []float32 {
	v := make([]float32, n)
	for i := range v {
		v[i] = rng.Float32()*2 - 1
	}
	return v
}

// randCentroids returns centroids shaped for NewCodebooks(dimension, ...).
func randCentroids(rng *rand.Rand, dimension, m int) [][][]float32 {
	sizes, _ := SubvectorSizesAndOffsets(dimension, m)
	out := make([][][]float32, m)
	for i, size := range sizes {
		out[i] = make([][]float32, Clusters)
		for k := range Clusters {
			out[i][k] = randVector(rng, size)
		}
	}
	return out
}

func newTestCodebooks(t *testing.T, rng *rand.Rand, dimension, m int, opts ...Option) *Codebooks {
	t.Helper()
	cb, err := NewCodebooks(dimension, randCentroids(rng, dimension, m), opts...)
	require.NoError(t, err)
	return cb
}

func randCodes(rng *rand.Rand, count, m int) [][]byte {
	codes := make([][]byte, count)
	for n := range codes {
		codes[n] = make([]byte, m)
		for c := range codes[n] {
			codes[n][c] = byte(rng.Intn(Clusters))
		}
	}
	return codes
}
