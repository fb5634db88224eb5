package quantization

import (
	"fmt"

	"github.com/hupe1980/vecops"
)

// PackNeighbors transposes up to BatchSize PQ codes into the codebook-major
// layout the bulk decoders read: dst[c*BatchSize+n] holds code c of
// neighbor n. Unused lanes are zeroed.
//
// dst must hold at least BatchSize*m bytes.
func PackNeighbors(codes [][]byte, m int, dst []byte) error {
	if len(codes) > BatchSize {
		return fmt.Errorf("%w: %d > %d", vecops.ErrTooManyNeighbors, len(codes), BatchSize)
	}
	need := BatchSize * m
	if len(dst) < need {
		return &vecops.ErrBufferTooSmall{Buffer: "packed neighbors", Need: need, Have: len(dst)}
	}

	for n, code := range codes {
		if len(code) != m {
			return fmt.Errorf("neighbor %d: %w", n, vecops.NewDimensionMismatch(m, len(code), nil))
		}
		for c, k := range code {
			if int(k) >= Clusters {
				return fmt.Errorf("%w: neighbor %d code %d out of range in subspace %d", vecops.ErrInvalidCodebook, n, k, c)
			}
		}
	}

	clear(dst[:need])
	for n, code := range codes {
		for c, k := range code {
			dst[c*BatchSize+n] = k
		}
	}
	return nil
}

// UnpackNeighbor copies the code of lane n out of a packed batch into dst.
func UnpackNeighbor(packed []byte, m, n int, dst []byte) {
	for c := range m {
		dst[c] = packed[c*BatchSize+n]
	}
}
