package quantization

import (
	"fmt"
	"slices"

	"github.com/hupe1980/vecops"
	"github.com/hupe1980/vecops/internal/simd"
)

const (
	// Clusters is the number of centroids per codebook. A code fits in one nibble.
	Clusters = simd.Clusters
	// BatchSize is the number of candidates a bulk decoder call scores.
	BatchSize = simd.BatchSize
)

// Codebooks holds the centroids of a 16-cluster product quantizer.
//
// The vector is split into M subspaces of roughly equal size (the first
// dimension%M subspaces get one extra dimension). Each subspace has Clusters
// centroids stored contiguously, so centroid k of subspace m starts at
// k*SubvectorSize(m) in its row.
type Codebooks struct {
	dimension int
	sizes     []int
	offsets   []int
	centroids [][]float32
	center    []float32
}

// SubvectorSizesAndOffsets splits dimension into m subspaces of roughly equal size.
func SubvectorSizesAndOffsets(dimension, m int) (sizes, offsets []int) {
	sizes = make([]int, m)
	offsets = make([]int, m)
	base := dimension / m
	remainder := dimension % m
	offset := 0
	for i := range m {
		size := base
		if i < remainder {
			size++
		}
		sizes[i] = size
		offsets[i] = offset
		offset += size
	}
	return sizes, offsets
}

// NewCodebooks creates codebooks from centroids shaped [M][Clusters][subvectorSize].
// Subvector sizes follow SubvectorSizesAndOffsets(dimension, M).
func NewCodebooks(dimension int, centroids [][][]float32, optFns ...Option) (*Codebooks, error) {
	opts := applyOptions(optFns)

	m := len(centroids)
	if m == 0 {
		return nil, fmt.Errorf("%w: no subspaces", vecops.ErrInvalidCodebook)
	}
	if dimension < m {
		return nil, fmt.Errorf("%w: dimension %d smaller than %d subspaces", vecops.ErrInvalidCodebook, dimension, m)
	}

	sizes, offsets := SubvectorSizesAndOffsets(dimension, m)
	flat := make([][]float32, m)
	for i, book := range centroids {
		if len(book) != Clusters {
			return nil, fmt.Errorf("%w: subspace %d has %d centroids, want %d", vecops.ErrInvalidCodebook, i, len(book), Clusters)
		}
		row := make([]float32, 0, Clusters*sizes[i])
		for k, c := range book {
			if len(c) != sizes[i] {
				return nil, fmt.Errorf("%w: subspace %d centroid %d: %w", vecops.ErrInvalidCodebook, i, k,
					vecops.NewDimensionMismatch(sizes[i], len(c), nil))
			}
			row = append(row, c...)
		}
		flat[i] = row
	}

	cb := &Codebooks{
		dimension: dimension,
		sizes:     sizes,
		offsets:   offsets,
		centroids: flat,
	}
	if opts.center != nil {
		if len(opts.center) != dimension {
			return nil, fmt.Errorf("%w: center: %w", vecops.ErrInvalidCodebook,
				vecops.NewDimensionMismatch(dimension, len(opts.center), nil))
		}
		cb.center = slices.Clone(opts.center)
	}
	return cb, nil
}

// M returns the number of subspaces.
func (cb *Codebooks) M() int {
	return len(cb.sizes)
}

// Dimension returns the dimension of the original vectors.
func (cb *Codebooks) Dimension() int {
	return cb.dimension
}

// SubvectorSize returns the number of dimensions in subspace m.
func (cb *Codebooks) SubvectorSize(m int) int {
	return cb.sizes[m]
}

// SubvectorOffset returns the first dimension of subspace m.
func (cb *Codebooks) SubvectorOffset(m int) int {
	return cb.offsets[m]
}

// Centroid returns centroid k of subspace m. The slice aliases internal storage.
func (cb *Codebooks) Centroid(m, k int) []float32 {
	size := cb.sizes[m]
	return cb.centroids[m][k*size : (k+1)*size : (k+1)*size]
}

// Center returns the global centroid subtracted before quantization, or nil.
func (cb *Codebooks) Center() []float32 {
	return cb.center
}

// Decode reconstructs the approximate vector for code into dst.
func (cb *Codebooks) Decode(code []byte, dst []float32) error {
	if len(code) != cb.M() {
		return fmt.Errorf("code: %w", vecops.NewDimensionMismatch(cb.M(), len(code), nil))
	}
	if len(dst) != cb.dimension {
		return fmt.Errorf("destination: %w", vecops.NewDimensionMismatch(cb.dimension, len(dst), nil))
	}
	for m, k := range code {
		if int(k) >= Clusters {
			return fmt.Errorf("%w: code %d out of range in subspace %d", vecops.ErrInvalidCodebook, k, m)
		}
		copy(dst[cb.offsets[m]:], cb.Centroid(m, int(k)))
	}
	if cb.center != nil {
		simd.AddInPlace(dst, cb.center)
	}
	return nil
}
