package quantization

import (
	"fmt"

	"github.com/hupe1980/vecops"
	"github.com/hupe1980/vecops/distance"
	"github.com/hupe1980/vecops/internal/simd"
)

// PartialSums fills dst with the per-centroid contributions of query.
//
// dst[m*Clusters+k] is the dot product (MetricDot) or squared distance
// (MetricEuclidean) between centroid k of subspace m and the matching slice
// of the centered query. Summing one entry per subspace yields the
// approximate full-vector value for a code. Cosine does not decompose by
// subspace and returns ErrUnsupportedMetric.
func (cb *Codebooks) PartialSums(query []float32, metric distance.Metric, width distance.Width, dst []float32) error {
	if len(query) != cb.dimension {
		return vecops.NewDimensionMismatch(cb.dimension, len(query), nil)
	}
	need := cb.M() * Clusters
	if len(dst) < need {
		return &vecops.ErrBufferTooSmall{Buffer: "partial sums", Need: need, Have: len(dst)}
	}

	centered := query
	if cb.center != nil {
		centered = make([]float32, len(query))
		simd.Sub(centered, query, cb.center)
	}

	switch metric {
	case distance.MetricDot:
		for m, row := range cb.centroids {
			size, offset := cb.sizes[m], cb.offsets[m]
			for k := range Clusters {
				dst[m*Clusters+k] = simd.Dot(width, row, k*size, centered, offset, size)
			}
		}
	case distance.MetricEuclidean:
		for m, row := range cb.centroids {
			size, offset := cb.sizes[m], cb.offsets[m]
			for k := range Clusters {
				dst[m*Clusters+k] = simd.SquaredL2(row, k*size, centered, offset, size)
			}
		}
	default:
		return fmt.Errorf("%w: %v has no per-subspace decomposition", vecops.ErrUnsupportedMetric, metric)
	}
	return nil
}
