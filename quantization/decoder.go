package quantization

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/vecops"
	"github.com/hupe1980/vecops/distance"
	"github.com/hupe1980/vecops/internal/simd"
)

// Decoder scores PQ codes against one query using precomputed partial sums.
//
// A Decoder is immutable after construction and safe for concurrent use
// as long as callers pass distinct result buffers.
type Decoder struct {
	cb       *Codebooks
	metric   distance.Metric
	partials []float32
}

// NewDecoder builds the partial-sum table for query.
// Supported metrics are MetricDot and MetricEuclidean.
func NewDecoder(cb *Codebooks, query []float32, metric distance.Metric, optFns ...Option) (*Decoder, error) {
	opts := applyOptions(optFns)

	partials := make([]float32, cb.M()*Clusters)
	if err := cb.PartialSums(query, metric, opts.width, partials); err != nil {
		return nil, err
	}
	return &Decoder{
		cb:       cb,
		metric:   metric,
		partials: partials,
	}, nil
}

// Metric returns the metric the decoder scores with.
func (d *Decoder) Metric() distance.Metric {
	return d.metric
}

// Codebooks returns the codebooks the decoder was built from.
func (d *Decoder) Codebooks() *Codebooks {
	return d.cb
}

// Partials returns the partial-sum table. The slice must not be modified.
func (d *Decoder) Partials() []float32 {
	return d.partials
}

// Sum returns the approximate dot product or squared distance for one code.
// Codes are assumed to be valid (len M, values below Clusters).
func (d *Decoder) Sum(code []byte) float32 {
	return simd.AssembleAndSum(d.partials, Clusters, code)
}

// Similarity returns the score of one code: (1+sum)/2 for MetricDot,
// 1/(1+sum) for MetricEuclidean.
func (d *Decoder) Similarity(code []byte) float32 {
	sum := d.Sum(code)
	if d.metric == distance.MetricEuclidean {
		return distance.ScoreFromDistance(sum)
	}
	return distance.ScoreFromDot(sum)
}

// BulkSimilarity scores a packed batch (see PackNeighbors) and writes
// BatchSize scores to results. Lanes that were not filled when packing
// score as code 0 in every subspace.
func (d *Decoder) BulkSimilarity(packed []byte, results []float32) error {
	if err := d.checkBatch(packed, results); err != nil {
		return err
	}
	m := d.cb.M()
	if d.metric == distance.MetricEuclidean {
		simd.BulkShuffleEuclidean(packed, m, d.partials, results)
	} else {
		simd.BulkShuffleSimilarity(packed, m, d.partials, results)
	}
	return nil
}

// BulkSimilarityFiltered scores a packed batch whose lane n belongs to
// ids[n]. Lanes without an id, and lanes whose id is not in allow, are set
// to zero. A nil allow keeps every lane that has an id.
func (d *Decoder) BulkSimilarityFiltered(packed []byte, ids []uint32, allow *roaring.Bitmap, results []float32) error {
	if len(ids) > BatchSize {
		return fmt.Errorf("%w: %d ids", vecops.ErrTooManyNeighbors, len(ids))
	}
	if err := d.BulkSimilarity(packed, results); err != nil {
		return err
	}
	for n := range BatchSize {
		if n >= len(ids) || (allow != nil && !allow.Contains(ids[n])) {
			results[n] = 0
		}
	}
	return nil
}

func (d *Decoder) checkBatch(packed []byte, results []float32) error {
	if need := BatchSize * d.cb.M(); len(packed) < need {
		return &vecops.ErrBufferTooSmall{Buffer: "packed neighbors", Need: need, Have: len(packed)}
	}
	if len(results) < BatchSize {
		return &vecops.ErrBufferTooSmall{Buffer: "results", Need: BatchSize, Have: len(results)}
	}
	return nil
}
