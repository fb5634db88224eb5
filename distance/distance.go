// Package distance provides public API for vector distance calculations.
// All functions run on the lane-structured kernels from internal/simd.
package distance

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/hupe1980/vecops"
	"github.com/hupe1980/vecops/internal/simd"
)

// Width is a preferred vector register width in bits.
type Width = simd.Width

// Preferred widths accepted by DotAt.
const (
	Width128 = simd.Width128
	Width256 = simd.Width256
	Width512 = simd.Width512
)

// PreferredWidth returns the widest dot kernel worth requesting on this CPU.
func PreferredWidth() Width {
	return simd.PreferredWidth()
}

// ParseWidth parses "128", "256" or "512".
func ParseWidth(s string) (Width, error) {
	w, ok := simd.ParseWidth(s)
	if !ok {
		return 0, fmt.Errorf("%w: %q", vecops.ErrInvalidWidth, s)
	}
	return w, nil
}

// Dot calculates the dot product of two vectors at the preferred width.
// Assumes vectors are the same length (caller's responsibility).
func Dot(a, b []float32) float32 {
	return simd.Dot(simd.PreferredWidth(), a, 0, b, 0, len(a))
}

// DotAt calculates the dot product of a[aOffset:aOffset+length] and
// b[bOffset:bOffset+length]. width is a hint; see simd.Dot for the selection rule.
// Views must be in range (caller's responsibility).
func DotAt(width Width, a []float32, aOffset int, b []float32, bOffset int, length int) float32 {
	return simd.Dot(width, a, aOffset, b, bOffset, length)
}

// SquaredL2 calculates the squared L2 (Euclidean) distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func SquaredL2(a, b []float32) float32 {
	return simd.SquaredL2(a, 0, b, 0, len(a))
}

// SquaredL2At calculates the squared L2 distance between two vector views.
func SquaredL2At(a []float32, aOffset int, b []float32, bOffset int, length int) float32 {
	return simd.SquaredL2(a, aOffset, b, bOffset, length)
}

// Cosine calculates the cosine similarity of two vectors.
// Returns 0 if either vector has zero norm.
func Cosine(a, b []float32) float32 {
	return simd.Cosine(a, b)
}

// Hamming calculates the Hamming distance between two packed bit vectors.
// Assumes slices are the same length.
func Hamming(a, b []uint64) int {
	return simd.HammingDistance(a, b)
}

// CheckDimensions returns an *vecops.ErrDimensionMismatch unless len(a) == len(b).
func CheckDimensions(a, b []float32) error {
	if len(a) != len(b) {
		return vecops.NewDimensionMismatch(len(a), len(b), nil)
	}
	return nil
}

// NormalizeL2InPlace L2-normalizes v in place.
// Returns false if v has zero L2 norm.
func NormalizeL2InPlace(v []float32) bool {
	if len(v) == 0 {
		return false
	}
	norm2 := Dot(v, v)
	if norm2 == 0 {
		return false
	}
	simd.DivInPlace(v, float32(math.Sqrt(float64(norm2))))
	return true
}

// NormalizeL2Copy returns a normalized copy of src.
// Returns false if src has zero L2 norm.
func NormalizeL2Copy(src []float32) ([]float32, bool) {
	dst := slices.Clone(src)
	if !NormalizeL2InPlace(dst) {
		return nil, false
	}
	return dst, true
}

// Metric represents the similarity function used for vector comparison.
type Metric int

const (
	MetricEuclidean Metric = iota
	MetricCosine
	MetricDot
)

func (m Metric) String() string {
	switch m {
	case MetricEuclidean:
		return "Euclidean"
	case MetricCosine:
		return "Cosine"
	case MetricDot:
		return "Dot"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// ParseMetric parses a metric name as returned by Metric.String (case-insensitive).
func ParseMetric(s string) (Metric, error) {
	for _, m := range []Metric{MetricEuclidean, MetricCosine, MetricDot} {
		if strings.EqualFold(strings.TrimSpace(s), m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", vecops.ErrUnsupportedMetric, s)
}

// Func is a function type for distance calculation.
type Func func(a, b []float32) float32

// Provider returns the raw distance function for the given metric:
// squared L2 for Euclidean, the dot product for Dot, cosine for Cosine.
func Provider(m Metric) (Func, error) {
	switch m {
	case MetricEuclidean:
		return SquaredL2, nil
	case MetricDot:
		return Dot, nil
	case MetricCosine:
		return Cosine, nil
	default:
		return nil, fmt.Errorf("%w: %v", vecops.ErrUnsupportedMetric, m)
	}
}

// Similarity maps two vectors to a score in [0, 1], higher meaning closer.
//
//   - Euclidean: 1 / (1 + squaredL2)
//   - Dot: (1 + dot) / 2, assuming normalized inputs
//   - Cosine: (1 + cosine) / 2
func Similarity(m Metric, a, b []float32) float32 {
	switch m {
	case MetricEuclidean:
		return ScoreFromDistance(SquaredL2(a, b))
	case MetricDot:
		return ScoreFromDot(Dot(a, b))
	case MetricCosine:
		return ScoreFromDot(Cosine(a, b))
	default:
		return 0
	}
}

// SimilarityProvider returns Similarity bound to m.
func SimilarityProvider(m Metric) (Func, error) {
	if _, err := Provider(m); err != nil {
		return nil, err
	}
	return func(a, b []float32) float32 {
		return Similarity(m, a, b)
	}, nil
}

// ScoreFromDot maps a dot product or cosine in [-1, 1] to [0, 1].
func ScoreFromDot(d float32) float32 {
	return (1 + d) / 2
}

// ScoreFromDistance maps a squared distance in [0, inf) to (0, 1].
func ScoreFromDistance(d float32) float32 {
	return 1 / (1 + d)
}
