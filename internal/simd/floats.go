package simd

import (
	"math"
	"math/bits"
)

// SquaredL2 calculates the squared L2 distance between a[aOff:aOff+n] and
// b[bOff:bOff+n] using 8 accumulator lanes and a scalar tail.
//
// SAFETY: Assumes both views are in range. Caller MUST ensure this.
func SquaredL2(a []float32, aOff int, b []float32, bOff int, n int) float32 {
	a = a[aOff : aOff+n]
	b = b[bOff : bOff+n]

	var dist float32
	i := 0
	if n >= mediumLanes {
		var acc [mediumLanes]float32
		for ; i+mediumLanes <= n; i += mediumLanes {
			va := (*[mediumLanes]float32)(a[i : i+mediumLanes])
			vb := (*[mediumLanes]float32)(b[i : i+mediumLanes])
			for l := range acc {
				d := va[l] - vb[l]
				acc[l] += d * d
			}
		}
		dist = reduceLanes(acc[:])
	}

	for ; i < n; i++ {
		d := a[i] - b[i]
		dist += d * d
	}
	return dist
}

// Cosine returns the cosine similarity of a and b, or 0 when either has zero norm.
//
// SAFETY: Assumes len(a) == len(b).
func Cosine(a, b []float32) float32 {
	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / float32(math.Sqrt(float64(normA)*float64(normB)))
}

// Sum returns the sum of all elements of v.
func Sum(v []float32) float32 {
	var sum float32
	for _, x := range v {
		sum += x
	}
	return sum
}

// SumInto overwrites dst with the element-wise sum of vectors.
//
// SAFETY: Assumes every vector has len(dst) elements.
func SumInto(dst []float32, vectors [][]float32) {
	clear(dst)
	for _, v := range vectors {
		AddInPlace(dst, v)
	}
}

// AddInPlace computes a += b element-wise.
func AddInPlace(a, b []float32) {
	b = b[:len(a)]
	for i := range a {
		a[i] += b[i]
	}
}

// SubInPlace computes a -= b element-wise.
func SubInPlace(a, b []float32) {
	b = b[:len(a)]
	for i := range a {
		a[i] -= b[i]
	}
}

// Sub writes lhs - rhs into dst.
func Sub(dst, lhs, rhs []float32) {
	lhs = lhs[:len(dst)]
	rhs = rhs[:len(dst)]
	for i := range dst {
		dst[i] = lhs[i] - rhs[i]
	}
}

// ScaleInPlace multiplies all elements of a by scalar.
func ScaleInPlace(a []float32, scalar float32) {
	for i := range a {
		a[i] *= scalar
	}
}

// DivInPlace divides all elements of a by divisor.
func DivInPlace(a []float32, divisor float32) {
	for i := range a {
		a[i] /= divisor
	}
}

// HammingDistance counts the differing bits of two packed bit vectors.
func HammingDistance(a, b []uint64) int {
	b = b[:len(a)]
	var sum int
	for i := range a {
		sum += bits.OnesCount64(a[i] ^ b[i])
	}
	return sum
}
