// Package distance provides vector distance calculations on lane-structured kernels.
//
// Dot products take a preferred register width (Width256 or Width512). The
// 512-bit request is honored only for vectors of at least 16 elements on CPUs
// with AVX-512; otherwise the 8-lane kernel runs. Length-2 vectors always use
// the exact 2-lane kernel.
//
// # Supported Metrics
//
//   - MetricEuclidean: squared Euclidean distance, similarity 1/(1+d)
//   - MetricDot: dot product, similarity (1+d)/2 for normalized inputs
//   - MetricCosine: cosine similarity, similarity (1+c)/2
//
// # Usage
//
//	dist := distance.SquaredL2(a, b)
//	dot := distance.DotAt(distance.Width512, a, 0, b, 0, len(a))
//	score := distance.Similarity(distance.MetricCosine, a, b)
package distance
