// Package simd provides lane-structured float32 kernels for vector similarity.
//
// # Kernels
//
//   - Dot: width dispatcher over the narrow (2-lane), medium (8-lane) and
//     wide (16-lane) kernels
//   - SquaredL2, Cosine, Sum and the in-place element-wise helpers
//   - BulkShuffleSimilarity, BulkShuffleEuclidean: fused ADC scoring of 32
//     PQ-encoded candidates from a per-query partial table
//   - AssembleAndSum: scalar ADC scoring of one candidate
//
// # Capability selection
//
// CPU features are probed once at init through golang.org/x/sys/cpu.
// The wide kernel is bound only when AVX-512 is active; otherwise DotWide
// runs the medium kernel and produces the same result up to rounding.
// Set VECOPS_SIMD (generic, neon, sve2, avx2, avx512) to pin an available
// ISA, or build with -tags noasm to disable probing.
//
// All kernels are pure functions over caller-owned slices. They do not
// allocate, do not validate their inputs and are safe for concurrent use on
// disjoint or read-only buffers.
package simd
