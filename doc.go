// Package vecops provides float32 similarity kernels for approximate nearest
// neighbor search engines.
//
// The kernels live in internal/simd and are exposed through two packages:
//
//   - distance: dot products with a preferred register width, squared L2,
//     cosine and the similarity transforms built on them
//   - quantization: product-quantization (PQ) partial tables, neighbor
//     packing and fused asymmetric-distance (ADC) decoders that score 32
//     candidates per call
//
// # Quick Start
//
//	width := distance.PreferredWidth()
//	d := distance.DotAt(width, a, 0, b, 0, len(a))
//
//	dec, _ := quantization.NewDecoder(codebooks, query, distance.MetricDot)
//	packed := make([]byte, quantization.BatchSize*codebooks.M())
//	_ = quantization.PackNeighbors(codes, codebooks.M(), packed)
//	scores := make([]float32, quantization.BatchSize)
//	_ = dec.BulkSimilarity(packed, scores)
//
// # Kernel Selection
//
// CPU features are probed once at startup. Info reports what was selected:
//
//	info := vecops.Info()
//	fmt.Println(info.ISA, info.PreferredWidth, info.WideKernel)
//
// Set VECOPS_SIMD to pin an ISA, or build with -tags noasm to skip probing.
// Requests for the 512-bit kernel fall back to the 256-bit kernel when the
// CPU lacks AVX-512; results agree up to floating-point reordering.
//
// # Logging and Metrics
//
// Kernels never log. Callers that benchmark or wrap them can use Logger, a
// thin log/slog wrapper, and MetricsCollector.
package vecops
