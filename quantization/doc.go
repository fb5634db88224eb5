// Package quantization scores product-quantized (PQ) vectors against a query.
//
// Codebooks split a vector into M subspaces with 16 centroids each, so one
// code byte per subspace addresses a centroid. Training and encoding happen
// elsewhere; this package consumes the trained centroids.
//
// # Partial Sums
//
// For a query, the contribution of every centroid is computed once:
//
//	partials := make([]float32, cb.M()*quantization.Clusters)
//	_ = cb.PartialSums(query, distance.MetricDot, distance.PreferredWidth(), partials)
//
// The approximate dot product (or squared distance) of a code is then the
// sum of one partial per subspace.
//
// # Bulk Decoding
//
// Graph indexes store the codes of a node's neighbors transposed, codebook
// first, so one call scores 32 candidates:
//
//	packed := make([]byte, quantization.BatchSize*cb.M())
//	_ = quantization.PackNeighbors(neighborCodes, cb.M(), packed)
//
//	dec, _ := quantization.NewDecoder(cb, query, distance.MetricEuclidean)
//	scores := make([]float32, quantization.BatchSize)
//	_ = dec.BulkSimilarity(packed, scores)
//
// Dot scores are (1+sum)/2 and Euclidean scores 1/(1+sum), matching
// Decoder.Similarity for a single code. BulkSimilarityFiltered additionally
// zeroes lanes whose ids are missing from a roaring bitmap.
//
// # Persistence
//
// WriteCodebooks and ReadCodebooks store codebooks in a small framed format
// with optional LZ4 or ZSTD block compression.
package quantization
