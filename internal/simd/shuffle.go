package simd

const (
	// Clusters is the number of centroids per codebook addressable by a shuffle index.
	Clusters = 16
	// BatchSize is the number of candidates scored by one bulk shuffle call.
	BatchSize = 2 * Clusters
)

// BulkShuffleSimilarity scores a batch of 32 candidates from per-codebook
// partial dot products.
//
// shuffles holds codebookCount segments of 32 cluster indices (0..15): bytes
// 0-15 address candidates 0-15, bytes 16-31 candidates 16-31. partials holds
// codebookCount rows of 16 values. Every results slot is overwritten with
// (sum+1)/2.
//
// SAFETY: Assumes len(shuffles) >= 32*codebookCount, len(partials) >=
// 16*codebookCount and every index < 16. Caller MUST ensure this.
func BulkShuffleSimilarity(shuffles []byte, codebookCount int, partials []float32, results []float32) {
	left, right := gatherSum(shuffles, codebookCount, partials)
	out := (*[BatchSize]float32)(results[:BatchSize])
	for k := range Clusters {
		out[k] = (left[k] + 1) / 2
		out[Clusters+k] = (right[k] + 1) / 2
	}
}

// BulkShuffleEuclidean scores a batch of 32 candidates from per-codebook
// partial squared distances. Every results slot is overwritten with 1/(1+sum),
// the same score a single candidate gets from its summed partials.
//
// The layout contract is the one of BulkShuffleSimilarity.
func BulkShuffleEuclidean(shuffles []byte, codebookCount int, partials []float32, results []float32) {
	left, right := gatherSum(shuffles, codebookCount, partials)
	out := (*[BatchSize]float32)(results[:BatchSize])
	for k := range Clusters {
		out[k] = 1 / (1 + left[k])
		out[Clusters+k] = 1 / (1 + right[k])
	}
}

// BulkShuffleSum writes the raw per-candidate partial sums without any
// final transform.
func BulkShuffleSum(shuffles []byte, codebookCount int, partials []float32, results []float32) {
	left, right := gatherSum(shuffles, codebookCount, partials)
	out := (*[BatchSize]float32)(results[:BatchSize])
	copy(out[:Clusters], left[:])
	copy(out[Clusters:], right[:])
}

// gatherSum permutes each codebook's partial row by its left and right index
// halves and accumulates the result lane-wise. Only the low four bits of an
// index select a cluster, as with a 16-lane register permute.
func gatherSum(shuffles []byte, codebookCount int, partials []float32) (left, right [Clusters]float32) {
	for c := range codebookCount {
		seg := (*[BatchSize]byte)(shuffles[c*BatchSize : (c+1)*BatchSize])
		row := (*[Clusters]float32)(partials[c*Clusters : (c+1)*Clusters])
		for k := range Clusters {
			left[k] += row[seg[k]&(Clusters-1)]
			right[k] += row[seg[Clusters+k]&(Clusters-1)]
		}
	}
	return left, right
}

// AssembleAndSum returns the sum of data[dataBase*i + offsets[i]] over all
// offsets. It is the scalar counterpart of the bulk shuffle kernels: offsets
// are one candidate's codes and dataBase the row length of the partial table.
func AssembleAndSum(data []float32, dataBase int, offsets []byte) float32 {
	var sum float32
	for i, o := range offsets {
		sum += data[dataBase*i+int(o)]
	}
	return sum
}
