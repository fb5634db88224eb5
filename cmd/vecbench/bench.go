package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand"
	"sync/atomic"
	"text/tabwriter"
	"time"

	"github.com/viterin/vek/vek32"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/vecops"
	"github.com/hupe1980/vecops/distance"
	"github.com/hupe1980/vecops/quantization"
)

// checkEvery is how many kernel calls a worker runs between context checks.
const checkEvery = 1024

// Result is the outcome of one benchmark case.
type Result struct {
	Name       string
	Dim        int
	Calls      int64
	Elapsed    time.Duration
	Mismatches int64
}

// NsPerCall returns the wall-clock nanoseconds per call across all workers.
func (r Result) NsPerCall() float64 {
	if r.Calls == 0 {
		return 0
	}
	return float64(r.Elapsed.Nanoseconds()) / float64(r.Calls)
}

type runner struct {
	cfg     *Config
	logger  *vecops.Logger
	metrics vecops.MetricsCollector
}

type dotCase struct {
	name string
	fn   func(a, b []float32) float32
}

func dotCases() []dotCase {
	return []dotCase{
		{"dot/256", func(a, b []float32) float32 {
			return distance.DotAt(distance.Width256, a, 0, b, 0, len(a))
		}},
		{"dot/512", func(a, b []float32) float32 {
			return distance.DotAt(distance.Width512, a, 0, b, 0, len(a))
		}},
		{"vek32", vek32.Dot},
	}
}

// dotAgrees reports whether got matches want within float32 reordering error.
func dotAgrees(got, want float32, a, b []float32) bool {
	scale := math.Sqrt(float64(vek32.Dot(a, a)) * float64(vek32.Dot(b, b)))
	tol := 1e-5*scale + 1e-6
	return math.Abs(float64(got-want)) <= tol
}

func randVector(rng *rand.Rand, n int) []float32 {
	v := make([]float32, n)
	for i := range v {
		v[i] = rng.Float32()*2 - 1
	}
	return v
}

// runDot benchmarks every dot kernel for every configured dimension.
func (r *runner) runDot(ctx context.Context) ([]Result, error) {
	var results []Result
	for _, dim := range r.cfg.Dims {
		for _, dc := range dotCases() {
			res, err := r.runDotCase(ctx, dc, dim)
			if err != nil {
				return results, err
			}
			results = append(results, res)
		}
	}
	return results, nil
}

func (r *runner) runDotCase(ctx context.Context, dc dotCase, dim int) (Result, error) {
	var calls, mismatches atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	start := time.Now()

	for w := range r.cfg.Workers {
		g.Go(func() error {
			rng := rand.New(rand.NewSource(r.cfg.Seed + int64(w)))
			a := randVector(rng, dim)
			b := randVector(rng, dim)

			if got, want := dc.fn(a, b), vek32.Dot(a, b); !dotAgrees(got, want, a, b) {
				mismatches.Add(1)
				r.metrics.RecordMismatch(dc.name)
				r.logger.WarnContext(gctx, "kernel disagrees with reference",
					"case", dc.name, "dim", dim, "got", got, "want", want)
			}

			var sink float32
			for i := range r.cfg.Iterations {
				if i%checkEvery == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				sink += dc.fn(a, b)
				calls.Add(1)
			}
			_ = sink
			return nil
		})
	}

	err := g.Wait()
	res := Result{
		Name:       dc.name,
		Dim:        dim,
		Calls:      calls.Load(),
		Elapsed:    time.Since(start),
		Mismatches: mismatches.Load(),
	}
	r.metrics.RecordDot(dim, res.Calls, res.Elapsed)
	r.logger.WithDimension(dim).LogBenchmark(ctx, dc.name, res.Calls, res.Elapsed, err)
	return res, err
}

// runShuffle benchmarks the bulk decoder for every configured codebook
// count, or once for the codebooks loaded from the config file.
func (r *runner) runShuffle(ctx context.Context) ([]Result, error) {
	metric, err := r.cfg.metric()
	if err != nil {
		return nil, err
	}

	var books []*quantization.Codebooks
	if r.cfg.CodebooksFile != "" {
		cb, err := r.cfg.loadCodebooks()
		if err != nil {
			return nil, fmt.Errorf("load codebooks: %w", err)
		}
		books = append(books, cb)
	} else {
		rng := rand.New(rand.NewSource(r.cfg.Seed))
		for _, m := range r.cfg.Codebooks {
			cb, err := randomCodebooks(rng, 4*m, m, false)
			if err != nil {
				return nil, err
			}
			books = append(books, cb)
		}
	}

	var results []Result
	for _, cb := range books {
		res, err := r.runShuffleCase(ctx, cb, metric)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (r *runner) runShuffleCase(ctx context.Context, cb *quantization.Codebooks, metric distance.Metric) (Result, error) {
	m := cb.M()
	name := fmt.Sprintf("shuffle/%s/m=%d", metric, m)

	rng := rand.New(rand.NewSource(r.cfg.Seed))
	dec, err := quantization.NewDecoder(cb, randVector(rng, cb.Dimension()), metric)
	if err != nil {
		return Result{}, err
	}

	var calls, mismatches atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	start := time.Now()

	for w := range r.cfg.Workers {
		g.Go(func() error {
			wrng := rand.New(rand.NewSource(r.cfg.Seed + int64(w)))
			codes := randomCodes(wrng, quantization.BatchSize, m)
			packed := make([]byte, quantization.BatchSize*m)
			if err := quantization.PackNeighbors(codes, m, packed); err != nil {
				return err
			}
			scores := make([]float32, quantization.BatchSize)

			if err := dec.BulkSimilarity(packed, scores); err != nil {
				return err
			}
			for n, code := range codes {
				if scores[n] != dec.Similarity(code) {
					mismatches.Add(1)
					r.metrics.RecordMismatch(name)
					r.logger.WarnContext(gctx, "bulk score differs from single score", "case", name, "lane", n)
				}
			}

			for i := range r.cfg.Iterations {
				if i%checkEvery == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				if err := dec.BulkSimilarity(packed, scores); err != nil {
					return err
				}
				calls.Add(1)
			}
			return nil
		})
	}

	err = g.Wait()
	res := Result{
		Name:       name,
		Dim:        cb.Dimension(),
		Calls:      calls.Load(),
		Elapsed:    time.Since(start),
		Mismatches: mismatches.Load(),
	}
	r.metrics.RecordBulkShuffle(m, res.Calls, res.Elapsed)
	r.logger.WithDimension(cb.Dimension()).LogBenchmark(ctx, name, res.Calls, res.Elapsed, err)
	return res, err
}

func randomCodebooks(rng *rand.Rand, dimension, m int, withCenter bool) (*quantization.Codebooks, error) {
	sizes, _ := quantization.SubvectorSizesAndOffsets(dimension, m)
	centroids := make([][][]float32, m)
	for i, size := range sizes {
		centroids[i] = make([][]float32, quantization.Clusters)
		for k := range centroids[i] {
			centroids[i][k] = randVector(rng, size)
		}
	}
	var opts []quantization.Option
	if withCenter {
		opts = append(opts, quantization.WithCenter(randVector(rng, dimension)))
	}
	return quantization.NewCodebooks(dimension, centroids, opts...)
}

func randomCodes(rng *rand.Rand, count, m int) [][]byte {
	codes := make([][]byte, count)
	for n := range codes {
		codes[n] = make([]byte, m)
		for c := range codes[n] {
			codes[n][c] = byte(rng.Intn(quantization.Clusters))
		}
	}
	return codes
}

func printResults(w io.Writer, results []Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CASE\tDIM\tCALLS\tNS/CALL\tMISMATCHES")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f\t%d\n", r.Name, r.Dim, r.Calls, r.NsPerCall(), r.Mismatches)
	}
	return tw.Flush()
}
