package main

import (
	"bytes"
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vecops"
	"github.com/hupe1980/vecops/quantization"
)

func testRunner(cfg *Config) (*runner, *vecops.BasicMetricsCollector) {
	metrics := &vecops.BasicMetricsCollector{}
	return &runner{cfg: cfg, logger: vecops.NoopLogger(), metrics: metrics}, metrics
}

func smallConfig() *Config {
	cfg := DefaultConfig()
	cfg.Workers = 4
	cfg.Iterations = 200
	cfg.Dims = []int{2, 17, 256}
	cfg.Codebooks = []int{4, 16}
	return cfg
}

func TestRunDot(t *testing.T) {
	cfg := smallConfig()
	r, metrics := testRunner(cfg)

	results, err := r.runDot(context.Background())
	require.NoError(t, err)
	require.Len(t, results, len(cfg.Dims)*len(dotCases()))

	for _, res := range results {
		assert.Equal(t, int64(cfg.Workers*cfg.Iterations), res.Calls, res.Name)
		assert.Zero(t, res.Mismatches, "%s dim %d", res.Name, res.Dim)
	}

	stats := metrics.GetStats()
	assert.Equal(t, int64(len(results)*cfg.Workers*cfg.Iterations), stats.DotCalls)
	assert.Zero(t, stats.Mismatches)
}

func TestRunShuffle(t *testing.T) {
	cfg := smallConfig()
	for _, metric := range []string{"dot", "euclidean"} {
		t.Run(metric, func(t *testing.T) {
			cfg.Metric = metric
			r, metrics := testRunner(cfg)

			results, err := r.runShuffle(context.Background())
			require.NoError(t, err)
			require.Len(t, results, len(cfg.Codebooks))

			for i, res := range results {
				assert.Equal(t, 4*cfg.Codebooks[i], res.Dim)
				assert.Zero(t, res.Mismatches, res.Name)
			}
			assert.Equal(t, int64(len(results)*cfg.Workers*cfg.Iterations), metrics.GetStats().ShuffleCalls)
		})
	}
}

func TestRunShuffleFromFile(t *testing.T) {
	cb, err := randomCodebooks(rand.New(rand.NewSource(3)), 30, 6, true)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "cb.vopq")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, quantization.WriteCodebooks(f, cb, quantization.CompressionLZ4))
	require.NoError(t, f.Close())

	cfg := smallConfig()
	cfg.CodebooksFile = path
	r, _ := testRunner(cfg)

	results, err := r.runShuffle(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 30, results[0].Dim)
	assert.Zero(t, results[0].Mismatches)
}

func TestRunDotCanceled(t *testing.T) {
	cfg := smallConfig()
	cfg.Iterations = 1 << 30
	r, _ := testRunner(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.runDot(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrintResults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printResults(&buf, []Result{
		{Name: "dot/256", Dim: 128, Calls: 10, Elapsed: 1000},
	}))
	out := buf.String()
	assert.Contains(t, out, "CASE")
	assert.Contains(t, out, "dot/256")
	assert.Contains(t, out, "100.00")
}
