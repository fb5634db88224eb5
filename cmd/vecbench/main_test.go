package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vecops"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestInfoCommand(t *testing.T) {
	out, err := execute(t, "info", "--json")
	require.NoError(t, err)

	var info vecops.RuntimeInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, vecops.Info(), info)

	out, err = execute(t, "info")
	require.NoError(t, err)
	assert.Contains(t, out, "Preferred width:")
}

func TestDotCommand(t *testing.T) {
	out, err := execute(t, "dot", "--dims", "2,64", "--iterations", "10", "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "dot/512")
	assert.Contains(t, out, "vek32")
}

func TestGenCodebooksAndShuffle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cb.vopq")
	_, err := execute(t, "gen-codebooks", "-o", path, "--dim", "40", "--m", "10", "--compression", "zstd", "--center")
	require.NoError(t, err)

	out, err := execute(t, "shuffle", "--codebooks-file", path, "--metric", "euclidean", "--iterations", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "shuffle/Euclidean/m=10")
}

func TestConfigFileFlagPrecedence(t *testing.T) {
	path := writeFile(t, "vecbench.yaml", "iterations: 5\ncodebooks: [2]\nworkers: 1\n")

	out, err := execute(t, "shuffle", "--config", path, "--codebooks", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "m=3")
	assert.NotContains(t, out, "m=2")
}

func TestCommandErrors(t *testing.T) {
	_, err := execute(t, "shuffle", "--metric", "cosine")
	assert.ErrorIs(t, err, vecops.ErrUnsupportedMetric)

	_, err = execute(t, "gen-codebooks", "-o", filepath.Join(t.TempDir(), "x"), "--compression", "brotli")
	assert.Error(t, err)

	_, err = execute(t, "gen-codebooks", "-o", filepath.Join(t.TempDir(), "x"), "--dim", "4", "--m", "8")
	assert.ErrorIs(t, err, vecops.ErrInvalidCodebook)
}
