// Package main provides vecbench, a CLI that reports the selected SIMD
// kernels and benchmarks the dot and bulk shuffle paths.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hupe1980/vecops"
	"github.com/hupe1980/vecops/quantization"
)

type app struct {
	configPath string
	cfg        *Config
	logger     *vecops.Logger
	metrics    *vecops.BasicMetricsCollector
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{metrics: &vecops.BasicMetricsCollector{}}
	defaults := DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "vecbench",
		Short: "Inspect and benchmark vecops SIMD kernels",
		Long: `vecbench reports which SIMD kernels this CPU selected and
benchmarks the width-dispatched dot product and the PQ bulk decoder.

Settings come from flags, VECBENCH_* environment variables and an
optional YAML file (--config), in that order of precedence.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", getEnvStr("VECBENCH_CONFIG", ""), "YAML config file")
	pf.Int("workers", defaults.Workers, "Concurrent workers per case")
	pf.Int("iterations", defaults.Iterations, "Kernel calls per worker")
	pf.String("log-format", defaults.Log.Format, "Log format: text, json")
	pf.String("log-level", defaults.Log.Level, "Log level: debug, info, warn, error")
	pf.Int64("seed", defaults.Seed, "Random seed")

	rootCmd.AddCommand(a.newInfoCmd(), a.newDotCmd(), a.newShuffleCmd(), a.newGenCodebooksCmd())
	return rootCmd
}

// setup resolves the effective config. Flags set on the command line win
// over environment variables, which win over the config file.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	cfg.applyEnv()

	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("iterations") {
		cfg.Iterations, _ = flags.GetInt("iterations")
	}
	if flags.Changed("log-format") {
		cfg.Log.Format, _ = flags.GetString("log-format")
	}
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetInt64("seed")
	}
	if f := flags.Lookup("dims"); f != nil && f.Changed {
		if cfg.Dims, err = parseIntList(f.Value.String()); err != nil {
			return err
		}
	}
	if f := flags.Lookup("codebooks"); f != nil && f.Changed {
		if cfg.Codebooks, err = parseIntList(f.Value.String()); err != nil {
			return err
		}
	}
	if f := flags.Lookup("metric"); f != nil && f.Changed {
		cfg.Metric = f.Value.String()
	}
	if f := flags.Lookup("codebooks-file"); f != nil && f.Changed {
		cfg.CodebooksFile = f.Value.String()
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := cfg.Logger()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) runner() *runner {
	return &runner{cfg: a.cfg, logger: a.logger, metrics: a.metrics}
}

func (a *app) newInfoCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print the active ISA, CPU features and preferred width",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := vecops.Info()
			a.logger.LogKernelSelection(cmd.Context(), info)
			return writeInfo(cmd.OutOrStdout(), info, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func writeInfo(w io.Writer, info vecops.RuntimeInfo, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}
	fmt.Fprintf(w, "GOARCH:          %s\n", info.GOARCH)
	fmt.Fprintf(w, "ISA:             %s (overridden: %v)\n", info.ISA, info.Overridden)
	fmt.Fprintf(w, "Preferred width: %d\n", info.PreferredWidth)
	fmt.Fprintf(w, "Wide kernel:     %v\n", info.WideKernel)
	_, err := fmt.Fprintf(w, "Features:        %v\n", info.Features)
	return err
}

func (a *app) newDotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dot",
		Short: "Benchmark the dot dispatcher at 256 and 512 bits against vek",
		RunE: func(cmd *cobra.Command, _ []string) error {
			results, err := a.runner().runDot(cmd.Context())
			if perr := printResults(cmd.OutOrStdout(), results); perr != nil && err == nil {
				err = perr
			}
			return err
		},
	}
	cmd.Flags().String("dims", "2,16,128,768,1536", "Comma-separated vector dimensions")
	return cmd
}

func (a *app) newShuffleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shuffle",
		Short: "Benchmark the PQ bulk shuffle decoder",
		RunE: func(cmd *cobra.Command, _ []string) error {
			results, err := a.runner().runShuffle(cmd.Context())
			if perr := printResults(cmd.OutOrStdout(), results); perr != nil && err == nil {
				err = perr
			}
			return err
		},
	}
	cmd.Flags().String("codebooks", "8,32,64,128", "Comma-separated codebook counts")
	cmd.Flags().String("metric", "dot", "Similarity: dot, euclidean")
	cmd.Flags().String("codebooks-file", "", "Benchmark codebooks written by gen-codebooks instead")
	return cmd
}

func (a *app) newGenCodebooksCmd() *cobra.Command {
	var (
		out         string
		dimension   int
		m           int
		compression string
		center      bool
	)
	cmd := &cobra.Command{
		Use:   "gen-codebooks",
		Short: "Write random PQ codebooks for shuffle --codebooks-file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := quantization.ParseCompression(compression)
			if err != nil {
				return err
			}
			cb, err := randomCodebooks(rand.New(rand.NewSource(a.cfg.Seed)), dimension, m, center)
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := quantization.WriteCodebooks(f, cb, c); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			a.logger.InfoContext(cmd.Context(), "wrote codebooks",
				"path", out, "dimension", dimension, "m", m, "compression", c.String())
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "codebooks.vopq", "Output file")
	cmd.Flags().IntVar(&dimension, "dim", 128, "Vector dimension")
	cmd.Flags().IntVar(&m, "m", 32, "Number of subspaces")
	cmd.Flags().StringVar(&compression, "compression", "zstd", "Compression: none, lz4, zstd")
	cmd.Flags().BoolVar(&center, "center", false, "Include a random global center")
	return cmd
}
