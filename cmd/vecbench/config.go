package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/vecops"
	"github.com/hupe1980/vecops/distance"
	"github.com/hupe1980/vecops/quantization"
)

// Config holds vecbench settings.
//
// Precedence: command-line flags, then environment variables, then the
// YAML config file, then defaults.
type Config struct {
	Workers    int    `yaml:"workers"`
	Iterations int    `yaml:"iterations"`
	Dims       []int  `yaml:"dims"`
	Codebooks  []int  `yaml:"codebooks"`
	Metric     string `yaml:"metric"`
	Seed       int64  `yaml:"seed"`

	// CodebooksFile optionally points at codebooks written by gen-codebooks.
	CodebooksFile string `yaml:"codebooks_file"`

	Log struct {
		Format string `yaml:"format"`
		Level  string `yaml:"level"`
	} `yaml:"log"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	cfg := &Config{
		Workers:    runtime.GOMAXPROCS(0),
		Iterations: 100000,
		Dims:       []int{2, 16, 128, 768, 1536},
		Codebooks:  []int{8, 32, 64, 128},
		Metric:     "dot",
		Seed:       1,
	}
	cfg.Log.Format = "text"
	cfg.Log.Level = "info"
	return cfg
}

// LoadConfig reads a YAML file over the defaults. An empty path returns the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// applyEnv overrides cfg from VECBENCH_* environment variables.
func (c *Config) applyEnv() {
	c.Workers = getEnvInt("VECBENCH_WORKERS", c.Workers)
	c.Iterations = getEnvInt("VECBENCH_ITERATIONS", c.Iterations)
	c.Metric = getEnvStr("VECBENCH_METRIC", c.Metric)
	c.Log.Format = getEnvStr("VECBENCH_LOG_FORMAT", c.Log.Format)
	c.Log.Level = getEnvStr("VECBENCH_LOG_LEVEL", c.Log.Level)
}

// Validate checks that the configuration can drive a benchmark run.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	if c.Iterations < 1 {
		return fmt.Errorf("iterations must be >= 1, got %d", c.Iterations)
	}
	for _, d := range c.Dims {
		if d < 1 {
			return fmt.Errorf("invalid dimension %d", d)
		}
	}
	for _, m := range c.Codebooks {
		if m < 1 {
			return fmt.Errorf("invalid codebook count %d", m)
		}
	}
	if _, err := c.metric(); err != nil {
		return err
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

func (c *Config) metric() (distance.Metric, error) {
	m, err := distance.ParseMetric(c.Metric)
	if err != nil {
		return 0, err
	}
	if m == distance.MetricCosine {
		return 0, fmt.Errorf("%w: cosine cannot be bulk decoded", vecops.ErrUnsupportedMetric)
	}
	return m, nil
}

// Logger builds the logger described by the log section.
func (c *Config) Logger() (*vecops.Logger, error) {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	if c.Log.Format == "json" {
		return vecops.NewJSONLogger(level), nil
	}
	return vecops.NewTextLogger(level), nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// loadCodebooks reads c.CodebooksFile.
func (c *Config) loadCodebooks() (*quantization.Codebooks, error) {
	f, err := os.Open(c.CodebooksFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return quantization.ReadCodebooks(f)
}

// parseIntList parses "8,32, 64".
func parseIntList(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid list element %q: %w", part, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func getEnvStr(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
