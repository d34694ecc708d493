// Package config loads server settings from the environment.
//
// An optional .env file is read first with godotenv. Variables already set in
// the process environment win over the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ironsheep/ocr-tools-mcp/internal/ocr"
)

// Environment variable names.
const (
	EnvLogLevel       = "OCR_MCP_LOG_LEVEL"
	EnvAccuracy       = "OCR_MCP_ACCURACY"
	EnvLanguages      = "OCR_MCP_LANGUAGES"
	EnvWorkers        = "OCR_MCP_WORKERS"
	EnvMinConfidence  = "OCR_MCP_MIN_CONFIDENCE"
	EnvHTTPAddr       = "OCR_MCP_HTTP_ADDR"
	EnvHTTPTimeout    = "OCR_MCP_HTTP_TIMEOUT"
	EnvTessdataPrefix = "TESSDATA_PREFIX"
)

// Defaults for settings that are not in the environment.
const (
	DefaultLogLevel    = "info"
	DefaultHTTPAddr    = ":8088"
	DefaultHTTPTimeout = 60 * time.Second
)

// Config holds the server settings.
type Config struct {
	LogLevel string

	// Accuracy and Languages are the defaults for tool calls that leave
	// them out. An empty Languages means the recognizer's default.
	Accuracy  ocr.Accuracy
	Languages []string

	Workers        int
	MinConfidence  float64
	HTTPAddr       string
	HTTPTimeout    time.Duration
	TessdataPrefix string
}

// Load reads the given .env files (".env" when none are given), then builds
// a Config from the environment. Missing .env files are not an error.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", f, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config using lookup to read variables.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	cfg := &Config{
		LogLevel:       DefaultLogLevel,
		Accuracy:       ocr.AccuracyAccurate,
		Workers:        runtime.NumCPU(),
		MinConfidence:  ocr.MinConfidence,
		HTTPAddr:       DefaultHTTPAddr,
		HTTPTimeout:    DefaultHTTPTimeout,
		TessdataPrefix: get(EnvTessdataPrefix),
	}

	if v := get(EnvLogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	if v := get(EnvAccuracy); v != "" {
		a, err := ocr.ParseAccuracy(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvAccuracy, err)
		}
		cfg.Accuracy = a
	}

	cfg.Languages = SplitList(get(EnvLanguages))

	if v := get(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		cfg.Workers = n
	}

	if v := get(EnvMinConfidence); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvMinConfidence, err)
		}
		cfg.MinConfidence = f
	}

	if v := get(EnvHTTPAddr); v != "" {
		cfg.HTTPAddr = v
	}

	if v := get(EnvHTTPTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvHTTPTimeout, err)
		}
		cfg.HTTPTimeout = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", EnvWorkers, c.Workers)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("%s must be between 0 and 1, got %g", EnvMinConfidence, c.MinConfidence)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("%s must not be negative, got %s", EnvHTTPTimeout, c.HTTPTimeout)
	}
	if c.HTTPAddr == "" {
		return fmt.Errorf("%s must not be empty", EnvHTTPAddr)
	}
	return nil
}

// SplitList splits a comma-separated list, trimming blanks and dropping
// empty entries. It returns nil for an empty list.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
