// Package config provides configuration loading and validation for the ranker.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds every knob the ranking orchestrator needs. It is constructed at
// the edge (CLI flags, env, config file) and passed in explicitly so runs are
// deterministic and testable without process environment mutation.
type Config struct {
	// Credentials and endpoints
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	Endpoint    string `json:"endpoint,omitempty"`     // Gemini REST base URL
	Model       string `json:"model,omitempty"`        // Model name for ranking calls
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL

	// Batching
	BatchSize     int `json:"batch_size,omitempty"`     // Candidates per batch (10-50)
	WaveWidth     int `json:"wave_width,omitempty"`     // Concurrent batches per wave
	SnippetLength int `json:"snippet_length,omitempty"` // Resume chars included per candidate
	PoolLimit     int `json:"pool_limit,omitempty"`     // Max candidates fetched per run

	// Scheduling policy. Sequential runs one batch at a time with
	// InterBatchDelayMS between batches; otherwise batches run in waves of
	// WaveWidth. Both policies share the per-batch code path.
	Sequential        bool `json:"sequential,omitempty"`
	InterBatchDelayMS int  `json:"inter_batch_delay_ms,omitempty"`

	// Retry policy
	MaxAttempts      int `json:"max_attempts,omitempty"`        // Attempts per batch
	RateLimitDelayMS int `json:"rate_limit_delay_ms,omitempty"` // 429 wait when no server hint
	RequestTimeoutMS int `json:"request_timeout_ms,omitempty"`  // Per-request wall clock

	// Behavior
	Verbose bool `json:"verbose,omitempty"`
}

// Default returns the stock configuration. The API key and database URL must
// still be provided by the caller.
func Default() Config {
	return Config{
		Endpoint:          "https://generativelanguage.googleapis.com/v1beta",
		Model:             "gemini-2.5-flash",
		BatchSize:         10,
		WaveWidth:         3,
		SnippetLength:     1200,
		PoolLimit:         200,
		InterBatchDelayMS: 5000,
		MaxAttempts:       3,
		RateLimitDelayMS:  60000,
		RequestTimeoutMS:  30000,
	}
}

// Load loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has usable values. A missing API key
// is a configuration error: fatal before any batching is attempted.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("config error: api_key is required")
	}
	if c.Endpoint == "" {
		return fmt.Errorf("config error: endpoint is required")
	}
	if c.BatchSize < 1 || c.BatchSize > 50 {
		return fmt.Errorf("config error: batch_size must be between 1 and 50")
	}
	if c.WaveWidth < 1 {
		return fmt.Errorf("config error: wave_width must be at least 1")
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("config error: max_attempts must be at least 1")
	}
	if c.SnippetLength < 100 {
		return fmt.Errorf("config error: snippet_length must be at least 100")
	}
	if c.PoolLimit < 1 {
		return fmt.Errorf("config error: pool_limit must be at least 1")
	}
	if c.InterBatchDelayMS < 0 || c.RateLimitDelayMS < 0 || c.RequestTimeoutMS < 0 {
		return fmt.Errorf("config error: delays must be non-negative")
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from
// defaults. CLI flags and config file values win over defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Endpoint == "" {
		result.Endpoint = defaults.Endpoint
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	if result.BatchSize == 0 {
		result.BatchSize = defaults.BatchSize
	}
	if result.WaveWidth == 0 {
		result.WaveWidth = defaults.WaveWidth
	}
	if result.SnippetLength == 0 {
		result.SnippetLength = defaults.SnippetLength
	}
	if result.PoolLimit == 0 {
		result.PoolLimit = defaults.PoolLimit
	}
	if result.InterBatchDelayMS == 0 {
		result.InterBatchDelayMS = defaults.InterBatchDelayMS
	}
	if result.MaxAttempts == 0 {
		result.MaxAttempts = defaults.MaxAttempts
	}
	if result.RateLimitDelayMS == 0 {
		result.RateLimitDelayMS = defaults.RateLimitDelayMS
	}
	if result.RequestTimeoutMS == 0 {
		result.RequestTimeoutMS = defaults.RequestTimeoutMS
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge

	return result
}

// RateLimitDelay returns the default 429 wait as a duration.
func (c *Config) RateLimitDelay() time.Duration {
	return time.Duration(c.RateLimitDelayMS) * time.Millisecond
}

// InterBatchDelay returns the sequential-policy pause as a duration.
func (c *Config) InterBatchDelay() time.Duration {
	return time.Duration(c.InterBatchDelayMS) * time.Millisecond
}

// RequestTimeout returns the per-request wall-clock limit as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}
