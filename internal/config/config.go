// Package config provides configuration loading and validation for gitfolio.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults for tunable settings.
const (
	DefaultRequestTimeout  = 15 * time.Second
	DefaultMaxAttempts     = 3
	DefaultBaseDelay       = 2 * time.Second
	DefaultRateLimitFactor = 2
	DefaultCandidatePool   = 5
	DefaultSelectCount     = 2
	DefaultRepoPageSize    = 10
	DefaultModel           = "gemini-2.5-flash"
)

// RetryPolicy controls the generation service's retry behavior. Injecting a
// zero-delay policy makes retry paths deterministic under test.
type RetryPolicy struct {
	MaxAttempts         int
	BaseDelay           time.Duration
	RateLimitMultiplier int
}

// DefaultRetryPolicy returns the production retry policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:         DefaultMaxAttempts,
		BaseDelay:           DefaultBaseDelay,
		RateLimitMultiplier: DefaultRateLimitFactor,
	}
}

// Config holds all settings the pipeline and its collectors need. Fields are
// populated from environment variables; missing values use defaults.
type Config struct {
	// Credentials
	GithubToken  string // optional, raises the hosting API rate limit
	GeminiAPIKey string // empty means local-only generation

	// Behavior
	Model          string
	LocalOnly      bool // force the local fallback even when a key is present
	RequestTimeout time.Duration
	Retry          RetryPolicy

	// Ranking bounds
	CandidatePool int // repos considered after the fork filter
	SelectCount   int // projects kept in the document
	RepoPageSize  int // repos fetched from the hosting API

	// Server
	Port string
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		GithubToken:    os.Getenv("GITHUB_TOKEN"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		Model:          envOr("GITFOLIO_MODEL", DefaultModel),
		LocalOnly:      os.Getenv("GITFOLIO_LOCAL_ONLY") == "true",
		RequestTimeout: DefaultRequestTimeout,
		Retry:          DefaultRetryPolicy(),
		CandidatePool:  DefaultCandidatePool,
		SelectCount:    DefaultSelectCount,
		RepoPageSize:   DefaultRepoPageSize,
		Port:           envOr("PORT", "8080"),
	}

	if v := os.Getenv("GITFOLIO_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid GITFOLIO_REQUEST_TIMEOUT %q: %w", v, err)
		}
		cfg.RequestTimeout = d
	}
	if v := os.Getenv("GITFOLIO_RETRY_BASE_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid GITFOLIO_RETRY_BASE_DELAY %q: %w", v, err)
		}
		cfg.Retry.BaseDelay = d
	}
	if v := os.Getenv("GITFOLIO_RETRY_MAX_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid GITFOLIO_RETRY_MAX_ATTEMPTS %q: %w", v, err)
		}
		cfg.Retry.MaxAttempts = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("config error: retry max attempts must be at least 1")
	}
	if c.Retry.BaseDelay < 0 {
		return fmt.Errorf("config error: retry base delay must be non-negative")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("config error: request timeout must be positive")
	}
	if c.CandidatePool < 1 || c.SelectCount < 1 {
		return fmt.Errorf("config error: candidate pool and select count must be positive")
	}
	if c.SelectCount > c.CandidatePool {
		return fmt.Errorf("config error: select count cannot exceed candidate pool")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
