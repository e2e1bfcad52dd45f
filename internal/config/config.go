// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// Config holds all application configuration loaded from defaults, an optional
// YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting via environment variables
//
// Configuration Categories:
//
//  1. Datasets:
//     - Movies: entity table, similarity matrix, list columns, count limits
//     - Books: entity table, similarity matrix, auxiliary/details/popular tables
//     - Artifacts: local directory, remote fetch timeout, hot reload interval
//
//  2. Enrichment:
//     - OMDb: API key, timeout, concurrency, rate limit, cache, circuit breaker
//
//  3. Infrastructure:
//     - Server: HTTP listener and timeouts
//     - Security: CORS and per-IP rate limiting
//     - Logging: Log levels and output formats
//
// Example - Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load config")
//	}
//	// cfg.Movies.Matrix.Path, cfg.OMDb.APIKey, etc. are now populated
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
	Artifacts ArtifactsConfig `koanf:"artifacts"`
	Recommend RecommendConfig `koanf:"recommend"`
	OMDb      OMDbConfig      `koanf:"omdb"`
	Movies    DomainConfig    `koanf:"movies"`
	Books     DomainConfig    `koanf:"books"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`          // Read and write timeout
	IdleTimeout     time.Duration `koanf:"idle_timeout"`     // Keep-alive idle timeout
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"` // Graceful shutdown budget
	Environment     string        `koanf:"environment"`      // "development", "staging", "production"
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SecurityConfig holds CORS and rate limiting settings
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging configuration.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: include caller file:line (default: false)
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// JSON is recommended for production (structured, machine-parseable).
	// Console is human-readable for development.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// ArtifactsConfig controls where precomputed artifacts live and how they are
// refreshed.
//
// Environment Variables:
//   - ARTIFACTS_DIR: base directory for relative artifact paths (default: ./data)
//   - ARTIFACTS_FETCH_TIMEOUT: timeout for one remote artifact download (default: 10m)
//   - ARTIFACTS_RELOAD_INTERVAL: modification check interval, 0 disables reload (default: 0)
type ArtifactsConfig struct {
	Dir            string        `koanf:"dir"`
	FetchTimeout   time.Duration `koanf:"fetch_timeout"`
	ReloadInterval time.Duration `koanf:"reload_interval"`
}

// RecommendConfig holds ranking engine settings shared by all domains.
type RecommendConfig struct {
	// IncludeSelf keeps the queried entity's own row in the ranked output,
	// which then holds top_k+1 entries.
	// Default: true
	IncludeSelf bool `koanf:"include_self"`

	// RequestTimeout bounds one recommendation request end to end.
	// Default: 30s
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

// OMDbConfig holds poster enrichment settings.
//
// Environment Variables:
//   - OMDB_API_KEY: OMDb credential
//   - OMDB_BASE_URL: API base URL (default: http://www.omdbapi.com/)
//   - OMDB_TIMEOUT: per-call timeout (default: 10s)
//   - OMDB_MAX_CONCURRENCY: parallel calls per query, 0 = unbounded (default: 0)
type OMDbConfig struct {
	Enabled        bool          `koanf:"enabled"`
	BaseURL        string        `koanf:"base_url"`
	APIKey         string        `koanf:"api_key"`
	Timeout        time.Duration `koanf:"timeout"`
	MaxConcurrency int           `koanf:"max_concurrency"`

	// RateLimit is the outbound request rate per second. 0 disables limiting.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`

	// CacheSize is the number of posters kept in memory. 0 disables caching.
	CacheSize int           `koanf:"cache_size"`
	CacheTTL  time.Duration `koanf:"cache_ttl"`

	BreakerEnabled bool `koanf:"breaker_enabled"`
}

// ArtifactSource names one precomputed artifact. Path is resolved against
// ArtifactsConfig.Dir when relative. URL, when set, is fetched once if Path
// does not exist yet.
type ArtifactSource struct {
	Path string `koanf:"path"`
	URL  string `koanf:"url"`
}

// IsSet reports whether the artifact is configured at all.
func (a ArtifactSource) IsSet() bool {
	return a.Path != ""
}

// CountLimits bounds a caller-supplied result count.
type CountLimits struct {
	Default int `koanf:"default"`
	Min     int `koanf:"min"`
	Max     int `koanf:"max"`
}

// DomainConfig describes one recommendation domain (movies or books).
type DomainConfig struct {
	Enabled bool `koanf:"enabled"`

	// Entities is the table whose rows align with the matrix rows.
	Entities ArtifactSource `koanf:"entities"`
	Matrix   ArtifactSource `koanf:"matrix"`

	// Aux is an optional table of lookup titles aligned with the matrix.
	Aux ArtifactSource `koanf:"aux"`

	// Details is an optional display table joined to entities by key.
	Details ArtifactSource `koanf:"details"`

	// Popular is an optional pre-sorted popularity listing.
	Popular ArtifactSource `koanf:"popular"`

	KeyColumn        string `koanf:"key_column"`
	CategoryColumn   string `koanf:"category_column"`
	AuxKeyColumn     string `koanf:"aux_key_column"`
	AuxIndexColumn   string `koanf:"aux_index_column"`
	DetailsKeyColumn string `koanf:"details_key_column"`

	// NormalizeKeys enables whitespace-stripped, case-folded key matching.
	NormalizeKeys bool `koanf:"normalize_keys"`

	// ListColumns are typed as string lists at load time.
	ListColumns []string `koanf:"list_columns"`

	// Columns projects result records. Empty keeps every column.
	Columns []string `koanf:"columns"`

	TitleColumn     string `koanf:"title_column"`
	CapitalizeTitle bool   `koanf:"capitalize_title"`
	Enrich          bool   `koanf:"enrich"`

	Limits        CountLimits `koanf:"limits"`
	PopularLimits CountLimits `koanf:"popular_limits"`

	NotFoundMessage string `koanf:"not_found_message"`
	MissingMessage  string `koanf:"missing_message"`
}

// ResolvePath joins a relative artifact path onto the artifacts directory.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Artifacts.Dir == "" {
		return p
	}
	return filepath.Join(c.Artifacts.Dir, p)
}

// Domains returns the enabled domains keyed by name.
func (c *Config) Domains() map[string]DomainConfig {
	out := make(map[string]DomainConfig, 2)
	if c.Movies.Enabled {
		out[DomainMovies] = c.Movies
	}
	if c.Books.Enabled {
		out[DomainBooks] = c.Books
	}
	return out
}

// Domain names.
const (
	DomainMovies = "movies"
	DomainBooks  = "books"
)

// Load reads configuration with the following precedence (highest to lowest):
//  1. Environment variables
//  2. Config file (config.yaml if exists, or path specified in CONFIG_PATH env var)
//  3. Built-in defaults
//
// See LoadWithKoanf() for the underlying implementation.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
