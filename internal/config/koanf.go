// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"marquee.yaml",
	"/etc/marquee/config.yaml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Artifacts: ArtifactsConfig{
			Dir:            "./data",
			FetchTimeout:   10 * time.Minute,
			ReloadInterval: 0,
		},
		Recommend: RecommendConfig{
			IncludeSelf:    true,
			RequestTimeout: 30 * time.Second,
		},
		OMDb: OMDbConfig{
			Enabled:        true,
			BaseURL:        "http://www.omdbapi.com/",
			Timeout:        10 * time.Second,
			MaxConcurrency: 0, // one goroutine per candidate
			RateLimit:      0,
			RateBurst:      10,
			CacheSize:      2048,
			CacheTTL:       6 * time.Hour,
			BreakerEnabled: true,
		},
		Movies: DomainConfig{
			Enabled:         true,
			Entities:        ArtifactSource{Path: "movies.csv"},
			Matrix:          ArtifactSource{Path: "movies_similarity.npy"},
			KeyColumn:       "title",
			CategoryColumn:  "genres",
			ListColumns:     []string{"genres"},
			TitleColumn:     "title",
			CapitalizeTitle: true,
			Enrich:          true,
			Limits:          CountLimits{Default: 5, Min: 1, Max: 15},
			PopularLimits:   CountLimits{Default: 5, Min: 1, Max: 20},
			NotFoundMessage: "Movie not found",
			MissingMessage:  "No movie or count defined!",
		},
		Books: DomainConfig{
			Enabled:          true,
			Entities:         ArtifactSource{Path: "book_pivot.csv"},
			Matrix:           ArtifactSource{Path: "books_similarity.npy"},
			Details:          ArtifactSource{Path: "books.csv"},
			Popular:          ArtifactSource{Path: "popular.csv"},
			KeyColumn:        "Book-Title",
			AuxKeyColumn:     "Book-Title",
			DetailsKeyColumn: "Book-Title",
			NormalizeKeys:    true,
			TitleColumn:      "Book-Title",
			Limits:           CountLimits{Default: 5, Min: 1, Max: 15},
			PopularLimits:    CountLimits{Default: 5, Min: 1, Max: 20},
			NotFoundMessage:  "Book is not so famous, no recommendations",
			MissingMessage:   "No book defined!",
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// OMDB_API_KEY -> omdb.api_key
	// MOVIES_MATRIX_PATH -> movies.matrix.path
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
	"movies.list_columns",
	"movies.columns",
	"books.list_columns",
	"books.columns",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML file or defaults)
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		if err := k.Set(path, splitCSV(strVal)); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// splitCSV splits a comma-separated list, dropping blanks.
func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_host":        "server.host",
	"http_port":        "server.port",
	"server_timeout":   "server.timeout",
	"idle_timeout":     "server.idle_timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	// Security
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Artifacts
	"artifacts_dir":             "artifacts.dir",
	"artifacts_fetch_timeout":   "artifacts.fetch_timeout",
	"artifacts_reload_interval": "artifacts.reload_interval",

	// Ranking
	"recommend_include_self":    "recommend.include_self",
	"recommend_request_timeout": "recommend.request_timeout",

	// OMDb enrichment
	"omdb_enabled":         "omdb.enabled",
	"omdb_base_url":        "omdb.base_url",
	"omdb_api_key":         "omdb.api_key",
	"omdb_timeout":         "omdb.timeout",
	"omdb_max_concurrency": "omdb.max_concurrency",
	"omdb_rate_limit":      "omdb.rate_limit",
	"omdb_rate_burst":      "omdb.rate_burst",
	"omdb_cache_size":      "omdb.cache_size",
	"omdb_cache_ttl":       "omdb.cache_ttl",
	"omdb_breaker_enabled": "omdb.breaker_enabled",

	// Movies dataset
	"movies_enabled":       "movies.enabled",
	"movies_entities_path": "movies.entities.path",
	"movies_entities_url":  "movies.entities.url",
	"movies_matrix_path":   "movies.matrix.path",
	"movies_matrix_url":    "movies.matrix.url",
	"movies_list_columns":  "movies.list_columns",
	"movies_columns":       "movies.columns",

	// Books dataset
	"books_enabled":       "books.enabled",
	"books_entities_path": "books.entities.path",
	"books_entities_url":  "books.entities.url",
	"books_matrix_path":   "books.matrix.path",
	"books_matrix_url":    "books.matrix.url",
	"books_aux_path":      "books.aux.path",
	"books_aux_url":       "books.aux.url",
	"books_details_path":  "books.details.path",
	"books_details_url":   "books.details.url",
	"books_popular_path":  "books.popular.path",
	"books_popular_url":   "books.popular.url",
	"books_list_columns":  "books.list_columns",
	"books_columns":       "books.columns",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - OMDB_API_KEY -> omdb.api_key
//   - MOVIES_MATRIX_URL -> movies.matrix.url
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// Unmapped keys are skipped so unrelated environment variables
	// never pollute the config tree.
	return ""
}
