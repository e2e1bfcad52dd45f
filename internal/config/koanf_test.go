// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.OMDb.Timeout != 10*time.Second {
		t.Errorf("OMDb.Timeout = %v, want 10s", cfg.OMDb.Timeout)
	}
	if cfg.OMDb.BaseURL != "http://www.omdbapi.com/" {
		t.Errorf("OMDb.BaseURL = %q, want http://www.omdbapi.com/", cfg.OMDb.BaseURL)
	}
	if !cfg.Recommend.IncludeSelf {
		t.Error("Recommend.IncludeSelf should be true by default")
	}

	// Movies
	if cfg.Movies.Limits != (CountLimits{Default: 5, Min: 1, Max: 15}) {
		t.Errorf("Movies.Limits = %+v, want {5 1 15}", cfg.Movies.Limits)
	}
	if cfg.Movies.CategoryColumn != "genres" {
		t.Errorf("Movies.CategoryColumn = %q, want genres", cfg.Movies.CategoryColumn)
	}
	if !cfg.Movies.Enrich || !cfg.Movies.CapitalizeTitle {
		t.Error("Movies should enrich and capitalize titles by default")
	}

	// Books
	if cfg.Books.Limits != (CountLimits{Default: 5, Min: 1, Max: 15}) {
		t.Errorf("Books.Limits = %+v, want {5 1 15}", cfg.Books.Limits)
	}
	if cfg.Books.PopularLimits != (CountLimits{Default: 5, Min: 1, Max: 20}) {
		t.Errorf("Books.PopularLimits = %+v, want {5 1 20}", cfg.Books.PopularLimits)
	}
	if cfg.Books.NotFoundMessage != "Book is not so famous, no recommendations" {
		t.Errorf("Books.NotFoundMessage = %q", cfg.Books.NotFoundMessage)
	}
	if cfg.Books.Enrich {
		t.Error("Books should not enrich by default")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got: %v", err)
	}
}

// TestEnvTransformFunc verifies environment variable name transformations
func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"OMDB_API_KEY", "omdb.api_key"},
		{"OMDB_TIMEOUT", "omdb.timeout"},
		{"MOVIES_MATRIX_URL", "movies.matrix.url"},
		{"MOVIES_ENTITIES_PATH", "movies.entities.path"},
		{"BOOKS_AUX_PATH", "books.aux.path"},
		{"BOOKS_POPULAR_URL", "books.popular.url"},
		{"HTTP_PORT", "server.port"},
		{"LOG_LEVEL", "logging.level"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"ARTIFACTS_RELOAD_INTERVAL", "artifacts.reload_interval"},
		{"log_format", "logging.format"},

		// Unmapped
		{"PATH", ""},
		{"HOME", ""},
		{"RANDOM_VAR", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := envTransformFunc(tt.input); got != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("OMDB_API_KEY", "abc123")
	t.Setenv("OMDB_TIMEOUT", "3s")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("MOVIES_LIST_COLUMNS", "genres, keywords ,cast")
	t.Setenv("CORS_ORIGINS", "https://a.example.com,https://b.example.com")
	t.Setenv("BOOKS_ENABLED", "false")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.OMDb.APIKey != "abc123" {
		t.Errorf("OMDb.APIKey = %q, want abc123", cfg.OMDb.APIKey)
	}
	if cfg.OMDb.Timeout != 3*time.Second {
		t.Errorf("OMDb.Timeout = %v, want 3s", cfg.OMDb.Timeout)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	wantCols := []string{"genres", "keywords", "cast"}
	if len(cfg.Movies.ListColumns) != len(wantCols) {
		t.Fatalf("Movies.ListColumns = %v, want %v", cfg.Movies.ListColumns, wantCols)
	}
	for i, c := range wantCols {
		if cfg.Movies.ListColumns[i] != c {
			t.Errorf("Movies.ListColumns[%d] = %q, want %q", i, cfg.Movies.ListColumns[i], c)
		}
	}
	if len(cfg.Security.CORSOrigins) != 2 {
		t.Errorf("Security.CORSOrigins = %v, want 2 entries", cfg.Security.CORSOrigins)
	}
	if cfg.Books.Enabled {
		t.Error("Books.Enabled should be false after BOOKS_ENABLED=false")
	}
	if _, ok := cfg.Domains()[DomainBooks]; ok {
		t.Error("Domains() should not include disabled books domain")
	}
}

func TestLoadWithKoanf_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
artifacts:
  dir: /srv/artifacts
movies:
  matrix:
    path: movies.msgpack
    url: https://example.com/artifacts/movies.msgpack?sig=abc
books:
  enabled: false
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Movies.Matrix.Path != "movies.msgpack" {
		t.Errorf("Movies.Matrix.Path = %q, want movies.msgpack", cfg.Movies.Matrix.Path)
	}
	// Unset keys in the file keep their defaults.
	if cfg.Movies.Entities.Path != "movies.csv" {
		t.Errorf("Movies.Entities.Path = %q, want movies.csv", cfg.Movies.Entities.Path)
	}
	if got := cfg.ResolvePath(cfg.Movies.Matrix.Path); got != filepath.Join("/srv/artifacts", "movies.msgpack") {
		t.Errorf("ResolvePath = %q", got)
	}
}

func TestLoadWithKoanf_InvalidEnv(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("LOG_LEVEL", "loud")

	if _, err := LoadWithKoanf(); err == nil {
		t.Fatal("expected validation error for LOG_LEVEL=loud")
	}
}

func TestSplitCSV(t *testing.T) {
	got := splitCSV(" a, ,b,c ,")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("splitCSV = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("splitCSV[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
