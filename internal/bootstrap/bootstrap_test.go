// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/recommend"
)

const moviesCSV = `movie_id,title,genres
1,Inception,"['Action', 'Science Fiction']"
2,Interstellar,"['Drama', 'Science Fiction']"
3,Memento,"['Mystery']"
`

const moviesMatrix = `[[1.0, 0.8, 0.3], [0.8, 1.0, 0.2], [0.3, 0.2, 1.0]]`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func testConfig(dir string) *config.Config {
	return &config.Config{
		Artifacts: config.ArtifactsConfig{Dir: dir, FetchTimeout: 5 * time.Second},
		OMDb:      config.OMDbConfig{Enabled: true, BaseURL: "http://omdb.invalid/", Timeout: time.Second},
		Movies: config.DomainConfig{
			Enabled:         true,
			Entities:        config.ArtifactSource{Path: "movies.csv"},
			Matrix:          config.ArtifactSource{Path: "movies_similarity.json"},
			KeyColumn:       "title",
			CategoryColumn:  "genres",
			ListColumns:     []string{"genres"},
			TitleColumn:     "title",
			CapitalizeTitle: true,
			Enrich:          true,
			Limits:          config.CountLimits{Default: 5, Min: 1, Max: 15},
			NotFoundMessage: "Movie not found",
			MissingMessage:  "No movie or count defined!",
		},
	}
}

func TestLoadStore(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "movies.csv"), moviesCSV)
	writeFile(t, filepath.Join(dir, "movies_similarity.json"), moviesMatrix)

	store, err := LoadStore(context.Background(), testConfig(dir), zerolog.Nop())
	if err != nil {
		t.Fatalf("LoadStore() error = %v", err)
	}

	ds, ok := store.Dataset(config.DomainMovies)
	if !ok {
		t.Fatal("movies dataset missing")
	}
	if ds.Len() != 3 {
		t.Errorf("Len() = %d, want 3", ds.Len())
	}
	if row, ok := ds.LookupCategory("Mystery"); !ok || row != 2 {
		t.Errorf("LookupCategory(Mystery) = %d, %v", row, ok)
	}
	if _, ok := store.Dataset(config.DomainBooks); ok {
		t.Error("disabled books domain should not load")
	}
	if !strings.Contains(Describe(store), "movies: 3 entities, 3x3 matrix") {
		t.Errorf("Describe() = %q", Describe(store))
	}
}

func TestLoadStore_FetchesRemoteArtifacts(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		switch r.URL.Path {
		case "/movies.csv":
			_, _ = w.Write([]byte(moviesCSV))
		case "/sim.json":
			_, _ = w.Write([]byte(moviesMatrix))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.Movies.Entities.URL = srv.URL + "/movies.csv"
	cfg.Movies.Matrix.URL = srv.URL + "/sim.json"

	if _, err := LoadStore(context.Background(), cfg, zerolog.Nop()); err != nil {
		t.Fatalf("LoadStore() error = %v", err)
	}
	if hits != 2 {
		t.Errorf("server hits = %d, want 2", hits)
	}

	// Second start finds both files on disk.
	if _, err := LoadStore(context.Background(), cfg, zerolog.Nop()); err != nil {
		t.Fatalf("second LoadStore() error = %v", err)
	}
	if hits != 2 {
		t.Errorf("server hits after reload = %d, want 2", hits)
	}
}

func TestLoadStore_MissingArtifact(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "movies.csv"), moviesCSV)

	_, err := LoadStore(context.Background(), testConfig(dir), zerolog.Nop())
	var le *catalog.LoadError
	if !errors.As(err, &le) {
		t.Fatalf("error = %v, want LoadError", err)
	}
	if le.Artifact != "matrix" {
		t.Errorf("Artifact = %q, want matrix", le.Artifact)
	}
}

func TestLoadStore_ShapeMismatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "movies.csv"), moviesCSV)
	writeFile(t, filepath.Join(dir, "movies_similarity.json"), `[[1.0, 0.5], [0.5, 1.0]]`)

	_, err := LoadStore(context.Background(), testConfig(dir), zerolog.Nop())
	if !errors.Is(err, catalog.ErrShapeMismatch) {
		t.Errorf("error = %v, want ErrShapeMismatch", err)
	}
}

func TestQueryDomainsAndEnrichConfig(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Books = config.DomainConfig{Enabled: true, TitleColumn: "Book-Title", PopularLimits: config.CountLimits{Default: 5, Min: 1, Max: 20}}

	domains := QueryDomains(cfg)
	if len(domains) != 2 || domains[0].Name != "books" || domains[1].Name != "movies" {
		t.Fatalf("QueryDomains() = %+v", domains)
	}
	if domains[0].PopularLimits.Max != 20 || domains[1].Limits.Max != 15 {
		t.Errorf("limits not mapped: %+v", domains)
	}
	if !domains[1].Enrich || domains[0].Enrich {
		t.Error("only movies are enriched")
	}

	if EnrichConfig(cfg).Enabled {
		t.Error("enrichment without an API key must be disabled")
	}
	cfg.OMDb.APIKey = "secret"
	if !EnrichConfig(cfg).Enabled {
		t.Error("enrichment with an API key should be enabled")
	}
}

func TestSnapshot(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	csvPath := filepath.Join(dir, "movies.csv")
	writeFile(t, csvPath, moviesCSV)

	snap := NewReloader(cfg, zerolog.Nop()).Fingerprint()
	if len(snap) != 2 {
		t.Fatalf("snapshot has %d entries, want 2", len(snap))
	}
	if snap[csvPath].IsZero() {
		t.Error("existing file has zero mtime")
	}
	if !snap[filepath.Join(dir, "movies_similarity.json")].IsZero() {
		t.Error("missing file should have zero mtime")
	}

	later := time.Now().Add(time.Hour).Truncate(time.Second)
	if err := os.Chtimes(csvPath, later, later); err != nil {
		t.Fatal(err)
	}
	if got := Snapshot(cfg)[csvPath]; !got.Equal(later) {
		t.Errorf("mtime = %v, want %v", got, later)
	}
}

// writeLargeMovies writes n movies and an n x n matrix with many tied scores.
func writeLargeMovies(t *testing.T, dir string, n int) {
	t.Helper()

	var csv strings.Builder
	csv.WriteString("movie_id,title,genres\n")
	for i := 0; i < n; i++ {
		csv.WriteString(strconv.Itoa(i + 1))
		csv.WriteString(",Movie ")
		csv.WriteString(strconv.Itoa(i))
		csv.WriteString(",\"['Drama']\"\n")
	}
	writeFile(t, filepath.Join(dir, "movies.csv"), csv.String())

	var matrix strings.Builder
	matrix.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			matrix.WriteByte(',')
		}
		matrix.WriteByte('[')
		for j := 0; j < n; j++ {
			if j > 0 {
				matrix.WriteByte(',')
			}
			score := float64((i*7+j*13)%10) / 10
			if i == j {
				score = 1
			}
			matrix.WriteString(strconv.FormatFloat(score, 'f', -1, 64))
		}
		matrix.WriteByte(']')
	}
	matrix.WriteByte(']')
	writeFile(t, filepath.Join(dir, "movies_similarity.json"), matrix.String())
}

func TestLoadStore_RepeatedLoadsRankIdentically(t *testing.T) {
	const n = 600
	dir := t.TempDir()
	writeLargeMovies(t, dir, n)
	cfg := testConfig(dir)
	engine := recommend.NewEngine(nil, zerolog.Nop())

	first, err := LoadStore(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("first LoadStore() error = %v", err)
	}
	second, err := LoadStore(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("second LoadStore() error = %v", err)
	}

	a, _ := first.Dataset(config.DomainMovies)
	b, _ := second.Dataset(config.DomainMovies)
	if a.Len() != n || b.Len() != n {
		t.Fatalf("Len() = %d and %d, want %d", a.Len(), b.Len(), n)
	}

	for row := 0; row < n; row++ {
		want := "Movie " + strconv.Itoa(row)
		if key, _ := a.Key(row); key != want {
			t.Fatalf("first load row %d key = %q, want %q", row, key, want)
		}
		if key, _ := b.Key(row); key != want {
			t.Fatalf("second load row %d key = %q, want %q", row, key, want)
		}
	}

	for _, q := range []string{"Movie 0", "movie 17", "Movie 298", "Movie 599"} {
		got1 := engine.Rank(a, q, 15)
		got2 := engine.Rank(b, q, 15)
		if len(got1) != 16 {
			t.Errorf("Rank(%q) returned %d candidates, want 16", q, len(got1))
		}
		if !reflect.DeepEqual(got1, got2) {
			t.Errorf("Rank(%q) differs between loads:\n%v\n%v", q, got1, got2)
		}
	}
}
