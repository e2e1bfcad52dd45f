// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/query"
	"github.com/tomtom215/marquee/internal/recommend"
)

var testMovies = []string{"inception", "Interstellar", "The Dark Knight", "Memento", "Tenet", "Dunkirk", "Insomnia"}

func testStore(t *testing.T) *catalog.Store {
	t.Helper()

	rows := make([][]any, len(testMovies))
	sim := make([][]float64, len(testMovies))
	for i, title := range testMovies {
		rows[i] = []any{int64(i + 1), title, "['Drama']"}
		sim[i] = make([]float64, len(testMovies))
		for j := range sim[i] {
			d := i - j
			if d < 0 {
				d = -d
			}
			sim[i][j] = 1 / float64(1+d)
		}
	}
	rows[0][2] = "['Action', 'Science Fiction']"

	entities, err := catalog.NewTable([]string{"movie_id", "title", "genres"}, rows, []string{"genres"})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	m, err := catalog.NewMatrixFromRows(sim)
	if err != nil {
		t.Fatalf("NewMatrixFromRows: %v", err)
	}
	movies, err := catalog.Assemble(catalog.DatasetConfig{
		Name:           domainMovies,
		KeyColumn:      "title",
		CategoryColumn: "genres",
		ListColumns:    []string{"genres"},
	}, catalog.Artifacts{Entities: entities, Matrix: m})
	if err != nil {
		t.Fatalf("Assemble movies: %v", err)
	}

	bookRows := [][]any{{"1984"}, {"Animal Farm"}, {"Brave New World"}}
	books, err := catalog.NewTable([]string{"Book-Title"}, bookRows, nil)
	if err != nil {
		t.Fatalf("NewTable books: %v", err)
	}
	popRows := make([][]any, 25)
	for i := range popRows {
		popRows[i] = []any{"Book " + string(rune('A'+i)), int64(1000 - i)}
	}
	popular, err := catalog.NewTable([]string{"Book-Title", "num_ratings"}, popRows, nil)
	if err != nil {
		t.Fatalf("NewTable popular: %v", err)
	}
	bm, err := catalog.NewMatrixFromRows([][]float64{{1, 0.5, 0.2}, {0.5, 1, 0.3}, {0.2, 0.3, 1}})
	if err != nil {
		t.Fatalf("NewMatrixFromRows books: %v", err)
	}
	bookDS, err := catalog.Assemble(catalog.DatasetConfig{
		Name:          domainBooks,
		KeyColumn:     "Book-Title",
		NormalizeKeys: true,
	}, catalog.Artifacts{Entities: books, Matrix: bm, Popular: popular})
	if err != nil {
		t.Fatalf("Assemble books: %v", err)
	}

	store, err := catalog.NewStore(movies, bookDS)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

// posterEnricher sets a poster for every title except "Tenet".
type posterEnricher struct{}

func (posterEnricher) Enrich(_ context.Context, records []catalog.Record, titleField string) []catalog.Record {
	out := make([]catalog.Record, len(records))
	for i, rec := range records {
		title, _ := rec.String(titleField)
		if title == "Tenet" {
			out[i] = rec.Set("poster_url", nil)
			continue
		}
		out[i] = rec.Set("poster_url", "https://img.example/"+title+".jpg")
	}
	return out
}

var testDomains = []query.Domain{
	{
		Name:            domainMovies,
		Limits:          query.Limits{Default: 5, Min: 1, Max: 15},
		TitleColumn:     "title",
		CapitalizeTitle: true,
		Enrich:          true,
		NotFoundMessage: "Movie not found",
		MissingMessage:  "No movie or count defined!",
	},
	{
		Name:            domainBooks,
		Limits:          query.Limits{Default: 5, Min: 1, Max: 15},
		PopularLimits:   query.Limits{Default: 5, Min: 1, Max: 20},
		TitleColumn:     "Book-Title",
		NotFoundMessage: "Book is not so famous, no recommendations",
		MissingMessage:  "No book defined!",
	},
}

func newTestHandler(t *testing.T, holder *catalog.Holder) *Handler {
	t.Helper()
	if holder == nil {
		holder = catalog.NewHolder(testStore(t))
	}
	engine := recommend.NewEngine(nil, zerolog.Nop())
	svc := query.NewService(holder, engine, posterEnricher{}, testDomains, zerolog.Nop())
	return NewHandler(svc, holder)
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	return NewRouter(newTestHandler(t, nil), cfg).SetupChi()
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not a JSON object: %v (%q)", err, rec.Body.String())
	}
	return rec, out
}

func decodeResults(t *testing.T, raw json.RawMessage) []map[string]any {
	t.Helper()
	var results []map[string]any
	if err := json.Unmarshal(raw, &results); err != nil {
		t.Fatalf("decode results: %v", err)
	}
	return results
}

func errorMessage(t *testing.T, body map[string]json.RawMessage) string {
	t.Helper()
	var msg string
	if err := json.Unmarshal(body["error"], &msg); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return msg
}

func TestRecommendMovies_Inception(t *testing.T) {
	srv := newTestServer(t)

	rec, body := do(t, srv, http.MethodGet, "/recommend_movies?m=Inception&c=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	results := decodeResults(t, body["recommended_movies"])
	if len(results) != 6 {
		t.Fatalf("got %d records, want 6", len(results))
	}
	if results[0]["title"] != "Inception" {
		t.Errorf("first title = %v, want the capitalized query entity", results[0]["title"])
	}
	genres, ok := results[0]["genres"].([]any)
	if !ok || len(genres) != 2 || genres[0] != "Action" {
		t.Errorf("genres = %#v, want a structured list", results[0]["genres"])
	}
	for _, r := range results {
		if _, ok := r["poster_url"]; !ok {
			t.Errorf("record %v has no poster_url field", r["title"])
		}
	}
}

func TestRecommendMovies_FailedPosterIsNull(t *testing.T) {
	srv := newTestServer(t)

	rec, body := do(t, srv, http.MethodGet, "/recommend_movies?m=Tenet&c=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	results := decodeResults(t, body["recommended_movies"])
	if len(results) != 3 {
		t.Fatalf("got %d records, want 3", len(results))
	}
	if results[0]["poster_url"] != nil {
		t.Errorf("poster_url = %v, want null", results[0]["poster_url"])
	}
	if results[1]["poster_url"] == nil {
		t.Error("sibling poster_url should be set")
	}
}

func TestRecommendMovies_Errors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name    string
		target  string
		status  int
		message string
	}{
		{"unknown title", "/recommend_movies?m=Nonexistent", http.StatusNotFound, "Movie not found"},
		{"missing title", "/recommend_movies?c=3", http.StatusNotFound, "No movie or count defined!"},
		{"bad count", "/recommend_movies?m=Inception&c=five", http.StatusNotFound, "count must be an integer"},
		{"legacy route", "/recommend?m=Nonexistent", http.StatusNotFound, "Movie not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, srv, http.MethodGet, tt.target, "")
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if got := errorMessage(t, body); got != tt.message {
				t.Errorf("error = %q, want %q", got, tt.message)
			}
		})
	}
}

func TestRecommendMovies_CountClamping(t *testing.T) {
	srv := newTestServer(t)

	_, body := do(t, srv, http.MethodGet, "/recommend_movies?m=Memento&c=0", "")
	if n := len(decodeResults(t, body["recommended_movies"])); n != 2 {
		t.Errorf("c=0: got %d records, want 2", n)
	}

	_, body = do(t, srv, http.MethodGet, "/recommend_movies?m=Memento&c=999", "")
	if n := len(decodeResults(t, body["recommended_movies"])); n != len(testMovies) {
		t.Errorf("c=999: got %d records, want %d", n, len(testMovies))
	}
}

func TestRecommendMovies_CategoryFallback(t *testing.T) {
	srv := newTestServer(t)

	rec, body := do(t, srv, http.MethodGet, "/recommend_movies?m=Science+Fiction&c=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	results := decodeResults(t, body["recommended_movies"])
	if len(results) != 2 || results[0]["title"] != "Inception" {
		t.Errorf("results = %v, want Inception first", results)
	}
}

func TestRecommendBooks(t *testing.T) {
	srv := newTestServer(t)

	rec, body := do(t, srv, http.MethodGet, "/recommend_books?b=animal%20farm&c=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	results := decodeResults(t, body["recommended_books"])
	if len(results) != 2 {
		t.Fatalf("got %d records, want 2", len(results))
	}
	if results[0]["Book-Title"] != "Animal Farm" {
		t.Errorf("first = %v, want Animal Farm", results[0]["Book-Title"])
	}
	if _, ok := results[0]["poster_url"]; ok {
		t.Error("book results are not enriched")
	}

	rec, body = do(t, srv, http.MethodGet, "/recommend_books?b=NonexistentBook123", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if got := errorMessage(t, body); got != "Book is not so famous, no recommendations" {
		t.Errorf("error = %q", got)
	}
}

func TestPopularBooks(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		target string
		want   int
	}{
		{"/popular_books", 5},
		{"/popular_books?c=3", 3},
		{"/popular_books?c=0", 1},
		{"/popular_books?c=999", 20},
	}
	for _, tt := range tests {
		rec, body := do(t, srv, http.MethodGet, tt.target, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", tt.target, rec.Code)
		}
		results := decodeResults(t, body["popular_books"])
		if len(results) != tt.want {
			t.Errorf("%s: got %d records, want %d", tt.target, len(results), tt.want)
		}
		if results[0]["Book-Title"] != "Book A" {
			t.Errorf("%s: first = %v, want Book A", tt.target, results[0]["Book-Title"])
		}
	}
}

func TestRecommendPost(t *testing.T) {
	srv := newTestServer(t)

	rec, body := do(t, srv, http.MethodPost, "/recommend", `{"movie":"Inception","count":2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if n := len(decodeResults(t, body["recommended_movies"])); n != 3 {
		t.Errorf("got %d records, want 3", n)
	}

	rec, body = do(t, srv, http.MethodPost, "/recommend", `{"movie":`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("malformed body status = %d, want 404", rec.Code)
	}
	if got := errorMessage(t, body); got != "invalid request body" {
		t.Errorf("error = %q", got)
	}

	rec, body = do(t, srv, http.MethodPost, "/recommend", `{"count":2}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing movie status = %d, want 404", rec.Code)
	}
	if got := errorMessage(t, body); got != "No movie or count defined!" {
		t.Errorf("error = %q", got)
	}

	long := strings.Repeat("x", 501)
	rec, _ = do(t, srv, http.MethodPost, "/recommend", `{"movie":"`+long+`"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("oversized movie status = %d, want 404", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	rec, body := do(t, srv, http.MethodGet, "/health/live", "")
	if rec.Code != http.StatusOK {
		t.Errorf("live status = %d", rec.Code)
	}
	if string(body["alive"]) != "true" {
		t.Errorf("alive = %s", body["alive"])
	}

	rec, body = do(t, srv, http.MethodGet, "/health/ready", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("ready status = %d: %s", rec.Code, rec.Body.String())
	}
	if string(body["status"]) != `"ready"` {
		t.Errorf("status = %s", body["status"])
	}
}

func TestHealthReady_NoStore(t *testing.T) {
	h := newTestHandler(t, catalog.NewHolder(nil))
	srv := NewRouter(h, nil).SetupChi()

	rec, body := do(t, srv, http.MethodGet, "/health/ready", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
	if string(body["status"]) != `"not_ready"` {
		t.Errorf("status = %s", body["status"])
	}

	// Queries against an unloaded store are internal failures.
	rec, _ = do(t, srv, http.MethodGet, "/recommend_movies?m=Inception", "")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("recommend status = %d, want 500", rec.Code)
	}
}

func TestRouter_NotFoundAndMethod(t *testing.T) {
	srv := newTestServer(t)

	rec, body := do(t, srv, http.MethodGet, "/nope", "")
	if rec.Code != http.StatusNotFound || errorMessage(t, body) != "not found" {
		t.Errorf("unknown route: %d %v", rec.Code, body)
	}

	rec, _ = do(t, srv, http.MethodDelete, "/recommend_movies", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("DELETE status = %d, want 405", rec.Code)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want abc-123", got)
	}
}

func TestSanitizeLogValue(t *testing.T) {
	if got := sanitizeLogValue("a\nb\x7f"); got != `a\x0ab\x7f` {
		t.Errorf("sanitizeLogValue = %q", got)
	}
}
