// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package artifact

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"
)

func newTestFetcher() *Fetcher {
	return NewFetcher(Config{Timeout: 5 * time.Second, LockRetry: 10 * time.Millisecond}, zerolog.Nop())
}

func TestEnsure_ExistingFileSkipsNetwork(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("remote"))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "movie_list.csv")
	if err := os.WriteFile(path, []byte("local"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := newTestFetcher().Ensure(context.Background(), path, srv.URL)
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if got != path {
		t.Errorf("Ensure() = %q, want %q", got, path)
	}
	if hits.Load() != 0 {
		t.Errorf("server hit %d times, want 0", hits.Load())
	}
	data, _ := os.ReadFile(path)
	if string(data) != "local" {
		t.Errorf("local file overwritten: %q", data)
	}
}

func TestEnsure_Downloads(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("title,genres\nUp,['Animation']\n"))
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "nested", "data")
	path := filepath.Join(dir, "movie_list.csv")

	if _, err := newTestFetcher().Ensure(context.Background(), path, srv.URL+"/movie_list.csv"); err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("artifact not written: %v", err)
	}
	if string(data) != "title,genres\nUp,['Animation']\n" {
		t.Errorf("content = %q", data)
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".part" {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestEnsure_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			check: func(t *testing.T, err error) {
				var se *StatusError
				if !errors.As(err, &se) || se.StatusCode != http.StatusBadGateway {
					t.Errorf("error = %v, want StatusError 502", err)
				}
			},
		},
		{
			name:    "empty body",
			handler: func(w http.ResponseWriter, _ *http.Request) {},
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrEmptyBody) {
					t.Errorf("error = %v, want ErrEmptyBody", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			path := filepath.Join(t.TempDir(), "similarity.npy")
			_, err := newTestFetcher().Ensure(context.Background(), path, srv.URL)
			if err == nil {
				t.Fatal("Ensure() expected error")
			}
			tt.check(t, err)
			if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
				t.Error("failed download must not leave a file at the destination")
			}
		})
	}
}

func TestEnsure_NoSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.csv")
	_, err := newTestFetcher().Ensure(context.Background(), path, "")
	if !errors.Is(err, ErrNoSource) {
		t.Errorf("error = %v, want ErrNoSource", err)
	}
}

func TestEnsure_ConcurrentCallersDownloadOnce(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		time.Sleep(50 * time.Millisecond)
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "books.csv")

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Separate fetchers stand in for separate processes.
			_, err := newTestFetcher().Ensure(context.Background(), path, srv.URL)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("Ensure() error = %v", err)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1", hits.Load())
	}
}

func TestEnsure_LockHeldRespectsContext(t *testing.T) {
	dir := t.TempDir()
	held := flock.New(filepath.Join(dir, LockFileName))
	if err := held.Lock(); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = held.Unlock() }()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestFetcher().Ensure(ctx, filepath.Join(dir, "x.csv"), "http://127.0.0.1:1/x.csv")
	if err == nil {
		t.Fatal("Ensure() expected error while lock is held")
	}
}
