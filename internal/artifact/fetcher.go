// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/metrics"
)

// LockFileName is created in the artifact directory while a download runs.
const LockFileName = ".fetch.lock"

// Errors returned by Ensure.
var (
	ErrNoSource  = errors.New("artifact missing and no remote url configured")
	ErrEmptyBody = errors.New("remote artifact is empty")
)

// StatusError reports a non-2xx download response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
}

// Config tunes the fetcher.
type Config struct {
	// Timeout bounds one download. 0 means no timeout beyond ctx.
	Timeout time.Duration

	// LockRetry is the poll interval while another process holds the lock.
	// Default: 250ms
	LockRetry time.Duration

	// HTTPClient overrides the default client. Used by tests.
	HTTPClient *http.Client
}

// Fetcher materializes remote artifacts on local disk.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	lockRetry time.Duration
	logger    zerolog.Logger
}

// NewFetcher creates a fetcher.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewFetcher(cfg Config, logger zerolog.Logger) *Fetcher {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	retry := cfg.LockRetry
	if retry <= 0 {
		retry = 250 * time.Millisecond
	}
	return &Fetcher{
		client:    client,
		timeout:   cfg.Timeout,
		lockRetry: retry,
		logger:    logger.With().Str("component", "artifact").Logger(),
	}
}

// Ensure returns localPath, downloading remoteURL into it first when the
// file does not exist. An empty remoteURL only checks for the local file.
func (f *Fetcher) Ensure(ctx context.Context, localPath, remoteURL string) (string, error) {
	if exists(localPath) {
		metrics.ArtifactFetches.WithLabelValues("cached").Inc()
		return localPath, nil
	}
	if remoteURL == "" {
		return "", fmt.Errorf("%w: %s", ErrNoSource, localPath)
	}

	dir := filepath.Dir(localPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create artifact directory: %w", err)
	}

	lock := flock.New(filepath.Join(dir, LockFileName))
	locked, err := lock.TryLockContext(ctx, f.lockRetry)
	if err != nil {
		return "", fmt.Errorf("failed to acquire fetch lock: %w", err)
	}
	if !locked {
		return "", fmt.Errorf("failed to acquire fetch lock: %w", ctx.Err())
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			f.logger.Warn().Err(err).Msg("Failed to release fetch lock")
		}
	}()

	// Another process may have finished while we waited.
	if exists(localPath) {
		metrics.ArtifactFetches.WithLabelValues("cached").Inc()
		return localPath, nil
	}

	start := time.Now()
	n, err := f.download(ctx, localPath, remoteURL)
	if err != nil {
		metrics.ArtifactFetches.WithLabelValues("error").Inc()
		return "", err
	}
	metrics.ArtifactFetches.WithLabelValues("downloaded").Inc()

	f.logger.Info().
		Str("path", localPath).
		Int64("bytes", n).
		Dur("duration", time.Since(start)).
		Msg("Artifact downloaded")
	return localPath, nil
}

func (f *Fetcher) download(ctx context.Context, localPath, remoteURL string) (int64, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, remoteURL, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("failed to build request for %s: %w", remoteURL, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch %s: %w", remoteURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, &StatusError{URL: remoteURL, StatusCode: resp.StatusCode}
	}

	tmp, err := os.CreateTemp(filepath.Dir(localPath), "."+filepath.Base(localPath)+".*.part")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	n, err := io.Copy(tmp, resp.Body)
	if err != nil {
		return 0, fmt.Errorf("fetch %s: %w", remoteURL, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: %s", ErrEmptyBody, remoteURL)
	}
	if err := tmp.Sync(); err != nil {
		return 0, fmt.Errorf("failed to sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, localPath); err != nil {
		_ = os.Remove(tmpName)
		committed = true
		return 0, fmt.Errorf("failed to move artifact into place: %w", err)
	}
	committed = true
	return n, nil
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
