// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package services

import (
	"context"
	"maps"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/metrics"
)

// StoreSource loads artifact stores and fingerprints the files behind them.
type StoreSource interface {
	// Fingerprint returns a modification time per artifact path.
	Fingerprint() map[string]time.Time

	// Load builds a complete new store.
	Load(ctx context.Context) (*catalog.Store, error)
}

// ReloadServiceConfig holds configuration for the reload service.
type ReloadServiceConfig struct {
	// Interval is how often artifact files are checked for changes.
	Interval time.Duration

	// LoadTimeout bounds one reload.
	// Default: 30m
	LoadTimeout time.Duration
}

// ReloadService swaps a freshly loaded store into the holder whenever the
// artifact files change. A failed reload keeps the current store live.
type ReloadService struct {
	source StoreSource
	holder *catalog.Holder
	config ReloadServiceConfig
	logger zerolog.Logger
	name   string

	last map[string]time.Time
}

// NewReloadService creates a reload service. The current fingerprint is
// taken immediately, so only changes made after construction trigger a
// reload.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewReloadService(source StoreSource, holder *catalog.Holder, cfg ReloadServiceConfig, logger zerolog.Logger) *ReloadService {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = 30 * time.Minute
	}
	return &ReloadService{
		source: source,
		holder: holder,
		config: cfg,
		logger: logger.With().Str("service", "reload").Logger(),
		name:   "reload-service",
		last:   source.Fingerprint(),
	}
}

// Serve implements suture.Service.
func (s *ReloadService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.config.Interval).Msg("artifact reload service starting")

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("artifact reload service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.Check(ctx)
		}
	}
}

// Check reloads the store if any artifact changed since the last
// successful check. It reports whether a new store was swapped in.
func (s *ReloadService) Check(ctx context.Context) bool {
	current := s.source.Fingerprint()
	if maps.EqualFunc(s.last, current, time.Time.Equal) {
		return false
	}

	loadCtx, cancel := context.WithTimeout(ctx, s.config.LoadTimeout)
	defer cancel()

	start := time.Now()
	store, err := s.source.Load(loadCtx)
	if err != nil {
		metrics.StoreReloads.WithLabelValues("error").Inc()
		s.logger.Error().Err(err).Msg("artifact reload failed, keeping current store")
		return false
	}

	s.holder.Swap(store)
	s.last = current
	metrics.StoreReloads.WithLabelValues("success").Inc()
	s.logger.Info().
		Strs("domains", store.Names()).
		Dur("duration", time.Since(start)).
		Msg("artifact store reloaded")
	return true
}

// String returns the service name for logging.
func (s *ReloadService) String() string {
	return s.name
}
