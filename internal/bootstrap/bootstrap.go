// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package bootstrap turns the loaded configuration into the runtime objects
// shared by the server and the CLI: the artifact store, the query domains
// and the enrichment client settings.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/marquee/internal/artifact"
	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/enrich"
	"github.com/tomtom215/marquee/internal/query"
)

// Source pairs a resolved local artifact path with its optional remote URL.
type Source struct {
	Domain   string
	Artifact string
	Path     string
	URL      string
}

// Sources lists every configured artifact of the enabled domains, sorted by
// domain then artifact name.
func Sources(cfg *config.Config) []Source {
	var out []Source
	for name, d := range cfg.Domains() {
		add := func(kind string, src config.ArtifactSource) {
			if !src.IsSet() {
				return
			}
			out = append(out, Source{
				Domain:   name,
				Artifact: kind,
				Path:     cfg.ResolvePath(src.Path),
				URL:      src.URL,
			})
		}
		add("entities", d.Entities)
		add("matrix", d.Matrix)
		add("aux", d.Aux)
		add("details", d.Details)
		add("popular", d.Popular)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Domain != out[j].Domain {
			return out[i].Domain < out[j].Domain
		}
		return out[i].Artifact < out[j].Artifact
	})
	return out
}

// FetchAll makes every configured artifact available locally, downloading
// the missing ones that carry a remote URL.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func FetchAll(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	fetcher := artifact.NewFetcher(artifact.Config{Timeout: cfg.Artifacts.FetchTimeout}, logger)
	for _, src := range Sources(cfg) {
		if _, err := fetcher.Ensure(ctx, src.Path, src.URL); err != nil {
			return &catalog.LoadError{Domain: src.Domain, Artifact: src.Artifact, Path: src.Path, Err: err}
		}
	}
	return nil
}

// DatasetConfig maps one configured domain onto the catalog loader settings.
func DatasetConfig(cfg *config.Config, name string, d config.DomainConfig) catalog.DatasetConfig {
	resolve := func(src config.ArtifactSource) string {
		if !src.IsSet() {
			return ""
		}
		return cfg.ResolvePath(src.Path)
	}
	return catalog.DatasetConfig{
		Name:             name,
		EntitiesPath:     resolve(d.Entities),
		MatrixPath:       resolve(d.Matrix),
		AuxPath:          resolve(d.Aux),
		DetailsPath:      resolve(d.Details),
		PopularPath:      resolve(d.Popular),
		KeyColumn:        d.KeyColumn,
		CategoryColumn:   d.CategoryColumn,
		AuxKeyColumn:     d.AuxKeyColumn,
		AuxIndexColumn:   d.AuxIndexColumn,
		DetailsKeyColumn: d.DetailsKeyColumn,
		NormalizeKeys:    d.NormalizeKeys,
		ListColumns:      d.ListColumns,
		Columns:          d.Columns,
	}
}

// LoadStore fetches missing artifacts and loads every enabled domain. Domains
// load concurrently; the first failure cancels the rest.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func LoadStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*catalog.Store, error) {
	start := time.Now()
	if err := FetchAll(ctx, cfg, logger); err != nil {
		return nil, err
	}

	domains := cfg.Domains()
	names := make([]string, 0, len(domains))
	for name := range domains {
		names = append(names, name)
	}
	sort.Strings(names)

	datasets := make([]*catalog.Dataset, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		dc := DatasetConfig(cfg, name, domains[name])
		g.Go(func() error {
			ds, err := catalog.Load(gctx, dc, logger)
			if err != nil {
				return err
			}
			datasets[i] = ds
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	store, err := catalog.NewStore(datasets...)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Strs("domains", store.Names()).
		Dur("duration", time.Since(start)).
		Msg("Artifact store loaded")
	return store, nil
}

// QueryDomains maps the enabled domains onto query policies.
func QueryDomains(cfg *config.Config) []query.Domain {
	domains := cfg.Domains()
	out := make([]query.Domain, 0, len(domains))
	for name, d := range domains {
		out = append(out, query.Domain{
			Name:            name,
			Limits:          limits(d.Limits),
			PopularLimits:   limits(d.PopularLimits),
			TitleColumn:     d.TitleColumn,
			CapitalizeTitle: d.CapitalizeTitle,
			Enrich:          d.Enrich,
			NotFoundMessage: d.NotFoundMessage,
			MissingMessage:  d.MissingMessage,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func limits(c config.CountLimits) query.Limits {
	return query.Limits{Default: c.Default, Min: c.Min, Max: c.Max}
}

// EnrichConfig maps the OMDb section onto the enrichment client settings.
// Enrichment is disabled when no API key is configured.
func EnrichConfig(cfg *config.Config) enrich.Config {
	o := cfg.OMDb
	return enrich.Config{
		Enabled:        o.Enabled && o.APIKey != "",
		BaseURL:        o.BaseURL,
		APIKey:         o.APIKey,
		Timeout:        o.Timeout,
		MaxConcurrency: o.MaxConcurrency,
		RateLimit:      o.RateLimit,
		RateBurst:      o.RateBurst,
		CacheSize:      o.CacheSize,
		CacheTTL:       o.CacheTTL,
		BreakerEnabled: o.BreakerEnabled,
	}
}

// Snapshot records the modification time of every local artifact. Missing
// files are recorded with a zero time.
func Snapshot(cfg *config.Config) map[string]time.Time {
	out := make(map[string]time.Time)
	for _, src := range Sources(cfg) {
		var mtime time.Time
		if info, err := os.Stat(src.Path); err == nil {
			mtime = info.ModTime()
		}
		out[src.Path] = mtime
	}
	return out
}

// Reloader loads stores for one configuration. It satisfies the store
// source of the reload service.
type Reloader struct {
	cfg    *config.Config
	logger zerolog.Logger
}

// NewReloader creates a reloader.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewReloader(cfg *config.Config, logger zerolog.Logger) *Reloader {
	return &Reloader{cfg: cfg, logger: logger}
}

// Fingerprint returns the current artifact modification times.
func (r *Reloader) Fingerprint() map[string]time.Time {
	return Snapshot(r.cfg)
}

// Load builds a new store from the configured artifacts.
func (r *Reloader) Load(ctx context.Context) (*catalog.Store, error) {
	return LoadStore(ctx, r.cfg, r.logger)
}

// Describe summarizes a loaded store for the CLI and startup logs.
func Describe(store *catalog.Store) string {
	var s string
	for _, name := range store.Names() {
		ds, _ := store.Dataset(name)
		s += fmt.Sprintf("%s: %d entities, %dx%d matrix, popular=%t\n",
			name, ds.Len(), ds.Matrix().Rows(), ds.Matrix().Cols(), ds.HasPopular())
	}
	return s
}
