// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package main

import (
	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/api"
	"github.com/tomtom215/marquee/internal/bootstrap"
	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/enrich"
	"github.com/tomtom215/marquee/internal/query"
	"github.com/tomtom215/marquee/internal/recommend"
)

// RecommendComponents holds the query path built on top of the live store.
type RecommendComponents struct {
	Engine   *recommend.Engine
	Enricher *enrich.Client
	Query    *query.Service
}

// initRecommend wires the ranking engine, the poster enricher and the query
// service around holder.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(cfg *config.Config, holder *catalog.Holder, logger zerolog.Logger) *RecommendComponents {
	engine := recommend.NewEngine(&recommend.Config{IncludeSelf: cfg.Recommend.IncludeSelf}, logger)

	enrichCfg := bootstrap.EnrichConfig(cfg)
	enricher := enrich.New(enrichCfg, logger)
	if enrichCfg.Enabled {
		logger.Info().
			Str("base_url", enrichCfg.BaseURL).
			Dur("timeout", enrichCfg.Timeout).
			Int("max_concurrency", enrichCfg.MaxConcurrency).
			Bool("breaker", enrichCfg.BreakerEnabled).
			Msg("Poster enrichment enabled")
	} else {
		logger.Warn().Msg("Poster enrichment disabled (OMDB_API_KEY unset or OMDB_ENABLED=false), poster_url will be null")
	}

	domains := bootstrap.QueryDomains(cfg)
	svc := query.NewService(holder, engine, enricher, domains, logger)

	return &RecommendComponents{
		Engine:   engine,
		Enricher: enricher,
		Query:    svc,
	}
}

// middlewareConfig maps the security and recommend sections onto the HTTP
// middleware settings.
func middlewareConfig(cfg *config.Config) *api.ChiMiddlewareConfig {
	mw := api.DefaultChiMiddlewareConfig()
	mw.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mw.RateLimitRequests = cfg.Security.RateLimitReqs
	mw.RateLimitWindow = cfg.Security.RateLimitWindow
	mw.RateLimitDisabled = cfg.Security.RateLimitDisabled
	mw.RequestTimeout = cfg.Recommend.RequestTimeout
	return mw
}
