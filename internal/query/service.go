// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package query

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/enrich"
	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/recommend"
)

// Domain holds the per-domain query policy.
type Domain struct {
	Name string

	Limits        Limits
	PopularLimits Limits

	// TitleColumn names the display title field.
	TitleColumn     string
	CapitalizeTitle bool

	// Enrich adds poster_url to every result record.
	Enrich bool

	NotFoundMessage string
	MissingMessage  string
}

// Enricher adds poster data to result records.
type Enricher interface {
	Enrich(ctx context.Context, records []catalog.Record, titleField string) []catalog.Record
}

// Service answers recommendation and popularity queries.
type Service struct {
	holder   *catalog.Holder
	engine   *recommend.Engine
	enricher Enricher
	domains  map[string]Domain
	logger   zerolog.Logger
}

// NewService creates a query service. enricher may be nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewService(holder *catalog.Holder, engine *recommend.Engine, enricher Enricher, domains []Domain, logger zerolog.Logger) *Service {
	m := make(map[string]Domain, len(domains))
	for _, d := range domains {
		m[d.Name] = d
	}
	return &Service{
		holder:   holder,
		engine:   engine,
		enricher: enricher,
		domains:  m,
		logger:   logger.With().Str("component", "query").Logger(),
	}
}

// Domain returns the policy for name.
func (s *Service) Domain(name string) (Domain, bool) {
	d, ok := s.domains[name]
	return d, ok
}

// Domains returns the configured domain names, sorted.
func (s *Service) Domains() []string {
	names := make([]string, 0, len(s.domains))
	for name := range s.domains {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Recommend returns result records for the entities most similar to name.
// count may be nil to take the domain default.
func (s *Service) Recommend(ctx context.Context, domain, name string, count *int) (records []catalog.Record, err error) {
	defer func() { metrics.RecordQuery(domain, outcomeOf(err)) }()
	defer s.recoverInto(&err, "recommend")

	d, ds, err := s.dataset(domain)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, &ValidationError{Field: "name", Message: d.MissingMessage}
	}

	k := ClampCount(count, d.Limits)
	candidates := s.engine.Rank(ds, name, k)
	if len(candidates) == 0 {
		return nil, &NotFoundError{Domain: domain, Query: name, Message: d.NotFoundMessage}
	}

	records = make([]catalog.Record, len(candidates))
	for i, c := range candidates {
		rec := ds.DisplayRecord(c.Index)
		if d.CapitalizeTitle {
			if title, ok := rec.String(d.TitleColumn); ok {
				rec = rec.Set(d.TitleColumn, enrich.Capitalize(title))
			}
		}
		records[i] = rec
	}

	if d.Enrich && s.enricher != nil {
		records = s.enricher.Enrich(ctx, records, d.TitleColumn)
	}

	s.logger.Debug().
		Str("domain", domain).
		Str("query", name).
		Int("count", k).
		Int("results", len(records)).
		Msg("recommendation served")

	return records, nil
}

// Popular returns the first rows of the domain's popularity listing.
func (s *Service) Popular(_ context.Context, domain string, count *int) (records []catalog.Record, err error) {
	defer func() { metrics.RecordQuery(domain+"_popular", outcomeOf(err)) }()
	defer s.recoverInto(&err, "popular")

	d, ds, err := s.dataset(domain)
	if err != nil {
		return nil, err
	}
	if !ds.HasPopular() {
		return nil, &InternalError{Op: "popular", Err: fmt.Errorf("domain %q has no popularity listing", domain)}
	}

	limits := d.PopularLimits
	if limits.Max == 0 {
		limits = d.Limits
	}
	return ds.PopularRecords(ClampCount(count, limits)), nil
}

func (s *Service) dataset(domain string) (Domain, *catalog.Dataset, error) {
	d, ok := s.domains[domain]
	if !ok {
		return Domain{}, nil, &InternalError{Op: "query", Err: fmt.Errorf("unknown domain %q", domain)}
	}
	if d.Limits.Max == 0 {
		d.Limits = DefaultLimits
	}
	ds, ok := s.holder.Current().Dataset(domain)
	if !ok {
		return Domain{}, nil, &InternalError{Op: "query", Err: fmt.Errorf("domain %q is not loaded", domain)}
	}
	return d, ds, nil
}

// recoverInto converts a panic into an InternalError.
func (s *Service) recoverInto(err *error, op string) {
	if r := recover(); r != nil {
		s.logger.Error().Interface("panic", r).Str("op", op).Msg("query panicked")
		*err = &InternalError{Op: op, Err: fmt.Errorf("panic: %v", r)}
	}
}

func outcomeOf(err error) string {
	var (
		nf *NotFoundError
		ve *ValidationError
	)
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &nf):
		return "not_found"
	case errors.As(err, &ve):
		return "invalid"
	default:
		return "error"
	}
}
