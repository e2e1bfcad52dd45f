// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package enrich

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/metrics"
)

// PosterField is the field added to every enriched record.
const PosterField = "poster_url"

// DefaultTimeout bounds one OMDb call.
const DefaultTimeout = 10 * time.Second

// Config holds enrichment client settings.
type Config struct {
	Enabled bool
	BaseURL string
	APIKey  string

	// Timeout bounds one call. Zero uses DefaultTimeout.
	Timeout time.Duration

	// MaxConcurrency caps parallel calls within one batch. 0 is unbounded.
	MaxConcurrency int

	// RateLimit is the outbound requests per second. 0 disables limiting.
	RateLimit float64
	RateBurst int

	// CacheSize is the number of cached lookups. 0 disables caching.
	CacheSize int
	CacheTTL  time.Duration

	BreakerEnabled bool
}

// Client enriches records with poster URLs. It is safe for concurrent use.
type Client struct {
	cfg     Config
	omdb    *omdbClient
	limiter *rate.Limiter
	cache   *expirable.LRU[string, *string]
	breaker *gobreaker.CircuitBreaker[*string]
	logger  zerolog.Logger
}

// New creates an enrichment client.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(cfg Config, logger zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	c := &Client{
		cfg:    cfg,
		omdb:   newOMDbClient(cfg.BaseURL, cfg.APIKey, cfg.Timeout),
		logger: logger.With().Str("component", "enrich").Logger(),
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	if cfg.CacheSize > 0 {
		c.cache = expirable.NewLRU[string, *string](cfg.CacheSize, nil, cfg.CacheTTL)
	}
	if cfg.BreakerEnabled {
		c.breaker = newBreaker()
	}
	return c
}

// Enabled reports whether lookups are performed at all.
func (c *Client) Enabled() bool {
	return c != nil && c.cfg.Enabled
}

// Poster looks up the poster URL for title. A nil URL with a nil error means
// OMDb has no poster for the title. The call is bounded by the configured
// timeout and does not inherit ctx cancellation.
func (c *Client) Poster(ctx context.Context, title string) (*string, error) {
	start := time.Now()

	if c.cache != nil {
		if p, ok := c.cache.Get(title); ok {
			metrics.RecordEnrichment("cache_hit", time.Since(start))
			return p, nil
		}
	}

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.Timeout)
	defer cancel()

	p, err := c.call(callCtx, title)
	metrics.RecordEnrichment(outcome(err), time.Since(start))
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Add(title, p)
	}
	return p, nil
}

func (c *Client) call(ctx context.Context, title string) (*string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	if c.breaker == nil {
		return c.omdb.poster(ctx, title)
	}

	p, err := c.breaker.Execute(func() (*string, error) {
		return c.omdb.poster(ctx, title)
	})
	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
	case isRejected(err):
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
	}
	return p, err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case isRejected(err):
		return "rejected"
	default:
		return "failure"
	}
}

// Enrich returns copies of records with poster_url set, looked up by the
// string in titleField. Lookups run concurrently and the batch waits for all
// of them. Failures leave poster_url null; input order is preserved.
func (c *Client) Enrich(ctx context.Context, records []catalog.Record, titleField string) []catalog.Record {
	out := make([]catalog.Record, len(records))

	if !c.Enabled() {
		for i, rec := range records {
			out[i] = rec.Set(PosterField, nil)
		}
		return out
	}

	var g errgroup.Group
	if c.cfg.MaxConcurrency > 0 {
		g.SetLimit(c.cfg.MaxConcurrency)
	}

	for i, rec := range records {
		g.Go(func() error {
			out[i] = rec.Set(PosterField, c.lookup(ctx, rec, titleField))
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// lookup returns the poster value for rec: a string or nil.
func (c *Client) lookup(ctx context.Context, rec catalog.Record, titleField string) any {
	title, ok := rec.String(titleField)
	if !ok || title == "" {
		c.logger.Warn().Str("field", titleField).Msg("record has no title, skipping poster lookup")
		return nil
	}

	p, err := c.Poster(ctx, title)
	if err != nil {
		c.logger.Warn().Err(err).Str("title", title).Msg("poster lookup failed")
		return nil
	}
	if p == nil {
		return nil
	}
	return *p
}

// State returns the circuit breaker state, or closed when it is disabled.
func (c *Client) State() gobreaker.State {
	if c.breaker == nil {
		return gobreaker.StateClosed
	}
	return c.breaker.State()
}

// Capitalize upper-cases the first rune and lower-cases the rest, the way
// Python's str.capitalize does: "the dark knight" becomes "The dark knight".
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToTitle(r)) + strings.ToLower(s[size:])
}
