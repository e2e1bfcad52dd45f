// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"math"
	"sort"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/metrics"
)

// Engine resolves query keys against a dataset and ranks similar entities.
// It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	queries    atomic.Int64
	unresolved atomic.Int64
}

// NewEngine creates a ranking engine. A nil cfg uses DefaultConfig.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Engine{
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
	}
}

// Resolve maps queryKey to a matrix row and reports which policy matched.
// ok is false when the key is unknown.
func (e *Engine) Resolve(ds *catalog.Dataset, queryKey string) (row int, step Resolution, ok bool) {
	if ds == nil {
		return -1, ResolvedNone, false
	}
	if row, ok := ds.LookupKey(queryKey); ok {
		return row, ResolvedKey, true
	}
	if ds.HasCategory() {
		if row, ok := ds.LookupCategory(queryKey); ok {
			return row, ResolvedCategory, true
		}
	}
	if ds.HasNormalized() {
		if row, ok := ds.LookupNormalized(queryKey); ok {
			return row, ResolvedNormalized, true
		}
	}
	return -1, ResolvedNone, false
}

// Rank returns the candidates most similar to queryKey, best first. An
// unresolved key returns an empty slice.
func (e *Engine) Rank(ds *catalog.Dataset, queryKey string, topK int) []Candidate {
	start := time.Now()
	e.queries.Add(1)

	if topK < 0 {
		topK = 0
	}

	row, how, ok := e.Resolve(ds, queryKey)
	if !ok {
		e.unresolved.Add(1)
		if ds != nil {
			metrics.RecordRank(ds.Name(), how.String(), time.Since(start))
		}
		e.logger.Debug().Str("query", queryKey).Msg("query key not resolved")
		return []Candidate{}
	}

	scores := ds.Matrix().Row(row)
	candidates := make([]Candidate, len(scores))
	for i, s := range scores {
		candidates[i] = Candidate{Index: i, Score: s}
	}
	sortCandidates(candidates)

	limit := topK + 1
	if !e.config.IncludeSelf {
		candidates = dropIndex(candidates, row)
		limit = topK
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	metrics.RecordRank(ds.Name(), how.String(), time.Since(start))
	e.logger.Debug().
		Str("dataset", ds.Name()).
		Str("resolution", how.String()).
		Int("row", row).
		Int("results", len(candidates)).
		Msg("ranked candidates")

	return candidates
}

// sortCandidates orders by score descending, then index ascending. NaN
// scores go last.
func sortCandidates(c []Candidate) {
	sort.Slice(c, func(i, j int) bool {
		a, b := c[i], c[j]
		aNaN, bNaN := math.IsNaN(a.Score), math.IsNaN(b.Score)
		switch {
		case aNaN && bNaN:
			return a.Index < b.Index
		case aNaN:
			return false
		case bNaN:
			return true
		case a.Score != b.Score:
			return a.Score > b.Score
		default:
			return a.Index < b.Index
		}
	})
}

func dropIndex(c []Candidate, index int) []Candidate {
	out := c[:0]
	for _, cand := range c {
		if cand.Index != index {
			out = append(out, cand)
		}
	}
	return out
}

// Stats returns engine counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Queries:    e.queries.Load(),
		Unresolved: e.unresolved.Load(),
	}
}

// Config returns the engine configuration.
func (e *Engine) Config() *Config {
	return e.config
}
