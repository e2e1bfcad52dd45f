// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

// Candidate is one ranked matrix column. Candidates are scoped to a single
// query.
type Candidate struct {
	// Index is the entity row the candidate refers to.
	Index int `json:"index"`

	// Score is the similarity to the resolved entity.
	Score float64 `json:"score"`
}

// Resolution identifies which lookup policy resolved a query key.
type Resolution int

const (
	// ResolvedNone means no policy matched.
	ResolvedNone Resolution = iota
	// ResolvedKey is an exact, case-insensitive key match.
	ResolvedKey
	// ResolvedCategory is a category containment match.
	ResolvedCategory
	// ResolvedNormalized is a whitespace-stripped, case-folded key match.
	ResolvedNormalized
)

// String returns the metric label for the resolution.
func (r Resolution) String() string {
	switch r {
	case ResolvedKey:
		return "key"
	case ResolvedCategory:
		return "category"
	case ResolvedNormalized:
		return "normalized"
	default:
		return "none"
	}
}

// Stats reports engine counters since start.
type Stats struct {
	Queries    int64 `json:"queries"`
	Unresolved int64 `json:"unresolved"`
}
