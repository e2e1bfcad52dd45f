// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package query

import (
	"strconv"
	"strings"
)

// Limits bounds a result count.
type Limits struct {
	Default int
	Min     int
	Max     int
}

// DefaultLimits is used when a domain configures none.
var DefaultLimits = Limits{Default: 5, Min: 1, Max: 15}

// ClampCount applies l to a caller-supplied count. A nil count takes the
// default; out-of-range values are pulled to the nearest bound.
func ClampCount(count *int, l Limits) int {
	n := l.Default
	if count != nil {
		n = *count
	}
	if n < l.Min {
		n = l.Min
	}
	if n > l.Max {
		n = l.Max
	}
	return n
}

// ParseCount parses the raw count parameter. An empty string means absent.
// Anything that is not a base-10 integer is a *ValidationError.
func ParseCount(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &ValidationError{
			Field:   "count",
			Message: "count must be an integer",
			Err:     err,
		}
	}
	return &n, nil
}
