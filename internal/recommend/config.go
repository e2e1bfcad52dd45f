// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

// Config contains ranking engine configuration.
type Config struct {
	// IncludeSelf keeps the resolved entity's own entry in the output.
	// When true the engine returns topK+1 candidates; when false the self
	// index is dropped and topK candidates are returned.
	IncludeSelf bool `json:"include_self"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		IncludeSelf: true,
	}
}
