// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package catalog

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// NormalizeKey removes every whitespace rune and case-folds the rest, so
// "The Da Vinci Code" and "thedavincicode" compare equal.
func NormalizeKey(s string) string {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	// A Caser is stateful; build one per call.
	return cases.Fold().String(stripped)
}

// lowerKey is the exact-match key: case-insensitive, whitespace preserved.
func lowerKey(s string) string {
	return strings.ToLower(s)
}

// keyString renders a key cell as text. Non-string keys (numeric titles
// sniffed as integers) are formatted with fmt.
func keyString(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	default:
		return fmt.Sprint(val), true
	}
}
