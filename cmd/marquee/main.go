// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Command marquee is the offline companion of the server: it fetches
// artifacts, validates them and answers recommendation queries from the
// command line using the same configuration.
package main

import (
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
