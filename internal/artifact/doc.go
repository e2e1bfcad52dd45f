// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package artifact downloads precomputed artifacts on first use.

A configured artifact with a remote URL is fetched once and cached on disk
next to the other artifacts. Later starts find the local file and skip the
network entirely.

Several processes may start against the same artifact directory (replicas
sharing a volume, or the CLI running next to the server). Downloads are
serialized with an exclusive lock file, <dir>/.fetch.lock, held through
github.com/gofrs/flock. After acquiring the lock the local path is checked
again, so only the first process downloads.

A download is streamed into a temporary file in the destination directory
and renamed into place once complete. A reader never observes a partial
artifact.

Example:

	f := artifact.NewFetcher(artifact.Config{Timeout: 10 * time.Minute}, logger)
	path, err := f.Ensure(ctx, "/data/movie_list.csv", "https://example.com/movie_list.csv")
*/
package artifact
