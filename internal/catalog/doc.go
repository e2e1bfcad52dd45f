// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package catalog is the read-only similarity store.

A Dataset bundles, for one domain, the entity table and the similarity matrix
whose rows align with it, plus the optional auxiliary, details and popularity
tables. Datasets are built once by Load and never mutated afterwards, so any
number of goroutines may read them without locking.

# Artifacts

Tables are read through DuckDB (CSV, Parquet, JSON). Matrices are read from
NumPy .npy files, msgpack or JSON. Configured list columns are typed into
[]string at load time; a string cell is parsed as a Python or JSON list
literal such as "['Action', 'Drama']".

# Invariants

  - matrix rows == entity rows
  - matrix cols <= entity rows (every column index names an entity)
  - every configured column exists

Any violation is returned as a *LoadError.

# Lookup Indexes

Load precomputes the lookups the ranking engine needs:

  - lower-cased primary key -> first row
  - category tag -> first row whose list contains it (case-sensitive)
  - normalized key (whitespace removed, case-folded) -> matrix row
  - details key -> first details row

A Store groups datasets by name. A Holder publishes the current Store through
an atomic pointer so a reload can swap in a complete new Store while in-flight
queries keep using the one they started with.
*/
package catalog
