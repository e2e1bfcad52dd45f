// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package database wraps an in-memory DuckDB instance used to read tabular
// artifacts (CSV, Parquet, JSON) into Go values. Nothing is persisted: the
// database only lives for the duration of a load.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"

	_ "github.com/duckdb/duckdb-go/v2"
)

// Config tunes the in-memory reader.
type Config struct {
	// Threads is the DuckDB worker count. 0 uses runtime.NumCPU().
	Threads int

	// MaxMemory caps DuckDB memory, e.g. "2GB". Empty leaves DuckDB's default.
	MaxMemory string
}

// DB wraps the DuckDB connection used for artifact reads.
type DB struct {
	conn *sql.DB
}

// Open creates an in-memory DuckDB database.
//
// preserve_insertion_order is forced on: row order of an entity table is
// its identity, since matrix rows address entities by position.
func Open(cfg Config) (*DB, error) {
	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	connStr := fmt.Sprintf("?threads=%d&preserve_insertion_order=true", threads)
	if cfg.MaxMemory != "" {
		connStr += "&max_memory=" + cfg.MaxMemory
	}

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}

	// A single connection keeps every statement on the same in-memory catalog.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to ping duckdb: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close releases the DuckDB instance.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying SQL connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Ping verifies the connection is usable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}
