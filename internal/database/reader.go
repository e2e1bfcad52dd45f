// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package database

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"
)

// Rows is a fully materialized table read from an artifact file.
type Rows struct {
	Columns []string
	Values  [][]any
}

// ReadTable reads every row of the file at path, preserving file order.
// The reader is chosen from the extension: .csv/.tsv (optionally .gz),
// .parquet, .json/.jsonl/.ndjson.
func (db *DB) ReadTable(ctx context.Context, path string) (*Rows, error) {
	source, err := sourceExpr(path)
	if err != nil {
		return nil, err
	}

	rows, err := db.conn.QueryContext(ctx, "SELECT * FROM "+source)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", path, err)
	}
	defer closeQuietly(rows)

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", path, err)
	}

	out := &Rows{Columns: columns}
	for rows.Next() {
		vals := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row %d of %s: %w", len(out.Values), path, err)
		}
		for i, v := range vals {
			vals[i] = normalizeValue(v)
		}
		out.Values = append(out.Values, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", path, err)
	}

	return out, nil
}

// sourceExpr builds the DuckDB table function call for path.
func sourceExpr(path string) (string, error) {
	quoted := "'" + strings.ReplaceAll(path, "'", "''") + "'"

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".gz" || ext == ".zst" {
		ext = strings.ToLower(filepath.Ext(strings.TrimSuffix(path, filepath.Ext(path))))
	}

	switch ext {
	case ".csv", ".tsv", ".txt":
		return "read_csv_auto(" + quoted + ", header = true)", nil
	case ".parquet":
		return "read_parquet(" + quoted + ")", nil
	case ".json", ".jsonl", ".ndjson":
		return "read_json_auto(" + quoted + ")", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// normalizeValue converts driver values into JSON-friendly Go values.
// Non-finite floats become nil; they cannot be encoded as JSON numbers.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case []byte:
		return string(val)
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil
		}
		return val
	case float32:
		f := float64(val)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return f
	case string, bool, int8, int16, int32, int64, uint8, uint16, uint32, uint64, int, uint, time.Time:
		return val
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = normalizeValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = normalizeValue(e)
		}
		return out
	case interface{ Float64() float64 }:
		return normalizeValue(val.Float64())
	case fmt.Stringer:
		return val.String()
	default:
		return val
	}
}
