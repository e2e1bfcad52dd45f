// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package catalog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/sbinet/npyio"
	"github.com/vmihailenco/msgpack/v5"
)

// Matrix is a dense row-major similarity matrix. Row i holds the similarity
// of entity i to every entity j < Cols.
type Matrix struct {
	rows int
	cols int
	data []float64
}

// NewMatrix wraps data (row-major, len rows*cols).
func NewMatrix(rows, cols int, data []float64) (*Matrix, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("%w: negative dimensions %dx%d", ErrShapeMismatch, rows, cols)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("%w: %dx%d matrix needs %d values, got %d",
			ErrShapeMismatch, rows, cols, rows*cols, len(data))
	}
	return &Matrix{rows: rows, cols: cols, data: data}, nil
}

// NewMatrixFromRows builds a matrix from a slice of equal-length rows.
func NewMatrixFromRows(rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 {
		return &Matrix{}, nil
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, row 0 has %d",
				ErrShapeMismatch, i, len(r), cols)
		}
		data = append(data, r...)
	}
	return NewMatrix(len(rows), cols, data)
}

// Rows returns the row count.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the column count.
func (m *Matrix) Cols() int { return m.cols }

// Row returns row i. The slice aliases the matrix and must not be modified.
func (m *Matrix) Row(i int) []float64 {
	if i < 0 || i >= m.rows {
		return nil
	}
	return m.data[i*m.cols : (i+1)*m.cols]
}

// msgpackMatrix is the msgpack layout written by the export tooling.
type msgpackMatrix struct {
	Rows int       `msgpack:"rows"`
	Cols int       `msgpack:"cols"`
	Data []float64 `msgpack:"data"`
}

// ReadMatrix loads a matrix file. Supported formats by extension:
// .npy (2-D float32 or float64, C or Fortran order), .msgpack/.mpk
// (a {rows, cols, data} map or an array of rows), and .json (array of rows).
func ReadMatrix(path string) (*Matrix, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".npy":
		return readNpy(path)
	case ".msgpack", ".mpk":
		return readMsgpack(path)
	case ".json":
		return readJSONMatrix(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMatrix, filepath.Ext(path))
	}
}

func readNpy(path string) (*Matrix, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	r, err := npyio.NewReader(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("failed to read npy header: %w", err)
	}

	shape := r.Header.Descr.Shape
	if len(shape) != 2 {
		return nil, fmt.Errorf("%w: npy array must be 2-D, got shape %v", ErrShapeMismatch, shape)
	}
	rows, cols := shape[0], shape[1]

	var data []float64
	switch dtype := r.Header.Descr.Type; dtype {
	case "<f8", "=f8", "|f8", ">f8":
		if err := r.Read(&data); err != nil {
			return nil, fmt.Errorf("failed to read npy data: %w", err)
		}
	case "<f4", "=f4", "|f4", ">f4":
		var f32 []float32
		if err := r.Read(&f32); err != nil {
			return nil, fmt.Errorf("failed to read npy data: %w", err)
		}
		data = make([]float64, len(f32))
		for i, v := range f32 {
			data[i] = float64(v)
		}
	default:
		return nil, fmt.Errorf("%w: npy dtype %q", ErrUnsupportedMatrix, dtype)
	}

	if r.Header.Descr.Fortran {
		data = transpose(data, rows, cols)
	}
	return NewMatrix(rows, cols, data)
}

// transpose converts column-major data into row-major order.
func transpose(data []float64, rows, cols int) []float64 {
	if len(data) != rows*cols {
		return data
	}
	out := make([]float64, len(data))
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			out[r*cols+c] = data[c*rows+r]
		}
	}
	return out
}

func readMsgpack(path string) (*Matrix, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, err
	}

	var m msgpackMatrix
	if err := msgpack.Unmarshal(raw, &m); err == nil && (m.Rows > 0 || m.Cols > 0 || len(m.Data) > 0) {
		return NewMatrix(m.Rows, m.Cols, m.Data)
	}

	// Fall back to a plain array of rows.
	var rows [][]float64
	if err := msgpack.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode msgpack matrix: %w", err)
	}
	return NewMatrixFromRows(rows)
}

func readJSONMatrix(path string) (*Matrix, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return decodeJSONMatrix(f)
}

func decodeJSONMatrix(r io.Reader) (*Matrix, error) {
	var rows [][]float64
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode json matrix: %w", err)
	}
	return NewMatrixFromRows(rows)
}
