// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/database"
	"github.com/tomtom215/marquee/internal/metrics"
)

// DatasetConfig describes the artifacts of one domain. Paths are absolute
// or relative to the working directory; empty optional paths are skipped.
type DatasetConfig struct {
	Name string

	EntitiesPath string
	MatrixPath   string
	AuxPath      string
	DetailsPath  string
	PopularPath  string

	KeyColumn        string
	CategoryColumn   string
	AuxKeyColumn     string
	AuxIndexColumn   string
	DetailsKeyColumn string

	NormalizeKeys bool
	ListColumns   []string
	Columns       []string

	// DB tunes the DuckDB reader used during the load.
	DB database.Config
}

// Dataset is one loaded domain: entity table, similarity matrix and the
// optional lookup, details and popularity tables. A Dataset is immutable.
type Dataset struct {
	name     string
	entities *Table
	matrix   *Matrix
	details  *Table
	popular  *Table
	columns  []string

	keyCol        int
	categoryCol   int // -1 when the dataset has no category field
	detailsKeyCol int

	byKey        map[string]int
	byCategory   map[string]int
	byNormalized map[string]int
	detailsByKey map[string]int
}

// Artifacts are the decoded inputs of a Dataset. Entities and Matrix are
// required; the rest may be nil.
type Artifacts struct {
	Entities *Table
	Matrix   *Matrix
	Aux      *Table
	Details  *Table
	Popular  *Table
}

// Load reads every artifact of cfg and checks that they align. Any problem
// is returned as a *LoadError.
func Load(ctx context.Context, cfg DatasetConfig, logger zerolog.Logger) (*Dataset, error) {
	start := time.Now()
	logger = logger.With().Str("dataset", cfg.Name).Logger()

	db, err := database.Open(cfg.DB)
	if err != nil {
		return nil, loadErr(cfg.Name, "entities", cfg.EntitiesPath, err)
	}
	defer func() { _ = db.Close() }()

	var a Artifacts
	a.Entities, err = readTable(ctx, db, cfg.Name, "entities", cfg.EntitiesPath, cfg.ListColumns)
	if err != nil {
		return nil, err
	}

	matrixStart := time.Now()
	a.Matrix, err = ReadMatrix(cfg.MatrixPath)
	if err != nil {
		return nil, loadErr(cfg.Name, "matrix", cfg.MatrixPath, err)
	}
	metrics.RecordArtifactLoad(cfg.Name, "matrix", a.Matrix.Rows(), time.Since(matrixStart))

	optional := []struct {
		artifact string
		path     string
		dst      **Table
	}{
		{"aux", cfg.AuxPath, &a.Aux},
		{"details", cfg.DetailsPath, &a.Details},
		{"popular", cfg.PopularPath, &a.Popular},
	}
	for _, o := range optional {
		if o.path == "" {
			continue
		}
		if *o.dst, err = readTable(ctx, db, cfg.Name, o.artifact, o.path, nil); err != nil {
			return nil, err
		}
	}

	ds, err := Assemble(cfg, a)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int("entities", ds.entities.Len()).
		Int("matrix_cols", ds.matrix.Cols()).
		Bool("normalized_lookup", ds.byNormalized != nil).
		Bool("details", ds.details != nil).
		Bool("popular", ds.popular != nil).
		Dur("duration", time.Since(start)).
		Msg("Dataset loaded")

	return ds, nil
}

// Assemble validates decoded artifacts against cfg and builds the lookup
// indexes. Paths in cfg are only used for error reporting.
func Assemble(cfg DatasetConfig, a Artifacts) (*Dataset, error) {
	if a.Entities == nil {
		return nil, loadErr(cfg.Name, "entities", cfg.EntitiesPath, fmt.Errorf("entity table missing"))
	}
	if a.Matrix == nil {
		return nil, loadErr(cfg.Name, "matrix", cfg.MatrixPath, fmt.Errorf("similarity matrix missing"))
	}
	if cfg.KeyColumn == "" {
		return nil, loadErr(cfg.Name, "entities", cfg.EntitiesPath, fmt.Errorf("%w: key column not configured", ErrMissingColumn))
	}
	for _, name := range cfg.ListColumns {
		if !a.Entities.IsList(name) {
			return nil, loadErr(cfg.Name, "entities", cfg.EntitiesPath, fmt.Errorf("%w: list column %q", ErrMissingColumn, name))
		}
	}

	ds := &Dataset{
		name:          cfg.Name,
		entities:      a.Entities,
		matrix:        a.Matrix,
		details:       a.Details,
		popular:       a.Popular,
		columns:       append([]string(nil), cfg.Columns...),
		categoryCol:   -1,
		detailsKeyCol: -1,
		byKey:         make(map[string]int),
		byCategory:    make(map[string]int),
	}

	if ds.matrix.Rows() != ds.entities.Len() {
		return nil, loadErr(cfg.Name, "matrix", cfg.MatrixPath, fmt.Errorf(
			"%w: matrix has %d rows, entity table has %d", ErrShapeMismatch, ds.matrix.Rows(), ds.entities.Len()))
	}
	if ds.matrix.Cols() > ds.entities.Len() {
		return nil, loadErr(cfg.Name, "matrix", cfg.MatrixPath, fmt.Errorf(
			"%w: matrix has %d columns, only %d entities", ErrShapeMismatch, ds.matrix.Cols(), ds.entities.Len()))
	}

	if err := ds.indexEntities(cfg); err != nil {
		return nil, err
	}

	switch {
	case a.Aux != nil:
		if err := ds.indexAux(cfg, a.Aux); err != nil {
			return nil, err
		}
	case cfg.NormalizeKeys:
		ds.byNormalized = make(map[string]int, ds.entities.Len())
		for row := 0; row < ds.entities.Len(); row++ {
			if key, ok := keyString(ds.entities.Value(row, ds.keyCol)); ok {
				addFirst(ds.byNormalized, NormalizeKey(key), row)
			}
		}
	}

	if ds.details != nil {
		if err := ds.indexDetails(cfg); err != nil {
			return nil, err
		}
	}

	if err := ds.checkProjection(cfg); err != nil {
		return nil, err
	}
	return ds, nil
}

func readTable(ctx context.Context, db *database.DB, domain, artifact, path string, lists []string) (*Table, error) {
	if path == "" {
		return nil, loadErr(domain, artifact, path, fmt.Errorf("path not configured"))
	}

	start := time.Now()
	raw, err := db.ReadTable(ctx, path)
	if err != nil {
		return nil, loadErr(domain, artifact, path, err)
	}

	t, err := NewTable(raw.Columns, raw.Values, lists)
	if err != nil {
		return nil, loadErr(domain, artifact, path, err)
	}
	metrics.RecordArtifactLoad(domain, artifact, t.Len(), time.Since(start))
	return t, nil
}

func (ds *Dataset) indexEntities(cfg DatasetConfig) error {
	col, ok := ds.entities.Column(cfg.KeyColumn)
	if !ok {
		return loadErr(cfg.Name, "entities", cfg.EntitiesPath, fmt.Errorf("%w: %q", ErrMissingColumn, cfg.KeyColumn))
	}
	ds.keyCol = col

	if cfg.CategoryColumn != "" {
		cat, ok := ds.entities.Column(cfg.CategoryColumn)
		if !ok {
			return loadErr(cfg.Name, "entities", cfg.EntitiesPath, fmt.Errorf("%w: %q", ErrMissingColumn, cfg.CategoryColumn))
		}
		if !ds.entities.IsList(cfg.CategoryColumn) {
			return loadErr(cfg.Name, "entities", cfg.EntitiesPath,
				fmt.Errorf("category column %q must be listed in list_columns", cfg.CategoryColumn))
		}
		ds.categoryCol = cat
	}

	for row := 0; row < ds.entities.Len(); row++ {
		if key, ok := keyString(ds.entities.Value(row, ds.keyCol)); ok {
			addFirst(ds.byKey, lowerKey(key), row)
		}
		if ds.categoryCol >= 0 {
			tags, _ := ds.entities.Value(row, ds.categoryCol).([]string)
			for _, tag := range tags {
				addFirst(ds.byCategory, tag, row)
			}
		}
	}
	return nil
}

// indexAux maps normalized aux keys to matrix rows. Without an index column
// aux row i addresses matrix row i, so the row counts must agree.
func (ds *Dataset) indexAux(cfg DatasetConfig, aux *Table) error {
	keyName := cfg.AuxKeyColumn
	if keyName == "" {
		keyName = cfg.KeyColumn
	}
	keyCol, ok := aux.Column(keyName)
	if !ok {
		return loadErr(cfg.Name, "aux", cfg.AuxPath, fmt.Errorf("%w: %q", ErrMissingColumn, keyName))
	}

	idxCol := -1
	if cfg.AuxIndexColumn != "" {
		idxCol, ok = aux.Column(cfg.AuxIndexColumn)
		if !ok {
			return loadErr(cfg.Name, "aux", cfg.AuxPath, fmt.Errorf("%w: %q", ErrMissingColumn, cfg.AuxIndexColumn))
		}
	} else if aux.Len() != ds.matrix.Rows() {
		return loadErr(cfg.Name, "aux", cfg.AuxPath, fmt.Errorf(
			"%w: aux table has %d rows, matrix has %d", ErrShapeMismatch, aux.Len(), ds.matrix.Rows()))
	}

	ds.byNormalized = make(map[string]int, aux.Len())
	for row := 0; row < aux.Len(); row++ {
		key, ok := keyString(aux.Value(row, keyCol))
		if !ok {
			continue
		}
		target := row
		if idxCol >= 0 {
			target, ok = toIndex(aux.Value(row, idxCol))
			if !ok || target < 0 || target >= ds.matrix.Rows() {
				return loadErr(cfg.Name, "aux", cfg.AuxPath, fmt.Errorf(
					"%w: aux row %d points at matrix row %v", ErrShapeMismatch, row, aux.Value(row, idxCol)))
			}
		}
		addFirst(ds.byNormalized, NormalizeKey(key), target)
	}
	return nil
}

func (ds *Dataset) indexDetails(cfg DatasetConfig) error {
	keyName := cfg.DetailsKeyColumn
	if keyName == "" {
		keyName = cfg.KeyColumn
	}
	col, ok := ds.details.Column(keyName)
	if !ok {
		return loadErr(cfg.Name, "details", cfg.DetailsPath, fmt.Errorf("%w: %q", ErrMissingColumn, keyName))
	}
	ds.detailsKeyCol = col
	ds.detailsByKey = make(map[string]int, ds.details.Len())
	for row := 0; row < ds.details.Len(); row++ {
		if key, ok := keyString(ds.details.Value(row, col)); ok {
			addFirst(ds.detailsByKey, key, row)
		}
	}
	return nil
}

// checkProjection verifies every projected column exists in the table
// records are displayed from.
func (ds *Dataset) checkProjection(cfg DatasetConfig) error {
	display, artifact, path := ds.entities, "entities", cfg.EntitiesPath
	if ds.details != nil {
		display, artifact, path = ds.details, "details", cfg.DetailsPath
	}
	for _, name := range ds.columns {
		if !display.HasColumn(name) {
			return loadErr(cfg.Name, artifact, path, fmt.Errorf("%w: projected column %q", ErrMissingColumn, name))
		}
	}
	return nil
}

func addFirst(m map[string]int, key string, row int) {
	if _, exists := m[key]; !exists {
		m[key] = row
	}
}

func toIndex(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true //nolint:gosec // bounds checked by caller
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

// Name returns the domain name.
func (ds *Dataset) Name() string { return ds.name }

// Len returns the number of entities.
func (ds *Dataset) Len() int { return ds.entities.Len() }

// Matrix returns the similarity matrix.
func (ds *Dataset) Matrix() *Matrix { return ds.matrix }

// HasCategory reports whether the dataset has a category field.
func (ds *Dataset) HasCategory() bool { return ds.categoryCol >= 0 }

// HasNormalized reports whether normalized-key lookup is available.
func (ds *Dataset) HasNormalized() bool { return ds.byNormalized != nil }

// HasPopular reports whether a popularity table was loaded.
func (ds *Dataset) HasPopular() bool { return ds.popular != nil }

// LookupKey returns the first row whose key equals key, ignoring case.
func (ds *Dataset) LookupKey(key string) (int, bool) {
	row, ok := ds.byKey[lowerKey(key)]
	return row, ok
}

// LookupCategory returns the first row whose category list contains tag.
// The comparison is case-sensitive.
func (ds *Dataset) LookupCategory(tag string) (int, bool) {
	if ds.categoryCol < 0 {
		return 0, false
	}
	row, ok := ds.byCategory[tag]
	return row, ok
}

// LookupNormalized returns the matrix row whose normalized key matches.
func (ds *Dataset) LookupNormalized(key string) (int, bool) {
	if ds.byNormalized == nil {
		return 0, false
	}
	row, ok := ds.byNormalized[NormalizeKey(key)]
	return row, ok
}

// Key returns the primary key of row.
func (ds *Dataset) Key(row int) (string, bool) {
	return keyString(ds.entities.Value(row, ds.keyCol))
}

// Record returns the raw entity record at row.
func (ds *Dataset) Record(row int) Record {
	return ds.entities.Record(row)
}

// DisplayRecord returns the response-ready record for row: the first
// details row sharing its key when a details table exists, otherwise the
// entity row, projected to the configured columns.
func (ds *Dataset) DisplayRecord(row int) Record {
	rec := ds.entities.Record(row)
	if ds.details != nil {
		if key, ok := ds.Key(row); ok {
			if drow, ok := ds.detailsByKey[key]; ok {
				rec = ds.details.Record(drow)
			}
		}
	}
	return rec.Project(ds.columns)
}

// PopularRecords returns the first n rows of the popularity table verbatim.
func (ds *Dataset) PopularRecords(n int) []Record {
	if ds.popular == nil || n <= 0 {
		return []Record{}
	}
	if n > ds.popular.Len() {
		n = ds.popular.Len()
	}
	out := make([]Record, n)
	for i := 0; i < n; i++ {
		out[i] = ds.popular.Record(i)
	}
	return out
}
