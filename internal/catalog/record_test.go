// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package catalog

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordJSONKeepsOrder(t *testing.T) {
	t.Parallel()

	rec := NewRecord(
		Field{Name: "title", Value: "Inception"},
		Field{Name: "genres", Value: []string{"Action", "Thriller"}},
		Field{Name: "year", Value: int64(2010)},
	).Set("poster_url", nil)

	out, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"Inception","genres":["Action","Thriller"],"year":2010,"poster_url":null}`, string(out))
}

func TestRecordSetIsCopy(t *testing.T) {
	t.Parallel()

	orig := NewRecord(Field{Name: "title", Value: "inception"})
	updated := orig.Set("title", "Inception")

	s, _ := orig.String("title")
	assert.Equal(t, "inception", s)
	s, _ = updated.String("title")
	assert.Equal(t, "Inception", s)
	assert.Equal(t, 1, updated.Len())
}

func TestRecordProject(t *testing.T) {
	t.Parallel()

	rec := NewRecord(
		Field{Name: "Book-Title", Value: "Dune"},
		Field{Name: "Book-Author", Value: "Frank Herbert"},
		Field{Name: "ISBN", Value: "0441013597"},
	)

	got := rec.Project([]string{"Book-Author", "Book-Title", "Missing"})
	assert.Equal(t, []Field{
		{Name: "Book-Author", Value: "Frank Herbert"},
		{Name: "Book-Title", Value: "Dune"},
	}, got.Fields())

	assert.Equal(t, 3, rec.Project(nil).Len())
}
