// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package catalog

import (
	"bytes"

	"github.com/goccy/go-json"
)

// Field is one named attribute of a Record.
type Field struct {
	Name  string
	Value any
}

// Record is an ordered set of fields. It encodes to a JSON object whose keys
// follow the source column order. Records are values: Set and Project return
// copies and never modify the receiver.
type Record struct {
	fields []Field
}

// NewRecord builds a record from fields in order.
func NewRecord(fields ...Field) Record {
	out := make([]Field, len(fields))
	copy(out, fields)
	return Record{fields: out}
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r.fields)
}

// Fields returns a copy of the fields in order.
func (r Record) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Get returns the value of the named field.
func (r Record) Get(name string) (any, bool) {
	for _, f := range r.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// String returns the named field when it holds a string.
func (r Record) String(name string) (string, bool) {
	v, ok := r.Get(name)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Set returns a copy with name set to value. An existing field keeps its
// position; a new field is appended.
func (r Record) Set(name string, value any) Record {
	out := make([]Field, len(r.fields), len(r.fields)+1)
	copy(out, r.fields)
	for i := range out {
		if out[i].Name == name {
			out[i].Value = value
			return Record{fields: out}
		}
	}
	return Record{fields: append(out, Field{Name: name, Value: value})}
}

// Project returns a copy holding only the named fields, in the given order.
// Names the record does not have are skipped. An empty list returns r.
func (r Record) Project(names []string) Record {
	if len(names) == 0 {
		return r
	}
	out := make([]Field, 0, len(names))
	for _, name := range names {
		if v, ok := r.Get(name); ok {
			out = append(out, Field{Name: name, Value: v})
		}
	}
	return Record{fields: out}
}

// MarshalJSON encodes the record as an ordered JSON object.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
