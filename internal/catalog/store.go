// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package catalog

import (
	"fmt"
	"sort"
	"sync/atomic"
	"time"
)

// Store holds one Dataset per domain. It is read-only once built.
type Store struct {
	datasets map[string]*Dataset
	loadedAt time.Time
}

// NewStore groups datasets by name. Names must be unique.
func NewStore(datasets ...*Dataset) (*Store, error) {
	s := &Store{
		datasets: make(map[string]*Dataset, len(datasets)),
		loadedAt: time.Now(),
	}
	for _, ds := range datasets {
		if ds == nil {
			continue
		}
		if _, dup := s.datasets[ds.name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateDataset, ds.name)
		}
		s.datasets[ds.name] = ds
	}
	return s, nil
}

// Dataset returns the dataset for a domain.
func (s *Store) Dataset(name string) (*Dataset, bool) {
	if s == nil {
		return nil, false
	}
	ds, ok := s.datasets[name]
	return ds, ok
}

// Names returns the loaded domain names, sorted.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.datasets))
	for name := range s.datasets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadedAt returns when the store was assembled.
func (s *Store) LoadedAt() time.Time {
	return s.loadedAt
}

// Holder publishes the live Store. Readers call Current once per request and
// keep using that snapshot; a reload swaps in a new Store without locking.
type Holder struct {
	ptr atomic.Pointer[Store]
}

// NewHolder returns a holder publishing s.
func NewHolder(s *Store) *Holder {
	h := &Holder{}
	h.ptr.Store(s)
	return h
}

// Current returns the live store. It may be nil before the first load.
func (h *Holder) Current() *Store {
	return h.ptr.Load()
}

// Swap replaces the live store and returns the previous one.
func (h *Holder) Swap(s *Store) *Store {
	return h.ptr.Swap(s)
}
