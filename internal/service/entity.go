// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements the content services: generic CRUD and search
// over the record stores, page slug rules, settings and the audit log.
package service

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/alumni-cms/internal/model"
	"github.com/olegiv/alumni-cms/internal/store"
)

// Mutation operations reported to an Observer.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
	OpReset  = "reset"
)

// Observer is notified after every committed mutation.
type Observer interface {
	RecordMutation(resource model.ResourceTag, op string)
}

// Patch replaces a subset of a record's fields.
type Patch[T any] interface {
	Apply(rec *T)
}

// Kind describes one record kind to the generic service.
type Kind[T any] struct {
	Resource model.ResourceTag
	// ID returns a pointer to the record's identifier.
	ID func(rec *T) *string
	// Stamp sets timestamps. created is true on insert. Optional.
	Stamp func(rec *T, now time.Time, created bool)
	// SearchFields returns the text searched by Search.
	SearchFields func(rec *T) []string
	// Validate checks a candidate against the current records before it is
	// committed. It runs under the collection's write lock. Optional.
	Validate func(candidate *T, current []T) error
}

type options struct {
	now      func() time.Time
	observer Observer
}

// Option configures a service.
type Option func(*options)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithObserver reports mutations to obs.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// EntityService provides list, lookup, create, update, delete and search
// over one collection.
type EntityService[T any] struct {
	kind Kind[T]
	coll *store.Collection[T]
	opts options
}

// NewEntityService binds kind to coll.
func NewEntityService[T any](kind Kind[T], coll *store.Collection[T], opts ...Option) *EntityService[T] {
	return &EntityService[T]{kind: kind, coll: coll, opts: buildOptions(opts)}
}

// Resource returns the resource tag of the records.
func (s *EntityService[T]) Resource() model.ResourceTag {
	return s.kind.Resource
}

// List returns all records in insertion order.
func (s *EntityService[T]) List() []T {
	return s.coll.Snapshot()
}

// Count returns the number of records.
func (s *EntityService[T]) Count() int {
	return s.coll.Len()
}

// GetByID returns the record with id.
func (s *EntityService[T]) GetByID(id string) (T, bool) {
	var (
		out   T
		found bool
	)
	s.coll.View(func(items []T) {
		if i := s.index(items, id); i >= 0 {
			out, found = items[i], true
		}
	})
	return out, found
}

// Create assigns a new identifier and timestamps, then appends rec.
// It fails only when the kind's validation rejects the record.
func (s *EntityService[T]) Create(rec T) (T, error) {
	*s.kind.ID(&rec) = uuid.NewString()
	if s.kind.Stamp != nil {
		s.kind.Stamp(&rec, s.opts.now(), true)
	}

	err := s.coll.Update(func(items []T) ([]T, error) {
		if s.kind.Validate != nil {
			if err := s.kind.Validate(&rec, items); err != nil {
				return nil, err
			}
		}
		return append(items, rec), nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	s.notify(OpCreate)
	return rec, nil
}

// Update applies patch to the record with id, keeping its position.
// found is false when no such record exists; the store is then unchanged.
func (s *EntityService[T]) Update(id string, patch Patch[T]) (rec T, found bool, err error) {
	err = s.coll.Update(func(items []T) ([]T, error) {
		i := s.index(items, id)
		if i < 0 {
			return items, nil
		}
		found = true

		candidate := items[i]
		patch.Apply(&candidate)
		*s.kind.ID(&candidate) = id
		if s.kind.Stamp != nil {
			s.kind.Stamp(&candidate, s.opts.now(), false)
		}
		if s.kind.Validate != nil {
			if err := s.kind.Validate(&candidate, items); err != nil {
				return nil, err
			}
		}

		items[i] = candidate
		rec = candidate
		return items, nil
	})
	if err != nil {
		var zero T
		return zero, found, err
	}
	if found {
		s.notify(OpUpdate)
	}
	return rec, found, nil
}

// Delete removes the record with id and reports whether it existed.
func (s *EntityService[T]) Delete(id string) bool {
	var found bool
	_ = s.coll.Update(func(items []T) ([]T, error) {
		i := s.index(items, id)
		if i < 0 {
			return items, nil
		}
		found = true
		return slices.Delete(items, i, i+1), nil
	})
	if found {
		s.notify(OpDelete)
	}
	return found
}

// Search returns the records whose search fields contain query,
// ignoring case. Callers treat a blank query as List.
func (s *EntityService[T]) Search(query string) []T {
	needle := strings.ToLower(query)
	var out []T
	s.coll.View(func(items []T) {
		for i := range items {
			for _, field := range s.kind.SearchFields(&items[i]) {
				if strings.Contains(strings.ToLower(field), needle) {
					out = append(out, items[i])
					break
				}
			}
		}
	})
	return out
}

func (s *EntityService[T]) index(items []T, id string) int {
	for i := range items {
		if *s.kind.ID(&items[i]) == id {
			return i
		}
	}
	return -1
}

func (s *EntityService[T]) notify(op string) {
	if s.opts.observer != nil {
		s.opts.observer.RecordMutation(s.kind.Resource, op)
	}
}
