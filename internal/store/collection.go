// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"slices"
	"sync"
)

// Collection is an ordered, mutex-guarded set of records of one kind.
// Records are stored by value so no record is shared with callers.
type Collection[T any] struct {
	mu    sync.RWMutex
	items []T
}

// NewCollection returns a collection holding a copy of seed.
func NewCollection[T any](seed []T) *Collection[T] {
	return &Collection[T]{items: slices.Clone(seed)}
}

// Snapshot returns a copy of all records in insertion order.
func (c *Collection[T]) Snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

// View calls fn with the live records under a read lock.
// fn must not retain or modify the slice.
func (c *Collection[T]) View(fn func(items []T)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn(c.items)
}

// Update calls fn with the live records under the write lock and stores
// the slice it returns. When fn returns an error the records are left as
// they were, so fn must not modify the slice before deciding to fail.
func (c *Collection[T]) Update(fn func(items []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, err := fn(c.items)
	if err != nil {
		return err
	}
	c.items = next
	return nil
}

// Replace swaps in a copy of items.
func (c *Collection[T]) Replace(items []T) {
	c.mu.Lock()
	c.items = slices.Clone(items)
	c.mu.Unlock()
}

// Len returns the number of records.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Singleton guards a single value that always exists.
type Singleton[T any] struct {
	mu    sync.RWMutex
	value T
}

// NewSingleton returns a singleton holding v.
func NewSingleton[T any](v T) *Singleton[T] {
	return &Singleton[T]{value: v}
}

// Get returns a copy of the value.
func (s *Singleton[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Modify applies fn to the value under the write lock and returns the result.
func (s *Singleton[T]) Modify(fn func(v *T)) T {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.value)
	return s.value
}
