// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import "errors"

// Page slug errors.
var (
	ErrSlugRequired = errors.New("slug is required")
	ErrSlugInvalid  = errors.New("slug must contain only lowercase letters, numbers, and hyphens")
	ErrSlugTaken    = errors.New("slug already exists")
)

// ValidationError rejects a mutation because of one field's value.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func fieldError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: err.Error(), Err: err}
}
