// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/alumni-cms/internal/model"
)

// PrincipalKey is the storage key holding the serialized principal.
const PrincipalKey = "principal"

// ErrInvalidCredentials is returned by SignIn when no credential matches.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Storage is a string-valued key-value store scoped to one client.
// *scs.SessionManager satisfies it.
type Storage interface {
	GetString(ctx context.Context, key string) string
	Put(ctx context.Context, key string, val any)
	Remove(ctx context.Context, key string)
}

type tokenRenewer interface {
	RenewToken(ctx context.Context) error
}

// Authenticator checks an email and secret pair.
type Authenticator interface {
	Authenticate(email, secret string) (model.Principal, bool)
}

// Manager moves a client between signed out and signed in.
type Manager struct {
	storage Storage
	creds   Authenticator
	now     func() time.Time
}

// NewManager creates a Manager.
func NewManager(storage Storage, creds Authenticator) *Manager {
	return &Manager{storage: storage, creds: creds, now: time.Now}
}

// SignIn verifies the credentials, stamps the sign-in time and persists
// the principal. On failure nothing is stored.
func (m *Manager) SignIn(ctx context.Context, email, secret string) (*model.Principal, error) {
	p, ok := m.creds.Authenticate(email, secret)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	now := m.now()
	p.LastLoginAt = &now

	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding principal: %w", err)
	}
	if r, ok := m.storage.(tokenRenewer); ok {
		if err := r.RenewToken(ctx); err != nil {
			return nil, fmt.Errorf("renewing session token: %w", err)
		}
	}
	m.storage.Put(ctx, PrincipalKey, string(data))
	return &p, nil
}

// SignOut clears the persisted principal.
func (m *Manager) SignOut(ctx context.Context) error {
	m.storage.Remove(ctx, PrincipalKey)
	if r, ok := m.storage.(tokenRenewer); ok {
		if err := r.RenewToken(ctx); err != nil {
			return fmt.Errorf("renewing session token: %w", err)
		}
	}
	return nil
}

// Restore returns the persisted principal, or nil when signed out.
// Unreadable data is cleared and treated as signed out.
func (m *Manager) Restore(ctx context.Context) *model.Principal {
	raw := m.storage.GetString(ctx, PrincipalKey)
	if raw == "" {
		return nil
	}

	var p model.Principal
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		slog.Debug("discarding corrupt session principal", "error", err)
		m.storage.Remove(ctx, PrincipalKey)
		return nil
	}
	if p.ID == "" || !p.Role.Valid() {
		slog.Debug("discarding invalid session principal", "role", p.Role)
		m.storage.Remove(ctx, PrincipalKey)
		return nil
	}
	return &p
}

// IsAuthenticated reports whether a principal is persisted.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	return m.Restore(ctx) != nil
}
