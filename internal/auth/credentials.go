// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/olegiv/alumni-cms/internal/model"
)

// Credential is one entry of the sign-in table as loaded from fixtures.
// Password is a plaintext demo secret and is hashed on load.
type Credential struct {
	ID           string         `yaml:"id"`
	Name         string         `yaml:"name"`
	Email        string         `yaml:"email"`
	Role         model.RoleName `yaml:"role"`
	Avatar       string         `yaml:"avatar"`
	Password     string         `yaml:"password"`
	PasswordHash string         `yaml:"password_hash"`
	CreatedAt    time.Time      `yaml:"created_at"`
	UpdatedAt    time.Time      `yaml:"updated_at"`
}

type credentialEntry struct {
	principal model.Principal
	hash      string
}

// CredentialStore verifies email and secret pairs against argon2id hashes.
type CredentialStore struct {
	byEmail map[string]credentialEntry
	dummy   string
}

// NewCredentialStore hashes plaintext secrets and indexes entries by email.
func NewCredentialStore(creds []Credential) (*CredentialStore, error) {
	dummy, err := HashSecret("dummy-secret-for-timing")
	if err != nil {
		return nil, err
	}
	s := &CredentialStore{byEmail: make(map[string]credentialEntry, len(creds)), dummy: dummy}

	for _, c := range creds {
		if c.Email == "" {
			return nil, errors.New("credential without email")
		}
		if !c.Role.Valid() {
			return nil, fmt.Errorf("credential %s: %w: %q", c.Email, ErrUnknownRole, c.Role)
		}
		if _, dup := s.byEmail[c.Email]; dup {
			return nil, fmt.Errorf("credential %s defined twice", c.Email)
		}

		hash := c.PasswordHash
		switch {
		case hash != "":
			if _, _, _, err := decodeHash(hash); err != nil {
				return nil, fmt.Errorf("credential %s: %w", c.Email, err)
			}
		case c.Password != "":
			if hash, err = HashSecret(c.Password); err != nil {
				return nil, fmt.Errorf("credential %s: %w", c.Email, err)
			}
		default:
			return nil, fmt.Errorf("credential %s has no secret", c.Email)
		}

		s.byEmail[c.Email] = credentialEntry{
			principal: model.Principal{
				ID:        c.ID,
				Name:      c.Name,
				Email:     c.Email,
				Role:      c.Role,
				Avatar:    c.Avatar,
				CreatedAt: c.CreatedAt,
				UpdatedAt: c.UpdatedAt,
			},
			hash: hash,
		}
	}
	return s, nil
}

// Authenticate returns the principal for an exact email match whose
// secret verifies. The returned principal is a copy.
func (s *CredentialStore) Authenticate(email, secret string) (model.Principal, bool) {
	entry, ok := s.byEmail[email]
	if !ok {
		// Same work for unknown emails.
		_, _ = VerifySecret(secret, s.dummy)
		return model.Principal{}, false
	}
	valid, err := VerifySecret(secret, entry.hash)
	if err != nil || !valid {
		return model.Principal{}, false
	}
	return entry.principal, true
}

// Len returns the number of credentials.
func (s *CredentialStore) Len() int {
	return len(s.byEmail)
}
