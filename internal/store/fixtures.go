// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/olegiv/alumni-cms/internal/auth"
	"github.com/olegiv/alumni-cms/internal/model"
)

//go:embed fixtures/seed.yaml
var defaultFixtures []byte

// Fixtures is the seed content for every record store.
type Fixtures struct {
	Settings  model.SiteSettings `yaml:"settings"`
	Users     []auth.Credential  `yaml:"users"`
	Events    []model.Event      `yaml:"events"`
	Startups  []model.Startup    `yaml:"startups"`
	Resources []model.Resource   `yaml:"resources"`
	Team      []model.TeamMember `yaml:"team"`
	Partners  []model.Partner    `yaml:"partners"`
	Pages     []model.Page       `yaml:"pages"`
}

// LoadFixtures reads fixtures from path, or the embedded seed when path is empty.
func LoadFixtures(path string) (*Fixtures, error) {
	if path == "" {
		return ParseFixtures(defaultFixtures)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixtures: %w", err)
	}
	return ParseFixtures(data)
}

// ParseFixtures decodes YAML fixtures. Unknown keys are rejected.
func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding fixtures: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *Fixtures) validate() error {
	checks := []struct {
		kind string
		ids  []string
	}{
		{"events", ids(f.Events, func(e model.Event) string { return e.ID })},
		{"startups", ids(f.Startups, func(s model.Startup) string { return s.ID })},
		{"resources", ids(f.Resources, func(r model.Resource) string { return r.ID })},
		{"team", ids(f.Team, func(m model.TeamMember) string { return m.ID })},
		{"partners", ids(f.Partners, func(p model.Partner) string { return p.ID })},
		{"pages", ids(f.Pages, func(p model.Page) string { return p.ID })},
		{"page slugs", ids(f.Pages, func(p model.Page) string { return p.Slug })},
	}
	for _, c := range checks {
		seen := make(map[string]bool, len(c.ids))
		for _, id := range c.ids {
			if id == "" {
				return fmt.Errorf("fixtures: empty key in %s", c.kind)
			}
			if seen[id] {
				return fmt.Errorf("fixtures: duplicate %q in %s", id, c.kind)
			}
			seen[id] = true
		}
	}
	return nil
}

func ids[T any](items []T, key func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = key(it)
	}
	return out
}
