// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/olegiv/alumni-cms/internal/model"
)

func TestLoadFixtures_Embedded(t *testing.T) {
	f, err := LoadFixtures("")
	if err != nil {
		t.Fatalf("LoadFixtures: %v", err)
	}

	if f.Settings.SiteName != "Wharton Alumni AI Studio" {
		t.Errorf("SiteName = %q", f.Settings.SiteName)
	}
	if len(f.Users) != 3 {
		t.Errorf("len(Users) = %d, want 3", len(f.Users))
	}
	if len(f.Pages) != 5 {
		t.Errorf("len(Pages) = %d, want 5", len(f.Pages))
	}
	if len(f.Events) == 0 || f.Events[0].Date.IsZero() {
		t.Error("events should decode with dates")
	}
	for _, r := range f.Resources {
		switch r.Category {
		case model.CategoryArticle, model.CategoryVideo, model.CategoryPodcast, model.CategoryTool:
		default:
			t.Errorf("resource %s has category %q", r.ID, r.Category)
		}
	}
}

func TestParseFixtures_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"duplicate id", "events:\n  - id: \"1\"\n  - id: \"1\"\n"},
		{"empty id", "partners:\n  - name: x\n"},
		{"duplicate slug", "pages:\n  - id: \"1\"\n    slug: a\n  - id: \"2\"\n    slug: a\n"},
		{"unknown key", "widgets: []\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseFixtures([]byte(tt.yaml)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseFixtures_Empty(t *testing.T) {
	f, err := ParseFixtures(nil)
	if err != nil {
		t.Fatalf("ParseFixtures(nil): %v", err)
	}
	if len(f.Events) != 0 {
		t.Errorf("expected no events, got %d", len(f.Events))
	}
}

func TestLoadFixtures_MissingFile(t *testing.T) {
	if _, err := LoadFixtures(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestCollection_UpdateErrorLeavesItems(t *testing.T) {
	c := NewCollection([]string{"a", "b"})
	boom := errors.New("boom")

	err := c.Update(func(items []string) ([]string, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Update error = %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, c.Snapshot()); diff != "" {
		t.Errorf("items changed (-want +got):\n%s", diff)
	}
}

func TestCollection_SnapshotIsCopy(t *testing.T) {
	seed := []string{"a"}
	c := NewCollection(seed)
	seed[0] = "changed"

	snap := c.Snapshot()
	snap[0] = "mutated"

	if got := c.Snapshot()[0]; got != "a" {
		t.Errorf("collection shares memory with caller: %q", got)
	}
}

func TestCollection_ConcurrentUpdates(t *testing.T) {
	c := NewCollection[int](nil)
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Update(func(items []int) ([]int, error) {
				return append(items, i), nil
			})
		}()
	}
	wg.Wait()
	if c.Len() != 50 {
		t.Errorf("Len() = %d, want 50", c.Len())
	}
}

func TestStore_Reset(t *testing.T) {
	f, err := LoadFixtures("")
	if err != nil {
		t.Fatalf("LoadFixtures: %v", err)
	}
	s := New(f)
	want := s.Counts()

	_ = s.Events.Update(func(items []model.Event) ([]model.Event, error) {
		return items[:0], nil
	})
	s.Settings.Modify(func(v *model.SiteSettings) { v.SiteName = "Changed" })
	if s.Events.Len() != 0 {
		t.Fatal("events should be empty after update")
	}

	s.Reset()

	if diff := cmp.Diff(want, s.Counts()); diff != "" {
		t.Errorf("counts after reset (-want +got):\n%s", diff)
	}
	if s.Settings.Get().SiteName != f.Settings.SiteName {
		t.Errorf("settings not reset: %q", s.Settings.Get().SiteName)
	}
	if s.Events.Snapshot()[0].ID != f.Events[0].ID {
		t.Error("events order not restored")
	}
}
