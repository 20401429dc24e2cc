// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"slices"
	"time"

	"github.com/olegiv/alumni-cms/internal/model"
	"github.com/olegiv/alumni-cms/internal/store"
)

// EventService adds upcoming and past listings to the event entity service.
type EventService struct {
	*EntityService[model.Event]
}

// NewEventService creates an EventService over coll.
func NewEventService(coll *store.Collection[model.Event], opts ...Option) *EventService {
	return &EventService{EntityService: NewEntityService(EventKind, coll, opts...)}
}

// Upcoming returns upcoming events, soonest first.
func (s *EventService) Upcoming() []model.Event {
	out := s.byType(model.EventUpcoming)
	slices.SortStableFunc(out, func(a, b model.Event) int { return a.Date.Compare(b.Date) })
	return out
}

// Past returns past events, most recent first.
func (s *EventService) Past() []model.Event {
	out := s.byType(model.EventPast)
	slices.SortStableFunc(out, func(a, b model.Event) int { return b.Date.Compare(a.Date) })
	return out
}

// ArchivePast flags upcoming events dated before now as past and returns
// how many changed.
func (s *EventService) ArchivePast(now time.Time) int {
	var n int
	_ = s.coll.Update(func(items []model.Event) ([]model.Event, error) {
		for i := range items {
			if items[i].Type == model.EventUpcoming && items[i].Date.Before(now) {
				items[i].Type = model.EventPast
				n++
			}
		}
		return items, nil
	})
	if n > 0 {
		s.notify(OpUpdate)
	}
	return n
}

func (s *EventService) byType(t model.EventType) []model.Event {
	var out []model.Event
	s.coll.View(func(items []model.Event) {
		for _, e := range items {
			if e.Type == t {
				out = append(out, e)
			}
		}
	})
	return out
}
