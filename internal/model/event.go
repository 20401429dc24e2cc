// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// EventType marks an event as upcoming or past.
type EventType string

// Event types.
const (
	EventUpcoming EventType = "upcoming"
	EventPast     EventType = "past"
)

// Event is a community event.
type Event struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Date        time.Time `json:"date" yaml:"date"`
	Location    string    `json:"location" yaml:"location"`
	Description string    `json:"description" yaml:"description"`
	ImageURL    string    `json:"imageUrl" yaml:"image_url"`
	Type        EventType `json:"type" yaml:"type"`
}

// IsUpcoming returns true if the event is flagged upcoming.
func (e *Event) IsUpcoming() bool {
	return e.Type == EventUpcoming
}

// EventPatch holds the event fields to replace. Nil fields are kept.
type EventPatch struct {
	Title       *string
	Date        *time.Time
	Location    *string
	Description *string
	ImageURL    *string
	Type        *EventType
}

// Apply copies the set fields onto e.
func (p EventPatch) Apply(e *Event) {
	set(&e.Title, p.Title)
	set(&e.Date, p.Date)
	set(&e.Location, p.Location)
	set(&e.Description, p.Description)
	set(&e.ImageURL, p.ImageURL)
	set(&e.Type, p.Type)
}

func set[V any](dst *V, src *V) {
	if src != nil {
		*dst = *src
	}
}
