// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// RoleName names one of the fixed admin roles.
type RoleName string

// Roles.
const (
	RoleAdmin  RoleName = "admin"
	RoleEditor RoleName = "editor"
	RoleViewer RoleName = "viewer"
)

// Roles lists every role in display order.
var Roles = []RoleName{RoleAdmin, RoleEditor, RoleViewer}

// Valid reports whether r is one of the known roles.
func (r RoleName) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// ResourceTag identifies a protected content area.
type ResourceTag string

// Resource tags.
const (
	ResourceEvents    ResourceTag = "events"
	ResourceStartups  ResourceTag = "startups"
	ResourceResources ResourceTag = "resources"
	ResourceTeam      ResourceTag = "team"
	ResourcePartners  ResourceTag = "partners"
	ResourcePages     ResourceTag = "pages"
	ResourceSettings  ResourceTag = "settings"
)

// ResourceTags lists every resource tag.
var ResourceTags = []ResourceTag{
	ResourceEvents,
	ResourceStartups,
	ResourceResources,
	ResourceTeam,
	ResourcePartners,
	ResourcePages,
	ResourceSettings,
}

// Valid reports whether t is a known resource tag.
func (t ResourceTag) Valid() bool {
	for _, known := range ResourceTags {
		if t == known {
			return true
		}
	}
	return false
}

// Action is an operation a role may perform on a resource.
type Action string

// Actions.
const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// Actions lists every action.
var Actions = []Action{ActionView, ActionCreate, ActionEdit, ActionDelete}

// Permission grants a set of actions on one resource.
type Permission struct {
	Resource ResourceTag `json:"resource" yaml:"resource"`
	Actions  []Action    `json:"actions" yaml:"actions"`
}

// Role is a named bundle of permissions. A role holds at most one
// permission per resource.
type Role struct {
	ID          string       `json:"id" yaml:"id"`
	Name        RoleName     `json:"name" yaml:"name"`
	Permissions []Permission `json:"permissions" yaml:"permissions"`
}
