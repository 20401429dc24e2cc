// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"errors"
	"fmt"

	"github.com/olegiv/alumni-cms/internal/model"
)

// ActionSet is a bitmask of allowed actions.
type ActionSet uint8

var actionBits = map[model.Action]ActionSet{
	model.ActionView:   1 << 0,
	model.ActionCreate: 1 << 1,
	model.ActionEdit:   1 << 2,
	model.ActionDelete: 1 << 3,
}

// NewActionSet builds a set from actions. Unknown actions are ignored.
func NewActionSet(actions ...model.Action) ActionSet {
	var s ActionSet
	for _, a := range actions {
		s |= actionBits[a]
	}
	return s
}

// Has reports whether a is in the set.
func (s ActionSet) Has(a model.Action) bool {
	bit, ok := actionBits[a]
	return ok && s&bit != 0
}

// Actions returns the members in canonical order.
func (s ActionSet) Actions() []model.Action {
	var out []model.Action
	for _, a := range model.Actions {
		if s.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

// Role table construction errors.
var (
	ErrUnknownRole         = errors.New("unknown role")
	ErrUnknownResource     = errors.New("unknown resource")
	ErrUnknownAction       = errors.New("unknown action")
	ErrDuplicatePermission = errors.New("duplicate permission for resource")
)

// RoleTable maps role name to resource to allowed actions.
// It is immutable after construction.
type RoleTable struct {
	roles map[model.RoleName]map[model.ResourceTag]ActionSet
}

// NewRoleTable validates role definitions and indexes them.
func NewRoleTable(roles []model.Role) (*RoleTable, error) {
	t := &RoleTable{roles: make(map[model.RoleName]map[model.ResourceTag]ActionSet, len(roles))}
	for _, r := range roles {
		if !r.Name.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRole, r.Name)
		}
		if _, dup := t.roles[r.Name]; dup {
			return nil, fmt.Errorf("role %q defined twice", r.Name)
		}
		grants := make(map[model.ResourceTag]ActionSet, len(r.Permissions))
		for _, p := range r.Permissions {
			if !p.Resource.Valid() {
				return nil, fmt.Errorf("role %q: %w: %q", r.Name, ErrUnknownResource, p.Resource)
			}
			if _, dup := grants[p.Resource]; dup {
				return nil, fmt.Errorf("role %q: %w %q", r.Name, ErrDuplicatePermission, p.Resource)
			}
			for _, a := range p.Actions {
				if _, ok := actionBits[a]; !ok {
					return nil, fmt.Errorf("role %q, resource %q: %w: %q", r.Name, p.Resource, ErrUnknownAction, a)
				}
			}
			grants[p.Resource] = NewActionSet(p.Actions...)
		}
		t.roles[r.Name] = grants
	}
	return t, nil
}

// DefaultRoleTable returns the table built from DefaultRoles.
func DefaultRoleTable() *RoleTable {
	t, err := NewRoleTable(DefaultRoles())
	if err != nil {
		panic(err)
	}
	return t
}

// Allowed returns the actions role may perform on res.
func (t *RoleTable) Allowed(role model.RoleName, res model.ResourceTag) ActionSet {
	return t.roles[role][res]
}

// HasPermission reports whether p may perform act on res.
// A nil principal has no permissions.
func (t *RoleTable) HasPermission(p *model.Principal, res model.ResourceTag, act model.Action) bool {
	if p == nil {
		return false
	}
	return t.Allowed(p.Role, res).Has(act)
}

// DefaultRoles returns the built-in admin, editor and viewer roles.
func DefaultRoles() []model.Role {
	all := model.Actions
	authoring := []model.Action{model.ActionView, model.ActionCreate, model.ActionEdit}
	viewOnly := []model.Action{model.ActionView}

	grant := func(actions func(model.ResourceTag) []model.Action) []model.Permission {
		perms := make([]model.Permission, 0, len(model.ResourceTags))
		for _, res := range model.ResourceTags {
			perms = append(perms, model.Permission{Resource: res, Actions: actions(res)})
		}
		return perms
	}

	return []model.Role{
		{
			ID:          "1",
			Name:        model.RoleAdmin,
			Permissions: grant(func(model.ResourceTag) []model.Action { return all }),
		},
		{
			ID:   "2",
			Name: model.RoleEditor,
			Permissions: grant(func(res model.ResourceTag) []model.Action {
				if res == model.ResourceTeam || res == model.ResourceSettings {
					return viewOnly
				}
				return authoring
			}),
		},
		{
			ID:          "3",
			Name:        model.RoleViewer,
			Permissions: grant(func(model.ResourceTag) []model.Action { return viewOnly }),
		},
	}
}
