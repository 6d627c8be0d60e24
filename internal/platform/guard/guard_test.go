// Copyright (c) 2026 SewCraft. All rights reserved.
// Author: dev@sewcraft.app

package guard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sewcraft/api/internal/platform/guard"
	"github.com/sewcraft/api/internal/platform/sec"
)

/*
TestAuthorize_Anonymous verifies that a missing principal is always rejected
as unauthenticated, with or without a role requirement.
*/
func TestAuthorize_Anonymous(t *testing.T) {
	assert.Equal(t, guard.DenyUnauthenticated, guard.Authorize(nil))
	assert.Equal(t, guard.DenyUnauthenticated, guard.Authorize(nil, sec.RoleAdmin))
	assert.Equal(t, guard.DenyUnauthenticated, guard.Authorize(nil, sec.RoleUser))
}

/*
TestAuthorize_ExactMatch verifies the strict role-equality semantics:
admin does not satisfy a user-only surface and vice versa.
*/
func TestAuthorize_ExactMatch(t *testing.T) {
	user := &guard.Principal{ID: "u-1", Role: sec.RoleUser}
	admin := &guard.Principal{ID: "a-1", Role: sec.RoleAdmin}

	tests := []struct {
		name      string
		principal *guard.Principal
		required  []sec.UserRole
		want      guard.Decision
	}{
		{"user_on_user_route", user, []sec.UserRole{sec.RoleUser}, guard.Allow},
		{"user_on_admin_route", user, []sec.UserRole{sec.RoleAdmin}, guard.DenyForbidden},
		{"admin_on_admin_route", admin, []sec.UserRole{sec.RoleAdmin}, guard.Allow},
		{"admin_on_user_route", admin, []sec.UserRole{sec.RoleUser}, guard.DenyForbidden},
		{"user_no_requirement", user, nil, guard.Allow},
		{"admin_no_requirement", admin, nil, guard.Allow},
		{"either_role_accepted", admin, []sec.UserRole{sec.RoleUser, sec.RoleAdmin}, guard.Allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, guard.Authorize(tt.principal, tt.required...))
		})
	}
}

/*
TestDecision_String covers the log-friendly names.
*/
func TestDecision_String(t *testing.T) {
	assert.Equal(t, "allow", guard.Allow.String())
	assert.Equal(t, "deny_unauthenticated", guard.DenyUnauthenticated.String())
	assert.Equal(t, "deny_forbidden", guard.DenyForbidden.String())
	assert.Equal(t, "unknown", guard.Decision(99).String())
}
