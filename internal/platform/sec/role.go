// Copyright (c) 2026 SewCraft. All rights reserved.
// Author: dev@sewcraft.app

package sec

import "strings"

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Back-office access: catalogue, users, orders, installments
	RoleAdmin UserRole = "admin"

	// Default role for shop customers
	RoleUser UserRole = "user"
)

// # Role Semantics

// Satisfies reports whether the role meets the required target role.
//
// Comparison is strict equality: admin does NOT satisfy a user-only
// requirement and vice versa. There is no role hierarchy in SewCraft —
// customer routes and back-office routes are disjoint surfaces.
func (r UserRole) Satisfies(target UserRole) bool {
	return r == target
}

// Valid reports whether the role is one of the known enumeration values.
func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// NormalizeRole lowercases a raw role value from storage and defaults
// unknown values to [RoleUser].
//
// The identity table is the ingestion boundary for role strings; rows
// written by older tooling carried mixed-case values.
func NormalizeRole(raw string) UserRole {
	role := UserRole(strings.ToLower(strings.TrimSpace(raw)))
	if !role.Valid() {
		return RoleUser
	}
	return role
}
