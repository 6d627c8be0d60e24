// Copyright (c) 2026 SewCraft. All rights reserved.
// Author: dev@sewcraft.app

/*
Package admin implements the privileged user-management surface.

It is the only path through which roles and block flags change. Profile
edits apply in two halves: the identity row in Postgres first, then the
credential directory. When the directory sync fails after the row already
committed, the operation reports partial success (HTTP 207) naming the
half that failed, so the caller knows a retry of the sync is due rather
than a retry of the whole edit.

Caller rules:

  - An admin may target any account.
  - A non-admin may target only their own account, and may not touch the
    role or block flag even there.
*/
package admin

// # Edit Payloads

// Patch is a partial edit: nil fields are left untouched.
type Patch struct {
	Email     *string
	Name      *string
	Phone     *string
	Address   *string
	Avatar    *string
	Role      *string
	IsBlocked *bool
}

// TouchesPrivileged reports whether the patch changes the role or the
// block flag.
func (patch Patch) TouchesPrivileged() bool {
	return patch.Role != nil || patch.IsBlocked != nil
}

// IsEmpty reports whether the patch carries no field at all.
func (patch Patch) IsEmpty() bool {
	return patch.Email == nil && patch.Name == nil && patch.Phone == nil &&
		patch.Address == nil && patch.Avatar == nil &&
		patch.Role == nil && patch.IsBlocked == nil
}

// Replacement is a full edit: every field is written as given.
type Replacement struct {
	Email     string
	Name      string
	Phone     string
	Address   string
	Avatar    string
	Role      string
	IsBlocked bool
}

// AsPatch converts a full replacement into a patch that sets every field.
func (replacement Replacement) AsPatch() Patch {
	return Patch{
		Email:     &replacement.Email,
		Name:      &replacement.Name,
		Phone:     &replacement.Phone,
		Address:   &replacement.Address,
		Avatar:    &replacement.Avatar,
		Role:      &replacement.Role,
		IsBlocked: &replacement.IsBlocked,
	}
}

// # Field Identifiers

const (
	FieldEmail = "email"
	FieldName  = "name"
	FieldRole  = "role"
)
