// Copyright (c) 2026 SewCraft. All rights reserved.
// Author: dev@sewcraft.app

/*
Package guard implements the route access decision function.

Every protected surface (customer routes, back-office routes, privileged
handlers) delegates its access decision to [Authorize]. The function is pure
and synchronous — it performs no I/O and is safe to call on every request.

Semantics:

  - No principal present            -> DenyUnauthenticated
  - Required role and role mismatch -> DenyForbidden
  - Otherwise                       -> Allow

Role comparison is strict equality (see [sec.UserRole.Satisfies]); an admin
principal is denied on a user-only surface. That asymmetry is intentional and
must not be "fixed" into a hierarchy without a product decision.
*/
package guard

import "github.com/sewcraft/api/internal/platform/sec"

// # Decision Model

// Decision is the outcome of an authorization check.
type Decision int

const (
	// Allow grants access to the protected surface.
	Allow Decision = iota

	// DenyUnauthenticated rejects the request because no principal is present.
	DenyUnauthenticated

	// DenyForbidden rejects the request because the principal's role does not
	// exactly match the required role.
	DenyForbidden
)

// String returns a log-friendly name for the decision.
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyUnauthenticated:
		return "deny_unauthenticated"
	case DenyForbidden:
		return "deny_forbidden"
	default:
		return "unknown"
	}
}

// Principal is the authenticated subject under evaluation.
//
// A nil *Principal means the caller is anonymous.
type Principal struct {
	ID   string
	Role sec.UserRole
}

// # Decision Function

// Authorize classifies access for a principal against an optional required role.
//
// # Parameters
//   - principal: The authenticated subject, or nil when anonymous.
//   - required: Zero or one required role. Passing none means "any
//     authenticated principal".
//
// # Returns
//   - A [Decision]. Never errors; never touches I/O.
func Authorize(principal *Principal, required ...sec.UserRole) Decision {
	if principal == nil {
		return DenyUnauthenticated
	}

	if len(required) == 0 {
		return Allow
	}

	// Exact-match only. Multiple required roles are treated as alternatives.
	for _, role := range required {
		if principal.Role.Satisfies(role) {
			return Allow
		}
	}

	return DenyForbidden
}
