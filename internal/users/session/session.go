// Copyright (c) 2026 SewCraft. All rights reserved.
// Author: dev@sewcraft.app

/*
Package session implements the authoritative client-session state machine.

A [Store] holds at most one authenticated identity at a time and serializes
every transition (login, logout, profile merge) behind a single mutex. Remote
work — credential resolution, profile patches — runs outside the lock, and an
epoch counter decides whether each completion is still current when it lands:
a login that resolves after an intervening logout is discarded, never applied.

Architecture:

  - Store: Owns the current session, the epoch counter, and the ordered list
    of change listeners.
  - IdentityClient: The remote identity system, consumed through an interface
    ([identity.Service] satisfies it in-process).
  - Listeners: Notified once per committed transition, in registration order.
*/
package session

import (
	"context"

	"github.com/sewcraft/api/internal/identity"
)

// # Contracts & Types

// Session is the locally held authenticated state: the resolved identity plus
// the token pair backing it.
type Session struct {
	Identity     *identity.Identity
	AccessToken  string
	RefreshToken string
}

// ChangeHandler observes committed session transitions. It receives the new
// session snapshot, or nil when the transition was a sign-out.
//
// Handlers run synchronously inside the transition and must not call back
// into the [Store].
type ChangeHandler func(current *Session)

// IdentityClient is the remote identity system as seen by the session store.
//
// # Why an interface?
//
// The store never talks to Postgres or Redis directly; it only knows this
// contract. [identity.Service] satisfies it in-process, and tests substitute
// controllable fakes to exercise completion-ordering races.
type IdentityClient interface {
	// Health reports whether the identity system can take requests.
	Health(context context.Context) error

	// SignIn resolves credentials into a token-bearing session.
	SignIn(context context.Context, input identity.SignInInput) (*identity.SignInSession, error)

	// SignUp enrolls a new account, pending email confirmation.
	SignUp(context context.Context, input identity.SignUpInput) (*identity.Identity, error)

	// SignOut revokes the remote session behind the refresh token.
	SignOut(context context.Context, refreshToken string) error

	// Update applies a partial profile patch to the identity.
	Update(context context.Context, userID string, patch identity.Patch) (*identity.Identity, error)
}
