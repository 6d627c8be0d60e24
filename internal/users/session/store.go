// Copyright (c) 2026 SewCraft. All rights reserved.
// Author: dev@sewcraft.app

package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sewcraft/api/internal/identity"
	"github.com/sewcraft/api/internal/platform/apperr"
)

// # Session Store

// Store is the single source of truth for the current authenticated session.
//
// # Concurrency
//
// All state lives behind one mutex. Remote calls run unlocked; before a
// completion is applied, its start epoch is compared against the current one.
// Any committed transition (login, logout, profile merge) bumps the epoch, so
// a completion that raced a newer transition is discarded instead of
// resurrecting stale state.
type Store struct {
	client IdentityClient
	logger *slog.Logger

	mu        sync.Mutex
	epoch     uint64
	current   *Session
	loading   bool
	listeners []ChangeHandler
}

// NewStore constructs a signed-out [Store] backed by the given client.
func NewStore(client IdentityClient, logger *slog.Logger) *Store {
	return &Store{
		client: client,
		logger: logger,
	}
}

// # Observation

/*
Session returns a snapshot of the current session, or nil when signed out.

The snapshot's Identity is a copy: callers may inspect it freely without
racing later transitions.

Returns:
  - *Session: Copy of the current state, or nil
*/
func (store *Store) Session() *Session {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.snapshotLocked()
}

// Loading reports whether a login resolution is currently in flight.
func (store *Store) Loading() bool {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.loading
}

/*
OnSessionChange registers a handler observing committed transitions.

Handlers fire once per transition, in registration order. Registration is
append-only; there is no dedup — registering the same handler twice fires it
twice.

Parameters:
  - handler: ChangeHandler
*/
func (store *Store) OnSessionChange(handler ChangeHandler) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.listeners = append(store.listeners, handler)
}

// # Transitions

/*
Login resolves credentials and establishes the session.

Description: Consults the identity system's health first and refuses with
SERVICE_UNAVAILABLE before submitting credentials into a guaranteed failure.
A blocked identity is forcibly signed out remotely before the failure is
reported, so no partially-authenticated state is ever observable. A
resolution that lands after an intervening transition (logout, newer login)
is discarded and reported as CONFLICT.

Parameters:
  - context: context.Context
  - input: identity.SignInInput

Returns:
  - *Session: Established session snapshot
  - err: SERVICE_UNAVAILABLE, INVALID_CREDENTIALS, ACCOUNT_BLOCKED,
    EMAIL_UNCONFIRMED, or CONFLICT (superseded)
*/
func (store *Store) Login(context context.Context, input identity.SignInInput) (*Session, error) {

	// Preflight: never submit credentials into a known-down backend.
	if err := store.client.Health(context); err != nil {
		return nil, apperr.ServiceUnavailable("Identity system is temporarily unavailable")
	}

	// Stamp the attempt with the current epoch.
	store.mu.Lock()
	startEpoch := store.epoch
	store.loading = true
	store.mu.Unlock()

	defer func() {
		store.mu.Lock()
		store.loading = false
		store.mu.Unlock()
	}()

	// Resolve credentials outside the lock.
	resolved, err := store.client.SignIn(context, input)
	if err != nil {
		return nil, err
	}

	// Defense in depth: a block that slipped past resolution forces an
	// immediate remote sign-out so no usable tokens survive.
	if resolved.Identity.IsBlocked {
		_ = store.client.SignOut(context, resolved.RefreshToken)
		return nil, identity.ErrAccountBlocked()
	}

	store.mu.Lock()
	if store.epoch != startEpoch {
		store.mu.Unlock()
		// A newer transition won the race. Release the tokens we obtained and
		// leave the committed state untouched.
		_ = store.client.SignOut(context, resolved.RefreshToken)
		store.logger.Warn("discarding superseded login completion",
			slog.String("user_id", resolved.Identity.ID))
		return nil, apperr.Conflict("Login superseded by a newer session change")
	}

	store.current = &Session{
		Identity:     resolved.Identity,
		AccessToken:  resolved.AccessToken,
		RefreshToken: resolved.RefreshToken,
	}
	store.epoch++
	snapshot := store.snapshotLocked()
	store.notifyLocked(snapshot)
	store.mu.Unlock()

	store.logger.Info("session established",
		slog.String("user_id", resolved.Identity.ID),
		slog.String("role", string(resolved.Identity.Role)))

	return snapshot, nil
}

/*
Register enrolls a new account.

Description: The account starts unconfirmed, so no session is established;
the caller signs in after completing email confirmation. The store's state
does not change.

Parameters:
  - context: context.Context
  - input: identity.SignUpInput

Returns:
  - *identity.Identity: Created account, pending confirmation
  - err: EMAIL_TAKEN, WEAK_PASSWORD, or transport failures
*/
func (store *Store) Register(context context.Context, input identity.SignUpInput) (*identity.Identity, error) {
	return store.client.SignUp(context, input)
}

/*
Logout clears the session.

Description: Local state is cleared and listeners notified FIRST — the local
clear is unconditional. The remote revocation runs afterward; a failure there
is logged at WARN and swallowed, because the user's intent to leave must
never be blocked by a flaky backend. Calling Logout while signed out still
bumps the epoch, so an in-flight login cannot land afterwards — the race
always settles logged-out.

Parameters:
  - context: context.Context
*/
func (store *Store) Logout(context context.Context) {
	store.mu.Lock()
	// Invalidate any in-flight resolution regardless of current state.
	store.epoch++
	if store.current == nil {
		store.mu.Unlock()
		return
	}
	refreshToken := store.current.RefreshToken
	store.current = nil
	store.notifyLocked(nil)
	store.mu.Unlock()

	if err := store.client.SignOut(context, refreshToken); err != nil {
		store.logger.Warn("remote sign-out failed; local session already cleared",
			slog.String("error", err.Error()))
	}
}

/*
UpdateProfile applies a partial patch to the signed-in identity.

Description: The patch is sent to the identity system first; local state
mutates only after the remote accepts it. On success the SAME patch is merged
into the local identity — no refetch — so omitted (nil) fields keep their
local values and provided-empty fields clear. A completion landing after an
intervening transition is discarded.

Parameters:
  - context: context.Context
  - patch: identity.Patch

Returns:
  - *Session: Updated session snapshot
  - err: UNAUTHORIZED (signed out), EMAIL_TAKEN, CONFLICT (superseded), or
    transport failures
*/
func (store *Store) UpdateProfile(context context.Context, patch identity.Patch) (*Session, error) {

	store.mu.Lock()
	if store.current == nil {
		store.mu.Unlock()
		return nil, apperr.Unauthorized("No active session")
	}
	startEpoch := store.epoch
	userID := store.current.Identity.ID
	store.mu.Unlock()

	// An empty patch is a no-op, not a remote round trip.
	if patch.IsEmpty() {
		return store.Session(), nil
	}

	// Remote first. No local mutation happens on failure.
	if _, err := store.client.Update(context, userID, patch); err != nil {
		return nil, err
	}

	store.mu.Lock()
	if store.epoch != startEpoch || store.current == nil || store.current.Identity.ID != userID {
		store.mu.Unlock()
		store.logger.Warn("discarding superseded profile update",
			slog.String("user_id", userID))
		return nil, apperr.Conflict("Profile update superseded by a newer session change")
	}

	// Merge the accepted fields into a fresh copy so prior snapshots handed
	// to callers stay immutable.
	merged := *store.current.Identity
	patch.Apply(&merged)
	store.current = &Session{
		Identity:     &merged,
		AccessToken:  store.current.AccessToken,
		RefreshToken: store.current.RefreshToken,
	}
	store.epoch++
	snapshot := store.snapshotLocked()
	store.notifyLocked(snapshot)
	store.mu.Unlock()

	return snapshot, nil
}

// # Internals

// snapshotLocked copies the current session. Caller holds the mutex.
func (store *Store) snapshotLocked() *Session {
	if store.current == nil {
		return nil
	}
	ident := *store.current.Identity
	return &Session{
		Identity:     &ident,
		AccessToken:  store.current.AccessToken,
		RefreshToken: store.current.RefreshToken,
	}
}

// notifyLocked fires every listener in registration order. Caller holds the
// mutex, which is what guarantees once-per-transition ordering.
func (store *Store) notifyLocked(current *Session) {
	for _, handler := range store.listeners {
		handler(current)
	}
}
