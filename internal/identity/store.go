// Copyright (c) 2026 SewCraft. All rights reserved.
// Author: dev@sewcraft.app

package identity

import (
	"context"
	"time"
)

// # Identity Data Access

// Repository defines the data access contract for identity records.
type Repository interface {

	/*
		FindByID returns the identity with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Identity: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*Identity, error)

	/*
		FindByEmail returns the identity with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *Identity: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*Identity, error)

	/*
		Create persists a brand-new identity record.

		Parameters:
		  - context: context.Context
		  - ident: *Identity

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, ident *Identity) error

	/*
		Update persists changes to mutable profile fields.

		Parameters:
		  - context: context.Context
		  - ident: *Identity

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, ident *Identity) error

	/*
		UpdatePassword replaces only the identity's password hash.

		Parameters:
		  - context: context.Context
		  - id: string
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, id, newHash string) error

	/*
		SetRole replaces the identity's role. Privileged path only.

		Parameters:
		  - context: context.Context
		  - id: string
		  - role: string (already normalized to lowercase)

		Returns:
		  - error: Persistence failures
	*/
	SetRole(context context.Context, id, role string) error

	/*
		SetBlocked flips the block flag. Privileged path only.

		Parameters:
		  - context: context.Context
		  - id: string
		  - blocked: bool

		Returns:
		  - error: Persistence failures
	*/
	SetBlocked(context context.Context, id string, blocked bool) error

	/*
		MarkConfirmed flips the email-confirmation flag to true.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Persistence failures
	*/
	MarkConfirmed(context context.Context, id string) error

	/*
		List returns a page of identities, newest first, with the total count.

		Parameters:
		  - context: context.Context
		  - limit: int
		  - offset: int

		Returns:
		  - []*Identity: Page of entities
		  - int: Total identity count
		  - error: Retrieval failures
	*/
	List(context context.Context, limit, offset int) ([]*Identity, int, error)
}

// # Session Data Access

// SessionRepository defines the data access contract for refresh-token sessions.
type SessionRepository interface {

	/*
		Create persists a new tracking session for an authenticated sign-in.

		Parameters:
		  - context: context.Context
		  - session: *Session

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, session *Session) error

	/*
		FindByTokenHash returns the active session matching the given token hash.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - *Session: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByTokenHash(context context.Context, tokenHash string) (*Session, error)

	/*
		Revoke marks a specific session as permanently invalidated.

		Parameters:
		  - context: context.Context
		  - sessionID: string

		Returns:
		  - error: Persistence failures
	*/
	Revoke(context context.Context, sessionID string) error

	/*
		RevokeAll revokes every active session belonging to the identity.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	RevokeAll(context context.Context, userID string) error

	/*
		DeleteExpired physically removes sessions whose ExpiresAt is in the past.

		Parameters:
		  - context: context.Context

		Returns:
		  - error: Persistence failures
	*/
	DeleteExpired(context context.Context) error
}

// # Volatile Data Access

// TokenRepository defines the contract for volatile one-shot tokens
// (email confirmation, password reset) with expiry.
type TokenRepository interface {

	/*
		Set stores a token associated with an identity ID for a limited duration.

		Parameters:
		  - context: context.Context
		  - token: string
		  - userID: string
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Set(context context.Context, token string, userID string, ttl time.Duration) error

	/*
		Get retrieves the identity ID associated with a given token.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - string: Identity ID
		  - error: Retrieval failures
	*/
	Get(context context.Context, token string) (string, error)

	/*
		Delete removes a token after successful use.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, token string) error
}
