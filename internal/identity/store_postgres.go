// Copyright (c) 2026 SewCraft. All rights reserved.
// Author: dev@sewcraft.app

// PostgreSQL implementations of the identity repositories.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.
//
// # Ingestion Boundary
//
// Rows are validated as they are scanned: the role column is lowercased and
// defaulted to "user" when unknown, and nullable profile columns collapse to
// empty strings. Malformed rows never reach the domain layer un-normalized.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sewcraft/api/internal/platform/apperr"
	"github.com/sewcraft/api/internal/platform/sec"
)

// # Identity Repository

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const identityColumns = `
	id, email, name, passwordhash, role,
	COALESCE(phone, ''), COALESCE(address, ''), COALESCE(avatarurl, ''),
	isblocked, isconfirmed, createdat, updatedat`

// scanIdentity hydrates one row into an [Identity], normalizing the role at
// the ingestion boundary.
func scanIdentity(row pgx.Row) (*Identity, error) {
	ident := &Identity{}
	var rawRole string

	err := row.Scan(
		&ident.ID,
		&ident.Email,
		&ident.Name,
		&ident.PasswordHash,
		&rawRole,
		&ident.Phone,
		&ident.Address,
		&ident.AvatarURL,
		&ident.IsBlocked,
		&ident.IsConfirmed,
		&ident.CreatedAt,
		&ident.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	ident.Role = sec.NormalizeRole(rawRole)
	return ident, nil
}

/*
Create persists a new identity record into the users.identity table.

Description: Deep-persists account metadata, ensuring timestamps are
initialized if not provided.

Parameters:
  - context: context.Context
  - ident: *Identity (Entity to persist)

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (repository *PostgresRepository) Create(context context.Context, ident *Identity) error {
	const query = `
		INSERT INTO users.identity (
			id, email, name, passwordhash, role, phone, address, avatarurl,
			isblocked, isconfirmed, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	now := time.Now()
	if ident.CreatedAt.IsZero() {
		ident.CreatedAt = now
	}
	ident.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		ident.ID,
		ident.Email,
		ident.Name,
		ident.PasswordHash,
		string(ident.Role),
		ident.Phone,
		ident.Address,
		ident.AvatarURL,
		ident.IsBlocked,
		ident.IsConfirmed,
		ident.CreatedAt,
		ident.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_identity_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByEmail retrieves an identity record by its unique email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *Identity: Hydrated entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresRepository) FindByEmail(context context.Context, email string) (*Identity, error) {
	query := `SELECT ` + identityColumns + ` FROM users.identity WHERE LOWER(email) = LOWER($1)`

	ident, err := scanIdentity(repository.pool.QueryRow(context, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Identity")
		}
		return nil, fmt.Errorf("postgres_identity_repo_find_by_email_failed: %w", err)
	}

	return ident, nil
}

/*
FindByID retrieves an identity record by its unique ID.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *Identity: Hydrated entity
  - error: Not found or execution errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Identity, error) {
	query := `SELECT ` + identityColumns + ` FROM users.identity WHERE id = $1`

	ident, err := scanIdentity(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Identity")
		}
		return nil, fmt.Errorf("postgres_identity_repo_find_by_id_failed: %w", err)
	}

	return ident, nil
}

/*
Update persists changes to an identity's mutable profile fields.

Description: Synchronizes the in-memory identity state with the database,
refreshing the updatedat timestamp. Role and block flag are NOT written here;
they ride their own privileged setters.

Parameters:
  - context: context.Context
  - ident: *Identity

Returns:
  - error: Update failures
*/
func (repository *PostgresRepository) Update(context context.Context, ident *Identity) error {
	const query = `
		UPDATE users.identity
		SET email = $2, name = $3, phone = $4, address = $5, avatarurl = $6, updatedat = $7
		WHERE id = $1`

	ident.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		ident.ID,
		ident.Email,
		ident.Name,
		ident.Phone,
		ident.Address,
		ident.AvatarURL,
		ident.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_identity_repo_update_failed: %w", err)
	}

	return nil
}

/*
UpdatePassword updates only the password hash for a specific identity.

Parameters:
  - context: context.Context
  - id: string
  - newHash: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresRepository) UpdatePassword(context context.Context, id, newHash string) error {
	const query = `UPDATE users.identity SET passwordhash = $2, updatedat = $3 WHERE id = $1`

	_, err := repository.pool.Exec(context, query, id, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_identity_repo_update_password_failed: %w", err)
	}

	return nil
}

/*
SetRole replaces the role column. The caller is responsible for having
normalized and authorized the value.

Parameters:
  - context: context.Context
  - id: string
  - role: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresRepository) SetRole(context context.Context, id, role string) error {
	const query = `UPDATE users.identity SET role = $2, updatedat = $3 WHERE id = $1`
	_, err := repository.pool.Exec(context, query, id, role, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_identity_repo_set_role_failed: %w", err)
	}
	return nil
}

/*
SetBlocked flips the block flag for an identity.

Parameters:
  - context: context.Context
  - id: string
  - blocked: bool

Returns:
  - error: Execution errors
*/
func (repository *PostgresRepository) SetBlocked(context context.Context, id string, blocked bool) error {
	const query = `UPDATE users.identity SET isblocked = $2, updatedat = $3 WHERE id = $1`
	_, err := repository.pool.Exec(context, query, id, blocked, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_identity_repo_set_blocked_failed: %w", err)
	}
	return nil
}

/*
MarkConfirmed updates the identity's status to isconfirmed = true.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Database errors
*/
func (repository *PostgresRepository) MarkConfirmed(context context.Context, id string) error {
	const query = `UPDATE users.identity SET isconfirmed = TRUE, updatedat = $2 WHERE id = $1`
	_, err := repository.pool.Exec(context, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_identity_repo_mark_confirmed_failed: %w", err)
	}
	return nil
}

/*
List returns a page of identities, newest first, plus the total count.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []*Identity: Page of entities
  - int: Total count
  - error: Retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context, limit, offset int) ([]*Identity, int, error) {
	query := `SELECT ` + identityColumns + ` FROM users.identity ORDER BY createdat DESC LIMIT $1 OFFSET $2`

	rows, err := repository.pool.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_identity_repo_list_failed: %w", err)
	}
	defer rows.Close()

	identities := make([]*Identity, 0, limit)
	for rows.Next() {
		ident, err := scanIdentity(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_identity_repo_list_scan_failed: %w", err)
		}
		identities = append(identities, ident)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_identity_repo_list_rows_failed: %w", err)
	}

	var total int
	if err := repository.pool.QueryRow(context, `SELECT COUNT(*) FROM users.identity`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_identity_repo_count_failed: %w", err)
	}

	return identities, total, nil
}

// # Session Repository

// PostgresSessionRepository implements the SessionRepository interface.
type PostgresSessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new PostgreSQL implementation of SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *PostgresSessionRepository {
	return &PostgresSessionRepository{pool: pool}
}

/*
Create persists a new session record into the users.session table.

Parameters:
  - context: context.Context
  - session: *Session

Returns:
  - error: Storage failures
*/
func (repository *PostgresSessionRepository) Create(context context.Context, session *Session) error {
	const query = `
		INSERT INTO users.session (
			id, userid, tokenhash, useragent, ipaddress, expiresat, isrevoked, createdat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		session.ID,
		session.UserID,
		session.TokenHash,
		session.UserAgent,
		session.IPAddress,
		session.ExpiresAt,
		session.IsRevoked,
		session.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_session_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByTokenHash retrieves an active session by its unique token hash.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - *Session: Hydrated session metadata
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresSessionRepository) FindByTokenHash(context context.Context, tokenHash string) (*Session, error) {
	const query = `
		SELECT id, userid, tokenhash, useragent, ipaddress, expiresat, isrevoked, createdat
		FROM users.session
		WHERE tokenhash = $1 AND isrevoked = FALSE AND expiresat > NOW()`

	session := &Session{}
	err := repository.pool.QueryRow(context, query, tokenHash).Scan(
		&session.ID,
		&session.UserID,
		&session.TokenHash,
		&session.UserAgent,
		&session.IPAddress,
		&session.ExpiresAt,
		&session.IsRevoked,
		&session.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Session")
		}
		return nil, fmt.Errorf("postgres_session_repo_find_failed: %w", err)
	}

	return session, nil
}

/*
Revoke marks a specific session as revoked.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - error: Revocation failures
*/
func (repository *PostgresSessionRepository) Revoke(context context.Context, sessionID string) error {
	const query = `UPDATE users.session SET isrevoked = TRUE WHERE id = $1`
	_, err := repository.pool.Exec(context, query, sessionID)
	if err != nil {
		return fmt.Errorf("postgres_session_repo_revoke_failed: %w", err)
	}
	return nil
}

/*
RevokeAll marks all active sessions for an identity as revoked.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Batch revocation failures
*/
func (repository *PostgresSessionRepository) RevokeAll(context context.Context, userID string) error {
	const query = `UPDATE users.session SET isrevoked = TRUE WHERE userid = $1 AND isrevoked = FALSE`
	_, err := repository.pool.Exec(context, query, userID)
	if err != nil {
		return fmt.Errorf("postgres_session_repo_revoke_all_failed: %w", err)
	}
	return nil
}

/*
DeleteExpired permanently removes all sessions past their expiration.

Parameters:
  - context: context.Context

Returns:
  - error: Cleanup failures
*/
func (repository *PostgresSessionRepository) DeleteExpired(context context.Context) error {
	const query = `DELETE FROM users.session WHERE expiresat <= NOW()`
	_, err := repository.pool.Exec(context, query)
	if err != nil {
		return fmt.Errorf("postgres_session_repo_delete_expired_failed: %w", err)
	}
	return nil
}
