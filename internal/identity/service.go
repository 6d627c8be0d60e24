// Copyright (c) 2026 SewCraft. All rights reserved.
// Author: dev@sewcraft.app

package identity

import (
	"context"
	"fmt"
	"time"
	"unicode"

	"github.com/sewcraft/api/internal/platform/apperr"
	"github.com/sewcraft/api/internal/platform/sec"
	"github.com/sewcraft/api/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given identity.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - email: The email of the account.
	//   - role: The role of the account.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateAccessToken(userID, email, role string, timeToLive time.Duration) (string, error)
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(context context.Context) error
}

// Service implements identity and credential use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or sign-in logic must be reviewed before merging.
type Service struct {
	identityRepository Repository
	sessionRepository  SessionRepository
	confirmTokens      TokenRepository
	resetTokens        TokenRepository
	tokenProvider      TokenProvider
	pingers            []Pinger
}

// NewService constructs a new identity [Service] with necessary dependencies.
// The pingers back the readiness probe; pass every store the service depends on.
func NewService(
	identityRepo Repository,
	sessionRepo SessionRepository,
	confirmTokens TokenRepository,
	resetTokens TokenRepository,
	tokenProv TokenProvider,
	pingers ...Pinger,
) *Service {
	return &Service{
		identityRepository: identityRepo,
		sessionRepository:  sessionRepo,
		confirmTokens:      confirmTokens,
		resetTokens:        resetTokens,
		tokenProvider:      tokenProv,
		pingers:            pingers,
	}
}

// # Password Policy

/*
CheckPasswordPolicy verifies a candidate password against the account policy:
at least 8 characters, with at least one letter and one digit.

Parameters:
  - password: string

Returns:
  - error: ErrWeakPassword when the policy is not met
*/
func CheckPasswordPolicy(password string) error {
	if len(password) < 8 {
		return ErrWeakPassword()
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasLetter || !hasDigit {
		return ErrWeakPassword()
	}
	return nil
}

// # Registration Flow

// SignUpInput holds the data required to enroll a new customer.
type SignUpInput struct {
	Email    string
	Name     string
	Password string
}

/*
SignUp validates, hashes, and persists a brand new customer account.

Description: Deep-enrollment of a new customer. The account starts
unconfirmed; a confirmation token is issued so a later ConfirmEmail call can
activate sign-in.

Parameters:
  - context: context.Context
  - input: SignUpInput

Returns:
  - *Identity: Created entity
  - err: EMAIL_TAKEN, WEAK_PASSWORD, or storage errors
*/
func (service *Service) SignUp(context context.Context, input SignUpInput) (*Identity, error) {

	// Verify email uniqueness. Return a client-safe, code-bearing err.
	_, err := service.identityRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, ErrEmailTaken()
	}

	// Enforce the password policy before spending CPU on hashing.
	if err := CheckPasswordPolicy(input.Password); err != nil {
		return nil, err
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("identity_service_hash_failed: %w", err)
	}

	// Construct the new Identity entity. Time-sortable ID to prevent PG index fragmentation.
	ident := &Identity{
		ID:           uuid.New(),
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: hashedPassword,
		Role:         sec.RoleUser,
		IsConfirmed:  false,
	}

	// Persist the identity to the database
	if err := service.identityRepository.Create(context, ident); err != nil {
		return nil, fmt.Errorf("identity_service_signup_failed: %w", err)
	}

	// Generate and store a confirmation token in Redis as an async-ready side effect
	token, err := sec.GenerateSecureToken(ConfirmTokenLength)
	if err == nil {
		_ = service.confirmTokens.Set(context, token, ident.ID, ConfirmTokenTTL)
		// TODO: Trigger email delivery with the confirmation link
	}

	return ident, nil
}

// # Authentication Flow

// SignInInput defines credentials for an authentication attempt.
type SignInInput struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

// SignInSession represents a successfully established identity session.
type SignInSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	Identity              *Identity
}

/*
SignIn validates customer credentials and issues security tokens.

Description: Verifies identity, performs constant-time password comparison,
and initializes a new session with rotated security tokens. Credentials are
checked BEFORE the block and confirmation flags, so a wrong password on a
blocked account still reads as INVALID_CREDENTIALS and leaks nothing.

Parameters:
  - context: context.Context
  - input: SignInInput

Returns:
  - *SignInSession: Transport-ready session identifiers
  - err: INVALID_CREDENTIALS, ACCOUNT_BLOCKED, EMAIL_UNCONFIRMED, or internal failures
*/
func (service *Service) SignIn(context context.Context, input SignInInput) (*SignInSession, error) {

	// Look up by email. Generic message to prevent enumeration.
	ident, err := service.identityRepository.FindByEmail(context, input.Email)
	if err != nil {
		return nil, ErrInvalidCredentials()
	}

	// Verify password hash using constant-time comparison in bcrypt to prevent timing attacks
	if !sec.CheckPasswordHash(input.Password, ident.PasswordHash) {
		return nil, ErrInvalidCredentials()
	}

	// A blocked account is refused even with valid credentials.
	if ident.IsBlocked {
		return nil, ErrAccountBlocked()
	}

	// An unconfirmed email cannot sign in yet.
	if !ident.IsConfirmed {
		return nil, ErrEmailUnconfirmed()
	}

	// Generate short-lived Access Token
	accessToken, err := service.tokenProvider.GenerateAccessToken(ident.ID, ident.Email, string(ident.Role), AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("identity_service_token_generation_failed: %w", err)
	}

	// Generate long-lived Refresh Token
	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("identity_service_refresh_token_failed: %w", err)
	}

	// Create and persist the tracking session
	expiresAt := time.Now().Add(RefreshTokenTTL)
	session := &Session{
		ID:        uuid.New(),
		UserID:    ident.ID,
		TokenHash: sec.HashToken(refreshToken),
		UserAgent: input.UserAgent,
		IPAddress: input.IPAddress,
		ExpiresAt: expiresAt,
		IsRevoked: false,
	}

	if err := service.sessionRepository.Create(context, session); err != nil {
		return nil, fmt.Errorf("identity_service_session_creation_failed: %w", err)
	}

	return &SignInSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: expiresAt,
		Identity:              ident,
	}, nil
}

/*
SignOut permanently revokes the customer's active session.

Description: Ensures that a tracked refresh token can never be used again.
A missing or already-revoked session is a success (idempotent operation).

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - err: Revocation failures
*/
func (service *Service) SignOut(context context.Context, refreshToken string) error {

	// Hash the refresh token
	tokenHash := sec.HashToken(refreshToken)

	// Find the session by token hash
	session, err := service.sessionRepository.FindByTokenHash(context, tokenHash)

	// If (err != nil) session is already gone or invalid, we consider sign-out successful (idempotent operation).
	if err != nil {
		return nil
	}

	// If (err == nil) Revoke the session
	if err := service.sessionRepository.Revoke(context, session.ID); err != nil {
		return fmt.Errorf("identity_service_signout_failed: %w", err)
	}

	return nil
}

// # Session Management

/*
Refresh implements the Refresh Token Rotation mechanism.

Description: Verifies the existing refresh token, revokes it to prevent reuse
(replay attack mitigation), and issues a fresh pair of rotated tokens. A block
applied since the last sign-in surfaces here and terminates the session chain.

Parameters:
  - context: context.Context
  - refreshToken: string
  - userAgent: string
  - ipAddress: string

Returns:
  - *SignInSession: New session credentials
  - err: UNAUTHORIZED, ACCOUNT_BLOCKED, or storage failures
*/
func (service *Service) Refresh(context context.Context, refreshToken, userAgent, ipAddress string) (*SignInSession, error) {

	// Hash the incoming refresh token to look it up
	tokenHash := sec.HashToken(refreshToken)
	session, err := service.sessionRepository.FindByTokenHash(context, tokenHash)

	// If (err != nil) the token is either expired, already revoked, or completely invalid.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	// Rotation: Revoke the old session to prevent replay attacks
	if err := service.sessionRepository.Revoke(context, session.ID); err != nil {
		return nil, fmt.Errorf("identity_service_refresh_revoke_failed: %w", err)
	}

	// Fetch the identity associated with this session
	ident, err := service.identityRepository.FindByID(context, session.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("Account not found")
	}

	// A block applied mid-session invalidates the whole chain.
	if ident.IsBlocked {
		_ = service.sessionRepository.RevokeAll(context, ident.ID)
		return nil, ErrAccountBlocked()
	}

	// Generate a fresh Access Token
	accessToken, err := service.tokenProvider.GenerateAccessToken(ident.ID, ident.Email, string(ident.Role), AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("identity_service_refresh_access_token_failed: %w", err)
	}

	// Generate a fresh Refresh Token for the rotation
	newRefreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("identity_service_refresh_secure_token_failed: %w", err)
	}

	// Persist the new session
	expiresAt := time.Now().Add(RefreshTokenTTL)
	newSession := &Session{
		ID:        uuid.New(),
		UserID:    ident.ID,
		TokenHash: sec.HashToken(newRefreshToken),
		UserAgent: userAgent,
		IPAddress: ipAddress,
		ExpiresAt: expiresAt,
		IsRevoked: false,
	}

	if err := service.sessionRepository.Create(context, newSession); err != nil {
		return nil, fmt.Errorf("identity_service_refresh_session_creation_failed: %w", err)
	}

	return &SignInSession{
		AccessToken:           accessToken,
		RefreshToken:          newRefreshToken,
		RefreshTokenExpiresAt: expiresAt,
		Identity:              ident,
	}, nil
}

// # Profile

/*
Fetch returns the identity with the given ID.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *Identity: Hydrated entity
  - err: NOT_FOUND or retrieval failures
*/
func (service *Service) Fetch(context context.Context, userID string) (*Identity, error) {
	return service.identityRepository.FindByID(context, userID)
}

/*
Update applies a partial profile patch to the identity.

Description: Only the fields the patch actually provides are written; omitted
(nil) fields keep their stored values. Changing the email re-checks uniqueness
first so the caller gets EMAIL_TAKEN instead of a raw constraint violation.

Parameters:
  - context: context.Context
  - userID: string
  - patch: Patch

Returns:
  - *Identity: Updated entity
  - err: NOT_FOUND, EMAIL_TAKEN, or storage failures
*/
func (service *Service) Update(context context.Context, userID string, patch Patch) (*Identity, error) {

	// Fetch the current state
	ident, err := service.identityRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	// An empty patch is a no-op, not an error.
	if patch.IsEmpty() {
		return ident, nil
	}

	// Email change requires a uniqueness pre-check.
	if patch.Email != nil && *patch.Email != ident.Email {
		if _, err := service.identityRepository.FindByEmail(context, *patch.Email); err == nil {
			return nil, ErrEmailTaken()
		}
	}

	// Merge the provided fields and persist
	patch.Apply(ident)
	if err := service.identityRepository.Update(context, ident); err != nil {
		return nil, fmt.Errorf("identity_service_update_failed: %w", err)
	}

	return ident, nil
}

/*
ChangePassword allows an authenticated customer to rotate their credentials.

Description: Verifies the current password, enforces the policy on the new
one, and revokes every OTHER active session for safety across devices.

Parameters:
  - context: context.Context
  - userID: string
  - currentPassword: string
  - newPassword: string

Returns:
  - err: INVALID_CREDENTIALS, WEAK_PASSWORD, or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID, currentPassword, newPassword string) error {

	// Fetch identity by ID
	ident, err := service.identityRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	// Verify the current password before allowing change
	if !sec.CheckPasswordHash(currentPassword, ident.PasswordHash) {
		return ErrInvalidCredentials()
	}

	// The new password must still meet the policy.
	if err := CheckPasswordPolicy(newPassword); err != nil {
		return err
	}

	// Hash the brand new password
	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("identity_service_change_password_hash_failed: %w", err)
	}

	// Update the database with the new hash
	if err := service.identityRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("identity_service_change_password_update_failed: %w", err)
	}

	// Security Side Effect: Revoke all sessions to force re-sign-in everywhere
	_ = service.sessionRepository.RevokeAll(context, userID)

	return nil
}

// # Email Confirmation

/*
ConfirmEmail activates an account using its confirmation token.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - err: NOT_FOUND (invalid/expired token) or storage failures
*/
func (service *Service) ConfirmEmail(context context.Context, token string) error {

	// Retrieve the identity ID associated with the confirmation token from Redis
	userID, err := service.confirmTokens.Get(context, token)
	if err != nil {
		return err
	}

	// Flip the confirmation flag in persistent storage
	if err := service.identityRepository.MarkConfirmed(context, userID); err != nil {
		return fmt.Errorf("identity_service_confirm_email_failed: %w", err)
	}

	// Cleanup the used confirmation token from Redis
	_ = service.confirmTokens.Delete(context, token)

	return nil
}

// # Password Recovery

/*
RequestPasswordReset initiates the forgot-password flow.

Description: Generates a secure token and saves it to Redis.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - string: Discovery token
  - err: Generation errors
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) (string, error) {
	// Look up identity.
	// NOTE: We don't return NOT_FOUND if the email doesn't exist to prevent user enumeration.
	ident, err := service.identityRepository.FindByEmail(context, email)
	if err != nil {
		return "", nil
	}

	// Generate reset token
	token, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		return "", fmt.Errorf("identity_service_generate_reset_token_failed: %w", err)
	}

	// Save to Redis
	if err := service.resetTokens.Set(context, token, ident.ID, ResetTokenTTL); err != nil {
		return "", fmt.Errorf("identity_service_save_reset_token_failed: %w", err)
	}

	return token, nil
}

/*
ResetPassword completes the forgot-password flow.

Description: Verifies the token, hashes the new password, updates the DB,
and revokes all active sessions for security cleanup.

Parameters:
  - context: context.Context
  - token: string
  - newPassword: string

Returns:
  - err: Validation or update failures
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {

	// Retrieve the userID associated with the reset token from Redis
	userID, err := service.resetTokens.Get(context, token)
	if err != nil {
		return err
	}

	// The replacement password must meet the policy.
	if err := CheckPasswordPolicy(newPassword); err != nil {
		return err
	}

	// Hash the new password securely
	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("identity_service_reset_password_hash_failed: %w", err)
	}

	// Update the identity's password in persistent storage
	if err := service.identityRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("identity_service_reset_password_update_failed: %w", err)
	}

	// Security Cleanup: Revoke EVERY active session for this identity
	_ = service.sessionRepository.RevokeAll(context, userID)

	// Delete the used token from Redis
	_ = service.resetTokens.Delete(context, token)

	return nil
}

// # Health

/*
Health reports whether the identity system and its backing stores are ready.

Description: Pings every configured store. Any failure is surfaced as a
SERVICE_UNAVAILABLE error so callers can distinguish "identity system down"
from a business refusal.

Parameters:
  - context: context.Context

Returns:
  - err: apperr.ServiceUnavailable when any backing store is unreachable
*/
func (service *Service) Health(context context.Context) error {
	for _, pinger := range service.pingers {
		if err := pinger.Ping(context); err != nil {
			return apperr.ServiceUnavailable("Identity system is temporarily unavailable")
		}
	}
	return nil
}
