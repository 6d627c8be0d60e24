// Copyright (c) 2026 SewCraft. All rights reserved.
// Author: dev@sewcraft.app

package identity_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sewcraft/api/internal/identity"
	"github.com/sewcraft/api/internal/platform/apperr"
	"github.com/sewcraft/api/internal/platform/sec"
)

// # Test Fakes

// fakeRepository is an in-memory Repository keyed by identity ID.
type fakeRepository struct {
	byID map[string]*identity.Identity
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{byID: map[string]*identity.Identity{}}
}

func (f *fakeRepository) FindByID(_ context.Context, id string) (*identity.Identity, error) {
	if ident, ok := f.byID[id]; ok {
		clone := *ident
		return &clone, nil
	}
	return nil, apperr.NotFound("Identity")
}

func (f *fakeRepository) FindByEmail(_ context.Context, email string) (*identity.Identity, error) {
	for _, ident := range f.byID {
		if ident.Email == email {
			clone := *ident
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Identity")
}

func (f *fakeRepository) Create(_ context.Context, ident *identity.Identity) error {
	clone := *ident
	f.byID[ident.ID] = &clone
	return nil
}

func (f *fakeRepository) Update(_ context.Context, ident *identity.Identity) error {
	clone := *ident
	f.byID[ident.ID] = &clone
	return nil
}

func (f *fakeRepository) UpdatePassword(_ context.Context, id, newHash string) error {
	if ident, ok := f.byID[id]; ok {
		ident.PasswordHash = newHash
	}
	return nil
}

func (f *fakeRepository) SetRole(_ context.Context, id, role string) error {
	if ident, ok := f.byID[id]; ok {
		ident.Role = sec.NormalizeRole(role)
	}
	return nil
}

func (f *fakeRepository) SetBlocked(_ context.Context, id string, blocked bool) error {
	if ident, ok := f.byID[id]; ok {
		ident.IsBlocked = blocked
	}
	return nil
}

func (f *fakeRepository) MarkConfirmed(_ context.Context, id string) error {
	if ident, ok := f.byID[id]; ok {
		ident.IsConfirmed = true
	}
	return nil
}

func (f *fakeRepository) List(_ context.Context, _, _ int) ([]*identity.Identity, int, error) {
	out := make([]*identity.Identity, 0, len(f.byID))
	for _, ident := range f.byID {
		clone := *ident
		out = append(out, &clone)
	}
	return out, len(out), nil
}

// fakeSessionRepository tracks sessions by token hash.
type fakeSessionRepository struct {
	byHash map[string]*identity.Session
}

func newFakeSessionRepository() *fakeSessionRepository {
	return &fakeSessionRepository{byHash: map[string]*identity.Session{}}
}

func (f *fakeSessionRepository) Create(_ context.Context, session *identity.Session) error {
	clone := *session
	f.byHash[session.TokenHash] = &clone
	return nil
}

func (f *fakeSessionRepository) FindByTokenHash(_ context.Context, tokenHash string) (*identity.Session, error) {
	session, ok := f.byHash[tokenHash]
	if !ok || session.IsRevoked || time.Now().After(session.ExpiresAt) {
		return nil, apperr.NotFound("Session")
	}
	clone := *session
	return &clone, nil
}

func (f *fakeSessionRepository) Revoke(_ context.Context, sessionID string) error {
	for _, session := range f.byHash {
		if session.ID == sessionID {
			session.IsRevoked = true
		}
	}
	return nil
}

func (f *fakeSessionRepository) RevokeAll(_ context.Context, userID string) error {
	for _, session := range f.byHash {
		if session.UserID == userID {
			session.IsRevoked = true
		}
	}
	return nil
}

func (f *fakeSessionRepository) DeleteExpired(_ context.Context) error { return nil }

func (f *fakeSessionRepository) activeCount(userID string) int {
	count := 0
	for _, session := range f.byHash {
		if session.UserID == userID && !session.IsRevoked {
			count++
		}
	}
	return count
}

// fakeTokenRepository is an in-memory TokenRepository without TTL expiry.
type fakeTokenRepository struct {
	tokens map[string]string
}

func newFakeTokenRepository() *fakeTokenRepository {
	return &fakeTokenRepository{tokens: map[string]string{}}
}

func (f *fakeTokenRepository) Set(_ context.Context, token, userID string, _ time.Duration) error {
	f.tokens[token] = userID
	return nil
}

func (f *fakeTokenRepository) Get(_ context.Context, token string) (string, error) {
	userID, ok := f.tokens[token]
	if !ok {
		return "", apperr.NotFound("Token")
	}
	return userID, nil
}

func (f *fakeTokenRepository) Delete(_ context.Context, token string) error {
	delete(f.tokens, token)
	return nil
}

// fakeTokenProvider issues predictable access tokens.
type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateAccessToken(userID, _, _ string, _ time.Duration) (string, error) {
	return "access-" + userID, nil
}

// failingPinger always reports the backing store as down.
type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return assert.AnError }

// # Harness

type serviceHarness struct {
	service       *identity.Service
	identities    *fakeRepository
	sessions      *fakeSessionRepository
	confirmTokens *fakeTokenRepository
	resetTokens   *fakeTokenRepository
}

func newServiceHarness(pingers ...identity.Pinger) *serviceHarness {
	h := &serviceHarness{
		identities:    newFakeRepository(),
		sessions:      newFakeSessionRepository(),
		confirmTokens: newFakeTokenRepository(),
		resetTokens:   newFakeTokenRepository(),
	}
	h.service = identity.NewService(
		h.identities, h.sessions, h.confirmTokens, h.resetTokens,
		fakeTokenProvider{}, pingers...,
	)
	return h
}

// seedAccount registers and confirms an account ready for sign-in.
func (h *serviceHarness) seedAccount(t *testing.T, email, password string) *identity.Identity {
	t.Helper()
	ident, err := h.service.SignUp(context.Background(), identity.SignUpInput{
		Email:    email,
		Name:     "Test Customer",
		Password: password,
	})
	require.NoError(t, err)
	require.NoError(t, h.identities.MarkConfirmed(context.Background(), ident.ID))
	return ident
}

// # Password Policy

/*
TestCheckPasswordPolicy tests the account password requirements.
*/
func TestCheckPasswordPolicy(t *testing.T) {
	tests := []struct {
		name     string
		password string
		isValid  bool
	}{
		{"valid", "sewing123", true},
		{"too_short", "ab1", false},
		{"no_digit", "sewingonly", false},
		{"no_letter", "12345678", false},
		{"exactly_eight", "thread12", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := identity.CheckPasswordPolicy(tt.password)
			if tt.isValid {
				assert.NoError(t, err)
			} else {
				assert.True(t, apperr.HasCode(err, identity.CodeWeakPassword))
			}
		})
	}
}

// # Registration

/*
TestService_SignUp tests enrollment, uniqueness, and the confirmation token
side effect.
*/
func TestService_SignUp(t *testing.T) {
	h := newServiceHarness()

	ident, err := h.service.SignUp(context.Background(), identity.SignUpInput{
		Email:    "ada@sewcraft.app",
		Name:     "Ada",
		Password: "needle42",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, ident.ID)
	assert.Equal(t, sec.RoleUser, ident.Role)
	assert.False(t, ident.IsConfirmed)
	assert.NotEqual(t, "needle42", ident.PasswordHash, "password must be hashed")

	// A confirmation token was parked for later activation.
	assert.Len(t, h.confirmTokens.tokens, 1)

	// Duplicate email is refused with the stable taxonomy code.
	_, err = h.service.SignUp(context.Background(), identity.SignUpInput{
		Email:    "ada@sewcraft.app",
		Name:     "Imposter",
		Password: "needle42",
	})
	assert.True(t, apperr.HasCode(err, identity.CodeEmailTaken))
}

/*
TestService_SignUp_WeakPassword tests that the policy blocks enrollment
before any account state is written.
*/
func TestService_SignUp_WeakPassword(t *testing.T) {
	h := newServiceHarness()

	_, err := h.service.SignUp(context.Background(), identity.SignUpInput{
		Email:    "ada@sewcraft.app",
		Name:     "Ada",
		Password: "short1",
	})

	assert.True(t, apperr.HasCode(err, identity.CodeWeakPassword))
	assert.Empty(t, h.identities.byID)
}

// # Authentication

/*
TestService_SignIn tests credential verification and taxonomy ordering:
wrong credentials always read as INVALID_CREDENTIALS, a blocked account
refuses even valid credentials, and an unconfirmed email cannot enter.
*/
func TestService_SignIn(t *testing.T) {
	h := newServiceHarness()
	ident := h.seedAccount(t, "ada@sewcraft.app", "needle42")

	t.Run("success", func(t *testing.T) {
		session, err := h.service.SignIn(context.Background(), identity.SignInInput{
			Email:    "ada@sewcraft.app",
			Password: "needle42",
		})
		require.NoError(t, err)
		assert.Equal(t, "access-"+ident.ID, session.AccessToken)
		assert.NotEmpty(t, session.RefreshToken)
		assert.Equal(t, 1, h.sessions.activeCount(ident.ID))
	})

	t.Run("unknown_email", func(t *testing.T) {
		_, err := h.service.SignIn(context.Background(), identity.SignInInput{
			Email:    "nobody@sewcraft.app",
			Password: "needle42",
		})
		assert.True(t, apperr.HasCode(err, identity.CodeInvalidCredentials))
	})

	t.Run("wrong_password", func(t *testing.T) {
		_, err := h.service.SignIn(context.Background(), identity.SignInInput{
			Email:    "ada@sewcraft.app",
			Password: "wrong999",
		})
		assert.True(t, apperr.HasCode(err, identity.CodeInvalidCredentials))
	})

	t.Run("blocked_account", func(t *testing.T) {
		require.NoError(t, h.identities.SetBlocked(context.Background(), ident.ID, true))
		defer func() { _ = h.identities.SetBlocked(context.Background(), ident.ID, false) }()

		_, err := h.service.SignIn(context.Background(), identity.SignInInput{
			Email:    "ada@sewcraft.app",
			Password: "needle42",
		})
		assert.True(t, apperr.HasCode(err, identity.CodeAccountBlocked))
	})

	t.Run("wrong_password_on_blocked_account", func(t *testing.T) {
		// Credentials are checked first, so nothing about the block leaks.
		require.NoError(t, h.identities.SetBlocked(context.Background(), ident.ID, true))
		defer func() { _ = h.identities.SetBlocked(context.Background(), ident.ID, false) }()

		_, err := h.service.SignIn(context.Background(), identity.SignInInput{
			Email:    "ada@sewcraft.app",
			Password: "wrong999",
		})
		assert.True(t, apperr.HasCode(err, identity.CodeInvalidCredentials))
	})
}

/*
TestService_SignIn_Unconfirmed tests that a fresh registration cannot sign in
before confirming its email.
*/
func TestService_SignIn_Unconfirmed(t *testing.T) {
	h := newServiceHarness()
	_, err := h.service.SignUp(context.Background(), identity.SignUpInput{
		Email:    "ada@sewcraft.app",
		Name:     "Ada",
		Password: "needle42",
	})
	require.NoError(t, err)

	_, err = h.service.SignIn(context.Background(), identity.SignInInput{
		Email:    "ada@sewcraft.app",
		Password: "needle42",
	})
	assert.True(t, apperr.HasCode(err, identity.CodeEmailUnconfirmed))
}

/*
TestService_SignOut tests revocation and idempotency: an unknown or already
revoked token is still a successful sign-out.
*/
func TestService_SignOut(t *testing.T) {
	h := newServiceHarness()
	ident := h.seedAccount(t, "ada@sewcraft.app", "needle42")

	session, err := h.service.SignIn(context.Background(), identity.SignInInput{
		Email:    "ada@sewcraft.app",
		Password: "needle42",
	})
	require.NoError(t, err)

	require.NoError(t, h.service.SignOut(context.Background(), session.RefreshToken))
	assert.Equal(t, 0, h.sessions.activeCount(ident.ID))

	// Idempotent: a second sign-out and a garbage token both succeed.
	assert.NoError(t, h.service.SignOut(context.Background(), session.RefreshToken))
	assert.NoError(t, h.service.SignOut(context.Background(), "never-issued"))
}

// # Session Rotation

/*
TestService_Refresh tests refresh token rotation and replay protection.
*/
func TestService_Refresh(t *testing.T) {
	h := newServiceHarness()
	ident := h.seedAccount(t, "ada@sewcraft.app", "needle42")

	first, err := h.service.SignIn(context.Background(), identity.SignInInput{
		Email:    "ada@sewcraft.app",
		Password: "needle42",
	})
	require.NoError(t, err)

	rotated, err := h.service.Refresh(context.Background(), first.RefreshToken, "ua", "127.0.0.1")
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, rotated.RefreshToken)
	assert.Equal(t, 1, h.sessions.activeCount(ident.ID))

	// Replaying the consumed token must fail.
	_, err = h.service.Refresh(context.Background(), first.RefreshToken, "ua", "127.0.0.1")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
}

/*
TestService_Refresh_BlockedMidSession tests that a block applied after
sign-in terminates the whole session chain on the next refresh.
*/
func TestService_Refresh_BlockedMidSession(t *testing.T) {
	h := newServiceHarness()
	ident := h.seedAccount(t, "ada@sewcraft.app", "needle42")

	session, err := h.service.SignIn(context.Background(), identity.SignInInput{
		Email:    "ada@sewcraft.app",
		Password: "needle42",
	})
	require.NoError(t, err)

	require.NoError(t, h.identities.SetBlocked(context.Background(), ident.ID, true))

	_, err = h.service.Refresh(context.Background(), session.RefreshToken, "ua", "127.0.0.1")
	assert.True(t, apperr.HasCode(err, identity.CodeAccountBlocked))
	assert.Equal(t, 0, h.sessions.activeCount(ident.ID))
}

// # Profile

/*
TestService_Update tests partial patch semantics: nil means keep, a pointer
to empty string means clear, and an empty patch is a no-op.
*/
func TestService_Update(t *testing.T) {
	h := newServiceHarness()
	ident := h.seedAccount(t, "ada@sewcraft.app", "needle42")

	// Seed some profile state first.
	phone := "+49 30 1234"
	_, err := h.service.Update(context.Background(), ident.ID, identity.Patch{Phone: &phone})
	require.NoError(t, err)

	t.Run("omitted_fields_survive", func(t *testing.T) {
		name := "Ada L."
		updated, err := h.service.Update(context.Background(), ident.ID, identity.Patch{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Ada L.", updated.Name)
		assert.Equal(t, phone, updated.Phone, "omitted phone must keep its stored value")
	})

	t.Run("explicit_clear", func(t *testing.T) {
		empty := ""
		updated, err := h.service.Update(context.Background(), ident.ID, identity.Patch{Phone: &empty})
		require.NoError(t, err)
		assert.Empty(t, updated.Phone)
	})

	t.Run("empty_patch_is_noop", func(t *testing.T) {
		before, err := h.service.Fetch(context.Background(), ident.ID)
		require.NoError(t, err)

		after, err := h.service.Update(context.Background(), ident.ID, identity.Patch{})
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("email_collision", func(t *testing.T) {
		h.seedAccount(t, "grace@sewcraft.app", "thimble7x")
		taken := "grace@sewcraft.app"
		_, err := h.service.Update(context.Background(), ident.ID, identity.Patch{Email: &taken})
		assert.True(t, apperr.HasCode(err, identity.CodeEmailTaken))
	})

	t.Run("unknown_identity", func(t *testing.T) {
		name := "Ghost"
		_, err := h.service.Update(context.Background(), "missing-id", identity.Patch{Name: &name})
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	})
}

/*
TestService_ChangePassword tests credential rotation and the session sweep
side effect.
*/
func TestService_ChangePassword(t *testing.T) {
	h := newServiceHarness()
	ident := h.seedAccount(t, "ada@sewcraft.app", "needle42")

	_, err := h.service.SignIn(context.Background(), identity.SignInInput{
		Email:    "ada@sewcraft.app",
		Password: "needle42",
	})
	require.NoError(t, err)

	t.Run("wrong_current_password", func(t *testing.T) {
		err := h.service.ChangePassword(context.Background(), ident.ID, "wrong999", "bobbin88x")
		assert.True(t, apperr.HasCode(err, identity.CodeInvalidCredentials))
	})

	t.Run("weak_replacement", func(t *testing.T) {
		err := h.service.ChangePassword(context.Background(), ident.ID, "needle42", "short")
		assert.True(t, apperr.HasCode(err, identity.CodeWeakPassword))
	})

	t.Run("success_revokes_sessions", func(t *testing.T) {
		require.NoError(t, h.service.ChangePassword(context.Background(), ident.ID, "needle42", "bobbin88x"))
		assert.Equal(t, 0, h.sessions.activeCount(ident.ID))

		// The new password works, the old one is dead.
		_, err := h.service.SignIn(context.Background(), identity.SignInInput{
			Email:    "ada@sewcraft.app",
			Password: "bobbin88x",
		})
		assert.NoError(t, err)

		_, err = h.service.SignIn(context.Background(), identity.SignInInput{
			Email:    "ada@sewcraft.app",
			Password: "needle42",
		})
		assert.True(t, apperr.HasCode(err, identity.CodeInvalidCredentials))
	})
}

// # Confirmation & Recovery

/*
TestService_ConfirmEmail tests token-based activation.
*/
func TestService_ConfirmEmail(t *testing.T) {
	h := newServiceHarness()
	ident, err := h.service.SignUp(context.Background(), identity.SignUpInput{
		Email:    "ada@sewcraft.app",
		Name:     "Ada",
		Password: "needle42",
	})
	require.NoError(t, err)

	var token string
	for candidate := range h.confirmTokens.tokens {
		token = candidate
	}
	require.NotEmpty(t, token)

	require.NoError(t, h.service.ConfirmEmail(context.Background(), token))
	assert.True(t, h.identities.byID[ident.ID].IsConfirmed)
	assert.Empty(t, h.confirmTokens.tokens, "used token must be deleted")

	// A stale or fabricated token is rejected.
	err = h.service.ConfirmEmail(context.Background(), token)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestService_PasswordReset tests the full forgot-password round trip,
including the anti-enumeration silence for unknown emails.
*/
func TestService_PasswordReset(t *testing.T) {
	h := newServiceHarness()
	ident := h.seedAccount(t, "ada@sewcraft.app", "needle42")

	_, err := h.service.SignIn(context.Background(), identity.SignInInput{
		Email:    "ada@sewcraft.app",
		Password: "needle42",
	})
	require.NoError(t, err)

	// Unknown email: no error, no token.
	token, err := h.service.RequestPasswordReset(context.Background(), "nobody@sewcraft.app")
	require.NoError(t, err)
	assert.Empty(t, token)

	token, err = h.service.RequestPasswordReset(context.Background(), "ada@sewcraft.app")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, h.service.ResetPassword(context.Background(), token, "bobbin88x"))
	assert.Equal(t, 0, h.sessions.activeCount(ident.ID), "reset must revoke all sessions")

	_, err = h.service.SignIn(context.Background(), identity.SignInInput{
		Email:    "ada@sewcraft.app",
		Password: "bobbin88x",
	})
	assert.NoError(t, err)
}

// # Health

/*
TestService_Health tests readiness reporting against the backing stores.
*/
func TestService_Health(t *testing.T) {
	healthy := newServiceHarness()
	assert.NoError(t, healthy.service.Health(context.Background()))

	down := newServiceHarness(failingPinger{})
	err := down.service.Health(context.Background())
	assert.True(t, apperr.HasCode(err, apperr.CodeServiceUnavailable))
}
