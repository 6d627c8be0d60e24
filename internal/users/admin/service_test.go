// Copyright (c) 2026 SewCraft. All rights reserved.
// Author: dev@sewcraft.app

package admin_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sewcraft/api/internal/identity"
	"github.com/sewcraft/api/internal/platform/apperr"
	"github.com/sewcraft/api/internal/platform/guard"
	"github.com/sewcraft/api/internal/platform/sec"
	"github.com/sewcraft/api/internal/users/admin"
	"github.com/sewcraft/api/pkg/pointer"
)

// fakeIdentities is an in-memory identity store tracking write order.
type fakeIdentities struct {
	byID   map[string]*identity.Identity
	writes []string
}

func newFakeIdentities() *fakeIdentities {
	return &fakeIdentities{byID: map[string]*identity.Identity{}}
}

func (f *fakeIdentities) FindByID(_ context.Context, id string) (*identity.Identity, error) {
	if ident, ok := f.byID[id]; ok {
		clone := *ident
		return &clone, nil
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeIdentities) FindByEmail(_ context.Context, email string) (*identity.Identity, error) {
	for _, ident := range f.byID {
		if strings.EqualFold(ident.Email, email) {
			clone := *ident
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeIdentities) Create(_ context.Context, ident *identity.Identity) error {
	clone := *ident
	f.byID[ident.ID] = &clone
	return nil
}

func (f *fakeIdentities) Update(_ context.Context, ident *identity.Identity) error {
	f.writes = append(f.writes, "update")
	clone := *ident
	clone.Role = f.byID[ident.ID].Role
	clone.IsBlocked = f.byID[ident.ID].IsBlocked
	f.byID[ident.ID] = &clone
	return nil
}

func (f *fakeIdentities) UpdatePassword(_ context.Context, id, newHash string) error {
	f.byID[id].PasswordHash = newHash
	return nil
}

func (f *fakeIdentities) SetRole(_ context.Context, id, role string) error {
	f.writes = append(f.writes, "set_role")
	f.byID[id].Role = sec.NormalizeRole(role)
	return nil
}

func (f *fakeIdentities) SetBlocked(_ context.Context, id string, blocked bool) error {
	f.writes = append(f.writes, "set_blocked")
	f.byID[id].IsBlocked = blocked
	return nil
}

func (f *fakeIdentities) MarkConfirmed(_ context.Context, id string) error {
	f.byID[id].IsConfirmed = true
	return nil
}

func (f *fakeIdentities) List(_ context.Context, _, _ int) ([]*identity.Identity, int, error) {
	var out []*identity.Identity
	for _, ident := range f.byID {
		clone := *ident
		out = append(out, &clone)
	}
	return out, len(out), nil
}

// fakeDirectory records syncs and can be told to fail.
type fakeDirectory struct {
	synced  map[string]*identity.Identity
	syncErr error
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{synced: map[string]*identity.Identity{}}
}

func (f *fakeDirectory) Sync(_ context.Context, ident *identity.Identity) error {
	if f.syncErr != nil {
		return f.syncErr
	}
	clone := *ident
	f.synced[ident.ID] = &clone
	return nil
}

func (f *fakeDirectory) Remove(_ context.Context, userID string) error {
	delete(f.synced, userID)
	return nil
}

type harness struct {
	identities *fakeIdentities
	directory  *fakeDirectory
	service    *admin.Service
}

func newHarness() *harness {
	identities := newFakeIdentities()
	directory := newFakeDirectory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &harness{
		identities: identities,
		directory:  directory,
		service:    admin.NewService(identities, directory, logger),
	}
}

func (h *harness) seed(t *testing.T, id, email string, role sec.UserRole) *identity.Identity {
	t.Helper()
	ident := &identity.Identity{
		ID:          id,
		Email:       email,
		Name:        "Seeded Account",
		Role:        role,
		IsConfirmed: true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	require.NoError(t, h.identities.Create(context.Background(), ident))
	return ident
}

func adminCaller() *guard.Principal {
	return &guard.Principal{ID: "admin-1", Role: sec.RoleAdmin}
}

func selfCaller(id string) *guard.Principal {
	return &guard.Principal{ID: id, Role: sec.RoleUser}
}

/*
TestService_Apply_CallerRules tests the admin-or-self boundary.
*/
func TestService_Apply_CallerRules(t *testing.T) {
	t.Run("admin_targets_anyone", func(t *testing.T) {
		h := newHarness()
		h.seed(t, "admin-1", "boss@sewcraft.app", sec.RoleAdmin)
		h.seed(t, "cust-1", "ana@example.com", sec.RoleUser)

		updated, err := h.service.Apply(context.Background(), adminCaller(), "cust-1",
			admin.Patch{Name: pointer.To("Ana Moreau")})
		require.NoError(t, err)
		assert.Equal(t, "Ana Moreau", updated.Name)
	})

	t.Run("customer_edits_self", func(t *testing.T) {
		h := newHarness()
		h.seed(t, "cust-1", "ana@example.com", sec.RoleUser)

		updated, err := h.service.Apply(context.Background(), selfCaller("cust-1"), "cust-1",
			admin.Patch{Phone: pointer.To("+33 6 00 00 00 01")})
		require.NoError(t, err)
		assert.Equal(t, "+33 6 00 00 00 01", updated.Phone)
	})

	t.Run("customer_cannot_target_others", func(t *testing.T) {
		h := newHarness()
		h.seed(t, "cust-1", "ana@example.com", sec.RoleUser)
		h.seed(t, "cust-2", "bob@example.com", sec.RoleUser)

		_, err := h.service.Apply(context.Background(), selfCaller("cust-1"), "cust-2",
			admin.Patch{Name: pointer.To("Hijacked")})
		assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))
	})

	t.Run("customer_cannot_touch_role_or_block", func(t *testing.T) {
		h := newHarness()
		h.seed(t, "cust-1", "ana@example.com", sec.RoleUser)

		_, err := h.service.Apply(context.Background(), selfCaller("cust-1"), "cust-1",
			admin.Patch{Role: pointer.To("admin")})
		assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

		_, err = h.service.Apply(context.Background(), selfCaller("cust-1"), "cust-1",
			admin.Patch{IsBlocked: pointer.To(false)})
		assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))
	})

	t.Run("anonymous_denied", func(t *testing.T) {
		h := newHarness()
		h.seed(t, "cust-1", "ana@example.com", sec.RoleUser)

		_, err := h.service.Apply(context.Background(), nil, "cust-1",
			admin.Patch{Name: pointer.To("Ghost")})
		assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
	})
}

/*
TestService_Apply_EmailUniqueness tests that a colliding email fails
before any write happens.
*/
func TestService_Apply_EmailUniqueness(t *testing.T) {
	h := newHarness()
	h.seed(t, "cust-1", "ana@example.com", sec.RoleUser)
	h.seed(t, "cust-2", "bob@example.com", sec.RoleUser)

	_, err := h.service.Apply(context.Background(), adminCaller(), "cust-1",
		admin.Patch{Email: pointer.To("BOB@example.com")})
	assert.True(t, apperr.HasCode(err, identity.CodeEmailTaken))
	assert.Empty(t, h.identities.writes, "no write may precede the uniqueness check")
	assert.Empty(t, h.directory.synced)

	t.Run("own_email_is_not_a_collision", func(t *testing.T) {
		_, err := h.service.Apply(context.Background(), adminCaller(), "cust-1",
			admin.Patch{Email: pointer.To("ana@example.com")})
		assert.NoError(t, err)
	})
}

/*
TestService_Apply_RoleAndBlock tests the privileged flags.
*/
func TestService_Apply_RoleAndBlock(t *testing.T) {
	h := newHarness()
	h.seed(t, "cust-1", "ana@example.com", sec.RoleUser)

	updated, err := h.service.Apply(context.Background(), adminCaller(), "cust-1",
		admin.Patch{Role: pointer.To("admin"), IsBlocked: pointer.To(true)})
	require.NoError(t, err)

	assert.Equal(t, sec.RoleAdmin, updated.Role)
	assert.True(t, updated.IsBlocked)
	assert.Equal(t, []string{"update", "set_role", "set_blocked"}, h.identities.writes,
		"profile row writes before the privileged flags")
	assert.Equal(t, sec.RoleAdmin, h.directory.synced["cust-1"].Role,
		"directory sees the post-edit snapshot")
}

/*
TestService_Apply_PartialSuccess tests the two-phase failure mode: row
committed, credential sync failed.
*/
func TestService_Apply_PartialSuccess(t *testing.T) {
	h := newHarness()
	h.seed(t, "cust-1", "ana@example.com", sec.RoleUser)
	h.directory.syncErr = assert.AnError

	updated, err := h.service.Apply(context.Background(), adminCaller(), "cust-1",
		admin.Patch{Name: pointer.To("Ana Moreau")})

	assert.True(t, apperr.HasCode(err, apperr.CodePartialSuccess))
	require.NotNil(t, updated, "the committed half is still returned")
	assert.Equal(t, "Ana Moreau", updated.Name)
	assert.Equal(t, "Ana Moreau", h.identities.byID["cust-1"].Name, "row write survives")
}

/*
TestService_Apply_EmptyPatch tests the no-op path.
*/
func TestService_Apply_EmptyPatch(t *testing.T) {
	h := newHarness()
	h.seed(t, "cust-1", "ana@example.com", sec.RoleUser)

	_, err := h.service.Apply(context.Background(), adminCaller(), "cust-1", admin.Patch{})
	require.NoError(t, err)
	assert.Empty(t, h.identities.writes)
	assert.Empty(t, h.directory.synced, "an empty patch syncs nothing")
}

/*
TestService_Replace tests the full overwrite: unset fields clear.
*/
func TestService_Replace(t *testing.T) {
	h := newHarness()
	seeded := h.seed(t, "cust-1", "ana@example.com", sec.RoleUser)
	seeded.Phone = "+33 6 00 00 00 01"
	require.NoError(t, h.identities.Update(context.Background(), seeded))
	h.identities.writes = nil

	updated, err := h.service.Replace(context.Background(), adminCaller(), "cust-1",
		admin.Replacement{
			Email: "ana@example.com",
			Name:  "Ana Moreau",
			Role:  "user",
		})
	require.NoError(t, err)

	assert.Equal(t, "Ana Moreau", updated.Name)
	assert.Empty(t, updated.Phone, "a full replacement clears fields it does not carry")
	assert.False(t, updated.IsBlocked)
}

/*
TestService_Apply_UnknownTarget tests the missing-account path.
*/
func TestService_Apply_UnknownTarget(t *testing.T) {
	h := newHarness()

	_, err := h.service.Apply(context.Background(), adminCaller(), "ghost",
		admin.Patch{Name: pointer.To("Nobody")})
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}
