// Copyright (c) 2026 SewCraft. All rights reserved.
// Author: dev@sewcraft.app

package session_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sewcraft/api/internal/identity"
	"github.com/sewcraft/api/internal/platform/apperr"
	"github.com/sewcraft/api/internal/platform/sec"
	"github.com/sewcraft/api/internal/users/session"
)

// # Test Fakes

// fakeClient is a controllable IdentityClient. The gate channel, when set,
// blocks SignIn until released so tests can orchestrate completion races.
type fakeClient struct {
	mu sync.Mutex

	healthErr error
	signInErr error
	updateErr error
	ident     *identity.Identity
	gate      chan struct{}

	healthCalls  int
	signInCalls  int
	signOutCalls []string
	updateCalls  []identity.Patch
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		ident: &identity.Identity{
			ID:          "cust-1",
			Email:       "ada@sewcraft.app",
			Name:        "Ada",
			Role:        sec.RoleUser,
			Phone:       "+49 30 1234",
			IsConfirmed: true,
		},
	}
}

func (f *fakeClient) Health(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.healthCalls++
	return f.healthErr
}

func (f *fakeClient) SignIn(_ context.Context, _ identity.SignInInput) (*identity.SignInSession, error) {
	f.mu.Lock()
	f.signInCalls++
	gate := f.gate
	err := f.signInErr
	ident := *f.ident
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return &identity.SignInSession{
		AccessToken:  "access-" + ident.ID,
		RefreshToken: "refresh-" + ident.ID,
		Identity:     &ident,
	}, nil
}

func (f *fakeClient) SignUp(_ context.Context, input identity.SignUpInput) (*identity.Identity, error) {
	return &identity.Identity{ID: "cust-new", Email: input.Email, Name: input.Name, Role: sec.RoleUser}, nil
}

func (f *fakeClient) SignOut(_ context.Context, refreshToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signOutCalls = append(f.signOutCalls, refreshToken)
	return nil
}

func (f *fakeClient) Update(_ context.Context, _ string, patch identity.Patch) (*identity.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updateCalls = append(f.updateCalls, patch)
	merged := *f.ident
	patch.Apply(&merged)
	return &merged, nil
}

func (f *fakeClient) remoteSignOuts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.signOutCalls...)
}

func newStore(client *fakeClient) *session.Store {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return session.NewStore(client, logger)
}

func login(t *testing.T, store *session.Store) *session.Session {
	t.Helper()
	current, err := store.Login(context.Background(), identity.SignInInput{
		Email:    "ada@sewcraft.app",
		Password: "needle42",
	})
	require.NoError(t, err)
	return current
}

// # Login

/*
TestStore_Login tests the happy path: health consulted first, session
established, listeners notified once in order.
*/
func TestStore_Login(t *testing.T) {
	client := newFakeClient()
	store := newStore(client)

	var order []string
	store.OnSessionChange(func(current *session.Session) {
		order = append(order, "first")
		assert.NotNil(t, current)
	})
	store.OnSessionChange(func(*session.Session) {
		order = append(order, "second")
	})

	current := login(t, store)
	assert.Equal(t, "cust-1", current.Identity.ID)
	assert.Equal(t, "access-cust-1", current.AccessToken)
	assert.Equal(t, 1, client.healthCalls)

	// Listeners fire once each, in registration order, no dedup.
	assert.Equal(t, []string{"first", "second"}, order)

	snapshot := store.Session()
	require.NotNil(t, snapshot)
	assert.Equal(t, "cust-1", snapshot.Identity.ID)
}

/*
TestStore_Login_ServiceDown tests the preflight refusal: credentials are
never submitted when the identity system reports itself unhealthy.
*/
func TestStore_Login_ServiceDown(t *testing.T) {
	client := newFakeClient()
	client.healthErr = assert.AnError
	store := newStore(client)

	_, err := store.Login(context.Background(), identity.SignInInput{
		Email:    "ada@sewcraft.app",
		Password: "needle42",
	})

	assert.True(t, apperr.HasCode(err, apperr.CodeServiceUnavailable))
	assert.Equal(t, 0, client.signInCalls, "credentials must not be submitted")
	assert.Nil(t, store.Session())
}

/*
TestStore_Login_Blocked tests that a blocked identity never becomes
observable: the obtained tokens are revoked remotely and local state stays
signed out.
*/
func TestStore_Login_Blocked(t *testing.T) {
	t.Run("refused_at_resolution", func(t *testing.T) {
		client := newFakeClient()
		client.signInErr = identity.ErrAccountBlocked()
		store := newStore(client)

		_, err := store.Login(context.Background(), identity.SignInInput{
			Email:    "ada@sewcraft.app",
			Password: "needle42",
		})

		assert.True(t, apperr.HasCode(err, identity.CodeAccountBlocked))
		assert.Nil(t, store.Session())
	})

	t.Run("block_slipped_past_resolution", func(t *testing.T) {
		client := newFakeClient()
		client.ident.IsBlocked = true
		store := newStore(client)

		notified := false
		store.OnSessionChange(func(*session.Session) { notified = true })

		_, err := store.Login(context.Background(), identity.SignInInput{
			Email:    "ada@sewcraft.app",
			Password: "needle42",
		})

		assert.True(t, apperr.HasCode(err, identity.CodeAccountBlocked))
		assert.Nil(t, store.Session())
		assert.False(t, notified, "no partially-authenticated state may be observable")
		assert.Equal(t, []string{"refresh-cust-1"}, client.remoteSignOuts(),
			"obtained tokens must be revoked")
	})
}

/*
TestStore_Login_SupersededByLogout tests the completion-ordering property:
a login resolving after an intervening logout is discarded, and the race
settles logged-out.
*/
func TestStore_Login_SupersededByLogout(t *testing.T) {
	client := newFakeClient()
	client.gate = make(chan struct{})
	store := newStore(client)

	type result struct {
		current *session.Session
		err     error
	}
	done := make(chan result, 1)

	go func() {
		current, err := store.Login(context.Background(), identity.SignInInput{
			Email:    "ada@sewcraft.app",
			Password: "needle42",
		})
		done <- result{current, err}
	}()

	// Wait for the resolution to be in flight, then log out underneath it.
	require.Eventually(t, store.Loading, time.Second, time.Millisecond)
	store.Logout(context.Background())

	// Release the stalled resolution.
	close(client.gate)
	res := <-done

	assert.True(t, apperr.HasCode(res.err, apperr.CodeConflict))
	assert.Nil(t, res.current)
	assert.Nil(t, store.Session(), "race must settle logged-out")
	assert.Contains(t, client.remoteSignOuts(), "refresh-cust-1",
		"discarded completion must release its tokens")
}

// # Logout

/*
TestStore_Logout tests the unconditional local clear, including when the
remote revocation fails.
*/
func TestStore_Logout(t *testing.T) {
	client := newFakeClient()
	store := newStore(client)
	login(t, store)

	var observed []*session.Session
	store.OnSessionChange(func(current *session.Session) {
		observed = append(observed, current)
	})

	store.Logout(context.Background())

	assert.Nil(t, store.Session())
	require.Len(t, observed, 1)
	assert.Nil(t, observed[0], "sign-out notifies with nil")
	assert.Equal(t, []string{"refresh-cust-1"}, client.remoteSignOuts())

	// Signed-out logout is a silent no-op for listeners.
	store.Logout(context.Background())
	assert.Len(t, observed, 1)
}

// # Profile Updates

/*
TestStore_UpdateProfile tests the merge semantics: remote-first, omitted
fields untouched, explicit empty clears, no local mutation on failure.
*/
func TestStore_UpdateProfile(t *testing.T) {
	t.Run("merge_without_refetch", func(t *testing.T) {
		client := newFakeClient()
		store := newStore(client)
		login(t, store)

		name := "Ada L."
		current, err := store.UpdateProfile(context.Background(), identity.Patch{Name: &name})
		require.NoError(t, err)

		assert.Equal(t, "Ada L.", current.Identity.Name)
		assert.Equal(t, "+49 30 1234", current.Identity.Phone,
			"omitted field must keep its local value")
	})

	t.Run("explicit_clear", func(t *testing.T) {
		client := newFakeClient()
		store := newStore(client)
		login(t, store)

		empty := ""
		current, err := store.UpdateProfile(context.Background(), identity.Patch{Phone: &empty})
		require.NoError(t, err)
		assert.Empty(t, current.Identity.Phone)
	})

	t.Run("no_mutation_on_remote_failure", func(t *testing.T) {
		client := newFakeClient()
		client.updateErr = identity.ErrEmailTaken()
		store := newStore(client)
		login(t, store)

		taken := "grace@sewcraft.app"
		_, err := store.UpdateProfile(context.Background(), identity.Patch{Email: &taken})
		assert.True(t, apperr.HasCode(err, identity.CodeEmailTaken))

		snapshot := store.Session()
		require.NotNil(t, snapshot)
		assert.Equal(t, "ada@sewcraft.app", snapshot.Identity.Email)
	})

	t.Run("empty_patch_is_local_noop", func(t *testing.T) {
		client := newFakeClient()
		store := newStore(client)
		login(t, store)

		current, err := store.UpdateProfile(context.Background(), identity.Patch{})
		require.NoError(t, err)
		assert.Equal(t, "cust-1", current.Identity.ID)
		assert.Empty(t, client.updateCalls, "empty patch must not hit the remote")
	})

	t.Run("signed_out", func(t *testing.T) {
		store := newStore(newFakeClient())
		name := "Ghost"
		_, err := store.UpdateProfile(context.Background(), identity.Patch{Name: &name})
		assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
	})
}

/*
TestStore_SnapshotIsolation tests that snapshots handed to callers do not
alias mutable store state.
*/
func TestStore_SnapshotIsolation(t *testing.T) {
	client := newFakeClient()
	store := newStore(client)
	login(t, store)

	before := store.Session()

	name := "Ada L."
	_, err := store.UpdateProfile(context.Background(), identity.Patch{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "Ada", before.Identity.Name,
		"earlier snapshot must not observe later transitions")
}

// # Registration

/*
TestStore_Register tests that enrollment never establishes a session: the
account is pending confirmation.
*/
func TestStore_Register(t *testing.T) {
	client := newFakeClient()
	store := newStore(client)

	notified := false
	store.OnSessionChange(func(*session.Session) { notified = true })

	ident, err := store.Register(context.Background(), identity.SignUpInput{
		Email:    "grace@sewcraft.app",
		Name:     "Grace",
		Password: "thimble7x",
	})
	require.NoError(t, err)

	assert.Equal(t, "grace@sewcraft.app", ident.Email)
	assert.Nil(t, store.Session())
	assert.False(t, notified)
}
