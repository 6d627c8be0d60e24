// Copyright (c) 2026 SewCraft. All rights reserved.
// Author: dev@sewcraft.app

package cart

import (
	"log/slog"
	"sync"

	"github.com/sewcraft/api/internal/users/session"
)

// # Cart Manager

// Manager owns one cart [Store] per customer.
//
// Carts are created lazily on first access and dropped when the owning
// session signs out, so an abandoned session never pins cart memory.
type Manager struct {
	logger *slog.Logger

	mu    sync.Mutex
	carts map[string]*Store
}

// NewManager constructs an empty [Manager].
func NewManager(logger *slog.Logger) *Manager {
	return &Manager{
		logger: logger,
		carts:  map[string]*Store{},
	}
}

/*
Cart returns the customer's cart, creating it on first access.

Parameters:
  - userID: string

Returns:
  - *Store: The customer's cart
*/
func (manager *Manager) Cart(userID string) *Store {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	if store, ok := manager.carts[userID]; ok {
		return store
	}

	store := NewStore()
	manager.carts[userID] = store
	return store
}

// Drop discards the customer's cart. Dropping an absent cart is a no-op.
func (manager *Manager) Drop(userID string) {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	if _, ok := manager.carts[userID]; ok {
		delete(manager.carts, userID)
		manager.logger.Info("cart dropped", slog.String("user_id", userID))
	}
}

/*
Observe subscribes the manager to a session store's transitions.

Description: When the observed session signs out, the departing customer's
cart is dropped. The handler tracks the last signed-in customer because the
sign-out notification itself carries nil.

Parameters:
  - sessions: *session.Store
*/
func (manager *Manager) Observe(sessions *session.Store) {
	var lastUserID string

	sessions.OnSessionChange(func(current *session.Session) {
		if current == nil {
			if lastUserID != "" {
				manager.Drop(lastUserID)
				lastUserID = ""
			}
			return
		}
		lastUserID = current.Identity.ID
	})
}
