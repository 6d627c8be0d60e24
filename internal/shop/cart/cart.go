// Copyright (c) 2026 SewCraft. All rights reserved.
// Author: dev@sewcraft.app

/*
Package cart implements the in-memory shopping cart.

A cart is a set of line items uniquely keyed by (product ID, size). Unit
prices are captured when a line is first added and never re-read from the
catalogue, so a price change after the fact cannot retroactively alter a
customer's cart. All operations are synchronous on an owner-locked store.

Architecture:

  - Store: One customer's cart; mutex-owned line map with insertion order.
  - Manager: One store per signed-in customer; drops a cart when its session
    signs out.
  - Handler: The authenticated /cart HTTP surface, pricing lines through the
    catalogue at add time.
*/
package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/sewcraft/api/internal/platform/apperr"
)

// # Domain Entities

// MaxLineQuantity bounds a single line. Requests pushing a line above it are
// rejected without mutating, the same as non-positive input.
const MaxLineQuantity = 999

// LineKey uniquely identifies a cart line. The same product in two sizes is
// two distinct lines.
type LineKey struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
}

// LineItem is one cart line. UnitPrice is the price captured when the line
// was first added.
type LineItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Size        string          `json:"size"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

// Key returns the line's unique (product, size) key.
func (item LineItem) Key() LineKey {
	return LineKey{ProductID: item.ProductID, Size: item.Size}
}

// Subtotal returns UnitPrice multiplied by Quantity.
func (item LineItem) Subtotal() decimal.Decimal {
	return item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// # Cart Store

// Store is a single customer's cart.
//
// # Concurrency
//
// Every operation takes the owner mutex; there are no async completions here,
// so operations observe each other fully ordered.
type Store struct {
	mu    sync.Mutex
	lines map[LineKey]*LineItem
	order []LineKey
}

// NewStore constructs an empty cart.
func NewStore() *Store {
	return &Store{lines: map[LineKey]*LineItem{}}
}

/*
AddItem adds a line or increments an existing one.

Description: A repeated add of the same (product, size) key sums quantities
into exactly one line and keeps the ORIGINAL captured unit price — the price
passed on later adds of the same key is ignored. Non-positive quantities, and
increments that would push the line past [MaxLineQuantity], are rejected
without mutating anything.

Parameters:
  - item: LineItem (Quantity is the increment)

Returns:
  - error: UNPROCESSABLE on rejected input
*/
func (store *Store) AddItem(item LineItem) error {
	if item.Quantity <= 0 {
		return apperr.Unprocessable("Quantity must be positive")
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	key := item.Key()
	if existing, ok := store.lines[key]; ok {
		if existing.Quantity+item.Quantity > MaxLineQuantity {
			return apperr.Unprocessable("Quantity exceeds the per-line limit")
		}
		existing.Quantity += item.Quantity
		return nil
	}

	if item.Quantity > MaxLineQuantity {
		return apperr.Unprocessable("Quantity exceeds the per-line limit")
	}

	line := item
	store.lines[key] = &line
	store.order = append(store.order, key)
	return nil
}

/*
UpdateQuantity sets a line's quantity outright.

Description: A zero or negative quantity removes the line. Updating an absent
line is a no-op. Values past [MaxLineQuantity] are rejected without mutating.

Parameters:
  - key: LineKey
  - quantity: int

Returns:
  - error: UNPROCESSABLE on rejected input
*/
func (store *Store) UpdateQuantity(key LineKey, quantity int) error {
	if quantity > MaxLineQuantity {
		return apperr.Unprocessable("Quantity exceeds the per-line limit")
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.lines[key]; !ok {
		return nil
	}

	if quantity <= 0 {
		store.removeLocked(key)
		return nil
	}

	store.lines[key].Quantity = quantity
	return nil
}

// RemoveItem deletes a line. Removing an absent line is a no-op.
func (store *Store) RemoveItem(key LineKey) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.removeLocked(key)
}

// Clear empties the cart.
func (store *Store) Clear() {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.lines = map[LineKey]*LineItem{}
	store.order = nil
}

/*
Items returns the cart lines in insertion order.

Returns:
  - []LineItem: Copies; callers cannot mutate the cart through them
*/
func (store *Store) Items() []LineItem {
	store.mu.Lock()
	defer store.mu.Unlock()

	items := make([]LineItem, 0, len(store.order))
	for _, key := range store.order {
		items = append(items, *store.lines[key])
	}
	return items
}

// TotalItems returns the sum of all line quantities.
func (store *Store) TotalItems() int {
	store.mu.Lock()
	defer store.mu.Unlock()

	total := 0
	for _, line := range store.lines {
		total += line.Quantity
	}
	return total
}

// TotalAmount returns the sum of all line subtotals, priced at add time.
func (store *Store) TotalAmount() decimal.Decimal {
	store.mu.Lock()
	defer store.mu.Unlock()

	total := decimal.Zero
	for _, line := range store.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// removeLocked deletes a line and its ordering slot. Caller holds the mutex.
func (store *Store) removeLocked(key LineKey) {
	if _, ok := store.lines[key]; !ok {
		return
	}
	delete(store.lines, key)
	for i, k := range store.order {
		if k == key {
			store.order = append(store.order[:i], store.order[i+1:]...)
			break
		}
	}
}
