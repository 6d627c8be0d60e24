// Copyright (c) 2026 SewCraft. All rights reserved.
// Author: dev@sewcraft.app

package order_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sewcraft/api/internal/platform/apperr"
	"github.com/sewcraft/api/internal/shop/cart"
	"github.com/sewcraft/api/internal/shop/order"
)

// fakeRepository is an in-memory order store.
type fakeRepository struct {
	byID       map[string]*order.Order
	createErr  error
	createdIDs []string
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{byID: map[string]*order.Order{}}
}

func (f *fakeRepository) Create(_ context.Context, placed *order.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	clone := *placed
	f.byID[placed.ID] = &clone
	f.createdIDs = append(f.createdIDs, placed.ID)
	return nil
}

func (f *fakeRepository) FindByID(_ context.Context, id string) (*order.Order, error) {
	if found, ok := f.byID[id]; ok {
		clone := *found
		clone.Installments = append([]order.Installment(nil), found.Installments...)
		return &clone, nil
	}
	return nil, apperr.NotFound("Order")
}

func (f *fakeRepository) ListByUser(_ context.Context, userID string, _, _ int) ([]*order.Order, int, error) {
	var out []*order.Order
	for _, found := range f.byID {
		if found.UserID == userID {
			clone := *found
			out = append(out, &clone)
		}
	}
	return out, len(out), nil
}

func (f *fakeRepository) List(_ context.Context, _, _ int) ([]*order.Order, int, error) {
	var out []*order.Order
	for _, found := range f.byID {
		clone := *found
		out = append(out, &clone)
	}
	return out, len(out), nil
}

func (f *fakeRepository) UpdateStatus(_ context.Context, id string, status order.Status) error {
	f.byID[id].Status = status
	return nil
}

func (f *fakeRepository) MarkInstallmentPaid(_ context.Context, installmentID string, paidAt time.Time) error {
	for _, found := range f.byID {
		for index := range found.Installments {
			if found.Installments[index].ID == installmentID {
				found.Installments[index].Status = order.InstallmentPaid
				found.Installments[index].PaidAt = &paidAt
				return nil
			}
		}
	}
	return apperr.NotFound("Installment")
}

type harness struct {
	repo    *fakeRepository
	carts   *cart.Manager
	service *order.Service
}

func newHarness() *harness {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := newFakeRepository()
	carts := cart.NewManager(logger)
	return &harness{
		repo:    repo,
		carts:   carts,
		service: order.NewService(repo, carts, logger),
	}
}

func (h *harness) fillCart(t *testing.T, userID, price string, quantity int) {
	t.Helper()
	require.NoError(t, h.carts.Cart(userID).AddItem(cart.LineItem{
		ProductID:   "018f4a10-0000-7000-8000-0000000000aa",
		ProductName: "Cotton Thread Spool",
		Size:        "500m",
		UnitPrice:   decimal.RequireFromString(price),
		Quantity:    quantity,
	}))
}

/*
TestService_Submit tests the cart-to-order snapshot and post-commit clear.
*/
func TestService_Submit(t *testing.T) {
	h := newHarness()
	h.fillCart(t, "cust-1", "12.50", 3)

	placed, err := h.service.Submit(context.Background(), "cust-1", "12 Rue du Fil, Lyon", 1)
	require.NoError(t, err)

	assert.Equal(t, order.StatusPending, placed.Status)
	assert.True(t, placed.Total.Equal(decimal.RequireFromString("37.50")))
	require.Len(t, placed.Items, 1)
	assert.Equal(t, "Cotton Thread Spool", placed.Items[0].ProductName)
	assert.True(t, placed.Items[0].UnitPrice.Equal(decimal.RequireFromString("12.50")),
		"item price is the cart's captured price")

	assert.Empty(t, h.carts.Cart("cust-1").Items(), "cart clears after commit")
	assert.Len(t, h.repo.createdIDs, 1)
}

/*
TestService_Submit_Rejections tests the submission guards.
*/
func TestService_Submit_Rejections(t *testing.T) {
	t.Run("empty_cart", func(t *testing.T) {
		h := newHarness()
		_, err := h.service.Submit(context.Background(), "cust-1", "12 Rue du Fil, Lyon", 3)
		assert.True(t, apperr.HasCode(err, apperr.CodeUnprocessable))
	})

	t.Run("missing_address", func(t *testing.T) {
		h := newHarness()
		h.fillCart(t, "cust-1", "10.00", 1)
		_, err := h.service.Submit(context.Background(), "cust-1", "", 3)
		assert.True(t, apperr.HasCode(err, apperr.CodeValidationError))
	})

	t.Run("installments_out_of_range", func(t *testing.T) {
		h := newHarness()
		h.fillCart(t, "cust-1", "10.00", 1)
		for _, count := range []int{0, -1, 13} {
			_, err := h.service.Submit(context.Background(), "cust-1", "12 Rue du Fil, Lyon", count)
			assert.True(t, apperr.HasCode(err, apperr.CodeValidationError), "count %d", count)
		}
	})

	t.Run("persistence_failure_keeps_cart", func(t *testing.T) {
		h := newHarness()
		h.fillCart(t, "cust-1", "10.00", 2)
		h.repo.createErr = assert.AnError

		_, err := h.service.Submit(context.Background(), "cust-1", "12 Rue du Fil, Lyon", 2)
		require.Error(t, err)
		assert.Len(t, h.carts.Cart("cust-1").Items(), 1, "cart survives a failed submit")
	})
}

/*
TestService_Submit_InstallmentSums tests that the installment amounts sum
exactly to the order total, with remainder cents landing on the first
installment.
*/
func TestService_Submit_InstallmentSums(t *testing.T) {
	tests := []struct {
		name      string
		price     string
		quantity  int
		count     int
		wantFirst string
		wantRest  string
	}{
		{"even_split", "30.00", 1, 3, "10.00", "10.00"},
		{"remainder_cents_on_first", "100.00", 1, 3, "33.34", "33.33"},
		{"tenth_of_a_cent_total", "9.99", 1, 2, "5.00", "4.99"},
		{"single_installment", "47.31", 1, 1, "47.31", ""},
		{"twelve_way", "0.13", 1, 12, "0.02", "0.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			h.fillCart(t, "cust-1", tt.price, tt.quantity)

			placed, err := h.service.Submit(context.Background(), "cust-1", "12 Rue du Fil, Lyon", tt.count)
			require.NoError(t, err)
			require.Len(t, placed.Installments, tt.count)

			sum := decimal.Zero
			for index, installment := range placed.Installments {
				sum = sum.Add(installment.Amount)
				assert.Equal(t, index+1, installment.Sequence)
				assert.Equal(t, order.InstallmentPending, installment.Status)

				want := tt.wantRest
				if index == 0 {
					want = tt.wantFirst
				}
				assert.True(t, installment.Amount.Equal(decimal.RequireFromString(want)),
					"installment %d: got %s want %s", index+1, installment.Amount, want)
			}
			assert.True(t, sum.Equal(placed.Total),
				"installments sum to %s, total is %s", sum, placed.Total)
		})
	}
}

/*
TestService_Submit_InstallmentSchedule tests monthly due dates.
*/
func TestService_Submit_InstallmentSchedule(t *testing.T) {
	h := newHarness()
	h.fillCart(t, "cust-1", "90.00", 1)

	placed, err := h.service.Submit(context.Background(), "cust-1", "12 Rue du Fil, Lyon", 3)
	require.NoError(t, err)
	require.Len(t, placed.Installments, 3)

	first := placed.Installments[0].DueAt
	assert.WithinDuration(t, time.Now(), first, time.Minute)
	assert.Equal(t, first.AddDate(0, 1, 0), placed.Installments[1].DueAt)
	assert.Equal(t, first.AddDate(0, 2, 0), placed.Installments[2].DueAt)
}

/*
TestService_GetOrder tests ownership enforcement.
*/
func TestService_GetOrder(t *testing.T) {
	h := newHarness()
	h.fillCart(t, "cust-1", "10.00", 1)
	placed, err := h.service.Submit(context.Background(), "cust-1", "12 Rue du Fil, Lyon", 1)
	require.NoError(t, err)

	owned, err := h.service.GetOrder(context.Background(), placed.ID, "cust-1", false)
	require.NoError(t, err)
	assert.Equal(t, placed.ID, owned.ID)

	_, err = h.service.GetOrder(context.Background(), placed.ID, "cust-2", false)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound),
		"someone else's order reads as missing, not forbidden")

	asAdmin, err := h.service.GetOrder(context.Background(), placed.ID, "admin-1", true)
	require.NoError(t, err)
	assert.Equal(t, placed.ID, asAdmin.ID)
}

/*
TestService_ChangeStatus tests the fulfilment machine.
*/
func TestService_ChangeStatus(t *testing.T) {
	h := newHarness()
	h.fillCart(t, "cust-1", "10.00", 1)
	placed, err := h.service.Submit(context.Background(), "cust-1", "12 Rue du Fil, Lyon", 1)
	require.NoError(t, err)

	for _, next := range []order.Status{order.StatusConfirmed, order.StatusShipped, order.StatusDelivered} {
		updated, err := h.service.ChangeStatus(context.Background(), placed.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, updated.Status)
	}

	t.Run("no_backwards_moves", func(t *testing.T) {
		_, err := h.service.ChangeStatus(context.Background(), placed.ID, order.StatusPending)
		assert.True(t, apperr.HasCode(err, apperr.CodeUnprocessable))
	})

	t.Run("delivered_cannot_cancel", func(t *testing.T) {
		_, err := h.service.ChangeStatus(context.Background(), placed.ID, order.StatusCancelled)
		assert.True(t, apperr.HasCode(err, apperr.CodeUnprocessable))
	})

	t.Run("unknown_status", func(t *testing.T) {
		_, err := h.service.ChangeStatus(context.Background(), placed.ID, order.Status("misplaced"))
		assert.True(t, apperr.HasCode(err, apperr.CodeValidationError))
	})

	t.Run("pending_can_cancel", func(t *testing.T) {
		fresh := newHarness()
		fresh.fillCart(t, "cust-1", "10.00", 1)
		pending, err := fresh.service.Submit(context.Background(), "cust-1", "12 Rue du Fil, Lyon", 1)
		require.NoError(t, err)

		cancelled, err := fresh.service.ChangeStatus(context.Background(), pending.ID, order.StatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, order.StatusCancelled, cancelled.Status)
	})
}

/*
TestService_SettleInstallment tests installment settlement.
*/
func TestService_SettleInstallment(t *testing.T) {
	h := newHarness()
	h.fillCart(t, "cust-1", "100.00", 1)
	placed, err := h.service.Submit(context.Background(), "cust-1", "12 Rue du Fil, Lyon", 3)
	require.NoError(t, err)

	updated, err := h.service.SettleInstallment(context.Background(), placed.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, order.InstallmentPaid, updated.Installments[1].Status)
	require.NotNil(t, updated.Installments[1].PaidAt)

	t.Run("double_settlement", func(t *testing.T) {
		_, err := h.service.SettleInstallment(context.Background(), placed.ID, 2)
		assert.True(t, apperr.HasCode(err, apperr.CodeUnprocessable))
	})

	t.Run("unknown_sequence", func(t *testing.T) {
		_, err := h.service.SettleInstallment(context.Background(), placed.ID, 9)
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	})
}
