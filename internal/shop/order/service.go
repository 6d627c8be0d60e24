// Copyright (c) 2026 SewCraft. All rights reserved.
// Author: dev@sewcraft.app

package order

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sewcraft/api/internal/platform/apperr"
	"github.com/sewcraft/api/internal/platform/validate"
	"github.com/sewcraft/api/internal/shop/cart"
	"github.com/sewcraft/api/pkg/uuid"
)

// # Service Layer

// Service orchestrates order submission, fulfilment, and billing.
type Service struct {
	repo   Repository
	carts  *cart.Manager
	logger *slog.Logger
}

// NewService constructs a new order [Service].
func NewService(repo Repository, carts *cart.Manager, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		carts:  carts,
		logger: logger,
	}
}

// # Submission

/*
Submit turns the customer's cart into a placed order.

Description: The cart lines are snapshotted into order items with their
captured unit prices, the total is split into installmentCount monthly
payments, and everything persists in one transaction. The cart clears only
after the order has committed, so a persistence failure leaves the cart
intact for a retry.

Parameters:
  - context: context.Context
  - userID: string
  - shippingAddress: string
  - installmentCount: int

Returns:
  - *Order: The placed order
  - error: UNPROCESSABLE for an empty cart or out-of-range installment
    count, VALIDATION_ERROR for a missing address, persistence failures
*/
func (service *Service) Submit(context context.Context, userID, shippingAddress string, installmentCount int) (*Order, error) {
	validator := &validate.Validator{}
	validator.Required(FieldShippingAddress, shippingAddress).
		Range(FieldInstallmentCount, installmentCount, MinInstallments, MaxInstallments)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	store := service.carts.Cart(userID)
	lines := store.Items()
	if len(lines) == 0 {
		return nil, apperr.Unprocessable("Cart is empty")
	}

	now := time.Now()
	placed := &Order{
		ID:              uuid.New(),
		UserID:          userID,
		Status:          StatusPending,
		Total:           store.TotalAmount(),
		ShippingAddress: shippingAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	for _, line := range lines {
		placed.Items = append(placed.Items, Item{
			ID:          uuid.New(),
			OrderID:     placed.ID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Size:        line.Size,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
		})
	}

	placed.Installments = splitInstallments(placed.ID, placed.Total, installmentCount, now)

	if err := service.repo.Create(context, placed); err != nil {
		return nil, fmt.Errorf("order_service_submit_failed: %w", err)
	}

	store.Clear()

	service.logger.Info("order placed",
		slog.String("order_id", placed.ID),
		slog.String("user_id", userID),
		slog.String("total", placed.Total.StringFixed(2)),
		slog.Int("installments", installmentCount),
	)

	return placed, nil
}

/*
SplitInstallments divides a total into count monthly payments.

Description: Each installment is the total divided by count, truncated to
cents. The remainder cents that truncation leaves behind are added to the
FIRST installment, so the amounts always sum exactly to the total. Due
dates fall monthly starting from the submission date.
*/
func splitInstallments(orderID string, total decimal.Decimal, count int, from time.Time) []Installment {
	base := total.Div(decimal.NewFromInt(int64(count))).Truncate(2)
	first := total.Sub(base.Mul(decimal.NewFromInt(int64(count - 1))))

	installments := make([]Installment, 0, count)
	for sequence := 1; sequence <= count; sequence++ {
		amount := base
		if sequence == 1 {
			amount = first
		}
		installments = append(installments, Installment{
			ID:       uuid.New(),
			OrderID:  orderID,
			Sequence: sequence,
			Amount:   amount,
			DueAt:    from.AddDate(0, sequence-1, 0),
			Status:   InstallmentPending,
		})
	}
	return installments
}

// # Retrieval

/*
GetOrder retrieves a hydrated order, enforcing ownership.

Description: Admins may fetch any order; customers only their own. An
order belonging to someone else reads as NOT_FOUND rather than FORBIDDEN,
so identifiers cannot be probed.

Parameters:
  - context: context.Context
  - id: string
  - requesterID: string
  - isAdmin: bool

Returns:
  - *Order: Hydrated order
  - error: NOT_FOUND if missing or not owned
*/
func (service *Service) GetOrder(context context.Context, id, requesterID string, isAdmin bool) (*Order, error) {
	found, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if !isAdmin && found.UserID != requesterID {
		return nil, apperr.NotFound("Order")
	}

	return found, nil
}

/*
ListOrders returns a page of the customer's own orders.

Parameters:
  - context: context.Context
  - userID: string
  - limit, offset: int

Returns:
  - []*Order: Page of order headers
  - int: Total count
  - error: Retrieval failures
*/
func (service *Service) ListOrders(context context.Context, userID string, limit, offset int) ([]*Order, int, error) {
	return service.repo.ListByUser(context, userID, limit, offset)
}

/*
ListAllOrders returns a page across every customer (back-office view).

Parameters:
  - context: context.Context
  - limit, offset: int

Returns:
  - []*Order: Page of order headers
  - int: Total count
  - error: Retrieval failures
*/
func (service *Service) ListAllOrders(context context.Context, limit, offset int) ([]*Order, int, error) {
	return service.repo.List(context, limit, offset)
}

// # Fulfilment

/*
ChangeStatus advances the order through the fulfilment machine.

Description: Only forward moves are legal: pending orders confirm or
cancel, confirmed orders ship, shipped orders deliver. Anything else is
rejected without touching the row.

Parameters:
  - context: context.Context
  - id: string
  - next: Status

Returns:
  - *Order: Updated order
  - error: VALIDATION_ERROR for an unknown status, UNPROCESSABLE for an
    illegal transition
*/
func (service *Service) ChangeStatus(context context.Context, id string, next Status) (*Order, error) {
	validator := &validate.Validator{}
	validator.Custom(FieldStatus, !next.Valid(), "Unknown order status")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	current, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if !current.Status.CanTransition(next) {
		return nil, apperr.Unprocessable(
			fmt.Sprintf("Cannot move order from %s to %s", current.Status, next))
	}

	if err := service.repo.UpdateStatus(context, id, next); err != nil {
		return nil, fmt.Errorf("order_service_status_failed: %w", err)
	}

	current.Status = next
	current.UpdatedAt = time.Now()

	service.logger.Info("order status changed",
		slog.String("order_id", id),
		slog.String("status", string(next)),
	)

	return current, nil
}

/*
SettleInstallment marks one installment of an order as paid.

Description: Settling an already-paid installment is rejected so a double
submission cannot rewrite the payment timestamp.

Parameters:
  - context: context.Context
  - orderID: string
  - sequence: int

Returns:
  - *Order: Updated order
  - error: NOT_FOUND for an unknown installment, UNPROCESSABLE if already
    settled
*/
func (service *Service) SettleInstallment(context context.Context, orderID string, sequence int) (*Order, error) {
	current, err := service.repo.FindByID(context, orderID)
	if err != nil {
		return nil, err
	}

	var target *Installment
	for index := range current.Installments {
		if current.Installments[index].Sequence == sequence {
			target = &current.Installments[index]
			break
		}
	}
	if target == nil {
		return nil, apperr.NotFound("Installment")
	}

	if target.Status == InstallmentPaid {
		return nil, apperr.Unprocessable("Installment is already settled")
	}

	paidAt := time.Now()
	if err := service.repo.MarkInstallmentPaid(context, target.ID, paidAt); err != nil {
		return nil, fmt.Errorf("order_service_settle_failed: %w", err)
	}

	target.Status = InstallmentPaid
	target.PaidAt = &paidAt

	service.logger.Info("installment settled",
		slog.String("order_id", orderID),
		slog.Int("sequence", sequence),
		slog.String("amount", target.Amount.StringFixed(2)),
	)

	return current, nil
}
