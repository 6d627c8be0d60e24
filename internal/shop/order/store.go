// Copyright (c) 2026 SewCraft. All rights reserved.
// Author: dev@sewcraft.app

package order

import (
	"context"
	"time"
)

// Repository defines the data access contract for orders.
type Repository interface {

	/*
		Create persists an order with its items and installments atomically.

		Description: All three tables commit in one transaction; a failure at
		any point leaves no partial order behind.

		Parameters:
		  - context: context.Context
		  - order: *Order

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, order *Order) error

	/*
		FindByID returns a fully hydrated order (items and installments).

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Order: Hydrated entity
		  - error: Retrieval failures
	*/
	FindByID(context context.Context, id string) (*Order, error)

	/*
		ListByUser returns a page of a customer's orders, newest first.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - limit, offset: int

		Returns:
		  - []*Order: Page of orders (headers only, no line hydration)
		  - int: Total count for the customer
		  - error: Retrieval failures
	*/
	ListByUser(context context.Context, userID string, limit, offset int) ([]*Order, int, error)

	/*
		List returns a page across all customers, newest first.

		Parameters:
		  - context: context.Context
		  - limit, offset: int

		Returns:
		  - []*Order: Page of orders
		  - int: Total count
		  - error: Retrieval failures
	*/
	List(context context.Context, limit, offset int) ([]*Order, int, error)

	/*
		UpdateStatus replaces the order's fulfilment status.

		Parameters:
		  - context: context.Context
		  - id: string
		  - status: Status

		Returns:
		  - error: Persistence failures
	*/
	UpdateStatus(context context.Context, id string, status Status) error

	/*
		MarkInstallmentPaid settles one installment.

		Parameters:
		  - context: context.Context
		  - installmentID: string
		  - paidAt: time.Time

		Returns:
		  - error: Persistence failures
	*/
	MarkInstallmentPaid(context context.Context, installmentID string, paidAt time.Time) error
}
