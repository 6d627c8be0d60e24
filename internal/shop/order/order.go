// Copyright (c) 2026 SewCraft. All rights reserved.
// Author: dev@sewcraft.app

/*
Package order implements order submission and installment billing.

An order snapshots the cart at submission time: line items copy the unit
prices the cart captured when each line was added, so neither catalogue
changes nor cart mutations after submission can alter a placed order. The
total splits into N monthly installments whose amounts sum exactly to the
order total — remainder cents land on the first installment.

Architecture:

  - Service: Submission, status transitions, installment settlement.
  - Repository: Atomic persistence — order, items, and installments commit
    in one pgx transaction or not at all.
*/
package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// # Status Machines

// Status is the order fulfilment state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// validTransitions encodes the fulfilment machine:
// pending → confirmed → shipped → delivered, and pending → cancelled.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped},
	StatusShipped:   {StatusDelivered},
}

// CanTransition reports whether the move from s to next is legal.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether the value is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// InstallmentStatus is the billing state of one installment.
type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "pending"
	InstallmentPaid    InstallmentStatus = "paid"
)

// # Core Entities

// Order is one placed purchase, with its item snapshot and billing plan.
type Order struct {
	ID              string          `json:"id"` // UUIDv7
	UserID          string          `json:"user_id"`
	Status          Status          `json:"status"`
	Total           decimal.Decimal `json:"total"`
	ShippingAddress string          `json:"shipping_address"`
	Items           []Item          `json:"items"`
	Installments    []Installment   `json:"installments"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Item is one snapshotted order line. UnitPrice is copied from the cart
// line, never referenced from the catalogue.
type Item struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"-"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Size        string          `json:"size"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

// Installment is one scheduled payment toward an order.
type Installment struct {
	ID       string            `json:"id"`
	OrderID  string            `json:"-"`
	Sequence int               `json:"sequence"`
	Amount   decimal.Decimal   `json:"amount"`
	DueAt    time.Time         `json:"due_at"`
	Status   InstallmentStatus `json:"status"`
	PaidAt   *time.Time        `json:"paid_at,omitempty"`
}

// # Submission Bounds

const (
	// MinInstallments is a single up-front payment.
	MinInstallments = 1
	// MaxInstallments caps the billing plan length.
	MaxInstallments = 12
)

// # Field Identifiers

const (
	FieldShippingAddress  = "shipping_address"
	FieldInstallmentCount = "installment_count"
	FieldStatus           = "status"
	FieldMessage          = "message"
)
