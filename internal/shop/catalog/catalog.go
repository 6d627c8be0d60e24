// Copyright (c) 2026 SewCraft. All rights reserved.
// Author: dev@sewcraft.app

/*
Package catalog manages the product catalogue.

It handles the lifecycle of sewing retail products — fabrics, threads,
needles, patterns — from back-office creation to storefront listing.

# Core Responsibility

  - Product: Defines the [Product] entity, its decimal pricing, and its
    available sizes.
  - Discovery: Filtered, paginated storefront listing over active products.
  - Administration: Create/update/archive rides the back-office path only.

Prices are [decimal.Decimal] throughout; float money does not exist in this
codebase. Carts capture a product's price at add time, so catalogue updates
here never reach existing cart lines.
*/
package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// # Core Entities

// Product represents one sellable catalogue entry.
type Product struct {
	ID          string          `json:"id"` // UUIDv7
	Slug        string          `json:"slug"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  string          `json:"category_id"`
	ImageURL    *string         `json:"image,omitempty"`
	Sizes       []string        `json:"sizes"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// HasSize reports whether the product is offered in the given size.
func (p *Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// # Search & Filtering

// Filter holds parameters for searching and listing products.
type Filter struct {
	Query      string `json:"q"`
	CategoryID string `json:"category_id"`
	ActiveOnly bool   `json:"active_only"`
	Sort       string `json:"sort"` // name, price, createdat
}

// # Field Identifiers

const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldCategoryID  = "category_id"
	FieldImage       = "image"
	FieldSizes       = "sizes"
	FieldSize        = "size"
	FieldQuantity    = "quantity"
	FieldMessage     = "message"
)
