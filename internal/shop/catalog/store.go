// Copyright (c) 2026 SewCraft. All rights reserved.
// Author: dev@sewcraft.app

package catalog

import "context"

// Repository defines the data access contract for catalogue products.
type Repository interface {

	/*
		List returns a page of products matching the filter, plus the total.

		Parameters:
		  - context: context.Context
		  - filter: Filter
		  - limit, offset: int

		Returns:
		  - []*Product: Page of products
		  - int: Total matching count
		  - error: Retrieval failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Product, int, error)

	/*
		FindByID returns the product with the given UUID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Product: Hydrated entity
		  - error: Retrieval failures
	*/
	FindByID(context context.Context, id string) (*Product, error)

	/*
		FindBySlug returns the product with the given slug.

		Parameters:
		  - context: context.Context
		  - slug: string

		Returns:
		  - *Product: Hydrated entity
		  - error: Retrieval failures
	*/
	FindBySlug(context context.Context, slug string) (*Product, error)

	/*
		Create persists a brand-new product.

		Parameters:
		  - context: context.Context
		  - product: *Product

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, product *Product) error

	/*
		Update persists changes to an existing product.

		Parameters:
		  - context: context.Context
		  - product: *Product

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, product *Product) error

	/*
		SetActive flips the product's storefront visibility.

		Parameters:
		  - context: context.Context
		  - id: string
		  - active: bool

		Returns:
		  - error: Persistence failures
	*/
	SetActive(context context.Context, id string, active bool) error
}
