// Copyright (c) 2026 SewCraft. All rights reserved.
// Author: dev@sewcraft.app

package catalog

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/sewcraft/api/internal/platform/validate"
	"github.com/sewcraft/api/pkg/slug"
	"github.com/sewcraft/api/pkg/uuid"
)

// # Service Layer

// Service orchestrates business rules for the product catalogue.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new catalogue [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// # Storefront

/*
ListProducts retrieves a paginated and filtered list of products.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit, offset: int

Returns:
  - []*Product: List of products
  - int: Total matching count
  - error: Retrieval errors
*/
func (service *Service) ListProducts(context context.Context, filter Filter, limit, offset int) ([]*Product, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

/*
GetProduct retrieves a product by its UUID or slug identifier.

Parameters:
  - context: context.Context
  - identifier: string

Returns:
  - *Product: Hydrated product entity
  - error: NOT_FOUND if missing
*/
func (service *Service) GetProduct(context context.Context, identifier string) (*Product, error) {

	// Discriminator: ID vs Slug
	// UUIDs have a fixed length of 36 characters in standard hyphenated format.
	if len(identifier) == 36 {
		return service.repo.FindByID(context, identifier)
	}

	return service.repo.FindBySlug(context, identifier)
}

// # Back-Office

/*
CreateProduct validates and persists a new catalogue entry.

Parameters:
  - context: context.Context
  - product: *Product

Returns:
  - error: Validation or persistence failures
*/
func (service *Service) CreateProduct(context context.Context, product *Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}

	product.ID = uuid.New()
	product.Slug = slug.From(product.Name)
	product.IsActive = true

	if err := service.repo.Create(context, product); err != nil {
		return err
	}

	service.logger.Info("product_created",
		slog.String("product_id", product.ID),
		slog.String("slug", product.Slug),
	)

	return nil
}

/*
UpdateProduct validates and persists changes to an existing entry.

Description: The slug follows the name. Existing cart lines are unaffected:
they priced at add time.

Parameters:
  - context: context.Context
  - product: *Product

Returns:
  - error: Validation or persistence failures
*/
func (service *Service) UpdateProduct(context context.Context, product *Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}

	product.Slug = slug.From(product.Name)

	if err := service.repo.Update(context, product); err != nil {
		return err
	}

	service.logger.Info("product_updated", slog.String("product_id", product.ID))

	return nil
}

/*
SetProductActive archives or restores a product on the storefront.

Parameters:
  - context: context.Context
  - id: string
  - active: bool

Returns:
  - error: Persistence failures
*/
func (service *Service) SetProductActive(context context.Context, id string, active bool) error {
	if err := service.repo.SetActive(context, id, active); err != nil {
		return err
	}

	service.logger.Info("product_visibility_changed",
		slog.String("product_id", id),
		slog.Bool("active", active),
	)

	return nil
}

// validateProduct enforces the catalogue entry rules shared by create and
// update.
func validateProduct(product *Product) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, product.Name).
		MaxLen(FieldName, product.Name, 200).
		Required(FieldCategoryID, product.CategoryID).
		UUID(FieldCategoryID, product.CategoryID).
		Custom(FieldPrice, product.Price.LessThanOrEqual(decimal.Zero), "must be positive").
		Custom(FieldSizes, len(product.Sizes) == 0, "at least one size is required")

	return validator.Err()
}
