// Copyright (c) 2026 SewCraft. All rights reserved.
// Author: dev@sewcraft.app

package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sewcraft/api/internal/platform/database/schema"
	"github.com/sewcraft/api/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed product store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Product Retrieval

/*
List returns a filtered and paginated list of products.

Description: Uses ILIKE for name search and COUNT(*) OVER() for total
metadata. Sizes are stored as a text[] column and scan directly into the
slice field.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit: int
  - offset: int

Returns:
  - []*Product: Slice of matching products
  - int: Total record count
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Product, int, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT
			%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s,
			COUNT(*) OVER() as total
		FROM %s
		WHERE TRUE
	`,
		schema.ShopProduct.ID, schema.ShopProduct.Slug, schema.ShopProduct.Name,
		schema.ShopProduct.Description, schema.ShopProduct.Price, schema.ShopProduct.CategoryID,
		schema.ShopProduct.ImageURL, schema.ShopProduct.Sizes, schema.ShopProduct.IsActive,
		schema.ShopProduct.CreatedAt, schema.ShopProduct.UpdatedAt,
		schema.ShopProduct.Table,
	))

	args := []any{}
	argID := 1

	if filter.ActiveOnly {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = TRUE", schema.ShopProduct.IsActive))
	}

	if filter.Query != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s ILIKE $%d", schema.ShopProduct.Name, argID))
		args = append(args, "%"+filter.Query+"%")
		argID++
	}

	if filter.CategoryID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.ShopProduct.CategoryID, argID))
		args = append(args, filter.CategoryID)
		argID++
	}

	switch filter.Sort {
	case "price":
		queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s ASC", schema.ShopProduct.Price))
	case "createdat":
		queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s DESC", schema.ShopProduct.CreatedAt))
	default:
		queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s ASC", schema.ShopProduct.Name))
	}

	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_products")
	}
	defer rows.Close()

	var products []*Product
	var total int
	for rows.Next() {
		product := &Product{}
		err := rows.Scan(
			&product.ID, &product.Slug, &product.Name, &product.Description, &product.Price,
			&product.CategoryID, &product.ImageURL, &product.Sizes, &product.IsActive,
			&product.CreatedAt, &product.UpdatedAt, &total,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_product")
		}
		products = append(products, product)
	}

	return products, total, nil
}

/*
FindByID retrieves a single product record by its primary key.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Product: Hydrated entity
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Product, error) {
	return repository.findByColumn(context, schema.ShopProduct.ID, id)
}

/*
FindBySlug retrieves a single product record by its slug.

Parameters:
  - context: context.Context
  - slug: string

Returns:
  - *Product: Hydrated entity
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Product, error) {
	return repository.findByColumn(context, schema.ShopProduct.Slug, slug)
}

func (repository *PostgresRepository) findByColumn(context context.Context, column, value string) (*Product, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.ShopProduct.ID, schema.ShopProduct.Slug, schema.ShopProduct.Name,
		schema.ShopProduct.Description, schema.ShopProduct.Price, schema.ShopProduct.CategoryID,
		schema.ShopProduct.ImageURL, schema.ShopProduct.Sizes, schema.ShopProduct.IsActive,
		schema.ShopProduct.CreatedAt, schema.ShopProduct.UpdatedAt,
		schema.ShopProduct.Table, column,
	)

	product := &Product{}
	err := repository.db.QueryRow(context, query, value).Scan(
		&product.ID, &product.Slug, &product.Name, &product.Description, &product.Price,
		&product.CategoryID, &product.ImageURL, &product.Sizes, &product.IsActive,
		&product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_product")
	}
	return product, nil
}

// # Product Mutation

/*
Create persists a brand-new product record.

Parameters:
  - context: context.Context
  - product: *Product

Returns:
  - error: Constraint violations or connectivity errors
*/
func (repository *PostgresRepository) Create(context context.Context, product *Product) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		schema.ShopProduct.Table,
		schema.ShopProduct.ID, schema.ShopProduct.Slug, schema.ShopProduct.Name,
		schema.ShopProduct.Description, schema.ShopProduct.Price, schema.ShopProduct.CategoryID,
		schema.ShopProduct.ImageURL, schema.ShopProduct.Sizes, schema.ShopProduct.IsActive,
		schema.ShopProduct.CreatedAt, schema.ShopProduct.UpdatedAt,
	)

	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	if _, err := repository.db.Exec(context, query,
		product.ID, product.Slug, product.Name, product.Description, product.Price,
		product.CategoryID, product.ImageURL, product.Sizes, product.IsActive,
		product.CreatedAt, product.UpdatedAt,
	); err != nil {
		return dberr.Wrap(err, "create_product")
	}
	return nil
}

/*
Update persists changes to an existing product record.

Parameters:
  - context: context.Context
  - product: *Product

Returns:
  - error: Update failures
*/
func (repository *PostgresRepository) Update(context context.Context, product *Product) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = $9
		WHERE %s = $1
	`,
		schema.ShopProduct.Table,
		schema.ShopProduct.Slug, schema.ShopProduct.Name, schema.ShopProduct.Description,
		schema.ShopProduct.Price, schema.ShopProduct.CategoryID, schema.ShopProduct.ImageURL,
		schema.ShopProduct.Sizes, schema.ShopProduct.UpdatedAt,
		schema.ShopProduct.ID,
	)

	product.UpdatedAt = time.Now()

	if _, err := repository.db.Exec(context, query,
		product.ID, product.Slug, product.Name, product.Description, product.Price,
		product.CategoryID, product.ImageURL, product.Sizes, product.UpdatedAt,
	); err != nil {
		return dberr.Wrap(err, "update_product")
	}
	return nil
}

/*
SetActive flips the product's storefront visibility flag.

Parameters:
  - context: context.Context
  - id: string
  - active: bool

Returns:
  - error: Update failures
*/
func (repository *PostgresRepository) SetActive(context context.Context, id string, active bool) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		schema.ShopProduct.Table,
		schema.ShopProduct.IsActive, schema.ShopProduct.UpdatedAt, schema.ShopProduct.ID,
	)

	if _, err := repository.db.Exec(context, query, id, active, time.Now()); err != nil {
		return dberr.Wrap(err, "set_product_active")
	}
	return nil
}
