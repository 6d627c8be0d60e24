// Copyright (c) 2026 SewCraft. All rights reserved.
// Author: dev@sewcraft.app

package order

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sewcraft/api/internal/platform/database/schema"
	"github.com/sewcraft/api/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed order store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// # Atomic Submission

/*
Create persists the order, its items, and its installments in one
transaction.

Parameters:
  - context: context.Context
  - order: *Order

Returns:
  - error: Transaction or persistence failures
*/
func (repository *PostgresRepository) Create(context context.Context, order *Order) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin transaction: %w", err)
	}

	// Ensures uncommitted state is reclaimed if anything below fails.
	defer transaction.Rollback(context)

	orderQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		schema.ShopOrder.Table,
		schema.ShopOrder.ID, schema.ShopOrder.UserID, schema.ShopOrder.Status,
		schema.ShopOrder.Total, schema.ShopOrder.ShippingAddress,
		schema.ShopOrder.CreatedAt, schema.ShopOrder.UpdatedAt,
	)

	_, err = transaction.Exec(context, orderQuery,
		order.ID, order.UserID, string(order.Status), order.Total,
		order.ShippingAddress, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "create_order")
	}

	itemQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		schema.ShopOrderItem.Table,
		schema.ShopOrderItem.ID, schema.ShopOrderItem.OrderID, schema.ShopOrderItem.ProductID,
		schema.ShopOrderItem.ProductName, schema.ShopOrderItem.Size,
		schema.ShopOrderItem.UnitPrice, schema.ShopOrderItem.Quantity,
	)

	for _, item := range order.Items {
		_, err = transaction.Exec(context, itemQuery,
			item.ID, order.ID, item.ProductID, item.ProductName,
			item.Size, item.UnitPrice, item.Quantity,
		)
		if err != nil {
			return dberr.Wrap(err, "create_order_item")
		}
	}

	installmentQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		schema.ShopInstallment.Table,
		schema.ShopInstallment.ID, schema.ShopInstallment.OrderID, schema.ShopInstallment.Sequence,
		schema.ShopInstallment.Amount, schema.ShopInstallment.DueAt, schema.ShopInstallment.Status,
	)

	for _, installment := range order.Installments {
		_, err = transaction.Exec(context, installmentQuery,
			installment.ID, order.ID, installment.Sequence,
			installment.Amount, installment.DueAt, string(installment.Status),
		)
		if err != nil {
			return dberr.Wrap(err, "create_installment")
		}
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres: failed to commit order: %w", err)
	}

	return nil
}

// # Retrieval

/*
FindByID returns a fully hydrated order.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Order: Order with items and installments
  - error: NOT_FOUND or retrieval failures
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Order, error) {
	headerQuery := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s FROM %s WHERE %s = $1
	`,
		schema.ShopOrder.ID, schema.ShopOrder.UserID, schema.ShopOrder.Status,
		schema.ShopOrder.Total, schema.ShopOrder.ShippingAddress,
		schema.ShopOrder.CreatedAt, schema.ShopOrder.UpdatedAt,
		schema.ShopOrder.Table, schema.ShopOrder.ID,
	)

	found := &Order{}
	var rawStatus string
	err := repository.pool.QueryRow(context, headerQuery, id).Scan(
		&found.ID, &found.UserID, &rawStatus, &found.Total,
		&found.ShippingAddress, &found.CreatedAt, &found.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_order")
	}
	found.Status = Status(rawStatus)

	itemQuery := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s FROM %s WHERE %s = $1 ORDER BY %s
	`,
		schema.ShopOrderItem.ID, schema.ShopOrderItem.ProductID, schema.ShopOrderItem.ProductName,
		schema.ShopOrderItem.Size, schema.ShopOrderItem.UnitPrice, schema.ShopOrderItem.Quantity,
		schema.ShopOrderItem.Table, schema.ShopOrderItem.OrderID, schema.ShopOrderItem.ID,
	)

	itemRows, err := repository.pool.Query(context, itemQuery, id)
	if err != nil {
		return nil, dberr.Wrap(err, "list_order_items")
	}
	defer itemRows.Close()

	for itemRows.Next() {
		item := Item{OrderID: id}
		if err := itemRows.Scan(
			&item.ID, &item.ProductID, &item.ProductName,
			&item.Size, &item.UnitPrice, &item.Quantity,
		); err != nil {
			return nil, dberr.Wrap(err, "scan_order_item")
		}
		found.Items = append(found.Items, item)
	}
	itemRows.Close()

	installmentQuery := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s FROM %s WHERE %s = $1 ORDER BY %s ASC
	`,
		schema.ShopInstallment.ID, schema.ShopInstallment.Sequence, schema.ShopInstallment.Amount,
		schema.ShopInstallment.DueAt, schema.ShopInstallment.Status, schema.ShopInstallment.PaidAt,
		schema.ShopInstallment.Table, schema.ShopInstallment.OrderID, schema.ShopInstallment.Sequence,
	)

	installmentRows, err := repository.pool.Query(context, installmentQuery, id)
	if err != nil {
		return nil, dberr.Wrap(err, "list_installments")
	}
	defer installmentRows.Close()

	for installmentRows.Next() {
		installment := Installment{OrderID: id}
		var rawStatus string
		if err := installmentRows.Scan(
			&installment.ID, &installment.Sequence, &installment.Amount,
			&installment.DueAt, &rawStatus, &installment.PaidAt,
		); err != nil {
			return nil, dberr.Wrap(err, "scan_installment")
		}
		installment.Status = InstallmentStatus(rawStatus)
		found.Installments = append(found.Installments, installment)
	}

	return found, installmentRows.Err()
}

/*
ListByUser returns a page of a customer's order headers, newest first.

Parameters:
  - context: context.Context
  - userID: string
  - limit, offset: int

Returns:
  - []*Order: Page of order headers
  - int: Total count
  - error: Retrieval failures
*/
func (repository *PostgresRepository) ListByUser(context context.Context, userID string, limit, offset int) ([]*Order, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, COUNT(*) OVER() as total
		FROM %s WHERE %s = $1
		ORDER BY %s DESC LIMIT $2 OFFSET $3
	`,
		schema.ShopOrder.ID, schema.ShopOrder.UserID, schema.ShopOrder.Status,
		schema.ShopOrder.Total, schema.ShopOrder.ShippingAddress,
		schema.ShopOrder.CreatedAt, schema.ShopOrder.UpdatedAt,
		schema.ShopOrder.Table, schema.ShopOrder.UserID, schema.ShopOrder.CreatedAt,
	)

	return repository.scanHeaders(context, query, userID, limit, offset)
}

/*
List returns a page of all order headers, newest first.

Parameters:
  - context: context.Context
  - limit, offset: int

Returns:
  - []*Order: Page of order headers
  - int: Total count
  - error: Retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context, limit, offset int) ([]*Order, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, COUNT(*) OVER() as total
		FROM %s
		ORDER BY %s DESC LIMIT $1 OFFSET $2
	`,
		schema.ShopOrder.ID, schema.ShopOrder.UserID, schema.ShopOrder.Status,
		schema.ShopOrder.Total, schema.ShopOrder.ShippingAddress,
		schema.ShopOrder.CreatedAt, schema.ShopOrder.UpdatedAt,
		schema.ShopOrder.Table, schema.ShopOrder.CreatedAt,
	)

	return repository.scanHeaders(context, query, limit, offset)
}

func (repository *PostgresRepository) scanHeaders(context context.Context, query string, args ...any) ([]*Order, int, error) {
	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_orders")
	}
	defer rows.Close()

	var orders []*Order
	var total int
	for rows.Next() {
		header := &Order{}
		var rawStatus string
		if err := rows.Scan(
			&header.ID, &header.UserID, &rawStatus, &header.Total,
			&header.ShippingAddress, &header.CreatedAt, &header.UpdatedAt, &total,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_order")
		}
		header.Status = Status(rawStatus)
		orders = append(orders, header)
	}

	return orders, total, rows.Err()
}

// # Mutation

/*
UpdateStatus replaces the order's fulfilment status.

Parameters:
  - context: context.Context
  - id: string
  - status: Status

Returns:
  - error: Update failures
*/
func (repository *PostgresRepository) UpdateStatus(context context.Context, id string, status Status) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		schema.ShopOrder.Table,
		schema.ShopOrder.Status, schema.ShopOrder.UpdatedAt, schema.ShopOrder.ID,
	)

	if _, err := repository.pool.Exec(context, query, id, string(status), time.Now()); err != nil {
		return dberr.Wrap(err, "update_order_status")
	}
	return nil
}

/*
MarkInstallmentPaid settles one installment.

Parameters:
  - context: context.Context
  - installmentID: string
  - paidAt: time.Time

Returns:
  - error: Update failures
*/
func (repository *PostgresRepository) MarkInstallmentPaid(context context.Context, installmentID string, paidAt time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		schema.ShopInstallment.Table,
		schema.ShopInstallment.Status, schema.ShopInstallment.PaidAt, schema.ShopInstallment.ID,
	)

	if _, err := repository.pool.Exec(context, query, installmentID, string(InstallmentPaid), paidAt); err != nil {
		return dberr.Wrap(err, "mark_installment_paid")
	}
	return nil
}
