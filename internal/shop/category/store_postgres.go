package category

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sewcraft/api/internal/platform/database/schema"
	"github.com/sewcraft/api/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) List(context context.Context) ([]*Category, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s ORDER BY %s ASC`,
		schema.ShopCategory.ID, schema.ShopCategory.Slug, schema.ShopCategory.Name, schema.ShopCategory.CreatedAt,
		schema.ShopCategory.Table, schema.ShopCategory.Name)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_categories")
	}
	defer rows.Close()

	categories := make([]*Category, 0)
	for rows.Next() {
		c := &Category{}
		if err := rows.Scan(&c.ID, &c.Slug, &c.Name, &c.CreatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_category")
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Category, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = $1`,
		schema.ShopCategory.ID, schema.ShopCategory.Slug, schema.ShopCategory.Name, schema.ShopCategory.CreatedAt,
		schema.ShopCategory.Table, schema.ShopCategory.ID)

	c := &Category{}
	err := repository.db.QueryRow(context, query, id).Scan(&c.ID, &c.Slug, &c.Name, &c.CreatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "get_category_by_id")
	}
	return c, nil
}

func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Category, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = $1`,
		schema.ShopCategory.ID, schema.ShopCategory.Slug, schema.ShopCategory.Name, schema.ShopCategory.CreatedAt,
		schema.ShopCategory.Table, schema.ShopCategory.Slug)

	c := &Category{}
	err := repository.db.QueryRow(context, query, slug).Scan(&c.ID, &c.Slug, &c.Name, &c.CreatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "get_category_by_slug")
	}
	return c, nil
}

func (repository *PostgresRepository) Create(context context.Context, category *Category) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)`,
		schema.ShopCategory.Table,
		schema.ShopCategory.ID, schema.ShopCategory.Slug, schema.ShopCategory.Name, schema.ShopCategory.CreatedAt)

	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now()
	}

	if _, err := repository.db.Exec(context, query,
		category.ID, category.Slug, category.Name, category.CreatedAt); err != nil {
		return dberr.Wrap(err, "create_category")
	}
	return nil
}

func (repository *PostgresRepository) Update(context context.Context, category *Category) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		schema.ShopCategory.Table,
		schema.ShopCategory.Slug, schema.ShopCategory.Name, schema.ShopCategory.ID)

	if _, err := repository.db.Exec(context, query,
		category.ID, category.Slug, category.Name); err != nil {
		return dberr.Wrap(err, "update_category")
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.ShopCategory.Table, schema.ShopCategory.ID)

	if _, err := repository.db.Exec(context, query, id); err != nil {
		return dberr.Wrap(err, "delete_category")
	}
	return nil
}
