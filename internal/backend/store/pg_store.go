package store

import (
	"context"
	"errors"
	"fmt"

	berrors "github.com/abgdnv/storefront/internal/backend/errors"
	"github.com/abgdnv/storefront/internal/catalog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	findAllQuery = `SELECT id, name, price, category, stock FROM products ORDER BY position`
	stockQuery   = `SELECT id, stock FROM products ORDER BY position`
	updateStock  = `UPDATE products SET stock = $2, updated_at = now() WHERE id = $1
RETURNING id, name, price, category, stock`
)

// PgStore implements ProductStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

// FindAll retrieves every product in catalog order.
func (p *PgStore) FindAll(ctx context.Context) ([]catalog.Product, error) {
	rows, err := p.db.Query(ctx, findAllQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to find all products: %w", err)
	}
	products, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (catalog.Product, error) {
		var pr catalog.Product
		err := row.Scan(&pr.ID, &pr.Name, &pr.Price, &pr.Category, &pr.Stock)
		return pr, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan products: %w", err)
	}
	return products, nil
}

// Stock retrieves the stock level of every product.
func (p *PgStore) Stock(ctx context.Context) ([]StockLevel, error) {
	rows, err := p.db.Query(ctx, stockQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to read stock levels: %w", err)
	}
	levels, err := pgx.CollectRows(rows, pgx.RowToStructByPos[StockLevel])
	if err != nil {
		return nil, fmt.Errorf("failed to scan stock levels: %w", err)
	}
	return levels, nil
}

// UpdateStock sets the stock of a product.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) UpdateStock(ctx context.Context, id string, stock int) (*catalog.Product, error) {
	var pr catalog.Product
	err := p.db.QueryRow(ctx, updateStock, id, stock).Scan(&pr.ID, &pr.Name, &pr.Price, &pr.Category, &pr.Stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, berrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product stock: %w", err)
	}
	return &pr, nil
}
