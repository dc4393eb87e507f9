// Package product provides the repository interface and PostgreSQL implementation for the catalog.
package product

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("product not found")
	// ErrInUse is returned by Replace when orders still reference the catalog.
	ErrInUse = errors.New("catalog is referenced by existing orders")
)

type Query struct {
	Category string
}

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Product, error)
	List(ctx context.Context, q Query) ([]Product, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const selectProduct = `
	SELECT id, name, description, category, roast, origin, price::text, image_url, created_at
	FROM products`

func scanProduct(row pgx.Row) (*Product, error) {
	var (
		p     Product
		price string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Roast, &p.Origin, &price, &p.ImageURL, &p.CreatedAt); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("product %d price %q: %w", p.ID, price, err)
	}
	p.Price = d
	return &p, nil
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p, err := scanProduct(r.db.QueryRow(ctx, selectProduct+` WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *PGRepo) List(ctx context.Context, q Query) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, selectProduct+`
		WHERE ($1 = '' OR category = $1)
		ORDER BY category, id`, q.Category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Replace wipes the catalog and inserts products in one transaction. Used by
// the seed command only; the catalog is read-only while serving.
func (r *PGRepo) Replace(ctx context.Context, products []Product) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM products`); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrInUse
		}
		return fmt.Errorf("clear products: %w", err)
	}
	for i := range products {
		p := &products[i]
		if err := tx.QueryRow(ctx, `
			INSERT INTO products (name, description, category, roast, origin, price, image_url)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
			RETURNING id, created_at
		`, p.Name, p.Description, p.Category, p.Roast, p.Origin, p.Price.String(), p.ImageURL).Scan(&p.ID, &p.CreatedAt); err != nil {
			return fmt.Errorf("insert %s: %w", p.Name, err)
		}
	}
	return tx.Commit(ctx)
}
