package order

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
	ErrNotFound       = errors.New("order not found")
	ErrUnknownProduct = errors.New("unknown product")
)

type Repository interface {
	// Create stores o and its items atomically and fills o.ID / o.CreatedAt.
	Create(ctx context.Context, o *Order, items []Item) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	GetItems(ctx context.Context, orderID int64) ([]ItemDetail, error)
	ListByEmail(ctx context.Context, email string, limit, offset int) ([]Order, error)
	// ProductIDs returns the distinct products referenced by an order.
	ProductIDs(ctx context.Context, orderID int64) ([]int64, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const pgForeignKeyViolation = "23503"

func (r *PGRepo) Create(ctx context.Context, o *Order, items []Item) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := tx.QueryRow(ctx, `
		INSERT INTO orders (customer_name, customer_email, status, total_amount)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at
	`, o.CustomerName, o.CustomerEmail, o.Status, o.TotalAmount.String()).Scan(&o.ID, &o.CreatedAt); err != nil {
		return err
	}

	for i := range items {
		it := &items[i]
		it.OrderID = o.ID
		if err := tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, price_at_purchase)
			VALUES ($1,$2,$3,$4)
			RETURNING id
		`, o.ID, it.ProductID, it.Quantity, it.PriceAtPurchase.String()).Scan(&it.ID); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
				return fmt.Errorf("%w: %d", ErrUnknownProduct, it.ProductID)
			}
			return err
		}
	}
	return tx.Commit(ctx)
}

func scanOrder(row pgx.Row) (*Order, error) {
	var (
		o     Order
		total string
	)
	if err := row.Scan(&o.ID, &o.CustomerName, &o.CustomerEmail, &o.Status, &total, &o.CreatedAt); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("order %d total %q: %w", o.ID, total, err)
	}
	o.TotalAmount = d
	return &o, nil
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	o, err := scanOrder(r.db.QueryRow(ctx, `
		SELECT id, customer_name, customer_email, status, total_amount::text, created_at
		FROM orders WHERE id=$1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return o, err
}

func (r *PGRepo) GetItems(ctx context.Context, orderID int64) ([]ItemDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price_at_purchase::text,
		       p.name, p.category
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []ItemDetail{}
	for rows.Next() {
		var (
			it    ItemDetail
			price string
		)
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &price, &it.ProductName, &it.ProductCategory); err != nil {
			return nil, err
		}
		if it.PriceAtPurchase, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("order item %d price %q: %w", it.ID, price, err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *PGRepo) ListByEmail(ctx context.Context, email string, limit, offset int) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, customer_name, customer_email, status, total_amount::text, created_at
		FROM orders WHERE customer_email=$1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, email, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *PGRepo) ProductIDs(ctx context.Context, orderID int64) ([]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT product_id FROM order_items WHERE order_id=$1 ORDER BY product_id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
