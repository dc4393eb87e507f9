package review

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound  = errors.New("review not found")
	ErrDuplicate = errors.New("review already exists for call and product")
)

type Repository interface {
	FindByCallAndProduct(ctx context.Context, callID string, productID int64) (*Review, error)
	// Insert fails with ErrDuplicate when (call_id, product_id) is taken.
	Insert(ctx context.Context, r *Review) error
	UpdateTranscript(ctx context.Context, callID string, productID int64, transcript string) error
	ListByCallID(ctx context.Context, callID string) ([]Review, error)
	// AttachAnalysis sets summary and analysis on every review of the call.
	AttachAnalysis(ctx context.Context, callID, summary string, analysis json.RawMessage) (int64, error)
	ListByProduct(ctx context.Context, productID int64) ([]WithDetails, error)
	ListForProducts(ctx context.Context, productIDs []int64) (map[int64][]Review, error)
	ListAll(ctx context.Context) ([]WithDetails, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const pgUniqueViolation = "23505"

const reviewCols = `r.id, r.order_id, r.product_id, r.call_id, r.transcript, r.summary, r.analysis_data::text, r.created_at`

// scanReview reads reviewCols followed by any extra columns.
func scanReview(row pgx.Row, r *Review, extra ...any) error {
	var analysis *string
	dest := append([]any{&r.ID, &r.OrderID, &r.ProductID, &r.CallID, &r.Transcript, &r.Summary, &analysis, &r.CreatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	if analysis != nil {
		r.AnalysisData = json.RawMessage(*analysis)
	}
	return nil
}

func (p *PGRepo) FindByCallAndProduct(ctx context.Context, callID string, productID int64) (*Review, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var r Review
	err := scanReview(p.db.QueryRow(ctx, `SELECT `+reviewCols+` FROM reviews r WHERE r.call_id=$1 AND r.product_id=$2`,
		callID, productID), &r)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (p *PGRepo) Insert(ctx context.Context, r *Review) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := p.db.QueryRow(ctx, `
		INSERT INTO reviews (order_id, product_id, call_id, transcript, summary, analysis_data)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at
	`, r.OrderID, r.ProductID, r.CallID, r.Transcript, r.Summary, nullJSON(r.AnalysisData)).Scan(&r.ID, &r.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicate
	}
	return err
}

func (p *PGRepo) UpdateTranscript(ctx context.Context, callID string, productID int64, transcript string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := p.db.Exec(ctx, `
		UPDATE reviews SET transcript=$3 WHERE call_id=$1 AND product_id=$2
	`, callID, productID, transcript)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PGRepo) ListByCallID(ctx context.Context, callID string) ([]Review, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := p.db.Query(ctx, `SELECT `+reviewCols+` FROM reviews r WHERE r.call_id=$1 ORDER BY r.id`, callID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		var r Review
		if err := scanReview(rows, &r); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (p *PGRepo) AttachAnalysis(ctx context.Context, callID, summary string, analysis json.RawMessage) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := p.db.Exec(ctx, `
		UPDATE reviews SET summary=$2, analysis_data=$3 WHERE call_id=$1
	`, callID, summary, nullJSON(analysis))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (p *PGRepo) ListByProduct(ctx context.Context, productID int64) ([]WithDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := p.db.Query(ctx, `
		SELECT `+reviewCols+`, o.customer_name
		FROM reviews r
		JOIN orders o ON o.id = r.order_id
		WHERE r.product_id=$1
		ORDER BY r.created_at DESC, r.id DESC
	`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []WithDetails{}
	for rows.Next() {
		var d WithDetails
		if err := scanReview(rows, &d.Review, &d.CustomerName); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (p *PGRepo) ListForProducts(ctx context.Context, productIDs []int64) (map[int64][]Review, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	out := make(map[int64][]Review, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	rows, err := p.db.Query(ctx, `SELECT `+reviewCols+` FROM reviews r WHERE r.product_id = ANY($1)`, productIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var r Review
		if err := scanReview(rows, &r); err != nil {
			return nil, err
		}
		out[r.ProductID] = append(out[r.ProductID], r)
	}
	return out, rows.Err()
}

func (p *PGRepo) ListAll(ctx context.Context) ([]WithDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := p.db.Query(ctx, `
		SELECT `+reviewCols+`, o.customer_name, pr.name, pr.category
		FROM reviews r
		JOIN orders o    ON o.id = r.order_id
		JOIN products pr ON pr.id = r.product_id
		ORDER BY r.created_at DESC, r.id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []WithDetails{}
	for rows.Next() {
		var d WithDetails
		if err := scanReview(rows, &d.Review, &d.CustomerName, &d.ProductName, &d.ProductCategory); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// nullJSON maps an empty payload to SQL NULL instead of invalid JSON.
func nullJSON(b json.RawMessage) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
