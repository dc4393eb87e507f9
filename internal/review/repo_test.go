package review

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/MikeMC777/cafe-reviews/internal/db"
	"github.com/MikeMC777/cafe-reviews/internal/order"
	"github.com/MikeMC777/cafe-reviews/internal/product"
)

// openTestDB connects to POSTGRES_DSN_TEST and empties every table. The
// database must be disposable.
func openTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("POSTGRES_DSN_TEST")
	if dsn == "" {
		t.Skip("POSTGRES_DSN_TEST not set")
	}
	ctx := context.Background()
	pool, err := db.Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.Migrate(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE reviews, order_items, orders, products RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return pool
}

func TestPostgres_CheckoutAndReviewPipeline(t *testing.T) {
	pool := openTestDB(t)
	ctx := context.Background()
	log := zaptest.NewLogger(t)

	catalog := product.SeedCatalog()
	require.NoError(t, product.NewPGRepo(pool).Replace(ctx, catalog))
	a, b := catalog[0], catalog[len(catalog)-1]

	orders := order.NewPGRepo(pool)
	svc := order.NewService(orders, log)
	req := order.CheckoutRequest{
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
		Items: []order.CheckoutItem{
			{ProductID: a.ID, Quantity: 2, Price: a.Price},
			{ProductID: b.ID, Quantity: 1, Price: b.Price},
		},
	}
	req.TotalAmount = req.Sum()
	o, err := svc.Checkout(ctx, req)
	require.NoError(t, err)

	d, err := svc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, d.TotalAmount.Equal(req.TotalAmount), "total %s", d.TotalAmount)
	sum := decimal.Zero
	for _, it := range d.Items {
		sum = sum.Add(it.PriceAtPurchase.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	assert.True(t, sum.Equal(d.TotalAmount))

	// producto inexistente: nada se escribe
	bad := req
	bad.Items = []order.CheckoutItem{{ProductID: 999999, Quantity: 1, Price: decimal.NewFromInt(1)}}
	bad.TotalAmount = bad.Sum()
	_, err = svc.Checkout(ctx, bad)
	assert.ErrorIs(t, err, order.ErrValidation)
	hist, err := svc.History(ctx, "jane@example.com", 20, 0)
	require.NoError(t, err)
	assert.Len(t, hist, 1)

	reviews := NewPGRepo(pool)
	in := NewIngestor(reviews, orders, log)
	require.NoError(t, in.CallEnded(ctx, "call_pg", "first", o.ID))
	require.NoError(t, in.CallEnded(ctx, "call_pg", "second", o.ID))

	rows, err := reviews.ListByCallID(ctx, "call_pg")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, "second", *r.Transcript)
		assert.Nil(t, r.Summary)
		assert.Empty(t, r.AnalysisData)
	}

	dup := &Review{OrderID: o.ID, ProductID: a.ID, CallID: "call_pg"}
	assert.ErrorIs(t, reviews.Insert(ctx, dup), ErrDuplicate)

	require.NoError(t, in.CallAnalyzed(ctx, "call_pg", "Happy", json.RawMessage(`{"overall_rating":4}`)))
	require.NoError(t, in.CallAnalyzed(ctx, "call_unknown", "x", json.RawMessage(`{}`)))

	got, err := reviews.FindByCallAndProduct(ctx, "call_pg", b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Happy", *got.Summary)
	assert.JSONEq(t, `{"overall_rating":4}`, string(got.AnalysisData))

	_, err = reviews.FindByCallAndProduct(ctx, "call_unknown", a.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	rs := NewService(reviews)
	pr, err := rs.ForProduct(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, pr.ReviewCount)
	require.NotNil(t, pr.AverageRating)
	assert.InDelta(t, 4.0, *pr.AverageRating, 1e-9)
	assert.Equal(t, "Jane Doe", pr.Reviews[0].CustomerName)

	sums, err := rs.Summaries(ctx, []int64{a.ID, b.ID, catalog[1].ID})
	require.NoError(t, err)
	assert.Equal(t, 1, sums[b.ID].ReviewCount)
	assert.Equal(t, 0, sums[catalog[1].ID].ReviewCount)

	feed, err := rs.Feed(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.NotEmpty(t, feed[0].ProductName)

	// el catálogo ya está referenciado por órdenes
	assert.ErrorIs(t, product.NewPGRepo(pool).Replace(ctx, product.SeedCatalog()), product.ErrInUse)
}
