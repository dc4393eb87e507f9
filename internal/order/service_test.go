package order

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

//
// ===== STUB REPO EN MEMORIA (implementa Repository) =====
//

type stubRepo struct {
	orders   map[int64]*Order
	items    map[int64][]Item
	products map[int64]string
	creates  int
	nextID   int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		orders:   map[int64]*Order{},
		items:    map[int64][]Item{},
		products: map[int64]string{1: "Colombian Supremo", 2: "French Press Classic"},
	}
}

func (s *stubRepo) Create(ctx context.Context, o *Order, items []Item) error {
	s.creates++
	for _, it := range items {
		if _, ok := s.products[it.ProductID]; !ok {
			return fmt.Errorf("%w: %d", ErrUnknownProduct, it.ProductID)
		}
	}
	s.nextID++
	o.ID = s.nextID
	o.CreatedAt = time.Now().UTC()
	cp := *o
	s.orders[o.ID] = &cp
	for i := range items {
		items[i].OrderID = o.ID
	}
	s.items[o.ID] = append([]Item(nil), items...)
	return nil
}

func (s *stubRepo) GetByID(ctx context.Context, id int64) (*Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *stubRepo) GetItems(ctx context.Context, orderID int64) ([]ItemDetail, error) {
	out := []ItemDetail{}
	for _, it := range s.items[orderID] {
		out = append(out, ItemDetail{Item: it, ProductName: s.products[it.ProductID]})
	}
	return out, nil
}

func (s *stubRepo) ListByEmail(ctx context.Context, email string, limit, offset int) ([]Order, error) {
	out := []Order{}
	for _, o := range s.orders {
		if o.CustomerEmail == email {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *stubRepo) ProductIDs(ctx context.Context, orderID int64) ([]int64, error) {
	var ids []int64
	for _, it := range s.items[orderID] {
		ids = append(ids, it.ProductID)
	}
	return ids, nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func validRequest() CheckoutRequest {
	return CheckoutRequest{
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
		Items: []CheckoutItem{
			{ProductID: 1, Quantity: 2, Price: dec("10.00")},
			{ProductID: 2, Quantity: 1, Price: dec("5.00")},
		},
		TotalAmount: dec("25.00"),
	}
}

//
// ===== TESTS =====
//

func TestCheckout_PersistsOrderAndItems(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, zap.NewNop())

	o, err := svc.Checkout(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(1), o.ID)
	assert.Equal(t, StatusCompleted, o.Status)
	assert.True(t, o.TotalAmount.Equal(dec("25")))

	// el total persistido es Σ precio×cantidad de sus ítems
	stored := repo.items[o.ID]
	require.Len(t, stored, 2)
	sum := decimal.Zero
	for _, it := range stored {
		assert.Equal(t, o.ID, it.OrderID)
		sum = sum.Add(it.PriceAtPurchase.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	assert.True(t, repo.orders[o.ID].TotalAmount.Equal(sum))
}

func TestCheckout_ValidationNeverTouchesStorage(t *testing.T) {
	cases := map[string]func(r *CheckoutRequest){
		"empty items":       func(r *CheckoutRequest) { r.Items = nil },
		"empty items slice": func(r *CheckoutRequest) { r.Items = []CheckoutItem{}; r.TotalAmount = decimal.Zero },
		"zero quantity":     func(r *CheckoutRequest) { r.Items[0].Quantity = 0 },
		"negative price":    func(r *CheckoutRequest) { r.Items[1].Price = dec("-5.00"); r.TotalAmount = dec("15.00") },
		"bad email":         func(r *CheckoutRequest) { r.CustomerEmail = "not-an-email" },
		"missing name":      func(r *CheckoutRequest) { r.CustomerName = "" },
		"total mismatch":    func(r *CheckoutRequest) { r.TotalAmount = dec("1.00") },
		"negative total":    func(r *CheckoutRequest) { r.TotalAmount = dec("-25.00") },
		"blank name":        func(r *CheckoutRequest) { r.CustomerName = "   " },
		"sub-cent price":    func(r *CheckoutRequest) { r.Items[0].Price = dec("0.005"); r.TotalAmount = r.Sum() },
		"sub-cent total":    func(r *CheckoutRequest) { r.TotalAmount = dec("25.001") },
		"price too large":   func(r *CheckoutRequest) { r.Items[0].Price = dec("100000000"); r.TotalAmount = r.Sum() },
		"total too large": func(r *CheckoutRequest) {
			r.Items[0].Price = dec("99999999.99")
			r.Items[0].Quantity = 200
			r.TotalAmount = r.Sum()
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			repo := newStubRepo()
			svc := NewService(repo, zap.NewNop())
			req := validRequest()
			mutate(&req)

			_, err := svc.Checkout(context.Background(), req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation), err.Error())
			assert.Equal(t, 0, repo.creates)
			assert.Empty(t, repo.orders)
		})
	}
}

func TestCheckout_ErrorMessagesUseJSONNames(t *testing.T) {
	svc := NewService(newStubRepo(), zap.NewNop())
	req := validRequest()
	req.Items[0].Quantity = 0

	_, err := svc.Checkout(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "items[0].quantity must be at least 1")
}

func TestCheckout_AmountErrors(t *testing.T) {
	svc := NewService(newStubRepo(), zap.NewNop())

	req := validRequest()
	req.Items[0].Price = dec("0.005")
	req.TotalAmount = req.Sum()
	_, err := svc.Checkout(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "items[0].price must have at most 2 decimal places")

	req = validRequest()
	req.Items[1].Price = dec("100000000.00")
	req.TotalAmount = req.Sum()
	_, err = svc.Checkout(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "items[1].price must be less than 100000000")
}

func TestCheckout_TrimsCustomerFields(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, zap.NewNop())
	req := validRequest()
	req.CustomerName = "  Jane Doe \t"
	req.CustomerEmail = " jane@example.com "

	o, err := svc.Checkout(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", repo.orders[o.ID].CustomerName)
	assert.Equal(t, "jane@example.com", repo.orders[o.ID].CustomerEmail)
}

func TestCheckout_UnknownProductIsValidationError(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, zap.NewNop())
	req := validRequest()
	req.Items[1].ProductID = 99

	_, err := svc.Checkout(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, ErrUnknownProduct)
}

func TestGet_JoinsItems(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, zap.NewNop())
	o, err := svc.Checkout(context.Background(), validRequest())
	require.NoError(t, err)

	d, err := svc.Get(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Colombian Supremo", "French Press Classic"}, d.ProductNames())

	_, err = svc.Get(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}
