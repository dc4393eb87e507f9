package order

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrValidation marks checkout input rejected before any write.
var ErrValidation = errors.New("invalid checkout")

// Upper bounds of the NUMERIC(10,2) and NUMERIC(12,2) columns.
var (
	maxPrice = decimal.New(1, 8)
	maxTotal = decimal.New(1, 10)
)

type Service struct {
	repo     Repository
	validate *validator.Validate
	log      *zap.Logger
}

func NewService(repo Repository, log *zap.Logger) *Service {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Service{repo: repo, validate: v, log: log}
}

func (s *Service) Validate(req *CheckoutRequest) error {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("%w: %s", ErrValidation, describe(verrs))
		}
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	for i, it := range req.Items {
		if err := checkAmount(fmt.Sprintf("items[%d].price", i), it.Price, maxPrice); err != nil {
			return err
		}
	}
	if err := checkAmount("total_amount", req.TotalAmount, maxTotal); err != nil {
		return err
	}
	// El total enviado por el cliente debe coincidir con las líneas.
	if sum := req.Sum(); !sum.Equal(req.TotalAmount) {
		return fmt.Errorf("%w: total_amount %s does not match items total %s",
			ErrValidation, req.TotalAmount.StringFixed(2), sum.StringFixed(2))
	}
	return nil
}

// Checkout validates req and stores the order with its items in one
// transaction. Validation failures never reach the repository.
func (s *Service) Checkout(ctx context.Context, req CheckoutRequest) (*Order, error) {
	if err := s.Validate(&req); err != nil {
		return nil, err
	}

	o := &Order{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Status:        StatusCompleted,
		TotalAmount:   req.Sum(),
	}
	items := make([]Item, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, Item{ProductID: it.ProductID, Quantity: it.Quantity, PriceAtPurchase: it.Price})
	}

	if err := s.repo.Create(ctx, o, items); err != nil {
		if errors.Is(err, ErrUnknownProduct) {
			return nil, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		return nil, fmt.Errorf("create order: %w", err)
	}
	s.log.Info("order created",
		zap.Int64("order_id", o.ID),
		zap.Int("items", len(items)),
		zap.String("total", o.TotalAmount.StringFixed(2)))
	return o, nil
}

// Get returns the order with its line items joined to product data.
func (s *Service) Get(ctx context.Context, id int64) (*Detail, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.GetItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("order %d items: %w", id, err)
	}
	return &Detail{Order: *o, Items: items}, nil
}

func (s *Service) History(ctx context.Context, email string, limit, offset int) ([]Order, error) {
	return s.repo.ListByEmail(ctx, strings.TrimSpace(email), limit, offset)
}

// checkAmount rejects amounts the money columns cannot hold exactly.
func checkAmount(field string, v, limit decimal.Decimal) error {
	switch {
	case v.IsNegative():
		return fmt.Errorf("%w: %s must not be negative", ErrValidation, field)
	case !v.Equal(v.Round(2)):
		return fmt.Errorf("%w: %s must have at most 2 decimal places", ErrValidation, field)
	case v.GreaterThanOrEqual(limit):
		return fmt.Errorf("%w: %s must be less than %s", ErrValidation, field, limit.String())
	}
	return nil
}

func describe(verrs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "CheckoutRequest.")
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, field+" must be a valid email")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param()))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be greater than %s", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
