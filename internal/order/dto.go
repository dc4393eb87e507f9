package order

import "github.com/shopspring/decimal"

// CheckoutItem payload de ítem.
// swagger:model CheckoutItem
type CheckoutItem struct {
	ProductID int64           `json:"product_id" validate:"gt=0" example:"3"`
	Quantity  int             `json:"quantity" validate:"gte=1" example:"2"`
	Price     decimal.Decimal `json:"price" swaggertype:"string" example:"10.00"`
}

// CheckoutRequest payload de creación de orden.
// swagger:model CheckoutRequest
type CheckoutRequest struct {
	CustomerName  string          `json:"customer_name" validate:"required" example:"Jane Doe"`
	CustomerEmail string          `json:"customer_email" validate:"required,email" example:"jane@example.com"`
	Items         []CheckoutItem  `json:"items" validate:"required,min=1,dive"`
	TotalAmount   decimal.Decimal `json:"total_amount" swaggertype:"string" example:"25.00"`
}

// CheckoutResponse is returned once the order is stored.
type CheckoutResponse struct {
	OrderID int64 `json:"order_id" example:"42"`
}

// Sum is Σ price×quantity over the request items.
func (r *CheckoutRequest) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, it := range r.Items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}
