package order

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

type Order struct {
	ID            int64           `json:"id"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	Status        string          `json:"status"`
	TotalAmount   decimal.Decimal `json:"total_amount" swaggertype:"string" example:"25.00"`
	CreatedAt     time.Time       `json:"created_at"`
}

type Item struct {
	ID              int64           `json:"id"`
	OrderID         int64           `json:"order_id"`
	ProductID       int64           `json:"product_id"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase" swaggertype:"string" example:"10.00"`
}

// ItemDetail is a line item joined with the product it references.
type ItemDetail struct {
	Item
	ProductName     string `json:"product_name"`
	ProductCategory string `json:"product_category"`
}

type Detail struct {
	Order
	Items []ItemDetail `json:"items"`
}

// ProductNames lists the names of the ordered products in line order.
func (d *Detail) ProductNames() []string {
	out := make([]string, 0, len(d.Items))
	for _, it := range d.Items {
		out = append(out, it.ProductName)
	}
	return out
}
