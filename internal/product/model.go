package product

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	CategoryCoffee    = "coffee"
	CategoryEquipment = "equipment"
)

// Product is a catalog entry. Roast and Origin are only set for coffee.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category"`
	Roast       *string         `json:"roast,omitempty"`
	Origin      *string         `json:"origin,omitempty"`
	Price       decimal.Decimal `json:"price" swaggertype:"string" example:"18.99"`
	ImageURL    string          `json:"image_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func ValidCategory(c string) bool {
	return c == CategoryCoffee || c == CategoryEquipment
}
