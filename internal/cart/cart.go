// Package cart holds the per-session shopping cart.
//
// A Cart is a plain value owned by one request at a time: it is loaded from the
// client's session, mutated, and written back. Nothing here is shared between
// sessions.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/cafe-reviews/internal/product"
)

type Line struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price" swaggertype:"string" example:"10.00"`
	Quantity  int             `json:"quantity"`
}

func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Cart struct {
	Lines []Line `json:"items"`
}

func (c *Cart) index(productID int64) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Add inserts p with quantity 1. Adding a product already in the cart is a no-op.
func (c *Cart) Add(p product.Product) {
	if c.index(p.ID) >= 0 {
		return
	}
	c.Lines = append(c.Lines, Line{ProductID: p.ID, Name: p.Name, UnitPrice: p.Price, Quantity: 1})
}

// UpdateQuantity sets the quantity of a line; quantity <= 0 removes it.
func (c *Cart) UpdateQuantity(productID int64, quantity int) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}
	if i := c.index(productID); i >= 0 {
		c.Lines[i].Quantity = quantity
	}
}

func (c *Cart) Remove(productID int64) {
	if i := c.index(productID); i >= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	}
}

func (c *Cart) Clear() { c.Lines = nil }

func (c *Cart) Empty() bool { return len(c.Lines) == 0 }

// ItemCount is the sum of quantities, not the number of lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Reprice refreshes names and prices from the catalog. Lines whose product is
// no longer listed are dropped; it reports whether anything changed.
func (c *Cart) Reprice(lookup func(id int64) (*product.Product, bool)) bool {
	changed := false
	kept := c.Lines[:0]
	for _, l := range c.Lines {
		p, ok := lookup(l.ProductID)
		if !ok {
			changed = true
			continue
		}
		if !l.UnitPrice.Equal(p.Price) || l.Name != p.Name {
			l.UnitPrice, l.Name = p.Price, p.Name
			changed = true
		}
		kept = append(kept, l)
	}
	c.Lines = kept
	return changed
}
