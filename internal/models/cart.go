package models

import "github.com/google/uuid"

// Cart is the server-side cart. It belongs to an authenticated user or, for
// guests, to a token carried in a cookie. Exactly one of UserID/GuestToken
// is meaningful at a time.
type Cart struct {
	BaseModel
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	GuestToken *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"-"`
	Lines      []CartLine `json:"lines"`
}

// CartLine is one product-quantity pair. Product id is unique per cart;
// price/title/image are snapshots taken when the line is created. Position
// preserves insertion order for display.
type CartLine struct {
	BaseModel
	CartID    uuid.UUID `gorm:"type:uuid;index:idx_cart_product,unique" json:"-"`
	ProductID uuid.UUID `gorm:"type:uuid;index:idx_cart_product,unique" json:"product_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
	Title     string    `json:"title"`
	Image     string    `json:"image"`
	Position  int       `json:"-"`
}

// AddLine merges qty into an existing line for the product or appends a new
// one. Quantities below one count as one.
func (c *Cart) AddLine(p Product, qty int) {
	if qty < 1 {
		qty = 1
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == p.ID {
			c.Lines[i].Quantity += qty
			return
		}
	}
	c.Lines = append(c.Lines, CartLine{
		CartID:    c.ID,
		ProductID: p.ID,
		Quantity:  qty,
		UnitPrice: p.Price,
		Title:     p.Title,
		Image:     p.Image,
		Position:  c.nextPosition(),
	})
}

// SetQuantity sets the quantity for a product's line. A quantity of zero or
// less removes the line. Returns false when no line exists for the product.
func (c *Cart) SetQuantity(productID uuid.UUID, qty int) bool {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			if qty <= 0 {
				c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			} else {
				c.Lines[i].Quantity = qty
			}
			return true
		}
	}
	return false
}

// RemoveLine drops the line for a product. Returns false when absent.
func (c *Cart) RemoveLine(productID uuid.UUID) bool {
	return c.SetQuantity(productID, 0)
}

// Clear removes all lines.
func (c *Cart) Clear() {
	c.Lines = nil
}

// MergeFrom folds another cart's lines into this one, summing quantities for
// products present in both and appending the rest in their original order.
// Used when a guest cart meets the user's cart after login.
func (c *Cart) MergeFrom(other *Cart) {
	for _, line := range other.Lines {
		merged := false
		for i := range c.Lines {
			if c.Lines[i].ProductID == line.ProductID {
				c.Lines[i].Quantity += line.Quantity
				merged = true
				break
			}
		}
		if merged {
			continue
		}
		c.Lines = append(c.Lines, CartLine{
			CartID:    c.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Title:     line.Title,
			Image:     line.Image,
			Position:  c.nextPosition(),
		})
	}
}

// Subtotal is the sum of unit price times quantity over all lines.
func (c *Cart) Subtotal() float64 {
	var total float64
	for _, line := range c.Lines {
		total += line.UnitPrice * float64(line.Quantity)
	}
	return total
}

// ItemCount is the sum of quantities over all lines.
func (c *Cart) ItemCount() int {
	var count int
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

func (c *Cart) nextPosition() int {
	max := -1
	for _, line := range c.Lines {
		if line.Position > max {
			max = line.Position
		}
	}
	return max + 1
}
