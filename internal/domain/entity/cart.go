package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/kedaikopi/pos-api/internal/domain/enum"
)

// CartAddon is an addon snapshot attached to a cart line at selection time.
type CartAddon struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Price int64     `json:"price"`
}

// CartLine is one entry in the live cart. Its ID is its own identity: the
// same product appears as separate lines when the addon sets differ.
// ProductID is nil for manual entries.
type CartLine struct {
	ID        uuid.UUID   `json:"id"`
	ProductID *uuid.UUID  `json:"product_id,omitempty"`
	Name      string      `json:"name"`
	UnitPrice int64       `json:"unit_price"`
	Quantity  int         `json:"quantity"`
	Addons    []CartAddon `json:"addons,omitempty"`
	IsManual  bool        `json:"is_manual,omitempty"`
}

// AddonTotal returns the summed addon price per unit.
func (l *CartLine) AddonTotal() int64 {
	var total int64
	for _, a := range l.Addons {
		total += a.Price
	}
	return total
}

// EffectiveUnitPrice is the unit price including addons.
func (l *CartLine) EffectiveUnitPrice() int64 {
	return l.UnitPrice + l.AddonTotal()
}

// LineTotal returns the priced line: (unit + addons) * qty.
func (l *CartLine) LineTotal() int64 {
	return l.EffectiveUnitPrice() * int64(l.Quantity)
}

// Clone returns a deep copy of the line.
func (l *CartLine) Clone() CartLine {
	c := *l
	if l.Addons != nil {
		c.Addons = make([]CartAddon, len(l.Addons))
		copy(c.Addons, l.Addons)
	}
	return c
}

// Discount is the single active cart discount. The raw value/amount is kept
// unclamped even when it exceeds the subtotal; only the taxable figure is
// floored at zero during pricing.
type Discount struct {
	Type   enum.DiscountType `json:"type"`
	Value  int64             `json:"value"`
	Reason string            `json:"reason"`
}

// Cart is the live, mutable order being built at the terminal. It is
// process-local state owned by one cashier.
type Cart struct {
	Lines        []CartLine `json:"lines"`
	Discount     *Discount  `json:"discount,omitempty"`
	TableNo      *int       `json:"table_no,omitempty"`
	CustomerName string     `json:"customer_name,omitempty"`
	WaiterName   string     `json:"waiter_name,omitempty"`
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// FindLine returns the line with the given id, or nil.
func (c *Cart) FindLine(lineID uuid.UUID) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			return &c.Lines[i]
		}
	}
	return nil
}

// FindMergeable returns an addon-free line for the product, or nil. Lines
// with addons never merge.
func (c *Cart) FindMergeable(productID uuid.UUID) *CartLine {
	for i := range c.Lines {
		l := &c.Lines[i]
		if l.ProductID != nil && *l.ProductID == productID && len(l.Addons) == 0 && !l.IsManual {
			return l
		}
	}
	return nil
}

// RemoveLine deletes the line with the given id. Returns false if absent.
func (c *Cart) RemoveLine(lineID uuid.UUID) bool {
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the cart.
func (c *Cart) Clone() *Cart {
	clone := &Cart{
		CustomerName: c.CustomerName,
		WaiterName:   c.WaiterName,
	}
	if c.TableNo != nil {
		no := *c.TableNo
		clone.TableNo = &no
	}
	if c.Discount != nil {
		d := *c.Discount
		clone.Discount = &d
	}
	clone.Lines = make([]CartLine, 0, len(c.Lines))
	for i := range c.Lines {
		clone.Lines = append(clone.Lines, c.Lines[i].Clone())
	}
	return clone
}

// HeldOrder is a suspended cart snapshot waiting to be resumed.
type HeldOrder struct {
	ID           uuid.UUID  `json:"id"`
	Lines        []CartLine `json:"lines"`
	Discount     *Discount  `json:"discount,omitempty"`
	Total        int64      `json:"total"`
	TableNo      *int       `json:"table_no,omitempty"`
	CustomerName string     `json:"customer_name,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
