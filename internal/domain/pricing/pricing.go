package pricing

import (
	"github.com/kedaikopi/pos-api/internal/domain/entity"
	"github.com/kedaikopi/pos-api/internal/domain/enum"
)

// Totals is the derived pricing snapshot of a cart. It is recomputed on
// every mutation, never cached. All amounts are whole Rupiah.
//
// Discount carries the raw, unclamped discount amount (it may exceed the
// subtotal); Taxable is floored at zero and is the base for tax and service.
type Totals struct {
	Subtotal int64 `json:"subtotal"`
	Discount int64 `json:"discount"`
	Taxable  int64 `json:"taxable"`
	Tax      int64 `json:"tax"`
	Service  int64 `json:"service"`
	Total    int64 `json:"total"`
}

// Rates are the store's tax and service percentages (10 means 10%).
type Rates struct {
	TaxRate     float64
	ServiceRate float64
}

// ZeroRates is used for split-bill portions, which are priced without
// discount, tax, or service.
var ZeroRates = Rates{}

// Subtotal sums (unit price + addon prices) * quantity over all lines.
func Subtotal(lines []entity.CartLine) int64 {
	var sum int64
	for i := range lines {
		sum += lines[i].LineTotal()
	}
	return sum
}

// DiscountAmount resolves a discount against a subtotal. Percentage
// discounts round down; the result is intentionally NOT clamped to the
// subtotal.
func DiscountAmount(d *entity.Discount, subtotal int64) int64 {
	if d == nil {
		return 0
	}
	switch d.Type {
	case enum.DiscountTypePercentage:
		return subtotal * d.Value / 100
	case enum.DiscountTypeFixed:
		return d.Value
	}
	return 0
}

// Charge applies a percentage rate to an amount, truncating toward zero.
func Charge(amount int64, rate float64) int64 {
	if rate <= 0 || amount <= 0 {
		return 0
	}
	return int64(float64(amount) * rate / 100)
}

// Compute derives the full Totals for a set of lines, an optional discount,
// and the store rates.
func Compute(lines []entity.CartLine, discount *entity.Discount, rates Rates) Totals {
	subtotal := Subtotal(lines)
	discountAmount := DiscountAmount(discount, subtotal)

	taxable := subtotal - discountAmount
	if taxable < 0 {
		taxable = 0
	}

	tax := Charge(taxable, rates.TaxRate)
	service := Charge(taxable, rates.ServiceRate)

	return Totals{
		Subtotal: subtotal,
		Discount: discountAmount,
		Taxable:  taxable,
		Tax:      tax,
		Service:  service,
		Total:    taxable + tax + service,
	}
}
