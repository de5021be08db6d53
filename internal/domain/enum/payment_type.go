package enum

// PaymentType classifies a payment method. Cash is the only type the
// terminal can validate itself; card and qris settle on external devices and
// are recorded on the cashier's attestation.
type PaymentType string

const (
	PaymentTypeCash PaymentType = "cash"
	PaymentTypeCard PaymentType = "card"
	PaymentTypeQris PaymentType = "qris"
)

// Valid reports whether t is a known payment type.
func (t PaymentType) Valid() bool {
	switch t {
	case PaymentTypeCash, PaymentTypeCard, PaymentTypeQris:
		return true
	}
	return false
}

// RequiresTender reports whether the cashier must enter a tendered amount.
func (t PaymentType) RequiresTender() bool {
	return t == PaymentTypeCash
}
