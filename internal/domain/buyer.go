package domain

// PaymentMethod is the buyer's chosen way to pay. The zero value means
// nothing has been selected yet.
type PaymentMethod string

const (
	PaymentUnset PaymentMethod = ""
	PaymentCard  PaymentMethod = "card"
	PaymentCash  PaymentMethod = "cash"
)

// Valid reports whether m is a selectable payment method.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCard || m == PaymentCash
}

// BuyerField names one field of the buyer profile.
type BuyerField string

const (
	FieldPayment BuyerField = "payment"
	FieldAddress BuyerField = "address"
	FieldEmail   BuyerField = "email"
	FieldPhone   BuyerField = "phone"
)

// BuyerFields returns every buyer field in form order.
func BuyerFields() []BuyerField {
	return []BuyerField{FieldPayment, FieldAddress, FieldEmail, FieldPhone}
}

// Valid reports whether f is one of the four buyer fields.
func (f BuyerField) Valid() bool {
	switch f {
	case FieldPayment, FieldAddress, FieldEmail, FieldPhone:
		return true
	default:
		return false
	}
}

// Buyer is a snapshot of the checkout contact and payment data.
type Buyer struct {
	Payment PaymentMethod `json:"payment" validate:"required,oneof=card cash"`
	Address string        `json:"address" validate:"notblank"`
	Email   string        `json:"email" validate:"notblank"`
	Phone   string        `json:"phone" validate:"notblank"`
}
