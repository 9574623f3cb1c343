package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/RechkalovAA/weblarek/internal/domain"
	apperrors "github.com/RechkalovAA/weblarek/pkg/errors"
	"github.com/RechkalovAA/weblarek/pkg/validator"
)

var fieldMessages = map[domain.BuyerField]string{
	domain.FieldPayment: "payment method is not selected",
	domain.FieldAddress: "delivery address is required",
	domain.FieldEmail:   "email is required",
	domain.FieldPhone:   "phone is required",
}

// ValidationErrors maps each invalid buyer field to a human-readable message.
// An absent key means the field is valid.
type ValidationErrors map[domain.BuyerField]string

// Join concatenates the messages in form order, separated by "; ".
func (v ValidationErrors) Join() string {
	msgs := make([]string, 0, len(v))
	for _, f := range domain.BuyerFields() {
		if msg, ok := v[f]; ok {
			msgs = append(msgs, msg)
		}
	}
	return strings.Join(msgs, "; ")
}

// Buyer holds the checkout contact and payment data. It publishes no events;
// the orchestrator re-renders forms after each change itself.
type Buyer struct {
	data domain.Buyer
}

// NewBuyer creates an empty profile.
func NewBuyer() *Buyer {
	return &Buyer{}
}

// SetField writes value into field. An unknown field or an unsupported
// payment method is rejected with an InvalidInput error and nothing is
// written.
func (b *Buyer) SetField(field domain.BuyerField, value string) error {
	switch field {
	case domain.FieldPayment:
		m := domain.PaymentMethod(value)
		if !m.Valid() {
			return apperrors.InvalidInput(fmt.Sprintf("unsupported payment method %q", value))
		}
		b.data.Payment = m
	case domain.FieldAddress:
		b.data.Address = value
	case domain.FieldEmail:
		b.data.Email = value
	case domain.FieldPhone:
		b.data.Phone = value
	default:
		return apperrors.InvalidInput(fmt.Sprintf("unknown buyer field %q", field))
	}
	return nil
}

// Data returns a snapshot of the profile.
func (b *Buyer) Data() domain.Buyer {
	return b.data
}

// Clear resets every field to its default.
func (b *Buyer) Clear() {
	b.data = domain.Buyer{}
}

// Validate checks all four fields.
func (b *Buyer) Validate() ValidationErrors {
	return b.ValidateFields(domain.BuyerFields()...)
}

// ValidateFields checks only the given fields. Presence is all that is
// checked: payment must be selected and strings must be non-blank.
func (b *Buyer) ValidateFields(fields ...domain.BuyerField) ValidationErrors {
	out := ValidationErrors{}

	err := validator.Validate(b.data)
	if err == nil {
		return out
	}
	var verr *validator.ValidationError
	if !errors.As(err, &verr) {
		// Only a malformed rule set gets here; report every field so no
		// transition goes through on a broken validator.
		for _, f := range fields {
			out[f] = fieldMessages[f]
		}
		return out
	}

	wanted := make(map[domain.BuyerField]bool, len(fields))
	for _, f := range fields {
		wanted[f] = true
	}
	for name := range verr.Fields() {
		f := domain.BuyerField(name)
		if wanted[f] {
			out[f] = fieldMessages[f]
		}
	}
	return out
}
