package http

import (
	"fmt"

	"github.com/RechkalovAA/weblarek/internal/domain"
	apperrors "github.com/RechkalovAA/weblarek/pkg/errors"
)

// EventRequest is the JSON request body carrying one intent. Only the fields
// of the named intent are read.
type EventRequest struct {
	Name      string `json:"name" validate:"required,oneof=catalog:preview basket:open basket:checkout basket:remove preview:toggle order:payment order:address order:next order:contacts order:submit order:success-close modal:close"`
	ProductID string `json:"product_id" validate:"required_if=Name catalog:preview,required_if=Name basket:remove,max=64"`
	Payment   string `json:"payment" validate:"required_if=Name order:payment"`
	Address   string `json:"address" validate:"max=500"`
	Email     string `json:"email" validate:"max=254"`
	Phone     string `json:"phone" validate:"max=32"`
}

// ToEvent converts the request into a domain intent.
func (r EventRequest) ToEvent() (domain.Event, error) {
	switch r.Name {
	case domain.EventCatalogPreview:
		return domain.PreviewRequested{ProductID: r.ProductID}, nil
	case domain.EventBasketOpen:
		return domain.BasketOpened{}, nil
	case domain.EventBasketCheckout:
		return domain.CheckoutRequested{}, nil
	case domain.EventBasketRemove:
		return domain.BasketLineRemoved{ProductID: r.ProductID}, nil
	case domain.EventPreviewToggle:
		return domain.PreviewToggled{}, nil
	case domain.EventOrderPayment:
		m := domain.PaymentMethod(r.Payment)
		if !m.Valid() {
			return nil, apperrors.InvalidInput(fmt.Sprintf("unsupported payment method %q", r.Payment))
		}
		return domain.PaymentChanged{Payment: m}, nil
	case domain.EventOrderAddress:
		return domain.AddressChanged{Address: r.Address}, nil
	case domain.EventOrderNext:
		return domain.OrderNext{}, nil
	case domain.EventOrderContacts:
		return domain.ContactsChanged{Email: r.Email, Phone: r.Phone}, nil
	case domain.EventOrderSubmit:
		return domain.OrderSubmitted{}, nil
	case domain.EventSuccessClose:
		return domain.SuccessClosed{}, nil
	case domain.EventModalClose:
		return domain.OverlayClosed{}, nil
	default:
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown intent %q", r.Name))
	}
}
