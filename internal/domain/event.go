package domain

// Event is the closed set of storefront events. Intent events come from the
// view layer; change events are published by models and the orchestrator.
type Event interface {
	EventName() string
	isEvent()
}

// Intent event names.
const (
	EventCatalogPreview = "catalog:preview"
	EventBasketOpen     = "basket:open"
	EventBasketCheckout = "basket:checkout"
	EventBasketRemove   = "basket:remove"
	EventPreviewToggle  = "preview:toggle"
	EventOrderPayment   = "order:payment"
	EventOrderAddress   = "order:address"
	EventOrderNext      = "order:next"
	EventOrderContacts  = "order:contacts"
	EventOrderSubmit    = "order:submit"
	EventSuccessClose   = "order:success-close"
	EventModalClose     = "modal:close"
)

// Change event names.
const (
	EventCatalogChanged = "catalog:changed"
	EventPreviewChanged = "preview:changed"
	EventBasketChanged  = "basket:changed"
	EventOrderPlaced    = "order:placed"
)

// IntentNames lists every event the view layer may emit.
func IntentNames() []string {
	return []string{
		EventCatalogPreview,
		EventBasketOpen,
		EventBasketCheckout,
		EventBasketRemove,
		EventPreviewToggle,
		EventOrderPayment,
		EventOrderAddress,
		EventOrderNext,
		EventOrderContacts,
		EventOrderSubmit,
		EventSuccessClose,
		EventModalClose,
	}
}

// --- Intents ---

// PreviewRequested asks to open the detail card of a catalog product.
type PreviewRequested struct{ ProductID string }

// BasketOpened asks to show the basket overlay.
type BasketOpened struct{}

// CheckoutRequested asks to move from the basket to the order form.
type CheckoutRequested struct{}

// BasketLineRemoved asks to drop every line of a product from the basket.
type BasketLineRemoved struct{ ProductID string }

// PreviewToggled is the preview card's buy/remove button.
type PreviewToggled struct{}

// PaymentChanged carries the payment method picked on the order form.
type PaymentChanged struct{ Payment PaymentMethod }

// AddressChanged carries the delivery address typed on the order form.
type AddressChanged struct{ Address string }

// OrderNext asks to advance from the order form to the contacts form.
type OrderNext struct{}

// ContactsChanged carries the contacts form inputs.
type ContactsChanged struct{ Email, Phone string }

// OrderSubmitted asks to place the order.
type OrderSubmitted struct{}

// SuccessClosed dismisses the success view.
type SuccessClosed struct{}

// OverlayClosed is the generic close signal of the modal overlay.
type OverlayClosed struct{}

// --- Changes ---

// CatalogChanged carries a copy of the new catalog items.
type CatalogChanged struct{ Items []Product }

// PreviewChanged carries the newly selected preview product.
type PreviewChanged struct{ Product Product }

// BasketChanged carries the basket counters after a mutation.
type BasketChanged struct {
	Count int
	Total int64
}

// OrderPlaced is published after the order service accepted an order.
type OrderPlaced struct {
	OrderID string
	Total   int64
	Items   []string
}

func (PreviewRequested) EventName() string  { return EventCatalogPreview }
func (BasketOpened) EventName() string      { return EventBasketOpen }
func (CheckoutRequested) EventName() string { return EventBasketCheckout }
func (BasketLineRemoved) EventName() string { return EventBasketRemove }
func (PreviewToggled) EventName() string    { return EventPreviewToggle }
func (PaymentChanged) EventName() string    { return EventOrderPayment }
func (AddressChanged) EventName() string    { return EventOrderAddress }
func (OrderNext) EventName() string         { return EventOrderNext }
func (ContactsChanged) EventName() string   { return EventOrderContacts }
func (OrderSubmitted) EventName() string    { return EventOrderSubmit }
func (SuccessClosed) EventName() string     { return EventSuccessClose }
func (OverlayClosed) EventName() string     { return EventModalClose }
func (CatalogChanged) EventName() string    { return EventCatalogChanged }
func (PreviewChanged) EventName() string    { return EventPreviewChanged }
func (BasketChanged) EventName() string     { return EventBasketChanged }
func (OrderPlaced) EventName() string       { return EventOrderPlaced }

func (PreviewRequested) isEvent()  {}
func (BasketOpened) isEvent()      {}
func (CheckoutRequested) isEvent() {}
func (BasketLineRemoved) isEvent() {}
func (PreviewToggled) isEvent()    {}
func (PaymentChanged) isEvent()    {}
func (AddressChanged) isEvent()    {}
func (OrderNext) isEvent()         {}
func (ContactsChanged) isEvent()   {}
func (OrderSubmitted) isEvent()    {}
func (SuccessClosed) isEvent()     {}
func (OverlayClosed) isEvent()     {}
func (CatalogChanged) isEvent()    {}
func (PreviewChanged) isEvent()    {}
func (BasketChanged) isEvent()     {}
func (OrderPlaced) isEvent()       {}
