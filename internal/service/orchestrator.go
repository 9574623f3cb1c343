package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/RechkalovAA/weblarek/internal/bus"
	"github.com/RechkalovAA/weblarek/internal/domain"
	"github.com/RechkalovAA/weblarek/internal/model"
	"github.com/RechkalovAA/weblarek/internal/view"
	apperrors "github.com/RechkalovAA/weblarek/pkg/errors"
)

// Stage mirrors what the overlay currently shows.
type Stage int

const (
	StageBrowsing Stage = iota
	StagePreviewOpen
	StageBasketOpen
	StageOrderFormOpen
	StageContactsFormOpen
	StageSubmitting
	StageSuccess
)

func (s Stage) String() string {
	switch s {
	case StageBrowsing:
		return "browsing"
	case StagePreviewOpen:
		return "preview_open"
	case StageBasketOpen:
		return "basket_open"
	case StageOrderFormOpen:
		return "order_form_open"
	case StageContactsFormOpen:
		return "contacts_form_open"
	case StageSubmitting:
		return "submitting"
	case StageSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// OrderSubmitter places orders with the order service.
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderResult, error)
}

// Deferrer runs work off the session thread. The function work returns is
// invoked back on the session thread once work has finished.
type Deferrer interface {
	Defer(work func(ctx context.Context) func())
}

// OrchestratorDeps holds everything an orchestrator is built from.
type OrchestratorDeps struct {
	Bus           *bus.Bus
	Catalog       *model.Catalog
	Basket        *model.Basket
	Buyer         *model.Buyer
	Views         view.Views
	Builder       view.Builder
	Orders        OrderSubmitter
	Deferrer      Deferrer
	SubmitTimeout time.Duration
	Logger        *slog.Logger
}

// Orchestrator drives the checkout flow: it reacts to intents from the views
// and change events from the models, mutates the models and re-renders.
type Orchestrator struct {
	bus      *bus.Bus
	catalog  *model.Catalog
	basket   *model.Basket
	buyer    *model.Buyer
	views    view.Views
	build    view.Builder
	orders   OrderSubmitter
	deferrer Deferrer
	timeout  time.Duration
	logger   *slog.Logger

	stage Stage
	page  view.PageSnapshot
	subs  []*bus.Subscription

	// inFlight is set from the moment an order is handed to the order
	// service until its completion runs, whatever the overlay shows.
	inFlight bool
}

// NewOrchestrator creates an orchestrator and subscribes it to the bus.
func NewOrchestrator(d OrchestratorDeps) *Orchestrator {
	o := &Orchestrator{
		bus:      d.Bus,
		catalog:  d.Catalog,
		basket:   d.Basket,
		buyer:    d.Buyer,
		views:    d.Views,
		build:    d.Builder,
		orders:   d.Orders,
		deferrer: d.Deferrer,
		timeout:  d.SubmitTimeout,
		logger:   d.Logger,
		page:     view.PageSnapshot{Catalog: []view.CardSnapshot{}},
	}

	handlers := map[string]bus.Handler{
		domain.EventCatalogChanged: o.onCatalogChanged,
		domain.EventPreviewChanged: o.onPreviewChanged,
		domain.EventBasketChanged:  o.onBasketChanged,
		domain.EventCatalogPreview: o.onPreviewRequested,
		domain.EventPreviewToggle:  o.onPreviewToggled,
		domain.EventBasketOpen:     o.onBasketOpened,
		domain.EventBasketRemove:   o.onBasketLineRemoved,
		domain.EventBasketCheckout: o.onCheckout,
		domain.EventOrderPayment:   o.onOrderField,
		domain.EventOrderAddress:   o.onOrderField,
		domain.EventOrderNext:      o.onOrderNext,
		domain.EventOrderContacts:  o.onContacts,
		domain.EventOrderSubmit:    o.onSubmit,
		domain.EventSuccessClose:   o.onSuccessClosed,
		domain.EventModalClose:     o.onOverlayClosed,
	}
	// Map iteration order is random; subscribe in a fixed order so that
	// handler order on the bus is stable.
	names := append([]string{
		domain.EventCatalogChanged,
		domain.EventPreviewChanged,
		domain.EventBasketChanged,
	}, domain.IntentNames()...)
	for _, name := range names {
		o.subs = append(o.subs, o.bus.Subscribe(name, handlers[name]))
	}
	return o
}

// Stage returns the current checkout stage.
func (o *Orchestrator) Stage() Stage {
	return o.stage
}

// Close unsubscribes the orchestrator from the bus.
func (o *Orchestrator) Close() {
	for _, s := range o.subs {
		s.Unsubscribe()
	}
	o.subs = nil
}

// --- change events ---

func (o *Orchestrator) onCatalogChanged(ev domain.Event) {
	e := ev.(domain.CatalogChanged)
	o.page.Catalog = o.build.Cards(e.Items)
	o.renderPage()
}

func (o *Orchestrator) onPreviewChanged(ev domain.Event) {
	e := ev.(domain.PreviewChanged)
	o.showPreview(e.Product)
}

func (o *Orchestrator) onBasketChanged(ev domain.Event) {
	e := ev.(domain.BasketChanged)
	o.page.Counter = e.Count
	o.renderPage()
	if o.stage == StageBasketOpen {
		o.showBasket()
	}
}

// --- intents ---

func (o *Orchestrator) onPreviewRequested(ev domain.Event) {
	e := ev.(domain.PreviewRequested)
	p, ok := o.catalog.ProductByID(e.ProductID)
	if !ok {
		o.ignore(ev, "product not in catalog")
		return
	}
	o.catalog.SetPreview(p)
}

func (o *Orchestrator) onPreviewToggled(ev domain.Event) {
	if o.stage != StagePreviewOpen {
		o.ignore(ev, "preview is not open")
		return
	}
	p, ok := o.catalog.Preview()
	if !ok {
		o.ignore(ev, "no preview selected")
		return
	}
	if !p.Available() {
		o.ignore(ev, "product is unavailable")
		return
	}
	if o.basket.HasProduct(p.ID) {
		o.basket.RemoveItem(p.ID)
	} else {
		o.basket.AddItem(p)
	}
	o.showPreview(p)
}

func (o *Orchestrator) onBasketOpened(domain.Event) {
	o.stage = StageBasketOpen
	o.showBasket()
}

func (o *Orchestrator) onBasketLineRemoved(ev domain.Event) {
	e := ev.(domain.BasketLineRemoved)
	if o.stage != StageBasketOpen {
		o.ignore(ev, "basket is not open")
		return
	}
	o.basket.RemoveItem(e.ProductID)
}

func (o *Orchestrator) onCheckout(ev domain.Event) {
	if o.inFlight {
		o.ignore(ev, "order submission in flight")
		return
	}
	if o.basket.Count() == 0 {
		o.ignore(ev, "basket is empty")
		return
	}
	o.stage = StageOrderFormOpen
	errs := o.buyer.ValidateFields(domain.FieldPayment, domain.FieldAddress)
	// Errors stay hidden until the user touches the form.
	o.views.Overlay.Open(o.views.Order.Render(o.orderSnapshot(view.FormState{Valid: len(errs) == 0})))
	o.renderPage()
}

func (o *Orchestrator) onOrderField(ev domain.Event) {
	if o.stage != StageOrderFormOpen {
		o.ignore(ev, "order form is not open")
		return
	}
	var err error
	switch e := ev.(type) {
	case domain.PaymentChanged:
		err = o.buyer.SetField(domain.FieldPayment, string(e.Payment))
	case domain.AddressChanged:
		err = o.buyer.SetField(domain.FieldAddress, e.Address)
	}
	if err != nil {
		o.ignore(ev, apperrors.UserMessage(err))
		return
	}
	o.views.Overlay.Open(o.views.Order.Render(o.orderSnapshot(o.formState(domain.FieldPayment, domain.FieldAddress))))
}

func (o *Orchestrator) onOrderNext(ev domain.Event) {
	if o.stage != StageOrderFormOpen {
		o.ignore(ev, "order form is not open")
		return
	}
	state := o.formState(domain.FieldPayment, domain.FieldAddress)
	if !state.Valid {
		o.views.Order.Update(state)
		return
	}
	o.stage = StageContactsFormOpen
	errs := o.buyer.ValidateFields(domain.FieldEmail, domain.FieldPhone)
	o.views.Overlay.Open(o.views.Contacts.Render(o.contactsSnapshot(view.FormState{Valid: len(errs) == 0}, false)))
}

func (o *Orchestrator) onContacts(ev domain.Event) {
	e := ev.(domain.ContactsChanged)
	if o.stage != StageContactsFormOpen {
		o.ignore(ev, "contacts form is not open")
		return
	}
	if err := o.buyer.SetField(domain.FieldEmail, e.Email); err != nil {
		o.ignore(ev, apperrors.UserMessage(err))
		return
	}
	if err := o.buyer.SetField(domain.FieldPhone, e.Phone); err != nil {
		o.ignore(ev, apperrors.UserMessage(err))
		return
	}
	o.views.Overlay.Open(o.views.Contacts.Render(o.contactsSnapshot(o.formState(domain.FieldEmail, domain.FieldPhone), false)))
}

func (o *Orchestrator) onSubmit(ev domain.Event) {
	switch {
	case o.inFlight:
		o.ignore(ev, "order submission already in flight")
		return
	case o.stage != StageContactsFormOpen:
		o.ignore(ev, "contacts form is not open")
		return
	case o.basket.Count() == 0:
		o.ignore(ev, "basket is empty")
		return
	}

	if errs := o.buyer.Validate(); len(errs) > 0 {
		o.views.Contacts.Update(view.FormState{Valid: false, Errors: errs.Join()})
		return
	}

	req := domain.NewOrderRequest(o.buyer.Data(), o.basket.TotalPrice(), o.basket.Items())
	o.stage = StageSubmitting
	o.inFlight = true
	o.views.Overlay.Open(o.views.Contacts.Render(o.contactsSnapshot(view.FormState{Valid: true}, true)))

	o.logger.Debug("submitting order",
		slog.Int("items", len(req.Items)),
		slog.Int64("total", req.Total),
	)

	o.deferrer.Defer(func(ctx context.Context) func() {
		if o.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, o.timeout)
			defer cancel()
		}
		res, err := o.orders.SubmitOrder(ctx, req)
		return func() { o.completeSubmit(req, res, err) }
	})
}

// completeSubmit runs on the session thread once the order service answered.
func (o *Orchestrator) completeSubmit(req domain.OrderRequest, res domain.OrderResult, err error) {
	o.inFlight = false
	if err != nil {
		ordersTotal.WithLabelValues("failure").Inc()
		msg := apperrors.UserMessage(err)
		if o.stage != StageSubmitting {
			o.logger.Warn("order submission failed after checkout was left",
				slog.String("stage", o.stage.String()),
				slog.String("error", msg),
			)
			return
		}
		o.logger.Warn("order submission failed", slog.String("error", msg))
		o.stage = StageContactsFormOpen
		o.views.Overlay.Open(o.views.Contacts.Render(o.contactsSnapshot(view.FormState{Valid: false, Errors: msg}, false)))
		return
	}

	ordersTotal.WithLabelValues("success").Inc()
	o.basket.Clear()
	o.buyer.Clear()
	o.stage = StageSuccess
	o.views.Overlay.Open(o.views.Success.Render(o.build.Success(res.Total)))
	o.renderPage()

	o.logger.Info("order placed",
		slog.String("order_id", res.ID),
		slog.Int64("total", res.Total),
		slog.Int("items", len(req.Items)),
	)
	o.bus.Publish(domain.OrderPlaced{OrderID: res.ID, Total: res.Total, Items: req.Items})
}

func (o *Orchestrator) onSuccessClosed(ev domain.Event) {
	if o.stage != StageSuccess {
		o.ignore(ev, "success view is not open")
		return
	}
	o.closeOverlay()
}

func (o *Orchestrator) onOverlayClosed(ev domain.Event) {
	if !o.views.Overlay.IsOpen() {
		o.ignore(ev, "overlay is not open")
		return
	}
	o.closeOverlay()
}

// --- rendering ---

func (o *Orchestrator) closeOverlay() {
	o.views.Overlay.Close()
	o.stage = StageBrowsing
	o.renderPage()
}

func (o *Orchestrator) renderPage() {
	o.page.Locked = o.views.Overlay.IsOpen()
	o.views.Page.Render(o.page)
}

func (o *Orchestrator) showPreview(p domain.Product) {
	o.stage = StagePreviewOpen
	o.views.Overlay.Open(o.views.Preview.Render(o.build.Preview(p, o.basket.HasProduct(p.ID))))
	o.renderPage()
}

func (o *Orchestrator) showBasket() {
	o.views.Overlay.Open(o.views.Basket.Render(o.build.Basket(o.basket.Items(), o.basket.TotalPrice())))
	o.renderPage()
}

func (o *Orchestrator) formState(fields ...domain.BuyerField) view.FormState {
	errs := o.buyer.ValidateFields(fields...)
	return view.FormState{Valid: len(errs) == 0, Errors: errs.Join()}
}

func (o *Orchestrator) orderSnapshot(st view.FormState) view.OrderFormSnapshot {
	b := o.buyer.Data()
	return view.OrderFormSnapshot{Payment: b.Payment, Address: b.Address, FormState: st}
}

func (o *Orchestrator) contactsSnapshot(st view.FormState, submitting bool) view.ContactsFormSnapshot {
	b := o.buyer.Data()
	return view.ContactsFormSnapshot{Email: b.Email, Phone: b.Phone, Submitting: submitting, FormState: st}
}

func (o *Orchestrator) ignore(ev domain.Event, reason string) {
	o.logger.Debug("intent ignored",
		slog.String("event", ev.EventName()),
		slog.String("stage", o.stage.String()),
		slog.String("reason", reason),
	)
}
