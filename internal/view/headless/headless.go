// Package headless implements the storefront views without a display. Every
// render is recorded into a Screen that can be serialised to JSON, which is
// what the HTTP adapter returns to clients.
package headless

import (
	"github.com/RechkalovAA/weblarek/internal/view"
)

// Screen is what a user of the storefront would currently see.
type Screen struct {
	Page    view.PageSnapshot `json:"page"`
	Overlay *view.Node        `json:"overlay,omitempty"`
}

// Recorder holds the screen of one session. It is not safe for concurrent
// use; the owning session serialises access.
type Recorder struct {
	screen   Screen
	order    view.OrderFormSnapshot
	contacts view.ContactsFormSnapshot
}

// New creates a recorder showing an empty page and no overlay.
func New() *Recorder {
	return &Recorder{
		screen: Screen{Page: view.PageSnapshot{Catalog: []view.CardSnapshot{}}},
	}
}

// Views returns the view bundle backed by this recorder.
func (r *Recorder) Views() view.Views {
	return view.Views{
		Page:     pageView{r},
		Preview:  renderFunc[view.PreviewSnapshot](view.KindPreview),
		Basket:   renderFunc[view.BasketSnapshot](view.KindBasket),
		Order:    orderForm{r},
		Contacts: contactsForm{r},
		Success:  renderFunc[view.SuccessSnapshot](view.KindSuccess),
		Overlay:  overlay{r},
	}
}

// Screen returns a copy of the current screen.
func (r *Recorder) Screen() Screen {
	s := r.screen
	s.Page.Catalog = append([]view.CardSnapshot(nil), r.screen.Page.Catalog...)
	if s.Page.Catalog == nil {
		s.Page.Catalog = []view.CardSnapshot{}
	}
	if r.screen.Overlay != nil {
		n := *r.screen.Overlay
		s.Overlay = &n
	}
	return s
}

// replaceOverlay swaps the overlay content when it currently shows kind.
func (r *Recorder) replaceOverlay(n view.Node) {
	if r.screen.Overlay != nil && r.screen.Overlay.Kind == n.Kind {
		r.screen.Overlay = &n
	}
}

type renderFunc[T any] string

func (k renderFunc[T]) Render(s T) view.Node {
	return view.Node{Kind: string(k), Data: s}
}

type pageView struct{ r *Recorder }

func (v pageView) Render(s view.PageSnapshot) view.Node {
	if s.Catalog == nil {
		s.Catalog = []view.CardSnapshot{}
	}
	v.r.screen.Page = s
	return view.Node{Kind: view.KindPage, Data: s}
}

type orderForm struct{ r *Recorder }

func (f orderForm) Render(s view.OrderFormSnapshot) view.Node {
	f.r.order = s
	n := view.Node{Kind: view.KindOrder, Data: s}
	f.r.replaceOverlay(n)
	return n
}

func (f orderForm) Update(st view.FormState) view.Node {
	f.r.order.FormState = st
	n := view.Node{Kind: view.KindOrder, Data: f.r.order}
	f.r.replaceOverlay(n)
	return n
}

type contactsForm struct{ r *Recorder }

func (f contactsForm) Render(s view.ContactsFormSnapshot) view.Node {
	f.r.contacts = s
	n := view.Node{Kind: view.KindContacts, Data: s}
	f.r.replaceOverlay(n)
	return n
}

func (f contactsForm) Update(st view.FormState) view.Node {
	f.r.contacts.FormState = st
	n := view.Node{Kind: view.KindContacts, Data: f.r.contacts}
	f.r.replaceOverlay(n)
	return n
}

type overlay struct{ r *Recorder }

func (o overlay) Open(n view.Node) {
	o.r.screen.Overlay = &n
	o.r.screen.Page.Locked = true
}

func (o overlay) Close() {
	o.r.screen.Overlay = nil
	o.r.screen.Page.Locked = false
}

func (o overlay) IsOpen() bool {
	return o.r.screen.Overlay != nil
}
