// Package view defines the rendering boundary of the storefront: immutable
// snapshots handed to views, the capability interfaces views implement, and
// pure builders that turn domain values into snapshots.
package view

// Node is the display handle a view returns from Render.
type Node struct {
	Kind string `json:"kind"`
	Data any    `json:"data"`
}

// Node kinds.
const (
	KindPage     = "page"
	KindPreview  = "preview"
	KindBasket   = "basket"
	KindOrder    = "order"
	KindContacts = "contacts"
	KindSuccess  = "success"
)

// Renderer can render a snapshot of type T. Render is idempotent and has no
// effect beyond producing the node.
type Renderer[T any] interface {
	Render(T) Node
}

// Form is a renderer whose validity and error line can be updated without
// re-rendering its inputs.
type Form[T any] interface {
	Renderer[T]
	Update(FormState) Node
}

// Overlay is the modal container. Only one node is shown at a time.
type Overlay interface {
	Open(Node)
	Close()
	IsOpen() bool
}

// Views bundles every view the orchestrator drives.
type Views struct {
	Page     Renderer[PageSnapshot]
	Preview  Renderer[PreviewSnapshot]
	Basket   Renderer[BasketSnapshot]
	Order    Form[OrderFormSnapshot]
	Contacts Form[ContactsFormSnapshot]
	Success  Renderer[SuccessSnapshot]
	Overlay  Overlay
}
