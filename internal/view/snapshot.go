package view

import "github.com/RechkalovAA/weblarek/internal/domain"

// CardSnapshot is a product as shown in the gallery.
type CardSnapshot struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Price         *int64 `json:"price"`
	PriceLabel    string `json:"price_label"`
	Category      string `json:"category"`
	CategoryClass string `json:"category_class,omitempty"`
	Image         string `json:"image"`
}

// PreviewSnapshot is the detail card with its buy/remove button.
type PreviewSnapshot struct {
	CardSnapshot
	Description string `json:"description"`
	ButtonText  string `json:"button_text"`
	Disabled    bool   `json:"disabled"`
	InBasket    bool   `json:"in_basket"`
}

// BasketLineSnapshot is one numbered basket row.
type BasketLineSnapshot struct {
	Index      int    `json:"index"`
	ID         string `json:"id"`
	Title      string `json:"title"`
	PriceLabel string `json:"price_label"`
}

// BasketSnapshot is the basket overlay.
type BasketSnapshot struct {
	Lines       []BasketLineSnapshot `json:"lines"`
	Total       int64                `json:"total"`
	TotalLabel  string               `json:"total_label"`
	CanCheckout bool                 `json:"can_checkout"`
}

// FormState is the validity and error line shared by both checkout forms.
type FormState struct {
	Valid  bool   `json:"valid"`
	Errors string `json:"errors"`
}

// OrderFormSnapshot is the payment and address step.
type OrderFormSnapshot struct {
	Payment domain.PaymentMethod `json:"payment"`
	Address string               `json:"address"`
	FormState
}

// ContactsFormSnapshot is the email and phone step.
type ContactsFormSnapshot struct {
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Submitting bool   `json:"submitting"`
	FormState
}

// SuccessSnapshot confirms a placed order.
type SuccessSnapshot struct {
	Total       int64  `json:"total"`
	Description string `json:"description"`
}

// PageSnapshot is everything outside the overlay.
type PageSnapshot struct {
	Counter int            `json:"counter"`
	Catalog []CardSnapshot `json:"catalog"`
	Locked  bool           `json:"locked"`
}
