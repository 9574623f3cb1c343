package view

import (
	"fmt"
	"strings"

	"github.com/RechkalovAA/weblarek/internal/domain"
)

// Preview button labels.
const (
	ButtonAdd         = "add to cart"
	ButtonRemove      = "remove from cart"
	ButtonUnavailable = "unavailable"
)

const categoryClassPrefix = "card__category_"

var categoryModifiers = map[string]string{
	"софт-скил":      "soft",
	"soft-skill":     "soft",
	"другое":         "other",
	"other":          "other",
	"дополнительное": "additional",
	"additional":     "additional",
	"кнопка":         "button",
	"button":         "button",
	"хард-скил":      "hard",
	"hard-skill":     "hard",
}

// FormatPrice renders a price label; a product without a price is priceless.
func FormatPrice(price *int64) string {
	if price == nil {
		return "priceless"
	}
	return FormatAmount(*price)
}

// FormatAmount renders an amount of synapses.
func FormatAmount(v int64) string {
	return fmt.Sprintf("%d synapses", v)
}

// CategoryClass maps a category to its CSS modifier class. Unknown
// categories get no class.
func CategoryClass(category string) string {
	mod, ok := categoryModifiers[strings.ToLower(strings.TrimSpace(category))]
	if !ok {
		return ""
	}
	return categoryClassPrefix + mod
}

// Builder turns domain values into snapshots.
type Builder struct {
	cdnURL string
}

// NewBuilder creates a builder that resolves image paths against cdnURL.
func NewBuilder(cdnURL string) Builder {
	return Builder{cdnURL: strings.TrimRight(cdnURL, "/")}
}

// ImageURL joins the CDN base with an image path.
func (b Builder) ImageURL(path string) string {
	if path == "" {
		return ""
	}
	return b.cdnURL + "/" + strings.TrimLeft(path, "/")
}

// Card builds a gallery card.
func (b Builder) Card(p domain.Product) CardSnapshot {
	return CardSnapshot{
		ID:            p.ID,
		Title:         p.Title,
		Price:         p.Price,
		PriceLabel:    FormatPrice(p.Price),
		Category:      p.Category,
		CategoryClass: CategoryClass(p.Category),
		Image:         b.ImageURL(p.Image),
	}
}

// Cards builds gallery cards in order.
func (b Builder) Cards(items []domain.Product) []CardSnapshot {
	cards := make([]CardSnapshot, len(items))
	for i, p := range items {
		cards[i] = b.Card(p)
	}
	return cards
}

// Preview builds the detail card. The button is computed: disabled for a
// product without a price, otherwise add or remove depending on inBasket.
func (b Builder) Preview(p domain.Product, inBasket bool) PreviewSnapshot {
	snap := PreviewSnapshot{
		CardSnapshot: b.Card(p),
		Description:  p.Description,
		InBasket:     inBasket,
	}
	switch {
	case !p.Available():
		snap.ButtonText = ButtonUnavailable
		snap.Disabled = true
	case inBasket:
		snap.ButtonText = ButtonRemove
	default:
		snap.ButtonText = ButtonAdd
	}
	return snap
}

// Basket builds the basket overlay with 1-based line numbers.
func (b Builder) Basket(lines []domain.Product, total int64) BasketSnapshot {
	out := make([]BasketLineSnapshot, len(lines))
	for i, p := range lines {
		out[i] = BasketLineSnapshot{
			Index:      i + 1,
			ID:         p.ID,
			Title:      p.Title,
			PriceLabel: FormatPrice(p.Price),
		}
	}
	return BasketSnapshot{
		Lines:       out,
		Total:       total,
		TotalLabel:  FormatAmount(total),
		CanCheckout: len(lines) > 0,
	}
}

// Success builds the order confirmation.
func (b Builder) Success(total int64) SuccessSnapshot {
	return SuccessSnapshot{
		Total:       total,
		Description: "Charged " + FormatAmount(total),
	}
}
