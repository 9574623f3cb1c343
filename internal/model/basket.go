package model

import (
	"slices"

	"github.com/RechkalovAA/weblarek/internal/domain"
)

// Basket is the ordered list of products picked for purchase. The same
// product may appear more than once. Every mutation publishes
// basket:changed with the new count and total.
type Basket struct {
	events Publisher
	lines  []domain.Product
}

// NewBasket creates an empty basket.
func NewBasket(events Publisher) *Basket {
	return &Basket{events: events}
}

// AddItem appends p.
func (b *Basket) AddItem(p domain.Product) {
	b.lines = append(b.lines, p)
	b.changed()
}

// RemoveItem drops every line whose product id is id.
func (b *Basket) RemoveItem(id string) {
	b.lines = slices.DeleteFunc(b.lines, func(p domain.Product) bool {
		return p.ID == id
	})
	b.changed()
}

// Clear empties the basket.
func (b *Basket) Clear() {
	b.lines = nil
	b.changed()
}

// Items returns a copy of the basket lines in insertion order.
func (b *Basket) Items() []domain.Product {
	if b.lines == nil {
		return []domain.Product{}
	}
	return slices.Clone(b.lines)
}

// TotalPrice sums line prices; a product without a price counts as 0.
func (b *Basket) TotalPrice() int64 {
	var total int64
	for _, p := range b.lines {
		total += p.PriceOrZero()
	}
	return total
}

// Count returns the number of lines.
func (b *Basket) Count() int {
	return len(b.lines)
}

// HasProduct reports whether any line holds the product id.
func (b *Basket) HasProduct(id string) bool {
	return slices.ContainsFunc(b.lines, func(p domain.Product) bool {
		return p.ID == id
	})
}

func (b *Basket) changed() {
	b.events.Publish(domain.BasketChanged{Count: b.Count(), Total: b.TotalPrice()})
}
