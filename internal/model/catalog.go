package model

import (
	"slices"

	"github.com/RechkalovAA/weblarek/internal/domain"
)

// Catalog holds the browsable products and the product currently previewed.
type Catalog struct {
	events  Publisher
	items   []domain.Product
	preview *domain.Product
}

// NewCatalog creates an empty catalog.
func NewCatalog(events Publisher) *Catalog {
	return &Catalog{events: events}
}

// SetItems replaces the whole product list and publishes catalog:changed
// carrying its own copy of the items.
func (c *Catalog) SetItems(items []domain.Product) {
	c.items = slices.Clone(items)
	c.events.Publish(domain.CatalogChanged{Items: c.Items()})
}

// Items returns a copy of the product list. Callers may modify it freely.
func (c *Catalog) Items() []domain.Product {
	if c.items == nil {
		return []domain.Product{}
	}
	return slices.Clone(c.items)
}

// ProductByID looks a product up by id.
func (c *Catalog) ProductByID(id string) (domain.Product, bool) {
	for _, p := range c.items {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// SetPreview records p as the previewed product and publishes
// preview:changed with the product inline.
func (c *Catalog) SetPreview(p domain.Product) {
	c.preview = &p
	c.events.Publish(domain.PreviewChanged{Product: p})
}

// Preview returns the previewed product, if any.
func (c *Catalog) Preview() (domain.Product, bool) {
	if c.preview == nil {
		return domain.Product{}, false
	}
	return *c.preview, true
}
