package repository

import (
	"context"

	"github.com/RechkalovAA/weblarek/internal/domain"
)

// CatalogCache keeps the last product list fetched from the order service.
type CatalogCache interface {
	// Get returns the cached products, or a NotFound error when nothing is cached.
	Get(ctx context.Context) ([]domain.Product, error)

	// Save replaces the cached products.
	Save(ctx context.Context, items []domain.Product) error
}
