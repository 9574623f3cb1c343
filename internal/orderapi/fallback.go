package orderapi

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/RechkalovAA/weblarek/internal/domain"
)

//go:embed data/products.json
var bundledProducts []byte

var fallbackItems = mustDecodeBundled()

func mustDecodeBundled() []domain.Product {
	var resp productListResponse
	if err := json.Unmarshal(bundledProducts, &resp); err != nil {
		panic(fmt.Sprintf("orderapi: bundled catalog is corrupt: %v", err))
	}
	return resp.Items
}

// Fallback returns the catalog bundled with the binary, used when neither
// the order service nor the cache can provide one.
func Fallback() []domain.Product {
	return slices.Clone(fallbackItems)
}
