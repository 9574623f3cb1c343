package domain

// Product is a catalog entry. A nil Price marks the product as not for sale.
type Product struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Price       *int64 `json:"price"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// Available reports whether the product can be put into a basket.
func (p Product) Available() bool {
	return p.Price != nil
}

// PriceOrZero returns the price, or 0 for a product that is not for sale.
func (p Product) PriceOrZero() int64 {
	if p.Price == nil {
		return 0
	}
	return *p.Price
}

// Price is a convenience for building products with a price.
func Price(v int64) *int64 {
	return &v
}
