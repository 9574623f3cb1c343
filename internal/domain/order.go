package domain

// OrderRequest is sent to the order service on submit.
type OrderRequest struct {
	Payment PaymentMethod `json:"payment"`
	Address string        `json:"address"`
	Email   string        `json:"email"`
	Phone   string        `json:"phone"`
	Total   int64         `json:"total"`
	Items   []string      `json:"items"`
}

// OrderResult is the order service's confirmation.
type OrderResult struct {
	ID    string `json:"id"`
	Total int64  `json:"total"`
}

// NewOrderRequest combines a validated buyer with the basket contents.
func NewOrderRequest(b Buyer, total int64, lines []Product) OrderRequest {
	items := make([]string, len(lines))
	for i, p := range lines {
		items[i] = p.ID
	}
	return OrderRequest{
		Payment: b.Payment,
		Address: b.Address,
		Email:   b.Email,
		Phone:   b.Phone,
		Total:   total,
		Items:   items,
	}
}
