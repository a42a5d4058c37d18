package domain

// Order lifecycle states tracked by the trade service.
const (
	OrderStatusOpen      = "open"
	OrderStatusPartial   = "partial"
	OrderStatusFilled    = "filled"
	OrderStatusCancelled = "cancelled"
)

// OrderParams is the user's order intent as it arrives from the caller.
type OrderParams struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
	Amount float64 `json:"amount"`
	Side   string  `json:"side"`
}

// TradeOrder is an order tracked through its lifecycle by the trade service.
type TradeOrder struct {
	ID        string  `json:"id"`
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Amount    float64 `json:"amount"`
	Side      string  `json:"side"`
	Status    string  `json:"status"`
	CreatedAt int64   `json:"created_at"`
	UpdatedAt int64   `json:"updated_at,omitempty"`
}

// FillRecord is a service-level record of one fill, linked to its order.
type FillRecord struct {
	ID       string  `json:"id"`
	OrderID  string  `json:"order_id"`
	Price    float64 `json:"price"`
	Amount   float64 `json:"amount"`
	Side     string  `json:"side"`
	FilledAt int64   `json:"filled_at"`
}

// OrderResult is what the trade service returns for one placed order.
type OrderResult struct {
	Order           TradeOrder   `json:"order"`
	Filled          []FillRecord `json:"filled"`
	TotalFilled     float64      `json:"total_filled"`
	RemainingAmount float64      `json:"remaining_amount"`
	AveragePrice    float64      `json:"average_price"`
}
