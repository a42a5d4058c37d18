package domain

// Order represents a client limit order to be matched immediately against
// the current book. Prices and amounts are float64 by contract with the
// exchange feed; precision loss is accepted at this layer.
type Order struct {
	ID        string  `json:"id,omitempty"`
	Price     float64 `json:"price"`
	Amount    float64 `json:"amount"`
	Side      string  `json:"side"` // "buy", "sell"
	Timestamp int64   `json:"timestamp,omitempty"`
}

const (
	SideBuy  = "buy"
	SideSell = "sell"
)

// Fill is one matched slice against one resting level.
type Fill struct {
	Price  float64 `json:"price"`
	Amount float64 `json:"amount"`
	Side   string  `json:"side"`
}

// TradeResult is the outcome of matching one order.
// ExecutedAmount always equals the sum of Filled amounts, and Remaining is
// set iff ExecutedAmount < order.Amount.
type TradeResult struct {
	Filled         []Fill  `json:"filled"`
	Remaining      *Order  `json:"remaining,omitempty"`
	ExecutedAmount float64 `json:"executed_amount"`
	AveragePrice   float64 `json:"average_price,omitempty"`
}

// LedgerEntry is an order recorded in the engine ledger, tagged with a
// generated id and the time it was recorded.
type LedgerEntry struct {
	ID        string  `json:"id"`
	Price     float64 `json:"price"`
	Amount    float64 `json:"amount"`
	Side      string  `json:"side"`
	Timestamp int64   `json:"timestamp"`
}

// TradeContent is the engine's internal ledger of open orders and positions.
// Its lifetime is the engine instance lifetime.
type TradeContent struct {
	OpenOrders []LedgerEntry `json:"open_orders"`
	Positions  []LedgerEntry `json:"positions"`
}
