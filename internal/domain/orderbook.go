package domain

// RawLevel is one depth level as received from the exchange:
// [price, size, extra fields...]. Extra fields are passed through opaquely.
type RawLevel []string

// BookLevel is a parsed (price, size) pair used by the matching engine.
type BookLevel struct {
	Price float64 `json:"price"`
	Size  float64 `json:"size"`
}

// OrderBook holds resting liquidity for one instrument. It is owned by the
// matching engine and replaced wholesale, never mutated level by level.
// No uniqueness invariant is assumed on input.
type OrderBook struct {
	Bids []BookLevel `json:"bids"`
	Asks []BookLevel `json:"asks"`
}

const (
	DepthActionSnapshot = "snapshot"
	DepthActionUpdate   = "update"
)

// DepthUpdate is one message from the depth stream, either a full snapshot
// or an incremental update.
type DepthUpdate struct {
	Symbol string
	Action string // "snapshot", "update"
	Asks   []RawLevel
	Bids   []RawLevel
	Ts     int64 // exchange timestamp, unix milliseconds
}
