package domain

// LongPosition is an immutable snapshot of a leveraged long position,
// supplied by the caller per calculation. Quantity already represents the
// leveraged notional.
type LongPosition struct {
	EntryPrice float64 `json:"entry_price"`
	Quantity   float64 `json:"quantity"`
	Leverage   float64 `json:"leverage"`
	Symbol     string  `json:"symbol,omitempty"`
}

// PnlResult is derived from a position and a mark price. It is recomputed on
// every call and never cached.
type PnlResult struct {
	UnrealizedPnl           float64 `json:"unrealized_pnl"`
	UnrealizedPnlPercentage float64 `json:"unrealized_pnl_percentage"`
	Roe                     float64 `json:"roe"`
	LiquidationPrice        float64 `json:"liquidation_price"`
	Margin                  float64 `json:"margin"`
	CurrentValue            float64 `json:"current_value"` // margin-scaled view: notional / leverage
}
