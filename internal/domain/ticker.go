package domain

import "github.com/shopspring/decimal"

// Ticker represents 24h market statistics for one instrument, parsed from
// the exchange ticker stream. Decimal is used here because these values are
// display data, not matching inputs.
type Ticker struct {
	Symbol  string          `json:"symbol"`
	Last    decimal.Decimal `json:"last"`
	BidPx   decimal.Decimal `json:"bid_px"`
	AskPx   decimal.Decimal `json:"ask_px"`
	Open24h decimal.Decimal `json:"open_24h"`
	High24h decimal.Decimal `json:"high_24h"`
	Low24h  decimal.Decimal `json:"low_24h"`
	Vol24h  decimal.Decimal `json:"vol_24h"`
	Ts      int64           `json:"ts"`
}

// ChangePct24h calculates the 24h change percentage: 100 * (Last - Open) / Open.
func (t *Ticker) ChangePct24h() *decimal.Decimal {
	if t.Open24h.IsZero() {
		return nil
	}
	change := t.Last.Sub(t.Open24h).Div(t.Open24h).Mul(decimal.NewFromInt(100))
	return &change
}

// Spread returns the best ask minus best bid, or nil when either side is missing.
func (t *Ticker) Spread() *decimal.Decimal {
	if t.BidPx.IsZero() || t.AskPx.IsZero() {
		return nil
	}
	spread := t.AskPx.Sub(t.BidPx)
	return &spread
}

// LastFloat returns the last price as float64 for the matching/PnL path.
func (t *Ticker) LastFloat() float64 {
	return t.Last.InexactFloat64()
}
