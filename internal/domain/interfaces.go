package domain

import "context"

// MarketStream defines the interface for exchange WebSocket connectors.
type MarketStream interface {
	Connect(ctx context.Context) error
	Disconnect()
	IsConnected() bool
	Depth() <-chan DepthUpdate
	Tickers() <-chan *Ticker
}

// StateStore is a key-value persistence abstraction used to checkpoint
// ledger state between sessions. Values are JSON strings; a missing key
// yields ("", nil).
type StateStore interface {
	GetItem(key string) (string, error)
	SetItem(key, value string) error
	RemoveItem(key string) error
	Clear() error
}
