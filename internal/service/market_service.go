package service

import (
	"sync"

	"spot_go/internal/book"
	"spot_go/internal/domain"
)

// MarketService holds the latest market state for one instrument: the
// bounded raw depth lists (kept in wire form for display) and the latest
// ticker. Depth events stream through the merge primitive; snapshots reset
// the baseline and incremental updates are merged onto it, with the existing
// book taking precedence for duplicate prices.
type MarketService struct {
	mu         sync.RWMutex
	symbol     string
	depthLimit int

	rawAsks []domain.RawLevel
	rawBids []domain.RawLevel
	ticker  *domain.Ticker
}

// NewMarketService creates a market service for one symbol with the given
// display depth bound.
func NewMarketService(symbol string, depthLimit int) *MarketService {
	if depthLimit <= 0 {
		depthLimit = book.DefaultLimit
	}
	return &MarketService{
		symbol:     symbol,
		depthLimit: depthLimit,
	}
}

// ApplyDepth folds one depth event into the book state and returns the
// parsed book for the matching engine. Events for other symbols are ignored.
func (s *MarketService) ApplyDepth(update domain.DepthUpdate) domain.OrderBook {
	s.mu.Lock()
	defer s.mu.Unlock()

	if update.Symbol != "" && update.Symbol != s.symbol {
		return s.bookLocked()
	}

	switch update.Action {
	case domain.DepthActionSnapshot:
		s.rawAsks = book.Merge(nil, update.Asks, s.depthLimit)
		s.rawBids = book.Merge(nil, update.Bids, s.depthLimit)
	default:
		s.rawAsks = book.Merge(update.Asks, s.rawAsks, s.depthLimit)
		s.rawBids = book.Merge(update.Bids, s.rawBids, s.depthLimit)
	}

	return s.bookLocked()
}

func (s *MarketService) bookLocked() domain.OrderBook {
	return domain.OrderBook{
		Asks: book.Side(s.rawAsks),
		Bids: book.Side(s.rawBids),
	}
}

// Book returns the current parsed order book.
func (s *MarketService) Book() domain.OrderBook {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bookLocked()
}

// RawBook returns copies of the merged raw depth lists, price-descending,
// with exchange extra fields intact.
func (s *MarketService) RawBook() (asks, bids []domain.RawLevel) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	asks = append([]domain.RawLevel(nil), s.rawAsks...)
	bids = append([]domain.RawLevel(nil), s.rawBids...)
	return asks, bids
}

// ProcessTicker stores the latest ticker for the service's symbol.
func (s *MarketService) ProcessTicker(ticker *domain.Ticker) {
	if ticker == nil || (ticker.Symbol != "" && ticker.Symbol != s.symbol) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticker = ticker
}

// Ticker returns the latest ticker, or nil before the first update.
func (s *MarketService) Ticker() *domain.Ticker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ticker == nil {
		return nil
	}
	copied := *s.ticker
	return &copied
}

// LastPrice returns the latest traded price as float64, 0 before the first
// ticker.
func (s *MarketService) LastPrice() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ticker == nil {
		return 0
	}
	return s.ticker.LastFloat()
}
