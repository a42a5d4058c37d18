// Package engine implements the local order-matching engine. It matches
// incoming orders against a reference order book and keeps a ledger of the
// resulting open orders and positions.
//
// The engine is a synchronous, single-threaded state machine: callers must
// serialize ExecuteOrder, UpdateOrderBook and ClearTradeContent on one
// instance. Misuse is not detected at runtime.
package engine

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"spot_go/internal/domain"
)

// ClosePolicy decides which ledger positions a sell fill closes.
type ClosePolicy interface {
	Close(positions []domain.LedgerEntry, fill domain.Fill) []domain.LedgerEntry
}

// ThresholdClose removes every position priced at or below the fill price.
// This is simplified accounting, not FIFO/LIFO lot matching; the behavior is
// kept exactly for compatibility with the persisted ledger format.
type ThresholdClose struct{}

func (ThresholdClose) Close(positions []domain.LedgerEntry, fill domain.Fill) []domain.LedgerEntry {
	kept := make([]domain.LedgerEntry, 0, len(positions))
	for _, position := range positions {
		if position.Price > fill.Price {
			kept = append(kept, position)
		}
	}
	return kept
}

// MatchingEngine matches incoming orders against resting liquidity.
//
// The reference book is a point-in-time read: matching never decrements
// consumed liquidity, so repeated ExecuteOrder calls against a stale book can
// overfill against already-consumed levels. The book only changes through
// UpdateOrderBook; keeping it fresh is the caller's job.
type MatchingEngine struct {
	book    domain.OrderBook
	content domain.TradeContent
	closer  ClosePolicy
}

// NewMatchingEngine creates an engine around the given order book.
func NewMatchingEngine(book domain.OrderBook) *MatchingEngine {
	return &MatchingEngine{
		book:   book,
		closer: ThresholdClose{},
	}
}

// SetClosePolicy swaps the position-closing policy. Nil restores the default
// threshold-close behavior.
func (e *MatchingEngine) SetClosePolicy(policy ClosePolicy) {
	if policy == nil {
		policy = ThresholdClose{}
	}
	e.closer = policy
}

// ExecuteOrder matches one order against the current book and updates the
// ledger. It never fails for a well-formed order: zero amounts and empty
// books produce zero-fill results, not errors.
func (e *MatchingEngine) ExecuteOrder(order domain.Order) domain.TradeResult {
	result := domain.TradeResult{Filled: []domain.Fill{}}

	if order.Side == domain.SideBuy {
		e.matchBuyOrder(order, &result)
	} else {
		e.matchSellOrder(order, &result)
	}

	e.updateTradeContent(&result)
	return result
}

func (e *MatchingEngine) matchBuyOrder(order domain.Order, result *domain.TradeResult) {
	remaining := order.Amount
	totalCost := 0.0

	asks := make([]domain.BookLevel, len(e.book.Asks))
	copy(asks, e.book.Asks)
	sort.Slice(asks, func(i, j int) bool { return asks[i].Price < asks[j].Price })

	for _, ask := range asks {
		if remaining <= 0 {
			break
		}
		if order.Price < ask.Price {
			// Asks are sorted ascending; nothing further crosses.
			break
		}

		fillAmount := math.Min(remaining, ask.Size)
		if fillAmount <= 0 {
			continue
		}

		result.Filled = append(result.Filled, domain.Fill{
			Price:  ask.Price,
			Amount: fillAmount,
			Side:   domain.SideBuy,
		})
		remaining -= fillAmount
		totalCost += ask.Price * fillAmount
		result.ExecutedAmount += fillAmount
	}

	if result.ExecutedAmount > 0 {
		result.AveragePrice = totalCost / result.ExecutedAmount
	}
	if remaining > 0 {
		result.Remaining = &domain.Order{
			Price:  order.Price,
			Amount: remaining,
			Side:   domain.SideBuy,
		}
	}
}

func (e *MatchingEngine) matchSellOrder(order domain.Order, result *domain.TradeResult) {
	remaining := order.Amount
	totalValue := 0.0

	bids := make([]domain.BookLevel, len(e.book.Bids))
	copy(bids, e.book.Bids)
	sort.Slice(bids, func(i, j int) bool { return bids[i].Price > bids[j].Price })

	for _, bid := range bids {
		if remaining <= 0 {
			break
		}
		if order.Price > bid.Price {
			// Bids are sorted descending; nothing further crosses.
			break
		}

		fillAmount := math.Min(remaining, bid.Size)
		if fillAmount <= 0 {
			continue
		}

		result.Filled = append(result.Filled, domain.Fill{
			Price:  bid.Price,
			Amount: fillAmount,
			Side:   domain.SideSell,
		})
		remaining -= fillAmount
		totalValue += bid.Price * fillAmount
		result.ExecutedAmount += fillAmount
	}

	if result.ExecutedAmount > 0 {
		result.AveragePrice = totalValue / result.ExecutedAmount
	}
	if remaining > 0 {
		result.Remaining = &domain.Order{
			Price:  order.Price,
			Amount: remaining,
			Side:   domain.SideSell,
		}
	}
}

// updateTradeContent applies one match outcome to the ledger. Buy fills are
// appended to positions one entry per fill; sell fills run the close policy;
// any remainder becomes a resting open order.
func (e *MatchingEngine) updateTradeContent(result *domain.TradeResult) {
	now := time.Now().UnixMilli()

	for _, fill := range result.Filled {
		switch fill.Side {
		case domain.SideBuy:
			e.content.Positions = append(e.content.Positions, domain.LedgerEntry{
				ID:        e.GenerateOrderID(),
				Price:     fill.Price,
				Amount:    fill.Amount,
				Side:      fill.Side,
				Timestamp: now,
			})
		case domain.SideSell:
			e.content.Positions = e.closer.Close(e.content.Positions, fill)
		}
	}

	if result.Remaining != nil {
		e.content.OpenOrders = append(e.content.OpenOrders, domain.LedgerEntry{
			ID:        e.GenerateOrderID(),
			Price:     result.Remaining.Price,
			Amount:    result.Remaining.Amount,
			Side:      result.Remaining.Side,
			Timestamp: now,
		})
	}
}

// UpdateOrderBook replaces the reference book wholesale. The next
// ExecuteOrder call uses the new book.
func (e *MatchingEngine) UpdateOrderBook(book domain.OrderBook) {
	e.book = book
}

// TradeContent returns a copy of the ledger; callers must not rely on
// mutation through the returned value.
func (e *MatchingEngine) TradeContent() domain.TradeContent {
	content := domain.TradeContent{
		OpenOrders: make([]domain.LedgerEntry, len(e.content.OpenOrders)),
		Positions:  make([]domain.LedgerEntry, len(e.content.Positions)),
	}
	copy(content.OpenOrders, e.content.OpenOrders)
	copy(content.Positions, e.content.Positions)
	return content
}

// ClearTradeContent resets the ledger. Used for session resets; this is not
// an undo or audit log.
func (e *MatchingEngine) ClearTradeContent() {
	e.content = domain.TradeContent{}
}

const orderIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateOrderID returns an id unique within a session, encoding the
// generation time: order_<unix-millis>_<9 random lowercase alphanumerics>.
// Collision probability is negligible for engine-local use.
func (e *MatchingEngine) GenerateOrderID() string {
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = orderIDAlphabet[rand.Intn(len(orderIDAlphabet))]
	}
	return fmt.Sprintf("order_%d_%s", time.Now().UnixMilli(), suffix)
}
