package service

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"spot_go/internal/domain"
	"spot_go/internal/engine"
	"spot_go/internal/infra"
)

// StateKey is the key under which the ledger is checkpointed.
const StateKey = "trade-store"

// persistedState is the JSON shape written to the state store. Everything in
// it must round-trip through JSON without loss.
type persistedState struct {
	OpenOrders   []domain.TradeOrder `json:"open_orders"`
	Positions    []domain.TradeOrder `json:"positions"`
	OrderHistory []domain.TradeOrder `json:"order_history"`
}

// TradeService orchestrates the matching engine lifecycle: it owns the
// nullable engine, tracks orders through their status lifecycle, and
// checkpoints the ledger to a key-value store between sessions.
//
// All operations are serialized behind one mutex; the engine itself has no
// internal locking by design.
type TradeService struct {
	mu     sync.Mutex
	engine *engine.MatchingEngine

	openOrders   []domain.TradeOrder
	positions    []domain.TradeOrder
	orderHistory []domain.TradeOrder

	store  domain.StateStore
	logger *slog.Logger
}

// NewTradeService creates a trade service backed by the given state store.
// The engine stays uninitialized until InitializeEngine is called.
func NewTradeService(store domain.StateStore) *TradeService {
	return &TradeService{
		store:  store,
		logger: slog.Default().With("module", "trade_service"),
	}
}

// InitializeEngine creates the matching engine around the given order book.
// Calling it again recreates the engine for a new session; the service-level
// ledger is kept (it survives reloads via the checkpoint).
func (s *TradeService) InitializeEngine(book domain.OrderBook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine = engine.NewMatchingEngine(book)
}

// ExecuteOrder runs one order through the engine and applies the outcome to
// the service ledger. Returns ErrEngineNotInitialized before setup.
func (s *TradeService) ExecuteOrder(params domain.OrderParams) (domain.OrderResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine == nil {
		return domain.OrderResult{}, domain.ErrEngineNotInitialized
	}

	now := time.Now().UnixMilli()
	order := domain.TradeOrder{
		ID:        s.engine.GenerateOrderID(),
		Symbol:    params.Symbol,
		Price:     params.Price,
		Amount:    params.Amount,
		Side:      params.Side,
		Status:    domain.OrderStatusOpen,
		CreatedAt: now,
	}

	result := s.engine.ExecuteOrder(domain.Order{
		ID:        order.ID,
		Price:     order.Price,
		Amount:    order.Amount,
		Side:      order.Side,
		Timestamp: now,
	})

	fills := make([]domain.FillRecord, 0, len(result.Filled))
	for _, fill := range result.Filled {
		fills = append(fills, domain.FillRecord{
			ID:       uuid.NewString(),
			OrderID:  order.ID,
			Price:    fill.Price,
			Amount:   fill.Amount,
			Side:     order.Side,
			FilledAt: now,
		})
		s.positions = append(s.positions, domain.TradeOrder{
			ID:        s.engine.GenerateOrderID(),
			Symbol:    order.Symbol,
			Price:     fill.Price,
			Amount:    fill.Amount,
			Side:      order.Side,
			Status:    domain.OrderStatusFilled,
			CreatedAt: now,
		})
	}

	if len(result.Filled) > 0 {
		if result.Remaining != nil {
			order.Status = domain.OrderStatusPartial
			order.Amount = result.Remaining.Amount
			order.UpdatedAt = now
			s.openOrders = append(s.openOrders, order)
		} else {
			order.Status = domain.OrderStatusFilled
			order.UpdatedAt = now
		}
	} else {
		s.openOrders = append(s.openOrders, order)
	}

	s.orderHistory = append(s.orderHistory, order)

	infra.GlobalMetrics.RecordOrderExecuted()
	for range result.Filled {
		infra.GlobalMetrics.RecordFill()
	}

	s.checkpointLocked()

	remaining := 0.0
	if result.Remaining != nil {
		remaining = result.Remaining.Amount
	}
	return domain.OrderResult{
		Order:           order,
		Filled:          fills,
		TotalFilled:     result.ExecutedAmount,
		RemainingAmount: remaining,
		AveragePrice:    result.AveragePrice,
	}, nil
}

// CancelOrder removes an open order and marks its history entry cancelled.
func (s *TradeService) CancelOrder(orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	kept := s.openOrders[:0]
	for _, order := range s.openOrders {
		if order.ID == orderID {
			found = true
			continue
		}
		kept = append(kept, order)
	}
	s.openOrders = kept

	if !found {
		return domain.ErrOrderNotFound
	}

	now := time.Now().UnixMilli()
	for i := range s.orderHistory {
		if s.orderHistory[i].ID == orderID {
			s.orderHistory[i].Status = domain.OrderStatusCancelled
			s.orderHistory[i].UpdatedAt = now
		}
	}

	s.checkpointLocked()
	return nil
}

// UpdateOrderBook feeds a fresh book to the engine. A no-op before
// initialization, mirroring the display flow where depth data can arrive
// before the user has traded.
func (s *TradeService) UpdateOrderBook(book domain.OrderBook) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine == nil {
		return
	}
	s.engine.UpdateOrderBook(book)
	infra.GlobalMetrics.RecordBookUpdate()
}

// TradeContent exposes the engine's internal ledger.
func (s *TradeService) TradeContent() (domain.TradeContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine == nil {
		return domain.TradeContent{}, domain.ErrEngineNotInitialized
	}
	return s.engine.TradeContent(), nil
}

// ClearStore resets the service ledger and removes the checkpoint. The
// engine's own content is left to ClearTradeContent on the engine.
func (s *TradeService) ClearStore() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.openOrders = nil
	s.positions = nil
	s.orderHistory = nil

	if err := s.store.RemoveItem(StateKey); err != nil {
		s.logger.Warn("failed to remove checkpoint", slog.Any("error", err))
	}
}

// OpenOrders returns a copy of the open order list.
func (s *TradeService) OpenOrders() []domain.TradeOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.TradeOrder(nil), s.openOrders...)
}

// Positions returns a copy of the position list.
func (s *TradeService) Positions() []domain.TradeOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.TradeOrder(nil), s.positions...)
}

// OrderHistory returns a copy of the full order history.
func (s *TradeService) OrderHistory() []domain.TradeOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.TradeOrder(nil), s.orderHistory...)
}

// OpenOrdersBySide filters open orders by side.
func (s *TradeService) OpenOrdersBySide(side string) []domain.TradeOrder {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.TradeOrder
	for _, order := range s.openOrders {
		if order.Side == side {
			out = append(out, order)
		}
	}
	return out
}

// PositionsBySide filters positions by side.
func (s *TradeService) PositionsBySide(side string) []domain.TradeOrder {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.TradeOrder
	for _, position := range s.positions {
		if position.Side == side {
			out = append(out, position)
		}
	}
	return out
}

// TotalPositionValue sums price * amount across all positions.
func (s *TradeService) TotalPositionValue() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0.0
	for _, position := range s.positions {
		total += position.Price * position.Amount
	}
	return total
}

// Restore loads the checkpointed ledger from the state store, if present.
func (s *TradeService) Restore() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.store.GetItem(StateKey)
	if err != nil {
		return err
	}
	if raw == "" {
		return nil
	}

	var state persistedState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return err
	}

	s.openOrders = state.OpenOrders
	s.positions = state.Positions
	s.orderHistory = state.OrderHistory
	return nil
}

// Checkpoint writes the current ledger to the state store.
func (s *TradeService) Checkpoint() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkpointLocked()
}

// checkpointLocked persists the ledger. Persistence failures are logged, not
// surfaced: a failed checkpoint must not fail the trade that triggered it.
func (s *TradeService) checkpointLocked() {
	state := persistedState{
		OpenOrders:   s.openOrders,
		Positions:    s.positions,
		OrderHistory: s.orderHistory,
	}

	raw, err := json.Marshal(state)
	if err != nil {
		s.logger.Warn("failed to marshal ledger state", slog.Any("error", err))
		return
	}
	if err := s.store.SetItem(StateKey, string(raw)); err != nil {
		s.logger.Warn("failed to checkpoint ledger state", slog.Any("error", err))
	}
}
