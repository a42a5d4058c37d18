package app

import (
	"log/slog"

	"spot_go/internal/infra"
	"spot_go/internal/infra/storage"
	"spot_go/internal/service"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config  *infra.Config
	Storage *storage.Storage
	Trades  *service.TradeService
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization (Config, Logger, DB, Ledger)
func (b *Bootstrap) Initialize() error {
	slog.Info("🚀 Bootstrapping Spot Go...")

	// 1. Load Config
	cfg, err := infra.LoadConfig("configs/config.yaml")
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	// 3. Initialize Storage (DB)
	store, err := storage.NewStorage()
	if err != nil {
		return err
	}
	b.Storage = store
	slog.Info("✅ Database initialized")

	// 4. Trade ledger with checkpoint restore
	b.Trades = service.NewTradeService(store)
	if err := b.Trades.Restore(); err != nil {
		slog.Warn("Failed to restore trade ledger, starting empty", slog.Any("error", err))
	} else {
		slog.Info("✅ Trade ledger ready",
			slog.Int("open_orders", len(b.Trades.OpenOrders())),
			slog.Int("positions", len(b.Trades.Positions())),
		)
	}

	return nil
}
