package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spot_go/internal/app"
	"spot_go/internal/domain"
	"spot_go/internal/infra/okx"
	"spot_go/internal/pnl"
	"spot_go/internal/service"

	_ "net/http/pprof" // For pprof profiling
)

func main() {
	// 1. Pprof Server (for performance profiling)
	go func() {
		// Localhost only for security
		slog.Info("🕵️ Pprof server started on localhost:6060")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			slog.Error("Pprof server failed", slog.Any("error", err))
		}
	}()

	// 2. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}

	// 3. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := bootstrap.Config
	symbol := cfg.API.OKX.Symbols[0]

	market := service.NewMarketService(symbol, cfg.Trade.DepthLimit)
	trades := bootstrap.Trades

	// 4. OKX market data worker
	worker := okx.NewWorker(cfg.API.OKX.WSURL, cfg.API.OKX.Symbols)
	if err := worker.Connect(ctx); err != nil {
		slog.Error("Failed to connect OKX", slog.Any("error", err))
		os.Exit(1)
	}
	defer worker.Disconnect()
	slog.InfoContext(ctx, "✅ OKX worker started", slog.Int("symbols", len(cfg.API.OKX.Symbols)))

	pnlOpts := pnl.Options{
		MaintenanceMarginRate: cfg.Trade.MaintenanceMarginRate.InexactFloat64(),
		IncludeFees:           cfg.Trade.IncludeFees,
		FeeRate:               cfg.Trade.FeeRate.InexactFloat64(),
	}
	leverage := cfg.Trade.Leverage.InexactFloat64()

	uiTicker := time.NewTicker(time.Duration(cfg.UI.UpdateIntervalMS) * time.Millisecond)
	defer uiTicker.Stop()

	slog.InfoContext(ctx, "✨ Spot Go fully operational. Press Ctrl+C to exit.")

	engineReady := false
	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "👋 Shutting down gracefully...")
			trades.Checkpoint()
			return

		case update := <-worker.Depth():
			book := market.ApplyDepth(update)
			if !engineReady {
				trades.InitializeEngine(book)
				engineReady = true
				slog.Info("✅ Matching engine initialized", slog.String("symbol", symbol))
				continue
			}
			trades.UpdateOrderBook(book)

		case ticker := <-worker.Tickers():
			market.ProcessTicker(ticker)

		case <-uiTicker.C:
			renderPositions(trades, market, leverage, pnlOpts)
		}
	}
}

// renderPositions logs the unrealized PnL of every open position at the
// latest mark price.
func renderPositions(trades *service.TradeService, market *service.MarketService, leverage float64, opts pnl.Options) {
	markPrice := market.LastPrice()
	if markPrice == 0 {
		return
	}

	for _, position := range trades.PositionsBySide(domain.SideBuy) {
		result := pnl.CalculateLongPnl(domain.LongPosition{
			EntryPrice: position.Price,
			Quantity:   position.Amount,
			Leverage:   leverage,
			Symbol:     position.Symbol,
		}, markPrice, opts)

		display := pnl.FormatPnlDisplay(result)
		slog.Info("📊 Position",
			slog.String("symbol", position.Symbol),
			slog.Float64("entry", position.Price),
			slog.Float64("mark", markPrice),
			slog.String("pnl", display.Pnl),
			slog.String("roe", display.Roe),
			slog.String("margin", display.Margin),
		)
	}
}
