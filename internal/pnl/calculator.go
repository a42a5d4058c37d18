// Package pnl provides pure unrealized-PnL, ROE, margin and liquidation
// price calculations for leveraged long positions. All functions read only
// their arguments and return new values; callers supply the position
// snapshot and mark price on every call.
package pnl

import (
	"fmt"

	"spot_go/internal/domain"
)

// Default rates applied when the corresponding Options field is zero.
const (
	DefaultMaintenanceMarginRate = 0.05
	DefaultFeeRate               = 0.001
)

// Options tunes a PnL calculation. Zero-value fields fall back to defaults,
// so Options{} behaves like the documented 5% maintenance margin and 0.1%
// closing fee with fees disabled.
type Options struct {
	MaintenanceMarginRate float64
	IncludeFees           bool
	FeeRate               float64
}

func (o Options) withDefaults() Options {
	if o.MaintenanceMarginRate == 0 {
		o.MaintenanceMarginRate = DefaultMaintenanceMarginRate
	}
	if o.FeeRate == 0 {
		o.FeeRate = DefaultFeeRate
	}
	return o
}

// Display holds the PnL figures rendered for the UI.
type Display struct {
	Pnl           string `json:"pnl"`
	PnlPercentage string `json:"pnl_percentage"`
	Roe           string `json:"roe"`
	Margin        string `json:"margin"`
}

// CalculateLongPnl computes the unrealized PnL of a leveraged long at the
// given mark price. Leverage amplifies the notional PnL: quantity already
// represents the leveraged notional, so basePnl is scaled by leverage.
// Only a closing fee is modeled when IncludeFees is set.
//
// Economically nonsensical inputs (zero leverage, negative quantity) are not
// validated; the result is whatever the arithmetic produces. The one guarded
// case is quantity = 0, which must yield zeros rather than NaN.
func CalculateLongPnl(position domain.LongPosition, currentPrice float64, opts Options) domain.PnlResult {
	opts = opts.withDefaults()

	initialValue := position.EntryPrice * position.Quantity
	currentValue := currentPrice * position.Quantity
	margin := initialValue / position.Leverage

	basePnl := currentValue - initialValue
	leveragedPnl := basePnl * position.Leverage

	var fees float64
	if opts.IncludeFees {
		fees = currentValue * opts.FeeRate
	}

	unrealizedPnl := leveragedPnl - fees

	var pnlPercentage float64
	if initialValue != 0 {
		pnlPercentage = unrealizedPnl / initialValue * 100
	}

	var roe float64
	if margin != 0 {
		roe = unrealizedPnl / margin * 100
	}

	return domain.PnlResult{
		UnrealizedPnl:           unrealizedPnl,
		UnrealizedPnlPercentage: pnlPercentage,
		Roe:                     roe,
		LiquidationPrice:        CalculateLongLiquidationPrice(position, opts.MaintenanceMarginRate),
		Margin:                  margin,
		CurrentValue:            currentValue / position.Leverage,
	}
}

// CalculateLongLiquidationPrice returns the price at which a long position
// is liquidated: entry * (1 - 1/leverage + maintenanceMarginRate).
//
// For leverage >= 1 and small maintenance rates the result sits below the
// entry price and rises with leverage. At very high leverage (1/leverage <
// maintenanceMarginRate) it crosses above the entry price; that is a
// property of the formula, not an error.
func CalculateLongLiquidationPrice(position domain.LongPosition, maintenanceMarginRate float64) float64 {
	return position.EntryPrice * (1 - 1/position.Leverage + maintenanceMarginRate)
}

// CalculateMaintenanceMargin returns the margin that must remain posted at
// the given mark price: (currentPrice * quantity / leverage) * rate.
// Linear in both currentPrice and maintenanceMarginRate.
func CalculateMaintenanceMargin(position domain.LongPosition, currentPrice, maintenanceMarginRate float64) float64 {
	currentValue := currentPrice * position.Quantity
	return currentValue / position.Leverage * maintenanceMarginRate
}

// FormatPnlDisplay renders a result at fixed 2-decimal precision. Signed
// fields carry an explicit '+' when non-negative (zero included); margin is
// non-negative by construction and rendered bare.
func FormatPnlDisplay(result domain.PnlResult) Display {
	return Display{
		Pnl:           fmt.Sprintf("%+.2f", result.UnrealizedPnl),
		PnlPercentage: fmt.Sprintf("%+.2f%%", result.UnrealizedPnlPercentage),
		Roe:           fmt.Sprintf("%+.2f%%", result.Roe),
		Margin:        fmt.Sprintf("%.2f", result.Margin),
	}
}
