package service

import (
	"testing"

	"github.com/shopspring/decimal"

	"spot_go/internal/domain"
)

func TestApplyDepth_SnapshotThenUpdate(t *testing.T) {
	svc := NewMarketService("BTC-USDT", 20)

	book := svc.ApplyDepth(domain.DepthUpdate{
		Symbol: "BTC-USDT",
		Action: domain.DepthActionSnapshot,
		Asks:   []domain.RawLevel{{"50100", "1"}, {"50200", "2"}},
		Bids:   []domain.RawLevel{{"50000", "1"}, {"49900", "2"}},
	})

	if len(book.Asks) != 2 || len(book.Bids) != 2 {
		t.Fatalf("unexpected book shape after snapshot: %d asks, %d bids", len(book.Asks), len(book.Bids))
	}
	if book.Asks[0].Price != 50200 {
		t.Errorf("asks should be price-descending, got %f first", book.Asks[0].Price)
	}

	book = svc.ApplyDepth(domain.DepthUpdate{
		Symbol: "BTC-USDT",
		Action: domain.DepthActionUpdate,
		Bids:   []domain.RawLevel{{"50000", "5"}, {"49950", "1"}},
	})

	if len(book.Bids) != 3 {
		t.Fatalf("expected 3 bid levels after update, got %d", len(book.Bids))
	}
	for _, bid := range book.Bids {
		// the established level wins over the incoming duplicate
		if bid.Price == 50000 && bid.Size != 1 {
			t.Errorf("existing 50000 level should survive the update, got size %f", bid.Size)
		}
	}
}

func TestApplyDepth_SnapshotResetsBaseline(t *testing.T) {
	svc := NewMarketService("BTC-USDT", 20)

	svc.ApplyDepth(domain.DepthUpdate{
		Symbol: "BTC-USDT",
		Action: domain.DepthActionSnapshot,
		Bids:   []domain.RawLevel{{"50000", "1"}},
	})
	book := svc.ApplyDepth(domain.DepthUpdate{
		Symbol: "BTC-USDT",
		Action: domain.DepthActionSnapshot,
		Bids:   []domain.RawLevel{{"49000", "3"}},
	})

	if len(book.Bids) != 1 || book.Bids[0].Price != 49000 {
		t.Errorf("a new snapshot should replace the old book, got %+v", book.Bids)
	}
}

func TestApplyDepth_HonorsDepthLimit(t *testing.T) {
	svc := NewMarketService("BTC-USDT", 2)

	book := svc.ApplyDepth(domain.DepthUpdate{
		Symbol: "BTC-USDT",
		Action: domain.DepthActionSnapshot,
		Bids:   []domain.RawLevel{{"50000", "1"}, {"49900", "1"}, {"49800", "1"}},
	})

	if len(book.Bids) != 2 {
		t.Errorf("expected the book bounded to 2 levels, got %d", len(book.Bids))
	}
}

func TestApplyDepth_IgnoresOtherSymbols(t *testing.T) {
	svc := NewMarketService("BTC-USDT", 20)

	svc.ApplyDepth(domain.DepthUpdate{
		Symbol: "BTC-USDT",
		Action: domain.DepthActionSnapshot,
		Bids:   []domain.RawLevel{{"50000", "1"}},
	})
	book := svc.ApplyDepth(domain.DepthUpdate{
		Symbol: "ETH-USDT",
		Action: domain.DepthActionSnapshot,
		Bids:   []domain.RawLevel{{"3000", "1"}},
	})

	if len(book.Bids) != 1 || book.Bids[0].Price != 50000 {
		t.Errorf("foreign symbol must not touch the book, got %+v", book.Bids)
	}
}

func TestRawBook_KeepsExtraFields(t *testing.T) {
	svc := NewMarketService("BTC-USDT", 20)
	svc.ApplyDepth(domain.DepthUpdate{
		Symbol: "BTC-USDT",
		Action: domain.DepthActionSnapshot,
		Asks:   []domain.RawLevel{{"50100", "1", "0", "4"}},
	})

	asks, _ := svc.RawBook()
	if len(asks) != 1 || len(asks[0]) != 4 {
		t.Fatalf("raw levels should keep exchange extra fields, got %+v", asks)
	}
}

func TestProcessTicker(t *testing.T) {
	svc := NewMarketService("BTC-USDT", 20)

	if svc.Ticker() != nil {
		t.Error("expected nil ticker before first update")
	}
	if svc.LastPrice() != 0 {
		t.Error("expected last price 0 before first update")
	}

	svc.ProcessTicker(&domain.Ticker{
		Symbol: "BTC-USDT",
		Last:   decimal.NewFromFloat(50123.5),
	})

	if svc.LastPrice() != 50123.5 {
		t.Errorf("expected last price 50123.5, got %f", svc.LastPrice())
	}

	svc.ProcessTicker(&domain.Ticker{
		Symbol: "ETH-USDT",
		Last:   decimal.NewFromFloat(3000),
	})
	if svc.LastPrice() != 50123.5 {
		t.Error("foreign ticker must not replace the stored one")
	}
}
