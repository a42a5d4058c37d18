package book

import (
	"math"
	"sort"
	"strconv"

	"spot_go/internal/domain"
)

// DefaultLimit is the display depth used when no bound is configured.
const DefaultLimit = 20

// Merge combines an incremental depth update (from) with a snapshot (to) into
// one bounded, deduplicated list sorted by numeric price descending. For a
// price present in both inputs the snapshot level wins. Levels whose price
// does not parse to a finite number are dropped from either source.
//
// The same primitive serves both asks and bids: ordering is a function of
// price only, and the caller reverses for display as needed. Safe to call on
// every incoming message; inputs are never mutated.
func Merge(from, to []domain.RawLevel, limit int) []domain.RawLevel {
	type entry struct {
		price float64
		level domain.RawLevel
	}

	byPrice := make(map[float64]struct{}, len(from)+len(to))
	entries := make([]entry, 0, len(from)+len(to))

	insert := func(levels []domain.RawLevel) {
		for _, level := range levels {
			price, ok := parsePrice(level)
			if !ok {
				continue
			}
			if _, exists := byPrice[price]; exists {
				continue
			}
			byPrice[price] = struct{}{}
			entries = append(entries, entry{price: price, level: level})
		}
	}
	insert(to)
	insert(from)

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].price > entries[j].price
	})

	if limit < 0 {
		limit = 0
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}

	merged := make([]domain.RawLevel, len(entries))
	for i, e := range entries {
		merged[i] = e.level
	}
	return merged
}

// Side parses raw depth levels into numeric (price, size) pairs for the
// matching engine, skipping malformed entries.
func Side(levels []domain.RawLevel) []domain.BookLevel {
	out := make([]domain.BookLevel, 0, len(levels))
	for _, level := range levels {
		price, ok := parsePrice(level)
		if !ok || len(level) < 2 {
			continue
		}
		size, err := strconv.ParseFloat(level[1], 64)
		if err != nil {
			continue
		}
		out = append(out, domain.BookLevel{Price: price, Size: size})
	}
	return out
}

// parsePrice extracts the numeric price of a level. ParseFloat accepts
// "NaN" and "Inf" spellings, so non-finite values are rejected explicitly.
func parsePrice(level domain.RawLevel) (float64, bool) {
	if len(level) == 0 {
		return 0, false
	}
	price, err := strconv.ParseFloat(level[0], 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, false
	}
	return price, true
}
