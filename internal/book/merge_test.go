package book

import (
	"fmt"
	"reflect"
	"testing"

	"spot_go/internal/domain"
)

func levels(raw ...[]string) []domain.RawLevel {
	out := make([]domain.RawLevel, len(raw))
	for i, r := range raw {
		out[i] = domain.RawLevel(r)
	}
	return out
}

func TestMerge_Basics(t *testing.T) {
	t.Run("both inputs empty", func(t *testing.T) {
		result := Merge(nil, nil, DefaultLimit)
		if len(result) != 0 {
			t.Errorf("expected empty result, got %v", result)
		}
	})

	t.Run("snapshot only passes through unchanged", func(t *testing.T) {
		to := levels(
			[]string{"100", "1", "0", "1"},
			[]string{"99", "2", "0", "2"},
		)
		result := Merge(nil, to, DefaultLimit)
		if !reflect.DeepEqual(result, to) {
			t.Errorf("expected %v, got %v", to, result)
		}
	})

	t.Run("non-overlapping inputs are combined", func(t *testing.T) {
		from := levels([]string{"102", "1"}, []string{"101", "2"})
		to := levels([]string{"100", "3"}, []string{"99", "4"})

		result := Merge(from, to, DefaultLimit)

		want := levels([]string{"102", "1"}, []string{"101", "2"}, []string{"100", "3"}, []string{"99", "4"})
		if !reflect.DeepEqual(result, want) {
			t.Errorf("expected %v, got %v", want, result)
		}
	})

	t.Run("snapshot wins for duplicate prices", func(t *testing.T) {
		from := levels([]string{"100", "5", "0", "5"})
		to := levels([]string{"100", "3", "0", "3"}, []string{"99", "4", "0", "4"})

		result := Merge(from, to, DefaultLimit)

		if len(result) != 2 {
			t.Fatalf("expected 2 levels, got %d", len(result))
		}
		if result[0][1] != "3" {
			t.Errorf("expected snapshot size 3 at price 100, got %s", result[0][1])
		}
	})
}

func TestMerge_Ordering(t *testing.T) {
	t.Run("sorted by price descending", func(t *testing.T) {
		from := levels([]string{"95", "1"}, []string{"105", "2"})
		to := levels([]string{"100", "3"}, []string{"90", "4"})

		result := Merge(from, to, DefaultLimit)

		want := []string{"105", "100", "95", "90"}
		for i, price := range want {
			if result[i][0] != price {
				t.Errorf("position %d: expected price %s, got %s", i, price, result[i][0])
			}
		}
	})

	t.Run("fractional prices compared numerically", func(t *testing.T) {
		from := levels([]string{"100.5", "1"}, []string{"99.5", "2"})
		to := levels([]string{"100.1", "3"}, []string{"99.9", "4"})

		result := Merge(from, to, DefaultLimit)

		want := []string{"100.5", "100.1", "99.9", "99.5"}
		for i, price := range want {
			if result[i][0] != price {
				t.Errorf("position %d: expected price %s, got %s", i, price, result[i][0])
			}
		}
	})

	t.Run("numeric not lexical comparison", func(t *testing.T) {
		from := levels([]string{"999999999", "1"})
		to := levels([]string{"1000000000", "2"})

		result := Merge(from, to, DefaultLimit)

		if result[0][0] != "1000000000" || result[1][0] != "999999999" {
			t.Errorf("large prices sorted wrong: %v", result)
		}
	})
}

func TestMerge_Limit(t *testing.T) {
	t.Run("truncates to limit keeping highest prices", func(t *testing.T) {
		var from, to []domain.RawLevel
		for i := 0; i < 15; i++ {
			from = append(from, domain.RawLevel{fmt.Sprintf("%d", 100+i), "1"})
			to = append(to, domain.RawLevel{fmt.Sprintf("%d", 85+i), "1"})
		}

		result := Merge(from, to, 20)

		if len(result) != 20 {
			t.Fatalf("expected 20 levels, got %d", len(result))
		}
		if result[0][0] != "114" {
			t.Errorf("expected top price 114, got %s", result[0][0])
		}
		if result[19][0] != "95" {
			t.Errorf("expected bottom price 95, got %s", result[19][0])
		}
	})

	t.Run("custom limit", func(t *testing.T) {
		var from, to []domain.RawLevel
		for i := 0; i < 10; i++ {
			from = append(from, domain.RawLevel{fmt.Sprintf("%d", 100+i), "1"})
			to = append(to, domain.RawLevel{fmt.Sprintf("%d", 90+i), "1"})
		}

		result := Merge(from, to, 5)

		if len(result) != 5 {
			t.Fatalf("expected 5 levels, got %d", len(result))
		}
		if result[0][0] != "109" || result[4][0] != "105" {
			t.Errorf("unexpected window: %v", result)
		}
	})

	t.Run("fewer levels than limit returns all", func(t *testing.T) {
		result := Merge(levels([]string{"100", "1"}), levels([]string{"99", "2"}), 10)
		if len(result) != 2 {
			t.Errorf("expected 2 levels, got %d", len(result))
		}
	})

	t.Run("limit zero yields empty", func(t *testing.T) {
		result := Merge(levels([]string{"100", "1"}), levels([]string{"99", "2"}), 0)
		if len(result) != 0 {
			t.Errorf("expected empty result, got %v", result)
		}
	})
}

func TestMerge_Filtering(t *testing.T) {
	tests := []struct {
		name    string
		badPx   string
		wantLen int
	}{
		{"non-numeric string", "invalid", 2},
		{"NaN", "NaN", 2},
		{"Infinity", "Infinity", 2},
		{"negative Infinity", "-Infinity", 2},
		{"empty string", "", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from := levels([]string{tt.badPx, "1"}, []string{"100", "2"})
			to := levels([]string{"99", "3"})

			result := Merge(from, to, DefaultLimit)

			if len(result) != tt.wantLen {
				t.Fatalf("expected %d levels, got %v", tt.wantLen, result)
			}
			for _, level := range result {
				if level[0] == tt.badPx {
					t.Errorf("invalid price %q leaked into result", tt.badPx)
				}
			}
		})
	}
}

func TestMerge_EdgePrices(t *testing.T) {
	t.Run("negative prices", func(t *testing.T) {
		result := Merge(levels([]string{"-100", "1"}), levels([]string{"-99", "2"}), DefaultLimit)
		if result[0][0] != "-99" || result[1][0] != "-100" {
			t.Errorf("negative prices sorted wrong: %v", result)
		}
	})

	t.Run("zero price is valid", func(t *testing.T) {
		result := Merge(levels([]string{"0", "1"}), levels([]string{"1", "2"}), DefaultLimit)
		if len(result) != 2 || result[1][0] != "0" {
			t.Errorf("zero price mishandled: %v", result)
		}
	})

	t.Run("very small prices", func(t *testing.T) {
		result := Merge(levels([]string{"0.00001", "1"}), levels([]string{"0.00002", "2"}), DefaultLimit)
		if result[0][0] != "0.00002" || result[1][0] != "0.00001" {
			t.Errorf("small prices sorted wrong: %v", result)
		}
	})
}

func TestMerge_Scenarios(t *testing.T) {
	t.Run("asks with duplicate price", func(t *testing.T) {
		from := levels([]string{"50100", "0.5"}, []string{"50200", "1.0"})
		to := levels([]string{"50000", "2.0"}, []string{"50050", "1.5"}, []string{"50100", "0.8"})

		result := Merge(from, to, DefaultLimit)

		if len(result) != 4 {
			t.Fatalf("expected 4 levels, got %d", len(result))
		}
		want := []string{"50200", "50100", "50050", "50000"}
		for i, price := range want {
			if result[i][0] != price {
				t.Errorf("position %d: expected %s, got %s", i, price, result[i][0])
			}
		}
		// Duplicate 50100 must carry the snapshot size.
		if result[1][1] != "0.8" {
			t.Errorf("expected snapshot size 0.8 at 50100, got %s", result[1][1])
		}
	})

	t.Run("incremental update over existing book", func(t *testing.T) {
		initial := levels([]string{"100", "1.0"}, []string{"99", "2.0"}, []string{"98", "3.0"})
		update := levels([]string{"101", "0.5"}, []string{"99", "2.5"})

		result := Merge(update, initial, DefaultLimit)

		want := levels([]string{"101", "0.5"}, []string{"100", "1.0"}, []string{"99", "2.0"}, []string{"98", "3.0"})
		if !reflect.DeepEqual(result, want) {
			t.Errorf("expected %v, got %v", want, result)
		}
	})
}

func TestMerge_Idempotence(t *testing.T) {
	from := levels([]string{"105", "1"}, []string{"100", "5"}, []string{"bad", "9"})
	to := levels([]string{"100", "3"}, []string{"95", "4"})

	once := Merge(from, to, 3)
	twice := Merge(once, nil, 3)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("merge not idempotent: %v vs %v", once, twice)
	}
}

func TestSide(t *testing.T) {
	raw := levels(
		[]string{"50000.5", "1.25", "0", "3"},
		[]string{"garbage", "1"},
		[]string{"49999", "notasize"},
		[]string{"49998"},
		[]string{"49997", "2"},
	)

	parsed := Side(raw)

	want := []domain.BookLevel{
		{Price: 50000.5, Size: 1.25},
		{Price: 49997, Size: 2},
	}
	if !reflect.DeepEqual(parsed, want) {
		t.Errorf("expected %v, got %v", want, parsed)
	}
}
