package payload

import (
	"testing"

	"github.com/upfchecker/backend/internal/domain"
)

func TestString(t *testing.T) {
	record := domain.RawRecord{
		"title":    "Volle Melk",
		"id":       float64(123456),
		"fraction": 1.5,
		"wrong":    []any{"not", "a", "string"},
	}

	tests := []struct {
		name string
		key  string
		want string
	}{
		{"plain string", "title", "Volle Melk"},
		{"integral json number", "id", "123456"},
		{"fractional json number", "fraction", "1.5"},
		{"missing key", "nope", ""},
		{"wrong type", "wrong", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := String(record, tt.key); got != tt.want {
				t.Errorf("String(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestNumber(t *testing.T) {
	record := domain.RawRecord{
		"amount":  float64(279),
		"text":    "42.5",
		"garbage": "not a number",
	}

	if got := Number(record, "amount"); got != 279 {
		t.Errorf("Number(amount) = %v, want 279", got)
	}
	if got := Number(record, "text"); got != 42.5 {
		t.Errorf("Number(text) = %v, want 42.5", got)
	}
	if got := Number(record, "garbage"); got != 0 {
		t.Errorf("Number(garbage) = %v, want 0", got)
	}
	if got := Number(record, "missing"); got != 0 {
		t.Errorf("Number(missing) = %v, want 0", got)
	}
}

func TestMapAndSliceAreChainable(t *testing.T) {
	record := domain.RawRecord{
		"prices": map[string]any{
			"price": map[string]any{"amount": float64(199)},
		},
		"images": []any{
			map[string]any{"url": "https://example.com/1.jpg"},
			"a stray string element",
			map[string]any{"url": "https://example.com/2.jpg"},
		},
	}

	t.Run("nested lookup", func(t *testing.T) {
		got := Number(Map(Map(record, "prices"), "price"), "amount")
		if got != 199 {
			t.Errorf("nested amount = %v, want 199", got)
		}
	})

	t.Run("missing maps chain to zero values", func(t *testing.T) {
		got := Number(Map(Map(record, "absent"), "also absent"), "amount")
		if got != 0 {
			t.Errorf("missing chain = %v, want 0", got)
		}
	})

	t.Run("slice skips non-object elements", func(t *testing.T) {
		if got := len(Slice(record, "images")); got != 2 {
			t.Errorf("len(Slice) = %d, want 2", got)
		}
	})

	t.Run("first of empty array is empty record", func(t *testing.T) {
		if got := String(First(record, "absent"), "url"); got != "" {
			t.Errorf("First on absent key = %q, want empty", got)
		}
	})

	t.Run("first returns leading element", func(t *testing.T) {
		if got := String(First(record, "images"), "url"); got != "https://example.com/1.jpg" {
			t.Errorf("First url = %q", got)
		}
	})
}

func TestAmount(t *testing.T) {
	record := domain.RawRecord{
		"nested":  map[string]any{"amount": float64(279)},
		"bare":    float64(150),
		"textual": "95",
		"broken":  map[string]any{"value": float64(279)},
	}

	tests := []struct {
		name   string
		key    string
		want   float64
		wantOK bool
	}{
		{"nested object with amount", "nested", 279, true},
		{"bare number", "bare", 150, true},
		{"numeric string", "textual", 95, true},
		{"object without amount field", "broken", 0, false},
		{"absent key", "absent", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Amount(record, tt.key)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Amount(%q) = (%v, %v), want (%v, %v)", tt.key, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
