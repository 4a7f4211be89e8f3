package jumbo

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/upfchecker/backend/internal/domain"
)

// fakeDetailFetcher returns one canned detail payload or error for any id.
type fakeDetailFetcher struct {
	detail domain.RawRecord
	err    error
}

func (f *fakeDetailFetcher) FetchDetail(ctx context.Context, id string) (domain.RawRecord, error) {
	return f.detail, f.err
}

func searchRecord() domain.RawRecord {
	return domain.RawRecord{
		"id":       "67649PAK",
		"title":    "Jumbo Trostomaten 500g",
		"quantity": "500 g",
		"prices": map[string]any{
			"price": map[string]any{"amount": float64(199)},
			"unitPrice": map[string]any{
				"unit":  "kg",
				"price": map[string]any{"amount": float64(398)},
			},
		},
		"imageInfo": map[string]any{
			"primaryView": []any{
				map[string]any{"url": "https://jumbo.com/tomaten.jpg"},
			},
		},
	}
}

func detailWithFlatIngredients(text string) domain.RawRecord {
	return domain.RawRecord{
		"data": map[string]any{
			"description": map[string]any{"ingredients": text},
		},
	}
}

func detailWithAttributeIngredients(text string) domain.RawRecord {
	return domain.RawRecord{
		"data": map[string]any{
			"attributes": []any{
				map[string]any{"code": "allergens", "value": "geen"},
				map[string]any{"code": "ingredients", "value": text},
			},
		},
	}
}

func TestNormalize_CompleteRecord(t *testing.T) {
	n := NewNormalizer(&fakeDetailFetcher{detail: detailWithFlatIngredients("Tomaat")}, zap.NewNop())

	p := n.Normalize(context.Background(), searchRecord())
	if p == nil {
		t.Fatal("Normalize returned nil for a complete record")
	}

	if p.ID != "jumbo-67649PAK" {
		t.Errorf("ID = %q, want jumbo-67649PAK", p.ID)
	}
	if p.Store != domain.StoreJumbo {
		t.Errorf("Store = %q, want jumbo", p.Store)
	}
	if p.Brand != "Jumbo" {
		t.Errorf("Brand = %q, want first name token Jumbo", p.Brand)
	}
	if p.Price != 1.99 {
		t.Errorf("Price = %v, want 1.99", p.Price)
	}
	if p.UnitPrice != "€3.98/kg" {
		t.Errorf("UnitPrice = %q, want €3.98/kg", p.UnitPrice)
	}
	if p.Image != "https://jumbo.com/tomaten.jpg" {
		t.Errorf("Image = %q", p.Image)
	}
	if p.Ingredients != "Tomaat" {
		t.Errorf("Ingredients = %q, want Tomaat", p.Ingredients)
	}
	if p.UPFScore != 1 {
		t.Errorf("UPFScore = %d, want 1", p.UPFScore)
	}
}

func TestNormalize_IngredientExtractionStrategies(t *testing.T) {
	t.Run("flat description path", func(t *testing.T) {
		n := NewNormalizer(&fakeDetailFetcher{detail: detailWithFlatIngredients("tomaat, zout")}, zap.NewNop())
		p := n.Normalize(context.Background(), searchRecord())
		if p == nil || p.Ingredients != "tomaat, zout" {
			t.Fatalf("Ingredients = %v, want flat path value", p)
		}
	})

	t.Run("labeled attributes path", func(t *testing.T) {
		n := NewNormalizer(&fakeDetailFetcher{detail: detailWithAttributeIngredients("tomaat, basilicum")}, zap.NewNop())
		p := n.Normalize(context.Background(), searchRecord())
		if p == nil || p.Ingredients != "tomaat, basilicum" {
			t.Fatalf("Ingredients = %v, want attribute scan value", p)
		}
	})

	t.Run("unknown detail shape degrades to placeholder", func(t *testing.T) {
		n := NewNormalizer(&fakeDetailFetcher{detail: domain.RawRecord{"data": map[string]any{"something": "else"}}}, zap.NewNop())
		p := n.Normalize(context.Background(), searchRecord())
		if p == nil || p.Ingredients != domain.IngredientsUnavailable {
			t.Fatalf("Ingredients = %v, want placeholder", p)
		}
	})
}

func TestNormalize_DetailFailureIsNonFatal(t *testing.T) {
	t.Run("fetch error", func(t *testing.T) {
		n := NewNormalizer(&fakeDetailFetcher{err: errors.New("timeout")}, zap.NewNop())

		p := n.Normalize(context.Background(), searchRecord())
		if p == nil {
			t.Fatal("detail failure must not drop the record")
		}
		if p.Ingredients != domain.IngredientsUnavailable {
			t.Errorf("Ingredients = %q, want placeholder", p.Ingredients)
		}
		if p.UPFScore != 1 {
			t.Errorf("UPFScore = %d, want optimistic 1", p.UPFScore)
		}
	})

	t.Run("absent detail", func(t *testing.T) {
		n := NewNormalizer(&fakeDetailFetcher{}, zap.NewNop())

		p := n.Normalize(context.Background(), searchRecord())
		if p == nil || p.Ingredients != domain.IngredientsUnavailable {
			t.Fatalf("product = %v, want placeholder ingredients", p)
		}
	})
}

func TestNormalize_BrandDerivation(t *testing.T) {
	n := NewNormalizer(&fakeDetailFetcher{}, zap.NewNop())

	t.Run("first token of the title", func(t *testing.T) {
		raw := searchRecord()
		raw["title"] = "Coca-Cola Regular 1.5L"
		p := n.Normalize(context.Background(), raw)
		if p == nil || p.Brand != "Coca-Cola" {
			t.Fatalf("Brand = %v, want Coca-Cola", p)
		}
	})

	t.Run("empty title falls back to Jumbo", func(t *testing.T) {
		raw := searchRecord()
		delete(raw, "title")
		p := n.Normalize(context.Background(), raw)
		if p == nil || p.Brand != fallbackBrand {
			t.Fatalf("Brand = %v, want %s", p, fallbackBrand)
		}
	})
}

func TestNormalize_MissingUnitYieldsEmptyUnitPrice(t *testing.T) {
	n := NewNormalizer(&fakeDetailFetcher{}, zap.NewNop())

	raw := searchRecord()
	raw["prices"] = map[string]any{"price": map[string]any{"amount": float64(199)}}

	p := n.Normalize(context.Background(), raw)
	if p == nil || p.UnitPrice != "" {
		t.Fatalf("UnitPrice = %v, want empty string", p)
	}
}

func TestNormalize_DropsRecordWithoutID(t *testing.T) {
	n := NewNormalizer(&fakeDetailFetcher{}, zap.NewNop())

	raw := searchRecord()
	delete(raw, "id")

	if p := n.Normalize(context.Background(), raw); p != nil {
		t.Errorf("Normalize = %+v, want nil", p)
	}
}

func TestNormalize_NeverPanicsOnGarbage(t *testing.T) {
	n := NewNormalizer(&fakeDetailFetcher{}, zap.NewNop())

	records := []domain.RawRecord{
		{},
		nil,
		{"id": float64(12), "prices": "free"},
		{"id": "x", "imageInfo": []any{"wrong shape"}, "title": true},
	}

	for i, raw := range records {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("record %d: panic escaped Normalize: %v", i, r)
				}
			}()
			n.Normalize(context.Background(), raw)
		}()
	}
}
