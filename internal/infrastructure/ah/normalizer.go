package ah

import (
	"context"

	"go.uber.org/zap"

	"github.com/upfchecker/backend/internal/domain"
	"github.com/upfchecker/backend/internal/infrastructure/payload"
	"github.com/upfchecker/backend/internal/upf"
)

// Normalizer converts raw AH search records into the common product shape.
// AH embeds ingredient text directly in the search payload, so no secondary
// fetch is needed.
type Normalizer struct {
	logger *zap.Logger
}

// NewNormalizer creates an AH record normalizer.
func NewNormalizer(logger *zap.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize implements domain.Normalizer. A record without a recoverable id
// is dropped; any panic while extracting fields drops the record and logs it
// without aborting the batch.
func (n *Normalizer) Normalize(_ context.Context, raw domain.RawRecord) (product *domain.Product) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Warn("dropping unparseable record",
				zap.String("source", string(domain.StoreAH)),
				zap.String("id", payload.String(raw, "webshopId")),
				zap.Any("cause", r))
			product = nil
		}
	}()

	nativeID := payload.String(raw, "webshopId")
	if nativeID == "" {
		n.logger.Warn("dropping record without id", zap.String("source", string(domain.StoreAH)))
		return nil
	}

	// The brand arrived as a bare string in older payloads and as an object
	// with a name field in newer ones.
	brand := payload.String(raw, "brand")
	if brand == "" {
		brand = payload.String(payload.Map(raw, "brand"), "name")
	}

	ingredients := payload.String(raw, "ingredients")
	score := upf.Score(ingredients)
	if ingredients == "" {
		ingredients = domain.IngredientsUnavailable
	}

	return &domain.Product{
		ID:          "ah-" + nativeID,
		Name:        payload.String(raw, "title"),
		Brand:       brand,
		Description: payload.String(raw, "packageSizeText"),
		Price:       extractPrice(raw),
		UnitPrice:   payload.String(raw, "unitPriceDescription"),
		Store:       domain.StoreAH,
		UPFScore:    score,
		Image:       payload.String(payload.First(raw, "images"), "url"),
		Ingredients: ingredients,
	}
}

// extractPrice reads the price in cents and converts to euros. When a bonus
// promotion is active the regular price moves to priceBeforeBonus and
// currentPrice holds the discounted one; prefer the regular price.
func extractPrice(raw domain.RawRecord) float64 {
	cents, ok := payload.Amount(raw, "priceBeforeBonus")
	if !ok {
		cents, _ = payload.Amount(raw, "currentPrice")
	}
	if cents < 0 {
		return 0
	}
	return cents / 100
}
