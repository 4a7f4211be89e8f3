package jumbo

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/upfchecker/backend/internal/domain"
	"github.com/upfchecker/backend/internal/infrastructure/payload"
	"github.com/upfchecker/backend/internal/upf"
)

// fallbackBrand is used when the title yields no brand token. Jumbo's search
// payload carries no brand field at all.
const fallbackBrand = "Jumbo"

// ingredientExtractor pulls the ingredient text out of one detail payload
// shape. The field path has moved between API revisions, so extraction is a
// strategy list rather than a single hard-coded path.
type ingredientExtractor func(detail domain.RawRecord) (string, bool)

// ingredientExtractors is tried in order; the first hit wins. The flat
// description path is the most recently observed shape, the labeled attribute
// scan the older one.
var ingredientExtractors = []ingredientExtractor{
	extractFromDescription,
	extractFromAttributes,
}

// Normalizer converts raw Jumbo search records into the common product shape.
// Ingredient text lives in a secondary detail payload fetched per record;
// a failed or missing detail degrades to the unavailable placeholder.
type Normalizer struct {
	details domain.DetailFetcher
	logger  *zap.Logger
}

// NewNormalizer creates a Jumbo record normalizer.
func NewNormalizer(details domain.DetailFetcher, logger *zap.Logger) *Normalizer {
	return &Normalizer{details: details, logger: logger}
}

// Normalize implements domain.Normalizer. A record without a recoverable id
// is dropped; any panic while extracting fields drops the record and logs it
// without aborting the batch.
func (n *Normalizer) Normalize(ctx context.Context, raw domain.RawRecord) (product *domain.Product) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Warn("dropping unparseable record",
				zap.String("source", string(domain.StoreJumbo)),
				zap.String("id", payload.String(raw, "id")),
				zap.Any("cause", r))
			product = nil
		}
	}()

	nativeID := payload.String(raw, "id")
	if nativeID == "" {
		n.logger.Warn("dropping record without id", zap.String("source", string(domain.StoreJumbo)))
		return nil
	}

	name := payload.String(raw, "title")
	prices := payload.Map(raw, "prices")

	ingredients := n.fetchIngredients(ctx, nativeID)
	score := upf.Score(ingredients)
	if ingredients == "" {
		ingredients = domain.IngredientsUnavailable
	}

	return &domain.Product{
		ID:          "jumbo-" + nativeID,
		Name:        name,
		Brand:       brandFromName(name),
		Description: payload.String(raw, "quantity"),
		Price:       extractPrice(prices),
		UnitPrice:   formatUnitPrice(prices),
		Store:       domain.StoreJumbo,
		UPFScore:    score,
		Image:       payload.String(payload.First(payload.Map(raw, "imageInfo"), "primaryView"), "url"),
		Ingredients: ingredients,
	}
}

// fetchIngredients performs the best-effort detail lookup. Failures and
// timeouts contribute an empty result, never an error.
func (n *Normalizer) fetchIngredients(ctx context.Context, id string) string {
	detail, err := n.details.FetchDetail(ctx, id)
	if err != nil {
		n.logger.Debug("detail fetch failed",
			zap.String("source", string(domain.StoreJumbo)),
			zap.String("id", id),
			zap.Error(err))
		return ""
	}
	if detail == nil {
		return ""
	}

	for _, extract := range ingredientExtractors {
		if text, ok := extract(detail); ok {
			return text
		}
	}
	return ""
}

func extractFromDescription(detail domain.RawRecord) (string, bool) {
	data := payload.Map(detail, "data")
	text := payload.String(payload.Map(data, "description"), "ingredients")
	return text, text != ""
}

func extractFromAttributes(detail domain.RawRecord) (string, bool) {
	data := payload.Map(detail, "data")
	for _, attr := range payload.Slice(data, "attributes") {
		if payload.String(attr, "code") == "ingredients" {
			text := payload.String(attr, "value")
			return text, text != ""
		}
	}
	return "", false
}

// brandFromName derives the brand from the first token of the product name.
func brandFromName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return fallbackBrand
	}
	return fields[0]
}

// extractPrice reads prices.price in cents and converts to euros.
func extractPrice(prices domain.RawRecord) float64 {
	cents, _ := payload.Amount(prices, "price")
	if cents < 0 {
		return 0
	}
	return cents / 100
}

// formatUnitPrice assembles a display string like "€1.99/kg" from the unit
// label and the minor-unit amount. Empty when the catalog sent no unit.
func formatUnitPrice(prices domain.RawRecord) string {
	unitPrice := payload.Map(prices, "unitPrice")
	unit := payload.String(unitPrice, "unit")
	if unit == "" {
		return ""
	}
	cents, _ := payload.Amount(unitPrice, "price")
	return fmt.Sprintf("€%.2f/%s", cents/100, unit)
}
