package domain

// Store identifies which supermarket catalog a product came from.
type Store string

const (
	StoreAH    Store = "ah"
	StoreJumbo Store = "jumbo"
	StoreBoth  Store = "both"
)

// Valid reports whether the store filter is one of the recognized values.
func (s Store) Valid() bool {
	return s == StoreAH || s == StoreJumbo || s == StoreBoth
}

// Sources expands a store filter into the concrete catalogs to query.
func (s Store) Sources() []Store {
	if s == StoreBoth {
		return []Store{StoreAH, StoreJumbo}
	}
	return []Store{s}
}

// RawRecord is a single untyped product payload as returned by a catalog API.
// Catalog responses are only partially trustworthy: any field may be missing,
// wrong-typed, or nested differently between API revisions, so all access goes
// through the payload helpers.
type RawRecord map[string]any

// IngredientsUnavailable is the placeholder stored when no ingredient text
// could be recovered for a product. The scorer treats it like an empty list.
const IngredientsUnavailable = "Ingrediënten niet beschikbaar"

// Product is the normalized record shape shared by both catalogs.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	UnitPrice   string  `json:"pricePerUnit"`
	Store       Store   `json:"store"`
	UPFScore    int     `json:"upfScore"`
	Image       string  `json:"image"`
	Ingredients string  `json:"ingredients"`
}

// SearchRequest represents one aggregated product search.
type SearchRequest struct {
	Query string
	Store Store
	Fuzzy bool
	Limit int
}
