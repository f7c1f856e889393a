package domain

import "github.com/shopspring/decimal"

// CartLine pairs a product with a quantity of at least one.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal returns price * quantity without rounding.
func (l CartLine) Subtotal() decimal.Decimal {
	return decimal.NewFromFloat(l.Product.Price).Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// FormatAmount rounds an amount to currency precision for presentation.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// CartView is the presentation form of the cart ledger.
type CartView struct {
	Lines     []CartLine `json:"lines"`
	LineCount int        `json:"line_count"`
	ItemCount int        `json:"item_count"`
	Total     string     `json:"total"`
}

// WishlistView is the presentation form of the wishlist.
type WishlistView struct {
	ProductIDs []int `json:"product_ids"`
	Count      int   `json:"count"`
}

// View is everything the presentation layer renders after a state change.
type View struct {
	Products      []Product      `json:"products"`
	ResultCount   int            `json:"result_count"`
	Criteria      FilterCriteria `json:"criteria"`
	FiltersActive bool           `json:"filters_active"`
	Query         string         `json:"query"`
	Sort          SortKey        `json:"sort"`
	SortLabel     string         `json:"sort_label"`
	Cart          CartView       `json:"cart"`
	Wishlist      WishlistView   `json:"wishlist"`
	Loaded        bool           `json:"loaded"`
	Error         string         `json:"error,omitempty"`
}

// FabricOption describes a fabric facet entry.
type FabricOption struct {
	Tag      FabricTag `json:"id"`
	Label    string    `json:"label"`
	Keywords []string  `json:"keywords"`
}

// RatingOption describes a rating facet entry.
type RatingOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FacetOptions lists the selectable values of every facet.
type FacetOptions struct {
	Categories []string       `json:"categories"`
	Fabrics    []FabricOption `json:"fabrics"`
	Ratings    []RatingOption `json:"ratings"`
	PriceRange PriceRange     `json:"price_range"`
	Sorts      []SortOption   `json:"sorts"`
}

// SortOption describes a sort key entry.
type SortOption struct {
	Key   SortKey `json:"key"`
	Label string  `json:"label"`
}
