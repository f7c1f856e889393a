package domain

import (
	"slices"
	"strconv"
	"strings"
)

// DefaultPriceMax is the upper bound of the full price range.
const DefaultPriceMax = 1000

// RatingThresholds are the minimum-rating options offered by the filter panel.
var RatingThresholds = []int{4, 3, 2}

// PriceRange is a closed interval [Min, Max].
type PriceRange struct {
	Min float64 `json:"min" validate:"gte=0"`
	Max float64 `json:"max" validate:"gtefield=Min"`
}

// Contains reports whether price lies within the range, both ends inclusive.
func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

// Facet names a filterable dimension that supports value toggling.
type Facet string

// Toggleable facets.
const (
	FacetCategory Facet = "category"
	FacetFabric   Facet = "fabric"
	FacetRating   Facet = "rating"
)

// FilterCriteria selects which catalog products are displayed. Values within
// a facet combine with OR; facets combine with AND. Empty facets impose no
// restriction.
type FilterCriteria struct {
	Categories []string    `json:"categories"`
	Fabrics    []FabricTag `json:"fabrics" validate:"dive,oneof=cotton leather polyester wool silk"`
	Ratings    []int       `json:"ratings" validate:"dive,gte=1,lte=5"`
	PriceRange PriceRange  `json:"price_range"`
}

// DefaultCriteria returns the identity criteria: every facet empty and the
// full price range [0, priceMax].
func DefaultCriteria(priceMax float64) FilterCriteria {
	return FilterCriteria{
		Categories: []string{},
		Fabrics:    []FabricTag{},
		Ratings:    []int{},
		PriceRange: PriceRange{Min: 0, Max: priceMax},
	}
}

// Clone returns a deep copy of the criteria.
func (c FilterCriteria) Clone() FilterCriteria {
	return FilterCriteria{
		Categories: append([]string{}, c.Categories...),
		Fabrics:    append([]FabricTag{}, c.Fabrics...),
		Ratings:    append([]int{}, c.Ratings...),
		PriceRange: c.PriceRange,
	}
}

// Active reports whether the criteria differ from DefaultCriteria(priceMax).
func (c FilterCriteria) Active(priceMax float64) bool {
	return len(c.Categories) > 0 ||
		len(c.Fabrics) > 0 ||
		len(c.Ratings) > 0 ||
		c.PriceRange.Min != 0 ||
		c.PriceRange.Max != priceMax
}

// ToggleCategory adds the category if absent and removes it if present.
func (c *FilterCriteria) ToggleCategory(category string) {
	c.Categories = toggle(c.Categories, category)
}

// ToggleFabric adds the tag if absent and removes it if present.
func (c *FilterCriteria) ToggleFabric(tag FabricTag) {
	c.Fabrics = toggle(c.Fabrics, tag)
}

// ToggleRating adds the threshold if absent and removes it if present.
func (c *FilterCriteria) ToggleRating(threshold int) {
	c.Ratings = toggle(c.Ratings, threshold)
}

func toggle[T comparable](values []T, v T) []T {
	if i := slices.Index(values, v); i >= 0 {
		return slices.Delete(values, i, i+1)
	}
	return append(values, v)
}

// ParseRatingThreshold reads a threshold such as "4" or "4+" and returns its
// integer prefix. Thresholds must be positive.
func ParseRatingThreshold(s string) (int, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "+")
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
