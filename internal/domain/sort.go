package domain

import "strings"

// SortKey selects the ordering of the displayed product list.
type SortKey string

// Supported sort keys. SortRecommended keeps the input order.
const (
	SortRecommended    SortKey = "recommended"
	SortNewest         SortKey = "newest"
	SortPriceLowToHigh SortKey = "price_asc"
	SortPriceHighToLow SortKey = "price_desc"
	SortMostPopular    SortKey = "popular"
)

var sortLabels = map[SortKey]string{
	SortRecommended:    "Recommended",
	SortNewest:         "Newest",
	SortPriceLowToHigh: "Price: Low to High",
	SortPriceHighToLow: "Price: High to Low",
	SortMostPopular:    "Most Popular",
}

// SortKeys returns every sort key in display order.
func SortKeys() []SortKey {
	return []SortKey{SortRecommended, SortNewest, SortPriceLowToHigh, SortPriceHighToLow, SortMostPopular}
}

// ParseSortKey accepts either a wire name ("price_asc") or a display label
// ("Price: Low to High"). An empty string resolves to SortRecommended.
func ParseSortKey(s string) (SortKey, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SortRecommended, true
	}
	for _, k := range SortKeys() {
		if strings.EqualFold(s, string(k)) || strings.EqualFold(s, sortLabels[k]) {
			return k, true
		}
	}
	return "", false
}

// Label returns the display label of the key.
func (k SortKey) Label() string {
	return sortLabels[k]
}
