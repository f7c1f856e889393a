package engine

import (
	"cmp"
	"slices"

	"github.com/utafrali/storefront/internal/domain"
)

// Sort returns a new slice ordered by key. The sort is stable, so products
// with equal keys keep their input order; SortRecommended and unknown keys
// return an unchanged copy.
func Sort(catalog []domain.Product, key domain.SortKey) []domain.Product {
	out := slices.Clone(catalog)
	if out == nil {
		out = []domain.Product{}
	}

	switch key {
	case domain.SortPriceLowToHigh:
		slices.SortStableFunc(out, func(a, b domain.Product) int {
			return cmp.Compare(a.Price, b.Price)
		})
	case domain.SortPriceHighToLow:
		slices.SortStableFunc(out, func(a, b domain.Product) int {
			return cmp.Compare(b.Price, a.Price)
		})
	case domain.SortMostPopular:
		slices.SortStableFunc(out, func(a, b domain.Product) int {
			return cmp.Compare(b.Rating.Count, a.Rating.Count)
		})
	case domain.SortNewest:
		slices.SortStableFunc(out, func(a, b domain.Product) int {
			return cmp.Compare(newRank(b), newRank(a))
		})
	default:
		// SortRecommended: input order.
	}

	return out
}

func newRank(p domain.Product) int {
	if p.IsNew {
		return 1
	}
	return 0
}
