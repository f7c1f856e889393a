package engine

import (
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/fabric"
)

// sampleCatalog mirrors the shape of the fakestore catalog with a handful of
// records covering every facet.
func sampleCatalog() []domain.Product {
	return []domain.Product{
		{
			ID: 1, Title: "Slim Fit T-Shirt", Description: "cotton t-shirt",
			Category: domain.CategoryMensClothing, Price: 20,
			Rating: domain.Rating{Rate: 4.5, Count: 10},
		},
		{
			ID: 2, Title: "Phone Case", Description: "leather case",
			Category: domain.CategoryElectronics, Price: 800,
			Rating: domain.Rating{Rate: 3.0, Count: 5}, IsNew: true,
		},
		{
			ID: 3, Title: "Winter Scarf", Description: "Soft cashmere and silk scarf",
			Category: domain.CategoryWomensClothing, Price: 55.5,
			Rating: domain.Rating{Rate: 2.1, Count: 120},
		},
		{
			ID: 4, Title: "Rain Jacket", Description: "lightweight poly shell",
			Category: domain.CategoryWomensClothing, Price: 55.5,
			Rating: domain.Rating{Rate: 3.9, Count: 10}, IsNew: true,
		},
		{
			ID: 5, Title: "Gold Ring", Description: "18k gold plated",
			Category: domain.CategoryJewelery, Price: 1000,
			Rating: domain.Rating{Rate: 4.0, Count: 0},
		},
	}
}

func ids(products []domain.Product) []int {
	out := make([]int, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func newTestFilter() *FacetFilter {
	return NewFacetFilter(fabric.New())
}
