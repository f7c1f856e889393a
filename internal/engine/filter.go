package engine

import (
	"slices"

	"github.com/utafrali/storefront/internal/domain"
)

// FacetFilter applies FilterCriteria over a catalog.
type FacetFilter struct {
	classifier Classifier
}

// NewFacetFilter creates a facet filter that infers fabrics with classifier.
func NewFacetFilter(classifier Classifier) *FacetFilter {
	return &FacetFilter{classifier: classifier}
}

// Apply returns the products that satisfy every facet of criteria, in their
// original relative order.
func (f *FacetFilter) Apply(catalog []domain.Product, criteria domain.FilterCriteria) []domain.Product {
	out := make([]domain.Product, 0, len(catalog))
	for i := range catalog {
		if f.matches(&catalog[i], &criteria) {
			out = append(out, catalog[i])
		}
	}
	return out
}

// matches checks a product against all facets. Facets combine with AND;
// values inside one facet combine with OR.
func (f *FacetFilter) matches(p *domain.Product, c *domain.FilterCriteria) bool {
	// Category facet.
	if len(c.Categories) > 0 && !slices.Contains(c.Categories, p.Category) {
		return false
	}

	// Fabric facet, inferred from the description.
	if len(c.Fabrics) > 0 {
		tags := f.classifier.Classify(p.Description)
		if !slices.ContainsFunc(c.Fabrics, func(t domain.FabricTag) bool {
			return slices.Contains(tags, t)
		}) {
			return false
		}
	}

	// Price range, inclusive on both ends.
	if !c.PriceRange.Contains(p.Price) {
		return false
	}

	// Rating facet: any selected threshold is enough.
	if len(c.Ratings) > 0 {
		if !slices.ContainsFunc(c.Ratings, func(threshold int) bool {
			return p.Rating.Rate >= float64(threshold)
		}) {
			return false
		}
	}

	return true
}
