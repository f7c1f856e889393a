package engine

import "github.com/utafrali/storefront/internal/domain"

// Input holds everything the displayed list is derived from.
type Input struct {
	Catalog  []domain.Product
	Criteria domain.FilterCriteria
	Query    string
	Sort     domain.SortKey
}

// Pipeline composes facet filter, search and sort in that fixed order:
// search narrows within the chosen facets and sort orders only the final set.
type Pipeline struct {
	filter *FacetFilter
}

// NewPipeline creates a pipeline whose fabric facet uses classifier.
func NewPipeline(classifier Classifier) *Pipeline {
	return &Pipeline{filter: NewFacetFilter(classifier)}
}

// Run derives the displayed list from scratch. It holds no state between
// calls.
func (p *Pipeline) Run(in Input) []domain.Product {
	filtered := p.filter.Apply(in.Catalog, in.Criteria)
	searched := Search(filtered, in.Query)
	return Sort(searched, in.Sort)
}
