// Package engine derives the displayed product list from a catalog snapshot:
// facet filtering, free-text search and sorting, composed by Pipeline.
//
// Every function here is total over its inputs and never mutates the catalog
// it is given.
package engine

import "github.com/utafrali/storefront/internal/domain"

// Classifier maps a product description to the fabric tags it implies.
type Classifier interface {
	Classify(description string) []domain.FabricTag
}
