package engine

import (
	"strings"

	"github.com/utafrali/storefront/internal/domain"
)

// DefaultSuggestLimit is the number of quick-search results returned when
// the caller does not ask for a specific limit.
const DefaultSuggestLimit = 5

// Search returns the products whose title or description contains query,
// case-insensitively. A query that is blank after trimming returns catalog
// itself, unchanged.
func Search(catalog []domain.Product, query string) []domain.Product {
	if strings.TrimSpace(query) == "" {
		return catalog
	}
	return match(catalog, strings.ToLower(query), -1)
}

// Suggest returns at most limit products from catalog matching query. Unlike
// Search, a blank query yields no suggestions.
func Suggest(catalog []domain.Product, query string, limit int) []domain.Product {
	if strings.TrimSpace(query) == "" {
		return []domain.Product{}
	}
	if limit < 1 {
		limit = DefaultSuggestLimit
	}
	return match(catalog, strings.ToLower(query), limit)
}

// match collects substring matches in catalog order, stopping after limit
// matches when limit is positive.
func match(catalog []domain.Product, queryLower string, limit int) []domain.Product {
	out := make([]domain.Product, 0)
	for i := range catalog {
		if limit > 0 && len(out) == limit {
			break
		}
		title := strings.ToLower(catalog[i].Title)
		desc := strings.ToLower(catalog[i].Description)
		if strings.Contains(title, queryLower) || strings.Contains(desc, queryLower) {
			out = append(out, catalog[i])
		}
	}
	return out
}
