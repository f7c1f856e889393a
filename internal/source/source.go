// Package source retrieves the raw catalog snapshot and enriches it once at
// ingestion.
package source

import (
	"context"

	"github.com/utafrali/storefront/internal/domain"
)

// Source supplies the raw product records of one catalog snapshot.
type Source interface {
	Fetch(ctx context.Context) ([]domain.RawProduct, error)
}
