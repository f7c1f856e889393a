package repository

import (
	"context"

	"github.com/utafrali/storefront/internal/domain"
)

// SnapshotRepository defines the interface for catalog snapshot caching.
type SnapshotRepository interface {
	// Get retrieves the cached enriched catalog. It returns a NotFound error
	// when no snapshot is stored.
	Get(ctx context.Context) ([]domain.Product, error)

	// Save stores the enriched catalog, replacing any previous snapshot.
	Save(ctx context.Context, products []domain.Product) error

	// Delete removes the cached snapshot.
	Delete(ctx context.Context) error
}
