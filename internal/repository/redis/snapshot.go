package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// SnapshotKey is the Redis key holding the enriched catalog.
const SnapshotKey = "storefront:catalog:snapshot"

// SnapshotRepository implements repository.SnapshotRepository using Redis.
// Enrichment fields are stored with the products so a cached snapshot keeps
// the stock and flags it was first assigned.
type SnapshotRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotRepository creates a new Redis-backed snapshot repository.
func NewSnapshotRepository(client *redis.Client, ttl time.Duration) *SnapshotRepository {
	return &SnapshotRepository{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves the catalog snapshot from Redis.
func (r *SnapshotRepository) Get(ctx context.Context) ([]domain.Product, error) {
	data, err := r.client.Get(ctx, SnapshotKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("catalog snapshot", SnapshotKey)
		}
		return nil, fmt.Errorf("redis get snapshot: %w", err)
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return products, nil
}

// Save persists the catalog snapshot with the configured TTL.
func (r *SnapshotRepository) Save(ctx context.Context, products []domain.Product) error {
	if products == nil {
		products = []domain.Product{}
	}

	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := r.client.Set(ctx, SnapshotKey, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set snapshot: %w", err)
	}

	return nil
}

// Delete removes the catalog snapshot.
func (r *SnapshotRepository) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, SnapshotKey).Err(); err != nil {
		return fmt.Errorf("redis del snapshot: %w", err)
	}

	return nil
}
