package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/utafrali/storefront/internal/domain"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
	"github.com/utafrali/storefront/pkg/logger"
)

// Kafka topic constants for storefront domain events.
var (
	TopicCartUpdated     = pkgkafka.Topic("cart", "updated")
	TopicCartCleared     = pkgkafka.Topic("cart", "cleared")
	TopicWishlistToggled = pkgkafka.Topic("wishlist", "toggled")
	TopicCatalogLoaded   = pkgkafka.Topic("catalog", "loaded")
)

// Aggregate type constants.
const (
	AggregateTypeCart     = "cart"
	AggregateTypeWishlist = "wishlist"
	AggregateTypeCatalog  = "catalog"
)

// SourceStorefront identifies events originating from the storefront service.
const SourceStorefront = "storefront-service"

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	SessionID string         `json:"session_id"`
	Lines     []CartLineData `json:"lines"`
	LineCount int            `json:"line_count"`
	ItemCount int            `json:"item_count"`
	Total     string         `json:"total"`
}

// CartLineData is the line payload within cart events.
type CartLineData struct {
	ProductID int     `json:"product_id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	SessionID string `json:"session_id"`
}

// WishlistToggledData is the payload for a wishlist.toggled event.
type WishlistToggledData struct {
	SessionID string `json:"session_id"`
	ProductID int    `json:"product_id"`
	Added     bool   `json:"added"`
}

// CatalogLoadedData is the payload for a catalog.loaded event.
type CatalogLoadedData struct {
	ProductCount int  `json:"product_count"`
	FromCache    bool `json:"from_cache"`
}

// Publisher sends an event to a topic. *pkgkafka.Producer satisfies it.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// DefaultPublishTimeout bounds how long a caller waits for one publish.
const DefaultPublishTimeout = 500 * time.Millisecond

// Producer publishes storefront domain events. With a nil publisher every
// event is dropped, which is how the service runs with events disabled.
type Producer struct {
	publisher Publisher
	logger    *slog.Logger
	timeout   time.Duration
}

// NewProducer creates a new event producer for the storefront service using
// DefaultPublishTimeout.
func NewProducer(publisher Publisher, logger *slog.Logger) *Producer {
	return NewProducerWithTimeout(publisher, logger, DefaultPublishTimeout)
}

// NewProducerWithTimeout creates a producer whose publishes give up after
// timeout. Non-positive timeouts fall back to DefaultPublishTimeout.
func NewProducerWithTimeout(publisher Publisher, logger *slog.Logger, timeout time.Duration) *Producer {
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	return &Producer{
		publisher: publisher,
		logger:    logger,
		timeout:   timeout,
	}
}

// Enabled reports whether events reach a broker.
func (p *Producer) Enabled() bool {
	return p.publisher != nil
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, sessionID string, cart domain.CartView) error {
	lines := make([]CartLineData, len(cart.Lines))
	for i, l := range cart.Lines {
		lines[i] = CartLineData{
			ProductID: l.Product.ID,
			Title:     l.Product.Title,
			Price:     l.Product.Price,
			Quantity:  l.Quantity,
		}
	}

	data := CartUpdatedData{
		SessionID: sessionID,
		Lines:     lines,
		LineCount: cart.LineCount,
		ItemCount: cart.ItemCount,
		Total:     cart.Total,
	}

	if err := p.publish(ctx, TopicCartUpdated, sessionID, AggregateTypeCart, data); err != nil {
		return err
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("session_id", sessionID),
		slog.Int("item_count", cart.ItemCount),
	)

	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, sessionID string) error {
	data := CartClearedData{SessionID: sessionID}

	if err := p.publish(ctx, TopicCartCleared, sessionID, AggregateTypeCart, data); err != nil {
		return err
	}

	p.logger.DebugContext(ctx, "published cart.cleared event",
		slog.String("session_id", sessionID),
	)

	return nil
}

// PublishWishlistToggled publishes a wishlist.toggled event.
func (p *Producer) PublishWishlistToggled(ctx context.Context, sessionID string, productID int, added bool) error {
	data := WishlistToggledData{SessionID: sessionID, ProductID: productID, Added: added}

	if err := p.publish(ctx, TopicWishlistToggled, sessionID, AggregateTypeWishlist, data); err != nil {
		return err
	}

	p.logger.DebugContext(ctx, "published wishlist.toggled event",
		slog.String("session_id", sessionID),
		slog.Int("product_id", productID),
		slog.Bool("added", added),
	)

	return nil
}

// PublishCatalogLoaded publishes a catalog.loaded event.
func (p *Producer) PublishCatalogLoaded(ctx context.Context, productCount int, fromCache bool) error {
	data := CatalogLoadedData{ProductCount: productCount, FromCache: fromCache}

	if err := p.publish(ctx, TopicCatalogLoaded, AggregateTypeCatalog, AggregateTypeCatalog, data); err != nil {
		return err
	}

	p.logger.DebugContext(ctx, "published catalog.loaded event",
		slog.Int("product_count", productCount),
		slog.Bool("from_cache", fromCache),
	)

	return nil
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	if p.publisher == nil {
		return nil
	}

	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		event.WithCorrelationID(id)
	}

	// Publishes outlive request cancellation but not the producer timeout.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	if err := p.publisher.Publish(pubCtx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	return nil
}
