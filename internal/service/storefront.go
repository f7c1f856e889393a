// Package service owns the shopper session: the catalog snapshot, filter
// criteria, search query, sort key, cart and wishlist. Every user-intent
// event is applied under one lock and followed by a fresh derivation of the
// displayed list.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/utafrali/storefront/internal/cart"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/engine"
	"github.com/utafrali/storefront/internal/event"
	"github.com/utafrali/storefront/internal/fabric"
	"github.com/utafrali/storefront/internal/repository"
	"github.com/utafrali/storefront/internal/source"
	"github.com/utafrali/storefront/internal/wishlist"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/tracing"
	"github.com/utafrali/storefront/pkg/validator"
)

// ErrCatalogUnavailable marks a failed catalog load.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

// ErrCatalogNotLoaded is reported by CatalogReady before the first load.
var ErrCatalogNotLoaded = errors.New("catalog not loaded")

// CatalogErrorMessage is the user-visible error state after a failed load.
const CatalogErrorMessage = "Failed to load products. Please try again later."

var tracer = tracing.Tracer("github.com/utafrali/storefront/internal/service")

// Options configures a StorefrontService.
type Options struct {
	// PriceMax is the upper bound of the default price range.
	PriceMax float64

	// Classifier infers fabrics for the fabric facet. Defaults to fabric.New().
	Classifier *fabric.Classifier
}

// StorefrontService implements the storefront's user-intent events.
type StorefrontService struct {
	source   source.Source
	enricher *source.Enricher
	cache    repository.SnapshotRepository
	producer *event.Producer
	logger   *slog.Logger

	classifier *fabric.Classifier
	pipeline   *engine.Pipeline
	priceMax   float64
	sessionID  string

	// loadMu serializes catalog loads so the fetch runs outside mu.
	loadMu sync.Mutex

	mu       sync.Mutex
	catalog  []domain.Product
	byID     map[int]domain.Product
	loaded   bool
	loadErr  error
	criteria domain.FilterCriteria
	query    string
	sortKey  domain.SortKey
	ledger   *cart.Ledger
	wishlist *wishlist.Set
	derived  []domain.Product
}

// NewStorefrontService creates a storefront service. cache may be nil, in
// which case every load goes to the source.
func NewStorefrontService(
	src source.Source,
	enricher *source.Enricher,
	cache repository.SnapshotRepository,
	producer *event.Producer,
	logger *slog.Logger,
	opts Options,
) *StorefrontService {
	if opts.PriceMax <= 0 {
		opts.PriceMax = domain.DefaultPriceMax
	}
	if opts.Classifier == nil {
		opts.Classifier = fabric.New()
	}

	return &StorefrontService{
		source:     src,
		enricher:   enricher,
		cache:      cache,
		producer:   producer,
		logger:     logger,
		classifier: opts.Classifier,
		pipeline:   engine.NewPipeline(opts.Classifier),
		priceMax:   opts.PriceMax,
		sessionID:  uuid.New().String(),
		byID:       make(map[int]domain.Product),
		criteria:   domain.DefaultCriteria(opts.PriceMax),
		sortKey:    domain.SortRecommended,
		ledger:     cart.NewLedger(),
		wishlist:   wishlist.New(),
		derived:    []domain.Product{},
	}
}

// SessionID returns the id that tags this session's domain events.
func (s *StorefrontService) SessionID() string {
	return s.sessionID
}

// PriceMax returns the upper bound of the full price range.
func (s *StorefrontService) PriceMax() float64 {
	return s.priceMax
}

// ---------------------------------------------------------------------------
// Catalog
// ---------------------------------------------------------------------------

// LoadCatalog retrieves and enriches one catalog snapshot, preferring the
// snapshot cache when one is configured. On failure the catalog becomes empty
// and the error state is set; nothing retries automatically.
func (s *StorefrontService) LoadCatalog(ctx context.Context) (domain.View, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	return s.load(ctx)
}

// Reload retries a failed load. When a catalog is already loaded, including
// by a load that was in flight when Reload was called, it returns the current
// view without fetching.
func (s *StorefrontService) Reload(ctx context.Context) (domain.View, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	s.mu.Lock()
	if s.loaded {
		view := s.view()
		s.mu.Unlock()
		return view, nil
	}
	s.mu.Unlock()

	return s.load(ctx)
}

// load fetches and installs one snapshot. Callers hold loadMu.
func (s *StorefrontService) load(ctx context.Context) (domain.View, error) {
	ctx, span := tracer.Start(ctx, "storefront.LoadCatalog")
	defer span.End()

	products, fromCache, err := s.loadSnapshot(ctx)
	if err != nil {
		catalogFetchTotal.WithLabelValues(fetchFailure).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "catalog load failed")

		s.logger.ErrorContext(ctx, "failed to load catalog",
			slog.String("error", err.Error()),
		)

		loadErr := fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)

		s.mu.Lock()
		s.setCatalog(nil)
		s.loaded = false
		s.loadErr = loadErr
		s.derive()
		view := s.view()
		s.mu.Unlock()

		return view, apperrors.Unavailable(CatalogErrorMessage, loadErr)
	}

	if fromCache {
		catalogFetchTotal.WithLabelValues(fetchCacheHit).Inc()
	} else {
		catalogFetchTotal.WithLabelValues(fetchSuccess).Inc()
	}
	span.SetAttributes(
		attribute.Int("catalog.product_count", len(products)),
		attribute.Bool("catalog.from_cache", fromCache),
	)

	s.mu.Lock()
	s.setCatalog(products)
	s.loaded = true
	s.loadErr = nil
	s.derive()
	view := s.view()
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "catalog loaded",
		slog.Int("product_count", len(products)),
		slog.Bool("from_cache", fromCache),
	)

	if err := s.producer.PublishCatalogLoaded(ctx, len(products), fromCache); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish catalog.loaded event",
			slog.String("error", err.Error()),
		)
	}

	return view, nil
}

// loadSnapshot reads the cache, falling back to the source. A fresh snapshot
// is written back to the cache; cache failures only degrade to a fetch.
func (s *StorefrontService) loadSnapshot(ctx context.Context) ([]domain.Product, bool, error) {
	if s.cache != nil {
		products, err := s.cache.Get(ctx)
		switch {
		case err == nil:
			return products, true, nil
		case errors.Is(err, apperrors.ErrNotFound):
		default:
			s.logger.WarnContext(ctx, "catalog cache read failed",
				slog.String("error", err.Error()),
			)
		}
	}

	raw, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("fetch catalog: %w", err)
	}

	products, skipped := s.enricher.Enrich(raw)
	if skipped > 0 {
		s.logger.WarnContext(ctx, "skipped invalid catalog records",
			slog.Int("skipped", skipped),
		)
	}

	if s.cache != nil {
		if err := s.cache.Save(ctx, products); err != nil {
			s.logger.WarnContext(ctx, "catalog cache write failed",
				slog.String("error", err.Error()),
			)
		}
	}

	return products, false, nil
}

// CatalogReady reports whether a catalog snapshot is loaded.
func (s *StorefrontService) CatalogReady(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return nil
	}
	if s.loadErr != nil {
		return s.loadErr
	}
	return ErrCatalogNotLoaded
}

// ---------------------------------------------------------------------------
// Views
// ---------------------------------------------------------------------------

// View returns the current presentation state.
func (s *StorefrontService) View(_ context.Context) domain.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

// Facets returns the selectable values of every facet.
func (s *StorefrontService) Facets() domain.FacetOptions {
	rules := s.classifier.Rules()
	fabrics := make([]domain.FabricOption, 0, len(rules))
	for _, r := range rules {
		fabrics = append(fabrics, domain.FabricOption{
			Tag:      r.Tag,
			Label:    r.Tag.Label(),
			Keywords: r.Keywords,
		})
	}

	ratings := make([]domain.RatingOption, 0, len(domain.RatingThresholds))
	for _, n := range domain.RatingThresholds {
		v := strconv.Itoa(n) + "+"
		ratings = append(ratings, domain.RatingOption{Value: v, Label: v + " Stars"})
	}

	sorts := make([]domain.SortOption, 0, len(domain.SortKeys()))
	for _, k := range domain.SortKeys() {
		sorts = append(sorts, domain.SortOption{Key: k, Label: k.Label()})
	}

	return domain.FacetOptions{
		Categories: domain.Categories(),
		Fabrics:    fabrics,
		Ratings:    ratings,
		PriceRange: domain.PriceRange{Min: 0, Max: s.priceMax},
		Sorts:      sorts,
	}
}

// Suggest runs a quick search over the full catalog, ignoring the current
// facets, query and sort.
func (s *StorefrontService) Suggest(_ context.Context, query string, limit int) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return engine.Suggest(s.catalog, query, limit)
}

// Cart returns the current cart view.
func (s *StorefrontService) Cart(_ context.Context) domain.CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.View()
}

// Wishlist returns the current wishlist view.
func (s *StorefrontService) Wishlist(_ context.Context) domain.WishlistView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wishlist.View()
}

// ---------------------------------------------------------------------------
// Filters, search, sort
// ---------------------------------------------------------------------------

// SetCriteria replaces the filter criteria.
func (s *StorefrontService) SetCriteria(ctx context.Context, criteria domain.FilterCriteria) (domain.View, error) {
	criteria = criteria.Clone()
	if err := validator.Validate(criteria); err != nil {
		return domain.View{}, fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, err)
	}

	s.mu.Lock()
	s.criteria = criteria
	s.derive()
	view := s.view()
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "filters replaced",
		slog.Int("categories", len(criteria.Categories)),
		slog.Int("fabrics", len(criteria.Fabrics)),
		slog.Int("ratings", len(criteria.Ratings)),
		slog.Float64("price_min", criteria.PriceRange.Min),
		slog.Float64("price_max", criteria.PriceRange.Max),
	)

	return view, nil
}

// ToggleFilter flips membership of value in the category, fabric or rating
// facet. Ratings accept "4" or "4+".
func (s *StorefrontService) ToggleFilter(ctx context.Context, facet domain.Facet, value string) (domain.View, error) {
	var apply func(c *domain.FilterCriteria)

	switch facet {
	case domain.FacetCategory:
		category := strings.TrimSpace(value)
		if category == "" {
			return domain.View{}, apperrors.InvalidInput("category must not be empty")
		}
		apply = func(c *domain.FilterCriteria) { c.ToggleCategory(category) }
	case domain.FacetFabric:
		tag, ok := domain.ParseFabricTag(value)
		if !ok {
			return domain.View{}, apperrors.InvalidInput(fmt.Sprintf("unknown fabric %q", value))
		}
		apply = func(c *domain.FilterCriteria) { c.ToggleFabric(tag) }
	case domain.FacetRating:
		threshold, ok := domain.ParseRatingThreshold(value)
		if !ok || threshold > 5 {
			return domain.View{}, apperrors.InvalidInput(fmt.Sprintf("invalid rating threshold %q", value))
		}
		apply = func(c *domain.FilterCriteria) { c.ToggleRating(threshold) }
	default:
		return domain.View{}, apperrors.InvalidInput(fmt.Sprintf("unknown facet %q", facet))
	}

	s.mu.Lock()
	apply(&s.criteria)
	s.derive()
	view := s.view()
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "filter toggled",
		slog.String("facet", string(facet)),
		slog.String("value", value),
		slog.Int("result_count", view.ResultCount),
	)

	return view, nil
}

// SetPriceRange replaces the price facet. minPrice must not exceed maxPrice.
func (s *StorefrontService) SetPriceRange(ctx context.Context, minPrice, maxPrice float64) (domain.View, error) {
	if minPrice < 0 {
		return domain.View{}, apperrors.InvalidInput("price range minimum must not be negative")
	}
	if minPrice > maxPrice {
		return domain.View{}, apperrors.InvalidInput("price range minimum must not exceed maximum")
	}

	s.mu.Lock()
	s.criteria.PriceRange = domain.PriceRange{Min: minPrice, Max: maxPrice}
	s.derive()
	view := s.view()
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "price range set",
		slog.Float64("price_min", minPrice),
		slog.Float64("price_max", maxPrice),
	)

	return view, nil
}

// ClearFilters resets the criteria to every facet empty and the full price
// range. Query and sort are kept.
func (s *StorefrontService) ClearFilters(ctx context.Context) domain.View {
	s.mu.Lock()
	s.criteria = domain.DefaultCriteria(s.priceMax)
	s.derive()
	view := s.view()
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "filters cleared")

	return view
}

// SetSort selects the ordering by wire name or display label.
func (s *StorefrontService) SetSort(ctx context.Context, raw string) (domain.View, error) {
	key, ok := domain.ParseSortKey(raw)
	if !ok {
		return domain.View{}, apperrors.InvalidInput(fmt.Sprintf("unknown sort %q", raw))
	}

	s.mu.Lock()
	s.sortKey = key
	s.derive()
	view := s.view()
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "sort set", slog.String("sort", string(key)))

	return view, nil
}

// SetSearchQuery stores query as given; blank queries match everything.
func (s *StorefrontService) SetSearchQuery(ctx context.Context, query string) domain.View {
	s.mu.Lock()
	s.query = query
	s.derive()
	view := s.view()
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "search query set",
		slog.String("query", query),
		slog.Int("result_count", view.ResultCount),
	)

	return view
}

// ---------------------------------------------------------------------------
// Cart
// ---------------------------------------------------------------------------

// AddToCart adds one unit of a catalog product. The product must be in the
// current snapshot and in stock.
func (s *StorefrontService) AddToCart(ctx context.Context, productID int) (domain.CartView, error) {
	s.mu.Lock()
	p, ok := s.byID[productID]
	if !ok {
		s.mu.Unlock()
		return domain.CartView{}, apperrors.NotFound("product", strconv.Itoa(productID))
	}
	if !p.Available() {
		s.mu.Unlock()
		return domain.CartView{}, apperrors.Conflict(fmt.Sprintf("product %d is out of stock", productID))
	}
	if !s.ledger.Add(p) {
		s.mu.Unlock()
		return domain.CartView{}, apperrors.InvalidInput(
			fmt.Sprintf("combined quantity must not exceed %d", cart.MaxQuantityPerItem))
	}
	quantity, _ := s.ledger.Quantity(productID)
	view := s.ledger.View()
	s.mu.Unlock()

	cartEventsTotal.WithLabelValues(actionAdd).Inc()
	s.logger.InfoContext(ctx, "item added to cart",
		slog.Int("product_id", productID),
		slog.Int("quantity", quantity),
	)
	s.publishCartUpdated(ctx, view)

	return view, nil
}

// RemoveFromCart drops the product's line. Absent ids leave the cart
// unchanged.
func (s *StorefrontService) RemoveFromCart(ctx context.Context, productID int) domain.CartView {
	s.mu.Lock()
	_, present := s.ledger.Quantity(productID)
	s.ledger.Remove(productID)
	view := s.ledger.View()
	s.mu.Unlock()

	if !present {
		return view
	}

	cartEventsTotal.WithLabelValues(actionRemove).Inc()
	s.logger.InfoContext(ctx, "item removed from cart",
		slog.Int("product_id", productID),
	)
	s.publishCartUpdated(ctx, view)

	return view
}

// SetQuantity replaces the quantity of an existing line. Quantities below one
// and absent ids are ignored; quantities above cart.MaxQuantityPerItem are
// capped.
func (s *StorefrontService) SetQuantity(ctx context.Context, productID, quantity int) domain.CartView {
	s.mu.Lock()
	before, present := s.ledger.Quantity(productID)
	s.ledger.SetQuantity(productID, quantity)
	after, _ := s.ledger.Quantity(productID)
	view := s.ledger.View()
	s.mu.Unlock()

	if !present || after == before {
		return view
	}

	cartEventsTotal.WithLabelValues(actionSetQuantity).Inc()
	s.logger.InfoContext(ctx, "cart item quantity updated",
		slog.Int("product_id", productID),
		slog.Int("quantity", after),
	)
	s.publishCartUpdated(ctx, view)

	return view
}

// ClearCart removes every line.
func (s *StorefrontService) ClearCart(ctx context.Context) domain.CartView {
	s.mu.Lock()
	s.ledger.Clear()
	view := s.ledger.View()
	s.mu.Unlock()

	cartEventsTotal.WithLabelValues(actionClear).Inc()
	s.logger.InfoContext(ctx, "cart cleared")

	if err := s.producer.PublishCartCleared(ctx, s.sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("session_id", s.sessionID),
			slog.String("error", err.Error()),
		)
	}

	return view
}

func (s *StorefrontService) publishCartUpdated(ctx context.Context, view domain.CartView) {
	if err := s.producer.PublishCartUpdated(ctx, s.sessionID, view); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("session_id", s.sessionID),
			slog.String("error", err.Error()),
		)
	}
}

// ---------------------------------------------------------------------------
// Wishlist
// ---------------------------------------------------------------------------

// ToggleWishlist saves or unsaves a catalog product.
func (s *StorefrontService) ToggleWishlist(ctx context.Context, productID int) (domain.WishlistView, error) {
	s.mu.Lock()
	if _, ok := s.byID[productID]; !ok {
		s.mu.Unlock()
		return domain.WishlistView{}, apperrors.NotFound("product", strconv.Itoa(productID))
	}
	added := s.wishlist.Toggle(productID)
	view := s.wishlist.View()
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "wishlist toggled",
		slog.Int("product_id", productID),
		slog.Bool("added", added),
	)

	if err := s.producer.PublishWishlistToggled(ctx, s.sessionID, productID, added); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish wishlist.toggled event",
			slog.Int("product_id", productID),
			slog.String("error", err.Error()),
		)
	}

	return view, nil
}

// ---------------------------------------------------------------------------
// State helpers; callers hold mu.
// ---------------------------------------------------------------------------

func (s *StorefrontService) setCatalog(products []domain.Product) {
	if products == nil {
		products = []domain.Product{}
	}
	s.catalog = products
	s.byID = make(map[int]domain.Product, len(products))
	for _, p := range products {
		s.byID[p.ID] = p
	}
}

func (s *StorefrontService) derive() {
	start := time.Now()
	s.derived = s.pipeline.Run(engine.Input{
		Catalog:  s.catalog,
		Criteria: s.criteria,
		Query:    s.query,
		Sort:     s.sortKey,
	})
	pipelineDuration.Observe(time.Since(start).Seconds())
	pipelineResults.Set(float64(len(s.derived)))
}

func (s *StorefrontService) view() domain.View {
	v := domain.View{
		Products:      slices.Clone(s.derived),
		ResultCount:   len(s.derived),
		Criteria:      s.criteria.Clone(),
		FiltersActive: s.criteria.Active(s.priceMax),
		Query:         s.query,
		Sort:          s.sortKey,
		SortLabel:     s.sortKey.Label(),
		Cart:          s.ledger.View(),
		Wishlist:      s.wishlist.View(),
		Loaded:        s.loaded,
	}
	if v.Products == nil {
		v.Products = []domain.Product{}
	}
	if s.loadErr != nil {
		v.Error = CatalogErrorMessage
	}
	return v
}
