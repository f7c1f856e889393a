package event

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
	"github.com/utafrali/storefront/pkg/logger"
)

// --- Mock Publisher ---

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, topic string, event *pkgkafka.Event) error {
	args := m.Called(ctx, topic, event)
	return args.Error(0)
}

// blockingPublisher waits for its context to end, like a writer stuck on an
// unreachable broker.
type blockingPublisher struct{}

func (blockingPublisher) Publish(ctx context.Context, _ string, _ *pkgkafka.Event) error {
	<-ctx.Done()
	return ctx.Err()
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// capturedEvent returns the event passed to the only Publish call.
func capturedEvent(t *testing.T, pub *mockPublisher) *pkgkafka.Event {
	t.Helper()
	require.Len(t, pub.Calls, 1)
	event, ok := pub.Calls[0].Arguments.Get(2).(*pkgkafka.Event)
	require.True(t, ok)
	return event
}

func TestTopics(t *testing.T) {
	assert.Equal(t, "storefront.cart.updated", TopicCartUpdated)
	assert.Equal(t, "storefront.cart.cleared", TopicCartCleared)
	assert.Equal(t, "storefront.wishlist.toggled", TopicWishlistToggled)
	assert.Equal(t, "storefront.catalog.loaded", TopicCatalogLoaded)
}

func TestProducer_PublishCartUpdated(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, TopicCartUpdated, mock.AnythingOfType("*kafka.Event")).Return(nil)
	p := NewProducer(pub, newTestLogger())

	cart := domain.CartView{
		Lines: []domain.CartLine{
			{Product: domain.Product{ID: 1, Title: "Tee", Price: 20}, Quantity: 2},
		},
		LineCount: 1,
		ItemCount: 2,
		Total:     "40.00",
	}

	ctx := logger.WithCorrelationID(context.Background(), "corr-1")
	require.NoError(t, p.PublishCartUpdated(ctx, "sess-1", cart))
	pub.AssertExpectations(t)

	event := capturedEvent(t, pub)
	assert.Equal(t, TopicCartUpdated, event.EventType)
	assert.Equal(t, "sess-1", event.AggregateID)
	assert.Equal(t, AggregateTypeCart, event.AggregateType)
	assert.Equal(t, SourceStorefront, event.Source)
	assert.Equal(t, "corr-1", event.CorrelationID)

	var data CartUpdatedData
	require.NoError(t, event.UnmarshalData(&data))
	assert.Equal(t, "sess-1", data.SessionID)
	assert.Equal(t, 1, data.LineCount)
	assert.Equal(t, 2, data.ItemCount)
	assert.Equal(t, "40.00", data.Total)
	require.Len(t, data.Lines, 1)
	assert.Equal(t, CartLineData{ProductID: 1, Title: "Tee", Price: 20, Quantity: 2}, data.Lines[0])
}

func TestProducer_PublishCartCleared(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, TopicCartCleared, mock.Anything).Return(nil)
	p := NewProducer(pub, newTestLogger())

	require.NoError(t, p.PublishCartCleared(context.Background(), "sess-1"))

	event := capturedEvent(t, pub)
	assert.Empty(t, event.CorrelationID)

	var data CartClearedData
	require.NoError(t, event.UnmarshalData(&data))
	assert.Equal(t, "sess-1", data.SessionID)
}

func TestProducer_PublishWishlistToggled(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, TopicWishlistToggled, mock.Anything).Return(nil)
	p := NewProducer(pub, newTestLogger())

	require.NoError(t, p.PublishWishlistToggled(context.Background(), "sess-1", 7, true))

	event := capturedEvent(t, pub)
	assert.Equal(t, AggregateTypeWishlist, event.AggregateType)

	var data WishlistToggledData
	require.NoError(t, event.UnmarshalData(&data))
	assert.Equal(t, WishlistToggledData{SessionID: "sess-1", ProductID: 7, Added: true}, data)
}

func TestProducer_PublishCatalogLoaded(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, TopicCatalogLoaded, mock.Anything).Return(nil)
	p := NewProducer(pub, newTestLogger())

	require.NoError(t, p.PublishCatalogLoaded(context.Background(), 20, false))

	event := capturedEvent(t, pub)
	var data CatalogLoadedData
	require.NoError(t, event.UnmarshalData(&data))
	assert.Equal(t, 20, data.ProductCount)
	assert.False(t, data.FromCache)
}

func TestProducer_PublishError(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, TopicCartCleared, mock.Anything).Return(errors.New("broker down"))
	p := NewProducer(pub, newTestLogger())

	err := p.PublishCartCleared(context.Background(), "sess-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish storefront.cart.cleared event")
	assert.Contains(t, err.Error(), "broker down")
}

func TestProducer_NilPublisherDropsEvents(t *testing.T) {
	p := NewProducer(nil, newTestLogger())

	assert.False(t, p.Enabled())
	assert.NoError(t, p.PublishCartCleared(context.Background(), "sess-1"))
	assert.NoError(t, p.PublishCatalogLoaded(context.Background(), 3, true))
	assert.NoError(t, p.PublishWishlistToggled(context.Background(), "sess-1", 1, false))
	assert.NoError(t, p.PublishCartUpdated(context.Background(), "sess-1", domain.CartView{}))
}

func TestProducer_PublishIsBoundedByTimeout(t *testing.T) {
	p := NewProducerWithTimeout(blockingPublisher{}, newTestLogger(), 20*time.Millisecond)

	start := time.Now()
	err := p.PublishCartCleared(context.Background(), "sess-1")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestProducer_PublishIgnoresRequestCancellation(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, TopicCartCleared, mock.AnythingOfType("*kafka.Event")).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			assert.NoError(t, ctx.Err())
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
		}).
		Return(nil)
	p := NewProducer(pub, newTestLogger())

	ctx, cancel := context.WithCancel(logger.WithCorrelationID(context.Background(), "corr-7"))
	cancel()

	require.NoError(t, p.PublishCartCleared(ctx, "sess-1"))
	assert.Equal(t, "corr-7", capturedEvent(t, pub).CorrelationID)
}

func TestNewProducerWithTimeout_DefaultsNonPositive(t *testing.T) {
	p := NewProducerWithTimeout(nil, newTestLogger(), 0)
	assert.Equal(t, DefaultPublishTimeout, p.timeout)
	assert.False(t, p.Enabled())
}
