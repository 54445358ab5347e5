// Package event publishes wishlist and cart change events.
package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/internal/domain"
	pkgkafka "github.com/KumariSiddhi/Ecommerce-Sidlume-App/pkg/kafka"
	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/pkg/logger"
)

// Kafka topics for collection change events.
var (
	TopicWishlistUpdated = pkgkafka.Topic("wishlist", "updated")
	TopicCartUpdated     = pkgkafka.Topic("cart", "updated")
)

// Aggregate types.
const (
	AggregateTypeWishlist = "wishlist"
	AggregateTypeCart     = "cart"
)

// SourceStorefront identifies events emitted by this service.
const SourceStorefront = "storefront"

// WishlistUpdatedData is the payload for wishlist.updated.
type WishlistUpdatedData struct {
	DeviceID string `json:"device_id,omitempty"`
	IDs      []int  `json:"ids"`
	Count    int    `json:"count"`
}

// CartUpdatedData is the payload for cart.updated.
type CartUpdatedData struct {
	DeviceID  string         `json:"device_id,omitempty"`
	Items     []CartItemData `json:"items"`
	ItemCount int            `json:"item_count"`
	Total     string         `json:"total"`
}

// CartItemData is one line item within a cart event.
type CartItemData struct {
	ProductID int    `json:"product_id"`
	Title     string `json:"title"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
}

// Publisher is implemented by *pkgkafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer turns store changes into Kafka events. A Producer with a nil
// publisher, or a nil *Producer, drops every event.
type Producer struct {
	pub    Publisher
	logger *slog.Logger
}

// NewProducer creates an event producer. pub may be nil to disable events.
func NewProducer(pub Publisher, l *slog.Logger) *Producer {
	if l == nil {
		l = logger.Discard()
	}
	return &Producer{pub: pub, logger: l}
}

// Enabled reports whether events are actually sent.
func (p *Producer) Enabled() bool {
	return p != nil && p.pub != nil
}

// PublishWishlistUpdated publishes the full id set after a wishlist change.
func (p *Producer) PublishWishlistUpdated(ctx context.Context, ids []int) error {
	if !p.Enabled() {
		return nil
	}
	data := WishlistUpdatedData{
		DeviceID: logger.DeviceIDFromContext(ctx),
		IDs:      ids,
		Count:    len(ids),
	}
	return p.publish(ctx, TopicWishlistUpdated, AggregateTypeWishlist, data)
}

// PublishCartUpdated publishes the cart contents after a cart change.
func (p *Producer) PublishCartUpdated(ctx context.Context, cart *domain.CartRecord) error {
	if !p.Enabled() {
		return nil
	}
	items := make([]CartItemData, len(cart.Items))
	for i, it := range cart.Items {
		items[i] = CartItemData{
			ProductID: it.ID,
			Title:     it.Title,
			Price:     it.Price.String(),
			Quantity:  it.Quantity,
		}
	}
	data := CartUpdatedData{
		DeviceID:  logger.DeviceIDFromContext(ctx),
		Items:     items,
		ItemCount: cart.ItemCount(),
		Total:     cart.Total().String(),
	}
	return p.publish(ctx, TopicCartUpdated, AggregateTypeCart, data)
}

func (p *Producer) publish(ctx context.Context, topic, aggregate string, data any) error {
	aggregateID := aggregate
	if device := logger.DeviceIDFromContext(ctx); device != "" {
		aggregateID = device + ":" + aggregate
	}

	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregate, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		event.WithCorrelationID(id)
	}

	if err := p.pub.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)
	return nil
}
