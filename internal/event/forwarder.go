package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/RechkalovAA/weblarek/internal/bus"
	"github.com/RechkalovAA/weblarek/internal/domain"
	pkgkafka "github.com/RechkalovAA/weblarek/pkg/kafka"
)

// Kafka topics for storefront analytics events.
var (
	TopicBasketUpdated = pkgkafka.Topic("basket", "updated")
	TopicOrderPlaced   = pkgkafka.Topic("order", "placed")
)

// SourceStorefront identifies events originating from the storefront.
const SourceStorefront = "storefront"

// BasketUpdatedData is the payload for a basket.updated event.
type BasketUpdatedData struct {
	ItemCount   int   `json:"item_count"`
	TotalAmount int64 `json:"total_amount"`
}

// OrderPlacedData is the payload for an order.placed event.
type OrderPlacedData struct {
	OrderID     string   `json:"order_id"`
	TotalAmount int64    `json:"total_amount"`
	ItemIDs     []string `json:"item_ids"`
	ItemCount   int      `json:"item_count"`
}

// Publisher writes an envelope to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Forwarder mirrors basket and order changes of every session to Kafka.
// Publish failures are logged and never reach the shopper.
type Forwarder struct {
	kafka  Publisher
	logger *slog.Logger
}

// NewForwarder creates a forwarder publishing through p.
func NewForwarder(p Publisher, logger *slog.Logger) *Forwarder {
	return &Forwarder{
		kafka:  p,
		logger: logger,
	}
}

// Attach subscribes the forwarder to a session bus.
func (f *Forwarder) Attach(sessionID string, b *bus.Bus) {
	b.Subscribe(domain.EventBasketChanged, func(ev domain.Event) {
		ctx := context.Background()
		if err := f.PublishBasketUpdated(ctx, sessionID, ev.(domain.BasketChanged)); err != nil {
			f.logger.WarnContext(ctx, "analytics event dropped",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()),
			)
		}
	})
	b.Subscribe(domain.EventOrderPlaced, func(ev domain.Event) {
		ctx := context.Background()
		if err := f.PublishOrderPlaced(ctx, sessionID, ev.(domain.OrderPlaced)); err != nil {
			f.logger.WarnContext(ctx, "analytics event dropped",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()),
			)
		}
	})
}

// PublishBasketUpdated publishes a basket.updated event.
func (f *Forwarder) PublishBasketUpdated(ctx context.Context, sessionID string, e domain.BasketChanged) error {
	data := BasketUpdatedData{
		ItemCount:   e.Count,
		TotalAmount: e.Total,
	}

	event, err := pkgkafka.NewEvent(TopicBasketUpdated, sessionID, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create basket.updated event: %w", err)
	}

	if err := f.kafka.Publish(ctx, TopicBasketUpdated, event); err != nil {
		return fmt.Errorf("publish basket.updated event: %w", err)
	}

	f.logger.DebugContext(ctx, "published basket.updated event",
		slog.String("session_id", sessionID),
		slog.Int("item_count", e.Count),
	)

	return nil
}

// PublishOrderPlaced publishes an order.placed event.
func (f *Forwarder) PublishOrderPlaced(ctx context.Context, sessionID string, e domain.OrderPlaced) error {
	data := OrderPlacedData{
		OrderID:     e.OrderID,
		TotalAmount: e.Total,
		ItemIDs:     e.Items,
		ItemCount:   len(e.Items),
	}

	event, err := pkgkafka.NewEvent(TopicOrderPlaced, sessionID, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create order.placed event: %w", err)
	}

	if err := f.kafka.Publish(ctx, TopicOrderPlaced, event); err != nil {
		return fmt.Errorf("publish order.placed event: %w", err)
	}

	f.logger.InfoContext(ctx, "published order.placed event",
		slog.String("session_id", sessionID),
		slog.String("order_id", e.OrderID),
	)

	return nil
}
