package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	"github.com/vitrinelabs/vitrine-backend/pkg/logger"
	"github.com/vitrinelabs/vitrine-backend/pkg/outbox"
	"github.com/vitrinelabs/vitrine-backend/pkg/outbox/payloads"
)

const dedupeTTL = 7 * 24 * time.Hour

type deduper interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	IdempotencyKey(scope, id string) string
}

// Consumer turns published order events into user notifications. Handling is
// idempotent across redeliveries via the envelope event id.
type Consumer struct {
	repo   Repository
	dedupe deduper
	logg   *logger.Logger
}

// NewConsumer wires the event consumer.
func NewConsumer(repo Repository, dedupe deduper, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if dedupe == nil {
		return nil, fmt.Errorf("dedupe store required")
	}
	return &Consumer{repo: repo, dedupe: dedupe, logg: logg}, nil
}

// Handle processes one published event. A nil return acknowledges the
// message; errors trigger redelivery. Unknown event types are acknowledged.
func (c *Consumer) Handle(ctx context.Context, eventType string, payload []byte) error {
	envelope, err := outbox.ParseEnvelope(payload)
	if err != nil {
		// Malformed payloads never become valid; drop them.
		if c.logg != nil {
			c.logg.Error(ctx, "dropping malformed event payload", err)
		}
		return nil
	}

	notification := c.buildNotification(eventType, envelope.Data)
	if notification == nil {
		return nil
	}

	claimedKey := ""
	if envelope.EventID != "" {
		key := c.dedupe.IdempotencyKey("notification-worker", envelope.EventID)
		fresh, err := c.dedupe.SetNX(ctx, key, "1", dedupeTTL)
		if err != nil {
			return fmt.Errorf("dedupe check: %w", err)
		}
		if !fresh {
			return nil
		}
		claimedKey = key
	}

	if err := c.repo.Create(ctx, notification); err != nil {
		// Release the dedupe claim so the redelivery is not dropped as a
		// duplicate of a notification that was never written.
		createErr := fmt.Errorf("create notification: %w", err)
		if claimedKey != "" {
			if delErr := c.dedupe.Del(ctx, claimedKey); delErr != nil {
				return multierr.Append(createErr, fmt.Errorf("release dedupe claim: %w", delErr))
			}
		}
		return createErr
	}
	if c.logg != nil {
		logCtx := c.logg.WithFields(ctx, map[string]any{
			"event_type": eventType,
			"user_id":    notification.UserID.String(),
		})
		c.logg.Info(logCtx, "notification created")
	}
	return nil
}

func (c *Consumer) buildNotification(eventType string, data json.RawMessage) *models.Notification {
	switch enums.OutboxEventType(eventType) {
	case enums.EventOrderCreated:
		var payload payloads.OrderCreated
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil
		}
		link := "/orders/" + payload.OrderID.String()
		return &models.Notification{
			UserID:  payload.UserID,
			Type:    enums.NotificationTypeOrderPlaced,
			Title:   "Order placed",
			Message: fmt.Sprintf("We received your order. Total: %s.", formatCents(payload.TotalCents)),
			Link:    &link,
		}

	case enums.EventOrderStatusChanged:
		var payload payloads.OrderStatusChanged
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil
		}
		link := "/orders/" + payload.OrderID.String()
		return &models.Notification{
			UserID:  payload.UserID,
			Type:    enums.NotificationTypeOrderStatusChanged,
			Title:   "Order update",
			Message: fmt.Sprintf("Your order is now %s.", payload.ToStatus),
			Link:    &link,
		}

	case enums.EventOrderCanceled:
		var payload payloads.OrderCanceled
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil
		}
		link := "/orders/" + payload.OrderID.String()
		return &models.Notification{
			UserID:  payload.UserID,
			Type:    enums.NotificationTypeOrderStatusChanged,
			Title:   "Order canceled",
			Message: "Your order was canceled and any reserved items were returned to stock.",
			Link:    &link,
		}

	default:
		return nil
	}
}

func formatCents(cents int) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
