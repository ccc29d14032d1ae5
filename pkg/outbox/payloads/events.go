package payloads

import (
	"github.com/google/uuid"
)

// OrderCreated is emitted when checkout produces a new order.
type OrderCreated struct {
	OrderID       uuid.UUID `json:"orderId"`
	UserID        uuid.UUID `json:"userId"`
	PaymentMethod string    `json:"paymentMethod"`
	TotalCents    int       `json:"totalCents"`
	ItemCount     int       `json:"itemCount"`
}

// OrderStatusChanged is emitted when an admin moves an order through the
// fulfillment state machine.
type OrderStatusChanged struct {
	OrderID    uuid.UUID `json:"orderId"`
	UserID     uuid.UUID `json:"userId"`
	FromStatus string    `json:"fromStatus"`
	ToStatus   string    `json:"toStatus"`
}

// OrderCanceled is emitted when a pending or confirmed order is canceled and
// its stock returned.
type OrderCanceled struct {
	OrderID    uuid.UUID `json:"orderId"`
	UserID     uuid.UUID `json:"userId"`
	FromStatus string    `json:"fromStatus"`
}

// CartConverted is emitted alongside OrderCreated when the active cart
// freezes into an order.
type CartConverted struct {
	CartID  uuid.UUID `json:"cartId"`
	UserID  uuid.UUID `json:"userId"`
	OrderID uuid.UUID `json:"orderId"`
}
