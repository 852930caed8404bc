package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/pcbuilder/storefront/internal/domain/errors"
)

// OrderStatus describes fulfilment lifecycle.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// ParseOrderStatus validates a status name.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	switch s := OrderStatus(raw); s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return s, nil
	}
	return "", fmt.Errorf("%w: order status %q", domainErrors.ErrInvalidInput, raw)
}

// IsTerminal reports whether no further transition is allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled || s == OrderStatusRefunded
}

// CanTransition reports whether the order may move from s to next.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	return next != s
}

// Order is a detached snapshot of a build taken at checkout.
type Order struct {
	ID        uuid.UUID   `json:"id"`
	UserID    uuid.UUID   `json:"userId"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
	Items     []OrderItem `json:"items,omitempty"`
}

// OrderItem freezes one (category, part) pair.
type OrderItem struct {
	ID       int64        `json:"id"`
	OrderID  uuid.UUID    `json:"orderId"`
	Category PartCategory `json:"partType"`
	PartID   uuid.UUID    `json:"partId"`
	Quantity int          `json:"quantity"`
	Part     *PartSummary `json:"part,omitempty"`
}

// OrderSummary is an order joined with its latest payment.
type OrderSummary struct {
	Order
	Email         string        `json:"email"`
	Amount        int64         `json:"amount"`
	PaymentStatus PaymentStatus `json:"paymentStatus,omitempty"`
}

// ItemsFromBuild freezes the populated build slots with quantity 1.
func ItemsFromBuild(b *Build) []domainErrors.PendingItem {
	selections := b.Selections()
	items := make([]domainErrors.PendingItem, 0, len(selections))
	for _, s := range selections {
		items = append(items, domainErrors.PendingItem{PartType: string(s.Category), PartID: s.PartID, Quantity: 1})
	}
	return items
}
