package repository

import (
	"context"

	"github.com/google/uuid"

	domainErrors "github.com/pcbuilder/storefront/internal/domain/errors"
	"github.com/pcbuilder/storefront/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	// Create stores a pending order and freezes items as its snapshot.
	Create(ctx context.Context, userID uuid.UUID, items []domainErrors.PendingItem) (*model.Order, error)
	// Snapshot returns the items frozen on the order at creation.
	Snapshot(ctx context.Context, orderID uuid.UUID) ([]domainErrors.PendingItem, error)
	// AddItems inserts items idempotently: an item already stored for the
	// same order and part type is left untouched.
	AddItems(ctx context.Context, orderID uuid.UUID, items []domainErrors.PendingItem) error
	Get(ctx context.Context, orderID uuid.UUID) (*model.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)
	ListAll(ctx context.Context, limit, offset int) ([]model.OrderSummary, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, from, to model.OrderStatus) error
}
