package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pcbuilder/storefront/internal/domain/model"
)

// PaymentRepository reads and settles gateway transaction records.
type PaymentRepository interface {
	GetByOrder(ctx context.Context, orderID uuid.UUID) (*model.Payment, error)
	LatestForUser(ctx context.Context, userID uuid.UUID) (*model.Payment, error)
	// ApplyResult moves a pending payment to status and stores the gateway
	// response. A completed payment also confirms a pending order. It returns
	// false when the payment was no longer pending.
	ApplyResult(ctx context.Context, paymentID int64, status model.PaymentStatus, response map[string]any) (bool, error)
	// ListPending returns pending payments created before olderThan, least
	// recently polled first.
	ListPending(ctx context.Context, olderThan time.Time, limit int) ([]model.Payment, error)
	// MarkPolled records that a pending payment was queried without a verdict.
	MarkPolled(ctx context.Context, paymentID int64) error
}
