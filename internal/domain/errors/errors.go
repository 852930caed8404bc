package errors

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrAlreadyExists           = errors.New("already exists")
	ErrNotFound                = errors.New("not found")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrInvalidInput            = errors.New("invalid input")
	ErrUnauthorized            = errors.New("unauthorized")
	ErrForbidden               = errors.New("forbidden")
	ErrUnknownCategory         = errors.New("unknown part category")
	ErrBuilderNotFound         = errors.New("builder not found for user")
	ErrEmptyBuild              = errors.New("build has no parts")
	ErrPaymentInitiation       = errors.New("payment initiation failed")
	ErrGatewayUnavailable      = errors.New("payment status unknown, contact support")
	ErrAmountMismatch          = errors.New("reconciled amount does not match recorded amount")
	ErrRefundRejected          = errors.New("refund rejected by gateway")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)

// CreationStage names the checkout step that failed.
type CreationStage string

const (
	StageOrder CreationStage = "order"
	StageItems CreationStage = "items"
)

// PendingItem is an order line that still has to be written.
type PendingItem struct {
	PartType string    `json:"partType"`
	PartID   uuid.UUID `json:"partId"`
	Quantity int       `json:"quantity"`
}

// CreationError reports a failed order or order item write. When Stage is
// StageItems the order row exists and OrderID identifies it.
type CreationError struct {
	Stage   CreationStage
	OrderID uuid.UUID
	Items   []PendingItem
	Err     error
}

func (e *CreationError) Error() string {
	if e.Stage == StageItems {
		return fmt.Sprintf("create order items for %s: %v", e.OrderID, e.Err)
	}
	return fmt.Sprintf("create order: %v", e.Err)
}

func (e *CreationError) Unwrap() error {
	return e.Err
}

// Retryable reports whether items can be re-submitted against the same order.
func (e *CreationError) Retryable() bool {
	return e.Stage == StageItems && e.OrderID != uuid.Nil
}
