package dto

import (
	"github.com/google/uuid"

	domainErrors "github.com/pcbuilder/storefront/internal/domain/errors"
)

// ErrorResponse is the body of every failed request. OrderID and Items are
// set when a checkout left an order without its items.
type ErrorResponse struct {
	Error   string                     `json:"error"`
	OrderID *uuid.UUID                 `json:"orderId,omitempty"`
	Items   []domainErrors.PendingItem `json:"items,omitempty"`
}
