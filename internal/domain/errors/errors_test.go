package errors

import (
	stdErrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestSentinelErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"already exists", ErrAlreadyExists},
		{"not found", ErrNotFound},
		{"invalid credentials", ErrInvalidCredentials},
		{"unknown category", ErrUnknownCategory},
		{"builder not found", ErrBuilderNotFound},
		{"empty build", ErrEmptyBuild},
		{"initiation", ErrPaymentInitiation},
		{"gateway", ErrGatewayUnavailable},
		{"amount mismatch", ErrAmountMismatch},
		{"refund rejected", ErrRefundRejected},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("context: %w", tc.err)
			if !stdErrors.Is(wrapped, tc.err) {
				t.Fatalf("expected wrapped error to match: %v", tc.err)
			}
		})
	}
}

func TestCreationError(t *testing.T) {
	cause := stdErrors.New("insert failed")
	orderErr := &CreationError{Stage: StageOrder, Err: cause}
	if orderErr.Retryable() {
		t.Fatal("order stage failure must not be retryable")
	}
	if !stdErrors.Is(orderErr, cause) {
		t.Fatal("expected cause to be unwrapped")
	}

	id := uuid.New()
	itemsErr := &CreationError{Stage: StageItems, OrderID: id, Err: cause}
	if !itemsErr.Retryable() {
		t.Fatal("items stage failure with order id must be retryable")
	}
	if !strings.Contains(itemsErr.Error(), id.String()) {
		t.Fatalf("expected order id in message, got %q", itemsErr.Error())
	}

	var target *CreationError
	if !stdErrors.As(fmt.Errorf("checkout: %w", itemsErr), &target) || target.OrderID != id {
		t.Fatalf("expected errors.As to find creation error, got %+v", target)
	}
}
