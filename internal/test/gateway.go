package test

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pcbuilder/storefront/internal/domain/model"
)

// GatewayStub simulates the hosted payment functions.
type GatewayStub struct {
	mu         sync.Mutex
	CreateFn   func(context.Context, model.PaymentRequest) (*model.PaymentSession, error)
	ValidateFn func(context.Context, url.Values) (*model.GatewayVerdict, error)
	QueryFn    func(context.Context, uuid.UUID, time.Time) (*model.GatewayVerdict, error)
	RefundFn   func(context.Context, model.RefundRequest) error

	Created  []model.PaymentRequest
	Queried  []uuid.UUID
	Refunded []model.RefundRequest
}

// CreatePayment returns a session pointing at a fake gateway page.
func (s *GatewayStub) CreatePayment(ctx context.Context, req model.PaymentRequest) (*model.PaymentSession, error) {
	s.mu.Lock()
	s.Created = append(s.Created, req)
	s.mu.Unlock()
	if s.CreateFn != nil {
		return s.CreateFn(ctx, req)
	}
	return &model.PaymentSession{PaymentURL: "https://pay.test/" + req.OrderID.String(), OrderID: req.OrderID.String()}, nil
}

// ValidateReturn delegates to ValidateFn or reports an unrecognised redirect.
func (s *GatewayStub) ValidateReturn(ctx context.Context, params url.Values) (*model.GatewayVerdict, error) {
	if s.ValidateFn != nil {
		return s.ValidateFn(ctx, params)
	}
	return &model.GatewayVerdict{}, nil
}

// Query delegates to QueryFn or reports the transaction as still open.
func (s *GatewayStub) Query(ctx context.Context, orderID uuid.UUID, transDate time.Time) (*model.GatewayVerdict, error) {
	s.mu.Lock()
	s.Queried = append(s.Queried, orderID)
	s.mu.Unlock()
	if s.QueryFn != nil {
		return s.QueryFn(ctx, orderID, transDate)
	}
	return &model.GatewayVerdict{OrderID: orderID.String()}, nil
}

// Refund records the request.
func (s *GatewayStub) Refund(ctx context.Context, req model.RefundRequest) error {
	s.mu.Lock()
	s.Refunded = append(s.Refunded, req)
	s.mu.Unlock()
	if s.RefundFn != nil {
		return s.RefundFn(ctx, req)
	}
	return nil
}

// QueriedCount returns how many queries were issued.
func (s *GatewayStub) QueriedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Queried)
}
