package test

import (
	"context"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/pcbuilder/storefront/internal/domain/errors"
	"github.com/pcbuilder/storefront/internal/domain/model"
)

// StubUserID is the user every default token resolves to.
var StubUserID = uuid.MustParse("3f1c9a52-7d4e-4b8a-9c2f-1e6d5a4b3c21")

// AuthFacadeStub provides controllable authentication behaviour.
type AuthFacadeStub struct {
	RegisterFn     func(context.Context, string, string) (string, error)
	AuthenticateFn func(context.Context, string, string) (string, error)
	ParseFn        func(string) (uuid.UUID, error)
}

// Register delegates to RegisterFn or returns a fixed token.
func (s AuthFacadeStub) Register(ctx context.Context, email, password string) (string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, email, password)
	}
	return "token", nil
}

// Authenticate delegates to AuthenticateFn or returns a fixed token.
func (s AuthFacadeStub) Authenticate(ctx context.Context, email, password string) (string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, email, password)
	}
	return "token", nil
}

// ParseToken resolves any token to StubUserID unless ParseFn is set.
func (s AuthFacadeStub) ParseToken(token string) (uuid.UUID, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return StubUserID, nil
}

// CatalogFacadeStub serves canned catalogue data.
type CatalogFacadeStub struct {
	ListFn          func(context.Context, model.PartCategory, int, int, model.PartFilter) (*model.PartPage, error)
	PartFn          func(context.Context, model.PartCategory, uuid.UUID) (*model.Part, error)
	ManufacturersFn func(context.Context, model.PartCategory) ([]string, error)
}

// Categories returns the real category descriptors.
func (s CatalogFacadeStub) Categories() []model.CategoryInfo {
	return model.Categories()
}

// ListParts delegates to ListFn or returns an empty page.
func (s CatalogFacadeStub) ListParts(ctx context.Context, category model.PartCategory, page, pageSize int, filter model.PartFilter) (*model.PartPage, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, category, page, pageSize, filter)
	}
	if _, err := category.Info(); err != nil {
		return nil, err
	}
	page, pageSize = model.NormalizePage(page, pageSize, model.DefaultPageSize)
	return &model.PartPage{Items: []model.PartSummary{}, Page: page, PageSize: pageSize}, nil
}

// Part delegates to PartFn or returns a part with the requested id.
func (s CatalogFacadeStub) Part(ctx context.Context, category model.PartCategory, id uuid.UUID) (*model.Part, error) {
	if s.PartFn != nil {
		return s.PartFn(ctx, category, id)
	}
	return &model.Part{PartSummary: model.PartSummary{ID: id, Category: category, Name: "stub part"}}, nil
}

// Manufacturers delegates to ManufacturersFn or returns a single maker.
func (s CatalogFacadeStub) Manufacturers(ctx context.Context, category model.PartCategory) ([]string, error) {
	if s.ManufacturersFn != nil {
		return s.ManufacturersFn(ctx, category)
	}
	return []string{"AMD"}, nil
}

// BuildFacadeStub simulates build editing.
type BuildFacadeStub struct {
	BuildFn  func(context.Context, uuid.UUID) (*model.BuildSummary, error)
	AddFn    func(context.Context, uuid.UUID, model.PartCategory, uuid.UUID) (*model.Build, error)
	RemoveFn func(context.Context, uuid.UUID, model.PartCategory) (*model.Build, error)
}

// Build delegates to BuildFn or returns an empty summary.
func (s BuildFacadeStub) Build(ctx context.Context, userID uuid.UUID) (*model.BuildSummary, error) {
	if s.BuildFn != nil {
		return s.BuildFn(ctx, userID)
	}
	return &model.BuildSummary{Parts: []model.PartSummary{}}, nil
}

// AddPart delegates to AddFn or returns a build holding the part.
func (s BuildFacadeStub) AddPart(ctx context.Context, userID uuid.UUID, category model.PartCategory, partID uuid.UUID) (*model.Build, error) {
	if s.AddFn != nil {
		return s.AddFn(ctx, userID, category, partID)
	}
	return &model.Build{UserID: userID, Parts: map[model.PartCategory]uuid.UUID{category: partID}}, nil
}

// RemovePart delegates to RemoveFn or returns an empty build.
func (s BuildFacadeStub) RemovePart(ctx context.Context, userID uuid.UUID, category model.PartCategory) (*model.Build, error) {
	if s.RemoveFn != nil {
		return s.RemoveFn(ctx, userID, category)
	}
	return &model.Build{UserID: userID}, nil
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	CheckoutFn func(context.Context, uuid.UUID) (*model.CheckoutResult, error)
	PayFn      func(context.Context, uuid.UUID, uuid.UUID) (*model.CheckoutResult, error)
	OrdersFn   func(context.Context, uuid.UUID) ([]model.Order, error)
	OrderFn    func(context.Context, uuid.UUID, uuid.UUID) (*model.Order, error)
	RetryFn    func(context.Context, uuid.UUID, uuid.UUID) (*model.Order, error)
}

// Checkout delegates to CheckoutFn or returns a fixed session.
func (s OrderFacadeStub) Checkout(ctx context.Context, userID uuid.UUID) (*model.CheckoutResult, error) {
	if s.CheckoutFn != nil {
		return s.CheckoutFn(ctx, userID)
	}
	id := uuid.New()
	return &model.CheckoutResult{OrderID: id, Amount: 100, PaymentURL: "https://pay.test/" + id.String()}, nil
}

// PayOrder delegates to PayFn or returns a fixed session.
func (s OrderFacadeStub) PayOrder(ctx context.Context, userID, orderID uuid.UUID) (*model.CheckoutResult, error) {
	if s.PayFn != nil {
		return s.PayFn(ctx, userID, orderID)
	}
	return &model.CheckoutResult{OrderID: orderID, Amount: 100, PaymentURL: "https://pay.test/" + orderID.String()}, nil
}

// Orders returns predefined orders for given user.
func (s OrderFacadeStub) Orders(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, userID)
	}
	return []model.Order{}, nil
}

// Order delegates to OrderFn or returns a pending order of the user.
func (s OrderFacadeStub) Order(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, userID, orderID)
	}
	return &model.Order{ID: orderID, UserID: userID, Status: model.OrderStatusPending}, nil
}

// RetryOrderItems delegates to RetryFn or returns a pending order of the user.
func (s OrderFacadeStub) RetryOrderItems(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	if s.RetryFn != nil {
		return s.RetryFn(ctx, userID, orderID)
	}
	return &model.Order{ID: orderID, UserID: userID, Status: model.OrderStatusPending}, nil
}

// PaymentFacadeStub simulates payment result lookups.
type PaymentFacadeStub struct {
	ReconcileFn func(context.Context, uuid.UUID, url.Values) (*model.PaymentResult, error)
	LatestFn    func(context.Context, uuid.UUID) (*model.PaymentResult, error)
}

// ReconcileReturn delegates to ReconcileFn or reports an indeterminate result.
func (s PaymentFacadeStub) ReconcileReturn(ctx context.Context, userID uuid.UUID, params url.Values) (*model.PaymentResult, error) {
	if s.ReconcileFn != nil {
		return s.ReconcileFn(ctx, userID, params)
	}
	return &model.PaymentResult{Outcome: model.OutcomeIndeterminate}, nil
}

// LatestPayment delegates to LatestFn or reports not found.
func (s PaymentFacadeStub) LatestPayment(ctx context.Context, userID uuid.UUID) (*model.PaymentResult, error) {
	if s.LatestFn != nil {
		return s.LatestFn(ctx, userID)
	}
	return nil, domainErrors.ErrNotFound
}

// ProfileFacadeStub simulates profile storage and roles.
type ProfileFacadeStub struct {
	ProfileFn func(context.Context, uuid.UUID) (*model.Profile, error)
	UpdateFn  func(context.Context, uuid.UUID, model.ProfileUpdate) (*model.Profile, error)
	Admin     bool
	AdminErr  error
}

// Profile delegates to ProfileFn or returns a plain user profile.
func (s ProfileFacadeStub) Profile(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	if s.ProfileFn != nil {
		return s.ProfileFn(ctx, userID)
	}
	return &model.Profile{ID: userID, Role: model.RoleUser}, nil
}

// UpdateProfile delegates to UpdateFn or echoes the update.
func (s ProfileFacadeStub) UpdateProfile(ctx context.Context, userID uuid.UUID, update model.ProfileUpdate) (*model.Profile, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, userID, update)
	}
	return &model.Profile{
		ID:          userID,
		DisplayName: update.DisplayName,
		Username:    update.Username,
		AvatarURL:   update.AvatarURL,
		Phone:       update.Phone,
		Address:     update.Address,
		Role:        model.RoleUser,
	}, nil
}

// IsAdmin returns the configured role answer.
func (s ProfileFacadeStub) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.Admin, s.AdminErr
}

// AdminFacadeStub simulates administration operations.
type AdminFacadeStub struct {
	AllOrdersFn func(context.Context, int, int) ([]model.OrderSummary, error)
	StatusFn    func(context.Context, uuid.UUID, model.OrderStatus) (*model.Order, error)
	RefundFn    func(context.Context, uuid.UUID, string) (*model.Order, error)
	ProfilesFn  func(context.Context) ([]model.Profile, error)
}

// AllOrders delegates to AllOrdersFn or returns no orders.
func (s AdminFacadeStub) AllOrders(ctx context.Context, page, pageSize int) ([]model.OrderSummary, error) {
	if s.AllOrdersFn != nil {
		return s.AllOrdersFn(ctx, page, pageSize)
	}
	return []model.OrderSummary{}, nil
}

// UpdateOrderStatus delegates to StatusFn or returns the order in the new status.
func (s AdminFacadeStub) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	if s.StatusFn != nil {
		return s.StatusFn(ctx, orderID, status)
	}
	return &model.Order{ID: orderID, Status: status}, nil
}

// Refund delegates to RefundFn or returns a refunded order.
func (s AdminFacadeStub) Refund(ctx context.Context, orderID uuid.UUID, message string) (*model.Order, error) {
	if s.RefundFn != nil {
		return s.RefundFn(ctx, orderID, message)
	}
	return &model.Order{ID: orderID, Status: model.OrderStatusRefunded}, nil
}

// Profiles delegates to ProfilesFn or returns no profiles.
func (s AdminFacadeStub) Profiles(ctx context.Context) ([]model.Profile, error) {
	if s.ProfilesFn != nil {
		return s.ProfilesFn(ctx)
	}
	return []model.Profile{}, nil
}

// StorefrontFacadeStub aggregates all facade stubs.
type StorefrontFacadeStub struct {
	AuthFacadeStub
	CatalogFacadeStub
	BuildFacadeStub
	OrderFacadeStub
	PaymentFacadeStub
	ProfileFacadeStub
	AdminFacadeStub
	HealthErr error
}

// Health returns HealthErr.
func (s StorefrontFacadeStub) Health(ctx context.Context) error {
	return s.HealthErr
}

// WorkerFacadeStub feeds the payment poller and records polled payments.
type WorkerFacadeStub struct {
	mu        sync.Mutex
	Pending   [][]model.Payment
	PendingFn func(context.Context, time.Time, int) ([]model.Payment, error)
	PollFn    func(context.Context, model.Payment) (*model.PaymentResult, error)
	Polled    []model.Payment
	Cutoffs   []time.Time

	pendingCallCount int32
}

// Lock exposes internal mutex for external synchronization.
func (s *WorkerFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *WorkerFacadeStub) Unlock() { s.mu.Unlock() }

// PendingPayments returns batches from configured queue.
func (s *WorkerFacadeStub) PendingPayments(ctx context.Context, olderThan time.Time, limit int) ([]model.Payment, error) {
	s.mu.Lock()
	s.Cutoffs = append(s.Cutoffs, olderThan)
	s.mu.Unlock()
	if s.PendingFn != nil {
		return s.PendingFn(ctx, olderThan, limit)
	}
	call := atomic.AddInt32(&s.pendingCallCount, 1)
	if int(call) <= len(s.Pending) {
		return s.Pending[call-1], nil
	}
	return nil, nil
}

// PollPayment records the payment and returns PollFn's result or a completion.
func (s *WorkerFacadeStub) PollPayment(ctx context.Context, payment model.Payment) (*model.PaymentResult, error) {
	if s.PollFn != nil {
		result, err := s.PollFn(ctx, payment)
		if err == nil {
			s.record(payment)
		}
		return result, err
	}
	s.record(payment)
	return &model.PaymentResult{Outcome: model.OutcomeCompleted, OrderID: payment.OrderID.String()}, nil
}

func (s *WorkerFacadeStub) record(payment model.Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Polled = append(s.Polled, payment)
}
