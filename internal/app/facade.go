package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/pcbuilder/storefront/internal/domain/errors"
	"github.com/pcbuilder/storefront/internal/domain/model"
	"github.com/pcbuilder/storefront/internal/usecase"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// StorefrontFacade is the single entry point the HTTP layer and the payment
// poller talk to.
type StorefrontFacade struct {
	auth     *usecase.AuthUseCase
	profiles *usecase.ProfileUseCase
	catalog  *usecase.CatalogUseCase
	builds   *usecase.BuildUseCase
	checkout *usecase.CheckoutUseCase
	payments *usecase.PaymentUseCase
	health   HealthChecker
	logger   *slog.Logger
}

func NewStorefrontFacade(
	auth *usecase.AuthUseCase,
	profiles *usecase.ProfileUseCase,
	catalog *usecase.CatalogUseCase,
	builds *usecase.BuildUseCase,
	checkout *usecase.CheckoutUseCase,
	payments *usecase.PaymentUseCase,
	health HealthChecker,
	logger *slog.Logger,
) *StorefrontFacade {
	return &StorefrontFacade{
		auth:     auth,
		profiles: profiles,
		catalog:  catalog,
		builds:   builds,
		checkout: checkout,
		payments: payments,
		health:   health,
		logger:   logger,
	}
}

func (f *StorefrontFacade) Register(ctx context.Context, email, password string) (string, error) {
	_, token, err := f.auth.Register(ctx, email, password)
	return token, err
}

func (f *StorefrontFacade) Authenticate(ctx context.Context, email, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, email, password)
	return token, err
}

func (f *StorefrontFacade) ParseToken(token string) (uuid.UUID, error) {
	return f.auth.ParseToken(token)
}

func (f *StorefrontFacade) Categories() []model.CategoryInfo {
	return f.catalog.Categories()
}

func (f *StorefrontFacade) ListParts(ctx context.Context, category model.PartCategory, page, pageSize int, filter model.PartFilter) (*model.PartPage, error) {
	return f.catalog.ListParts(ctx, category, page, pageSize, filter)
}

func (f *StorefrontFacade) Part(ctx context.Context, category model.PartCategory, id uuid.UUID) (*model.Part, error) {
	return f.catalog.GetPart(ctx, category, id)
}

func (f *StorefrontFacade) Manufacturers(ctx context.Context, category model.PartCategory) ([]string, error) {
	return f.catalog.Manufacturers(ctx, category)
}

func (f *StorefrontFacade) Build(ctx context.Context, userID uuid.UUID) (*model.BuildSummary, error) {
	return f.builds.Summary(ctx, userID)
}

func (f *StorefrontFacade) AddPart(ctx context.Context, userID uuid.UUID, category model.PartCategory, partID uuid.UUID) (*model.Build, error) {
	return f.builds.AddPart(ctx, userID, category, partID)
}

func (f *StorefrontFacade) RemovePart(ctx context.Context, userID uuid.UUID, category model.PartCategory) (*model.Build, error) {
	return f.builds.RemovePart(ctx, userID, category)
}

// Checkout turns the user's build into an order and opens a gateway session
// for its total.
func (f *StorefrontFacade) Checkout(ctx context.Context, userID uuid.UUID) (*model.CheckoutResult, error) {
	order, err := f.checkout.Checkout(ctx, userID)
	if err != nil {
		return nil, err
	}
	return f.pay(ctx, userID, order)
}

// PayOrder opens a new gateway session for a pending order of the user.
func (f *StorefrontFacade) PayOrder(ctx context.Context, userID, orderID uuid.UUID) (*model.CheckoutResult, error) {
	order, err := f.checkout.GetOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != model.OrderStatusPending {
		return nil, fmt.Errorf("%w: %s order cannot be paid", domainErrors.ErrInvalidStatusTransition, order.Status)
	}
	return f.pay(ctx, userID, order)
}

func (f *StorefrontFacade) pay(ctx context.Context, userID uuid.UUID, order *model.Order) (*model.CheckoutResult, error) {
	total, err := f.checkout.OrderTotal(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	amount := model.MinorUnits(total)

	user, err := f.auth.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	session, err := f.payments.Initiate(ctx, order.ID, amount, "PC Build Order for "+user.Email, userID)
	if err != nil {
		f.logger.Warn("order left unpaid", slog.String("order_id", order.ID.String()))
		return nil, err
	}
	return &model.CheckoutResult{OrderID: order.ID, Amount: amount, PaymentURL: session.PaymentURL}, nil
}

func (f *StorefrontFacade) Orders(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	return f.checkout.ListOrders(ctx, userID)
}

func (f *StorefrontFacade) Order(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	return f.checkout.GetOrder(ctx, userID, orderID)
}

func (f *StorefrontFacade) RetryOrderItems(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	return f.checkout.RetryOrderItems(ctx, userID, orderID)
}

func (f *StorefrontFacade) ReconcileReturn(ctx context.Context, userID uuid.UUID, params url.Values) (*model.PaymentResult, error) {
	return f.payments.ReconcileReturn(ctx, userID, params)
}

func (f *StorefrontFacade) LatestPayment(ctx context.Context, userID uuid.UUID) (*model.PaymentResult, error) {
	return f.payments.ReconcileLatestForUser(ctx, userID)
}

func (f *StorefrontFacade) PendingPayments(ctx context.Context, olderThan time.Time, limit int) ([]model.Payment, error) {
	return f.payments.PendingPayments(ctx, olderThan, limit)
}

func (f *StorefrontFacade) PollPayment(ctx context.Context, payment model.Payment) (*model.PaymentResult, error) {
	return f.payments.Poll(ctx, payment)
}

func (f *StorefrontFacade) Profile(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	return f.profiles.Get(ctx, userID)
}

func (f *StorefrontFacade) UpdateProfile(ctx context.Context, userID uuid.UUID, update model.ProfileUpdate) (*model.Profile, error) {
	return f.profiles.Update(ctx, userID, update)
}

func (f *StorefrontFacade) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	return f.profiles.IsAdmin(ctx, userID)
}

func (f *StorefrontFacade) Profiles(ctx context.Context) ([]model.Profile, error) {
	return f.profiles.List(ctx)
}

func (f *StorefrontFacade) AllOrders(ctx context.Context, page, pageSize int) ([]model.OrderSummary, error) {
	return f.checkout.ListAllOrders(ctx, page, pageSize)
}

func (f *StorefrontFacade) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	return f.checkout.UpdateOrderStatus(ctx, orderID, status)
}

func (f *StorefrontFacade) Refund(ctx context.Context, orderID uuid.UUID, message string) (*model.Order, error) {
	return f.payments.Refund(ctx, orderID, message)
}

// Health pings the store; a facade built without one is always healthy.
func (f *StorefrontFacade) Health(ctx context.Context) error {
	if f.health == nil {
		return nil
	}
	return f.health.HealthCheck(ctx)
}
