package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/pcbuilder/storefront/internal/domain/errors"
	"github.com/pcbuilder/storefront/internal/domain/model"
	"github.com/pcbuilder/storefront/internal/domain/repository"
)

const adminPageSize = 50

// CheckoutUseCase turns builds into orders and manages them afterwards.
type CheckoutUseCase struct {
	builds repository.BuildRepository
	orders repository.OrderRepository
	parts  repository.CatalogRepository
	logger *slog.Logger
}

// NewCheckoutUseCase constructs CheckoutUseCase.
func NewCheckoutUseCase(builds repository.BuildRepository, orders repository.OrderRepository, parts repository.CatalogRepository, logger *slog.Logger) *CheckoutUseCase {
	return &CheckoutUseCase{builds: builds, orders: orders, parts: parts, logger: logger}
}

// Checkout freezes the user's build into a pending order. The order row,
// which carries the item snapshot, and its items are written in two steps; a
// failure of the second step returns a *CreationError carrying the order id
// so the items can be retried.
func (u *CheckoutUseCase) Checkout(ctx context.Context, userID uuid.UUID) (*model.Order, error) {
	build, err := u.builds.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if build.Empty() {
		return nil, domainErrors.ErrEmptyBuild
	}
	items := model.ItemsFromBuild(build)

	order, err := u.orders.Create(ctx, userID, items)
	if err != nil {
		u.logger.Error("create order failed", slog.String("user_id", userID.String()), slog.Any("error", err))
		return nil, &domainErrors.CreationError{Stage: domainErrors.StageOrder, Items: items, Err: err}
	}

	if err := u.orders.AddItems(ctx, order.ID, items); err != nil {
		u.logger.Error("create order items failed",
			slog.String("order_id", order.ID.String()),
			slog.Int("items", len(items)),
			slog.Any("error", err))
		return nil, &domainErrors.CreationError{Stage: domainErrors.StageItems, OrderID: order.ID, Items: items, Err: err}
	}

	order.Items = orderItems(order.ID, items)
	return order, nil
}

// RetryOrderItems re-inserts the snapshot frozen on a pending order at
// checkout. Items already stored are left untouched.
func (u *CheckoutUseCase) RetryOrderItems(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	order, err := u.ownedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != model.OrderStatusPending {
		return nil, domainErrors.ErrInvalidStatusTransition
	}
	items, err := u.orders.Snapshot(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: order %s has no item snapshot", domainErrors.ErrInvalidInput, orderID)
	}

	if err := u.orders.AddItems(ctx, orderID, items); err != nil {
		return nil, &domainErrors.CreationError{Stage: domainErrors.StageItems, OrderID: orderID, Items: items, Err: err}
	}
	return u.orders.Get(ctx, orderID)
}

// OrderTotal prices the snapshot frozen on the order at checkout.
func (u *CheckoutUseCase) OrderTotal(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	items, err := u.orders.Snapshot(ctx, orderID)
	if err != nil {
		return decimal.Zero, err
	}
	return u.Total(ctx, items)
}

// Total sums price times quantity of every item, fetching prices one by one.
func (u *CheckoutUseCase) Total(ctx context.Context, items []domainErrors.PendingItem) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, it := range items {
		category, err := model.ParseCategory(it.PartType)
		if err != nil {
			return decimal.Zero, err
		}
		price, err := u.parts.Price(ctx, category, it.PartID)
		if err != nil {
			return decimal.Zero, fmt.Errorf("price of %s part %s: %w", category, it.PartID, err)
		}
		qty := it.Quantity
		if qty <= 0 {
			qty = 1
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(qty))))
	}
	return total, nil
}

// ListOrders returns the user's orders, newest first.
func (u *CheckoutUseCase) ListOrders(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	orders, err := u.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return orders, nil
}

// GetOrder returns one of the user's orders with each item's part resolved.
// Parts that left the catalogue are reported without details.
func (u *CheckoutUseCase) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	order, err := u.ownedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	for i := range order.Items {
		item := &order.Items[i]
		if !item.Category.Valid() {
			continue
		}
		part, err := u.parts.Get(ctx, item.Category, item.PartID)
		if err != nil {
			if errors.Is(err, domainErrors.ErrNotFound) {
				continue
			}
			return nil, err
		}
		summary := part.PartSummary
		item.Part = &summary
	}
	return order, nil
}

// ListAllOrders pages over every order with its latest payment.
func (u *CheckoutUseCase) ListAllOrders(ctx context.Context, page, pageSize int) ([]model.OrderSummary, error) {
	page, pageSize = model.NormalizePage(page, pageSize, adminPageSize)
	offset, err := model.PageOffset(page, pageSize)
	if err != nil {
		return nil, err
	}
	list, err := u.orders.ListAll(ctx, pageSize, offset)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []model.OrderSummary{}
	}
	return list, nil
}

// UpdateOrderStatus moves an order to next. Terminal orders never change.
func (u *CheckoutUseCase) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, next model.OrderStatus) (*model.Order, error) {
	order, err := u.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransition(next) {
		return nil, fmt.Errorf("%w: %s to %s", domainErrors.ErrInvalidStatusTransition, order.Status, next)
	}
	if err := u.orders.UpdateStatus(ctx, orderID, order.Status, next); err != nil {
		return nil, err
	}
	u.logger.Info("order status changed",
		slog.String("order_id", orderID.String()),
		slog.String("from", string(order.Status)),
		slog.String("to", string(next)))
	return u.orders.Get(ctx, orderID)
}

func (u *CheckoutUseCase) ownedOrder(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	order, err := u.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domainErrors.ErrNotFound
	}
	return order, nil
}

func orderItems(orderID uuid.UUID, items []domainErrors.PendingItem) []model.OrderItem {
	out := make([]model.OrderItem, 0, len(items))
	for _, it := range items {
		out = append(out, model.OrderItem{
			OrderID:  orderID,
			Category: model.PartCategory(it.PartType),
			PartID:   it.PartID,
			Quantity: it.Quantity,
		})
	}
	return out
}
