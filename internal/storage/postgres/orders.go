package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	domainErrors "github.com/pcbuilder/storefront/internal/domain/errors"
	"github.com/pcbuilder/storefront/internal/domain/model"
)

type orderRepository struct {
	storage *Storage
}

// Create stores a pending order together with the item snapshot it was
// created from.
func (r *orderRepository) Create(ctx context.Context, userID uuid.UUID, items []domainErrors.PendingItem) (*model.Order, error) {
	snapshot, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode item snapshot: %w", err)
	}
	const query = `INSERT INTO orders (user_id, status, items) VALUES ($1, $2, $3::jsonb) RETURNING id, created_at, updated_at`
	order := model.Order{UserID: userID, Status: model.OrderStatusPending}
	err = r.storage.pool.QueryRow(ctx, query, userID, model.OrderStatusPending, snapshot).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	return &order, nil
}

func (r *orderRepository) Snapshot(ctx context.Context, orderID uuid.UUID) ([]domainErrors.PendingItem, error) {
	const query = `SELECT items FROM orders WHERE id=$1`
	var raw []byte
	if err := r.storage.pool.QueryRow(ctx, query, orderID).Scan(&raw); err != nil {
		return nil, translateError(err)
	}
	var items []domainErrors.PendingItem
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode item snapshot of order %s: %w", orderID, err)
		}
	}
	return items, nil
}

func (r *orderRepository) AddItems(ctx context.Context, orderID uuid.UUID, items []domainErrors.PendingItem) error {
	const query = `INSERT INTO order_items (order_id, part_type, part_id, quantity)
                   VALUES ($1, $2, $3, $4)
                   ON CONFLICT (order_id, part_type) DO NOTHING`
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		for _, item := range items {
			qty := item.Quantity
			if qty <= 0 {
				qty = 1
			}
			if _, err := tx.Exec(ctx, query, orderID, item.PartType, item.PartID, qty); err != nil {
				return fmt.Errorf("insert %s item: %w", item.PartType, err)
			}
		}
		return nil
	})
}

func (r *orderRepository) Get(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	const selectOrder = `SELECT id, user_id, status, created_at, updated_at FROM orders WHERE id=$1`
	var order model.Order
	err := r.storage.pool.QueryRow(ctx, selectOrder, orderID).Scan(&order.ID, &order.UserID, &order.Status, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, translateError(err)
	}

	const selectItems = `SELECT id, order_id, part_type, part_id, quantity FROM order_items WHERE order_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, selectItems, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item     model.OrderItem
			partType string
		)
		if err := rows.Scan(&item.ID, &item.OrderID, &partType, &item.PartID, &item.Quantity); err != nil {
			return nil, err
		}
		item.Category = model.PartCategory(partType)
		if c, err := model.ParseCategory(partType); err == nil {
			item.Category = c
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	const query = `SELECT id, user_id, status, created_at, updated_at
                   FROM orders WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) ListAll(ctx context.Context, limit, offset int) ([]model.OrderSummary, error) {
	const query = `SELECT id, user_id, status, created_at, updated_at, email,
                          COALESCE(amount, 0), COALESCE(payment_status, '')
                   FROM order_with_payment ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.storage.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.OrderSummary
	for rows.Next() {
		var s model.OrderSummary
		if err := rows.Scan(&s.ID, &s.UserID, &s.Status, &s.CreatedAt, &s.UpdatedAt, &s.Email, &s.Amount, &s.PaymentStatus); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateStatus moves the order from one status to another. It fails with
// ErrInvalidStatusTransition when the stored status is no longer from.
func (r *orderRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, from, to model.OrderStatus) error {
	const query = `UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2 AND status=$3`
	tag, err := r.storage.pool.Exec(ctx, query, to, orderID, from)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: order %s is no longer %s", domainErrors.ErrInvalidStatusTransition, orderID, from)
	}
	return nil
}
