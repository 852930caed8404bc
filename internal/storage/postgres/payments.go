package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pcbuilder/storefront/internal/domain/model"
)

type paymentRepository struct {
	storage *Storage
}

const paymentColumns = `id, order_id, user_id, amount, status, vnpay_response, created_at, updated_at`

func scanPayment(row interface{ Scan(...any) error }) (*model.Payment, error) {
	var (
		p   model.Payment
		raw []byte
	)
	if err := row.Scan(&p.ID, &p.OrderID, &p.UserID, &p.Amount, &p.Status, &raw, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &p.GatewayResponse); err != nil {
			return nil, fmt.Errorf("decode gateway response of payment %d: %w", p.ID, err)
		}
	}
	return &p, nil
}

func (r *paymentRepository) GetByOrder(ctx context.Context, orderID uuid.UUID) (*model.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments WHERE order_id=$1 ORDER BY created_at DESC LIMIT 1`
	p, err := scanPayment(r.storage.pool.QueryRow(ctx, query, orderID))
	if err != nil {
		return nil, translateError(err)
	}
	return p, nil
}

func (r *paymentRepository) LatestForUser(ctx context.Context, userID uuid.UUID) (*model.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments WHERE user_id=$1 ORDER BY created_at DESC LIMIT 1`
	p, err := scanPayment(r.storage.pool.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, translateError(err)
	}
	return p, nil
}

func (r *paymentRepository) ApplyResult(ctx context.Context, paymentID int64, status model.PaymentStatus, response map[string]any) (bool, error) {
	var raw []byte
	if response != nil {
		encoded, err := json.Marshal(response)
		if err != nil {
			return false, fmt.Errorf("encode gateway response: %w", err)
		}
		raw = encoded
	}

	applied := false
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const updatePayment = `UPDATE payments
                               SET status=$1, vnpay_response=COALESCE($2::jsonb, vnpay_response), updated_at=NOW()
                               WHERE id=$3 AND status='pending'
                               RETURNING order_id`
		var orderID uuid.UUID
		if err := tx.QueryRow(ctx, updatePayment, status, raw, paymentID).Scan(&orderID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return err
		}
		applied = true

		if status != model.PaymentStatusCompleted {
			return nil
		}
		const confirmOrder = `UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2 AND status=$3`
		_, err := tx.Exec(ctx, confirmOrder, model.OrderStatusConfirmed, orderID, model.OrderStatusPending)
		return err
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

func (r *paymentRepository) ListPending(ctx context.Context, olderThan time.Time, limit int) ([]model.Payment, error) {
	const query = `SELECT ` + paymentColumns + `
                   FROM payments WHERE status='pending' AND created_at < $1
                   ORDER BY polled_at NULLS FIRST, created_at LIMIT $2`
	rows, err := r.storage.pool.Query(ctx, query, olderThan, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *paymentRepository) MarkPolled(ctx context.Context, paymentID int64) error {
	const query = `UPDATE payments SET polled_at=NOW() WHERE id=$1 AND status='pending'`
	_, err := r.storage.pool.Exec(ctx, query, paymentID)
	return err
}
