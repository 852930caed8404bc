package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/pcbuilder/storefront/internal/config"
	domainErrors "github.com/pcbuilder/storefront/internal/domain/errors"
	"github.com/pcbuilder/storefront/internal/domain/model"
	"github.com/pcbuilder/storefront/internal/domain/repository"
)

const defaultPaymentLanguage = "vn"

// PaymentGateway is the hosted payment functions service.
type PaymentGateway interface {
	CreatePayment(ctx context.Context, req model.PaymentRequest) (*model.PaymentSession, error)
	ValidateReturn(ctx context.Context, params url.Values) (*model.GatewayVerdict, error)
	Query(ctx context.Context, orderID uuid.UUID, transDate time.Time) (*model.GatewayVerdict, error)
	Refund(ctx context.Context, req model.RefundRequest) error
}

// PaymentUseCase starts gateway payments and reconciles their results with
// the stored payment rows.
type PaymentUseCase struct {
	payments repository.PaymentRepository
	orders   repository.OrderRepository
	gateway  PaymentGateway
	language string
	logger   *slog.Logger
}

// NewPaymentUseCase constructs PaymentUseCase.
func NewPaymentUseCase(payments repository.PaymentRepository, orders repository.OrderRepository, gateway PaymentGateway, cfg *config.Config, logger *slog.Logger) *PaymentUseCase {
	language := defaultPaymentLanguage
	if cfg != nil && cfg.PaymentLanguage != "" {
		language = cfg.PaymentLanguage
	}
	return &PaymentUseCase{payments: payments, orders: orders, gateway: gateway, language: language, logger: logger}
}

// Initiate asks the gateway for a payment session. Nothing is stored locally;
// the payment row is written by the gateway side.
func (u *PaymentUseCase) Initiate(ctx context.Context, orderID uuid.UUID, amount int64, orderInfo string, userID uuid.UUID) (*model.PaymentSession, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domainErrors.ErrInvalidInput)
	}
	session, err := u.gateway.CreatePayment(ctx, model.PaymentRequest{
		OrderID:   orderID,
		UserID:    userID,
		Amount:    amount,
		OrderInfo: orderInfo,
		Language:  u.language,
	})
	if err != nil {
		u.logger.Error("payment initiation failed", slog.String("order_id", orderID.String()), slog.Any("error", err))
		if !errors.Is(err, domainErrors.ErrPaymentInitiation) {
			err = fmt.Errorf("%w: %w", domainErrors.ErrPaymentInitiation, err)
		}
		return nil, err
	}
	if session.PaymentURL == "" {
		return nil, fmt.Errorf("%w: empty payment url", domainErrors.ErrPaymentInitiation)
	}
	if session.OrderID == "" {
		session.OrderID = orderID.String()
	}
	return session, nil
}

// ReconcileReturn validates the parameters the gateway redirected the user
// with and settles the matching payment. Without parameters it reports the
// user's latest payment instead.
func (u *PaymentUseCase) ReconcileReturn(ctx context.Context, userID uuid.UUID, params url.Values) (*model.PaymentResult, error) {
	if len(params) == 0 {
		return u.ReconcileLatestForUser(ctx, userID)
	}

	verdict, err := u.gateway.ValidateReturn(ctx, params)
	if err != nil {
		u.logger.Warn("payment return validation failed", slog.Any("error", err))
		return nil, unavailable(err)
	}

	result := verdictResult(verdict)
	orderID, err := uuid.Parse(verdict.OrderID)
	if err != nil {
		result.Outcome = model.OutcomeIndeterminate
		return result, nil
	}
	payment, err := u.payments.GetByOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			result.Outcome = model.OutcomeIndeterminate
			return result, nil
		}
		return nil, err
	}
	if payment.UserID != userID {
		result.Outcome = model.OutcomeIndeterminate
		return result, nil
	}

	return u.settle(ctx, payment, verdict, nil)
}

// ReconcileLatestForUser reports the stored state of the user's most recent
// payment without contacting the gateway.
func (u *PaymentUseCase) ReconcileLatestForUser(ctx context.Context, userID uuid.UUID) (*model.PaymentResult, error) {
	payment, err := u.payments.LatestForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := &model.PaymentResult{
		Outcome:      model.OutcomeFromStatus(payment.Status),
		ResponseCode: payment.ResponseCode(),
	}
	if result.ResponseCode != "" {
		result.Message = model.ResponseMessage(result.ResponseCode)
	}
	result.Enrich(payment)
	return result, nil
}

// PendingPayments lists unsettled payments created before olderThan.
func (u *PaymentUseCase) PendingPayments(ctx context.Context, olderThan time.Time, limit int) ([]model.Payment, error) {
	return u.payments.ListPending(ctx, olderThan, limit)
}

// Poll queries the gateway for a pending payment and settles it when the
// gateway has a verdict.
func (u *PaymentUseCase) Poll(ctx context.Context, payment model.Payment) (*model.PaymentResult, error) {
	verdict, err := u.gateway.Query(ctx, payment.OrderID, payment.CreatedAt)
	if err != nil {
		return nil, unavailable(err)
	}
	if verdict.ResponseCode == "" {
		if err := u.payments.MarkPolled(ctx, payment.ID); err != nil {
			u.logger.Warn("mark payment polled failed", slog.Int64("payment_id", payment.ID), slog.Any("error", err))
		}
		result := &model.PaymentResult{Outcome: model.OutcomePending}
		result.Enrich(&payment)
		return result, nil
	}
	if verdict.OrderID == "" {
		verdict.OrderID = payment.OrderID.String()
	}
	return u.settle(ctx, &payment, verdict, verdict.Raw)
}

// Refund returns the money of a completed payment and marks the order refunded.
func (u *PaymentUseCase) Refund(ctx context.Context, orderID uuid.UUID, message string) (*model.Order, error) {
	order, err := u.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransition(model.OrderStatusRefunded) {
		return nil, fmt.Errorf("%w: %s order cannot be refunded", domainErrors.ErrInvalidStatusTransition, order.Status)
	}
	payment, err := u.payments.GetByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if payment.Status != model.PaymentStatusCompleted {
		return nil, fmt.Errorf("%w: %s payment cannot be refunded", domainErrors.ErrInvalidStatusTransition, payment.Status)
	}
	if message == "" {
		message = "Refund for order " + orderID.String()
	}

	err = u.gateway.Refund(ctx, model.RefundRequest{
		OrderID:         orderID,
		TransactionDate: payment.CreatedAt,
		Amount:          payment.Amount,
		Message:         message,
	})
	if err != nil {
		u.logger.Error("refund failed", slog.String("order_id", orderID.String()), slog.Any("error", err))
		if errors.Is(err, domainErrors.ErrRefundRejected) {
			return nil, err
		}
		return nil, unavailable(err)
	}

	if err := u.orders.UpdateStatus(ctx, orderID, order.Status, model.OrderStatusRefunded); err != nil {
		return nil, err
	}
	u.logger.Info("order refunded", slog.String("order_id", orderID.String()), slog.Int64("amount", payment.Amount))
	return u.orders.Get(ctx, orderID)
}

// settle applies a gateway verdict to a payment. A completion must carry the
// recorded amount; any other verdict is checked only when it reports one.
func (u *PaymentUseCase) settle(ctx context.Context, payment *model.Payment, verdict *model.GatewayVerdict, response map[string]any) (*model.PaymentResult, error) {
	status := verdict.Status()
	if verdict.Amount != payment.Amount && (status == model.PaymentStatusCompleted || verdict.Amount != 0) {
		u.logger.Warn("payment amount mismatch",
			slog.String("order_id", payment.OrderID.String()),
			slog.Int64("recorded", payment.Amount),
			slog.Int64("reported", verdict.Amount))
		return nil, fmt.Errorf("%w: recorded %d, reported %d", domainErrors.ErrAmountMismatch, payment.Amount, verdict.Amount)
	}

	if _, ok := payment.Status.Transition(status); ok {
		applied, err := u.payments.ApplyResult(ctx, payment.ID, status, response)
		if err != nil {
			return nil, fmt.Errorf("apply payment result: %w", err)
		}
		if applied {
			u.logger.Info("payment settled",
				slog.String("order_id", payment.OrderID.String()),
				slog.String("status", string(status)),
				slog.String("response_code", verdict.ResponseCode))
			payment.Status = status
		}
	}
	if fresh, err := u.payments.GetByOrder(ctx, payment.OrderID); err == nil && fresh.ID == payment.ID {
		payment = fresh
	}

	// The result follows the stored payment; a terminal payment never changes.
	result := verdictResult(verdict)
	if payment.Status != status {
		u.logger.Info("payment verdict ignored",
			slog.String("order_id", payment.OrderID.String()),
			slog.String("stored", string(payment.Status)),
			slog.String("reported", string(status)))
		result.ResponseCode = payment.ResponseCode()
		result.Message = ""
		if result.ResponseCode != "" {
			result.Message = model.ResponseMessage(result.ResponseCode)
		}
	}
	result.Outcome = model.OutcomeFromStatus(payment.Status)
	result.Enrich(payment)
	return result, nil
}

func verdictResult(v *model.GatewayVerdict) *model.PaymentResult {
	result := &model.PaymentResult{
		OrderID:      v.OrderID,
		Amount:       v.Amount,
		ResponseCode: v.ResponseCode,
		Message:      v.Message,
	}
	if result.Message == "" && result.ResponseCode != "" {
		result.Message = model.ResponseMessage(result.ResponseCode)
	}
	return result
}

func unavailable(err error) error {
	if errors.Is(err, domainErrors.ErrGatewayUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", domainErrors.ErrGatewayUnavailable, err)
}
