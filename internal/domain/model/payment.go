package model

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus is the stored state of a gateway transaction.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// IsTerminal reports whether the payment was settled.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed || s == PaymentStatusCancelled
}

// Transition returns the status after applying next. Terminal states never
// change and pending is the only source state.
func (s PaymentStatus) Transition(next PaymentStatus) (PaymentStatus, bool) {
	if s != PaymentStatusPending || !next.IsTerminal() {
		return s, false
	}
	return next, true
}

// Payment is the local record of a gateway transaction for an order.
type Payment struct {
	ID              int64
	OrderID         uuid.UUID
	UserID          uuid.UUID
	Amount          int64
	Status          PaymentStatus
	GatewayResponse map[string]any
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BankCode returns the bank code recorded by the gateway, if any.
func (p *Payment) BankCode() string {
	return p.responseField("vnp_BankCode", "bankCode")
}

// CardType returns the card type recorded by the gateway, if any.
func (p *Payment) CardType() string {
	return p.responseField("vnp_CardType", "cardType")
}

// TransactionNo returns the gateway transaction number, if any.
func (p *Payment) TransactionNo() string {
	return p.responseField("vnp_TransactionNo", "transactionNo")
}

// ResponseCode returns the gateway response code recorded for the payment.
func (p *Payment) ResponseCode() string {
	return p.responseField("vnp_ResponseCode", "responseCode")
}

func (p *Payment) responseField(keys ...string) string {
	if p == nil || p.GatewayResponse == nil {
		return ""
	}
	for _, k := range keys {
		if v, ok := p.GatewayResponse[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// PaymentOutcome is the result of a reconciliation.
type PaymentOutcome string

const (
	OutcomeCompleted     PaymentOutcome = "completed"
	OutcomeFailed        PaymentOutcome = "failed"
	OutcomeCancelled     PaymentOutcome = "cancelled"
	OutcomePending       PaymentOutcome = "pending"
	OutcomeIndeterminate PaymentOutcome = "indeterminate"
)

// OutcomeFromStatus reports a stored status as an outcome.
func OutcomeFromStatus(s PaymentStatus) PaymentOutcome {
	switch s {
	case PaymentStatusCompleted:
		return OutcomeCompleted
	case PaymentStatusFailed:
		return OutcomeFailed
	case PaymentStatusCancelled:
		return OutcomeCancelled
	case PaymentStatusPending:
		return OutcomePending
	}
	return OutcomeIndeterminate
}

// GatewayVerdict is what the validation or query service reported.
type GatewayVerdict struct {
	Success      bool
	OrderID      string
	Amount       int64
	ResponseCode string
	Message      string
	Raw          map[string]any
}

// Status maps a verdict to the terminal payment status it implies.
func (v GatewayVerdict) Status() PaymentStatus {
	switch {
	case v.ResponseCode == ResponseCodeSuccess && v.Success:
		return PaymentStatusCompleted
	case v.ResponseCode == ResponseCodeCancelled:
		return PaymentStatusCancelled
	default:
		return PaymentStatusFailed
	}
}

// PaymentResult is what a reconciliation reports to the caller.
type PaymentResult struct {
	Outcome       PaymentOutcome `json:"outcome"`
	OrderID       string         `json:"orderId,omitempty"`
	Amount        int64          `json:"amount,omitempty"`
	ResponseCode  string         `json:"responseCode,omitempty"`
	Message       string         `json:"message,omitempty"`
	BankCode      string         `json:"bankCode,omitempty"`
	CardType      string         `json:"cardType,omitempty"`
	TransactionNo string         `json:"transactionNo,omitempty"`
	CreatedAt     *time.Time     `json:"createdAt,omitempty"`
	UpdatedAt     *time.Time     `json:"updatedAt,omitempty"`
}

// Enrich copies stored metadata into the result.
func (r *PaymentResult) Enrich(p *Payment) {
	if p == nil {
		return
	}
	r.BankCode = p.BankCode()
	r.CardType = p.CardType()
	r.TransactionNo = p.TransactionNo()
	created, updated := p.CreatedAt, p.UpdatedAt
	r.CreatedAt = &created
	r.UpdatedAt = &updated
	if r.OrderID == "" {
		r.OrderID = p.OrderID.String()
	}
	if r.Amount == 0 {
		r.Amount = p.Amount
	}
}

// PaymentSession is a created gateway session the client redirects to.
type PaymentSession struct {
	PaymentURL string `json:"paymentUrl"`
	OrderID    string `json:"orderId"`
}

// CheckoutResult combines the created order, its amount and payment session.
type CheckoutResult struct {
	OrderID    uuid.UUID `json:"orderId"`
	Amount     int64     `json:"amount"`
	PaymentURL string    `json:"paymentUrl"`
}

// PaymentRequest asks the gateway for a new payment session.
type PaymentRequest struct {
	OrderID   uuid.UUID
	UserID    uuid.UUID
	Amount    int64
	OrderInfo string
	Language  string
}

// RefundRequest asks the gateway to refund a settled transaction.
type RefundRequest struct {
	OrderID         uuid.UUID
	TransactionDate time.Time
	Amount          int64
	Message         string
}
