package vnpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/pcbuilder/storefront/internal/domain/errors"
	"github.com/pcbuilder/storefront/internal/domain/model"
)

const (
	functionCreatePayment = "vnpay-create-payment"
	functionReturn        = "vnpay-return"
	functionQuery         = "vnpay-query"
	functionRefund        = "vnpay-refund"

	transDateLayout = "20060102150405"
)

// The gateway keeps transaction dates in Vietnam time.
var gatewayZone = time.FixedZone("GMT+7", 7*60*60)

// TooManyRequestsError represents rate limiting signal from the payment functions.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Client exposes the hosted payment functions.
type Client interface {
	CreatePayment(ctx context.Context, req model.PaymentRequest) (*model.PaymentSession, error)
	ValidateReturn(ctx context.Context, params url.Values) (*model.GatewayVerdict, error)
	Query(ctx context.Context, orderID uuid.UUID, transDate time.Time) (*model.GatewayVerdict, error)
	Refund(ctx context.Context, req model.RefundRequest) error
}

// HTTPClient implements Client via HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

type createPaymentBody struct {
	Amount    int64  `json:"amount"`
	Language  string `json:"language,omitempty"`
	OrderInfo string `json:"orderInfo"`
	UserID    string `json:"userId"`
	OrderID   string `json:"orderId"`
}

type createPaymentResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
	Data    *struct {
		PaymentURL string `json:"paymentUrl"`
		OrderID    string `json:"orderId"`
	} `json:"data"`
}

type queryBody struct {
	OrderID   string `json:"orderId"`
	TransDate string `json:"transDate"`
}

type refundBody struct {
	OrderID         string `json:"orderId"`
	TransactionDate string `json:"transactionDate"`
	Amount          int64  `json:"amount"`
	Message         string `json:"message,omitempty"`
}

// verdictResponse mirrors the JSON returned by the return and query functions.
type verdictResponse struct {
	Success      bool        `json:"success"`
	OrderID      string      `json:"orderId"`
	Amount       json.Number `json:"amount"`
	ResponseCode string      `json:"responseCode"`
	Message      string      `json:"message"`
}

type refundResponse struct {
	Success      bool   `json:"success"`
	ResponseCode string `json:"responseCode"`
	Message      string `json:"message"`
}

// NewHTTPClient creates payment functions client with default timeout.
func NewHTTPClient(baseURL, apiKey string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse payment functions url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("payment functions url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		apiKey:  apiKey,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// CreatePayment requests a payment session for an order.
func (c *HTTPClient) CreatePayment(ctx context.Context, req model.PaymentRequest) (*model.PaymentSession, error) {
	body := createPaymentBody{
		Amount:    req.Amount,
		Language:  req.Language,
		OrderInfo: req.OrderInfo,
		UserID:    req.UserID.String(),
		OrderID:   req.OrderID.String(),
	}
	data, err := c.do(ctx, http.MethodPost, functionCreatePayment, nil, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrPaymentInitiation, err)
	}

	var resp createPaymentResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", domainErrors.ErrPaymentInitiation, err)
	}
	if !resp.Success {
		reason := resp.Error
		if reason == "" {
			reason = resp.Message
		}
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrPaymentInitiation, reason)
	}
	if resp.Data == nil || resp.Data.PaymentURL == "" {
		return nil, fmt.Errorf("%w: response has no payment url", domainErrors.ErrPaymentInitiation)
	}

	session := &model.PaymentSession{PaymentURL: resp.Data.PaymentURL, OrderID: resp.Data.OrderID}
	if session.OrderID == "" {
		session.OrderID = body.OrderID
	}
	return session, nil
}

// ValidateReturn forwards the gateway redirect parameters for signature validation.
func (c *HTTPClient) ValidateReturn(ctx context.Context, params url.Values) (*model.GatewayVerdict, error) {
	data, err := c.do(ctx, http.MethodGet, functionReturn, params, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrGatewayUnavailable, err)
	}
	return decodeVerdict(data)
}

// Query asks the gateway for the current state of a transaction.
func (c *HTTPClient) Query(ctx context.Context, orderID uuid.UUID, transDate time.Time) (*model.GatewayVerdict, error) {
	body := queryBody{OrderID: orderID.String(), TransDate: FormatTransDate(transDate)}
	data, err := c.do(ctx, http.MethodPost, functionQuery, nil, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrGatewayUnavailable, err)
	}
	return decodeVerdict(data)
}

// Refund asks the gateway to return a settled amount.
func (c *HTTPClient) Refund(ctx context.Context, req model.RefundRequest) error {
	body := refundBody{
		OrderID:         req.OrderID.String(),
		TransactionDate: FormatTransDate(req.TransactionDate),
		Amount:          req.Amount,
		Message:         req.Message,
	}
	data, err := c.do(ctx, http.MethodPost, functionRefund, nil, body)
	if err != nil {
		return fmt.Errorf("%w: %w", domainErrors.ErrGatewayUnavailable, err)
	}

	var resp refundResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("%w: decode refund response: %w", domainErrors.ErrGatewayUnavailable, err)
	}
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = model.ResponseMessage(resp.ResponseCode)
		}
		return fmt.Errorf("%w: %s", domainErrors.ErrRefundRejected, msg)
	}
	return nil
}

// FormatTransDate renders t the way the gateway expects transaction dates.
func FormatTransDate(t time.Time) string {
	return t.In(gatewayZone).Format(transDateLayout)
}

func decodeVerdict(data []byte) (*model.GatewayVerdict, error) {
	var resp verdictResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", domainErrors.ErrGatewayUnavailable, err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", domainErrors.ErrGatewayUnavailable, err)
	}

	var amount int64
	if resp.Amount != "" {
		parsed, err := decimal.NewFromString(resp.Amount.String())
		if err != nil {
			return nil, fmt.Errorf("%w: invalid amount %q", domainErrors.ErrGatewayUnavailable, resp.Amount)
		}
		amount = parsed.Round(0).IntPart()
	}

	msg := resp.Message
	if msg == "" {
		msg = model.ResponseMessage(resp.ResponseCode)
	}
	return &model.GatewayVerdict{
		Success:      resp.Success,
		OrderID:      resp.OrderID,
		Amount:       amount,
		ResponseCode: resp.ResponseCode,
		Message:      msg,
		Raw:          raw,
	}, nil
}

func (c *HTTPClient) endpoint(function string, query url.Values) string {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, function)
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}
	return endpoint.String()
}

func (c *HTTPClient) do(ctx context.Context, method, function string, query url.Values, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", function, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(function, query), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Error("payment function request failed",
			slog.String("function", function),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(data)))
		return nil, fmt.Errorf("%s error: %s", function, resp.Status)
	}
	return data, nil
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}
