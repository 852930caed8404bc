package vnpay

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/pcbuilder/storefront/internal/domain/errors"
	"github.com/pcbuilder/storefront/internal/domain/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewHTTPClient(srv.URL+"/functions/v1", "anon-key", testLogger())
	require.NoError(t, err)
	return client
}

func TestNewHTTPClientValidatesURL(t *testing.T) {
	if _, err := NewHTTPClient("://bad-url", "", testLogger()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewHTTPClient("/relative", "", testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestCreatePayment(t *testing.T) {
	orderID, userID := uuid.New(), uuid.New()
	var got createPaymentBody

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/functions/v1/vnpay-create-payment", r.URL.Path)
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"success":true,"data":{"paymentUrl":"https://pay.example/redirect","orderId":"`+orderID.String()+`"}}`)
	})

	session, err := client.CreatePayment(context.Background(), model.PaymentRequest{
		OrderID:   orderID,
		UserID:    userID,
		Amount:    35050,
		OrderInfo: "PC Build Order for a@b.c",
		Language:  "vn",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/redirect", session.PaymentURL)
	assert.Equal(t, orderID.String(), session.OrderID)
	assert.Equal(t, createPaymentBody{
		Amount:    35050,
		Language:  "vn",
		OrderInfo: "PC Build Order for a@b.c",
		UserID:    userID.String(),
		OrderID:   orderID.String(),
	}, got)
}

func TestCreatePaymentFallsBackToRequestedOrderID(t *testing.T) {
	orderID := uuid.New()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"data":{"paymentUrl":"https://pay.example/x"}}`)
	})

	session, err := client.CreatePayment(context.Background(), model.PaymentRequest{OrderID: orderID})
	require.NoError(t, err)
	assert.Equal(t, orderID.String(), session.OrderID)
}

func TestCreatePaymentFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `boom`},
		{name: "not successful", status: http.StatusOK, body: `{"success":false,"error":"invalid amount"}`},
		{name: "missing url", status: http.StatusOK, body: `{"success":true,"data":{"orderId":"x"}}`},
		{name: "missing data", status: http.StatusOK, body: `{"success":true}`},
		{name: "malformed json", status: http.StatusOK, body: `{"success":`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})
			_, err := client.CreatePayment(context.Background(), model.PaymentRequest{OrderID: uuid.New()})
			require.ErrorIs(t, err, domainErrors.ErrPaymentInitiation)
		})
	}
}

func TestCreatePaymentUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	client, err := NewHTTPClient(base, "", testLogger())
	require.NoError(t, err)
	_, err = client.CreatePayment(context.Background(), model.PaymentRequest{})
	require.ErrorIs(t, err, domainErrors.ErrPaymentInitiation)
}

func TestValidateReturn(t *testing.T) {
	orderID := uuid.New()
	params := url.Values{
		"vnp_TxnRef":       []string{orderID.String()},
		"vnp_ResponseCode": []string{"00"},
		"vnp_SecureHash":   []string{"abc"},
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/functions/v1/vnpay-return", r.URL.Path)
		assert.Equal(t, params, r.URL.Query())
		_, _ = io.WriteString(w, `{"success":true,"orderId":"`+orderID.String()+`","amount":35050,"responseCode":"00","message":"ok"}`)
	})

	verdict, err := client.ValidateReturn(context.Background(), params)
	require.NoError(t, err)
	assert.True(t, verdict.Success)
	assert.Equal(t, orderID.String(), verdict.OrderID)
	assert.Equal(t, int64(35050), verdict.Amount)
	assert.Equal(t, "00", verdict.ResponseCode)
	assert.Equal(t, "ok", verdict.Message)
	assert.Equal(t, "00", verdict.Raw["responseCode"])
	assert.Equal(t, model.PaymentStatusCompleted, verdict.Status())
}

func TestValidateReturnAcceptsQuotedAmountAndFillsMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":false,"orderId":"x","amount":"100.00","responseCode":"24"}`)
	})

	verdict, err := client.ValidateReturn(context.Background(), url.Values{"a": []string{"b"}})
	require.NoError(t, err)
	assert.Equal(t, int64(100), verdict.Amount)
	assert.Equal(t, model.ResponseMessage("24"), verdict.Message)
	assert.Equal(t, model.PaymentStatusCancelled, verdict.Status())
}

func TestValidateReturnFailuresAreUnavailable(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusBadGateway, body: `bad gateway`},
		{name: "invalid json", status: http.StatusOK, body: `<html>`},
		{name: "invalid amount", status: http.StatusOK, body: `{"success":true,"amount":"lots"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})
			_, err := client.ValidateReturn(context.Background(), url.Values{"a": []string{"b"}})
			require.ErrorIs(t, err, domainErrors.ErrGatewayUnavailable)
		})
	}
}

func TestQuery(t *testing.T) {
	orderID := uuid.New()
	created := time.Date(2024, 5, 1, 3, 4, 5, 0, time.UTC)
	var got queryBody

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/functions/v1/vnpay-query", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"success":true,"orderId":"`+orderID.String()+`","amount":200,"responseCode":"00","vnp_BankCode":"NCB"}`)
	})

	verdict, err := client.Query(context.Background(), orderID, created)
	require.NoError(t, err)
	assert.Equal(t, queryBody{OrderID: orderID.String(), TransDate: "20240501100405"}, got)
	assert.Equal(t, int64(200), verdict.Amount)
	assert.Equal(t, "NCB", verdict.Raw["vnp_BankCode"])
}

func TestQueryRateLimited(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Query(context.Background(), uuid.New(), time.Now())
	var tm TooManyRequestsError
	require.ErrorAs(t, err, &tm)
	assert.Equal(t, 7*time.Second, tm.RetryAfter)
	assert.ErrorIs(t, err, domainErrors.ErrGatewayUnavailable)
}

func TestRefund(t *testing.T) {
	orderID := uuid.New()
	settled := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)
	var got refundBody

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/functions/v1/vnpay-refund", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"success":true,"responseCode":"00"}`)
	})

	err := client.Refund(context.Background(), model.RefundRequest{
		OrderID:         orderID,
		TransactionDate: settled,
		Amount:          35050,
		Message:         "customer request",
	})
	require.NoError(t, err)
	assert.Equal(t, refundBody{
		OrderID:         orderID.String(),
		TransactionDate: "20240502030000",
		Amount:          35050,
		Message:         "customer request",
	}, got)
}

func TestRefundFailures(t *testing.T) {
	rejected := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":false,"responseCode":"94"}`)
	})
	err := rejected.Refund(context.Background(), model.RefundRequest{OrderID: uuid.New()})
	require.ErrorIs(t, err, domainErrors.ErrRefundRejected)

	broken := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	err = broken.Refund(context.Background(), model.RefundRequest{OrderID: uuid.New()})
	require.ErrorIs(t, err, domainErrors.ErrGatewayUnavailable)

	garbled := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `nope`)
	})
	err = garbled.Refund(context.Background(), model.RefundRequest{OrderID: uuid.New()})
	require.ErrorIs(t, err, domainErrors.ErrGatewayUnavailable)
}

func TestRequestsLogErrorResponses(t *testing.T) {
	called := make(chan struct{}, 1)
	handler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.LevelKey && a.Value.Any() == slog.LevelError {
			select {
			case called <- struct{}{}:
			default:
			}
		}
		return a
	}})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, "", slog.New(handler))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	if _, err := client.ValidateReturn(context.Background(), url.Values{"a": []string{"b"}}); err == nil {
		t.Fatal("expected error from server")
	}

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("expected error log to be written")
	}
}

func TestRequestWithoutKeyOmitsAuthorization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"success":true,"responseCode":"00"}`)
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, "", testLogger())
	require.NoError(t, err)
	require.NoError(t, client.Refund(context.Background(), model.RefundRequest{}))
}

func TestFormatTransDate(t *testing.T) {
	ts := time.Date(2024, 12, 31, 18, 30, 0, 0, time.UTC)
	if got := FormatTransDate(ts); got != "20250101013000" {
		t.Fatalf("unexpected trans date %q", got)
	}
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Now()
	httpTime := now.Add(2 * time.Second).UTC().Format(http.TimeFormat)

	cases := []struct {
		name   string
		header string
		want   time.Duration
	}{
		{name: "empty", header: "", want: 5 * time.Second},
		{name: "seconds", header: "7", want: 7 * time.Second},
		{name: "http date", header: httpTime, want: 2 * time.Second},
		{name: "fallback", header: "bad", want: 5 * time.Second},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := parseRetryAfter(tc.header)
			if tc.header == httpTime {
				if got <= 0 || got > 3*time.Second {
					t.Fatalf("unexpected retry duration %v", got)
				}
			} else if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestTooManyRequestsErrorMessage(t *testing.T) {
	err := error(TooManyRequestsError{RetryAfter: time.Second})
	var tm TooManyRequestsError
	if !errors.As(err, &tm) || err.Error() != "too many requests, retry after 1s" {
		t.Fatalf("unexpected error: %v", err)
	}
}
