package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pcbuilder/storefront/internal/domain/model"
	"github.com/pcbuilder/storefront/internal/server/http/handlers"
	testhelpers "github.com/pcbuilder/storefront/internal/test"
)

func serve(engine *gin.Engine, method, target string, body []byte, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	return resp
}

func newEngine(t *testing.T, facade testhelpers.StorefrontFacadeStub) *gin.Engine {
	t.Helper()
	engine := Setup(facade, testhelpers.DiscardLogger())
	gin.SetMode(gin.TestMode)
	return engine
}

func TestSetupRoutes(t *testing.T) {
	orderID := uuid.New()
	facade := testhelpers.StorefrontFacadeStub{
		OrderFacadeStub: testhelpers.OrderFacadeStub{
			OrdersFn: func(_ context.Context, userID uuid.UUID) ([]model.Order, error) {
				return []model.Order{{ID: orderID, UserID: userID, Status: model.OrderStatusPending}}, nil
			},
		},
	}
	engine := newEngine(t, facade)

	body, _ := json.Marshal(map[string]string{"email": "user@example.com", "password": "secret"})
	if resp := serve(engine, http.MethodPost, "/api/user/register", body, ""); resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for register, got %d", resp.Code)
	}
	if resp := serve(engine, http.MethodGet, "/api/user/orders", nil, ""); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without token, got %d", resp.Code)
	}

	resp := serve(engine, http.MethodGet, "/api/user/orders", nil, "token")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for orders, got %d", resp.Code)
	}
	var orders []model.Order
	if err := json.Unmarshal(resp.Body.Bytes(), &orders); err != nil || len(orders) != 1 || orders[0].ID != orderID {
		t.Fatalf("unexpected orders body %s", resp.Body.String())
	}
}

func TestCatalogRoutesArePublic(t *testing.T) {
	engine := newEngine(t, testhelpers.StorefrontFacadeStub{})
	partID := uuid.New()

	tests := []struct {
		target string
		status int
	}{
		{"/api/catalog", http.StatusOK},
		{"/api/catalog/cpus_detailed", http.StatusOK},
		{"/api/catalog/Cpu/manufacturers", http.StatusOK},
		{"/api/catalog/Cpu/" + partID.String(), http.StatusOK},
		{"/api/catalog/keyboards", http.StatusNotFound},
	}
	for _, tt := range tests {
		if resp := serve(engine, http.MethodGet, tt.target, nil, ""); resp.Code != tt.status {
			t.Fatalf("GET %s: expected %d, got %d", tt.target, tt.status, resp.Code)
		}
	}

	resp := serve(engine, http.MethodGet, "/api/catalog/Cpu/manufacturers", nil, "")
	var makers []string
	if err := json.Unmarshal(resp.Body.Bytes(), &makers); err != nil || len(makers) != 1 {
		t.Fatalf("manufacturers route resolved to the wrong handler: %s", resp.Body.String())
	}
}

func TestAdminRoutesRequireRole(t *testing.T) {
	user := newEngine(t, testhelpers.StorefrontFacadeStub{})
	if resp := serve(user, http.MethodGet, "/api/admin/users", nil, ""); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}
	if resp := serve(user, http.MethodGet, "/api/admin/users", nil, "token"); resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for regular user, got %d", resp.Code)
	}

	admin := newEngine(t, testhelpers.StorefrontFacadeStub{ProfileFacadeStub: testhelpers.ProfileFacadeStub{Admin: true}})
	if resp := serve(admin, http.MethodGet, "/api/admin/users", nil, "token"); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", resp.Code)
	}
	target := "/api/admin/orders/" + uuid.NewString() + "/status"
	if resp := serve(admin, http.MethodPatch, target, []byte(`{"status":"confirmed"}`), "token"); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for status update, got %d", resp.Code)
	}
}

func TestUserRoutes(t *testing.T) {
	engine := newEngine(t, testhelpers.StorefrontFacadeStub{})
	orderID := uuid.NewString()

	tests := []struct {
		method string
		target string
		body   []byte
		status int
	}{
		{http.MethodGet, "/api/user/build", nil, http.StatusOK},
		{http.MethodPut, "/api/user/build/Gpu", []byte(`{"partId":"` + uuid.NewString() + `"}`), http.StatusOK},
		{http.MethodDelete, "/api/user/build/Gpu", nil, http.StatusOK},
		{http.MethodPost, "/api/user/checkout", nil, http.StatusCreated},
		{http.MethodGet, "/api/user/orders/" + orderID, nil, http.StatusOK},
		{http.MethodPost, "/api/user/orders/" + orderID + "/items", []byte(`{"items":[]}`), http.StatusOK},
		{http.MethodPost, "/api/user/orders/" + orderID + "/pay", nil, http.StatusOK},
		{http.MethodGet, "/api/user/payments/return?vnp_TxnRef=" + orderID, nil, http.StatusOK},
		{http.MethodGet, "/api/user/payments/latest", nil, http.StatusNotFound},
		{http.MethodGet, "/api/user/profile", nil, http.StatusOK},
		{http.MethodPut, "/api/user/profile", []byte(`{"displayName":"Minh"}`), http.StatusOK},
	}
	for _, tt := range tests {
		if resp := serve(engine, tt.method, tt.target, tt.body, "token"); resp.Code != tt.status {
			t.Fatalf("%s %s: expected %d, got %d", tt.method, tt.target, tt.status, resp.Code)
		}
	}
}

func TestHealthRoute(t *testing.T) {
	engine := newEngine(t, testhelpers.StorefrontFacadeStub{})
	if resp := serve(engine, http.MethodGet, "/healthz", nil, ""); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

var _ handlers.StorefrontFacade = testhelpers.StorefrontFacadeStub{}
