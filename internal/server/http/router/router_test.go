package router

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fotovariedades/storefront/internal/domain/model"
	pkgAuth "github.com/fotovariedades/storefront/internal/pkg/auth"
	"github.com/fotovariedades/storefront/internal/server/http/handlers"
	"github.com/fotovariedades/storefront/internal/server/ws"
	testhelpers "github.com/fotovariedades/storefront/internal/test"
)

func newEngine(t *testing.T) *gin.Engine {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	facade := testhelpers.FacadeStub{
		AuthorizerStub: testhelpers.AuthorizerStub{Fn: func(_ context.Context, token string) (model.Principal, error) {
			switch token {
			case "admin":
				return testhelpers.AdminPrincipal, nil
			case "staff":
				return testhelpers.StaffPrincipal, nil
			case "customer":
				return testhelpers.CustomerPrincipal, nil
			}
			return model.Principal{}, pkgAuth.ErrInvalidToken
		}},
		ProductFn: func(_ context.Context, _ *model.Principal, id int64) (*model.Product, error) {
			return &model.Product{ID: id, Name: "Mug", IsActive: true}, nil
		},
		UpdateProductFn: func(_ context.Context, id int64, _ model.ProductPatch) (*model.Product, error) {
			return &model.Product{ID: id, Name: "Mug"}, nil
		},
	}
	return Setup(facade, ws.NewHub(), logger)
}

func TestSetupRoutes(t *testing.T) {
	engine := newEngine(t)
	orderPath := "/api/orders/" + uuid.NewString()

	tests := []struct {
		method string
		path   string
		token  string
		body   string
		status int
	}{
		{http.MethodGet, "/healthz", "", "", http.StatusOK},

		{http.MethodPost, "/api/auth/register", "", `{"email":"a@b.co","password":"secret123"}`, http.StatusCreated},
		{http.MethodPost, "/api/auth/token", "", `{"email":"a@b.co","password":"secret123"}`, http.StatusOK},
		{http.MethodGet, "/api/auth/me", "", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/auth/me", "expired", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/auth/me", "customer", "", http.StatusOK},
		{http.MethodPost, "/api/auth/refresh", "staff", "", http.StatusOK},
		{http.MethodPut, "/api/auth/password", "customer", `{"current_password":"a","new_password":"b"}`, http.StatusNoContent},

		{http.MethodGet, "/api/products", "", "", http.StatusOK},
		{http.MethodGet, "/api/products", "expired", "", http.StatusOK},
		{http.MethodGet, "/api/products/1", "", "", http.StatusOK},
		{http.MethodPost, "/api/products", "", `{"name":"Frame","price":"10"}`, http.StatusUnauthorized},
		{http.MethodPost, "/api/products", "staff", `{"name":"Frame","price":"10"}`, http.StatusForbidden},
		{http.MethodPost, "/api/products", "admin", `{"name":"Frame","price":"10"}`, http.StatusCreated},
		{http.MethodPut, "/api/products/1", "admin", `{"name":"Mug"}`, http.StatusOK},
		{http.MethodDelete, "/api/products/1", "customer", "", http.StatusForbidden},
		{http.MethodDelete, "/api/products/1", "admin", "", http.StatusNoContent},
		{http.MethodPost, "/api/products/1/inventory", "admin", `{"delta":5}`, http.StatusOK},

		{http.MethodPost, "/api/checkout", "", `{"items":[{"product_id":1,"quantity":1}]}`, http.StatusUnauthorized},
		{http.MethodPost, "/api/checkout", "staff", `{"items":[{"product_id":1,"quantity":1}]}`, http.StatusForbidden},
		{http.MethodPost, "/api/checkout", "customer", `{"items":[{"product_id":1,"quantity":1}]}`, http.StatusCreated},

		{http.MethodPost, "/api/webhooks/wompi", "", `{"event":"transaction.updated"}`, http.StatusOK},

		{http.MethodGet, "/api/orders", "customer", "", http.StatusOK},
		{http.MethodGet, orderPath, "customer", "", http.StatusOK},
		{http.MethodGet, orderPath + "/qr", "customer", "", http.StatusOK},
		{http.MethodGet, orderPath + "/payments", "customer", "", http.StatusOK},
		{http.MethodPost, orderPath + "/cancel", "customer", "", http.StatusOK},
		{http.MethodPost, "/api/orders/redeem", "customer", `{"code":"ABCD-EFGH-JKM2"}`, http.StatusForbidden},
		{http.MethodPost, "/api/orders/redeem", "staff", `{"code":"ABCD-EFGH-JKM2"}`, http.StatusOK},

		{http.MethodGet, "/api/admin/orders", "customer", "", http.StatusForbidden},
		{http.MethodGet, "/api/admin/orders", "staff", "", http.StatusOK},
		{http.MethodGet, "/api/admin/orders/stats", "staff", "", http.StatusOK},
		{http.MethodGet, "/api/admin/payments", "staff", "", http.StatusOK},
		{http.MethodGet, "/api/admin/payments/stats", "admin", "", http.StatusOK},
		{http.MethodGet, "/api/admin/payments/tx-1", "customer", "", http.StatusForbidden},
		{http.MethodGet, "/api/admin/payments/tx-1", "staff", "", http.StatusOK},
		{http.MethodGet, "/api/admin/users", "staff", "", http.StatusForbidden},
		{http.MethodGet, "/api/admin/users", "admin", "", http.StatusOK},
		{http.MethodPost, "/api/admin/users", "admin", `{"email":"s@x.co","password":"secret123","role":"STAFF"}`, http.StatusCreated},
		{http.MethodPatch, "/api/admin/users/7", "admin", `{"is_active":false}`, http.StatusOK},

		{http.MethodGet, "/api/staff/events", "customer", "", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path+" as "+tt.token, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, tt.path, body)
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			resp := httptest.NewRecorder()
			engine.ServeHTTP(resp, req)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d: %s", tt.status, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestSetupCompressesResponses(t *testing.T) {
	products := make([]model.Product, 0, 50)
	for i := 1; i <= 50; i++ {
		products = append(products, model.Product{ID: int64(i), Name: "Printed canvas", Description: strings.Repeat("matte finish ", 10), IsActive: true})
	}
	facade := testhelpers.FacadeStub{ProductsFn: func(context.Context, *model.Principal, model.ProductFilter, model.Page) ([]model.Product, int, error) {
		return products, len(products), nil
	}}
	engine := Setup(facade, ws.NewHub(), slog.New(slog.NewJSONHandler(io.Discard, nil)))
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if resp.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("expected gzip response, got headers %v", resp.Header())
	}
	if bytes.HasPrefix(resp.Body.Bytes(), []byte("{")) {
		t.Fatal("expected compressed body")
	}
}

var _ handlers.StorefrontFacade = testhelpers.FacadeStub{}
