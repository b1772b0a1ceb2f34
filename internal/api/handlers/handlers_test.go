package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/revloop/loyaltyapi/internal/domain"
	"github.com/revloop/loyaltyapi/internal/service"
	"github.com/revloop/loyaltyapi/pkg/errors"
)

// stubOrderService fails or succeeds with canned values per test
type stubOrderService struct {
	views  []domain.OrderView
	result *service.CampaignResult
	err    error
}

func (s *stubOrderService) GetAllOrders(ctx context.Context, shopDomain string) ([]domain.OrderView, error) {
	return s.views, s.err
}

func (s *stubOrderService) MarkCampaignPromiseMet(ctx context.Context, req service.MarkCampaignPromiseMetRequest) (*service.CampaignResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func markCampaign(t *testing.T, svc service.OrderService, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/api/orders/mark-campaign-promise-met", HandleMarkCampaignPromiseMet(svc, zap.NewNop()))

	req := httptest.NewRequest(http.MethodPost, "/api/orders/mark-campaign-promise-met", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const validBody = `{"shop": "test.myshopify.com", "orderId": "#1001", "shopifyOrderId": 555}`

func TestMarkCampaignPromiseMetStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "unknown shop",
			err:        &errors.ErrShopNotFound{ShopDomain: "test.myshopify.com"},
			wantStatus: http.StatusNotFound,
			wantBody:   "shop not found",
		},
		{
			name:       "precondition failure",
			err:        &errors.ErrPrecondition{Message: "order must be fulfilled before marking campaign promise met"},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "must be fulfilled",
		},
		{
			name:       "upstream failure keeps shopify message",
			err:        &errors.ErrUpstream{Operation: "create refund", Message: "Cannot refund more than available"},
			wantStatus: http.StatusInternalServerError,
			wantBody:   "Cannot refund more than available",
		},
		{
			name:       "validation failure",
			err:        &errors.ErrValidation{Message: "expiresAt must be an RFC3339 timestamp"},
			wantStatus: http.StatusBadRequest,
			wantBody:   "RFC3339",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := markCampaign(t, &stubOrderService{err: tt.err}, validBody)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestMarkCampaignPromiseMetSuccess(t *testing.T) {
	refundID := "9001"
	stub := &stubOrderService{
		result: &service.CampaignResult{
			Success:      true,
			RefundID:     &refundID,
			RefundAmount: "250.00",
			Message:      "Refund initiated successfully",
		},
	}

	w := markCampaign(t, stub, validBody)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"refundAmount":"250.00"`)
	assert.Contains(t, w.Body.String(), `"refundId":"9001"`)
}

func TestMarkCampaignPromiseMetRejectsBadRequest(t *testing.T) {
	w := markCampaign(t, &stubOrderService{}, `{"orderId": "#1001"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = markCampaign(t, &stubOrderService{}, `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAllOrdersRequiresShop(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/orders", HandleGetAllOrders(&stubOrderService{}, zap.NewNop()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/orders", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/orders?shop=example.com", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code, "non-myshopify domains are rejected")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/orders?shop=test.myshopify.com", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
