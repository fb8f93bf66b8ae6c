package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront-api/internal/models"
	"storefront-api/internal/services"
	"storefront-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockItemService is a mock implementation of services.ItemService
type MockItemService struct {
	mock.Mock
}

func (m *MockItemService) ListItems(ctx context.Context, req *dto.ListItemsRequest) ([]models.Item, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *MockItemService) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemService) CreateItem(ctx context.Context, req *dto.CreateItemRequest) (*models.Item, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemService) UpdateItem(ctx context.Context, req *dto.UpdateItemRequest) (*models.Item, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemService) DeleteItem(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockItemService) FindItem(ctx context.Context, req *dto.FindItemsRequest) (*models.Item, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemService) FindAllItems(ctx context.Context, req *dto.FindItemsRequest) ([]models.Item, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Item), args.Error(1)
}

var _ services.ItemService = (*MockItemService)(nil)

// MockMerchantService is a mock implementation of services.MerchantService
type MockMerchantService struct {
	mock.Mock
}

func (m *MockMerchantService) ListMerchants(ctx context.Context) ([]models.Merchant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Merchant), args.Error(1)
}

func (m *MockMerchantService) GetMerchant(ctx context.Context, id int64) (*models.Merchant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Merchant), args.Error(1)
}

func (m *MockMerchantService) CreateMerchant(ctx context.Context, req *dto.CreateMerchantRequest) (*models.Merchant, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Merchant), args.Error(1)
}

var _ services.MerchantService = (*MockMerchantService)(nil)

// MockCouponService is a mock implementation of services.CouponService
type MockCouponService struct {
	mock.Mock
}

func (m *MockCouponService) ListCoupons(ctx context.Context, req *dto.ListCouponsRequest) ([]models.Coupon, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Coupon), args.Error(1)
}

func (m *MockCouponService) GetCoupon(ctx context.Context, merchantID, couponID int64) (*models.Coupon, error) {
	args := m.Called(ctx, merchantID, couponID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Coupon), args.Error(1)
}

func (m *MockCouponService) CreateCoupon(ctx context.Context, req *dto.CreateCouponRequest) (*models.Coupon, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Coupon), args.Error(1)
}

func (m *MockCouponService) Activate(ctx context.Context, merchantID, couponID int64) (*models.Coupon, error) {
	args := m.Called(ctx, merchantID, couponID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Coupon), args.Error(1)
}

func (m *MockCouponService) Deactivate(ctx context.Context, merchantID, couponID int64) (*models.Coupon, error) {
	args := m.Called(ctx, merchantID, couponID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Coupon), args.Error(1)
}

var _ services.CouponService = (*MockCouponService)(nil)

// --- Helpers ---

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func doRequest(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

type resourceEnvelope struct {
	Data struct {
		ID         string                 `json:"id"`
		Type       string                 `json:"type"`
		Attributes map[string]interface{} `json:"attributes"`
	} `json:"data"`
}

type listEnvelope struct {
	Data []struct {
		ID         string                 `json:"id"`
		Type       string                 `json:"type"`
		Attributes map[string]interface{} `json:"attributes"`
	} `json:"data"`
}
