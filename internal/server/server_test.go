package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront-api/config"
	"storefront-api/internal/app"
	"storefront-api/internal/storage/memory"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "server-test-secret"

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{Port: 8080, Host: "localhost", Mode: "test", OpenAPIValidate: true},
		DB:     config.DBConfig{Driver: config.DriverMemory},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		JWT:    config.JWTConfig{Secret: testSecret},
	}
	application := app.NewWithStore(cfg, zap.NewNop(), memory.NewStore())
	srv, err := NewServer(application)
	require.NoError(t, err)
	return srv.Handler()
}

func merchantToken(t *testing.T, merchantID string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   merchantID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func call(h http.Handler, method, target, body, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func dataID(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp.Data.ID
}

func TestServer_CouponLifecycle(t *testing.T) {
	h := newTestServer(t)

	w := call(h, http.MethodPost, "/api/v1/merchants", `{"name":"Corner Shop"}`, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	merchantID := dataID(t, w)
	auth := merchantToken(t, merchantID)
	base := "/api/v1/merchants/" + merchantID + "/coupons"

	w = call(h, http.MethodPost, base, `{"name":"Free","code":"FREE"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call(h, http.MethodPost, base, `{"name":"Free","code":"FREE"}`, merchantToken(t, "999"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	var ids []string
	for i := 0; i < 6; i++ {
		body := fmt.Sprintf(`{"name":"Coupon %d","code":"CODE%d","percent_off":10}`, i, i)
		w = call(h, http.MethodPost, base, body, auth)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created struct {
			Coupon struct {
				Data struct {
					ID string `json:"id"`
				} `json:"data"`
			} `json:"coupon"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		ids = append(ids, created.Coupon.Data.ID)
	}

	for _, id := range ids[:5] {
		w = call(h, http.MethodPatch, base+"/"+id+"/activate", "", auth)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = call(h, http.MethodPatch, base+"/"+ids[5]+"/activate", "", auth)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "A merchant can only have up to 5 active coupons at a time")

	w = call(h, http.MethodPatch, base+"/"+ids[0]+"/deactivate", "", auth)
	assert.Equal(t, http.StatusOK, w.Code)

	w = call(h, http.MethodPatch, base+"/"+ids[5]+"/activate", "", auth)
	assert.Equal(t, http.StatusOK, w.Code)

	w = call(h, http.MethodGet, base+"?status=active", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data []json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Data, 5)

	w = call(h, http.MethodGet, base+"?status=expired", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_ItemsAndSearch(t *testing.T) {
	h := newTestServer(t)

	w := call(h, http.MethodPost, "/api/v1/merchants", `{"name":"Grocer"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)
	merchantID := dataID(t, w)

	for _, it := range []struct{ name, price string }{{"Apple", "1.25"}, {"Banana", "0.5"}, {"Pineapple", "4"}} {
		body := fmt.Sprintf(`{"name":%q,"description":"fruit","unit_price":%s,"merchant_id":%s}`, it.name, it.price, merchantID)
		w = call(h, http.MethodPost, "/api/v1/items", body, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w = call(h, http.MethodGet, "/api/v1/items/find?name=apple", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Apple"`)

	w = call(h, http.MethodGet, "/api/v1/items/find_all?min_price=1", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Banana")

	w = call(h, http.MethodGet, "/api/v1/items/find?name=a&min_price=1", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(h, http.MethodGet, "/api/v1/items/abc", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = call(h, http.MethodGet, "/api/v1/merchants/"+merchantID+"/items?sorted=price", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Less(t, strings.Index(w.Body.String(), "Banana"), strings.Index(w.Body.String(), "Apple"))
}

func TestServer_Ambient(t *testing.T) {
	h := newTestServer(t)

	w := call(h, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = call(h, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/items", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
