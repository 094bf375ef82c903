package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IT22091352/wasana-products/internal/api"
	"github.com/IT22091352/wasana-products/internal/config"
	"github.com/IT22091352/wasana-products/internal/store"
	filestore "github.com/IT22091352/wasana-products/internal/store/file"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dataDir := t.TempDir()
	inquiries, err := filestore.NewInquiryStore(dataDir)
	require.NoError(t, err)
	users, err := filestore.NewUserStore(dataDir)
	require.NoError(t, err)

	cfg := &config.Config{
		JwtSecret: "test-secret",
		JwtTTL:    time.Hour,
		// Generous limits so tests never trip the limiter.
		RateLimitSoftBucketSize: 1000,
		RateLimitSoftRefillRate: 1000,
		RateLimitHardBucketSize: 1000,
		RateLimitHardRefillRate: 1000,
	}
	return api.SetupRouter(cfg, store.Stores{Inquiries: inquiries, Users: users}, nil)
}

func doJSON(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// registerAndLogin creates an account and returns a usable token.
func registerAndLogin(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w := doJSON(router, "POST", "/api/auth/register", "", gin.H{
		"username": "staff",
		"email":    "staff@wasana.lk",
		"password": "secret12",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	token := body["data"].(map[string]interface{})["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealthz(t *testing.T) {
	router := setupTestRouter(t)
	w := doJSON(router, "GET", "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProducts(t *testing.T) {
	router := setupTestRouter(t)
	w := doJSON(router, "GET", "/api/products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	products := body["data"].(map[string]interface{})["products"].([]interface{})
	require.Len(t, products, 3)
	first := products[0].(map[string]interface{})
	assert.Equal(t, "pure-white", first["code"])
	assert.Equal(t, float64(2500), first["price_per_bundle"])
}

func TestRegister_DuplicateRejected(t *testing.T) {
	router := setupTestRouter(t)
	registerAndLogin(t, router)

	w := doJSON(router, "POST", "/api/auth/register", "", gin.H{
		"username": "STAFF",
		"email":    "other@wasana.lk",
		"password": "secret12",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Username or email already in use", decode(t, w)["message"])
}

func TestLogin_WrongPassword(t *testing.T) {
	router := setupTestRouter(t)
	registerAndLogin(t, router)

	w := doJSON(router, "POST", "/api/auth/login", "", gin.H{
		"username": "staff",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid username or password", decode(t, w)["message"])

	// Unknown username gives the same message.
	w2 := doJSON(router, "POST", "/api/auth/login", "", gin.H{
		"username": "nobody",
		"password": "secret12",
	})
	assert.Equal(t, http.StatusUnauthorized, w2.Code)
	assert.Equal(t, "Invalid username or password", decode(t, w2)["message"])
}

func TestVerify_TokenSources(t *testing.T) {
	router := setupTestRouter(t)
	token := registerAndLogin(t, router)

	// No token.
	w := doJSON(router, "GET", "/api/auth/verify", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Bearer header.
	w = doJSON(router, "GET", "/api/auth/verify", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	user := decode(t, w)["data"].(map[string]interface{})["user"].(map[string]interface{})
	assert.Equal(t, "staff", user["username"])

	// Query parameter.
	w = doJSON(router, "GET", "/api/auth/verify?token="+token, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Cookie.
	req, _ := http.NewRequest("GET", "/api/auth/verify", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestChangePassword(t *testing.T) {
	router := setupTestRouter(t)
	token := registerAndLogin(t, router)

	w := doJSON(router, "POST", "/api/auth/change-password", token, gin.H{
		"current_password": "wrong",
		"new_password":     "newsecret",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Current password is incorrect", decode(t, w)["message"])

	w = doJSON(router, "POST", "/api/auth/change-password", token, gin.H{
		"current_password": "secret12",
		"new_password":     "newsecret",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "POST", "/api/auth/login", "", gin.H{
		"username": "staff",
		"password": "newsecret",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func submitInquiry(t *testing.T, router *gin.Engine, token string, quantity int) map[string]interface{} {
	t.Helper()
	w := doJSON(router, "POST", "/api/inquiries", token, gin.H{
		"customer_name": "Nimal Perera",
		"phone":         "0771234567",
		"email":         "nimal@example.com",
		"address":       "12 Temple Road",
		"city":          "Kandy",
		"product":       "inside-printed",
		"size":          "M",
		"quantity":      quantity,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["data"].(map[string]interface{})
}

func TestCreateInquiry(t *testing.T) {
	router := setupTestRouter(t)
	token := registerAndLogin(t, router)

	// Unauthenticated submission is rejected.
	w := doJSON(router, "POST", "/api/inquiries", "", gin.H{"customer_name": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	data := submitInquiry(t, router, token, 3)
	assert.Equal(t, "Nimal Perera", data["customer_name"])
	assert.Equal(t, "Inside Printed Envelopes", data["product"])
	assert.Equal(t, float64(9000), data["total_amount"])
	assert.NotEmpty(t, data["id"])
}

func TestCreateInquiry_ClientPriceIgnored(t *testing.T) {
	router := setupTestRouter(t)
	token := registerAndLogin(t, router)

	w := doJSON(router, "POST", "/api/inquiries", token, gin.H{
		"customer_name":    "Nimal Perera",
		"phone":            "0771234567",
		"email":            "nimal@example.com",
		"address":          "12 Temple Road",
		"city":             "Kandy",
		"product":          "sealed-printed",
		"size":             "L",
		"quantity":         2,
		"price_per_bundle": 1, // attempted tampering
		"total_amount":     2,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(7000), data["total_amount"])
}

func TestCreateInquiry_ValidationFailure(t *testing.T) {
	router := setupTestRouter(t)
	token := registerAndLogin(t, router)

	w := doJSON(router, "POST", "/api/inquiries", token, gin.H{
		"email":    "bad",
		"product":  "mystery",
		"quantity": 0,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Validation failed", body["message"])
	assert.NotEmpty(t, body["errors"])
}

func TestInquiryAdminFlow(t *testing.T) {
	router := setupTestRouter(t)
	token := registerAndLogin(t, router)

	created := submitInquiry(t, router, token, 3)
	id := created["id"].(string)

	// List.
	w := doJSON(router, "GET", "/api/inquiries", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["total"])

	// Get unknown id.
	w = doJSON(router, "GET", "/api/inquiries/nope", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Patch status and read flag.
	w = doJSON(router, "PATCH", "/api/inquiries/"+id, token, gin.H{
		"status":  "contacted",
		"is_read": true,
	})
	require.Equal(t, http.StatusOK, w.Code)
	patched := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "contacted", patched["status"])
	assert.Equal(t, true, patched["is_read"])

	// Unknown status is rejected.
	w = doJSON(router, "PATCH", "/api/inquiries/"+id, token, gin.H{"status": "shipped"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Filtered list finds the contacted inquiry.
	w = doJSON(router, "GET", "/api/inquiries?status=contacted", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data = decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["total"])

	// Delete, then the record is gone.
	w = doJSON(router, "DELETE", "/api/inquiries/"+id, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(router, "DELETE", "/api/inquiries/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInquiryStats(t *testing.T) {
	router := setupTestRouter(t)
	token := registerAndLogin(t, router)

	created := submitInquiry(t, router, token, 3)
	submitInquiry(t, router, token, 1)

	w := doJSON(router, "PATCH", fmt.Sprintf("/api/inquiries/%s", created["id"]), token, gin.H{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "GET", "/api/inquiries/stats/summary", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode(t, w)["data"].(map[string]interface{})
	revenue := stats["revenue"].(map[string]interface{})
	assert.Equal(t, float64(9000), revenue["total_revenue"])
	assert.Equal(t, float64(1), revenue["total_orders"])

	w = doJSON(router, "GET", "/api/inquiries/stats/monthly", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	monthly := decode(t, w)["data"].(map[string]interface{})["monthly"].([]interface{})
	require.Len(t, monthly, 1)
	bucket := monthly[0].(map[string]interface{})
	assert.Equal(t, float64(2), bucket["count"])
	assert.Equal(t, float64(12000), bucket["revenue"])
}
