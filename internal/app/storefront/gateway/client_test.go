package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"meadowmarket/internal/app/storefront/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	return NewClient(server.URL, 5*time.Second), server
}

// ==================== Ping Tests ====================

func TestPing_Healthy(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})
	defer server.Close()

	err := client.Ping(context.Background())

	assert.NoError(t, err)
}

func TestPing_NotReady(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	defer server.Close()

	err := client.Ping(context.Background())

	assert.Error(t, err)
}

// ==================== RPC Call Tests ====================

func TestListProducts_SendsArgsAndBearerToken(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]interface{}

	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode([]entity.Product{{ID: 1, Title: "Honey", Price: 1250}})
	})
	defer server.Close()

	page, pageSize := uint64(1), uint64(20)
	products, err := client.ListProducts(context.Background(), "jwt-token", &page, &pageSize)

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Honey", products[0].Title)
	assert.Equal(t, "/api/listProducts", gotPath)
	assert.Equal(t, "Bearer jwt-token", gotAuth)
	assert.Equal(t, float64(1), gotBody["page"])
}

func TestCall_AnonymousRequestHasNoAuthHeader(t *testing.T) {
	var gotAuth string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]entity.Category{})
	})
	defer server.Close()

	_, err := client.ListCategories(context.Background(), "")

	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestGetProduct_JSONNullMeansAbsent(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("null"))
	})
	defer server.Close()

	// null - это отсутствие значения, не ошибка
	product, err := client.GetProduct(context.Background(), "", 99)

	require.NoError(t, err)
	assert.Nil(t, product)
}

func TestCall_ErrorPreservesBackendMessage(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(entity.ErrorResponse{
			Error:   "conflict",
			Message: "Insufficient stock for product 5",
		})
	})
	defer server.Close()

	err := client.AddToCart(context.Background(), "jwt-token", 5, 3)

	require.Error(t, err)
	var gwErr *Error
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, "addToCart", gwErr.Op)
	assert.Equal(t, http.StatusConflict, gwErr.Status)
	assert.Equal(t, "Insufficient stock for product 5", gwErr.Message)
}

func TestCall_ErrorWithoutBodyFallsBackToStatusText(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer server.Close()

	err := client.ClearCart(context.Background(), "jwt-token")

	var gwErr *Error
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), gwErr.Message)
}

func TestCheckout_ReturnsOrderID(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/checkout", r.URL.Path)
		json.NewEncoder(w).Encode(uint64(42))
	})
	defer server.Close()

	orderID, err := client.Checkout(context.Background(), "jwt-token", "12 Meadow Lane, Springfield")

	require.NoError(t, err)
	assert.Equal(t, entity.OrderID(42), orderID)
}

func TestCall_RequestIDHeaderIsSet(t *testing.T) {
	var gotRequestID string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get("X-Request-ID")
		json.NewEncoder(w).Encode(true)
	})
	defer server.Close()

	_, err := client.IsCallerAdmin(context.Background(), "jwt-token")

	require.NoError(t, err)
	assert.NotEmpty(t, gotRequestID)
}
