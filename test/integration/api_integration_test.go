package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"quotedesk/internal/handler"
	"quotedesk/internal/model"
	"quotedesk/internal/repository"
	"quotedesk/internal/router"
	"quotedesk/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAdminKey = "admin-test-key"
	testUserKey  = "user-test-key"
)

func setupTestServer(t *testing.T, testDB *TestDB) http.Handler {
	t.Helper()

	logger := zerolog.Nop()

	// Initialize repositories
	productRepo := repository.NewProductRepository(testDB.Pool, logger)
	customerRepo := repository.NewCustomerRepository(testDB.Pool, logger)
	quoteRepo := repository.NewQuoteRepository(testDB.Pool, logger)

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	customerService := service.NewCustomerService(customerRepo, logger)
	quoteService := service.NewQuoteService(quoteRepo, productRepo, customerRepo, logger)

	// Initialize handlers
	productHandler := handler.NewProductHandler(productService, logger)
	customerHandler := handler.NewCustomerHandler(customerService, logger)
	quoteHandler := handler.NewQuoteHandler(quoteService, logger)
	meHandler := handler.NewMeHandler(logger)

	// Create router
	return router.New(
		productHandler, customerHandler, quoteHandler, meHandler,
		testAdminKey, testUserKey, logger,
	)
}

func doJSON(t *testing.T, server http.Handler, method, path, apiKey string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	w := httptest.NewRecorder()

	server.ServeHTTP(w, req)
	return w
}

func TestProductAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	t.Run("GET /api/products returns all products", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		w := doJSON(t, server, http.MethodGet, "/api/products", testUserKey, nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var products []model.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&products))
		assert.Len(t, products, 5)
	})

	t.Run("GET /api/products/{id} returns specific product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		w := doJSON(t, server, http.MethodGet, "/api/products/P001", testUserKey, nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var product model.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&product))
		assert.Equal(t, "P001", product.ID)
		assert.Equal(t, "Steel Bracket", product.Name)
	})

	t.Run("GET /api/products/{id} returns 404 for non-existent product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		w := doJSON(t, server, http.MethodGet, "/api/products/P999", testUserKey, nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("POST /api/products as admin creates product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		w := doJSON(t, server, http.MethodPost, "/api/products", testAdminKey, &model.Product{
			ID: "P010", Name: "Pipe Clamp", Price: 2.40, Quantity: 500,
		})

		assert.Equal(t, http.StatusCreated, w.Code)

		w = doJSON(t, server, http.MethodGet, "/api/products/P010", testUserKey, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("POST /api/products as user is forbidden", func(t *testing.T) {
		w := doJSON(t, server, http.MethodPost, "/api/products", testUserKey, &model.Product{
			ID: "P011", Name: "Pipe Clamp", Price: 2.40,
		})

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("POST /api/products with duplicate ID returns 409", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		w := doJSON(t, server, http.MethodPost, "/api/products", testAdminKey, &model.Product{
			ID: "P001", Name: "Steel Bracket", Price: 10.00,
		})

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("POST /api/products/{id}/stock adjusts stock atomically", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		w := doJSON(t, server, http.MethodPost, "/api/products/P001/stock", testAdminKey,
			&model.StockAdjustment{Delta: -20})

		assert.Equal(t, http.StatusOK, w.Code)

		var product model.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&product))
		assert.Equal(t, int64(100), product.Quantity)
	})

	t.Run("POST /api/products/{id}/stock rejects underflow", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		w := doJSON(t, server, http.MethodPost, "/api/products/P002/stock", testAdminKey,
			&model.StockAdjustment{Delta: -500})

		assert.Equal(t, http.StatusConflict, w.Code)

		// Stock unchanged
		w = doJSON(t, server, http.MethodGet, "/api/products/P002", testUserKey, nil)
		var product model.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&product))
		assert.Equal(t, int64(30), product.Quantity)
	})

	t.Run("DELETE /api/products/{id} as admin removes product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		w := doJSON(t, server, http.MethodDelete, "/api/products/P004", testAdminKey, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = doJSON(t, server, http.MethodGet, "/api/products/P004", testUserKey, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("GET /api/products without API key returns 401", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/api/products", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("GET /health returns 200 without API key", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/health", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestCustomerAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	t.Run("Customer lifecycle", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		w := doJSON(t, server, http.MethodPost, "/api/customers", testAdminKey, &model.Customer{
			ID: "C001", Name: "Acme Ltd", Email: "office@acme.test",
		})
		assert.Equal(t, http.StatusCreated, w.Code)

		w = doJSON(t, server, http.MethodGet, "/api/customers/C001", testUserKey, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var customer model.Customer
		require.NoError(t, json.NewDecoder(w.Body).Decode(&customer))
		assert.Equal(t, "Acme Ltd", customer.Name)

		w = doJSON(t, server, http.MethodPut, "/api/customers/C001", testAdminKey, &model.Customer{
			Name: "Acme Limited", Email: "office@acme.test",
		})
		assert.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, server, http.MethodDelete, "/api/customers/C001", testAdminKey, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = doJSON(t, server, http.MethodGet, "/api/customers/C001", testUserKey, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Customer writes as user are forbidden", func(t *testing.T) {
		w := doJSON(t, server, http.MethodPost, "/api/customers", testUserKey, &model.Customer{
			ID: "C010", Name: "Initech",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestQuoteAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	t.Run("POST /api/quotes creates quote with totals", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		SeedCustomers(t, testDB.Pool)

		quoteReq := &model.QuoteRequest{
			CustomerID: "C001",
			LineItems: []model.QuoteLineRequest{
				{ProductID: "P001", Quantity: 2},
				{ProductID: "P002", Quantity: 3},
			},
		}

		w := doJSON(t, server, http.MethodPost, "/api/quotes", testUserKey, quoteReq)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp model.Quote
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.NotZero(t, resp.ID)
		assert.Equal(t, "C001", resp.CustomerID)
		assert.Equal(t, "Acme Ltd", resp.CustomerName)
		assert.Len(t, resp.LineItems, 2)
		assert.InDelta(t, 36.50, resp.Subtotal, 0.001)
		assert.InDelta(t, 8.03, resp.Tax, 0.001)
		assert.InDelta(t, 44.53, resp.Total, 0.001)
	})

	t.Run("Quote exceeding stock on hand is still accepted", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		SeedCustomers(t, testDB.Pool)

		// P005 has zero stock
		quoteReq := &model.QuoteRequest{
			CustomerID: "C001",
			LineItems:  []model.QuoteLineRequest{{ProductID: "P005", Quantity: 10}},
		}

		w := doJSON(t, server, http.MethodPost, "/api/quotes", testUserKey, quoteReq)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("POST /api/quotes with unknown product returns 400", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		SeedCustomers(t, testDB.Pool)

		quoteReq := &model.QuoteRequest{
			CustomerID: "C001",
			LineItems:  []model.QuoteLineRequest{{ProductID: "P999", Quantity: 1}},
		}

		w := doJSON(t, server, http.MethodPost, "/api/quotes", testUserKey, quoteReq)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("POST /api/quotes with no line items returns 400", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedCustomers(t, testDB.Pool)

		quoteReq := &model.QuoteRequest{CustomerID: "C001"}

		w := doJSON(t, server, http.MethodPost, "/api/quotes", testUserKey, quoteReq)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("POST /api/quotes with no customer returns 400", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		quoteReq := &model.QuoteRequest{
			LineItems: []model.QuoteLineRequest{{ProductID: "P001", Quantity: 1}},
		}

		w := doJSON(t, server, http.MethodPost, "/api/quotes", testUserKey, quoteReq)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("GET /api/quotes/{id} returns quote with ordered line items", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		SeedCustomers(t, testDB.Pool)

		quoteReq := &model.QuoteRequest{
			CustomerID: "C001",
			LineItems: []model.QuoteLineRequest{
				{ProductID: "P003", Quantity: 8},
				{ProductID: "P001", Quantity: 1},
			},
		}

		w := doJSON(t, server, http.MethodPost, "/api/quotes", testUserKey, quoteReq)
		require.Equal(t, http.StatusCreated, w.Code)

		var created model.Quote
		require.NoError(t, json.NewDecoder(w.Body).Decode(&created))

		w = doJSON(t, server, http.MethodGet,
			"/api/quotes/"+strconv.FormatInt(created.ID, 10), testUserKey, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var got model.Quote
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, created.ID, got.ID)
		require.Len(t, got.LineItems, 2)
		// Insertion order is preserved
		assert.Equal(t, "P003", got.LineItems[0].ProductID)
		assert.Equal(t, "P001", got.LineItems[1].ProductID)
	})

	t.Run("GET /api/quotes?customerId= filters by customer", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		SeedCustomers(t, testDB.Pool)

		for _, customerID := range []string{"C001", "C001", "C002"} {
			quoteReq := &model.QuoteRequest{
				CustomerID: customerID,
				LineItems:  []model.QuoteLineRequest{{ProductID: "P001", Quantity: 1}},
			}
			w := doJSON(t, server, http.MethodPost, "/api/quotes", testUserKey, quoteReq)
			require.Equal(t, http.StatusCreated, w.Code)
		}

		w := doJSON(t, server, http.MethodGet, "/api/quotes?customerId=C001", testUserKey, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var quotes []model.Quote
		require.NoError(t, json.NewDecoder(w.Body).Decode(&quotes))
		assert.Len(t, quotes, 2)

		w = doJSON(t, server, http.MethodGet, "/api/quotes", testUserKey, nil)
		require.NoError(t, json.NewDecoder(w.Body).Decode(&quotes))
		assert.Len(t, quotes, 3)
	})

	t.Run("GET /api/quotes/{id} returns 404 for non-existent quote", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		w := doJSON(t, server, http.MethodGet, "/api/quotes/99999", testUserKey, nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestMeAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	t.Run("Admin key resolves admin role", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/api/me", testAdminKey, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp handler.MeResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "admin", resp.Role)
	})

	t.Run("User key resolves user role", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/api/me", testUserKey, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp handler.MeResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "user", resp.Role)
	})

	t.Run("Unknown key returns 401", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/api/me", "guest-key", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
