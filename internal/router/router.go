package router

import (
	"net/http"
	"strings"

	"quotedesk/internal/handler"
	"quotedesk/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
// Catalogue and customer writes require the admin role; reads and quote
// creation are open to any authenticated caller.
func New(
	productHandler *handler.ProductHandler,
	customerHandler *handler.CustomerHandler,
	quoteHandler *handler.QuoteHandler,
	meHandler *handler.MeHandler,
	adminKey, userKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	mux.HandleFunc("/api/me", meHandler.Get)

	// Product routes
	productRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		isCollection := r.URL.Path == "/api/products" || r.URL.Path == "/api/products/"

		switch {
		case r.Method == http.MethodGet && isCollection:
			productHandler.GetAll(w, r)
		case r.Method == http.MethodPost && isCollection:
			middleware.RequireAdmin(productHandler.Create)(w, r)
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/stock"):
			middleware.RequireAdmin(productHandler.AdjustStock)(w, r)
		case r.Method == http.MethodGet:
			productHandler.GetByID(w, r)
		case r.Method == http.MethodPut:
			middleware.RequireAdmin(productHandler.Update)(w, r)
		case r.Method == http.MethodDelete:
			middleware.RequireAdmin(productHandler.Delete)(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
	mux.HandleFunc("/api/products", productRouteHandler)
	mux.HandleFunc("/api/products/", productRouteHandler)

	// Customer routes
	customerRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		isCollection := r.URL.Path == "/api/customers" || r.URL.Path == "/api/customers/"

		switch {
		case r.Method == http.MethodGet && isCollection:
			customerHandler.GetAll(w, r)
		case r.Method == http.MethodPost && isCollection:
			middleware.RequireAdmin(customerHandler.Create)(w, r)
		case r.Method == http.MethodGet:
			customerHandler.GetByID(w, r)
		case r.Method == http.MethodPut:
			middleware.RequireAdmin(customerHandler.Update)(w, r)
		case r.Method == http.MethodDelete:
			middleware.RequireAdmin(customerHandler.Delete)(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
	mux.HandleFunc("/api/customers", customerRouteHandler)
	mux.HandleFunc("/api/customers/", customerRouteHandler)

	// Quote routes
	quoteRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		isCollection := r.URL.Path == "/api/quotes" || r.URL.Path == "/api/quotes/"

		switch {
		case r.Method == http.MethodPost && isCollection:
			quoteHandler.Create(w, r)
		case r.Method == http.MethodGet && isCollection:
			quoteHandler.GetAll(w, r)
		case r.Method == http.MethodGet:
			quoteHandler.GetByID(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
	mux.HandleFunc("/api/quotes", quoteRouteHandler)
	mux.HandleFunc("/api/quotes/", quoteRouteHandler)

	// Apply middleware in order: Recovery -> Logging -> CORS -> RoleAuth
	var h http.Handler = mux
	h = middleware.RoleAuth(adminKey, userKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
