package service

import (
	"context"

	"quotedesk/internal/model"
)

// ProductService defines operations for catalogue management.
type ProductService interface {
	// GetAll retrieves all products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Create validates and inserts a new product. An ID is generated when the
	// request does not supply one.
	Create(ctx context.Context, product *model.Product) (*model.Product, error)

	// Update validates and replaces an existing product.
	Update(ctx context.Context, product *model.Product) (*model.Product, error)

	// Delete removes a product.
	Delete(ctx context.Context, id string) error

	// AdjustStock changes a product's on-hand quantity by a signed delta and
	// returns the updated product.
	AdjustStock(ctx context.Context, id string, delta int64) (*model.Product, error)
}

// CustomerService defines operations for directory management.
type CustomerService interface {
	// GetAll retrieves all customers with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Customer, error)

	// GetByID retrieves a single customer by ID.
	GetByID(ctx context.Context, id string) (*model.Customer, error)

	// Create validates and inserts a new customer. An ID is generated when
	// the request does not supply one.
	Create(ctx context.Context, customer *model.Customer) (*model.Customer, error)

	// Update validates and replaces an existing customer.
	Update(ctx context.Context, customer *model.Customer) (*model.Customer, error)

	// Delete removes a customer.
	Delete(ctx context.Context, id string) error
}

// QuoteService defines operations for quote management.
type QuoteService interface {
	// Create builds a quote draft from the request, validates it, and
	// persists the resulting quote with its line items.
	Create(ctx context.Context, req *model.QuoteRequest) (*model.Quote, error)

	// GetByID retrieves a quote with its line items.
	GetByID(ctx context.Context, id int64) (*model.Quote, error)

	// GetAll retrieves quotes, newest first.
	GetAll(ctx context.Context, limit, offset int) ([]model.Quote, error)

	// GetByCustomer retrieves a customer's quotes, newest first.
	GetByCustomer(ctx context.Context, customerID string, limit, offset int) ([]model.Quote, error)
}
