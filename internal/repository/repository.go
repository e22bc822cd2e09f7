package repository

import (
	"context"

	"quotedesk/internal/model"

	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves all products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. Returns nil when the
	// product does not exist.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// Create inserts a new product. Returns model.ErrDuplicateID when the ID
	// is already taken.
	Create(ctx context.Context, product *model.Product) error

	// Update replaces an existing product's attributes. The returned bool
	// reports whether a row was updated.
	Update(ctx context.Context, product *model.Product) (bool, error)

	// Delete removes a product. The returned bool reports whether a row was
	// deleted.
	Delete(ctx context.Context, id string) (bool, error)

	// AdjustStock changes a product's on-hand quantity by delta, refusing
	// adjustments that would drive it below zero. Returns the updated product,
	// or nil when no row matched (missing product or rejected adjustment).
	AdjustStock(ctx context.Context, id string, delta int64) (*model.Product, error)

	// Upsert inserts or replaces products in bulk, used by catalog feed
	// imports. Returns the number of rows written.
	Upsert(ctx context.Context, products []model.Product) (int, error)
}

// CustomerRepository defines the interface for customer data access operations.
type CustomerRepository interface {
	// GetAll retrieves all customers with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Customer, error)

	// GetByID retrieves a single customer by ID. Returns nil when the
	// customer does not exist.
	GetByID(ctx context.Context, id string) (*model.Customer, error)

	// Create inserts a new customer. Returns model.ErrDuplicateID when the ID
	// is already taken.
	Create(ctx context.Context, customer *model.Customer) error

	// Update replaces an existing customer's attributes. The returned bool
	// reports whether a row was updated.
	Update(ctx context.Context, customer *model.Customer) (bool, error)

	// Delete removes a customer. The returned bool reports whether a row was
	// deleted.
	Delete(ctx context.Context, id string) (bool, error)
}

// QuoteRepository defines the interface for quote persistence.
type QuoteRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateQuote inserts a new quote within the provided transaction and
	// fills in the server-assigned ID.
	CreateQuote(ctx context.Context, tx pgx.Tx, quote *model.Quote) error

	// CreateLineItems inserts the quote's line items within the provided
	// transaction.
	CreateLineItems(ctx context.Context, tx pgx.Tx, items []model.QuoteLineItem) error

	// GetByID retrieves a quote with its line items. Returns nil when the
	// quote does not exist.
	GetByID(ctx context.Context, id int64) (*model.Quote, error)

	// GetAll retrieves quotes with their line items, newest first.
	GetAll(ctx context.Context, limit, offset int) ([]model.Quote, error)

	// GetByCustomer retrieves a customer's quotes with their line items,
	// newest first.
	GetByCustomer(ctx context.Context, customerID string, limit, offset int) ([]model.Quote, error)
}
