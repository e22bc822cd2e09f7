package repository

import (
	"context"
	"fmt"

	"quotedesk/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// quoteRepository implements the QuoteRepository interface using PostgreSQL.
type quoteRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewQuoteRepository creates a new PostgreSQL-backed quote repository.
func NewQuoteRepository(pool *pgxpool.Pool, logger zerolog.Logger) QuoteRepository {
	return &quoteRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "quote").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *quoteRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateQuote inserts a new quote within the provided transaction and fills
// in the server-assigned ID.
func (r *quoteRepository) CreateQuote(ctx context.Context, tx pgx.Tx, quote *model.Quote) error {
	query := `
		INSERT INTO quotes (customer_id, customer_name, subtotal, tax, total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := tx.QueryRow(ctx, query,
		quote.CustomerID, quote.CustomerName, quote.Subtotal, quote.Tax,
		quote.Total, quote.CreatedAt,
	).Scan(&quote.ID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("customer_id", quote.CustomerID).
			Msg("failed to create quote")
		return fmt.Errorf("failed to create quote: %w", err)
	}

	r.logger.Debug().
		Int64("quote_id", quote.ID).
		Msg("quote created successfully")

	return nil
}

// CreateLineItems inserts the quote's line items within the provided transaction.
func (r *quoteRepository) CreateLineItems(ctx context.Context, tx pgx.Tx, items []model.QuoteLineItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO quote_line_items
			(id, quote_id, position, product_id, product_name, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query,
			item.ID, item.QuoteID, item.Position, item.ProductID,
			item.ProductName, item.Quantity, item.UnitPrice, item.Total,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		_, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Int64("quote_id", items[i].QuoteID).
				Str("product_id", items[i].ProductID).
				Msg("failed to create quote line item")
			return fmt.Errorf("failed to create quote line item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("quote line items created successfully")

	return nil
}

// GetByID retrieves a quote with its line items.
func (r *quoteRepository) GetByID(ctx context.Context, id int64) (*model.Quote, error) {
	query := `
		SELECT id, customer_id, customer_name, subtotal, tax, total, created_at
		FROM quotes
		WHERE id = $1
	`

	var q model.Quote
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&q.ID, &q.CustomerID, &q.CustomerName, &q.Subtotal, &q.Tax, &q.Total, &q.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Int64("quote_id", id).Msg("quote not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("quote_id", id).Msg("failed to query quote")
		return nil, fmt.Errorf("failed to query quote: %w", err)
	}

	itemsByQuote, err := r.lineItemsForQuotes(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	q.LineItems = itemsByQuote[id]

	return &q, nil
}

// GetAll retrieves quotes with their line items, newest first.
func (r *quoteRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Quote, error) {
	query := `
		SELECT id, customer_id, customer_name, subtotal, tax, total, created_at
		FROM quotes
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`

	return r.queryQuotes(ctx, query, limit, offset)
}

// GetByCustomer retrieves a customer's quotes with their line items, newest first.
func (r *quoteRepository) GetByCustomer(ctx context.Context, customerID string, limit, offset int) ([]model.Quote, error) {
	query := `
		SELECT id, customer_id, customer_name, subtotal, tax, total, created_at
		FROM quotes
		WHERE customer_id = $3
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`

	return r.queryQuotes(ctx, query, limit, offset, customerID)
}

// queryQuotes runs a quote listing query and attaches line items.
func (r *quoteRepository) queryQuotes(ctx context.Context, query string, args ...any) ([]model.Quote, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query quotes")
		return nil, fmt.Errorf("failed to query quotes: %w", err)
	}
	defer rows.Close()

	var quotes []model.Quote
	var ids []int64
	for rows.Next() {
		var q model.Quote
		err := rows.Scan(&q.ID, &q.CustomerID, &q.CustomerName, &q.Subtotal, &q.Tax, &q.Total, &q.CreatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan quote row")
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		quotes = append(quotes, q)
		ids = append(ids, q.ID)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating quote rows")
		return nil, fmt.Errorf("error iterating quotes: %w", err)
	}

	if len(quotes) == 0 {
		return []model.Quote{}, nil
	}

	itemsByQuote, err := r.lineItemsForQuotes(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range quotes {
		quotes[i].LineItems = itemsByQuote[quotes[i].ID]
	}

	return quotes, nil
}

// lineItemsForQuotes loads line items for the given quote IDs, keyed by quote
// and ordered by their position within each quote.
func (r *quoteRepository) lineItemsForQuotes(ctx context.Context, ids []int64) (map[int64][]model.QuoteLineItem, error) {
	query := `
		SELECT id, quote_id, position, product_id, product_name, quantity, unit_price, line_total
		FROM quote_line_items
		WHERE quote_id = ANY($1)
		ORDER BY quote_id, position
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("quote_count", len(ids)).Msg("failed to query quote line items")
		return nil, fmt.Errorf("failed to query quote line items: %w", err)
	}
	defer rows.Close()

	itemsByQuote := make(map[int64][]model.QuoteLineItem, len(ids))
	for rows.Next() {
		var item model.QuoteLineItem
		err := rows.Scan(
			&item.ID, &item.QuoteID, &item.Position, &item.ProductID,
			&item.ProductName, &item.Quantity, &item.UnitPrice, &item.Total,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan quote line item row")
			return nil, fmt.Errorf("failed to scan quote line item: %w", err)
		}
		itemsByQuote[item.QuoteID] = append(itemsByQuote[item.QuoteID], item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating quote line item rows")
		return nil, fmt.Errorf("error iterating quote line items: %w", err)
	}

	return itemsByQuote, nil
}
