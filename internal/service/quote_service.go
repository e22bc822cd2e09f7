package service

import (
	"context"
	"fmt"
	"time"

	"quotedesk/internal/model"
	"quotedesk/internal/quote"
	"quotedesk/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// quoteService implements QuoteService. Quote creation drives a quote.Draft:
// products are fetched once, snapshotted into the draft, validated, and the
// resulting request is persisted in a single transaction. The draft is marked
// submitted only after the transaction commits, so a failed submission leaves
// it open for retry.
type quoteService struct {
	quoteRepo    repository.QuoteRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	logger       zerolog.Logger
}

// NewQuoteService creates a new quote service.
func NewQuoteService(
	quoteRepo repository.QuoteRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	logger zerolog.Logger,
) QuoteService {
	return &quoteService{
		quoteRepo:    quoteRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		logger:       logger.With().Str("service", "quote").Logger(),
	}
}

// Create builds a quote draft from the request, validates it, and persists
// the resulting quote with its line items.
func (s *quoteService) Create(ctx context.Context, req *model.QuoteRequest) (*model.Quote, error) {
	if req == nil {
		return nil, fmt.Errorf("quote request is nil")
	}

	draft := quote.NewDraft()

	var customer *model.Customer
	if req.CustomerID != "" {
		var err error
		customer, err = s.customerRepo.GetByID(ctx, req.CustomerID)
		if err != nil {
			s.logger.Error().Err(err).Str("customer_id", req.CustomerID).Msg("failed to fetch customer")
			return nil, fmt.Errorf("failed to fetch customer: %w", err)
		}
		if customer == nil {
			s.logger.Warn().Str("customer_id", req.CustomerID).Msg("quote references unknown customer")
			return nil, model.ErrCustomerNotFound
		}
		if err := draft.SelectCustomer(customer.ID); err != nil {
			return nil, err
		}
	}

	if err := s.populateLines(ctx, draft, req.LineItems); err != nil {
		return nil, err
	}

	// ToQuoteRequest rejects drafts with no customer or no line items.
	draftReq, err := draft.ToQuoteRequest()
	if err != nil {
		s.logger.Warn().Err(err).Msg("quote draft failed validation")
		return nil, err
	}
	totals := draft.ComputeTotals()

	q := &model.Quote{
		CustomerID:   draftReq.CustomerID,
		CustomerName: customer.Name,
		Subtotal:     totals.Subtotal,
		Tax:          totals.Tax,
		Total:        totals.Total,
		CreatedAt:    time.Now(),
	}

	tx, err := s.quoteRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create quote: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.quoteRepo.CreateQuote(ctx, tx, q); err != nil {
		s.logger.Error().Err(err).Str("customer_id", q.CustomerID).Msg("failed to create quote")
		return nil, fmt.Errorf("failed to create quote: %w", err)
	}

	items := make([]model.QuoteLineItem, len(draftReq.Lines))
	for i, line := range draftReq.Lines {
		items[i] = model.QuoteLineItem{
			ID:          uuid.New(),
			QuoteID:     q.ID,
			Position:    i,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Total:       line.Total,
		}
	}

	if err = s.quoteRepo.CreateLineItems(ctx, tx, items); err != nil {
		s.logger.Error().
			Err(err).
			Int64("quote_id", q.ID).
			Int("item_count", len(items)).
			Msg("failed to create quote line items")
		return nil, fmt.Errorf("failed to create quote line items: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Int64("quote_id", q.ID).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create quote: %w", err)
	}

	// The round trip succeeded; the draft is now terminal.
	if err := draft.MarkSubmitted(); err != nil {
		s.logger.Error().Err(err).Int64("quote_id", q.ID).Msg("failed to mark draft submitted")
	}

	q.LineItems = items

	s.logger.Info().
		Int64("quote_id", q.ID).
		Str("customer_id", q.CustomerID).
		Int("item_count", len(items)).
		Float64("total", q.Total).
		Msg("quote created successfully")

	return q, nil
}

// populateLines snapshots the requested products into the draft, applying
// per-line price overrides where given. Stock on hand is not checked.
func (s *quoteService) populateLines(ctx context.Context, draft *quote.Draft, lines []model.QuoteLineRequest) error {
	if len(lines) == 0 {
		return nil
	}

	productIDs := make([]string, len(lines))
	for i, line := range lines {
		if line.ProductID == "" {
			return fmt.Errorf("line %d: product ID is required", i)
		}
		productIDs[i] = line.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		s.logger.Error().Err(err).Int("count", len(productIDs)).Msg("failed to fetch products")
		return fmt.Errorf("failed to fetch products: %w", err)
	}

	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for i, line := range lines {
		product, ok := byID[line.ProductID]
		if !ok {
			s.logger.Warn().Str("product_id", line.ProductID).Msg("quote references unknown product")
			return model.ErrProductNotFound
		}

		if err := draft.AddLine(product, line.Quantity); err != nil {
			return err
		}

		if line.UnitPrice != nil {
			if err := draft.UpdateLine(i, quote.FieldUnitPrice, *line.UnitPrice); err != nil {
				return err
			}
		}
	}

	return nil
}

// GetByID retrieves a quote with its line items.
func (s *quoteService) GetByID(ctx context.Context, id int64) (*model.Quote, error) {
	q, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("quote_id", id).Msg("failed to get quote")
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	if q == nil {
		s.logger.Debug().Int64("quote_id", id).Msg("quote not found")
		return nil, model.ErrQuoteNotFound
	}

	return q, nil
}

// GetAll retrieves quotes, newest first.
func (s *quoteService) GetAll(ctx context.Context, limit, offset int) ([]model.Quote, error) {
	limit, offset = clampPage(limit, offset)

	quotes, err := s.quoteRepo.GetAll(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get quotes")
		return nil, fmt.Errorf("failed to get quotes: %w", err)
	}

	return quotes, nil
}

// GetByCustomer retrieves a customer's quotes, newest first.
func (s *quoteService) GetByCustomer(ctx context.Context, customerID string, limit, offset int) ([]model.Quote, error) {
	if customerID == "" {
		return nil, model.ErrCustomerNotFound
	}
	limit, offset = clampPage(limit, offset)

	quotes, err := s.quoteRepo.GetByCustomer(ctx, customerID, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", customerID).Msg("failed to get quotes for customer")
		return nil, fmt.Errorf("failed to get quotes: %w", err)
	}

	return quotes, nil
}

// clampPage normalises pagination parameters.
func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
