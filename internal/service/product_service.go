package service

import (
	"context"
	"fmt"
	"time"

	"quotedesk/internal/model"
	"quotedesk/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// GetAll retrieves all products with pagination.
func (s *productService) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.productRepo.GetAll(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to get all products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	s.logger.Debug().
		Int("count", len(products)).
		Int("limit", limit).
		Int("offset", offset).
		Msg("retrieved products")

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		s.logger.Warn().Msg("product ID is empty")
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// Create validates and inserts a new product.
func (s *productService) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if product.ID == "" {
		product.ID = uuid.NewString()
	}

	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	if err := s.productRepo.Create(ctx, product); err != nil {
		if err == model.ErrDuplicateID {
			return nil, err
		}
		s.logger.Error().Err(err).Str("product_id", product.ID).Msg("failed to create product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().Str("product_id", product.ID).Msg("product created")
	return product, nil
}

// Update validates and replaces an existing product.
func (s *productService) Update(ctx context.Context, product *model.Product) (*model.Product, error) {
	if product.ID == "" {
		return nil, model.ErrProductNotFound
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	product.UpdatedAt = time.Now()

	updated, err := s.productRepo.Update(ctx, product)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", product.ID).Msg("failed to update product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if !updated {
		s.logger.Debug().Str("product_id", product.ID).Msg("product not found for update")
		return nil, model.ErrProductNotFound
	}

	s.logger.Info().Str("product_id", product.ID).Msg("product updated")
	return product, nil
}

// Delete removes a product.
func (s *productService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return model.ErrProductNotFound
	}

	deleted, err := s.productRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if !deleted {
		return model.ErrProductNotFound
	}

	s.logger.Info().Str("product_id", id).Msg("product deleted")
	return nil
}

// AdjustStock changes a product's on-hand quantity by a signed delta. The
// repository refuses adjustments that would drive stock below zero; a miss is
// disambiguated here into not-found vs insufficient-stock.
func (s *productService) AdjustStock(ctx context.Context, id string, delta int64) (*model.Product, error) {
	if id == "" {
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.AdjustStock(ctx, id, delta)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to adjust stock")
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}
	if product != nil {
		s.logger.Info().
			Str("product_id", id).
			Int64("delta", delta).
			Int64("quantity", product.Quantity).
			Msg("stock adjusted")
		return product, nil
	}

	existing, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}
	if existing == nil {
		return nil, model.ErrProductNotFound
	}

	s.logger.Warn().
		Str("product_id", id).
		Int64("delta", delta).
		Int64("quantity", existing.Quantity).
		Msg("stock adjustment rejected")
	return nil, model.ErrInsufficientStock
}

// validateProduct checks the writable attributes of a product.
func validateProduct(product *model.Product) error {
	if product == nil {
		return fmt.Errorf("product is nil")
	}
	if product.Name == "" {
		return fmt.Errorf("product name is required")
	}
	if product.Price < 0 {
		return model.ErrInvalidPrice
	}
	if product.Quantity < 0 {
		return model.ErrInvalidQuantity
	}
	return nil
}
