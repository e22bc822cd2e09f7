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

// customerService implements CustomerService.
type customerService struct {
	customerRepo repository.CustomerRepository
	logger       zerolog.Logger
}

// NewCustomerService creates a new customer service.
func NewCustomerService(customerRepo repository.CustomerRepository, logger zerolog.Logger) CustomerService {
	return &customerService{
		customerRepo: customerRepo,
		logger:       logger.With().Str("service", "customer").Logger(),
	}
}

// GetAll retrieves all customers with pagination.
func (s *customerService) GetAll(ctx context.Context, limit, offset int) ([]model.Customer, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	customers, err := s.customerRepo.GetAll(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to get all customers")
		return nil, fmt.Errorf("failed to get customers: %w", err)
	}

	s.logger.Debug().
		Int("count", len(customers)).
		Msg("retrieved customers")

	return customers, nil
}

// GetByID retrieves a single customer by ID.
func (s *customerService) GetByID(ctx context.Context, id string) (*model.Customer, error) {
	if id == "" {
		s.logger.Warn().Msg("customer ID is empty")
		return nil, model.ErrCustomerNotFound
	}

	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", id).Msg("failed to get customer by ID")
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	if customer == nil {
		s.logger.Debug().Str("customer_id", id).Msg("customer not found")
		return nil, model.ErrCustomerNotFound
	}

	return customer, nil
}

// Create validates and inserts a new customer.
func (s *customerService) Create(ctx context.Context, customer *model.Customer) (*model.Customer, error) {
	if err := validateCustomer(customer); err != nil {
		return nil, err
	}

	if customer.ID == "" {
		customer.ID = uuid.NewString()
	}

	now := time.Now()
	customer.CreatedAt = now
	customer.UpdatedAt = now

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		if err == model.ErrDuplicateID {
			return nil, err
		}
		s.logger.Error().Err(err).Str("customer_id", customer.ID).Msg("failed to create customer")
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	s.logger.Info().Str("customer_id", customer.ID).Msg("customer created")
	return customer, nil
}

// Update validates and replaces an existing customer.
func (s *customerService) Update(ctx context.Context, customer *model.Customer) (*model.Customer, error) {
	if customer.ID == "" {
		return nil, model.ErrCustomerNotFound
	}
	if err := validateCustomer(customer); err != nil {
		return nil, err
	}

	customer.UpdatedAt = time.Now()

	updated, err := s.customerRepo.Update(ctx, customer)
	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", customer.ID).Msg("failed to update customer")
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	if !updated {
		s.logger.Debug().Str("customer_id", customer.ID).Msg("customer not found for update")
		return nil, model.ErrCustomerNotFound
	}

	s.logger.Info().Str("customer_id", customer.ID).Msg("customer updated")
	return customer, nil
}

// Delete removes a customer.
func (s *customerService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return model.ErrCustomerNotFound
	}

	deleted, err := s.customerRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", id).Msg("failed to delete customer")
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if !deleted {
		return model.ErrCustomerNotFound
	}

	s.logger.Info().Str("customer_id", id).Msg("customer deleted")
	return nil
}

// validateCustomer checks the writable attributes of a customer.
func validateCustomer(customer *model.Customer) error {
	if customer == nil {
		return fmt.Errorf("customer is nil")
	}
	if customer.Name == "" {
		return fmt.Errorf("customer name is required")
	}
	return nil
}
