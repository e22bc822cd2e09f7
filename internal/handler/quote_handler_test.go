package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quotedesk/internal/model"
	"quotedesk/internal/quote"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockQuoteService is a mock implementation of QuoteService.
type MockQuoteService struct {
	mock.Mock
}

func (m *MockQuoteService) Create(ctx context.Context, req *model.QuoteRequest) (*model.Quote, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Quote), args.Error(1)
}

func (m *MockQuoteService) GetByID(ctx context.Context, id int64) (*model.Quote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Quote), args.Error(1)
}

func (m *MockQuoteService) GetAll(ctx context.Context, limit, offset int) ([]model.Quote, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Quote), args.Error(1)
}

func (m *MockQuoteService) GetByCustomer(ctx context.Context, customerID string, limit, offset int) ([]model.Quote, error) {
	args := m.Called(ctx, customerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Quote), args.Error(1)
}

func testQuote() *model.Quote {
	return &model.Quote{
		ID:           42,
		CustomerID:   "C001",
		CustomerName: "Acme Ltd",
		LineItems: []model.QuoteLineItem{
			{QuoteID: 42, Position: 0, ProductID: "P001", ProductName: "Steel Bracket", Quantity: 2, UnitPrice: 10.00, Total: 20.00},
		},
		Subtotal:  20.00,
		Tax:       4.40,
		Total:     24.40,
		CreatedAt: time.Now(),
	}
}

func TestQuoteHandler_Create(t *testing.T) {
	logger := zerolog.Nop()

	validRequest := &model.QuoteRequest{
		CustomerID: "C001",
		LineItems:  []model.QuoteLineRequest{{ProductID: "P001", Quantity: 2}},
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		mockReturn     *model.Quote
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Success",
			requestBody:    validRequest,
			mockReturn:     testQuote(),
			expectedStatus: http.StatusCreated,
			expectService:  true,
		},
		{
			name:           "Unknown customer",
			requestBody:    validRequest,
			mockError:      model.ErrCustomerNotFound,
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
		{
			name:           "Unknown product",
			requestBody:    validRequest,
			mockError:      model.ErrProductNotFound,
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
		{
			name:           "Empty draft",
			requestBody:    &model.QuoteRequest{CustomerID: "C001"},
			mockError:      &quote.ValidationError{Reason: "quote must contain at least one line item"},
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
		{
			name:           "Invalid quantity",
			requestBody:    validRequest,
			mockError:      model.ErrInvalidQuantity,
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
		{
			name:           "Invalid JSON",
			requestBody:    "invalid json",
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
		{
			name:           "Service internal error",
			requestBody:    validRequest,
			mockError:      errors.New("database connection failed"),
			expectedStatus: http.StatusInternalServerError,
			expectService:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockQuoteService)
			handler := NewQuoteHandler(mockService, logger)

			var body []byte
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				var err error
				body, err = json.Marshal(tt.requestBody)
				require.NoError(t, err)
			}

			if tt.expectService {
				mockService.On("Create", mock.Anything, mock.AnythingOfType("*model.QuoteRequest")).
					Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/quotes", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.Create(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectService {
				mockService.AssertExpectations(t)
			}
		})
	}
}

func TestQuoteHandler_GetByID(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		path           string
		mockReturn     *model.Quote
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Success",
			path:           "/api/quotes/42",
			mockReturn:     testQuote(),
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Not found",
			path:           "/api/quotes/999",
			mockError:      model.ErrQuoteNotFound,
			expectedStatus: http.StatusNotFound,
			expectService:  true,
		},
		{
			name:           "Invalid ID format",
			path:           "/api/quotes/not-a-number",
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
		{
			name:           "Missing ID",
			path:           "/api/quotes/",
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockQuoteService)
			handler := NewQuoteHandler(mockService, logger)

			if tt.expectService {
				mockService.On("GetByID", mock.Anything, mock.AnythingOfType("int64")).
					Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()

			handler.GetByID(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectService {
				mockService.AssertExpectations(t)
			}
		})
	}
}

func TestQuoteHandler_GetAll(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("All quotes", func(t *testing.T) {
		mockService := new(MockQuoteService)
		mockService.On("GetAll", mock.Anything, 10, 0).Return([]model.Quote{*testQuote()}, nil)

		handler := NewQuoteHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodGet, "/api/quotes", nil)
		w := httptest.NewRecorder()

		handler.GetAll(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Filtered by customer", func(t *testing.T) {
		mockService := new(MockQuoteService)
		mockService.On("GetByCustomer", mock.Anything, "C001", 10, 0).Return([]model.Quote{*testQuote()}, nil)

		handler := NewQuoteHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodGet, "/api/quotes?customerId=C001", nil)
		w := httptest.NewRecorder()

		handler.GetAll(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Invalid limit parameter", func(t *testing.T) {
		mockService := new(MockQuoteService)
		handler := NewQuoteHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodGet, "/api/quotes?limit=abc", nil)
		w := httptest.NewRecorder()

		handler.GetAll(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "GetAll", mock.Anything, mock.Anything, mock.Anything)
	})
}
