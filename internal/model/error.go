package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeMissingField      = "MISSING_FIELD"
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeCustomerNotFound  = "CUSTOMER_NOT_FOUND"
	ErrCodeQuoteNotFound     = "QUOTE_NOT_FOUND"
	ErrCodeInvalidQuantity   = "INVALID_QUANTITY"
	ErrCodeInvalidPrice      = "INVALID_PRICE"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodeDuplicateID       = "DUPLICATE_ID"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrProductNotFound   = NewDomainError(ErrCodeProductNotFound, "One or more products not found")
	ErrCustomerNotFound  = NewDomainError(ErrCodeCustomerNotFound, "Customer not found")
	ErrQuoteNotFound     = NewDomainError(ErrCodeQuoteNotFound, "Quote not found")
	ErrInvalidQuantity   = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInvalidPrice      = NewDomainError(ErrCodeInvalidPrice, "Price must not be negative")
	ErrInsufficientStock = NewDomainError(ErrCodeInsufficientStock, "Adjustment would drive stock below zero")
	ErrDuplicateID       = NewDomainError(ErrCodeDuplicateID, "An entity with this ID already exists")
)
