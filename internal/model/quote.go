package model

import (
	"time"

	"github.com/google/uuid"
)

// Quote represents a finalized quote with its line items and derived totals.
// Quotes are immutable once created.
type Quote struct {
	ID           int64           `json:"id" db:"id"`
	CustomerID   string          `json:"customerId" db:"customer_id"`
	CustomerName string          `json:"customerName" db:"customer_name"`
	LineItems    []QuoteLineItem `json:"lineItems"`
	Subtotal     float64         `json:"subtotal" db:"subtotal"`
	Tax          float64         `json:"tax" db:"tax"`
	Total        float64         `json:"total" db:"total"`
	CreatedAt    time.Time       `json:"created" db:"created_at"`
}

// QuoteLineItem represents a persisted line item within a quote. ProductName
// and UnitPrice are snapshots taken when the line was added to the draft.
type QuoteLineItem struct {
	ID          uuid.UUID `json:"-" db:"id"`
	QuoteID     int64     `json:"-" db:"quote_id"`
	Position    int       `json:"-" db:"position"`
	ProductID   string    `json:"productId" db:"product_id"`
	ProductName string    `json:"productName" db:"product_name"`
	Quantity    int       `json:"quantity" db:"quantity"`
	UnitPrice   float64   `json:"unitPrice" db:"unit_price"`
	Total       float64   `json:"total" db:"line_total"`
}

// QuoteRequest represents the request payload for creating a quote.
type QuoteRequest struct {
	CustomerID string             `json:"customerId"`
	LineItems  []QuoteLineRequest `json:"lineItems"`
}

// QuoteLineRequest represents a single requested line. UnitPrice, when set,
// overrides the catalogue price snapshot for that line.
type QuoteLineRequest struct {
	ProductID string   `json:"productId"`
	Quantity  int      `json:"quantity"`
	UnitPrice *float64 `json:"unitPrice,omitempty"`
}
