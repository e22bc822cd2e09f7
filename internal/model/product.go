package model

import "time"

// Product represents a catalogue product with its on-hand stock level.
type Product struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	Quantity    int64     `json:"quantity" db:"quantity"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// StockAdjustment represents the request payload for adjusting a product's
// on-hand quantity by a signed delta.
type StockAdjustment struct {
	Delta int64 `json:"delta"`
}
