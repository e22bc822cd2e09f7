// Package quote implements the quote builder: a mutable draft of line items
// against a chosen customer, with derived totals and validation ahead of
// submission. A Draft performs no I/O and is owned by a single session;
// callers fetch products and customers themselves and persist the finished
// request through the quote repository.
package quote

import (
	"math"

	"quotedesk/internal/model"
)

// TaxRate is the fixed tax rate applied to the subtotal.
const TaxRate = 0.22

// Field selects which attribute of a line item UpdateLine mutates.
type Field string

const (
	FieldQuantity  Field = "quantity"
	FieldUnitPrice Field = "unitPrice"
)

// LineItem is one product entry in a draft. ProductName and UnitPrice are
// snapshots taken when the line was added; later catalogue changes do not
// affect them. Total is kept equal to Quantity * UnitPrice.
type LineItem struct {
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   float64
	Total       float64
}

// Totals holds the derived aggregate amounts of a draft.
type Totals struct {
	Subtotal float64
	Tax      float64
	Total    float64
}

// Request is an immutable snapshot of a validated draft, ready for
// submission to the quote repository.
type Request struct {
	CustomerID string
	Lines      []LineItem
}

// Draft accumulates line items for a single quote. A Draft starts Open and
// becomes Submitted after a successful round trip to the repository; once
// Submitted, all mutations fail with InvalidStateError.
type Draft struct {
	customerID string
	lines      []LineItem
	submitted  bool
}

// NewDraft creates an empty open draft with no customer selected.
func NewDraft() *Draft {
	return &Draft{}
}

// SelectCustomer sets the draft's customer reference. Resolving the ID to a
// known customer is the caller's responsibility.
func (d *Draft) SelectCustomer(customerID string) error {
	if d.submitted {
		return &InvalidStateError{Op: "selectCustomer"}
	}
	d.customerID = customerID
	return nil
}

// AddLine appends a line item snapshotting the product's ID, name and price
// at the given quantity. Stock on hand is deliberately not checked; a draft
// may quote more than is available.
func (d *Draft) AddLine(product model.Product, quantity int) error {
	if d.submitted {
		return &InvalidStateError{Op: "addLine"}
	}
	if quantity <= 0 {
		return newValidationError("quantity must be a positive integer, got %d", quantity)
	}
	if product.Price < 0 {
		return newValidationError("unit price must not be negative, got %v", product.Price)
	}

	d.lines = append(d.lines, LineItem{
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    quantity,
		UnitPrice:   product.Price,
		Total:       float64(quantity) * product.Price,
	})
	return nil
}

// UpdateLine mutates the quantity or unit price of the line at index and
// recomputes its total. The product ID and name snapshots are never touched.
// Quantity values must be whole and positive; prices must not be negative.
func (d *Draft) UpdateLine(index int, field Field, value float64) error {
	if d.submitted {
		return &InvalidStateError{Op: "updateLine"}
	}
	if index < 0 || index >= len(d.lines) {
		return &IndexError{Index: index, Len: len(d.lines)}
	}

	line := &d.lines[index]
	switch field {
	case FieldQuantity:
		if math.Trunc(value) != value || math.IsNaN(value) || math.IsInf(value, 0) {
			return newValidationError("quantity must be a whole number, got %v", value)
		}
		if value <= 0 {
			return newValidationError("quantity must be a positive integer, got %v", value)
		}
		line.Quantity = int(value)
	case FieldUnitPrice:
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return newValidationError("unit price must be a finite number, got %v", value)
		}
		if value < 0 {
			return newValidationError("unit price must not be negative, got %v", value)
		}
		line.UnitPrice = value
	default:
		return newValidationError("unknown line field %q", string(field))
	}

	line.Total = float64(line.Quantity) * line.UnitPrice
	return nil
}

// RemoveLine deletes the line at index, preserving the relative order of the
// remaining lines.
func (d *Draft) RemoveLine(index int) error {
	if d.submitted {
		return &InvalidStateError{Op: "removeLine"}
	}
	if index < 0 || index >= len(d.lines) {
		return &IndexError{Index: index, Len: len(d.lines)}
	}
	d.lines = append(d.lines[:index], d.lines[index+1:]...)
	return nil
}

// ComputeTotals derives subtotal, tax and total from the current lines. It is
// pure: no state is changed and repeated calls return the same result. The
// total is computed as subtotal plus tax with no intermediate rounding, so
// Subtotal + Tax always equals Total exactly.
func (d *Draft) ComputeTotals() Totals {
	var subtotal float64
	for _, line := range d.lines {
		subtotal += line.Total
	}
	tax := subtotal * TaxRate
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}

// ToQuoteRequest validates the draft and returns an immutable snapshot for
// submission. It fails with ValidationError when no customer is selected or
// the draft has no line items. The draft itself is left unchanged; callers
// mark it submitted only after the repository confirms persistence.
func (d *Draft) ToQuoteRequest() (*Request, error) {
	if d.customerID == "" {
		return nil, newValidationError("no customer selected")
	}
	if len(d.lines) == 0 {
		return nil, newValidationError("quote must contain at least one line item")
	}

	lines := make([]LineItem, len(d.lines))
	copy(lines, d.lines)

	return &Request{
		CustomerID: d.customerID,
		Lines:      lines,
	}, nil
}

// MarkSubmitted transitions the draft from Open to Submitted. It must be
// called only after the quote repository has confirmed the submission.
func (d *Draft) MarkSubmitted() error {
	if d.submitted {
		return &InvalidStateError{Op: "markSubmitted"}
	}
	d.submitted = true
	return nil
}

// Submitted reports whether the draft has been submitted.
func (d *Draft) Submitted() bool {
	return d.submitted
}

// CustomerID returns the selected customer ID, if any.
func (d *Draft) CustomerID() (string, bool) {
	return d.customerID, d.customerID != ""
}

// Lines returns a copy of the current line items in insertion order.
func (d *Draft) Lines() []LineItem {
	lines := make([]LineItem, len(d.lines))
	copy(lines, d.lines)
	return lines
}

// Len returns the number of line items in the draft.
func (d *Draft) Len() int {
	return len(d.lines)
}
