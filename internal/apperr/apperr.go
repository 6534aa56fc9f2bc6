// Package apperr defines the typed business errors shared by services,
// repositories and handlers. Repositories return these instead of bare
// strings so callers can branch on the failure kind with errors.As.
package apperr

import "fmt"

// NotFound reports that an entity referenced by ID does not exist.
type NotFound struct {
	Entity string // "product", "order", "cart", "user", "review"
	ID     string
}

func (e *NotFound) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Entity, e.ID)
}

// InsufficientStock reports that a requested quantity exceeds the stock
// currently available for a product. Returned both at cart-mutation time
// and from the order commit.
type InsufficientStock struct {
	ProductID string
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStock) Error() string {
	return fmt.Sprintf("insufficient stock for product %s (requested: %d, available: %d)",
		e.Name, e.Requested, e.Available)
}

// Validation reports malformed or inconsistent input. Fields maps a field
// name to the reason it was rejected.
type Validation struct {
	Message string
	Fields  map[string]string
}

func (e *Validation) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Fields)
}

// TransactionAborted reports that the atomic commit could not be completed
// at the store level. Nothing was written; the whole operation is safe to
// retry.
type TransactionAborted struct {
	Err error
}

func (e *TransactionAborted) Error() string {
	return fmt.Sprintf("transaction aborted: %v", e.Err)
}

func (e *TransactionAborted) Unwrap() error {
	return e.Err
}
