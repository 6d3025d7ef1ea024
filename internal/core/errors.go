package core

import (
	"errors"
	"fmt"
)

// Sentinels shared by services and repositories for stable error mapping.
var (
	// ErrNotFound indicates the entity does not exist or belongs to another seller.
	ErrNotFound = errors.New("not found")

	// ErrCounterConflict indicates the stock counters changed between read and write.
	ErrCounterConflict = errors.New("stock counters changed concurrently")

	// ErrUnauthorized indicates failed authentication.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAlreadyExists indicates a unique constraint violation (email or slug taken).
	ErrAlreadyExists = errors.New("already exists")
)

// ValidationError is returned for malformed or missing input. Nothing has been written.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// InsufficientStockError is returned when a requested quantity exceeds the available
// headroom. FromSale is the quantity the edited sale already holds (zero on create).
type InsufficientStockError struct {
	Requested int
	OnHand    int
	FromSale  int
}

// Available is the headroom the request was checked against.
func (e *InsufficientStockError) Available() int {
	return e.OnHand + e.FromSale
}

func (e *InsufficientStockError) Error() string {
	if e.FromSale > 0 {
		return fmt.Sprintf("Only %d units available (%d in stock + %d from this sale)",
			e.Available(), e.OnHand, e.FromSale)
	}
	return fmt.Sprintf("Only %d units available", e.OnHand)
}

// WriteStage names the write that failed inside a sale mutation.
type WriteStage string

const (
	StageSale      WriteStage = "sale"
	StageInventory WriteStage = "inventory"
	StageCommit    WriteStage = "commit"
)

// PersistenceError reports a failed write. Sale mutations run in one transaction, so
// a failure at any stage leaves neither the sale nor the counters changed; Stage tells
// operators which write was rejected.
type PersistenceError struct {
	Op    string
	Stage WriteStage
	Err   error
}

func (e *PersistenceError) Error() string {
	switch {
	case e.Op == "create" && e.Stage == StageInventory:
		return fmt.Sprintf("sale not recorded: failed to update inventory: %v", e.Err)
	case e.Stage == StageCommit:
		return fmt.Sprintf("%s sale: failed to commit: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s sale: failed to write %s: %v", e.Op, e.Stage, e.Err)
	}
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsDomainError reports whether err was raised before any write was attempted.
func IsDomainError(err error) bool {
	var ve *ValidationError
	var se *InsufficientStockError
	return errors.As(err, &ve) || errors.As(err, &se) || errors.Is(err, ErrNotFound)
}
