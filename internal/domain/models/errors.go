package models

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for errors.Is checks across layers.
var (
	// ErrNotFound indicates a missing record: unknown id, unknown size
	// category, or no data for a date.
	ErrNotFound = errors.New("record not found")

	// ErrValidation indicates malformed client input rejected before any
	// mutation.
	ErrValidation = errors.New("validation failed")

	// ErrNoInventory indicates a sale was attempted against a date without a
	// recorded inventory snapshot.
	ErrNoInventory = errors.New("no inventory for date")

	// ErrInsufficientStock indicates a debit would drive an inventory count
	// below zero.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrPricingMissing indicates a size category has no configured price.
	ErrPricingMissing = errors.New("pricing not configured")

	// ErrVersionConflict indicates an optimistic write lost against a
	// concurrent update and may be retried.
	ErrVersionConflict = errors.New("inventory version conflict")

	// ErrUnsafeDeletion indicates a deletion was rejected because its
	// compensating inventory adjustment cannot be applied safely.
	ErrUnsafeDeletion = errors.New("deletion would leave inventory inconsistent")
)

// ValidationError names the offending field of a rejected request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NoInventoryError carries the date a sale could not settle against.
type NoInventoryError struct {
	Date time.Time
}

func (e *NoInventoryError) Error() string {
	return fmt.Sprintf("no inventory found for %s; record production for this date first", e.Date.Format("2006-01-02"))
}

func (e *NoInventoryError) Unwrap() error { return ErrNoInventory }

// InsufficientStockError reports how far a request exceeded on-hand stock.
type InsufficientStockError struct {
	Size      Size
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d pieces, requested %d", e.Size, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// PricingMissingError identifies the unpriced size category.
type PricingMissingError struct {
	Size Size
}

func (e *PricingMissingError) Error() string {
	return fmt.Sprintf("pricing not found for %s", e.Size)
}

func (e *PricingMissingError) Unwrap() error { return ErrPricingMissing }

// UnsafeDeletionError explains why a compensating adjustment was refused.
type UnsafeDeletionError struct {
	Size      Size
	Shortfall int
}

func (e *UnsafeDeletionError) Error() string {
	return fmt.Sprintf("deleting this record would leave %s short by %d pieces", e.Size, e.Shortfall)
}

func (e *UnsafeDeletionError) Unwrap() error { return ErrUnsafeDeletion }
