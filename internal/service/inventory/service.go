package inventory

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/poultrydesk/eggledger/internal/domain/models"
)

// casRetries bounds how often a lost compare-and-swap is retried before the
// conflict surfaces to the caller.
const casRetries = 5

// Store defines the persistence operations the ledger needs.
type Store interface {
	ListInventory(ctx context.Context) ([]models.InventorySnapshot, error)
	FindInventoryByDate(ctx context.Context, date time.Time) (*models.InventorySnapshot, error)
	FindLatestInventory(ctx context.Context) (*models.InventorySnapshot, error)
	InsertInventory(ctx context.Context, snap *models.InventorySnapshot) error
	ReplaceInventoryVersioned(ctx context.Context, snap *models.InventorySnapshot, expected int64) error
	DeleteInventoryByID(ctx context.Context, id string) error
	DeleteInventoryByDate(ctx context.Context, date time.Time) error
}

// Service is the single writer surface over per-date inventory snapshots.
// Counts are only ever mutated through Overwrite and Adjust, both of which
// re-derive totals and go through the versioned store write.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService wires the inventory ledger.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// List returns every snapshot, newest first.
func (s *Service) List(ctx context.Context) ([]models.InventorySnapshot, error) {
	return s.store.ListInventory(ctx)
}

// ByDate returns the snapshot for one calendar day.
func (s *Service) ByDate(ctx context.Context, date time.Time) (*models.InventorySnapshot, error) {
	return s.store.FindInventoryByDate(ctx, date)
}

// Latest returns the most recent snapshot.
func (s *Service) Latest(ctx context.Context) (*models.InventorySnapshot, error) {
	return s.store.FindLatestInventory(ctx)
}

// UpsertFromProduction overwrites the snapshot for date with a production
// ending balance. The overwrite replaces whatever the previous entry for the
// same date contributed.
func (s *Service) UpsertFromProduction(ctx context.Context, date time.Time, balance models.EggCount) (*models.InventorySnapshot, error) {
	if size, neg := balance.FirstNegative(); neg {
		return nil, &models.ValidationError{Field: string(size), Message: "count must not be negative"}
	}

	day := models.Day(date)

	for attempt := 0; attempt <= casRetries; attempt++ {
		existing, err := s.store.FindInventoryByDate(ctx, day)
		if errors.Is(err, models.ErrNotFound) {
			snap := &models.InventorySnapshot{Date: day, EggCount: balance}
			snap.Recompute()
			insertErr := s.store.InsertInventory(ctx, snap)
			if errors.Is(insertErr, models.ErrVersionConflict) {
				continue // lost an insert race, re-read and overwrite
			}
			if insertErr != nil {
				return nil, insertErr
			}
			return snap, nil
		}
		if err != nil {
			return nil, err
		}

		expected := existing.Version
		existing.EggCount = balance
		existing.Recompute()
		replaceErr := s.store.ReplaceInventoryVersioned(ctx, existing, expected)
		if errors.Is(replaceErr, models.ErrVersionConflict) {
			continue
		}
		if replaceErr != nil {
			return nil, replaceErr
		}
		return existing, nil
	}

	s.logger.Warn("inventory overwrite exhausted retries", zap.Time("date", day))
	return nil, models.ErrVersionConflict
}

// Adjust applies signed per-category deltas to the snapshot for date. A debit
// that would drive any count below zero fails with InsufficientStockError and
// leaves the snapshot untouched; credits are never rejected.
func (s *Service) Adjust(ctx context.Context, date time.Time, deltas models.EggCount) (*models.InventorySnapshot, error) {
	day := models.Day(date)

	for attempt := 0; attempt <= casRetries; attempt++ {
		snap, err := s.store.FindInventoryByDate(ctx, day)
		if errors.Is(err, models.ErrNotFound) {
			return nil, &models.NoInventoryError{Date: day}
		}
		if err != nil {
			return nil, err
		}

		expected := snap.Version
		for _, size := range models.Sizes {
			delta := deltas.Of(size)
			if delta == 0 {
				continue
			}
			result := snap.Of(size) + delta
			if result < 0 {
				return nil, &models.InsufficientStockError{
					Size:      size,
					Available: snap.Of(size),
					Requested: -delta,
				}
			}
			snap.SetOf(size, result)
		}
		snap.Recompute()

		replaceErr := s.store.ReplaceInventoryVersioned(ctx, snap, expected)
		if errors.Is(replaceErr, models.ErrVersionConflict) {
			continue
		}
		if replaceErr != nil {
			return nil, replaceErr
		}
		return snap, nil
	}

	s.logger.Warn("inventory adjust exhausted retries", zap.Time("date", day))
	return nil, models.ErrVersionConflict
}

// Delete removes a snapshot by id. Administrative cleanup only; production
// and sales records referencing the date are untouched.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.DeleteInventoryByID(ctx, id)
}

// RemoveForDate drops the snapshot for a day. Missing snapshots are not an
// error here; deletion flows call this when nothing remains to reflect.
func (s *Service) RemoveForDate(ctx context.Context, date time.Time) error {
	err := s.store.DeleteInventoryByDate(ctx, date)
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	return err
}
