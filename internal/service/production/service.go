package production

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/poultrydesk/eggledger/internal/domain/models"
)

// Store defines the persistence operations for harvest entries.
type Store interface {
	ListProduction(ctx context.Context) ([]models.ProductionEntry, error)
	ListProductionForDate(ctx context.Context, date time.Time) ([]models.ProductionEntry, error)
	FindProductionByID(ctx context.Context, id string) (*models.ProductionEntry, error)
	FindLatestProductionBefore(ctx context.Context, date time.Time) (*models.ProductionEntry, error)
	InsertProduction(ctx context.Context, entry *models.ProductionEntry) error
	UpdateProduction(ctx context.Context, entry *models.ProductionEntry) error
	DeleteProduction(ctx context.Context, id string) error
}

// Ledger is the inventory surface production pushes ending balances into.
type Ledger interface {
	UpsertFromProduction(ctx context.Context, date time.Time, balance models.EggCount) (*models.InventorySnapshot, error)
	RemoveForDate(ctx context.Context, date time.Time) error
}

// SalesReader exposes the day's sales so deletions can verify that the
// recomputed snapshot still covers what was already sold.
type SalesReader interface {
	ListSalesForDate(ctx context.Context, date time.Time) ([]models.Sale, error)
}

// Service maintains the beginning-harvest-ending balance chain and keeps the
// inventory ledger in step with it.
type Service struct {
	store  Store
	ledger Ledger
	sales  SalesReader
	logger *zap.Logger
}

// NewService wires the production service.
func NewService(store Store, ledger Ledger, sales SalesReader, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, ledger: ledger, sales: sales, logger: logger}
}

// List returns every harvest entry, newest first.
func (s *Service) List(ctx context.Context) ([]models.ProductionEntry, error) {
	return s.store.ListProduction(ctx)
}

// ByID loads one entry.
func (s *Service) ByID(ctx context.Context, id string) (*models.ProductionEntry, error) {
	return s.store.FindProductionByID(ctx, id)
}

// ByDate returns the day's entries in creation order.
func (s *Service) ByDate(ctx context.Context, date time.Time) ([]models.ProductionEntry, error) {
	entries, err := s.store.ListProductionForDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no production for %s", models.ErrNotFound, models.Day(date).Format(models.DateLayout))
	}
	return entries, nil
}

// Record appends a harvest entry. The beginning balance carries forward from
// the most recent entry dated before this one, so gaps in the calendar do not
// reset the chain to zero. The resulting ending balance overwrites the
// inventory snapshot for the date.
func (s *Service) Record(ctx context.Context, date time.Time, harvested models.EggCount) (*models.ProductionEntry, error) {
	if size, neg := harvested.FirstNegative(); neg {
		return nil, &models.ValidationError{Field: string(size), Message: "harvested count must not be negative"}
	}

	day := models.Day(date)

	var beginning models.EggCount
	previous, err := s.store.FindLatestProductionBefore(ctx, day)
	switch {
	case err == nil:
		beginning = previous.EndingBalance
	case errors.Is(err, models.ErrNotFound):
		// first entry ever; chain starts at zero
	default:
		return nil, err
	}

	entry := &models.ProductionEntry{
		Date:             day,
		BeginningBalance: beginning,
		Harvested:        harvested,
	}
	entry.Recompute()

	if err := s.store.InsertProduction(ctx, entry); err != nil {
		return nil, err
	}

	if _, err := s.ledger.UpsertFromProduction(ctx, day, entry.EndingBalance); err != nil {
		return nil, err
	}

	s.logger.Info("production recorded",
		zap.Time("date", day),
		zap.Int("harvested", harvested.TotalEggs()),
		zap.Int("ending_total", entry.TotalEggs))
	return entry, nil
}

// Update revises an entry's harvested counts, recomputes the ending balance
// from the stored beginning balance, and re-propagates to inventory.
func (s *Service) Update(ctx context.Context, id string, harvested models.EggCount) (*models.ProductionEntry, error) {
	if size, neg := harvested.FirstNegative(); neg {
		return nil, &models.ValidationError{Field: string(size), Message: "harvested count must not be negative"}
	}

	entry, err := s.store.FindProductionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	entry.Harvested = harvested
	entry.Recompute()

	if err := s.store.UpdateProduction(ctx, entry); err != nil {
		return nil, err
	}

	if _, err := s.ledger.UpsertFromProduction(ctx, entry.Date, entry.EndingBalance); err != nil {
		return nil, err
	}

	return entry, nil
}

// Delete removes an entry and re-derives the day's inventory snapshot from
// what remains: the latest surviving entry's ending balance minus the day's
// recorded sales. Deletion is rejected when the day's sales have already
// consumed more than the recomputed snapshot could hold.
func (s *Service) Delete(ctx context.Context, id string) error {
	entry, err := s.store.FindProductionByID(ctx, id)
	if err != nil {
		return err
	}

	remaining, err := s.store.ListProductionForDate(ctx, entry.Date)
	if err != nil {
		return err
	}

	var survivors []models.ProductionEntry
	for _, e := range remaining {
		if e.ID != entry.ID {
			survivors = append(survivors, e)
		}
	}

	sales, err := s.sales.ListSalesForDate(ctx, entry.Date)
	if err != nil {
		return err
	}

	var sold models.EggCount
	for _, sale := range sales {
		sold = sold.Plus(sale.Deductions())
	}

	var balance models.EggCount
	if len(survivors) > 0 {
		balance = survivors[len(survivors)-1].EndingBalance
	}

	for _, size := range models.Sizes {
		shortfall := sold.Of(size) - balance.Of(size)
		if shortfall > 0 {
			return &models.UnsafeDeletionError{Size: size, Shortfall: shortfall}
		}
		balance.AddOf(size, -sold.Of(size))
	}

	if err := s.store.DeleteProduction(ctx, id); err != nil {
		return err
	}

	if len(survivors) == 0 && len(sales) == 0 {
		if err := s.ledger.RemoveForDate(ctx, entry.Date); err != nil {
			return err
		}
		s.logger.Info("production deleted, snapshot removed", zap.Time("date", entry.Date))
		return nil
	}

	if _, err := s.ledger.UpsertFromProduction(ctx, entry.Date, balance); err != nil {
		return err
	}

	s.logger.Info("production deleted, snapshot recomputed",
		zap.Time("date", entry.Date),
		zap.Int("remaining_entries", len(survivors)))
	return nil
}
