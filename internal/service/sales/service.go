package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/poultrydesk/eggledger/internal/domain/models"
)

// Store defines the persistence operations for sale transactions.
type Store interface {
	ListSales(ctx context.Context) ([]models.Sale, error)
	ListSalesForDate(ctx context.Context, date time.Time) ([]models.Sale, error)
	ListSalesInRange(ctx context.Context, start, end time.Time) ([]models.Sale, error)
	FindSaleByID(ctx context.Context, id string) (*models.Sale, error)
	InsertSale(ctx context.Context, sale *models.Sale) error
	DeleteSale(ctx context.Context, id string) error
}

// Ledger is the inventory surface a settlement debits and a reversal credits.
type Ledger interface {
	ByDate(ctx context.Context, date time.Time) (*models.InventorySnapshot, error)
	Adjust(ctx context.Context, date time.Time, deltas models.EggCount) (*models.InventorySnapshot, error)
}

// PriceBook resolves the current price for a size category.
type PriceBook interface {
	BySize(ctx context.Context, size models.Size) (*models.PriceRecord, error)
}

// ItemInput is one requested sale line before settlement.
type ItemInput struct {
	Size   models.Size
	Trays  int
	Pieces int
}

// Service settles sales against the inventory ledger. Validation runs over
// every line item before anything is written; the debit itself goes through
// the ledger's atomic adjust so concurrent sales cannot oversell.
type Service struct {
	store  Store
	ledger Ledger
	prices PriceBook
	logger *zap.Logger
}

// NewService wires the sales service.
func NewService(store Store, ledger Ledger, prices PriceBook, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, ledger: ledger, prices: prices, logger: logger}
}

// List returns every sale, newest first.
func (s *Service) List(ctx context.Context) ([]models.Sale, error) {
	return s.store.ListSales(ctx)
}

// ByID loads one sale.
func (s *Service) ByID(ctx context.Context, id string) (*models.Sale, error) {
	return s.store.FindSaleByID(ctx, id)
}

// ForDate returns the day's sales.
func (s *Service) ForDate(ctx context.Context, date time.Time) ([]models.Sale, error) {
	return s.store.ListSalesForDate(ctx, date)
}

// InRange returns sales dated between start and end inclusive.
func (s *Service) InRange(ctx context.Context, start, end time.Time) ([]models.Sale, error) {
	if end.Before(start) {
		return nil, &models.ValidationError{Field: "endDate", Message: "must not precede startDate"}
	}
	return s.store.ListSalesInRange(ctx, start, end)
}

// Create validates and settles one sale. Line items are checked in input
// order against a working copy of the snapshot, so two items of the same
// category are validated cumulatively. Prices are snapshotted onto each line
// at settlement time. Nothing is persisted unless every item passes.
func (s *Service) Create(ctx context.Context, date time.Time, items []ItemInput, notes string) (*models.Sale, error) {
	if len(items) == 0 {
		return nil, &models.ValidationError{Field: "items", Message: "at least one line item is required"}
	}

	day := models.Day(date)

	snap, err := s.ledger.ByDate(ctx, day)
	if errors.Is(err, models.ErrNotFound) {
		return nil, &models.NoInventoryError{Date: day}
	}
	if err != nil {
		return nil, err
	}

	working := snap.EggCount
	settled := make([]models.SaleItem, 0, len(items))
	var deltas models.EggCount

	for _, item := range items {
		if err := validateItem(item); err != nil {
			return nil, err
		}

		requested := item.Trays*models.EggsPerTray + item.Pieces
		available := working.Of(item.Size)
		if requested > available {
			return nil, &models.InsufficientStockError{
				Size:      item.Size,
				Available: available,
				Requested: requested,
			}
		}

		price, err := s.prices.BySize(ctx, item.Size)
		if errors.Is(err, models.ErrNotFound) {
			return nil, &models.PricingMissingError{Size: item.Size}
		}
		if err != nil {
			return nil, err
		}

		settled = append(settled, models.SaleItem{
			Size:          item.Size,
			Trays:         item.Trays,
			Pieces:        item.Pieces,
			PricePerTray:  price.PricePerTray,
			PricePerPiece: price.PricePerPiece,
			TotalAmount:   float64(item.Trays)*price.PricePerTray + float64(item.Pieces)*price.PricePerPiece,
		})

		working.AddOf(item.Size, -requested)
		deltas.AddOf(item.Size, -requested)
	}

	// The adjust re-validates against live stock, so a concurrent sale that
	// landed between the read above and here still cannot oversell.
	if _, err := s.ledger.Adjust(ctx, day, deltas); err != nil {
		return nil, err
	}

	sale := &models.Sale{
		Date:  day,
		Items: settled,
		Notes: notes,
	}
	sale.Recompute()

	if err := s.store.InsertSale(ctx, sale); err != nil {
		s.compensate(ctx, day, deltas)
		return nil, err
	}

	s.logger.Info("sale settled",
		zap.Time("date", day),
		zap.Int("items", len(settled)),
		zap.Float64("total", sale.TotalAmount))
	return sale, nil
}

// Delete reverses a sale's inventory deduction and removes the record. A
// missing snapshot for the sale's date fails the deletion instead of silently
// dropping the restoration.
func (s *Service) Delete(ctx context.Context, id string) error {
	sale, err := s.store.FindSaleByID(ctx, id)
	if err != nil {
		return err
	}

	if _, err := s.ledger.Adjust(ctx, sale.Date, sale.Deductions()); err != nil {
		if errors.Is(err, models.ErrNoInventory) {
			return fmt.Errorf("cannot restore sale %s: %w", id, err)
		}
		return err
	}

	if err := s.store.DeleteSale(ctx, id); err != nil {
		return err
	}

	s.logger.Info("sale deleted, inventory restored",
		zap.String("id", id),
		zap.Time("date", sale.Date))
	return nil
}

// compensate re-credits a debit whose sale failed to persist. Best effort;
// a failure here is logged and left for manual reconciliation.
func (s *Service) compensate(ctx context.Context, date time.Time, deltas models.EggCount) {
	var credit models.EggCount
	for _, size := range models.Sizes {
		credit.SetOf(size, -deltas.Of(size))
	}
	if _, err := s.ledger.Adjust(ctx, date, credit); err != nil {
		s.logger.Error("failed to compensate inventory after aborted sale",
			zap.Time("date", date), zap.Error(err))
	}
}

func validateItem(item ItemInput) error {
	if _, err := models.ParseSize(string(item.Size)); err != nil {
		return err
	}
	if item.Trays < 0 {
		return &models.ValidationError{Field: "trays", Message: "must not be negative"}
	}
	if item.Pieces < 0 {
		return &models.ValidationError{Field: "pieces", Message: "must not be negative"}
	}
	if item.Pieces >= models.EggsPerTray {
		return &models.ValidationError{Field: "pieces", Message: fmt.Sprintf("must be below %d; use trays", models.EggsPerTray)}
	}
	if item.Trays == 0 && item.Pieces == 0 {
		return &models.ValidationError{Field: "items", Message: "line item quantity must be positive"}
	}
	return nil
}
