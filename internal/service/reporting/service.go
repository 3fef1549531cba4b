package reporting

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/poultrydesk/eggledger/internal/domain/models"
)

// ProductionReader exposes the production lookups reports need.
type ProductionReader interface {
	ListProductionForDate(ctx context.Context, date time.Time) ([]models.ProductionEntry, error)
	FindLatestProduction(ctx context.Context) (*models.ProductionEntry, error)
}

// SalesReader exposes the sales lookups reports need.
type SalesReader interface {
	ListSalesForDate(ctx context.Context, date time.Time) ([]models.Sale, error)
	ListSalesInRange(ctx context.Context, start, end time.Time) ([]models.Sale, error)
	ListSalesOnOrAfter(ctx context.Context, date time.Time) ([]models.Sale, error)
}

// InventoryReader exposes the snapshot lookups reports need.
type InventoryReader interface {
	FindInventoryByDate(ctx context.Context, date time.Time) (*models.InventorySnapshot, error)
	FindLatestInventory(ctx context.Context) (*models.InventorySnapshot, error)
}

// Service computes read-only views over the three ledgers.
type Service struct {
	production ProductionReader
	sales      SalesReader
	inventory  InventoryReader
	logger     *zap.Logger
	now        func() time.Time
}

// NewService wires the reporting service.
func NewService(production ProductionReader, sales SalesReader, inventory InventoryReader, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		production: production,
		sales:      sales,
		inventory:  inventory,
		logger:     logger,
		now:        time.Now,
	}
}

// ProductionForDay aggregates every harvest entry recorded for one day.
// Entries sum additively here even though the inventory snapshot only
// reflects the latest entry's ending balance.
func (s *Service) ProductionForDay(ctx context.Context, date time.Time) (*models.DailyProductionReport, error) {
	entries, err := s.production.ListProductionForDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, models.ErrNotFound
	}

	report := &models.DailyProductionReport{Date: models.Day(date), Entries: entries}
	for _, entry := range entries {
		report.BeginningBalance = report.BeginningBalance.Plus(entry.BeginningBalance)
		report.Harvested = report.Harvested.Plus(entry.Harvested)
		report.EndingBalance = report.EndingBalance.Plus(entry.EndingBalance)
		report.TotalEggs += entry.TotalEggs
		report.TotalTrays += entry.TotalTrays
	}
	return report, nil
}

// SalesForDay summarizes one day's sales per category.
func (s *Service) SalesForDay(ctx context.Context, date time.Time) (*models.DailySalesReport, error) {
	sales, err := s.sales.ListSalesForDate(ctx, date)
	if err != nil {
		return nil, err
	}

	report := &models.DailySalesReport{
		Date:         models.Day(date),
		SalesBySize:  make(map[models.Size]models.SizeSales, len(models.Sizes)),
		Transactions: sales,
	}
	for _, size := range models.Sizes {
		report.SalesBySize[size] = models.SizeSales{}
	}

	for _, sale := range sales {
		report.TotalIncome += sale.TotalAmount
		for _, item := range sale.Items {
			agg := report.SalesBySize[item.Size]
			agg.Trays += item.Trays
			agg.Pieces += item.Pieces
			agg.Amount += item.TotalAmount
			report.SalesBySize[item.Size] = agg
		}
	}
	return report, nil
}

// InventoryForDay returns the stored snapshot for one day.
func (s *Service) InventoryForDay(ctx context.Context, date time.Time) (*models.InventorySnapshot, error) {
	return s.inventory.FindInventoryByDate(ctx, date)
}

// IncomeForWindow sums sale totals over a trailing date window, bounds
// inclusive.
func (s *Service) IncomeForWindow(ctx context.Context, start, end time.Time) (float64, error) {
	sales, err := s.sales.ListSalesInRange(ctx, start, end)
	if err != nil {
		return 0, err
	}

	var income float64
	for _, sale := range sales {
		income += sale.TotalAmount
	}
	return income, nil
}

// CurrentFromSnapshot is the direct current-inventory read path: the latest
// stored snapshot as-is.
func (s *Service) CurrentFromSnapshot(ctx context.Context) (*models.InventorySnapshot, error) {
	return s.inventory.FindLatestInventory(ctx)
}

// CurrentFromProduction is the derived current-inventory read path: the
// latest production entry's ending balance minus every sale dated on or
// after that entry's date, clamped at zero per category.
func (s *Service) CurrentFromProduction(ctx context.Context) (*models.InventorySnapshot, error) {
	latest, err := s.production.FindLatestProduction(ctx)
	if err != nil {
		return nil, err
	}

	counts := latest.EndingBalance
	sales, err := s.sales.ListSalesOnOrAfter(ctx, latest.Date)
	if err != nil {
		return nil, err
	}

	for _, sale := range sales {
		sold := sale.Deductions()
		for _, size := range models.Sizes {
			remaining := counts.Of(size) - sold.Of(size)
			if remaining < 0 {
				remaining = 0
			}
			counts.SetOf(size, remaining)
		}
	}

	derived := &models.InventorySnapshot{Date: latest.Date, EggCount: counts}
	derived.Recompute()
	return derived, nil
}

// Dashboard assembles the overview: today's aggregated production, today's
// sales count and income, trailing-week income, and current inventory. The
// production-derived inventory view is preferred, with the stored snapshot
// as fallback.
func (s *Service) Dashboard(ctx context.Context) (*models.DashboardSummary, error) {
	today := models.Day(s.now())

	summary := &models.DashboardSummary{}

	prodReport, err := s.ProductionForDay(ctx, today)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	summary.TodayProduction = prodReport

	todaySales, err := s.sales.ListSalesForDate(ctx, today)
	if err != nil {
		return nil, err
	}
	summary.TodaySales = len(todaySales)
	for _, sale := range todaySales {
		summary.TodayIncome += sale.TotalAmount
	}

	weekAgo := today.AddDate(0, 0, -7)
	weekly, err := s.IncomeForWindow(ctx, weekAgo, today)
	if err != nil {
		return nil, err
	}
	summary.WeeklyIncome = weekly

	current, err := s.CurrentFromProduction(ctx)
	if errors.Is(err, models.ErrNotFound) {
		current, err = s.CurrentFromSnapshot(ctx)
		if errors.Is(err, models.ErrNotFound) {
			current, err = nil, nil
		}
	}
	if err != nil {
		return nil, err
	}
	summary.CurrentInventory = current

	return summary, nil
}
