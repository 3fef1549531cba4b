package reporting

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poultrydesk/eggledger/internal/domain/models"
)

type fakeProduction struct {
	entries []models.ProductionEntry
}

func (f *fakeProduction) ListProductionForDate(ctx context.Context, date time.Time) ([]models.ProductionEntry, error) {
	var out []models.ProductionEntry
	for _, e := range f.entries {
		if models.Day(e.Date).Equal(models.Day(date)) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeProduction) FindLatestProduction(ctx context.Context) (*models.ProductionEntry, error) {
	if len(f.entries) == 0 {
		return nil, fmt.Errorf("%w: no production", models.ErrNotFound)
	}
	latest := f.entries[0]
	for _, e := range f.entries[1:] {
		if e.Date.After(latest.Date) {
			latest = e
		}
	}
	return &latest, nil
}

type fakeSales struct {
	sales []models.Sale
}

func (f *fakeSales) ListSalesForDate(ctx context.Context, date time.Time) ([]models.Sale, error) {
	var out []models.Sale
	for _, s := range f.sales {
		if models.Day(s.Date).Equal(models.Day(date)) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSales) ListSalesInRange(ctx context.Context, start, end time.Time) ([]models.Sale, error) {
	var out []models.Sale
	for _, s := range f.sales {
		if !s.Date.Before(models.Day(start)) && !s.Date.After(models.Day(end)) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSales) ListSalesOnOrAfter(ctx context.Context, date time.Time) ([]models.Sale, error) {
	var out []models.Sale
	for _, s := range f.sales {
		if !s.Date.Before(models.Day(date)) {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeInventory struct {
	snapshots []models.InventorySnapshot
}

func (f *fakeInventory) FindInventoryByDate(ctx context.Context, date time.Time) (*models.InventorySnapshot, error) {
	for _, snap := range f.snapshots {
		if models.Day(snap.Date).Equal(models.Day(date)) {
			return &snap, nil
		}
	}
	return nil, fmt.Errorf("%w: no inventory", models.ErrNotFound)
}

func (f *fakeInventory) FindLatestInventory(ctx context.Context) (*models.InventorySnapshot, error) {
	if len(f.snapshots) == 0 {
		return nil, fmt.Errorf("%w: no inventory", models.ErrNotFound)
	}
	latest := f.snapshots[0]
	for _, snap := range f.snapshots[1:] {
		if snap.Date.After(latest.Date) {
			latest = snap
		}
	}
	return &latest, nil
}

func newTestService(clock time.Time) (*Service, *fakeProduction, *fakeSales, *fakeInventory) {
	prod := &fakeProduction{}
	sales := &fakeSales{}
	inv := &fakeInventory{}
	svc := NewService(prod, sales, inv, nil)
	svc.now = func() time.Time { return clock }
	return svc, prod, sales, inv
}

func march(day int) time.Time {
	return time.Date(2024, time.March, day, 0, 0, 0, 0, time.UTC)
}

func newEntry(date time.Time, beginning, harvested models.EggCount) models.ProductionEntry {
	entry := models.ProductionEntry{Date: models.Day(date), BeginningBalance: beginning, Harvested: harvested}
	entry.Recompute()
	return entry
}

func newSale(date time.Time, items ...models.SaleItem) models.Sale {
	sale := models.Sale{Date: models.Day(date), Items: items}
	sale.Recompute()
	return sale
}

func TestProductionForDay_SumsEntries(t *testing.T) {
	svc, prod, _, _ := newTestService(march(10))
	prod.entries = []models.ProductionEntry{
		newEntry(march(10), models.EggCount{Small: 50}, models.EggCount{Small: 30}),
		newEntry(march(10), models.EggCount{Small: 50}, models.EggCount{Small: 10, Large: 60}),
		newEntry(march(11), models.EggCount{Small: 90}, models.EggCount{Small: 5}),
	}

	report, err := svc.ProductionForDay(context.Background(), march(10))
	require.NoError(t, err)

	assert.Equal(t, 40, report.Harvested.Small)
	assert.Equal(t, 60, report.Harvested.Large)
	assert.Len(t, report.Entries, 2, "other days are excluded")
	assert.Equal(t, report.TotalEggs, report.Entries[0].TotalEggs+report.Entries[1].TotalEggs)
}

func TestProductionForDay_Empty(t *testing.T) {
	svc, _, _, _ := newTestService(march(10))
	_, err := svc.ProductionForDay(context.Background(), march(10))
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSalesForDay_AggregatesPerSize(t *testing.T) {
	svc, _, sales, _ := newTestService(march(10))
	sales.sales = []models.Sale{
		newSale(march(10),
			models.SaleItem{Size: models.SizeSmall, Trays: 2, Pieces: 10, TotalAmount: 330},
			models.SaleItem{Size: models.SizeLarge, Trays: 1, TotalAmount: 180},
		),
		newSale(march(10),
			models.SaleItem{Size: models.SizeSmall, Trays: 1, Pieces: 5, TotalAmount: 165},
		),
		newSale(march(11),
			models.SaleItem{Size: models.SizeSmall, Trays: 4, TotalAmount: 560},
		),
	}

	report, err := svc.SalesForDay(context.Background(), march(10))
	require.NoError(t, err)

	assert.InDelta(t, 675, report.TotalIncome, 0.001)
	assert.Len(t, report.Transactions, 2)

	small := report.SalesBySize[models.SizeSmall]
	assert.Equal(t, 3, small.Trays)
	assert.Equal(t, 15, small.Pieces)
	assert.InDelta(t, 495, small.Amount, 0.001)

	assert.Len(t, report.SalesBySize, len(models.Sizes), "every category is present even with zero sales")
	assert.Equal(t, models.SizeSales{}, report.SalesBySize[models.SizeJumbo])
}

func TestCurrentFromProduction_DeductsAndClamps(t *testing.T) {
	svc, prod, sales, _ := newTestService(march(12))
	prod.entries = []models.ProductionEntry{
		newEntry(march(10), models.EggCount{}, models.EggCount{Small: 60, Medium: 20}),
	}
	sales.sales = []models.Sale{
		newSale(march(9), models.SaleItem{Size: models.SizeSmall, Trays: 10}), // before the entry, ignored
		newSale(march(11), models.SaleItem{Size: models.SizeSmall, Trays: 1}),
		newSale(march(11), models.SaleItem{Size: models.SizeMedium, Trays: 1}), // 30 > 20 on hand
	}

	snap, err := svc.CurrentFromProduction(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 30, snap.Small, "60 - 30 sold since the latest entry")
	assert.Equal(t, 0, snap.Medium, "oversold categories clamp at zero")
	assert.Equal(t, 30, snap.TotalEggs)
	assert.Equal(t, 1, snap.TotalTrays)
}

func TestIncomeForWindow_BoundsInclusive(t *testing.T) {
	svc, _, sales, _ := newTestService(march(10))
	sales.sales = []models.Sale{
		newSale(march(1), models.SaleItem{Size: models.SizeSmall, Trays: 1, TotalAmount: 140}),
		newSale(march(5), models.SaleItem{Size: models.SizeSmall, Trays: 1, TotalAmount: 140}),
		newSale(march(8), models.SaleItem{Size: models.SizeSmall, Trays: 1, TotalAmount: 140}),
		newSale(march(9), models.SaleItem{Size: models.SizeSmall, Trays: 1, TotalAmount: 140}),
	}

	income, err := svc.IncomeForWindow(context.Background(), march(5), march(8))
	require.NoError(t, err)
	assert.InDelta(t, 280, income, 0.001)
}

func TestDashboard_AssemblesOverview(t *testing.T) {
	svc, prod, sales, _ := newTestService(march(10))
	prod.entries = []models.ProductionEntry{
		newEntry(march(10), models.EggCount{Small: 50}, models.EggCount{Small: 40}),
	}
	sales.sales = []models.Sale{
		newSale(march(10), models.SaleItem{Size: models.SizeSmall, Trays: 1, TotalAmount: 140}),
		newSale(march(10), models.SaleItem{Size: models.SizeSmall, Trays: 2, TotalAmount: 280}),
		newSale(march(6), models.SaleItem{Size: models.SizeSmall, Trays: 1, TotalAmount: 140}),
		newSale(march(1), models.SaleItem{Size: models.SizeSmall, Trays: 1, TotalAmount: 140}), // outside the week
	}

	summary, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	require.NotNil(t, summary.TodayProduction)
	assert.Equal(t, 40, summary.TodayProduction.Harvested.Small)
	assert.Equal(t, 2, summary.TodaySales)
	assert.InDelta(t, 420, summary.TodayIncome, 0.001)
	assert.InDelta(t, 560, summary.WeeklyIncome, 0.001)

	require.NotNil(t, summary.CurrentInventory)
	assert.Equal(t, 0, summary.CurrentInventory.Small, "90 ending minus 90 sold today")
}

func TestDashboard_FallsBackToSnapshot(t *testing.T) {
	svc, _, _, inv := newTestService(march(10))
	stored := models.InventorySnapshot{Date: models.Day(march(9)), EggCount: models.EggCount{Large: 45}}
	stored.Recompute()
	inv.snapshots = []models.InventorySnapshot{stored}

	summary, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Nil(t, summary.TodayProduction)
	require.NotNil(t, summary.CurrentInventory)
	assert.Equal(t, 45, summary.CurrentInventory.Large)
}

func TestDashboard_EmptySystem(t *testing.T) {
	svc, _, _, _ := newTestService(march(10))

	summary, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Nil(t, summary.TodayProduction)
	assert.Nil(t, summary.CurrentInventory)
	assert.Zero(t, summary.TodaySales)
	assert.Zero(t, summary.WeeklyIncome)
}
