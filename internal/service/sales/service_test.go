package sales_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/poultrydesk/eggledger/internal/domain/models"
	"github.com/poultrydesk/eggledger/internal/service/sales"
)

// fakeLedger mirrors the inventory service's adjust contract: missing dates
// fail with NoInventory, debits below zero fail with InsufficientStock.
type fakeLedger struct {
	snapshots map[string]*models.InventorySnapshot
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{snapshots: make(map[string]*models.InventorySnapshot)}
}

func (f *fakeLedger) seed(date time.Time, counts models.EggCount) {
	snap := &models.InventorySnapshot{Date: models.Day(date), EggCount: counts}
	snap.Recompute()
	f.snapshots[models.Day(date).Format(models.DateLayout)] = snap
}

func (f *fakeLedger) remove(date time.Time) {
	delete(f.snapshots, models.Day(date).Format(models.DateLayout))
}

func (f *fakeLedger) ByDate(ctx context.Context, date time.Time) (*models.InventorySnapshot, error) {
	snap, ok := f.snapshots[models.Day(date).Format(models.DateLayout)]
	if !ok {
		return nil, fmt.Errorf("%w: no inventory", models.ErrNotFound)
	}
	copied := *snap
	return &copied, nil
}

func (f *fakeLedger) Adjust(ctx context.Context, date time.Time, deltas models.EggCount) (*models.InventorySnapshot, error) {
	snap, ok := f.snapshots[models.Day(date).Format(models.DateLayout)]
	if !ok {
		return nil, &models.NoInventoryError{Date: models.Day(date)}
	}

	for _, size := range models.Sizes {
		delta := deltas.Of(size)
		if delta == 0 {
			continue
		}
		result := snap.Of(size) + delta
		if result < 0 {
			return nil, &models.InsufficientStockError{Size: size, Available: snap.Of(size), Requested: -delta}
		}
	}
	for _, size := range models.Sizes {
		snap.AddOf(size, deltas.Of(size))
	}
	snap.Recompute()
	copied := *snap
	return &copied, nil
}

type fakeStore struct {
	sales     map[string]*models.Sale
	insertErr error
}

func newFakeSaleStore() *fakeStore {
	return &fakeStore{sales: make(map[string]*models.Sale)}
}

func (f *fakeStore) ListSales(ctx context.Context) ([]models.Sale, error) {
	var out []models.Sale
	for _, s := range f.sales {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeStore) ListSalesForDate(ctx context.Context, date time.Time) ([]models.Sale, error) {
	var out []models.Sale
	for _, s := range f.sales {
		if models.Day(s.Date).Equal(models.Day(date)) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStore) ListSalesInRange(ctx context.Context, start, end time.Time) ([]models.Sale, error) {
	var out []models.Sale
	for _, s := range f.sales {
		if !s.Date.Before(models.Day(start)) && !s.Date.After(models.Day(end)) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStore) FindSaleByID(ctx context.Context, id string) (*models.Sale, error) {
	s, ok := f.sales[id]
	if !ok {
		return nil, fmt.Errorf("%w: sale %s", models.ErrNotFound, id)
	}
	copied := *s
	return &copied, nil
}

func (f *fakeStore) InsertSale(ctx context.Context, sale *models.Sale) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	sale.ID = primitive.NewObjectID()
	stored := *sale
	f.sales[sale.ID.Hex()] = &stored
	return nil
}

func (f *fakeStore) DeleteSale(ctx context.Context, id string) error {
	if _, ok := f.sales[id]; !ok {
		return fmt.Errorf("%w: sale %s", models.ErrNotFound, id)
	}
	delete(f.sales, id)
	return nil
}

type fakePrices struct {
	prices map[models.Size]models.PriceRecord
}

func (f *fakePrices) BySize(ctx context.Context, size models.Size) (*models.PriceRecord, error) {
	p, ok := f.prices[size]
	if !ok {
		return nil, fmt.Errorf("%w: pricing for %s", models.ErrNotFound, size)
	}
	return &p, nil
}

func newTestService() (*sales.Service, *fakeStore, *fakeLedger, *fakePrices) {
	store := newFakeSaleStore()
	ledger := newFakeLedger()
	prices := &fakePrices{prices: map[models.Size]models.PriceRecord{
		models.SizeSmall:  {Size: models.SizeSmall, PricePerTray: 140, PricePerPiece: 5},
		models.SizeMedium: {Size: models.SizeMedium, PricePerTray: 160, PricePerPiece: 6},
	}}
	return sales.NewService(store, ledger, prices, nil), store, ledger, prices
}

func march(day int) time.Time {
	return time.Date(2024, time.March, day, 0, 0, 0, 0, time.UTC)
}

func TestCreate_SettlesAndDeducts(t *testing.T) {
	svc, _, ledger, _ := newTestService()
	ctx := context.Background()
	ledger.seed(march(10), models.EggCount{Small: 100})

	sale, err := svc.Create(ctx, march(10), []sales.ItemInput{
		{Size: models.SizeSmall, Trays: 2, Pieces: 10},
	}, "walk-in")
	require.NoError(t, err)

	require.Len(t, sale.Items, 1)
	assert.InDelta(t, 330, sale.Items[0].TotalAmount, 0.001, "2*140 + 10*5")
	assert.InDelta(t, 330, sale.TotalAmount, 0.001)
	assert.Equal(t, 140.0, sale.Items[0].PricePerTray)
	assert.Equal(t, 5.0, sale.Items[0].PricePerPiece)
	assert.Equal(t, "walk-in", sale.Notes)

	snap, err := ledger.ByDate(ctx, march(10))
	require.NoError(t, err)
	assert.Equal(t, 30, snap.Small, "100 - (2*30+10)")
}

func TestCreate_InsufficientStockIsAtomic(t *testing.T) {
	svc, store, ledger, _ := newTestService()
	ctx := context.Background()
	ledger.seed(march(10), models.EggCount{Medium: 50})

	_, err := svc.Create(ctx, march(10), []sales.ItemInput{
		{Size: models.SizeMedium, Trays: 1, Pieces: 25},
	}, "")
	require.Error(t, err)

	var stockErr *models.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, models.SizeMedium, stockErr.Size)
	assert.Equal(t, 50, stockErr.Available)
	assert.Equal(t, 55, stockErr.Requested)

	snap, err := ledger.ByDate(ctx, march(10))
	require.NoError(t, err)
	assert.Equal(t, 50, snap.Medium, "failed sale must leave inventory untouched")
	assert.Empty(t, store.sales, "nothing may be persisted on failure")
}

func TestCreate_SameCategoryLinesValidateCumulatively(t *testing.T) {
	svc, _, ledger, _ := newTestService()
	ctx := context.Background()
	ledger.seed(march(10), models.EggCount{Small: 40})

	_, err := svc.Create(ctx, march(10), []sales.ItemInput{
		{Size: models.SizeSmall, Pieces: 25},
		{Size: models.SizeSmall, Pieces: 25},
	}, "")
	require.Error(t, err)

	var stockErr *models.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 15, stockErr.Available, "second line sees what the first consumed")
	assert.Equal(t, 25, stockErr.Requested)

	snap, err := ledger.ByDate(ctx, march(10))
	require.NoError(t, err)
	assert.Equal(t, 40, snap.Small)
}

func TestCreate_PartialFailureCommitsNothing(t *testing.T) {
	svc, store, ledger, _ := newTestService()
	ctx := context.Background()
	ledger.seed(march(10), models.EggCount{Small: 100, Medium: 10})

	_, err := svc.Create(ctx, march(10), []sales.ItemInput{
		{Size: models.SizeSmall, Trays: 1},
		{Size: models.SizeMedium, Trays: 1}, // needs 30, only 10 on hand
	}, "")
	require.ErrorIs(t, err, models.ErrInsufficientStock)

	snap, err := ledger.ByDate(ctx, march(10))
	require.NoError(t, err)
	assert.Equal(t, 100, snap.Small, "valid first line must not be committed either")
	assert.Empty(t, store.sales)
}

func TestCreate_NoInventoryForDate(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Create(context.Background(), march(10), []sales.ItemInput{
		{Size: models.SizeSmall, Pieces: 1},
	}, "")
	assert.ErrorIs(t, err, models.ErrNoInventory)
}

func TestCreate_MissingPrice(t *testing.T) {
	svc, _, ledger, _ := newTestService()
	ctx := context.Background()
	ledger.seed(march(10), models.EggCount{Jumbo: 100})

	_, err := svc.Create(ctx, march(10), []sales.ItemInput{
		{Size: models.SizeJumbo, Pieces: 5},
	}, "")
	require.Error(t, err)

	var pricingErr *models.PricingMissingError
	require.ErrorAs(t, err, &pricingErr)
	assert.Equal(t, models.SizeJumbo, pricingErr.Size)

	snap, err := ledger.ByDate(ctx, march(10))
	require.NoError(t, err)
	assert.Equal(t, 100, snap.Jumbo)
}

func TestCreate_ValidatesItems(t *testing.T) {
	svc, _, ledger, _ := newTestService()
	ctx := context.Background()
	ledger.seed(march(10), models.EggCount{Small: 100})

	cases := []struct {
		name  string
		items []sales.ItemInput
	}{
		{"no items", nil},
		{"unknown size", []sales.ItemInput{{Size: "gigantic", Pieces: 1}}},
		{"negative trays", []sales.ItemInput{{Size: models.SizeSmall, Trays: -1}}},
		{"negative pieces", []sales.ItemInput{{Size: models.SizeSmall, Pieces: -1}}},
		{"pieces not below a tray", []sales.ItemInput{{Size: models.SizeSmall, Pieces: 30}}},
		{"zero quantity", []sales.ItemInput{{Size: models.SizeSmall}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, march(10), tc.items, "")
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestCreate_PriceChangesDoNotAlterSettledSales(t *testing.T) {
	svc, store, ledger, prices := newTestService()
	ctx := context.Background()
	ledger.seed(march(10), models.EggCount{Small: 100})

	sale, err := svc.Create(ctx, march(10), []sales.ItemInput{
		{Size: models.SizeSmall, Trays: 2, Pieces: 10},
	}, "")
	require.NoError(t, err)

	prices.prices[models.SizeSmall] = models.PriceRecord{Size: models.SizeSmall, PricePerTray: 500, PricePerPiece: 20}

	stored, err := store.FindSaleByID(ctx, sale.ID.Hex())
	require.NoError(t, err)
	assert.InDelta(t, 330, stored.TotalAmount, 0.001, "settled totals are frozen")
	assert.Equal(t, 140.0, stored.Items[0].PricePerTray)
}

func TestDelete_RestoresInventory(t *testing.T) {
	svc, _, ledger, _ := newTestService()
	ctx := context.Background()
	ledger.seed(march(10), models.EggCount{Small: 100})

	sale, err := svc.Create(ctx, march(10), []sales.ItemInput{
		{Size: models.SizeSmall, Trays: 2, Pieces: 10},
	}, "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, sale.ID.Hex()))

	snap, err := ledger.ByDate(ctx, march(10))
	require.NoError(t, err)
	assert.Equal(t, 100, snap.Small, "reversal restores the deducted quantity")

	_, err = svc.ByID(ctx, sale.ID.Hex())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDelete_MissingSnapshotFailsLoudly(t *testing.T) {
	svc, store, ledger, _ := newTestService()
	ctx := context.Background()
	ledger.seed(march(10), models.EggCount{Small: 100})

	sale, err := svc.Create(ctx, march(10), []sales.ItemInput{
		{Size: models.SizeSmall, Trays: 1},
	}, "")
	require.NoError(t, err)

	ledger.remove(march(10))

	err = svc.Delete(ctx, sale.ID.Hex())
	require.ErrorIs(t, err, models.ErrNoInventory, "restoration target gone must fail, not silently skip")

	_, err = store.FindSaleByID(ctx, sale.ID.Hex())
	assert.NoError(t, err, "sale record survives a failed reversal")
}

func TestDelete_UnknownSale(t *testing.T) {
	svc, _, _, _ := newTestService()
	err := svc.Delete(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCreate_CompensatesWhenPersistFails(t *testing.T) {
	svc, store, ledger, _ := newTestService()
	ctx := context.Background()
	ledger.seed(march(10), models.EggCount{Small: 100})
	store.insertErr = fmt.Errorf("disk full")

	_, err := svc.Create(ctx, march(10), []sales.ItemInput{
		{Size: models.SizeSmall, Trays: 1},
	}, "")
	require.Error(t, err)

	snap, err := ledger.ByDate(ctx, march(10))
	require.NoError(t, err)
	assert.Equal(t, 100, snap.Small, "aborted settlement must re-credit the debit")
}

func TestInRange_RejectsInvertedBounds(t *testing.T) {
	svc, _, _, _ := newTestService()
	_, err := svc.InRange(context.Background(), march(10), march(5))
	assert.ErrorIs(t, err, models.ErrValidation)
}
