package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/poultrydesk/eggledger/internal/domain/models"
)

// ListSales returns every sale, newest date first.
func (r *Repository) ListSales(ctx context.Context) ([]models.Sale, error) {
	cursor, err := r.db.Collection(salesColl).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}

	var sales []models.Sale
	if err := cursor.All(ctx, &sales); err != nil {
		return nil, fmt.Errorf("decode sales list: %w", err)
	}
	return sales, nil
}

// ListSalesForDate returns the day's sales, newest first.
func (r *Repository) ListSalesForDate(ctx context.Context, date time.Time) ([]models.Sale, error) {
	start, end := models.DayBounds(date)
	return r.listSalesBetween(ctx, start, end)
}

// ListSalesInRange returns sales dated between start and end inclusive.
func (r *Repository) ListSalesInRange(ctx context.Context, start, end time.Time) ([]models.Sale, error) {
	dayStart, _ := models.DayBounds(start)
	_, dayEnd := models.DayBounds(end)
	return r.listSalesBetween(ctx, dayStart, dayEnd)
}

// ListSalesOnOrAfter returns sales dated on or after the given day.
func (r *Repository) ListSalesOnOrAfter(ctx context.Context, date time.Time) ([]models.Sale, error) {
	start, _ := models.DayBounds(date)

	cursor, err := r.db.Collection(salesColl).Find(ctx,
		bson.M{"date": bson.M{"$gte": start}},
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list sales on or after: %w", err)
	}

	var sales []models.Sale
	if err := cursor.All(ctx, &sales); err != nil {
		return nil, fmt.Errorf("decode sales: %w", err)
	}
	return sales, nil
}

func (r *Repository) listSalesBetween(ctx context.Context, start, end time.Time) ([]models.Sale, error) {
	cursor, err := r.db.Collection(salesColl).Find(ctx,
		bson.M{"date": bson.M{"$gte": start, "$lte": end}},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list sales between: %w", err)
	}

	var sales []models.Sale
	if err := cursor.All(ctx, &sales); err != nil {
		return nil, fmt.Errorf("decode sales: %w", err)
	}
	return sales, nil
}

// FindSaleByID loads one sale.
func (r *Repository) FindSaleByID(ctx context.Context, id string) (*models.Sale, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var sale models.Sale
	err = r.db.Collection(salesColl).FindOne(ctx, bson.M{"_id": oid}).Decode(&sale)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: sale %s", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("find sale: %w", err)
	}
	return &sale, nil
}

// InsertSale persists a settled sale.
func (r *Repository) InsertSale(ctx context.Context, sale *models.Sale) error {
	now := time.Now().UTC()
	sale.CreatedAt = now
	sale.UpdatedAt = now

	result, err := r.db.Collection(salesColl).InsertOne(ctx, sale)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		sale.ID = oid
	}
	return nil
}

// DeleteSale removes one sale record.
func (r *Repository) DeleteSale(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	result, err := r.db.Collection(salesColl).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: sale %s", models.ErrNotFound, id)
	}
	return nil
}
