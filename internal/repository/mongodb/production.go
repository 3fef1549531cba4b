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

// ListProduction returns every harvest entry, newest date first.
func (r *Repository) ListProduction(ctx context.Context) ([]models.ProductionEntry, error) {
	cursor, err := r.db.Collection(productionColl).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list production: %w", err)
	}

	var entries []models.ProductionEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decode production list: %w", err)
	}
	return entries, nil
}

// ListProductionForDate returns the day's entries in creation order.
func (r *Repository) ListProductionForDate(ctx context.Context, date time.Time) ([]models.ProductionEntry, error) {
	start, end := models.DayBounds(date)

	cursor, err := r.db.Collection(productionColl).Find(ctx,
		bson.M{"date": bson.M{"$gte": start, "$lte": end}},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list production for date: %w", err)
	}

	var entries []models.ProductionEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decode production for date: %w", err)
	}
	return entries, nil
}

// FindProductionByID loads one harvest entry.
func (r *Repository) FindProductionByID(ctx context.Context, id string) (*models.ProductionEntry, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var entry models.ProductionEntry
	err = r.db.Collection(productionColl).FindOne(ctx, bson.M{"_id": oid}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: production %s", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("find production: %w", err)
	}
	return &entry, nil
}

// FindLatestProduction returns the most recent entry by date, then creation
// time, for the production-derived current-inventory view.
func (r *Repository) FindLatestProduction(ctx context.Context) (*models.ProductionEntry, error) {
	var entry models.ProductionEntry
	err := r.db.Collection(productionColl).FindOne(ctx, bson.M{},
		options.FindOne().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}})).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: no production recorded", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find latest production: %w", err)
	}
	return &entry, nil
}

// FindLatestProductionBefore returns the most recent entry dated strictly
// before the given day. Used to carry ending balances across gaps.
func (r *Repository) FindLatestProductionBefore(ctx context.Context, date time.Time) (*models.ProductionEntry, error) {
	start, _ := models.DayBounds(date)

	var entry models.ProductionEntry
	err := r.db.Collection(productionColl).FindOne(ctx,
		bson.M{"date": bson.M{"$lt": start}},
		options.FindOne().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}})).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: no production before %s", models.ErrNotFound, start.Format(models.DateLayout))
	}
	if err != nil {
		return nil, fmt.Errorf("find production before date: %w", err)
	}
	return &entry, nil
}

// InsertProduction persists a new harvest entry.
func (r *Repository) InsertProduction(ctx context.Context, entry *models.ProductionEntry) error {
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	result, err := r.db.Collection(productionColl).InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("insert production: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		entry.ID = oid
	}
	return nil
}

// UpdateProduction replaces a stored entry in full.
func (r *Repository) UpdateProduction(ctx context.Context, entry *models.ProductionEntry) error {
	entry.UpdatedAt = time.Now().UTC()

	result, err := r.db.Collection(productionColl).ReplaceOne(ctx, bson.M{"_id": entry.ID}, entry)
	if err != nil {
		return fmt.Errorf("update production: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: production %s", models.ErrNotFound, entry.ID.Hex())
	}
	return nil
}

// DeleteProduction removes one harvest entry.
func (r *Repository) DeleteProduction(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	result, err := r.db.Collection(productionColl).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete production: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: production %s", models.ErrNotFound, id)
	}
	return nil
}
