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
	"go.uber.org/zap"

	"github.com/poultrydesk/eggledger/internal/domain/models"
)

// ListInventory returns every snapshot, newest date first.
func (r *Repository) ListInventory(ctx context.Context) ([]models.InventorySnapshot, error) {
	cursor, err := r.db.Collection(inventoryColl).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}

	var snapshots []models.InventorySnapshot
	if err := cursor.All(ctx, &snapshots); err != nil {
		return nil, fmt.Errorf("decode inventory list: %w", err)
	}
	return snapshots, nil
}

// FindInventoryByDate returns the snapshot for the calendar day holding date.
func (r *Repository) FindInventoryByDate(ctx context.Context, date time.Time) (*models.InventorySnapshot, error) {
	start, end := models.DayBounds(date)

	var snap models.InventorySnapshot
	err := r.db.Collection(inventoryColl).FindOne(ctx,
		bson.M{"date": bson.M{"$gte": start, "$lte": end}}).Decode(&snap)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: no inventory for %s", models.ErrNotFound, start.Format(models.DateLayout))
	}
	if err != nil {
		return nil, fmt.Errorf("find inventory by date: %w", err)
	}
	return &snap, nil
}

// FindLatestInventory returns the snapshot with the maximum date, ties broken
// by most recent modification.
func (r *Repository) FindLatestInventory(ctx context.Context) (*models.InventorySnapshot, error) {
	var snap models.InventorySnapshot
	err := r.db.Collection(inventoryColl).FindOne(ctx, bson.M{},
		options.FindOne().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "updatedAt", Value: -1}})).Decode(&snap)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: no inventory recorded", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find latest inventory: %w", err)
	}
	return &snap, nil
}

// InsertInventory creates a snapshot at version 1. A concurrent insert for
// the same date surfaces as a version conflict so the caller re-reads.
func (r *Repository) InsertInventory(ctx context.Context, snap *models.InventorySnapshot) error {
	now := time.Now().UTC()
	snap.Version = 1
	snap.CreatedAt = now
	snap.UpdatedAt = now

	result, err := r.db.Collection(inventoryColl).InsertOne(ctx, snap)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: snapshot for %s already exists", models.ErrVersionConflict, snap.Date.Format(models.DateLayout))
	}
	if err != nil {
		return fmt.Errorf("insert inventory: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		snap.ID = oid
	}
	return nil
}

// ReplaceInventoryVersioned swaps the stored snapshot only when its version
// still matches expected. This is the optimistic token that closes the
// read-then-write race between concurrent settlements.
func (r *Repository) ReplaceInventoryVersioned(ctx context.Context, snap *models.InventorySnapshot, expected int64) error {
	snap.Version = expected + 1
	snap.UpdatedAt = time.Now().UTC()

	result, err := r.db.Collection(inventoryColl).ReplaceOne(ctx,
		bson.M{"_id": snap.ID, "version": expected}, snap)
	if err != nil {
		snap.Version = expected
		return fmt.Errorf("replace inventory: %w", err)
	}

	if result.MatchedCount == 0 {
		snap.Version = expected
		count, countErr := r.db.Collection(inventoryColl).CountDocuments(ctx, bson.M{"_id": snap.ID})
		if countErr == nil && count == 0 {
			return fmt.Errorf("%w: inventory %s", models.ErrNotFound, snap.ID.Hex())
		}
		r.logger.Debug("inventory CAS lost", zap.String("id", snap.ID.Hex()), zap.Int64("expected_version", expected))
		return models.ErrVersionConflict
	}
	return nil
}

// DeleteInventoryByID removes a snapshot record.
func (r *Repository) DeleteInventoryByID(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	result, err := r.db.Collection(inventoryColl).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete inventory: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: inventory %s", models.ErrNotFound, id)
	}
	return nil
}

// DeleteInventoryByDate removes the snapshot for one calendar day.
func (r *Repository) DeleteInventoryByDate(ctx context.Context, date time.Time) error {
	start, end := models.DayBounds(date)

	result, err := r.db.Collection(inventoryColl).DeleteOne(ctx,
		bson.M{"date": bson.M{"$gte": start, "$lte": end}})
	if err != nil {
		return fmt.Errorf("delete inventory by date: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: no inventory for %s", models.ErrNotFound, start.Format(models.DateLayout))
	}
	return nil
}
