package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/poultrydesk/eggledger/internal/domain/models"
)

// ListPricing returns every configured price record.
func (r *Repository) ListPricing(ctx context.Context) ([]models.PriceRecord, error) {
	cursor, err := r.db.Collection(pricingColl).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "size", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list pricing: %w", err)
	}

	var records []models.PriceRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode pricing list: %w", err)
	}
	return records, nil
}

// FindPricingBySize returns the price record for one size category.
func (r *Repository) FindPricingBySize(ctx context.Context, size models.Size) (*models.PriceRecord, error) {
	var record models.PriceRecord
	err := r.db.Collection(pricingColl).FindOne(ctx, bson.M{"size": size}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: pricing for %s", models.ErrNotFound, size)
	}
	if err != nil {
		return nil, fmt.Errorf("find pricing: %w", err)
	}
	return &record, nil
}

// UpsertPricing creates or replaces the price for a size category.
func (r *Repository) UpsertPricing(ctx context.Context, size models.Size, pricePerTray, pricePerPiece float64) (*models.PriceRecord, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"pricePerTray":  pricePerTray,
			"pricePerPiece": pricePerPiece,
			"updatedAt":     now,
		},
		"$setOnInsert": bson.M{
			"size":      size,
			"createdAt": now,
		},
	}

	var record models.PriceRecord
	err := r.db.Collection(pricingColl).FindOneAndUpdate(ctx,
		bson.M{"size": size}, update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)).Decode(&record)
	if err != nil {
		return nil, fmt.Errorf("upsert pricing: %w", err)
	}
	return &record, nil
}

// UpdatePricing revises an existing price record only.
func (r *Repository) UpdatePricing(ctx context.Context, size models.Size, pricePerTray, pricePerPiece float64) (*models.PriceRecord, error) {
	update := bson.M{
		"$set": bson.M{
			"pricePerTray":  pricePerTray,
			"pricePerPiece": pricePerPiece,
			"updatedAt":     time.Now().UTC(),
		},
	}

	var record models.PriceRecord
	err := r.db.Collection(pricingColl).FindOneAndUpdate(ctx,
		bson.M{"size": size}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: pricing for %s", models.ErrNotFound, size)
	}
	if err != nil {
		return nil, fmt.Errorf("update pricing: %w", err)
	}
	return &record, nil
}
