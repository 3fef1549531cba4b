package pricing

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/poultrydesk/eggledger/internal/domain/models"
)

// Store defines the persistence operations the price table needs.
type Store interface {
	ListPricing(ctx context.Context) ([]models.PriceRecord, error)
	FindPricingBySize(ctx context.Context, size models.Size) (*models.PriceRecord, error)
	UpsertPricing(ctx context.Context, size models.Size, pricePerTray, pricePerPiece float64) (*models.PriceRecord, error)
	UpdatePricing(ctx context.Context, size models.Size, pricePerTray, pricePerPiece float64) (*models.PriceRecord, error)
}

// Service maintains the current price per size category.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService wires the pricing table.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// All returns every configured price.
func (s *Service) All(ctx context.Context) ([]models.PriceRecord, error) {
	return s.store.ListPricing(ctx)
}

// BySize returns the price for one category.
func (s *Service) BySize(ctx context.Context, size models.Size) (*models.PriceRecord, error) {
	return s.store.FindPricingBySize(ctx, size)
}

// Upsert creates or replaces the price for a category.
func (s *Service) Upsert(ctx context.Context, size models.Size, pricePerTray, pricePerPiece float64) (*models.PriceRecord, error) {
	if err := validatePrices(pricePerTray, pricePerPiece); err != nil {
		return nil, err
	}
	return s.store.UpsertPricing(ctx, size, pricePerTray, pricePerPiece)
}

// Update revises an existing price; unknown categories are a not-found.
func (s *Service) Update(ctx context.Context, size models.Size, pricePerTray, pricePerPiece float64) (*models.PriceRecord, error) {
	if err := validatePrices(pricePerTray, pricePerPiece); err != nil {
		return nil, err
	}
	return s.store.UpdatePricing(ctx, size, pricePerTray, pricePerPiece)
}

// InitializeDefaults seeds a default price for every category that has none.
// Categories already priced keep their records, so repeated calls are
// idempotent and custom prices survive.
func (s *Service) InitializeDefaults(ctx context.Context) ([]models.PriceRecord, error) {
	for _, size := range models.Sizes {
		_, err := s.store.FindPricingBySize(ctx, size)
		if err == nil {
			continue
		}
		if !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}

		seed := models.DefaultPrices[size]
		if _, err := s.store.UpsertPricing(ctx, size, seed.PricePerTray, seed.PricePerPiece); err != nil {
			return nil, err
		}
		s.logger.Info("seeded default price", zap.String("size", string(size)))
	}

	return s.store.ListPricing(ctx)
}

func validatePrices(pricePerTray, pricePerPiece float64) error {
	if pricePerTray < 0 {
		return &models.ValidationError{Field: "pricePerTray", Message: "must not be negative"}
	}
	if pricePerPiece < 0 {
		return &models.ValidationError{Field: "pricePerPiece", Message: "must not be negative"}
	}
	return nil
}
