package mongodb

import (
	"context"
	"fmt"

	"github.com/poultrydesk/eggledger/internal/domain/models"
)

// InsertDailySummary stores one scheduled end-of-day snapshot.
func (r *Repository) InsertDailySummary(ctx context.Context, summary models.DailySummary) error {
	if _, err := r.db.Collection(summariesColl).InsertOne(ctx, summary); err != nil {
		return fmt.Errorf("insert daily summary: %w", err)
	}
	return nil
}
