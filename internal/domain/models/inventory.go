package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InventorySnapshot is the authoritative on-hand count per size category for
// one calendar date. A monotonically increasing version guards concurrent
// writers via compare-and-swap.
type InventorySnapshot struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Date       time.Time          `bson:"date" json:"date"`
	EggCount   `bson:",inline"`
	TotalEggs  int       `bson:"totalEggs" json:"totalEggs"`
	TotalTrays int       `bson:"totalTrays" json:"totalTrays"`
	Version    int64     `bson:"version" json:"-"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Recompute refreshes the derived totals from the per-category counts. Must
// be called after every mutation of the counts.
func (s *InventorySnapshot) Recompute() {
	s.TotalEggs = s.EggCount.TotalEggs()
	s.TotalTrays = s.EggCount.TotalTrays()
}
