package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductionEntry records one harvest. Multiple entries may share a date;
// history views aggregate them additively.
type ProductionEntry struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Date             time.Time          `bson:"date" json:"date"`
	BeginningBalance EggCount           `bson:"beginningBalance" json:"beginningBalance"`
	Harvested        EggCount           `bson:"harvested" json:"harvested"`
	EndingBalance    EggCount           `bson:"endingBalance" json:"endingBalance"`
	TotalEggs        int                `bson:"totalEggs" json:"totalEggs"`
	TotalTrays       int                `bson:"totalTrays" json:"totalTrays"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Recompute derives the ending balance and totals. The invariant
// endingBalance[c] == beginningBalance[c] + harvested[c] holds for every
// category afterwards.
func (e *ProductionEntry) Recompute() {
	e.EndingBalance = e.BeginningBalance.Plus(e.Harvested)
	e.TotalEggs = e.EndingBalance.TotalEggs()
	e.TotalTrays = e.EndingBalance.TotalTrays()
}
