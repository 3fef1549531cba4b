package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SaleItem is one settled line of a sale. Prices are frozen at creation time
// and never revised when the pricing table changes.
type SaleItem struct {
	Size          Size    `bson:"size" json:"size"`
	Trays         int     `bson:"trays" json:"trays"`
	Pieces        int     `bson:"pieces" json:"pieces"`
	PricePerTray  float64 `bson:"pricePerTray" json:"pricePerTray"`
	PricePerPiece float64 `bson:"pricePerPiece" json:"pricePerPiece"`
	TotalAmount   float64 `bson:"totalAmount" json:"totalAmount"`
}

// RequestedPieces converts the line's trays and loose pieces into a single
// piece-equivalent quantity.
func (i SaleItem) RequestedPieces() int {
	return i.Trays*EggsPerTray + i.Pieces
}

// Sale is one settled transaction against a date's inventory snapshot.
type Sale struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Date        time.Time          `bson:"date" json:"date"`
	Items       []SaleItem         `bson:"items" json:"items"`
	TotalAmount float64            `bson:"totalAmount" json:"totalAmount"`
	Notes       string             `bson:"notes" json:"notes"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Recompute refreshes the sale total from its line items.
func (s *Sale) Recompute() {
	total := 0.0
	for _, item := range s.Items {
		total += item.TotalAmount
	}
	s.TotalAmount = total
}

// Deductions returns the per-category piece-equivalent this sale consumed.
func (s Sale) Deductions() EggCount {
	var out EggCount
	for _, item := range s.Items {
		out.AddOf(item.Size, item.RequestedPieces())
	}
	return out
}
