package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PriceRecord holds the current unit prices for one size category.
type PriceRecord struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Size          Size               `bson:"size" json:"size"`
	PricePerTray  float64            `bson:"pricePerTray" json:"pricePerTray"`
	PricePerPiece float64            `bson:"pricePerPiece" json:"pricePerPiece"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DefaultPrice is a seed price used when a category has no record yet.
type DefaultPrice struct {
	PricePerTray  float64
	PricePerPiece float64
}

// DefaultPrices seeds every size category. Initialization only fills gaps;
// existing records are never overwritten.
var DefaultPrices = map[Size]DefaultPrice{
	SizePeewee:  {PricePerTray: 100, PricePerPiece: 4},
	SizePullets: {PricePerTray: 120, PricePerPiece: 5},
	SizeSmall:   {PricePerTray: 140, PricePerPiece: 5},
	SizeMedium:  {PricePerTray: 160, PricePerPiece: 6},
	SizeLarge:   {PricePerTray: 180, PricePerPiece: 7},
	SizeXLarge:  {PricePerTray: 200, PricePerPiece: 8},
	SizeJumbo:   {PricePerTray: 220, PricePerPiece: 8},
	SizeCrack:   {PricePerTray: 80, PricePerPiece: 3},
}
