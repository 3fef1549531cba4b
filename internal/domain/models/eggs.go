package models

import "fmt"

// EggsPerTray is the number of eggs that fill one tray.
const EggsPerTray = 30

// Size identifies an egg size category.
type Size string

const (
	SizePeewee  Size = "peewee"
	SizePullets Size = "pullets"
	SizeSmall   Size = "small"
	SizeMedium  Size = "medium"
	SizeLarge   Size = "large"
	SizeXLarge  Size = "xlarge"
	SizeJumbo   Size = "jumbo"
	SizeCrack   Size = "crack"
)

// Sizes lists every size category in canonical order.
var Sizes = []Size{
	SizePeewee,
	SizePullets,
	SizeSmall,
	SizeMedium,
	SizeLarge,
	SizeXLarge,
	SizeJumbo,
	SizeCrack,
}

// ParseSize validates a raw size string against the closed enumeration.
func ParseSize(raw string) (Size, error) {
	for _, s := range Sizes {
		if string(s) == raw {
			return s, nil
		}
	}
	return "", &ValidationError{Field: "size", Message: fmt.Sprintf("unknown size category %q", raw)}
}

// EggCount holds a piece count per size category. The field set is fixed so
// that every operation over categories is exhaustive by construction.
type EggCount struct {
	Peewee  int `bson:"peewee" json:"peewee"`
	Pullets int `bson:"pullets" json:"pullets"`
	Small   int `bson:"small" json:"small"`
	Medium  int `bson:"medium" json:"medium"`
	Large   int `bson:"large" json:"large"`
	XLarge  int `bson:"xlarge" json:"xlarge"`
	Jumbo   int `bson:"jumbo" json:"jumbo"`
	Crack   int `bson:"crack" json:"crack"`
}

// Of returns the count for one size category.
func (c EggCount) Of(size Size) int {
	switch size {
	case SizePeewee:
		return c.Peewee
	case SizePullets:
		return c.Pullets
	case SizeSmall:
		return c.Small
	case SizeMedium:
		return c.Medium
	case SizeLarge:
		return c.Large
	case SizeXLarge:
		return c.XLarge
	case SizeJumbo:
		return c.Jumbo
	case SizeCrack:
		return c.Crack
	}
	return 0
}

// SetOf overwrites the count for one size category.
func (c *EggCount) SetOf(size Size, value int) {
	switch size {
	case SizePeewee:
		c.Peewee = value
	case SizePullets:
		c.Pullets = value
	case SizeSmall:
		c.Small = value
	case SizeMedium:
		c.Medium = value
	case SizeLarge:
		c.Large = value
	case SizeXLarge:
		c.XLarge = value
	case SizeJumbo:
		c.Jumbo = value
	case SizeCrack:
		c.Crack = value
	}
}

// AddOf applies a signed delta to one size category.
func (c *EggCount) AddOf(size Size, delta int) {
	c.SetOf(size, c.Of(size)+delta)
}

// Plus returns the category-wise sum of two counts.
func (c EggCount) Plus(other EggCount) EggCount {
	sum := c
	for _, s := range Sizes {
		sum.AddOf(s, other.Of(s))
	}
	return sum
}

// TotalEggs sums the counts across every category.
func (c EggCount) TotalEggs() int {
	total := 0
	for _, s := range Sizes {
		total += c.Of(s)
	}
	return total
}

// TotalTrays converts the total egg count into whole trays.
func (c EggCount) TotalTrays() int {
	return c.TotalEggs() / EggsPerTray
}

// FirstNegative reports the first category, in canonical order, holding a
// negative count.
func (c EggCount) FirstNegative() (Size, bool) {
	for _, s := range Sizes {
		if c.Of(s) < 0 {
			return s, true
		}
	}
	return "", false
}
