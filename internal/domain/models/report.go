package models

import "time"

// SizeSales aggregates one category's sold quantities for a day.
type SizeSales struct {
	Trays  int     `json:"trays"`
	Pieces int     `json:"pieces"`
	Amount float64 `json:"amount"`
}

// DailySalesReport summarizes one day's sales across all categories.
type DailySalesReport struct {
	Date         time.Time          `json:"date"`
	TotalIncome  float64            `json:"totalIncome"`
	SalesBySize  map[Size]SizeSales `json:"salesBySize"`
	Transactions []Sale             `json:"transactions"`
}

// DailyProductionReport aggregates every harvest entry recorded for a day.
type DailyProductionReport struct {
	Date             time.Time         `json:"date"`
	BeginningBalance EggCount          `json:"beginningBalance"`
	Harvested        EggCount          `json:"harvested"`
	EndingBalance    EggCount          `json:"endingBalance"`
	TotalEggs        int               `json:"totalEggs"`
	TotalTrays       int               `json:"totalTrays"`
	Entries          []ProductionEntry `json:"entries"`
}

// DashboardSummary backs the overview screen.
type DashboardSummary struct {
	TodayProduction  *DailyProductionReport `json:"todayProduction"`
	TodaySales       int                    `json:"todaySales"`
	TodayIncome      float64                `json:"todayIncome"`
	WeeklyIncome     float64                `json:"weeklyIncome"`
	CurrentInventory *InventorySnapshot     `json:"currentInventory"`
}

// DailySummary is the scheduled end-of-day snapshot persisted for trend
// history and exported to the spreadsheet when configured.
type DailySummary struct {
	Date         time.Time `bson:"date" json:"date"`
	EggsOnHand   int       `bson:"eggs_on_hand" json:"eggsOnHand"`
	TraysOnHand  int       `bson:"trays_on_hand" json:"traysOnHand"`
	SalesCount   int       `bson:"sales_count" json:"salesCount"`
	Income       float64   `bson:"income" json:"income"`
	WeeklyIncome float64   `bson:"weekly_income" json:"weeklyIncome"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
}
