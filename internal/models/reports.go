package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LowStockRow is an item whose available stock is under its minimum.
type LowStockRow struct {
	ItemID       uuid.UUID    `json:"itemId"`
	Name         string       `json:"name"`
	Category     ItemCategory `json:"category"`
	Unit         string       `json:"unit"`
	Available    int          `json:"available"`
	InTransit    int          `json:"inTransit"`
	MinimumStock int          `json:"minimumStock"`
	Shortfall    int          `json:"shortfall"`
}

// CategoryTotal sums item count, units and value per category.
type CategoryTotal struct {
	Category   ItemCategory    `json:"category"`
	ItemCount  int             `json:"itemCount"`
	TotalUnits int             `json:"totalUnits"`
	TotalValue decimal.Decimal `json:"totalValue"`
}

// AttendanceRow aggregates one subject's time entries over a date range.
type AttendanceRow struct {
	SubjectID          uuid.UUID `json:"subjectId"`
	SubjectName        string    `json:"subjectName"`
	Entries            int       `json:"entries"`
	DaysTracked        int       `json:"daysTracked"`
	TotalMinutes       int       `json:"totalMinutes"`
	TotalHours         float64   `json:"totalHours"`
	AverageHoursPerDay float64   `json:"averageHoursPerDay"`
}

// ItemStockTotal is the per-item stock figure reporting views start from.
type ItemStockTotal struct {
	Item      InventoryItem
	Available int
	InTransit int
}

// ReportExport describes an uploaded spreadsheet.
type ReportExport struct {
	Report    string `json:"report"`
	ObjectKey string `json:"objectKey"`
	URL       string `json:"url"`
}

// NamedTimeEntry is a time entry joined with its subject's display name.
type NamedTimeEntry struct {
	TimeEntry
	SubjectName string
}
