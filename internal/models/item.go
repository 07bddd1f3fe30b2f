package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ItemCategory string

const (
	CategoryFixture    ItemCategory = "fixture"
	CategoryMoveable   ItemCategory = "moveable"
	CategoryConsumable ItemCategory = "consumable"
)

// Valid reports whether c is one of the known catalog categories.
func (c ItemCategory) Valid() bool {
	switch c {
	case CategoryFixture, CategoryMoveable, CategoryConsumable:
		return true
	}
	return false
}

// InventoryItem is a catalog entry. Items are deactivated, never deleted.
type InventoryItem struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	Name         string          `json:"name" db:"name"`
	Category     ItemCategory    `json:"category" db:"category"`
	Unit         string          `json:"unit" db:"unit"`
	UnitPrice    decimal.Decimal `json:"unitPrice" db:"unit_price"`
	MinimumStock int             `json:"minimumStock" db:"minimum_stock"`
	MaximumStock int             `json:"maximumStock" db:"maximum_stock"`
	IsActive     bool            `json:"isActive" db:"is_active"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time       `json:"updatedAt" db:"updated_at"`
}

// ItemFilter narrows catalog listings.
type ItemFilter struct {
	Category *ItemCategory
	Active   *bool
	Limit    int
	Offset   int
}
