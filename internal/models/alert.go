package models

import (
	"time"

	"github.com/google/uuid"
)

type AlertStatus string

const (
	AlertOpen         AlertStatus = "open"
	AlertAcknowledged AlertStatus = "acknowledged"
)

func (s AlertStatus) Valid() bool {
	return s == AlertOpen || s == AlertAcknowledged
}

// StockAlert is raised once per item while its available stock stays under
// the minimum. It disappears when the item recovers.
type StockAlert struct {
	ItemID         uuid.UUID   `json:"itemId"`
	ItemName       string      `json:"itemName"`
	Available      int         `json:"available"`
	MinimumStock   int         `json:"minimumStock"`
	Shortfall      int         `json:"shortfall"`
	Status         AlertStatus `json:"status"`
	RaisedAt       time.Time   `json:"raisedAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
	AcknowledgedAt *time.Time  `json:"acknowledgedAt,omitempty"`
	AcknowledgedBy *uuid.UUID  `json:"acknowledgedBy,omitempty"`
}
