package models

import (
	"time"

	"github.com/google/uuid"
)

type TransferStatus string

const (
	TransferPending   TransferStatus = "pending"
	TransferInTransit TransferStatus = "in_transit"
	TransferCompleted TransferStatus = "completed"
	TransferCancelled TransferStatus = "cancelled"
)

// Valid reports whether s is a known transfer status.
func (s TransferStatus) Valid() bool {
	switch s {
	case TransferPending, TransferInTransit, TransferCompleted, TransferCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible from s.
func (s TransferStatus) Terminal() bool {
	return s == TransferCompleted || s == TransferCancelled
}

// Transfer moves a quantity of one item between two locations.
type Transfer struct {
	ID             uuid.UUID      `json:"id" db:"id"`
	ItemID         uuid.UUID      `json:"itemId" db:"item_id"`
	FromLocationID uuid.UUID      `json:"fromLocation" db:"from_location_id"`
	ToLocationID   uuid.UUID      `json:"toLocation" db:"to_location_id"`
	Quantity       int            `json:"quantity" db:"quantity"`
	Status         TransferStatus `json:"status" db:"status"`
	Notes          *string        `json:"notes,omitempty" db:"notes"`
	RequestedBy    uuid.UUID      `json:"requestedBy" db:"requested_by"`
	ApprovedBy     *uuid.UUID     `json:"approvedBy,omitempty" db:"approved_by"`
	ApprovedAt     *time.Time     `json:"approvedAt,omitempty" db:"approved_at"`
	CompletedBy    *uuid.UUID     `json:"completedBy,omitempty" db:"completed_by"`
	CompletedAt    *time.Time     `json:"completedAt,omitempty" db:"completed_at"`
	CancelledBy    *uuid.UUID     `json:"cancelledBy,omitempty" db:"cancelled_by"`
	CancelledAt    *time.Time     `json:"cancelledAt,omitempty" db:"cancelled_at"`
	Version        int64          `json:"version" db:"version"`
	CreatedAt      time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time      `json:"updatedAt" db:"updated_at"`
}

// TransferWithHistory is a transfer together with its audit trail.
type TransferWithHistory struct {
	*Transfer
	History []*AuditLog `json:"history"`
}

// TransferFilter narrows transfer listings.
type TransferFilter struct {
	Status *TransferStatus
	ItemID *uuid.UUID
	Limit  int
	Offset int
}
