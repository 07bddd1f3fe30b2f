package models

import (
	"time"

	"github.com/google/uuid"
)

// StockLevel is the quantity of one item held at one location.
type StockLevel struct {
	ItemID     uuid.UUID `json:"itemId" db:"item_id"`
	LocationID uuid.UUID `json:"locationId" db:"location_id"`
	Quantity   int       `json:"quantity" db:"quantity"`
	Version    int64     `json:"version" db:"version"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

type MovementReason string

const (
	MovementReceive        MovementReason = "receive"
	MovementWriteOff       MovementReason = "write_off"
	MovementCorrection     MovementReason = "correction"
	MovementTransferOut    MovementReason = "transfer_out"
	MovementTransferIn     MovementReason = "transfer_in"
	MovementTransferReturn MovementReason = "transfer_return"
)

// ValidManual reports whether r may be used for a manual adjustment.
func (r MovementReason) ValidManual() bool {
	switch r {
	case MovementReceive, MovementWriteOff, MovementCorrection:
		return true
	}
	return false
}

// StockMovement is one journal line of the ledger.
type StockMovement struct {
	ID         uuid.UUID      `json:"id" db:"id"`
	ItemID     uuid.UUID      `json:"itemId" db:"item_id"`
	LocationID uuid.UUID      `json:"locationId" db:"location_id"`
	Delta      int            `json:"delta" db:"delta"`
	Balance    int            `json:"balance" db:"balance"`
	Reason     MovementReason `json:"reason" db:"reason"`
	TransferID *uuid.UUID     `json:"transferId,omitempty" db:"transfer_id"`
	ActorID    *uuid.UUID     `json:"actorId,omitempty" db:"actor_id"`
	CreatedAt  time.Time      `json:"createdAt" db:"created_at"`
}

// StockFilter narrows stock level listings.
type StockFilter struct {
	ItemID     *uuid.UUID
	LocationID *uuid.UUID
}
