package models

import (
	"time"

	"github.com/google/uuid"
)

type LocationKind string

const (
	LocationStoreRoom LocationKind = "store_room"
	LocationBranch    LocationKind = "branch"
)

// Location is a named place that holds stock: a store room or a branch.
type Location struct {
	ID        uuid.UUID    `json:"id" db:"id"`
	Name      string       `json:"name" db:"name"`
	Kind      LocationKind `json:"kind" db:"kind"`
	Address   *string      `json:"address,omitempty" db:"address"`
	IsActive  bool         `json:"isActive" db:"is_active"`
	CreatedAt time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time    `json:"updatedAt" db:"updated_at"`
}
