package models

import (
	"time"

	"github.com/google/uuid"
)

// JSONB is a free-form JSON object column.
type JSONB map[string]interface{}

// AuditLog represents an audit log entry for tracking data changes
type AuditLog struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	TableName string     `json:"tableName" db:"table_name"`
	RecordID  string     `json:"recordId" db:"record_id"`
	Action    string     `json:"action" db:"action"`
	NewValues JSONB      `json:"newValues,omitempty" db:"new_values"`
	OldValues JSONB      `json:"oldValues,omitempty" db:"old_values"`
	ChangedBy *uuid.UUID `json:"changedBy,omitempty" db:"changed_by"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
}

// Action constants for audit logs
const (
	ActionInsert     = "INSERT"
	ActionUpdate     = "UPDATE"
	ActionDeactivate = "DEACTIVATE"
	ActionTransition = "TRANSITION"
)
