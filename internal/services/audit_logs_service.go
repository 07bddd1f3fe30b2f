package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coworkops/internal/models"
	"coworkops/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type AuditLogsService interface {
	// Create audit log entry
	LogActivity(ctx context.Context, tableName, recordID, action string, changedBy *uuid.UUID, oldValues, newValues models.JSONB) error

	// Get audit logs for a specific entity, oldest first
	GetEntityHistory(ctx context.Context, tableName, recordID string) ([]*models.AuditLog, error)

	// WithTx binds the service to a running transaction
	WithTx(tx pgx.Tx) AuditLogsService
}

type auditLogsService struct {
	auditLogsRepo repositories.AuditLogsRepository
}

func NewAuditLogsService(auditLogsRepo repositories.AuditLogsRepository) AuditLogsService {
	return &auditLogsService{
		auditLogsRepo: auditLogsRepo,
	}
}

func (s *auditLogsService) WithTx(tx pgx.Tx) AuditLogsService {
	return &auditLogsService{auditLogsRepo: s.auditLogsRepo.WithTx(tx)}
}

// LogActivity creates a new audit log entry with validation
func (s *auditLogsService) LogActivity(ctx context.Context, tableName, recordID, action string, changedBy *uuid.UUID, oldValues, newValues models.JSONB) error {
	if tableName == "" {
		return errors.New("table_name is required")
	}
	if action == "" {
		return errors.New("action is required")
	}

	auditLog := &models.AuditLog{
		ID:        uuid.New(),
		TableName: tableName,
		RecordID:  recordID,
		Action:    action,
		NewValues: newValues,
		OldValues: oldValues,
		ChangedBy: changedBy,
		CreatedAt: time.Now().UTC(),
	}

	return s.auditLogsRepo.Create(ctx, auditLog)
}

func (s *auditLogsService) GetEntityHistory(ctx context.Context, tableName, recordID string) ([]*models.AuditLog, error) {
	return s.auditLogsRepo.GetByTableAndRecord(ctx, tableName, recordID)
}

// CreateEntityValues flattens an entity into the JSONB stored on audit rows.
// Sensitive fields such as password hashes are never included.
func CreateEntityValues(entity interface{}) (models.JSONB, error) {
	switch v := entity.(type) {
	case *models.Transfer:
		return models.JSONB{
			"item_id":          v.ItemID,
			"from_location_id": v.FromLocationID,
			"to_location_id":   v.ToLocationID,
			"quantity":         v.Quantity,
			"status":           v.Status,
			"notes":            v.Notes,
			"requested_by":     v.RequestedBy,
			"version":          v.Version,
		}, nil

	case *models.InventoryItem:
		return models.JSONB{
			"name":          v.Name,
			"category":      v.Category,
			"unit":          v.Unit,
			"unit_price":    v.UnitPrice.String(),
			"minimum_stock": v.MinimumStock,
			"maximum_stock": v.MaximumStock,
			"is_active":     v.IsActive,
		}, nil

	case *models.Settings:
		return models.JSONB{
			"daily_booking_limit_minutes":   v.DailyBookingLimitMinutes,
			"monthly_booking_limit_minutes": v.MonthlyBookingLimitMinutes,
			"slot_minutes":                  v.SlotMinutes,
			"open_hour":                     v.OpenHour,
			"close_hour":                    v.CloseHour,
		}, nil

	case *models.User:
		return models.JSONB{
			"email":     v.Email,
			"full_name": v.FullName,
			"role":      v.Role,
			"branch_id": v.BranchID,
			"is_active": v.IsActive,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported entity type %T for audit logging", entity)
	}
}
