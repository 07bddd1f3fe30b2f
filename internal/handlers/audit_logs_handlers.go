package handlers

import (
	"fmt"
	"net/http"

	"coworkops/internal/common"
	"coworkops/internal/services"

	"github.com/labstack/echo/v4"
)

// auditedTables are the tables whose history can be read over HTTP.
var auditedTables = map[string]bool{
	"transfers":       true,
	"inventory_items": true,
	"settings":        true,
	"users":           true,
}

// AuditLogsHandlers handles audit logs related HTTP requests
type AuditLogsHandlers struct {
	auditLogsService services.AuditLogsService
}

// NewAuditLogsHandlers creates a new audit logs handlers instance
func NewAuditLogsHandlers(auditLogsService services.AuditLogsService) *AuditLogsHandlers {
	return &AuditLogsHandlers{auditLogsService: auditLogsService}
}

// GetEntityHistory returns the change history of /audit-logs/:table/:id, oldest first
func (h *AuditLogsHandlers) GetEntityHistory(c echo.Context) error {
	table := c.Param("table")
	if !auditedTables[table] {
		return fmt.Errorf("%w: unknown table %q", common.ErrValidation, table)
	}
	recordID := c.Param("id")
	if err := common.ValidateRequiredString(recordID, "id"); err != nil {
		return err
	}

	logs, err := h.auditLogsService.GetEntityHistory(c.Request().Context(), table, recordID)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, map[string]interface{}{
		"table":    table,
		"recordId": recordID,
		"history":  logs,
	})
}
