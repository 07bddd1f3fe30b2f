package handlers

import (
	"context"
	"net/http"
	"time"

	"coworkops/internal/analytics"
	"coworkops/internal/common"
	"coworkops/internal/models"

	"github.com/labstack/echo/v4"
)

// ReportService computes the reporting views. Reports are always read from
// the tables; nothing here is cached.
type ReportService interface {
	LowStock(ctx context.Context) ([]*models.LowStockRow, error)
	CategoryTotals(ctx context.Context) ([]*models.CategoryTotal, error)
	Attendance(ctx context.Context, start, end time.Time) ([]*models.AttendanceRow, error)
	Export(ctx context.Context, name string, start, end time.Time) (*models.ReportExport, error)
}

type ReportHandlers struct {
	reports ReportService
	loc     *time.Location
}

func NewReportHandlers(reports ReportService, loc *time.Location) *ReportHandlers {
	return &ReportHandlers{reports: reports, loc: loc}
}

func (h *ReportHandlers) LowStock(c echo.Context) error {
	rows, err := h.reports.LowStock(c.Request().Context())
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, rows)
}

func (h *ReportHandlers) CategoryTotals(c echo.Context) error {
	totals, err := h.reports.CategoryTotals(c.Request().Context())
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, totals)
}

// Attendance handles ?startDate&endDate
func (h *ReportHandlers) Attendance(c echo.Context) error {
	start, end, err := dateRange(c, h.loc)
	if err != nil {
		return err
	}

	rows, err := h.reports.Attendance(c.Request().Context(), start, end)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, rows)
}

// Export renders /reports/:name/export as a spreadsheet and returns a
// presigned download link. The attendance report needs startDate and endDate.
func (h *ReportHandlers) Export(c echo.Context) error {
	name := c.Param("name")

	var start, end time.Time
	if name == analytics.ReportAttendance {
		var err error
		if start, end, err = dateRange(c, h.loc); err != nil {
			return err
		}
	}

	export, err := h.reports.Export(c.Request().Context(), name, start, end)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusCreated, export)
}
