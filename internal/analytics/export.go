package analytics

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"coworkops/internal/common"
	"coworkops/internal/models"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	ReportLowStock       = "low-stock"
	ReportCategoryTotals = "category-totals"
	ReportAttendance     = "attendance"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportURLExpiry = time.Hour
)

// Export renders report name as a spreadsheet, uploads it and returns a
// presigned download link. start and end only apply to the attendance report.
func (a *AnalyticsService) Export(ctx context.Context, name string, start, end time.Time) (*models.ReportExport, error) {
	if a.store == nil {
		return nil, fmt.Errorf("%w: report export storage is not configured", common.ErrUnavailable)
	}

	var (
		header []interface{}
		rows   [][]interface{}
	)
	switch name {
	case ReportLowStock:
		report, err := a.LowStock(ctx)
		if err != nil {
			return nil, err
		}
		header = []interface{}{"Item", "Category", "Unit", "Available", "In transit", "Minimum", "Shortfall"}
		for _, r := range report {
			rows = append(rows, []interface{}{r.Name, string(r.Category), r.Unit, r.Available, r.InTransit, r.MinimumStock, r.Shortfall})
		}

	case ReportCategoryTotals:
		report, err := a.CategoryTotals(ctx)
		if err != nil {
			return nil, err
		}
		header = []interface{}{"Category", "Items", "Units", "Value"}
		for _, r := range report {
			value, _ := r.TotalValue.Float64()
			rows = append(rows, []interface{}{string(r.Category), r.ItemCount, r.TotalUnits, value})
		}

	case ReportAttendance:
		report, err := a.Attendance(ctx, start, end)
		if err != nil {
			return nil, err
		}
		header = []interface{}{"Name", "Entries", "Days", "Minutes", "Hours", "Average hours per day"}
		for _, r := range report {
			rows = append(rows, []interface{}{r.SubjectName, r.Entries, r.DaysTracked, r.TotalMinutes, r.TotalHours, r.AverageHoursPerDay})
		}

	default:
		return nil, fmt.Errorf("%w: unknown report %q", common.ErrValidation, name)
	}

	data, err := buildWorkbook(name, header, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s workbook: %w", name, err)
	}

	key := ObjectKey(name, a.clock())
	if err := a.store.Upload(ctx, key, xlsxContentType, data, int64(data.Len())); err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", key, err)
	}
	url, err := a.store.PresignedURL(ctx, key, exportURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to presign %s: %w", key, err)
	}

	a.logger.Info("report exported", zap.String("report", name), zap.String("object", key), zap.Int("rows", len(rows)))
	return &models.ReportExport{Report: name, ObjectKey: key, URL: url}, nil
}

// ObjectKey is the storage path of an export taken at t.
func ObjectKey(name string, t time.Time) string {
	return fmt.Sprintf("reports/%s-%s.xlsx", name, t.UTC().Format("20060102T150405Z"))
}

func buildWorkbook(sheet string, header []interface{}, rows [][]interface{}) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}
	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return nil, err
	}
	return f.WriteToBuffer()
}
