package analytics

import (
	"context"
	"sort"
	"time"

	"coworkops/internal/common"
	"coworkops/internal/models"
	"coworkops/internal/repositories"
	"coworkops/internal/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// categoryOrder fixes the row order of the category totals view.
var categoryOrder = []models.ItemCategory{
	models.CategoryFixture,
	models.CategoryMoveable,
	models.CategoryConsumable,
}

// AnalyticsService computes the reporting views. Every call recomputes from
// the ledger and entry tables; nothing is cached.
type AnalyticsService struct {
	reportRepo repositories.ReportRepository
	store      services.ObjectStore
	clock      func() time.Time
	logger     *zap.Logger
}

func NewAnalyticsService(reportRepo repositories.ReportRepository, store services.ObjectStore, clock func() time.Time, logger *zap.Logger) *AnalyticsService {
	if clock == nil {
		clock = time.Now
	}
	return &AnalyticsService{
		reportRepo: reportRepo,
		store:      store,
		clock:      clock,
		logger:     logger,
	}
}

func (a *AnalyticsService) LowStock(ctx context.Context) ([]*models.LowStockRow, error) {
	totals, err := a.reportRepo.ItemStockTotals(ctx)
	if err != nil {
		return nil, err
	}
	return LowStock(totals), nil
}

func (a *AnalyticsService) CategoryTotals(ctx context.Context) ([]*models.CategoryTotal, error) {
	totals, err := a.reportRepo.ItemStockTotals(ctx)
	if err != nil {
		return nil, err
	}
	return CategoryTotals(totals), nil
}

func (a *AnalyticsService) Attendance(ctx context.Context, start, end time.Time) ([]*models.AttendanceRow, error) {
	if err := common.ValidateDateRange(start, end); err != nil {
		return nil, err
	}
	entries, err := a.reportRepo.ClosedEntries(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return Attendance(entries), nil
}

// LowStock keeps items whose available stock is strictly under their minimum,
// largest shortfall first. Stock in transit is reported but not counted as
// available.
func LowStock(totals []*models.ItemStockTotal) []*models.LowStockRow {
	rows := []*models.LowStockRow{}
	for _, t := range totals {
		if !t.Item.IsActive || t.Available >= t.Item.MinimumStock {
			continue
		}
		rows = append(rows, &models.LowStockRow{
			ItemID:       t.Item.ID,
			Name:         t.Item.Name,
			Category:     t.Item.Category,
			Unit:         t.Item.Unit,
			Available:    t.Available,
			InTransit:    t.InTransit,
			MinimumStock: t.Item.MinimumStock,
			Shortfall:    t.Item.MinimumStock - t.Available,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Shortfall != rows[j].Shortfall {
			return rows[i].Shortfall > rows[j].Shortfall
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}

// CategoryTotals sums item count, on-hand units and stock value per category.
// All categories are listed, empty ones with zeros.
func CategoryTotals(totals []*models.ItemStockTotal) []*models.CategoryTotal {
	byCategory := make(map[models.ItemCategory]*models.CategoryTotal, len(categoryOrder))
	out := make([]*models.CategoryTotal, 0, len(categoryOrder))
	for _, c := range categoryOrder {
		ct := &models.CategoryTotal{Category: c, TotalValue: decimal.Zero}
		byCategory[c] = ct
		out = append(out, ct)
	}

	for _, t := range totals {
		ct, ok := byCategory[t.Item.Category]
		if !ok {
			continue
		}
		ct.ItemCount++
		ct.TotalUnits += t.Available
		ct.TotalValue = ct.TotalValue.Add(t.Item.UnitPrice.Mul(decimal.NewFromInt(int64(t.Available))))
	}
	return out
}

// Attendance groups closed entries per subject, ordered by name.
func Attendance(entries []*models.NamedTimeEntry) []*models.AttendanceRow {
	type group struct {
		name    string
		entries []*models.TimeEntry
	}
	groups := make(map[uuid.UUID]*group)
	order := []uuid.UUID{}
	for _, e := range entries {
		g, ok := groups[e.SubjectID]
		if !ok {
			g = &group{name: e.SubjectName}
			groups[e.SubjectID] = g
			order = append(order, e.SubjectID)
		}
		entry := e.TimeEntry
		g.entries = append(g.entries, &entry)
	}

	rows := make([]*models.AttendanceRow, 0, len(order))
	for _, id := range order {
		g := groups[id]
		stats := services.ComputeStats(g.entries)
		rows = append(rows, &models.AttendanceRow{
			SubjectID:          id,
			SubjectName:        g.name,
			Entries:            stats.TotalEntries,
			DaysTracked:        stats.DaysTracked,
			TotalMinutes:       stats.TotalMinutes,
			TotalHours:         stats.TotalHours,
			AverageHoursPerDay: stats.AverageHoursPerDay,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].SubjectName != rows[j].SubjectName {
			return rows[i].SubjectName < rows[j].SubjectName
		}
		return rows[i].SubjectID.String() < rows[j].SubjectID.String()
	})
	return rows
}
