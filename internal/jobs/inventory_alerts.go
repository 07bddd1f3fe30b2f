package jobs

import (
	"context"
	"fmt"

	"coworkops/internal/metrics"
	"coworkops/internal/models"

	"go.uber.org/zap"
)

// LowStockSource computes the current low-stock report.
type LowStockSource interface {
	LowStock(ctx context.Context) ([]*models.LowStockRow, error)
}

// AlertSink receives every low-stock report, including empty ones, so it can
// clear alerts for items that recovered.
type AlertSink interface {
	SyncLowStock(ctx context.Context, rows []*models.LowStockRow) (int, error)
}

// InventoryAlertService logs items whose available stock fell under their
// minimum, publishes the count as a gauge and forwards the report to the
// alert feed.
type InventoryAlertService struct {
	reports LowStockSource
	sink    AlertSink
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewInventoryAlertService accepts a nil sink.
func NewInventoryAlertService(reports LowStockSource, sink AlertSink, m *metrics.Metrics, logger *zap.Logger) *InventoryAlertService {
	return &InventoryAlertService{
		reports: reports,
		sink:    sink,
		metrics: m,
		logger:  logger,
	}
}

// CheckLowStock runs one alert pass and returns the number of items flagged.
func (a *InventoryAlertService) CheckLowStock(ctx context.Context) (int, error) {
	rows, err := a.reports.LowStock(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to compute low stock: %w", err)
	}

	a.metrics.SetLowStockItems(len(rows))
	if a.sink != nil {
		raised, err := a.sink.SyncLowStock(ctx, rows)
		if err != nil {
			return len(rows), fmt.Errorf("failed to sync stock alerts: %w", err)
		}
		if raised > 0 {
			a.logger.Info("stock alerts raised", zap.Int("count", raised))
		}
	}
	if len(rows) == 0 {
		a.logger.Debug("no low stock items")
		return 0, nil
	}

	for _, row := range rows {
		a.logger.Warn("low stock",
			zap.String("item_id", row.ItemID.String()),
			zap.String("item", row.Name),
			zap.Int("available", row.Available),
			zap.Int("minimum", row.MinimumStock),
			zap.Int("shortfall", row.Shortfall),
		)
	}
	return len(rows), nil
}
