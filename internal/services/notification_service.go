package services

import (
	"context"
	"fmt"
	"sort"

	"coworkops/internal/caching"
	"coworkops/internal/common"
	"coworkops/internal/models"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

type NotificationService interface {
	// SyncLowStock reconciles the alert set with a fresh low-stock report
	// and returns how many alerts were newly raised.
	SyncLowStock(ctx context.Context, rows []*models.LowStockRow) (int, error)
	ListAlerts(ctx context.Context, status models.AlertStatus) ([]*models.StockAlert, error)
	AcknowledgeAlert(ctx context.Context, actor Actor, itemID uuid.UUID) (*models.StockAlert, error)
}

type notificationService struct {
	alerts caching.AlertStore
	clock  clockwork.Clock
	logger *zap.Logger
}

func NewNotificationService(alerts caching.AlertStore, clock clockwork.Clock, logger *zap.Logger) NotificationService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &notificationService{
		alerts: alerts,
		clock:  clock,
		logger: logger,
	}
}

func (s *notificationService) SyncLowStock(ctx context.Context, rows []*models.LowStockRow) (int, error) {
	existing, err := s.alerts.ListAlerts(ctx)
	if err != nil {
		return 0, err
	}
	byItem := make(map[uuid.UUID]*models.StockAlert, len(existing))
	for _, a := range existing {
		byItem[a.ItemID] = a
	}

	now := s.clock.Now()
	raised := 0
	for _, row := range rows {
		alert, ok := byItem[row.ItemID]
		delete(byItem, row.ItemID)
		if !ok {
			alert = &models.StockAlert{
				ItemID:   row.ItemID,
				Status:   models.AlertOpen,
				RaisedAt: now,
			}
			raised++
			s.logger.Warn("low stock alert raised",
				zap.String("item_id", row.ItemID.String()),
				zap.String("item", row.Name),
				zap.Int("shortfall", row.Shortfall))
		}
		alert.ItemName = row.Name
		alert.Available = row.Available
		alert.MinimumStock = row.MinimumStock
		alert.Shortfall = row.Shortfall
		alert.UpdatedAt = now
		if err := s.alerts.SaveAlert(ctx, alert); err != nil {
			return raised, fmt.Errorf("failed to save alert for item %s: %w", row.ItemID, err)
		}
	}

	// whatever is left has recovered
	for itemID := range byItem {
		if err := s.alerts.DeleteAlert(ctx, itemID); err != nil {
			return raised, fmt.Errorf("failed to clear alert for item %s: %w", itemID, err)
		}
		s.logger.Info("low stock alert cleared", zap.String("item_id", itemID.String()))
	}
	return raised, nil
}

// ListAlerts returns alerts ordered by shortfall, largest first. An empty
// status returns every alert.
func (s *notificationService) ListAlerts(ctx context.Context, status models.AlertStatus) ([]*models.StockAlert, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown alert status %q", common.ErrValidation, status)
	}
	all, err := s.alerts.ListAlerts(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*models.StockAlert, 0, len(all))
	for _, a := range all {
		if status == "" || a.Status == status {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Shortfall != out[j].Shortfall {
			return out[i].Shortfall > out[j].Shortfall
		}
		return out[i].ItemName < out[j].ItemName
	})
	return out, nil
}

func (s *notificationService) AcknowledgeAlert(ctx context.Context, actor Actor, itemID uuid.UUID) (*models.StockAlert, error) {
	alert, err := s.alerts.GetAlert(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, fmt.Errorf("%w: no alert for item %s", common.ErrNotFound, itemID)
	}
	if alert.Status == models.AlertAcknowledged {
		return alert, nil
	}

	now := s.clock.Now()
	alert.Status = models.AlertAcknowledged
	alert.AcknowledgedAt = &now
	alert.AcknowledgedBy = &actor.ID
	alert.UpdatedAt = now
	if err := s.alerts.SaveAlert(ctx, alert); err != nil {
		return nil, err
	}

	s.logger.Info("low stock alert acknowledged",
		zap.String("item_id", itemID.String()),
		zap.String("actor_id", actor.ID.String()))
	return alert, nil
}
