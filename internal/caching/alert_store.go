package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"coworkops/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// AlertStore keeps the live low-stock alerts, one per item.
type AlertStore interface {
	GetAlert(ctx context.Context, itemID uuid.UUID) (*models.StockAlert, error)
	SaveAlert(ctx context.Context, alert *models.StockAlert) error
	DeleteAlert(ctx context.Context, itemID uuid.UUID) error
	ListAlerts(ctx context.Context) ([]*models.StockAlert, error)
}

type redisAlertStore struct {
	client *redis.Client
}

func NewAlertStore(client *redis.Client) AlertStore {
	return &redisAlertStore{client: client}
}

func alertKey(itemID uuid.UUID) string {
	return fmt.Sprintf("%s:alert:low_stock:%s", keyPrefix, itemID.String())
}

func alertIndexKey() string {
	return keyPrefix + ":alerts:low_stock"
}

// GetAlert returns nil, nil when the item has no alert.
func (r *redisAlertStore) GetAlert(ctx context.Context, itemID uuid.UUID) (*models.StockAlert, error) {
	data, err := r.client.Get(ctx, alertKey(itemID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get alert: %w", err)
	}

	var alert models.StockAlert
	if err := json.Unmarshal(data, &alert); err != nil {
		return nil, fmt.Errorf("failed to unmarshal alert: %w", err)
	}
	return &alert, nil
}

func (r *redisAlertStore) SaveAlert(ctx context.Context, alert *models.StockAlert) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, alertKey(alert.ItemID), data, 0)
	pipe.SAdd(ctx, alertIndexKey(), alert.ItemID.String())
	_, err = pipe.Exec(ctx)
	return err
}

func (r *redisAlertStore) DeleteAlert(ctx context.Context, itemID uuid.UUID) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, alertKey(itemID))
	pipe.SRem(ctx, alertIndexKey(), itemID.String())
	_, err := pipe.Exec(ctx)
	return err
}

func (r *redisAlertStore) ListAlerts(ctx context.Context) ([]*models.StockAlert, error) {
	members, err := r.client.SMembers(ctx, alertIndexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	if len(members) == 0 {
		return []*models.StockAlert{}, nil
	}

	keys := make([]string, 0, len(members))
	for _, m := range members {
		id, err := uuid.Parse(m)
		if err != nil {
			continue
		}
		keys = append(keys, alertKey(id))
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load alerts: %w", err)
	}

	alerts := make([]*models.StockAlert, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue // index entry without a body
		}
		var alert models.StockAlert
		if err := json.Unmarshal([]byte(raw), &alert); err != nil {
			return nil, fmt.Errorf("failed to unmarshal alert: %w", err)
		}
		alerts = append(alerts, &alert)
	}
	return alerts, nil
}
