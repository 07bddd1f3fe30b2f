package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"coworkops/internal/caching"
	"coworkops/internal/common"
	"coworkops/internal/models"
	"coworkops/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const itemCacheTTL = 10 * time.Minute

type CreateItemRequest struct {
	Name         string              `json:"name"`
	Category     models.ItemCategory `json:"category"`
	Unit         string              `json:"unit"`
	UnitPrice    decimal.Decimal     `json:"unitPrice"`
	MinimumStock int                 `json:"minimumStock"`
	MaximumStock int                 `json:"maximumStock"`
}

// UpdateItemRequest carries price and threshold edits. Nil fields are kept.
type UpdateItemRequest struct {
	Name         *string          `json:"name,omitempty"`
	Unit         *string          `json:"unit,omitempty"`
	UnitPrice    *decimal.Decimal `json:"unitPrice,omitempty"`
	MinimumStock *int             `json:"minimumStock,omitempty"`
	MaximumStock *int             `json:"maximumStock,omitempty"`
}

type ItemService interface {
	Create(ctx context.Context, actor Actor, req *CreateItemRequest) (*models.InventoryItem, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req *UpdateItemRequest) (*models.InventoryItem, error)
	Deactivate(ctx context.Context, actor Actor, id uuid.UUID) error
	List(ctx context.Context, filter *models.ItemFilter) ([]*models.InventoryItem, error)
}

type itemService struct {
	itemRepo     repositories.ItemRepository
	cacheService caching.CacheService
	audit        AuditLogsService
	logger       *zap.Logger
}

func NewItemService(itemRepo repositories.ItemRepository, cacheService caching.CacheService, audit AuditLogsService, logger *zap.Logger) ItemService {
	return &itemService{
		itemRepo:     itemRepo,
		cacheService: cacheService,
		audit:        audit,
		logger:       logger,
	}
}

func validateItem(item *models.InventoryItem) error {
	if err := common.ValidateRequiredString(item.Name, "name"); err != nil {
		return err
	}
	if err := common.ValidateRequiredString(item.Unit, "unit"); err != nil {
		return err
	}
	if !item.Category.Valid() {
		return fmt.Errorf("%w: category must be fixture, moveable or consumable", common.ErrValidation)
	}
	if item.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: unitPrice must not be negative", common.ErrValidation)
	}
	if item.MinimumStock < 0 || item.MaximumStock < 0 {
		return fmt.Errorf("%w: stock thresholds must not be negative", common.ErrValidation)
	}
	if item.MaximumStock > 0 && item.MaximumStock < item.MinimumStock {
		return fmt.Errorf("%w: maximumStock must not be below minimumStock", common.ErrValidation)
	}
	return nil
}

func (s *itemService) Create(ctx context.Context, actor Actor, req *CreateItemRequest) (*models.InventoryItem, error) {
	item := &models.InventoryItem{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Category:     req.Category,
		Unit:         strings.TrimSpace(req.Unit),
		UnitPrice:    req.UnitPrice,
		MinimumStock: req.MinimumStock,
		MaximumStock: req.MaximumStock,
		IsActive:     true,
	}
	if err := validateItem(item); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	s.logAudit(ctx, item, models.ActionInsert, actor, nil)
	return item, nil
}

// GetByID reads through the Redis cache. Cache failures are logged and the
// database answers instead.
func (s *itemService) GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	cached, err := s.cacheService.GetItem(ctx, id)
	if err != nil {
		s.logger.Warn("item cache read failed", zap.String("item_id", id.String()), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cacheService.SetItem(ctx, item, itemCacheTTL); err != nil {
		s.logger.Warn("item cache write failed", zap.String("item_id", id.String()), zap.Error(err))
	}
	return item, nil
}

func (s *itemService) Update(ctx context.Context, actor Actor, id uuid.UUID, req *UpdateItemRequest) (*models.InventoryItem, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before, _ := CreateEntityValues(item)

	if req.Name != nil {
		item.Name = strings.TrimSpace(*req.Name)
	}
	if req.Unit != nil {
		item.Unit = strings.TrimSpace(*req.Unit)
	}
	if req.UnitPrice != nil {
		item.UnitPrice = *req.UnitPrice
	}
	if req.MinimumStock != nil {
		item.MinimumStock = *req.MinimumStock
	}
	if req.MaximumStock != nil {
		item.MaximumStock = *req.MaximumStock
	}
	if err := validateItem(item); err != nil {
		return nil, err
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	s.logAudit(ctx, item, models.ActionUpdate, actor, before)
	return item, nil
}

// Deactivate soft-deletes the item. It stays readable for transfer history.
func (s *itemService) Deactivate(ctx context.Context, actor Actor, id uuid.UUID) error {
	if err := s.itemRepo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	if err := s.audit.LogActivity(ctx, "inventory_items", id.String(), models.ActionDeactivate, &actor.ID, nil, nil); err != nil {
		s.logger.Warn("failed to audit item deactivation", zap.Error(err))
	}
	return nil
}

func (s *itemService) List(ctx context.Context, filter *models.ItemFilter) ([]*models.InventoryItem, error) {
	if filter != nil && filter.Category != nil && !filter.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", common.ErrValidation, *filter.Category)
	}
	return s.itemRepo.List(ctx, filter)
}

func (s *itemService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cacheService.DeleteItem(ctx, id); err != nil {
		s.logger.Warn("item cache invalidation failed", zap.String("item_id", id.String()), zap.Error(err))
	}
}

func (s *itemService) logAudit(ctx context.Context, item *models.InventoryItem, action string, actor Actor, before models.JSONB) {
	after, err := CreateEntityValues(item)
	if err == nil {
		err = s.audit.LogActivity(ctx, "inventory_items", item.ID.String(), action, &actor.ID, before, after)
	}
	if err != nil {
		s.logger.Warn("failed to audit item change", zap.String("item_id", item.ID.String()), zap.Error(err))
	}
}
