package services

import (
	"context"
	"errors"
	"fmt"

	"coworkops/internal/common"
	"coworkops/internal/models"
	"coworkops/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// AdjustStockRequest is a manual ledger correction such as receiving goods or
// writing off damaged units.
type AdjustStockRequest struct {
	ItemID     uuid.UUID             `json:"itemId"`
	LocationID uuid.UUID             `json:"locationId"`
	Delta      int                   `json:"delta"`
	Reason     models.MovementReason `json:"reason"`
}

// StockService is the stock ledger: per item and location quantities that
// never go negative.
type StockService interface {
	GetStock(ctx context.Context, itemID, locationID uuid.UUID) (int, error)
	List(ctx context.Context, filter *models.StockFilter) ([]*models.StockLevel, error)
	Adjust(ctx context.Context, actor Actor, req *AdjustStockRequest) (*models.StockLevel, error)
}

type stockService struct {
	db           repositories.TxBeginner
	stockRepo    repositories.StockRepository
	itemRepo     repositories.ItemRepository
	locationRepo repositories.LocationRepository
	logger       *zap.Logger
}

func NewStockService(db repositories.TxBeginner, stockRepo repositories.StockRepository, itemRepo repositories.ItemRepository,
	locationRepo repositories.LocationRepository, logger *zap.Logger) StockService {
	return &stockService{
		db:           db,
		stockRepo:    stockRepo,
		itemRepo:     itemRepo,
		locationRepo: locationRepo,
		logger:       logger,
	}
}

// GetStock returns the quantity on hand. A pair that was never stocked reads
// as zero as long as both the item and the location exist.
func (s *stockService) GetStock(ctx context.Context, itemID, locationID uuid.UUID) (int, error) {
	level, err := s.stockRepo.Get(ctx, itemID, locationID)
	if err == nil {
		return level.Quantity, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return 0, err
	}

	if _, err := s.itemRepo.GetByID(ctx, itemID); err != nil {
		return 0, err
	}
	if _, err := s.locationRepo.GetByID(ctx, locationID); err != nil {
		return 0, err
	}
	return 0, nil
}

func (s *stockService) List(ctx context.Context, filter *models.StockFilter) ([]*models.StockLevel, error) {
	return s.stockRepo.List(ctx, filter)
}

func (s *stockService) Adjust(ctx context.Context, actor Actor, req *AdjustStockRequest) (*models.StockLevel, error) {
	if req.Delta == 0 {
		return nil, fmt.Errorf("%w: delta must not be zero", common.ErrValidation)
	}
	if !req.Reason.ValidManual() {
		return nil, fmt.Errorf("%w: reason must be one of receive, write_off, correction", common.ErrValidation)
	}
	if req.Reason == models.MovementReceive && req.Delta < 0 {
		return nil, fmt.Errorf("%w: receiving requires a positive delta", common.ErrValidation)
	}
	if req.Reason == models.MovementWriteOff && req.Delta > 0 {
		return nil, fmt.Errorf("%w: a write-off requires a negative delta", common.ErrValidation)
	}

	item, err := s.itemRepo.GetByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if !item.IsActive && req.Delta > 0 {
		return nil, fmt.Errorf("%w: item %s is deactivated", common.ErrValidation, item.ID)
	}
	if _, err := s.locationRepo.GetByID(ctx, req.LocationID); err != nil {
		return nil, err
	}

	var level *models.StockLevel
	err = repositories.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
		var err error
		level, err = applyDelta(ctx, s.stockRepo.WithTx(tx), movementSpec{
			itemID:     req.ItemID,
			locationID: req.LocationID,
			delta:      req.Delta,
			reason:     req.Reason,
			actorID:    &actor.ID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock adjusted",
		zap.String("item_id", req.ItemID.String()),
		zap.String("location_id", req.LocationID.String()),
		zap.Int("delta", req.Delta),
		zap.Int("balance", level.Quantity),
		zap.String("reason", string(req.Reason)))
	return level, nil
}

type movementSpec struct {
	itemID     uuid.UUID
	locationID uuid.UUID
	delta      int
	reason     models.MovementReason
	transferID *uuid.UUID
	actorID    *uuid.UUID
}

// applyDelta locks the stock row, applies delta and journals the movement.
// It must run inside a transaction; stock is the tx-bound repository.
func applyDelta(ctx context.Context, stock repositories.StockRepository, m movementSpec) (*models.StockLevel, error) {
	level, err := stock.GetForUpdate(ctx, m.itemID, m.locationID)
	if err != nil {
		return nil, err
	}

	balance := level.Quantity + m.delta
	if balance < 0 {
		return nil, fmt.Errorf("%w: %d available at location %s, %d requested",
			common.ErrInsufficientStock, level.Quantity, m.locationID, -m.delta)
	}

	if err := stock.SetQuantity(ctx, level, balance); err != nil {
		return nil, err
	}

	movement := &models.StockMovement{
		ItemID:     m.itemID,
		LocationID: m.locationID,
		Delta:      m.delta,
		Balance:    balance,
		Reason:     m.reason,
		TransferID: m.transferID,
		ActorID:    m.actorID,
	}
	if err := stock.AppendMovement(ctx, movement); err != nil {
		return nil, err
	}
	return level, nil
}
