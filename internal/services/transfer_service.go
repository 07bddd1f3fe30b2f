package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"coworkops/internal/common"
	"coworkops/internal/metrics"
	"coworkops/internal/models"
	"coworkops/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

const (
	transfersTable = "transfers"

	// transitionRetries bounds how often a transition is replayed after losing
	// a race on the transfer or stock rows.
	transitionRetries = 3
)

// validTransitions lists the allowed forward moves of the transfer workflow.
var validTransitions = map[models.TransferStatus][]models.TransferStatus{
	models.TransferPending:   {models.TransferInTransit, models.TransferCancelled},
	models.TransferInTransit: {models.TransferCompleted, models.TransferCancelled},
}

func canTransition(from, to models.TransferStatus) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type CreateTransferRequest struct {
	ItemID         uuid.UUID `json:"itemId"`
	FromLocationID uuid.UUID `json:"fromLocation"`
	ToLocationID   uuid.UUID `json:"toLocation"`
	Quantity       int       `json:"quantity"`
	Notes          *string   `json:"notes,omitempty"`
}

type TransferService interface {
	Create(ctx context.Context, actor Actor, req *CreateTransferRequest) (*models.Transfer, error)
	Get(ctx context.Context, id uuid.UUID) (*models.TransferWithHistory, error)
	List(ctx context.Context, filter *models.TransferFilter) ([]*models.Transfer, error)
	Transition(ctx context.Context, actor Actor, id uuid.UUID, to models.TransferStatus) (*models.Transfer, error)
}

type transferService struct {
	db           repositories.TxBeginner
	transferRepo repositories.TransferRepository
	stockRepo    repositories.StockRepository
	itemRepo     repositories.ItemRepository
	locationRepo repositories.LocationRepository
	audit        AuditLogsService
	rbac         RBACService
	clock        clockwork.Clock
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

type TransferDeps struct {
	DB           repositories.TxBeginner
	TransferRepo repositories.TransferRepository
	StockRepo    repositories.StockRepository
	ItemRepo     repositories.ItemRepository
	LocationRepo repositories.LocationRepository
	Audit        AuditLogsService
	RBAC         RBACService
	Clock        clockwork.Clock
	Metrics      *metrics.Metrics
	Logger       *zap.Logger
}

func NewTransferService(deps TransferDeps) TransferService {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	return &transferService{
		db:           deps.DB,
		transferRepo: deps.TransferRepo,
		stockRepo:    deps.StockRepo,
		itemRepo:     deps.ItemRepo,
		locationRepo: deps.LocationRepo,
		audit:        deps.Audit,
		rbac:         deps.RBAC,
		clock:        deps.Clock,
		metrics:      deps.Metrics,
		logger:       deps.Logger,
	}
}

func (s *transferService) Create(ctx context.Context, actor Actor, req *CreateTransferRequest) (*models.Transfer, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be greater than zero", common.ErrValidation)
	}
	if req.FromLocationID == uuid.Nil || req.ToLocationID == uuid.Nil || req.ItemID == uuid.Nil {
		return nil, fmt.Errorf("%w: itemId, fromLocation and toLocation are required", common.ErrValidation)
	}
	if req.FromLocationID == req.ToLocationID {
		return nil, fmt.Errorf("%w: source and destination must differ", common.ErrValidation)
	}
	if err := common.ValidateOptionalString(req.Notes, "notes", 1000); err != nil {
		return nil, err
	}

	item, err := s.itemRepo.GetByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if !item.IsActive {
		return nil, fmt.Errorf("%w: item %s is deactivated", common.ErrValidation, item.ID)
	}
	for _, id := range []uuid.UUID{req.FromLocationID, req.ToLocationID} {
		if _, err := s.locationRepo.GetByID(ctx, id); err != nil {
			return nil, err
		}
	}

	var notes *string
	if req.Notes != nil && strings.TrimSpace(*req.Notes) != "" {
		trimmed := strings.TrimSpace(*req.Notes)
		notes = &trimmed
	}

	transfer := &models.Transfer{
		ID:             uuid.New(),
		ItemID:         req.ItemID,
		FromLocationID: req.FromLocationID,
		ToLocationID:   req.ToLocationID,
		Quantity:       req.Quantity,
		Status:         models.TransferPending,
		Notes:          notes,
		RequestedBy:    actor.ID,
	}

	err = repositories.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
		if err := s.transferRepo.WithTx(tx).Create(ctx, transfer); err != nil {
			return err
		}
		values, err := CreateEntityValues(transfer)
		if err != nil {
			return err
		}
		return s.audit.WithTx(tx).LogActivity(ctx, transfersTable, transfer.ID.String(), models.ActionInsert, &actor.ID, nil, values)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.TransferTransition(string(models.TransferPending))
	s.logger.Info("transfer requested",
		zap.String("transfer_id", transfer.ID.String()),
		zap.String("item_id", transfer.ItemID.String()),
		zap.Int("quantity", transfer.Quantity))
	return transfer, nil
}

func (s *transferService) Get(ctx context.Context, id uuid.UUID) (*models.TransferWithHistory, error) {
	transfer, err := s.transferRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	history, err := s.audit.GetEntityHistory(ctx, transfersTable, id.String())
	if err != nil {
		return nil, err
	}
	return &models.TransferWithHistory{Transfer: transfer, History: history}, nil
}

func (s *transferService) List(ctx context.Context, filter *models.TransferFilter) ([]*models.Transfer, error) {
	if filter != nil && filter.Status != nil && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", common.ErrValidation, *filter.Status)
	}
	return s.transferRepo.List(ctx, filter)
}

// Transition drives approve (pending to in_transit), complete (in_transit to
// completed) and cancel. The status change, the stock movement and the audit
// row commit together or not at all.
func (s *transferService) Transition(ctx context.Context, actor Actor, id uuid.UUID, to models.TransferStatus) (*models.Transfer, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("%w: unknown transfer status %q", common.ErrValidation, to)
	}

	var (
		result *models.Transfer
		err    error
	)
	for attempt := 0; attempt <= transitionRetries; attempt++ {
		result, err = s.transitionOnce(ctx, actor, id, to)
		if !errors.Is(err, common.ErrConflict) {
			break
		}
		s.logger.Warn("transfer transition conflicted, retrying",
			zap.String("transfer_id", id.String()),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}
	if err != nil {
		if errors.Is(err, common.ErrInvalidTransition) || errors.Is(err, common.ErrInsufficientStock) {
			s.logger.Info("transfer transition rejected",
				zap.String("transfer_id", id.String()),
				zap.String("to", string(to)),
				zap.Error(err))
		}
		return nil, err
	}

	s.metrics.TransferTransition(string(to))
	return result, nil
}

func (s *transferService) transitionOnce(ctx context.Context, actor Actor, id uuid.UUID, to models.TransferStatus) (*models.Transfer, error) {
	var result *models.Transfer
	err := repositories.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
		transfers := s.transferRepo.WithTx(tx)
		transfer, err := transfers.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		from := transfer.Status
		if !canTransition(from, to) {
			return fmt.Errorf("%w: transfer %s cannot move from %s to %s", common.ErrInvalidTransition, id, from, to)
		}
		if err := s.authorize(actor, transfer, to); err != nil {
			return err
		}

		now := s.clock.Now().UTC()
		stock := s.stockRepo.WithTx(tx)
		move := movementSpec{itemID: transfer.ItemID, transferID: &transfer.ID, actorID: &actor.ID}

		switch to {
		case models.TransferInTransit:
			move.locationID, move.delta, move.reason = transfer.FromLocationID, -transfer.Quantity, models.MovementTransferOut
			if _, err := applyDelta(ctx, stock, move); err != nil {
				return err
			}
			transfer.ApprovedBy, transfer.ApprovedAt = &actor.ID, &now

		case models.TransferCompleted:
			move.locationID, move.delta, move.reason = transfer.ToLocationID, transfer.Quantity, models.MovementTransferIn
			if _, err := applyDelta(ctx, stock, move); err != nil {
				return err
			}
			transfer.CompletedBy, transfer.CompletedAt = &actor.ID, &now

		case models.TransferCancelled:
			if from == models.TransferInTransit {
				move.locationID, move.delta, move.reason = transfer.FromLocationID, transfer.Quantity, models.MovementTransferReturn
				if _, err := applyDelta(ctx, stock, move); err != nil {
					return err
				}
			}
			transfer.CancelledBy, transfer.CancelledAt = &actor.ID, &now
		}

		transfer.Status = to
		if err := transfers.Update(ctx, transfer); err != nil {
			return err
		}

		err = s.audit.WithTx(tx).LogActivity(ctx, transfersTable, transfer.ID.String(), models.ActionTransition, &actor.ID,
			models.JSONB{"status": from},
			models.JSONB{"status": to, "quantity": transfer.Quantity, "at": now})
		if err != nil {
			return err
		}

		result = transfer
		return nil
	})
	return result, err
}

// authorize checks the caller may apply this transition. Requesters may cancel
// their own pending transfer without holding the cancel permission.
func (s *transferService) authorize(actor Actor, transfer *models.Transfer, to models.TransferStatus) error {
	var permission string
	switch to {
	case models.TransferInTransit:
		permission = PermTransfersApprove
	case models.TransferCompleted:
		permission = PermTransfersComplete
	case models.TransferCancelled:
		if transfer.Status == models.TransferPending && transfer.RequestedBy == actor.ID {
			return nil
		}
		permission = PermTransfersCancel
	}
	if !s.rbac.HasPermission(actor.Role, permission) {
		return fmt.Errorf("%w: role %s may not move a transfer to %s", common.ErrForbidden, actor.Role, to)
	}
	return nil
}
