package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coworkops/internal/common"
	"coworkops/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// StockRepository reads and writes per item and location quantities and the
// movement journal. Mutations are expected to run inside a transaction.
type StockRepository interface {
	Get(ctx context.Context, itemID, locationID uuid.UUID) (*models.StockLevel, error)
	GetForUpdate(ctx context.Context, itemID, locationID uuid.UUID) (*models.StockLevel, error)
	SetQuantity(ctx context.Context, level *models.StockLevel, quantity int) error
	AppendMovement(ctx context.Context, movement *models.StockMovement) error
	List(ctx context.Context, filter *models.StockFilter) ([]*models.StockLevel, error)
	WithTx(tx pgx.Tx) StockRepository
}

type stockRepo struct {
	db DBTX
}

func NewStockRepo(db DBTX) StockRepository {
	return &stockRepo{db: db}
}

func (r *stockRepo) WithTx(tx pgx.Tx) StockRepository {
	return &stockRepo{db: tx}
}

func (r *stockRepo) Get(ctx context.Context, itemID, locationID uuid.UUID) (*models.StockLevel, error) {
	level := &models.StockLevel{}
	query := `
		SELECT item_id, location_id, quantity, version, updated_at
		FROM stock_levels
		WHERE item_id = $1 AND location_id = $2
	`
	err := r.db.QueryRow(ctx, query, itemID, locationID).
		Scan(&level.ItemID, &level.LocationID, &level.Quantity, &level.Version, &level.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return level, nil
}

// GetForUpdate creates the row when missing and locks it for the rest of the
// transaction.
func (r *stockRepo) GetForUpdate(ctx context.Context, itemID, locationID uuid.UUID) (*models.StockLevel, error) {
	ensure := `
		INSERT INTO stock_levels (item_id, location_id, quantity, version, updated_at)
		VALUES ($1, $2, 0, 0, NOW())
		ON CONFLICT (item_id, location_id) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, ensure, itemID, locationID); err != nil {
		return nil, translate(err)
	}

	level := &models.StockLevel{}
	query := `
		SELECT item_id, location_id, quantity, version, updated_at
		FROM stock_levels
		WHERE item_id = $1 AND location_id = $2
		FOR UPDATE
	`
	err := r.db.QueryRow(ctx, query, itemID, locationID).
		Scan(&level.ItemID, &level.LocationID, &level.Quantity, &level.Version, &level.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return level, nil
}

// SetQuantity writes a new quantity guarded by the version read earlier. A
// version mismatch means another writer got there first.
func (r *stockRepo) SetQuantity(ctx context.Context, level *models.StockLevel, quantity int) error {
	query := `
		UPDATE stock_levels
		SET quantity = $3, version = version + 1, updated_at = NOW()
		WHERE item_id = $1 AND location_id = $2 AND version = $4
		RETURNING version, updated_at
	`
	var (
		version   int64
		updatedAt time.Time
	)
	err := r.db.QueryRow(ctx, query, level.ItemID, level.LocationID, quantity, level.Version).Scan(&version, &updatedAt)
	if err != nil {
		err = translate(err)
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("%w: stock level for item %s changed", common.ErrConflict, level.ItemID)
		}
		return err
	}
	level.Quantity = quantity
	level.Version = version
	level.UpdatedAt = updatedAt
	return nil
}

func (r *stockRepo) AppendMovement(ctx context.Context, movement *models.StockMovement) error {
	if movement.ID == uuid.Nil {
		movement.ID = uuid.New()
	}
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO stock_movements (id, item_id, location_id, delta, balance, reason, transfer_id, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query, movement.ID, movement.ItemID, movement.LocationID, movement.Delta,
		movement.Balance, movement.Reason, movement.TransferID, movement.ActorID, movement.CreatedAt)
	return translate(err)
}

func (r *stockRepo) List(ctx context.Context, filter *models.StockFilter) ([]*models.StockLevel, error) {
	if filter == nil {
		filter = &models.StockFilter{}
	}

	p := &placeholder{}
	query := `SELECT item_id, location_id, quantity, version, updated_at FROM stock_levels WHERE 1 = 1`
	if filter.ItemID != nil {
		query += " AND item_id = " + p.add(*filter.ItemID)
	}
	if filter.LocationID != nil {
		query += " AND location_id = " + p.add(*filter.LocationID)
	}
	query += " ORDER BY item_id, location_id"

	rows, err := r.db.Query(ctx, query, p.args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	levels := []*models.StockLevel{}
	for rows.Next() {
		level := &models.StockLevel{}
		if err := rows.Scan(&level.ItemID, &level.LocationID, &level.Quantity, &level.Version, &level.UpdatedAt); err != nil {
			return nil, err
		}
		levels = append(levels, level)
	}
	return levels, rows.Err()
}
