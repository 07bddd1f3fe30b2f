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

type TransferRepository interface {
	Create(ctx context.Context, transfer *models.Transfer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transfer, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Transfer, error)
	Update(ctx context.Context, transfer *models.Transfer) error
	List(ctx context.Context, filter *models.TransferFilter) ([]*models.Transfer, error)
	WithTx(tx pgx.Tx) TransferRepository
}

type transferRepo struct {
	db DBTX
}

func NewTransferRepo(db DBTX) TransferRepository {
	return &transferRepo{db: db}
}

func (r *transferRepo) WithTx(tx pgx.Tx) TransferRepository {
	return &transferRepo{db: tx}
}

const transferColumns = `id, item_id, from_location_id, to_location_id, quantity, status, notes, requested_by,
	approved_by, approved_at, completed_by, completed_at, cancelled_by, cancelled_at, version, created_at, updated_at`

func scanTransfer(row pgx.Row) (*models.Transfer, error) {
	t := &models.Transfer{}
	err := row.Scan(&t.ID, &t.ItemID, &t.FromLocationID, &t.ToLocationID, &t.Quantity, &t.Status, &t.Notes,
		&t.RequestedBy, &t.ApprovedBy, &t.ApprovedAt, &t.CompletedBy, &t.CompletedAt,
		&t.CancelledBy, &t.CancelledAt, &t.Version, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *transferRepo) Create(ctx context.Context, t *models.Transfer) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now

	query := `
		INSERT INTO transfers (id, item_id, from_location_id, to_location_id, quantity, status, notes, requested_by, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(ctx, query, t.ID, t.ItemID, t.FromLocationID, t.ToLocationID, t.Quantity, t.Status,
		t.Notes, t.RequestedBy, t.Version, t.CreatedAt, t.UpdatedAt)
	return translate(err)
}

func (r *transferRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Transfer, error) {
	t, err := scanTransfer(r.db.QueryRow(ctx, `SELECT `+transferColumns+` FROM transfers WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("transfer %s: %w", id, translate(err))
	}
	return t, nil
}

func (r *transferRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Transfer, error) {
	t, err := scanTransfer(r.db.QueryRow(ctx, `SELECT `+transferColumns+` FROM transfers WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, fmt.Errorf("transfer %s: %w", id, translate(err))
	}
	return t, nil
}

// Update persists the status and actor columns. The write only lands when the
// stored version still matches t.Version; on success t.Version is advanced.
func (r *transferRepo) Update(ctx context.Context, t *models.Transfer) error {
	query := `
		UPDATE transfers
		SET status = $3, approved_by = $4, approved_at = $5, completed_by = $6, completed_at = $7,
			cancelled_by = $8, cancelled_at = $9, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
		RETURNING version, updated_at
	`
	err := r.db.QueryRow(ctx, query, t.ID, t.Version, t.Status, t.ApprovedBy, t.ApprovedAt,
		t.CompletedBy, t.CompletedAt, t.CancelledBy, t.CancelledAt).Scan(&t.Version, &t.UpdatedAt)
	if err != nil {
		err = translate(err)
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("%w: transfer %s was modified concurrently", common.ErrConflict, t.ID)
		}
		return err
	}
	return nil
}

func (r *transferRepo) List(ctx context.Context, filter *models.TransferFilter) ([]*models.Transfer, error) {
	if filter == nil {
		filter = &models.TransferFilter{}
	}
	if filter.Limit == 0 {
		filter.Limit = 50
	}

	p := &placeholder{}
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE 1 = 1`
	if filter.Status != nil {
		query += " AND status = " + p.add(*filter.Status)
	}
	if filter.ItemID != nil {
		query += " AND item_id = " + p.add(*filter.ItemID)
	}
	query += " ORDER BY created_at DESC LIMIT " + p.add(filter.Limit) + " OFFSET " + p.add(filter.Offset)

	rows, err := r.db.Query(ctx, query, p.args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	transfers := []*models.Transfer{}
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, t)
	}
	return transfers, rows.Err()
}
