package repositories

import (
	"context"
	"fmt"
	"time"

	"coworkops/internal/common"
	"coworkops/internal/models"

	"github.com/google/uuid"
)

type LocationRepository interface {
	Create(ctx context.Context, location *models.Location) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Location, error)
	List(ctx context.Context, kind *models.LocationKind) ([]*models.Location, error)
}

type locationRepo struct {
	db DBTX
}

func NewLocationRepo(db DBTX) LocationRepository {
	return &locationRepo{db: db}
}

func (r *locationRepo) Create(ctx context.Context, location *models.Location) error {
	if location.ID == uuid.Nil {
		location.ID = uuid.New()
	}
	now := time.Now().UTC()
	location.CreatedAt, location.UpdatedAt = now, now
	location.IsActive = true

	query := `
		INSERT INTO locations (id, name, kind, address, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query, location.ID, location.Name, location.Kind, location.Address,
		location.IsActive, location.CreatedAt, location.UpdatedAt)
	if isUniqueViolation(err, "") {
		return fmt.Errorf("%w: location %q already exists", common.ErrValidation, location.Name)
	}
	return translate(err)
}

func (r *locationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	location := &models.Location{}
	query := `
		SELECT id, name, kind, address, is_active, created_at, updated_at
		FROM locations
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&location.ID, &location.Name, &location.Kind,
		&location.Address, &location.IsActive, &location.CreatedAt, &location.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("location %s: %w", id, translate(err))
	}
	return location, nil
}

func (r *locationRepo) List(ctx context.Context, kind *models.LocationKind) ([]*models.Location, error) {
	p := &placeholder{}
	query := `SELECT id, name, kind, address, is_active, created_at, updated_at FROM locations WHERE is_active`
	if kind != nil {
		query += " AND kind = " + p.add(*kind)
	}
	query += " ORDER BY kind DESC, name"

	rows, err := r.db.Query(ctx, query, p.args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	locations := []*models.Location{}
	for rows.Next() {
		location := &models.Location{}
		if err := rows.Scan(&location.ID, &location.Name, &location.Kind, &location.Address,
			&location.IsActive, &location.CreatedAt, &location.UpdatedAt); err != nil {
			return nil, err
		}
		locations = append(locations, location)
	}
	return locations, rows.Err()
}
