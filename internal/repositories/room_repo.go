package repositories

import (
	"context"
	"fmt"
	"time"

	"coworkops/internal/common"
	"coworkops/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Room, error)
	List(ctx context.Context, locationID *uuid.UUID) ([]*models.Room, error)
	WithTx(tx pgx.Tx) RoomRepository
}

type roomRepo struct {
	db DBTX
}

func NewRoomRepo(db DBTX) RoomRepository {
	return &roomRepo{db: db}
}

func (r *roomRepo) WithTx(tx pgx.Tx) RoomRepository {
	return &roomRepo{db: tx}
}

func (r *roomRepo) Create(ctx context.Context, room *models.Room) error {
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	room.CreatedAt = time.Now().UTC()
	room.IsActive = true

	query := `
		INSERT INTO rooms (id, name, location_id, capacity, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, room.ID, room.Name, room.LocationID, room.Capacity, room.IsActive, room.CreatedAt)
	if isUniqueViolation(err, "") {
		return fmt.Errorf("%w: room %q already exists at this location", common.ErrValidation, room.Name)
	}
	return translate(err)
}

func (r *roomRepo) get(ctx context.Context, query string, id uuid.UUID) (*models.Room, error) {
	room := &models.Room{}
	err := r.db.QueryRow(ctx, query, id).
		Scan(&room.ID, &room.Name, &room.LocationID, &room.Capacity, &room.IsActive, &room.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("room %s: %w", id, translate(err))
	}
	return room, nil
}

func (r *roomRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	return r.get(ctx, `SELECT id, name, location_id, capacity, is_active, created_at FROM rooms WHERE id = $1`, id)
}

// GetForUpdate locks the room so bookings against it are serialised.
func (r *roomRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	return r.get(ctx, `SELECT id, name, location_id, capacity, is_active, created_at FROM rooms WHERE id = $1 FOR UPDATE`, id)
}

func (r *roomRepo) List(ctx context.Context, locationID *uuid.UUID) ([]*models.Room, error) {
	p := &placeholder{}
	query := `SELECT id, name, location_id, capacity, is_active, created_at FROM rooms WHERE is_active`
	if locationID != nil {
		query += " AND location_id = " + p.add(*locationID)
	}
	query += " ORDER BY name"

	rows, err := r.db.Query(ctx, query, p.args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	rooms := []*models.Room{}
	for rows.Next() {
		room := &models.Room{}
		if err := rows.Scan(&room.ID, &room.Name, &room.LocationID, &room.Capacity, &room.IsActive, &room.CreatedAt); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}
