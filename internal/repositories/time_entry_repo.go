package repositories

import (
	"context"
	"errors"
	"fmt"

	"coworkops/internal/common"
	"coworkops/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const openEntryIndex = "uq_time_entries_open"

type TimeEntryRepository interface {
	Create(ctx context.Context, entry *models.TimeEntry) error
	GetOpenForUpdate(ctx context.Context, subjectID uuid.UUID) (*models.TimeEntry, error)
	Close(ctx context.Context, entry *models.TimeEntry) error
	Latest(ctx context.Context, subjectID uuid.UUID) (*models.TimeEntry, error)
	List(ctx context.Context, filter *models.TimeEntryFilter) ([]*models.TimeEntry, error)
	WithTx(tx pgx.Tx) TimeEntryRepository
}

type timeEntryRepo struct {
	db DBTX
}

func NewTimeEntryRepo(db DBTX) TimeEntryRepository {
	return &timeEntryRepo{db: db}
}

func (r *timeEntryRepo) WithTx(tx pgx.Tx) TimeEntryRepository {
	return &timeEntryRepo{db: tx}
}

const timeEntryColumns = `id, subject_id, check_in, check_out, duration_minutes, status, entry_date, notes, location_id, created_at`

func scanTimeEntry(row pgx.Row) (*models.TimeEntry, error) {
	e := &models.TimeEntry{}
	err := row.Scan(&e.ID, &e.SubjectID, &e.CheckIn, &e.CheckOut, &e.DurationMinutes, &e.Status,
		&e.Date, &e.Notes, &e.LocationID, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Create inserts an open entry. The partial unique index on open entries turns
// a concurrent second check-in into ErrAlreadyCheckedIn.
func (r *timeEntryRepo) Create(ctx context.Context, e *models.TimeEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = e.CheckIn
	}

	query := `
		INSERT INTO time_entries (id, subject_id, check_in, status, entry_date, notes, location_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query, e.ID, e.SubjectID, e.CheckIn, e.Status, e.Date, e.Notes, e.LocationID, e.CreatedAt)
	if isUniqueViolation(err, openEntryIndex) {
		return fmt.Errorf("%w: subject %s", common.ErrAlreadyCheckedIn, e.SubjectID)
	}
	return translate(err)
}

func (r *timeEntryRepo) GetOpenForUpdate(ctx context.Context, subjectID uuid.UUID) (*models.TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries WHERE subject_id = $1 AND status = 'Checked In' FOR UPDATE`
	e, err := scanTimeEntry(r.db.QueryRow(ctx, query, subjectID))
	if err != nil {
		return nil, translate(err)
	}
	return e, nil
}

func (r *timeEntryRepo) Close(ctx context.Context, e *models.TimeEntry) error {
	query := `
		UPDATE time_entries
		SET check_out = $2, duration_minutes = $3, status = $4
		WHERE id = $1 AND status = 'Checked In'
	`
	tag, err := r.db.Exec(ctx, query, e.ID, e.CheckOut, e.DurationMinutes, e.Status)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s is already closed", common.ErrNoOpenEntry, e.ID)
	}
	return nil
}

// Latest returns the most recently created entry of the subject.
func (r *timeEntryRepo) Latest(ctx context.Context, subjectID uuid.UUID) (*models.TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries WHERE subject_id = $1 ORDER BY created_at DESC, check_in DESC LIMIT 1`
	e, err := scanTimeEntry(r.db.QueryRow(ctx, query, subjectID))
	if err != nil {
		return nil, translate(err)
	}
	return e, nil
}

// List returns entries whose check-in falls in [StartDate, EndDate + 1 day).
func (r *timeEntryRepo) List(ctx context.Context, filter *models.TimeEntryFilter) ([]*models.TimeEntry, error) {
	if filter == nil {
		return nil, errors.New("time entry filter is required")
	}

	p := &placeholder{}
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries WHERE check_in >= ` + p.add(filter.StartDate) +
		` AND check_in < ` + p.add(filter.EndDate.AddDate(0, 0, 1))
	if filter.SubjectID != nil {
		query += " AND subject_id = " + p.add(*filter.SubjectID)
	}
	query += " ORDER BY check_in DESC"

	rows, err := r.db.Query(ctx, query, p.args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	entries := []*models.TimeEntry{}
	for rows.Next() {
		e, err := scanTimeEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
