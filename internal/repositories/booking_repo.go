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

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	ListConfirmedForRoom(ctx context.Context, roomID uuid.UUID, date time.Time) ([]*models.Booking, error)
	SumMinutes(ctx context.Context, subjectID uuid.UUID, from, to time.Time) (int, error)
	Cancel(ctx context.Context, booking *models.Booking) error
	List(ctx context.Context, filter *models.BookingFilter) ([]*models.Booking, error)
	CompleteElapsed(ctx context.Context, now time.Time, timezone string) (int64, error)
	WithTx(tx pgx.Tx) BookingRepository
}

type bookingRepo struct {
	db DBTX
}

func NewBookingRepo(db DBTX) BookingRepository {
	return &bookingRepo{db: db}
}

func (r *bookingRepo) WithTx(tx pgx.Tx) BookingRepository {
	return &bookingRepo{db: tx}
}

const bookingColumns = `id, room_id, subject_id, booking_date, start_minute, end_minute, duration_minutes, status, purpose,
	cancelled_by, cancelled_at, created_at, updated_at`

func scanBooking(row pgx.Row) (*models.Booking, error) {
	b := &models.Booking{}
	err := row.Scan(&b.ID, &b.RoomID, &b.SubjectID, &b.Date, &b.StartMinute, &b.EndMinute, &b.DurationMinutes,
		&b.Status, &b.Purpose, &b.CancelledBy, &b.CancelledAt, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingRepo) Create(ctx context.Context, b *models.Booking) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	now := time.Now().UTC()
	b.CreatedAt, b.UpdatedAt = now, now

	query := `
		INSERT INTO bookings (id, room_id, subject_id, booking_date, start_minute, end_minute, duration_minutes, status, purpose, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(ctx, query, b.ID, b.RoomID, b.SubjectID, b.Date, b.StartMinute, b.EndMinute,
		b.DurationMinutes, b.Status, b.Purpose, b.CreatedAt, b.UpdatedAt)
	return translate(err)
}

func (r *bookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", id, translate(err))
	}
	return b, nil
}

func (r *bookingRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", id, translate(err))
	}
	return b, nil
}

func (r *bookingRepo) ListConfirmedForRoom(ctx context.Context, roomID uuid.UUID, date time.Time) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE room_id = $1 AND booking_date = $2 AND status = 'Confirmed'
		ORDER BY start_minute`
	return r.query(ctx, query, roomID, date)
}

// SumMinutes totals the subject's Confirmed and Completed bookings dated
// within [from, to].
func (r *bookingRepo) SumMinutes(ctx context.Context, subjectID uuid.UUID, from, to time.Time) (int, error) {
	query := `
		SELECT COALESCE(SUM(duration_minutes), 0)
		FROM bookings
		WHERE subject_id = $1 AND booking_date BETWEEN $2 AND $3 AND status IN ('Confirmed', 'Completed')
	`
	var total int
	if err := r.db.QueryRow(ctx, query, subjectID, from, to).Scan(&total); err != nil {
		return 0, translate(err)
	}
	return total, nil
}

func (r *bookingRepo) Cancel(ctx context.Context, b *models.Booking) error {
	query := `
		UPDATE bookings
		SET status = 'Cancelled', cancelled_by = $2, cancelled_at = $3, updated_at = NOW()
		WHERE id = $1 AND status = 'Confirmed'
	`
	tag, err := r.db.Exec(ctx, query, b.ID, b.CancelledBy, b.CancelledAt)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: booking %s is no longer confirmed", common.ErrInvalidTransition, b.ID)
	}
	b.Status = models.BookingCancelled
	return nil
}

func (r *bookingRepo) List(ctx context.Context, filter *models.BookingFilter) ([]*models.Booking, error) {
	if filter == nil {
		filter = &models.BookingFilter{}
	}

	p := &placeholder{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE 1 = 1`
	if filter.SubjectID != nil {
		query += " AND subject_id = " + p.add(*filter.SubjectID)
	}
	if filter.RoomID != nil {
		query += " AND room_id = " + p.add(*filter.RoomID)
	}
	if filter.Date != nil {
		query += " AND booking_date = " + p.add(*filter.Date)
	}
	if filter.Status != nil {
		query += " AND status = " + p.add(*filter.Status)
	}
	query += " ORDER BY booking_date DESC, start_minute LIMIT 200"

	return r.query(ctx, query, p.args...)
}

// CompleteElapsed flips Confirmed bookings whose end lies before now to
// Completed. Dates and minutes are interpreted in the given IANA timezone.
func (r *bookingRepo) CompleteElapsed(ctx context.Context, now time.Time, timezone string) (int64, error) {
	query := `
		UPDATE bookings
		SET status = 'Completed', updated_at = NOW()
		WHERE status = 'Confirmed'
		  AND (booking_date + end_minute * INTERVAL '1 minute') AT TIME ZONE $2 <= $1
	`
	tag, err := r.db.Exec(ctx, query, now, timezone)
	if err != nil {
		return 0, translate(err)
	}
	return tag.RowsAffected(), nil
}

func (r *bookingRepo) query(ctx context.Context, query string, args ...interface{}) ([]*models.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	bookings := []*models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
