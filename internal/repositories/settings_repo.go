package repositories

import (
	"context"
	"fmt"

	"coworkops/internal/models"

	"github.com/jackc/pgx/v5"
)

// SettingsRepository owns the single row of booking policy.
type SettingsRepository interface {
	Get(ctx context.Context) (*models.Settings, error)
	Seed(ctx context.Context, settings *models.Settings) error
	Update(ctx context.Context, settings *models.Settings) error
	WithTx(tx pgx.Tx) SettingsRepository
}

type settingsRepo struct {
	db DBTX
}

func NewSettingsRepo(db DBTX) SettingsRepository {
	return &settingsRepo{db: db}
}

func (r *settingsRepo) WithTx(tx pgx.Tx) SettingsRepository {
	return &settingsRepo{db: tx}
}

func (r *settingsRepo) Get(ctx context.Context) (*models.Settings, error) {
	s := &models.Settings{}
	query := `
		SELECT daily_booking_limit_minutes, monthly_booking_limit_minutes, slot_minutes, open_hour, close_hour, updated_at
		FROM settings
		WHERE id = 1
	`
	err := r.db.QueryRow(ctx, query).Scan(&s.DailyBookingLimitMinutes, &s.MonthlyBookingLimitMinutes,
		&s.SlotMinutes, &s.OpenHour, &s.CloseHour, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("settings: %w", translate(err))
	}
	return s, nil
}

// Seed writes the defaults unless an administrator already saved settings.
func (r *settingsRepo) Seed(ctx context.Context, s *models.Settings) error {
	query := `
		INSERT INTO settings (id, daily_booking_limit_minutes, monthly_booking_limit_minutes, slot_minutes, open_hour, close_hour, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, s.DailyBookingLimitMinutes, s.MonthlyBookingLimitMinutes, s.SlotMinutes, s.OpenHour, s.CloseHour)
	return translate(err)
}

func (r *settingsRepo) Update(ctx context.Context, s *models.Settings) error {
	query := `
		INSERT INTO settings (id, daily_booking_limit_minutes, monthly_booking_limit_minutes, slot_minutes, open_hour, close_hour, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id) DO UPDATE SET
			daily_booking_limit_minutes = EXCLUDED.daily_booking_limit_minutes,
			monthly_booking_limit_minutes = EXCLUDED.monthly_booking_limit_minutes,
			slot_minutes = EXCLUDED.slot_minutes,
			open_hour = EXCLUDED.open_hour,
			close_hour = EXCLUDED.close_hour,
			updated_at = EXCLUDED.updated_at
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, s.DailyBookingLimitMinutes, s.MonthlyBookingLimitMinutes,
		s.SlotMinutes, s.OpenHour, s.CloseHour).Scan(&s.UpdatedAt)
	return translate(err)
}
