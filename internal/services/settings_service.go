package services

import (
	"context"
	"errors"
	"fmt"

	"coworkops/internal/common"
	"coworkops/internal/models"
	"coworkops/internal/repositories"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SettingsService interface {
	Get(ctx context.Context) (*models.Settings, error)
	Update(ctx context.Context, actor Actor, settings *models.Settings) (*models.Settings, error)
	Seed(ctx context.Context, defaults *models.Settings) error
}

type settingsService struct {
	db           repositories.TxBeginner
	settingsRepo repositories.SettingsRepository
	audit        AuditLogsService
	logger       *zap.Logger
}

func NewSettingsService(db repositories.TxBeginner, settingsRepo repositories.SettingsRepository, audit AuditLogsService, logger *zap.Logger) SettingsService {
	return &settingsService{db: db, settingsRepo: settingsRepo, audit: audit, logger: logger}
}

func (s *settingsService) Get(ctx context.Context) (*models.Settings, error) {
	return s.settingsRepo.Get(ctx)
}

func (s *settingsService) Update(ctx context.Context, actor Actor, settings *models.Settings) (*models.Settings, error) {
	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}

	newValues, err := CreateEntityValues(settings)
	if err != nil {
		return nil, err
	}

	// The new policy and its audit row commit together.
	err = repositories.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
		repo := s.settingsRepo.WithTx(tx)
		previous, err := repo.Get(ctx)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return err
		}

		var oldValues models.JSONB
		if previous != nil {
			if oldValues, err = CreateEntityValues(previous); err != nil {
				return err
			}
		}
		if err := repo.Update(ctx, settings); err != nil {
			return err
		}
		return s.audit.WithTx(tx).LogActivity(ctx, "settings", "1", models.ActionUpdate, &actor.ID, oldValues, newValues)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking settings updated",
		zap.Int("daily_limit_minutes", settings.DailyBookingLimitMinutes),
		zap.Int("monthly_limit_minutes", settings.MonthlyBookingLimitMinutes))
	return settings, nil
}

// Seed stores the configured defaults when no settings row exists yet.
func (s *settingsService) Seed(ctx context.Context, defaults *models.Settings) error {
	if err := ValidateSettings(defaults); err != nil {
		return err
	}
	return s.settingsRepo.Seed(ctx, defaults)
}

// ValidateSettings checks the booking policy is internally consistent.
func ValidateSettings(s *models.Settings) error {
	switch {
	case s == nil:
		return fmt.Errorf("%w: settings are required", common.ErrValidation)
	case s.DailyBookingLimitMinutes <= 0 || s.MonthlyBookingLimitMinutes <= 0:
		return fmt.Errorf("%w: booking limits must be positive", common.ErrValidation)
	case s.MonthlyBookingLimitMinutes < s.DailyBookingLimitMinutes:
		return fmt.Errorf("%w: monthly limit must not be below the daily limit", common.ErrValidation)
	case s.SlotMinutes <= 0:
		return fmt.Errorf("%w: slot length must be positive", common.ErrValidation)
	case s.OpenHour < 0 || s.CloseHour > 23 || s.OpenHour >= s.CloseHour:
		return fmt.Errorf("%w: opening hours must satisfy 0 <= open < close <= 23", common.ErrValidation)
	case ((s.CloseHour-s.OpenHour)*60)%s.SlotMinutes != 0:
		return fmt.Errorf("%w: slot length must divide the opening window", common.ErrValidation)
	}
	return nil
}
