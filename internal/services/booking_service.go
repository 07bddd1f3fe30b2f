package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"coworkops/internal/common"
	"coworkops/internal/metrics"
	"coworkops/internal/models"
	"coworkops/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// rollingMonthDays is the length of the window monthly usage is summed over,
// ending on and including the booking date.
const rollingMonthDays = 30

type CreateBookingRequest struct {
	RoomID    uuid.UUID `json:"roomId"`
	Date      string    `json:"date"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	Purpose   string    `json:"purpose"`
}

type BookingService interface {
	Create(ctx context.Context, actor Actor, req *CreateBookingRequest) (*models.Booking, error)
	Cancel(ctx context.Context, actor Actor, id uuid.UUID) (*models.Booking, error)
	List(ctx context.Context, filter *models.BookingFilter) ([]*models.Booking, error)
	Availability(ctx context.Context, roomID uuid.UUID, date time.Time) ([]models.Slot, error)
	Usage(ctx context.Context, subjectID uuid.UUID, date time.Time) (*models.BookingUsage, error)
	CompleteElapsed(ctx context.Context) (int64, error)
	Location() *time.Location
}

type bookingService struct {
	db           repositories.TxBeginner
	bookingRepo  repositories.BookingRepository
	roomRepo     repositories.RoomRepository
	userRepo     repositories.UserRepository
	settingsRepo repositories.SettingsRepository
	rbac         RBACService
	clock        clockwork.Clock
	loc          *time.Location
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

type BookingDeps struct {
	DB           repositories.TxBeginner
	BookingRepo  repositories.BookingRepository
	RoomRepo     repositories.RoomRepository
	UserRepo     repositories.UserRepository
	SettingsRepo repositories.SettingsRepository
	RBAC         RBACService
	Clock        clockwork.Clock
	Location     *time.Location
	Metrics      *metrics.Metrics
	Logger       *zap.Logger
}

func NewBookingService(deps BookingDeps) BookingService {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	return &bookingService{
		db:           deps.DB,
		bookingRepo:  deps.BookingRepo,
		roomRepo:     deps.RoomRepo,
		userRepo:     deps.UserRepo,
		settingsRepo: deps.SettingsRepo,
		rbac:         deps.RBAC,
		clock:        deps.Clock,
		loc:          deps.Location,
		metrics:      deps.Metrics,
		logger:       deps.Logger,
	}
}

func (s *bookingService) Location() *time.Location { return s.loc }

// Create confirms a booking after checking, inside one transaction, the
// opening hours, slot overlap and the subject's daily and rolling-month caps.
// A rejected request leaves no row behind.
func (s *bookingService) Create(ctx context.Context, actor Actor, req *CreateBookingRequest) (*models.Booking, error) {
	if req.RoomID == uuid.Nil {
		return nil, fmt.Errorf("%w: roomId is required", common.ErrValidation)
	}
	date, err := common.ParseDate(req.Date, "date", s.loc)
	if err != nil {
		return nil, err
	}
	start, err := common.ParseClock(req.StartTime, "startTime")
	if err != nil {
		return nil, err
	}
	end, err := common.ParseClock(req.EndTime, "endTime")
	if err != nil {
		return nil, err
	}
	if start >= end {
		return nil, fmt.Errorf("%w: startTime must be before endTime", common.ErrValidation)
	}
	purpose := strings.TrimSpace(req.Purpose)
	if len(purpose) > 500 {
		return nil, fmt.Errorf("%w: purpose must be at most 500 characters", common.ErrValidation)
	}

	now := s.clock.Now().In(s.loc)
	today := common.StartOfDay(now)
	if date.Before(today) || (date.Equal(today) && start <= minuteOfDay(now)) {
		return nil, fmt.Errorf("%w: the requested slot has already started", common.ErrValidation)
	}

	booking := &models.Booking{
		ID:              uuid.New(),
		RoomID:          req.RoomID,
		SubjectID:       actor.ID,
		Date:            date,
		StartMinute:     start,
		EndMinute:       end,
		DurationMinutes: end - start,
		Status:          models.BookingConfirmed,
		Purpose:         purpose,
	}

	err = repositories.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
		settings, err := s.settingsRepo.WithTx(tx).Get(ctx)
		if err != nil {
			return err
		}
		if start < settings.OpenHour*60 || end > settings.CloseHour*60 {
			return fmt.Errorf("%w: bookings must fall between %s and %s", common.ErrValidation,
				common.FormatClock(settings.OpenHour*60), common.FormatClock(settings.CloseHour*60))
		}

		room, err := s.roomRepo.WithTx(tx).GetForUpdate(ctx, req.RoomID)
		if err != nil {
			return err
		}
		if !room.IsActive {
			return fmt.Errorf("%w: room %s is not bookable", common.ErrValidation, room.ID)
		}
		if err := s.userRepo.WithTx(tx).LockForUpdate(ctx, actor.ID); err != nil {
			return err
		}

		bookings := s.bookingRepo.WithTx(tx)
		existing, err := bookings.ListConfirmedForRoom(ctx, room.ID, date)
		if err != nil {
			return err
		}
		for _, b := range existing {
			if b.Overlaps(start, end) {
				return fmt.Errorf("%w: %s overlaps %s-%s", common.ErrSlotUnavailable,
					room.Name, b.StartTime(), b.EndTime())
			}
		}

		daily, err := bookings.SumMinutes(ctx, actor.ID, date, date)
		if err != nil {
			return err
		}
		if daily+booking.DurationMinutes > settings.DailyBookingLimitMinutes {
			return fmt.Errorf("%w: %d of %d minutes already booked on %s", common.ErrDailyLimitExceeded,
				daily, settings.DailyBookingLimitMinutes, date.Format(common.DateLayout))
		}

		from, to := rollingMonth(date)
		monthly, err := bookings.SumMinutes(ctx, actor.ID, from, to)
		if err != nil {
			return err
		}
		if monthly+booking.DurationMinutes > settings.MonthlyBookingLimitMinutes {
			return fmt.Errorf("%w: %d of %d minutes already booked in the last %d days", common.ErrMonthlyLimitExceeded,
				monthly, settings.MonthlyBookingLimitMinutes, rollingMonthDays)
		}

		return bookings.Create(ctx, booking)
	})
	if err != nil {
		if reason := rejectionReason(err); reason != "" {
			s.metrics.BookingRejected(reason)
			s.logger.Info("booking rejected",
				zap.String("subject_id", actor.ID.String()),
				zap.String("reason", reason),
				zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("booking confirmed",
		zap.String("booking_id", booking.ID.String()),
		zap.String("room_id", booking.RoomID.String()),
		zap.Int("duration_minutes", booking.DurationMinutes))
	return booking, nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, common.ErrDailyLimitExceeded):
		return "daily_limit"
	case errors.Is(err, common.ErrMonthlyLimitExceeded):
		return "monthly_limit"
	case errors.Is(err, common.ErrSlotUnavailable):
		return "slot_unavailable"
	}
	return ""
}

func (s *bookingService) Cancel(ctx context.Context, actor Actor, id uuid.UUID) (*models.Booking, error) {
	var booking *models.Booking
	err := repositories.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
		bookings := s.bookingRepo.WithTx(tx)
		b, err := bookings.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if b.SubjectID != actor.ID && !s.rbac.HasPermission(actor.Role, PermBookingsCancelAny) {
			return fmt.Errorf("%w: booking %s belongs to another subject", common.ErrForbidden, id)
		}
		if b.Status != models.BookingConfirmed {
			return fmt.Errorf("%w: booking %s is %s", common.ErrInvalidTransition, id, b.Status)
		}

		now := s.clock.Now().UTC()
		b.CancelledBy, b.CancelledAt = &actor.ID, &now
		if err := bookings.Cancel(ctx, b); err != nil {
			return err
		}
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking cancelled", zap.String("booking_id", id.String()), zap.String("by", actor.ID.String()))
	return booking, nil
}

func (s *bookingService) List(ctx context.Context, filter *models.BookingFilter) ([]*models.Booking, error) {
	return s.bookingRepo.List(ctx, filter)
}

// Availability generates the free slots of a room on date. Slots overlapping a
// Confirmed booking are dropped, as are slots on the current day that have
// already started.
func (s *bookingService) Availability(ctx context.Context, roomID uuid.UUID, date time.Time) ([]models.Slot, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.roomRepo.GetByID(ctx, roomID); err != nil {
		return nil, err
	}

	now := s.clock.Now().In(s.loc)
	today := common.StartOfDay(now)
	date = common.StartOfDay(date.In(s.loc))
	if date.Before(today) {
		return []models.Slot{}, nil
	}

	existing, err := s.bookingRepo.ListConfirmedForRoom(ctx, roomID, date)
	if err != nil {
		return nil, err
	}

	cutoff := -1
	if date.Equal(today) {
		cutoff = minuteOfDay(now)
	}
	return GenerateSlots(settings, existing, cutoff), nil
}

// GenerateSlots lays slot-sized intervals over the opening window and removes
// taken ones and those starting at or before cutoff (minutes since midnight,
// negative for no cutoff).
func GenerateSlots(settings *models.Settings, taken []*models.Booking, cutoff int) []models.Slot {
	slots := []models.Slot{}
	for start := settings.OpenHour * 60; start+settings.SlotMinutes <= settings.CloseHour*60; start += settings.SlotMinutes {
		end := start + settings.SlotMinutes
		if cutoff >= 0 && start <= cutoff {
			continue
		}
		free := true
		for _, b := range taken {
			if b.Overlaps(start, end) {
				free = false
				break
			}
		}
		if free {
			slots = append(slots, models.Slot{StartTime: common.FormatClock(start), EndTime: common.FormatClock(end)})
		}
	}
	return slots
}

// Usage reports advisory figures for UI countdowns. Enforcement happens in
// Create only.
func (s *bookingService) Usage(ctx context.Context, subjectID uuid.UUID, date time.Time) (*models.BookingUsage, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	date = common.StartOfDay(date.In(s.loc))

	daily, err := s.bookingRepo.SumMinutes(ctx, subjectID, date, date)
	if err != nil {
		return nil, err
	}
	from, to := rollingMonth(date)
	monthly, err := s.bookingRepo.SumMinutes(ctx, subjectID, from, to)
	if err != nil {
		return nil, err
	}

	return &models.BookingUsage{
		Date:                date,
		DailyUsedMinutes:    daily,
		DailyLimitMinutes:   settings.DailyBookingLimitMinutes,
		MonthlyUsedMinutes:  monthly,
		MonthlyLimitMinutes: settings.MonthlyBookingLimitMinutes,
	}, nil
}

// CompleteElapsed marks Confirmed bookings whose end has passed as Completed.
func (s *bookingService) CompleteElapsed(ctx context.Context) (int64, error) {
	return s.bookingRepo.CompleteElapsed(ctx, s.clock.Now(), s.loc.String())
}

func rollingMonth(date time.Time) (time.Time, time.Time) {
	return date.AddDate(0, 0, -(rollingMonthDays - 1)), date
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
