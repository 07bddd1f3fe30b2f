package services

import (
	"context"
	"errors"
	"fmt"
	"math"
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

type CheckInRequest struct {
	Notes      *string    `json:"notes,omitempty"`
	LocationID *uuid.UUID `json:"locationId,omitempty"`
}

// TimeEntryReport is a filtered entry listing with its aggregate figures.
type TimeEntryReport struct {
	Entries []*models.TimeEntry   `json:"entries"`
	Stats   models.TimeEntryStats `json:"stats"`
}

type TimeEntryService interface {
	CheckIn(ctx context.Context, subjectID uuid.UUID, req *CheckInRequest) (*models.TimeEntry, error)
	CheckOut(ctx context.Context, subjectID uuid.UUID) (*models.TimeEntry, error)
	List(ctx context.Context, filter *models.TimeEntryFilter) (*TimeEntryReport, error)
	CurrentStatus(ctx context.Context, subjectID uuid.UUID) (*models.CurrentStatus, error)
}

type timeEntryService struct {
	db           repositories.TxBeginner
	entryRepo    repositories.TimeEntryRepository
	locationRepo repositories.LocationRepository
	clock        clockwork.Clock
	loc          *time.Location
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

func NewTimeEntryService(db repositories.TxBeginner, entryRepo repositories.TimeEntryRepository, locationRepo repositories.LocationRepository,
	clock clockwork.Clock, loc *time.Location, m *metrics.Metrics, logger *zap.Logger) TimeEntryService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &timeEntryService{
		db:           db,
		entryRepo:    entryRepo,
		locationRepo: locationRepo,
		clock:        clock,
		loc:          loc,
		metrics:      m,
		logger:       logger,
	}
}

func (s *timeEntryService) CheckIn(ctx context.Context, subjectID uuid.UUID, req *CheckInRequest) (*models.TimeEntry, error) {
	if req == nil {
		req = &CheckInRequest{}
	}
	if err := common.ValidateOptionalString(req.Notes, "notes", 500); err != nil {
		return nil, err
	}
	if req.LocationID != nil {
		if _, err := s.locationRepo.GetByID(ctx, *req.LocationID); err != nil {
			return nil, err
		}
	}

	now := s.clock.Now().In(s.loc)
	entry := &models.TimeEntry{
		ID:         uuid.New(),
		SubjectID:  subjectID,
		CheckIn:    now,
		Status:     models.TimeEntryCheckedIn,
		Date:       common.StartOfDay(now),
		LocationID: req.LocationID,
		CreatedAt:  now,
	}
	if req.Notes != nil && strings.TrimSpace(*req.Notes) != "" {
		notes := strings.TrimSpace(*req.Notes)
		entry.Notes = &notes
	}

	err := repositories.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
		entries := s.entryRepo.WithTx(tx)
		open, err := entries.GetOpenForUpdate(ctx, subjectID)
		switch {
		case err == nil:
			return fmt.Errorf("%w: since %s", common.ErrAlreadyCheckedIn, open.CheckIn.In(s.loc).Format(time.RFC3339))
		case !errors.Is(err, common.ErrNotFound):
			return err
		}
		return entries.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.TimeEntryEvent("checkin")
	s.logger.Info("checked in", zap.String("subject_id", subjectID.String()), zap.String("entry_id", entry.ID.String()))
	return entry, nil
}

func (s *timeEntryService) CheckOut(ctx context.Context, subjectID uuid.UUID) (*models.TimeEntry, error) {
	var entry *models.TimeEntry
	err := repositories.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
		entries := s.entryRepo.WithTx(tx)
		open, err := entries.GetOpenForUpdate(ctx, subjectID)
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("%w: subject %s is not checked in", common.ErrNoOpenEntry, subjectID)
		}
		if err != nil {
			return err
		}

		now := s.clock.Now().In(s.loc)
		duration := wholeMinutes(open.CheckIn, now)
		open.CheckOut = &now
		open.DurationMinutes = &duration
		open.Status = models.TimeEntryCheckedOut
		if err := entries.Close(ctx, open); err != nil {
			return err
		}
		entry = open
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.TimeEntryEvent("checkout")
	s.logger.Info("checked out",
		zap.String("subject_id", subjectID.String()),
		zap.String("entry_id", entry.ID.String()),
		zap.Int("duration_minutes", *entry.DurationMinutes))
	return entry, nil
}

func (s *timeEntryService) List(ctx context.Context, filter *models.TimeEntryFilter) (*TimeEntryReport, error) {
	if filter == nil {
		return nil, fmt.Errorf("%w: startDate and endDate are required", common.ErrValidation)
	}
	if err := common.ValidateDateRange(filter.StartDate, filter.EndDate); err != nil {
		return nil, err
	}
	entries, err := s.entryRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &TimeEntryReport{Entries: entries, Stats: ComputeStats(entries)}, nil
}

// CurrentStatus is derived from the most recent entry; it is never stored.
func (s *timeEntryService) CurrentStatus(ctx context.Context, subjectID uuid.UUID) (*models.CurrentStatus, error) {
	latest, err := s.entryRepo.Latest(ctx, subjectID)
	if errors.Is(err, common.ErrNotFound) {
		return &models.CurrentStatus{Status: models.TimeEntryNever}, nil
	}
	if err != nil {
		return nil, err
	}
	return &models.CurrentStatus{Status: latest.Status, Entry: latest}, nil
}

// wholeMinutes floors the elapsed time to minutes and never goes negative.
func wholeMinutes(from, to time.Time) int {
	d := to.Sub(from)
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}

// ComputeStats aggregates closed entries. Open entries count towards
// TotalEntries only.
func ComputeStats(entries []*models.TimeEntry) models.TimeEntryStats {
	stats := models.TimeEntryStats{TotalEntries: len(entries)}
	days := make(map[string]struct{})
	for _, e := range entries {
		if e.Status != models.TimeEntryCheckedOut || e.DurationMinutes == nil {
			continue
		}
		stats.TotalMinutes += *e.DurationMinutes
		days[e.Date.Format(common.DateLayout)] = struct{}{}
	}
	stats.DaysTracked = len(days)
	stats.TotalHours = roundHours(float64(stats.TotalMinutes) / 60)
	if stats.DaysTracked > 0 {
		stats.AverageHoursPerDay = roundHours(float64(stats.TotalMinutes) / 60 / float64(stats.DaysTracked))
	}
	return stats
}

func roundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
