package background

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"coworkops/internal/jobs"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

const (
	JobBookingCompletion = "booking-completion"
	JobLowStockAlerts    = "low-stock-alerts"

	defaultBookingCompletionInterval = 5 * time.Minute
	defaultLowStockAlertsInterval    = 30 * time.Minute
	jobTimeout                       = 2 * time.Minute
)

// Intervals sets how often each job runs. Zero values use the defaults.
type Intervals struct {
	BookingCompletion time.Duration
	LowStockAlerts    time.Duration
}

// JobScheduler runs the periodic maintenance jobs.
type JobScheduler struct {
	scheduler  gocron.Scheduler
	completion *jobs.BookingCompletionService
	alerts     *jobs.InventoryAlertService
	logger     *zap.Logger
	intervals  Intervals
	jobJobs    map[string]gocron.Job
	mu         sync.RWMutex
}

// JobInfo describes one registered job.
type JobInfo struct {
	Name     string     `json:"name"`
	Interval string     `json:"interval"`
	LastRun  *time.Time `json:"lastRun,omitempty"`
	NextRun  *time.Time `json:"nextRun,omitempty"`
}

// NewJobScheduler creates the scheduler and registers the jobs. It does not
// start them.
func NewJobScheduler(clock clockwork.Clock, intervals Intervals, completion *jobs.BookingCompletionService, alerts *jobs.InventoryAlertService, logger *zap.Logger) (*JobScheduler, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if intervals.BookingCompletion <= 0 {
		intervals.BookingCompletion = defaultBookingCompletionInterval
	}
	if intervals.LowStockAlerts <= 0 {
		intervals.LowStockAlerts = defaultLowStockAlertsInterval
	}

	scheduler, err := gocron.NewScheduler(
		gocron.WithClock(clock),
		gocron.WithLogger(gocronLogger{logger.Sugar()}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler:  scheduler,
		completion: completion,
		alerts:     alerts,
		logger:     logger,
		intervals:  intervals,
		jobJobs:    make(map[string]gocron.Job),
	}

	if err := js.registerJobs(); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

func (js *JobScheduler) Start() {
	js.logger.Info("starting background job scheduler", zap.Int("jobs", len(js.jobJobs)))
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	js.logger.Info("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() error {
	if err := js.addJob(JobBookingCompletion, js.intervals.BookingCompletion, js.runBookingCompletion); err != nil {
		return err
	}
	return js.addJob(JobLowStockAlerts, js.intervals.LowStockAlerts, js.runLowStockAlerts)
}

func (js *JobScheduler) addJob(name string, interval time.Duration, task func() error) error {
	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithName(name),
		gocron.WithTags(interval.String()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithEventListeners(
			gocron.AfterJobRunsWithError(func(_ uuid.UUID, jobName string, err error) {
				js.logger.Error("background job failed", zap.String("job", jobName), zap.Error(err))
			}),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s job: %w", name, err)
	}

	js.mu.Lock()
	js.jobJobs[name] = job
	js.mu.Unlock()
	return nil
}

func (js *JobScheduler) runBookingCompletion() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	_, err := js.completion.CompleteElapsed(ctx)
	return err
}

func (js *JobScheduler) runLowStockAlerts() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	_, err := js.alerts.CheckLowStock(ctx)
	return err
}

// RunNow triggers a registered job outside its schedule.
func (js *JobScheduler) RunNow(name string) error {
	js.mu.RLock()
	job, ok := js.jobJobs[name]
	js.mu.RUnlock()
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	return job.RunNow()
}

// Jobs returns the registered jobs sorted by name.
func (js *JobScheduler) Jobs() []JobInfo {
	js.mu.RLock()
	defer js.mu.RUnlock()

	infos := make([]JobInfo, 0, len(js.jobJobs))
	for name, job := range js.jobJobs {
		info := JobInfo{Name: name}
		if tags := job.Tags(); len(tags) > 0 {
			info.Interval = tags[0]
		}
		if t, err := job.LastRun(); err == nil && !t.IsZero() {
			info.LastRun = &t
		}
		if t, err := job.NextRun(); err == nil && !t.IsZero() {
			info.NextRun = &t
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// gocronLogger adapts zap to the scheduler's logger interface.
type gocronLogger struct {
	l *zap.SugaredLogger
}

func (g gocronLogger) Debug(msg string, args ...any) { g.l.Debugw(msg, args...) }
func (g gocronLogger) Error(msg string, args ...any) { g.l.Errorw(msg, args...) }
func (g gocronLogger) Info(msg string, args ...any)  { g.l.Infow(msg, args...) }
func (g gocronLogger) Warn(msg string, args ...any)  { g.l.Warnw(msg, args...) }
