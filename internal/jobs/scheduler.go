package jobs

import (
	"context"
	"log/slog"
	"time"

	portssvc "github.com/SscSPs/pos_core/internal/core/ports/services"
	"github.com/SscSPs/pos_core/internal/middleware"
	"github.com/go-co-op/gocron"
)

// Settings controls the reservation housekeeping schedule.
type Settings struct {
	SweepInterval     time.Duration
	PurgeInterval     time.Duration
	PurgeInitialDelay time.Duration
	Retention         time.Duration
	// RunTimeout bounds a single job execution. Zero means one sweep interval.
	RunTimeout time.Duration
}

// Scheduler runs the periodic reservation jobs.
type Scheduler struct {
	scheduler    *gocron.Scheduler
	reservations portssvc.ReservationSvcFacade
	settings     Settings
	logger       *slog.Logger
	now          func() time.Time
}

// NewScheduler registers the expiry sweep and the purge job. Nothing runs
// until Start is called.
func NewScheduler(reservations portssvc.ReservationSvcFacade, settings Settings, logger *slog.Logger) (*Scheduler, error) {
	if settings.RunTimeout <= 0 {
		settings.RunTimeout = settings.SweepInterval
	}
	s := &Scheduler{
		scheduler:    gocron.NewScheduler(time.UTC),
		reservations: reservations,
		settings:     settings,
		logger:       logger.With(slog.String("component", "jobs")),
		now:          time.Now,
	}
	// A slow run is skipped rather than stacked behind the previous one.
	s.scheduler.SingletonModeAll()

	if _, err := s.scheduler.Every(settings.SweepInterval).Tag("reservation-sweep").Do(s.sweep); err != nil {
		return nil, err
	}
	if _, err := s.scheduler.Every(settings.PurgeInterval).
		StartAt(s.now().Add(settings.PurgeInitialDelay)).
		Tag("reservation-purge").
		Do(s.purge); err != nil {
		return nil, err
	}
	return s, nil
}

// Start launches the scheduler in the background.
func (s *Scheduler) Start() {
	s.logger.Info("Starting background jobs",
		slog.Duration("sweep_interval", s.settings.SweepInterval),
		slog.Duration("purge_interval", s.settings.PurgeInterval),
		slog.Duration("purge_initial_delay", s.settings.PurgeInitialDelay))
	s.scheduler.StartAsync()
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.logger.Info("Background jobs stopped")
}

func (s *Scheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.settings.RunTimeout)
	defer cancel()

	logger := s.logger.With(slog.String("job", "reservation-sweep"))
	ctx = middleware.WithLogger(ctx, logger)
	expired, err := s.reservations.ExpireReservations(ctx, s.now())
	if err != nil {
		logger.Error("Reservation sweep failed", slog.String("error", err.Error()), slog.Int("expired", expired))
		return
	}
	if expired > 0 {
		logger.Info("Reservation sweep finished", slog.Int("expired", expired))
	}
}

func (s *Scheduler) purge() {
	ctx, cancel := context.WithTimeout(context.Background(), s.settings.RunTimeout)
	defer cancel()

	logger := s.logger.With(slog.String("job", "reservation-purge"))
	ctx = middleware.WithLogger(ctx, logger)
	cutoff := s.now().Add(-s.settings.Retention)
	if _, err := s.reservations.PurgeReservations(ctx, cutoff); err != nil {
		logger.Error("Reservation purge failed", slog.String("error", err.Error()), slog.Time("cutoff", cutoff))
	}
}
