package scheduler

import (
	"time"

	"github.com/FooTalentGroup/Equipo2-tarde-sp7-sub001/internal/repository"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"
)

// Scheduler runs the periodic session cleanup sweep. Failures are logged
// and retried on the next tick; nothing here is on the request path.
type Scheduler struct {
	scheduler *gocron.Scheduler
	store     *repository.RevokedTokenRepository
	interval  time.Duration
}

func New(store *repository.RevokedTokenRepository, intervalMinutes int) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.Local),
		store:     store,
		interval:  time.Duration(intervalMinutes) * time.Minute,
	}
}

// Start schedules the cleanup job and runs the scheduler asynchronously.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(s.interval).Do(func() {
		RunCleanup(s.store)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	log.Info().Dur("interval", s.interval).Msg("Session cleanup job scheduled")
	return nil
}

// Stop gracefully shuts down the scheduler
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// RunCleanup performs one sweep of the denylist and logs before/after
// stats. Also invoked out-of-band by the CLI.
func RunCleanup(store *repository.RevokedTokenRepository) (int64, error) {
	before, err := store.Stats()
	if err != nil {
		log.Error().Err(err).Msg("Session cleanup: failed to read stats")
		return 0, err
	}

	removed, err := store.CleanExpired()
	if err != nil {
		log.Error().Err(err).Msg("Session cleanup failed")
		return 0, err
	}

	after, err := store.Stats()
	if err != nil {
		log.Error().Err(err).Msg("Session cleanup: failed to read stats")
		return removed, err
	}

	log.Info().
		Int64("removed", removed).
		Int64("before_total", before.Total).
		Int64("after_total", after.Total).
		Int64("active", after.Active).
		Msg("Session cleanup completed")

	return removed, nil
}
