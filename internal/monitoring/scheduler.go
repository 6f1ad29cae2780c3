package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/isdelr/geonotes-be/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler periodically prunes the activity log on a cron schedule.
type Scheduler struct {
	eventSvc  services.EventServiceProvider
	schedule  cron.Schedule
	retention time.Duration
	nextRun   time.Time
	ticker    *time.Ticker
	done      chan bool
}

// NewScheduler creates a new scheduler for the given standard cron expression.
func NewScheduler(eventSvc services.EventServiceProvider, cronExpression string, retention time.Duration) (*Scheduler, error) {
	schedule, err := cron.ParseStandard(cronExpression)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", cronExpression, err)
	}
	return &Scheduler{
		eventSvc:  eventSvc,
		schedule:  schedule,
		retention: retention,
		nextRun:   schedule.Next(time.Now()),
		done:      make(chan bool),
	}, nil
}

// Run starts the scheduler's ticking loop.
func (s *Scheduler) Run() {
	log.Info().Time("next_run", s.nextRun).Msg("Starting event retention scheduler")
	s.ticker = time.NewTicker(1 * time.Minute)
	defer s.ticker.Stop()

	for {
		select {
		case <-s.done:
			log.Info().Msg("Stopping event retention scheduler")
			return
		case now := <-s.ticker.C:
			s.checkAndRun(now)
		}
	}
}

// Stop halts the scheduler.
func (s *Scheduler) Stop() {
	s.done <- true
}

// NextRun returns the time of the next pruning pass.
func (s *Scheduler) NextRun() time.Time {
	return s.nextRun
}

// checkAndRun prunes when the scheduled time has passed and advances the schedule.
func (s *Scheduler) checkAndRun(now time.Time) {
	if now.Before(s.nextRun) {
		return
	}
	s.nextRun = s.schedule.Next(now)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := now.Add(-s.retention)
	removed, err := s.eventSvc.PruneEvents(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Time("cutoff", cutoff).Msg("Scheduler: failed to prune events")
		return
	}
	log.Info().Int64("removed", removed).Time("cutoff", cutoff).Time("next_run", s.nextRun).Msg("Scheduler: pruned events")
}
