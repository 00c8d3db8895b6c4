package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/weblease/weblease-backend/internal/service"
)

// Scheduler runs the expiration sweep and expiry reminders on cron schedules
type Scheduler struct {
	cron     *cron.Cron
	sweep    *service.SweepService
	reminder *service.ReminderService
}

// NewScheduler creates a scheduler for the given services. sweepSpec and
// reminderSpec are standard cron expressions evaluated in UTC.
func NewScheduler(sweep *service.SweepService, reminder *service.ReminderService, sweepSpec, reminderSpec string) (*Scheduler, error) {
	c := cron.New(cron.WithLocation(time.UTC))

	s := &Scheduler{
		cron:     c,
		sweep:    sweep,
		reminder: reminder,
	}

	if _, err := c.AddFunc(sweepSpec, s.runSweep); err != nil {
		return nil, err
	}
	if _, err := c.AddFunc(reminderSpec, s.runReminders); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Scheduler) runSweep() {
	transitioned, err := s.sweep.Sweep()
	if err != nil {
		log.Error().Err(err).Msg("scheduled sweep failed")
		return
	}
	log.Info().Int("transitioned", transitioned).Msg("scheduled sweep completed")
}

func (s *Scheduler) runReminders() {
	if s.reminder == nil {
		return
	}
	sent, err := s.reminder.SendExpiryReminders()
	if err != nil {
		log.Error().Err(err).Msg("scheduled reminders failed")
		return
	}
	log.Info().Int("sent", sent).Msg("expiry reminders sent")
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop stops the scheduler and waits for any running job to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info().Msg("scheduler stopped")
}
