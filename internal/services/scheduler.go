package services

import (
	"context"
	"errors"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Runner is the pipeline surface the scheduler drives.
type Runner interface {
	Run(ctx context.Context) error
}

// SchedulerService periodically refreshes predictions on a cron schedule.
// Overlap protection lives in the pipeline's run guard, so a tick that fires
// while a run is active is simply skipped.
type SchedulerService struct {
	cron     *cron.Cron
	runner   Runner
	logger   *logrus.Logger
	schedule string
	skipErr  error
}

// NewSchedulerService creates the scheduler. schedule is a standard 5-field
// cron expression. skipErr identifies the runner's already-in-progress error
// so it logs as a skip rather than a failure.
func NewSchedulerService(runner Runner, schedule string, skipErr error, logger *logrus.Logger) *SchedulerService {
	return &SchedulerService{
		cron:     cron.New(),
		runner:   runner,
		logger:   logger,
		schedule: schedule,
		skipErr:  skipErr,
	}
}

// Start registers the refresh job and begins ticking.
func (s *SchedulerService) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		err := s.runner.Run(context.Background())
		switch {
		case err == nil:
			s.logger.Info("Scheduled refresh complete")
		case s.skipErr != nil && errors.Is(err, s.skipErr):
			s.logger.Info("Scheduled refresh skipped, run already in progress")
		default:
			s.logger.WithError(err).Error("Scheduled refresh failed")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.WithField("schedule", s.schedule).Info("Refresh scheduler started")
	return nil
}

// Stop halts the ticker and waits for a running job to finish.
func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Refresh scheduler stopped")
}
