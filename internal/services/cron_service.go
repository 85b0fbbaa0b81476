package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// rateLimitSweepSpec runs the limiter sweep every minute
const rateLimitSweepSpec = "@every 1m"

// CronService manages scheduled background jobs
type CronService struct {
	cron     *cron.Cron
	limiters []*RateLimitService
	logger   *logrus.Logger
}

// NewCronService creates a new CronService
func NewCronService(logger *logrus.Logger, limiters ...*RateLimitService) *CronService {
	return &CronService{
		cron:     cron.New(),
		limiters: limiters,
		logger:   logger,
	}
}

// Start starts all cron jobs
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc(rateLimitSweepSpec, s.sweepRateLimitsJob); err != nil {
		return fmt.Errorf("failed to schedule rate limit sweep: %w", err)
	}

	s.cron.Start()
	s.logger.WithField("schedule", rateLimitSweepSpec).Info("Cron service started")
	return nil
}

// Stop stops all cron jobs and waits for running ones
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron service stopped")
}

// sweepRateLimitsJob drops expired limiter windows
func (s *CronService) sweepRateLimitsJob() {
	startTime := time.Now()
	removed := 0
	for _, limiter := range s.limiters {
		removed += limiter.CleanupExpiredRateLimits()
	}
	if removed > 0 {
		s.logger.WithFields(logrus.Fields{
			"removed":  removed,
			"duration": time.Since(startTime).String(),
		}).Debug("[CRON] Swept expired rate limit windows")
	}
}

// RunRateLimitSweepNow runs the sweep immediately
func (s *CronService) RunRateLimitSweepNow() {
	s.sweepRateLimitsJob()
}
