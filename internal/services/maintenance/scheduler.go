// Package maintenance runs periodic storage upkeep: Badger value-log
// garbage collection and corpus statistics logging.
package maintenance

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/examen/internal/common"
	"github.com/ternarybob/examen/internal/interfaces"
)

// gcDiscardRatio is the minimum stale fraction of a value log file before
// Badger rewrites it.
const gcDiscardRatio = 0.5

// Scheduler handles periodic storage maintenance
type Scheduler struct {
	storage interfaces.StorageManager
	config  *common.MaintenanceConfig
	cron    *cron.Cron
	logger  arbor.ILogger
}

// NewScheduler creates a new maintenance scheduler
func NewScheduler(storage interfaces.StorageManager, config *common.MaintenanceConfig, logger arbor.ILogger) *Scheduler {
	return &Scheduler{
		storage: storage,
		config:  config,
		cron:    cron.New(),
		logger:  logger,
	}
}

// Start begins the scheduled maintenance
func (s *Scheduler) Start() error {
	if !s.config.Enabled {
		s.logger.Info().Msg("Storage maintenance scheduler disabled")
		return nil
	}

	schedule := s.config.Schedule
	if schedule == "" {
		// Default: every 15 minutes
		schedule = "*/15 * * * *"
	}

	_, err := s.cron.AddFunc(schedule, func() {
		s.runMaintenance()
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info().
		Str("schedule", schedule).
		Msg("Storage maintenance scheduler started")

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info().Msg("Storage maintenance scheduler stopped")
}

// RunNow triggers an immediate maintenance run
func (s *Scheduler) RunNow() {
	s.logger.Info().Msg("Triggering immediate maintenance run")
	go s.runMaintenance()
}

func (s *Scheduler) runMaintenance() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	start := time.Now()

	// Badger GC rewrites at most one file per call; loop until it declines.
	rewrites := 0
	for {
		rewritten, err := s.storage.RunValueLogGC(gcDiscardRatio)
		if err != nil {
			s.logger.Error().Err(err).Msg("Value log GC failed")
			break
		}
		if !rewritten {
			break
		}
		rewrites++
	}

	count, err := s.storage.QuizStorage().Count(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to count quiz records")
		count = -1
	}

	s.logger.Info().
		Int("gc_rewrites", rewrites).
		Int("quiz_records", count).
		Dur("duration", time.Since(start)).
		Msg("Storage maintenance completed")
}
