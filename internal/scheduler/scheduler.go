package scheduler

import (
	"fmt"
	"log"

	"github.com/22mk294/Tempo-Home/internal/cleanup"
	"github.com/22mk294/Tempo-Home/internal/config"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the daily view-event retention cleanup.
type Scheduler struct {
	cron      *cron.Cron
	cleanup   *cleanup.Service
	config    *config.Config
	isRunning bool
}

func NewScheduler(cleanupService *cleanup.Service, cfg *config.Config) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		cleanup: cleanupService,
		config:  cfg,
	}
}

// Start registers the daily cleanup job. It is a no-op when the daily run is
// disabled in configuration.
func (s *Scheduler) Start() error {
	if !s.config.Cleanup.DailyRunEnabled {
		log.Println("Scheduler: daily cleanup is disabled in configuration")
		return nil
	}

	cronSpec := s.parseDailyRunTime(s.config.Cleanup.DailyRunTime)

	_, err := s.cron.AddFunc(cronSpec, func() {
		log.Println("Scheduler: starting daily view cleanup...")
		if err := s.RunNow(); err != nil {
			log.Printf("Scheduler: daily cleanup failed: %v", err)
		} else {
			log.Println("Scheduler: daily cleanup completed")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("Scheduler: started with daily cleanup at %s (cron: %s)", s.config.Cleanup.DailyRunTime, cronSpec)

	return nil
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	if s.isRunning {
		s.cron.Stop()
		s.isRunning = false
		log.Println("Scheduler: stopped")
	}
}

// RunNow executes the cleanup immediately (manual trigger).
func (s *Scheduler) RunNow() error {
	_, err := s.cleanup.Run(cleanup.Config{
		RetentionDays: s.config.Cleanup.RetentionDays,
	})
	return err
}

// parseDailyRunTime converts "HH:MM" to a cron specification.
func (s *Scheduler) parseDailyRunTime(timeStr string) string {
	var hour, minute int
	n, _ := fmt.Sscanf(timeStr, "%d:%d", &hour, &minute)
	if n == 2 {
		return fmt.Sprintf("%d %d * * *", minute, hour)
	}

	log.Printf("Scheduler: failed to parse time %q, using default 03:00", timeStr)
	return "0 3 * * *"
}
