// Package cleanup prunes old property-view events. View rows are an
// append-only analytics log and only feed the trailing-30-day admin chart,
// so anything past the retention window can go.
package cleanup

import (
	"fmt"
	"log"
	"time"

	"github.com/22mk294/Tempo-Home/internal/database"
	"github.com/22mk294/Tempo-Home/internal/metrics"
)

// Service deletes view events older than the retention window.
type Service struct {
	store database.Store
}

func NewService(store database.Store) *Service {
	return &Service{store: store}
}

// Config holds the knobs for one cleanup run.
type Config struct {
	RetentionDays int  // days of view events to keep (default: 90)
	DryRun        bool // count only, delete nothing
}

// DefaultConfig returns the default cleanup configuration.
func DefaultConfig() Config {
	return Config{
		RetentionDays: 90,
		DryRun:        false,
	}
}

// Result describes what a cleanup run did (or would do).
type Result struct {
	TargetCount  int64     `json:"target_count"`
	DeletedCount int64     `json:"deleted_count"`
	DryRun       bool      `json:"dry_run"`
	Cutoff       time.Time `json:"cutoff"`
	ExecutedAt   time.Time `json:"executed_at"`
}

// Run deletes (or, in dry-run mode, counts) view events older than the
// retention window.
func (s *Service) Run(cfg Config) (*Result, error) {
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = 90
	}
	cutoff := time.Now().AddDate(0, 0, -cfg.RetentionDays)

	result := &Result{
		DryRun:     cfg.DryRun,
		Cutoff:     cutoff,
		ExecutedAt: time.Now(),
	}

	target, err := s.store.CountViewsBefore(cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to count expired view events: %w", err)
	}
	result.TargetCount = target

	if cfg.DryRun {
		log.Printf("Cleanup: dry run, %d view events older than %s", target, cutoff.Format("2006-01-02"))
		return result, nil
	}

	deleted, err := s.store.DeleteViewsBefore(cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to delete expired view events: %w", err)
	}
	result.DeletedCount = deleted
	metrics.ObserveCleanup(deleted)

	log.Printf("Cleanup: deleted %d view events older than %s", deleted, cutoff.Format("2006-01-02"))
	return result, nil
}
