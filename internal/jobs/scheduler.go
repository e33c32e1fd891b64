// Package jobs runs the background maintenance tasks (cron).
// scheduler.go wires the schedule: periodic cleanup of stale rendered
// card files under the data directory.
package jobs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/0d00-Ciallo-0721/astrmarket/internal/config"
)

// Scheduler owns the cron instance.
type Scheduler struct {
	cron *cron.Cron
	cfg  *config.Config
}

// NewScheduler creates the scheduler in the bot timezone.
func NewScheduler(cfg *config.Config) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLocation(cfg.Location())),
		cfg:  cfg,
	}
}

// Start registers and starts the background jobs. ctx cancellation
// makes a running cleanup stop early.
func (s *Scheduler) Start(ctx context.Context) {
	spec := fmt.Sprintf("@every %dh", s.cfg.CleanupIntervalHours)
	_, err := s.cron.AddFunc(spec, func() {
		if err := s.CleanupStaleCards(ctx); err != nil {
			log.WithError(err).Error("[CRON] card cleanup failed")
		}
	})
	if err != nil {
		log.WithError(err).Error("card cleanup job not scheduled")
	}

	s.cron.Start()
	log.WithField("interval_hours", s.cfg.CleanupIntervalHours).Info("scheduler started")
}

// Stop halts the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info("scheduler stopped")
}

// CleanupStaleCards deletes rendered card files older than the
// configured age. A missing cards directory is not an error.
func (s *Scheduler) CleanupStaleCards(ctx context.Context) error {
	dir := filepath.Join(s.cfg.DataDir, "cards")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	cutoff := time.Now().Add(-time.Duration(s.cfg.CleanupMaxAgeDays) * 24 * time.Hour)
	removed := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			log.WithError(err).WithField("file", entry.Name()).Warn("stale card not removed")
			continue
		}
		removed++
	}
	if removed > 0 {
		log.WithField("removed", removed).Info("[CRON] stale cards cleaned")
	}
	return nil
}
