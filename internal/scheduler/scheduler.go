package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Warmer pre-fetches data so requests are served from cache
type Warmer interface {
	Warm(ctx context.Context) error
}

// Pruner drops expired cache entries
type Pruner interface {
	Prune() int
}

// Scheduler runs the cache warm-up and cache pruning jobs
type Scheduler struct {
	cron    *cron.Cron
	ctx     context.Context
	warmer  Warmer
	pruner  Pruner
	timeout time.Duration
}

// NewScheduler creates a new Scheduler. Job runs use ctx as their parent.
func NewScheduler(ctx context.Context, warmer Warmer, pruner Pruner) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		ctx:     ctx,
		warmer:  warmer,
		pruner:  pruner,
		timeout: 2 * time.Minute,
	}
}

// RegisterAll registers the warm-up job on warmSpec (standard five-field cron
// syntax or a descriptor like "@every 5m") and hourly pruning.
// An empty warmSpec leaves the warm-up job out.
func (s *Scheduler) RegisterAll(warmSpec string) error {
	if warmSpec != "" {
		if _, err := s.cron.AddFunc(warmSpec, s.WarmNow); err != nil {
			return fmt.Errorf("register warm-up task: %w", err)
		}
	}
	if s.pruner != nil {
		if _, err := s.cron.AddFunc("@hourly", s.prune); err != nil {
			return fmt.Errorf("register prune task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Infof("scheduler started with %d jobs", len(s.cron.Entries()))
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info("scheduler stopped")
}

// WarmNow runs the warm-up job immediately
func (s *Scheduler) WarmNow() {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	start := time.Now()
	if err := s.warmer.Warm(ctx); err != nil {
		log.Errorf("cache warm-up failed: %v", err)
		return
	}
	log.Infof("cache warm-up done in %d ms", time.Since(start).Milliseconds())
}

func (s *Scheduler) prune() {
	if n := s.pruner.Prune(); n > 0 {
		log.Debugf("pruned %d expired cache entries", n)
	}
}
