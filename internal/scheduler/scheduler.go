package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/Kyac99/brvm-market-analysis/internal/pipeline"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the pipeline on a cron schedule.
type Scheduler struct {
	Cron     *cron.Cron
	Pipeline *pipeline.Pipeline
	Ctx      context.Context

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, p *pipeline.Pipeline) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Pipeline: p,
		Ctx:      ctx,
	}
}

// Register registers the weekly pipeline run.
func (s *Scheduler) Register(weeklyCron string) error {
	if _, err := s.Cron.AddFunc(weeklyCron, s.weeklyRun); err != nil {
		return fmt.Errorf("register weekly run: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the pipeline immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.weeklyRun()
}

func (s *Scheduler) weeklyRun() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		log.Println("[WARN] previous run still in progress, skipping")
		return
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	log.Println("[INFO] running weekly pipeline")
	if err := s.Pipeline.Run(s.Ctx); err != nil {
		log.Printf("[ERROR] weekly pipeline: %v", err)
	}
}
