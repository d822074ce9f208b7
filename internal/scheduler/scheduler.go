// Package scheduler drives periodic evaluation passes and handles operator
// commands received over Telegram.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"KlineWatch/internal/engine"
	"KlineWatch/internal/model"
	"KlineWatch/internal/notifier"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the evaluation pass on a fixed interval. Jobs are wrapped
// with SkipIfStillRunning so a slow pass is never overlapped by the next tick.
type Scheduler struct {
	Cron   *cron.Cron
	Engine *engine.Engine
	Rules  []model.AlertRule
	Ctx    context.Context

	// passMu serializes passes triggered outside the cron chain (/check,
	// RUN_ON_START) with scheduled ones; SkipIfStillRunning only covers ticks.
	passMu sync.Mutex

	mu           sync.Mutex
	lastPassAt   time.Time
	lastPassTook time.Duration
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, eng *engine.Engine, rules []model.AlertRule) *Scheduler {
	return &Scheduler{
		Cron: cron.New(
			cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(log.Default()))),
		),
		Engine: eng,
		Rules:  rules,
		Ctx:    ctx,
	}
}

// Register schedules the evaluation pass at the given interval.
func (s *Scheduler) Register(interval time.Duration) {
	s.Cron.Schedule(cron.Every(interval), cron.FuncJob(s.checkTask))
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

// RunNow executes one pass immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.checkTask()
}

func (s *Scheduler) checkTask() {
	s.runPass()
}

func (s *Scheduler) runPass() *engine.PassReport {
	s.passMu.Lock()
	defer s.passMu.Unlock()

	log.Println("[INFO] starting evaluation pass")
	pass := s.Engine.RunPass(s.Ctx, s.Rules)

	// Emit grouped log output in original rule order, even though evaluation
	// itself ran concurrently.
	for _, rep := range pass.Reports {
		for _, line := range rep.Lines {
			log.Println(line)
		}
	}
	log.Printf("[INFO] pass %s completed in %v (%d rules, %d notifications)",
		pass.ID, pass.Duration.Round(time.Millisecond), len(pass.Reports), pass.Notifications())

	s.mu.Lock()
	s.lastPassAt = pass.StartedAt
	s.lastPassTook = pass.Duration
	s.mu.Unlock()
	return pass
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/check":
		pass := s.runPass()
		return fmt.Sprintf("✅ Pass complete: %d rules evaluated, %d notifications", len(pass.Reports), pass.Notifications())
	case "/status":
		s.mu.Lock()
		at, took := s.lastPassAt, s.lastPassTook
		s.mu.Unlock()
		return notifier.FormatStatus(s.Engine.Store.ActiveKeys(), at, took)
	case "/rules":
		return notifier.FormatRules(s.Rules)
	default:
		return "Available commands:\n• /check — run an evaluation pass now\n• /status — active episodes and last pass\n• /rules — monitored rules"
	}
}
