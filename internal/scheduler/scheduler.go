package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/bobby-s-dev/weather-planner/internal/services"
)

// Refresher is the part of the planner the scheduler drives.
type Refresher interface {
	Refresh(ctx context.Context) (services.Phase, error)
}

type Scheduler struct {
	refresher Refresher
	logger    *zap.Logger
	spec      string
	timeout   time.Duration
	cron      *cron.Cron
	entryID   cron.EntryID
	running   bool
	mu        sync.Mutex
	lastRun   time.Time
	lastPhase services.Phase
}

func NewScheduler(refresher Refresher, spec string, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		refresher: refresher,
		logger:    logger,
		spec:      spec,
		timeout:   60 * time.Second,
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
}

// Start registers the refresh job. An empty spec leaves the scheduler idle.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running || s.spec == "" {
		return nil
	}

	id, err := s.cron.AddFunc(s.spec, s.runRefresh)
	if err != nil {
		return err
	}
	s.entryID = id
	s.cron.Start()
	s.running = true

	s.logger.Info("Scheduler started",
		zap.String("spec", s.spec),
		zap.Time("next_run", s.cron.Entry(id).Next))
	return nil
}

func (s *Scheduler) runRefresh() {
	startTime := time.Now()
	s.logger.Info("Starting scheduled weather refresh", zap.Time("start_time", startTime))

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	phase, err := s.refresher.Refresh(ctx)

	s.mu.Lock()
	s.lastRun = startTime
	s.lastPhase = phase
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("Scheduled weather refresh skipped",
			zap.Error(err),
			zap.Duration("duration", time.Since(startTime)))
		return
	}
	s.logger.Info("Scheduled weather refresh completed",
		zap.String("phase", phase.String()),
		zap.Duration("duration", time.Since(startTime)))
}

// Stop waits for an in-flight refresh. The lock is released first since
// the refresh records its result under it.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	s.logger.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
}

// ForceRun triggers a refresh outside the schedule.
func (s *Scheduler) ForceRun() {
	s.logger.Info("Manually triggering weather refresh")
	go s.runRefresh()
}

func (s *Scheduler) GetStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := map[string]interface{}{
		"running":  s.running,
		"spec":     s.spec,
		"last_run": s.lastRun,
	}
	if !s.lastRun.IsZero() {
		status["last_phase"] = s.lastPhase.String()
	}
	if s.running {
		status["next_run"] = s.cron.Entry(s.entryID).Next
	}
	return status
}
