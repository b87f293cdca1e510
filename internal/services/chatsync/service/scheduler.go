package service

import (
	"context"
	"sync"
	"time"

	dom "livetakip/internal/services/chatsync/domain"

	"github.com/robfig/cron/v3"
)

// tickTimeout bounds one scheduled callback; the job itself runs on the worker
const tickTimeout = 30 * time.Second

// Scheduler creates periodic sync jobs and sweeps undelivered alerts
type Scheduler struct {
	svc  *Svc
	cron *cron.Cron
	ctx  context.Context

	mu      sync.Mutex
	running bool
}

// NewScheduler registers the configured specs; an empty spec disables that entry
func NewScheduler(svc *Svc) (*Scheduler, error) {
	s := &Scheduler{svc: svc, cron: cron.New(), ctx: context.Background()}
	set := svc.Settings()

	if set.Cron != "" {
		if _, err := s.cron.AddFunc(set.Cron, func() { s.run(s.SyncTick) }); err != nil {
			return nil, err
		}
	}
	if set.RedeliverCron != "" {
		if _, err := s.cron.AddFunc(set.RedeliverCron, func() { s.run(s.RedeliverTick) }); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Scheduler) run(fn func(context.Context) error) {
	s.mu.Lock()
	parent := s.ctx
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(parent, tickTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		s.svc.log.Warn().Err(err).Msg("scheduled task failed")
	}
}

// SyncTick creates a scheduled job unless one is already pending or processing
func (s *Scheduler) SyncTick(ctx context.Context) error {
	n, err := s.svc.repo.ActiveJobs(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		s.svc.log.Info().Int("active", n).Msg("sync already running, skipping tick")
		return nil
	}
	_, err = s.svc.CreateJob(ctx, dom.JobRequest{Trigger: dom.TriggerSchedule})
	return err
}

// RedeliverTick retries undelivered alerts
func (s *Scheduler) RedeliverTick(ctx context.Context) error {
	_, err := s.svc.Redeliver(ctx, 0)
	return err
}

// Start begins firing entries; callbacks run under ctx
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.ctx = ctx
	s.running = true
	s.cron.Start()
	s.svc.log.Info().Int("entries", len(s.cron.Entries())).Msg("scheduler started")
}

// Stop halts the cron and waits for running callbacks
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	<-s.cron.Stop().Done()
	s.svc.log.Info().Msg("scheduler stopped")
}

// Entries reports how many specs are registered
func (s *Scheduler) Entries() int { return len(s.cron.Entries()) }
