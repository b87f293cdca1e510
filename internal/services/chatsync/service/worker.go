package service

import (
	"context"
	"errors"
	"time"

	"livetakip/internal/platform/logger"
	"livetakip/internal/platform/queue"
)

// interruptedMsg is the error stored on jobs a previous process left processing
const interruptedMsg = "interrupted"

// dequeue failures back off from the first step, doubling up to the cap
const (
	dequeueBackoffMin = 500 * time.Millisecond
	dequeueBackoffMax = 30 * time.Second
)

// Recover fails jobs left processing and re-submits pending ones
func (s *Svc) Recover(ctx context.Context) error {
	n, err := s.repo.FailInterrupted(ctx, interruptedMsg, s.now().UTC())
	if err != nil {
		return err
	}
	ids, err := s.repo.PendingJobIDs(ctx)
	if err != nil {
		return err
	}
	requeued := 0
	for _, id := range ids {
		if s.stillQueued(ctx, id) {
			continue
		}
		if err := s.queue.Enqueue(ctx, queue.Message{JobID: id, Trigger: "recovery"}); err != nil {
			return err
		}
		requeued++
	}
	if n > 0 || requeued > 0 {
		s.log.Info().Int64("interrupted", n).Int("requeued", requeued).Int("pending", len(ids)).Msg("job recovery done")
	}
	return nil
}

// queueStater is implemented by queues that survive a restart
type queueStater interface {
	State(ctx context.Context, jobID string) (string, error)
}

// stillQueued reports a pending job whose message is still waiting in a durable queue
func (s *Svc) stillQueued(ctx context.Context, id string) bool {
	qs, ok := s.queue.(queueStater)
	if !ok {
		return false
	}
	st, err := qs.State(ctx, id)
	if err != nil {
		s.log.Warn().Err(err).Str("job_id", id).Msg("queue state lookup failed, requeueing")
		return false
	}
	return st == queue.StateQueued
}

// Run consumes the queue one job at a time until ctx is done or the queue closes
func (s *Svc) Run(ctx context.Context) error {
	if err := s.Recover(ctx); err != nil {
		s.log.Error().Err(err).Msg("job recovery failed")
	}
	s.log.Info().Msg("sync worker started")
	var backoff time.Duration
	for {
		m, err := s.queue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, queue.ErrClosed) || ctx.Err() != nil {
				s.log.Info().Msg("sync worker stopped")
				return nil
			}
			backoff = nextBackoff(backoff)
			s.log.Warn().Err(err).Dur("retry_in", backoff).Msg("dequeue failed")
			if s.sleep(ctx, backoff) != nil {
				s.log.Info().Msg("sync worker stopped")
				return nil
			}
			continue
		}
		backoff = 0
		if _, err := s.RunJob(ctx, m.JobID); err != nil {
			logger.C(logger.WithJobID(ctx, m.JobID)).Warn().Err(err).Msg("job did not complete")
		}
	}
}

func nextBackoff(d time.Duration) time.Duration {
	if d < dequeueBackoffMin {
		return dequeueBackoffMin
	}
	if d*2 > dequeueBackoffMax {
		return dequeueBackoffMax
	}
	return d * 2
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
