package service

import (
	"context"
	"encoding/json"
	"fmt"

	perr "livetakip/internal/platform/errors"
	"livetakip/internal/platform/logger"
	"livetakip/internal/platform/queue"
	pstr "livetakip/internal/platform/strings"
	dom "livetakip/internal/services/chatsync/domain"
)

// ResolveWindow picks the window of a request: explicit dates, then days, then the default window
func (s *Svc) ResolveWindow(req dom.JobRequest) (dom.Window, error) {
	now := s.now().UTC()

	switch {
	case req.StartDate != nil:
		end := now
		if req.EndDate != nil {
			end = req.EndDate.UTC()
		}
		start := req.StartDate.UTC()
		if !start.Before(end) {
			return dom.Window{}, perr.WithField(perr.InvalidArgf("start_date must be before end_date"), "start_date")
		}
		return dom.Window{Start: start, End: end}, nil

	case req.Days != nil:
		d := *req.Days
		if d < 1 || d > s.set.MaxDays {
			return dom.Window{}, perr.WithField(perr.InvalidArgf("days must be between 1 and %d", s.set.MaxDays), "days")
		}
		return dom.Window{Start: now.AddDate(0, 0, -d), End: now}, nil

	case req.EndDate != nil:
		end := req.EndDate.UTC()
		return dom.Window{Start: end.Add(-s.set.DefaultWindow), End: end}, nil
	}
	return dom.Window{Start: now.Add(-s.set.DefaultWindow), End: now}, nil
}

// CreateJob stores a pending job and hands its id to the worker queue
func (s *Svc) CreateJob(ctx context.Context, req dom.JobRequest) (dom.Job, error) {
	w, err := s.ResolveWindow(req)
	if err != nil {
		return dom.Job{}, err
	}
	if req.Trigger == "" {
		req.Trigger = dom.TriggerHTTP
	}
	j := dom.Job{
		ID:        s.newID(),
		Status:    dom.JobPending,
		Trigger:   req.Trigger,
		StartDate: w.Start,
		EndDate:   w.End,
		Days:      req.Days,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.InsertJob(ctx, j); err != nil {
		return dom.Job{}, err
	}

	// a job that misses the queue stays pending and is picked up on the next boot
	if err := s.queue.Enqueue(ctx, queue.Message{JobID: j.ID, Trigger: j.Trigger}); err != nil {
		return j, perr.Wrapf(err, perr.ErrorCodeUnavailable, "enqueue job %s", j.ID)
	}
	logger.C(ctx).Info().Str("job_id", j.ID).Str("trigger", j.Trigger).Msg("sync job created")
	return j, nil
}

// RunJob executes one pending job and records its outcome
// The terminal write survives cancellation of ctx so a job is never left processing
func (s *Svc) RunJob(ctx context.Context, id string) (res dom.Result, err error) {
	ctx = logger.WithJobID(ctx, id)
	log := logger.C(ctx)

	j, err := s.repo.GetJob(ctx, id)
	if err != nil {
		return dom.Result{}, err
	}
	if err := s.repo.StartJob(ctx, id, s.now().UTC()); err != nil {
		return dom.Result{}, err
	}
	started := s.now()
	log.Info().Time("start", j.StartDate).Time("end", j.EndDate).Msg("sync job started")

	done := context.WithoutCancel(ctx)
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("sync job panicked")
			err = perr.PanicErrf("sync job %s: %v", id, r)
			res = dom.Result{}
		}
		if err != nil {
			if fErr := s.repo.FailJob(done, id, pstr.Truncate(err.Error(), maxErrorText), s.now().UTC()); fErr != nil {
				log.Error().Err(fErr).Msg("record job failure")
			}
			log.Error().Err(err).Dur("took", s.now().Sub(started)).Msg("sync job failed")
			return
		}
		b, mErr := json.Marshal(res)
		if mErr != nil {
			err = fmt.Errorf("encode result: %w", mErr)
			_ = s.repo.FailJob(done, id, err.Error(), s.now().UTC())
			return
		}
		if cErr := s.repo.CompleteJob(done, id, b, s.now().UTC()); cErr != nil {
			log.Error().Err(cErr).Msg("record job completion")
			err = cErr
			return
		}
		log.Info().Dur("took", s.now().Sub(started)).Int("synced", res.Synced).Msg("sync job completed")
	}()

	return s.Sync(ctx, dom.Window{Start: j.StartDate, End: j.EndDate})
}

// GetJob loads one job
func (s *Svc) GetJob(ctx context.Context, id string) (dom.Job, error) {
	return s.repo.GetJob(ctx, id)
}

// ListJobs returns recent jobs, newest first
func (s *Svc) ListJobs(ctx context.Context, limit int) ([]dom.Job, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListJobs(ctx, limit)
}
