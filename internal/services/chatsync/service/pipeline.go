package service

import (
	"context"

	"livetakip/internal/core/thread"
	"livetakip/internal/modkit/repokit"
	"livetakip/internal/platform/logger"
	ptime "livetakip/internal/platform/time"
	dom "livetakip/internal/services/chatsync/domain"
)

// isoMillis matches the stamp the dashboard parses
const isoMillis = "2006-01-02T15:04:05.000Z"

// Sync fetches the whole window, then writes it in batches. No job row is involved
func (s *Svc) Sync(ctx context.Context, w dom.Window) (dom.Result, error) {
	if err := s.set.Validate(); err != nil {
		return dom.Result{}, err
	}
	log := logger.C(ctx)
	log.Info().Time("start", w.Start).Time("end", w.End).Msg("sync started")

	containers, err := s.source.ListChats(ctx, w)
	if err != nil {
		return dom.Result{}, err
	}
	log.Info().Int("containers", len(containers)).Msg("sync fetched")

	var res dom.Result
	size := s.set.BatchSize
	for from := 0; from < len(containers); from += size {
		to := min(from+size, len(containers))
		if err := s.processBatch(ctx, containers[from:to], &res); err != nil {
			return res, err
		}
		log.Info().
			Int("batch_end", to).
			Int("of", len(containers)).
			Int("synced", res.Synced).
			Int("alerts", res.AlertsSent).
			Msg("sync batch done")
	}

	if s.analyzer != nil && s.set.AnalyzeLimit > 0 {
		n, err := s.analyzer.AnalyzePending(ctx, s.set.AnalyzeLimit)
		if err != nil {
			log.Warn().Err(err).Msg("analysis pass failed")
		}
		res.Analyzed = n
	}

	totals, err := s.repo.Totals(ctx)
	if err != nil {
		return res, err
	}
	now := s.now()
	res.Success = true
	res.TotalChats = totals.Chats
	res.TotalAnalyzed = totals.Analyzed
	res.Timestamp = now.UTC().Format(isoMillis)
	res.TimestampIstanbul = ptime.IstanbulStamp(now)

	log.Info().
		Int("synced", res.Synced).
		Int("new_chats", res.NewChats).
		Int("alerts_sent", res.AlertsSent).
		Int("skipped", res.Skipped).
		Msg("sync finished")
	return res, nil
}

// processBatch writes each container, raising missed chat alerts as it goes
func (s *Svc) processBatch(ctx context.Context, batch []thread.RawContainer, res *dom.Result) error {
	written := make([]thread.Thread, 0, len(batch))
	for _, c := range batch {
		if c.ID == "" {
			res.Skipped++
			continue
		}

		n := thread.Normalize(c)
		th := thread.Derive(c, n, s.now())

		isNew, err := s.write(ctx, &th, n.Messages, c.AgentName)
		if err != nil {
			return err
		}
		res.Synced++
		if isNew {
			res.NewChats++
		}
		written = append(written, th)

		if th.Missed {
			created, err := s.alertMissed(ctx, th)
			if err != nil {
				return err
			}
			if created {
				res.AlertsSent++
			}
		}
	}

	if s.sink != nil {
		if err := s.sink.Record(ctx, written); err != nil {
			logger.C(ctx).Warn().Err(err).Int("threads", len(written)).Msg("metrics sink failed")
		}
	}
	return nil
}

// write stores thread, messages and the agent in one transaction, carrying analyzed forward
func (s *Svc) write(ctx context.Context, th *thread.Thread, msgs []thread.Message, agent string) (bool, error) {
	var isNew bool
	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		r := repokit.MustBind(s.binder, q)

		exists, analyzed, err := r.ThreadState(ctx, th.ID)
		if err != nil {
			return err
		}
		isNew = !exists
		th.Analyzed = analyzed

		if err := r.UpsertThread(ctx, *th); err != nil {
			return err
		}
		if _, err := r.InsertMessages(ctx, msgs); err != nil {
			return err
		}
		return r.TouchPersonnel(ctx, agent, th.SyncedAt)
	})
	return isNew, err
}
