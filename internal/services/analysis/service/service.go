// Package service grades synced threads through the scoring oracle
package service

import (
	"context"
	"time"

	"livetakip/internal/adapters/scoring"
	"livetakip/internal/modkit/repokit"
	"livetakip/internal/platform/logger"
	dom "livetakip/internal/services/analysis/domain"
	arepo "livetakip/internal/services/analysis/repo"
)

// Service implements AnalyzerPort
type Service struct {
	db     repokit.TxRunner
	binder repokit.Binder[arepo.Repo]
	scorer dom.Scorer
	now    func() time.Time
}

var _ dom.AnalyzerPort = (*Service)(nil)

// New builds the service; binder defaults to Postgres
func New(db repokit.TxRunner, binder repokit.Binder[arepo.Repo], scorer dom.Scorer) *Service {
	if binder == nil {
		binder = arepo.NewPG()
	}
	return &Service{db: db, binder: binder, scorer: scorer, now: time.Now}
}

// AnalyzePending grades up to limit threads; one failing thread is logged and skipped
func (s *Service) AnalyzePending(ctx context.Context, limit int) (int, error) {
	pending, err := s.binder.Bind(s.db).Pending(ctx, limit)
	if err != nil {
		return 0, err
	}
	log := logger.C(ctx)

	done := 0
	for _, p := range pending {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		v, err := s.scorer.Score(ctx, scoring.Transcript{
			ThreadID:     p.ThreadID,
			AgentName:    p.AgentName,
			CustomerName: p.CustomerName,
			Lines:        p.Lines,
		})
		if err != nil {
			log.Warn().Err(err).Str("thread_id", p.ThreadID).Msg("scoring failed")
			continue
		}
		if err := s.store(ctx, p.ThreadID, v); err != nil {
			log.Warn().Err(err).Str("thread_id", p.ThreadID).Msg("store analysis failed")
			continue
		}
		done++
	}
	if len(pending) > 0 {
		log.Info().Int("pending", len(pending)).Int("analyzed", done).Msg("analysis pass done")
	}
	return done, nil
}

// store writes the verdict and flips the flag together
func (s *Service) store(ctx context.Context, threadID string, v scoring.Verdict) error {
	return repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		r := repokit.MustBind(s.binder, q)
		if _, err := r.InsertAnalysis(ctx, dom.Analysis{
			ChatID:       threadID,
			OverallScore: v.OverallScore,
			Sentiment:    v.Sentiment,
			Summary:      v.Summary,
			Issues:       v.Issues,
			Model:        v.Model,
			CreatedAt:    s.now().UTC(),
		}); err != nil {
			return err
		}
		return r.MarkAnalyzed(ctx, threadID)
	})
}

// Get returns the stored verdict of a thread
func (s *Service) Get(ctx context.Context, threadID string) (dom.Analysis, error) {
	return s.binder.Bind(s.db).Get(ctx, threadID)
}
