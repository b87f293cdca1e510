// Package repo is the Postgres persistence of chat analysis
package repo

import (
	"context"
	"encoding/json"

	"livetakip/internal/adapters/scoring"
	"livetakip/internal/modkit/repokit"
	perr "livetakip/internal/platform/errors"
	"livetakip/internal/platform/store"
	dom "livetakip/internal/services/analysis/domain"
)

// Repo reads pending threads and stores verdicts
type Repo interface {
	Pending(ctx context.Context, limit int) ([]dom.Pending, error)
	InsertAnalysis(ctx context.Context, a dom.Analysis) (int64, error)
	MarkAnalyzed(ctx context.Context, threadID string) error
	Get(ctx context.Context, threadID string) (dom.Analysis, error)
}

type queries struct{ q repokit.Queryer }

// NewPG returns the Postgres binder
func NewPG() repokit.Binder[Repo] {
	return repokit.BindFunc[Repo](func(q repokit.Queryer) Repo { return &queries{q: q} })
}

// Pending loads the oldest unanalyzed threads that have at least one customer message
func (r *queries) Pending(ctx context.Context, limit int) ([]dom.Pending, error) {
	const threadsSQL = `
		SELECT t.id, t.agent_name, t.customer_name
		FROM threads t
		WHERE NOT t.analyzed
		  AND EXISTS (SELECT 1 FROM messages m WHERE m.chat_id = t.id AND m.author_type = 'customer')
		ORDER BY t.created_at NULLS LAST
		LIMIT $1
	`
	out, err := store.Many(ctx, r.q, func(row repokit.Row) (dom.Pending, error) {
		var p dom.Pending
		err := row.Scan(&p.ThreadID, &p.AgentName, &p.CustomerName)
		return p, err
	}, threadsSQL, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "pending threads")
	}

	const linesSQL = `
		SELECT author_type, text, coalesce(created_at, 'epoch'::timestamptz)
		FROM messages
		WHERE chat_id = $1 AND NOT is_system
		ORDER BY created_at NULLS LAST, message_id
	`
	for i := range out {
		lines, err := store.Many(ctx, r.q, func(row repokit.Row) (scoring.Line, error) {
			var l scoring.Line
			err := row.Scan(&l.Author, &l.Text, &l.At)
			return l, err
		}, linesSQL, out[i].ThreadID)
		if err != nil {
			return nil, perr.FromPostgresf(err, "transcript %s", out[i].ThreadID)
		}
		out[i].Lines = lines
	}
	return out, nil
}

// InsertAnalysis stores a verdict; a re-grade replaces the previous one
func (r *queries) InsertAnalysis(ctx context.Context, a dom.Analysis) (int64, error) {
	const sql = `
		INSERT INTO chat_analysis (chat_id, overall_score, sentiment, summary, issues, model, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (chat_id) DO UPDATE SET
			overall_score = EXCLUDED.overall_score,
			sentiment     = EXCLUDED.sentiment,
			summary       = EXCLUDED.summary,
			issues        = EXCLUDED.issues,
			model         = EXCLUDED.model,
			created_at    = EXCLUDED.created_at
		RETURNING id
	`
	issues, err := json.Marshal(a.Issues)
	if err != nil {
		return 0, err
	}
	var id int64
	if err := r.q.QueryRow(ctx, sql, a.ChatID, a.OverallScore, a.Sentiment, a.Summary, issues, a.Model, a.CreatedAt).Scan(&id); err != nil {
		return 0, perr.FromPostgresf(err, "insert analysis %s", a.ChatID)
	}
	return id, nil
}

// MarkAnalyzed flips the thread flag
func (r *queries) MarkAnalyzed(ctx context.Context, threadID string) error {
	_, err := r.q.Exec(ctx, `UPDATE threads SET analyzed = TRUE WHERE id = $1`, threadID)
	return perr.FromPostgresf(err, "mark analyzed %s", threadID)
}

// Get loads the verdict of one thread
func (r *queries) Get(ctx context.Context, threadID string) (dom.Analysis, error) {
	const sql = `
		SELECT id, chat_id, overall_score, sentiment, summary, issues, model, created_at
		FROM chat_analysis WHERE chat_id = $1
	`
	a, err := store.One(ctx, r.q, func(row repokit.Row) (dom.Analysis, error) {
		var a dom.Analysis
		var issues []byte
		if err := row.Scan(&a.ID, &a.ChatID, &a.OverallScore, &a.Sentiment, &a.Summary, &issues, &a.Model, &a.CreatedAt); err != nil {
			return a, err
		}
		return a, json.Unmarshal(issues, &a.Issues)
	}, sql, threadID)
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		return dom.Analysis{}, perr.NotFoundf("no analysis for %s", threadID)
	}
	return a, perr.FromPostgresf(err, "get analysis %s", threadID)
}
