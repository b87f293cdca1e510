package repo

import (
	"context"
	"time"

	"livetakip/internal/core/thread"
	perr "livetakip/internal/platform/errors"
	ptime "livetakip/internal/platform/time"
	dom "livetakip/internal/services/chatsync/domain"
)

// ThreadState reports whether the thread is stored and its analyzed flag
func (r *queries) ThreadState(ctx context.Context, id thread.ThreadID) (bool, bool, error) {
	var analyzed bool
	err := r.q.QueryRow(ctx, `SELECT analyzed FROM threads WHERE id = $1`, string(id)).Scan(&analyzed)
	if err != nil {
		if perr.IsNoRows(err) {
			return false, false, nil
		}
		return false, false, perr.FromPostgresf(err, "thread state %s", id)
	}
	return true, analyzed, nil
}

// UpsertThread writes every column; on conflict analyzed is left as stored
func (r *queries) UpsertThread(ctx context.Context, t thread.Thread) error {
	const sql = `
		INSERT INTO threads (
			id, chat_id, agent_name, customer_name, created_at, ended_at, duration_seconds,
			message_count, status, analyzed, synced_at, first_response_time,
			rating_score, rating_status, rating_comment, has_rating_comment, complaint_flag, chat_data
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (id) DO UPDATE
		SET chat_id             = EXCLUDED.chat_id,
		    agent_name          = EXCLUDED.agent_name,
		    customer_name       = EXCLUDED.customer_name,
		    created_at          = EXCLUDED.created_at,
		    ended_at            = EXCLUDED.ended_at,
		    duration_seconds    = EXCLUDED.duration_seconds,
		    message_count       = EXCLUDED.message_count,
		    status              = EXCLUDED.status,
		    synced_at           = EXCLUDED.synced_at,
		    first_response_time = EXCLUDED.first_response_time,
		    rating_score        = EXCLUDED.rating_score,
		    rating_status       = EXCLUDED.rating_status,
		    rating_comment      = EXCLUDED.rating_comment,
		    has_rating_comment  = EXCLUDED.has_rating_comment,
		    complaint_flag      = EXCLUDED.complaint_flag,
		    chat_data           = EXCLUDED.chat_data
	`
	_, err := r.q.Exec(ctx, sql,
		string(t.ID), string(t.ChatID), t.AgentName, t.CustomerName, t.CreatedAt, t.EndedAt, t.DurationSeconds,
		t.MessageCount, string(t.Status), t.Analyzed, t.SyncedAt, t.FirstResponseTime,
		t.RatingScore, t.RatingStatus, t.RatingComment, t.HasRatingComment, t.ComplaintFlag, []byte(t.ChatData),
	)
	return perr.FromPostgresf(err, "upsert thread %s", t.ID)
}

// InsertMessages bulk inserts; ids already stored are skipped, never overwritten
func (r *queries) InsertMessages(ctx context.Context, msgs []thread.Message) (int64, error) {
	if len(msgs) == 0 {
		return 0, nil
	}
	ids := make([]string, len(msgs))
	chats := make([]string, len(msgs))
	authors := make([]string, len(msgs))
	types := make([]string, len(msgs))
	texts := make([]string, len(msgs))
	ats := make([]*time.Time, len(msgs))
	sys := make([]bool, len(msgs))
	for i, m := range msgs {
		ids[i] = string(m.ID)
		chats[i] = string(m.ThreadID)
		authors[i] = m.AuthorID
		types[i] = string(m.AuthorType)
		texts[i] = m.Text
		ats[i] = ptime.Ptr(m.CreatedAt)
		sys[i] = m.IsSystem
	}
	const sql = `
		INSERT INTO messages (message_id, chat_id, author_id, author_type, text, created_at, is_system)
		SELECT * FROM unnest($1::text[], $2::text[], $3::text[], $4::text[], $5::text[], $6::timestamptz[], $7::bool[])
		ON CONFLICT (message_id) DO NOTHING
	`
	tag, err := r.q.Exec(ctx, sql, ids, chats, authors, types, texts, ats, sys)
	if err != nil {
		return 0, perr.FromPostgresf(err, "insert messages for %s", msgs[0].ThreadID)
	}
	return tag.RowsAffected(), nil
}

// TouchPersonnel registers an agent name; existing rows are left alone
func (r *queries) TouchPersonnel(ctx context.Context, name string, at time.Time) error {
	if name == "" {
		return nil
	}
	_, err := r.q.Exec(ctx,
		`INSERT INTO personnel (name, updated_at) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
		name, at)
	return perr.FromPostgresf(err, "touch personnel %q", name)
}

// Totals counts stored and analyzed threads
func (r *queries) Totals(ctx context.Context) (dom.Totals, error) {
	var t dom.Totals
	err := r.q.QueryRow(ctx,
		`SELECT count(*), count(*) FILTER (WHERE analyzed) FROM threads`,
	).Scan(&t.Chats, &t.Analyzed)
	return t, perr.FromPostgresf(err, "thread totals")
}
