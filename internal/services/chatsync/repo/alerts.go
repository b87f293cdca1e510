package repo

import (
	"context"
	"time"

	"livetakip/internal/core/thread"
	"livetakip/internal/modkit/repokit"
	perr "livetakip/internal/platform/errors"
	"livetakip/internal/platform/store"
	dom "livetakip/internal/services/chatsync/domain"
)

const alertCols = `id, chat_id, analysis_id, alert_type, severity, message, sent_to_telegram,
	telegram_message_id, send_error, created_at, sent_at`

func scanAlert(row repokit.Row) (dom.Alert, error) {
	var a dom.Alert
	err := row.Scan(&a.ID, &a.ChatID, &a.AnalysisID, &a.AlertType, &a.Severity, &a.Message, &a.SentToTelegram,
		&a.TelegramMessageID, &a.SendError, &a.CreatedAt, &a.SentAt)
	return a, err
}

// FindAlert looks up the alert of alertType raised for a thread
func (r *queries) FindAlert(ctx context.Context, chatID thread.ThreadID, alertType string) (dom.Alert, bool, error) {
	a, err := store.One(ctx, r.q, scanAlert,
		`SELECT `+alertCols+` FROM alerts WHERE chat_id = $1 AND alert_type = $2`,
		string(chatID), alertType)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return dom.Alert{}, false, nil
		}
		return dom.Alert{}, false, perr.FromPostgresf(err, "find alert %s/%s", chatID, alertType)
	}
	return a, true, nil
}

// InsertAlert creates the alert; created is false when one already exists for the pair
func (r *queries) InsertAlert(ctx context.Context, a dom.Alert) (int64, bool, error) {
	const sql = `
		INSERT INTO alerts (chat_id, analysis_id, alert_type, severity, message, sent_to_telegram)
		VALUES ($1, $2, $3, $4, $5, FALSE)
		ON CONFLICT (chat_id, alert_type) DO NOTHING
		RETURNING id
	`
	id, err := store.Scalar[int64](ctx, r.q, sql, a.ChatID, a.AnalysisID, a.AlertType, a.Severity, a.Message)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return 0, false, nil
		}
		return 0, false, perr.FromPostgresf(err, "insert alert %s/%s", a.ChatID, a.AlertType)
	}
	return id, true, nil
}

// MarkAlertSent records a successful relay of alert id
func (r *queries) MarkAlertSent(ctx context.Context, id int64, telegramMessageID int64, at time.Time) error {
	const sql = `
		UPDATE alerts
		SET sent_to_telegram = TRUE, telegram_message_id = $2, sent_at = $3, send_error = NULL
		WHERE id = $1
	`
	return perr.FromPostgresf(store.ExecOne(ctx, r.q, sql, id, telegramMessageID, at), "mark alert %d sent", id)
}

// MarkAlertSendError keeps the last relay failure for the sweep to report
func (r *queries) MarkAlertSendError(ctx context.Context, id int64, msg string) error {
	_, err := r.q.Exec(ctx, `UPDATE alerts SET send_error = $2 WHERE id = $1 AND NOT sent_to_telegram`, id, msg)
	return perr.FromPostgresf(err, "mark alert %d failed", id)
}

// UndeliveredAlerts returns the oldest alerts not yet relayed
func (r *queries) UndeliveredAlerts(ctx context.Context, limit int) ([]dom.Alert, error) {
	out, err := store.Many(ctx, r.q, scanAlert,
		`SELECT `+alertCols+` FROM alerts WHERE NOT sent_to_telegram ORDER BY created_at LIMIT $1`, limit)
	return out, perr.FromPostgresf(err, "undelivered alerts")
}
