package service

import (
	"context"
	"fmt"
	"strings"

	"livetakip/internal/core/thread"
	"livetakip/internal/platform/logger"
	pstr "livetakip/internal/platform/strings"
	ptime "livetakip/internal/platform/time"
	dom "livetakip/internal/services/chatsync/domain"
)

// missedTemplate is the fixed alert text; fields are container, thread, date, agent, customer
const missedTemplate = "🚨 Kaçırılan Sohbet\n\n" +
	"Sohbet: %s\n" +
	"Konu: %s\n" +
	"Tarih: %s\n" +
	"Temsilci: %s\n" +
	"Müşteri: %s\n\n" +
	"Müşteri mesajı yanıtsız kaldı."

// maxErrorText caps error strings stored on alert and job rows
const maxErrorText = 1000

// MissedText renders the alert text for a thread
func MissedText(t thread.Thread) string {
	date := "-"
	if t.CreatedAt != nil {
		date = ptime.IstanbulStamp(*t.CreatedAt)
	}
	return fmt.Sprintf(missedTemplate,
		t.ChatID,
		t.ID,
		date,
		orDash(t.AgentName),
		orDash(t.CustomerName),
	)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// alertMissed creates the missed chat alert once per thread and relays it
// created reports whether a new row was inserted
func (s *Svc) alertMissed(ctx context.Context, t thread.Thread) (bool, error) {
	if _, found, err := s.repo.FindAlert(ctx, t.ID, dom.AlertMissedChat); err != nil || found {
		return false, err
	}

	a := dom.Alert{
		ChatID:    string(t.ID),
		AlertType: dom.AlertMissedChat,
		Severity:  dom.SeverityHigh,
		Message:   MissedText(t),
		CreatedAt: s.now().UTC(),
	}
	id, created, err := s.repo.InsertAlert(ctx, a)
	if err != nil || !created {
		return false, err
	}
	a.ID = id

	logger.C(ctx).Info().Str("thread_id", string(t.ID)).Int64("alert_id", id).Msg("missed chat alert created")
	s.relay(ctx, a)
	return true, nil
}

// relay sends one alert; failures are recorded on the row and never returned
func (s *Svc) relay(ctx context.Context, a dom.Alert) bool {
	if s.notifier == nil {
		return false
	}
	log := logger.C(ctx).With().Int64("alert_id", a.ID).Str("chat_id", a.ChatID).Logger()

	msgID, err := s.notifier.Send(ctx, a.Message)
	if err != nil {
		log.Warn().Err(err).Msg("alert relay failed")
		if mErr := s.repo.MarkAlertSendError(ctx, a.ID, pstr.Truncate(err.Error(), maxErrorText)); mErr != nil {
			log.Error().Err(mErr).Msg("record relay failure")
		}
		return false
	}
	if err := s.repo.MarkAlertSent(ctx, a.ID, msgID, s.now().UTC()); err != nil {
		log.Error().Err(err).Int64("telegram_message_id", msgID).Msg("mark alert sent")
		return false
	}
	return true
}

// Redeliver retries alerts that were never relayed and returns how many went out
func (s *Svc) Redeliver(ctx context.Context, limit int) (int, error) {
	if s.notifier == nil {
		return 0, nil
	}
	if limit <= 0 {
		limit = s.set.RedeliverLimit
	}
	pending, err := s.repo.UndeliveredAlerts(ctx, limit)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, a := range pending {
		if ctx.Err() != nil {
			break
		}
		if s.relay(ctx, a) {
			sent++
		}
	}
	if len(pending) > 0 {
		logger.C(ctx).Info().Int("pending", len(pending)).Int("sent", sent).Msg("alert redelivery done")
	}
	return sent, ctx.Err()
}
