package thread

import (
	"math"
	"time"

	ptime "livetakip/internal/platform/time"
)

// FirstResponseTime returns the platform figure when present, else the seconds from the first
// customer message to the first real agent reply after it. Every candidate reply is judged
// as if it were the thread's first agent message, so any short greeting is skipped
func FirstResponseTime(raw RawChatData, msgs []Message) *int {
	if v := raw.FirstResponseTimeSeconds.Int(); v != nil {
		return v
	}

	var first *Message
	for i := range msgs {
		m := &msgs[i]
		if m.AuthorType == AuthorCustomer && !m.IsSystem && !m.CreatedAt.IsZero() {
			first = m
			break
		}
	}
	if first == nil {
		return nil
	}

	for _, m := range msgs {
		if m.AuthorType != AuthorAgent || m.IsSystem || !m.CreatedAt.After(first.CreatedAt) {
			continue
		}
		if IsWelcome(m.PlatformWelcome, m.Text, true) {
			continue
		}
		secs := int(math.Round(m.CreatedAt.Sub(first.CreatedAt).Seconds()))
		return &secs
	}
	return nil
}

// IsMissed is true when the customer wrote, no real agent reply came and the thread is closed
func IsMissed(n Normalized) bool {
	return n.CustomerMessageCount > 0 && n.AgentReplyCount == 0 && n.Status == StatusArchived
}

// Derive builds the stored thread row; Analyzed is left for the writer to carry forward
func Derive(c RawContainer, n Normalized, now time.Time) Thread {
	raw := c.Properties.RawChatData

	t := Thread{
		ID:                   n.ThreadID,
		ChatID:               n.ContainerID,
		AgentName:            c.AgentName,
		CustomerName:         c.CustomerName,
		MessageCount:         n.MessageCount,
		Status:               n.Status,
		SyncedAt:             now,
		DurationSeconds:      raw.Duration.Int(),
		FirstResponseTime:    FirstResponseTime(raw, n.Messages),
		RatingScore:          raw.RatingScore.Int(),
		RatingStatus:         strPtr(raw.RatingStatus),
		RatingComment:        strPtr(raw.RatingComment),
		HasRatingComment:     raw.HasRatingComment || raw.RatingComment != "",
		ComplaintFlag:        raw.ComplaintFlag,
		ChatData:             c.Payload,
		Missed:               IsMissed(n),
		AgentReplyCount:      n.AgentReplyCount,
		CustomerMessageCount: n.CustomerMessageCount,
	}
	if at, ok := CreatedAt(c); ok {
		t.CreatedAt = &at
	}
	if at, ok := ptime.ParseStamp(raw.EndedAt); ok {
		t.EndedAt = &at
	}
	return t
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
