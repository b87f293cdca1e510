package thread

import (
	"testing"
	"time"
)

var t0 = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

func msg(author AuthorType, text string, after time.Duration) Message {
	return Message{AuthorType: author, Text: text, CreatedAt: t0.Add(after)}
}

func TestFirstResponseTime(t *testing.T) {
	cases := []struct {
		name string
		raw  RawChatData
		msgs []Message
		want *int
	}{
		{
			name: "skips welcome",
			msgs: []Message{
				msg(AuthorCustomer, "kargom nerede", 0),
				msg(AuthorAgent, "merhaba, hoş geldiniz", 5*time.Second),
				msg(AuthorAgent, "Sipariş numaranızı paylaşır mısınız?", 40*time.Second),
			},
			want: ptr(40),
		},
		{
			name: "platform figure wins",
			raw:  RawChatData{FirstResponseTimeSeconds: Num{V: 12, Valid: true}},
			msgs: []Message{msg(AuthorCustomer, "x", 0), msg(AuthorAgent, "long answer here", 90*time.Second)},
			want: ptr(12),
		},
		{
			name: "rounds to the second",
			msgs: []Message{msg(AuthorCustomer, "x", 0), msg(AuthorAgent, "real reply", 2500*time.Millisecond)},
			want: ptr(3),
		},
		{
			name: "agent before customer is ignored",
			msgs: []Message{msg(AuthorAgent, "we are open", 0), msg(AuthorCustomer, "x", time.Second)},
			want: nil,
		},
		{
			name: "no customer",
			msgs: []Message{msg(AuthorAgent, "real reply", time.Second)},
			want: nil,
		},
		{
			// every agent greeting counts as a first message here, even a later one
			name: "later greeting still skipped",
			msgs: []Message{
				msg(AuthorCustomer, "x", 0),
				msg(AuthorAgent, "Selam", 10*time.Second),
				msg(AuthorAgent, "Selam, tekrar ben", 20*time.Second),
			},
			want: nil,
		},
		{
			name: "system messages are skipped",
			msgs: []Message{
				msg(AuthorCustomer, "x", 0),
				{AuthorType: AuthorAgent, Text: "transfer", CreatedAt: t0.Add(time.Second), IsSystem: true},
				msg(AuthorAgent, "answer", 7*time.Second),
			},
			want: ptr(7),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FirstResponseTime(tc.raw, tc.msgs)
			switch {
			case tc.want == nil && got != nil:
				t.Fatalf("want nil, got %d", *got)
			case tc.want != nil && (got == nil || *got != *tc.want):
				t.Fatalf("want %d, got %v", *tc.want, got)
			}
		})
	}
}

func TestIsMissed(t *testing.T) {
	base := Normalized{CustomerMessageCount: 1, AgentReplyCount: 0, Status: StatusArchived}
	if !IsMissed(base) {
		t.Fatal("archived unanswered thread should be missed")
	}
	active := base
	active.Status = StatusActive
	if IsMissed(active) {
		t.Fatal("active thread is not missed")
	}
	answered := base
	answered.AgentReplyCount = 1
	if IsMissed(answered) {
		t.Fatal("answered thread is not missed")
	}
	silent := base
	silent.CustomerMessageCount = 0
	if IsMissed(silent) {
		t.Fatal("thread without customer messages is not missed")
	}
}

func TestDerive_RawFields(t *testing.T) {
	c := RawContainer{
		ID:        "C1",
		CreatedAt: "2024-01-01T10:00:00Z",
		Properties: RawProperties{RawChatData: RawChatData{
			EndedAt:       "2024-01-01T10:10:00Z",
			Duration:      Num{V: 600, Valid: true},
			RatingScore:   Num{V: 5, Valid: true},
			RatingStatus:  "rated",
			RatingComment: "teşekkürler",
			ComplaintFlag: true,
		}},
	}
	th := Derive(c, Normalize(c), t0)
	if th.EndedAt == nil || !th.EndedAt.Equal(t0.Add(10*time.Minute)) {
		t.Fatalf("ended_at = %v", th.EndedAt)
	}
	if th.DurationSeconds == nil || *th.DurationSeconds != 600 {
		t.Fatalf("duration = %v", th.DurationSeconds)
	}
	if !th.HasRatingComment || !th.ComplaintFlag || *th.RatingScore != 5 || *th.RatingStatus != "rated" {
		t.Fatalf("rating fields: %+v", th)
	}
	if th.ID != "C1" || th.Status != StatusActive || !th.SyncedAt.Equal(t0) {
		t.Fatalf("identity: %+v", th)
	}
}

func ptr(v int) *int { return &v }
