package service

import (
	"context"
	"testing"

	dom "livetakip/internal/services/chatsync/domain"
)

func TestSchedulerEntries(t *testing.T) {
	h := newHarness(t, func(c *Config) {
		c.Settings.Cron = "*/10 * * * *"
		c.Settings.RedeliverCron = "@every 5m"
	})
	s, err := NewScheduler(h.svc)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	if s.Entries() != 2 {
		t.Fatalf("entries = %d", s.Entries())
	}
	s.Start(context.Background())
	s.Start(context.Background())
	s.Stop()
	s.Stop()

	h = newHarness(t, func(c *Config) { c.Settings.Cron = "every tuesday" })
	if _, err := NewScheduler(h.svc); err == nil {
		t.Fatalf("expected spec parse error")
	}
}

func TestSyncTickSkipsWhileActive(t *testing.T) {
	h := newHarness(t)
	s, err := NewScheduler(h.svc)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := s.SyncTick(ctx); err != nil {
		t.Fatalf("first tick: %v", err)
	}
	if err := s.SyncTick(ctx); err != nil {
		t.Fatalf("second tick: %v", err)
	}
	if len(h.repo.jobs) != 1 {
		t.Fatalf("jobs = %d, want the second tick skipped", len(h.repo.jobs))
	}
	if h.repo.jobs["job-1"].Trigger != dom.TriggerSchedule {
		t.Fatalf("trigger = %q", h.repo.jobs["job-1"].Trigger)
	}

	m, _ := h.queue.Dequeue(ctx)
	if _, err := h.svc.RunJob(ctx, m.JobID); err != nil {
		t.Fatal(err)
	}
	if err := s.SyncTick(ctx); err != nil {
		t.Fatal(err)
	}
	if len(h.repo.jobs) != 2 {
		t.Fatalf("jobs = %d after the first finished", len(h.repo.jobs))
	}
}

func TestRedeliverTick(t *testing.T) {
	h := newHarness(t)
	h.repo.alerts = []dom.Alert{{ID: 1, ChatID: "T1", AlertType: dom.AlertMissedChat, Message: "x"}}
	s, _ := NewScheduler(h.svc)

	if err := s.RedeliverTick(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !h.repo.alerts[0].SentToTelegram {
		t.Fatalf("alert not redelivered")
	}
}
