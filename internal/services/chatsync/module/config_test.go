package module

import (
	"testing"
	"time"

	"livetakip/internal/platform/config"
	"livetakip/internal/platform/testkit"
)

func TestFromConfigDefaults(t *testing.T) {
	t.Setenv("LIVECHAT_API_URL", "https://chat.example")
	t.Setenv("LIVECHAT_API_KEY", "secret")

	s := FromConfig(config.New())
	if s.BatchSize != 50 || s.PageSize != 100 || s.DefaultWindow != 20*time.Minute || s.MaxDays != 90 {
		t.Fatalf("settings = %+v", s)
	}
	if s.Cron != "*/10 * * * *" || s.QueueBackend != "memory" {
		t.Fatalf("cron/queue = %q %q", s.Cron, s.QueueBackend)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	o := LivechatOptions(config.New(), s)
	if o.BaseURL != "https://chat.example" || o.MaxAttempts != 3 || o.PageDelay != 100*time.Millisecond {
		t.Fatalf("livechat options = %+v", o)
	}
}

func TestFromConfigOverrides(t *testing.T) {
	t.Setenv("SYNC_BATCH_SIZE", "10")
	t.Setenv("SYNC_DEFAULT_WINDOW", "1h")
	t.Setenv("SYNC_QUEUE", "REDIS")
	t.Setenv("SYNC_CRON", "off")

	s := FromConfig(config.New())
	if s.BatchSize != 10 || s.DefaultWindow != time.Hour || s.QueueBackend != "redis" || s.Cron != "" {
		t.Fatalf("settings = %+v", s)
	}
	if s.Validate() == nil {
		t.Fatalf("missing credentials must fail validation")
	}
}

func TestFromConfigRejectsUnknownQueue(t *testing.T) {
	t.Setenv("SYNC_QUEUE", "kafka")
	testkit.MustPanic(t, func() { FromConfig(config.New()) })
}

func TestTelegramOptions(t *testing.T) {
	if TelegramOptions(config.New()).Enabled() {
		t.Fatalf("enabled without credentials")
	}
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "-1001")
	if !TelegramOptions(config.New()).Enabled() {
		t.Fatalf("not enabled with credentials")
	}
}
