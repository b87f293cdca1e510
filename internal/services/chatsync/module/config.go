package module

import (
	"strings"
	"time"

	"livetakip/internal/adapters/livechat"
	"livetakip/internal/adapters/telegram"
	"livetakip/internal/platform/config"
	dom "livetakip/internal/services/chatsync/domain"
)

// FromConfig reads LIVECHAT_* and SYNC_* into Settings
func FromConfig(cfg config.Conf) dom.Settings {
	lc := cfg.Prefix("LIVECHAT_")
	sc := cfg.Prefix("SYNC_")
	return dom.Settings{
		APIBaseURL:     lc.MayString("API_URL", ""),
		APIKey:         lc.MayString("API_KEY", ""),
		BatchSize:      sc.MayInt("BATCH_SIZE", 50),
		PageSize:       lc.MayInt("PAGE_SIZE", 100),
		DefaultWindow:  sc.MayDuration("DEFAULT_WINDOW", 20*time.Minute),
		MaxDays:        sc.MayInt("MAX_DAYS", 90),
		AnalyzeLimit:   sc.MayInt("ANALYZE_LIMIT", 25),
		RedeliverLimit: sc.MayInt("REDELIVER_LIMIT", 50),
		Cron:           cronSpec(sc.MayString("CRON", "*/10 * * * *")),
		RedeliverCron:  cronSpec(sc.MayString("REDELIVER_CRON", "*/5 * * * *")),
		QueueSize:      sc.MayInt("QUEUE_SIZE", 64),
		QueueBackend:   sc.MayEnum("QUEUE", "memory", "memory", "redis"),
	}.Defaults()
}

// cronSpec maps "off" to the empty spec, which registers nothing
func cronSpec(s string) string {
	if strings.EqualFold(s, "off") {
		return ""
	}
	return s
}

// LivechatOptions derives the upstream client options from Settings and LIVECHAT_*
func LivechatOptions(cfg config.Conf, s dom.Settings) livechat.Options {
	lc := cfg.Prefix("LIVECHAT_")
	return livechat.Options{
		BaseURL:     s.APIBaseURL,
		APIKey:      s.APIKey,
		Timeout:     lc.MayDuration("TIMEOUT", 30*time.Second),
		MaxAttempts: lc.MayInt("MAX_ATTEMPTS", 3),
		RetryBase:   lc.MayDuration("RETRY_BASE", time.Second),
		PageSize:    s.PageSize,
		PageDelay:   lc.MayDuration("PAGE_DELAY", 100*time.Millisecond),
	}
}

// TelegramOptions reads TELEGRAM_*
func TelegramOptions(cfg config.Conf) telegram.Options {
	tc := cfg.Prefix("TELEGRAM_")
	return telegram.Options{
		Token:    tc.MayString("BOT_TOKEN", ""),
		ChatID:   tc.MayString("CHAT_ID", ""),
		Endpoint: tc.MayString("ENDPOINT", ""),
		Timeout:  tc.MayDuration("TIMEOUT", 10*time.Second),
	}
}
