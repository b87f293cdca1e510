package module

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"livetakip/internal/modkit"
	"livetakip/internal/platform/config"
)

func TestNewSurvivesTelegramOutage(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	t.Setenv("LIVECHAT_API_URL", "https://chat.example")
	t.Setenv("LIVECHAT_API_KEY", "secret")
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_ID", "-100")
	t.Setenv("TELEGRAM_ENDPOINT", srv.URL+"/bot%s/%s")

	m, err := New(modkit.Deps{Cfg: config.New()})
	if err != nil {
		t.Fatalf("New with the Bot API down: %v", err)
	}
	defer func() { _ = m.Close() }()

	if hits.Load() != 0 {
		t.Fatalf("module construction called the Bot API %d times", hits.Load())
	}
	p, ok := m.Ports().(Ports)
	if !ok || p.Sync == nil || p.Worker == nil || p.Scheduler == nil {
		t.Fatalf("ports = %+v", m.Ports())
	}
}

func TestNewRejectsRedisQueueWithoutRedis(t *testing.T) {
	t.Setenv("SYNC_QUEUE", "redis")
	if _, err := New(modkit.Deps{Cfg: config.New()}); err == nil {
		t.Fatal("redis queue without a redis client should fail")
	}
}
