package http

import (
	"context"
	"testing"
	"time"

	"livetakip/internal/platform/config"
)

func TestServerAddrFromConfig(t *testing.T) {
	t.Setenv("API_PORT", "4321")
	if got := NewServer(config.New()).Addr(); got != ":4321" {
		t.Fatalf("Addr = %q", got)
	}
}

func TestServerRunStopsOnCancel(t *testing.T) {
	t.Setenv("API_PORT", "0")
	s := NewServer(config.New())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, time.Second) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
