package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	kit "livetakip/internal/platform/testkit"
)

func TestPrefixKey(t *testing.T) {
	c := New().Prefix("CORE_").Prefix("PG_")
	if got := c.Key("URL"); got != "CORE_PG_URL" {
		t.Fatalf("Key = %q, want CORE_PG_URL", got)
	}
}

func TestMayValues(t *testing.T) {
	c := New().Prefix("SYNC_")
	t.Setenv("SYNC_BATCH_SIZE", " 25 ")
	t.Setenv("SYNC_BACKGROUND", "true")
	t.Setenv("SYNC_WINDOW", "20m")
	t.Setenv("SYNC_CHATS", "a, ,b")
	t.Setenv("SYNC_BAD_INT", "x")

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"int", c.MayInt("BATCH_SIZE", 50), 25},
		{"int default on garbage", c.MayInt("BAD_INT", 50), 50},
		{"int default on missing", c.MayInt("NOPE", 7), 7},
		{"bool", c.MayBool("BACKGROUND", false), true},
		{"duration", c.MayDuration("WINDOW", time.Minute), 20 * time.Minute},
		{"string default", c.MayString("NOPE", "x"), "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Fatalf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	csv := c.MayCSV("CHATS", nil)
	if len(csv) != 2 || csv[0] != "a" || csv[1] != "b" {
		t.Fatalf("MayCSV = %#v", csv)
	}
}

func TestMustPanics(t *testing.T) {
	c := New().Prefix("LIVECHAT_")
	kit.MustPanic(t, func() { _ = c.MustString("API_KEY") })

	t.Setenv("LIVECHAT_MODE", "weird")
	kit.MustPanic(t, func() { _ = c.MayEnum("MODE", "memory", "memory", "redis") })
}

func TestMayEnumNormalizes(t *testing.T) {
	t.Setenv("Q_BACKEND", "REDIS")
	if got := New().Prefix("Q_").MayEnum("BACKEND", "memory", "memory", "redis"); got != "redis" {
		t.Fatalf("MayEnum = %q", got)
	}
}

func TestLoadDotenvDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, ".env")
	if err := os.WriteFile(p, []byte("DOTENV_A=fromfile\nDOTENV_B=fromfile\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DOTENV_A", "fromenv")
	t.Cleanup(func() { _ = os.Unsetenv("DOTENV_B") })

	if err := LoadDotenv(p, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotenv: %v", err)
	}
	if got := os.Getenv("DOTENV_A"); got != "fromenv" {
		t.Fatalf("DOTENV_A = %q, want fromenv", got)
	}
	if got := os.Getenv("DOTENV_B"); got != "fromfile" {
		t.Fatalf("DOTENV_B = %q, want fromfile", got)
	}
}
