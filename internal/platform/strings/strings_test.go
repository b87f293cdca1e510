package strings

import (
	"testing"

	kit "livetakip/internal/platform/testkit"
)

func TestMustPrefix(t *testing.T) {
	for in, want := range map[string]string{"sync": "/sync", " /meta/ ": "/meta", "/a/b/": "/a/b"} {
		if got := MustPrefix(in); got != want {
			t.Fatalf("MustPrefix(%q) = %q, want %q", in, got, want)
		}
	}
	kit.MustPanic(t, func() { MustPrefix(" / ") })
	kit.MustPanic(t, func() { MustString("  ", "name") })
}

func TestTruncate(t *testing.T) {
	if got := Truncate("müşteri", 3); got != "müş…" {
		t.Fatalf("Truncate = %q", got)
	}
	if got := Truncate("kısa", 10); got != "kısa" {
		t.Fatalf("Truncate = %q", got)
	}
}
