package time

import (
	"testing"
	"time"
)

func TestUpstreamStampShiftsThreeHours(t *testing.T) {
	in := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	if got := UpstreamStamp(in); got != "2024-01-01T13:00:00.000Z" {
		t.Fatalf("UpstreamStamp = %q", got)
	}
	// the input zone must not matter
	if got := UpstreamStamp(in.In(time.FixedZone("x", -5*3600))); got != "2024-01-01T13:00:00.000Z" {
		t.Fatalf("UpstreamStamp from other zone = %q", got)
	}
}

func TestIstanbulStamp(t *testing.T) {
	in := time.Date(2024, 1, 1, 22, 30, 0, 0, time.UTC)
	if got := IstanbulStamp(in); got != "02.01.2024 01:30:00" {
		t.Fatalf("IstanbulStamp = %q", got)
	}
}

func TestParseStamp(t *testing.T) {
	want := time.Date(2024, 1, 1, 10, 0, 30, 0, time.UTC)
	for _, s := range []string{
		"2024-01-01T10:00:30Z",
		"2024-01-01T13:00:30+03:00",
		"2024-01-01T10:00:30",
		"2024-01-01 10:00:30",
		"2024-01-01T10:00:30.000000Z",
	} {
		got, ok := ParseStamp(s)
		if !ok || !got.Equal(want) {
			t.Fatalf("ParseStamp(%q) = %v, %v", s, got, ok)
		}
	}
	if _, ok := ParseStamp("yesterday"); ok {
		t.Fatalf("garbage accepted")
	}
	if _, ok := ParseStamp(" "); ok {
		t.Fatalf("blank accepted")
	}
}

func TestPtr(t *testing.T) {
	if Ptr(time.Time{}) != nil {
		t.Fatalf("zero time should be nil")
	}
	now := time.Now()
	if p := Ptr(now); p == nil || !p.Equal(now) {
		t.Fatalf("Ptr lost value")
	}
}
