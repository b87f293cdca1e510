package module

import (
	"sort"
	"testing"

	phttp "livetakip/internal/platform/net/http"
	kit "livetakip/internal/platform/testkit"
)

// CounterPort is a tiny interface the fake port sets implement
type CounterPort interface {
	Count() int
}

type counter struct{ n int }

func (c counter) Count() int { return c.n }

type fakeModule struct {
	name  string
	ports any
}

func (m fakeModule) Name() string             { return m.name }
func (m fakeModule) Ports() any               { return m.ports }
func (m fakeModule) MountRoutes(phttp.Router) {}

func TestPortsOf(t *testing.T) {
	type bundle struct {
		Other   int
		Counter CounterPort
	}
	type hidden struct {
		counter CounterPort
	}
	type nilField struct {
		Counter CounterPort
	}

	tests := []struct {
		name   string
		ports  any
		wantOK bool
		want   int
	}{
		{"nil ports", nil, false, 0},
		{"direct", CounterPort(counter{n: 3}), true, 3},
		{"struct field", bundle{Other: 1, Counter: counter{n: 7}}, true, 7},
		{"pointer to struct", &bundle{Counter: counter{n: 9}}, true, 9},
		{"unexported field", hidden{counter: counter{n: 1}}, false, 0},
		{"nil interface field", nilField{}, false, 0},
		{"not a struct", 42, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PortsOf[CounterPort](fakeModule{name: tt.name, ports: tt.ports})
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got.Count() != tt.want {
				t.Fatalf("Count = %d, want %d", got.Count(), tt.want)
			}
		})
	}
}

func TestMustPortsOfPanicsWhenMissing(t *testing.T) {
	kit.MustPanic(t, func() { _ = MustPortsOf[CounterPort](fakeModule{name: "empty"}) })

	got := MustPortsOf[CounterPort](fakeModule{name: "ok", ports: counter{n: 2}})
	if got.Count() != 2 {
		t.Fatalf("Count = %d", got.Count())
	}
}

func TestRegistry(t *testing.T) {
	Register("registry-test-sync", counter{n: 1})
	Register("registry-test-analysis", counter{n: 2})
	Register("", counter{n: 3})
	Register("registry-test-meta", nil)

	names := Names()
	if !sort.StringsAreSorted(names) {
		t.Fatalf("Names not sorted: %v", names)
	}
	seen := map[string]bool{}
	for _, n := range names {
		seen[n] = true
	}
	if !seen["registry-test-analysis"] || !seen["registry-test-sync"] {
		t.Fatalf("Names = %v, missing registered modules", names)
	}
	if seen[""] || seen["registry-test-meta"] {
		t.Fatalf("Names = %v, empty name or nil ports registered", names)
	}
}
