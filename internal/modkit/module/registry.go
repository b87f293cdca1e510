package module

import (
	"sort"
	"sync"
)

// process wide port registry filled by the composition root
var (
	mu  sync.RWMutex
	reg = map[string]any{}
)

// Register stores the port set of the named module
func Register(name string, ports any) {
	if name == "" || ports == nil {
		return
	}
	mu.Lock()
	reg[name] = ports
	mu.Unlock()
}

// Names lists registered modules, sorted
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(reg))
	for k := range reg {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
