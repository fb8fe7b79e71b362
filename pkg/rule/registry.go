package rule

import (
	"slices"
	"strings"
	"sync"
)

// Registry caches compiled rules by rule string. It is passed explicitly to
// the components that need it and is safe for concurrent use; rules handed
// out are immutable and may be shared by independently stepped patterns.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]*Rule
}

// NewRegistry returns an empty registry that compiles unknown rule strings
// with Parse.
func NewRegistry() *Registry {
	return &Registry{rules: map[string]*Rule{}}
}

func registryKey(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
}

// Get returns the compiled rule for s, building it on first use. Preset
// names such as "life" or "briansbrain" resolve to their rule strings. Build
// failures are not cached.
func (r *Registry) Get(s string) (*Rule, error) {
	key := registryKey(s)
	r.mu.RLock()
	rule, ok := r.rules[key]
	r.mu.RUnlock()
	if ok {
		return rule, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if rule, ok := r.rules[key]; ok {
		return rule, nil
	}
	src := s
	if preset, ok := presets[key]; ok {
		src = preset
	}
	rule, err := Parse(src)
	if err != nil {
		return nil, err
	}
	r.rules[key] = rule
	return rule, nil
}

// Names lists the cached rule keys in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.rules))
	for k := range r.rules {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}
