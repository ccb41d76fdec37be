// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

package rule

import (
	"fmt"
	"sort"
	"sync"
)

var (
	mu       sync.RWMutex
	registry = make(map[string]Rule)
	order    []string
)

// Register adds a rule to the global registry.
// It panics if the rule has no name, no run function, or a duplicate name.
func Register(r Rule) {
	mu.Lock()
	defer mu.Unlock()
	if r.Name == "" {
		panic("rule registered without a name")
	}
	if r.Run == nil {
		panic(fmt.Sprintf("rule %s registered without a run function", r.Name))
	}
	if _, exists := registry[r.Name]; exists {
		panic(fmt.Sprintf("rule already registered: %s", r.Name))
	}
	registry[r.Name] = r
	order = append(order, r.Name)
}

// Get returns the rule with the given name.
func Get(name string) (Rule, bool) {
	mu.RLock()
	defer mu.RUnlock()
	r, ok := registry[name]
	return r, ok
}

// All returns every registered rule in registration order.
func All() []Rule {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Rule, 0, len(order))
	for _, name := range order {
		out = append(out, registry[name])
	}
	return out
}

// ByTopic returns the registered rules of one topic in registration order.
func ByTopic(t Topic) []Rule {
	var out []Rule
	for _, r := range All() {
		if r.Topic == t {
			out = append(out, r)
		}
	}
	return out
}

// Names returns the registered rule names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select resolves names to registered rules, in the order given. An empty list
// selects every rule.
func Select(names []string) ([]Rule, error) {
	if len(names) == 0 {
		return All(), nil
	}
	out := make([]Rule, 0, len(names))
	for _, name := range names {
		r, ok := Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown rule: %q", name)
		}
		out = append(out, r)
	}
	return out, nil
}

// resetForTesting clears the registry. Only for use in tests.
func resetForTesting() {
	mu.Lock()
	defer mu.Unlock()
	registry = make(map[string]Rule)
	order = nil
}
