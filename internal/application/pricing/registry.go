package pricing

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var ErrUnknownRule = errors.New("unknown rule")

// Registry maps rule names to constructors so the rule order can come from
// configuration.
type Registry struct {
	mu    sync.RWMutex
	ctors map[string]func() Rule
}

func NewRegistry() *Registry {
	return &Registry{ctors: make(map[string]func() Rule)}
}

func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(RuleCorporateDHL, CorporateDHL)
	r.Register(RuleCorporatePickupOrRegularDHL, CorporatePickupOrRegularDHL)
	r.Register(RuleCorporate, Corporate)
	r.Register(RulePickup, Pickup)
	return r
}

func (r *Registry) Register(name string, ctor func() Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctors[name] = ctor
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.ctors))
	for n := range r.ctors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Build creates the named rules in the given order.
func (r *Registry) Build(names []string) ([]Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rules := make([]Rule, 0, len(names))
	for _, n := range names {
		ctor, ok := r.ctors[n]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRule, n)
		}
		rules = append(rules, ctor())
	}
	return rules, nil
}
