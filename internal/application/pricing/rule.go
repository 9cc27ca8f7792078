package pricing

import (
	"fmt"
	"sync/atomic"

	"github.com/TemirB/patterns/internal/domain"
)

//go:generate mockgen -source internal/application/pricing/rule.go -destination=internal/application/pricing/rule_mock_test.go -package=pricing

// Rule is an eligibility test plus an effect on the order.
type Rule interface {
	Name() string
	Eligible(o *domain.Order) bool
	Apply(o *domain.Order) error
}

// applied is embedded by rules that report whether their effect has ever
// fired. Engines reuse rule instances across orders, so the flag stays set
// after the first match; Outcome.Applied is the per-call answer.
type applied struct {
	flag atomic.Bool
}

func (a *applied) Applied() bool { return a.flag.Load() }
func (a *applied) markApplied()  { a.flag.Store(true) }

// PercentRule changes the order price by a fixed percentage.
type PercentRule struct {
	applied
	name    string
	percent int64
	when    Predicate
}

func NewPercent(name string, percent int64, when Predicate) (*PercentRule, error) {
	if percent < -100 {
		return nil, fmt.Errorf("rule %s: %w: got %d", name, domain.ErrInvalidPercentage, percent)
	}
	return &PercentRule{name: name, percent: percent, when: when}, nil
}

func mustPercent(name string, percent int64, when Predicate) *PercentRule {
	r, err := NewPercent(name, percent, when)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *PercentRule) Name() string   { return r.name }
func (r *PercentRule) Percent() int64 { return r.percent }

func (r *PercentRule) Eligible(o *domain.Order) bool { return r.when(o) }

func (r *PercentRule) Apply(o *domain.Order) error {
	if err := o.ApplyPercent(r.percent); err != nil {
		return err
	}
	r.markApplied()
	return nil
}

// ManagerRule hands the order over to another manager.
type ManagerRule struct {
	applied
	name    string
	manager domain.Manager
	when    Predicate
}

func NewReassignManager(name string, manager domain.Manager, when Predicate) *ManagerRule {
	return &ManagerRule{name: name, manager: manager, when: when}
}

func (r *ManagerRule) Name() string { return r.name }

func (r *ManagerRule) Eligible(o *domain.Order) bool { return r.when(o) }

func (r *ManagerRule) Apply(o *domain.Order) error {
	o.AssignManager(r.manager)
	r.markApplied()
	return nil
}
