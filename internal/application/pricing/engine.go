package pricing

import (
	"fmt"

	"github.com/TemirB/patterns/internal/domain"
	"github.com/TemirB/patterns/internal/observability"
	"github.com/TemirB/patterns/internal/pkg/ordered"
	"go.uber.org/zap"
)

type Outcome struct {
	Rule     string
	Applied  bool
	OldPrice int64
	NewPrice int64
}

// ApplyRules runs rules front to back. The first eligible rule fires and the
// rest are skipped; with no eligible rule the order is left as is.
func ApplyRules(o *domain.Order, rules []Rule) (Outcome, error) {
	out := Outcome{OldPrice: o.Price(), NewPrice: o.Price()}
	for _, r := range rules {
		if !r.Eligible(o) {
			continue
		}
		if err := r.Apply(o); err != nil {
			return out, fmt.Errorf("rule %s: %w", r.Name(), err)
		}
		out.Rule = r.Name()
		out.Applied = true
		out.NewPrice = o.Price()
		return out, nil
	}
	return out, nil
}

type Engine struct {
	rules   *ordered.List[Rule]
	logger  *zap.Logger
	metrics observability.Metrics
}

func NewEngine(logger *zap.Logger, metrics observability.Metrics, rules ...Rule) (*Engine, error) {
	list, err := ordered.New(rules...)
	if err != nil {
		return nil, err
	}
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	return &Engine{
		rules:   list,
		logger:  logger,
		metrics: metrics,
	}, nil
}

func (e *Engine) Apply(o *domain.Order) (Outcome, error) {
	out, err := ApplyRules(o, e.rules.Snapshot())
	if err != nil {
		e.logger.Error("Rule failed",
			zap.Int64("order_id", o.ID()),
			zap.Int64("price", o.Price()),
			zap.Error(err),
		)
		return out, err
	}

	e.metrics.ObserveRule(out.Rule, out.Applied)
	if !out.Applied {
		e.logger.Debug("No rule matched", zap.Int64("order_id", o.ID()))
		return out, nil
	}
	e.logger.Info("Order repriced",
		zap.Int64("order_id", o.ID()),
		zap.String("rule", out.Rule),
		zap.Int64("old_price", out.OldPrice),
		zap.Int64("new_price", out.NewPrice),
	)
	return out, nil
}

func (e *Engine) Rules() []Rule                   { return e.rules.Snapshot() }
func (e *Engine) RuleNames() []string             { return e.rules.Names() }
func (e *Engine) Append(r Rule) error             { return e.rules.Append(r) }
func (e *Engine) Insert(pos int, r Rule) error    { return e.rules.Insert(pos, r) }
func (e *Engine) Remove(name string) bool         { return e.rules.Remove(name) }
func (e *Engine) Move(name string, pos int) error { return e.rules.Move(name, pos) }
