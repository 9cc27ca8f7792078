package observability

// Metrics receives events from the lookup chain, the pricing engine and the
// transports around them.
type Metrics interface {
	ObserveLookup(source string, ms float64, hit bool)
	ObserveBackfill(source string, ok bool)
	ObserveRule(rule string, applied bool)
	ObserveHTTP(method, route string, status int, durMs float64)
	ObserveKafka(processMs float64, ok bool)
}

type Noop struct{}

func NewNoop() Noop { return Noop{} }

func (Noop) ObserveLookup(string, float64, bool)      {}
func (Noop) ObserveBackfill(string, bool)             {}
func (Noop) ObserveRule(string, bool)                 {}
func (Noop) ObserveHTTP(string, string, int, float64) {}
func (Noop) ObserveKafka(float64, bool)               {}
