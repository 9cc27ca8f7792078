package observability

import "sync"

type observe struct {
	Kind   string
	Name   string
	Status int
	Dur    float64
	OK     bool
}

type Counters struct {
	Hits, Misses int
}

// Inmem keeps the last max events and per-source hit/miss counters.
type Inmem struct {
	mu     sync.Mutex
	last   []*observe
	max    int
	totals map[string]Counters
}

func NewInmem(max int) *Inmem {
	return &Inmem{
		max:    max,
		totals: make(map[string]Counters),
	}
}

func (m *Inmem) push(v *observe) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = append(m.last, v)
	if len(m.last) > m.max {
		m.last = m.last[len(m.last)-m.max:]
	}
}

func (m *Inmem) ObserveLookup(source string, ms float64, hit bool) {
	m.push(&observe{Kind: "lookup", Name: source, Dur: ms, OK: hit})

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.totals == nil {
		m.totals = make(map[string]Counters)
	}
	c := m.totals[source]
	if hit {
		c.Hits++
	} else {
		c.Misses++
	}
	m.totals[source] = c
}

func (m *Inmem) ObserveBackfill(source string, ok bool) {
	m.push(&observe{Kind: "backfill", Name: source, OK: ok})
}

func (m *Inmem) ObserveRule(rule string, applied bool) {
	m.push(&observe{Kind: "rule", Name: rule, OK: applied})
}

func (m *Inmem) ObserveHTTP(method, route string, status int, durMs float64) {
	m.push(&observe{Kind: "http", Name: method + " " + route, Status: status, Dur: durMs})
}

func (m *Inmem) ObserveKafka(processMs float64, ok bool) {
	m.push(&observe{Kind: "kafka", Dur: processMs, OK: ok})
}

// Totals returns the hit/miss counters of a source.
func (m *Inmem) Totals(source string) Counters {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totals[source]
}

// Len is the number of buffered events.
func (m *Inmem) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.last)
}
