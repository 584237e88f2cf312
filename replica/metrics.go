package replica

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-kit/kit/metrics/prometheus"
	"github.com/numbleroot/lwwset/crdt"
	prom "github.com/prometheus/client_golang/prometheus"
)

// Structs

// Metrics bundles the instruments shared by all
// replicas of one process. Every instrument carries
// a "replica" label.
type Metrics struct {
	Adds       metrics.Counter
	Removes    metrics.Counter
	Lookups    metrics.Counter
	Merges     metrics.Counter
	LogEntries metrics.Gauge
}

type metricsService[T comparable] struct {
	service    Service[T]
	adds       metrics.Counter
	removes    metrics.Counter
	lookups    metrics.Counter
	merges     metrics.Counter
	logEntries metrics.Gauge
}

// Functions

// NewMetrics returns discarding instruments if reg
// is nil. Otherwise the instruments are registered
// with reg, which panics if they already are.
func NewMetrics(reg prom.Registerer) *Metrics {

	if reg == nil {

		return &Metrics{
			Adds:       discard.NewCounter(),
			Removes:    discard.NewCounter(),
			Lookups:    discard.NewCounter(),
			Merges:     discard.NewCounter(),
			LogEntries: discard.NewGauge(),
		}
	}

	labels := []string{"replica"}

	adds := prom.NewCounterVec(prom.CounterOpts{
		Namespace: "lwwset",
		Subsystem: "replica",
		Name:      "adds_total",
		Help:      "Number of add operations issued",
	}, labels)

	removes := prom.NewCounterVec(prom.CounterOpts{
		Namespace: "lwwset",
		Subsystem: "replica",
		Name:      "removes_total",
		Help:      "Number of remove operations issued",
	}, labels)

	lookups := prom.NewCounterVec(prom.CounterOpts{
		Namespace: "lwwset",
		Subsystem: "replica",
		Name:      "lookups_total",
		Help:      "Number of membership lookups",
	}, labels)

	merges := prom.NewCounterVec(prom.CounterOpts{
		Namespace: "lwwset",
		Subsystem: "replica",
		Name:      "merges_total",
		Help:      "Number of peer states merged",
	}, labels)

	logEntries := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "lwwset",
		Subsystem: "replica",
		Name:      "log_entries",
		Help:      "Entries in add and remove log combined",
	}, labels)

	reg.MustRegister(adds, removes, lookups, merges, logEntries)

	return &Metrics{
		Adds:       prometheus.NewCounter(adds),
		Removes:    prometheus.NewCounter(removes),
		Lookups:    prometheus.NewCounter(lookups),
		Merges:     prometheus.NewCounter(merges),
		LogEntries: prometheus.NewGauge(logEntries),
	}
}

// NewMetricsService wraps s so that its operations
// are counted in m.
func NewMetricsService[T comparable](s Service[T], m *Metrics) Service[T] {

	return &metricsService[T]{
		service:    s,
		adds:       m.Adds.With("replica", s.ID()),
		removes:    m.Removes.With("replica", s.ID()),
		lookups:    m.Lookups.With("replica", s.ID()),
		merges:     m.Merges.With("replica", s.ID()),
		logEntries: m.LogEntries.With("replica", s.ID()),
	}
}

// observe publishes the current log size.
func (s *metricsService[T]) observe() {

	adds, removes := s.service.Len()
	s.logEntries.Set(float64(adds + removes))
}

func (s *metricsService[T]) ID() string {
	return s.service.ID()
}

func (s *metricsService[T]) Add(v T) {

	s.service.Add(v)

	s.adds.Add(1)
	s.observe()
}

func (s *metricsService[T]) Remove(v T) {

	s.service.Remove(v)

	s.removes.Add(1)
	s.observe()
}

func (s *metricsService[T]) Lookup(v T) bool {

	s.lookups.Add(1)

	return s.service.Lookup(v)
}

func (s *metricsService[T]) Merge(peer Service[T]) {

	if peer == nil {
		return
	}

	s.service.Merge(peer)

	s.merges.Add(1)
	s.observe()
}

func (s *metricsService[T]) Snapshot() mapset.Set[T] {
	return s.service.Snapshot()
}

func (s *metricsService[T]) State() crdt.State[T] {
	return s.service.State()
}

func (s *metricsService[T]) Len() (int, int) {
	return s.service.Len()
}
