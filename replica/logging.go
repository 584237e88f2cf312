package replica

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/numbleroot/lwwset/crdt"
)

type loggingService[T comparable] struct {
	logger  log.Logger
	service Service[T]
}

// NewLoggingService wraps a provided existing
// service with the provided logger.
func NewLoggingService[T comparable](s Service[T], logger log.Logger) Service[T] {

	return &loggingService[T]{
		logger:  log.With(logger, "replica", s.ID()),
		service: s,
	}
}

func (s *loggingService[T]) ID() string {
	return s.service.ID()
}

// Add wraps this service's Add method
// with added logging capabilities.
func (s *loggingService[T]) Add(v T) {

	s.service.Add(v)

	level.Debug(s.logger).Log(
		"method", "add",
		"value", v,
	)
}

// Remove wraps this service's Remove method
// with added logging capabilities.
func (s *loggingService[T]) Remove(v T) {

	s.service.Remove(v)

	level.Debug(s.logger).Log(
		"method", "remove",
		"value", v,
	)
}

// Lookup wraps this service's Lookup method
// with added logging capabilities.
func (s *loggingService[T]) Lookup(v T) bool {

	found := s.service.Lookup(v)

	level.Debug(s.logger).Log(
		"method", "lookup",
		"value", v,
		"found", found,
	)

	return found
}

// Merge wraps this service's Merge method and
// reports the resulting log sizes, which only
// ever grow.
func (s *loggingService[T]) Merge(peer Service[T]) {

	if peer == nil {
		level.Warn(s.logger).Log("msg", "ignoring merge with nil peer")
		return
	}

	s.service.Merge(peer)

	adds, removes := s.service.Len()

	level.Info(s.logger).Log(
		"msg", "merged peer state",
		"peer", peer.ID(),
		"add_log", adds,
		"remove_log", removes,
	)
}

func (s *loggingService[T]) Snapshot() mapset.Set[T] {
	return s.service.Snapshot()
}

func (s *loggingService[T]) State() crdt.State[T] {
	return s.service.State()
}

func (s *loggingService[T]) Len() (int, int) {
	return s.service.Len()
}
