package replica

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/numbleroot/lwwset/crdt"
	"github.com/satori/go.uuid"
)

// Structs

type service[T comparable] struct {
	name string
	set  *crdt.LWWSet[T]
}

// Interfaces

// Service defines the interface one replica of
// a replicated LWW-Element-Set provides.
type Service[T comparable] interface {

	// ID names the replica.
	ID() string

	// Add logs an addition of v at the current time.
	Add(v T)

	// Remove logs a removal of v at the current time.
	Remove(v T)

	// Lookup reports whether v is currently a member.
	Lookup(v T) bool

	// Merge pulls the state of peer and unions it into
	// this replica. Only one replica is locked at a time.
	Merge(peer Service[T])

	// Snapshot returns all current members.
	Snapshot() mapset.Set[T]

	// State exports a consistent copy of both logs.
	State() crdt.State[T]

	// Len returns the sizes of add and remove log.
	Len() (int, int)
}

// Functions

// NewService returns a replica backed by a fresh
// LWW-Element-Set stamping operations with clock.
// An empty name is replaced by a random UUID, a nil
// clock by the system wall clock.
func NewService[T comparable](name string, clock crdt.Clock) Service[T] {

	if name == "" {
		name = uuid.NewV4().String()
	}

	if clock == nil {
		clock = crdt.SystemClock()
	}

	return &service[T]{
		name: name,
		set:  crdt.InitLWWSetWithClock[T](clock),
	}
}

func (s *service[T]) ID() string {
	return s.name
}

func (s *service[T]) Add(v T) {
	s.set.Add(v)
}

func (s *service[T]) Remove(v T) {
	s.set.Remove(v)
}

func (s *service[T]) Lookup(v T) bool {
	return s.set.Lookup(v)
}

// Merge takes the state of peer under peer's own
// lock first and applies it afterwards, so peer may
// be mutated concurrently without tearing the read.
func (s *service[T]) Merge(peer Service[T]) {

	if peer == nil {
		return
	}

	s.set.MergeState(peer.State())
}

func (s *service[T]) Snapshot() mapset.Set[T] {
	return s.set.Snapshot()
}

func (s *service[T]) State() crdt.State[T] {
	return s.set.State()
}

func (s *service[T]) Len() (int, int) {
	return s.set.Len()
}
