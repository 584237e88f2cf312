package crdt

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/satori/go.uuid"
)

// Structs

// Element is a value tagged with the timestamp
// of the operation that produced it.
type Element[T comparable] struct {
	Value     T
	Timestamp Timestamp
}

// State is a detached copy of both logs of an
// LWWSet. It is what replicas hand to each other
// when the receiving side must not touch the live
// peer set.
type State[T comparable] struct {
	Adds    []Element[T]
	Removes []Element[T]
}

// tlog maps each value to the set of timestamps
// it was logged at. Identical pairs collapse into
// one entry, distinct timestamps of one value are
// all retained.
type tlog[T comparable] map[T]map[Timestamp]struct{}

// LWWSet is a state-based last-writer-wins element
// set. It keeps an append-only log of all adds and
// one of all removes and derives membership from
// the latest timestamp in each. All exported methods
// are safe for concurrent use.
type LWWSet[T comparable] struct {
	id      string
	lock    *sync.RWMutex
	clock   Clock
	last    Timestamp
	adds    tlog[T]
	removes tlog[T]
}

// Functions

// InitLWWSet returns an empty set stamping
// operations with the system wall clock.
func InitLWWSet[T comparable]() *LWWSet[T] {
	return InitLWWSetWithClock[T](SystemClock())
}

// InitLWWSetWithClock returns an empty set
// stamping operations with supplied clock.
func InitLWWSetWithClock[T comparable](clock Clock) *LWWSet[T] {

	return &LWWSet[T]{
		id:      uuid.NewV4().String(),
		lock:    new(sync.RWMutex),
		clock:   clock,
		adds:    make(tlog[T]),
		removes: make(tlog[T]),
	}
}

// insert logs value v at timestamp t.
func (l tlog[T]) insert(v T, t Timestamp) {

	stamps, found := l[v]
	if !found {
		stamps = make(map[Timestamp]struct{})
		l[v] = stamps
	}

	stamps[t] = struct{}{}
}

// latest returns the highest timestamp v was
// logged at and whether v was logged at all.
func (l tlog[T]) latest(v T) (Timestamp, bool) {

	stamps, found := l[v]
	if !found || len(stamps) == 0 {
		return 0, false
	}

	first := true
	var newest Timestamp

	for t := range stamps {

		if first || t > newest {
			newest = t
			first = false
		}
	}

	return newest, true
}

// elements flattens l into a slice of tagged elements.
func (l tlog[T]) elements() []Element[T] {

	elems := make([]Element[T], 0, len(l))

	for v, stamps := range l {
		for t := range stamps {
			elems = append(elems, Element[T]{Value: v, Timestamp: t})
		}
	}

	return elems
}

// size counts all entries in l.
func (l tlog[T]) size() int {

	n := 0
	for _, stamps := range l {
		n += len(stamps)
	}

	return n
}

// ID returns the identity of s used to order
// lock acquisition when merging.
func (s *LWWSet[T]) ID() string {
	return s.id
}

// now reads the clock and never hands out a
// timestamp older than the previous one issued
// by s. Caller must hold the write lock.
func (s *LWWSet[T]) now() Timestamp {

	t := s.clock.Now()
	if t < s.last {
		t = s.last
	}

	s.last = t

	return t
}

// Add logs an addition of v at the current time.
func (s *LWWSet[T]) Add(v T) {

	// Write-lock the set.
	s.lock.Lock()
	defer s.lock.Unlock()

	s.adds.insert(v, s.now())
}

// Remove logs a removal of v at the current time.
// Removing a value that was never added is legal,
// the tombstone simply shadows older adds arriving
// later via merge.
func (s *LWWSet[T]) Remove(v T) {

	// Write-lock the set.
	s.lock.Lock()
	defer s.lock.Unlock()

	s.removes.insert(v, s.now())
}

// lookup implements the membership rule. Caller
// must hold at least the read lock.
func (s *LWWSet[T]) lookup(v T) bool {

	added, found := s.adds.latest(v)
	if !found {
		return false
	}

	removed, found := s.removes.latest(v)
	if !found {
		return true
	}

	// Equal timestamps resolve to absent.
	return added > removed
}

// Lookup returns true if v is currently a member
// of s, that is, its latest add is strictly later
// than its latest remove.
func (s *LWWSet[T]) Lookup(v T) bool {

	// Read-lock the set.
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.lookup(v)
}

// Merge unions the logs of other into s. Both sets
// are locked for the duration, s for writing and
// other for reading, in the order of their IDs so
// that concurrent merges in opposite directions do
// not deadlock. Merging s into itself is a no-op.
func (s *LWWSet[T]) Merge(other *LWWSet[T]) {

	if other == nil || other == s {
		return
	}

	if s.id < other.id {
		s.lock.Lock()
		other.lock.RLock()
	} else {
		other.lock.RLock()
		s.lock.Lock()
	}

	defer s.lock.Unlock()
	defer other.lock.RUnlock()

	for v, stamps := range other.adds {
		for t := range stamps {
			s.adds.insert(v, t)
		}
	}

	for v, stamps := range other.removes {
		for t := range stamps {
			s.removes.insert(v, t)
		}
	}
}

// State returns a consistent copy of both logs of s.
func (s *LWWSet[T]) State() State[T] {

	// Read-lock the set.
	s.lock.RLock()
	defer s.lock.RUnlock()

	return State[T]{
		Adds:    s.adds.elements(),
		Removes: s.removes.elements(),
	}
}

// MergeState unions an already obtained peer state
// into s. Only s is locked.
func (s *LWWSet[T]) MergeState(state State[T]) {

	// Write-lock the set.
	s.lock.Lock()
	defer s.lock.Unlock()

	for _, e := range state.Adds {
		s.adds.insert(e.Value, e.Timestamp)
	}

	for _, e := range state.Removes {
		s.removes.insert(e.Value, e.Timestamp)
	}
}

// Snapshot materializes all values currently
// present in s into a fresh set owned by the caller.
func (s *LWWSet[T]) Snapshot() mapset.Set[T] {

	// Read-lock the set.
	s.lock.RLock()
	defer s.lock.RUnlock()

	snap := mapset.NewSet[T]()

	for v := range s.adds {

		if s.lookup(v) {
			snap.Add(v)
		}
	}

	return snap
}

// Len returns the number of entries in the add
// and in the remove log. Neither ever shrinks.
func (s *LWWSet[T]) Len() (int, int) {

	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.adds.size(), s.removes.size()
}

// String dumps both logs, one entry per line,
// sorted by value and then timestamp.
func (s *LWWSet[T]) String() string {

	state := s.State()

	var b strings.Builder

	b.WriteString("addset\n")
	writeElements(&b, state.Adds)

	b.WriteString("\nremset\n")
	writeElements(&b, state.Removes)

	return b.String()
}

func writeElements[T comparable](b *strings.Builder, elems []Element[T]) {

	lines := make([]Element[string], len(elems))
	for i, e := range elems {
		lines[i] = Element[string]{Value: fmt.Sprintf("%v", e.Value), Timestamp: e.Timestamp}
	}

	slices.SortFunc(lines, func(x, y Element[string]) int {

		if c := strings.Compare(x.Value, y.Value); c != 0 {
			return c
		}

		return cmp.Compare(x.Timestamp, y.Timestamp)
	})

	for _, l := range lines {
		fmt.Fprintf(b, "%s %d\n", l.Value, l.Timestamp)
	}
}

// SortedSnapshot returns the members of s in
// ascending order.
func SortedSnapshot[T cmp.Ordered](s *LWWSet[T]) []T {

	members := s.Snapshot().ToSlice()
	slices.Sort(members)

	return members
}
