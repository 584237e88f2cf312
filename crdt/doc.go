/*
Package crdt implements the state-based last-writer-wins element set (LWW-Element-Set)
that replicas of a shared logical set converge on without coordination.

Every add and every remove is appended, together with a timestamp, to one of two logs
that are never pruned or rewritten. Membership of a value is recomputed on each query:
a value is present if its latest add is strictly later than its latest remove. Ties go
to the remove. Merging two replicas is the union of their logs and therefore commutative,
associative and idempotent.

Timestamps come from an injectable Clock. Ordering is wall-clock based only, so replicas
whose clocks drift apart resolve concurrent operations in favour of the faster clock.

CAUTION! Both logs grow without bound. There is no tombstone garbage collection.

An LWWSet synchronizes access by itself. Merge locks both involved sets, in an order
fixed by their IDs. Replicas that must not lock a live peer can exchange a State
instead and apply it with MergeState.
*/
package crdt
