/*
Package simulation runs scripted multi-replica scenarios against LWW-Element-Set
replicas. Each replica executes its script in its own goroutine without any
coordination, exactly like independent writers of a replicated set would, and a
sink replica reconciles all of them at the end.

Scripts consist of operations in textual form:

	add|<value>      add value
	rmv|<value>      remove value
	sleep|<duration> pause, e.g. sleep|500ms

Ordering between replicas is decided by the wall clock only, so scenarios should
space conflicting operations on the same value far enough apart.
*/
package simulation
