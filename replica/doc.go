// Package replica wraps an LWW-Element-Set into a
// Service and provides logging and metrics
// middleware for it.
package replica
