package simulation

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/numbleroot/lwwset/replica"
	"golang.org/x/sync/errgroup"
)

// Structs

// Plan describes a scenario: a number of replicas
// each running its own script concurrently, and a
// sink replica that performs its Before operations,
// waits for all scripts to finish, performs its
// After operations and finally merges every replica
// in script order.
type Plan struct {
	Sink    string
	Before  []*Op
	After   []*Op
	Scripts []*Script
}

// Expectation lists values that must, respectively
// must not, be members of the sink after a run.
type Expectation struct {
	Present []string
	Absent  []string
}

// Result carries the outcome of a run.
type Result struct {
	Sink     replica.Service[string]
	Replicas []replica.Service[string]
	Members  []string
}

// NewReplicaFunc creates the replica called name.
type NewReplicaFunc func(name string) replica.Service[string]

// Functions

// sleep pauses for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// apply performs ops against s in order.
func apply(ctx context.Context, s replica.Service[string], ops []*Op) error {

	for _, op := range ops {

		if err := ctx.Err(); err != nil {
			return err
		}

		switch op.Operation {
		case "add":
			s.Add(op.Argument)
		case "rmv":
			s.Remove(op.Argument)
		case "sleep":
			if err := sleep(ctx, op.Delay); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported operation '%s' for replica %s", op.Operation, s.ID())
		}
	}

	return nil
}

// Run executes plan. Every script runs in its own
// goroutine against its own replica obtained from
// newReplica. Run returns early with the context's
// error if ctx is done before all scripts finished.
func Run(ctx context.Context, logger log.Logger, plan *Plan, newReplica NewReplicaFunc) (*Result, error) {

	sink := newReplica(plan.Sink)

	err := apply(ctx, sink, plan.Before)
	if err != nil {
		return nil, err
	}

	replicas := make([]replica.Service[string], len(plan.Scripts))
	for i, script := range plan.Scripts {
		replicas[i] = newReplica(script.Replica)
	}

	g, gctx := errgroup.WithContext(ctx)

	for i, script := range plan.Scripts {

		s, ops := replicas[i], script.Ops

		g.Go(func() error {

			err := apply(gctx, s, ops)
			if err != nil {
				return err
			}

			level.Debug(logger).Log(
				"msg", "replica finished script",
				"replica", s.ID(),
				"ops", len(ops),
			)

			return nil
		})
	}

	// Wait for all replicas to finish.
	err = g.Wait()
	if err != nil {
		return nil, err
	}

	err = apply(ctx, sink, plan.After)
	if err != nil {
		return nil, err
	}

	// Reconcile all replicas into the sink.
	for _, r := range replicas {
		sink.Merge(r)
	}

	members := sink.Snapshot().ToSlice()
	slices.Sort(members)

	level.Info(logger).Log(
		"msg", "scenario finished",
		"sink", sink.ID(),
		"replicas", len(replicas),
		"members", strings.Join(members, ","),
	)

	return &Result{
		Sink:     sink,
		Replicas: replicas,
		Members:  members,
	}, nil
}

// Check compares the sink's membership against
// expect and reports every deviating value.
func (r *Result) Check(expect Expectation) error {

	var missing, unexpected []string

	for _, v := range expect.Present {

		if !r.Sink.Lookup(v) {
			missing = append(missing, v)
		}
	}

	for _, v := range expect.Absent {

		if r.Sink.Lookup(v) {
			unexpected = append(unexpected, v)
		}
	}

	if len(missing) == 0 && len(unexpected) == 0 {
		return nil
	}

	return fmt.Errorf("scenario outcome deviates: missing [%s], unexpected [%s]",
		strings.Join(missing, ","), strings.Join(unexpected, ","))
}
