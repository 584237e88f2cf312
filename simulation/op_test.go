package simulation_test

import (
	"testing"
	"time"

	"github.com/numbleroot/lwwset/simulation"
)

// Functions

// TestParseOp executes a black-box unit test
// on implemented ParseOp() functionality.
func TestParseOp(t *testing.T) {

	// Check parsing of incorrect raw operations.
	for _, raw := range []string{"", "add", "add|", "rmv|", "remove|1", "sleep|soon", "sleep|-1s", "|1"} {

		_, err := simulation.ParseOp(raw)
		if err == nil {
			t.Fatalf("[simulation.TestParseOp] Expected error while parsing '%s' but received 'nil' error.\n", raw)
		}
	}

	// Check parsing of correct add operation.
	op, err := simulation.ParseOp("add|lww-crdt")
	if err != nil {
		t.Fatalf("[simulation.TestParseOp] Expected nil error but received: '%s'\n", err.Error())
	}

	if op.Operation != "add" || op.Argument != "lww-crdt" {
		t.Fatalf("[simulation.TestParseOp] Expected add of 'lww-crdt' but found: '%s' of '%s'\n", op.Operation, op.Argument)
	}

	// Values may contain further pipe symbols.
	op, err = simulation.ParseOp(" rmv|a|b ")
	if err != nil {
		t.Fatalf("[simulation.TestParseOp] Expected nil error but received: '%s'\n", err.Error())
	}

	if op.Operation != "rmv" || op.Argument != "a|b" {
		t.Fatalf("[simulation.TestParseOp] Expected rmv of 'a|b' but found: '%s' of '%s'\n", op.Operation, op.Argument)
	}

	// Check parsing of correct sleep operation.
	op, err = simulation.ParseOp("sleep|500ms")
	if err != nil {
		t.Fatalf("[simulation.TestParseOp] Expected nil error but received: '%s'\n", err.Error())
	}

	if op.Delay != 500*time.Millisecond {
		t.Fatalf("[simulation.TestParseOp] Expected delay of 500ms but found: '%s'\n", op.Delay)
	}
}

// TestString executes a black-box unit test
// on implemented String() functionality.
func TestString(t *testing.T) {

	for _, raw := range []string{"add|1", "rmv|good notes", "sleep|1.5s"} {

		op, err := simulation.ParseOp(raw)
		if err != nil {
			t.Fatalf("[simulation.TestString] Expected nil error but received: '%s'\n", err.Error())
		}

		if op.String() != raw {
			t.Fatalf("[simulation.TestString] Expected '%s' as marshalled representation but got: '%s'\n", raw, op.String())
		}
	}
}

func TestParseScript(t *testing.T) {

	script, err := simulation.ParseScript("a", []string{"add|1", "sleep|1ms", "rmv|1"})
	if err != nil {
		t.Fatalf("[simulation.TestParseScript] Expected nil error but received: '%s'\n", err.Error())
	}

	if script.Replica != "a" || len(script.Ops) != 3 {
		t.Fatalf("[simulation.TestParseScript] Expected 3 operations for replica 'a' but found %d for '%s'\n", len(script.Ops), script.Replica)
	}

	_, err = simulation.ParseScript("b", []string{"add|1", "del|1"})
	if err == nil || err.Error() != "replica b, operation 1: unsupported operation 'del' in 'del|1'" {
		t.Fatalf("[simulation.TestParseScript] Expected error naming replica and operation index but received: '%v'\n", err)
	}
}
