package simulation

import (
	"fmt"
	"strings"
	"time"
)

// Structs

// Op is one step of a replica script: an add or
// remove of a value, or a pause of some duration.
type Op struct {
	Operation string
	Argument  string
	Delay     time.Duration
}

// Script is the sequence of operations one
// replica performs in its own goroutine.
type Script struct {
	Replica string
	Ops     []*Op
}

// Functions

// String turns op back into its textual form,
// e.g. "add|5", "rmv|5" or "sleep|500ms".
func (op *Op) String() string {

	if op.Operation == "sleep" {
		return fmt.Sprintf("sleep|%s", op.Delay)
	}

	return fmt.Sprintf("%s|%s", op.Operation, op.Argument)
}

// ParseOp takes in the textual form of an
// operation and turns it back into an Op.
func ParseOp(raw string) (*Op, error) {

	// Split at the first pipe delimiter.
	parts := strings.SplitN(strings.TrimSpace(raw), "|", 2)

	// Every operation carries exactly one argument.
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid operation '%s': expected operation|argument", raw)
	}

	switch parts[0] {

	case "add", "rmv":

		if parts[1] == "" {
			return nil, fmt.Errorf("invalid operation '%s': missing value", raw)
		}

		return &Op{
			Operation: parts[0],
			Argument:  parts[1],
		}, nil

	case "sleep":

		delay, err := time.ParseDuration(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid operation '%s': %v", raw, err)
		}

		if delay < 0 {
			return nil, fmt.Errorf("invalid operation '%s': negative delay", raw)
		}

		return &Op{
			Operation: "sleep",
			Argument:  parts[1],
			Delay:     delay,
		}, nil
	}

	return nil, fmt.Errorf("unsupported operation '%s' in '%s'", parts[0], raw)
}

// ParseScript parses all raw operations of the
// replica called name.
func ParseScript(name string, raw []string) (*Script, error) {

	ops := make([]*Op, 0, len(raw))

	for i, r := range raw {

		op, err := ParseOp(r)
		if err != nil {
			return nil, fmt.Errorf("replica %s, operation %d: %v", name, i, err)
		}

		ops = append(ops, op)
	}

	return &Script{
		Replica: name,
		Ops:     ops,
	}, nil
}
