package harness

import (
	"fmt"
	"slices"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes the trace to help debug the failure.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, event := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s -> #%d %s\n", event.Step, event.Color, event.Index, event.NodeColor)
	}

	return buf.String()
}

func (h *Harness) evaluate(a Assertion, result *Result) error {
	switch a.Type {
	case AssertNodeCount:
		return assertNodeCount(result, a)
	case AssertSameNode:
		return h.assertSameNode(result, a)
	case AssertDistinctNodes:
		return h.assertDistinctNodes(result, a)
	case AssertNodeOrder:
		return assertNodeOrder(result, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertNodeCount(result *Result, a Assertion) error {
	if len(result.Nodes) == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertNodeCount,
		Expected: fmt.Sprintf("%d nodes", a.Count),
		Actual:   fmt.Sprintf("%d nodes", len(result.Nodes)),
		Trace:    result.Trace,
	}
}

// assertSameNode compares node identity, not just index.
func (h *Harness) assertSameNode(result *Result, a Assertion) error {
	first := h.nodes[a.Steps[0]]
	for _, s := range a.Steps[1:] {
		if h.nodes[s] != first {
			return &AssertionError{
				Type:     AssertSameNode,
				Expected: fmt.Sprintf("steps %v share one node", a.Steps),
				Actual: fmt.Sprintf("step %d got %s, step %d got %s",
					a.Steps[0], first, s, h.nodes[s]),
				Trace: result.Trace,
			}
		}
	}
	return nil
}

func (h *Harness) assertDistinctNodes(result *Result, a Assertion) error {
	seen := make(map[int]int, len(a.Steps))
	for _, s := range a.Steps {
		idx := h.nodes[s].Index()
		if prev, ok := seen[idx]; ok && prev != s {
			return &AssertionError{
				Type:     AssertDistinctNodes,
				Expected: fmt.Sprintf("steps %v get distinct nodes", a.Steps),
				Actual:   fmt.Sprintf("steps %d and %d both got %s", prev, s, h.nodes[s]),
				Trace:    result.Trace,
			}
		}
		seen[idx] = s
	}
	return nil
}

func assertNodeOrder(result *Result, a Assertion) error {
	actual := make([]string, len(result.Nodes))
	for i, n := range result.Nodes {
		actual[i] = n.Color
	}
	if slices.Equal(actual, a.Order) {
		return nil
	}
	return &AssertionError{
		Type:     AssertNodeOrder,
		Expected: fmt.Sprintf("[%s]", strings.Join(a.Order, ", ")),
		Actual:   fmt.Sprintf("[%s]", strings.Join(actual, ", ")),
		Trace:    result.Trace,
	}
}
