package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/colorgraph/internal/ir"
)

// TraceSnapshot is the golden-file form of a scenario run. It carries
// printable colors and indices only; color ids and the table digest are
// hashes and stay out of the snapshot.
type TraceSnapshot struct {
	ScenarioName string
	Trace        []TraceEvent
	Nodes        []NodeSnapshot
}

func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	trace := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		trace[i] = map[string]any{
			"step":       event.Step,
			"color":      event.Color,
			"node_color": event.NodeColor,
			"index":      event.Index,
			"created":    event.Created,
		}
	}

	nodes := make([]any, len(s.Nodes))
	for i, node := range s.Nodes {
		nodes[i] = map[string]any{
			"index": node.Index,
			"color": node.Color,
			"kind":  node.Kind,
		}
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"trace":         trace,
		"nodes":         nodes,
	}
}

// MarshalCanonical renders the snapshot as canonical JSON.
func (s *TraceSnapshot) MarshalCanonical() ([]byte, error) {
	return ir.MarshalCanonical(s.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	return result, AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against a golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := TraceSnapshot{
		ScenarioName: scenarioName,
		Trace:        result.Trace,
		Nodes:        result.Nodes,
	}
	data, err := snapshot.MarshalCanonical()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
