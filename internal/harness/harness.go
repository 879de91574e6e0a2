package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/colorgraph/internal/colors"
	"github.com/roach88/colorgraph/internal/compiler"
	"github.com/roach88/colorgraph/internal/disambiguate"
	"github.com/roach88/colorgraph/internal/testutil"
)

// Harness drives one factory through a scenario.
type Harness struct {
	table    *compiler.ColorTable
	registry *colors.Registry
	factory  *disambiguate.ColorGraphNodeFactory
	nodes    []*disambiguate.ColorGraphNode // node returned per step
}

// Run executes a scenario against a fresh factory and returns the result.
//
// Anonymous objects get sequential identities, so the same scenario always
// produces the same trace. Spec errors and unresolvable step colors are
// returned as errors; failed expectations are reported in the Result. An
// invariant violation inside the factory is returned as an
// *disambiguate.InvariantError.
func Run(scenario *Scenario) (result *Result, err error) {
	registry := colors.NewRegistry()
	table, err := compiler.LoadColorTable(scenario.Specs, registry, testutil.NewSequentialIdentityGenerator("anon"))
	if err != nil {
		return nil, fmt.Errorf("failed to compile specs: %w", err)
	}

	h := &Harness{
		table:    table,
		registry: registry,
		factory: disambiguate.NewFactory(registry,
			disambiguate.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))),
	}

	requests := make([]*colors.Color, len(scenario.Steps))
	for i, step := range scenario.Steps {
		c, err := h.resolveStep(step)
		if err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
		requests[i] = c
	}

	defer func() {
		if err != nil {
			result = nil
		}
	}()
	defer disambiguate.RecoverInvariant(&err)

	result = NewResult()
	if result.TableDigest, err = table.Digest(); err != nil {
		return nil, fmt.Errorf("failed to digest color table: %w", err)
	}

	for i, step := range scenario.Steps {
		h.executeStep(i, step, requests[i], result)
	}

	for _, node := range h.factory.AllKnownTypes() {
		result.Nodes = append(result.Nodes, NodeSnapshot{
			Index: node.Index(),
			Color: node.Color().String(),
			Kind:  node.Color().Kind().String(),
		})
	}

	for _, assertion := range scenario.Assertions {
		if aerr := h.evaluate(assertion, result); aerr != nil {
			result.AddError(aerr.Error())
		}
	}

	return result, nil
}

func (h *Harness) executeStep(i int, step Step, c *colors.Color, result *Result) {
	before := h.factory.Size()
	node := h.factory.CreateNode(c)
	h.nodes = append(h.nodes, node)

	result.Trace = append(result.Trace, TraceEvent{
		Step:      i,
		Color:     c.String(),
		NodeColor: node.Color().String(),
		Index:     node.Index(),
		Created:   h.factory.Size() > before,
	})

	if step.ExpectIndex != nil && *step.ExpectIndex != node.Index() {
		result.AddError(fmt.Sprintf("steps[%d]: expected index %d, got %d (%s)",
			i, *step.ExpectIndex, node.Index(), node.Color()))
	}
}

// resolveStep maps a step to the color it requests.
func (h *Harness) resolveStep(step Step) (*colors.Color, error) {
	if len(step.Union) > 0 {
		members := make([]*colors.Color, len(step.Union))
		for i, name := range step.Union {
			c, err := h.lookup(name)
			if err != nil {
				return nil, err
			}
			members[i] = c
		}
		return colors.CreateUnion(members...), nil
	}
	if step.Color == nil {
		return nil, nil
	}
	return h.lookup(*step.Color)
}

func (h *Harness) lookup(name string) (*colors.Color, error) {
	if c, ok := h.table.Lookup(name); ok {
		return c, nil
	}
	if c, ok := h.registry.Lookup(name); ok {
		return c, nil
	}
	return nil, fmt.Errorf("unknown color %q", name)
}
