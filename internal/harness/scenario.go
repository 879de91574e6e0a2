package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a canonicalization scenario: a color table, a sequence
// of CreateNode requests against one fresh factory, and assertions over
// the nodes handed out.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Specs lists CUE files holding the color table.
	// Paths are relative to the scenario file location when loaded with
	// LoadScenarioWithBasePath.
	Specs []string `yaml:"specs"`

	// Steps are CreateNode requests, in order.
	Steps []Step `yaml:"steps"`

	// Assertions are evaluated after all steps ran.
	// Supported types: node_count, same_node, distinct_nodes, node_order
	Assertions []Assertion `yaml:"assertions"`
}

// Step requests the node for one color.
//
// Color names a table entry or a native color id (entries shadow natives).
// A missing or null color requests the node for an absent color. Union
// builds an ad hoc union of the named colors instead.
type Step struct {
	Color *string  `yaml:"color"`
	Union []string `yaml:"union,omitempty"`

	// ExpectIndex, if set, is the index the returned node must have.
	ExpectIndex *int `yaml:"expect_index,omitempty"`
}

// Assertion validates the nodes produced by a scenario.
type Assertion struct {
	// Type specifies the assertion type:
	// - "node_count": the factory knows exactly Count nodes
	// - "same_node": all Steps returned the same node
	// - "distinct_nodes": Steps returned pairwise different nodes
	// - "node_order": the known nodes, by index, print as Order
	Type string `yaml:"type"`

	// Count is the expected node count (node_count).
	Count int `yaml:"count,omitempty"`

	// Steps are zero-based step indices (same_node, distinct_nodes).
	Steps []int `yaml:"steps,omitempty"`

	// Order is the expected color of every known node (node_order).
	Order []string `yaml:"order,omitempty"`
}

// Assertion type constants.
const (
	AssertNodeCount     = "node_count"
	AssertSameNode      = "same_node"
	AssertDistinctNodes = "distinct_nodes"
	AssertNodeOrder     = "node_order"
)

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, "")
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving relative spec paths against basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	for i, specPath := range scenario.Specs {
		if !filepath.IsAbs(specPath) && basePath != "" {
			scenario.Specs[i] = filepath.Join(basePath, specPath)
		}
	}

	if err := validateSpecPaths(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return scenario, nil
}

// ParseScenario parses scenario YAML without touching the filesystem.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Specs) == 0 {
		return fmt.Errorf("specs list is required and must be non-empty")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if step.Color != nil && len(step.Union) > 0 {
			return fmt.Errorf("steps[%d]: color and union are mutually exclusive", i)
		}
		if step.ExpectIndex != nil && *step.ExpectIndex < 0 {
			return fmt.Errorf("steps[%d]: expect_index must be non-negative", i)
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i], len(s.Steps)); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a *Assertion, numSteps int) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertNodeCount:
		if a.Count < 1 {
			return fmt.Errorf("assertions[%d]: count must be positive for node_count", index)
		}
	case AssertSameNode, AssertDistinctNodes:
		if len(a.Steps) < 2 {
			return fmt.Errorf("assertions[%d]: %s needs at least two steps", index, a.Type)
		}
		seen := make(map[int]bool, len(a.Steps))
		for _, s := range a.Steps {
			if s < 0 || s >= numSteps {
				return fmt.Errorf("assertions[%d]: step %d out of range [0, %d)", index, s, numSteps)
			}
			if seen[s] {
				return fmt.Errorf("assertions[%d]: step %d listed twice", index, s)
			}
			seen[s] = true
		}
	case AssertNodeOrder:
		if len(a.Order) == 0 {
			return fmt.Errorf("assertions[%d]: order list is required for node_order", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

func validateSpecPaths(s *Scenario) error {
	for _, specPath := range s.Specs {
		if _, err := os.Stat(specPath); os.IsNotExist(err) {
			return fmt.Errorf("spec file not found: %s", specPath)
		}
	}
	return nil
}
