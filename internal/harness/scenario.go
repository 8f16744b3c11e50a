package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/prodnet/internal/plan"
)

// Scenario defines an engine scenario: a plan, edits applied to the built
// network, and expectations checked afterwards.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Catalog is the CUE catalog directory.
	// Relative paths are resolved against the scenario file location.
	Catalog string `yaml:"catalog"`

	// Plan is the inline production tree.
	Plan *plan.Plan `yaml:"plan"`

	// Steps are applied in order after the plan is built.
	Steps []Step `yaml:"steps,omitempty"`

	// Expect is checked against the final network.
	Expect []Expectation `yaml:"expect"`
}

// Step is a single edit.
type Step struct {
	// Action is one of the Action* constants.
	Action string `yaml:"action"`

	// Node is the recipe path of the node the step edits.
	// Network-wide actions ignore it.
	Node string `yaml:"node,omitempty"`

	// Value carries the capacity, desired quantity or cycle length.
	Value *float64 `yaml:"value,omitempty"`

	// Resource is the output written by set_output.
	Resource string `yaml:"resource,omitempty"`

	// Unit is the unit id for set_unit. Empty clears the unit.
	Unit string `yaml:"unit,omitempty"`

	// Modules are the module ids for set_modules.
	Modules []string `yaml:"modules,omitempty"`

	// Enabled is the toggle for set_cycle_scaling and set_capacity_scaling.
	Enabled *bool `yaml:"enabled,omitempty"`

	// Recipe is the recipe id removed by remove.
	Recipe string `yaml:"recipe,omitempty"`

	// Child is the subtree attached under Node by register.
	Child *plan.NodeSpec `yaml:"child,omitempty"`

	// ExpectError is the error code the step must fail with.
	// When empty the step must succeed.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Step actions.
const (
	ActionSetCapacity        = "set_capacity"
	ActionSetOutput          = "set_output"
	ActionSetCycleLength     = "set_cycle_length"
	ActionSetUnit            = "set_unit"
	ActionSetModules         = "set_modules"
	ActionSetCycleScaling    = "set_cycle_scaling"
	ActionSetCapacityScaling = "set_capacity_scaling"
	ActionRegister           = "register"
	ActionRemove             = "remove"
)

// Expectation checks one node of the final network.
// Only the fields that are set are compared.
type Expectation struct {
	Node       string             `yaml:"node"`
	Capacity   *float64           `yaml:"capacity,omitempty"`
	Input      map[string]float64 `yaml:"input,omitempty"`
	Output     map[string]float64 `yaml:"output,omitempty"`
	Supply     map[string]float64 `yaml:"supply,omitempty"`
	Sufficient *bool              `yaml:"sufficient,omitempty"`
	Stats      *StatsExpectation  `yaml:"stats,omitempty"`

	// Count is the expected size of the subtree rooted at Node.
	Count *int `yaml:"count,omitempty"`

	// Absent asserts that no node lives at Node.
	Absent bool `yaml:"absent,omitempty"`
}

// StatsExpectation compares rounded stats exactly.
type StatsExpectation struct {
	Speed     *float64 `yaml:"speed,omitempty"`
	Pollution *float64 `yaml:"pollution,omitempty"`
	Energy    *float64 `yaml:"energy,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
//
// A relative catalog path is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving the catalog path relative to the provided base path.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "expects:" vs "expect:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve the catalog path BEFORE validation
	if scenario.Catalog != "" && !filepath.IsAbs(scenario.Catalog) && basePath != "" {
		scenario.Catalog = filepath.Join(basePath, scenario.Catalog)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Catalog == "" {
		return fmt.Errorf("catalog is required")
	}
	if _, err := os.Stat(s.Catalog); os.IsNotExist(err) {
		return fmt.Errorf("catalog directory not found: %s", s.Catalog)
	}

	if s.Plan == nil {
		return fmt.Errorf("plan is required")
	}
	if err := s.Plan.Validate(); err != nil {
		return fmt.Errorf("plan: %w", err)
	}

	if len(s.Expect) == 0 {
		return fmt.Errorf("expect list is required and must be non-empty")
	}

	for i := range s.Steps {
		if err := validateStep(i, &s.Steps[i]); err != nil {
			return err
		}
	}

	for i, e := range s.Expect {
		if e.Node == "" {
			return fmt.Errorf("expect[%d]: node is required", i)
		}
		if e.Count != nil && *e.Count < 0 {
			return fmt.Errorf("expect[%d]: count must be non-negative", i)
		}
	}
	return nil
}

// validateStep validates a single step based on its action.
func validateStep(index int, st *Step) error {
	if st.Action == "" {
		return fmt.Errorf("steps[%d]: action is required", index)
	}

	needNode := func() error {
		if st.Node == "" {
			return fmt.Errorf("steps[%d]: node is required for %s", index, st.Action)
		}
		return nil
	}
	needValue := func() error {
		if st.Value == nil {
			return fmt.Errorf("steps[%d]: value is required for %s", index, st.Action)
		}
		return nil
	}

	switch st.Action {
	case ActionSetCapacity:
		if err := needNode(); err != nil {
			return err
		}
		return needValue()
	case ActionSetOutput:
		if err := needNode(); err != nil {
			return err
		}
		if st.Resource == "" {
			return fmt.Errorf("steps[%d]: resource is required for %s", index, st.Action)
		}
		return needValue()
	case ActionSetCycleLength:
		return needValue()
	case ActionSetUnit, ActionSetModules:
		return needNode()
	case ActionSetCycleScaling, ActionSetCapacityScaling:
		if st.Enabled == nil {
			return fmt.Errorf("steps[%d]: enabled is required for %s", index, st.Action)
		}
	case ActionRegister:
		if err := needNode(); err != nil {
			return err
		}
		if st.Child == nil || st.Child.Recipe == "" {
			return fmt.Errorf("steps[%d]: child with a recipe is required for register", index)
		}
	case ActionRemove:
		if st.Recipe == "" {
			return fmt.Errorf("steps[%d]: recipe is required for remove", index)
		}
	default:
		return fmt.Errorf("steps[%d]: unknown action %q", index, st.Action)
	}
	return nil
}
