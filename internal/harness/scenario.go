package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/depwhy/internal/ir"
)

// Scenario is a sequence of upgrade questions with expectations.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Facts optionally points at a directory of fact files used instead of
	// the built-in tables. Resolved relative to the scenario file.
	Facts string `yaml:"facts,omitempty"`

	// Steps are asked in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the recorded history after all steps.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one question and what its report must look like.
type Step struct {
	Query  QueryStep     `yaml:"query"`
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// QueryStep mirrors ir.Query with short YAML keys.
type QueryStep struct {
	Package   string `yaml:"package"`
	From      string `yaml:"from"`
	To        string `yaml:"to"`
	Ecosystem string `yaml:"ecosystem,omitempty"`
	Context   string `yaml:"context,omitempty"`
}

// Query converts the step to an assembler query.
func (q QueryStep) Query() ir.Query {
	return ir.Query{
		Ecosystem:   ir.Ecosystem(q.Ecosystem),
		Package:     q.Package,
		FromVersion: q.From,
		ToVersion:   q.To,
		Context:     q.Context,
	}
}

// ExpectClause lists the properties a report must have. Empty fields are
// not checked.
type ExpectClause struct {
	Bump         string `yaml:"bump,omitempty"`
	Direction    string `yaml:"direction,omitempty"`
	InvalidInput bool   `yaml:"invalid_input,omitempty"`
	Focus        string `yaml:"focus,omitempty"`

	// Contains and NotContains map a section name to substrings that must
	// (or must not) appear in it.
	Contains    map[string][]string `yaml:"contains,omitempty"`
	NotContains map[string][]string `yaml:"not_contains,omitempty"`

	// Counts maps a list section to its exact number of lines.
	Counts map[string]int `yaml:"counts,omitempty"`
}

// Assertion validates the conversation history after the last step.
type Assertion struct {
	// Type is history_count or history_order.
	Type string `yaml:"type"`

	// Count is the expected number of turns (history_count).
	Count int `yaml:"count,omitempty"`

	// Packages is the expected package of each turn, in order (history_order).
	Packages []string `yaml:"packages,omitempty"`
}

// Assertion type constants.
const (
	AssertHistoryCount = "history_count"
	AssertHistoryOrder = "history_order"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Facts != "" && !filepath.IsAbs(scenario.Facts) {
		scenario.Facts = filepath.Join(filepath.Dir(path), scenario.Facts)
	}
	return scenario, nil
}

// ParseScenario decodes and validates scenario YAML.
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
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if step.Expect == nil {
			continue
		}
		if err := validateExpect(step.Expect); err != nil {
			return fmt.Errorf("steps[%d].expect: %w", i, err)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(a); err != nil {
			return fmt.Errorf("assertions[%d]: %w", i, err)
		}
	}
	return nil
}

func validateExpect(e *ExpectClause) error {
	if e.Bump != "" {
		switch ir.BumpKind(e.Bump) {
		case ir.BumpMajor, ir.BumpMinor, ir.BumpPatch, ir.BumpUnknown:
		default:
			return fmt.Errorf("unknown bump %q", e.Bump)
		}
	}
	if e.Direction != "" {
		switch ir.Direction(e.Direction) {
		case ir.DirectionUpgrade, ir.DirectionDowngrade, ir.DirectionSame, ir.DirectionUnknown:
		default:
			return fmt.Errorf("unknown direction %q", e.Direction)
		}
	}
	for name := range e.Contains {
		if _, ok := textSections[name]; !ok {
			return fmt.Errorf("contains: unknown section %q", name)
		}
	}
	for name := range e.NotContains {
		if _, ok := textSections[name]; !ok {
			return fmt.Errorf("not_contains: unknown section %q", name)
		}
	}
	for name, n := range e.Counts {
		if _, ok := listSections[name]; !ok {
			return fmt.Errorf("counts: unknown list section %q", name)
		}
		if n < 0 {
			return fmt.Errorf("counts: %s must be non-negative", name)
		}
	}
	return nil
}

func validateAssertion(a Assertion) error {
	switch a.Type {
	case AssertHistoryCount:
		if a.Count < 0 {
			return fmt.Errorf("count must be non-negative for history_count")
		}
	case AssertHistoryOrder:
		if len(a.Packages) == 0 {
			return fmt.Errorf("packages list is required for history_order")
		}
	case "":
		return fmt.Errorf("type is required")
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
