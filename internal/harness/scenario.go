package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Query kinds a case can run.
const (
	QueryEntities  = "entities"
	QueryRelations = "relations"
	QuerySearch    = "search"
)

// Error kinds a case can expect.
const (
	ErrorInput   = "input"
	ErrorStorage = "storage"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Fixture is the graph fixture seeded before the cases run.
	// Relative paths are resolved against the scenario file location.
	Fixture string `yaml:"fixture"`

	// Cases run in order against the same seeded store.
	Cases []Case `yaml:"cases"`
}

// Case is one query and its expected result.
type Case struct {
	Name string `yaml:"name"`

	// Query selects the accessor: entities (default), relations or search.
	Query string `yaml:"query,omitempty"`

	// Filter is an entity filter tree (entities and search).
	Filter map[string]any `yaml:"filter,omitempty"`

	// Relation is a relation filter (relations).
	Relation map[string]any `yaml:"relation,omitempty"`

	// Term is the search term (search).
	Term string `yaml:"term,omitempty"`

	Space  string `yaml:"space,omitempty"`
	Limit  *int   `yaml:"limit,omitempty"`
	Offset *int   `yaml:"offset,omitempty"`

	// Expect lists the ids the query must return, in order. Use an empty
	// list to expect no rows.
	Expect []string `yaml:"expect,omitempty"`

	// ExpectError is the error kind the query must fail with instead.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// kind returns the query kind with the default applied.
func (c Case) kind() string {
	if c.Query == "" {
		return QueryEntities
	}
	return c.Query
}

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

	if scenario.Fixture != "" && !filepath.IsAbs(scenario.Fixture) {
		scenario.Fixture = filepath.Join(filepath.Dir(path), scenario.Fixture)
	}
	if _, err := os.Stat(scenario.Fixture); err != nil {
		return nil, fmt.Errorf("invalid scenario: fixture file not found: %s", scenario.Fixture)
	}

	return scenario, nil
}

// ParseScenario decodes and validates scenario YAML. The fixture path is
// taken as is.
func ParseScenario(data []byte) (*Scenario, error) {
	// KnownFields catches typos like "case:" vs "cases:"
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

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Fixture == "" {
		return fmt.Errorf("fixture is required")
	}
	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	seen := make(map[string]bool)
	for i, c := range s.Cases {
		if err := validateCase(i, c); err != nil {
			return err
		}
		if seen[c.Name] {
			return fmt.Errorf("cases[%d]: duplicate name %q", i, c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

// validateCase validates a single case based on its query kind.
func validateCase(index int, c Case) error {
	if c.Name == "" {
		return fmt.Errorf("cases[%d]: name is required", index)
	}

	switch c.kind() {
	case QueryEntities:
		if c.Relation != nil || c.Term != "" {
			return fmt.Errorf("cases[%d]: entities cases take only filter", index)
		}
	case QueryRelations:
		if c.Filter != nil || c.Term != "" {
			return fmt.Errorf("cases[%d]: relations cases take only relation", index)
		}
	case QuerySearch:
		if c.Relation != nil {
			return fmt.Errorf("cases[%d]: search cases do not take relation", index)
		}
	default:
		return fmt.Errorf("cases[%d]: unknown query %q", index, c.Query)
	}

	switch c.ExpectError {
	case "":
		if c.Expect == nil {
			return fmt.Errorf("cases[%d]: expect is required (use [] for no rows)", index)
		}
	case ErrorInput, ErrorStorage:
		if c.Expect != nil {
			return fmt.Errorf("cases[%d]: expect and expect_error are exclusive", index)
		}
	default:
		return fmt.Errorf("cases[%d]: unknown expect_error %q", index, c.ExpectError)
	}
	return nil
}
