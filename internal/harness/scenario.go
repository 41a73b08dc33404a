package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/kwargs/internal/kwerr"
	"github.com/roach88/kwargs/internal/value"
)

// Scenario defines one conversion scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Fold hashes record names case-insensitively.
	Fold bool `yaml:"fold,omitempty"`

	// Allowed is the record's key whitelist. Empty allows every key.
	Allowed []string `yaml:"allowed,omitempty"`

	// Record is a YAML mapping loaded in document order.
	Record yaml.Node `yaml:"record,omitempty"`

	// Args is a YAML sequence loaded as an argument list.
	Args yaml.Node `yaml:"args,omitempty"`

	// BuildError is the code the record or argument list is expected to
	// fail with, e.g. DUPLICATE_KEY.
	BuildError string `yaml:"build_error,omitempty"`

	// Checks read and convert values once the input is built.
	Checks []Check `yaml:"checks,omitempty"`
}

// Check reads one value and converts it.
type Check struct {
	// Lookup lists record names tried in order; the first present wins.
	Lookup []string `yaml:"lookup,omitempty"`

	// Index selects an argument; negative values count from the back.
	Index *int `yaml:"index,omitempty"`

	// As is the target type name, e.g. int, []string or map[string]int.
	As string `yaml:"as"`

	// Default supplies the value used when a lookup misses.
	Default []any `yaml:"default,omitempty"`

	// Expect is converted to the target type and compared with the result.
	Expect any `yaml:"expect,omitempty"`

	// Error is the expected error code.
	Error string `yaml:"error,omitempty"`
}

// HasRecord reports whether the scenario holds a record.
func (s *Scenario) HasRecord() bool { return s.Record.Kind != 0 }

// HasArgs reports whether the scenario holds an argument list.
func (s *Scenario) HasArgs() bool { return s.Args.Kind != 0 }

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected, so typos like "check:" fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
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

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.HasRecord() == s.HasArgs() {
		return fmt.Errorf("exactly one of record or args is required")
	}

	if s.HasArgs() && (len(s.Allowed) > 0 || s.Fold) {
		return fmt.Errorf("allowed and fold apply to records only")
	}

	if s.BuildError != "" {
		if !knownCode(s.BuildError) {
			return fmt.Errorf("build_error: unknown code %q", s.BuildError)
		}
		if len(s.Checks) > 0 {
			return fmt.Errorf("checks cannot run when build_error is expected")
		}
		return nil
	}

	if len(s.Checks) == 0 {
		return fmt.Errorf("checks list is required and must be non-empty")
	}

	for i := range s.Checks {
		if err := validateCheck(i, s, &s.Checks[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateCheck validates a single check against the scenario's input kind.
func validateCheck(index int, s *Scenario, c *Check) error {
	if c.As == "" {
		return fmt.Errorf("checks[%d]: as is required", index)
	}
	if _, err := value.TypeByName(c.As); err != nil {
		return fmt.Errorf("checks[%d]: %w", index, err)
	}

	switch {
	case s.HasRecord():
		if len(c.Lookup) == 0 {
			return fmt.Errorf("checks[%d]: lookup is required for records", index)
		}
		if c.Index != nil {
			return fmt.Errorf("checks[%d]: index applies to args only", index)
		}
	default:
		if c.Index == nil {
			return fmt.Errorf("checks[%d]: index is required for args", index)
		}
		if len(c.Lookup) > 0 || len(c.Default) > 0 {
			return fmt.Errorf("checks[%d]: lookup and default apply to records only", index)
		}
	}

	if c.Expect != nil && c.Error != "" {
		return fmt.Errorf("checks[%d]: expect and error are mutually exclusive", index)
	}
	if c.Error != "" && !knownCode(c.Error) {
		return fmt.Errorf("checks[%d]: unknown error code %q", index, c.Error)
	}
	return nil
}

func knownCode(code string) bool {
	switch kwerr.Code(code) {
	case kwerr.CodeDuplicateKey, kwerr.CodeKeyNotAllowed, kwerr.CodeIndexOutOfRange,
		kwerr.CodeIncorrectConversion, kwerr.CodeMalformedText, kwerr.CodeOutOfRange,
		kwerr.CodeUnsupportedType:
		return true
	}
	return false
}
