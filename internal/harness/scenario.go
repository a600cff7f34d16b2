package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/qlite/internal/compiler"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. Used as the golden file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Seed fixes measurement sampling.
	Seed uint64 `yaml:"seed,omitempty"`

	// Qubits overrides the engine width (default: declared qubits).
	Qubits int `yaml:"qubits,omitempty"`

	// MaxQubits overrides the engine ceiling.
	MaxQubits int `yaml:"max_qubits,omitempty"`

	// Program is an inline program document.
	Program *compiler.Document `yaml:"program,omitempty"`

	// ProgramFile points at a document relative to the scenario file.
	ProgramFile string `yaml:"program_file,omitempty"`

	// ExpectError is an error code the pipeline must fail with.
	ExpectError string `yaml:"expect_error,omitempty"`

	// Assertions validate the run.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates one property of a run.
type Assertion struct {
	// Type is one of probability, measurement, normalized, qasm_contains.
	Type string `yaml:"type"`

	// State is the basis state bitstring (probability).
	State string `yaml:"state,omitempty"`

	// Value is the expected probability (probability) or bit value
	// (measurement).
	Value *float64 `yaml:"value,omitempty"`

	// Tolerance bounds float comparison. Default DefaultTolerance.
	Tolerance float64 `yaml:"tolerance,omitempty"`

	// Bit is the classical bit name (measurement).
	Bit string `yaml:"bit,omitempty"`

	// Outcome is the expected collapsed bitstring (measurement).
	Outcome string `yaml:"outcome,omitempty"`

	// Text is the expected QASM fragment (qasm_contains).
	Text string `yaml:"text,omitempty"`
}

// Assertion type constants.
const (
	AssertProbability  = "probability"
	AssertMeasurement  = "measurement"
	AssertNormalized   = "normalized"
	AssertQASMContains = "qasm_contains"
)

// DefaultTolerance is used when an assertion gives no tolerance.
const DefaultTolerance = 1e-9

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// A program_file is resolved relative to the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	s, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if s.ProgramFile != "" && !filepath.IsAbs(s.ProgramFile) {
		s.ProgramFile = filepath.Join(filepath.Dir(path), s.ProgramFile)
	}
	if err := validateScenario(s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return s, nil
}

// ParseScenario parses scenario YAML without validating file references.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &scenario, nil
}

// LoadScenarios loads every .yaml/.yml scenario in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !e.IsDir() && (ext == ".yaml" || ext == ".yml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	scenarios := make([]*Scenario, 0, len(names))
	for _, name := range names {
		s, err := LoadScenario(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch {
	case s.Program == nil && s.ProgramFile == "":
		return fmt.Errorf("one of program or program_file is required")
	case s.Program != nil && s.ProgramFile != "":
		return fmt.Errorf("program and program_file are mutually exclusive")
	case s.ProgramFile != "":
		if _, err := os.Stat(s.ProgramFile); os.IsNotExist(err) {
			return fmt.Errorf("program file not found: %s", s.ProgramFile)
		}
	}

	if s.ExpectError == "" && len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required unless expect_error is set")
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if a.Tolerance < 0 {
		return fmt.Errorf("assertions[%d]: tolerance must be non-negative", index)
	}

	switch a.Type {
	case AssertProbability:
		if a.State == "" {
			return fmt.Errorf("assertions[%d]: state is required for probability", index)
		}
		if strings.Trim(a.State, "01") != "" {
			return fmt.Errorf("assertions[%d]: state %q is not a bitstring", index, a.State)
		}
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for probability", index)
		}
	case AssertMeasurement:
		if a.Bit == "" && a.Outcome == "" {
			return fmt.Errorf("assertions[%d]: bit or outcome is required for measurement", index)
		}
		if a.Bit != "" && a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required with bit", index)
		}
	case AssertNormalized:
	case AssertQASMContains:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for qasm_contains", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
