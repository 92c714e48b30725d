package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/gentest/internal/script"
)

// Scenario defines one drive: a computation and the steps expected of it.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden files and stored runs
	// are keyed by it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Args are passed to the computation when it is created.
	Args []any `yaml:"args,omitempty"`

	// Program is the computation body.
	Program []script.Op `yaml:"program,omitempty"`

	// ProgramFile names a YAML file holding the program, relative to the
	// scenario file. Exclusive with Program.
	ProgramFile string `yaml:"program_file,omitempty"`

	// Steps are the directives the computation is driven through.
	Steps []Step `yaml:"steps"`

	// ExpectError makes the scenario pass only if the drive fails with an
	// error whose message contains this text.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. A program_file is
// resolved relative to the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving program_file relative to basePath.
//
// The document is checked against the scenario schema before it is
// decoded, then decoded with unknown fields rejected.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data, basePath)
}

// ParseScenario parses scenario YAML. basePath resolves program_file.
func ParseScenario(data []byte, basePath string) (*Scenario, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateSchema(doc); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.ProgramFile != "" {
		programPath := scenario.ProgramFile
		if !filepath.IsAbs(programPath) && basePath != "" {
			programPath = filepath.Join(basePath, programPath)
		}
		if len(scenario.Program) > 0 {
			return nil, fmt.Errorf("invalid scenario: program and program_file are exclusive")
		}
		src, err := os.ReadFile(programPath)
		if err != nil {
			return nil, fmt.Errorf("invalid scenario: program file: %w", err)
		}
		if scenario.Program, err = script.Parse(src); err != nil {
			return nil, fmt.Errorf("invalid scenario: %s: %w", scenario.ProgramFile, err)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks what the schema cannot express.
func validateScenario(s *Scenario) error {
	if len(s.Program) == 0 {
		return fmt.Errorf("program or program_file is required")
	}
	if _, err := script.Compile(s.Program); err != nil {
		return err
	}
	return nil
}
