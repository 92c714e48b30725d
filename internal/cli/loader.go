package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/gentest/internal/harness"
)

// LoadMode controls how errors are handled during scenario loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the scenarios loaded from a directory.
type LoadResult struct {
	Scenarios []*harness.Scenario
	Files     []string // Files[i] holds Scenarios[i]
	FileCount int      // Number of scenario files found
}

// LoadError represents an error that occurred during scenario loading.
type LoadError struct {
	Code    string
	File    string // scenario file, if the error belongs to one
	Message string
}

func (e *LoadError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s: %s", e.File, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric    = "E001" // Generic/unknown error
	ErrCodeScanError  = "E002" // Directory scan error
	ErrCodeNoFiles    = "E003" // No scenario files found
	ErrCodeLoadFailed = "E004" // YAML or program load failed
	ErrCodeNotFound   = "E005" // Path not found
	ErrCodeSchema     = "E006" // Scenario schema violation
	ErrCodeDuplicate  = "E007" // Two files declare the same scenario name
	ErrCodeFailed     = "E010" // One or more scenarios failed
	ErrCodeStore      = "E020" // Run history unavailable
)

// LoadScenarios loads every scenario file under dir whose base name
// matches filter. If mode is LoadModeFailFast, returns on first error.
func LoadScenarios(dir, filter string, mode LoadMode) (*LoadResult, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("scenarios directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing scenarios directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	files, err := FindScenarioFiles(dir, filter)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}

	result := &LoadResult{FileCount: len(files)}
	var errs []error
	seen := map[string]string{}

	for _, file := range files {
		scenario, err := harness.LoadScenario(file)
		if err != nil {
			errs = append(errs, convertLoadError(file, err))
			if mode == LoadModeFailFast {
				return result, errs
			}
			continue
		}

		if prev, ok := seen[scenario.Name]; ok {
			errs = append(errs, &LoadError{
				Code:    ErrCodeDuplicate,
				File:    file,
				Message: fmt.Sprintf("scenario %q already defined in %s", scenario.Name, prev),
			})
			if mode == LoadModeFailFast {
				return result, errs
			}
			continue
		}
		seen[scenario.Name] = file

		result.Scenarios = append(result.Scenarios, scenario)
		result.Files = append(result.Files, file)
	}

	return result, errs
}

// FindScenarioFiles finds all YAML scenario files in a directory.
// Files under a golden/ directory are skipped.
func FindScenarioFiles(dir string, filter string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if path != dir && info.Name() == "golden" {
				return filepath.SkipDir
			}
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})

	return files, err
}

// convertLoadError classifies a harness load error.
func convertLoadError(file string, err error) *LoadError {
	var schemaErr *harness.SchemaError
	if errors.As(err, &schemaErr) {
		return &LoadError{Code: ErrCodeSchema, File: file, Message: schemaErr.Error()}
	}
	return &LoadError{Code: ErrCodeLoadFailed, File: file, Message: err.Error()}
}
