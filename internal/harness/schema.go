package harness

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaSource string

// SchemaError reports scenario fields that do not satisfy the scenario
// schema.
type SchemaError struct {
	Issues []string // "path: message", one per violation
}

func (e *SchemaError) Error() string {
	return "schema: " + strings.Join(e.Issues, "; ")
}

// validateSchema checks a decoded YAML document against #Scenario.
// A fresh cue.Context is built per call so callers may validate from
// several goroutines.
func validateSchema(doc any) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile scenario schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Scenario"))

	val := ctx.Encode(doc)
	if err := val.Err(); err != nil {
		return fmt.Errorf("encode scenario: %w", err)
	}

	if err := def.Unify(val).Validate(cue.Concrete(true)); err != nil {
		return toSchemaError(err)
	}
	return nil
}

func toSchemaError(err error) *SchemaError {
	var issues []string
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		if path := e.Path(); len(path) > 0 {
			msg = strings.Join(path, ".") + ": " + msg
		}
		issues = append(issues, msg)
	}
	if len(issues) == 0 {
		issues = []string{err.Error()}
	}
	return &SchemaError{Issues: issues}
}
