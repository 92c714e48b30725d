package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gentest/internal/script"
	"github.com/roach88/gentest/internal/steps"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, `
name: plus_two
description: yields the response plus two
args: [1, "a"]
program:
  - yield: 1
  - yield: {ref: received, add: 2}
steps:
  - {yields: 1, returns: 3}
  - 5
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "plus_two", scenario.Name)
	assert.Equal(t, []any{1, "a"}, scenario.Args)
	assert.Len(t, scenario.Program, 2)
	assert.Equal(t, []steps.Directive{steps.Yields(1, 3), steps.Value(5)}, Directives(scenario.Steps))
}

func TestLoadScenario_ProgramFile(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/catch_error.yaml")
	require.NoError(t, err)
	require.Len(t, scenario.Program, 1)
	assert.Equal(t, script.OpTry, scenario.Program[0].Kind)
}

func TestLoadScenario_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "missing name",
			content: "program: [{yield: 1}]\nsteps: [1]\n",
			want:    "name",
		},
		{
			name:    "unknown field",
			content: "name: x\nprogram: [{yield: 1}]\nsteps: [1]\nasertions: []\n",
			want:    "asertions",
		},
		{
			name:    "wrong type",
			content: "name: x\nprogram: [{yield: 1}]\nsteps: [1]\nexpect_error: 3\n",
			want:    "expect_error",
		},
		{
			name:    "unknown op",
			content: "name: x\nprogram: [{jump: 1}]\nsteps: [1]\n",
			want:    "jump",
		},
		{
			name:    "no program",
			content: "name: x\nsteps: [1]\n",
			want:    "program or program_file is required",
		},
		{
			name:    "program does not compile",
			content: "name: x\nprogram: [{yield: {ref: error}}]\nsteps: [1]\n",
			want:    "only valid inside catch",
		},
		{
			name:    "missing program file",
			content: "name: x\nprogram_file: nope.yaml\nsteps: [1]\n",
			want:    "program file",
		},
		{
			name:    "malformed yaml",
			content: "name: [unclosed\n",
			want:    "failed to parse YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario_SchemaError(t *testing.T) {
	_, err := LoadScenario(writeScenario(t, "name: 1\nprogram: [{yield: 1}]\n"))

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.NotEmpty(t, schemaErr.Issues)
}

func TestLoadScenario_FileNotFound(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestStep_Forms(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: forms
program: [{yield: 1}]
steps:
  - 1
  - null
  - {value: {a: 1}}
  - {yields: 2}
  - {yields: 2, returns: {throws: boom}}
  - {skip: 4}
  - {throws: 5}
  - {finishes: 6, returns: 7}
  - {finishes: null}
  - {finishes: ~, returns: 8}
`), "")
	require.NoError(t, err)

	assert.Equal(t, []steps.Directive{
		steps.Value(1),
		steps.Value(nil),
		steps.Value(map[string]any{"a": 1}),
		steps.Yields(2, nil),
		steps.Yields(2, steps.Throws("boom")),
		steps.Skip(4),
		steps.Throws(5),
		steps.FinishesWith(6, 7),
		steps.Finishes(),
		steps.Finish{Response: 8},
	}, Directives(scenario.Steps))
}

func TestStep_ThrowsMatch(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: match
program: [{yield: 1}]
steps:
  - {throws_match: Sup}
`), "")
	require.NoError(t, err)

	throw, ok := scenario.Steps[0].Directive.(steps.Throw)
	require.True(t, ok)
	match, ok := throw.Handler.(func(error) bool)
	require.True(t, ok)
	assert.True(t, match(&script.RaisedError{Value: "Sup!"}))
	assert.False(t, match(&script.RaisedError{Value: "other"}))
}

func TestStep_Errors(t *testing.T) {
	tests := []struct {
		name string
		step string
		want string
	}{
		{"unknown key", "{yeilds: 1}", `unknown step key "yeilds"`},
		{"two forms", "{yields: 1, skip: 2}", "step has both"},
		{"returns alone", "{returns: 1}", "returns without yields or finishes"},
		{"returns on skip", "{skip: 1, returns: 2}", "skip does not take returns"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte("name: x\nprogram: [{yield: 1}]\nsteps:\n  - "+tt.step+"\n"), "")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
