package harness

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/gentest/internal/steps"
)

// Step is one directive of a scenario, decoded from YAML.
type Step struct {
	steps.Directive
}

var stepKeys = map[string]bool{
	"value":        true,
	"yields":       true,
	"returns":      true,
	"skip":         true,
	"throws":       true,
	"throws_match": true,
	"finishes":     true,
}

// UnmarshalYAML decodes one of the step forms listed in the package
// documentation.
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		var v any
		if err := node.Decode(&v); err != nil {
			return err
		}
		s.Directive = steps.Value(v)
		return nil
	}

	fields := map[string]*yaml.Node{}
	var form string
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i].Value, node.Content[i+1]
		if !stepKeys[key] {
			return fmt.Errorf("line %d: unknown step key %q (wrap mappings in {value: ...})", node.Content[i].Line, key)
		}
		fields[key] = val
		if key == "returns" {
			continue
		}
		if form != "" {
			return fmt.Errorf("line %d: step has both %q and %q", node.Content[i].Line, form, key)
		}
		form = key
	}

	returns, err := decodeResponse(fields["returns"])
	if err != nil {
		return err
	}

	switch form {
	case "value", "skip", "throws", "throws_match":
		if fields["returns"] != nil {
			return fmt.Errorf("line %d: %s does not take returns", node.Line, form)
		}
	}

	switch form {
	case "":
		return fmt.Errorf("line %d: returns without yields or finishes", node.Line)
	case "value":
		v, err := decode(fields["value"])
		if err != nil {
			return err
		}
		s.Directive = steps.Value(v)
	case "yields":
		v, err := decode(fields["yields"])
		if err != nil {
			return err
		}
		s.Directive = steps.Yields(v, returns)
	case "skip":
		r, err := decodeResponse(fields["skip"])
		if err != nil {
			return err
		}
		s.Directive = steps.Skip(r)
	case "throws":
		v, err := decode(fields["throws"])
		if err != nil {
			return err
		}
		s.Directive = steps.Throws(v)
	case "throws_match":
		var substr string
		if err := fields["throws_match"].Decode(&substr); err != nil {
			return err
		}
		s.Directive = steps.Throws(func(err error) bool {
			return strings.Contains(err.Error(), substr)
		})
	case "finishes":
		n := fields["finishes"]
		if n.ShortTag() == "!!null" {
			if fields["returns"] != nil {
				s.Directive = steps.Finish{Response: returns}
			} else {
				s.Directive = steps.Finishes()
			}
			break
		}
		v, err := decode(n)
		if err != nil {
			return err
		}
		s.Directive = steps.FinishesWith(v, returns)
	}
	return nil
}

func decode(node *yaml.Node) (any, error) {
	var v any
	if err := node.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// decodeResponse decodes a value sent back to the computation. A mapping
// whose only key is throws becomes an injected error.
func decodeResponse(node *yaml.Node) (any, error) {
	if node == nil {
		return nil, nil
	}
	if node.Kind == yaml.MappingNode && len(node.Content) == 2 && node.Content[0].Value == "throws" {
		v, err := decode(node.Content[1])
		if err != nil {
			return nil, err
		}
		return steps.Throws(v), nil
	}
	return decode(node)
}

// Directives returns the scenario's steps as driver directives. A null
// step (which yaml.v3 never hands to UnmarshalYAML) is a plain nil value.
func Directives(list []Step) []steps.Directive {
	out := make([]steps.Directive, 0, len(list))
	for _, s := range list {
		if s.Directive == nil {
			out = append(out, steps.Value(nil))
			continue
		}
		out = append(out, s.Directive)
	}
	return out
}
