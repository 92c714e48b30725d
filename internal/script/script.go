// Package script defines generator bodies as data, so scenarios can describe
// the computation under test without Go code.
//
// A program is a list of ops:
//
//	- yield: 1                                  # suspend with a literal
//	- yield: {ref: received, add: 2}            # suspend with the last response + 2
//	- try:
//	    - yield: 1
//	    - return: 1
//	  catch:
//	    - yield: {ref: error, suffix: " handled"}
//	    - throw: Sup                            # raise a new error
//	- return: 2
//
// References:
//
//   - received: the response to the most recent yield (nil before the first)
//   - error: the message of the error caught by the enclosing catch block
//   - arg: the init arg at index
//
// "add" applies to numeric references, "suffix" concatenates to the
// reference's string form.
package script

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// OpKind names an op.
type OpKind string

const (
	OpYield  OpKind = "yield"
	OpThrow  OpKind = "throw"
	OpReturn OpKind = "return"
	OpTry    OpKind = "try"
)

// Op is one instruction of a program.
type Op struct {
	Kind OpKind

	// Value is the operand of yield, throw and return.
	Value Expr

	// Body and Catch hold the blocks of a try op.
	Body  []Op
	Catch []Op
}

// Ref kinds accepted by Expr.Ref.
const (
	RefReceived = "received"
	RefError    = "error"
	RefArg      = "arg"
)

// Expr is an op operand: either a literal or a reference to runtime state.
type Expr struct {
	Literal any

	Ref    string
	Index  int
	Add    *int
	Suffix string
}

// Lit returns a literal operand.
func Lit(v any) Expr { return Expr{Literal: v} }

// Ref returns an operand reading runtime state.
func Ref(ref string) Expr { return Expr{Ref: ref} }

// Yield returns a yield op.
func Yield(e Expr) Op { return Op{Kind: OpYield, Value: e} }

// Throw returns a throw op.
func Throw(e Expr) Op { return Op{Kind: OpThrow, Value: e} }

// Return returns a return op.
func Return(e Expr) Op { return Op{Kind: OpReturn, Value: e} }

// Try returns a try op.
func Try(body, catch []Op) Op { return Op{Kind: OpTry, Body: body, Catch: catch} }

// Parse decodes a YAML program.
func Parse(data []byte) ([]Op, error) {
	var ops []Op
	if err := yaml.Unmarshal(data, &ops); err != nil {
		return nil, fmt.Errorf("parse program: %w", err)
	}
	return ops, nil
}

// UnmarshalYAML decodes an op from a single-key mapping (try may carry a
// catch key as well).
func (o *Op) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: op must be a mapping", node.Line)
	}

	var catch *yaml.Node
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]

		switch OpKind(key.Value) {
		case OpYield, OpThrow, OpReturn:
			if o.Kind != "" {
				return fmt.Errorf("line %d: op has both %q and %q", key.Line, o.Kind, key.Value)
			}
			o.Kind = OpKind(key.Value)
			if err := val.Decode(&o.Value); err != nil {
				return err
			}
		case OpTry:
			if o.Kind != "" {
				return fmt.Errorf("line %d: op has both %q and %q", key.Line, o.Kind, key.Value)
			}
			o.Kind = OpTry
			if err := val.Decode(&o.Body); err != nil {
				return err
			}
		default:
			if key.Value != "catch" {
				return fmt.Errorf("line %d: unknown op %q", key.Line, key.Value)
			}
			catch = val
		}
	}

	if o.Kind == "" {
		return fmt.Errorf("line %d: empty op", node.Line)
	}
	if catch != nil {
		if o.Kind != OpTry {
			return fmt.Errorf("line %d: catch without try", catch.Line)
		}
		if err := catch.Decode(&o.Catch); err != nil {
			return err
		}
	}
	return nil
}

// UnmarshalYAML decodes a mapping with a "ref" key as a reference and
// anything else as a literal.
func (e *Expr) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode && hasKey(node, "ref") {
		var r struct {
			Ref    string `yaml:"ref"`
			Index  int    `yaml:"index"`
			Add    *int   `yaml:"add"`
			Suffix string `yaml:"suffix"`
		}
		if err := node.Decode(&r); err != nil {
			return err
		}
		*e = Expr{Ref: r.Ref, Index: r.Index, Add: r.Add, Suffix: r.Suffix}
		return nil
	}

	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	*e = Expr{Literal: v}
	return nil
}

func hasKey(node *yaml.Node, key string) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}
