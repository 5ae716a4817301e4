// Package descriptor loads widget descriptors from YAML files.
package descriptor

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// File is the document root of a descriptor file.
type File struct {
	Widgets []Spec `yaml:"widgets"`
}

// Spec is one widget descriptor as written in a file.
type Spec struct {
	Name          string                `yaml:"name"`
	BindingName   string                `yaml:"bindingName,omitempty"`
	Parent        string                `yaml:"parent,omitempty"`
	DefaultOption string                `yaml:"defaultOption,omitempty"`
	OptionsFilter string                `yaml:"optionsFilter,omitempty"`
	Async         bool                  `yaml:"async,omitempty"`
	Options       map[string]any        `yaml:"options,omitempty"`
	Watch         map[string]ActionSpec `yaml:"watch,omitempty"`
	Events        map[string]EventSpec  `yaml:"events,omitempty"`
}

// ActionSpec is a watch action. Exactly one field is set:
//
//	key: method          -> Method
//	key: [whenTrue, whenFalse] -> Toggle
//	key: {expr: ...}     -> Expr
//	key: {callback: ...} -> Callback
type ActionSpec struct {
	Method   string
	Toggle   []string
	Expr     string
	Callback string
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *ActionSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Value == "" {
			return fmt.Errorf("line %d: empty method name", node.Line)
		}
		*a = ActionSpec{Method: node.Value}
		return nil
	case yaml.SequenceNode:
		var methods []string
		if err := node.Decode(&methods); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		if len(methods) != 2 {
			return fmt.Errorf("line %d: toggle needs exactly two methods, got %d", node.Line, len(methods))
		}
		*a = ActionSpec{Toggle: methods}
		return nil
	case yaml.MappingNode:
		var raw struct {
			Expr     string `yaml:"expr"`
			Callback string `yaml:"callback"`
		}
		if err := node.Decode(&raw); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		if (raw.Expr == "") == (raw.Callback == "") {
			return fmt.Errorf("line %d: action needs exactly one of expr or callback", node.Line)
		}
		*a = ActionSpec{Expr: raw.Expr, Callback: raw.Callback}
		return nil
	default:
		return fmt.Errorf("line %d: unsupported watch action", node.Line)
	}
}

// EventSpec maps a widget event onto an observable option. The shorthand
// `event: key` reads method key and writes option key.
type EventSpec struct {
	Value   any    `yaml:"value"`
	WriteTo string `yaml:"writeTo"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (e *EventSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*e = EventSpec{Value: node.Value, WriteTo: node.Value}
		return nil
	}
	type plain EventSpec
	var p plain
	if err := node.Decode(&p); err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	if p.WriteTo == "" {
		return fmt.Errorf("line %d: event needs writeTo", node.Line)
	}
	*e = EventSpec(p)
	return nil
}

// ErrNoName is returned for a descriptor without a name.
var ErrNoName = errors.New("descriptor name is required")

// Parse decodes a descriptor file without resolving named filters,
// callbacks or expressions.
func Parse(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("failed to parse descriptors: %w", err)
	}
	for i, s := range f.Widgets {
		if s.Name == "" {
			return nil, fmt.Errorf("widget %d: %w", i, ErrNoName)
		}
	}
	return &f, nil
}
