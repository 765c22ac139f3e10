// Package document loads declarative documents: a component tree, the
// commands to run when it mounts, and named commands that expand into
// sequences of other commands.
//
// A document is plain YAML:
//
//	version: "1.2"
//	resources:
//	  fade: 300
//	mainTemplate:
//	  id: root
//	  type: Frame
//	  height: 600
//	  children:
//	    - id: list
//	      type: ScrollView
//	      height: 400
//	      scroll: {viewport: 400}
//	      children:
//	        - {type: Frame, height: 120}
//	onMount:
//	  - {type: FadeIn, target: list}
//	commands:
//	  FadeIn:
//	    parameters: [{name: target}]
//	    commands:
//	      - type: AnimateItem
//	        componentId: ${target}
//	        duration: ${fade}
//	        value: [{property: opacity, from: 0, to: 1}]
//
// String fields of commands may hold ${expr} bindings; see [Evaluator].
package document

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/motion/pkg/errors"
)

// Raw is a command as written in the document, before bindings are
// evaluated and named commands expanded.
type Raw map[string]any

// Document is a parsed document.
type Document struct {
	Version      string           `yaml:"version"`
	Resources    map[string]any   `yaml:"resources,omitempty"`
	MainTemplate Node             `yaml:"mainTemplate"`
	OnMount      []Raw            `yaml:"onMount,omitempty"`
	Macros       map[string]Macro `yaml:"commands,omitempty"`
}

// Node describes one component of the template. Children are stacked
// vertically inside their parent.
type Node struct {
	ID         string         `yaml:"id,omitempty"`
	Type       string         `yaml:"type"`
	Width      float64        `yaml:"width,omitempty"`
	Height     float64        `yaml:"height,omitempty"`
	Opacity    *float64       `yaml:"opacity,omitempty"`
	Transform  []any          `yaml:"transform,omitempty"`
	Scroll     *Scroll        `yaml:"scroll,omitempty"`
	Properties map[string]any `yaml:"properties,omitempty"`
	Children   []Node         `yaml:"children,omitempty"`
}

// Scroll makes a node scrollable. A zero Viewport uses the node's height
// and a zero Extent the total height of its children.
type Scroll struct {
	Viewport float64 `yaml:"viewport,omitempty"`
	Extent   float64 `yaml:"extent,omitempty"`
	Position float64 `yaml:"position,omitempty"`
}

// Macro is a named command. Invoking it runs Commands in sequence with each
// parameter bound to the invocation's field of the same name, or to its
// default.
type Macro struct {
	Parameters []Parameter `yaml:"parameters,omitempty"`
	Commands   []Raw       `yaml:"commands"`
}

// Parameter is one named argument of a Macro.
type Parameter struct {
	Name    string `yaml:"name"`
	Default any    `yaml:"default,omitempty"`
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("document.Load", errors.KindDocument, fmt.Errorf("failed to read %s: %w", path, err))
	}
	return Parse(data)
}

// Parse decodes and validates a document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.New("document.Parse", errors.KindDocument, fmt.Errorf("failed to parse document: %w", err))
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks the document's structure.
func (d *Document) Validate() error {
	if _, err := canonical(d.Version); err != nil {
		return errors.New("document.Validate", errors.KindDocument, err)
	}
	if d.MainTemplate.Type == "" {
		return errors.New("document.Validate", errors.KindDocument, fmt.Errorf("mainTemplate needs a type"))
	}
	seen := map[string]bool{}
	var walk func(n *Node) error
	walk = func(n *Node) error {
		if n.Type == "" {
			return fmt.Errorf("component %q has no type", n.ID)
		}
		if n.ID != "" {
			if seen[n.ID] {
				return fmt.Errorf("duplicate component id %q", n.ID)
			}
			seen[n.ID] = true
		}
		for i := range n.Children {
			if err := walk(&n.Children[i]); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(&d.MainTemplate); err != nil {
		return &errors.Error{Op: "document.Validate", Kind: errors.KindDocument, Err: err}
	}
	for name, m := range d.Macros {
		for _, p := range m.Parameters {
			if !isIdentifier(p.Name) {
				return errors.New("document.Validate", errors.KindDocument, fmt.Errorf("command %s: bad parameter name %q", name, p.Name))
			}
		}
	}
	return nil
}
