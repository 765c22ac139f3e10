package document

import (
	"fmt"
	"maps"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/motion/pkg/command"
	"github.com/go-drift/motion/pkg/errors"
)

// maxMacroDepth bounds named-command expansion so recursive definitions
// fail instead of looping.
const maxMacroDepth = 16

// Evaluator returns an evaluator over the document's resources and vars.
func (d *Document) Evaluator(vars map[string]any) *Evaluator {
	return NewEvaluator(d.Resources).With(vars)
}

// Resolve evaluates the bindings of raw and expands named commands. A
// command that cannot be resolved is reported and left out.
func (d *Document) Resolve(raw []Raw, vars map[string]any) []command.Command {
	return d.resolveList(d.Evaluator(vars), raw, 0)
}

func (d *Document) resolveList(ev *Evaluator, raw []Raw, depth int) []command.Command {
	out := make([]command.Command, 0, len(raw))
	for _, r := range raw {
		cmd, err := d.resolve(ev, r, depth)
		if err != nil {
			errors.Report(asError(err))
			continue
		}
		out = append(out, cmd)
	}
	return out
}

func (d *Document) resolve(ev *Evaluator, raw Raw, depth int) (command.Command, error) {
	bound := make(map[string]any, len(raw))
	for k, v := range raw {
		if k == "commands" {
			continue
		}
		b, err := ev.Bind(v)
		if err != nil {
			return command.Command{}, err
		}
		bound[k] = b
	}

	typ, _ := bound["type"].(string)
	if m, ok := d.Macros[typ]; ok {
		if depth >= maxMacroDepth {
			return command.Command{}, fmt.Errorf("command %s: expansion deeper than %d", typ, maxMacroDepth)
		}
		args := make(map[string]any, len(m.Parameters))
		for _, p := range m.Parameters {
			v, ok := bound[p.Name]
			if !ok {
				v = p.Default
			}
			args[p.Name] = v
		}
		// Only scheduling fields carry over from the invocation.
		var cmd command.Command
		if err := decode(pick(bound, "delay"), &cmd); err != nil {
			return command.Command{}, fmt.Errorf("command %s: %w", typ, err)
		}
		cmd.Type = command.TypeSequential
		cmd.Commands = d.resolveList(ev.With(args), m.Commands, depth+1)
		return cmd, nil
	}

	var cmd command.Command
	if err := decode(bound, &cmd); err != nil {
		return command.Command{}, fmt.Errorf("command %s: %w", typ, err)
	}
	if children, ok := raw["commands"]; ok {
		list, err := rawList(children)
		if err != nil {
			return command.Command{}, fmt.Errorf("command %s: %w", typ, err)
		}
		cmd.Commands = d.resolveList(ev, list, depth)
	}
	return cmd, nil
}

// decode converts a bound map into a Command through its YAML form, so
// bound values get the same conversions as literal ones.
func decode(m map[string]any, cmd *command.Command) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cmd)
}

func pick(m map[string]any, keys ...string) map[string]any {
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		if v, ok := m[k]; ok {
			out[k] = v
		}
	}
	return out
}

func rawList(v any) ([]Raw, error) {
	switch t := v.(type) {
	case []Raw:
		return t, nil
	case []any:
		out := make([]Raw, 0, len(t))
		for i, item := range t {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("commands[%d] is %T, not a map", i, item)
			}
			out = append(out, Raw(maps.Clone(m)))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("commands must be a list, got %T", v)
	}
}

func asError(err error) *errors.Error {
	if e, ok := err.(*errors.Error); ok {
		return e
	}
	return errors.New("document.Resolve", errors.KindCommand, err)
}
