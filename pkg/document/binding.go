package document

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/go-drift/motion/pkg/errors"
)

const resultVar = "__result"

// Limits for a single binding. Documents are evaluated on the UI loop, so a
// runaway expression is aborted instead of stalling it.
const (
	evalTimeout   = 250 * time.Millisecond
	evalMaxAllocs = 1 << 16
)

// Evaluator resolves ${expr} bindings. Expressions are tengo expressions
// evaluated against a set of named variables; the math and text modules
// are importable:
//
//	${fade * 2}
//	${import("math").floor(offset / 3)}
//	${"item-" + index}
type Evaluator struct {
	vars    map[string]any
	modules *tengo.ModuleMap
}

// NewEvaluator returns an evaluator over vars.
func NewEvaluator(vars map[string]any) *Evaluator {
	return &Evaluator{
		vars:    maps.Clone(vars),
		modules: stdlib.GetModuleMap("math", "text"),
	}
}

// With returns an evaluator that sees vars in addition to e's variables.
func (e *Evaluator) With(vars map[string]any) *Evaluator {
	merged := maps.Clone(e.vars)
	if merged == nil {
		merged = make(map[string]any, len(vars))
	}
	maps.Copy(merged, vars)
	return &Evaluator{vars: merged, modules: e.modules}
}

// Eval evaluates a single expression.
func (e *Evaluator) Eval(expr string) (any, error) {
	script := tengo.NewScript([]byte(resultVar + " := (" + expr + ")"))
	script.SetImports(e.modules)
	script.SetMaxAllocs(evalMaxAllocs)
	for name, v := range e.vars {
		if !isIdentifier(name) {
			continue
		}
		if err := script.Add(name, v); err != nil {
			return nil, bindingError(expr, err)
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), evalTimeout)
	defer cancel()
	compiled, err := script.RunContext(ctx)
	if err != nil {
		return nil, bindingError(expr, err)
	}
	return compiled.Get(resultVar).Value(), nil
}

// Expand evaluates the bindings in s. A string that is exactly one binding
// yields the expression's value with its type; otherwise each binding is
// formatted into the surrounding text.
func (e *Evaluator) Expand(s string) (any, error) {
	if !strings.Contains(s, "${") {
		return s, nil
	}
	var b strings.Builder
	rest := s
	for {
		start := strings.Index(rest, "${")
		if start < 0 {
			b.WriteString(rest)
			return b.String(), nil
		}
		end := closingBrace(rest, start+2)
		if end < 0 {
			return nil, bindingError(s, fmt.Errorf("unterminated ${"))
		}
		v, err := e.Eval(rest[start+2 : end])
		if err != nil {
			return nil, err
		}
		if rest == s && start == 0 && end == len(s)-1 {
			return v, nil
		}
		b.WriteString(rest[:start])
		if v != nil {
			fmt.Fprint(&b, v)
		}
		rest = rest[end+1:]
	}
}

// Bind expands every string inside v, descending into lists and maps.
func (e *Evaluator) Bind(v any) (any, error) {
	switch t := v.(type) {
	case string:
		return e.Expand(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			b, err := e.Bind(item)
			if err != nil {
				return nil, err
			}
			out[i] = b
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			b, err := e.Bind(item)
			if err != nil {
				return nil, err
			}
			out[k] = b
		}
		return out, nil
	default:
		return v, nil
	}
}

// closingBrace returns the index of the brace closing the binding whose
// body starts at from, skipping nested braces and string literals.
func closingBrace(s string, from int) int {
	depth := 0
	var quote byte
	for i := from; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '`' || c == '\'':
			quote = c
		case c == '{':
			depth++
		case c == '}':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

func bindingError(expr string, err error) *errors.Error {
	return errors.New("document.Bind", errors.KindBinding, fmt.Errorf("${%s}: %w", expr, err))
}
