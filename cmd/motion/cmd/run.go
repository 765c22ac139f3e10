package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-drift/motion/cmd/motion/internal/config"
	"github.com/go-drift/motion/pkg/animation"
	"github.com/go-drift/motion/pkg/component"
	"github.com/go-drift/motion/pkg/document"
	"github.com/go-drift/motion/pkg/root"
)

// maxRunTime stops documents whose commands never finish.
const maxRunTime = 10 * time.Minute

func init() {
	RegisterCommand(&Command{
		Name:  "run",
		Short: "Run a document and print property changes",
		Long: `Inflate a document, run its onMount commands and step the clock,
printing every property that changes at each step.

Without --until the run stops once every command has finished.

Flags:
  --step MS          Clock step in milliseconds (default 100)
  --until MS         Stop at this time instead of when idle
  --fast             Run commands in fast mode: no animation, no delays
  --command NAME     Run the document's named command after mounting
  --arg KEY=VALUE    Argument for --command; may be repeated
  --config PATH      Use this motion.yaml instead of the nearest one`,
		Usage: "motion run <document.yaml> [flags]",
		Run:   runRun,
	})
}

type runOptions struct {
	doc     string
	config  string
	step    time.Duration
	until   time.Duration
	fast    bool
	command string
	args    map[string]any
}

func parseRunArgs(args []string) (runOptions, error) {
	opts := runOptions{step: 100 * time.Millisecond, args: map[string]any{}}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		name, value, hasValue := strings.Cut(arg, "=")
		next := func() (string, error) {
			if hasValue {
				return value, nil
			}
			if i+1 >= len(args) {
				return "", fmt.Errorf("%s requires a value", name)
			}
			i++
			return args[i], nil
		}
		switch name {
		case "--fast":
			opts.fast = true
		case "--step", "--until":
			v, err := next()
			if err != nil {
				return opts, err
			}
			ms, err := strconv.Atoi(v)
			if err != nil || ms < 0 {
				return opts, fmt.Errorf("%s: %q is not a number of milliseconds", name, v)
			}
			if name == "--step" {
				opts.step = time.Duration(ms) * time.Millisecond
			} else {
				opts.until = time.Duration(ms) * time.Millisecond
			}
		case "--command":
			v, err := next()
			if err != nil {
				return opts, err
			}
			opts.command = v
		case "--arg":
			v, err := next()
			if err != nil {
				return opts, err
			}
			key, raw, ok := strings.Cut(v, "=")
			if !ok || key == "" {
				return opts, fmt.Errorf("--arg: expected KEY=VALUE, got %q", v)
			}
			opts.args[key] = argValue(raw)
		case "--config":
			v, err := next()
			if err != nil {
				return opts, err
			}
			opts.config = v
		default:
			if strings.HasPrefix(arg, "-") {
				return opts, fmt.Errorf("unknown flag %s", arg)
			}
			if opts.doc != "" {
				return opts, fmt.Errorf("unexpected argument %q", arg)
			}
			opts.doc = arg
		}
	}
	if opts.doc == "" {
		return opts, fmt.Errorf("document path is required\n\nUsage: motion run <document.yaml> [flags]")
	}
	if opts.step <= 0 {
		return opts, fmt.Errorf("--step must be positive")
	}
	return opts, nil
}

// argValue keeps numbers numeric so bindings can do arithmetic on them.
func argValue(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func runRun(args []string) error {
	opts, err := parseRunArgs(args)
	if err != nil {
		return err
	}
	r, err := load(opts)
	if err != nil {
		return err
	}
	return play(stdout, r, opts)
}

func load(opts runOptions) (*root.Root, error) {
	cfg, err := config.Resolve(opts.config, opts.doc)
	if err != nil {
		return nil, err
	}
	doc, err := document.Load(opts.doc)
	if err != nil {
		return nil, err
	}
	return root.New(doc, cfg)
}

// play steps r until opts.until, or until nothing is running.
func play(w io.Writer, r *root.Root, opts runOptions) error {
	if opts.command != "" {
		if _, err := r.ExecuteNamed(opts.command, opts.args, opts.fast); err != nil {
			return err
		}
	}
	p := &printer{w: w, root: r}
	p.flush()
	for t := r.Now() + opts.step; ; t += opts.step {
		if opts.until > 0 && t > opts.until {
			return nil
		}
		if opts.until == 0 && r.Running() == 0 {
			return nil
		}
		if t > maxRunTime {
			return fmt.Errorf("commands still running after %v", maxRunTime)
		}
		r.UpdateTime(t)
		completeHostScrolls(r)
		p.flush()
	}
}

// completeHostScrolls plays the view host: requested scrolls land at once.
func completeHostScrolls(r *root.Root) {
	q := r.Events()
	if q == nil {
		return
	}
	for _, ev := range q.Drain() {
		if !ev.Action.IsPending() {
			continue
		}
		if c, ok := r.Components().Get(ev.Request.Target); ok {
			c.Set(component.PropScrollPosition, ev.Request.To)
		}
		ev.Action.Resolve()
	}
}

type printer struct {
	w    io.Writer
	root *root.Root
}

func (p *printer) flush() {
	for _, ch := range p.root.Dirty() {
		c, ok := p.root.Components().Get(ch.Target)
		if !ok {
			continue
		}
		name := c.ID()
		if name == "" {
			name = c.Type() + "#" + ch.Target.String()
		}
		fmt.Fprintf(p.w, "%8v  %s.%s = %s\n", p.root.Now(), name, ch.Key, format(c.Get(ch.Key)))
	}
}

func format(v any) string {
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case animation.Transform:
		return t.String() + " " + animation.FormatMatrix(t.Matrix())
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}
