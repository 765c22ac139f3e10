// Package root owns a running document: its component tree, the clock that
// drives it and every action started against it.
//
// A Root is single-threaded. It remembers the goroutine that created it and
// rejects calls from any other one with a thread error, so hosts must funnel
// commands and time updates through their UI loop.
package root

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/petermattis/goid"
	"github.com/uber-go/tally/v4"

	"github.com/go-drift/motion/pkg/action"
	"github.com/go-drift/motion/pkg/clock"
	"github.com/go-drift/motion/pkg/command"
	"github.com/go-drift/motion/pkg/component"
	"github.com/go-drift/motion/pkg/document"
	"github.com/go-drift/motion/pkg/errors"
)

// Option configures a Root.
type Option func(*Root)

// WithMetrics reports action and arbitration counters on scope, tagged
// with the session id.
func WithMetrics(scope tally.Scope) Option {
	return func(r *Root) {
		r.scope = scope
	}
}

// WithViewHost routes host-driven scrolls to h instead of an EventQueue.
func WithViewHost(h command.ViewHost) Option {
	return func(r *Root) {
		r.host = h
	}
}

// Root is a live document.
type Root struct {
	doc      *document.Document
	cfg      Config
	settings command.Settings
	session  string
	owner    int64

	clk     *clock.Virtual
	arb     *action.Arbiter
	reg     *component.Registry
	host    command.ViewHost
	events  *EventQueue
	scope   tally.Scope
	metrics *action.Metrics

	top     *component.Component
	running []*action.Action
}

// New inflates doc and runs its onMount commands.
func New(doc *document.Document, cfg Config, opts ...Option) (*Root, error) {
	settings, err := cfg.Settings()
	if err != nil {
		return nil, err
	}
	if err := document.CheckVersion(doc.Version, cfg.MinDocumentVersion); err != nil {
		return nil, err
	}

	r := &Root{
		doc:      doc,
		cfg:      cfg,
		settings: settings,
		session:  uuid.NewString(),
		owner:    goid.Get(),
		clk:      clock.NewVirtual(),
		reg:      component.NewRegistry(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.scope == nil {
		r.scope = tally.NoopScope
	}
	r.metrics = action.NewMetrics(r.scope.Tagged(map[string]string{"session": r.session}))
	r.arb = action.NewArbiter(r.metrics)
	if r.host == nil {
		r.events = &EventQueue{metrics: r.metrics}
		r.host = r.events
	}

	if err := r.inflate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Root) inflate() error {
	top, err := r.doc.Build(r.reg)
	if err != nil {
		return err
	}
	r.top = top
	r.reg.ClearDirty()
	if len(r.doc.OnMount) > 0 {
		r.ExecuteCommands(r.doc.Resolve(r.doc.OnMount, nil), false)
	}
	return nil
}

// Clock implements command.Context.
func (r *Root) Clock() clock.Clock { return r.clk }

// Arbiter implements command.Context.
func (r *Root) Arbiter() *action.Arbiter { return r.arb }

// Components implements command.Context.
func (r *Root) Components() *component.Registry { return r.reg }

// Settings implements command.Context.
func (r *Root) Settings() command.Settings { return r.settings }

// ViewHost implements command.Context.
func (r *Root) ViewHost() command.ViewHost { return r.host }

// Metrics implements command.Context.
func (r *Root) Metrics() *action.Metrics { return r.metrics }

// Session returns the id that tags this root's metrics.
func (r *Root) Session() string { return r.session }

// Document returns the document currently inflated.
func (r *Root) Document() *document.Document { return r.doc }

// Top returns the root component of the inflated tree.
func (r *Root) Top() *component.Component { return r.top }

// Events returns the default view host, or nil when WithViewHost was used.
func (r *Root) Events() *EventQueue { return r.events }

// Now returns the current document time.
func (r *Root) Now() time.Duration { return r.clk.Now() }

// NextDeadline reports the next time a pending timeout fires.
func (r *Root) NextDeadline() (time.Duration, bool) { return r.clk.NextDeadline() }

// Running returns the number of command batches still pending.
func (r *Root) Running() int { return len(r.running) }

// ExecuteCommands runs cmds one after another and returns the action for
// the whole batch. Commands that cannot be built are reported and skipped.
// It returns nil when called off the owning goroutine.
func (r *Root) ExecuteCommands(cmds []command.Command, fastMode bool) *action.Action {
	if !r.checkThread("ExecuteCommands") {
		return nil
	}
	steps := make([]action.Step, len(cmds))
	for i := range cmds {
		cmd := &cmds[i]
		steps[i] = func() *action.Action {
			a, err := command.Make(r, cmd, fastMode)
			if err != nil {
				if e, ok := err.(*errors.Error); ok {
					errors.Report(e)
				} else {
					errors.Report(errors.New("root.ExecuteCommands", errors.KindCommand, err))
				}
				return nil
			}
			return a
		}
	}
	batch := action.MakeSequence(r.metrics, steps...)
	if batch.IsPending() {
		r.running = append(r.running, batch)
		batch.Settled(func() { r.forget(batch) })
	}
	return batch
}

// ExecuteNamed runs the document's named command with args.
func (r *Root) ExecuteNamed(name string, args map[string]any, fastMode bool) (*action.Action, error) {
	if !r.checkThread("ExecuteNamed") {
		return nil, errors.New("root.ExecuteNamed", errors.KindThread, errOffThread)
	}
	if _, ok := r.doc.Macros[name]; !ok {
		return nil, errors.New("root.ExecuteNamed", errors.KindCommand, fmt.Errorf("%w: %q", errors.ErrUnknownCommand, name))
	}
	raw := document.Raw{"type": name}
	for k, v := range args {
		raw[k] = v
	}
	return r.ExecuteCommands(r.doc.Resolve([]document.Raw{raw}, nil), fastMode), nil
}

func (r *Root) forget(a *action.Action) {
	for i, b := range r.running {
		if b == a {
			r.running = append(r.running[:i], r.running[i+1:]...)
			return
		}
	}
}

// CancelExecution terminates every running batch, oldest first. Each
// terminated command leaves its properties at their final values.
func (r *Root) CancelExecution() {
	if !r.checkThread("CancelExecution") {
		return
	}
	pending := append([]*action.Action(nil), r.running...)
	for _, a := range pending {
		a.Terminate()
	}
}

// UpdateTime advances the document clock to t, firing due timeouts and
// animation ticks.
func (r *Root) UpdateTime(t time.Duration) {
	if !r.checkThread("UpdateTime") {
		return
	}
	r.clk.AdvanceTo(t)
}

// Reinflate replaces the document. Everything running is cancelled, every
// resource claim and timer is dropped and the tree is rebuilt. Time keeps
// running from where it was.
func (r *Root) Reinflate(doc *document.Document) error {
	if !r.checkThread("Reinflate") {
		return errors.New("root.Reinflate", errors.KindThread, errOffThread)
	}
	if err := document.CheckVersion(doc.Version, r.cfg.MinDocumentVersion); err != nil {
		return err
	}
	r.CancelExecution()
	r.arb.Reset()
	r.clk.Reset()
	r.reg.Clear()
	r.running = nil
	if r.events != nil {
		for _, ev := range r.events.Drain() {
			ev.Action.Terminate()
		}
	}
	r.doc = doc
	return r.inflate()
}

// Dirty returns the properties changed since the previous call.
func (r *Root) Dirty() []component.Change {
	changes := r.reg.Dirty()
	r.reg.ClearDirty()
	return changes
}

var errOffThread = stderrors.New("called off the owning goroutine")

func (r *Root) checkThread(op string) bool {
	if id := goid.Get(); id != r.owner {
		errors.Report(errors.New("root."+op, errors.KindThread,
			fmt.Errorf("called from goroutine %d, root belongs to %d", id, r.owner)))
		return false
	}
	return true
}
