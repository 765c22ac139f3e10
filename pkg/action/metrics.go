package action

import "github.com/uber-go/tally/v4"

// Metric names emitted on the scope passed to NewMetrics.
const (
	MetricActionsStarted     = "actions.started"
	MetricActionsResolved    = "actions.resolved"
	MetricActionsTerminated  = "actions.terminated"
	MetricResourcesClaimed   = "resources.claimed"
	MetricResourcesPreempted = "resources.preempted"
)

// Metrics counts action lifecycle transitions and resource claims.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	actionsStarted     tally.Counter
	actionsResolved    tally.Counter
	actionsTerminated  tally.Counter
	resourcesClaimed   tally.Counter
	resourcesPreempted tally.Counter
}

// NewMetrics creates counters on scope. A nil scope uses tally.NoopScope.
func NewMetrics(scope tally.Scope) *Metrics {
	if scope == nil {
		scope = tally.NoopScope
	}
	return &Metrics{
		actionsStarted:     scope.Counter(MetricActionsStarted),
		actionsResolved:    scope.Counter(MetricActionsResolved),
		actionsTerminated:  scope.Counter(MetricActionsTerminated),
		resourcesClaimed:   scope.Counter(MetricResourcesClaimed),
		resourcesPreempted: scope.Counter(MetricResourcesPreempted),
	}
}

func (m *Metrics) started() {
	if m != nil {
		m.actionsStarted.Inc(1)
	}
}

func (m *Metrics) resolvedAction() {
	if m != nil {
		m.actionsResolved.Inc(1)
	}
}

func (m *Metrics) terminatedAction() {
	if m != nil {
		m.actionsTerminated.Inc(1)
	}
}

func (m *Metrics) claimed() {
	if m != nil {
		m.resourcesClaimed.Inc(1)
	}
}

func (m *Metrics) preempted() {
	if m != nil {
		m.resourcesPreempted.Inc(1)
	}
}
