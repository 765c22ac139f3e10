package action

import (
	"fmt"
	"sort"

	"github.com/go-drift/motion/pkg/component"
)

// ResourceKind identifies what an action mutates on its target.
type ResourceKind int

const (
	// ResourceScrollPosition is the scroll offset of a scrollable component.
	ResourceScrollPosition ResourceKind = iota
	// ResourceAnimatedProperty is an animatable property such as opacity or
	// transform. The property name is the key's sub-key.
	ResourceAnimatedProperty
	// ResourceProperty is any other writable property.
	ResourceProperty
)

// String returns the kind's name as used in resource keys.
func (k ResourceKind) String() string {
	switch k {
	case ResourceScrollPosition:
		return "scroll-position"
	case ResourceAnimatedProperty:
		return "animated-property"
	case ResourceProperty:
		return "property"
	default:
		return fmt.Sprintf("ResourceKind(%d)", int(k))
	}
}

// ResourceKey identifies a contended (component, resource) pair.
type ResourceKey struct {
	Target   component.Handle
	Kind     ResourceKind
	Property component.PropertyKey
}

// String formats the key as target/kind[/property].
func (k ResourceKey) String() string {
	if k.Property != "" {
		return fmt.Sprintf("%s/%s/%s", k.Target, k.Kind, k.Property)
	}
	return fmt.Sprintf("%s/%s", k.Target, k.Kind)
}

// KeyFor returns the resource key guarding writes of property on target.
func KeyFor(target component.Handle, property component.PropertyKey) ResourceKey {
	switch property {
	case component.PropScrollPosition:
		return ResourceKey{Target: target, Kind: ResourceScrollPosition}
	case component.PropOpacity, component.PropTransform:
		return ResourceKey{Target: target, Kind: ResourceAnimatedProperty, Property: property}
	default:
		return ResourceKey{Target: target, Kind: ResourceProperty, Property: property}
	}
}

type holder struct {
	action *Action
	seq    uint64
}

// Arbiter enforces at most one live holder per resource key.
//
// The table does not own its actions: an entry disappears as soon as its
// holder resolves or is terminated.
type Arbiter struct {
	holders map[ResourceKey]holder
	seq     uint64
	metrics *Metrics
}

// NewArbiter returns an empty arbiter. A nil metrics disables
// instrumentation.
func NewArbiter(m *Metrics) *Arbiter {
	return &Arbiter{holders: make(map[ResourceKey]holder), metrics: m}
}

// Claim makes a the holder of key. A different live holder is terminated
// first, so its terminate callbacks have finished before a is installed.
// Claiming never fails. A claim by an action that is already terminal only
// evicts the previous holder.
func (r *Arbiter) Claim(key ResourceKey, a *Action) {
	if a == nil {
		return
	}
	if prev, ok := r.holders[key]; ok {
		if prev.action == a {
			return
		}
		delete(r.holders, key)
		if prev.action.IsPending() {
			r.metrics.preempted()
			prev.action.Terminate()
		}
	}
	r.metrics.claimed()
	if !a.IsPending() {
		return
	}
	// A terminate callback of the evicted holder may itself have claimed the
	// key; the newest claim still wins.
	if prev, ok := r.holders[key]; ok && prev.action != a && prev.action.IsPending() {
		delete(r.holders, key)
		r.metrics.preempted()
		prev.action.Terminate()
	}
	r.seq++
	r.holders[key] = holder{action: a, seq: r.seq}
	a.Settled(func() { r.Release(key, a) })
}

// Holder returns the live action holding key.
func (r *Arbiter) Holder(key ResourceKey) (*Action, bool) {
	h, ok := r.holders[key]
	if !ok || !h.action.IsPending() {
		return nil, false
	}
	return h.action, true
}

// Release removes key if a still holds it.
func (r *Arbiter) Release(key ResourceKey, a *Action) {
	if h, ok := r.holders[key]; ok && h.action == a {
		delete(r.holders, key)
	}
}

// Len returns the number of held keys.
func (r *Arbiter) Len() int {
	return len(r.holders)
}

// Reset terminates every holder, oldest claim first, and empties the table.
// It is used when a document is torn down or reinflated.
func (r *Arbiter) Reset() {
	entries := make([]holder, 0, len(r.holders))
	for _, h := range r.holders {
		entries = append(entries, h)
	}
	r.holders = make(map[ResourceKey]holder)
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	for _, h := range entries {
		h.action.Terminate()
	}
	r.holders = make(map[ResourceKey]holder)
}
