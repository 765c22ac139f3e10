package component

import (
	"maps"
	"slices"
)

// Change records that a property of a component was written.
type Change struct {
	Target Handle
	Key    PropertyKey
}

// Registry owns every live component of one document.
type Registry struct {
	store      handleStore
	slots      []*Component
	byID       map[string]Handle
	dirty      []Change
	dirtySet   map[Change]struct{}
	onDestroy  map[Handle]map[int]func()
	nextListen int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:      make(map[string]Handle),
		dirtySet:  make(map[Change]struct{}),
		onDestroy: make(map[Handle]map[int]func()),
	}
}

// Create adds a component. When parent is a live handle the new component is
// appended to its children. An empty id is allowed; such components cannot
// be found by id.
func (r *Registry) Create(id, typ string, parent Handle) *Component {
	h := r.store.create()
	c := &Component{
		id:       id,
		typ:      typ,
		handle:   h,
		props:    make(map[PropertyKey]any),
		registry: r,
	}
	for int(h.ID) > len(r.slots) {
		r.slots = append(r.slots, nil)
	}
	r.slots[h.ID-1] = c
	if id != "" {
		r.byID[id] = h
	}
	if p, ok := r.Get(parent); ok {
		c.parent = parent
		p.children = append(p.children, h)
	}
	return c
}

// Get resolves h. It fails for handles of destroyed components.
func (r *Registry) Get(h Handle) (*Component, bool) {
	if !r.store.isAlive(h) {
		return nil, false
	}
	return r.slots[h.ID-1], true
}

// IsAlive reports whether h refers to a live component.
func (r *Registry) IsAlive(h Handle) bool {
	return r.store.isAlive(h)
}

// Find returns the live component with the given document id.
func (r *Registry) Find(id string) (*Component, bool) {
	h, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return r.Get(h)
}

// Len returns the number of live components.
func (r *Registry) Len() int {
	n := 0
	for _, c := range r.slots {
		if c != nil {
			n++
		}
	}
	return n
}

// OnDestroy registers fn to run when the component behind h is destroyed.
// It returns a function that removes the listener.
func (r *Registry) OnDestroy(h Handle, fn func()) func() {
	if !r.store.isAlive(h) || fn == nil {
		return func() {}
	}
	listeners := r.onDestroy[h]
	if listeners == nil {
		listeners = make(map[int]func())
		r.onDestroy[h] = listeners
	}
	id := r.nextListen
	r.nextListen++
	listeners[id] = fn
	return func() {
		delete(listeners, id)
	}
}

// Destroy removes the component and its descendants, children first.
// Destroy listeners run after the handle stops resolving.
func (r *Registry) Destroy(h Handle) bool {
	c, ok := r.Get(h)
	if !ok {
		return false
	}
	for _, child := range c.Children() {
		r.Destroy(child)
	}
	if p, ok := r.Get(c.parent); ok {
		for i, ch := range p.children {
			if ch == h {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
	}
	r.store.destroy(h)
	r.slots[h.ID-1] = nil
	if c.id != "" && r.byID[c.id] == h {
		delete(r.byID, c.id)
	}
	listeners := r.onDestroy[h]
	delete(r.onDestroy, h)
	for _, id := range slices.Sorted(maps.Keys(listeners)) {
		listeners[id]()
	}
	return true
}

// Clear destroys every component.
func (r *Registry) Clear() {
	for _, c := range r.slots {
		if c != nil && !c.parent.Valid() {
			r.Destroy(c.handle)
		}
	}
	for _, c := range r.slots {
		if c != nil {
			r.Destroy(c.handle)
		}
	}
}

func (r *Registry) markDirty(h Handle, key PropertyKey) {
	ch := Change{Target: h, Key: key}
	if _, ok := r.dirtySet[ch]; ok {
		return
	}
	r.dirtySet[ch] = struct{}{}
	r.dirty = append(r.dirty, ch)
}

// Dirty returns the changes recorded since the last ClearDirty, in the order
// they first occurred.
func (r *Registry) Dirty() []Change {
	return append([]Change(nil), r.dirty...)
}

// ClearDirty forgets recorded changes.
func (r *Registry) ClearDirty() {
	r.dirty = nil
	r.dirtySet = make(map[Change]struct{})
}
