package action

// MakeAll returns an action that resolves once every child has settled.
// Terminating it terminates every child that is still pending.
//
// A child that is terminated on its own (for example preempted by a competing
// claim) counts as settled, so a parallel group never stalls on a lost
// resource.
func MakeAll(m *Metrics, children ...*Action) *Action {
	all := New(m)
	remaining := len(children)
	if remaining == 0 {
		all.Resolve()
		return all
	}
	for _, child := range children {
		child.Settled(func() {
			remaining--
			if remaining == 0 {
				all.Resolve()
			}
		})
	}
	all.OnTerminate(func() {
		for _, child := range children {
			child.Terminate()
		}
	})
	return all
}

// Step produces the next action of a sequence. Returning nil skips the step.
type Step func() *Action

// MakeSequence runs steps one after another, starting each when the previous
// one settles. The returned action resolves after the last step settles;
// terminating it terminates the running step and skips the rest.
func MakeSequence(m *Metrics, steps ...Step) *Action {
	index := 0
	return MakeSequenceFunc(m, func() (*Action, bool) {
		if index >= len(steps) {
			return nil, false
		}
		index++
		return steps[index-1](), true
	})
}

// MakeSequenceFunc is MakeSequence over steps produced on demand: next
// returns the following step's action, or false once there are no more.
// Nothing is buffered, so an arbitrarily long sequence runs in constant
// space.
func MakeSequenceFunc(m *Metrics, next func() (*Action, bool)) *Action {
	seq := New(m)
	var current *Action

	var advance func()
	advance = func() {
		for {
			if seq.IsTerminated() {
				return
			}
			a, ok := next()
			if !ok {
				break
			}
			if a == nil || !a.IsPending() {
				continue
			}
			current = a
			a.Settled(func() {
				if current == a {
					current = nil
				}
				advance()
			})
			return
		}
		seq.Resolve()
	}

	seq.OnTerminate(func() {
		if current != nil {
			current.Terminate()
		}
	})
	advance()
	return seq
}
