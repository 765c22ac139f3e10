// Package component is the minimal component hierarchy the scheduler runs
// against: a registry of components addressed by generation-checked handles
// and a property store with change tracking.
//
// Layout, data binding and rendering live outside this package. The
// scheduler only needs to read and write properties and to know whether its
// target still exists, which is what [Handle] provides: a handle to a
// destroyed component never resolves again, even if its slot is reused.
package component

import "fmt"

// Handle is a non-owning reference to a component. The zero Handle is
// invalid.
type Handle struct {
	ID  uint32
	Gen uint32
}

// Valid reports whether h was issued by a registry.
func (h Handle) Valid() bool {
	return h.ID > 0
}

// String formats the handle as id@generation.
func (h Handle) String() string {
	return fmt.Sprintf("%d@%d", h.ID, h.Gen)
}

// handleStore tracks slot generations and free slots.
type handleStore struct {
	gen  []uint32
	free []uint32
}

func (s *handleStore) create() Handle {
	var id uint32
	if n := len(s.free); n > 0 {
		id = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.gen = append(s.gen, 0)
		id = uint32(len(s.gen))
	}
	return Handle{ID: id, Gen: s.gen[id-1]}
}

func (s *handleStore) destroy(h Handle) bool {
	if !s.isAlive(h) {
		return false
	}
	s.gen[h.ID-1]++
	s.free = append(s.free, h.ID)
	return true
}

func (s *handleStore) isAlive(h Handle) bool {
	if h.ID == 0 || int(h.ID) > len(s.gen) {
		return false
	}
	return s.gen[h.ID-1] == h.Gen
}
