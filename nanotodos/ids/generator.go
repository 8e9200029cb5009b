// Package ids hands out integer identifiers for lists and todos in stores
// that do not have a backing engine to assign surrogate keys.
//
// Ids are positive and strictly increasing for the lifetime of a Generator.
// Zero is never issued, so callers can use it as the "no id" value: an
// unparseable or absent request id maps to 0 and never resolves.
package ids

import "sync/atomic"

// Generator issues unique ids. The zero value is ready to use and starts
// at 1. It is safe for concurrent use.
type Generator struct {
	last atomic.Int64
}

// NewGenerator returns a generator whose first id is next. Values below 1
// are treated as 1.
func NewGenerator(next int64) *Generator {
	g := &Generator{}
	if next > 1 {
		g.last.Store(next - 1)
	}
	return g
}

// Next returns a fresh id.
func (g *Generator) Next() int64 {
	return g.last.Add(1)
}

// Observe records an id that already exists (e.g. loaded from a persisted
// snapshot) so it is never issued again.
func (g *Generator) Observe(id int64) {
	for {
		cur := g.last.Load()
		if id <= cur {
			return
		}
		if g.last.CompareAndSwap(cur, id) {
			return
		}
	}
}

// Last returns the most recently issued or observed id, 0 if none.
func (g *Generator) Last() int64 {
	return g.last.Load()
}
