package visibility

import (
	"container/heap"
)

const (
	none = -1

	locFree   = -1
	locFirst  = -2
	locSecond = -3
)

// edgeHeap implements heap.Interface over edge handles. loc is shared with
// the owning ActiveEdges and records each handle's index in the heap.
type edgeHeap struct {
	items []int
	loc   []int
	less  func(a, b int) bool
}

func (h edgeHeap) Len() int { return len(h.items) }

func (h edgeHeap) Less(i, j int) bool {
	return h.less(h.items[i], h.items[j])
}

func (h edgeHeap) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.loc[h.items[i]] = i
	h.loc[h.items[j]] = j
}

func (h *edgeHeap) Push(x interface{}) {
	handle := x.(int)
	h.loc[handle] = len(h.items)
	h.items = append(h.items, handle)
}

func (h *edgeHeap) Pop() interface{} {
	old := h.items
	n := len(old)
	handle := old[n-1]
	h.loc[handle] = locFree
	h.items = old[0 : n-1]
	return handle
}

// ActiveEdges holds the edges cut by the current sweep ray, nearest first.
// The nearest edge is kept outside the heap so Closest is a field read; the
// runner-up is only pulled out of the heap when someone asks for it.
type ActiveEdges struct {
	origin Point
	orient OrientFunc
	arena  []*Edge
	loc    []int

	first     int
	second    int
	hasSecond bool // second holds the runner-up, possibly none
	rest      edgeHeap
}

// NewActiveEdges creates an empty structure over the given edge arena.
// Each edge's Handle must be its index in edges.
func NewActiveEdges(origin Point, edges []*Edge, orient OrientFunc) *ActiveEdges {
	a := &ActiveEdges{
		origin: origin,
		orient: orient.orDefault(),
		arena:  edges,
		loc:    make([]int, len(edges)),
		first:  none,
		second: none,
	}
	for i := range a.loc {
		a.loc[i] = locFree
	}
	a.rest = edgeHeap{loc: a.loc, less: a.less}
	return a
}

func (a *ActiveEdges) less(h1, h2 int) bool {
	return compareEdges(a.arena[h1], a.arena[h2], a.origin, a.orient) < 0
}

// Len returns the number of tracked edges
func (a *ActiveEdges) Len() int {
	n := a.rest.Len()
	if a.first != none {
		n++
	}
	if a.hasSecond && a.second != none {
		n++
	}
	return n
}

// Contains reports whether e is tracked
func (a *ActiveEdges) Contains(e *Edge) bool {
	return a.loc[e.Handle] != locFree
}

// Insert starts tracking e. Inserting a tracked edge does nothing.
func (a *ActiveEdges) Insert(e *Edge) {
	h := e.Handle
	if a.loc[h] != locFree {
		return
	}

	if a.first == none {
		a.setFirst(h)
		return
	}

	if a.less(h, a.first) {
		demoted := a.first
		a.setFirst(h)
		if a.hasSecond {
			if a.second != none {
				heap.Push(&a.rest, a.second)
			}
			a.setSecond(demoted)
		} else {
			heap.Push(&a.rest, demoted)
		}
		return
	}

	if a.hasSecond && (a.second == none || a.less(h, a.second)) {
		if a.second != none {
			heap.Push(&a.rest, a.second)
		}
		a.setSecond(h)
		return
	}

	heap.Push(&a.rest, h)
}

// Remove stops tracking e and reports whether it was tracked
func (a *ActiveEdges) Remove(e *Edge) bool {
	h := e.Handle
	switch pos := a.loc[h]; pos {
	case locFree:
		return false

	case locFirst:
		a.loc[h] = locFree
		if a.hasSecond {
			a.first = a.second
			if a.first != none {
				a.loc[a.first] = locFirst
			}
		} else {
			a.first = a.pull()
			if a.first != none {
				a.loc[a.first] = locFirst
			}
		}
		a.second, a.hasSecond = none, false

	case locSecond:
		a.loc[h] = locFree
		a.second, a.hasSecond = none, false

	default:
		heap.Remove(&a.rest, pos)
	}
	return true
}

// Closest returns the nearest tracked edge, or nil
func (a *ActiveEdges) Closest() *Edge {
	if a.first == none {
		return nil
	}
	return a.arena[a.first]
}

// SecondClosest returns the runner-up, deriving it from the heap on first use
func (a *ActiveEdges) SecondClosest() *Edge {
	if !a.hasSecond {
		a.second, a.hasSecond = a.pull(), true
		if a.second != none {
			a.loc[a.second] = locSecond
		}
	}
	if a.second == none {
		return nil
	}
	return a.arena[a.second]
}

// AddFromEndpoint advances the structure past the given endpoints, which
// share one sweep direction. Edges the sweep leaves at these endpoints are
// removed before the edges it enters are inserted.
func (a *ActiveEdges) AddFromEndpoint(eps ...*Endpoint) {
	for _, ep := range eps {
		for _, e := range ep.Edges {
			if e.exit == ep {
				a.Remove(e)
			}
		}
	}
	for _, ep := range eps {
		for _, e := range ep.Edges {
			if e.enter == ep {
				a.Insert(e)
			}
		}
	}
}

// Edges lists the tracked edges, nearest first. It does not disturb the structure.
func (a *ActiveEdges) Edges() []*Edge {
	var out []*Edge
	if a.first != none {
		out = append(out, a.arena[a.first])
	}
	if a.hasSecond && a.second != none {
		out = append(out, a.arena[a.second])
	}

	rest := edgeHeap{items: append([]int(nil), a.rest.items...), loc: make([]int, len(a.loc)), less: a.less}
	heap.Init(&rest)
	for rest.Len() > 0 {
		out = append(out, a.arena[heap.Pop(&rest).(int)])
	}
	return out
}

func (a *ActiveEdges) setFirst(h int) {
	a.first = h
	a.loc[h] = locFirst
}

func (a *ActiveEdges) setSecond(h int) {
	a.second = h
	a.loc[h] = locSecond
}

// pull pops the nearest edge out of the heap
func (a *ActiveEdges) pull() int {
	if a.rest.Len() == 0 {
		return none
	}
	return heap.Pop(&a.rest).(int)
}
