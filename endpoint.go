package visibility

import "math"

// Key identifies a physical location by its coordinates rounded to Epsilon
type Key struct {
	X, Y int64
}

// MaxCoordinate bounds the coordinates a sweep accepts. Past it the Epsilon
// grid no longer fits in an int64.
const MaxCoordinate = 9e10

// KeyOf rounds p onto the Epsilon grid. Coordinates beyond MaxCoordinate
// saturate at the ends of the int64 range.
func KeyOf(p Point) Key {
	return Key{X: gridOf(p.X), Y: gridOf(p.Y)}
}

func gridOf(v float64) int64 {
	g := math.Round(v / Epsilon)
	switch {
	case g >= math.MaxInt64:
		return math.MaxInt64
	case g <= math.MinInt64:
		return math.MinInt64
	}
	return int64(g)
}

func (k Key) less(o Key) bool {
	if k.X != o.X {
		return k.X < o.X
	}
	return k.Y < o.Y
}

// Endpoint is a wall end shared by every edge meeting at that location
type Endpoint struct {
	Point
	Key          Key
	Edges        []*Edge
	InsideRadius bool
	MinLimit     bool // lies on the field-of-view start ray
	MaxLimit     bool // lies on the field-of-view end ray

	d2 float64 // squared distance to the sweep origin
}

// endpointSet hands out one Endpoint per location
type endpointSet struct {
	byKey map[Key]*Endpoint
	list  []*Endpoint
}

func newEndpointSet() *endpointSet {
	return &endpointSet{byKey: make(map[Key]*Endpoint)}
}

// get returns the endpoint at p, creating it if needed. A point within
// Epsilon of an existing endpoint can round into a neighbouring cell, so
// those are checked before a new endpoint is made.
func (s *endpointSet) get(p Point) *Endpoint {
	k := KeyOf(p)
	if ep, ok := s.byKey[k]; ok {
		return ep
	}
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			if ep, ok := s.byKey[Key{X: k.X + dx, Y: k.Y + dy}]; ok && ep.Point.Equal(p) {
				return ep
			}
		}
	}

	ep := &Endpoint{Point: p, Key: k}
	s.byKey[k] = ep
	s.list = append(s.list, ep)
	return ep
}

// connected returns the endpoints that ended up with at least one edge
func (s *endpointSet) connected() []*Endpoint {
	out := make([]*Endpoint, 0, len(s.list))
	for _, ep := range s.list {
		if len(ep.Edges) > 0 {
			out = append(out, ep)
		}
	}
	return out
}
