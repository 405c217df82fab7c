package visibility

// Edge is a blocking segment as seen by one sweep. Its endpoints are shared
// with every other edge meeting at the same location.
type Edge struct {
	A, B   *Endpoint
	Wall   Wall
	Handle int // index into the sweep's edge arena

	// RadiusIntersections are the points where the edge meets the radius circle
	RadiusIntersections []Point

	enter, exit *Endpoint // sweep order: the sweep reaches enter first
	orient      OrientFunc
}

// NewEdge joins two endpoints. Zero-length edges are rejected.
func NewEdge(a, b *Endpoint, w Wall, orient OrientFunc) (*Edge, error) {
	if a == b || a.Point.Equal(b.Point) {
		return nil, ErrDegenerateEdge
	}
	return &Edge{A: a, B: b, Wall: w, Handle: -1, orient: orient.orDefault()}, nil
}

// Other returns the endpoint at the opposite end from ep
func (e *Edge) Other(ep *Endpoint) *Endpoint {
	if ep == e.A {
		return e.B
	}
	return e.A
}

// WhichSide reports the side of A→B that p is on
func (e *Edge) WhichSide(p Point) Side {
	return sideOf(e.A.Point, e.B.Point, p, e.orient)
}

// IsBlocking decides whether the edge blocks t for an observer at origin
func (e *Edge) IsBlocking(t Type, origin Point) bool {
	return blocks(e.Wall, e.WhichSide(origin), t)
}

// IntersectRadius returns the 0, 1 or 2 points where the segment meets
// the circle of the given radius around origin
func (e *Edge) IntersectRadius(origin Point, radius float64) []Point {
	a, b := e.A.Point, e.B.Point
	slack := Epsilon / a.Distance(b)

	var out []Point
	for _, t := range circleParams(a, b, origin, radius) {
		if t < -slack || t > 1+slack {
			continue
		}
		out = append(out, a.lerp(b, t))
	}
	return out
}

// ContainsPoint reports whether p lies on the segment within Epsilon
func (e *Edge) ContainsPoint(p Point) bool {
	return segmentDistance(p, e.A.Point, e.B.Point) < Epsilon
}

// InFrontOf reports whether the edge stands strictly between origin and p,
// hiding p. Sightlines that only graze an end of the edge are not blocked.
func (e *Edge) InFrontOf(p, origin Point) bool {
	a, b := e.A.Point, e.B.Point
	if p.Equal(a) || p.Equal(b) || p.Equal(origin) {
		return false
	}
	if sign(e.orient(a, b, origin))*sign(e.orient(a, b, p)) >= 0 {
		return false
	}
	return sign(e.orient(origin, p, a))*sign(e.orient(origin, p, b)) < 0
}

// setSweepOrder records which end the clockwise sweep reaches first.
// The edge must not be collinear with origin.
func (e *Edge) setSweepOrder(origin Point) {
	if e.orient(origin, e.A.Point, e.B.Point) > 0 {
		e.enter, e.exit = e.A, e.B
	} else {
		e.enter, e.exit = e.B, e.A
	}
}

// compareEdges orders two non-crossing edges that are cut by a common ray
// from origin: -1 if e1 is nearer, 1 if e2 is nearer.
func compareEdges(e1, e2 *Edge, origin Point, orient OrientFunc) int {
	if c := lineSide(e1, e2, origin, orient); c != 0 {
		return c
	}
	if c := lineSide(e2, e1, origin, orient); c != 0 {
		return -c
	}
	// Collinear with each other; only the shared corner is ever common
	ka, kb := minKey(e1), minKey(e2)
	switch {
	case ka.less(kb):
		return -1
	case kb.less(ka):
		return 1
	}
	return 0
}

// lineSide looks at e2 from the supporting line of e1. If e2 lies wholly on
// the origin's side it is nearer (1); wholly on the far side it is farther (-1).
// A straddling e2 is undecided (0).
func lineSide(e1, e2 *Edge, origin Point, orient OrientFunc) int {
	a, b := e1.A.Point, e1.B.Point
	so := sign(orient(a, b, origin))
	sa := sign(orient(a, b, e2.A.Point))
	sb := sign(orient(a, b, e2.B.Point))

	switch {
	case sa == 0 && sb == 0:
		return 0
	case (sa == so || sa == 0) && (sb == so || sb == 0):
		return 1
	case (sa == -so || sa == 0) && (sb == -so || sb == 0):
		return -1
	}
	return 0
}

func minKey(e *Edge) Key {
	if e.B.Key.less(e.A.Key) {
		return e.B.Key
	}
	return e.A.Key
}
