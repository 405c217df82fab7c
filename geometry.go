package visibility

import (
	"math"

	"github.com/paulmach/orb"
)

// Epsilon is the tolerance for point equality and radius tests
const Epsilon = 1e-8

// Point is a location in scene coordinates, y grows downward
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// AlmostEqual reports whether a and b differ by less than Epsilon
func AlmostEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Equal checks if both coordinates match within Epsilon
func (p Point) Equal(other Point) bool {
	return AlmostEqual(p.X, other.X) && AlmostEqual(p.Y, other.Y)
}

// Distance calculates Euclidean distance between two points
func (p Point) Distance(other Point) float64 {
	return math.Sqrt(p.dist2(other))
}

func (p Point) dist2(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return dx*dx + dy*dy
}

func (p Point) sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

func (p Point) add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

func (p Point) scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// lerp returns the point at parameter t on the segment p→q
func (p Point) lerp(q Point, t float64) Point {
	return Point{X: p.X + (q.X-p.X)*t, Y: p.Y + (q.Y-p.Y)*t}
}

// Orb converts the point to an orb.Point
func (p Point) Orb() orb.Point {
	return orb.Point{p.X, p.Y}
}

// PointFromOrb converts an orb.Point
func PointFromOrb(p orb.Point) Point {
	return Point{X: p[0], Y: p[1]}
}

func cross(u, v Point) float64 {
	return u.X*v.Y - u.Y*v.X
}

func dot(u, v Point) float64 {
	return u.X*v.X + u.Y*v.Y
}

// sameDirection reports whether b lies on the ray from origin through a.
// b may stray from the ray by Epsilon per unit of its distance from origin,
// which absorbs the rounding in rays built from angles.
func sameDirection(origin, a, b Point) bool {
	d, v := a.sub(origin), b.sub(origin)
	if dot(d, v) <= 0 {
		return false
	}
	return math.Abs(cross(d, v)) <= Epsilon*math.Hypot(d.X, d.Y)*math.Max(1, math.Hypot(v.X, v.Y))
}

// LineSegment represents a line segment between two points
type LineSegment struct {
	P1, P2 Point
}

// DoSegmentsIntersect checks if two line segments cross or touch.
// Segments that only share an endpoint do not count.
func DoSegmentsIntersect(seg1, seg2 LineSegment, orient OrientFunc) bool {
	p1, p2 := seg1.P1, seg1.P2
	p3, p4 := seg2.P1, seg2.P2

	if p1.Equal(p3) || p1.Equal(p4) || p2.Equal(p3) || p2.Equal(p4) {
		return false
	}

	d1 := sign(orient(p3, p4, p1))
	d2 := sign(orient(p3, p4, p2))
	d3 := sign(orient(p1, p2, p3))
	d4 := sign(orient(p1, p2, p4))

	if d1*d2 < 0 && d3*d4 < 0 {
		return true
	}

	// Collinear cases
	if d1 == 0 && onSegment(p3, p4, p1) {
		return true
	}
	if d2 == 0 && onSegment(p3, p4, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, p3) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, p4) {
		return true
	}

	return false
}

// onSegment checks if q, already known to be collinear with pr, lies within its extent
func onSegment(p, r, q Point) bool {
	return q.X <= math.Max(p.X, r.X) && q.X >= math.Min(p.X, r.X) &&
		q.Y <= math.Max(p.Y, r.Y) && q.Y >= math.Min(p.Y, r.Y)
}

// lineIntersection intersects the lines through a→b and c→d. t is the
// parameter along a→b, u the parameter along c→d.
func lineIntersection(a, b, c, d Point) (p Point, t, u float64, ok bool) {
	r := b.sub(a)
	s := d.sub(c)
	denom := cross(r, s)
	if denom == 0 {
		return Point{}, 0, 0, false
	}
	ca := c.sub(a)
	t = cross(ca, s) / denom
	u = cross(ca, r) / denom
	return a.lerp(b, t), t, u, true
}

// projectParam returns the parameter of p projected onto the line a→b
func projectParam(p, a, b Point) float64 {
	ab := b.sub(a)
	l2 := dot(ab, ab)
	if l2 == 0 {
		return 0
	}
	return dot(p.sub(a), ab) / l2
}

// segmentDistance is the distance from p to the closest point of segment a→b
func segmentDistance(p, a, b Point) float64 {
	t := math.Max(0, math.Min(1, projectParam(p, a, b)))
	return p.Distance(a.lerp(b, t))
}

// circleParams returns the parameters along a→b where the line meets the
// circle of radius r around c, in increasing order. A tangent line yields one value.
func circleParams(a, b, c Point, r float64) []float64 {
	ab := b.sub(a)
	l2 := dot(ab, ab)
	if l2 == 0 {
		return nil
	}

	// Closest point of the line to the centre
	tc := projectParam(c, a, b)
	lec2 := c.dist2(a.lerp(b, tc))
	r2 := r * r

	switch {
	case AlmostEqual(math.Sqrt(lec2), r):
		return []float64{tc}
	case lec2 > r2:
		return nil
	}

	dt := math.Sqrt((r2 - lec2) / l2)
	return []float64{tc - dt, tc + dt}
}

// hasArea reports whether b is a usable, non-degenerate rectangle
func hasArea(b orb.Bound) bool {
	return b.Max[0] > b.Min[0] && b.Max[1] > b.Min[1]
}

// intersectBounds returns the overlap of two rectangles; ok is false when they are disjoint
func intersectBounds(a, b orb.Bound) (orb.Bound, bool) {
	out := orb.Bound{
		Min: orb.Point{math.Max(a.Min[0], b.Min[0]), math.Max(a.Min[1], b.Min[1])},
		Max: orb.Point{math.Min(a.Max[0], b.Max[0]), math.Min(a.Max[1], b.Max[1])},
	}
	return out, out.Min[0] <= out.Max[0] && out.Min[1] <= out.Max[1]
}

// strictlyInside reports whether p lies inside b and not on its border
func strictlyInside(b orb.Bound, p Point) bool {
	return p.X > b.Min[0] && p.X < b.Max[0] && p.Y > b.Min[1] && p.Y < b.Max[1]
}
