package visibility

import "math"

// Ray is a half-line from Origin through Toward, optionally capped at Length
type Ray struct {
	Origin Point
	Toward Point
	Length float64 // 0 means unbounded
}

// RayTo builds an uncapped ray from origin through target
func RayTo(origin, target Point) Ray {
	return Ray{Origin: origin, Toward: target}
}

// At returns the point at distance d along the ray
func (r Ray) At(d float64) Point {
	dir := r.Toward.sub(r.Origin)
	l := math.Hypot(dir.X, dir.Y)
	if l == 0 {
		return r.Origin
	}
	return r.Origin.add(dir.scale(d / l))
}

// Intersect returns where the ray meets the edge, if it does within Length
func (r Ray) Intersect(e *Edge) (Point, bool) {
	p, t, u, ok := lineIntersection(r.Origin, r.Toward, e.A.Point, e.B.Point)
	if !ok || t < 0 || u < -Epsilon || u > 1+Epsilon {
		return Point{}, false
	}
	if r.Length > 0 && r.Origin.Distance(p) > r.Length+Epsilon {
		return Point{}, false
	}
	return p, true
}

// project meets the ray with the edge's supporting line, ignoring the
// segment's extent. Used for edges already known to cross the ray.
func (r Ray) project(e *Edge) (Point, bool) {
	p, t, _, ok := lineIntersection(r.Origin, r.Toward, e.A.Point, e.B.Point)
	if !ok || t < 0 {
		return Point{}, false
	}
	return p, true
}
