package visibility

import (
	"github.com/akavel/polyclip-go"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Polygon is the visibility region as a list of vertices in clockwise
// screen order. The closing edge back to the first vertex is implicit.
type Polygon struct {
	Vertices []Point `json:"vertices"`
}

// Len returns the number of vertices
func (p Polygon) Len() int {
	return len(p.Vertices)
}

// IsEmpty reports whether the polygon encloses nothing
func (p Polygon) IsEmpty() bool {
	return len(p.ring()) < 3
}

// ring drops a repeated closing vertex
func (p Polygon) ring() []Point {
	v := p.Vertices
	if n := len(v); n > 1 && v[0].Equal(v[n-1]) {
		return v[:n-1]
	}
	return v
}

// Ring converts the polygon to a closed orb.Ring
func (p Polygon) Ring() orb.Ring {
	v := p.ring()
	r := make(orb.Ring, 0, len(v)+1)
	for _, pt := range v {
		r = append(r, pt.Orb())
	}
	if len(v) > 0 {
		r = append(r, v[0].Orb())
	}
	return r
}

// Orb converts the polygon to a single-ring orb.Polygon
func (p Polygon) Orb() orb.Polygon {
	return orb.Polygon{p.Ring()}
}

// PolygonFromRing converts an orb.Ring, dropping its closing point
func PolygonFromRing(r orb.Ring) Polygon {
	out := Polygon{Vertices: make([]Point, 0, len(r))}
	for _, pt := range r {
		out.Vertices = append(out.Vertices, PointFromOrb(pt))
	}
	out.Vertices = out.ring()
	return out
}

// Area returns the enclosed area
func (p Polygon) Area() float64 {
	if p.IsEmpty() {
		return 0
	}
	a := planar.Area(p.Ring())
	if a < 0 {
		return -a
	}
	return a
}

// Bound returns the bounding box
func (p Polygon) Bound() orb.Bound {
	return p.Ring().Bound()
}

// Contains checks if a point is inside the polygon using ray casting
func (p Polygon) Contains(point Point) bool {
	v := p.ring()
	n := len(v)
	if n < 3 {
		return false
	}

	count := 0
	for i := 0; i < n; i++ {
		v1 := v[i]
		v2 := v[(i+1)%n]

		// Check if the ray from point to the right crosses the edge
		if (v1.Y > point.Y) != (v2.Y > point.Y) {
			slope := (point.X-v1.X)*(v2.Y-v1.Y) - (v2.X-v1.X)*(point.Y-v1.Y)
			if v2.Y > v1.Y {
				if slope > 0 {
					count++
				}
			} else {
				if slope < 0 {
					count++
				}
			}
		}
	}

	return count%2 == 1
}

// IsSimple reports whether no two non-adjacent sides of the polygon cross
func (p Polygon) IsSimple() bool {
	v := p.ring()
	n := len(v)
	for i := 0; i < n; i++ {
		s1 := LineSegment{P1: v[i], P2: v[(i+1)%n]}
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue
			}
			s2 := LineSegment{P1: v[j], P2: v[(j+1)%n]}
			if DoSegmentsIntersect(s1, s2, Robust) {
				return false
			}
		}
	}
	return true
}

// signedArea is positive for clockwise screen order
func signedArea(v []Point) float64 {
	var sum float64
	for i := range v {
		j := (i + 1) % len(v)
		sum += v[i].X*v[j].Y - v[j].X*v[i].Y
	}
	return sum / 2
}

// clockwiseFrom reorders a ring into clockwise screen order
func clockwiseFrom(v []Point) []Point {
	if signedArea(v) >= 0 {
		return v
	}
	out := make([]Point, len(v))
	for i, pt := range v {
		out[len(v)-1-i] = pt
	}
	return out
}

func (p Polygon) contour() polyclip.Contour {
	v := p.ring()
	c := make(polyclip.Contour, len(v))
	for i, pt := range v {
		c[i] = polyclip.Point{X: pt.X, Y: pt.Y}
	}
	return c
}

func polygonFromContour(c polyclip.Contour) Polygon {
	out := Polygon{Vertices: make([]Point, len(c))}
	for i, pt := range c {
		out.Vertices[i] = Point{X: pt.X, Y: pt.Y}
	}
	out.Vertices = clockwiseFrom(out.ring())
	return out
}
