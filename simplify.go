package visibility

import "math"

// Simplify drops vertices that lie within epsilon of the outline kept
// around them (Douglas-Peucker). Arc padding produces most of the vertices,
// so this mainly thins radius limited polygons before they go over the wire.
func (p Polygon) Simplify(epsilon float64) Polygon {
	v := p.ring()
	if len(v) <= 3 || epsilon <= 0 {
		return p
	}

	closed := make([]Point, 0, len(v)+1)
	closed = append(closed, v...)
	closed = append(closed, v[0])
	kept := douglasPeucker(closed, epsilon)
	kept = kept[:len(kept)-1]
	if len(kept) < 3 {
		return p
	}

	// Angle limited polygons start and end on the origin
	if len(v) != len(p.Vertices) {
		kept = append(kept, kept[0])
	}
	return Polygon{Vertices: kept}
}

// SimplifyPolygons applies Simplify to each polygon
func SimplifyPolygons(polygons []Polygon, epsilon float64) []Polygon {
	out := make([]Polygon, len(polygons))
	for i, poly := range polygons {
		out[i] = poly.Simplify(epsilon)
	}
	return out
}

type span struct {
	first, last int
}

// douglasPeucker keeps both ends of the path and every vertex that is
// farther than epsilon from the chord of the span it splits
func douglasPeucker(points []Point, epsilon float64) []Point {
	n := len(points)
	if n <= 2 {
		return points
	}

	keep := make([]bool, n)
	keep[0], keep[n-1] = true, true
	pending := []span{{0, n - 1}}
	for len(pending) > 0 {
		s := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		split, worst := -1, epsilon
		for i := s.first + 1; i < s.last; i++ {
			if d := lineDistance(points[i], points[s.first], points[s.last]); d > worst {
				split, worst = i, d
			}
		}
		if split < 0 {
			continue
		}
		keep[split] = true
		pending = append(pending, span{s.first, split}, span{split, s.last})
	}

	out := make([]Point, 0, n)
	for i, pt := range points {
		if keep[i] {
			out = append(out, pt)
		}
	}
	return out
}

// lineDistance is the distance from p to the line through a and b, or to a
// when the two coincide
func lineDistance(p, a, b Point) float64 {
	d := b.sub(a)
	l := math.Hypot(d.X, d.Y)
	if l == 0 {
		return p.Distance(a)
	}
	return math.Abs(cross(d, p.sub(a))) / l
}

// EstimateSimplificationEpsilon is the sagitta of one arc padding step at
// the given radius and density
func EstimateSimplificationEpsilon(radius float64, density int) float64 {
	if density <= 0 {
		density = DefaultDensity
	}
	if radius <= 0 {
		return Epsilon
	}
	step := toRadians(90 / float64(density))
	return radius * (1 - math.Cos(step/2))
}
