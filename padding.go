package visibility

import (
	"math"
	"sort"
)

// bezierCircle is the control point offset that makes a cubic Bezier track a
// quarter circle most closely
const bezierCircle = 0.551915024494

// DefaultDensity is the number of arc points per quarter turn
const DefaultDensity = 24

// quarterPoint evaluates the canonical unit quarter arc running from (0, 1)
// to (1, 0) at t
func quarterPoint(t float64) (x, y float64) {
	u := 1 - t
	x = 3*bezierCircle*u*u*t + 3*u*t*t + t*t*t
	y = 3*bezierCircle*t*t*u + 3*t*u*u + u*u*u
	return x, y
}

// quadrants mirror the canonical arc into the four quarter turns, clockwise
// from due west: north-west, north-east, south-east, south-west.
var quadrants = [4]func(x, y float64) Point{
	func(x, y float64) Point { return Point{X: -y, Y: -x} },
	func(x, y float64) Point { return Point{X: x, Y: -y} },
	func(x, y float64) Point { return Point{X: y, Y: x} },
	func(x, y float64) Point { return Point{X: -x, Y: y} },
}

// arcPadder fills gaps in the polygon with arc points at a fixed radius
type arcPadder struct {
	origin Point
	radius float64
	unit   []Point   // unit circle samples, clockwise from due west
	turn   []float64 // their clockwise angle from due west
}

func newArcPadder(origin Point, radius float64, density int) *arcPadder {
	if density <= 0 {
		density = DefaultDensity
	}
	p := &arcPadder{
		origin: origin,
		radius: radius,
		unit:   make([]Point, 0, 4*density),
		turn:   make([]float64, 0, 4*density),
	}
	step := 1 / float64(density)
	for _, mirror := range quadrants {
		for i := 0; i < density; i++ {
			u := mirror(quarterPoint(float64(i) * step))
			p.unit = append(p.unit, u)
			p.turn = append(p.turn, turnFromWest(u))
		}
	}
	return p
}

// turnFromWest is the clockwise screen angle of direction v, measured from due west, in [0, 2π)
func turnFromWest(v Point) float64 {
	a := math.Atan2(v.Y, v.X) - math.Pi
	if a < 0 {
		a += 2 * math.Pi
	}
	if a >= 2*math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

// at returns the point on the circle in the direction of p
func (p *arcPadder) at(dir Point) Point {
	return RayTo(p.origin, dir).At(p.radius)
}

// pad appends the arc points lying strictly inside the clockwise turn from
// the direction of from to the direction of to. With full set the turn is a
// whole revolution back to from.
func (p *arcPadder) pad(dst []Point, from, to Point, full bool) []Point {
	const slack = 1e-9

	a0 := turnFromWest(from.sub(p.origin))
	span := 2 * math.Pi
	if !full {
		span = turnFromWest(to.sub(p.origin)) - a0
		if span <= 0 {
			span += 2 * math.Pi
		}
	}

	n := len(p.unit)
	first := sort.SearchFloat64s(p.turn, a0+slack)
	for k := 0; k < n; k++ {
		i := (first + k) % n
		rel := p.turn[i] - a0
		if rel < 0 {
			rel += 2 * math.Pi
		}
		if rel <= slack {
			continue
		}
		if rel >= span-slack {
			break
		}
		dst = append(dst, p.origin.add(p.unit[i].scale(p.radius)))
	}
	return dst
}

// circle returns the whole approximated circle, clockwise from due west
func (p *arcPadder) circle() []Point {
	west := Point{X: p.origin.X - p.radius, Y: p.origin.Y}
	return p.pad([]Point{west}, west, west, true)
}
