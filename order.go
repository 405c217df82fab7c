package visibility

import (
	"math"
	"sort"
)

// clockwise orders points by screen angle around origin, starting due west
// and turning through north, east and south.
type clockwise struct {
	origin Point
	orient OrientFunc
}

// band places p in one of four quarter-turn bands: 0 west→north,
// 1 north→east, 2 east→south, 3 south→west. Points level with the origin
// belong to the upper half.
func (c clockwise) band(p Point) int {
	if p.Y <= c.origin.Y {
		if p.X < c.origin.X {
			return 0
		}
		return 1
	}
	if p.X >= c.origin.X {
		return 2
	}
	return 3
}

// angle compares the directions of a and b: -1 when a comes first, 1 when
// b does, 0 when they share a direction.
func (c clockwise) angle(a, b Point) int {
	if ba, bb := c.band(a), c.band(b); ba != bb {
		if ba < bb {
			return -1
		}
		return 1
	}
	// Within a band, b is later when it is clockwise of origin→a
	return -sign(c.orient(c.origin, a, b))
}

// compare orders endpoints by direction, then nearest first
func (c clockwise) compare(a, b *Endpoint) int {
	if d := c.angle(a.Point, b.Point); d != 0 {
		return d
	}
	switch {
	case a.d2 < b.d2:
		return -1
	case a.d2 > b.d2:
		return 1
	case a.Key.less(b.Key):
		return -1
	case b.Key.less(a.Key):
		return 1
	}
	return 0
}

// sort orders eps clockwise and rotates the result so that it starts with
// the first endpoint at or after the direction of start
func (c clockwise) sort(eps []*Endpoint, start Point) {
	sort.Slice(eps, func(i, j int) bool {
		return c.compare(eps[i], eps[j]) < 0
	})

	cut := sort.Search(len(eps), func(i int) bool {
		return c.angle(eps[i].Point, start) >= 0
	})
	if cut > 0 && cut < len(eps) {
		rotated := make([]*Endpoint, 0, len(eps))
		rotated = append(rotated, eps[cut:]...)
		rotated = append(rotated, eps[:cut]...)
		copy(eps, rotated)
	}
}

// group is a run of endpoints sharing one sweep direction, nearest first
type group struct {
	dir    Point // any point along the direction
	points []*Endpoint
	start  bool // the field-of-view start ray
	end    bool // the field-of-view end ray
}

// groups splits sorted endpoints into runs of equal direction
func (c clockwise) groups(eps []*Endpoint) []group {
	var out []group
	for _, ep := range eps {
		if n := len(out); n > 0 && c.angle(out[n-1].dir, ep.Point) == 0 {
			out[n-1].points = append(out[n-1].points, ep)
			continue
		}
		out = append(out, group{dir: ep.Point, points: []*Endpoint{ep}})
	}
	return out
}

// sector is the field of view between two rays, swept clockwise from start to end
type sector struct {
	origin     Point
	start, end Point // far points along the boundary rays
	span       float64
	orient     OrientFunc
}

// newSector builds the view cone for an angle and rotation in degrees.
// Screen angles have 0° pointing east and grow clockwise.
func newSector(origin Point, angle, rotation, reach float64, orient OrientFunc) sector {
	aMin := normalizeDegrees(rotation - angle/2)
	return sector{
		origin: origin,
		start:  origin.add(heading(aMin).scale(reach)),
		end:    origin.add(heading(aMin + angle).scale(reach)),
		span:   angle,
		orient: orient,
	}
}

// heading is the unit direction of a screen angle in degrees. Quarter turns
// come out exact so that rays along the axes stay axis aligned.
func heading(deg float64) Point {
	deg = normalizeDegrees(deg)
	switch deg {
	case 0:
		return Point{X: 1}
	case 90:
		return Point{Y: 1}
	case 180:
		return Point{X: -1}
	case 270:
		return Point{Y: -1}
	}
	sin, cos := math.Sincos(toRadians(deg))
	return Point{X: cos, Y: sin}
}

type placement int

const (
	outside placement = iota
	inside
	onStart
	onEnd
)

// place classifies p against the two rays
func (s sector) place(p Point) placement {
	if sameDirection(s.origin, s.start, p) {
		return onStart
	}
	if sameDirection(s.origin, s.end, p) {
		return onEnd
	}

	os := sign(s.orient(s.origin, s.start, p))
	oe := sign(s.orient(s.origin, s.end, p))
	switch {
	case s.span < 180:
		if os > 0 && oe < 0 {
			return inside
		}
	case s.span == 180:
		if os > 0 {
			return inside
		}
	default:
		// Wider than a half turn: outside only within the gap between end and start
		if !(oe > 0 && os < 0) {
			return inside
		}
	}
	return outside
}

// bound returns the bounding box of the sector cut at its reach
func (s sector) bound() (minX, minY, maxX, maxY float64) {
	minX, maxX = s.origin.X, s.origin.X
	minY, maxY = s.origin.Y, s.origin.Y
	extend := func(p Point) {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	extend(s.start)
	extend(s.end)

	reach := s.origin.Distance(s.start)
	for _, axis := range []Point{{X: -1}, {Y: -1}, {X: 1}, {Y: 1}} {
		p := s.origin.add(axis.scale(reach))
		if s.place(p) == inside {
			extend(p)
		}
	}
	return
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// normalizeDegrees maps a into [0, 360)
func normalizeDegrees(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a -= 360
	}
	return a
}
