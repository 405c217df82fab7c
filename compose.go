package visibility

import (
	"errors"
	"fmt"
	"math"

	"github.com/akavel/polyclip-go"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
)

// Shape is a boundary the visibility polygon can be cut down to
type Shape interface {
	Bound() orb.Bound
	Outline() Polygon
}

// Circle is a disc approximated with the same arc padding the sweep uses
type Circle struct {
	Center  Point
	Radius  float64
	Density int
}

// Bound implements Shape
func (c Circle) Bound() orb.Bound {
	return RegionAround(c.Center, c.Radius)
}

// Outline implements Shape
func (c Circle) Outline() Polygon {
	if c.Radius <= 0 {
		return Polygon{}
	}
	return Polygon{Vertices: newArcPadder(c.Center, c.Radius, c.Density).circle()}
}

// Rect is an axis aligned boundary
type Rect struct {
	Min, Max Point
}

// Bound implements Shape
func (r Rect) Bound() orb.Bound {
	return orb.Bound{Min: r.Min.Orb(), Max: r.Max.Orb()}
}

// Outline implements Shape, clockwise from the top left corner
func (r Rect) Outline() Polygon {
	if r.Max.X-r.Min.X < Epsilon || r.Max.Y-r.Min.Y < Epsilon {
		return Polygon{}
	}
	return Polygon{Vertices: []Point{
		r.Min,
		{X: r.Max.X, Y: r.Min.Y},
		r.Max,
		{X: r.Min.X, Y: r.Max.Y},
	}}
}

// Outline implements Shape
func (p Polygon) Outline() Polygon {
	return p
}

// Compose computes the visibility polygon by sweeping without a radius and
// intersecting the result with each shape. A configured radius becomes one
// more Circle shape. The walls are prefiltered with the box shared by all
// shapes.
func Compose(origin Point, walls CandidateSource, cfg Config, shapes ...Shape) (*Result, error) {
	if err := cfg.Validate(); err != nil && !(errors.Is(err, ErrUnbounded) && len(shapes) > 0) {
		return nil, err
	}
	if cfg.Radius > 0 {
		shapes = append(shapes, Circle{Center: origin, Radius: cfg.Radius, Density: cfg.Density})
	}
	if len(shapes) == 0 {
		return Compute(origin, walls, cfg)
	}

	outlines := make([]Polygon, len(shapes))
	var box orb.Bound
	for i, sh := range shapes {
		outline := sh.Outline()
		if outline.IsEmpty() {
			return nil, fmt.Errorf("shape %d: %w", i, ErrOpenBoundary)
		}
		if !outline.Contains(origin) {
			return nil, fmt.Errorf("shape %d: %w", i, ErrBoundaryOrigin)
		}
		outlines[i] = outline

		b := sh.Bound()
		if i == 0 {
			box = b
			continue
		}
		var ok bool
		if box, ok = intersectBounds(box, b); !ok {
			return nil, fmt.Errorf("shape %d: %w", i, ErrBoundaryOrigin)
		}
	}

	// The sweep needs the origin strictly inside its bounds
	box = box.Pad(math.Max(1, box.Max[0]-box.Min[0]) * 0.01)
	if hasArea(cfg.Bounds) {
		var ok bool
		if box, ok = intersectBounds(box, cfg.Bounds); !ok {
			return nil, fmt.Errorf("%w: boundary shapes lie outside the scene", ErrOriginOutside)
		}
	}

	sweepCfg := cfg
	sweepCfg.Radius = 0
	sweepCfg.Bounds = box
	res, err := Compute(origin, walls, sweepCfg)
	if err != nil {
		return nil, err
	}

	poly, failed := clipShapes(res.Polygon, shapes, outlines, origin, -1)
	if failed >= 0 {
		c, round := shapes[failed].(Circle)
		if !round || !c.Center.Equal(origin) {
			return nil, fmt.Errorf("shape %d: %w", failed, ErrClipFailed)
		}
		// The clipper lost the disc, sweep with its radius instead
		sweepCfg.Radius, sweepCfg.Density = c.Radius, c.Density
		if res, err = Compute(origin, walls, sweepCfg); err != nil {
			return nil, err
		}
		if poly, failed = clipShapes(res.Polygon, shapes, outlines, origin, failed); failed >= 0 {
			return nil, fmt.Errorf("shape %d: %w", failed, ErrClipFailed)
		}
	}
	if cfg.limitsAngle() {
		poly = rootAt(poly, origin)
	}
	res.Polygon = poly

	visible := res.Visible[:0]
	for _, ep := range res.Visible {
		if covers(poly, ep.Point) {
			visible = append(visible, ep)
		}
	}
	res.Visible = visible
	return res, nil
}

// clipShapes cuts poly down to every shape but skip. It returns the index
// of the first shape whose clip failed, or -1.
func clipShapes(poly Polygon, shapes []Shape, outlines []Polygon, origin Point, skip int) (Polygon, int) {
	for i, sh := range shapes {
		if i == skip {
			continue
		}
		clipped, ok := clipTo(poly, sh, outlines[i], origin)
		if !ok {
			return poly, i
		}
		poly = clipped
	}
	return poly, -1
}

// clipTo intersects poly with one boundary outline. Both contain the origin,
// so a result that is empty or misses the origin means the clipper failed.
func clipTo(poly Polygon, sh Shape, outline Polygon, origin Point) (Polygon, bool) {
	if poly.IsEmpty() {
		return Polygon{}, false
	}
	if r, ok := sh.(Rect); ok {
		ring := clip.Ring(r.Bound(), poly.Ring())
		out := PolygonFromRing(ring)
		out.Vertices = clockwiseFrom(out.Vertices)
		return out, covers(out, origin)
	}

	subject := polyclip.Polygon{poly.contour()}
	clipping := polyclip.Polygon{outline.contour()}
	result := subject.Construct(polyclip.INTERSECTION, clipping)

	var found Polygon
	pieces := 0
	for _, c := range result {
		candidate := polygonFromContour(c)
		if candidate.IsEmpty() {
			continue
		}
		pieces++
		if found.IsEmpty() && covers(candidate, origin) {
			found = candidate
		}
	}
	if found.IsEmpty() {
		return Polygon{}, false
	}
	// A disc around the origin cuts a star shaped polygon into one piece
	if _, round := sh.(Circle); round && pieces > 1 {
		return Polygon{}, false
	}
	return found, true
}

func covers(p Polygon, pt Point) bool {
	return !p.IsEmpty() && (p.Contains(pt) || p.onBoundary(pt))
}

// rootAt rotates the ring to start and end at p, inserting p when it lies on
// a side rather than a corner
func rootAt(poly Polygon, p Point) Polygon {
	v := poly.ring()
	n := len(v)
	if n == 0 {
		return poly
	}

	at := -1
	for i, pt := range v {
		if pt.Equal(p) {
			at = i
			break
		}
	}
	if at < 0 {
		for i := 0; i < n; i++ {
			if segmentDistance(p, v[i], v[(i+1)%n]) < Epsilon {
				withP := make([]Point, 0, n+1)
				withP = append(withP, v[:i+1]...)
				withP = append(withP, p)
				withP = append(withP, v[i+1:]...)
				v, at, n = withP, i+1, n+1
				break
			}
		}
	}
	if at < 0 {
		return poly
	}

	out := make([]Point, 0, n+1)
	out = append(out, v[at:]...)
	out = append(out, v[:at]...)
	out = append(out, v[at])
	return Polygon{Vertices: out}
}

// onBoundary reports whether pt lies on one of the polygon's sides
func (p Polygon) onBoundary(pt Point) bool {
	v := p.ring()
	n := len(v)
	for i := 0; i < n; i++ {
		if segmentDistance(pt, v[i], v[(i+1)%n]) < Epsilon*math.Max(1, pt.Distance(v[i])) {
			return true
		}
	}
	return false
}
