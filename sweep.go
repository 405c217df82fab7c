package visibility

import (
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb"
)

// Result is the outcome of one sweep
type Result struct {
	Polygon Polygon
	Edges   []*Edge     // blocking edges after clipping and splitting
	Visible []*Endpoint // endpoints that appear as polygon vertices
	Faults  []Fault
}

// Compute sweeps clockwise around origin over the walls the source offers
// and returns the visibility polygon.
func Compute(origin Point, walls CandidateSource, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s, err := newSweep(origin, cfg.withDefaults())
	if err != nil {
		return nil, err
	}

	var candidates []Wall
	if walls != nil {
		candidates = walls.WallsIn(s.region)
	}
	s.prepare(candidates)
	s.run()

	return &Result{
		Polygon: Polygon{Vertices: s.out},
		Edges:   s.edges,
		Visible: s.visible,
		Faults:  s.faults,
	}, nil
}

// sweep holds the state of a single Compute call
type sweep struct {
	cfg       Config
	origin    Point
	orient    OrientFunc
	radius    float64 // the configured radius, or the reach of the scene bounds
	limited   bool    // a radius is configured
	hasBounds bool
	fov       *sector // nil when vision is not angle limited
	region    orb.Bound

	order  clockwise
	arc    *arcPadder
	points *endpointSet
	edges  []*Edge
	active *ActiveEdges

	out     []Point
	visible []*Endpoint
	faults  []Fault
}

func newSweep(origin Point, cfg Config) (*sweep, error) {
	s := &sweep{
		cfg:       cfg,
		origin:    origin,
		orient:    cfg.Orient,
		limited:   cfg.Radius > 0,
		hasBounds: hasArea(cfg.Bounds),
		order:     clockwise{origin: origin, orient: cfg.Orient},
		points:    newEndpointSet(),
	}
	if s.hasBounds && !strictlyInside(cfg.Bounds, origin) {
		return nil, fmt.Errorf("%w: (%v, %v) not in %v", ErrOriginOutside, origin.X, origin.Y, cfg.Bounds)
	}

	s.radius = cfg.Radius
	if !s.limited {
		s.radius = farthestCorner(cfg.Bounds, origin)
	}

	s.region = orb.Bound{
		Min: orb.Point{origin.X - s.radius, origin.Y - s.radius},
		Max: orb.Point{origin.X + s.radius, origin.Y + s.radius},
	}
	if s.hasBounds {
		s.region, _ = intersectBounds(s.region, cfg.Bounds)
	}
	if !inRange(s.region) {
		return nil, fmt.Errorf("%w: view around (%v, %v) passes ±%g", ErrOutOfRange, origin.X, origin.Y, MaxCoordinate)
	}

	if cfg.limitsAngle() {
		fov := newSector(origin, cfg.Angle, cfg.Rotation, math.Max(s.radius, 1), s.orient)
		s.fov = &fov
		minX, minY, maxX, maxY := fov.bound()
		cone := orb.Bound{Min: orb.Point{minX, minY}, Max: orb.Point{maxX, maxY}}
		if r, ok := intersectBounds(s.region, cone); ok {
			s.region = r
		}
	}

	s.arc = newArcPadder(origin, s.radius, cfg.Density)
	return s, nil
}

// prepare builds the edge arena from the candidate walls
func (s *sweep) prepare(walls []Wall) {
	segs := s.collect(walls)
	splitSegments(segs, s.orient)
	s.buildEdges(segs)
	s.active = NewActiveEdges(s.origin, s.edges, s.orient)
}

func (s *sweep) run() {
	eps := s.points.connected()
	reach2 := (s.radius + Epsilon*math.Max(1, s.radius)) * (s.radius + Epsilon*math.Max(1, s.radius))
	for _, ep := range eps {
		ep.d2 = ep.Point.dist2(s.origin)
		ep.InsideRadius = !s.limited || ep.d2 <= reach2
	}

	start := Point{X: s.origin.X - math.Max(s.radius, 1), Y: s.origin.Y}
	var groups []group
	if s.fov != nil {
		start = s.fov.start
		groups = s.fovGroups(eps)
	} else {
		s.order.sort(eps, start)
		groups = s.order.groups(eps)
	}

	s.prime(start)

	if len(groups) == 0 {
		s.closeEmpty()
		return
	}
	for i := range groups {
		s.step(groups, i)
	}
	s.finish(groups)
}

// fovGroups keeps the endpoints inside the field of view, ordered from the
// start ray, and brackets them with the two boundary ray groups
func (s *sweep) fovGroups(eps []*Endpoint) []group {
	first := group{dir: s.fov.start, start: true}
	last := group{dir: s.fov.end, end: true}

	interior := make([]*Endpoint, 0, len(eps))
	for _, ep := range eps {
		switch s.fov.place(ep.Point) {
		case onStart:
			ep.MinLimit = true
			first.points = append(first.points, ep)
		case onEnd:
			ep.MaxLimit = true
			last.points = append(last.points, ep)
		case inside:
			interior = append(interior, ep)
		}
	}
	byDistance(first.points)
	byDistance(last.points)
	s.order.sort(interior, s.fov.start)

	groups := make([]group, 0, len(interior)+2)
	groups = append(groups, first)
	groups = append(groups, s.order.groups(interior)...)
	return append(groups, last)
}

// prime seeds the active edges with every edge the sweep is already inside
// when it sets off along the start direction
func (s *sweep) prime(start Point) {
	for _, e := range s.edges {
		if s.orient(s.origin, e.enter.Point, start) > 0 && s.orient(s.origin, start, e.exit.Point) >= 0 {
			s.active.Insert(e)
		}
	}
}

// step processes one direction. The boundary along that direction runs from
// the hit on the edge nearest just before it to the hit on the edge nearest
// just after it, passing any endpoints in between.
func (s *sweep) step(groups []group, i int) {
	g := groups[i]

	before := s.active.Closest()
	var near Point
	if g.start {
		near = s.origin
	} else {
		if before == nil && s.limited && i > 0 {
			// Nothing blocked vision since the previous direction
			s.out = s.arc.pad(s.out, groups[i-1].dir, g.dir, false)
		}
		near = s.hit(before, g)
	}

	s.active.AddFromEndpoint(g.points...)

	var far Point
	if g.end {
		far = s.origin
	} else {
		far = s.hit(s.active.Closest(), g)
	}

	s.emitGroup(g, near, far)
}

// hit is where the sweep ray through g meets e, or the radius when e is nil
func (s *sweep) hit(e *Edge, g group) Point {
	if e == nil {
		if !s.limited {
			s.fault(g.dir, "no blocking edge along the sweep ray")
		}
		return s.arc.at(g.dir)
	}
	for _, ep := range g.points {
		if ep == e.A || ep == e.B {
			return ep.Point
		}
	}
	if p, ok := RayTo(s.origin, g.dir).project(e); ok {
		return p
	}

	s.fault(g.dir, fmt.Sprintf("nearest edge (%v)-(%v) misses the sweep ray", e.A.Point, e.B.Point))
	return s.arc.at(g.dir)
}

// emitGroup writes the radial run from near to far, including the group's
// endpoints that lie on it
func (s *sweep) emitGroup(g group, near, far Point) {
	dn, df := s.origin.Distance(near), s.origin.Distance(far)
	lo, hi := math.Min(dn, df), math.Max(dn, df)
	slack := Epsilon * math.Max(1, hi)

	s.emit(near)
	n := len(g.points)
	for k := 0; k < n; k++ {
		ep := g.points[k]
		if dn > df {
			ep = g.points[n-1-k]
		}
		d := math.Sqrt(ep.d2)
		if d < lo-slack || d > hi+slack {
			continue
		}
		s.emit(ep.Point)
		s.visible = append(s.visible, ep)
	}
	s.emit(far)
}

// finish closes the ring for sweeps without an angle limit
func (s *sweep) finish(groups []group) {
	if s.fov != nil {
		return
	}

	if s.limited && s.active.Closest() == nil {
		last, first := groups[len(groups)-1], groups[0]
		whole := len(groups) == 1 || s.order.angle(last.dir, first.dir) == 0
		s.out = s.arc.pad(s.out, last.dir, first.dir, whole)
	}

	if n := len(s.out); n > 1 && s.out[0].Equal(s.out[n-1]) {
		s.out = s.out[:n-1]
	}
}

// closeEmpty handles a sweep with no edges at all
func (s *sweep) closeEmpty() {
	if s.limited {
		s.out = s.arc.circle()
		return
	}
	s.fault(s.origin, "no edges to sweep, scene bounds were dropped")
}

func (s *sweep) emit(p Point) {
	if n := len(s.out); n > 0 && s.out[n-1].Equal(p) {
		return
	}
	s.out = append(s.out, p)
}

func (s *sweep) fault(dir Point, reason string) {
	f := Fault{Origin: s.origin, Direction: dir, Reason: reason}
	s.faults = append(s.faults, f)
	s.cfg.OnFault(f)
}

func byDistance(eps []*Endpoint) {
	sort.Slice(eps, func(i, j int) bool { return eps[i].d2 < eps[j].d2 })
}

func inRange(b orb.Bound) bool {
	for _, v := range []float64{b.Min[0], b.Min[1], b.Max[0], b.Max[1]} {
		if math.Abs(v) > MaxCoordinate {
			return false
		}
	}
	return true
}

// farthestCorner is the distance from p to the farthest corner of b
func farthestCorner(b orb.Bound, p Point) float64 {
	var d float64
	for _, c := range []Point{
		{X: b.Min[0], Y: b.Min[1]}, {X: b.Max[0], Y: b.Min[1]},
		{X: b.Max[0], Y: b.Max[1]}, {X: b.Min[0], Y: b.Max[1]},
	} {
		d = math.Max(d, p.Distance(c))
	}
	return d
}
