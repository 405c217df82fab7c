package visibility

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
)

// segment is a clipped wall piece waiting to be split into edges
type segment struct {
	a, b Point
	wall Wall
	cuts []cut
}

type cut struct {
	t float64
	p Point
}

// cutAt records a split at p if p lies inside the segment
func (s *segment) cutAt(p Point) {
	if p.Equal(s.a) || p.Equal(s.b) {
		return
	}
	if segmentDistance(p, s.a, s.b) >= Epsilon {
		return
	}
	s.cuts = append(s.cuts, cut{t: projectParam(p, s.a, s.b), p: p})
}

// pieces returns the sub-segments between consecutive cuts
func (s *segment) pieces() [][2]Point {
	sort.Slice(s.cuts, func(i, j int) bool { return s.cuts[i].t < s.cuts[j].t })

	out := make([][2]Point, 0, len(s.cuts)+1)
	prev := s.a
	for _, c := range s.cuts {
		if c.p.Equal(prev) {
			continue
		}
		out = append(out, [2]Point{prev, c.p})
		prev = c.p
	}
	if !prev.Equal(s.b) {
		out = append(out, [2]Point{prev, s.b})
	}
	return out
}

func (s *segment) less(o *segment) bool {
	switch {
	case s.a.X != o.a.X:
		return s.a.X < o.a.X
	case s.a.Y != o.a.Y:
		return s.a.Y < o.a.Y
	case s.b.X != o.b.X:
		return s.b.X < o.b.X
	}
	return s.b.Y < o.b.Y
}

// segmentEntry wraps a segment index for R-tree storage
type segmentEntry struct {
	index int
	bbox  rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *segmentEntry) Bounds() rtreego.Rect {
	return e.bbox
}

// collect filters the candidate walls down to the ones that block from
// origin and clips them to the scene bounds and the radius
func (s *sweep) collect(walls []Wall) []segment {
	segs := make([]segment, 0, len(walls)+4)
	for _, w := range walls {
		if w.A.Equal(w.B) {
			continue
		}
		side := w.WhichSide(s.origin, s.orient)
		// Walls in line with the origin cover no angle, whatever their policy
		if side == SideBoth || !blocks(w, side, s.cfg.Type) {
			continue
		}

		a, b, ok := w.A, w.B, true
		if s.hasBounds {
			a, b, ok = clipToBound(s.cfg.Bounds, a, b)
		}
		if ok && s.limited {
			a, b, ok = clipToCircle(a, b, s.origin, s.radius)
		}
		if ok {
			segs = append(segs, segment{a: a, b: b, wall: w})
		}
	}

	if s.hasBounds {
		for _, w := range boundsWalls(s.cfg.Bounds) {
			a, b, ok := w.A, w.B, true
			if s.limited {
				a, b, ok = clipToCircle(a, b, s.origin, s.radius)
			}
			if ok {
				segs = append(segs, segment{a: a, b: b, wall: w})
			}
		}
	}
	return segs
}

// splitSegments cuts every segment where another one crosses it or ends on
// it, so that the resulting edges only ever meet at shared endpoints
func splitSegments(segs []segment, orient OrientFunc) {
	tree := rtreego.NewTree(2, 25, 50)
	rects := make([]rtreego.Rect, len(segs))
	for i := range segs {
		bbox, err := segmentBoundingBox(segs[i].a, segs[i].b)
		if err != nil {
			continue
		}
		rects[i] = bbox
		tree.Insert(&segmentEntry{index: i, bbox: bbox})
	}

	for i := range segs {
		for _, item := range tree.SearchIntersect(rects[i]) {
			j := item.(*segmentEntry).index
			if j <= i {
				continue
			}
			crossSegments(&segs[i], &segs[j], orient)
		}
	}
}

func crossSegments(s1, s2 *segment, orient OrientFunc) {
	// Fixed order keeps the computed crossing independent of input order
	if s2.less(s1) {
		s1, s2 = s2, s1
	}

	// T-junctions and collinear overlaps
	s1.cutAt(s2.a)
	s1.cutAt(s2.b)
	s2.cutAt(s1.a)
	s2.cutAt(s1.b)

	o1 := sign(orient(s1.a, s1.b, s2.a))
	o2 := sign(orient(s1.a, s1.b, s2.b))
	o3 := sign(orient(s2.a, s2.b, s1.a))
	o4 := sign(orient(s2.a, s2.b, s1.b))
	if o1*o2 >= 0 || o3*o4 >= 0 {
		return
	}
	if p, _, _, ok := lineIntersection(s1.a, s1.b, s2.a, s2.b); ok {
		s1.cutAt(p)
		s2.cutAt(p)
	}
}

// buildEdges turns the split segments into edges over shared endpoints
func (s *sweep) buildEdges(segs []segment) {
	seen := make(map[[2]Key]bool)
	for i := range segs {
		for _, piece := range segs[i].pieces() {
			a, b := s.points.get(piece[0]), s.points.get(piece[1])
			if a == b || s.orient(s.origin, a.Point, b.Point) == 0 {
				continue
			}

			k := [2]Key{a.Key, b.Key}
			if k[1].less(k[0]) {
				k[0], k[1] = k[1], k[0]
			}
			if seen[k] {
				continue
			}

			e, err := NewEdge(a, b, segs[i].wall, s.orient)
			if err != nil {
				continue
			}
			seen[k] = true
			e.Handle = len(s.edges)
			e.setSweepOrder(s.origin)
			if s.limited {
				e.RadiusIntersections = e.IntersectRadius(s.origin, s.radius)
			}
			a.Edges = append(a.Edges, e)
			b.Edges = append(b.Edges, e)
			s.edges = append(s.edges, e)
		}
	}
}

// boundsWalls returns the four sides of the scene rectangle, clockwise from
// the top left corner
func boundsWalls(b orb.Bound) []Wall {
	tl := Point{X: b.Min[0], Y: b.Min[1]}
	tr := Point{X: b.Max[0], Y: b.Min[1]}
	br := Point{X: b.Max[0], Y: b.Max[1]}
	bl := Point{X: b.Min[0], Y: b.Max[1]}
	return []Wall{
		{ID: "bounds:top", A: tl, B: tr, Blocks: BlocksAll},
		{ID: "bounds:right", A: tr, B: br, Blocks: BlocksAll},
		{ID: "bounds:bottom", A: br, B: bl, Blocks: BlocksAll},
		{ID: "bounds:left", A: bl, B: tl, Blocks: BlocksAll},
	}
}

// clipToBound keeps the part of a→b inside the rectangle
func clipToBound(bound orb.Bound, a, b Point) (Point, Point, bool) {
	for _, ls := range clip.LineString(bound, orb.LineString{a.Orb(), b.Orb()}) {
		if len(ls) < 2 {
			continue
		}
		p, q := PointFromOrb(ls[0]), PointFromOrb(ls[len(ls)-1])
		if p.Equal(q) {
			continue
		}
		return p, q, true
	}
	return Point{}, Point{}, false
}

// clipToCircle keeps the part of a→b within radius r of c. Segments that
// only touch the circle are dropped.
func clipToCircle(a, b, c Point, r float64) (Point, Point, bool) {
	r2 := r * r
	if a.dist2(c) <= r2 && b.dist2(c) <= r2 {
		return a, b, true
	}

	ts := circleParams(a, b, c, r)
	if len(ts) < 2 {
		return Point{}, Point{}, false
	}

	p, q := a, b
	if ts[0] > 0 {
		if ts[0] >= 1 {
			return Point{}, Point{}, false
		}
		p = a.lerp(b, ts[0])
	}
	if ts[1] < 1 {
		if ts[1] <= 0 {
			return Point{}, Point{}, false
		}
		q = a.lerp(b, ts[1])
	}
	if p.Equal(q) {
		return Point{}, Point{}, false
	}
	return p, q, true
}

// segmentBoundingBox is the R-tree box of a segment, padded so that axis
// aligned segments still have positive extent
func segmentBoundingBox(a, b Point) (rtreego.Rect, error) {
	minX, maxX := min(a.X, b.X)-Epsilon, max(a.X, b.X)+Epsilon
	minY, maxY := min(a.Y, b.Y)-Epsilon, max(a.Y, b.Y)+Epsilon
	return rtreego.NewRect(
		rtreego.Point{minX, minY},
		[]float64{maxX - minX, maxY - minY},
	)
}
