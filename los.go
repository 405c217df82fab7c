package visibility

import "github.com/paulmach/orb"

// CanSee reports whether target is in line of sight from origin for the
// given type. Walls the sightline only touches at an end do not block it,
// matching the corners the sweep sees past.
func CanSee(origin, target Point, walls CandidateSource, t Type, orient OrientFunc) bool {
	_, blocked := FirstBlocker(origin, target, walls, t, orient)
	return !blocked
}

// FirstBlocker returns the blocking wall crossing the sightline nearest to
// origin
func FirstBlocker(origin, target Point, walls CandidateSource, t Type, orient OrientFunc) (Wall, bool) {
	if walls == nil || origin.Equal(target) {
		return Wall{}, false
	}
	orient = orient.orDefault()

	region := orb.Bound{
		Min: orb.Point{min(origin.X, target.X), min(origin.Y, target.Y)},
		Max: orb.Point{max(origin.X, target.X), max(origin.Y, target.Y)},
	}

	var (
		nearest Wall
		best    = -1.0
	)
	for _, w := range walls.WallsIn(region) {
		if !w.IsBlocking(t, origin, orient) {
			continue
		}
		e, err := NewEdge(&Endpoint{Point: w.A, Key: KeyOf(w.A)}, &Endpoint{Point: w.B, Key: KeyOf(w.B)}, w, orient)
		if err != nil || !e.InFrontOf(target, origin) {
			continue
		}
		p, _, _, ok := lineIntersection(origin, target, w.A, w.B)
		if !ok {
			continue
		}
		if d := origin.dist2(p); best < 0 || d < best {
			nearest, best = w, d
		}
	}
	return nearest, best >= 0
}
