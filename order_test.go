package visibility

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func endpointsAt(origin Point, pts ...Point) []*Endpoint {
	eps := make([]*Endpoint, len(pts))
	for i, p := range pts {
		eps[i] = &Endpoint{Point: p, Key: KeyOf(p), d2: p.dist2(origin)}
	}
	return eps
}

func pointsOf(eps []*Endpoint) []Point {
	out := make([]Point, len(eps))
	for i, ep := range eps {
		out[i] = ep.Point
	}
	return out
}

func TestClockwiseSort(t *testing.T) {
	c := clockwise{origin: Point{}, orient: Robust}

	west := Point{X: -5, Y: 0}
	northWest := Point{X: -5, Y: -5}
	north := Point{X: 0, Y: -5}
	east := Point{X: 5, Y: 0}
	southEast := Point{X: 5, Y: 5}
	south := Point{X: 0, Y: 5}
	southWest := Point{X: -5, Y: 5}

	eps := endpointsAt(Point{}, south, east, northWest, southWest, west, southEast, north)
	c.sort(eps, Point{X: -1, Y: 0})

	assert.Equal(t, []Point{west, northWest, north, east, southEast, south, southWest}, pointsOf(eps))
}

func TestClockwiseSortRotated(t *testing.T) {
	c := clockwise{origin: Point{}, orient: Robust}
	eps := endpointsAt(Point{}, Point{X: -5, Y: -1}, Point{X: 5, Y: -1}, Point{X: 5, Y: 1}, Point{X: -5, Y: 1})

	c.sort(eps, Point{X: 1, Y: 0})
	assert.Equal(t, []Point{{X: 5, Y: 1}, {X: -5, Y: 1}, {X: -5, Y: -1}, {X: 5, Y: -1}}, pointsOf(eps))
}

func TestClockwiseGroups(t *testing.T) {
	c := clockwise{origin: Point{}, orient: Robust}
	eps := endpointsAt(Point{}, Point{X: 0, Y: -20}, Point{X: 5, Y: -5}, Point{X: 0, Y: -10}, Point{X: 10, Y: -10})

	c.sort(eps, Point{X: -1, Y: 0})
	groups := c.groups(eps)
	require.Len(t, groups, 2)

	assert.Equal(t, []Point{{X: 0, Y: -10}, {X: 0, Y: -20}}, pointsOf(groups[0].points), "nearest first")
	assert.Equal(t, []Point{{X: 5, Y: -5}, {X: 10, Y: -10}}, pointsOf(groups[1].points))
}

func TestSectorPlace(t *testing.T) {
	origin := Point{}

	t.Run("narrow", func(t *testing.T) {
		s := newSector(origin, 90, 0, 10, Robust)
		assert.InDelta(t, 10/math.Sqrt2, s.start.X, 1e-9)
		assert.InDelta(t, -10/math.Sqrt2, s.start.Y, 1e-9)

		assert.Equal(t, inside, s.place(Point{X: 5, Y: 0}))
		assert.Equal(t, outside, s.place(Point{X: -5, Y: 0}))
		assert.Equal(t, outside, s.place(Point{X: 0, Y: -5}))
		assert.Equal(t, onStart, s.place(s.start.scale(2)))
		assert.Equal(t, onEnd, s.place(s.end.scale(0.5)))
	})

	t.Run("half turn", func(t *testing.T) {
		s := newSector(origin, 180, 90, 10, Robust)
		assert.Equal(t, inside, s.place(Point{X: 0, Y: 5}))
		assert.Equal(t, outside, s.place(Point{X: 0, Y: -5}))
	})

	t.Run("wide", func(t *testing.T) {
		s := newSector(origin, 270, 0, 10, Robust)
		assert.Equal(t, inside, s.place(Point{X: 0, Y: -5}))
		assert.Equal(t, inside, s.place(Point{X: 0, Y: 5}))
		assert.Equal(t, outside, s.place(Point{X: -5, Y: 0}))
	})
}

func TestSectorBound(t *testing.T) {
	s := newSector(Point{}, 90, 0, 10, Robust)
	minX, minY, maxX, maxY := s.bound()

	assert.InDelta(t, 0, minX, 1e-9)
	assert.InDelta(t, -10/math.Sqrt2, minY, 1e-9)
	assert.InDelta(t, 10, maxX, 1e-9)
	assert.InDelta(t, 10/math.Sqrt2, maxY, 1e-9)
}

func TestSectorAxisRays(t *testing.T) {
	origin := Point{X: 100, Y: 100}
	s := newSector(origin, 180, 0, 100, Robust)

	assert.Equal(t, Point{X: 100, Y: 0}, s.start)
	assert.Equal(t, Point{X: 100, Y: 200}, s.end)
	assert.Equal(t, onStart, s.place(Point{X: 100, Y: 40}))
	assert.Equal(t, onEnd, s.place(Point{X: 100, Y: 130}))
	assert.Equal(t, inside, s.place(Point{X: 130, Y: 100}))
	assert.Equal(t, outside, s.place(Point{X: 70, Y: 100}))

	diagonal := newSector(origin, 90, 90, 100, Robust)
	assert.Equal(t, onStart, diagonal.place(Point{X: 137, Y: 137}))
	assert.Equal(t, onEnd, diagonal.place(Point{X: 63, Y: 137}))
}

func TestHeading(t *testing.T) {
	tests := []struct {
		deg  float64
		want Point
	}{
		{0, Point{X: 1}},
		{90, Point{Y: 1}},
		{-90, Point{Y: -1}},
		{540, Point{X: -1}},
		{270, Point{Y: -1}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, heading(tt.deg), "heading(%v)", tt.deg)
	}

	h := heading(45)
	assert.InDelta(t, 1/math.Sqrt2, h.X, 1e-15)
	assert.InDelta(t, 1/math.Sqrt2, h.Y, 1e-15)
}

func TestNormalizeDegrees(t *testing.T) {
	assert.Equal(t, 270.0, normalizeDegrees(-90))
	assert.Equal(t, 45.0, normalizeDegrees(45-720))
	assert.Equal(t, 0.0, normalizeDegrees(360))
	assert.Equal(t, 180.0, normalizeDegrees(180))
}
