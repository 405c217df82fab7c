package visibility

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuarterPointEnds(t *testing.T) {
	x, y := quarterPoint(0)
	assert.InDelta(t, 0, x, 1e-12)
	assert.InDelta(t, 1, y, 1e-12)

	x, y = quarterPoint(1)
	assert.InDelta(t, 1, x, 1e-12)
	assert.InDelta(t, 0, y, 1e-12)

	// The Bezier stays within a fraction of a percent of the unit circle
	for i := 0; i <= 20; i++ {
		x, y = quarterPoint(float64(i) / 20)
		assert.InDelta(t, 1, math.Hypot(x, y), 3e-4)
	}
}

func TestArcPadderCircle(t *testing.T) {
	origin := Point{X: 3, Y: -2}
	p := newArcPadder(origin, 100, 8)
	circle := p.circle()

	require.Len(t, circle, 32)
	assert.True(t, circle[0].Equal(Point{X: -97, Y: -2}), "starts due west")
	assert.InDelta(t, -2-100, circle[8].Y, 1e-9, "a quarter turn later it points north")

	for _, pt := range circle {
		assert.InDelta(t, 100, origin.Distance(pt), 0.03)
	}
	assert.True(t, Polygon{Vertices: circle}.IsSimple())
	assert.Positive(t, signedArea(circle), "clockwise on screen")
}

func TestArcPadderPad(t *testing.T) {
	p := newArcPadder(Point{}, 10, 4)

	// From west to north passes the three interior samples of the first quadrant
	got := p.pad(nil, Point{X: -1, Y: 0}, Point{X: 0, Y: -1}, false)
	require.Len(t, got, 3)
	for _, pt := range got {
		assert.Negative(t, pt.X)
		assert.Negative(t, pt.Y)
	}

	// The wrap from south-west back round to north-west crosses due west
	got = p.pad(nil, Point{X: -1, Y: 1}, Point{X: -1, Y: -1}, false)
	assert.NotEmpty(t, got)
	assert.True(t, got[len(got)-1].X < 0 && got[len(got)-1].Y <= 0)

	// A whole turn visits every sample except the start direction
	got = p.pad(nil, Point{X: -1, Y: 0}, Point{X: -1, Y: 0}, true)
	assert.Len(t, got, 15)
}

func TestTurnFromWest(t *testing.T) {
	assert.InDelta(t, 0, turnFromWest(Point{X: -1, Y: 0}), 1e-12)
	assert.InDelta(t, math.Pi/2, turnFromWest(Point{X: 0, Y: -1}), 1e-12)
	assert.InDelta(t, math.Pi, turnFromWest(Point{X: 1, Y: 0}), 1e-12)
	assert.InDelta(t, 3*math.Pi/2, turnFromWest(Point{X: 0, Y: 1}), 1e-12)
}
