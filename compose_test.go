package visibility

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeMatchesRadiusSweep(t *testing.T) {
	walls, cfg := room()
	origin := Point{X: 100, Y: 100}
	cfg.Radius = 60
	cfg.OnFault = noFaults(t)

	direct, err := Compute(origin, walls, cfg)
	require.NoError(t, err)
	composed, err := Compose(origin, walls, cfg)
	require.NoError(t, err)

	assert.InEpsilon(t, direct.Polygon.Area(), composed.Polygon.Area(), 0.02)
	assert.True(t, composed.Polygon.Contains(origin))
	for _, ep := range composed.Visible {
		assert.LessOrEqual(t, origin.Distance(ep.Point), 60+1e-6)
	}
}

func TestComposeClipperFallback(t *testing.T) {
	// polyclip returns no contour for this disc, the radius sweep stands in
	walls := WallList{
		NewWall(Point{X: 30, Y: 80}, Point{X: 120, Y: 160}),
		NewWall(Point{X: 0, Y: 160}, Point{X: 90, Y: 130}),
		NewWall(Point{X: 140, Y: 120}, Point{X: 150, Y: 30}),
		NewWall(Point{X: 100, Y: 180}, Point{X: 50, Y: 50}),
	}
	origin := Point{X: 125, Y: 165}
	cfg := Config{Radius: 35.8627, OnFault: noFaults(t)}

	direct, err := Compute(origin, walls, cfg)
	require.NoError(t, err)
	composed, err := Compose(origin, walls, cfg)
	require.NoError(t, err)

	require.False(t, composed.Polygon.IsEmpty())
	assert.InEpsilon(t, direct.Polygon.Area(), composed.Polygon.Area(), 0.02)
	assert.True(t, composed.Polygon.Contains(origin))
}

func TestComposeMatchesRadiusSweepScenes(t *testing.T) {
	tests := []struct {
		name   string
		origin Point
		radius float64
		walls  WallList
	}{
		{"pillar", Point{X: 50, Y: 50}, 40, WallList{
			NewWall(Point{X: 60, Y: 40}, Point{X: 70, Y: 40}),
			NewWall(Point{X: 70, Y: 40}, Point{X: 70, Y: 60}),
			NewWall(Point{X: 70, Y: 60}, Point{X: 60, Y: 60}),
			NewWall(Point{X: 60, Y: 60}, Point{X: 60, Y: 40}),
		}},
		{"corridor", Point{X: 0, Y: 0}, 80, WallList{
			NewWall(Point{X: -100, Y: -10}, Point{X: 100, Y: -10}),
			NewWall(Point{X: -100, Y: 10}, Point{X: 100, Y: 10}),
		}},
		{"crossing", Point{X: 10, Y: 15}, 30, WallList{
			NewWall(Point{X: -20, Y: -20}, Point{X: 40, Y: 30}),
			NewWall(Point{X: 40, Y: -20}, Point{X: -20, Y: 30}),
		}},
		{"wall cut by radius", Point{X: 0, Y: 0}, 25, WallList{
			NewWall(Point{X: -100, Y: -20}, Point{X: 100, Y: -20}),
		}},
		{"slanted", Point{X: 125, Y: 165}, 50, WallList{
			NewWall(Point{X: 140, Y: 120}, Point{X: 150, Y: 30}),
			NewWall(Point{X: 100, Y: 180}, Point{X: 50, Y: 50}),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Radius: tt.radius, OnFault: noFaults(t)}
			direct, err := Compute(tt.origin, tt.walls, cfg)
			require.NoError(t, err)
			composed, err := Compose(tt.origin, tt.walls, cfg)
			require.NoError(t, err)

			assert.InEpsilon(t, direct.Polygon.Area(), composed.Polygon.Area(), 0.02)
			assert.True(t, composed.Polygon.Contains(tt.origin))
		})
	}
}

func TestClipToFailure(t *testing.T) {
	square := Polygon{Vertices: []Point{{X: -10, Y: -10}, {X: 10, Y: -10}, {X: 10, Y: 10}, {X: -10, Y: 10}}}
	far := Polygon{Vertices: []Point{{X: 50, Y: 50}, {X: 60, Y: 50}, {X: 60, Y: 60}, {X: 50, Y: 60}}}

	_, ok := clipTo(square, far, far, Point{})
	assert.False(t, ok, "disjoint outline")

	_, ok = clipTo(Polygon{}, square, square, Point{})
	assert.False(t, ok, "nothing to clip")

	_, ok = clipTo(square, Rect{Min: Point{X: 20, Y: 20}, Max: Point{X: 30, Y: 30}}, far, Point{})
	assert.False(t, ok, "rectangle away from the origin")

	inner := Polygon{Vertices: []Point{{X: -5, Y: -5}, {X: 5, Y: -5}, {X: 5, Y: 5}, {X: -5, Y: 5}}}
	clipped, ok := clipTo(square, inner, inner, Point{})
	require.True(t, ok)
	assert.InDelta(t, 100, clipped.Area(), 1e-9)
}

func TestComposeReportsClipFailure(t *testing.T) {
	// A polygon shape is not retried with a sweep
	_, failed := clipShapes(Polygon{}, []Shape{Rect{Min: Point{X: -1, Y: -1}, Max: Point{X: 1, Y: 1}}},
		[]Polygon{{}}, Point{}, -1)
	assert.Equal(t, 0, failed)

	square := Polygon{Vertices: []Point{{X: -10, Y: -10}, {X: 10, Y: -10}, {X: 10, Y: 10}, {X: -10, Y: 10}}}
	rect := Rect{Min: Point{X: -5, Y: -5}, Max: Point{X: 5, Y: 5}}
	poly, failed := clipShapes(square, []Shape{rect, Circle{Radius: 1}}, []Polygon{rect.Outline(), {}}, Point{}, 1)
	assert.Equal(t, -1, failed)
	assert.InDelta(t, 100, poly.Area(), 1e-9)
}

func TestComposeNoWalls(t *testing.T) {
	res, err := Compose(Point{}, nil, Config{Radius: 50})
	require.NoError(t, err)
	assert.InEpsilon(t, math.Pi*50*50, res.Polygon.Area(), 0.01)
}

func TestComposeRect(t *testing.T) {
	walls := WallList{NewWall(Point{X: -10, Y: -5}, Point{X: 10, Y: -5})}
	cfg := Config{Bounds: box(-100, -100, 100, 100), OnFault: noFaults(t)}

	res, err := Compose(Point{}, walls, cfg, Rect{Min: Point{X: -20, Y: -20}, Max: Point{X: 20, Y: 20}})
	require.NoError(t, err)

	// The shadow fans out to the rectangle's sides at y = -10 and covers
	// the whole width above that
	shadow := 2*125.0 + 300
	assert.InDelta(t, 1600-shadow, res.Polygon.Area(), 1e-6)
	assert.False(t, res.Polygon.Contains(Point{X: 0, Y: -15}))
}

func TestComposeFieldOfView(t *testing.T) {
	cfg := Config{Angle: 90, Rotation: 0, Radius: 50}
	res, err := Compose(Point{}, nil, cfg)
	require.NoError(t, err)

	v := res.Polygon.Vertices
	require.NotEmpty(t, v)
	assert.True(t, v[0].Equal(Point{}), "starts at the origin")
	assert.True(t, v[len(v)-1].Equal(Point{}), "ends at the origin")
	assert.InEpsilon(t, math.Pi*50*50/4, res.Polygon.Area(), 0.02)
}

func TestComposeShapeErrors(t *testing.T) {
	cfg := Config{Bounds: box(-100, -100, 100, 100)}

	_, err := Compose(Point{}, nil, cfg, Rect{Min: Point{X: 10, Y: 10}, Max: Point{X: 20, Y: 20}})
	assert.True(t, errors.Is(err, ErrBoundaryOrigin), "got %v", err)

	_, err = Compose(Point{}, nil, cfg, Polygon{Vertices: []Point{{X: -1, Y: -1}, {X: 1, Y: 1}}})
	assert.True(t, errors.Is(err, ErrOpenBoundary), "got %v", err)

	_, err = Compose(Point{}, nil, cfg, Circle{Center: Point{}, Radius: 0})
	assert.True(t, errors.Is(err, ErrOpenBoundary), "got %v", err)

	_, err = Compose(Point{}, nil, Config{Radius: -3}, Circle{Radius: 5})
	assert.True(t, errors.Is(err, ErrInvalidRadius), "got %v", err)
}

func TestComposeShapesBoundTheSweep(t *testing.T) {
	// No radius and no scene bounds, the shape alone stops vision
	tri := Polygon{Vertices: []Point{{X: 0, Y: -40}, {X: 40, Y: 30}, {X: -40, Y: 30}}}
	res, err := Compose(Point{}, nil, Config{}, tri)
	require.NoError(t, err)

	assert.InDelta(t, tri.Area(), res.Polygon.Area(), 1e-6)
}

func TestRootAt(t *testing.T) {
	square := Polygon{Vertices: []Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}}

	rooted := rootAt(square, Point{X: 10, Y: 10})
	assert.Equal(t, []Point{{X: 10, Y: 10}, {X: 0, Y: 10}, {X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}, rooted.Vertices)

	// A point on a side becomes a vertex
	rooted = rootAt(square, Point{X: 5, Y: 0})
	assert.Equal(t, []Point{{X: 5, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}, {X: 0, Y: 0}, {X: 5, Y: 0}}, rooted.Vertices)
}
