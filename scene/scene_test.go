package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visibility"
)

const roomJSON = `{
  "name": "room",
  "bounds": {"minX": 0, "minY": 0, "maxX": 100, "maxY": 100},
  "walls": [
    {"id": "w1", "a": {"x": 20, "y": 20}, "b": {"x": 80, "y": 20}},
    {"a": {"x": 20, "y": 60}, "b": {"x": 80, "y": 60}, "blocks": ["sight", "light"], "direction": "front"}
  ],
  "lights": [
    {"id": "torch", "origin": {"x": 50, "y": 40}, "type": "light", "radius": 30}
  ]
}`

func TestParseJSON(t *testing.T) {
	s, err := ParseJSON([]byte(roomJSON))
	require.NoError(t, err)

	assert.Equal(t, "room", s.Name)
	require.Len(t, s.Walls, 2)
	assert.Equal(t, "w1", s.Walls[0].ID)
	assert.NotEmpty(t, s.Walls[1].ID, "missing IDs are generated")
	assert.Equal(t, []visibility.Type{visibility.TypeSight, visibility.TypeLight}, s.Walls[1].Blocks)

	require.Len(t, s.Lights, 1)
	assert.Equal(t, visibility.TypeLight, s.Lights[0].Type)
	assert.Equal(t, 30.0, s.Lights[0].Radius)
}

func TestParseJSONRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"wall without end", `{"walls": [{"a": {"x": 0, "y": 0}}]}`},
		{"unknown type", `{"walls": [{"a": {"x": 0, "y": 0}, "b": {"x": 1, "y": 1}, "blocks": ["smell"]}]}`},
		{"angle too wide", `{"walls": [], "lights": [{"origin": {"x": 0, "y": 0}, "angle": 400}]}`},
		{"bad direction", `{"walls": [{"a": {"x": 0, "y": 0}, "b": {"x": 1, "y": 1}, "direction": "left"}]}`},
		{"not json", `walls: []`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJSON([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestPrepareRejectsInvertedBounds(t *testing.T) {
	s := &Scene{Bounds: &BoundingBox{MinX: 10, MinY: 0, MaxX: 0, MaxY: 10}}
	assert.ErrorIs(t, s.Prepare(), visibility.ErrInvalidBounds)
}

func TestParseYAML(t *testing.T) {
	doc := `
name: hall
bounds: {minX: 0, minY: 0, maxX: 50, maxY: 50}
walls:
  - a: {x: 10, y: 10}
    b: {x: 40, y: 10}
    blocks: [move]
    open: true
lights:
  - origin: {x: 25, y: 25}
    type: sight
    angle: 90
    rotation: 45
`
	s, err := ParseYAML([]byte(doc))
	require.NoError(t, err)

	require.Len(t, s.Walls, 1)
	assert.Equal(t, []visibility.Type{visibility.TypeMove}, s.Walls[0].Blocks)
	assert.True(t, s.Walls[0].Open)

	require.Len(t, s.Lights, 1)
	assert.Equal(t, 90.0, s.Lights[0].Angle)
	assert.Equal(t, 45.0, s.Lights[0].Rotation)
	assert.Equal(t, orb.Bound{Max: orb.Point{50, 50}}, s.Bounds.Bound())
}

func TestParseYAMLRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"angle too wide", "walls: []\nlights:\n  - origin: {x: 0, y: 0}\n    angle: 400\n"},
		{"wall without end", "walls:\n  - a: {x: 0, y: 0}\n"},
		{"unknown type", "walls:\n  - a: {x: 0, y: 0}\n    b: {x: 1, y: 1}\n    blocks: [smell]\n"},
		{"no walls", "name: empty\n"},
		{"not yaml", "walls: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestParseGeoJSON(t *testing.T) {
	doc := `{
  "type": "FeatureCollection",
  "bbox": [0, 0, 100, 100],
  "features": [
    {
      "type": "Feature",
      "id": "pillar",
      "geometry": {"type": "Polygon", "coordinates": [[[40,40],[60,40],[60,60],[40,60],[40,40]]]},
      "properties": {"blocks": "sight, light"}
    },
    {
      "type": "Feature",
      "geometry": {"type": "LineString", "coordinates": [[10,80],[30,80],[30,90]]},
      "properties": {"direction": "back", "interior": true}
    },
    {
      "type": "Feature",
      "id": "lamp",
      "geometry": {"type": "Point", "coordinates": [20, 20]},
      "properties": {"type": "light", "radius": 25, "angle": 120, "density": 8}
    }
  ]
}`
	s, err := ParseGeoJSON([]byte(doc))
	require.NoError(t, err)

	require.NotNil(t, s.Bounds)
	assert.Equal(t, 100.0, s.Bounds.MaxX)

	require.Len(t, s.Walls, 6)
	assert.Equal(t, "pillar.r0:0", s.Walls[0].ID)
	assert.Equal(t, visibility.Point{X: 40, Y: 40}, s.Walls[0].A)
	assert.Equal(t, visibility.Point{X: 60, Y: 40}, s.Walls[0].B)
	assert.Equal(t, []visibility.Type{visibility.TypeSight, visibility.TypeLight}, s.Walls[3].Blocks)
	assert.Equal(t, "back", s.Walls[4].Direction)
	assert.True(t, s.Walls[5].Interior)

	require.Len(t, s.Lights, 1)
	l := s.Lights[0]
	assert.Equal(t, "lamp", l.ID)
	assert.Equal(t, visibility.TypeLight, l.Type)
	assert.Equal(t, 25.0, l.Radius)
	assert.Equal(t, 120.0, l.Angle)
	assert.Equal(t, 8, l.Density)
}

func TestParseGeoJSONUnknownLightType(t *testing.T) {
	doc := `{"type": "FeatureCollection", "features": [
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [1, 1]}, "properties": {"type": "smell"}}
  ]}`
	_, err := ParseGeoJSON([]byte(doc))
	assert.ErrorIs(t, err, visibility.ErrInvalidType)
}

func TestFeatureCollection(t *testing.T) {
	s, err := ParseJSON([]byte(roomJSON))
	require.NoError(t, err)

	fc := s.FeatureCollection()
	require.Len(t, fc.Features, 3)
	assert.Equal(t, orb.LineString{{20, 20}, {80, 20}}, fc.Features[0].Geometry)
	assert.Equal(t, "front", fc.Features[1].Properties["direction"])
	assert.Equal(t, orb.Point{50, 40}, fc.Features[2].Geometry)

	data, err := fc.MarshalJSON()
	require.NoError(t, err)

	back, err := ParseGeoJSON(data)
	require.NoError(t, err)
	require.Len(t, back.Walls, 2)
	assert.Equal(t, s.Walls[1].Blocks, back.Walls[1].Blocks)
	assert.Equal(t, s.Lights[0].Radius, back.Lights[0].Radius)
}

func TestPolygonFeature(t *testing.T) {
	p := visibility.Polygon{Vertices: []visibility.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}}

	f := PolygonFeature("torch", p)
	assert.Equal(t, "torch", f.ID)
	assert.Equal(t, 4, f.Properties["vertices"])
	assert.InDelta(t, 100, f.Properties["area"], 1e-9)
	assert.IsType(t, orb.Polygon{}, f.Geometry)
}

func TestSaveLoad(t *testing.T) {
	s, err := ParseJSON([]byte(roomJSON))
	require.NoError(t, err)

	dir := t.TempDir()

	t.Run("json", func(t *testing.T) {
		filename := filepath.Join(dir, "room.json")
		require.NoError(t, Save(s, filename))

		loaded, err := Load(filename)
		require.NoError(t, err)
		assert.Equal(t, s, loaded)
	})

	t.Run("yaml", func(t *testing.T) {
		filename := filepath.Join(dir, "room.yaml")
		require.NoError(t, SaveYAML(s, filename))

		loaded, err := Load(filename)
		require.NoError(t, err)
		assert.Equal(t, s, loaded)
	})

	t.Run("name from file", func(t *testing.T) {
		filename := filepath.Join(dir, "cellar.json")
		require.NoError(t, os.WriteFile(filename, []byte(`{"walls": []}`), 0644))

		loaded, err := Load(filename)
		require.NoError(t, err)
		assert.Equal(t, "cellar", loaded.Name)
	})

	t.Run("unsupported", func(t *testing.T) {
		filename := filepath.Join(dir, "room.txt")
		require.NoError(t, os.WriteFile(filename, []byte(roomJSON), 0644))

		_, err := Load(filename)
		assert.Error(t, err)
	})
}

func TestWallConversion(t *testing.T) {
	stored := Wall{
		ID:        "door",
		A:         visibility.Point{X: 1, Y: 2},
		B:         visibility.Point{X: 3, Y: 4},
		Blocks:    []visibility.Type{visibility.TypeMove},
		Open:      true,
		Direction: "front",
	}

	w, err := stored.ToWall()
	require.NoError(t, err)
	assert.Equal(t, visibility.SideFront, w.Direction)
	assert.True(t, w.Blocks.Has(visibility.TypeMove))
	assert.False(t, w.Blocks.Has(visibility.TypeSight))
	assert.Equal(t, stored, FromWall(w))

	plain, err := Wall{A: stored.A, B: stored.B}.ToWall()
	require.NoError(t, err)
	assert.Equal(t, visibility.BlocksAll, plain.Blocks)
	assert.Equal(t, Wall{A: stored.A, B: stored.B}, FromWall(plain))

	_, err = Wall{Direction: "sideways"}.ToWall()
	assert.Error(t, err)
}

func TestSources(t *testing.T) {
	s, err := ParseJSON([]byte(roomJSON))
	require.NoError(t, err)

	sources := s.Sources()
	require.Len(t, sources, 1)
	assert.Equal(t, "torch", sources[0].ID)
	assert.Equal(t, s.Bounds.Bound(), sources[0].Config.Bounds)
	assert.Equal(t, 30.0, sources[0].Config.Radius)

	idx := s.Index()
	assert.Equal(t, 2, idx.Len())

	res, err := sources[0].Run(idx)
	require.NoError(t, err)
	assert.False(t, res.Polygon.IsEmpty())
	assert.True(t, res.Polygon.Contains(visibility.Point{X: 50, Y: 30}))
	assert.False(t, res.Polygon.Contains(visibility.Point{X: 50, Y: 15}), "behind the first wall")
}
