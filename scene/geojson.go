package scene

import (
	"fmt"
	"log"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"visibility"
)

// ParseGeoJSON reads walls and lights from a feature collection.
// LineString and MultiLineString features become one wall per segment,
// Polygon and MultiPolygon features one wall per ring side, and Point
// features become lights. Wall flags and light settings come from the
// feature properties. A bbox on the collection sets the scene bounds.
func ParseGeoJSON(data []byte) (*Scene, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GeoJSON: %w", err)
	}

	s := &Scene{}
	if len(fc.BBox) == 4 {
		s.Bounds = &BoundingBox{MinX: fc.BBox[0], MinY: fc.BBox[1], MaxX: fc.BBox[2], MaxY: fc.BBox[3]}
	}

	for i, f := range fc.Features {
		id := featureID(f, i)

		switch g := f.Geometry.(type) {
		case orb.Point:
			light, err := lightFromProperties(id, g, f.Properties)
			if err != nil {
				return nil, err
			}
			s.Lights = append(s.Lights, light)
		case orb.LineString:
			s.Walls = append(s.Walls, wallsAlong(id, g, f.Properties)...)
		case orb.MultiLineString:
			for j, ls := range g {
				s.Walls = append(s.Walls, wallsAlong(fmt.Sprintf("%s.%d", id, j), ls, f.Properties)...)
			}
		case orb.Polygon:
			s.Walls = append(s.Walls, wallsAroundPolygon(id, g, f.Properties)...)
		case orb.MultiPolygon:
			for j, p := range g {
				s.Walls = append(s.Walls, wallsAroundPolygon(fmt.Sprintf("%s.%d", id, j), p, f.Properties)...)
			}
		default:
			log.Printf("⚠️  Skipping feature %s: unsupported geometry %T\n", id, f.Geometry)
		}
	}

	if err := s.Prepare(); err != nil {
		return nil, err
	}
	return s, nil
}

func featureID(f *geojson.Feature, i int) string {
	if f.ID != nil {
		return fmt.Sprint(f.ID)
	}
	if id := f.Properties.MustString("id", ""); id != "" {
		return id
	}
	return fmt.Sprintf("feature-%d", i)
}

// wallsAlong splits a line string into one wall per segment
func wallsAlong(id string, ls orb.LineString, props geojson.Properties) []Wall {
	template := wallFromProperties(props)
	walls := make([]Wall, 0, len(ls))
	for i := 1; i < len(ls); i++ {
		w := template
		w.ID = fmt.Sprintf("%s:%d", id, i-1)
		w.A = visibility.PointFromOrb(ls[i-1])
		w.B = visibility.PointFromOrb(ls[i])
		walls = append(walls, w)
	}
	return walls
}

// wallsAroundPolygon turns every ring, holes included, into walls
func wallsAroundPolygon(id string, p orb.Polygon, props geojson.Properties) []Wall {
	var walls []Wall
	for i, ring := range p {
		ls := orb.LineString(ring)
		if !ring.Closed() && len(ring) > 0 {
			ls = append(ls, ring[0])
		}
		walls = append(walls, wallsAlong(fmt.Sprintf("%s.r%d", id, i), ls, props)...)
	}
	return walls
}

func wallFromProperties(props geojson.Properties) Wall {
	w := Wall{
		Open:      props.MustBool("open", false),
		Interior:  props.MustBool("interior", false),
		Direction: props.MustString("direction", ""),
	}

	switch blocks := props["blocks"].(type) {
	case string:
		for _, name := range strings.Split(blocks, ",") {
			if t, err := visibility.ParseType(strings.TrimSpace(name)); err == nil {
				w.Blocks = append(w.Blocks, t)
			}
		}
	case []interface{}:
		for _, v := range blocks {
			name, _ := v.(string)
			if t, err := visibility.ParseType(name); err == nil {
				w.Blocks = append(w.Blocks, t)
			}
		}
	}
	return w
}

func lightFromProperties(id string, p orb.Point, props geojson.Properties) (Light, error) {
	l := Light{
		ID:       id,
		Origin:   visibility.PointFromOrb(p),
		Angle:    props.MustFloat64("angle", 0),
		Rotation: props.MustFloat64("rotation", 0),
		Radius:   props.MustFloat64("radius", 0),
		Density:  props.MustInt("density", 0),
	}
	if name := props.MustString("type", ""); name != "" {
		t, err := visibility.ParseType(name)
		if err != nil {
			return Light{}, fmt.Errorf("light %s: %w", id, err)
		}
		l.Type = t
	}
	return l, nil
}

// FeatureCollection exports the scene as GeoJSON
func (s *Scene) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if s.Bounds != nil {
		fc.BBox = geojson.BBox{s.Bounds.MinX, s.Bounds.MinY, s.Bounds.MaxX, s.Bounds.MaxY}
	}

	for _, w := range s.Walls {
		f := geojson.NewFeature(orb.LineString{w.A.Orb(), w.B.Orb()})
		f.ID = w.ID
		if len(w.Blocks) > 0 {
			names := make([]interface{}, len(w.Blocks))
			for i, t := range w.Blocks {
				names[i] = t.String()
			}
			f.Properties["blocks"] = names
		}
		if w.Open {
			f.Properties["open"] = true
		}
		if w.Interior {
			f.Properties["interior"] = true
		}
		if w.Direction != "" {
			f.Properties["direction"] = w.Direction
		}
		fc.Append(f)
	}

	for _, l := range s.Lights {
		f := geojson.NewFeature(l.Origin.Orb())
		f.ID = l.ID
		f.Properties["type"] = l.Type.String()
		f.Properties["angle"] = l.Angle
		f.Properties["rotation"] = l.Rotation
		f.Properties["radius"] = l.Radius
		if l.Density > 0 {
			f.Properties["density"] = l.Density
		}
		fc.Append(f)
	}
	return fc
}

// PolygonFeature wraps a visibility polygon as a GeoJSON feature
func PolygonFeature(id string, p visibility.Polygon) *geojson.Feature {
	f := geojson.NewFeature(p.Orb())
	f.ID = id
	f.Properties["vertices"] = p.Len()
	f.Properties["area"] = p.Area()
	return f
}
