// Package scene loads and saves the walls and light sources that visibility
// polygons are computed over.
package scene

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"visibility"
)

// BoundingBox is the scene rectangle
type BoundingBox struct {
	MinX float64 `json:"minX" yaml:"minX"`
	MinY float64 `json:"minY" yaml:"minY"`
	MaxX float64 `json:"maxX" yaml:"maxX"`
	MaxY float64 `json:"maxY" yaml:"maxY"`
}

// Bound converts the box to an orb.Bound
func (b *BoundingBox) Bound() orb.Bound {
	if b == nil {
		return orb.Bound{}
	}
	return orb.Bound{Min: orb.Point{b.MinX, b.MinY}, Max: orb.Point{b.MaxX, b.MaxY}}
}

// Wall is the stored form of a visibility.Wall
type Wall struct {
	ID        string            `json:"id,omitempty" yaml:"id,omitempty"`
	A         visibility.Point  `json:"a" yaml:"a"`
	B         visibility.Point  `json:"b" yaml:"b"`
	Blocks    []visibility.Type `json:"blocks,omitempty" yaml:"blocks,omitempty"` // empty blocks everything
	Open      bool              `json:"open,omitempty" yaml:"open,omitempty"`
	Direction string            `json:"direction,omitempty" yaml:"direction,omitempty"`
	Interior  bool              `json:"interior,omitempty" yaml:"interior,omitempty"`
}

// Light is a source to compute a polygon from
type Light struct {
	ID       string           `json:"id,omitempty" yaml:"id,omitempty"`
	Origin   visibility.Point `json:"origin" yaml:"origin"`
	Type     visibility.Type  `json:"type" yaml:"type"`
	Angle    float64          `json:"angle,omitempty" yaml:"angle,omitempty"`
	Rotation float64          `json:"rotation,omitempty" yaml:"rotation,omitempty"`
	Radius   float64          `json:"radius,omitempty" yaml:"radius,omitempty"`
	Density  int              `json:"density,omitempty" yaml:"density,omitempty"`
}

// Scene is a set of walls, optional bounds and light sources
type Scene struct {
	Name   string       `json:"name,omitempty" yaml:"name,omitempty"`
	Bounds *BoundingBox `json:"bounds,omitempty" yaml:"bounds,omitempty"`
	Walls  []Wall       `json:"walls" yaml:"walls"`
	Lights []Light      `json:"lights,omitempty" yaml:"lights,omitempty"`
}

// ToWall converts the stored wall, rejecting unknown directions
func (w Wall) ToWall() (visibility.Wall, error) {
	dir, err := visibility.ParseSide(w.Direction)
	if err != nil {
		return visibility.Wall{}, fmt.Errorf("wall %s: %w", w.ID, err)
	}
	blocks := visibility.BlocksAll
	if len(w.Blocks) > 0 {
		blocks = visibility.Blocks(w.Blocks...)
	}
	return visibility.Wall{
		ID:        w.ID,
		A:         w.A,
		B:         w.B,
		Blocks:    blocks,
		Open:      w.Open,
		Direction: dir,
		Interior:  w.Interior,
	}, nil
}

// FromWall converts a visibility.Wall into its stored form
func FromWall(w visibility.Wall) Wall {
	out := Wall{
		ID:       w.ID,
		A:        w.A,
		B:        w.B,
		Open:     w.Open,
		Interior: w.Interior,
	}
	if w.Blocks != visibility.BlocksAll {
		out.Blocks = w.Blocks.Types()
	}
	if w.Direction != visibility.SideBoth {
		out.Direction = w.Direction.String()
	}
	return out
}

// Config builds the sweep configuration for the light inside bounds
func (l Light) Config(bounds orb.Bound) visibility.Config {
	return visibility.Config{
		Type:     l.Type,
		Angle:    l.Angle,
		Rotation: l.Rotation,
		Radius:   l.Radius,
		Density:  l.Density,
		Bounds:   bounds,
	}
}

// Prepare fills in missing wall and light IDs and checks every wall
func (s *Scene) Prepare() error {
	for i := range s.Walls {
		if s.Walls[i].ID == "" {
			s.Walls[i].ID = uuid.NewString()
		}
		if _, err := s.Walls[i].ToWall(); err != nil {
			return err
		}
	}
	for i := range s.Lights {
		if s.Lights[i].ID == "" {
			s.Lights[i].ID = uuid.NewString()
		}
	}
	if b := s.Bounds; b != nil && (b.MinX >= b.MaxX || b.MinY >= b.MaxY) {
		return fmt.Errorf("%w: %+v", visibility.ErrInvalidBounds, *b)
	}
	return nil
}

// WallList returns the walls in sweep form. Walls that fail to convert are skipped.
func (s *Scene) WallList() visibility.WallList {
	walls := make(visibility.WallList, 0, len(s.Walls))
	for _, w := range s.Walls {
		wall, err := w.ToWall()
		if err != nil {
			log.Printf("⚠️  Skipping %v\n", err)
			continue
		}
		walls = append(walls, wall)
	}
	return walls
}

// Index builds an R-tree over the scene's walls
func (s *Scene) Index() *visibility.WallIndex {
	return visibility.NewWallIndex(s.WallList())
}

// Sources turns every light into a sweep source
func (s *Scene) Sources() []visibility.Source {
	sources := make([]visibility.Source, len(s.Lights))
	for i, l := range s.Lights {
		sources[i] = visibility.Source{ID: l.ID, Origin: l.Origin, Config: l.Config(s.Bounds.Bound())}
	}
	return sources
}

// Load reads a scene file, choosing the format from its extension
func Load(filename string) (*Scene, error) {
	log.Printf("📂 Loading scene from %s...\n", filename)

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var s *Scene
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".geojson":
		s, err = ParseGeoJSON(data)
	case ".yaml", ".yml":
		s, err = ParseYAML(data)
	case ".json":
		s, err = ParseJSON(data)
	default:
		return nil, fmt.Errorf("unsupported scene format %q", ext)
	}
	if err != nil {
		return nil, err
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}

	log.Printf("   ✅ Scene loaded: %d walls, %d lights\n", len(s.Walls), len(s.Lights))
	return s, nil
}

// ParseJSON validates data against the scene schema and decodes it
func ParseJSON(data []byte) (*Scene, error) {
	if err := SceneValidator().ValidateBytes(data); err != nil {
		return nil, err
	}

	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scene: %w", err)
	}
	if err := s.Prepare(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Save writes the scene as indented JSON
func Save(s *Scene, filename string) error {
	log.Printf("💾 Saving scene to %s...\n", filename)

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal scene: %w", err)
	}

	err = os.WriteFile(filename, data, 0644)
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	log.Printf("   ✅ Scene saved (%d bytes)\n", len(data))
	return nil
}
