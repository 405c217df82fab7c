package visibility

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// CandidateSource offers the walls that may intersect a region. Returning
// more walls than needed is always correct, only slower.
type CandidateSource interface {
	WallsIn(region orb.Bound) []Wall
}

// WallList is a CandidateSource that always returns every wall
type WallList []Wall

// WallsIn implements CandidateSource
func (l WallList) WallsIn(orb.Bound) []Wall {
	return l
}

// WallEntry wraps a wall for R-tree storage
type WallEntry struct {
	Wall Wall
	BBox rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (w *WallEntry) Bounds() rtreego.Rect {
	return w.BBox
}

// WallIndex answers region queries over a fixed set of walls. It is read
// only after construction and safe for concurrent queries.
type WallIndex struct {
	tree *rtreego.Rtree
	size int
}

// NewWallIndex creates a new spatial index
func NewWallIndex(walls []Wall) *WallIndex {
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node

	size := 0
	for _, wall := range walls {
		bbox, err := segmentBoundingBox(wall.A, wall.B)
		if err != nil {
			continue
		}
		tree.Insert(&WallEntry{Wall: wall, BBox: bbox})
		size++
	}

	return &WallIndex{tree: tree, size: size}
}

// Len returns the number of indexed walls
func (wi *WallIndex) Len() int {
	return wi.size
}

// WallsIn implements CandidateSource
func (wi *WallIndex) WallsIn(region orb.Bound) []Wall {
	return wi.QueryRegion(region.Min[0], region.Min[1], region.Max[0], region.Max[1])
}

// QueryRegion returns walls whose bounding box meets the given box
func (wi *WallIndex) QueryRegion(minX, minY, maxX, maxY float64) []Wall {
	bbox, err := rtreego.NewRect(
		rtreego.Point{minX - Epsilon, minY - Epsilon},
		[]float64{maxX - minX + 2*Epsilon, maxY - minY + 2*Epsilon},
	)
	if err != nil {
		return []Wall{}
	}

	results := wi.tree.SearchIntersect(bbox)
	walls := make([]Wall, 0, len(results))

	for _, item := range results {
		entry := item.(*WallEntry)
		walls = append(walls, entry.Wall)
	}

	return walls
}

// RegionAround returns the square box reaching radius from p, the region a
// radius-limited sweep from p can see
func RegionAround(p Point, radius float64) orb.Bound {
	return orb.Bound{
		Min: orb.Point{p.X - radius, p.Y - radius},
		Max: orb.Point{p.X + radius, p.Y + radius},
	}
}
