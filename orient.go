package visibility

import (
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/bigxy"
	"github.com/twpayne/go-geom/xy/orientation"
)

// OrientFunc reports on which side of the ray a→b the point c lies.
// Positive means c is clockwise of a→b on screen (y grows downward),
// negative means counter-clockwise and zero means the three points are collinear.
type OrientFunc func(a, b, c Point) float64

// Robust is the exact orientation test. It only returns -1, 0 or 1.
func Robust(a, b, c Point) float64 {
	// go-geom works in y-up terms, so its counter-clockwise is our clockwise
	switch bigxy.OrientationIndex(coord(a), coord(b), coord(c)) {
	case orientation.CounterClockwise:
		return 1
	case orientation.Clockwise:
		return -1
	}
	return 0
}

// Fast is the plain floating point cross product. Near-collinear input may
// come out with the wrong sign.
func Fast(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// orDefault returns f, or Robust when f is nil
func (f OrientFunc) orDefault() OrientFunc {
	if f == nil {
		return Robust
	}
	return f
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func coord(p Point) geom.Coord {
	return geom.Coord{p.X, p.Y}
}
