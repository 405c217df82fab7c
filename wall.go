package visibility

import (
	"fmt"
	"strings"
)

// Type is a category of vision or movement that a wall may block
type Type uint8

const (
	TypeSight Type = iota
	TypeLight
	TypeMove
	TypeSound
	numTypes
)

var typeNames = [numTypes]string{"sight", "light", "move", "sound"}

func (t Type) String() string {
	if t < numTypes {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Valid reports whether t is one of the known types
func (t Type) Valid() bool {
	return t < numTypes
}

// ParseType maps a name such as "sight" to its Type
func ParseType(s string) (Type, error) {
	for i, name := range typeNames {
		if strings.EqualFold(s, name) {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidType, s)
}

func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidType, uint8(t))
	}
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// TypeSet is the set of types a wall blocks
type TypeSet uint8

// BlocksAll blocks every known type
const BlocksAll = TypeSet(1<<numTypes - 1)

// Blocks builds a set from the given types
func Blocks(types ...Type) TypeSet {
	var s TypeSet
	for _, t := range types {
		s |= 1 << t
	}
	return s
}

// Has reports whether t is in the set
func (s TypeSet) Has(t Type) bool {
	return t < numTypes && s&(1<<t) != 0
}

// Types lists the members in declaration order
func (s TypeSet) Types() []Type {
	var out []Type
	for t := Type(0); t < numTypes; t++ {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

// Side says where a point lies relative to a directed wall A→B
type Side int8

const (
	// SideBoth: the point is collinear with the wall. As a wall direction it
	// means the wall blocks from both sides.
	SideBoth Side = 0
	// SideFront: the point is clockwise of A→B
	SideFront Side = 1
	// SideBack: the point is counter-clockwise of A→B
	SideBack Side = -1
)

func (s Side) String() string {
	switch s {
	case SideFront:
		return "front"
	case SideBack:
		return "back"
	}
	return "both"
}

// ParseSide maps "front", "back" and "both" (or "") to a Side
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(s) {
	case "", "both":
		return SideBoth, nil
	case "front":
		return SideFront, nil
	case "back":
		return SideBack, nil
	}
	return SideBoth, fmt.Errorf("unknown wall side %q", s)
}

// Wall is a raw blocking segment supplied by the caller
type Wall struct {
	ID        string
	A, B      Point
	Blocks    TypeSet
	Open      bool // an open door blocks nothing
	Direction Side // SideBoth, or the side an origin must be on to be blocked
	// Interior marks a wall inside a structure. It is carried through scene
	// files for callers and does not change blocking, which follows Open,
	// Blocks and Direction like any other wall.
	Interior bool
}

// NewWall returns a two-way wall blocking every type
func NewWall(a, b Point) Wall {
	return Wall{A: a, B: b, Blocks: BlocksAll}
}

// WhichSide reports the side of A→B that p lies on
func (w Wall) WhichSide(p Point, orient OrientFunc) Side {
	return sideOf(w.A, w.B, p, orient.orDefault())
}

// IsBlocking decides whether the wall blocks t when seen from origin
func (w Wall) IsBlocking(t Type, origin Point, orient OrientFunc) bool {
	return blocks(w, w.WhichSide(origin, orient), t)
}

func sideOf(a, b, p Point, orient OrientFunc) Side {
	return Side(sign(orient(a, b, p)))
}

// blocks applies the per-type policy given the side the origin is on
func blocks(w Wall, side Side, t Type) bool {
	// A sightline along the wall's own line grazes it
	if t == TypeSight && side == SideBoth {
		return false
	}
	if w.Open || !w.Blocks.Has(t) {
		return false
	}
	if w.Direction != SideBoth {
		return side == w.Direction
	}
	return true
}
