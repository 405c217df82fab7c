package visibility

import (
	"fmt"
	"log"
	"math"

	"github.com/paulmach/orb"
)

// Config describes one visibility query
type Config struct {
	Type     Type    // which wall flag applies
	Angle    float64 // field of view in degrees; 0 and 360 both mean unlimited
	Rotation float64 // facing in degrees, 0 is east and angles grow clockwise
	Radius   float64 // maximum view distance; 0 means unlimited
	Density  int     // arc points per quarter turn; 0 picks DefaultDensity

	// Bounds is the scene rectangle. Its edges block like walls, which is
	// what stops unlimited vision. Required when Radius is 0.
	Bounds orb.Bound

	// Orient selects the orientation test; nil means Robust
	Orient OrientFunc

	// OnFault receives internal invariant violations. The default logs them.
	OnFault func(Fault)
}

// Validate checks the configuration before any geometry work is done
func (c Config) Validate() error {
	if c.Radius < 0 || math.IsNaN(c.Radius) || math.IsInf(c.Radius, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidRadius, c.Radius)
	}
	if c.Angle < 0 || c.Angle > 360 || math.IsNaN(c.Angle) {
		return fmt.Errorf("%w: got %v", ErrInvalidAngle, c.Angle)
	}
	if math.IsNaN(c.Rotation) || math.IsInf(c.Rotation, 0) {
		return fmt.Errorf("rotation must be finite: got %v", c.Rotation)
	}
	if c.Density < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidDensity, c.Density)
	}
	if !c.Type.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidType, uint8(c.Type))
	}
	if c.Bounds.Min[0] > c.Bounds.Max[0] || c.Bounds.Min[1] > c.Bounds.Max[1] {
		return fmt.Errorf("%w: %v", ErrInvalidBounds, c.Bounds)
	}
	if c.Radius == 0 && !hasArea(c.Bounds) {
		return ErrUnbounded
	}
	return nil
}

// limitsAngle reports whether the field of view is narrower than a full turn
func (c Config) limitsAngle() bool {
	return c.Angle > 0 && c.Angle < 360
}

func (c Config) withDefaults() Config {
	if c.Density == 0 {
		c.Density = DefaultDensity
	}
	c.Orient = c.Orient.orDefault()
	if c.OnFault == nil {
		c.OnFault = logFault
	}
	return c
}

// Fault is an internal invariant violation met during a sweep. The sweep
// carries on after reporting it.
type Fault struct {
	Origin    Point
	Direction Point
	Reason    string
}

func (f Fault) Error() string {
	return fmt.Sprintf("sweep from (%.6f, %.6f) towards (%.6f, %.6f): %s",
		f.Origin.X, f.Origin.Y, f.Direction.X, f.Direction.Y, f.Reason)
}

func logFault(f Fault) {
	log.Printf("⚠️  %v\n", f)
}
