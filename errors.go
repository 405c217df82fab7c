package visibility

import "errors"

var (
	ErrInvalidRadius  = errors.New("radius must be a finite, non-negative number")
	ErrInvalidAngle   = errors.New("angle must be within [0, 360] degrees")
	ErrInvalidDensity = errors.New("density must be non-negative")
	ErrInvalidType    = errors.New("unknown vision type")
	ErrInvalidBounds  = errors.New("bounds minimum exceeds maximum")
	ErrUnbounded      = errors.New("either a radius or scene bounds are required")
	ErrOriginOutside  = errors.New("origin must lie strictly inside the scene bounds")
	ErrDegenerateEdge = errors.New("edge endpoints coincide")
	ErrBoundaryOrigin = errors.New("boundary shape does not contain the origin")
	ErrOpenBoundary   = errors.New("boundary shape needs at least three vertices")
	ErrClipFailed     = errors.New("clipping to the boundary shape lost the region around the origin")
	ErrOutOfRange     = errors.New("coordinates exceed the supported range")
)
