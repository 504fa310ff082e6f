package camera

import "errors"

// Setup errors. The per-tick math assumes these were ruled out up front.
var (
	ErrInvalidFOV      = errors.New("camera: field of view must be in (0, 180) degrees")
	ErrInvalidAspect   = errors.New("camera: aspect ratio must be positive")
	ErrInvalidNearClip = errors.New("camera: near clip must be non-negative")
	ErrInvalidViewport = errors.New("camera: viewport size must be in [0, 1]")
	ErrInvalidBounds   = errors.New("camera: level bounds must have positive size")
	ErrInvalidZoom     = errors.New("camera: zoom limits must satisfy 0 <= min <= max")
)
