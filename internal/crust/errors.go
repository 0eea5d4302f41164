package crust

import "errors"

var (
	// ErrLoad is returned when a data source is missing, unreadable or holds
	// the wrong number of values. Loaders wrap it.
	ErrLoad = errors.New("crust: failed to load model data")
	// ErrShapeMismatch is returned when a grid does not hold exactly
	// NumLat*NumLon*NumLayers values.
	ErrShapeMismatch = errors.New("crust: grid shape mismatch")
	// ErrOutOfRange is returned when a coordinate maps to a bucket outside the grid.
	ErrOutOfRange = errors.New("crust: coordinate out of grid range")
	// ErrUnknownLayer is returned by ParseLayer for names outside the fixed layer set.
	ErrUnknownLayer = errors.New("crust: unknown layer")
)
