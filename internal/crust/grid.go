package crust

import (
	"fmt"
	"math"
)

// Grid dimensions of CRUST 1.0.
const (
	NumLat   = 180
	NumLon   = 360
	GridSize = NumLat * NumLon * NumLayers
)

// Shape is the (lat, lon, layer) extent of a grid.
type Shape struct {
	Lat, Lon, Layers int
}

// GridIndex addresses one 1° cell. Lat 0 is the northernmost row (90°N to 89°N),
// Lon 0 the westernmost column (180°W to 179°W).
type GridIndex struct {
	Lat int
	Lon int
}

// Valid reports whether the index addresses a cell inside the grid.
func (g GridIndex) Valid() bool {
	return g.Lat >= 0 && g.Lat < NumLat && g.Lon >= 0 && g.Lon < NumLon
}

// Grid is a dense read-only scalar field stored row-major as
// vals[(lat*NumLon+lon)*NumLayers+layer].
type Grid struct {
	vals []float64
}

// NewGrid copies values into a new Grid. The input must hold exactly GridSize values.
func NewGrid(values []float64) (Grid, error) {
	if len(values) != GridSize {
		return Grid{}, fmt.Errorf("%w: got %d values, want %d (%dx%dx%d)",
			ErrShapeMismatch, len(values), GridSize, NumLat, NumLon, NumLayers)
	}
	vals := make([]float64, GridSize)
	copy(vals, values)
	return Grid{vals: vals}, nil
}

// Shape returns the grid dimensions; the zero Grid has an empty shape.
func (g Grid) Shape() Shape {
	if len(g.vals) == 0 {
		return Shape{}
	}
	return Shape{Lat: NumLat, Lon: NumLon, Layers: NumLayers}
}

// At returns the value stored for a cell and layer. It panics on an invalid
// index or layer, like any out-of-range slice access; callers validate with
// GridIndex.Valid and Layer.Valid.
func (g Grid) At(idx GridIndex, layer Layer) float64 {
	if !layer.Valid() {
		panic(fmt.Sprintf("crust: layer %d out of range", int(layer)))
	}
	return g.vals[g.offset(idx)+int(layer)]
}

// Column returns a copy of the nine layer values of a cell.
func (g Grid) Column(idx GridIndex) [NumLayers]float64 {
	var col [NumLayers]float64
	off := g.offset(idx)
	copy(col[:], g.vals[off:off+NumLayers])
	return col
}

func (g Grid) offset(idx GridIndex) int {
	if !idx.Valid() {
		panic(fmt.Sprintf("crust: grid index %+v out of range", idx))
	}
	return (idx.Lat*NumLon + idx.Lon) * NumLayers
}

// Index maps a coordinate to its grid cell.
//
// Longitude is wrapped once: values above 180 lose 360, values below -180 gain
// 360. Inputs further out stay out of range. The buckets are
// floor(90-lat) and floor(180+lon), so lat=-90 and lon=180 fall just outside
// the grid and yield ErrOutOfRange.
func Index(lat, lon float64) (GridIndex, error) {
	if lon > 180 {
		lon -= 360
	}
	if lon < -180 {
		lon += 360
	}

	fLat := math.Floor(90 - lat)
	fLon := math.Floor(180 + lon)
	if math.IsNaN(fLat) || math.IsNaN(fLon) ||
		fLat < 0 || fLat >= NumLat || fLon < 0 || fLon >= NumLon {
		return GridIndex{}, fmt.Errorf("%w: lat=%g lon=%g -> bucket (%g, %g)", ErrOutOfRange, lat, lon, fLat, fLon)
	}

	return GridIndex{Lat: int(fLat), Lon: int(fLon)}, nil
}

// BucketCenter returns the coordinate at the centre of a cell, e.g. (89.5, -179.5)
// for GridIndex{0, 0}.
func BucketCenter(idx GridIndex) (lat, lon float64) {
	return 89.5 - float64(idx.Lat), -179.5 + float64(idx.Lon)
}
