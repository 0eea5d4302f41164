// Package crust answers point queries against the CRUST 1.0 global crustal
// model: four co-registered 1° grids of P-wave velocity, S-wave velocity,
// density and layer-top elevation, nine layers deep.
package crust

import (
	"fmt"
	"math"
)

// MinThickness is the thickness (km) below which a layer is treated as absent.
const MinThickness = 0.01

// Grids are the four flat value sequences of a model, each GridSize values in
// (lat, lon, layer) row-major order, as produced by a loader.
type Grids struct {
	VP   []float64
	VS   []float64
	Rho  []float64
	Bnds []float64
}

// Model is a loaded CRUST 1.0 model. It owns copies of its grids and never
// mutates them, so a Model is safe for concurrent use.
type Model struct {
	vp   Grid
	vs   Grid
	rho  Grid
	bnds Grid
}

// New builds a Model from the four grids. Every grid must hold exactly
// GridSize values; otherwise ErrShapeMismatch is returned.
func New(g Grids) (*Model, error) {
	var (
		m   Model
		err error
	)
	fields := []struct {
		name string
		src  []float64
		dst  *Grid
	}{
		{"vp", g.VP, &m.vp},
		{"vs", g.VS, &m.vs},
		{"rho", g.Rho, &m.rho},
		{"bnds", g.Bnds, &m.bnds},
	}
	for _, f := range fields {
		if *f.dst, err = NewGrid(f.src); err != nil {
			return nil, fmt.Errorf("%s grid: %w", f.name, err)
		}
	}
	return &m, nil
}

// Shape returns the dimensions shared by all four grids.
func (m *Model) Shape() Shape {
	return m.bnds.Shape()
}

// Shapes returns the dimensions of the vp, vs, rho and bnds grids, in that order.
func (m *Model) Shapes() [4]Shape {
	return [4]Shape{m.vp.Shape(), m.vs.Shape(), m.rho.Shape(), m.bnds.Shape()}
}

// Boundaries returns the layer-top elevations of a cell.
func (m *Model) Boundaries(idx GridIndex) ([NumLayers]float64, error) {
	if !idx.Valid() {
		return [NumLayers]float64{}, fmt.Errorf("%w: bucket %+v", ErrOutOfRange, idx)
	}
	return m.bnds.Column(idx), nil
}

// Thicknesses derives per-layer thickness from a boundary column: the absolute
// gap to the next boundary. The mantle has no lower boundary, so its value is
// the absolute elevation of its top (the gap to a synthetic zero boundary).
func Thicknesses(bnds [NumLayers]float64) [NumLayers]float64 {
	var out [NumLayers]float64
	for i := range NumLayers - 1 {
		out[i] = math.Abs(bnds[i] - bnds[i+1])
	}
	out[Mantle] = math.Abs(bnds[Mantle] - 0)
	return out
}

// QueryOption adjusts a Point query.
type QueryOption func(*queryOptions)

type queryOptions struct {
	includeZeroThickness bool
}

// WithZeroThickness keeps layers thinner than MinThickness in the result.
func WithZeroThickness() QueryOption {
	return func(o *queryOptions) { o.includeZeroThickness = true }
}

// IncludeZeroThickness is WithZeroThickness driven by a flag.
func IncludeZeroThickness(include bool) QueryOption {
	return func(o *queryOptions) { o.includeZeroThickness = include }
}

// Point returns the layered model at the cell containing (lat, lon).
// Layers thinner than MinThickness are dropped unless WithZeroThickness is
// given; the mantle is always present. Coordinates outside the grid yield
// ErrOutOfRange.
func (m *Model) Point(lat, lon float64, opts ...QueryOption) (*Point, error) {
	idx, err := Index(lat, lon)
	if err != nil {
		return nil, err
	}
	return m.PointAt(idx, opts...)
}

// PointAt is Point for an already computed cell index.
func (m *Model) PointAt(idx GridIndex, opts ...QueryOption) (*Point, error) {
	var o queryOptions
	for _, opt := range opts {
		opt(&o)
	}

	bnds, err := m.Boundaries(idx)
	if err != nil {
		return nil, err
	}
	thickness := Thicknesses(bnds)

	p := &Point{Index: idx}
	for _, l := range Layers() {
		// NaN thickness counts as absent.
		if !o.includeZeroThickness && !(thickness[l] >= MinThickness) && l != Mantle {
			continue
		}
		p.set(l, LayerProperties{
			VP:        m.vp.At(idx, l),
			VS:        m.vs.At(idx, l),
			Rho:       m.rho.At(idx, l),
			Thickness: thickness[l],
			Boundary:  bnds[l],
		})
	}
	return p, nil
}
