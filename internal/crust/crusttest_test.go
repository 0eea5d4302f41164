package crust_test

import (
	"testing"

	"github.com/UnknownOlympus/crust1/internal/crust"
	"github.com/stretchr/testify/require"
)

// Deep-ocean column used for every cell unless overridden.
var (
	oceanVP   = [crust.NumLayers]float64{1.50, 3.81, 1.65, 2.00, 2.50, 5.00, 6.60, 7.10, 8.10}
	oceanRho  = [crust.NumLayers]float64{1.02, 0.92, 1.60, 2.03, 2.26, 2.60, 2.90, 3.05, 3.30}
	oceanBnds = [crust.NumLayers]float64{0.00, -4.30, -4.30, -4.52, -4.52, -4.80, -6.40, -8.90, -11.20}
)

// landBnds has no water or ice and a 5 m upper sediment layer, below MinThickness.
var landBnds = [crust.NumLayers]float64{0.25, 0.25, 0.25, 0.245, 0.245, 0.245, -12.0, -24.0, -36.0}

// cellID numbers the cells of the grid row by row.
func cellID(idx crust.GridIndex) float64 {
	return float64(idx.Lat*crust.NumLon + idx.Lon)
}

// testGrids builds synthetic grids. VS encodes the cell and layer as
// cellID*10+layer so tests can check which cell a query read. overrides
// replaces the boundary column of selected cells.
func testGrids(overrides map[crust.GridIndex][crust.NumLayers]float64) crust.Grids {
	g := crust.Grids{
		VP:   make([]float64, crust.GridSize),
		VS:   make([]float64, crust.GridSize),
		Rho:  make([]float64, crust.GridSize),
		Bnds: make([]float64, crust.GridSize),
	}
	for lat := range crust.NumLat {
		for lon := range crust.NumLon {
			idx := crust.GridIndex{Lat: lat, Lon: lon}
			bnds, ok := overrides[idx]
			if !ok {
				bnds = oceanBnds
			}
			off := (lat*crust.NumLon + lon) * crust.NumLayers
			for l := range crust.NumLayers {
				g.VP[off+l] = oceanVP[l]
				g.VS[off+l] = cellID(idx)*10 + float64(l)
				g.Rho[off+l] = oceanRho[l]
				g.Bnds[off+l] = bnds[l]
			}
		}
	}
	return g
}

func newTestModel(t *testing.T, overrides map[crust.GridIndex][crust.NumLayers]float64) *crust.Model {
	t.Helper()
	m, err := crust.New(testGrids(overrides))
	require.NoError(t, err)
	return m
}
