package crust

import (
	"fmt"
	"strings"
)

// Layer identifies one of the nine CRUST 1.0 strata. The numeric value is the
// position of the layer along the layer axis of every grid.
type Layer int

// Layers in depth order. The order is shared by all four grids.
const (
	Water Layer = iota
	Ice
	UpperSediments
	MiddleSediments
	LowerSediments
	UpperCrust
	MiddleCrust
	LowerCrust
	Mantle
)

// NumLayers is the size of the layer axis.
const NumLayers = 9

var layerNames = [NumLayers]string{
	"water",
	"ice",
	"upper_sediments",
	"middle_sediments",
	"lower_sediments",
	"upper_crust",
	"middle_crust",
	"lower_crust",
	"mantle",
}

var layerByName = func() map[string]Layer {
	m := make(map[string]Layer, NumLayers)
	for i, name := range layerNames {
		m[name] = Layer(i)
	}
	return m
}()

// String returns the canonical layer name, e.g. "upper_sediments".
func (l Layer) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Layer(%d)", int(l))
	}
	return layerNames[l]
}

// Valid reports whether l is one of the nine known layers.
func (l Layer) Valid() bool {
	return l >= Water && l <= Mantle
}

// ParseLayer resolves a layer name to its Layer. Matching ignores case and
// surrounding whitespace.
func ParseLayer(name string) (Layer, error) {
	l, ok := layerByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLayer, name)
	}
	return l, nil
}

// Layers returns all layers in canonical (depth) order.
func Layers() []Layer {
	out := make([]Layer, NumLayers)
	for i := range out {
		out[i] = Layer(i)
	}
	return out
}

// LayerNames returns the canonical layer names in depth order.
func LayerNames() []string {
	out := make([]string, NumLayers)
	copy(out, layerNames[:])
	return out
}
