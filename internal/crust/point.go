package crust

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// LayerProperties holds the physical attributes of one layer at a cell.
type LayerProperties struct {
	VP        float64 `json:"vp"`              // P-wave velocity, km/s.
	VS        float64 `json:"vs"`              // S-wave velocity, km/s.
	Rho       float64 `json:"rho"`             // Density, g/cm³.
	Thickness float64 `json:"layer_thickness"` // Derived thickness, km.
	Boundary  float64 `json:"bnd"`             // Elevation of the layer top, km above sea level.
}

// Point is the layered model at a single cell. It iterates in canonical layer
// order and owns its data; nothing in it aliases the model grids.
type Point struct {
	Index  GridIndex
	layers [NumLayers]LayerProperties
	mask   [NumLayers]bool
}

// Get returns the properties of a layer and whether the layer is present.
func (p *Point) Get(l Layer) (LayerProperties, bool) {
	if !l.Valid() || !p.mask[l] {
		return LayerProperties{}, false
	}
	return p.layers[l], true
}

// Lookup is Get keyed by layer name.
func (p *Point) Lookup(name string) (LayerProperties, bool) {
	l, err := ParseLayer(name)
	if err != nil {
		return LayerProperties{}, false
	}
	return p.Get(l)
}

// Has reports whether the layer is present.
func (p *Point) Has(l Layer) bool {
	return l.Valid() && p.mask[l]
}

// Layers returns the present layers in canonical order.
func (p *Point) Layers() []Layer {
	out := make([]Layer, 0, NumLayers)
	for i, ok := range p.mask {
		if ok {
			out = append(out, Layer(i))
		}
	}
	return out
}

// Len returns the number of present layers.
func (p *Point) Len() int {
	n := 0
	for _, ok := range p.mask {
		if ok {
			n++
		}
	}
	return n
}

// Each calls fn for every present layer in canonical order until fn returns false.
func (p *Point) Each(fn func(Layer, LayerProperties) bool) {
	for i, ok := range p.mask {
		if ok && !fn(Layer(i), p.layers[i]) {
			return
		}
	}
}

// Map returns the layers keyed by name. Map iteration order is random; use
// Each or MarshalJSON when order matters.
func (p *Point) Map() map[string]LayerProperties {
	out := make(map[string]LayerProperties, p.Len())
	p.Each(func(l Layer, props LayerProperties) bool {
		out[l.String()] = props
		return true
	})
	return out
}

func (p *Point) set(l Layer, props LayerProperties) {
	p.layers[l] = props
	p.mask[l] = true
}

// MarshalJSON encodes the point as a JSON object keyed by layer name, in layer order.
func (p *Point) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	var err error
	p.Each(func(l Layer, props LayerProperties) bool {
		if !first {
			buf.WriteByte(',')
		}
		first = false

		var val []byte
		if val, err = json.Marshal(props); err != nil {
			return false
		}
		// Layer names are plain ASCII identifiers.
		buf.WriteString(strconv.Quote(l.String()))
		buf.WriteByte(':')
		buf.Write(val)
		return true
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
