// Package design holds the embroidery design data model: typed stitches,
// layers and the design document that groups them. The model is plain data
// with JSON tags so designs round-trip through snapshots and the export
// boundary without translation.
package design

import (
	"github.com/closset/closset/engine-go/internal/geom"
)

// StitchType identifies a stitch family. The set is closed: generators
// dispatch on it exhaustively and anything unknown renders through the plain
// polyline fallback.
type StitchType string

const (
	StitchSatin       StitchType = "satin"
	StitchFill        StitchType = "fill"
	StitchCross       StitchType = "cross-stitch"
	StitchChain       StitchType = "chain"
	StitchBackstitch  StitchType = "backstitch"
	StitchOutline     StitchType = "outline"
	StitchFrenchKnot  StitchType = "french-knot"
	StitchBullion     StitchType = "bullion"
	StitchLazyDaisy   StitchType = "lazy-daisy"
	StitchFeather     StitchType = "feather"
	StitchCouching    StitchType = "couching"
	StitchSeed        StitchType = "seed"
	StitchStem        StitchType = "stem"
	StitchMetallic    StitchType = "metallic"
	StitchGlowThread  StitchType = "glow-thread"
	StitchVariegated  StitchType = "variegated"
	StitchGradient    StitchType = "gradient"
	StitchBrick       StitchType = "brick"
	StitchFishbone    StitchType = "fishbone"
	StitchHerringbone StitchType = "herringbone"
	StitchLongShort   StitchType = "long-short"
	StitchSplit       StitchType = "split"
	StitchApplique    StitchType = "applique"
	StitchSatinRibbon StitchType = "satin-ribbon"
)

// Types lists every known stitch family.
var Types = []StitchType{
	StitchSatin, StitchFill, StitchCross, StitchChain, StitchBackstitch,
	StitchOutline, StitchFrenchKnot, StitchBullion, StitchLazyDaisy,
	StitchFeather, StitchCouching, StitchSeed, StitchStem, StitchMetallic,
	StitchGlowThread, StitchVariegated, StitchGradient, StitchBrick,
	StitchFishbone, StitchHerringbone, StitchLongShort, StitchSplit,
	StitchApplique, StitchSatinRibbon,
}

// Known reports whether t is one of the closed stitch families.
func Known(t StitchType) bool {
	for _, k := range Types {
		if k == t {
			return true
		}
	}
	return false
}

// Stitch is the atomic design unit: a typed, styled polyline representing one
// embroidery operation. Points are in normalized unit-square coordinates and
// insertion order defines stroke direction and thread lay. A committed stitch
// is never mutated in place; edits produce new Stitch values so history
// snapshots captured by reference stay valid.
type Stitch struct {
	ID         string       `json:"id"`
	Type       StitchType   `json:"type"`
	Points     []geom.Point `json:"points"`
	Color      string       `json:"color"`
	Thickness  float64      `json:"thickness"`
	Opacity    float64      `json:"opacity"`
	ThreadType string       `json:"threadType,omitempty"`
	Layer      int          `json:"layer"`
}

// Renderable reports whether the stitch carries enough geometry to draw.
// Stitches with fewer than 2 points are valid data but render as a no-op.
func (s Stitch) Renderable() bool {
	return len(s.Points) >= 2
}

// Clone returns a deep copy of the stitch.
func (s Stitch) Clone() Stitch {
	cp := s
	cp.Points = make([]geom.Point, len(s.Points))
	copy(cp.Points, s.Points)
	return cp
}

// Style is the snapshot of the active drawing style captured when a stitch
// is started.
type Style struct {
	Type       StitchType `json:"type"`
	Color      string     `json:"color"`
	Thickness  float64    `json:"thickness"`
	Opacity    float64    `json:"opacity"`
	ThreadType string     `json:"threadType,omitempty"`
}

// DefaultStyle is the style a fresh session draws with.
func DefaultStyle() Style {
	return Style{
		Type:      StitchSatin,
		Color:     "#c0392b",
		Thickness: 0.004,
		Opacity:   1,
	}
}

// Layer groups stitches by name, visibility and lock flag. Layers are opaque
// to the rendering engine beyond the visibility check.
type Layer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Visible bool   `json:"visible"`
	Locked  bool   `json:"locked"`
}

// Design is the full editable state: the stitch list, the layer list and the
// index of the layer new stitches land on.
type Design struct {
	Stitches    []Stitch `json:"stitches"`
	Layers      []Layer  `json:"layers"`
	ActiveLayer int      `json:"activeLayerIndex"`
}

// New returns an empty design with a single visible base layer.
func New(baseLayerID string) *Design {
	return &Design{
		Stitches: []Stitch{},
		Layers: []Layer{
			{ID: baseLayerID, Name: "Layer 1", Visible: true},
		},
		ActiveLayer: 0,
	}
}

// Clone returns a deep copy of the design. History entries hold clones so
// later mutations cannot reach back into a snapshot.
func (d *Design) Clone() *Design {
	cp := &Design{
		Stitches:    make([]Stitch, len(d.Stitches)),
		Layers:      make([]Layer, len(d.Layers)),
		ActiveLayer: d.ActiveLayer,
	}
	for i, s := range d.Stitches {
		cp.Stitches[i] = s.Clone()
	}
	copy(cp.Layers, d.Layers)
	return cp
}

// LayerVisible reports whether the given layer index is currently visible.
// Out-of-range indices fall back to visible so a stray stitch still renders.
func (d *Design) LayerVisible(idx int) bool {
	if idx < 0 || idx >= len(d.Layers) {
		return true
	}
	return d.Layers[idx].Visible
}
