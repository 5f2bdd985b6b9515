package design

import (
	"github.com/closset/closset/engine-go/internal/geom"
)

// NewSample returns a small demo design used to seed the playground room:
// a satin-filled square, a row of cross-stitches and a few french knots.
func NewSample(baseLayerID string, stitchID func() string) *Design {
	d := New(baseLayerID)

	d.Stitches = append(d.Stitches, Stitch{
		ID:   stitchID(),
		Type: StitchSatin,
		Points: []geom.Point{
			geom.Pt(0.20, 0.20), geom.Pt(0.40, 0.20),
			geom.Pt(0.40, 0.40), geom.Pt(0.20, 0.40),
			geom.Pt(0.20, 0.20),
		},
		Color:     "#2980b9",
		Thickness: 0.004,
		Opacity:   1,
	})

	crosses := make([]geom.Point, 0, 8)
	for i := 0; i < 4; i++ {
		x := 0.50 + float64(i)*0.06
		crosses = append(crosses, geom.Pt(x, 0.25), geom.Pt(x+0.04, 0.29))
	}
	d.Stitches = append(d.Stitches, Stitch{
		ID:        stitchID(),
		Type:      StitchCross,
		Points:    crosses,
		Color:     "#c0392b",
		Thickness: 0.003,
		Opacity:   1,
	})

	d.Stitches = append(d.Stitches, Stitch{
		ID:   stitchID(),
		Type: StitchFrenchKnot,
		Points: []geom.Point{
			geom.Pt(0.30, 0.60), geom.Pt(0.35, 0.62), geom.Pt(0.40, 0.60),
			geom.Pt(0.45, 0.62), geom.Pt(0.50, 0.60), geom.Pt(0.55, 0.62),
		},
		Color:     "#f1c40f",
		Thickness: 0.005,
		Opacity:   1,
	})

	return d
}
