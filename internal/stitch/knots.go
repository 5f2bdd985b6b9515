package stitch

import (
	"math"

	"github.com/closset/closset/engine-go/internal/design"
	"github.com/closset/closset/engine-go/internal/geom"
)

// knotDecimation draws one french knot per Nth input point.
const knotDecimation = 3

// genCross consumes points pairwise; each pair spans a box whose diagonals
// form the X, with a center dot and four corner dots marking needle holes.
func genCross(st design.Stitch, p Params) []Primitive {
	var prims []Primitive
	for _, pair := range segmentPairs(st.Points) {
		a, b := pair[0], pair[1]
		c1 := geom.Pt(b.X, a.Y)
		c2 := geom.Pt(a.X, b.Y)

		prims = append(prims, layered([]geom.Point{a, b}, st.Color, st.Thickness, st.Opacity, p)...)
		prims = append(prims, layered([]geom.Point{c1, c2}, st.Color, st.Thickness, st.Opacity, p)...)

		center := a.Lerp(b, 0.5)
		prims = append(prims, texturedDot(center, st.Thickness*0.5, st.Color, st.Opacity, p)...)
		for _, corner := range []geom.Point{a, b, c1, c2} {
			prims = append(prims, texturedDot(corner, st.Thickness*0.35, st.Color, st.Opacity*0.9, p)...)
		}
	}
	return prims
}

// genChain draws each segment as an oriented ellipse link with a thin
// connecting thread into the next link.
func genChain(st design.Stitch, p Params) []Primitive {
	var prims []Primitive
	for i := 0; i+1 < len(st.Points); i++ {
		a, b := st.Points[i], st.Points[i+1]
		dist := a.Distance(b)
		if dist < epsLen {
			continue
		}

		mid := a.Lerp(b, 0.5)
		rot := math.Atan2(b.Y-a.Y, b.X-a.X)
		rx := dist * 0.42
		ry := math.Max(st.Thickness*0.9, dist*0.18)

		shadowCenter := mid.Add(p.LightDir.Mul(-st.Thickness * 0.3))
		prims = append(prims,
			Primitive{
				Op: OpEllipse, Center: shadowCenter, RadiusX: rx, RadiusY: ry, Rotation: rot,
				Color: AdjustBrightness(st.Color, shadowTone), Width: st.Thickness * 1.2, Opacity: st.Opacity * 0.35,
			},
			Primitive{
				Op: OpEllipse, Center: mid, RadiusX: rx, RadiusY: ry, Rotation: rot,
				Color: st.Color, Width: st.Thickness * 0.8, Opacity: st.Opacity,
			},
			Primitive{
				Op: OpEllipse, Center: mid.Add(p.LightDir.Mul(st.Thickness * 0.15)), RadiusX: rx * 0.9, RadiusY: ry * 0.8, Rotation: rot,
				Color: AdjustBrightness(st.Color, highlightTone), Width: st.Thickness * 0.35, Opacity: st.Opacity * 0.6,
			},
		)

		// Connecting thread from this link into the next.
		if i+2 < len(st.Points) {
			next := st.Points[i+1].Lerp(st.Points[i+2], 0.15)
			prims = append(prims, stroke([]geom.Point{b, next}, st.Color, st.Thickness*0.4, st.Opacity*0.8))
		}
	}
	return prims
}

// genFrenchKnot places one knot per third point: a radial gradient disc with
// four radial texture strokes and a shine highlight.
func genFrenchKnot(st design.Stitch, p Params) []Primitive {
	var prims []Primitive
	for i := 0; i < len(st.Points); i += knotDecimation {
		center := st.Points[i]
		radius := st.Thickness * 1.6

		prims = append(prims,
			dot(center.Add(p.LightDir.Mul(-radius*0.3)), radius*1.15, AdjustBrightness(st.Color, shadowTone), st.Opacity*0.4),
			Primitive{
				Op: OpDisc, Center: center, Radius: radius,
				Color:     AdjustBrightness(st.Color, 40),
				EdgeColor: AdjustBrightness(st.Color, -45),
				Opacity:   st.Opacity,
			},
		)

		// Four radial texture strokes suggest the wrapped thread.
		for k := 0; k < 4; k++ {
			angle := float64(k)*math.Pi/2 + math.Pi/4
			dir := geom.Pt(math.Cos(angle), math.Sin(angle))
			prims = append(prims, stroke(
				[]geom.Point{center.Add(dir.Mul(radius * 0.25)), center.Add(dir.Mul(radius * 0.95))},
				AdjustBrightness(st.Color, -25), st.Thickness*0.3, st.Opacity*0.8,
			))
		}

		shine := center.Add(p.LightDir.Mul(radius * 0.4))
		prims = append(prims, dot(shine, radius*0.28, AdjustBrightness(st.Color, 95), st.Opacity*0.9))
	}
	return prims
}

// genBullion subdivides each segment into a twisted-rope coil: samples are
// displaced sinusoidally along the perpendicular, one wave per wrap.
func genBullion(st design.Stitch, p Params) []Primitive {
	var prims []Primitive
	for i := 0; i+1 < len(st.Points); i++ {
		a, b := st.Points[i], st.Points[i+1]
		dist := a.Distance(b)
		if dist < epsLen {
			continue
		}

		n := int(dist / math.Max(st.Thickness*0.5, 1e-4))
		if n < 8 {
			n = 8
		}
		if n > maxCoilSamples {
			n = maxCoilSamples
		}
		wraps := math.Max(3, dist/math.Max(st.Thickness*1.5, 1e-4))

		perp := b.Sub(a).Normalize().Perp()
		coil := make([]geom.Point, 0, n+1)
		for s := 0; s <= n; s++ {
			t := float64(s) / float64(n)
			wave := math.Sin(t * wraps * 2 * math.Pi)
			coil = append(coil, a.Lerp(b, t).Add(perp.Mul(wave*st.Thickness*0.5)))
		}

		prims = append(prims, layered(coil, st.Color, st.Thickness*0.9, st.Opacity, p)...)
		prims = append(prims, texturedDot(a, st.Thickness*0.4, st.Color, st.Opacity, p)...)
		prims = append(prims, texturedDot(b, st.Thickness*0.4, st.Color, st.Opacity, p)...)
	}
	return prims
}

// genLazyDaisy turns point pairs into petals: a filled ellipse along the
// segment with an outline and an anchor dot at the base.
func genLazyDaisy(st design.Stitch, p Params) []Primitive {
	var prims []Primitive
	for _, pair := range segmentPairs(st.Points) {
		a, b := pair[0], pair[1]
		dist := a.Distance(b)
		if dist < epsLen {
			continue
		}

		mid := a.Lerp(b, 0.5)
		rot := math.Atan2(b.Y-a.Y, b.X-a.X)
		rx := dist * 0.5
		ry := math.Max(dist*0.22, st.Thickness)

		prims = append(prims,
			Primitive{
				Op: OpEllipse, Center: mid, RadiusX: rx, RadiusY: ry, Rotation: rot,
				Color: AdjustBrightness(st.Color, 25), Filled: true, Opacity: st.Opacity * 0.35,
			},
			Primitive{
				Op: OpEllipse, Center: mid, RadiusX: rx, RadiusY: ry, Rotation: rot,
				Color: st.Color, Width: st.Thickness * 0.7, Opacity: st.Opacity,
			},
		)
		prims = append(prims, texturedDot(a, st.Thickness*0.5, st.Color, st.Opacity, p)...)
	}
	return prims
}

// genFeather draws the open zigzag of feather stitch: angled line pairs fan
// out from alternating sides of the spine.
func genFeather(st design.Stitch, p Params) []Primitive {
	var prims []Primitive
	r := newRNG(st.ID, "feather")
	for i := 0; i+2 < len(st.Points); i += 2 {
		a, b, c := st.Points[i], st.Points[i+1], st.Points[i+2]
		prims = append(prims, layered([]geom.Point{a, b}, st.Color, st.Thickness*0.8, st.Opacity, p)...)
		prims = append(prims, layered([]geom.Point{b, c}, st.Color, st.Thickness*0.8, st.Opacity, p)...)

		// A short barb off the junction, flipping sides per group.
		side := 1.0
		if (i/2)%2 == 1 {
			side = -1
		}
		dir := c.Sub(a).Normalize().Perp().Mul(side)
		barbLen := st.Thickness * r.between(1.8, 2.6)
		prims = append(prims, stroke(
			[]geom.Point{b, b.Add(dir.Mul(barbLen))},
			AdjustBrightness(st.Color, -15), st.Thickness*0.5, st.Opacity*0.9,
		))
	}
	return prims
}
