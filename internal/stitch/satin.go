package stitch

import (
	"math"
	"strconv"

	"github.com/closset/closset/engine-go/internal/design"
	"github.com/closset/closset/engine-go/internal/geom"
	"github.com/closset/closset/engine-go/internal/scanline"
)

// scanDirection picks the sweep so satin threads run across the shape's
// narrow dimension, the way a satin column is actually stitched.
func scanDirection(points []geom.Point) scanline.Options {
	box := geom.BoundingBox(points)
	if box.Width() > box.Height() {
		return scanline.Options{Direction: scanline.Vertical}
	}
	return scanline.Options{Direction: scanline.Horizontal}
}

// genSatin renders a closed path as parallel satin threads across the
// interior, and an open path as a smoothed ribbon with parallel offsets.
func genSatin(st design.Stitch, p Params) []Primitive {
	if isClosed(st.Points) {
		opts := scanDirection(st.Points)
		opts.Spacing = fillSpacing(st, p)
		chords := scanline.Resolve(st.Points, opts)
		if len(chords) > 0 {
			prims := make([]Primitive, 0, len(chords)*3)
			for _, c := range chords {
				line := []geom.Point{c.Start(), c.End()}
				prims = append(prims, layered(line, st.Color, st.Thickness, st.Opacity, p)...)
			}
			return prims
		}
		// Degenerate ring: fall through to the open-path treatment.
	}

	base := smooth(st.Points)
	prims := layered(base, st.Color, st.Thickness, st.Opacity, p)

	// Parallel offset lines on both sides give the ribbon sheen.
	for _, side := range []float64{-1, 1} {
		off := offsetPolyline(base, side*st.Thickness*0.7)
		tone := AdjustBrightness(st.Color, side*25)
		prims = append(prims, stroke(off, tone, st.Thickness*0.4, st.Opacity*0.6))
	}
	return prims
}

// genFill sweeps the boundary with horizontal scan lines and renders each
// chord as a perturbed three-pass stroke so the rows never read as ruler
// lines.
func genFill(st design.Stitch, p Params) []Primitive {
	chords := scanline.Resolve(st.Points, scanline.Options{
		Direction: scanline.Horizontal,
		Spacing:   fillSpacing(st, p),
	})
	if len(chords) == 0 {
		return []Primitive{stroke(st.Points, st.Color, st.Thickness, st.Opacity)}
	}

	prims := make([]Primitive, 0, len(chords)*3)
	for _, c := range chords {
		r := newRNG(st.ID, "fill", strconv.Itoa(c.Line))
		row := resampleChord(c, st.Thickness)
		row = perturb(row, st.Thickness*p.Twist*0.6, r)
		prims = append(prims, layered(row, st.Color, st.Thickness, st.Opacity, p)...)
	}
	return prims
}

// genBrick is a fill whose odd rows are broken into half-period-offset
// dashes, reading as a brick coursing pattern.
func genBrick(st design.Stitch, p Params) []Primitive {
	chords := scanline.Resolve(st.Points, scanline.Options{
		Direction: scanline.Horizontal,
		Spacing:   fillSpacing(st, p),
	})
	if len(chords) == 0 {
		return []Primitive{stroke(st.Points, st.Color, st.Thickness, st.Opacity)}
	}

	brick := st.Thickness * 6
	var prims []Primitive
	for _, c := range chords {
		a, b := c.Start(), c.End()
		length := a.Distance(b)
		if length < epsLen {
			continue
		}
		phase := 0.0
		if c.Line%2 == 1 {
			phase = 0.5
		}
		for t := -phase; t*brick < length; t++ {
			lo := math.Max(t*brick/length, 0)
			hi := math.Min((t+0.85)*brick/length, 1)
			if hi <= lo {
				continue
			}
			seg := []geom.Point{a.Lerp(b, lo), a.Lerp(b, hi)}
			prims = append(prims, layered(seg, st.Color, st.Thickness, st.Opacity, p)...)
		}
	}
	return prims
}

// genLongShort alternates full-length and 60% chords from alternating ends,
// the classic long-and-short shading fill.
func genLongShort(st design.Stitch, p Params) []Primitive {
	chords := scanline.Resolve(st.Points, scanline.Options{
		Direction: scanline.Horizontal,
		Spacing:   fillSpacing(st, p),
	})
	if len(chords) == 0 {
		return []Primitive{stroke(st.Points, st.Color, st.Thickness, st.Opacity)}
	}

	var prims []Primitive
	for _, c := range chords {
		a, b := c.Start(), c.End()
		if c.Line%2 == 1 {
			b = a.Lerp(b, 0.6)
		}
		tone := st.Color
		if c.Line%2 == 1 {
			tone = AdjustBrightness(st.Color, 18)
		}
		prims = append(prims, layered([]geom.Point{a, b}, tone, st.Thickness, st.Opacity, p)...)
	}
	return prims
}

// genSatinRibbon renders a wide sheened band: the smoothed path plus stacked
// parallel offsets shading from dark to light across the ribbon.
func genSatinRibbon(st design.Stitch, p Params) []Primitive {
	base := smooth(st.Points)
	prims := layered(base, st.Color, st.Thickness*1.4, st.Opacity, p)

	offsets := []float64{-1.5, -0.75, 0.75, 1.5}
	for _, o := range offsets {
		line := offsetPolyline(base, o*st.Thickness*0.6)
		tone := AdjustBrightness(st.Color, o*22)
		prims = append(prims, stroke(line, tone, st.Thickness*0.5, st.Opacity*0.7))
	}
	return prims
}

const epsLen = 1e-9

// offsetPolyline shifts every sample perpendicular to its local direction.
func offsetPolyline(points []geom.Point, dist float64) []geom.Point {
	out := make([]geom.Point, len(points))
	for i, pt := range points {
		var dir geom.Point
		switch {
		case i == 0:
			dir = points[1].Sub(points[0])
		case i == len(points)-1:
			dir = points[i].Sub(points[i-1])
		default:
			dir = points[i+1].Sub(points[i-1])
		}
		out[i] = pt.Add(dir.Normalize().Perp().Mul(dist))
	}
	return out
}

// resampleChord expands a chord into evenly spaced samples so perturbation
// has interior points to displace.
func resampleChord(c scanline.Chord, thickness float64) []geom.Point {
	a, b := c.Start(), c.End()
	n := int(a.Distance(b) / math.Max(thickness*2, 1e-4))
	if n < 2 {
		n = 2
	}
	if n > 32 {
		n = 32
	}
	out := make([]geom.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		out = append(out, a.Lerp(b, float64(i)/float64(n)))
	}
	return out
}
