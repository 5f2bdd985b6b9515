package stitch

import (
	"math"
	"strconv"

	"github.com/closset/closset/engine-go/internal/design"
	"github.com/closset/closset/engine-go/internal/geom"
)

// genBackstitch renders each segment as a separate lightly perturbed stroke
// with small gaps at the needle holes.
func genBackstitch(st design.Stitch, p Params) []Primitive {
	var prims []Primitive
	for i := 0; i+1 < len(st.Points); i++ {
		a, b := st.Points[i], st.Points[i+1]
		if a.Distance(b) < epsLen {
			continue
		}
		seg := []geom.Point{a.Lerp(b, 0.06), a.Lerp(b, 0.5), a.Lerp(b, 0.94)}
		r := newRNG(st.ID, "back", strconv.Itoa(i))
		seg = perturb(seg, st.Thickness*p.Twist*0.4, r)
		prims = append(prims, layered(seg, st.Color, st.Thickness, st.Opacity, p)...)
	}
	return prims
}

// genOutline is the straight running outline: one layered pass over the
// whole polyline.
func genOutline(st design.Stitch, p Params) []Primitive {
	return layered(st.Points, st.Color, st.Thickness, st.Opacity, p)
}

// genStem overlaps slanted sub-strokes, each offset to an alternating side,
// producing the ropey twist of stem stitch.
func genStem(st design.Stitch, p Params) []Primitive {
	var prims []Primitive
	for i := 0; i+1 < len(st.Points); i++ {
		a, b := st.Points[i], st.Points[i+1]
		dir := b.Sub(a)
		if dir.Length() < epsLen {
			continue
		}
		side := 1.0
		if i%2 == 1 {
			side = -1
		}
		off := dir.Normalize().Perp().Mul(side * st.Thickness * 0.25)
		// Extend past the segment end so consecutive strokes overlap.
		ext := b.Add(dir.Mul(0.18))
		prims = append(prims, layered([]geom.Point{a.Add(off), ext.Add(off)}, st.Color, st.Thickness, st.Opacity, p)...)
	}
	return prims
}

// genSplit draws the main thread with a darker center groove, as if the
// needle split the strand on each pass.
func genSplit(st design.Stitch, p Params) []Primitive {
	prims := layered(st.Points, st.Color, st.Thickness*1.1, st.Opacity, p)
	prims = append(prims, stroke(st.Points, AdjustBrightness(st.Color, -40), st.Thickness*0.25, st.Opacity*0.85))
	return prims
}

// genCouching lays the main thread and tacks it down with short perpendicular
// tie strokes at regular intervals.
func genCouching(st design.Stitch, p Params) []Primitive {
	prims := layered(st.Points, st.Color, st.Thickness*1.2, st.Opacity, p)

	interval := st.Thickness * 4
	tieColor := AdjustBrightness(st.Color, -30)
	traveled := 0.0
	nextTie := interval
	for i := 0; i+1 < len(st.Points); i++ {
		a, b := st.Points[i], st.Points[i+1]
		segLen := a.Distance(b)
		if segLen < epsLen {
			continue
		}
		dir := b.Sub(a).Normalize()
		for nextTie <= traveled+segLen {
			at := a.Add(dir.Mul(nextTie - traveled))
			perp := dir.Perp().Mul(st.Thickness * 1.1)
			prims = append(prims, stroke(
				[]geom.Point{at.Sub(perp), at.Add(perp)},
				tieColor, st.Thickness*0.5, st.Opacity,
			))
			nextTie += interval
		}
		traveled += segLen
	}
	return prims
}

// genSeed scatters short dashes, one per second point, at deterministic
// pseudo-random orientations.
func genSeed(st design.Stitch, p Params) []Primitive {
	var prims []Primitive
	for i := 0; i < len(st.Points); i += 2 {
		r := newRNG(st.ID, "seed", strconv.Itoa(i))
		angle := r.between(0, math.Pi)
		dir := geom.Pt(math.Cos(angle), math.Sin(angle)).Mul(st.Thickness * r.between(1.2, 2.0))
		a := st.Points[i].Sub(dir)
		b := st.Points[i].Add(dir)
		prims = append(prims, layered([]geom.Point{a, b}, st.Color, st.Thickness*0.8, st.Opacity, p)...)
	}
	return prims
}

// genMetallic exaggerates the highlight pass and adds sparkle dots along the
// thread.
func genMetallic(st design.Stitch, p Params) []Primitive {
	prims := layeredTones(st.Points, st.Color, st.Thickness, st.Opacity, p, shadowTone-20, 95)

	r := newRNG(st.ID, "sparkle")
	sparkles := len(st.Points) / 2
	if sparkles > 12 {
		sparkles = 12
	}
	total := geom.PathLength(st.Points)
	for k := 0; k < sparkles && total > epsLen; k++ {
		at := pointAlong(st.Points, r.float()*total)
		prims = append(prims, dot(at, st.Thickness*0.3, "#ffffff", st.Opacity*r.between(0.5, 0.9)))
	}
	return prims
}

// genGlowThread underlays a wide, translucent halo before the normal passes.
func genGlowThread(st design.Stitch, p Params) []Primitive {
	halo := stroke(st.Points, AdjustBrightness(st.Color, 70), st.Thickness*3.5, st.Opacity*0.25)
	return append([]Primitive{halo}, layered(st.Points, st.Color, st.Thickness, st.Opacity, p)...)
}

// genVariegated cycles the thread tone every segment, mimicking
// variegated-dyed floss.
func genVariegated(st design.Stitch, p Params) []Primitive {
	shades := []string{
		st.Color,
		AdjustBrightness(st.Color, 45),
		AdjustBrightness(st.Color, -35),
	}
	shadowOff := p.LightDir.Mul(-st.Thickness * 0.35)
	prims := []Primitive{
		stroke(translate(st.Points, shadowOff), AdjustBrightness(st.Color, shadowTone), st.Thickness*1.6, st.Opacity*0.35),
	}
	for i := 0; i+1 < len(st.Points); i++ {
		seg := []geom.Point{st.Points[i], st.Points[i+1]}
		prims = append(prims, stroke(seg, shades[i%len(shades)], st.Thickness, st.Opacity))
	}
	return prims
}

// genGradient shades the thread from dark to light along the path.
func genGradient(st design.Stitch, p Params) []Primitive {
	from := AdjustBrightness(st.Color, -55)
	to := AdjustBrightness(st.Color, 55)
	shadowOff := p.LightDir.Mul(-st.Thickness * 0.35)
	prims := []Primitive{
		stroke(translate(st.Points, shadowOff), AdjustBrightness(st.Color, shadowTone), st.Thickness*1.6, st.Opacity*0.35),
	}
	n := len(st.Points) - 1
	for i := 0; i < n; i++ {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		seg := []geom.Point{st.Points[i], st.Points[i+1]}
		prims = append(prims, stroke(seg, MixColors(from, to, t), st.Thickness, st.Opacity))
	}
	return prims
}

// genFishbone draws ribs slanting back toward the spine, alternating sides.
func genFishbone(st design.Stitch, p Params) []Primitive {
	prims := layered(st.Points, st.Color, st.Thickness*0.7, st.Opacity, p)
	for i := 0; i+1 < len(st.Points); i++ {
		a, b := st.Points[i], st.Points[i+1]
		dir := b.Sub(a)
		if dir.Length() < epsLen {
			continue
		}
		side := 1.0
		if i%2 == 1 {
			side = -1
		}
		perp := dir.Normalize().Perp().Mul(side * st.Thickness * 2)
		rib := []geom.Point{a.Add(perp), a.Lerp(b, 0.7)}
		prims = append(prims, stroke(rib, AdjustBrightness(st.Color, -12), st.Thickness*0.6, st.Opacity*0.9))
	}
	return prims
}

// genHerringbone lays crossing slanted strokes in the classic lattice.
func genHerringbone(st design.Stitch, p Params) []Primitive {
	var prims []Primitive
	w := 2.2
	for i := 0; i+1 < len(st.Points); i++ {
		a, b := st.Points[i], st.Points[i+1]
		dir := b.Sub(a)
		if dir.Length() < epsLen {
			continue
		}
		perp := dir.Normalize().Perp().Mul(st.Thickness * w)
		prims = append(prims, layered([]geom.Point{a.Add(perp), b.Sub(perp)}, st.Color, st.Thickness*0.7, st.Opacity, p)...)
		prims = append(prims, layered([]geom.Point{a.Sub(perp), b.Add(perp)}, st.Color, st.Thickness*0.7, st.Opacity, p)...)
	}
	return prims
}

// genApplique renders a blanket-stitch border: the outline, an inner offset
// ring and a needle dot at each vertex.
func genApplique(st design.Stitch, p Params) []Primitive {
	prims := layered(st.Points, st.Color, st.Thickness, st.Opacity, p)

	center := geom.Centroid(st.Points)
	inner := make([]geom.Point, len(st.Points))
	for i, pt := range st.Points {
		inner[i] = center.Lerp(pt, 0.92)
	}
	prims = append(prims, stroke(inner, AdjustBrightness(st.Color, -25), st.Thickness*0.4, st.Opacity*0.8))

	for _, pt := range st.Points {
		prims = append(prims, texturedDot(pt, st.Thickness*0.4, st.Color, st.Opacity, p)...)
	}
	return prims
}

// pointAlong walks the polyline to the point at arc distance d.
func pointAlong(points []geom.Point, d float64) geom.Point {
	for i := 0; i+1 < len(points); i++ {
		segLen := points[i].Distance(points[i+1])
		if d <= segLen {
			if segLen < epsLen {
				return points[i]
			}
			return points[i].Lerp(points[i+1], d/segLen)
		}
		d -= segLen
	}
	return points[len(points)-1]
}
