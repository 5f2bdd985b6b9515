package stitch

import (
	"math"

	"github.com/closset/closset/engine-go/internal/design"
	"github.com/closset/closset/engine-go/internal/geom"
)

// Hard caps on derived geometry so a single stitch's render work has a
// predictable upper bound regardless of adversarial input.
const (
	maxCurveSamples = 240
	maxCoilSamples  = 400
)

// closedPathEps decides whether a path's first and last points coincide.
const closedPathEps = 1e-6

// Params is the explicit configuration bundle every generator call receives.
// There is deliberately no package-level mutable state: the surrounding
// application's toggles are snapshotted into a Params value per call.
type Params struct {
	// LightDir is the normalized direction highlights are offset toward.
	LightDir geom.Point
	// Twist scales the sinusoidal thread-twist perturbation, as a fraction
	// of stitch thickness.
	Twist float64
	// FillSpacing overrides the scan-line spacing for fill-style stitches,
	// in normalized units. Zero derives spacing from thickness.
	FillSpacing float64
}

// DefaultParams returns the configuration used when the caller has no
// session-specific overrides.
func DefaultParams() Params {
	return Params{
		LightDir: geom.Pt(0.6, -0.8).Normalize(),
		Twist:    0.35,
	}
}

func (p Params) normalized() Params {
	if p.LightDir == (geom.Point{}) {
		p.LightDir = geom.Pt(0.6, -0.8)
	}
	p.LightDir = p.LightDir.Normalize()
	if p.Twist == 0 {
		p.Twist = 0.35
	}
	return p
}

// Generate produces the renderable primitive batch for a stitch. Stitches
// with fewer than 2 points yield an empty batch. Unknown stitch types render
// through the plain polyline fallback; bad input degrades, it never errors.
// Generation is deterministic: the same stitch value always yields the same
// batch.
func Generate(st design.Stitch, p Params) []Primitive {
	if !st.Renderable() {
		return nil
	}
	p = p.normalized()

	switch st.Type {
	case design.StitchSatin:
		return genSatin(st, p)
	case design.StitchFill:
		return genFill(st, p)
	case design.StitchCross:
		return genCross(st, p)
	case design.StitchChain:
		return genChain(st, p)
	case design.StitchBackstitch:
		return genBackstitch(st, p)
	case design.StitchOutline:
		return genOutline(st, p)
	case design.StitchFrenchKnot:
		return genFrenchKnot(st, p)
	case design.StitchBullion:
		return genBullion(st, p)
	case design.StitchLazyDaisy:
		return genLazyDaisy(st, p)
	case design.StitchFeather:
		return genFeather(st, p)
	case design.StitchCouching:
		return genCouching(st, p)
	case design.StitchSeed:
		return genSeed(st, p)
	case design.StitchStem:
		return genStem(st, p)
	case design.StitchMetallic:
		return genMetallic(st, p)
	case design.StitchGlowThread:
		return genGlowThread(st, p)
	case design.StitchVariegated:
		return genVariegated(st, p)
	case design.StitchGradient:
		return genGradient(st, p)
	case design.StitchBrick:
		return genBrick(st, p)
	case design.StitchFishbone:
		return genFishbone(st, p)
	case design.StitchHerringbone:
		return genHerringbone(st, p)
	case design.StitchLongShort:
		return genLongShort(st, p)
	case design.StitchSplit:
		return genSplit(st, p)
	case design.StitchApplique:
		return genApplique(st, p)
	case design.StitchSatinRibbon:
		return genSatinRibbon(st, p)
	default:
		// Universal fallback: a plain polyline stroke.
		return []Primitive{stroke(st.Points, st.Color, st.Thickness, st.Opacity)}
	}
}

// Shadow/highlight tone offsets shared by most families. Individual
// generators override the magnitudes where the thread look calls for it.
const (
	shadowTone    = -60
	highlightTone = 50
)

// layered emits the three-pass thread rendering for a polyline: a darkened,
// wider, offset shadow; the main stroke; and a lighter, narrower highlight
// offset toward the light.
func layered(points []geom.Point, color string, thickness, opacity float64, p Params) []Primitive {
	return layeredTones(points, color, thickness, opacity, p, shadowTone, highlightTone)
}

func layeredTones(points []geom.Point, color string, thickness, opacity float64, p Params, darken, lighten float64) []Primitive {
	shadowOff := p.LightDir.Mul(-thickness * 0.35)
	highlightOff := p.LightDir.Mul(thickness * 0.2)

	return []Primitive{
		stroke(translate(points, shadowOff), AdjustBrightness(color, darken), thickness*1.6, opacity*0.35),
		stroke(points, color, thickness, opacity),
		stroke(translate(points, highlightOff), AdjustBrightness(color, lighten), thickness*0.45, opacity*0.7),
	}
}

// texturedDot draws a needle entry/exit point as a shadow/dot/highlight trio.
func texturedDot(center geom.Point, radius float64, color string, opacity float64, p Params) []Primitive {
	return []Primitive{
		dot(center.Add(p.LightDir.Mul(-radius*0.4)), radius*1.2, AdjustBrightness(color, shadowTone), opacity*0.4),
		dot(center, radius, color, opacity),
		dot(center.Add(p.LightDir.Mul(radius*0.35)), radius*0.45, AdjustBrightness(color, highlightTone+30), opacity*0.85),
	}
}

func translate(points []geom.Point, off geom.Point) []geom.Point {
	out := make([]geom.Point, len(points))
	for i, pt := range points {
		out[i] = pt.Add(off)
	}
	return out
}

// isClosed reports whether the path returns to its starting point.
func isClosed(points []geom.Point) bool {
	if len(points) < 3 {
		return false
	}
	return points[0].Distance(points[len(points)-1]) < closedPathEps
}

// smooth resamples the polyline through cubic Bézier segments whose control
// points sit at 1/3 offsets toward the neighboring points. The total sample
// count is capped.
func smooth(points []geom.Point) []geom.Point {
	if len(points) < 3 {
		return points
	}

	perSeg := maxCurveSamples / (len(points) - 1)
	if perSeg < 2 {
		perSeg = 2
	}
	if perSeg > 12 {
		perSeg = 12
	}

	out := make([]geom.Point, 0, (len(points)-1)*perSeg+1)
	out = append(out, points[0])

	for i := 0; i < len(points)-1; i++ {
		p0 := points[i]
		p3 := points[i+1]

		// Tangent directions from the neighboring points.
		prev := p0
		if i > 0 {
			prev = points[i-1]
		}
		next := p3
		if i+2 < len(points) {
			next = points[i+2]
		}
		c1 := p0.Add(p3.Sub(prev).Mul(1.0 / 6.0))
		c2 := p3.Sub(next.Sub(p0).Mul(1.0 / 6.0))

		for s := 1; s <= perSeg; s++ {
			t := float64(s) / float64(perSeg)
			out = append(out, cubicAt(p0, c1, c2, p3, t))
		}
	}
	return out
}

func cubicAt(p0, c1, c2, p3 geom.Point, t float64) geom.Point {
	u := 1 - t
	a := p0.Mul(u * u * u)
	b := c1.Mul(3 * u * u * t)
	c := c2.Mul(3 * u * t * t)
	d := p3.Mul(t * t * t)
	return a.Add(b).Add(c).Add(d)
}

// perturb displaces every interior sample perpendicular to its local
// direction by a sinusoidal thread-twist term plus a deterministic jitter.
func perturb(points []geom.Point, amplitude float64, r *rng) []geom.Point {
	if len(points) < 3 || amplitude == 0 {
		return points
	}
	out := make([]geom.Point, len(points))
	out[0] = points[0]
	out[len(points)-1] = points[len(points)-1]
	for i := 1; i < len(points)-1; i++ {
		dir := points[i+1].Sub(points[i-1]).Normalize()
		wave := math.Sin(float64(i) * 1.7)
		jitter := r.between(-0.5, 0.5)
		out[i] = points[i].Add(dir.Perp().Mul(amplitude * (wave*0.7 + jitter*0.6)))
	}
	return out
}

// segmentPairs iterates points pairwise: (0,1), (2,3), ...
func segmentPairs(points []geom.Point) [][2]geom.Point {
	var pairs [][2]geom.Point
	for i := 0; i+1 < len(points); i += 2 {
		pairs = append(pairs, [2]geom.Point{points[i], points[i+1]})
	}
	return pairs
}

func fillSpacing(st design.Stitch, p Params) float64 {
	if p.FillSpacing > 0 {
		return p.FillSpacing
	}
	return st.Thickness * 1.4
}
