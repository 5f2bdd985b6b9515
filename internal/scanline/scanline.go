// Package scanline converts a polyline boundary into the parallel interior
// chords that fill and satin stitches follow. The boundary is treated as a
// closed ring; each scan line is intersected against every edge and the
// crossings are paired even–odd into chords.
package scanline

import (
	"math"
	"sort"

	"github.com/closset/closset/engine-go/internal/geom"
)

// MaxLines caps the number of scan lines per shape so a single fill's work
// stays within the interactive frame budget regardless of input density.
const MaxLines = 180

const epsExtent = 1e-9

// Direction selects how scan lines sweep the shape.
type Direction int

const (
	Horizontal Direction = iota
	Vertical
	Diagonal
)

// Options configure a fill resolution.
type Options struct {
	Direction Direction
	// Angle is the sweep angle in degrees, used only for Diagonal.
	Angle float64
	// Spacing is the desired gap between scan lines in normalized units.
	// Non-positive values fall back to a sensible default.
	Spacing float64
}

// Chord is one interior span along a scan line. Line index parity drives
// alternating left-to-right / right-to-left thread direction in the renderer,
// mimicking continuous stitching without lifting the needle.
type Chord struct {
	X1, Y1 float64
	X2, Y2 float64
	Line   int
}

// Start returns the chord endpoint the thread enters at, honoring the
// alternating direction implied by the line parity.
func (c Chord) Start() geom.Point {
	if c.Line%2 == 1 {
		return geom.Pt(c.X2, c.Y2)
	}
	return geom.Pt(c.X1, c.Y1)
}

// End returns the chord endpoint opposite Start.
func (c Chord) End() geom.Point {
	if c.Line%2 == 1 {
		return geom.Pt(c.X1, c.Y1)
	}
	return geom.Pt(c.X2, c.Y2)
}

// Resolve computes the ordered interior chords for the boundary. Degenerate
// input (fewer than 3 points, zero-area bounding box) yields an empty list.
// Self-intersecting boundaries that produce an odd number of crossings on a
// line have the unpaired crossing dropped silently; tolerating malformed
// input beats aborting the render.
func Resolve(points []geom.Point, opts Options) []Chord {
	if len(points) < 3 {
		return nil
	}

	switch opts.Direction {
	case Vertical:
		// Vertical scanning is the horizontal case on transposed input.
		flipped := make([]geom.Point, len(points))
		for i, p := range points {
			flipped[i] = geom.Pt(p.Y, p.X)
		}
		chords := resolveHorizontal(flipped, opts.Spacing)
		for i := range chords {
			chords[i].X1, chords[i].Y1 = chords[i].Y1, chords[i].X1
			chords[i].X2, chords[i].Y2 = chords[i].Y2, chords[i].X2
		}
		return chords

	case Diagonal:
		// Rotate the boundary so the sweep is horizontal, resolve, and
		// rotate the chords back.
		angle := opts.Angle * math.Pi / 180
		center := geom.Centroid(points)
		rotated := make([]geom.Point, len(points))
		for i, p := range points {
			rotated[i] = p.RotateAround(center, -angle)
		}
		chords := resolveHorizontal(rotated, opts.Spacing)
		for i := range chords {
			a := geom.Pt(chords[i].X1, chords[i].Y1).RotateAround(center, angle)
			b := geom.Pt(chords[i].X2, chords[i].Y2).RotateAround(center, angle)
			chords[i].X1, chords[i].Y1 = a.X, a.Y
			chords[i].X2, chords[i].Y2 = b.X, b.Y
		}
		return chords

	default:
		return resolveHorizontal(points, opts.Spacing)
	}
}

func resolveHorizontal(points []geom.Point, spacing float64) []Chord {
	box := geom.BoundingBox(points)
	if box.Width() < epsExtent || box.Height() < epsExtent {
		return nil
	}

	if spacing <= 0 {
		spacing = box.Height() / 24
	}
	lines := int(math.Ceil(box.Height() / spacing))
	if lines < 1 {
		lines = 1
	}
	if lines > MaxLines {
		lines = MaxLines
	}

	step := box.Height() / float64(lines)
	chords := make([]Chord, 0, lines)

	for i := 0; i < lines; i++ {
		y := box.Min.Y + (float64(i)+0.5)*step
		xs := crossings(points, y)
		if len(xs) < 2 {
			continue
		}
		sort.Float64s(xs)

		// Pair crossings: even index enters the shape, odd exits. An odd
		// leftover from degenerate input is dropped.
		for j := 0; j+1 < len(xs); j += 2 {
			chords = append(chords, Chord{
				X1: xs[j], Y1: y,
				X2: xs[j+1], Y2: y,
				Line: i,
			})
		}
	}

	return chords
}

// crossings returns the x positions where the closed ring crosses the
// horizontal line at y.
func crossings(points []geom.Point, y float64) []float64 {
	var xs []float64
	n := len(points)
	for i := 0; i < n; i++ {
		a := points[i]
		b := points[(i+1)%n]

		// Half-open test so a vertex exactly on the line counts once.
		if (a.Y <= y) == (b.Y <= y) {
			continue
		}
		dy := b.Y - a.Y
		if math.Abs(dy) < epsExtent {
			continue
		}
		t := (y - a.Y) / dy
		xs = append(xs, a.X+t*(b.X-a.X))
	}
	return xs
}
