package scanline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/closset/closset/engine-go/internal/geom"
)

func square() []geom.Point {
	return []geom.Point{
		geom.Pt(0.1, 0.1), geom.Pt(0.3, 0.1),
		geom.Pt(0.3, 0.3), geom.Pt(0.1, 0.3),
	}
}

func TestResolve_HorizontalSquare(t *testing.T) {
	chords := Resolve(square(), Options{Direction: Horizontal, Spacing: 0.02})
	require.NotEmpty(t, chords)

	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, c := range chords {
		assert.InDelta(t, 0.1, c.X1, 1e-9, "chord left edge")
		assert.InDelta(t, 0.3, c.X2, 1e-9, "chord right edge")
		assert.InDelta(t, c.Y1, c.Y2, 1e-9, "horizontal chord")
		minY = math.Min(minY, c.Y1)
		maxY = math.Max(maxY, c.Y1)
	}

	// Chord span covers the shape's vertical extent (lines sit at band centers).
	assert.Less(t, minY, 0.12)
	assert.Greater(t, maxY, 0.28)
}

func TestResolve_ChordPairingInvariant(t *testing.T) {
	// For a convex polygon every scan line must produce exactly one chord,
	// lying inside the polygon, at every line count up to the cap.
	hexagon := []geom.Point{
		geom.Pt(0.5, 0.1), geom.Pt(0.8, 0.3), geom.Pt(0.8, 0.7),
		geom.Pt(0.5, 0.9), geom.Pt(0.2, 0.7), geom.Pt(0.2, 0.3),
	}
	box := geom.BoundingBox(hexagon)

	for lines := 1; lines <= MaxLines; lines *= 3 {
		spacing := box.Height() / float64(lines)
		chords := Resolve(hexagon, Options{Direction: Horizontal, Spacing: spacing})
		require.NotEmpty(t, chords, "lines=%d", lines)

		perLine := map[int]int{}
		for _, c := range chords {
			perLine[c.Line]++
			assert.LessOrEqual(t, c.X1, c.X2)
			assert.True(t, box.Contains(geom.Pt(c.X1, c.Y1)), "chord start inside bbox")
			assert.True(t, box.Contains(geom.Pt(c.X2, c.Y2)), "chord end inside bbox")
		}
		for line, n := range perLine {
			assert.Equal(t, 1, n, "convex shape, line %d", line)
		}
	}
}

func TestResolve_LineCap(t *testing.T) {
	chords := Resolve(square(), Options{Direction: Horizontal, Spacing: 1e-9})
	perLine := map[int]bool{}
	for _, c := range chords {
		perLine[c.Line] = true
	}
	assert.LessOrEqual(t, len(perLine), MaxLines)
}

func TestResolve_Vertical(t *testing.T) {
	chords := Resolve(square(), Options{Direction: Vertical, Spacing: 0.02})
	require.NotEmpty(t, chords)
	for _, c := range chords {
		assert.InDelta(t, 0.1, c.Y1, 1e-9)
		assert.InDelta(t, 0.3, c.Y2, 1e-9)
		assert.InDelta(t, c.X1, c.X2, 1e-9, "vertical chord")
	}
}

func TestResolve_DiagonalRoundTrip(t *testing.T) {
	// A 45 degree sweep over the square still produces chords whose
	// endpoints lie on the boundary (within tolerance).
	chords := Resolve(square(), Options{Direction: Diagonal, Angle: 45, Spacing: 0.02})
	require.NotEmpty(t, chords)

	box := geom.BoundingBox(square())
	for _, c := range chords {
		assert.GreaterOrEqual(t, c.X1, box.Min.X-1e-6)
		assert.LessOrEqual(t, c.X2, box.Max.X+1e-6)
		assert.GreaterOrEqual(t, math.Min(c.Y1, c.Y2), box.Min.Y-1e-6)
		assert.LessOrEqual(t, math.Max(c.Y1, c.Y2), box.Max.Y+1e-6)
	}
}

func TestResolve_DegenerateInput(t *testing.T) {
	assert.Empty(t, Resolve(nil, Options{}))
	assert.Empty(t, Resolve([]geom.Point{geom.Pt(0.5, 0.5)}, Options{}))
	assert.Empty(t, Resolve([]geom.Point{geom.Pt(0.1, 0.1), geom.Pt(0.9, 0.9)}, Options{}))

	// Zero-height shape: all points on one horizontal line.
	flat := []geom.Point{geom.Pt(0.1, 0.5), geom.Pt(0.5, 0.5), geom.Pt(0.9, 0.5)}
	assert.Empty(t, Resolve(flat, Options{Direction: Horizontal, Spacing: 0.01}))

	// Zero-width shape.
	thin := []geom.Point{geom.Pt(0.5, 0.1), geom.Pt(0.5, 0.5), geom.Pt(0.5, 0.9)}
	assert.Empty(t, Resolve(thin, Options{Direction: Horizontal, Spacing: 0.01}))
}

func TestChord_AlternatingDirection(t *testing.T) {
	even := Chord{X1: 0.1, Y1: 0.2, X2: 0.3, Y2: 0.2, Line: 0}
	odd := Chord{X1: 0.1, Y1: 0.25, X2: 0.3, Y2: 0.25, Line: 1}

	assert.Equal(t, geom.Pt(0.1, 0.2), even.Start())
	assert.Equal(t, geom.Pt(0.3, 0.2), even.End())
	assert.Equal(t, geom.Pt(0.3, 0.25), odd.Start())
	assert.Equal(t, geom.Pt(0.1, 0.25), odd.End())
}
