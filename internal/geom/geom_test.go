package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentIntersection_Crossing(t *testing.T) {
	// Diagonal cross through (0.5, 0.5).
	u, ok := SegmentIntersection(Pt(0, 0), Pt(1, 1), Pt(0, 1), Pt(1, 0))
	require.True(t, ok)
	assert.InDelta(t, 0.5, u, 1e-9)
}

func TestSegmentIntersection_ParameterAlongSecond(t *testing.T) {
	// Vertical segment crossed a quarter of the way along the second segment.
	u, ok := SegmentIntersection(Pt(0.25, -1), Pt(0.25, 1), Pt(0, 0), Pt(1, 0))
	require.True(t, ok)
	assert.InDelta(t, 0.25, u, 1e-9)
}

func TestSegmentIntersection_Disjoint(t *testing.T) {
	_, ok := SegmentIntersection(Pt(0, 0), Pt(1, 0), Pt(0, 1), Pt(1, 1))
	assert.False(t, ok)
}

func TestSegmentIntersection_NearParallel(t *testing.T) {
	// Nearly parallel segments must report no intersection instead of a
	// garbage parameter from a near-zero denominator.
	u, ok := SegmentIntersection(Pt(0, 0), Pt(1, 0), Pt(0, 1e-13), Pt(1, 2e-13))
	assert.False(t, ok)
	assert.False(t, math.IsNaN(u))
}

func TestSegmentIntersection_OutsideRange(t *testing.T) {
	// Lines cross but outside the segment extents.
	_, ok := SegmentIntersection(Pt(0, 0), Pt(0.1, 0.1), Pt(0, 1), Pt(1, 0))
	assert.False(t, ok)
}

func TestCentroid(t *testing.T) {
	c := Centroid([]Point{Pt(0, 0), Pt(1, 0), Pt(1, 1), Pt(0, 1)})
	assert.InDelta(t, 0.5, c.X, 1e-9)
	assert.InDelta(t, 0.5, c.Y, 1e-9)

	assert.Equal(t, Point{}, Centroid(nil))
}

func TestBoundingBox(t *testing.T) {
	r := BoundingBox([]Point{Pt(0.3, 0.8), Pt(0.1, 0.2), Pt(0.9, 0.5)})
	assert.Equal(t, Pt(0.1, 0.2), r.Min)
	assert.Equal(t, Pt(0.9, 0.8), r.Max)

	assert.True(t, BoundingBox(nil).IsEmpty())
	assert.True(t, BoundingBox([]Point{Pt(0.5, 0.5)}).IsEmpty())
}

func TestAngleBetween(t *testing.T) {
	tests := []struct {
		name       string
		p1, p2, p3 Point
		want       float64
	}{
		{"right angle", Pt(1, 0), Pt(0, 0), Pt(0, 1), 90},
		{"straight line", Pt(-1, 0), Pt(0, 0), Pt(1, 0), 180},
		{"collapsed", Pt(0, 0), Pt(0, 0), Pt(1, 0), 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := AngleBetween(tc.p1, tc.p2, tc.p3)
			assert.InDelta(t, tc.want, got, 1e-9)
			assert.False(t, math.IsNaN(got))
		})
	}
}

func TestAngleBetween_ClampsRoundingError(t *testing.T) {
	// Collinear points at awkward magnitudes can push the cosine argument
	// just past 1; acos must still produce a finite angle.
	got := AngleBetween(Pt(0.1, 0.1), Pt(0.2, 0.2), Pt(0.30000000000000004, 0.3))
	assert.False(t, math.IsNaN(got))
}

func TestPointOps(t *testing.T) {
	p := Pt(3, 4)
	assert.InDelta(t, 5, p.Length(), 1e-9)
	assert.InDelta(t, 1, p.Normalize().Length(), 1e-9)
	assert.Equal(t, Point{}, Point{}.Normalize())

	rot := Pt(1, 0).Rotate(math.Pi / 2)
	assert.InDelta(t, 0, rot.X, 1e-9)
	assert.InDelta(t, 1, rot.Y, 1e-9)

	mid := Pt(0, 0).Lerp(Pt(1, 2), 0.5)
	assert.Equal(t, Pt(0.5, 1), mid)

	assert.InDelta(t, 2, PathLength([]Point{Pt(0, 0), Pt(1, 0), Pt(1, 1)}), 1e-9)
}
