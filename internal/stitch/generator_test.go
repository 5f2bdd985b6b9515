package stitch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/closset/closset/engine-go/internal/design"
	"github.com/closset/closset/engine-go/internal/geom"
)

func testStitch(typ design.StitchType, points ...geom.Point) design.Stitch {
	return design.Stitch{
		ID:        "st_test",
		Type:      typ,
		Points:    points,
		Color:     "#4060c0",
		Thickness: 0.005,
		Opacity:   1,
	}
}

func zigzag() []geom.Point {
	return []geom.Point{
		geom.Pt(0.1, 0.1), geom.Pt(0.3, 0.2), geom.Pt(0.5, 0.1),
		geom.Pt(0.7, 0.25), geom.Pt(0.9, 0.1), geom.Pt(0.9, 0.4),
	}
}

func TestGenerate_DegenerateInputIsNoOp(t *testing.T) {
	for _, typ := range design.Types {
		assert.Empty(t, Generate(testStitch(typ), DefaultParams()), "type %s, 0 points", typ)
		assert.Empty(t, Generate(testStitch(typ, geom.Pt(0.5, 0.5)), DefaultParams()), "type %s, 1 point", typ)
	}
}

func TestGenerate_AllFamiliesEmit(t *testing.T) {
	for _, typ := range design.Types {
		st := testStitch(typ, zigzag()...)
		prims := Generate(st, DefaultParams())
		assert.NotEmpty(t, prims, "type %s", typ)
		for _, pr := range prims {
			assert.NotEmpty(t, pr.Op, "type %s", typ)
			assert.NotEqual(t, "", pr.Color, "type %s", typ)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	// Same stitch value, same batch: the twist PRNG is keyed by stitch id,
	// never by ambient state.
	for _, typ := range design.Types {
		st := testStitch(typ, zigzag()...)
		a := Generate(st, DefaultParams())
		b := Generate(st, DefaultParams())
		assert.Equal(t, a, b, "type %s", typ)
	}
}

func TestGenerate_UnknownTypeFallsBack(t *testing.T) {
	st := testStitch(design.StitchType("holographic"), zigzag()...)
	prims := Generate(st, DefaultParams())
	require.Len(t, prims, 1)
	assert.Equal(t, OpStroke, prims[0].Op)
	assert.Equal(t, st.Points, prims[0].Points)
}

func TestGenerate_CrossPairs(t *testing.T) {
	// Two pairs -> two Xs. Each X: 2 layered strokes (3 prims each) plus
	// 5 textured dots (3 prims each).
	st := testStitch(design.StitchCross,
		geom.Pt(0.1, 0.1), geom.Pt(0.15, 0.15),
		geom.Pt(0.2, 0.1), geom.Pt(0.25, 0.15),
	)
	prims := Generate(st, DefaultParams())
	assert.Len(t, prims, 2*(2*3+5*3))
}

func TestGenerate_FrenchKnotDecimation(t *testing.T) {
	pts := make([]geom.Point, 7)
	for i := range pts {
		pts[i] = geom.Pt(0.1+float64(i)*0.1, 0.5)
	}
	prims := Generate(testStitch(design.StitchFrenchKnot, pts...), DefaultParams())

	discs := 0
	for _, pr := range prims {
		if pr.Op == OpDisc {
			discs++
		}
	}
	// Points 0, 3 and 6 carry knots.
	assert.Equal(t, 3, discs)
}

func TestGenerate_ClosedSatinUsesChords(t *testing.T) {
	st := testStitch(design.StitchSatin,
		geom.Pt(0.2, 0.2), geom.Pt(0.4, 0.2), geom.Pt(0.4, 0.4),
		geom.Pt(0.2, 0.4), geom.Pt(0.2, 0.2),
	)
	prims := Generate(st, DefaultParams())
	require.NotEmpty(t, prims)
	// Chord rendering yields 2-point strokes only.
	for _, pr := range prims {
		require.Equal(t, OpStroke, pr.Op)
		assert.Len(t, pr.Points, 2)
	}
	// Many parallel threads, not a single outline.
	assert.Greater(t, len(prims), 12)
}

func TestGenerate_OpenSatinIsRibbon(t *testing.T) {
	st := testStitch(design.StitchSatin, zigzag()...)
	prims := Generate(st, DefaultParams())
	require.NotEmpty(t, prims)
	// Smoothed path: more samples than input points.
	assert.Greater(t, len(prims[1].Points), len(st.Points))
}

func TestGenerate_LayerOrderShadowFirst(t *testing.T) {
	prims := Generate(testStitch(design.StitchOutline, zigzag()...), DefaultParams())
	require.Len(t, prims, 3)
	// Shadow is wider and dimmer than the main pass; highlight narrower.
	assert.Greater(t, prims[0].Width, prims[1].Width)
	assert.Less(t, prims[0].Opacity, prims[1].Opacity)
	assert.Less(t, prims[2].Width, prims[1].Width)
}

func TestGenerate_BadColorFailsClosed(t *testing.T) {
	st := testStitch(design.StitchOutline, zigzag()...)
	st.Color = "chartreuse"
	prims := Generate(st, DefaultParams())
	require.Len(t, prims, 3)
	// The derived shadow/highlight tones fall back instead of propagating.
	assert.Equal(t, FallbackColor, prims[0].Color)
	assert.Equal(t, FallbackColor, prims[2].Color)
}

func TestGenerate_BullionSampleCap(t *testing.T) {
	// An extreme length/thickness ratio must not explode the coil sample count.
	st := testStitch(design.StitchBullion, geom.Pt(0, 0), geom.Pt(1, 0))
	st.Thickness = 1e-7
	prims := Generate(st, DefaultParams())
	for _, pr := range prims {
		assert.LessOrEqual(t, len(pr.Points), maxCoilSamples+1)
	}
}

func TestAdjustBrightness(t *testing.T) {
	assert.Equal(t, "#808080", AdjustBrightness("#707070", 16))
	assert.Equal(t, "#000000", AdjustBrightness("#101010", -300))
	assert.Equal(t, "#ffffff", AdjustBrightness("#f0f0f0", 300))

	// Idempotent at zero, byte-for-byte even for uppercase input.
	assert.Equal(t, "#3fa2c4", AdjustBrightness("#3fa2c4", 0))
	assert.Equal(t, "#AABBCC", AdjustBrightness("#AABBCC", 0))
	assert.Equal(t, "#FFFFFF", AdjustBrightness("#FFFFFF", 10), "clamp leaves channels unchanged")

	// Fail closed on malformed input.
	assert.Equal(t, FallbackColor, AdjustBrightness("", 10))
	assert.Equal(t, FallbackColor, AdjustBrightness("red", 10))
	assert.Equal(t, FallbackColor, AdjustBrightness("#12345", 10))
}

func TestAdjustBrightness_AlwaysValidHex(t *testing.T) {
	for _, amount := range []float64{-1000, -0.5, 0, 0.5, 12.3, 1000} {
		got := AdjustBrightness("#3fa2c4", amount)
		assert.Regexp(t, "^#[0-9a-f]{6}$", got)
	}
}

func TestRNG_Deterministic(t *testing.T) {
	a := newRNG("st_1", "fill")
	b := newRNG("st_1", "fill")
	for i := 0; i < 20; i++ {
		va, vb := a.float(), b.float()
		assert.Equal(t, va, vb)
		assert.GreaterOrEqual(t, va, 0.0)
		assert.LessOrEqual(t, va, 1.0)
	}

	// Different purposes draw from independent streams.
	c := newRNG("st_1", "seed")
	assert.NotEqual(t, newRNG("st_1", "fill").float(), c.float())
}
