package rendercache

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/closset/closset/engine-go/internal/design"
	"github.com/closset/closset/engine-go/internal/geom"
	"github.com/closset/closset/engine-go/internal/stitch"
)

func tile() *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, 4, 4))
}

func sampleStitch() design.Stitch {
	return design.Stitch{
		ID:        "st_key",
		Type:      design.StitchSatin,
		Points:    []geom.Point{geom.Pt(0.1, 0.1), geom.Pt(0.3, 0.3)},
		Color:     "#c0392b",
		Thickness: 0.004,
		Opacity:   1,
	}
}

func TestKey_StableAndContentSensitive(t *testing.T) {
	st := sampleStitch()
	p := stitch.DefaultParams()
	assert.Equal(t, Key(st, p), Key(st, p))

	edited := st.Clone()
	edited.Points[1] = geom.Pt(0.4, 0.3)
	assert.NotEqual(t, Key(st, p), Key(edited, p))

	recolored := st.Clone()
	recolored.Color = "#2980b9"
	assert.NotEqual(t, Key(st, p), Key(recolored, p))

	// The id prefixes the key so operators can read cache dumps.
	assert.Contains(t, Key(st, p), "st_key:")
}

func TestKey_ParamsSensitive(t *testing.T) {
	st := sampleStitch()
	base := stitch.DefaultParams()

	relit := base
	relit.LightDir = geom.Pt(-0.6, 0.8).Normalize()
	assert.NotEqual(t, Key(st, base), Key(st, relit))

	twisted := base
	twisted.Twist = 0.9
	assert.NotEqual(t, Key(st, base), Key(st, twisted))

	spaced := base
	spaced.FillSpacing = 0.01
	assert.NotEqual(t, Key(st, base), Key(st, spaced))
}

func TestGetOrRender_ReadThrough(t *testing.T) {
	c := New(8, time.Minute)
	calls := 0
	render := func() *image.RGBA {
		calls++
		return tile()
	}

	key := Key(sampleStitch(), stitch.DefaultParams())
	first := c.GetOrRender(key, render)
	second := c.GetOrRender(key, render)

	require.NotNil(t, first)
	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, c.Len())
}

func TestGetOrRender_NilResultUncached(t *testing.T) {
	c := New(8, time.Minute)
	calls := 0
	render := func() *image.RGBA {
		calls++
		return nil
	}

	assert.Nil(t, c.GetOrRender("k", render))
	assert.Nil(t, c.GetOrRender("k", render))
	assert.Equal(t, 2, calls)
	assert.Zero(t, c.Len())
}

func TestSizeBound(t *testing.T) {
	c := New(2, time.Minute)
	c.Add("a", tile())
	c.Add("b", tile())
	c.Add("c", tile())

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok, "oldest entry evicted")
}

func TestTTLExpiry(t *testing.T) {
	c := New(8, 20*time.Millisecond)
	c.Add("a", tile())
	_, ok := c.Get("a")
	require.True(t, ok)

	time.Sleep(60 * time.Millisecond)
	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestRemoveAndPurge(t *testing.T) {
	c := New(8, time.Minute)
	c.Add("a", tile())
	c.Add("b", tile())

	c.Remove("a")
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	c.Purge()
	assert.Zero(t, c.Len())
}
