package optimizer

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/closset/closset/engine-go/internal/design"
	"github.com/closset/closset/engine-go/internal/geom"
)

func stitchAt(id string, typ design.StitchType, color string, last geom.Point) design.Stitch {
	return design.Stitch{
		ID:        id,
		Type:      typ,
		Color:     color,
		Thickness: 0.004,
		Opacity:   1,
		Points:    []geom.Point{geom.Pt(0.5, 0.5), last},
	}
}

func TestOptimize_GroupsByColorAndType(t *testing.T) {
	in := []design.Stitch{
		stitchAt("st_a", design.StitchSatin, "#ff0000", geom.Pt(0.9, 0.9)),
		stitchAt("st_b", design.StitchChain, "#0000ff", geom.Pt(0.1, 0.1)),
		stitchAt("st_c", design.StitchSatin, "#ff0000", geom.Pt(0.2, 0.2)),
		stitchAt("st_d", design.StitchSatin, "#0000ff", geom.Pt(0.5, 0.5)),
	}

	out := Optimize(in)
	require.Len(t, out, 4)

	// Lexicographic group order: blue chain, blue satin, red satin.
	// The chain/satin tie on color breaks on type name.
	assert.Equal(t, design.StitchChain, out[0].Type)
	assert.Equal(t, "#0000ff", out[0].Color)
	assert.Equal(t, design.StitchSatin, out[1].Type)
	assert.Equal(t, "#0000ff", out[1].Color)
	assert.Equal(t, "#ff0000", out[2].Color)
	assert.Equal(t, "#ff0000", out[3].Color)

	// Within the red satin group, nearer-to-origin endpoint first.
	assert.Equal(t, geom.Pt(0.2, 0.2), out[2].Points[1])
	assert.Equal(t, geom.Pt(0.9, 0.9), out[3].Points[1])
}

func TestOptimize_IsPermutation(t *testing.T) {
	in := []design.Stitch{
		stitchAt("st_1", design.StitchFill, "#123456", geom.Pt(0.7, 0.1)),
		stitchAt("st_2", design.StitchCross, "#654321", geom.Pt(0.2, 0.8)),
		stitchAt("st_3", design.StitchFill, "#123456", geom.Pt(0.4, 0.4)),
		stitchAt("st_4", design.StitchFill, "#abcdef", geom.Pt(0.3, 0.3)),
		{ID: "st_5", Type: design.StitchSeed, Color: "#000000"},
	}

	out := Optimize(in)
	require.Len(t, out, len(in))

	key := func(st design.Stitch) string {
		return fmt.Sprintf("%s|%s|%v", st.Type, st.Color, st.Points)
	}
	var before, after []string
	for i := range in {
		before = append(before, key(in[i]))
		after = append(after, key(out[i]))
	}
	sort.Strings(before)
	sort.Strings(after)
	assert.Equal(t, before, after)
}

func TestOptimize_DerivedIDsRecordPosition(t *testing.T) {
	in := []design.Stitch{
		stitchAt("st_x", design.StitchSatin, "#ff0000", geom.Pt(0.9, 0.9)),
		stitchAt("st_y", design.StitchSatin, "#ff0000", geom.Pt(0.1, 0.1)),
	}
	out := Optimize(in)
	require.Len(t, out, 2)
	assert.Equal(t, "st_y.opt000", out[0].ID)
	assert.Equal(t, "st_x.opt001", out[1].ID)
}

func TestOptimize_DoesNotMutateInput(t *testing.T) {
	in := []design.Stitch{
		stitchAt("st_a", design.StitchSatin, "#ff0000", geom.Pt(0.9, 0.9)),
		stitchAt("st_b", design.StitchSatin, "#ff0000", geom.Pt(0.1, 0.1)),
	}
	out := Optimize(in)
	require.Len(t, out, 2)

	assert.Equal(t, "st_a", in[0].ID)
	assert.Equal(t, geom.Pt(0.9, 0.9), in[0].Points[1])

	// Deep copies: editing the output cannot reach the input.
	out[0].Points[0] = geom.Pt(0, 0)
	assert.Equal(t, geom.Pt(0.5, 0.5), in[1].Points[0])
}

func TestOptimize_Empty(t *testing.T) {
	assert.Nil(t, Optimize(nil))
	assert.Nil(t, Optimize([]design.Stitch{}))
}

func TestTravelDistance(t *testing.T) {
	a := stitchAt("st_a", design.StitchSatin, "#ff0000", geom.Pt(0.5, 0.5))
	b := design.Stitch{ID: "st_b", Points: []geom.Point{geom.Pt(0.5, 0.9)}}

	assert.InDelta(t, 0.4, TravelDistance([]design.Stitch{a, b}), 1e-9)
	assert.Zero(t, TravelDistance([]design.Stitch{a}))
	assert.Zero(t, TravelDistance(nil))

	// Pointless stitches are skipped, not counted as zero-length jumps.
	empty := design.Stitch{ID: "st_e"}
	assert.InDelta(t, 0.4, TravelDistance([]design.Stitch{a, empty, b}), 1e-9)
}

func TestOptimize_ShortensSampleTravel(t *testing.T) {
	// A deliberately shuffled run of same-thread stitches.
	in := []design.Stitch{
		stitchAt("st_1", design.StitchOutline, "#222222", geom.Pt(0.9, 0.9)),
		stitchAt("st_2", design.StitchOutline, "#222222", geom.Pt(0.1, 0.1)),
		stitchAt("st_3", design.StitchOutline, "#222222", geom.Pt(0.8, 0.8)),
		stitchAt("st_4", design.StitchOutline, "#222222", geom.Pt(0.2, 0.2)),
	}
	out := Optimize(in)
	assert.LessOrEqual(t, TravelDistance(out), TravelDistance(in))
}
