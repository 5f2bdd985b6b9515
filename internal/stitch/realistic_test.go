package stitch

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/closset/closset/engine-go/internal/design"
	"github.com/closset/closset/engine-go/internal/geom"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("st_gen%03d", n)
	}
}

func TestGenerateRealistic_FromRungs(t *testing.T) {
	g := Geometry{
		Rungs: [][2]geom.Point{
			{geom.Pt(0.1, 0.1), geom.Pt(0.3, 0.1)},
			{geom.Pt(0.1, 0.12), geom.Pt(0.3, 0.12)},
			{geom.Pt(0.1, 0.14), geom.Pt(0.3, 0.14)},
		},
	}
	style := design.Style{Type: design.StitchSatin, Color: "#2980b9", Thickness: 0.004, Opacity: 1}

	out := GenerateRealistic(design.StitchSatin, g, Material{}, Lighting{Ambient: 0.5}, ShapeProperties{}, style, sequentialIDs())

	require.Len(t, out, 3)
	for _, st := range out {
		assert.Equal(t, design.StitchSatin, st.Type)
		assert.True(t, st.Renderable())
		assert.NotEmpty(t, st.ID)
	}
	// Fresh ids per stitch.
	assert.NotEqual(t, out[0].ID, out[1].ID)
}

func TestGenerateRealistic_FromOutline(t *testing.T) {
	g := Geometry{
		Outline: []geom.Point{
			geom.Pt(0.2, 0.2), geom.Pt(0.6, 0.2), geom.Pt(0.6, 0.5), geom.Pt(0.2, 0.5),
		},
	}
	style := design.Style{Color: "#c0392b", Thickness: 0.004, Opacity: 1}
	sp := ShapeProperties{Density: 100}

	out := GenerateRealistic(design.StitchFill, g, Material{}, Lighting{Ambient: 0.5}, sp, style, sequentialIDs())
	require.NotEmpty(t, out)
	// Density 100 over a 0.3-tall shape gives ~30 rows.
	assert.Greater(t, len(out), 20)
	assert.Less(t, len(out), 40)
}

func TestGenerateRealistic_UnderlayFirst(t *testing.T) {
	g := Geometry{
		Rungs: [][2]geom.Point{
			{geom.Pt(0.1, 0.1), geom.Pt(0.3, 0.1)},
			{geom.Pt(0.1, 0.12), geom.Pt(0.3, 0.12)},
		},
	}
	style := design.Style{Color: "#2980b9", Thickness: 0.004, Opacity: 1}
	sp := ShapeProperties{Underlay: "center"}

	out := GenerateRealistic(design.StitchSatin, g, Material{}, Lighting{}, sp, style, sequentialIDs())
	require.Len(t, out, 3)
	// The underlay run comes first so it renders beneath the column.
	assert.Equal(t, design.StitchOutline, out[0].Type)
	assert.Less(t, out[0].Thickness, out[1].Thickness)
}

func TestGenerateRealistic_SheenBrightensFacingRows(t *testing.T) {
	row := [][2]geom.Point{{geom.Pt(0.1, 0.1), geom.Pt(0.3, 0.1)}}
	style := design.Style{Color: "#808080", Thickness: 0.004, Opacity: 1}
	light := Lighting{Ambient: 0.5, Directional: 1, Direction: geom.Pt(0, -1)}

	dull := GenerateRealistic(design.StitchSatin, Geometry{Rungs: row}, Material{Sheen: 0}, light, ShapeProperties{}, style, sequentialIDs())
	shiny := GenerateRealistic(design.StitchSatin, Geometry{Rungs: row}, Material{Sheen: 1}, light, ShapeProperties{}, style, sequentialIDs())

	require.Len(t, dull, 1)
	require.Len(t, shiny, 1)
	assert.NotEqual(t, dull[0].Color, shiny[0].Color)
}

func TestGenerateRealistic_EmptyGeometry(t *testing.T) {
	out := GenerateRealistic(design.StitchSatin, Geometry{}, Material{}, Lighting{}, ShapeProperties{}, design.Style{}, sequentialIDs())
	assert.Empty(t, out)
}
