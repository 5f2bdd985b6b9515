package stitch

import (
	"math"

	"github.com/closset/closset/engine-go/internal/design"
	"github.com/closset/closset/engine-go/internal/geom"
	"github.com/closset/closset/engine-go/internal/scanline"
)

// Geometry describes the abstract shape the ultra-realistic tier synthesizes
// stitches from: a rail pair with optional explicit rungs for satin columns,
// or a closed outline for fills.
type Geometry struct {
	Rails   [2][]geom.Point `json:"rails,omitempty"`
	Rungs   [][2]geom.Point `json:"rungs,omitempty"`
	Outline []geom.Point    `json:"outline,omitempty"`
}

// Material tunes the visual thread character.
type Material struct {
	Sheen       float64 `json:"sheen"`       // 0..1, scales highlight brightness
	Roughness   float64 `json:"roughness"`   // 0..1, scales placement jitter
	ThreadTwist float64 `json:"threadTwist"` // 0..1, scales twist perturbation
}

// Lighting positions the synthetic light used for per-stitch toning.
type Lighting struct {
	Ambient     float64    `json:"ambient"`     // 0..1 base brightness
	Directional float64    `json:"directional"` // 0..1 directional contribution
	Direction   geom.Point `json:"direction"`
}

// ShapeProperties control stitch density and the faked 3D relief.
type ShapeProperties struct {
	Height      float64 `json:"height"`      // extrusion height, scales thickness
	Padding     float64 `json:"padding"`     // inset from the outline, normalized units
	Compression float64 `json:"compression"` // 0..1, tightens row spacing
	Density     float64 `json:"density"`     // rows per unit; <=0 uses a default
	Underlay    string  `json:"underlay"`    // "", "center" or "edge"
}

// GenerateRealistic synthesizes a batch of stitches from abstract geometry
// rather than pointer input. The returned stitches are plain design entities:
// the caller appends them to the design like any other commit. The input
// bundles are read-only; generation never mutates the design directly.
func GenerateRealistic(
	typ design.StitchType,
	g Geometry,
	m Material,
	l Lighting,
	sp ShapeProperties,
	style design.Style,
	newID func() string,
) []design.Stitch {
	thickness := style.Thickness
	if thickness <= 0 {
		thickness = 0.004
	}
	if sp.Height > 0 {
		thickness *= 1 + sp.Height*0.5
	}

	lightDir := l.Direction.Normalize()
	if lightDir == (geom.Point{}) {
		lightDir = geom.Pt(0.6, -0.8).Normalize()
	}

	var out []design.Stitch
	emit := func(points []geom.Point, tone float64, t design.StitchType) {
		if len(points) < 2 {
			return
		}
		out = append(out, design.Stitch{
			ID:         newID(),
			Type:       t,
			Points:     points,
			Color:      AdjustBrightness(style.Color, tone),
			Thickness:  thickness,
			Opacity:    style.Opacity,
			ThreadType: style.ThreadType,
		})
	}

	rows := realisticRows(g, sp)
	if len(rows) == 0 {
		return nil
	}

	if sp.Underlay != "" {
		out = append(out, underlayStitch(rows, sp, style, thickness, newID)...)
	}

	r := newRNG("realistic", string(typ))
	for i, row := range rows {
		a, b := row[0], row[1]

		// Tone from the lighting model: ambient floor plus a directional
		// term from how the row faces the light, scaled by sheen.
		facing := math.Abs(b.Sub(a).Normalize().Perp().Dot(lightDir))
		tone := (l.Ambient-0.5)*60 + l.Directional*facing*(30+m.Sheen*60)

		if m.Roughness > 0 {
			jitter := b.Sub(a).Normalize().Perp().Mul((r.float() - 0.5) * m.Roughness * thickness)
			a = a.Add(jitter)
			b = b.Add(jitter)
		}

		points := []geom.Point{a, b}
		if m.ThreadTwist > 0 {
			mid := a.Lerp(b, 0.5).Add(b.Sub(a).Normalize().Perp().Mul(
				math.Sin(float64(i)*1.3) * m.ThreadTwist * thickness * 0.6,
			))
			points = []geom.Point{a, mid, b}
		}
		emit(points, tone, typ)
	}
	return out
}

// realisticRows derives the stitch rows from the geometry: explicit rungs
// win, then sampled rail pairs, then scanline chords over the outline.
func realisticRows(g Geometry, sp ShapeProperties) [][2]geom.Point {
	if len(g.Rungs) > 0 {
		return g.Rungs
	}

	if len(g.Rails[0]) >= 2 && len(g.Rails[1]) >= 2 {
		n := len(g.Rails[0])
		if len(g.Rails[1]) < n {
			n = len(g.Rails[1])
		}
		rows := make([][2]geom.Point, 0, n)
		for i := 0; i < n; i++ {
			rows = append(rows, [2]geom.Point{g.Rails[0][i], g.Rails[1][i]})
		}
		return rows
	}

	if len(g.Outline) >= 3 {
		spacing := 0.01
		if sp.Density > 0 {
			spacing = 1 / sp.Density
		}
		if sp.Compression > 0 {
			spacing *= 1 - 0.5*math.Min(sp.Compression, 1)
		}
		outline := g.Outline
		if sp.Padding > 0 {
			center := geom.Centroid(outline)
			inset := make([]geom.Point, len(outline))
			box := geom.BoundingBox(outline)
			scale := 1.0
			if half := math.Min(box.Width(), box.Height()) / 2; half > 0 {
				scale = math.Max(0, 1-sp.Padding/half)
			}
			for i, pt := range outline {
				inset[i] = center.Lerp(pt, scale)
			}
			outline = inset
		}
		chords := scanline.Resolve(outline, scanline.Options{Direction: scanline.Horizontal, Spacing: spacing})
		rows := make([][2]geom.Point, 0, len(chords))
		for _, c := range chords {
			rows = append(rows, [2]geom.Point{c.Start(), c.End()})
		}
		return rows
	}

	return nil
}

// underlayStitch lays a foundation pass beneath the visible rows: a center
// run down the row midpoints, or an edge run along the row endpoints.
func underlayStitch(rows [][2]geom.Point, sp ShapeProperties, style design.Style, thickness float64, newID func() string) []design.Stitch {
	var path []geom.Point
	switch sp.Underlay {
	case "edge":
		for _, row := range rows {
			path = append(path, row[0])
		}
		for i := len(rows) - 1; i >= 0; i-- {
			path = append(path, rows[i][1])
		}
	default: // "center"
		for _, row := range rows {
			path = append(path, row[0].Lerp(row[1], 0.5))
		}
	}
	if len(path) < 2 {
		return nil
	}
	return []design.Stitch{{
		ID:        newID(),
		Type:      design.StitchOutline,
		Points:    path,
		Color:     AdjustBrightness(style.Color, -70),
		Thickness: thickness * 0.6,
		Opacity:   style.Opacity * 0.8,
	}}
}
