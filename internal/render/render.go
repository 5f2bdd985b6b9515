// Package render rasterizes generated stitch primitives onto RGBA canvases.
// Stitches are drawn into per-stitch tiles, memoized through the render
// cache, and composited in list order onto the output image.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"math"

	"golang.org/x/image/vector"

	"github.com/closset/closset/engine-go/internal/design"
	"github.com/closset/closset/engine-go/internal/rendercache"
	"github.com/closset/closset/engine-go/internal/stitch"
)

// ellipseSegments controls the polygonal flattening of ellipse primitives.
const ellipseSegments = 64

// circleK is the cubic Bézier control constant for a quarter circle.
const circleK = 0.5522847498

// Renderer rasterizes primitive batches. Normalized unit-square coordinates
// map onto a fixed pixel canvas; thickness scales with the shorter side.
type Renderer struct {
	log    *slog.Logger
	width  int
	height int
	cache  *rendercache.Cache
}

func New(log *slog.Logger, width, height int, cache *rendercache.Cache) *Renderer {
	if width <= 0 {
		width = 1024
	}
	if height <= 0 {
		height = 1024
	}
	return &Renderer{log: log, width: width, height: height, cache: cache}
}

// RenderDesign rasterizes every visible, renderable stitch in list order
// onto a fresh transparent canvas. Per-stitch tiles come from the cache when
// the stitch is unchanged since the last pass.
func (r *Renderer) RenderDesign(d *design.Design, p stitch.Params) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	var drawn int
	for _, st := range d.Stitches {
		if !st.Renderable() || !d.LayerVisible(st.Layer) {
			continue
		}
		tile := r.tile(st, p)
		if tile == nil {
			continue
		}
		draw.Draw(canvas, canvas.Bounds(), tile, image.Point{}, draw.Over)
		drawn++
	}
	r.log.Debug("design rendered", "stitches", drawn, "width", r.width, "height", r.height)
	return canvas
}

// RenderStitch rasterizes a single stitch onto a transparent canvas-sized
// tile, bypassing the cache. Returns nil when the stitch draws nothing.
func (r *Renderer) RenderStitch(st design.Stitch, p stitch.Params) *image.RGBA {
	prims := stitch.Generate(st, p)
	if len(prims) == 0 {
		return nil
	}
	tile := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	for _, pr := range prims {
		r.drawPrimitive(tile, pr)
	}
	return tile
}

func (r *Renderer) tile(st design.Stitch, p stitch.Params) *image.RGBA {
	if r.cache == nil {
		return r.RenderStitch(st, p)
	}
	return r.cache.GetOrRender(rendercache.Key(st, p), func() *image.RGBA {
		return r.RenderStitch(st, p)
	})
}

func (r *Renderer) drawPrimitive(dst *image.RGBA, pr stitch.Primitive) {
	switch pr.Op {
	case stitch.OpStroke:
		r.drawStroke(dst, pr)
	case stitch.OpEllipse:
		r.drawEllipse(dst, pr)
	case stitch.OpDisc:
		r.drawDisc(dst, pr)
	case stitch.OpDot:
		r.drawDot(dst, pr)
	}
}

// scale maps a normalized length to pixels using the shorter canvas side.
func (r *Renderer) scale(v float64) float32 {
	side := r.width
	if r.height < side {
		side = r.height
	}
	return float32(v * float64(side))
}

func (r *Renderer) px(x, y float64) (float32, float32) {
	return float32(x * float64(r.width)), float32(y * float64(r.height))
}

func (r *Renderer) fill(dst *image.RGBA, ras *vector.Rasterizer, col color.NRGBA) {
	ras.DrawOp = draw.Over
	ras.Draw(dst, dst.Bounds(), image.NewUniform(col), image.Point{})
}

// drawStroke rasterizes a polyline as per-segment quads with round joints.
func (r *Renderer) drawStroke(dst *image.RGBA, pr stitch.Primitive) {
	if len(pr.Points) < 2 {
		return
	}
	col := stitch.ParseColor(pr.Color, pr.Opacity)
	halfW := r.scale(pr.Width) / 2
	if halfW < 0.5 {
		halfW = 0.5
	}

	ras := vector.NewRasterizer(r.width, r.height)
	for i := 0; i+1 < len(pr.Points); i++ {
		ax, ay := r.px(pr.Points[i].X, pr.Points[i].Y)
		bx, by := r.px(pr.Points[i+1].X, pr.Points[i+1].Y)
		dx, dy := bx-ax, by-ay
		length := float32(math.Hypot(float64(dx), float64(dy)))
		if length == 0 {
			continue
		}
		nx, ny := -dy/length*halfW, dx/length*halfW

		ras.MoveTo(ax+nx, ay+ny)
		ras.LineTo(bx+nx, by+ny)
		ras.LineTo(bx-nx, by-ny)
		ras.LineTo(ax-nx, ay-ny)
		ras.ClosePath()

		// Round joint at interior vertices.
		if i > 0 {
			circlePath(ras, ax, ay, halfW)
		}
	}
	r.fill(dst, ras, col)
}

// drawEllipse rasterizes an oriented ellipse, filled or as a ring.
func (r *Renderer) drawEllipse(dst *image.RGBA, pr stitch.Primitive) {
	col := stitch.ParseColor(pr.Color, pr.Opacity)
	cx, cy := r.px(pr.Center.X, pr.Center.Y)
	rx := r.scale(pr.RadiusX)
	ry := r.scale(pr.RadiusY)
	if rx <= 0 || ry <= 0 {
		return
	}
	sin, cos := math.Sincos(pr.Rotation)

	at := func(theta float64, grow float32) (float32, float32) {
		ex := float64(rx+grow) * math.Cos(theta)
		ey := float64(ry+grow) * math.Sin(theta)
		px := cx + float32(ex*cos-ey*sin)
		py := cy + float32(ex*sin+ey*cos)
		return px, py
	}

	ring := func(ras *vector.Rasterizer, grow float32, reverse bool) {
		step := 2 * math.Pi / ellipseSegments
		x0, y0 := at(0, grow)
		ras.MoveTo(x0, y0)
		for s := 1; s < ellipseSegments; s++ {
			theta := float64(s) * step
			if reverse {
				theta = -theta
			}
			px, py := at(theta, grow)
			ras.LineTo(px, py)
		}
		ras.ClosePath()
	}

	ras := vector.NewRasterizer(r.width, r.height)
	if pr.Filled {
		ring(ras, 0, false)
	} else {
		halfW := r.scale(pr.Width) / 2
		if halfW < 0.5 {
			halfW = 0.5
		}
		// Outer boundary forward, inner boundary reversed to cut the hole.
		ring(ras, halfW, false)
		ring(ras, -halfW, true)
	}
	r.fill(dst, ras, col)
}

// drawDisc paints a radial gradient disc per pixel: the center color blends
// into the edge color toward the rim.
func (r *Renderer) drawDisc(dst *image.RGBA, pr stitch.Primitive) {
	center := stitch.ParseColor(pr.Color, pr.Opacity)
	edge := stitch.ParseColor(pr.EdgeColor, pr.Opacity)
	cx, cy := r.px(pr.Center.X, pr.Center.Y)
	radius := r.scale(pr.Radius)
	if radius < 1 {
		radius = 1
	}

	x0 := int(cx - radius - 1)
	y0 := int(cy - radius - 1)
	x1 := int(cx + radius + 1)
	y1 := int(cy + radius + 1)
	bounds := image.Rect(x0, y0, x1+1, y1+1).Intersect(dst.Bounds())

	disc := image.NewNRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dx := float64(x) + 0.5 - float64(cx)
			dy := float64(y) + 0.5 - float64(cy)
			t := math.Hypot(dx, dy) / float64(radius)
			if t > 1 {
				continue
			}
			disc.SetNRGBA(x, y, lerpNRGBA(center, edge, t))
		}
	}
	draw.Draw(dst, bounds, disc, bounds.Min, draw.Over)
}

// drawDot paints a small solid circle.
func (r *Renderer) drawDot(dst *image.RGBA, pr stitch.Primitive) {
	col := stitch.ParseColor(pr.Color, pr.Opacity)
	cx, cy := r.px(pr.Center.X, pr.Center.Y)
	radius := r.scale(pr.Radius)
	if radius < 0.5 {
		radius = 0.5
	}
	ras := vector.NewRasterizer(r.width, r.height)
	circlePath(ras, cx, cy, radius)
	r.fill(dst, ras, col)
}

// circlePath appends a circle to the rasterizer as four cubic Béziers.
func circlePath(ras *vector.Rasterizer, cx, cy, radius float32) {
	kr := float32(circleK) * radius
	ras.MoveTo(cx, cy-radius)
	ras.CubeTo(cx+kr, cy-radius, cx+radius, cy-kr, cx+radius, cy)
	ras.CubeTo(cx+radius, cy+kr, cx+kr, cy+radius, cx, cy+radius)
	ras.CubeTo(cx-kr, cy+radius, cx-radius, cy+kr, cx-radius, cy)
	ras.CubeTo(cx-radius, cy-kr, cx-kr, cy-radius, cx, cy-radius)
	ras.ClosePath()
}

func lerpNRGBA(a, b color.NRGBA, t float64) color.NRGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.NRGBA{
		R: mix(a.R, b.R),
		G: mix(a.G, b.G),
		B: mix(a.B, b.B),
		A: mix(a.A, b.A),
	}
}
