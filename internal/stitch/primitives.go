// Package stitch turns typed stitch polylines into renderable primitive
// batches. Each stitch family has its own procedural generator; all of them
// share a layered shadow/main/highlight convention that fakes 3D thread
// texture without physical simulation.
package stitch

import (
	"github.com/closset/closset/engine-go/internal/geom"
)

// Op identifies a primitive drawing operation.
type Op string

const (
	OpStroke  Op = "stroke"  // polyline stroke
	OpEllipse Op = "ellipse" // rotated ellipse, outlined or filled
	OpDisc    Op = "disc"    // radial gradient disc
	OpDot     Op = "dot"     // small filled circle
)

// Primitive is a single drawing operation. The renderer executes a batch in
// slice order (painter's order), so shadow passes precede main passes which
// precede highlights.
type Primitive struct {
	Op Op `json:"op"`

	// Stroke geometry.
	Points []geom.Point `json:"points,omitempty"`
	Width  float64      `json:"width,omitempty"`

	// Ellipse geometry.
	Center   geom.Point `json:"center,omitempty"`
	RadiusX  float64    `json:"radiusX,omitempty"`
	RadiusY  float64    `json:"radiusY,omitempty"`
	Rotation float64    `json:"rotation,omitempty"` // radians
	Filled   bool       `json:"filled,omitempty"`

	// Disc and dot geometry.
	Radius float64 `json:"radius,omitempty"`

	Color string `json:"color,omitempty"`
	// EdgeColor is the outer stop of a radial gradient disc.
	EdgeColor string  `json:"edgeColor,omitempty"`
	Opacity   float64 `json:"opacity,omitempty"`
}

func stroke(points []geom.Point, color string, width, opacity float64) Primitive {
	return Primitive{Op: OpStroke, Points: points, Color: color, Width: width, Opacity: opacity}
}

func dot(center geom.Point, radius float64, color string, opacity float64) Primitive {
	return Primitive{Op: OpDot, Center: center, Radius: radius, Color: color, Opacity: opacity}
}
