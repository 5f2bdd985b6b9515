// Package geom provides the 2D point, segment and polygon math used by the
// stitch generators and the scanline fill resolver. Coordinates are normalized
// to the unit square of the target texture.
package geom

import "math"

// epsDenom guards divisions in intersection math. Denominators smaller than
// this are treated as parallel segments rather than producing NaN/Inf.
const epsDenom = 1e-10

// Point represents a 2D point or vector in normalized texture coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points (vector addition).
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points (vector subtraction).
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns the point scaled by a scalar.
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Dot returns the dot product of two vectors.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Cross returns the 2D cross product (scalar).
func (p Point) Cross(q Point) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Length returns the length of the vector.
func (p Point) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

// Distance returns the distance between two points.
func (p Point) Distance(q Point) float64 {
	return p.Sub(q).Length()
}

// Normalize returns a unit vector in the same direction, or the zero vector
// if p has zero length.
func (p Point) Normalize() Point {
	length := p.Length()
	if length == 0 {
		return Point{}
	}
	return Point{X: p.X / length, Y: p.Y / length}
}

// Perp returns the vector rotated 90 degrees counter-clockwise.
func (p Point) Perp() Point {
	return Point{X: -p.Y, Y: p.X}
}

// Rotate returns the point rotated by angle radians around the origin.
func (p Point) Rotate(angle float64) Point {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return Point{
		X: p.X*cos - p.Y*sin,
		Y: p.X*sin + p.Y*cos,
	}
}

// RotateAround returns the point rotated by angle radians around center.
func (p Point) RotateAround(center Point, angle float64) Point {
	return p.Sub(center).Rotate(angle).Add(center)
}

// Lerp performs linear interpolation between two points.
// t=0 returns p, t=1 returns q, intermediate values interpolate.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
	}
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// Width returns the horizontal extent of the rect.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent of the rect.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// IsEmpty checks if the rect has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Contains checks if a point is inside the rect.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// SegmentIntersection computes the intersection of segment p1-p2 with segment
// p3-p4 via the standard determinant test. It returns the parametric position
// of the intersection along p3-p4 and true when the segments cross. Segments
// whose direction determinant is below 1e-10 are treated as parallel and
// report no intersection, so near-degenerate input never produces NaN.
func SegmentIntersection(p1, p2, p3, p4 Point) (float64, bool) {
	d1 := p2.Sub(p1)
	d2 := p4.Sub(p3)

	denom := d1.Cross(d2)
	if math.Abs(denom) < epsDenom {
		return 0, false
	}

	diff := p3.Sub(p1)
	t := diff.Cross(d2) / denom // position along p1-p2
	u := diff.Cross(d1) / denom // position along p3-p4

	if t < 0 || t > 1 || u < 0 || u > 1 {
		return 0, false
	}
	return u, true
}

// Centroid returns the arithmetic mean of the points. The zero point is
// returned for empty input.
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}
	var sum Point
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(points)))
}

// BoundingBox returns the axis-aligned bounding box of the points.
// The empty rect is returned for empty input.
func BoundingBox(points []Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	r := Rect{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		r.Min.X = math.Min(r.Min.X, p.X)
		r.Min.Y = math.Min(r.Min.Y, p.Y)
		r.Max.X = math.Max(r.Max.X, p.X)
		r.Max.Y = math.Max(r.Max.Y, p.Y)
	}
	return r
}

// AngleBetween returns the interior angle at p2 formed by p1-p2-p3, in
// degrees, computed with the law of cosines. The cosine argument is clamped
// to [-1, 1] before acos so accumulated floating error cannot produce NaN.
// Degenerate triangles (a zero-length side) yield 0.
func AngleBetween(p1, p2, p3 Point) float64 {
	a := p2.Distance(p3)
	b := p1.Distance(p2)
	c := p1.Distance(p3)

	if a == 0 || b == 0 {
		return 0
	}

	cos := (a*a + b*b - c*c) / (2 * a * b)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

// PathLength returns the total polyline length of the points in order.
func PathLength(points []Point) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += points[i-1].Distance(points[i])
	}
	return total
}
