package stitch

import (
	"fmt"
	"image/color"
	"math"
)

// FallbackColor substitutes for malformed color input. Failing closed to a
// defined color keeps one bad stitch from aborting the rest of the render.
const FallbackColor = "#000000"

// parseHex decodes a "#rrggbb" color string.
func parseHex(s string) (r, g, b int, ok bool) {
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0, false
	}
	var rr, gg, bb int
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &rr, &gg, &bb); err != nil {
		return 0, 0, 0, false
	}
	return rr, gg, bb, true
}

// AdjustBrightness lightens (positive amount) or darkens (negative amount)
// a "#rrggbb" color, clamping each channel to [0, 255] and rounding to the
// nearest integer before re-encoding. Malformed input returns FallbackColor.
// An adjustment that changes no channel returns the input byte-for-byte, so
// uppercase hex digits survive a zero-effect pass.
func AdjustBrightness(hexColor string, amount float64) string {
	r, g, b, ok := parseHex(hexColor)
	if !ok || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return FallbackColor
	}

	adj := func(c int) int {
		v := int(math.Round(float64(c) + amount))
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return v
	}
	ar, ag, ab := adj(r), adj(g), adj(b)
	if ar == r && ag == g && ab == b {
		return hexColor
	}
	return fmt.Sprintf("#%02x%02x%02x", ar, ag, ab)
}

// ParseColor decodes a "#rrggbb" string into an NRGBA with the given opacity.
// Malformed input fails closed to opaque black at the requested opacity.
func ParseColor(hexColor string, opacity float64) color.NRGBA {
	r, g, b, ok := parseHex(hexColor)
	if !ok {
		r, g, b = 0, 0, 0
	}
	if math.IsNaN(opacity) || opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	return color.NRGBA{
		R: uint8(r),
		G: uint8(g),
		B: uint8(b),
		A: uint8(math.Round(opacity * 255)),
	}
}

// MixColors blends two "#rrggbb" colors at parameter t in [0,1]. Malformed
// operands fall back to FallbackColor before blending.
func MixColors(a, b string, t float64) string {
	ar, ag, ab, ok := parseHex(a)
	if !ok {
		ar, ag, ab = 0, 0, 0
	}
	br, bg, bb, ok := parseHex(b)
	if !ok {
		br, bg, bb = 0, 0, 0
	}
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	mix := func(x, y int) int {
		return int(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return fmt.Sprintf("#%02x%02x%02x", mix(ar, br), mix(ag, bg), mix(ab, bb))
}
