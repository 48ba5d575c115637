package viz

import (
	"math"

	"github.com/matsen/kbm/internal/layout"
)

// Zoom limits and button step.
const (
	MinScale   = 0.1
	MaxScale   = 3
	ZoomFactor = 1.2
)

// Transform is the affine zoom/pan transform applied to the whole scene:
// screen = scene*K + (X, Y).
type Transform struct {
	K float64 `json:"k"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Identity is the unzoomed transform.
var Identity = Transform{K: 1}

// Apply maps a scene point to the screen.
func (t Transform) Apply(p layout.Point) layout.Point {
	return layout.Point{X: p.X*t.K + t.X, Y: p.Y*t.K + t.Y}
}

// Invert maps a screen point back into the scene.
func (t Transform) Invert(p layout.Point) layout.Point {
	return layout.Point{X: (p.X - t.X) / t.K, Y: (p.Y - t.Y) / t.K}
}

// Scale returns t with K set to k clamped to [MinScale, MaxScale],
// keeping the translation. NaN resets to the identity scale.
func (t Transform) Scale(k float64) Transform {
	t.K = clampScale(k)
	return t
}

// ZoomAt scales by factor keeping the screen point p fixed.
func (t Transform) ZoomAt(p layout.Point, factor float64) Transform {
	k := clampScale(t.K * factor)
	scene := t.Invert(p)
	return Transform{K: k, X: p.X - scene.X*k, Y: p.Y - scene.Y*k}
}

// Pan translates by (dx, dy) screen pixels. Non-finite deltas are ignored.
func (t Transform) Pan(dx, dy float64) Transform {
	if !finite(dx) || !finite(dy) {
		return t
	}
	t.X += dx
	t.Y += dy
	return t
}

// SVG renders t as an SVG transform attribute value.
func (t Transform) SVG() string {
	return "translate(" + ftoa(t.X) + "," + ftoa(t.Y) + ") scale(" + ftoa(t.K) + ")"
}

func clampScale(k float64) float64 {
	if math.IsNaN(k) {
		return Identity.K
	}
	if k < MinScale {
		return MinScale
	}
	if k > MaxScale {
		return MaxScale
	}
	return k
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
