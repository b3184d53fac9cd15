// Package planner computes output dimensions for a conversion. Decisions are
// pure functions of the probed native size and the requested bound, so the
// palette and encode passes can share one plan without re-deriving anything.
package planner

import "fmt"

// ScalePlan holds the target output dimensions for both conversion passes.
// A no-op plan keeps the native dimensions and emits no scale filter.
type ScalePlan struct {
	Width  int
	Height int
	NoOp   bool
}

// String renders the plan for logging, e.g. "800x450 (lanczos)".
func (p ScalePlan) String() string {
	if p.NoOp {
		return fmt.Sprintf("%dx%d (native)", p.Width, p.Height)
	}
	return fmt.Sprintf("%dx%d (lanczos)", p.Width, p.Height)
}

// BuildScalePlan decides the output dimensions. When maxWidth is unset (0)
// or at least the native width, the plan is a no-op: upscaling a recording
// only produces blur. Otherwise the width is capped at maxWidth and the
// height preserves the aspect ratio, rounded to an even integer because
// several encoders reject odd dimensions. Downscaling always uses lanczos.
//
// Inputs are pre-validated positive integers; there are no error conditions.
func BuildScalePlan(nativeWidth, nativeHeight, maxWidth int) ScalePlan {
	if maxWidth <= 0 || maxWidth >= nativeWidth {
		return ScalePlan{Width: nativeWidth, Height: nativeHeight, NoOp: true}
	}

	// Round to nearest, then up to even.
	h := (nativeHeight*maxWidth + nativeWidth/2) / nativeWidth
	if h%2 == 1 {
		h++
	}
	if h < 2 {
		h = 2
	}
	return ScalePlan{Width: maxWidth, Height: h}
}

// Clamp bounds n to [lo, hi].
func Clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
