package probe

import (
	"fmt"
	"math"
)

// Result is the fully parsed output of a single ffprobe JSON call. It is
// immutable once produced and owned by the orchestrator for the duration of
// one conversion.
type Result struct {
	Path       string
	FormatName string
	Size       int64
	Duration   float64 // seconds
	Codec      string
	Width      int
	Height     int
	FrameRate  float64 // frames per second, from the avg_frame_rate fraction
}

// Resolution returns "WxH" for the video stream.
func (r *Result) Resolution() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// RoundedFPS returns the frame rate rounded to the nearest whole frame per
// second, clamped to at least 1. Used when the request keeps the source rate:
// the fps filter takes an integer and 29.97 collapses to 30.
func (r *Result) RoundedFPS() int {
	fps := int(math.Round(r.FrameRate))
	if fps < 1 {
		return 1
	}
	return fps
}
