// Package gif builds and executes the external commands for the two-pass
// palette + encode conversion. The ffmpeg argument lists are composed with
// ffmpeg-go; execution stays in this package so stderr is captured for
// error reporting.
package gif

import (
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/Weixin07/Webm2Gif/internal/config"
	"github.com/Weixin07/Webm2Gif/internal/planner"
)

// FilterSpec carries the per-request filter parameters. It is computed once
// by the orchestrator and shared by the palette and encode passes: any
// divergence between the two filter chains produces visible artifacts, so
// there is exactly one source of truth.
type FilterSpec struct {
	FPS       int // resolved output rate; always > 0
	Scale     planner.ScalePlan
	StatsMode config.StatsMode
	Dither    config.Dither
	MaxColors int
}

// globalArgs is the shared ffmpeg preamble for both passes.
var globalArgs = []string{"-hide_banner", "-nostdin", "-loglevel", "error"}

// applyFrameFilters attaches the shared decode filter chain to a stream:
// fps → optional lanczos scale → rgba. Both passes route through this one
// function.
func applyFrameFilters(s *ffmpeg.Stream, spec FilterSpec) *ffmpeg.Stream {
	s = s.Filter("fps", ffmpeg.Args{strconv.Itoa(spec.FPS)})
	if !spec.Scale.NoOp {
		s = s.Filter("scale",
			ffmpeg.Args{strconv.Itoa(spec.Scale.Width), strconv.Itoa(spec.Scale.Height)},
			ffmpeg.KwArgs{"flags": "lanczos"})
	}
	return s.Filter("format", ffmpeg.Args{"rgba"})
}

// PaletteArgs returns the ffmpeg argument list for the palette pass:
// decode through the shared chain, run palettegen, write one palette image.
func PaletteArgs(input, palettePath string, spec FilterSpec) []string {
	stream := applyFrameFilters(ffmpeg.Input(input), spec).
		Filter("palettegen", ffmpeg.Args{}, ffmpeg.KwArgs{
			"stats_mode": string(spec.StatsMode),
			"max_colors": spec.MaxColors,
		})
	return stream.
		Output(palettePath, ffmpeg.KwArgs{"frames:v": 1}).
		GlobalArgs(globalArgs...).
		OverWriteOutput().
		GetArgs()
}

// EncodeArgs returns the ffmpeg argument list for the encode pass: the same
// chain byte-for-byte, the palette applied via paletteuse with the requested
// dither, and an infinite loop count on the GIF container.
func EncodeArgs(input, palettePath, output string, spec FilterSpec) []string {
	frames := applyFrameFilters(ffmpeg.Input(input), spec)
	palette := ffmpeg.Input(palettePath)
	return ffmpeg.Filter([]*ffmpeg.Stream{frames, palette}, "paletteuse",
		ffmpeg.Args{}, ffmpeg.KwArgs{"dither": paletteuseDither(spec.Dither)}).
		Output(output, ffmpeg.KwArgs{"loop": 0, "f": "gif"}).
		GlobalArgs(globalArgs...).
		OverWriteOutput().
		GetArgs()
}

// FrameExtractArgs returns the ffmpeg argument list that dumps the filtered
// frames as numbered PNGs for the ImageMagick assemble backend.
func FrameExtractArgs(input, pattern string, spec FilterSpec) []string {
	return applyFrameFilters(ffmpeg.Input(input), spec).
		Output(pattern).
		GlobalArgs(globalArgs...).
		OverWriteOutput().
		GetArgs()
}

// paletteuseDither maps the config enum to a paletteuse dither value.
// Riemersma never reaches paletteuse (it selects the ImageMagick backend);
// the floyd_steinberg mapping is a safety net, not a policy.
func paletteuseDither(d config.Dither) string {
	switch d {
	case config.DitherFloydSteinberg, config.DitherRiemersma:
		return "floyd_steinberg"
	case config.DitherSierra:
		return "sierra2_4a"
	case config.DitherBayer:
		return "bayer"
	default:
		return "none"
	}
}
