// Package probe provides ffprobe-based media inspection. A single JSON call
// per file yields the duration, native resolution, and frame rate the scale
// planner needs.
package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ProbeError wraps any failure to inspect an input: unreadable file,
// container without a video stream, or zero duration.
type ProbeError struct {
	Path string
	Err  error
}

func (e *ProbeError) Error() string { return fmt.Sprintf("probe %s: %v", e.Path, e.Err) }
func (e *ProbeError) Unwrap() error { return e.Err }

// Probe runs a single ffprobe JSON call against path and returns the parsed
// result. The input is only read, never modified.
func Probe(ctx context.Context, path string) (*Result, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, &ProbeError{Path: path, Err: err}
	}

	return ParseJSON(path, out)
}

// ParseJSON converts raw ffprobe JSON output into a Result. Exported for
// testing without a real ffprobe binary.
func ParseJSON(path string, data []byte) (*Result, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ProbeError{Path: path, Err: fmt.Errorf("parse ffprobe JSON: %w", err)}
	}
	return buildResult(path, &raw)
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
}

type ffprobeStream struct {
	CodecName    string         `json:"codec_name"`
	CodecType    string         `json:"codec_type"`
	Width        int            `json:"width"`
	Height       int            `json:"height"`
	Duration     string         `json:"duration"`
	AvgFrameRate string         `json:"avg_frame_rate"`
	RFrameRate   string         `json:"r_frame_rate"`
	Disposition  map[string]int `json:"disposition"`
}

// --- Conversion from wire types to the domain type ---

func buildResult(path string, raw *ffprobeOutput) (*Result, error) {
	var video *ffprobeStream
	for i := range raw.Streams {
		s := &raw.Streams[i]
		if s.CodecType == "video" && s.Disposition["attached_pic"] != 1 {
			video = s
			break
		}
	}
	if video == nil {
		return nil, &ProbeError{Path: path, Err: errors.New("no video stream")}
	}
	if video.Width <= 0 || video.Height <= 0 {
		return nil, &ProbeError{Path: path, Err: errors.New("video stream has no dimensions")}
	}

	duration := parseFloat(raw.Format.Duration)
	if duration <= 0 {
		// WebM files sometimes carry duration only on the stream.
		duration = parseFloat(video.Duration)
	}
	if duration <= 0 {
		return nil, &ProbeError{Path: path, Err: errors.New("zero duration")}
	}

	fps := parseFraction(video.AvgFrameRate)
	if fps <= 0 {
		fps = parseFraction(video.RFrameRate)
	}
	if fps <= 0 {
		return nil, &ProbeError{Path: path, Err: errors.New("no frame rate")}
	}

	return &Result{
		Path:       path,
		FormatName: raw.Format.FormatName,
		Size:       parseInt64(raw.Format.Size),
		Duration:   duration,
		Codec:      video.CodecName,
		Width:      video.Width,
		Height:     video.Height,
		FrameRate:  fps,
	}, nil
}

// --- Numeric parsing helpers (ffprobe returns numbers as strings) ---

// parseFraction parses ffprobe rate strings like "30/1" or "30000/1001".
// Returns 0 for malformed or zero-denominator input.
func parseFraction(s string) float64 {
	s = strings.TrimSpace(s)
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		return parseFloat(s)
	}
	n := parseFloat(num)
	d := parseFloat(den)
	if d == 0 {
		return 0
	}
	return n / d
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func parseInt64(s string) int64 {
	n, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n
}
