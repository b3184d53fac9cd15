// Package term resolves the effective color mode and detects terminals.
//
// The resolved state is package-level because both the log handler and the
// banner need it for output formatting. [Configure] sets it once during
// startup.
package term

import (
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/Weixin07/Webm2Gif/internal/config"
)

var colorsEnabled bool

// Configure resolves the color mode and stores the result. Call once during
// startup, before the logger is constructed. The fatih/color global follows
// the same decision so the banner and dialogs agree with the log handler.
func Configure(mode config.ColorMode) {
	colorsEnabled = resolve(mode)
	color.NoColor = !colorsEnabled
}

// Enabled reports whether ANSI colors are currently active.
func Enabled() bool { return colorsEnabled }

// resolve determines whether colors should be enabled based on the configured
// mode, TTY detection, and the NO_COLOR env var (https://no-color.org).
func resolve(mode config.ColorMode) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default: // ColorAuto
		return IsTerminal(os.Stderr) &&
			os.Getenv("NO_COLOR") == "" &&
			strings.ToLower(os.Getenv("TERM")) != "dumb"
	}
}

// IsTerminal reports whether f is attached to a TTY (character device).
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
