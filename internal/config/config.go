// Package config holds runtime configuration: defaults, env-file overrides,
// CLI flag parsing, and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// --- Enum types for validated string fields ---

// Dither selects the dithering algorithm applied when remapping frames to
// the generated palette. Riemersma is only available through ImageMagick;
// the remaining modes map to ffmpeg's paletteuse filter.
type Dither string

const (
	DitherRiemersma      Dither = "riemersma"       // ImageMagick assemble backend (default).
	DitherFloydSteinberg Dither = "floyd_steinberg" // Classic error diffusion.
	DitherSierra         Dither = "sierra2_4a"      // ffmpeg paletteuse default.
	DitherBayer          Dither = "bayer"           // Ordered dithering.
	DitherNone           Dither = "none"            // Nearest palette color, no pattern.
)

// NeedsImageMagick reports whether this dither mode requires the ImageMagick
// assemble backend rather than ffmpeg paletteuse.
func (d Dither) NeedsImageMagick() bool { return d == DitherRiemersma }

// StatsMode is the palettegen statistics mode.
type StatsMode string

const (
	StatsFull StatsMode = "full" // Whole-frame statistics; stable palette for static UI (default).
	StatsDiff StatsMode = "diff" // Weight pixels that change between frames; better for motion.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stderr is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// FPS and width bounds accepted from flags, env, and GUI prompts.
const (
	MinFPS      = 1
	MaxFPS      = 120
	MinMaxWidth = 32
	MaxMaxWidth = 4096
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// optionally overridden by [LoadEnv], and then mutated by [ParseFlags]
// before being passed (by pointer) to packages that need it.
type Config struct {
	// Paths (set from the positional arg and -o).
	InputPath  string // File or directory; empty selects the GUI flow.
	OutputPath string // Output file (single input) or directory (batch). Empty: derived.

	// Conversion settings.
	FPS       int       // Output frame rate. 0 = keep the source rate.
	MaxWidth  int       // Downscale bound in pixels. 0 = keep native width.
	Dither    Dither    // Default: riemersma.
	StatsMode StatsMode // Default: full.
	MaxColors int       // palettegen palette size. Default: 256.

	// DitherExplicit is set when --dither was passed. A default riemersma
	// downgrades to floyd_steinberg when ImageMagick is missing; an explicit
	// riemersma is fatal instead.
	DitherExplicit bool

	// GUI settings.
	StartDir string // Initial directory for the file picker.
	NoGUI    bool   // Use terminal prompts instead of desktop dialogs.

	// Behavior flags.
	DryRun       bool
	SkipExisting bool // Default: true. Cleared by --force.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
	CheckOnly bool      // Run --check diagnostics and exit.

	// Resolved tool paths (populated by check.ResolveTools).
	MagickBin string // "magick", "convert", or empty when unavailable.
}

// DefaultConfig returns a Config with all defaults. FPS and MaxWidth default
// to zero, meaning the source frame rate and native width are kept.
func DefaultConfig() Config {
	return Config{
		FPS:          0,
		MaxWidth:     0,
		Dither:       DitherRiemersma,
		StatsMode:    StatsFull,
		MaxColors:    256,
		StartDir:     defaultStartDir(),
		SkipExisting: true,
		ColorMode:    ColorAuto,
	}
}

// defaultStartDir points the file picker at the usual screencast location,
// falling back to the home directory.
func defaultStartDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	screencasts := filepath.Join(home, "Videos", "Screencasts")
	if fi, err := os.Stat(screencasts); err == nil && fi.IsDir() {
		return screencasts
	}
	return home
}

// LoadEnv applies overrides from ~/.webm2gif.env (if present) and the
// process environment. Flags parsed afterwards take precedence.
func LoadEnv(cfg *Config) {
	if home, err := os.UserHomeDir(); err == nil {
		_ = godotenv.Load(filepath.Join(home, ".webm2gif.env"))
	}

	if v := os.Getenv("WEBM2GIF_START_DIR"); v != "" {
		cfg.StartDir = v
	}
	if v := os.Getenv("WEBM2GIF_FPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.FPS = n
		}
	}
	if v := os.Getenv("WEBM2GIF_MAX_WIDTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxWidth = n
		}
	}
	if v := os.Getenv("WEBM2GIF_DITHER"); v != "" {
		var d ditherValue
		d.p = &cfg.Dither
		if d.Set(v) == nil {
			cfg.DitherExplicit = true
		}
	}
}

// NormalizeDirArg strips trailing slashes from a directory path. The
// filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields and numeric ranges. A zero FPS or MaxWidth is
// valid here (it means "keep source"); explicit values must be in range.
func (c *Config) Validate() error {
	switch c.Dither {
	case DitherRiemersma, DitherFloydSteinberg, DitherSierra, DitherBayer, DitherNone:
		// valid
	default:
		return fmt.Errorf("invalid dither %q (use riemersma, floyd_steinberg, sierra2_4a, bayer, or none)", c.Dither)
	}

	switch c.StatsMode {
	case StatsFull, StatsDiff:
		// valid
	default:
		return fmt.Errorf("invalid stats mode %q (use 'full' or 'diff')", c.StatsMode)
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always', or 'never')")
	}

	if c.FPS != 0 && (c.FPS < MinFPS || c.FPS > MaxFPS) {
		return fmt.Errorf("fps must be between %d and %d (got %d)", MinFPS, MaxFPS, c.FPS)
	}
	if c.MaxWidth != 0 && (c.MaxWidth < MinMaxWidth || c.MaxWidth > MaxMaxWidth) {
		return fmt.Errorf("max width must be between %d and %d pixels (got %d)", MinMaxWidth, MaxMaxWidth, c.MaxWidth)
	}
	if c.MaxColors < 2 || c.MaxColors > 256 {
		return fmt.Errorf("max colors must be between 2 and 256 (got %d)", c.MaxColors)
	}
	return nil
}
