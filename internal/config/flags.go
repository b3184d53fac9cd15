package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into conversion, GUI, behavior, display, and utility.
// The single optional positional argument is the input file or directory;
// with no positional argument the GUI flow runs.

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// version is shown in --version and help; override at build time with -ldflags "-X ...config.version=...".
var version = "1.0.0-dev"

// Version returns the build version string.
func Version() string { return version }

// ParseFlags parses os.Args into cfg. On --help or --version it prints and exits.
// On error it returns non-nil (e.g. unknown flag, too many positional args).
func ParseFlags(cfg *Config) error {
	fs := flag.NewFlagSet("webm2gif", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs) }

	var exits exitFlags
	var ditherSet ditherValue
	ditherSet.p = &cfg.Dither

	defineConversionFlags(fs, cfg, &ditherSet)
	defineGUIFlags(fs, cfg)
	defineBehaviorFlags(fs, cfg, &exits)
	defineDisplayFlags(fs, cfg, &exits)

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	cfg.DitherExplicit = cfg.DitherExplicit || ditherSet.set

	if exits.noColor {
		cfg.ColorMode = ColorNever
	} else if exits.forceColor {
		cfg.ColorMode = ColorAlways
	}
	if exits.force {
		cfg.SkipExisting = false
	}

	if exits.showHelp {
		printUsage(fs)
		os.Exit(0)
	}
	if exits.showVersion {
		fmt.Fprintln(os.Stdout, "webm2gif v"+version)
		os.Exit(0)
	}

	return parsePositionalArgs(fs, cfg)
}

// exitFlags holds boolean flags applied after Parse, plus the two that
// trigger exit (showHelp, showVersion).
type exitFlags struct {
	force       bool
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineConversionFlags registers -r/--fps, -w/--max-width, --dither, --stats-mode, --max-colors, -o/--output.
func defineConversionFlags(fs *flag.FlagSet, cfg *Config, dither *ditherValue) {
	fs.IntVar(&cfg.FPS, "fps", cfg.FPS, "Output frame rate (0 = keep source rate)")
	fs.IntVar(&cfg.FPS, "r", cfg.FPS, "Same as --fps")
	fs.IntVar(&cfg.MaxWidth, "max-width", cfg.MaxWidth, "Maximum output width in pixels (0 = native; never upscales)")
	fs.IntVar(&cfg.MaxWidth, "w", cfg.MaxWidth, "Same as --max-width")
	fs.Var(dither, "dither", "Dither mode: riemersma | floyd_steinberg | sierra2_4a | bayer | none")
	fs.Var(&statsModeValue{&cfg.StatsMode}, "stats-mode", "palettegen statistics: full | diff")
	fs.IntVar(&cfg.MaxColors, "max-colors", cfg.MaxColors, "Palette size (2-256)")
	fs.StringVar(&cfg.OutputPath, "output", "", "Output GIF path (or directory in batch mode)")
	fs.StringVar(&cfg.OutputPath, "o", "", "Same as --output")
}

// defineGUIFlags registers --start-dir and --no-gui.
func defineGUIFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.StartDir, "start-dir", cfg.StartDir, "Initial directory for the file picker")
	fs.BoolVar(&cfg.NoGUI, "no-gui", false, "Use terminal prompts instead of desktop dialogs")
}

// defineBehaviorFlags registers dry-run and force.
func defineBehaviorFlags(fs *flag.FlagSet, cfg *Config, e *exitFlags) {
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Preview only; do not convert")
	fs.BoolVar(&cfg.DryRun, "d", false, "Same as --dry-run")
	fs.BoolVar(&e.force, "force", false, "Overwrite existing output files")
	fs.BoolVar(&e.force, "f", false, "Same as --force")
}

// defineDisplayFlags registers color, verbose, check, log, version, help.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, e *exitFlags) {
	fs.BoolVar(&e.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&e.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output (ffmpeg stderr passthrough)")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
	fs.BoolVar(&e.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&e.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&e.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&e.showHelp, "h", false, "Same as --help")
}

// parsePositionalArgs sets InputPath from the optional positional argument.
// No argument selects the GUI flow; more than one is an error.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	switch len(args) {
	case 0:
		return nil
	case 1:
		cfg.InputPath = NormalizeDirArg(args[0])
		return nil
	default:
		return fmt.Errorf("expected at most one input path, got %d", len(args))
	}
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(fs *flag.FlagSet) {
	const col1 = 30 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "webm2gif v" + version + " - WEBM screen recordings to high-quality GIFs"},
		{"", ""},
		{"  webm2gif [OPTIONS] [input_file | input_dir]", ""},
		{"", ""},
		{"  With no input path, a graphical file picker opens.", ""},
		{"", ""},
		{"Conversion", ""},
		{"  -r, --fps <n>", "Output frame rate (default: source rate)"},
		{"  -w, --max-width <px>", "Maximum output width; never upscales"},
		{"  --dither <mode>", "riemersma | floyd_steinberg | sierra2_4a | bayer | none"},
		{"  --stats-mode <full|diff>", "Palette statistics mode (default: full)"},
		{"  --max-colors <n>", "Palette size, 2-256 (default: 256)"},
		{"  -o, --output <path>", "Output GIF (or directory in batch mode)"},
		{"", ""},
		{"Picker", ""},
		{"  --start-dir <path>", "Initial directory for the file picker"},
		{"  --no-gui", "Terminal prompts instead of desktop dialogs"},
		{"", ""},
		{"Output & behavior", ""},
		{"  -f, --force", "Overwrite existing output files"},
		{"  -d, --dry-run", "Preview only; do not convert"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -c, --check", "System diagnostics (ffmpeg, ffprobe, ImageMagick)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// flag.Value adapters so enum types (Dither, StatsMode) work with flag.Var.

type ditherValue struct {
	p   *Dither
	set bool
}

func (d *ditherValue) String() string {
	if d.p == nil {
		return ""
	}
	return string(*d.p)
}

func (d *ditherValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "riemersma":
		*d.p = DitherRiemersma
	case "floyd_steinberg", "floyd-steinberg", "floydsteinberg":
		*d.p = DitherFloydSteinberg
	case "sierra2_4a", "sierra":
		*d.p = DitherSierra
	case "bayer":
		*d.p = DitherBayer
	case "none":
		*d.p = DitherNone
	default:
		return fmt.Errorf("invalid dither %q (use riemersma, floyd_steinberg, sierra2_4a, bayer, or none)", s)
	}
	d.set = true
	return nil
}

type statsModeValue struct{ p *StatsMode }

func (m *statsModeValue) String() string {
	if m.p == nil {
		return ""
	}
	return string(*m.p)
}

func (m *statsModeValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "full":
		*m.p = StatsFull
	case "diff":
		*m.p = StatsDiff
	default:
		return fmt.Errorf("invalid stats mode %q (use 'full' or 'diff')", s)
	}
	return nil
}
