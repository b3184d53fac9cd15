// Package naming derives output GIF paths and resolves collisions between
// inputs whose names map to the same output.
package naming

import (
	"path/filepath"
	"strings"
)

// DefaultGIFPath returns the output path for a single-file conversion when
// the user gave none: the input's directory and stem with a .gif extension.
func DefaultGIFPath(inputPath string) string {
	return swapExt(inputPath)
}

// OutputPath maps a discovered input file to its batch output location,
// mirroring the input's directory structure relative to inputRoot under
// outputDir. inputPath must be inside inputRoot.
func OutputPath(inputPath, inputRoot, outputDir string) string {
	rel, err := filepath.Rel(inputRoot, inputPath)
	if err != nil {
		rel = filepath.Base(inputPath)
	}
	return filepath.Join(outputDir, swapExt(rel))
}

func swapExt(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".gif"
}
