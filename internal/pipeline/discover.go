package pipeline

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Discover walks root recursively and returns every .webm file, sorted.
// Extension matching is case-insensitive and hidden directories are pruned.
func Discover(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".webm") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, &IOError{Op: "scan", Path: root, Err: err}
	}
	sort.Strings(files)
	return files, nil
}
