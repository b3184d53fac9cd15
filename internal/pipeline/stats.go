package pipeline

import "strings"

// RunStats accumulates the outcome of a batch run.
type RunStats struct {
	Total     int
	Converted int
	Skipped   int
	Failed    int

	InputBytes  int64
	OutputBytes int64
}

func (s RunStats) AllOK() bool { return s.Failed == 0 }

// tailLines returns at most n trailing non-empty lines of s.
func tailLines(s string, n int) []string {
	raw := strings.Split(strings.TrimRight(s, "\n"), "\n")
	var lines []string
	for _, l := range raw {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
