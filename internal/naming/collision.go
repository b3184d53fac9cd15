package naming

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// CollisionResolver tracks output paths claimed by input files and resolves
// duplicates by appending " - dupN" suffixes. Stem clashes still happen
// after structure mirroring, e.g. "Demo.webm" and "demo.WEBM" on a
// case-insensitive filesystem. All methods are goroutine-safe.
type CollisionResolver struct {
	mu       sync.Mutex
	owners   map[string]string // output path → input path that owns it
	counters map[string]int    // base output path → next dup counter
}

// NewCollisionResolver creates a ready-to-use resolver.
func NewCollisionResolver() *CollisionResolver {
	return &CollisionResolver{
		owners:   make(map[string]string),
		counters: make(map[string]int),
	}
}

// Resolve returns the final output path for input, handling collisions.
// If requestedOutput is unclaimed (or already owned by input), it is returned
// as-is. Otherwise a " - dupN" variant is generated.
func (cr *CollisionResolver) Resolve(input, requestedOutput string) string {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	key := strings.ToLower(requestedOutput)
	owner, exists := cr.owners[key]
	if !exists || owner == input {
		cr.owners[key] = input
		return requestedOutput
	}

	dir := filepath.Dir(requestedOutput)
	base := filepath.Base(requestedOutput)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	counter := cr.counters[key]
	if counter == 0 {
		counter = 1
	}

	for {
		candidate := filepath.Join(dir, fmt.Sprintf("%s - dup%d%s", stem, counter, ext))
		cKey := strings.ToLower(candidate)
		cOwner, cExists := cr.owners[cKey]
		if !cExists || cOwner == input {
			cr.counters[key] = counter + 1
			cr.owners[cKey] = input
			return candidate
		}
		counter++
	}
}
