// Package track keeps in-process page view counts. Counts are deliberately
// not persisted; a restart clears them.
package track

import (
	"strings"
	"sync"
)

// MaxPaths bounds counter cardinality so hostile input cannot grow the map
// without limit.
const MaxPaths = 4096

// maxPathLen caps individual path keys.
const maxPathLen = 512

// Counter accumulates page view counts keyed by normalized page path.
type Counter struct {
	mu    sync.RWMutex
	views map[string]int64
}

// NewCounter creates an empty counter.
func NewCounter() *Counter {
	return &Counter{
		views: make(map[string]int64),
	}
}

// Record increments the count for path. It reports false when the path is
// unusable or the counter is at capacity for new paths.
func (c *Counter) Record(path string) bool {
	path = Normalize(path)
	if path == "" {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, known := c.views[path]; !known && len(c.views) >= MaxPaths {
		return false
	}
	c.views[path]++
	return true
}

// Snapshot returns a copy of the current counts.
func (c *Counter) Snapshot() map[string]int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]int64, len(c.views))
	for path, n := range c.views {
		out[path] = n
	}
	return out
}

// Normalize trims a client-supplied path to a bounded, leading-slash form.
// Query strings and fragments are cut so variants of a page count together.
func Normalize(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > maxPathLen {
		path = path[:maxPathLen]
	}
	return path
}
