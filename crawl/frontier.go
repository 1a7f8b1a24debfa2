package crawl

import (
	"github.com/fwojciec/devdocs"
	"github.com/fwojciec/devdocs/bloom"
)

// Compile-time interface verification.
var _ devdocs.Frontier = (*Frontier)(nil)

// compactThreshold is the number of popped slots tolerated before the
// queue's backing array is compacted.
const compactThreshold = 1024

// Frontier is a FIFO crawl queue with an exact visited set. A Bloom filter
// screens keys that were never seen before the map is consulted.
//
// Frontier is owned by a single crawl loop and is not safe for concurrent use.
type Frontier struct {
	queue   []devdocs.FrontierEntry
	head    int
	visited map[string]struct{}
	screen  *bloom.Filter
}

// NewFrontier creates an empty Frontier sized for about n keys.
func NewFrontier(n uint) *Frontier {
	if n == 0 {
		n = 1000
	}
	return &Frontier{
		visited: make(map[string]struct{}, n),
		screen:  bloom.NewFilter(n, 0.01),
	}
}

// Push marks the entry visited and appends it to the queue.
// Returns false if its key has already been seen.
func (f *Frontier) Push(e devdocs.FrontierEntry) bool {
	if !f.Mark(e.Key()) {
		return false
	}
	f.queue = append(f.queue, e)
	return true
}

// Mark records key as visited. Returns false if it was already visited.
func (f *Frontier) Mark(key string) bool {
	if f.Seen(key) {
		return false
	}
	f.screen.Add(key)
	f.visited[key] = struct{}{}
	return true
}

// Pop removes and returns the oldest queued entry.
func (f *Frontier) Pop() (devdocs.FrontierEntry, bool) {
	if f.head == len(f.queue) {
		return devdocs.FrontierEntry{}, false
	}
	e := f.queue[f.head]
	f.queue[f.head] = devdocs.FrontierEntry{}
	f.head++

	if f.head >= compactThreshold && f.head*2 >= len(f.queue) {
		f.queue = append([]devdocs.FrontierEntry(nil), f.queue[f.head:]...)
		f.head = 0
	}
	return e, true
}

// Len returns the number of queued entries.
func (f *Frontier) Len() int {
	return len(f.queue) - f.head
}

// Seen returns true if the key has been queued or marked.
func (f *Frontier) Seen(key string) bool {
	if !f.screen.MayContain(key) {
		return false
	}
	_, ok := f.visited[key]
	return ok
}

// Visited returns the number of keys ever queued or marked.
func (f *Frontier) Visited() int {
	return len(f.visited)
}
