// Package bloom provides a probabilistic membership prefilter for visited
// frontier keys.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter answers "definitely not seen" for keys it has never been given.
// A positive answer may be false and must be confirmed by an exact set.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a filter sized for n expected keys at the given false
// positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{f: bloom.NewWithEstimates(n, fpRate)}
}

// Add records a key.
func (f *Filter) Add(key string) {
	f.f.AddString(key)
}

// MayContain returns false only for keys that were never added.
func (f *Filter) MayContain(key string) bool {
	return f.f.TestString(key)
}

// TestAndAdd records key and reports whether it may have been present before.
func (f *Filter) TestAndAdd(key string) bool {
	return f.f.TestAndAddString(key)
}

// EstimatedCount returns the approximate number of keys added.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
