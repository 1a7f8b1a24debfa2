package devdocs

// FrontierEntry is a normalized path waiting to be fetched.
type FrontierEntry struct {
	// Path is relative to BaseURL, without a leading slash. The base URL's
	// own page has the empty path.
	Path string

	// BaseURL is the base the path resolves against.
	BaseURL string

	// Referrer is the URL of the page the path was discovered on, empty
	// for seeds. Kept for diagnostics only.
	Referrer string
}

// Key identifies the entry in the visited set.
func (e FrontierEntry) Key() string {
	return e.BaseURL + e.Path
}

// Frontier is a FIFO crawl queue together with the set of keys that have
// ever been queued.
type Frontier interface {
	// Push marks the entry visited and queues it.
	// Returns false if the entry's key has already been seen.
	Push(e FrontierEntry) bool

	// Mark records a key as visited without queueing it.
	// Returns false if it was already visited.
	Mark(key string) bool

	// Pop returns the oldest queued entry.
	// Returns false if the frontier is empty.
	Pop() (FrontierEntry, bool)

	// Len returns the number of queued entries.
	Len() int

	// Seen returns true if the key has been queued or marked.
	Seen(key string) bool
}
