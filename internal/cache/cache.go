package cache

// EvictCallback runs when an entry falls out of the cache. Backends that
// evict server-side (Redis TTL expiry) cannot observe every removal and
// only report evictions they perform themselves.
type EvictCallback func(key string, value []byte)

// Logger receives error reports from cache internals. Backends swallow
// operational errors (a cache failure must never fail the request), so the
// logger is the only place they surface.
type Logger interface {
	Error(msg string, err error)
}

// Cache is a bounded TTL key-value store. The application keeps two groups
// behind it: downloaded subtitle payloads and scraped catalog detail pages.
type Cache interface {
	// Get retrieves a value and reports whether the key was present.
	Get(key string) ([]byte, bool)

	// Set stores a value, overwriting any existing entry under the key.
	Set(key string, value []byte)

	// Contains reports key presence without touching recency order.
	Contains(key string) bool

	// Len returns the current entry count. External backends report the
	// count in the configured database, not a per-process number.
	Len() int

	// Close releases backend resources. In-memory backends have nothing
	// to release.
	Close() error
}
