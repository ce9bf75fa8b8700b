package cache

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// ProviderConfig carries everything a backend constructor needs.
type ProviderConfig struct {
	// Size bounds the entry count for LRU backends.
	Size int

	// TTL is how long entries live.
	TTL time.Duration

	// OnEvict runs per evicted entry where the backend supports it.
	OnEvict EvictCallback

	// Logger receives backend error reports. Nil drops them.
	Logger Logger

	// RedisAddress is the Redis/Valkey address, e.g. "localhost:6379".
	RedisAddress string

	// RedisPassword authenticates against the Redis/Valkey server.
	RedisPassword string

	// RedisDB selects the Redis/Valkey database number.
	RedisDB int

	// Group labels this instance in the cache_* Prometheus metrics. A
	// non-empty Group wraps the backend with metric instrumentation.
	Group string
}

// Provider constructs a backend from its config.
type Provider func(cfg ProviderConfig) (Cache, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Provider)
)

// Register adds a backend constructor under a name. Registering a nil
// constructor or a taken name panics; backends register from init.
func Register(name string, p Provider) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if p == nil {
		panic("cache: Register provider is nil")
	}
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("cache: provider %q already registered", name))
	}
	registry[name] = p
}

// New builds a cache from the named backend. A non-empty cfg.Group wraps
// the result with metric instrumentation: hit, miss and eviction counters
// labeled with the group, plus a lazy entries collector that reads Len()
// at scrape time rather than tracking a count in-process.
func New(name string, cfg ProviderConfig) (Cache, error) {
	registryMu.RLock()
	p, ok := registry[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("cache: unknown provider %q (registered: %v)", name, RegisteredProviders())
	}

	if cfg.Group == "" {
		return p(cfg)
	}

	group := cfg.Group
	// Count evictions here so backends stay metrics-free.
	original := cfg.OnEvict
	cfg.OnEvict = func(key string, value []byte) {
		EvictionsTotal.WithLabelValues(group).Inc()
		if original != nil {
			original(key, value)
		}
	}

	inner, err := p(cfg)
	if err != nil {
		return nil, err
	}
	return newInstrumentedCache(inner, group), nil
}

// RegisteredProviders lists the registered backend names, sorted.
func RegisteredProviders() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
