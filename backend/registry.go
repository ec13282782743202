package backend

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Options carries the connectivity parameters a store constructor may need.
// Each store reads only the fields it understands.
type Options struct {
	URL     string        // REST endpoint base URL
	Key     string        // REST access key
	Table   string        // REST table name
	Timeout time.Duration // per-request timeout for network stores
	Path    string        // sqlite database file
	DSN     string        // mysql data source name
	Seed    bool          // seed the memory store with sample tasks
}

// Constructor creates a Store from options
type Constructor func(opts Options) (Store, error)

// Global registry of store constructors
var (
	registryMu   sync.RWMutex
	constructors = make(map[string]Constructor)
)

// Register registers a store constructor under name.
// Stores call this in their init() function.
func Register(name string, constructor Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	constructors[name] = constructor
}

// Registered returns the names of all registered stores, sorted
func Registered() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open constructs the store registered under name
func Open(name string, opts Options) (Store, error) {
	registryMu.RLock()
	constructor, ok := constructors[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown backend: %q", name)
	}
	return constructor(opts)
}
