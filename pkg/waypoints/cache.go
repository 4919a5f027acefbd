package waypoints

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

var ErrInvalidSource = errors.New("invalid waypoint source")

// Fetcher loads the waypoints named by source.
type Fetcher func(source string) (*Index, error)

// TTL cache based on "9.7 Example: Concurrent Non-Blocking Cache" from
// "The Go Programming Language", Alan A. A. Donovan and Brian W. Kernighan

type result struct {
	value *Index
	err   error
}

type cacheEntry struct {
	res     result
	expires time.Time
	ready   chan struct{} // closed when res is ready
}

type Cache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	ttl     time.Duration
	fetch   Fetcher
	sources map[string]string
	logger  *slog.Logger
}

type CacheOption func(*Cache)

func WithTTL(d time.Duration) CacheOption {
	return func(c *Cache) {
		c.ttl = d
	}
}

func WithFetcher(f Fetcher) CacheOption {
	return func(c *Cache) {
		c.fetch = f
	}
}

func WithCacheLogger(l *slog.Logger) CacheOption {
	return func(c *Cache) {
		c.logger = l
	}
}

// NewCache returns a cache of waypoint indexes keyed by source, where a
// source is a file name or an http(s) URL of a GPX document.
// WithSources restricts the cache to the named sources, mapping each name
// to the file or URL it is loaded from. Any other name is rejected with
// ErrInvalidSource.
func WithSources(sources map[string]string) CacheOption {
	return func(c *Cache) {
		c.sources = sources
	}
}

func NewCache(opt ...CacheOption) *Cache {
	c := &Cache{
		entries: make(map[string]*cacheEntry),
		ttl:     4 * time.Hour,
		logger:  slog.Default(),
	}
	for _, f := range opt {
		f(c)
	}
	if c.fetch == nil {
		c.fetch = c.fetchSource
	}
	return c
}

// Get returns the index for source, fetching it if it is not cached or has
// expired. Concurrent callers for the same source share one fetch.
func (c *Cache) Get(source string) (*Index, error) {
	if c.sources != nil {
		loc, ok := c.sources[source]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidSource, source)
		}
		source = loc
	}
	c.mu.Lock()
	e := c.entries[source]
	if e == nil || e.expires.Before(time.Now()) {
		e = &cacheEntry{ready: make(chan struct{}), expires: time.Now().Add(c.ttl)}
		c.entries[source] = e
		c.mu.Unlock()
		e.res.value, e.res.err = c.fetch(source)
		close(e.ready)
	} else {
		c.mu.Unlock()
		<-e.ready
	}
	return e.res.value, e.res.err
}

func (c *Cache) fetchSource(source string) (*Index, error) {
	var (
		r   io.ReadCloser
		err error
	)
	switch {
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		r, err = fetchURL(source)
	case strings.HasPrefix(source, "file://"):
		r, err = os.Open(strings.TrimPrefix(source, "file://"))
	case strings.Contains(source, "://"):
		return nil, fmt.Errorf("%w: %s", ErrInvalidSource, source)
	default:
		r, err = os.Open(source)
	}
	if err != nil {
		return nil, err
	}
	defer r.Close()
	wpts, err := Load(r)
	if err != nil {
		return nil, fmt.Errorf("error loading waypoints from %s: %w", source, err)
	}
	c.logger.Info("Loaded waypoints", "source", source, "count", len(wpts))
	return NewIndex(wpts), nil
}

func fetchURL(u string) (io.ReadCloser, error) {
	res, err := http.Get(u)
	if err != nil {
		return nil, fmt.Errorf("error getting %s: %v", u, err)
	}
	if res.StatusCode != http.StatusOK {
		res.Body.Close()
		return nil, fmt.Errorf("unexpected status fetching %s: %s", u, res.Status)
	}
	return res.Body, nil
}
