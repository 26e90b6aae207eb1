package resource

import (
	"context"
	"image"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/semaphore"

	"github.com/CrestNiraj12/mastoview/app"
	"github.com/CrestNiraj12/mastoview/metrics"
)

const defaultMaxConcurrent = 4

// Cache maps normalized URLs to exactly one Resource each. It is owned by a
// session, not shared process-wide. Entries live until Close.
type Cache struct {
	mu       sync.Mutex
	name     string
	baseHost string
	fetcher  app.ImageFetcher
	entries  map[string]*Resource
	sem      *semaphore.Weighted
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *log.Logger
	metrics  *metrics.Metrics
}

// Option configures a Cache.
type Option func(*Cache)

// WithName labels the cache in logs and metrics (e.g. "avatars").
func WithName(name string) Option {
	return func(c *Cache) { c.name = name }
}

// WithBaseHost sets the scheme+host prefixed to host-relative URLs,
// e.g. "https://mastodon.example".
func WithBaseHost(base string) Option {
	return func(c *Cache) { c.baseHost = strings.TrimRight(base, "/") }
}

// WithMaxConcurrent bounds simultaneous downloads. n <= 0 means unbounded.
func WithMaxConcurrent(n int) Option {
	return func(c *Cache) {
		if n <= 0 {
			c.sem = nil
			return
		}
		c.sem = semaphore.NewWeighted(int64(n))
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cache) { c.metrics = m }
}

// NewCache creates an empty cache that downloads through f.
func NewCache(f app.ImageFetcher, opts ...Option) *Cache {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Cache{
		name:    "images",
		fetcher: f,
		entries: make(map[string]*Resource),
		sem:     semaphore.NewWeighted(defaultMaxConcurrent),
		ctx:     ctx,
		cancel:  cancel,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithPrefix(c.name)
	return c
}

// Normalize makes a host-relative URL absolute against base. URLs that
// already carry a scheme are returned unchanged; protocol-relative ones
// ("//cdn/x.png") get https.
func Normalize(base, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if u, err := url.Parse(raw); err == nil && u.IsAbs() {
		return raw
	}
	if strings.HasPrefix(raw, "//") {
		return "https:" + raw
	}
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	return base + raw
}

// Get returns the decoded image for url once its fetch has completed. The
// first call for a URL starts the fetch and reports not ready; later calls
// never start a second fetch. A ready result may carry a nil image when the
// download failed or was not an image. An empty URL is ready with no image.
func (c *Cache) Get(url string) (image.Image, bool) {
	key := Normalize(c.baseHost, url)
	if key == "" {
		return nil, true
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if r, ok := c.entries[key]; ok {
		if r.State() == Ready {
			return r.Image(), true
		}
		return nil, false
	}

	c.entries[key] = Start(c.ctx, key, c.fetcher, c.sem)
	c.logger.Debug("fetch started", "url", key)
	c.metrics.CacheEntries(c.name, len(c.entries))
	return nil, false
}

// Advance polls every tracked resource once and reports whether any of them
// completed during this call.
func (c *Cache) Advance() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	changed := false
	for key, r := range c.entries {
		if !r.Poll() {
			continue
		}
		changed = true
		switch {
		case r.Err() != nil:
			c.logger.Warn("fetch completed without image", "url", key, "err", r.Err())
			c.metrics.ResourceFetched(c.name, metrics.OutcomeFailed)
		case r.Image() == nil:
			c.metrics.ResourceFetched(c.name, metrics.OutcomeNoImage)
		default:
			c.logger.Debug("fetch completed", "url", key)
			c.metrics.ResourceFetched(c.name, metrics.OutcomeImage)
		}
	}
	return changed
}

// Len returns the number of tracked URLs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Pending returns how many tracked URLs have not completed yet.
func (c *Cache) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, r := range c.entries {
		if r.State() == Pending {
			n++
		}
	}
	return n
}

// Lookup returns the resource tracked for url without starting a fetch.
func (c *Cache) Lookup(url string) (*Resource, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.entries[Normalize(c.baseHost, url)]
	return r, ok
}

// Close cancels every in-flight fetch. Resources already tracked keep
// answering Get; nothing new is downloaded successfully afterwards.
func (c *Cache) Close() {
	c.cancel()
}
