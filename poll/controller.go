// Package poll decides when to fetch timeline pages and merges the results
// into a timeline.Store.
package poll

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/CrestNiraj12/mastoview/app"
	"github.com/CrestNiraj12/mastoview/domain"
	"github.com/CrestNiraj12/mastoview/metrics"
	"github.com/CrestNiraj12/mastoview/timeline"
)

const (
	DefaultCooldown        = 10 * time.Second
	DefaultRefreshInterval = 10 * time.Minute
	DefaultLimit           = 20
)

// Reasons a refresh request was dropped.
const (
	dropFetching = "fetching"
	dropCooldown = "cooldown"
	dropEnd      = "end_reached"
)

// Config tunes scheduling. Zero values fall back to the defaults above.
type Config struct {
	Cooldown        time.Duration // Minimum spacing between accepted requests
	RefreshInterval time.Duration // Auto refresh period, measured from the last completion
	Limit           int           // Page size sent to the server
}

func (c Config) withDefaults() Config {
	if c.Cooldown <= 0 {
		c.Cooldown = DefaultCooldown
	}
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = DefaultRefreshInterval
	}
	if c.Limit <= 0 {
		c.Limit = DefaultLimit
	}
	return c
}

// Status is a read-only view of the controller for display.
type Status struct {
	Fetching      bool
	Direction     domain.Direction
	RequestID     string
	LastErr       error
	LastCompleted time.Time
	EndReached    bool
}

type reply struct {
	data []byte
	err  error
}

type request struct {
	id     string
	dir    domain.Direction
	reset  bool
	query  app.PageQuery
	issued time.Time
	done   chan reply
}

// Controller gates timeline requests: at most one is outstanding, accepted
// requests are spaced by the cooldown, and extra requests are dropped
// rather than queued. All methods are non-blocking.
type Controller struct {
	mu            sync.Mutex
	svc           app.TimelineService
	store         *timeline.Store
	cfg           Config
	limiter       *rate.Limiter
	inflight      *request
	anchor        time.Time // Auto refresh counts from here
	lastCompleted time.Time
	lastErr       error
	endReached    bool
	ctx           context.Context
	cancel        context.CancelFunc
	logger        *log.Logger
	metrics       *metrics.Metrics
}

// Option configures a Controller.
type Option func(*Controller)

func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// NewController wires a controller that fetches through svc into store.
func NewController(svc app.TimelineService, store *timeline.Store, cfg Config, opts ...Option) *Controller {
	cfg = cfg.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		svc:     svc,
		store:   store,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(cfg.Cooldown), 1),
		ctx:     ctx,
		cancel:  cancel,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start issues the first newer-direction request and starts the auto
// refresh clock.
func (c *Controller) Start(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.anchor = now
	return c.issue(now, domain.Newer, false)
}

// RequestRefresh asks for the page on the given side of the timeline. It
// returns false when the request is dropped: another request is still
// outstanding, the cooldown has not elapsed, or older pages are exhausted.
func (c *Controller) RequestRefresh(now time.Time, dir domain.Direction) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.issue(now, dir, false)
}

// RequestReload fetches the newest page and replaces the whole timeline
// with it once it arrives. It goes through the same gate as RequestRefresh.
func (c *Controller) RequestReload(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.issue(now, domain.Newer, true)
}

func (c *Controller) issue(now time.Time, dir domain.Direction, reset bool) bool {
	if c.inflight != nil {
		c.metrics.RefreshDropped(dropFetching)
		return false
	}
	if dir == domain.Older && c.endReached && !reset {
		c.metrics.RefreshDropped(dropEnd)
		return false
	}
	if !c.limiter.AllowN(now, 1) {
		c.metrics.RefreshDropped(dropCooldown)
		return false
	}

	q := app.PageQuery{Limit: c.cfg.Limit}
	if !reset {
		switch dir {
		case domain.Newer:
			if id, ok := c.store.CursorForNewer(); ok {
				q.SinceID = id
			}
		case domain.Older:
			if id, ok := c.store.CursorForOlder(); ok {
				q.MaxID = id
			}
		}
	}

	req := &request{
		id:     ulid.Make().String(),
		dir:    dir,
		reset:  reset,
		query:  q,
		issued: now,
		done:   make(chan reply, 1),
	}
	c.inflight = req

	svc, ctx := c.svc, c.ctx
	go func() {
		data, err := svc.FetchPublicTimeline(ctx, q)
		req.done <- reply{data: data, err: err}
	}()

	c.logger.Debug("timeline request issued", "req", req.id, "dir", dir, "since_id", q.SinceID, "max_id", q.MaxID, "reload", reset)
	return true
}

// Advance completes the outstanding request if its reply has arrived and
// fires the periodic refresh when it is due. It reports whether a request
// completed during this call.
func (c *Controller) Advance(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	completed := false
	if req := c.inflight; req != nil {
		select {
		case rep := <-req.done:
			c.inflight = nil
			c.complete(now, req, rep)
			completed = true
		default:
		}
	}

	if c.inflight == nil && !c.anchor.IsZero() && now.Sub(c.anchor) >= c.cfg.RefreshInterval {
		if c.issue(now, domain.Newer, false) {
			c.logger.Debug("auto refresh")
		}
	}
	return completed
}

func (c *Controller) complete(now time.Time, req *request, rep reply) {
	c.anchor = now
	c.lastCompleted = now
	logger := c.logger.With("req", req.id, "dir", req.dir, "took", now.Sub(req.issued))

	if rep.err != nil {
		if errors.Is(rep.err, context.Canceled) {
			return
		}
		c.lastErr = fmt.Errorf("fetching %s posts: %w", req.dir, rep.err)
		logger.Warn("timeline request failed", "err", rep.err)
		c.metrics.RequestCompleted(req.dir.String(), "transport_error")
		return
	}

	page, err := DecodePage(rep.data)
	if err != nil {
		c.lastErr = err
		logger.Error("discarding timeline page", "err", err)
		c.metrics.RequestCompleted(req.dir.String(), "malformed")
		return
	}
	c.lastErr = nil

	dropped := 0
	switch {
	case req.reset || !c.store.Initialized():
		c.store.Initialize(page)
		c.endReached = false
	case req.dir == domain.Older:
		dropped = c.store.MergeOlder(page)
		if len(page)-dropped == 0 {
			c.endReached = true
		}
	default:
		dropped = c.store.MergeNewer(page)
		if len(page) >= req.query.Limit {
			logger.Info("full newer page, posts between pages may be missing", "count", len(page))
		}
	}
	if dropped > 0 {
		logger.Warn("dropped overlapping posts", "count", dropped)
	}

	logger.Debug("timeline merged", "count", len(page)-dropped, "total", c.store.Len())
	c.metrics.RequestCompleted(req.dir.String(), "ok")
	c.metrics.TimelinePosts(c.store.Len())
}

// Status returns a snapshot for display.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := Status{
		LastErr:       c.lastErr,
		LastCompleted: c.lastCompleted,
		EndReached:    c.endReached,
	}
	if c.inflight != nil {
		st.Fetching = true
		st.Direction = c.inflight.dir
		st.RequestID = c.inflight.id
	}
	return st
}

// Fetching reports whether a request is outstanding.
func (c *Controller) Fetching() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight != nil
}

// Close abandons the outstanding request, if any.
func (c *Controller) Close() {
	c.cancel()
}
