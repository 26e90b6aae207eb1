// Package session ties a timeline, its poller and the two image caches to
// one tick driven by the host.
package session

import (
	"image"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/CrestNiraj12/mastoview/app"
	"github.com/CrestNiraj12/mastoview/domain"
	"github.com/CrestNiraj12/mastoview/metrics"
	"github.com/CrestNiraj12/mastoview/poll"
	"github.com/CrestNiraj12/mastoview/resource"
	"github.com/CrestNiraj12/mastoview/timeline"
)

// DefaultRepaintInterval keeps relative timestamps fresh when nothing else
// changes.
const DefaultRepaintInterval = time.Minute

// Config holds session tuning.
type Config struct {
	Poll            poll.Config
	RepaintInterval time.Duration
	BaseHost        string // Prefix for host-relative image URLs
	MaxImageFetches int    // Per cache
}

// Deps holds external collaborators. Plain struct, not a DI container.
type Deps struct {
	Timeline app.TimelineService
	Images   app.ImageFetcher
	Logger   *log.Logger
	Metrics  *metrics.Metrics
}

// Session owns everything one timeline view needs.
type Session struct {
	store       *timeline.Store
	poller      *poll.Controller
	avatars     *resource.Cache
	media       *resource.Cache
	repaint     time.Duration
	lastRepaint time.Time
}

// New builds a session; nothing is fetched until Start.
func New(deps Deps, cfg Config) *Session {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.RepaintInterval <= 0 {
		cfg.RepaintInterval = DefaultRepaintInterval
	}

	store := timeline.NewStore()
	cacheOpts := func(name string) []resource.Option {
		return []resource.Option{
			resource.WithName(name),
			resource.WithBaseHost(cfg.BaseHost),
			resource.WithMaxConcurrent(cfg.MaxImageFetches),
			resource.WithLogger(logger),
			resource.WithMetrics(deps.Metrics),
		}
	}

	return &Session{
		store: store,
		poller: poll.NewController(deps.Timeline, store, cfg.Poll,
			poll.WithLogger(logger.WithPrefix("poll")),
			poll.WithMetrics(deps.Metrics),
		),
		avatars: resource.NewCache(deps.Images, cacheOpts("avatars")...),
		media:   resource.NewCache(deps.Images, cacheOpts("media")...),
		repaint: cfg.RepaintInterval,
	}
}

// Start issues the first timeline request.
func (s *Session) Start(now time.Time) {
	s.lastRepaint = now
	s.poller.Start(now)
}

// Tick advances the poller and both caches once and reports whether the
// view should redraw: a page was merged, an image arrived, or the repaint
// interval elapsed.
func (s *Session) Tick(now time.Time) bool {
	changed := s.poller.Advance(now)
	if s.avatars.Advance() {
		changed = true
	}
	if s.media.Advance() {
		changed = true
	}
	if now.Sub(s.lastRepaint) >= s.repaint {
		changed = true
	}
	if changed {
		s.lastRepaint = now
	}
	return changed
}

// Posts returns the current timeline, newest first.
func (s *Session) Posts() []domain.Post {
	return s.store.Posts()
}

// RequestNewer asks for posts above the newest one.
func (s *Session) RequestNewer(now time.Time) bool {
	return s.poller.RequestRefresh(now, domain.Newer)
}

// RequestOlder asks for posts below the oldest one; the view calls it when
// the user scrolls to the bottom.
func (s *Session) RequestOlder(now time.Time) bool {
	return s.poller.RequestRefresh(now, domain.Older)
}

// Reload replaces the timeline with the newest page.
func (s *Session) Reload(now time.Time) bool {
	return s.poller.RequestReload(now)
}

func (s *Session) Status() poll.Status {
	return s.poller.Status()
}

// Avatar returns the author's avatar once fetched.
func (s *Session) Avatar(p domain.Post) (image.Image, bool) {
	return s.avatars.Get(p.Author.AvatarURL)
}

// Preview returns the preview image of an image attachment. Other
// attachments are ready with no image.
func (s *Session) Preview(a domain.Attachment) (image.Image, bool) {
	return s.media.Get(a.PreviewImageURL())
}

// PendingImages counts downloads still in flight across both caches.
func (s *Session) PendingImages() int {
	return s.avatars.Pending() + s.media.Pending()
}

// Close abandons in-flight work.
func (s *Session) Close() {
	s.poller.Close()
	s.avatars.Close()
	s.media.Close()
}
