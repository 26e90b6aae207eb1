// Package feed renders the timeline and maps keys onto session requests.
package feed

import (
	"image"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/CrestNiraj12/mastoview/domain"
	"github.com/CrestNiraj12/mastoview/poll"
	"github.com/CrestNiraj12/mastoview/tui/common"
)

const (
	tickInterval   = 250 * time.Millisecond
	thumbCacheSize = 512
	maxTextLines   = 8
)

// Session is the part of session.Session the feed drives.
type Session interface {
	Start(now time.Time)
	Tick(now time.Time) bool
	Posts() []domain.Post
	RequestNewer(now time.Time) bool
	RequestOlder(now time.Time) bool
	Reload(now time.Time) bool
	Status() poll.Status
	Avatar(p domain.Post) (image.Image, bool)
	Preview(a domain.Attachment) (image.Image, bool)
	PendingImages() int
}

// --- Messages ---

// TickMsg drives Session.Tick.
type TickMsg time.Time

// MediaToggledMsg is emitted when the user shows or hides image previews so
// the root can persist the preference.
type MediaToggledMsg struct {
	Show bool
}

// --- Model ---

// Model holds the state for the feed view.
type Model struct {
	session    Session
	instance   string
	posts      []domain.Post
	cursor     int
	startIndex int
	width      int
	height     int
	showMedia  bool
	keys       common.KeyMap
	spinner    spinner.Model
	help       help.Model
	thumbs     *lru.Cache[string, string] // url|WxH -> rendered ANSI block
	now        func() time.Time
	rendered   string
}

// New creates a feed model over s. instance is shown in the header.
func New(s Session, instance string, showMedia bool) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = common.SpinnerStyle

	thumbs, _ := lru.New[string, string](thumbCacheSize)

	return Model{
		session:   s,
		instance:  instance,
		showMedia: showMedia,
		keys:      common.DefaultKeyMap(),
		spinner:   sp,
		help:      help.New(),
		thumbs:    thumbs,
		now:       time.Now,
		width:     80,
		height:    24,
	}
}

// Init issues the first fetch and starts the tick loop.
func (m Model) Init() tea.Cmd {
	m.session.Start(m.now())
	return tea.Batch(tick(), m.spinner.Tick)
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// ShowMedia reports whether image previews are visible.
func (m Model) ShowMedia() bool {
	return m.showMedia
}

func (m Model) selected() (domain.Post, bool) {
	if m.cursor < 0 || m.cursor >= len(m.posts) {
		return domain.Post{}, false
	}
	return m.posts[m.cursor], true
}
