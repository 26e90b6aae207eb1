package feed

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages for the feed view. The frame is rebuilt only when
// input arrived or the session reported a change.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	dirty := false

	switch msg := msg.(type) {
	case TickMsg:
		if m.session.Tick(time.Time(msg)) {
			m.syncPosts()
			dirty = true
		}
		cmd = tick()

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		dirty = m.session.Status().Fetching

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		dirty = true

	case tea.KeyMsg:
		cmd = m.handleKey(msg)
		dirty = true
	}

	if dirty || m.rendered == "" {
		m.rendered = m.render()
	}
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	now := m.now()
	switch {
	case key.Matches(msg, m.keys.Refresh):
		m.session.RequestNewer(now)

	case key.Matches(msg, m.keys.Reload):
		if m.session.Reload(now) {
			m.cursor = 0
			m.startIndex = 0
		}

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.posts)-1 {
			m.cursor++
		}
		m.requestOlderAtBottom(now)

	case key.Matches(msg, m.keys.Top):
		m.cursor = 0

	case key.Matches(msg, m.keys.Bottom):
		if len(m.posts) > 0 {
			m.cursor = len(m.posts) - 1
		}
		m.requestOlderAtBottom(now)

	case key.Matches(msg, m.keys.Open):
		if p, ok := m.selected(); ok {
			return openURL(p.URL)
		}

	case key.Matches(msg, m.keys.ToggleMedia):
		m.showMedia = !m.showMedia
		show := m.showMedia
		return func() tea.Msg { return MediaToggledMsg{Show: show} }
	}
	return nil
}

// requestOlderAtBottom is the scroll-to-bottom signal: sitting on the last
// row asks for the page below it. The session drops it during cooldown.
func (m *Model) requestOlderAtBottom(now time.Time) {
	if len(m.posts) > 0 && m.cursor == len(m.posts)-1 {
		m.session.RequestOlder(now)
	}
}

// syncPosts takes a fresh snapshot and keeps the cursor on the same post
// when newer posts were prepended.
func (m *Model) syncPosts() {
	var selectedID int64
	if p, ok := m.selected(); ok {
		selectedID = p.ID
	}
	m.posts = m.session.Posts()

	m.cursor = 0
	for i, p := range m.posts {
		if p.ID == selectedID {
			m.cursor = i
			break
		}
	}
	if m.startIndex > m.cursor {
		m.startIndex = m.cursor
	}
}
