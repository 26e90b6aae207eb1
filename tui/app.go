package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/CrestNiraj12/mastoview/infra/config"
	"github.com/CrestNiraj12/mastoview/tui/common"
	"github.com/CrestNiraj12/mastoview/tui/feed"
)

// Deps holds all dependencies the TUI needs. Plain struct, not a DI container.
type Deps struct {
	Session   feed.Session
	Instance  string // Shown in the header
	StatePath string // UI preferences file; empty disables persistence
	ShowMedia bool
	Logger    *log.Logger
}

// App is the root Bubble Tea model.
type App struct {
	deps Deps
	feed feed.Model
	keys common.KeyMap
}

// NewApp creates the root model with all dependencies wired.
func NewApp(deps Deps) App {
	return App{
		deps: deps,
		feed: feed.New(deps.Session, deps.Instance, deps.ShowMedia),
		keys: common.DefaultKeyMap(),
	}
}

// Init delegates to the feed.
func (a App) Init() tea.Cmd {
	return a.feed.Init()
}

// Update handles global keys and routes everything else to the feed.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, a.keys.Quit) {
			return a, tea.Quit
		}

	case feed.MediaToggledMsg:
		return a, a.saveState(config.UIState{HideMedia: !msg.Show})
	}

	var cmd tea.Cmd
	a.feed, cmd = a.feed.Update(msg)
	return a, cmd
}

// View renders the feed.
func (a App) View() string {
	return a.feed.View()
}

func (a App) saveState(st config.UIState) tea.Cmd {
	path, logger := a.deps.StatePath, a.deps.Logger
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		if err := config.SaveUIState(path, st); err != nil && logger != nil {
			logger.Warn("saving ui state", "err", err)
		}
		return nil
	}
}
