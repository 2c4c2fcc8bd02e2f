package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/devtop/internal/config"
)

// KeyMap holds the application key bindings, built from config so users can
// remap them.
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	Browser key.Binding
	Refresh key.Binding
	Back    key.Binding
	Quit    key.Binding
}

func NewKeyMap(b config.KeyBindings) KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys(b.Up, "up"),
			key.WithHelp(b.Up+"/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys(b.Down, "down"),
			key.WithHelp(b.Down+"/↓", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys(b.Open),
			key.WithHelp("enter", "read"),
		),
		Browser: key.NewBinding(
			key.WithKeys(b.Browser),
			key.WithHelp(b.Browser, "open in browser"),
		),
		Refresh: key.NewBinding(
			key.WithKeys(b.Refresh),
			key.WithHelp(b.Refresh, "refresh"),
		),
		Back: key.NewBinding(
			key.WithKeys(b.Back),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys(b.Quit, "ctrl+c"),
			key.WithHelp(b.Quit, "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Browser, k.Refresh, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.Browser},
		{k.Refresh, k.Back, k.Quit},
	}
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.Quit) {
		return a, tea.Quit
	}

	if a.view == ViewReader {
		return a.handleReaderKey(msg)
	}
	return a.handleListKey(msg)
}

func (a *App) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Refresh):
		// Stale-while-revalidate: keep the current snapshot on screen
		// while the new fetch is in flight.
		a.status = StatusLoading
		a.errText = ""
		return a, tea.Batch(a.fetchPosts(), a.spinner.Tick)

	case key.Matches(msg, a.keys.Up):
		a.selected--
		a.clampSelection()
		return a, nil

	case key.Matches(msg, a.keys.Down):
		a.selected++
		a.clampSelection()
		return a, nil

	case key.Matches(msg, a.keys.Open):
		post, ok := a.selectedPost()
		if !ok {
			return a, nil
		}
		a.view = ViewReader
		a.loadingReader = true
		a.readerPost = &post
		a.viewport.GotoTop()
		return a, tea.Batch(a.fetchPost(post.ID), a.spinner.Tick)

	case key.Matches(msg, a.keys.Browser):
		post, ok := a.selectedPost()
		if !ok {
			return a, nil
		}
		return a, a.openBrowser(post.URL)
	}
	return a, nil
}

func (a *App) handleReaderKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Back):
		a.view = ViewList
		a.loadingReader = false
		a.readerPost = nil
		return a, nil

	case key.Matches(msg, a.keys.Browser):
		if a.readerPost != nil {
			return a, a.openBrowser(a.readerPost.URL)
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.viewport, cmd = a.viewport.Update(msg)
	return a, cmd
}
