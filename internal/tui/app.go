package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/devtop/internal/config"
	"github.com/pders01/devtop/internal/opener"
	"github.com/pders01/devtop/internal/rank"
)

// FeedService is the slice of feedclient.Client the UI needs. Injected so
// tests can drive the state machine without a server.
type FeedService interface {
	FetchPosts(ctx context.Context) (*rank.Snapshot, error)
	FetchPost(ctx context.Context, id int64) (*rank.PostDetail, error)
}

// Status is the load state of the post list.
type Status int

const (
	StatusLoading Status = iota
	StatusReady
	StatusError
)

// View selects which screen is rendered.
type View int

const (
	ViewList View = iota
	ViewReader
)

// App is the terminal application. All state lives here and is mutated only
// inside Update, in response to key and fetch-completion messages; fetches
// run as tea.Cmds so navigation stays responsive while a request is in
// flight.
type App struct {
	feed   FeedService
	opener *opener.Opener
	keys   KeyMap
	styles Styles

	view   View
	status Status
	// snapshot is the last successfully fetched list. It stays visible
	// through Loading and Error so the screen never goes blank once data
	// has arrived.
	snapshot *rank.Snapshot
	selected int
	errText  string

	spinner  spinner.Model
	viewport viewport.Model
	help     help.Model

	width  int
	height int

	loadingReader bool
	readerPost    *rank.Post

	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
}

func NewApp(feed FeedService, cfg *config.Config) *App {
	styles := NewStyles(cfg.UI.Colors)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.accent)

	return &App{
		feed:     feed,
		opener:   opener.New(cfg.Client.Opener),
		keys:     NewKeyMap(cfg.Keys),
		styles:   styles,
		view:     ViewList,
		status:   StatusLoading,
		spinner:  s,
		viewport: viewport.New(0, 0),
		help:     help.New(),
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.fetchPosts(),
		a.spinner.Tick,
		tea.EnterAltScreen,
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.viewport.Width = msg.Width - 2
		a.viewport.Height = msg.Height - 4
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case snapshotLoadedMsg:
		a.status = StatusReady
		a.errText = ""
		a.snapshot = msg.snapshot
		a.selected = 0
		a.clampSelection()
		return a, nil

	case snapshotErrorMsg:
		// Previous snapshot, if any, stays retrievable for display.
		a.status = StatusError
		a.errText = msg.err.Error()
		return a, nil

	case postLoadedMsg:
		if a.view != ViewReader {
			return a, nil
		}
		a.loadingReader = false
		content, err := a.renderMarkdown(msg.detail)
		if err != nil {
			content = "Could not render article: " + err.Error()
		}
		a.viewport.SetContent(content)
		a.viewport.GotoTop()
		return a, nil

	case postErrorMsg:
		if a.view != ViewReader {
			return a, nil
		}
		a.loadingReader = false
		a.viewport.SetContent(a.styles.errorText.Render("Could not load article: " + msg.err.Error()))
		a.viewport.GotoTop()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	if a.view == ViewReader {
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd
	}
	return a, nil
}

// Snapshot returns the list currently backing the display. Exposed for tests.
func (a *App) Snapshot() *rank.Snapshot { return a.snapshot }

// Selected returns the current selection index. Exposed for tests.
func (a *App) Selected() int { return a.selected }

// Status returns the load status. Exposed for tests.
func (a *App) Status() Status { return a.status }

func (a *App) selectedPost() (rank.Post, bool) {
	if a.snapshot == nil || len(a.snapshot.Posts) == 0 {
		return rank.Post{}, false
	}
	return a.snapshot.Posts[a.selected], true
}

func (a *App) clampSelection() {
	if a.snapshot == nil || len(a.snapshot.Posts) == 0 {
		a.selected = 0
		return
	}
	if a.selected < 0 {
		a.selected = 0
	}
	if max := len(a.snapshot.Posts) - 1; a.selected > max {
		a.selected = max
	}
}

func (a *App) renderMarkdown(detail *rank.PostDetail) (string, error) {
	r, err := a.getRenderer()
	if err != nil {
		return "", err
	}
	doc := "# " + detail.Title + "\n\n*By " + detail.Author + "*\n\n---\n\n" + detail.Content
	return r.Render(doc)
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	wordWrapWidth := (a.width * 9) / 10
	if wordWrapWidth > 120 {
		wordWrapWidth = 120
	}
	if wordWrapWidth < 40 {
		wordWrapWidth = 40
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}

	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
