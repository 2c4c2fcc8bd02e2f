package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/devtop/internal/feedclient"
	"github.com/pders01/devtop/internal/rank"
)

type snapshotLoadedMsg struct {
	snapshot *rank.Snapshot
}

type snapshotErrorMsg struct {
	err error
}

type postLoadedMsg struct {
	detail *rank.PostDetail
}

type postErrorMsg struct {
	err error
}

// fetchTimeout caps any single request issued from the UI so the event loop
// never appears frozen.
const fetchTimeout = 10 * time.Second

func (a *App) fetchPosts() tea.Cmd {
	feed := a.feed
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		snap, err := feed.FetchPosts(ctx)
		if err != nil {
			return snapshotErrorMsg{err: friendlyError(err)}
		}
		return snapshotLoadedMsg{snapshot: snap}
	}
}

func (a *App) fetchPost(id int64) tea.Cmd {
	feed := a.feed
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		detail, err := feed.FetchPost(ctx, id)
		if err != nil {
			return postErrorMsg{err: friendlyError(err)}
		}
		return postLoadedMsg{detail: detail}
	}
}

func (a *App) openBrowser(url string) tea.Cmd {
	op := a.opener
	return func() tea.Msg {
		_ = op.Open(url)
		return nil
	}
}

// friendlyError turns client errors into short messages fit for the status
// line.
func friendlyError(err error) error {
	var ce *feedclient.ClientError
	if !errors.As(err, &ce) {
		return err
	}
	switch ce.Kind {
	case feedclient.KindNotReady:
		return errors.New("server is still warming up, try again shortly")
	case feedclient.KindTimeout:
		return errors.New("server timed out")
	case feedclient.KindUnreachable:
		return errors.New("server unreachable")
	default:
		return err
	}
}
