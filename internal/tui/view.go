package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a *App) View() string {
	if a.view == ViewReader {
		return a.readerView()
	}
	return a.listView()
}

func (a *App) listView() string {
	var b strings.Builder

	b.WriteString(a.styles.title.Render(AppName+" › ") + a.styles.itemMeta.Render("the day's top developer news"))
	b.WriteString("\n")
	b.WriteString(a.statusLine())
	b.WriteString("\n\n")

	if a.snapshot == nil {
		b.WriteString(a.emptyBody())
	} else {
		b.WriteString(a.postList())
	}

	b.WriteString("\n")
	b.WriteString(a.styles.helpLine.Render(a.help.View(a.keys)))
	return b.String()
}

// statusLine always reflects the machine's state so the screen is never
// ambiguous about what it is showing.
func (a *App) statusLine() string {
	switch a.status {
	case StatusLoading:
		if a.snapshot == nil {
			return a.styles.statusLine.Render(a.spinner.View() + " Fetching today's top posts…")
		}
		return a.styles.statusLine.Render(a.spinner.View() + " Refreshing… showing previous results")
	case StatusError:
		return a.styles.errorText.Render("✗ "+a.errText) +
			a.styles.statusLine.Render("  press r to retry")
	default:
		if a.snapshot == nil {
			return ""
		}
		return a.styles.statusLine.Render(fmt.Sprintf(
			"%d posts · fetched %s",
			len(a.snapshot.Posts),
			a.snapshot.FetchedAt.Local().Format("15:04"),
		))
	}
}

func (a *App) emptyBody() string {
	height := a.height - 6
	if height < 1 {
		height = 1
	}
	msg := "No posts yet."
	if a.status == StatusLoading {
		msg = "Hold tight…"
	}
	return lipgloss.NewStyle().
		Width(a.width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(a.styles.itemMeta.Render(msg))
}

func (a *App) postList() string {
	var b strings.Builder

	visible := a.height - 6
	if visible < 1 {
		visible = len(a.snapshot.Posts)
	}
	start := 0
	if a.selected >= visible {
		start = a.selected - visible + 1
	}

	for i := start; i < len(a.snapshot.Posts) && i < start+visible; i++ {
		post := a.snapshot.Posts[i]

		marker := "  "
		titleStyle := a.styles.item
		if i == a.selected {
			marker = "› "
			titleStyle = a.styles.selectedItem
		}

		line := fmt.Sprintf("%s%s %s",
			marker,
			a.styles.itemMeta.Render(fmt.Sprintf("%4d▲", post.Upvotes)),
			titleStyle.Render(truncate(post.Title, a.width-20)),
		)
		b.WriteString(line)
		b.WriteString(a.styles.itemMeta.Render("  by " + post.Author))
		b.WriteString("\n")
	}

	return b.String()
}

func (a *App) readerView() string {
	var b strings.Builder

	title := "article"
	if a.readerPost != nil {
		title = a.readerPost.Title
	}
	b.WriteString(a.styles.title.Render(AppName+" › ") + a.styles.item.Render(truncate(title, a.width-10)))
	b.WriteString("\n\n")

	if a.loadingReader {
		height := a.height - 4
		if height < 1 {
			height = 1
		}
		b.WriteString(lipgloss.NewStyle().
			Width(a.width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(a.styles.statusLine.Render(a.spinner.View() + " Loading article…")))
	} else {
		b.WriteString(a.viewport.View())
	}

	b.WriteString("\n")
	b.WriteString(a.styles.helpLine.Render("↑/↓ scroll · o open in browser · esc back · q quit"))
	return b.String()
}

// truncate shortens s to at most max characters, appending an ellipsis when
// it cuts. Operates on runes so accented and emoji titles stay valid UTF-8.
func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
