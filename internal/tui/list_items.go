package tui

import (
	"fmt"
	"strings"

	"ideabox/internal/board"

	"github.com/charmbracelet/lipgloss"
)

// entryMarker is the state glyph for an idea: failed beats pending beats
// solved.
func entryMarker(e board.IdeaEntry, q *board.Queue) string {
	if id, ok := e.Idea.Action(); ok {
		if _, failed := q.Failed(id); failed {
			return styleFailed().Render(glyphFailed())
		}
		return stylePending().Render(glyphPending())
	}
	if e.Idea.Value().Solved {
		return styleSolved().Render(glyphSolved())
	}
	return styleMuted().Render(glyphOpen())
}

func renderListRow(e board.IdeaEntry, q *board.Queue, selected bool, width int) string {
	idea := e.Idea.Value()
	cursor := " "
	if selected {
		cursor = glyphCursor()
	}
	title := idea.Title
	if strings.TrimSpace(title) == "" {
		title = "(untitled)"
	}
	meta := ""
	if n := len(e.Comments); n > 0 {
		meta = fmt.Sprintf(" (%d)", n)
	}

	row := cursor + " " + entryMarker(e, q) + " " + title + styleMuted().Render(meta)
	row = fitLine(row, width)
	if selected {
		return styleSelected().Render(row)
	}
	if idea.Solved && !e.Idea.IsPending() {
		return styleMuted().Render(row)
	}
	return row
}

// renderList renders the filtered view, scrolled so the cursor stays on
// screen.
func renderList(b *board.Board, q *board.Queue, width, height int) string {
	title := stylePaneTitle(true).Render("Ideas")
	if f := b.Filter(); f != "" {
		title += styleMuted().Render(fmt.Sprintf("  /%s  %d of %d", f, b.VisibleLen(), b.Len()))
	}
	rows := height - 2
	if rows < 1 {
		return title
	}

	vis := b.Visible()
	if len(vis) == 0 {
		empty := "No ideas yet. Press n to add one."
		if b.Filter() != "" {
			empty = "No idea matches the filter."
		}
		return lipgloss.JoinVertical(lipgloss.Left, title, "", styleMuted().Render(empty))
	}

	sel, hasSel := b.Selected()
	start := 0
	if hasSel && sel >= rows {
		start = sel - rows + 1
	}
	end := min(start+rows, len(vis))

	lines := []string{title, ""}
	for i := start; i < end; i++ {
		lines = append(lines, renderListRow(vis[i], q, hasSel && i == sel, width))
	}
	return strings.Join(lines, "\n")
}
