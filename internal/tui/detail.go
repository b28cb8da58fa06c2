package tui

import (
	"fmt"
	"strings"

	"ideabox/internal/board"

	"github.com/charmbracelet/bubbles/viewport"
)

// detailBody renders everything below the title of the selected idea: meta,
// description and comments. The pane scrolls over it.
func detailBody(e board.IdeaEntry, q *board.Queue, width int) string {
	idea := e.Idea.Value()
	var sb strings.Builder

	state := "open"
	if idea.Solved {
		state = "solved"
	}
	meta := fmt.Sprintf("%s %s %s by %s", idea.Kind.Label(), glyphBullet(), state, idea.Author)
	if !idea.CreatedAt.IsZero() {
		meta += " " + glyphBullet() + " " + idea.CreatedAt.Local().Format("2006-01-02 15:04")
	}
	sb.WriteString(styleMuted().Render(meta))
	sb.WriteString("\n")

	if id, ok := e.Idea.Action(); ok {
		if err, failed := q.Failed(id); failed {
			sb.WriteString(styleFailed().Render(glyphFailed() + " not saved: " + err.Error()))
		} else {
			sb.WriteString(stylePending().Render(glyphPending() + " saving"))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	if desc := renderMarkdown(idea.Description, width); desc != "" {
		sb.WriteString(strings.TrimRight(desc, "\n"))
	} else {
		sb.WriteString(styleMuted().Render("No description."))
	}
	sb.WriteString("\n\n")

	sb.WriteString(stylePaneTitle(false).Render(fmt.Sprintf("Comments (%d)", len(e.Comments))))
	sb.WriteString("\n")
	sb.WriteString(styleMuted().Render(strings.Repeat(glyphHRule(), max(width, 1))))
	sb.WriteString("\n")
	if len(e.Comments) == 0 {
		sb.WriteString(styleMuted().Render("No comments."))
		sb.WriteString("\n")
	}
	for _, ce := range e.Comments {
		c := ce.Value()
		head := c.Author
		if !c.CreatedAt.IsZero() {
			head += " " + glyphBullet() + " " + c.CreatedAt.Local().Format("2006-01-02 15:04")
		}
		if id, ok := ce.Action(); ok {
			if _, failed := q.Failed(id); failed {
				head += " " + styleFailed().Render(glyphFailed()+" not saved")
			} else {
				head += " " + stylePending().Render(glyphPending())
			}
		}
		sb.WriteString(styleMuted().Render(head))
		sb.WriteString("\n")
		body := renderMarkdownCompact(c.Content, width)
		if body == "" {
			body = c.Content
		}
		sb.WriteString(strings.TrimRight(body, "\n"))
		sb.WriteString("\n\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderDetail(b *board.Board, q *board.Queue, width, height int) string {
	e, ok := b.Current()
	if !ok {
		return styleMuted().Render("Select an idea to see it here.")
	}
	title := stylePaneTitle(false).Render(e.Idea.Value().Title)
	if height <= 2 {
		return title
	}

	vp := viewport.New(width, height-2)
	vp.SetContent(detailBody(e, q, width))
	// Scroll is stored unbounded; the viewport clamps it to the content.
	vp.SetYOffset(e.Scroll)
	return title + "\n\n" + vp.View()
}
