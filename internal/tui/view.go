package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) View() string {
	w, h := m.width, m.height
	if w <= 0 || h <= 0 {
		return ""
	}

	header := m.renderHeader(w)
	footer := m.renderFooter(w)
	var searchLine string
	if m.searchFocused || m.b.Filter() != "" {
		searchLine = renderInputLine(w, m.search.View())
	}

	bodyH := h - lipgloss.Height(header) - lipgloss.Height(footer)
	if searchLine != "" {
		bodyH--
	}
	bodyH = max(bodyH, 1)

	var body string
	switch m.modal {
	case modalNewIdea, modalEditIdea:
		body = lipgloss.Place(w, bodyH, lipgloss.Center, lipgloss.Center, m.ideaForm.view(w))
	case modalAddComment:
		body = lipgloss.Place(w, bodyH, lipgloss.Center, lipgloss.Center, m.commentForm.view(w))
	case modalConfirmDelete:
		box := renderConfirmModal(w, "Delete idea",
			fmt.Sprintf("Delete %q and all its comments?", m.deleteTitle),
			"Delete", "Cancel", m.confirmFocus)
		body = lipgloss.Place(w, bodyH, lipgloss.Center, lipgloss.Center, box)
	}
	if m.modal != modalNone {
		body = normalizePane(body, w, bodyH)
	} else {
		leftW, rightW := splitWidths(w)
		body = joinPanes(
			renderList(m.b, m.q, leftW, bodyH),
			renderDetail(m.b, m.q, rightW, bodyH),
			leftW, rightW, bodyH,
		)
	}

	parts := []string{header, body}
	if searchLine != "" {
		parts = append(parts, searchLine)
	}
	parts = append(parts, footer)
	return strings.Join(parts, "\n")
}

func (m appModel) renderHeader(w int) string {
	left := stylePaneTitle(true).Render("ideabox")
	counts := fmt.Sprintf("%d ideas", m.b.Len())
	if n := m.b.Pending(); n > 0 {
		counts += fmt.Sprintf("  %s %d pending", glyphPending(), n)
	}
	if n := m.q.FailedCount(); n > 0 {
		counts += "  " + styleFailed().Render(fmt.Sprintf("%s %d failed", glyphFailed(), n))
	}
	if m.inFlight > 0 {
		counts = m.spinner.View() + " " + counts
	}
	right := styleMuted().Render(counts)
	gap := max(w-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return fitLine(left+strings.Repeat(" ", gap)+right, w)
}

func (m appModel) renderFooter(w int) string {
	if m.status != "" {
		st := styleMuted()
		if m.statusIsError {
			st = styleFailed()
		}
		return fitLine(st.Render(m.status), w)
	}
	h := m.help
	h.Width = w
	return h.View(m.keys)
}
