package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// normalizePane forces s to exactly width columns (ANSI-aware) and height
// lines, so JoinHorizontal lines panes up.
func normalizePane(s string, width, height int) string {
	width = max(width, 0)
	height = max(height, 0)

	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}
	for i, ln := range lines {
		lines[i] = fitLine(ln, width)
	}
	return strings.Join(lines, "\n")
}

// fitLine truncates with an ellipsis or pads with spaces to width columns.
func fitLine(ln string, width int) string {
	// Bound the work on pathological lines before measuring.
	if width > 0 && len(ln) > 8192 {
		ln = xansi.Cut(ln, 0, width+1)
	}
	w := xansi.StringWidth(ln)
	switch {
	case w == width:
		return ln
	case w < width:
		return ln + strings.Repeat(" ", width-w)
	case width <= 0:
		return ""
	case width == 1:
		return xansi.Cut(ln, 0, 1)
	default:
		return xansi.Truncate(ln, width, "…")
	}
}

// splitWidths divides total columns between the list and the detail pane,
// leaving one column for the separator.
func splitWidths(total int) (left, right int) {
	if total < 3 {
		return max(total, 0), 0
	}
	left = total * 2 / 5
	if left < 20 {
		left = min(20, total-1)
	}
	right = total - left - 1
	return left, max(right, 0)
}

func joinPanes(left, right string, leftW, rightW, height int) string {
	if rightW <= 0 {
		return normalizePane(left, leftW, height)
	}
	sep := strings.TrimRight(strings.Repeat(styleMuted().Render("│")+"\n", height), "\n")
	return lipgloss.JoinHorizontal(lipgloss.Top,
		normalizePane(left, leftW, height),
		sep,
		normalizePane(right, rightW, height),
	)
}
