package tui

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"ideabox/internal/board"
	"ideabox/internal/model"
	"ideabox/internal/publish"
)

// clipboardCommands lists the external tools tried in order, per OS.
func clipboardCommands() [][]string {
	switch runtime.GOOS {
	case "darwin":
		return [][]string{{"pbcopy"}}
	case "windows":
		return [][]string{
			{"cmd", "/c", "clip"},
			{"powershell", "-NoProfile", "-Command", "Set-Clipboard"},
		}
	default:
		return [][]string{
			{"wl-copy"},
			{"xclip", "-selection", "clipboard"},
			{"xsel", "--clipboard", "--input"},
		}
	}
}

func copyToClipboard(s string) error {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	var errs []error
	for _, argv := range clipboardCommands() {
		if _, err := exec.LookPath(argv[0]); err != nil {
			continue
		}
		cmd := exec.Command(argv[0], argv[1:]...)
		cmd.Stdin = strings.NewReader(s)
		if err := cmd.Run(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", argv[0], err))
			continue
		}
		return nil
	}
	if len(errs) == 0 {
		return errors.New("no clipboard tool found")
	}
	return errors.Join(errs...)
}

// entryRecord flattens a board entry into the shape the markdown renderer
// takes. Pending values are included as shown.
func entryRecord(e board.IdeaEntry) board.Record {
	rec := board.Record{Idea: e.Idea.Value()}
	if len(e.Comments) > 0 {
		rec.Comments = make([]model.Comment, 0, len(e.Comments))
		for _, c := range e.Comments {
			rec.Comments = append(rec.Comments, c.Value())
		}
	}
	return rec
}

func (m *appModel) copySelected() error {
	cur, ok := m.b.Current()
	if !ok {
		return board.ErrNothingSelected
	}
	return m.copyFn(publish.RenderIdeaMarkdown(entryRecord(cur)))
}
