package tui

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

type externalEditorDoneMsg struct {
	err error
}

func externalEditorName() string {
	if v := strings.TrimSpace(os.Getenv("VISUAL")); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv("EDITOR")); v != "" {
		return v
	}
	return "vi"
}

// activeTextarea is the markdown body of the open form, if any.
func (m *appModel) activeTextarea() *textarea.Model {
	switch m.modal {
	case modalNewIdea, modalEditIdea:
		return &m.ideaForm.description
	case modalAddComment:
		return &m.commentForm.content
	}
	return nil
}

func (m *appModel) openExternalEditor() (tea.Cmd, error) {
	ta := m.activeTextarea()
	if ta == nil {
		return nil, nil
	}
	args := splitShellWords(externalEditorName())
	if len(args) == 0 {
		args = []string{"vi"}
	}

	f, err := os.CreateTemp("", "ideabox-*.md")
	if err != nil {
		return nil, err
	}
	path := f.Name()
	if _, err := f.WriteString(ta.Value()); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, err
	}
	_ = f.Close()

	m.editorPath = path
	m.editorBefore = ta.Value()

	cmd := exec.Command(args[0], append(args[1:], path)...)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return externalEditorDoneMsg{err: err}
	}), nil
}

func (m *appModel) applyExternalEditorResult(msg externalEditorDoneMsg) tea.Cmd {
	path := m.editorPath
	before := m.editorBefore
	m.editorPath = ""
	m.editorBefore = ""
	if strings.TrimSpace(path) == "" {
		return nil
	}
	defer func() { _ = os.Remove(path) }()

	if msg.err != nil {
		return m.flash("editor failed: "+msg.err.Error(), true)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return m.flash("editor read failed: "+err.Error(), true)
	}
	ta := m.activeTextarea()
	if ta == nil {
		// The form was closed meanwhile.
		return nil
	}
	after := string(b)
	ta.SetValue(after)
	ta.Focus()

	if strings.TrimSpace(after) == strings.TrimSpace(before) {
		return m.flash(fmt.Sprintf("no changes from %s", externalEditorName()), false)
	}
	return m.flash(fmt.Sprintf("updated from %s (ctrl+s to save)", externalEditorName()), false)
}
