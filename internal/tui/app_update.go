package tui

import (
	"errors"
	"fmt"
	"time"

	"ideabox/internal/board"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if m.inFlight == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.status = ""
			m.statusIsError = false
		}
		return m, nil

	case outcomeMsg:
		return m.applyOutcome(msg.outcome)

	case externalEditorDoneMsg:
		cmd := m.applyExternalEditorResult(msg)
		return m, cmd

	case reloadMsg:
		return m.applyReload(msg)

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m appModel) applyOutcome(o board.Outcome) (tea.Model, tea.Cmd) {
	m.inFlight--
	if m.inFlight < 0 {
		m.inFlight = 0
	}
	err := m.q.Apply(m.b, o)
	var opErr *board.OperationError
	switch {
	case errors.As(err, &opErr):
		return m, m.flash(fmt.Sprintf("could not %s: %v", opErr.Kind, opErr.Err), true)
	case err != nil:
		// The entry went away before its operation finished; the queue
		// already logged it.
		return m, nil
	}
	if m.quitArmed && !m.busy() {
		return m, m.flash("all changes saved", false)
	}
	return m, nil
}

func (m appModel) applyReload(msg reloadMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.log.Warn("reload failed", zap.Error(msg.err))
		return m, m.flash("reload failed: "+msg.err.Error(), true)
	}
	if m.busy() {
		// Something was requested while the load ran; its entries would be
		// lost.
		return m, m.flash("reload skipped: changes in flight", true)
	}
	m.b.Reset(msg.records)
	m.q.ForgetFailed()
	return m, m.flash(fmt.Sprintf("reloaded %d ideas", m.b.Len()), false)
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}
	switch m.modal {
	case modalNewIdea, modalEditIdea:
		return m.updateIdeaForm(msg)
	case modalAddComment:
		return m.updateCommentForm(msg)
	case modalConfirmDelete:
		return m.updateConfirmDelete(msg)
	}
	if m.searchFocused {
		return m.updateSearch(msg)
	}
	if !key.Matches(msg, m.keys.Quit) {
		m.quitArmed = false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Down):
		m.b.Down()
	case key.Matches(msg, m.keys.Up):
		m.b.Up()
	case key.Matches(msg, m.keys.ScrollDown):
		m.b.ScrollCurrent(3)
	case key.Matches(msg, m.keys.ScrollUp):
		m.b.ScrollCurrent(-3)

	case key.Matches(msg, m.keys.Search):
		m.searchFocused = true
		m.search.SetValue(m.b.Filter())
		m.search.CursorEnd()
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.ClearSearch):
		if m.b.Filter() != "" {
			m.closeSearch()
		}

	case key.Matches(msg, m.keys.New):
		m.ideaForm = newIdeaForm(m.author)
		m.modal = modalNewIdea

	case key.Matches(msg, m.keys.Edit):
		cur, ok := m.b.Current()
		if !ok {
			return m, m.flash("nothing selected", true)
		}
		if cur.Idea.IsPending() {
			return m, m.flash("this idea is still being saved", true)
		}
		m.ideaForm = editIdeaForm(cur.Idea.Value())
		m.modal = modalEditIdea

	case key.Matches(msg, m.keys.Comment):
		cur, ok := m.b.Current()
		if !ok {
			return m, m.flash("nothing selected", true)
		}
		if cur.Idea.IsPending() {
			return m, m.flash("this idea is still being saved", true)
		}
		m.commentIdeaID = cur.Idea.Value().ID
		m.commentForm = newCommentForm(cur.Idea.Value().Title, m.author)
		m.modal = modalAddComment

	case key.Matches(msg, m.keys.ToggleSolved):
		if _, err := board.RequestToggleSolved(m.b, m.q); err != nil {
			return m, m.flash(requestErrorText(err), true)
		}
		return m, m.dispatch()

	case key.Matches(msg, m.keys.Delete):
		cur, ok := m.b.Current()
		if !ok {
			return m, m.flash("nothing selected", true)
		}
		if cur.Idea.IsPending() {
			return m, m.flash("this idea is still being saved", true)
		}
		m.deleteID = cur.Idea.Value().ID
		m.deleteTitle = cur.Idea.Value().Title
		m.confirmFocus = confirmFocusCancel
		m.modal = modalConfirmDelete

	case key.Matches(msg, m.keys.Copy):
		if err := m.copySelected(); err != nil {
			return m, m.flash("copy failed: "+requestErrorText(err), true)
		}
		return m, m.flash("copied as markdown", false)

	case key.Matches(msg, m.keys.Reload):
		if m.busy() {
			return m, m.flash("wait for pending changes before reloading", true)
		}
		return m, m.reload()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// quit exits right away when nothing is in flight. Otherwise the first
// press only warns.
func (m appModel) quit() (tea.Model, tea.Cmd) {
	if m.busy() && !m.quitArmed {
		m.quitArmed = true
		n := m.inFlight + m.q.Len()
		return m, m.flash(fmt.Sprintf("%d change(s) still saving; press q again to quit", n), true)
	}
	if n := m.q.FailedCount(); n > 0 {
		m.log.Warn("quitting with unsaved changes", zap.Int("failed", n))
	}
	return m, tea.Quit
}

func (m appModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeSearch()
		return m, nil
	case "enter":
		m.searchFocused = false
		m.search.Blur()
		if m.b.Filter() == "" {
			m.closeSearch()
		}
		return m, nil
	case "up", "down":
		if msg.String() == "up" {
			m.b.Up()
		} else {
			m.b.Down()
		}
		return m, nil
	case "ctrl+w":
		m.search.SetValue(deleteLastWord(m.search.Value()))
		return m.afterSearchEdit(true), nil
	case "backspace":
		if m.search.Value() == "" {
			m.closeSearch()
			return m, nil
		}
	}
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m.afterSearchEdit(len(m.search.Value()) < len(before)), cmd
}

// afterSearchEdit pushes the query into the board filter. Deleting the
// last character closes the search.
func (m appModel) afterSearchEdit(deleted bool) appModel {
	q := m.search.Value()
	if q == "" && deleted {
		m.closeSearch()
		return m
	}
	m.b.SetFilter(q)
	return m
}

func (m *appModel) closeSearch() {
	m.searchFocused = false
	m.search.Blur()
	m.search.SetValue("")
	m.b.SetFilter("")
}

func (m appModel) openEditor() (tea.Model, tea.Cmd) {
	cmd, err := m.openExternalEditor()
	if err != nil {
		return m, m.flash("editor: "+err.Error(), true)
	}
	return m, cmd
}

func (m appModel) updateIdeaForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.modal = modalNone
		return m, nil
	case "ctrl+e":
		return m.openEditor()
	}
	f, cmd, submit := m.ideaForm.update(msg)
	m.ideaForm = f
	if !submit {
		return m, cmd
	}
	idea, err := f.idea()
	if err != nil {
		m.ideaForm.err = err.Error()
		return m, nil
	}
	idea = board.Normalize(idea)

	if m.modal == modalEditIdea {
		cur, ok := m.b.Find(idea.ID)
		if ok {
			idea.CreatedAt = cur.Idea.Value().CreatedAt
		}
		if _, err := board.RequestEdit(m.b, m.q, idea); err != nil {
			m.ideaForm.err = requestErrorText(err)
			return m, nil
		}
		m.modal = modalNone
		return m, m.dispatch()
	}

	idea.CreatedAt = time.Now().UTC()
	board.RequestInsertIdea(m.b, m.q, idea)
	m.modal = modalNone
	m.selectLastIfVisible()
	return m, m.dispatch()
}

// selectLastIfVisible moves the cursor to a just inserted idea when the
// filter shows it.
func (m *appModel) selectLastIfVisible() {
	vis := m.b.Visible()
	if len(vis) == 0 {
		return
	}
	if vis[len(vis)-1].Idea.IsPending() {
		m.b.Select(len(vis) - 1)
	}
}

func (m appModel) updateCommentForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.modal = modalNone
		return m, nil
	case "ctrl+e":
		return m.openEditor()
	}
	f, cmd, submit := m.commentForm.update(msg)
	m.commentForm = f
	if !submit {
		return m, cmd
	}
	c, err := f.comment()
	if err != nil {
		m.commentForm.err = err.Error()
		return m, nil
	}
	c.CreatedAt = time.Now().UTC()
	if _, err := board.RequestCommentOnIdea(m.b, m.q, m.commentIdeaID, c); err != nil {
		m.commentForm.err = requestErrorText(err)
		return m, nil
	}
	m.modal = modalNone
	return m, m.dispatch()
}

func (m appModel) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	confirm := false
	switch msg.String() {
	case "esc", "n", "q":
		m.modal = modalNone
		return m, nil
	case "tab", "shift+tab", "left", "right", "h", "l":
		m.confirmFocus = m.confirmFocus.toggle()
		return m, nil
	case "y":
		confirm = true
	case "enter":
		confirm = m.confirmFocus == confirmFocusConfirm
	default:
		return m, nil
	}
	m.modal = modalNone
	if !confirm {
		return m, nil
	}
	if _, err := board.RequestDeleteIdea(m.b, m.q, m.deleteID); err != nil {
		return m, m.flash(requestErrorText(err), true)
	}
	return m, m.dispatch()
}

func requestErrorText(err error) string {
	switch {
	case errors.Is(err, board.ErrNothingSelected):
		return "nothing selected"
	case errors.Is(err, board.ErrAlreadyPending):
		return "this idea is still being saved"
	case errors.Is(err, board.ErrParentPending):
		return "wait until the idea is saved before commenting"
	case errors.As(err, new(board.UnknownIdeaError)):
		return "the idea no longer exists"
	}
	return err.Error()
}
