package tui

import (
	"errors"
	"strings"

	"ideabox/internal/model"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type ideaField int

const (
	ideaFieldTitle ideaField = iota
	ideaFieldAuthor
	ideaFieldKind
	ideaFieldDescription
	ideaFieldCount
)

// ideaForm backs both the new-idea and the edit-idea modal. ideaID is zero
// for a new idea.
type ideaForm struct {
	ideaID int64
	solved bool

	title       textinput.Model
	author      textinput.Model
	kind        model.Kind
	description textarea.Model

	focus ideaField
	err   string
}

func newTextInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = placeholder
	in.CharLimit = limit
	return in
}

func newTextArea(placeholder string) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.SetHeight(6)
	return ta
}

func newIdeaForm(author string) ideaForm {
	f := ideaForm{
		title:       newTextInput("Title", 200),
		author:      newTextInput("Author", 80),
		kind:        model.KindIssue,
		description: newTextArea("Description (markdown)"),
	}
	f.author.SetValue(author)
	f.setFocus(ideaFieldTitle)
	return f
}

func editIdeaForm(idea model.Idea) ideaForm {
	f := newIdeaForm(idea.Author)
	f.ideaID = idea.ID
	f.solved = idea.Solved
	f.title.SetValue(idea.Title)
	f.title.CursorEnd()
	f.kind = idea.Kind
	if f.kind == "" {
		f.kind = model.KindIssue
	}
	f.description.SetValue(idea.Description)
	return f
}

func (f *ideaForm) setFocus(to ideaField) {
	f.focus = (to + ideaFieldCount) % ideaFieldCount
	f.title.Blur()
	f.author.Blur()
	f.description.Blur()
	switch f.focus {
	case ideaFieldTitle:
		f.title.Focus()
	case ideaFieldAuthor:
		f.author.Focus()
	case ideaFieldDescription:
		f.description.Focus()
	}
}

func (f *ideaForm) setWidth(w int) {
	f.title.Width = w - 2
	f.author.Width = w - 2
	f.description.SetWidth(w)
}

// idea validates the fields and returns the idea they describe.
func (f ideaForm) idea() (model.Idea, error) {
	idea := model.Idea{
		ID:          f.ideaID,
		Title:       strings.TrimSpace(f.title.Value()),
		Author:      strings.TrimSpace(f.author.Value()),
		Description: f.description.Value(),
		Kind:        f.kind,
		Solved:      f.solved,
	}
	switch {
	case idea.Title == "":
		return model.Idea{}, errors.New("title is required")
	case idea.Author == "":
		return model.Idea{}, errors.New("author is required")
	}
	return idea, nil
}

// update handles a key inside the form. submit is set when the user asked
// to save; the caller validates and closes.
func (f ideaForm) update(msg tea.KeyMsg) (ideaForm, tea.Cmd, bool) {
	switch msg.String() {
	case "tab":
		f.setFocus(f.focus + 1)
		return f, nil, false
	case "shift+tab":
		f.setFocus(f.focus - 1)
		return f, nil, false
	case "ctrl+s":
		return f, nil, true
	}

	var cmd tea.Cmd
	switch f.focus {
	case ideaFieldTitle:
		switch msg.String() {
		case "enter":
			return f, nil, true
		case "ctrl+w":
			f.title.SetValue(deleteLastWord(f.title.Value()))
			return f, nil, false
		}
		f.title, cmd = f.title.Update(msg)
	case ideaFieldAuthor:
		switch msg.String() {
		case "enter":
			f.setFocus(f.focus + 1)
			return f, nil, false
		case "ctrl+w":
			f.author.SetValue(deleteLastWord(f.author.Value()))
			return f, nil, false
		}
		f.author, cmd = f.author.Update(msg)
	case ideaFieldKind:
		switch msg.String() {
		case " ", "left", "right", "h", "l":
			f.kind = f.kind.Toggle()
		case "enter":
			return f, nil, true
		}
	case ideaFieldDescription:
		f.description, cmd = f.description.Update(msg)
	}
	return f, cmd, false
}

func (f ideaForm) view(screenW int) string {
	bodyW := modalBodyWidth(screenW)
	f.setWidth(bodyW)

	label := func(s string, field ideaField) string {
		return stylePaneTitle(f.focus == field).Render(s)
	}
	kind := "[ " + model.KindIssue.Label() + " ]  " + model.KindImprovement.Label()
	if f.kind == model.KindImprovement {
		kind = model.KindIssue.Label() + "  [ " + model.KindImprovement.Label() + " ]"
	}

	lines := []string{
		label("Title", ideaFieldTitle),
		renderInputLine(bodyW, f.title.View()),
		label("Author", ideaFieldAuthor),
		renderInputLine(bodyW, f.author.View()),
		label("Kind", ideaFieldKind) + "  " + kind,
		label("Description", ideaFieldDescription),
		f.description.View(),
	}
	if f.err != "" {
		lines = append(lines, "", styleFailed().Render(f.err))
	}
	lines = append(lines, "", styleMuted().Width(bodyW).Render("tab: next field   enter/ctrl+s: save   ctrl+e: $EDITOR   esc: cancel"))

	title := "New idea"
	if f.ideaID != 0 {
		title = "Edit idea"
	}
	return renderModalBox(screenW, title, lipgloss.JoinVertical(lipgloss.Left, lines...))
}

type commentField int

const (
	commentFieldAuthor commentField = iota
	commentFieldContent
	commentFieldCount
)

type commentForm struct {
	ideaTitle string
	author    textinput.Model
	content   textarea.Model
	focus     commentField
	err       string
}

func newCommentForm(ideaTitle, author string) commentForm {
	f := commentForm{
		ideaTitle: ideaTitle,
		author:    newTextInput("Author", 80),
		content:   newTextArea("Comment (markdown)"),
	}
	f.author.SetValue(author)
	if strings.TrimSpace(author) == "" {
		f.setFocus(commentFieldAuthor)
	} else {
		f.setFocus(commentFieldContent)
	}
	return f
}

func (f *commentForm) setFocus(to commentField) {
	f.focus = (to + commentFieldCount) % commentFieldCount
	f.author.Blur()
	f.content.Blur()
	if f.focus == commentFieldAuthor {
		f.author.Focus()
	} else {
		f.content.Focus()
	}
}

func (f commentForm) comment() (model.Comment, error) {
	c := model.Comment{
		Author:  strings.TrimSpace(f.author.Value()),
		Content: strings.TrimRight(f.content.Value(), " \n\t"),
	}
	switch {
	case strings.TrimSpace(c.Content) == "":
		return model.Comment{}, errors.New("comment is empty")
	case c.Author == "":
		return model.Comment{}, errors.New("author is required")
	}
	return c, nil
}

func (f commentForm) update(msg tea.KeyMsg) (commentForm, tea.Cmd, bool) {
	switch msg.String() {
	case "tab":
		f.setFocus(f.focus + 1)
		return f, nil, false
	case "shift+tab":
		f.setFocus(f.focus - 1)
		return f, nil, false
	case "ctrl+s":
		return f, nil, true
	}

	var cmd tea.Cmd
	if f.focus == commentFieldAuthor {
		switch msg.String() {
		case "enter":
			return f, nil, true
		case "ctrl+w":
			f.author.SetValue(deleteLastWord(f.author.Value()))
			return f, nil, false
		}
		f.author, cmd = f.author.Update(msg)
		return f, cmd, false
	}
	f.content, cmd = f.content.Update(msg)
	return f, cmd, false
}

func (f commentForm) view(screenW int) string {
	bodyW := modalBodyWidth(screenW)
	f.author.Width = bodyW - 2
	f.content.SetWidth(bodyW)

	lines := []string{
		styleMuted().Render("on: ") + fitLine(f.ideaTitle, max(bodyW-4, 1)),
		"",
		stylePaneTitle(f.focus == commentFieldAuthor).Render("Author"),
		renderInputLine(bodyW, f.author.View()),
		stylePaneTitle(f.focus == commentFieldContent).Render("Comment"),
		f.content.View(),
	}
	if f.err != "" {
		lines = append(lines, "", styleFailed().Render(f.err))
	}
	lines = append(lines, "", styleMuted().Width(bodyW).Render("tab: next field   ctrl+s: save   ctrl+e: $EDITOR   esc: cancel"))
	return renderModalBox(screenW, "Add comment", lipgloss.JoinVertical(lipgloss.Left, lines...))
}
