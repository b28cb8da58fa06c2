package tui

import (
	"ideabox/internal/board"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalNewIdea
	modalEditIdea
	modalAddComment
	modalConfirmDelete
)

// outcomeMsg carries a finished backend operation back to the update loop,
// where the board is reconciled.
type outcomeMsg struct {
	outcome board.Outcome
}

// reloadMsg replaces the board content with a fresh load.
type reloadMsg struct {
	records []board.Record
	err     error
}

// flashDoneMsg clears the status line if nothing newer replaced it.
type flashDoneMsg struct {
	seq int
}
