package board

import "ideabox/internal/model"

// Entry tags a record as either committed (durably stored, its id is valid)
// or pending (changed locally, awaiting the backend operation identified by
// its action id).
type Entry[T any] struct {
	value   T
	action  ActionID
	pending bool
}

// Committed wraps a durably stored record.
func Committed[T any](v T) Entry[T] {
	return Entry[T]{value: v}
}

// Pending wraps a record awaiting the action id.
func Pending[T any](id ActionID, v T) Entry[T] {
	return Entry[T]{value: v, action: id, pending: true}
}

// Value returns the wrapped record, pending or not.
func (e Entry[T]) Value() T { return e.value }

// IsPending reports whether the entry awaits the backend.
func (e Entry[T]) IsPending() bool { return e.pending }

// Action returns the pending action id, or false for committed entries.
func (e Entry[T]) Action() (ActionID, bool) {
	return e.action, e.pending
}

// Set replaces the wrapped record without touching the tag. Only completion
// callbacks get a mutable entry to call it on.
func (e *Entry[T]) Set(v T) { e.value = v }

func (e *Entry[T]) markPending(id ActionID) error {
	if e.pending {
		return ErrAlreadyPending
	}
	e.action = id
	e.pending = true
	return nil
}

func (e *Entry[T]) commit() {
	e.action = 0
	e.pending = false
}

func (e Entry[T]) pendingOn(id ActionID) bool {
	return e.pending && e.action == id
}

// IdeaEntry is one row of the board: the idea, its comments (oldest first)
// and the description scroll offset.
type IdeaEntry struct {
	Idea     Entry[model.Idea]
	Comments []Entry[model.Comment]
	Scroll   int
}

func (e IdeaEntry) clone() IdeaEntry {
	out := e
	if e.Comments != nil {
		out.Comments = make([]Entry[model.Comment], len(e.Comments))
		copy(out.Comments, e.Comments)
	}
	return out
}

// busy reports whether the idea or any of its comments awaits the backend.
func (e IdeaEntry) busy() bool {
	if e.Idea.pending {
		return true
	}
	for _, c := range e.Comments {
		if c.pending {
			return true
		}
	}
	return false
}
