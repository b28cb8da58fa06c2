package board

import (
	"strings"

	"ideabox/internal/model"
)

// The Request helpers pair a Board change with the Mutation that confirms
// it, and enqueue the pair under the same action id.

func RequestInsertIdea(b *Board, q *Queue, idea model.Idea) ActionID {
	idea.ID = 0
	id := b.InsertPending(idea)
	q.Enqueue(id, InsertIdea{Idea: idea})
	return id
}

// RequestInsertComment comments on the idea at view index parent.
func RequestInsertComment(b *Board, q *Queue, parent int, c model.Comment) (ActionID, error) {
	c.ID = 0
	id, err := b.AddPendingComment(parent, c)
	if err != nil {
		return 0, err
	}
	c.IdeaID = b.Visible()[parent].Idea.Value().ID
	q.Enqueue(id, InsertComment{Comment: c})
	return id, nil
}

// RequestCommentOnIdea comments on the idea with durable id ideaID.
func RequestCommentOnIdea(b *Board, q *Queue, ideaID int64, c model.Comment) (ActionID, error) {
	c.ID = 0
	id, err := b.AddPendingCommentTo(ideaID, c)
	if err != nil {
		return 0, err
	}
	c.IdeaID = ideaID
	q.Enqueue(id, InsertComment{Comment: c})
	return id, nil
}

// RequestCommentOnSelected comments on the selected idea.
func RequestCommentOnSelected(b *Board, q *Queue, c model.Comment) (ActionID, error) {
	sel, ok := b.Selected()
	if !ok {
		return 0, ErrNothingSelected
	}
	return RequestInsertComment(b, q, sel, c)
}

func RequestEdit(b *Board, q *Queue, idea model.Idea) (ActionID, error) {
	cur, ok := b.Find(idea.ID)
	if !ok {
		return 0, UnknownIdeaError{ID: idea.ID}
	}
	if cur.Idea.IsPending() {
		return 0, ErrAlreadyPending
	}
	id, ok := b.BeginEdit(idea)
	if !ok {
		return 0, ErrAlreadyPending
	}
	edited, _ := b.Find(idea.ID)
	q.Enqueue(id, EditIdea{Idea: edited.Idea.Value()})
	return id, nil
}

// RequestToggleSolved flips the solved flag of the selected idea.
func RequestToggleSolved(b *Board, q *Queue) (ActionID, error) {
	cur, ok := b.Current()
	if !ok {
		return 0, ErrNothingSelected
	}
	idea := cur.Idea.Value()
	idea.Solved = !idea.Solved
	return RequestEdit(b, q, idea)
}

// RequestDelete deletes the selected idea.
func RequestDelete(b *Board, q *Queue) (ActionID, error) {
	cur, ok := b.Current()
	if !ok {
		return 0, ErrNothingSelected
	}
	id, ok := b.BeginDelete()
	if !ok {
		return 0, ErrAlreadyPending
	}
	q.Enqueue(id, DeleteIdea{IdeaID: cur.Idea.Value().ID})
	return id, nil
}

// RequestDeleteIdea deletes the idea with durable id ideaID.
func RequestDeleteIdea(b *Board, q *Queue, ideaID int64) (ActionID, error) {
	cur, ok := b.Find(ideaID)
	if !ok {
		return 0, UnknownIdeaError{ID: ideaID}
	}
	if cur.Idea.IsPending() {
		return 0, ErrAlreadyPending
	}
	id, ok := b.BeginDeleteIdea(ideaID)
	if !ok {
		return 0, ErrAlreadyPending
	}
	q.Enqueue(id, DeleteIdea{IdeaID: ideaID})
	return id, nil
}

// Normalize trims user input the way every request expects it.
func Normalize(idea model.Idea) model.Idea {
	idea.Title = strings.TrimSpace(idea.Title)
	idea.Author = strings.TrimSpace(idea.Author)
	idea.Description = strings.TrimRight(idea.Description, " \n\t")
	if idea.Kind == "" {
		idea.Kind = model.KindIssue
	}
	return idea
}
