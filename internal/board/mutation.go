package board

import (
	"context"
	"fmt"

	"ideabox/internal/model"
)

// Backend is the persistence side of every mutation kind.
type Backend interface {
	InsertIdea(ctx context.Context, idea model.Idea) (int64, error)
	UpdateIdea(ctx context.Context, idea model.Idea) error
	// DeleteIdea removes the idea and its comments.
	DeleteIdea(ctx context.Context, ideaID int64) error
	InsertComment(ctx context.Context, c model.Comment) (int64, error)
}

// Mutation is one of InsertIdea, InsertComment, EditIdea or DeleteIdea.
// The set is closed; execute and reconcile switch over all of it.
type Mutation interface {
	Kind() string
	mutation()
}

type InsertIdea struct{ Idea model.Idea }

type InsertComment struct{ Comment model.Comment }

type EditIdea struct{ Idea model.Idea }

type DeleteIdea struct{ IdeaID int64 }

func (InsertIdea) Kind() string    { return "insert idea" }
func (InsertComment) Kind() string { return "insert comment" }
func (EditIdea) Kind() string      { return "edit idea" }
func (DeleteIdea) Kind() string    { return "delete idea" }

func (InsertIdea) mutation()    {}
func (InsertComment) mutation() {}
func (EditIdea) mutation()      {}
func (DeleteIdea) mutation()    {}

// execute performs the backend operation for m. Inserts yield the new
// durable id; the other kinds yield 0.
func execute(ctx context.Context, be Backend, m Mutation) (int64, error) {
	switch m := m.(type) {
	case InsertIdea:
		return be.InsertIdea(ctx, m.Idea)
	case InsertComment:
		return be.InsertComment(ctx, m.Comment)
	case EditIdea:
		return 0, be.UpdateIdea(ctx, m.Idea)
	case DeleteIdea:
		return 0, be.DeleteIdea(ctx, m.IdeaID)
	default:
		return 0, fmt.Errorf("unknown mutation %T", m)
	}
}

// reconcile merges a successful outcome into the board.
func reconcile(b *Board, id ActionID, m Mutation, newID int64) error {
	switch m := m.(type) {
	case InsertIdea:
		return reconcileInsertIdea(b, id, newID)
	case InsertComment:
		return reconcileInsertComment(b, id, newID)
	case EditIdea:
		return reconcileEditIdea(b, id, m.Idea)
	case DeleteIdea:
		return b.CompleteDelete(id)
	default:
		return fmt.Errorf("unknown mutation %T", m)
	}
}

func reconcileInsertIdea(b *Board, id ActionID, newID int64) error {
	return b.Complete(id, func(e *IdeaEntry) {
		v := e.Idea.Value()
		v.ID = newID
		e.Idea.Set(v)
		// Comments cannot be added to an unconfirmed idea, but keep the
		// foreign key right if that ever changes.
		for i := range e.Comments {
			c := e.Comments[i].Value()
			c.IdeaID = newID
			e.Comments[i].Set(c)
		}
	})
}

func reconcileInsertComment(b *Board, id ActionID, newID int64) error {
	return b.CompleteComment(id, func(c *model.Comment) {
		c.ID = newID
	})
}

func reconcileEditIdea(b *Board, id ActionID, edited model.Idea) error {
	return b.Complete(id, func(e *IdeaEntry) {
		v := e.Idea.Value()
		v.Title = edited.Title
		v.Description = edited.Description
		v.Author = edited.Author
		v.Solved = edited.Solved
		v.Kind = edited.Kind
		e.Idea.Set(v)
	})
}
