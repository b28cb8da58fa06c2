// Package board holds the in-memory idea list that the UI edits
// optimistically, and the queue that confirms those edits against the
// backend afterwards.
//
// Every mutation is applied to the Board first and tagged pending with a
// fresh ActionID. The matching Mutation is queued under the same id; once
// its backend operation finishes, the outcome is reconciled into whatever
// the Board looks like at that point. Indices are never cached across that
// gap: completions locate their entry by action id.
//
// A Board and its Queue have a single owner. Backend operations may run on
// other goroutines, but they report back as Outcome values that the owner
// applies.
package board

import (
	"sort"
	"strings"

	"ideabox/internal/model"
)

// Record is a committed idea with its comments, as loaded from the backend.
type Record struct {
	Idea     model.Idea
	Comments []model.Comment
}

type Board struct {
	ideas []IdeaEntry

	// selected indexes the filtered view, valid only when hasSel is set.
	selected int
	hasSel   bool

	filter  string
	counter Counter
}

// New builds a board of committed entries, oldest idea first.
func New(records []Record) *Board {
	b := &Board{}
	b.Reset(records)
	return b
}

// Reset replaces the content with freshly loaded records. The filter is
// kept and the cursor stays on the idea it was on; if that idea is gone it
// is only clamped. Action ids keep increasing.
func (b *Board) Reset(records []Record) {
	var selID int64
	if i, ok := b.currentIndex(); ok {
		selID = b.ideas[i].Idea.value.ID
	}
	ideas := make([]IdeaEntry, 0, len(records))
	for _, r := range records {
		comments := make([]model.Comment, len(r.Comments))
		copy(comments, r.Comments)
		sort.SliceStable(comments, func(i, j int) bool {
			return comments[i].CreatedAt.Before(comments[j].CreatedAt)
		})
		e := IdeaEntry{Idea: Committed(r.Idea)}
		for _, c := range comments {
			e.Comments = append(e.Comments, Committed(c))
		}
		ideas = append(ideas, e)
	}
	sort.SliceStable(ideas, func(i, j int) bool {
		return ideas[i].Idea.value.CreatedAt.Before(ideas[j].Idea.value.CreatedAt)
	})
	b.ideas = ideas
	if i := b.indexOfIdea(selID); i >= 0 && b.hasSel {
		for p, si := range b.visible() {
			if si == i {
				b.selected = p
				return
			}
		}
	}
	b.clamp()
}

// NextActionID allocates an id from the board's own counter.
func (b *Board) NextActionID() ActionID { return b.counter.Next() }

// Len is the number of stored ideas, ignoring the filter.
func (b *Board) Len() int { return len(b.ideas) }

// VisibleLen is the length of the filtered view.
func (b *Board) VisibleLen() int { return len(b.visible()) }

// Visible returns copies of the entries in the filtered view, in the order
// the UI renders them.
func (b *Board) Visible() []IdeaEntry {
	idx := b.visible()
	out := make([]IdeaEntry, 0, len(idx))
	for _, i := range idx {
		out = append(out, b.ideas[i].clone())
	}
	return out
}

// All returns copies of every stored entry in storage order.
func (b *Board) All() []IdeaEntry {
	out := make([]IdeaEntry, 0, len(b.ideas))
	for _, e := range b.ideas {
		out = append(out, e.clone())
	}
	return out
}

// Selected returns the cursor position in the filtered view.
func (b *Board) Selected() (int, bool) {
	return b.selected, b.hasSel
}

// Select moves the cursor to a view index; out of range clears it.
func (b *Board) Select(i int) {
	if i < 0 || i >= b.VisibleLen() {
		b.clearSelection()
		return
	}
	b.selected = i
	b.hasSel = true
}

// Current returns a copy of the selected entry.
func (b *Board) Current() (IdeaEntry, bool) {
	i, ok := b.currentIndex()
	if !ok {
		return IdeaEntry{}, false
	}
	return b.ideas[i].clone(), true
}

// Find looks up a committed or pending idea by durable id.
func (b *Board) Find(ideaID int64) (IdeaEntry, bool) {
	i := b.indexOfIdea(ideaID)
	if i < 0 {
		return IdeaEntry{}, false
	}
	return b.ideas[i].clone(), true
}

// Pending counts entries (ideas and comments) waiting on the backend.
func (b *Board) Pending() int {
	n := 0
	for _, e := range b.ideas {
		if e.Idea.pending {
			n++
		}
		for _, c := range e.Comments {
			if c.pending {
				n++
			}
		}
	}
	return n
}

// Down moves the cursor one row forward, wrapping around. With no
// selection it selects the first row.
func (b *Board) Down() {
	n := b.VisibleLen()
	if n == 0 {
		b.clearSelection()
		return
	}
	if !b.hasSel {
		b.Select(0)
		return
	}
	b.Select((b.selected%n + 1) % n)
}

// Up moves the cursor one row back, wrapping around. With no selection it
// selects the last row.
func (b *Board) Up() {
	n := b.VisibleLen()
	if n == 0 {
		b.clearSelection()
		return
	}
	if !b.hasSel {
		b.Select(n - 1)
		return
	}
	b.Select((b.selected%n + n - 1) % n)
}

// Filter returns the active title filter.
func (b *Board) Filter() string { return b.filter }

// SetFilter restricts the view to ideas whose title starts with query,
// ignoring case. The cursor keeps its index, clamped to the new view.
func (b *Board) SetFilter(query string) {
	b.filter = query
	b.clamp()
}

// ScrollCurrent moves the description scroll offset of the selected entry.
func (b *Board) ScrollCurrent(delta int) {
	i, ok := b.currentIndex()
	if !ok {
		return
	}
	s := b.ideas[i].Scroll + delta
	if s < 0 {
		s = 0
	}
	b.ideas[i].Scroll = s
}

// InsertPending appends a new pending idea and returns its action id.
func (b *Board) InsertPending(idea model.Idea) ActionID {
	id := b.counter.Next()
	b.ideas = append(b.ideas, IdeaEntry{Idea: Pending(id, idea)})
	b.clamp()
	return id
}

// AddPendingComment appends a pending comment to the idea at view index
// parent. The comment's IdeaID is taken from the parent.
func (b *Board) AddPendingComment(parent int, c model.Comment) (ActionID, error) {
	idx := b.visible()
	if parent < 0 || parent >= len(idx) {
		return 0, IndexError{Index: parent, Len: len(idx)}
	}
	return b.addPendingCommentAt(idx[parent], c)
}

// AddPendingCommentTo appends a pending comment to the committed idea with
// durable id ideaID, wherever the cursor is.
func (b *Board) AddPendingCommentTo(ideaID int64, c model.Comment) (ActionID, error) {
	i := b.indexOfIdea(ideaID)
	if i < 0 {
		return 0, UnknownIdeaError{ID: ideaID}
	}
	return b.addPendingCommentAt(i, c)
}

func (b *Board) addPendingCommentAt(i int, c model.Comment) (ActionID, error) {
	e := &b.ideas[i]
	if e.Idea.pending {
		return 0, ErrParentPending
	}
	c.IdeaID = e.Idea.value.ID
	id := b.counter.Next()
	e.Comments = append(e.Comments, Pending(id, c))
	return id, nil
}

// BeginEdit tags the committed idea with idea.ID as pending and shows the
// edited values right away. It returns false if there is no such idea or it
// already awaits another action.
func (b *Board) BeginEdit(idea model.Idea) (ActionID, bool) {
	i := b.indexOfIdea(idea.ID)
	if i < 0 {
		return 0, false
	}
	e := &b.ideas[i]
	if e.Idea.pending {
		return 0, false
	}
	if idea.CreatedAt.IsZero() {
		idea.CreatedAt = e.Idea.value.CreatedAt
	}
	id := b.counter.Next()
	b.keepSelection(func() {
		_ = e.Idea.markPending(id)
		e.Idea.value = idea
	})
	return id, true
}

// BeginDelete tags the selected idea as pending. The entry stays in place
// until CompleteDelete; where the cursor lands is decided then. It returns
// false with nothing selected or while the idea or one of its comments
// awaits another action.
func (b *Board) BeginDelete() (ActionID, bool) {
	i, ok := b.currentIndex()
	if !ok {
		return 0, false
	}
	return b.beginDeleteAt(i)
}

// BeginDeleteIdea is BeginDelete for the committed idea with durable id
// ideaID instead of the selected one.
func (b *Board) BeginDeleteIdea(ideaID int64) (ActionID, bool) {
	i := b.indexOfIdea(ideaID)
	if i < 0 {
		return 0, false
	}
	return b.beginDeleteAt(i)
}

func (b *Board) beginDeleteAt(i int) (ActionID, bool) {
	e := &b.ideas[i]
	if e.busy() {
		return 0, false
	}
	id := b.counter.Next()
	_ = e.Idea.markPending(id)
	return id, true
}

// Complete runs fn on the idea still tagged with id, then marks it
// committed. fn may be nil.
func (b *Board) Complete(id ActionID, fn func(*IdeaEntry)) error {
	i := b.indexOfAction(id)
	if i < 0 {
		return NotFoundError{Kind: "idea", ActionID: id}
	}
	b.keepSelection(func() {
		e := &b.ideas[i]
		if fn != nil {
			fn(e)
		}
		e.Idea.commit()
	})
	return nil
}

// CompleteComment runs fn on the comment still tagged with id, then marks
// it committed. fn may be nil.
func (b *Board) CompleteComment(id ActionID, fn func(*model.Comment)) error {
	for i := range b.ideas {
		for j := range b.ideas[i].Comments {
			c := &b.ideas[i].Comments[j]
			if !c.pendingOn(id) {
				continue
			}
			if fn != nil {
				fn(&c.value)
			}
			c.commit()
			return nil
		}
	}
	return NotFoundError{Kind: "comment", ActionID: id}
}

// CompleteDelete removes the idea tagged with id and moves the cursor per
// adjustSelection.
func (b *Board) CompleteDelete(id ActionID) error {
	i := b.indexOfAction(id)
	if i < 0 {
		return NotFoundError{Kind: "idea", ActionID: id}
	}
	viewPos := -1
	for p, si := range b.visible() {
		if si == i {
			viewPos = p
			break
		}
	}
	b.ideas = append(b.ideas[:i], b.ideas[i+1:]...)
	if viewPos < 0 {
		b.clamp()
		return nil
	}
	b.selected, b.hasSel = adjustSelection(b.selected, b.hasSel, viewPos, b.VisibleLen())
	return nil
}

func (b *Board) matches(idea model.Idea) bool {
	if b.filter == "" {
		return true
	}
	return strings.HasPrefix(strings.ToLower(idea.Title), strings.ToLower(b.filter))
}

// visible maps view positions to storage indices.
func (b *Board) visible() []int {
	out := make([]int, 0, len(b.ideas))
	for i, e := range b.ideas {
		if b.matches(e.Idea.value) {
			out = append(out, i)
		}
	}
	return out
}

func (b *Board) currentIndex() (int, bool) {
	if !b.hasSel {
		return 0, false
	}
	idx := b.visible()
	if b.selected < 0 || b.selected >= len(idx) {
		return 0, false
	}
	return idx[b.selected], true
}

func (b *Board) indexOfIdea(ideaID int64) int {
	if ideaID == 0 {
		return -1
	}
	for i, e := range b.ideas {
		if e.Idea.value.ID == ideaID {
			return i
		}
	}
	return -1
}

func (b *Board) indexOfAction(id ActionID) int {
	for i, e := range b.ideas {
		if e.Idea.pendingOn(id) {
			return i
		}
	}
	return -1
}
