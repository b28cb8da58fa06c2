package board

import (
	"errors"
	"testing"
	"time"

	"ideabox/internal/model"

	"github.com/google/go-cmp/cmp"
)

func TestInsertPending_AppearsWithoutSelection(t *testing.T) {
	b := New(nil)

	id := b.InsertPending(model.Idea{Title: "Fix bug", Author: "A"})

	if b.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", b.Len())
	}
	e := b.Visible()[0]
	got, pending := e.Idea.Action()
	if !pending || got != id {
		t.Fatalf("expected pending action %d, got %d (pending=%v)", id, got, pending)
	}
	if e.Idea.Value().Title != "Fix bug" {
		t.Fatalf("unexpected title %q", e.Idea.Value().Title)
	}
	mustNoSelection(t, b)

	b.Down()
	mustSelected(t, b, 0)
}

func TestComplete_InsertRoundTrip(t *testing.T) {
	b := New(nil)
	rec := ideaNamed("Fix bug")
	id := b.InsertPending(rec)

	err := b.Complete(id, func(e *IdeaEntry) {
		v := e.Idea.Value()
		v.ID = 42
		e.Idea.Set(v)
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	if b.Len() != 1 {
		t.Fatalf("expected exactly 1 entry, got %d", b.Len())
	}
	e := b.Visible()[0]
	if e.Idea.IsPending() {
		t.Fatalf("expected committed entry")
	}
	want := rec
	want.ID = 42
	if diff := cmp.Diff(want, e.Idea.Value()); diff != "" {
		t.Fatalf("committed idea mismatch (-want +got):\n%s", diff)
	}
}

func TestComplete_SecondCallIsNotFound(t *testing.T) {
	b := New(nil)
	id := b.InsertPending(ideaNamed("x"))

	if err := b.Complete(id, nil); err != nil {
		t.Fatalf("first complete: %v", err)
	}
	err := b.Complete(id, nil)
	var nf NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.ActionID != id {
		t.Fatalf("expected action %d in error, got %d", id, nf.ActionID)
	}
}

func TestCompleteDelete_SecondCallIsNotFound(t *testing.T) {
	b := committedBoard(t, "a", "b")
	b.Select(0)
	id, ok := b.BeginDelete()
	if !ok {
		t.Fatalf("begin delete refused")
	}
	if err := b.CompleteDelete(id); err != nil {
		t.Fatalf("complete delete: %v", err)
	}
	if err := b.CompleteDelete(id); !errors.As(err, new(NotFoundError)) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if diff := cmp.Diff([]string{"b"}, titles(b)); diff != "" {
		t.Fatalf("titles (-want +got):\n%s", diff)
	}
}

func TestDelete_LastSelectedClampsToNewEnd(t *testing.T) {
	b := committedBoard(t, "a", "b", "c")
	b.Select(2)

	id, ok := b.BeginDelete()
	if !ok {
		t.Fatalf("begin delete refused")
	}
	// Nothing moves until the backend confirms.
	if b.Len() != 3 {
		t.Fatalf("entry removed before completion")
	}
	mustSelected(t, b, 2)

	if err := b.CompleteDelete(id); err != nil {
		t.Fatalf("complete delete: %v", err)
	}
	if b.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", b.Len())
	}
	mustSelected(t, b, 1)
}

func TestDelete_OnlyEntryClearsSelection(t *testing.T) {
	b := committedBoard(t, "a")
	b.Select(0)

	id, ok := b.BeginDelete()
	if !ok {
		t.Fatalf("begin delete refused")
	}
	if err := b.CompleteDelete(id); err != nil {
		t.Fatalf("complete delete: %v", err)
	}
	if b.Len() != 0 {
		t.Fatalf("expected empty board")
	}
	mustNoSelection(t, b)
}

func TestDelete_CursorFollowsEntryWhenEarlierRowRemoved(t *testing.T) {
	b := committedBoard(t, "a", "b", "c")
	b.Select(0)
	id, _ := b.BeginDelete()

	// The user moves on before the backend answers.
	b.Select(2)
	if err := b.CompleteDelete(id); err != nil {
		t.Fatalf("complete delete: %v", err)
	}
	mustSelected(t, b, 1)
	cur, _ := b.Current()
	if cur.Idea.Value().Title != "c" {
		t.Fatalf("expected cursor to stay on c, got %q", cur.Idea.Value().Title)
	}
}

func TestBeginEdit_RefusedWhilePending(t *testing.T) {
	b := New(nil)
	insertID := b.InsertPending(ideaNamed("draft"))
	before := b.Visible()[0]

	// A pending insert has no durable id yet.
	if _, ok := b.BeginEdit(model.Idea{ID: 0, Title: "changed"}); ok {
		t.Fatalf("expected edit of pending insert to be refused")
	}
	after := b.Visible()[0]
	if got, _ := after.Idea.Action(); got != insertID {
		t.Fatalf("pending action changed: %d -> %d", insertID, got)
	}
	if diff := cmp.Diff(before.Idea.Value(), after.Idea.Value()); diff != "" {
		t.Fatalf("pending value changed (-before +after):\n%s", diff)
	}
}

func TestBeginEdit_SecondEditRefused(t *testing.T) {
	b := committedBoard(t, "a")
	idea := b.Visible()[0].Idea.Value()

	idea.Title = "a2"
	first, ok := b.BeginEdit(idea)
	if !ok {
		t.Fatalf("first edit refused")
	}
	idea.Title = "a3"
	if _, ok := b.BeginEdit(idea); ok {
		t.Fatalf("second edit accepted while first is pending")
	}
	got, _ := b.Visible()[0].Idea.Action()
	if got != first {
		t.Fatalf("expected action %d to stay outstanding, got %d", first, got)
	}
	if title := b.Visible()[0].Idea.Value().Title; title != "a2" {
		t.Fatalf("expected optimistic title a2, got %q", title)
	}
}

func TestBeginDelete_Guards(t *testing.T) {
	b := committedBoard(t, "a")
	if _, ok := b.BeginDelete(); ok {
		t.Fatalf("delete with nothing selected accepted")
	}
	b.Select(0)
	if _, ok := b.BeginDelete(); !ok {
		t.Fatalf("first delete refused")
	}
	if _, ok := b.BeginDelete(); ok {
		t.Fatalf("second delete accepted while first is pending")
	}
}

func TestBeginDelete_RefusedWhileCommentPending(t *testing.T) {
	b := committedBoard(t, "a")
	b.Select(0)
	if _, err := b.AddPendingComment(0, model.Comment{Author: "B", Content: "hi"}); err != nil {
		t.Fatalf("add comment: %v", err)
	}
	if _, ok := b.BeginDelete(); ok {
		t.Fatalf("delete accepted while a comment is pending")
	}
}

func TestBeginEdit_UnknownIdea(t *testing.T) {
	b := committedBoard(t, "a")
	if _, ok := b.BeginEdit(model.Idea{ID: 99, Title: "nope"}); ok {
		t.Fatalf("expected unknown idea to be refused")
	}
}

func TestAddPendingComment(t *testing.T) {
	b := committedBoard(t, "a", "b")

	if _, err := b.AddPendingComment(5, model.Comment{}); !errors.As(err, new(IndexError)) {
		t.Fatalf("expected IndexError, got %v", err)
	}

	id, err := b.AddPendingComment(1, model.Comment{Author: "B", Content: "hello"})
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	e := b.Visible()[1]
	if len(e.Comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(e.Comments))
	}
	c := e.Comments[0]
	if got, ok := c.Action(); !ok || got != id {
		t.Fatalf("expected pending comment with action %d", id)
	}
	if c.Value().IdeaID != e.Idea.Value().ID {
		t.Fatalf("comment ideaId %d, want %d", c.Value().IdeaID, e.Idea.Value().ID)
	}

	if err := b.CompleteComment(id, func(c *model.Comment) { c.ID = 7 }); err != nil {
		t.Fatalf("complete comment: %v", err)
	}
	c = b.Visible()[1].Comments[0]
	if c.IsPending() || c.Value().ID != 7 {
		t.Fatalf("expected committed comment 7, got pending=%v id=%d", c.IsPending(), c.Value().ID)
	}
	if err := b.CompleteComment(id, nil); !errors.As(err, new(NotFoundError)) {
		t.Fatalf("expected NotFoundError on second completion, got %v", err)
	}
}

func TestAddPendingComment_ParentPending(t *testing.T) {
	b := New(nil)
	b.InsertPending(ideaNamed("draft"))
	if _, err := b.AddPendingComment(0, model.Comment{Content: "x"}); !errors.Is(err, ErrParentPending) {
		t.Fatalf("expected ErrParentPending, got %v", err)
	}
}

func TestUpDown_WrapAround(t *testing.T) {
	b := committedBoard(t, "a", "b", "c")

	b.Up()
	mustSelected(t, b, 2)
	b.Down()
	mustSelected(t, b, 0)
	b.Up()
	mustSelected(t, b, 2)
	b.Down()
	b.Down()
	mustSelected(t, b, 1)

	empty := New(nil)
	empty.Down()
	mustNoSelection(t, empty)
	empty.Up()
	mustNoSelection(t, empty)
}

func TestFilter_PrefixIgnoresCaseAndClamps(t *testing.T) {
	b := committedBoard(t, "Apple", "banana", "apricot", "Avocado")
	b.Select(3)

	b.SetFilter("ap")
	if diff := cmp.Diff([]string{"Apple", "apricot"}, titles(b)); diff != "" {
		t.Fatalf("filtered titles (-want +got):\n%s", diff)
	}
	mustSelected(t, b, 1)

	b.Down()
	mustSelected(t, b, 0)

	b.SetFilter("zzz")
	if b.VisibleLen() != 0 {
		t.Fatalf("expected empty view")
	}
	mustNoSelection(t, b)

	b.SetFilter("")
	if b.VisibleLen() != 4 {
		t.Fatalf("expected all 4 back, got %d", b.VisibleLen())
	}
}

func TestFilter_DeleteOfHiddenEntryKeepsCursor(t *testing.T) {
	b := committedBoard(t, "alpha", "beta", "alps")
	b.Select(1) // beta
	id, ok := b.BeginDelete()
	if !ok {
		t.Fatalf("begin delete refused")
	}

	b.SetFilter("al")
	b.Select(1) // alps
	if err := b.CompleteDelete(id); err != nil {
		t.Fatalf("complete delete: %v", err)
	}
	mustSelected(t, b, 1)
	cur, _ := b.Current()
	if cur.Idea.Value().Title != "alps" {
		t.Fatalf("expected alps selected, got %q", cur.Idea.Value().Title)
	}
}

func TestEdit_CursorFollowsEntryAcrossFilter(t *testing.T) {
	b := committedBoard(t, "apple", "avocado")
	b.SetFilter("a")
	b.Select(1) // avocado

	idea := b.Visible()[0].Idea.Value()
	idea.Title = "banana"
	if _, ok := b.BeginEdit(idea); !ok {
		t.Fatalf("edit refused")
	}
	if diff := cmp.Diff([]string{"avocado"}, titles(b)); diff != "" {
		t.Fatalf("titles (-want +got):\n%s", diff)
	}
	mustSelected(t, b, 0)
}

func TestScrollCurrent(t *testing.T) {
	b := committedBoard(t, "a", "b")
	b.ScrollCurrent(3) // no selection: no-op
	b.Select(1)
	b.ScrollCurrent(3)
	b.ScrollCurrent(-1)
	if got := b.Visible()[1].Scroll; got != 2 {
		t.Fatalf("expected scroll 2, got %d", got)
	}
	b.ScrollCurrent(-10)
	if got := b.Visible()[1].Scroll; got != 0 {
		t.Fatalf("expected scroll clamped to 0, got %d", got)
	}
	if got := b.Visible()[0].Scroll; got != 0 {
		t.Fatalf("unselected entry scrolled: %d", got)
	}
}

func TestVisible_ReturnsCopies(t *testing.T) {
	b := committedBoard(t, "a")
	b.AddPendingComment(0, model.Comment{Content: "x"})
	v := b.Visible()
	v[0].Comments[0].Set(model.Comment{Content: "mutated"})
	v[0].Scroll = 9

	again := b.Visible()[0]
	if again.Comments[0].Value().Content != "x" {
		t.Fatalf("caller mutated the board's comment")
	}
	if again.Scroll != 0 {
		t.Fatalf("caller mutated the board's scroll offset")
	}
}

func TestReset_KeepsCounterMonotonic(t *testing.T) {
	b := committedBoard(t, "a")
	first := b.InsertPending(ideaNamed("b"))
	b.Reset(nil)
	second := b.InsertPending(ideaNamed("c"))
	if second <= first {
		t.Fatalf("action ids reused across reset: %d then %d", first, second)
	}
}

func reloadRecords(b *Board, drop int64, extra ...model.Idea) []Record {
	var out []Record
	for _, e := range b.All() {
		if v := e.Idea.Value(); v.ID != drop {
			out = append(out, Record{Idea: v})
		}
	}
	for _, idea := range extra {
		out = append(out, Record{Idea: idea})
	}
	return out
}

func TestReset_CursorStaysOnIdea(t *testing.T) {
	older := time.Date(2024, 9, 13, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		drop  int64
		extra []model.Idea
		want  int
	}{
		{name: "row removed above", drop: 1, want: 1},
		{name: "row inserted above", extra: []model.Idea{{ID: 99, Title: "old", Author: "A", CreatedAt: older}}, want: 3},
		{name: "row removed below", drop: 4, want: 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := committedBoard(t, "a", "b", "c", "d")
			b.Select(2)

			b.Reset(reloadRecords(b, tc.drop, tc.extra...))

			mustSelected(t, b, tc.want)
			cur, _ := b.Current()
			if got := cur.Idea.Value().Title; got != "c" {
				t.Fatalf("cursor moved to %q, want %q", got, "c")
			}
		})
	}
}

func TestReset_SelectedIdeaGoneClamps(t *testing.T) {
	b := committedBoard(t, "a", "b", "c")
	b.Select(2)

	b.Reset(reloadRecords(b, 3))

	mustSelected(t, b, 1)
}

func TestReset_NoSelectionStaysNone(t *testing.T) {
	b := committedBoard(t, "a", "b")

	b.Reset(reloadRecords(b, 1))

	mustNoSelection(t, b)
}

func TestBeginDeleteIdea_IgnoresCursor(t *testing.T) {
	b := committedBoard(t, "a", "b", "c")
	b.Select(0)

	id, ok := b.BeginDeleteIdea(3)
	if !ok {
		t.Fatalf("BeginDeleteIdea refused")
	}
	if first := b.Visible()[0]; first.Idea.IsPending() {
		t.Fatalf("selected idea was tagged instead of the target")
	}
	if err := b.CompleteDelete(id); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, titles(b)); diff != "" {
		t.Fatalf("titles (-want +got):\n%s", diff)
	}
	mustSelected(t, b, 0)

	if _, ok := b.BeginDeleteIdea(42); ok {
		t.Fatalf("expected unknown idea to be refused")
	}
}

func TestAddPendingCommentTo(t *testing.T) {
	b := committedBoard(t, "a", "b")
	b.Select(0)

	if _, err := b.AddPendingCommentTo(42, model.Comment{Content: "x"}); !errors.As(err, new(UnknownIdeaError)) {
		t.Fatalf("expected UnknownIdeaError, got %v", err)
	}
	if _, err := b.AddPendingCommentTo(2, model.Comment{Author: "B", Content: "hi"}); err != nil {
		t.Fatalf("comment: %v", err)
	}
	vis := b.Visible()
	if len(vis[0].Comments) != 0 || len(vis[1].Comments) != 1 {
		t.Fatalf("comment landed on the wrong idea: %d / %d", len(vis[0].Comments), len(vis[1].Comments))
	}
	if got := vis[1].Comments[0].Value().IdeaID; got != 2 {
		t.Fatalf("comment idea id = %d, want 2", got)
	}
}

func TestEntry_CommittedAndPending(t *testing.T) {
	c := Committed("a")
	if c.IsPending() || c.Value() != "a" {
		t.Fatalf("committed entry: pending=%v value=%q", c.IsPending(), c.Value())
	}
	if _, ok := c.Action(); ok {
		t.Fatalf("committed entry reports an action")
	}

	p := Pending(7, "b")
	id, ok := p.Action()
	if !p.IsPending() || !ok || id != 7 || p.Value() != "b" {
		t.Fatalf("pending entry: pending=%v action=%d,%v value=%q", p.IsPending(), id, ok, p.Value())
	}
}
