package board

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ideabox/internal/model"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDrain_TwoInsertsBothCommitWithDistinctIDs(t *testing.T) {
	b := New(nil)
	q := NewQueue(QueueOptions{Strict: true, Workers: 2})
	be := newFakeBackend()

	first := RequestInsertIdea(b, q, ideaNamed("one"))
	second := RequestInsertIdea(b, q, ideaNamed("two"))
	if first == second {
		t.Fatalf("expected distinct action ids")
	}
	if q.Len() != 2 {
		t.Fatalf("expected 2 queued jobs, got %d", q.Len())
	}

	if err := q.Drain(context.Background(), b, be); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if q.Len() != 0 {
		t.Fatalf("queue not empty after drain")
	}
	if b.Len() != 2 {
		t.Fatalf("expected 2 ideas, got %d", b.Len())
	}
	ids := map[int64]string{}
	for _, e := range b.All() {
		if e.Idea.IsPending() {
			t.Fatalf("idea %q still pending", e.Idea.Value().Title)
		}
		v := e.Idea.Value()
		if v.ID == 0 {
			t.Fatalf("idea %q has no durable id", v.Title)
		}
		ids[v.ID] = v.Title
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 distinct durable ids, got %v", ids)
	}
	for id, title := range ids {
		if be.ideas[id].Title != title {
			t.Fatalf("durable id %d maps to %q in backend, %q on board", id, be.ideas[id].Title, title)
		}
	}
}

func TestDrain_CompletionsInReverseOrder(t *testing.T) {
	b := New(nil)
	q := strictQueue()
	be := newFakeBackend()

	first := RequestInsertIdea(b, q, ideaNamed("one"))
	second := RequestInsertIdea(b, q, ideaNamed("two"))
	jobs := q.Take()

	outcomes := []Outcome{
		q.Run(context.Background(), be, jobs[1]),
		q.Run(context.Background(), be, jobs[0]),
	}
	for _, o := range outcomes {
		if err := q.Apply(b, o); err != nil {
			t.Fatalf("apply %d: %v", o.ID, err)
		}
	}

	got := map[string]int64{}
	for _, e := range b.All() {
		got[e.Idea.Value().Title] = e.Idea.Value().ID
	}
	want := map[string]int64{"two": 101, "one": 102}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("durable ids (-want +got):\n%s (actions %d, %d)", diff, first, second)
	}
}

func TestDrain_FailureLeavesEntryPending(t *testing.T) {
	b := New(nil)
	q := strictQueue()
	be := newFakeBackend()
	be.fail["insert idea"] = true

	id := RequestInsertIdea(b, q, ideaNamed("ghost"))
	err := q.Drain(context.Background(), b, be)
	if err == nil {
		t.Fatalf("expected drain error")
	}
	var opErr *OperationError
	if !errors.As(err, &opErr) || opErr.ActionID != id {
		t.Fatalf("expected OperationError for action %d, got %v", id, err)
	}
	if !errors.Is(err, errBackendDown) {
		t.Fatalf("expected wrapped backend error, got %v", err)
	}

	if b.Len() != 1 || !b.All()[0].Idea.IsPending() {
		t.Fatalf("expected the entry to stay pending")
	}
	if ferr, ok := q.Failed(id); !ok || !errors.Is(ferr, errBackendDown) {
		t.Fatalf("expected failure recorded for action %d", id)
	}
	if q.Len() != 0 {
		t.Fatalf("failed job must not be re-queued")
	}

	// Nothing left to run.
	if err := q.Drain(context.Background(), b, be); err != nil {
		t.Fatalf("second drain: %v", err)
	}
	if len(be.calls) != 1 {
		t.Fatalf("operation ran %d times, want once", len(be.calls))
	}
}

func TestDrain_MixedOutcomes(t *testing.T) {
	b := committedBoard(t, "keep", "drop")
	q := strictQueue()
	be := newFakeBackend()
	be.fail["edit idea"] = true

	b.Select(1)
	delID, err := RequestDelete(b, q)
	if err != nil {
		t.Fatalf("request delete: %v", err)
	}
	keep := b.Visible()[0].Idea.Value()
	keep.Title = "kept"
	editID, err := RequestEdit(b, q, keep)
	if err != nil {
		t.Fatalf("request edit: %v", err)
	}

	err = q.Drain(context.Background(), b, be)
	var opErr *OperationError
	if !errors.As(err, &opErr) || opErr.ActionID != editID {
		t.Fatalf("expected only the edit to fail, got %v", err)
	}
	if _, failed := q.Failed(delID); failed {
		t.Fatalf("delete marked failed")
	}
	if diff := cmp.Diff([]string{"kept"}, titles(b)); diff != "" {
		t.Fatalf("titles (-want +got):\n%s", diff)
	}
	if !b.Visible()[0].Idea.IsPending() {
		t.Fatalf("failed edit should stay pending")
	}
	mustSelected(t, b, 0)
}

func TestDrain_EditCommits(t *testing.T) {
	b := committedBoard(t, "a")
	q := strictQueue()
	be := newFakeBackend()
	b.Select(0)

	if _, err := RequestToggleSolved(b, q); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := RequestToggleSolved(b, q); !errors.Is(err, ErrAlreadyPending) {
		t.Fatalf("expected ErrAlreadyPending on second toggle, got %v", err)
	}
	if err := q.Drain(context.Background(), b, be); err != nil {
		t.Fatalf("drain: %v", err)
	}
	cur, _ := b.Current()
	if cur.Idea.IsPending() || !cur.Idea.Value().Solved {
		t.Fatalf("expected committed solved idea, got pending=%v solved=%v", cur.Idea.IsPending(), cur.Idea.Value().Solved)
	}
	if !be.ideas[1].Solved {
		t.Fatalf("backend did not receive the edit")
	}
}

func TestDrain_CommentOnSelected(t *testing.T) {
	b := committedBoard(t, "a", "b")
	q := strictQueue()
	be := newFakeBackend()

	if _, err := RequestCommentOnSelected(b, q, model.Comment{Content: "x"}); !errors.Is(err, ErrNothingSelected) {
		t.Fatalf("expected ErrNothingSelected, got %v", err)
	}
	b.Select(1)
	if _, err := RequestCommentOnSelected(b, q, model.Comment{Author: "B", Content: "hi"}); err != nil {
		t.Fatalf("comment: %v", err)
	}
	if err := q.Drain(context.Background(), b, be); err != nil {
		t.Fatalf("drain: %v", err)
	}
	cs := b.Visible()[1].Comments
	if len(cs) != 1 || cs[0].IsPending() {
		t.Fatalf("expected one committed comment, got %+v", cs)
	}
	stored := be.comments[cs[0].Value().ID]
	if stored.IdeaID != 2 || stored.Content != "hi" {
		t.Fatalf("backend got %+v", stored)
	}
}

func TestDrain_TimeoutSurfacesAsFailure(t *testing.T) {
	b := New(nil)
	q := NewQueue(QueueOptions{Timeout: 10 * time.Millisecond})
	be := newFakeBackend()
	be.delay = time.Second

	id := RequestInsertIdea(b, q, ideaNamed("slow"))
	err := q.Drain(context.Background(), b, be)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if _, failed := q.Failed(id); !failed {
		t.Fatalf("expected timeout to be recorded as failure")
	}
}

func TestEnqueue_DuplicatePanics(t *testing.T) {
	q := strictQueue()
	q.Enqueue(1, DeleteIdea{IdeaID: 1})
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on duplicate action id")
		}
	}()
	q.Enqueue(1, DeleteIdea{IdeaID: 2})
}

func TestApply_LogicErrorLoggedAndDropped(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	q := NewQueue(QueueOptions{Logger: zap.New(core)})
	b := committedBoard(t, "a")

	err := q.Apply(b, Outcome{Job: Job{ID: 77, Mutation: EditIdea{Idea: model.Idea{ID: 1}}}})
	if !errors.As(err, new(NotFoundError)) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if b.Len() != 1 || b.All()[0].Idea.IsPending() {
		t.Fatalf("board changed by a dropped completion")
	}
	entries := logs.FilterMessage("dropping completion").All()
	if len(entries) != 1 {
		t.Fatalf("expected one dropped-completion log, got %d", len(entries))
	}
	if entries[0].Level != zapcore.ErrorLevel {
		t.Fatalf("expected error level, got %v", entries[0].Level)
	}
}

func TestApply_StrictPanicsOnLogicError(t *testing.T) {
	q := strictQueue()
	b := New(nil)
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic")
		}
		if err, ok := r.(error); !ok || !strings.Contains(err.Error(), "not found") {
			t.Fatalf("unexpected panic value %v", r)
		}
	}()
	_ = q.Apply(b, Outcome{Job: Job{ID: 5, Mutation: InsertIdea{}}, NewID: 1})
}

func TestTake_HandsOutEachJobOnce(t *testing.T) {
	q := strictQueue()
	q.Enqueue(1, DeleteIdea{IdeaID: 1})
	q.Enqueue(2, DeleteIdea{IdeaID: 2})

	jobs := q.Take()
	if len(jobs) != 2 || jobs[0].ID != 1 || jobs[1].ID != 2 {
		t.Fatalf("unexpected jobs %+v", jobs)
	}
	if again := q.Take(); len(again) != 0 {
		t.Fatalf("jobs handed out twice: %+v", again)
	}
}

func TestForgetFailed(t *testing.T) {
	b := New(nil)
	q := strictQueue()
	be := newFakeBackend()
	be.fail["insert idea"] = true

	RequestInsertIdea(b, q, ideaNamed("x"))
	_ = q.Drain(context.Background(), b, be)
	if q.FailedCount() != 1 {
		t.Fatalf("expected one failure, got %d", q.FailedCount())
	}
	q.ForgetFailed()
	if q.FailedCount() != 0 {
		t.Fatalf("failures not forgotten")
	}
}

func TestDrain_TargetedByIdeaID(t *testing.T) {
	b := committedBoard(t, "a", "b", "c")
	q := strictQueue()
	be := newFakeBackend()
	b.Select(0)

	if _, err := RequestCommentOnIdea(b, q, 2, model.Comment{Author: "B", Content: "hi"}); err != nil {
		t.Fatalf("comment: %v", err)
	}
	if _, err := RequestDeleteIdea(b, q, 3); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := RequestDeleteIdea(b, q, 3); !errors.Is(err, ErrAlreadyPending) {
		t.Fatalf("expected ErrAlreadyPending, got %v", err)
	}
	if _, err := RequestDeleteIdea(b, q, 42); !errors.As(err, new(UnknownIdeaError)) {
		t.Fatalf("expected UnknownIdeaError, got %v", err)
	}
	if err := q.Drain(context.Background(), b, be); err != nil {
		t.Fatalf("drain: %v", err)
	}

	if diff := cmp.Diff([]string{"a", "b"}, titles(b)); diff != "" {
		t.Fatalf("titles (-want +got):\n%s", diff)
	}
	cs := b.Visible()[1].Comments
	if len(cs) != 1 || be.comments[cs[0].Value().ID].IdeaID != 2 {
		t.Fatalf("comment not stored on idea 2: %+v", cs)
	}
	mustSelected(t, b, 0)
}
