package board

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ideabox/internal/model"
)

var errBackendDown = errors.New("backend down")

// fakeBackend hands out sequential ids and fails whatever kinds are listed
// in fail.
type fakeBackend struct {
	mu     sync.Mutex
	nextID int64
	fail   map[string]bool
	delay  time.Duration

	ideas    map[int64]model.Idea
	comments map[int64]model.Comment
	calls    []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		nextID:   100,
		fail:     map[string]bool{},
		ideas:    map[int64]model.Idea{},
		comments: map[int64]model.Comment{},
	}
}

func (f *fakeBackend) wait(ctx context.Context) error {
	if f.delay <= 0 {
		return nil
	}
	select {
	case <-time.After(f.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeBackend) InsertIdea(ctx context.Context, idea model.Idea) (int64, error) {
	if err := f.wait(ctx); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "insert idea")
	if f.fail["insert idea"] {
		return 0, errBackendDown
	}
	f.nextID++
	idea.ID = f.nextID
	f.ideas[idea.ID] = idea
	return idea.ID, nil
}

func (f *fakeBackend) UpdateIdea(ctx context.Context, idea model.Idea) error {
	if err := f.wait(ctx); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "edit idea")
	if f.fail["edit idea"] {
		return errBackendDown
	}
	f.ideas[idea.ID] = idea
	return nil
}

func (f *fakeBackend) DeleteIdea(ctx context.Context, ideaID int64) error {
	if err := f.wait(ctx); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "delete idea")
	if f.fail["delete idea"] {
		return errBackendDown
	}
	delete(f.ideas, ideaID)
	return nil
}

func (f *fakeBackend) InsertComment(ctx context.Context, c model.Comment) (int64, error) {
	if err := f.wait(ctx); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "insert comment")
	if f.fail["insert comment"] {
		return 0, errBackendDown
	}
	f.nextID++
	c.ID = f.nextID
	f.comments[c.ID] = c
	return c.ID, nil
}

func committedBoard(t *testing.T, titles ...string) *Board {
	t.Helper()
	base := time.Date(2024, 9, 14, 9, 0, 0, 0, time.UTC)
	records := make([]Record, 0, len(titles))
	for i, title := range titles {
		records = append(records, Record{Idea: model.Idea{
			ID:        int64(i + 1),
			Title:     title,
			Author:    "A",
			Kind:      model.KindIssue,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}})
	}
	return New(records)
}

func titles(b *Board) []string {
	var out []string
	for _, e := range b.Visible() {
		out = append(out, e.Idea.Value().Title)
	}
	return out
}

func mustSelected(t *testing.T, b *Board, want int) {
	t.Helper()
	got, ok := b.Selected()
	if !ok {
		t.Fatalf("expected selection %d, got none", want)
	}
	if got != want {
		t.Fatalf("expected selection %d, got %d", want, got)
	}
}

func mustNoSelection(t *testing.T, b *Board) {
	t.Helper()
	if got, ok := b.Selected(); ok {
		t.Fatalf("expected no selection, got %d", got)
	}
}

func strictQueue() *Queue {
	return NewQueue(QueueOptions{Strict: true})
}

func ideaNamed(title string) model.Idea {
	return model.Idea{Title: title, Author: "A", Kind: model.KindIssue, CreatedAt: time.Now().UTC()}
}

