package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"ideabox/internal/board"
	"ideabox/internal/model"
)

// Memory keeps everything in process. It is safe for concurrent use.
type Memory struct {
	mu       sync.Mutex
	nextID   int64
	ideas    map[int64]model.Idea
	comments map[int64]model.Comment
}

func NewMemory(records ...board.Record) *Memory {
	m := &Memory{
		ideas:    map[int64]model.Idea{},
		comments: map[int64]model.Comment{},
	}
	for _, r := range records {
		m.ideas[r.Idea.ID] = r.Idea
		if r.Idea.ID > m.nextID {
			m.nextID = r.Idea.ID
		}
		for _, c := range r.Comments {
			m.comments[c.ID] = c
			if c.ID > m.nextID {
				m.nextID = c.ID
			}
		}
	}
	return m
}

func (m *Memory) Close() error { return nil }

func (m *Memory) Load(ctx context.Context) ([]board.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]board.Record, 0, len(m.ideas))
	idx := map[int64]int{}
	for _, it := range m.ideas {
		idx[it.ID] = len(out)
		out = append(out, board.Record{Idea: it})
	}
	for _, c := range m.comments {
		if i, ok := idx[c.IdeaID]; ok {
			out[i].Comments = append(out[i].Comments, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Idea.ID < out[j].Idea.ID })
	for i := range out {
		cs := out[i].Comments
		sort.Slice(cs, func(a, b int) bool { return cs[a].ID < cs[b].ID })
	}
	return out, nil
}

func (m *Memory) InsertIdea(ctx context.Context, idea model.Idea) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	idea.ID = m.nextID
	if idea.CreatedAt.IsZero() {
		idea.CreatedAt = time.Now().UTC()
	}
	m.ideas[idea.ID] = idea
	return idea.ID, nil
}

func (m *Memory) UpdateIdea(ctx context.Context, idea model.Idea) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.ideas[idea.ID]
	if !ok {
		return errNotFound("idea", idea.ID)
	}
	idea.CreatedAt = cur.CreatedAt
	m.ideas[idea.ID] = idea
	return nil
}

func (m *Memory) DeleteIdea(ctx context.Context, ideaID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, c := range m.comments {
		if c.IdeaID == ideaID {
			delete(m.comments, id)
		}
	}
	delete(m.ideas, ideaID)
	return nil
}

func (m *Memory) InsertComment(ctx context.Context, c model.Comment) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.ideas[c.IdeaID]; !ok {
		return 0, errNotFound("idea", c.IdeaID)
	}
	m.nextID++
	c.ID = m.nextID
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	m.comments[c.ID] = c
	return c.ID, nil
}
