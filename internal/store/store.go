// Package store persists ideas and comments. SQLite is the real backend;
// Memory serves tests and throwaway sessions.
package store

import (
	"context"
	"errors"
	"fmt"

	"ideabox/internal/board"

	"go.uber.org/zap"
)

var ErrNotFound = errors.New("not found")

// Store is a board.Backend that can also load the full board.
type Store interface {
	board.Backend
	Load(ctx context.Context) ([]board.Record, error)
	Close() error
}

var (
	_ Store = (*SQLite)(nil)
	_ Store = (*Memory)(nil)
)

type notFoundError struct {
	kind string
	id   int64
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %d", e.kind, e.id)
}

func (e notFoundError) Is(target error) bool { return target == ErrNotFound }

func errNotFound(kind string, id int64) error {
	return notFoundError{kind: kind, id: id}
}

// Open returns a Memory store for path ":memory:" and a SQLite store otherwise.
func Open(ctx context.Context, path string, log *zap.Logger) (Store, error) {
	if path == MemoryPath {
		return NewMemory(), nil
	}
	return OpenSQLite(ctx, path, log)
}

// MemoryPath selects the in-process store.
const MemoryPath = ":memory:"
