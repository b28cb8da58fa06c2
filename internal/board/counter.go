package board

import "sync/atomic"

// ActionID correlates a pending entry with its in-flight backend operation.
// It is local to the process and never persisted.
type ActionID uint64

// Counter issues strictly increasing action ids. The zero value is ready to
// use and the first id it returns is 1. Ids are never reused, even when the
// operation they tagged fails.
type Counter struct {
	n atomic.Uint64
}

// Next issues a fresh id.
func (c *Counter) Next() ActionID {
	return ActionID(c.n.Add(1))
}

// Peek returns the most recently issued id (0 if none).
func (c *Counter) Peek() ActionID {
	return ActionID(c.n.Load())
}
