package board

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Job is a queued mutation and the action id of the entry it tagged.
type Job struct {
	ID       ActionID
	Mutation Mutation
}

// Outcome is the result of running a Job's backend operation. It carries no
// reference to the board and can cross goroutines freely.
type Outcome struct {
	Job
	NewID int64
	Err   error
}

type QueueOptions struct {
	// Workers bounds how many operations Drain runs at once (0 = unbounded).
	Workers int
	// Timeout bounds each backend operation (0 = none).
	Timeout time.Duration
	// Strict panics on logic errors instead of logging and dropping them.
	Strict bool
	Logger *zap.Logger
}

// Queue maps action ids to the mutations waiting to run. Each job is handed
// out exactly once.
type Queue struct {
	jobs   map[ActionID]Mutation
	order  []ActionID
	failed map[ActionID]error

	workers int
	timeout time.Duration
	strict  bool
	log     *zap.Logger
}

func NewQueue(opt QueueOptions) *Queue {
	log := opt.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Queue{
		jobs:    map[ActionID]Mutation{},
		failed:  map[ActionID]error{},
		workers: opt.Workers,
		timeout: opt.Timeout,
		strict:  opt.Strict,
		log:     log,
	}
}

// Enqueue registers m under id. Ids come from a Counter, so a duplicate is
// a programming error and panics.
func (q *Queue) Enqueue(id ActionID, m Mutation) {
	if _, dup := q.jobs[id]; dup {
		panic(fmt.Sprintf("board: action %d enqueued twice", id))
	}
	q.jobs[id] = m
	q.order = append(q.order, id)
	q.log.Debug("enqueued", zap.Uint64("action", uint64(id)), zap.String("kind", m.Kind()))
}

// Len is the number of jobs not yet taken.
func (q *Queue) Len() int { return len(q.order) }

// Take removes and returns every queued job in enqueue order.
func (q *Queue) Take() []Job {
	if len(q.order) == 0 {
		return nil
	}
	out := make([]Job, 0, len(q.order))
	for _, id := range q.order {
		out = append(out, Job{ID: id, Mutation: q.jobs[id]})
		delete(q.jobs, id)
	}
	q.order = q.order[:0]
	return out
}

// Run executes one job's backend operation. It is safe to call from any
// goroutine.
func (q *Queue) Run(ctx context.Context, be Backend, j Job) Outcome {
	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}
	start := time.Now()
	newID, err := execute(ctx, be, j.Mutation)
	q.log.Debug("operation finished",
		zap.Uint64("action", uint64(j.ID)),
		zap.String("kind", j.Mutation.Kind()),
		zap.Duration("took", time.Since(start)),
		zap.Error(err),
	)
	return Outcome{Job: j, NewID: newID, Err: err}
}

// Apply reconciles one outcome into b. A backend failure leaves the entry
// pending, is remembered for Failed and comes back as *OperationError. A
// logic error (the entry is gone) is logged and returned, or panics in
// strict mode; the board is left untouched either way.
func (q *Queue) Apply(b *Board, o Outcome) error {
	if o.Err != nil {
		q.failed[o.ID] = o.Err
		q.log.Warn("operation failed",
			zap.Uint64("action", uint64(o.ID)),
			zap.String("kind", o.Mutation.Kind()),
			zap.Error(o.Err),
		)
		return &OperationError{ActionID: o.ID, Kind: o.Mutation.Kind(), Err: o.Err}
	}
	if err := reconcile(b, o.ID, o.Mutation, o.NewID); err != nil {
		if q.strict {
			panic(err)
		}
		q.log.Error("dropping completion", zap.Uint64("action", uint64(o.ID)), zap.Error(err))
		return err
	}
	return nil
}

// Failed returns the backend error for an action whose entry is stuck
// pending.
func (q *Queue) Failed(id ActionID) (error, bool) {
	err, ok := q.failed[id]
	return err, ok
}

// FailedCount is the number of actions whose operation failed.
func (q *Queue) FailedCount() int { return len(q.failed) }

// ForgetFailed drops the failure records, for when the entries they refer
// to are discarded by a reload.
func (q *Queue) ForgetFailed() {
	q.failed = map[ActionID]error{}
}

// Drain takes every queued job, runs the operations concurrently and
// applies each outcome on the calling goroutine as it arrives. Backend
// failures are joined into the returned error; logic errors are only
// logged.
func (q *Queue) Drain(ctx context.Context, b *Board, be Backend) error {
	jobs := q.Take()
	if len(jobs) == 0 {
		return nil
	}

	results := make(chan Outcome, len(jobs))
	var g errgroup.Group
	if q.workers > 0 {
		g.SetLimit(q.workers)
	}
	go func() {
		for _, j := range jobs {
			j := j
			g.Go(func() error {
				results <- q.Run(ctx, be, j)
				return nil
			})
		}
		_ = g.Wait()
		close(results)
	}()

	var errs []error
	for o := range results {
		err := q.Apply(b, o)
		var opErr *OperationError
		if errors.As(err, &opErr) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
