package engine

import (
	"errors"
	"time"

	"fixgw/domain/session"
)

var (
	// ErrEngineBusy means the admin queue stayed full for the submission
	// timeout.
	ErrEngineBusy = errors.New("engine: admin queue full")
	// ErrTimeout means the caller stopped waiting; the command still
	// executes exactly once.
	ErrTimeout = errors.New("engine: timed out awaiting response")
)

// response is a single-assignment slot populated by the framer goroutine
// and awaited by the admin caller.
type response[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func newResponse[T any]() *response[T] {
	return &response[T]{done: make(chan struct{})}
}

func (r *response[T]) set(value T, err error) {
	r.value = value
	r.err = err
	close(r.done)
}

func (r *response[T]) await(timeout time.Duration) (T, error) {
	select {
	case <-r.done:
		return r.value, r.err
	case <-time.After(timeout):
		var zero T
		return zero, ErrTimeout
	}
}

// adminCommand is drained exclusively by the framer goroutine, strictly
// in arrival order, to exhaustion once per duty cycle.
type adminCommand interface {
	execute(f *Framer)
}

type queryLibrariesCommand struct {
	resp *response[[]LibraryInfo]
}

func (c *queryLibrariesCommand) execute(f *Framer) {
	c.resp.set(f.libraryInfos(), nil)
}

type querySessionsCommand struct {
	resp *response[[]session.Info]
}

func (c *querySessionsCommand) execute(f *Framer) {
	c.resp.set(f.sessionInfos(), nil)
}

type resetSessionIdsCommand struct {
	backupPath string
	resp       *response[struct{}]
}

func (c *resetSessionIdsCommand) execute(f *Framer) {
	c.resp.set(struct{}{}, f.resetSessionIds(c.backupPath))
}
