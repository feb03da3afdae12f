// Package pipeline moves a request body to disk through a bounded
// producer/consumer hand-off. The ingest side reads chunks from a Source and
// puts them into a Queue; a Worker takes them in FIFO order and appends them
// to the destination file. The queue capacity is the only flow control: a slow
// writer stalls the reader once the queue is full, and a slow reader leaves the
// writer blocked in Take.
package pipeline

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrQueueClosed is returned by blocked or subsequent queue calls after Close.
	ErrQueueClosed = errors.New("queue closed")
	// ErrTooManyDone is returned when Done is called more times than items were put.
	ErrTooManyDone = errors.New("queue: Done called more times than Put")
)

// Chunk is one unit of bytes received from the stream. It is not modified
// after it is put; the consumer owns it once taken.
type Chunk []byte

// Queue is a fixed-capacity FIFO of chunks connecting one producer to one consumer.
// Besides Put and Take it tracks unfinished items so the producer can Join
// until every chunk it handed over has been processed.
type Queue struct {
	items chan Chunk

	mu         sync.Mutex
	unfinished int
	drained    chan struct{} // closed whenever unfinished == 0

	closed    chan struct{}
	closeOnce sync.Once
}

// NewQueue creates a queue holding at most capacity chunks. Capacities below
// one are raised to one.
func NewQueue(capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	drained := make(chan struct{})
	close(drained)
	return &Queue{
		items:   make(chan Chunk, capacity),
		drained: drained,
		closed:  make(chan struct{}),
	}
}

// Put blocks until a slot is free and stores the chunk.
func (q *Queue) Put(ctx context.Context, c Chunk) error {
	select {
	case <-q.closed:
		return ErrQueueClosed
	default:
	}

	q.acquire()
	select {
	case q.items <- c:
		return nil
	case <-ctx.Done():
		q.release()
		return ctx.Err()
	case <-q.closed:
		q.release()
		return ErrQueueClosed
	}
}

// Take blocks until a chunk is available and removes the oldest one.
func (q *Queue) Take(ctx context.Context) (Chunk, error) {
	select {
	case c := <-q.items:
		return c, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-q.closed:
		return nil, ErrQueueClosed
	}
}

// Done marks one taken chunk as fully processed.
func (q *Queue) Done() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.unfinished == 0 {
		return ErrTooManyDone
	}
	q.unfinished--
	if q.unfinished == 0 {
		close(q.drained)
	}
	return nil
}

// Join blocks until every chunk ever put has been taken and marked done.
func (q *Queue) Join(ctx context.Context) error {
	q.mu.Lock()
	drained := q.drained
	q.mu.Unlock()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-q.closed:
		return ErrQueueClosed
	}
}

// Close tears the queue down. Calls blocked in Put, Take or Join return
// ErrQueueClosed. Safe to call more than once.
func (q *Queue) Close() {
	q.closeOnce.Do(func() { close(q.closed) })
}

// Len reports the number of buffered chunks.
func (q *Queue) Len() int { return len(q.items) }

// Cap reports the fixed capacity.
func (q *Queue) Cap() int { return cap(q.items) }

// Unfinished reports chunks put but not yet marked done, including ones a
// producer is currently blocked on.
func (q *Queue) Unfinished() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.unfinished
}

func (q *Queue) acquire() {
	q.mu.Lock()
	if q.unfinished == 0 {
		q.drained = make(chan struct{})
	}
	q.unfinished++
	q.mu.Unlock()
}

// release undoes acquire for a put that never landed.
func (q *Queue) release() {
	q.mu.Lock()
	q.unfinished--
	if q.unfinished == 0 {
		close(q.drained)
	}
	q.mu.Unlock()
}
