package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"streamstore/internal/logging"
	"streamstore/internal/storage"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Sink is the destination a Worker appends chunks to.
type Sink interface {
	io.Writer
	io.Closer
}

// Opener opens the destination for exclusive sequential writing.
type Opener func(path string) (Sink, error)

func openFile(path string) (Sink, error) {
	f, err := storage.OpenExclusive(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// WorkerOptions configures a Worker. Zero values select defaults.
type WorkerOptions struct {
	Label    string
	Open     Opener
	Reporter Reporter
	Observer Observer
}

// WriteResult is the outcome of writing one chunk.
type WriteResult struct {
	Seq   int
	Bytes int
	Err   error
}

// WorkerStats summarises what a Worker wrote.
type WorkerStats struct {
	Chunks int   // chunks written successfully
	Bytes  int64 // bytes written successfully
	Faults int   // chunks dropped after a failed write
}

// Worker drains a Queue into one file, in arrival order, until cancelled.
// It cannot see the end of the stream, only an empty queue, so the producer
// must Join the queue and then Cancel the worker.
type Worker struct {
	queue *Queue
	path  string
	opts  WorkerOptions

	sink   Sink
	group  *errgroup.Group
	cancel context.CancelFunc
	stats  WorkerStats

	cancelOnce sync.Once
	waitOnce   sync.Once
	waitErr    error
}

// NewWorker creates a worker for the given queue and destination path.
func NewWorker(q *Queue, path string, opts WorkerOptions) *Worker {
	if opts.Open == nil {
		opts.Open = openFile
	}
	if opts.Reporter == nil {
		opts.Reporter = NopReporter{}
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	return &Worker{queue: q, path: path, opts: opts}
}

// Start opens the destination and launches the drain loop. An open failure
// is returned directly and no goroutine is started.
func (w *Worker) Start(ctx context.Context) error {
	sink, err := w.opts.Open(w.path)
	if err != nil {
		return fmt.Errorf("open destination %s: %w", w.path, err)
	}
	w.sink = sink

	ctx, w.cancel = context.WithCancel(ctx)
	w.group, ctx = errgroup.WithContext(ctx)
	w.group.Go(func() error { return w.drain(ctx) })
	return nil
}

// Cancel asks the drain loop to stop. Cancellation is only observed while the
// loop waits in Take, so a write in progress always completes. Idempotent.
func (w *Worker) Cancel() {
	w.cancelOnce.Do(func() {
		if w.cancel != nil {
			w.cancel()
		}
	})
}

// Wait blocks until the drain loop has exited, then syncs and closes the
// destination. It must follow Cancel (or a Close of the queue); the loop never
// ends on its own.
func (w *Worker) Wait() (WorkerStats, error) {
	w.waitOnce.Do(func() {
		if w.group == nil {
			return
		}
		loopErr := w.group.Wait()

		var syncErr error
		if s, ok := w.sink.(interface{ Sync() error }); ok {
			syncErr = s.Sync()
		}
		closeErr := w.sink.Close()
		w.waitErr = errors.Join(loopErr, syncErr, closeErr)
	})
	return w.stats, w.waitErr
}

func (w *Worker) drain(ctx context.Context) error {
	for seq := 0; ; seq++ {
		w.opts.Reporter.Checkpoint(w.opts.Label, SidePersist, CheckpointGet)
		chunk, err := w.queue.Take(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, ErrQueueClosed) {
				return nil
			}
			return err
		}

		w.opts.Reporter.Checkpoint(w.opts.Label, SidePersist, CheckpointWrite)
		switch res := w.write(seq, chunk); {
		case res.Err == nil:
			w.stats.Chunks++
			w.stats.Bytes += int64(res.Bytes)
		default:
			// Best effort: the chunk is lost from the file, the session goes on.
			w.stats.Faults++
			w.opts.Observer.WriteFault()
			logging.Log.WithFields(logrus.Fields{
				"label": w.opts.Label,
				"path":  w.path,
				"seq":   res.Seq,
				"bytes": len(chunk),
			}).Warnf("Failed to write chunk, dropping it: %v", res.Err)
		}

		w.opts.Reporter.Checkpoint(w.opts.Label, SidePersist, CheckpointTaskDone)
		if err := w.queue.Done(); err != nil {
			return err
		}
	}
}

func (w *Worker) write(seq int, chunk Chunk) WriteResult {
	start := time.Now()
	n, err := w.sink.Write(chunk)
	if err == nil && n != len(chunk) {
		err = io.ErrShortWrite
	}
	if err == nil {
		w.opts.Observer.ChunkWritten(n, time.Since(start))
	}
	return WriteResult{Seq: seq, Bytes: n, Err: err}
}
