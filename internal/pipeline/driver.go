package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"streamstore/internal/logging"
	"streamstore/internal/storage"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

// ErrStreamFault marks a session aborted because the inbound stream failed
// or was cancelled before it ended.
var ErrStreamFault = errors.New("stream fault")

// Source yields the chunks of one inbound stream. Next returns io.EOF once
// the stream has ended; the sequence cannot be restarted.
type Source interface {
	Next(ctx context.Context) (Chunk, error)
}

// ReaderSource adapts an io.Reader, such as a request body, into a Source.
// Every chunk gets its own buffer so it can be handed to the worker safely.
type ReaderSource struct {
	r       io.Reader
	bufSize int
	err     error
}

// NewReaderSource reads chunks of at most bufSize bytes from r.
func NewReaderSource(r io.Reader, bufSize int) *ReaderSource {
	if bufSize <= 0 {
		bufSize = 32 * 1024
	}
	return &ReaderSource{r: r, bufSize: bufSize}
}

func (s *ReaderSource) Next(ctx context.Context) (Chunk, error) {
	if s.err != nil {
		return nil, s.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buf := make([]byte, s.bufSize)
	n, err := s.r.Read(buf)
	if err != nil {
		// Deliver the data first; the error surfaces on the next call.
		s.err = err
		if n == 0 {
			return nil, err
		}
	}
	return Chunk(buf[:n:n]), nil
}

// SliceSource replays a fixed list of chunks.
type SliceSource struct {
	chunks []Chunk
	pos    int
}

// NewSliceSource creates a source over the given chunks.
func NewSliceSource(chunks ...[]byte) *SliceSource {
	s := &SliceSource{chunks: make([]Chunk, len(chunks))}
	for i, c := range chunks {
		s.chunks[i] = Chunk(c)
	}
	return s
}

func (s *SliceSource) Next(ctx context.Context) (Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.pos >= len(s.chunks) {
		return nil, io.EOF
	}
	c := s.chunks[s.pos]
	s.pos++
	return c, nil
}

// Options configures one Run.
type Options struct {
	Label    string
	Capacity int // queue capacity K; values below one become one
	Reporter Reporter
	Observer Observer
	Open     Opener
}

// Result describes a finished session.
type Result struct {
	Label         string
	Path          string
	Received      int   // chunks read from the stream
	ReceivedBytes int64 // bytes read from the stream
	Chunks        int   // chunks written
	Bytes         int64 // bytes written
	WriteFaults   int
	// FinalizeErr is set when syncing or closing the destination failed
	// after the last chunk. It is kept apart from WriteFaults, which only
	// counts dropped chunks.
	FinalizeErr error
	Duration    time.Duration
}

// Run streams src into a new file at dest. It starts a Worker, puts every
// chunk into a queue of opts.Capacity (blocking while the queue is full),
// joins the queue once the stream ends so every chunk is on disk, and then
// cancels the worker.
//
// If the stream fails, the session is torn down, the partial file is removed
// and the returned error wraps ErrStreamFault.
func Run(ctx context.Context, src Source, dest string, opts Options) (Result, error) {
	start := time.Now()
	if opts.Reporter == nil {
		opts.Reporter = NopReporter{}
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	rep, obs, label := opts.Reporter, opts.Observer, opts.Label
	log := logging.Log.WithFields(logrus.Fields{"label": label, "path": dest})

	res := Result{Label: label, Path: dest}
	rep.Checkpoint(label, SideIngest, CheckpointStart)

	q := NewQueue(opts.Capacity)
	w := NewWorker(q, dest, WorkerOptions{
		Label:    label,
		Open:     opts.Open,
		Reporter: rep,
		Observer: obs,
	})
	if err := w.Start(ctx); err != nil {
		return res, err
	}

	collect := func() {
		stats, err := w.Wait()
		res.Chunks = stats.Chunks
		res.Bytes = stats.Bytes
		res.WriteFaults = stats.Faults
		res.Duration = time.Since(start)
		if err != nil {
			res.FinalizeErr = err
			log.Warnf("Failed to finalize destination file: %v", err)
		}
	}

	abort := func(cause error) (Result, error) {
		w.Cancel()
		q.Close()
		collect()
		if err := storage.RemoveFile(dest); err != nil {
			log.Warnf("Failed to remove partial file: %v", err)
		}
		obs.SessionFinished(OutcomeAborted, res.Bytes, res.Duration)
		log.Warnf("Upload aborted after %d chunks (%s): %v", res.Received, humanize.Bytes(uint64(res.ReceivedBytes)), cause)
		return res, fmt.Errorf("%w: %w", ErrStreamFault, cause)
	}

	for {
		rep.Checkpoint(label, SideIngest, CheckpointStreamNext)
		chunk, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return abort(err)
		}
		res.Received++
		res.ReceivedBytes += int64(len(chunk))
		obs.ChunkReceived(len(chunk))

		rep.Checkpoint(label, SideIngest, CheckpointPut)
		if err := q.Put(ctx, chunk); err != nil {
			return abort(err)
		}
		obs.QueueDepth(q.Len())
	}

	rep.Checkpoint(label, SideIngest, CheckpointJoin)
	if err := q.Join(ctx); err != nil {
		return abort(err)
	}

	rep.Checkpoint(label, SideIngest, CheckpointCancel)
	w.Cancel()
	collect()
	obs.QueueDepth(0)
	obs.SessionFinished(OutcomeCommitted, res.Bytes, res.Duration)
	rep.Checkpoint(label, SideIngest, CheckpointFinish)

	if res.WriteFaults > 0 {
		log.Warnf("Upload stored with %d failed writes; artifact is incomplete", res.WriteFaults)
	}
	log.Debugf("Stored %d chunks (%s) in %v", res.Chunks, humanize.Bytes(uint64(res.Bytes)), res.Duration)
	return res, nil
}
