package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memSink collects writes in memory and can fail selected writes.
type memSink struct {
	mu       sync.Mutex
	buf      bytes.Buffer
	writes   int
	failAt   map[int]bool
	closed   bool
	closeErr error
	started  chan struct{} // signalled when a write begins, if set
	release  chan struct{} // write waits on it, if set
}

func (s *memSink) Write(p []byte) (int, error) {
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.release != nil {
		<-s.release
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	seq := s.writes
	s.writes++
	if s.failAt[seq] {
		return 0, errors.New("disk full")
	}
	return s.buf.Write(p)
}

func (s *memSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return s.closeErr
}

func (s *memSink) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func openSink(s *memSink) Opener {
	return func(string) (Sink, error) { return s, nil }
}

func TestWorker_WritesInOrder(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "artifact")
	q := NewQueue(3)
	w := NewWorker(q, path, WorkerOptions{Label: "test"})
	require.NoError(t, w.Start(ctx))

	for _, s := range []string{"one-", "two-", "three"} {
		require.NoError(t, q.Put(ctx, Chunk(s)))
	}
	require.NoError(t, q.Join(ctx))
	w.Cancel()
	stats, err := w.Wait()
	require.NoError(t, err)

	assert.Equal(t, WorkerStats{Chunks: 3, Bytes: 13}, stats)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one-two-three", string(data))
}

func TestWorker_WriteFaultIsSkipped(t *testing.T) {
	ctx := context.Background()
	sink := &memSink{failAt: map[int]bool{1: true}}
	q := NewQueue(2)
	w := NewWorker(q, "ignored", WorkerOptions{Open: openSink(sink)})
	require.NoError(t, w.Start(ctx))

	for _, s := range []string{"A", "B", "C"} {
		require.NoError(t, q.Put(ctx, Chunk(s)))
	}
	require.NoError(t, q.Join(ctx), "a failed write still marks the item done")
	w.Cancel()
	stats, err := w.Wait()
	require.NoError(t, err)

	assert.Equal(t, "AC", sink.String())
	assert.Equal(t, 2, stats.Chunks)
	assert.Equal(t, 1, stats.Faults)
	assert.True(t, sink.closed)
}

func TestWorker_OpenFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taken")
	require.NoError(t, os.WriteFile(path, []byte("existing"), 0644))

	w := NewWorker(NewQueue(1), path, WorkerOptions{})
	err := w.Start(context.Background())
	assert.Error(t, err)

	// Cancel and Wait are safe on a worker that never started.
	w.Cancel()
	stats, err := w.Wait()
	assert.NoError(t, err)
	assert.Equal(t, WorkerStats{}, stats)

	data, _ := os.ReadFile(path)
	assert.Equal(t, "existing", string(data), "an existing file is never truncated")
}

func TestWorker_CancelDoesNotInterruptWrite(t *testing.T) {
	ctx := context.Background()
	sink := &memSink{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	q := NewQueue(1)
	w := NewWorker(q, "ignored", WorkerOptions{Open: openSink(sink)})
	require.NoError(t, w.Start(ctx))

	require.NoError(t, q.Put(ctx, Chunk("in-flight")))
	select {
	case <-sink.started:
	case <-time.After(time.Second):
		t.Fatal("worker never started writing")
	}

	w.Cancel()
	w.Cancel() // idempotent

	waited := make(chan struct{})
	var stats WorkerStats
	go func() {
		stats, _ = w.Wait()
		close(waited)
	}()

	select {
	case <-waited:
		t.Fatal("Wait returned while a write was in progress")
	case <-time.After(blockWindow):
	}

	close(sink.release)
	select {
	case <-waited:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after the write finished")
	}
	assert.Equal(t, 1, stats.Chunks)
	assert.Equal(t, "in-flight", sink.String())
}

func TestWorker_StopsOnParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sink := &memSink{}
	w := NewWorker(NewQueue(1), "ignored", WorkerOptions{Open: openSink(sink)})
	require.NoError(t, w.Start(ctx))

	cancel()
	done := make(chan struct{})
	go func() {
		_, _ = w.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker ignored parent cancellation")
	}
	assert.True(t, sink.closed)
}
