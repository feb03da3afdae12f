package pipeline

import "time"

// Observer captures telemetry for pipeline sessions.
type Observer interface {
	ChunkReceived(bytes int)
	ChunkWritten(bytes int, duration time.Duration)
	WriteFault()
	QueueDepth(depth int)
	SessionFinished(outcome string, bytes int64, duration time.Duration)
}

// Session outcomes passed to Observer.SessionFinished.
const (
	OutcomeCommitted = "committed"
	OutcomeAborted   = "aborted"
)

type nopObserver struct{}

func (nopObserver) ChunkReceived(int) {}
func (nopObserver) ChunkWritten(int, time.Duration) {}
func (nopObserver) WriteFault() {}
func (nopObserver) QueueDepth(int) {}
func (nopObserver) SessionFinished(string, int64, time.Duration) {}
