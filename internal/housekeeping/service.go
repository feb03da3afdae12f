// filepath: internal/housekeeping/service.go
package housekeeping

import (
	"sync"
	"time"

	"streamstore/internal/logging"
)

// DefaultCheckInterval is used when no valid interval is configured.
const DefaultCheckInterval = 10 * time.Minute

// Service provides the background worker for automated housekeeping.
type Service struct {
	Deps     Dependencies
	Interval time.Duration
	timer    *time.Timer
	stopCh   chan struct{}
	stopOnce sync.Once
	doneCh   chan struct{}
}

// NewService creates a new housekeeping service instance.
func NewService(deps Dependencies, interval time.Duration) *Service {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	return &Service{
		Deps:     deps,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start kicks off the background housekeeping service.
func (s *Service) Start() {
	logging.Log.Info("Starting background housekeeping service.")
	s.timer = time.NewTimer(0) // Fire immediately on start

	go func() {
		defer close(s.doneCh)
		for {
			select {
			case <-s.timer.C:
				s.runChecks()
				s.timer.Reset(s.Interval)
				logging.Log.Debugf("Next housekeeping sweep scheduled in %v.", s.Interval)
			case <-s.stopCh:
				s.timer.Stop()
				return
			}
		}
	}()
}

// Stop terminates the background housekeeping service and waits for a
// sweep in progress to finish.
func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		logging.Log.Info("Stopping background housekeeping service.")
		close(s.stopCh)
	})
	if s.timer != nil {
		<-s.doneCh
	}
}

func (s *Service) runChecks() {
	report, err := RunSweep(s.Deps)
	if err != nil {
		logging.Log.Errorf("Housekeeping sweep failed: %v", err)
		return
	}
	if report.FilesRemoved > 0 {
		logging.Log.Info(report.Message)
	}
}
