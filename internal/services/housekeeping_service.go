// filepath: internal/services/housekeeping_service.go
package services

import (
	"time"

	"streamstore/internal/housekeeping"
	"streamstore/internal/models"
)

var _ HousekeepingService = (*housekeepingService)(nil)

// housekeepingService manages the lifecycle of the background orphan sweeper
// and provides a method for manual triggering.
type housekeepingService struct {
	interval   time.Duration
	worker     *housekeeping.Service
	workerDeps housekeeping.Dependencies
}

// NewHousekeepingService creates a new HousekeepingService. Files in the
// scratch directory are swept unless uploads reports them as protected or
// they are listed in reserved.
func NewHousekeepingService(storage *StorageService, uploads UploadService, interval, minAge time.Duration, reserved ...string) *housekeepingService {
	return &housekeepingService{
		interval: interval,
		workerDeps: housekeeping.Dependencies{
			Storage:  storage,
			Guard:    uploads,
			MinAge:   minAge,
			Reserved: reserved,
		},
	}
}

// Start begins the background housekeeping worker.
func (s *housekeepingService) Start() {
	s.worker = housekeeping.NewService(s.workerDeps, s.interval)
	s.worker.Start()
}

// Stop terminates the background housekeeping worker.
func (s *housekeepingService) Stop() {
	if s.worker != nil {
		s.worker.Stop()
	}
}

// TriggerHousekeeping runs one sweep immediately.
func (s *housekeepingService) TriggerHousekeeping() (*models.HousekeepingReport, error) {
	return housekeeping.RunSweep(s.workerDeps)
}
