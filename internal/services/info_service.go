// filepath: internal/services/info_service.go
package services

import (
	"time"

	"streamstore/internal/models"
)

var _ InfoService = (*infoService)(nil)

type infoService struct {
	Version       string
	StartTime     time.Time
	QueueCapacity int
	ScratchDir    string
}

// NewInfoService creates a new InfoService.
func NewInfoService(version string, startTime time.Time, queueCapacity int, scratchDir string) *infoService {
	return &infoService{
		Version:       version,
		StartTime:     startTime,
		QueueCapacity: queueCapacity,
		ScratchDir:    scratchDir,
	}
}

// GetInfo retrieves the application information.
func (s *infoService) GetInfo() models.Info {
	return models.Info{
		ServiceName:   "streamstore",
		Version:       s.Version,
		UptimeSince:   s.StartTime,
		QueueCapacity: s.QueueCapacity,
		ScratchDir:    s.ScratchDir,
	}
}
