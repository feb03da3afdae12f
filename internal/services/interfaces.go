// filepath: internal/services/interfaces.go
package services

import (
	"context"
	"io"

	"streamstore/internal/models"
)

// Auditor defines the interface for recording client-visible events.
type Auditor interface {
	// Log records an event.
	// action: what happened (e.g., "file.upload", "housekeeping.trigger")
	// actor: who did it (remote address)
	// resource: what was affected (e.g., the session label)
	// details: structured metadata about the event
	Log(ctx context.Context, action string, actor string, resource string, details map[string]interface{})
}

// InfoService defines the interface for the info service.
type InfoService interface {
	GetInfo() models.Info
}

// UploadService defines the interface for storing and serving the artifact.
type UploadService interface {
	// Upload streams body into a new artifact and makes it the latest one.
	Upload(ctx context.Context, body io.Reader) (*models.UploadSession, error)
	// LatestArtifact returns the path of the latest artifact or ErrNotFound.
	LatestArtifact() (string, error)
	// ProtectedPaths lists the files housekeeping must never remove.
	ProtectedPaths() []string
}

// HistoryService defines the interface for reading the upload history.
type HistoryService interface {
	ListUploads(limit int) ([]models.UploadRecord, error)
	GetUpload(label string) (*models.UploadRecord, error)
}

// HousekeepingService defines the interface for the housekeeping service.
type HousekeepingService interface {
	Start()
	Stop()
	TriggerHousekeeping() (*models.HousekeepingReport, error)
}

// HistoryRecorder is the write side of the upload history.
type HistoryRecorder interface {
	CreateUpload(rec *models.UploadRecord) error
	FinishUpload(rec *models.UploadRecord) error
	MarkSuperseded(path string) error
}
