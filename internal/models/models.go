// filepath: internal/models/models.go
// Package models contains the core data structures for the application.
package models

import "time"

// Info represents general information about the service.
type Info struct {
	ServiceName   string    `json:"service_name"`
	Version       string    `json:"version"`
	UptimeSince   time.Time `json:"uptime_since"`
	QueueCapacity int       `json:"queue_capacity"`
	ScratchDir    string    `json:"scratch_dir"`
}

// Upload status values stored in the history.
const (
	StatusStreaming  = "streaming"
	StatusCommitted  = "committed"
	StatusAborted    = "aborted"
	StatusSuperseded = "superseded"
)

// UploadSession is the outcome of one POST /file request.
type UploadSession struct {
	Label       string        `json:"label"`
	Path        string        `json:"path"`
	Chunks      int           `json:"chunks"`
	Bytes       int64         `json:"bytes"`
	WriteFaults int           `json:"write_faults"`
	Duration    time.Duration `json:"duration_ns"`
	Superseded  string        `json:"superseded,omitempty"`
	// FinalizeError reports a failed sync or close of the stored file.
	FinalizeError string `json:"finalize_error,omitempty"`
}

// UploadRecord is one row of the upload history.
type UploadRecord struct {
	Label       string     `json:"label"`
	Path        string     `json:"path"`
	Status      string     `json:"status"`
	Chunks      int        `json:"chunks"`
	Bytes       int64      `json:"bytes"`
	WriteFaults int        `json:"write_faults"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// HousekeepingReport summarises one orphan sweep of the scratch directory.
type HousekeepingReport struct {
	FilesRemoved    int    `json:"files_removed"`
	SpaceFreedBytes int64  `json:"space_freed_bytes"`
	Message         string `json:"message"`
}
