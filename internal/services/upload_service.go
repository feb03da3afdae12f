// filepath: internal/services/upload_service.go
package services

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"streamstore/internal/logging"
	"streamstore/internal/models"
	"streamstore/internal/pipeline"
	"streamstore/internal/registry"

	"github.com/dustin/go-humanize"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

var _ UploadService = (*uploadService)(nil)

// UploadOptions tunes the pipeline used for each upload.
type UploadOptions struct {
	QueueCapacity  int
	ReadBufferSize int
	Reporter       pipeline.Reporter
	Observer       pipeline.Observer
}

// uploadService runs one upload session at a time and keeps the registry
// pointing at the newest committed artifact.
type uploadService struct {
	Storage  *StorageService
	Registry *registry.Registry
	History  HistoryRecorder // optional

	opts   UploadOptions
	gate   *semaphore.Weighted
	active atomic.Pointer[string]
}

// NewUploadService creates a new UploadService. history may be nil.
func NewUploadService(storage *StorageService, reg *registry.Registry, history HistoryRecorder, opts UploadOptions) *uploadService {
	return &uploadService{
		Storage:  storage,
		Registry: reg,
		History:  history,
		opts:     opts,
		gate:     semaphore.NewWeighted(1),
	}
}

// Upload streams body into a fresh file in the scratch directory. Sessions are
// serialized; a caller whose context ends while waiting gets ErrBusy.
//
// On success the new file becomes the latest artifact and the previous one is
// deleted. If the stream fails the partial file is removed, the registry is
// left untouched and the error wraps ErrStreamFault.
func (s *uploadService) Upload(ctx context.Context, body io.Reader) (*models.UploadSession, error) {
	if err := s.gate.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBusy, err)
	}
	defer s.gate.Release(1)

	label := ulid.Make().String()
	dest, err := s.Storage.ArtifactPath(label)
	if err != nil {
		return nil, fmt.Errorf("could not resolve artifact path: %w", err)
	}
	s.active.Store(&dest)
	defer s.active.Store(nil)

	log := logging.Log.WithFields(logrus.Fields{"label": label, "path": dest})
	log.Debug("Upload session started")
	s.recordStart(label, dest)

	res, err := pipeline.Run(ctx, pipeline.NewReaderSource(body, s.opts.ReadBufferSize), dest, pipeline.Options{
		Label:    label,
		Capacity: s.opts.QueueCapacity,
		Reporter: s.opts.Reporter,
		Observer: s.opts.Observer,
	})
	if err != nil {
		s.recordFinish(label, models.StatusAborted, res, err)
		return nil, err
	}
	s.recordFinish(label, models.StatusCommitted, res, res.FinalizeErr)

	session := &models.UploadSession{
		Label:       label,
		Path:        dest,
		Chunks:      res.Chunks,
		Bytes:       res.Bytes,
		WriteFaults: res.WriteFaults,
		Duration:    res.Duration,
	}
	if res.FinalizeErr != nil {
		session.FinalizeError = res.FinalizeErr.Error()
	}

	if prev, ok := s.Registry.Swap(dest); ok {
		session.Superseded = prev
		if err := s.Storage.RemoveFile(prev); err != nil {
			log.Warnf("Failed to delete superseded artifact %s: %v", prev, err)
		}
		if s.History != nil {
			if err := s.History.MarkSuperseded(prev); err != nil {
				log.Errorf("Failed to mark %s superseded in history: %v", prev, err)
			}
		}
	}

	log.WithField("write_faults", res.WriteFaults).
		Infof("Upload committed: %d chunks, %s in %v", res.Chunks, humanize.Bytes(uint64(res.Bytes)), res.Duration)
	return session, nil
}

// LatestArtifact returns the path of the newest committed artifact.
func (s *uploadService) LatestArtifact() (string, error) {
	path, ok := s.Registry.Latest()
	if !ok {
		return "", ErrNotFound
	}
	return path, nil
}

// ProtectedPaths returns the latest artifact and the destination of the
// session in progress, if any.
func (s *uploadService) ProtectedPaths() []string {
	var paths []string
	if p, ok := s.Registry.Latest(); ok {
		paths = append(paths, p)
	}
	if p := s.active.Load(); p != nil {
		paths = append(paths, *p)
	}
	return paths
}

func (s *uploadService) recordStart(label, path string) {
	if s.History == nil {
		return
	}
	err := s.History.CreateUpload(&models.UploadRecord{
		Label:     label,
		Path:      path,
		Status:    models.StatusStreaming,
		StartedAt: time.Now(),
	})
	if err != nil {
		logging.Log.WithField("label", label).Errorf("Failed to record upload start: %v", err)
	}
}

func (s *uploadService) recordFinish(label, status string, res pipeline.Result, cause error) {
	if s.History == nil {
		return
	}
	now := time.Now()
	rec := &models.UploadRecord{
		Label:       label,
		Status:      status,
		Chunks:      res.Chunks,
		Bytes:       res.Bytes,
		WriteFaults: res.WriteFaults,
		FinishedAt:  &now,
	}
	if cause != nil {
		rec.Error = cause.Error()
	}
	if err := s.History.FinishUpload(rec); err != nil {
		logging.Log.WithField("label", label).Errorf("Failed to record upload result: %v", err)
	}
}
