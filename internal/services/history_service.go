// filepath: internal/services/history_service.go
package services

import (
	"errors"

	"streamstore/internal/models"
	"streamstore/internal/repository"
)

var _ HistoryService = (*historyService)(nil)

type historyService struct {
	Repo *repository.Repository
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(repo *repository.Repository) *historyService {
	return &historyService{Repo: repo}
}

// ListUploads returns the most recent uploads, newest first.
func (s *historyService) ListUploads(limit int) ([]models.UploadRecord, error) {
	return s.Repo.ListUploads(limit)
}

// GetUpload returns a single upload by label.
func (s *historyService) GetUpload(label string) (*models.UploadRecord, error) {
	rec, err := s.Repo.GetUpload(label)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return rec, err
}
