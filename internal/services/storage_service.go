// filepath: internal/services/storage_service.go
package services

import (
	"streamstore/internal/config"
	"streamstore/internal/storage"
)

// StorageService provides an interface for interacting with the file system.
// It wraps the 'internal/storage' package to be injectable.
type StorageService struct {
	ScratchDir string
}

// NewStorageService resolves and creates the scratch directory.
func NewStorageService(cfg *config.Config) (*StorageService, error) {
	dir, err := storage.ScratchDir(cfg.Storage.ScratchDir)
	if err != nil {
		return nil, err
	}
	return &StorageService{ScratchDir: dir}, nil
}

// ArtifactPath returns the destination file for a session label.
func (s *StorageService) ArtifactPath(label string) (string, error) {
	return storage.ArtifactPath(s.ScratchDir, label)
}

// RemoveFile deletes an artifact. A missing file is not an error.
func (s *StorageService) RemoveFile(path string) error {
	return storage.RemoveFile(path)
}

// ListFiles returns the files currently in the scratch directory.
func (s *StorageService) ListFiles() ([]storage.FileInfo, error) {
	return storage.ListFiles(s.ScratchDir)
}
