// filepath: internal/services/mocks/history_mock.go
package mocks

import (
	"streamstore/internal/models"
	"streamstore/internal/services"

	"github.com/stretchr/testify/mock"
)

// MockHistoryService is a mock implementation of services.HistoryService
type MockHistoryService struct {
	mock.Mock
}

var _ services.HistoryService = (*MockHistoryService)(nil)

func (m *MockHistoryService) ListUploads(limit int) ([]models.UploadRecord, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UploadRecord), args.Error(1)
}

func (m *MockHistoryService) GetUpload(label string) (*models.UploadRecord, error) {
	args := m.Called(label)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UploadRecord), args.Error(1)
}

// MockHistoryRecorder is a mock implementation of services.HistoryRecorder
type MockHistoryRecorder struct {
	mock.Mock
}

var _ services.HistoryRecorder = (*MockHistoryRecorder)(nil)

func (m *MockHistoryRecorder) CreateUpload(rec *models.UploadRecord) error {
	return m.Called(rec).Error(0)
}

func (m *MockHistoryRecorder) FinishUpload(rec *models.UploadRecord) error {
	return m.Called(rec).Error(0)
}

func (m *MockHistoryRecorder) MarkSuperseded(path string) error {
	return m.Called(path).Error(0)
}
