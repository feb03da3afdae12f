// filepath: internal/services/mocks/upload_mock.go
package mocks

import (
	"context"
	"io"

	"streamstore/internal/models"
	"streamstore/internal/services"

	"github.com/stretchr/testify/mock"
)

// MockUploadService is a mock implementation of services.UploadService
type MockUploadService struct {
	mock.Mock
}

var _ services.UploadService = (*MockUploadService)(nil)

func (m *MockUploadService) Upload(ctx context.Context, body io.Reader) (*models.UploadSession, error) {
	args := m.Called(ctx, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UploadSession), args.Error(1)
}

func (m *MockUploadService) LatestArtifact() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockUploadService) ProtectedPaths() []string {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}
