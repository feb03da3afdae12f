package services_test

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"streamstore/internal/config"
	"streamstore/internal/models"
	"streamstore/internal/registry"
	"streamstore/internal/services"
	"streamstore/internal/services/mocks"
	"streamstore/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestUploadService(t *testing.T, history services.HistoryRecorder) (services.UploadService, *services.StorageService) {
	t.Helper()
	store, err := services.NewStorageService(&config.Config{Storage: config.StorageConfig{ScratchDir: t.TempDir()}})
	require.NoError(t, err)
	svc := services.NewUploadService(store, registry.New(), history, services.UploadOptions{
		QueueCapacity:  3,
		ReadBufferSize: 4,
	})
	return svc, store
}

// brokenBody yields data and then fails like a dropped connection.
type brokenBody struct {
	data string
	done bool
}

func (b *brokenBody) Read(p []byte) (int, error) {
	if b.done {
		return 0, errors.New("connection reset by peer")
	}
	b.done = true
	return copy(p, b.data), nil
}

func TestUpload_StoresBody(t *testing.T) {
	svc, _ := newTestUploadService(t, nil)

	session, err := svc.Upload(context.Background(), strings.NewReader("AAABBCCCCD"))
	require.NoError(t, err)
	assert.Equal(t, int64(10), session.Bytes)
	assert.Zero(t, session.WriteFaults)
	assert.Empty(t, session.Superseded)

	latest, err := svc.LatestArtifact()
	require.NoError(t, err)
	assert.Equal(t, session.Path, latest)

	data, err := os.ReadFile(latest)
	require.NoError(t, err)
	assert.Equal(t, "AAABBCCCCD", string(data))
}

func TestUpload_EmptyBody(t *testing.T) {
	svc, _ := newTestUploadService(t, nil)

	session, err := svc.Upload(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, session.Chunks)

	info, err := os.Stat(session.Path)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestUpload_SingleArtifact(t *testing.T) {
	svc, store := newTestUploadService(t, nil)
	payloads := []string{"first", "second upload", "third and last"}

	var prev string
	for _, p := range payloads {
		session, err := svc.Upload(context.Background(), strings.NewReader(p))
		require.NoError(t, err)
		assert.Equal(t, prev, session.Superseded)
		prev = session.Path

		files, err := storage.ListFiles(store.ScratchDir)
		require.NoError(t, err)
		require.Len(t, files, 1, "exactly one artifact after each upload")
		assert.Equal(t, session.Path, files[0].Path)
	}

	latest, err := svc.LatestArtifact()
	require.NoError(t, err)
	data, err := os.ReadFile(latest)
	require.NoError(t, err)
	assert.Equal(t, "third and last", string(data))
}

func TestUpload_StreamFaultKeepsPrevious(t *testing.T) {
	svc, store := newTestUploadService(t, nil)

	first, err := svc.Upload(context.Background(), strings.NewReader("keep me"))
	require.NoError(t, err)

	_, err = svc.Upload(context.Background(), &brokenBody{data: "partial"})
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrStreamFault)

	latest, err := svc.LatestArtifact()
	require.NoError(t, err)
	assert.Equal(t, first.Path, latest)

	files, err := storage.ListFiles(store.ScratchDir)
	require.NoError(t, err)
	require.Len(t, files, 1, "partial file is removed")
	data, err := os.ReadFile(latest)
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(data))
}

func TestUpload_Serialized(t *testing.T) {
	svc, _ := newTestUploadService(t, nil)

	pr, pw := io.Pipe()
	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.Upload(context.Background(), pr)
		firstDone <- err
	}()
	_, err := pw.Write([]byte("slow"))
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return len(svc.ProtectedPaths()) == 1 }, time.Second, 5*time.Millisecond,
		"the active destination is protected while streaming")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = svc.Upload(ctx, strings.NewReader("impatient"))
	assert.ErrorIs(t, err, services.ErrBusy)

	require.NoError(t, pw.Close())
	select {
	case err := <-firstDone:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("first upload never finished")
	}

	latest, err := svc.LatestArtifact()
	require.NoError(t, err)
	assert.Equal(t, []string{latest}, svc.ProtectedPaths())
}

func TestLatestArtifact_Empty(t *testing.T) {
	svc, _ := newTestUploadService(t, nil)
	_, err := svc.LatestArtifact()
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.Empty(t, svc.ProtectedPaths())
}

func TestUpload_RecordsHistory(t *testing.T) {
	history := new(mocks.MockHistoryRecorder)
	svc, _ := newTestUploadService(t, history)

	history.On("CreateUpload", mock.MatchedBy(func(r *models.UploadRecord) bool {
		return r.Status == models.StatusStreaming && r.Label != ""
	})).Return(nil)
	history.On("FinishUpload", mock.MatchedBy(func(r *models.UploadRecord) bool {
		return r.Status == models.StatusCommitted && r.FinishedAt != nil
	})).Return(nil)

	first, err := svc.Upload(context.Background(), strings.NewReader("one"))
	require.NoError(t, err)

	history.On("MarkSuperseded", first.Path).Return(errors.New("database is locked"))
	_, err = svc.Upload(context.Background(), strings.NewReader("two"))
	require.NoError(t, err, "history failures never fail an upload")

	history.On("FinishUpload", mock.MatchedBy(func(r *models.UploadRecord) bool {
		return r.Status == models.StatusAborted && r.Error != ""
	})).Return(nil)
	_, err = svc.Upload(context.Background(), &brokenBody{data: "x"})
	require.Error(t, err)

	history.AssertNumberOfCalls(t, "CreateUpload", 3)
	history.AssertNumberOfCalls(t, "FinishUpload", 3)
	history.AssertCalled(t, "MarkSuperseded", first.Path)
}
