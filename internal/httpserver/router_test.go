package httpserver

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"streamstore/internal/api/handlers"
	"streamstore/internal/config"
	"streamstore/internal/metrics"
	"streamstore/internal/registry"
	"streamstore/internal/services"
	"streamstore/internal/storage"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	*httptest.Server
	store *services.StorageService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{Storage: config.StorageConfig{ScratchDir: t.TempDir()}}
	require.NoError(t, cfg.ParseAndValidate())

	store, err := services.NewStorageService(cfg)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	obs, err := metrics.NewPrometheusObserver("test", reg)
	require.NoError(t, err)

	uploads := services.NewUploadService(store, registry.New(), nil, services.UploadOptions{
		QueueCapacity:  cfg.Storage.QueueCapacity,
		ReadBufferSize: 3,
		Observer:       obs,
	})
	info := services.NewInfoService("test", time.Now(), cfg.Storage.QueueCapacity, store.ScratchDir)
	hk := services.NewHousekeepingService(store, uploads, time.Hour, 0)
	h := handlers.NewHandlers(info, uploads, nil, hk, nil, cfg)

	srv := httptest.NewServer(SetupRouter(h, promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, store: store}
}

func (s *testServer) get(t *testing.T, path string) (int, string) {
	t.Helper()
	resp, err := http.Get(s.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func (s *testServer) post(t *testing.T, path, body string) int {
	t.Helper()
	resp, err := http.Post(s.URL+path, "application/octet-stream", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestRoot(t *testing.T) {
	srv := newTestServer(t)
	code, body := srv.get(t, "/")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "POST and GET on /file", body)
}

func TestFileRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	code, body := srv.get(t, "/file")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "No file uploaded yet", body)

	assert.Equal(t, http.StatusCreated, srv.post(t, "/file", "AAABBCCCCD"))
	code, body = srv.get(t, "/file")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "AAABBCCCCD", body)

	t.Run("Supersession", func(t *testing.T) {
		assert.Equal(t, http.StatusCreated, srv.post(t, "/file", "second"))
		code, body := srv.get(t, "/file")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "second", body)

		files, err := storage.ListFiles(srv.store.ScratchDir)
		require.NoError(t, err)
		assert.Len(t, files, 1)
	})
}

func TestConcurrentUploadsLeaveOneArtifact(t *testing.T) {
	srv := newTestServer(t)
	const n = 8

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.Equal(t, http.StatusCreated, srv.post(t, "/file", fmt.Sprintf("payload-%d", i)))
		}(i)
	}
	wg.Wait()

	files, err := storage.ListFiles(srv.store.ScratchDir)
	require.NoError(t, err)
	require.Len(t, files, 1)

	code, body := srv.get(t, "/file")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, strings.HasPrefix(body, "payload-"))
}

func TestOperationalEndpoints(t *testing.T) {
	srv := newTestServer(t)
	assert.Equal(t, http.StatusCreated, srv.post(t, "/file", "abc"))

	code, body := srv.get(t, "/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "OK\n", body)

	code, body = srv.get(t, "/api/info")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"queue_capacity":3`)

	code, body = srv.get(t, "/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "test_sessions_total")

	assert.Equal(t, http.StatusOK, srv.post(t, "/api/housekeeping", ""))

	code, _ = srv.get(t, "/api/uploads")
	assert.Equal(t, http.StatusNotFound, code, "history routes need a history service")
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(t)
	code, body := srv.get(t, "/nope")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, body, `"error"`)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/file", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
