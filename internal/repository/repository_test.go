package repository

import (
	"path/filepath"
	"testing"
	"time"

	"streamstore/internal/config"
	"streamstore/internal/models"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	cfg := &config.Config{Database: config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "history.db")}}
	repo, err := NewRepository(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func setupTestDB(t *testing.T) *Repository {
	t.Helper()
	repo := newTestRepo(t)
	require.NoError(t, ConfigureGoose())
	require.NoError(t, goose.Up(repo.DB, "."))
	return repo
}

func TestValidateSchema(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.ValidateSchema()
	require.Error(t, err, "Fresh DB should be considered outdated")
	assert.Contains(t, err.Error(), "database schema is outdated")

	require.NoError(t, goose.Up(repo.DB, "."))
	assert.NoError(t, repo.ValidateSchema())
}

func TestEnsureSchemaBootstrapped(t *testing.T) {
	t.Run("Fresh Database", func(t *testing.T) {
		repo := newTestRepo(t)
		require.NoError(t, repo.EnsureSchemaBootstrapped())
		assert.NoError(t, repo.ValidateSchema())

		var tableName string
		err := repo.DB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='uploads'").Scan(&tableName)
		assert.NoError(t, err)
		assert.Equal(t, "uploads", tableName)
	})

	t.Run("Existing Database (Skip)", func(t *testing.T) {
		repo := newTestRepo(t)
		_, err := repo.DB.Exec("CREATE TABLE goose_db_version (id INTEGER PRIMARY KEY, version_id INTEGER, is_applied BOOLEAN, tstamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP);")
		require.NoError(t, err)

		require.NoError(t, repo.EnsureSchemaBootstrapped())

		var count int
		err = repo.DB.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='uploads'").Scan(&count)
		assert.NoError(t, err)
		assert.Equal(t, 0, count, "bootstrap must not touch an initialised database")
	})
}

func TestUploadLifecycle(t *testing.T) {
	repo := setupTestDB(t)
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, repo.CreateUpload(&models.UploadRecord{Label: "01A", Path: "/scratch/01A", StartedAt: started}))

	rec, err := repo.GetUpload("01A")
	require.NoError(t, err)
	assert.Equal(t, models.StatusStreaming, rec.Status)
	assert.Equal(t, started, rec.StartedAt)
	assert.Nil(t, rec.FinishedAt)

	finished := started.Add(2 * time.Second)
	require.NoError(t, repo.FinishUpload(&models.UploadRecord{
		Label: "01A", Status: models.StatusCommitted, Chunks: 5, Bytes: 10, WriteFaults: 1, FinishedAt: &finished,
	}))

	rec, err = repo.GetUpload("01A")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCommitted, rec.Status)
	assert.Equal(t, 5, rec.Chunks)
	assert.Equal(t, int64(10), rec.Bytes)
	assert.Equal(t, 1, rec.WriteFaults)
	require.NotNil(t, rec.FinishedAt)
	assert.Equal(t, finished, *rec.FinishedAt)

	require.NoError(t, repo.MarkSuperseded("/scratch/01A"))
	rec, err = repo.GetUpload("01A")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuperseded, rec.Status)
}

func TestMarkSupersededOnlyTouchesCommitted(t *testing.T) {
	repo := setupTestDB(t)
	now := time.Now()
	require.NoError(t, repo.CreateUpload(&models.UploadRecord{Label: "a", Path: "/p", StartedAt: now}))
	require.NoError(t, repo.FinishUpload(&models.UploadRecord{Label: "a", Status: models.StatusAborted, Error: "stream fault"}))

	require.NoError(t, repo.MarkSuperseded("/p"))
	rec, err := repo.GetUpload("a")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAborted, rec.Status)
	assert.Equal(t, "stream fault", rec.Error)
}

func TestGetUploadNotFound(t *testing.T) {
	repo := setupTestDB(t)
	_, err := repo.GetUpload("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.FinishUpload(&models.UploadRecord{Label: "missing", Status: models.StatusCommitted}), ErrNotFound)
}

func TestListUploads(t *testing.T) {
	repo := setupTestDB(t)
	base := time.Now()
	for i, label := range []string{"first", "second", "third"} {
		require.NoError(t, repo.CreateUpload(&models.UploadRecord{
			Label: label, Path: "/p/" + label, StartedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	recs, err := repo.ListUploads(2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "third", recs[0].Label)
	assert.Equal(t, "second", recs[1].Label)

	t.Run("Cache Is Invalidated On Write", func(t *testing.T) {
		require.NoError(t, repo.CreateUpload(&models.UploadRecord{Label: "fourth", Path: "/p/fourth", StartedAt: base.Add(time.Hour)}))
		recs, err := repo.ListUploads(2)
		require.NoError(t, err)
		assert.Equal(t, "fourth", recs[0].Label)
	})

	t.Run("Empty History", func(t *testing.T) {
		repo := setupTestDB(t)
		recs, err := repo.ListUploads(10)
		require.NoError(t, err)
		assert.NotNil(t, recs)
		assert.Empty(t, recs)

		cached, err := repo.ListUploads(10)
		require.NoError(t, err)
		assert.NotNil(t, cached, "cache hit must not turn an empty history into nil")
	})
}

func TestDatabaseFiles(t *testing.T) {
	assert.Equal(t,
		[]string{"/data/s.db", "/data/s.db-wal", "/data/s.db-shm", "/data/s.db-journal"},
		DatabaseFiles("/data/s.db"))
	assert.Nil(t, DatabaseFiles(""))
}
