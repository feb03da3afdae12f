// filepath: internal/repository/upload_repo.go
package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"streamstore/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/patrickmn/go-cache"
)

var uploadColumns = []string{
	"label", "path", "status", "chunks", "bytes", "write_faults", "started_at", "finished_at", "error",
}

// CreateUpload records the start of a session.
func (r *Repository) CreateUpload(rec *models.UploadRecord) error {
	status := rec.Status
	if status == "" {
		status = models.StatusStreaming
	}
	query, args, err := r.Builder.Insert("uploads").
		Columns("label", "path", "status", "started_at").
		Values(rec.Label, rec.Path, status, rec.StartedAt.UnixNano()).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}
	if _, err := r.DB.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to insert upload %s: %w", rec.Label, err)
	}
	r.Cache.Flush()
	return nil
}

// FinishUpload stores the final counters and status of a session.
func (r *Repository) FinishUpload(rec *models.UploadRecord) error {
	finished := time.Now()
	if rec.FinishedAt != nil {
		finished = *rec.FinishedAt
	}
	query, args, err := r.Builder.Update("uploads").
		Set("status", rec.Status).
		Set("chunks", rec.Chunks).
		Set("bytes", rec.Bytes).
		Set("write_faults", rec.WriteFaults).
		Set("finished_at", finished.UnixNano()).
		Set("error", rec.Error).
		Where(squirrel.Eq{"label": rec.Label}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}
	res, err := r.DB.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update upload %s: %w", rec.Label, err)
	}
	r.Cache.Flush()
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkSuperseded flags the committed upload stored at path as replaced.
func (r *Repository) MarkSuperseded(path string) error {
	query, args, err := r.Builder.Update("uploads").
		Set("status", models.StatusSuperseded).
		Where(squirrel.Eq{"path": path, "status": models.StatusCommitted}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}
	if _, err := r.DB.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to mark %s superseded: %w", path, err)
	}
	r.Cache.Flush()
	return nil
}

// GetUpload returns a single upload by label.
func (r *Repository) GetUpload(label string) (*models.UploadRecord, error) {
	query, args, err := r.Builder.Select(uploadColumns...).
		From("uploads").
		Where(squirrel.Eq{"label": label}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}
	rec, err := scanUpload(r.DB.QueryRow(query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListUploads returns the most recent uploads, newest first.
func (r *Repository) ListUploads(limit int) ([]models.UploadRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	key := fmt.Sprintf("uploads:%d", limit)
	if cached, ok := r.Cache.Get(key); ok {
		return cloneRecords(cached.([]models.UploadRecord)), nil
	}

	query, args, err := r.Builder.Select(uploadColumns...).
		From("uploads").
		OrderBy("started_at DESC", "label DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query uploads: %w", err)
	}
	defer rows.Close()

	records := []models.UploadRecord{}
	for rows.Next() {
		rec, err := scanUpload(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	r.Cache.Set(key, records, cache.DefaultExpiration)
	return cloneRecords(records), nil
}

// cloneRecords copies a cached slice. The result is never nil so an empty
// history encodes as [] rather than null.
func cloneRecords(records []models.UploadRecord) []models.UploadRecord {
	return append(make([]models.UploadRecord, 0, len(records)), records...)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUpload(row rowScanner) (*models.UploadRecord, error) {
	var (
		rec      models.UploadRecord
		started  int64
		finished sql.NullInt64
	)
	if err := row.Scan(&rec.Label, &rec.Path, &rec.Status, &rec.Chunks, &rec.Bytes,
		&rec.WriteFaults, &started, &finished, &rec.Error); err != nil {
		return nil, err
	}
	rec.StartedAt = time.Unix(0, started).UTC()
	if finished.Valid {
		t := time.Unix(0, finished.Int64).UTC()
		rec.FinishedAt = &t
	}
	return &rec, nil
}
