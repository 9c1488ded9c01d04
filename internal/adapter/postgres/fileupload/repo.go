// Package fileupload implements read-side access to the file collaborator's
// upload records. The moderation core only consumes the scan verdict.
package fileupload

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/opencatechism/catechesis-backend/internal/adapter/postgres"
	"github.com/opencatechism/catechesis-backend/internal/domain"
)

// Repo provides file upload reads backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new file upload repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const getByIDSQL = `
SELECT id, uploader_id, upload_type, file_path, file_size_bytes, mime_type, scan_status, created_at
FROM file_uploads WHERE id = $1`

// GetByID returns an upload record by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.FileUpload, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		f          domain.FileUpload
		uploadType string
	)
	err := querier.QueryRow(ctx, getByIDSQL, id).Scan(
		&f.ID, &f.UploaderID, &uploadType, &f.FilePath, &f.FileSizeBytes,
		&f.MimeType, &f.ScanStatus, &f.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "file_upload", id)
	}
	f.UploadType = domain.ContentType(uploadType)
	return &f, nil
}
