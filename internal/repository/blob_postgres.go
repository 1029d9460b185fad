package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/set-night/shopassist/internal/domain"
)

// PostgresBlobStore keeps blobs in the blobs table.
type PostgresBlobStore struct {
	db        *pgxpool.Pool
	publicURL string
}

func NewPostgresBlobStore(db *pgxpool.Pool, publicURL string) *PostgresBlobStore {
	return &PostgresBlobStore{db: db, publicURL: publicURL}
}

const upsertBlob = `
INSERT INTO blobs (category, name, content_type, data)
VALUES ($1, $2, $3, $4)
ON CONFLICT (category, name)
DO UPDATE SET content_type = EXCLUDED.content_type, data = EXCLUDED.data, created_at = now()`

func (s *PostgresBlobStore) Upload(ctx context.Context, clip domain.AudioClip, category string) (string, error) {
	if len(clip.Data) == 0 {
		return "", domain.ErrEmptyBlob
	}
	if err := validateKey(category, clip.Name); err != nil {
		return "", err
	}

	if _, err := s.db.Exec(ctx, upsertBlob, category, clip.Name, contentTypeOr(clip), clip.Data); err != nil {
		return "", fmt.Errorf("insert blob: %w", err)
	}
	return BlobURL(s.publicURL, category, clip.Name), nil
}

const listBlobs = `
SELECT name, content_type, octet_length(data), created_at
FROM blobs
WHERE category = $1
ORDER BY created_at, name`

func (s *PostgresBlobStore) List(ctx context.Context, category string) ([]domain.BlobObject, error) {
	rows, err := s.db.Query(ctx, listBlobs, category)
	if err != nil {
		return nil, fmt.Errorf("list blobs: %w", err)
	}

	objects, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.BlobObject, error) {
		obj := domain.BlobObject{Category: category}
		if err := row.Scan(&obj.Name, &obj.ContentType, &obj.Size, &obj.CreatedAt); err != nil {
			return obj, err
		}
		obj.URL = BlobURL(s.publicURL, category, obj.Name)
		return obj, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan blobs: %w", err)
	}
	return objects, nil
}

func (s *PostgresBlobStore) Delete(ctx context.Context, category, name string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM blobs WHERE category = $1 AND name = $2`, category, name)
	if err != nil {
		return fmt.Errorf("delete blob: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBlobNotFound
	}
	return nil
}

const getBlob = `
SELECT content_type, data, created_at
FROM blobs
WHERE category = $1 AND name = $2`

func (s *PostgresBlobStore) Open(ctx context.Context, category, name string) (domain.BlobObject, []byte, error) {
	obj := domain.BlobObject{Category: category, Name: name}
	var data []byte
	err := s.db.QueryRow(ctx, getBlob, category, name).Scan(&obj.ContentType, &data, &obj.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.BlobObject{}, nil, domain.ErrBlobNotFound
		}
		return domain.BlobObject{}, nil, fmt.Errorf("get blob: %w", err)
	}
	obj.Size = int64(len(data))
	obj.URL = BlobURL(s.publicURL, category, name)
	return obj, data, nil
}
