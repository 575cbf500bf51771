package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/obralog/obralog/internal/models"
)

// BlobStore persists binary assets (photos, signature images) with
// custom metadata. Replaced assets are orphaned, never reclaimed;
// storage reclamation is out of scope.
type BlobStore struct {
	Base

	// baseURL is the externally reachable prefix under which blobs are
	// served, e.g. "http://localhost:4040/api/v1/blobs".
	baseURL string
}

// NewBlobStore creates a BlobStore serving download URLs under baseURL.
func NewBlobStore(base Base, baseURL string) *BlobStore {
	return &BlobStore{Base: base, baseURL: strings.TrimRight(baseURL, "/")}
}

// Put stores a blob under path, overwriting any previous blob at the
// same path.
func (s *BlobStore) Put(ctx context.Context, path string, data []byte, contentType string, metadata map[string]string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if metadata == nil {
		metadata = map[string]string{}
	}

	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("marshalling blob metadata: %w", err)
	}

	_, err = s.Pool.Exec(ctx, `
		INSERT INTO blobs (path, content_type, metadata, data)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (path) DO UPDATE
		SET content_type = EXCLUDED.content_type, metadata = EXCLUDED.metadata, data = EXCLUDED.data`,
		path, contentType, metaJSON, data,
	)
	if err != nil {
		return fmt.Errorf("inserting blob: %w", err)
	}

	return nil
}

// GetURL returns the stable download URL for a stored path. The path
// must exist; a missing blob returns models.ErrBlobNotFound.
func (s *BlobStore) GetURL(ctx context.Context, path string) (string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var exists bool

	err := s.Pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM blobs WHERE path = $1)", path).Scan(&exists)
	if err != nil {
		return "", fmt.Errorf("checking blob existence: %w", err)
	}

	if !exists {
		return "", models.ErrBlobNotFound
	}

	return s.baseURL + "/" + escapePath(path), nil
}

// GetMetadata returns the content type and custom metadata for a path.
func (s *BlobStore) GetMetadata(ctx context.Context, path string) (*models.BlobInfo, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var info models.BlobInfo
	var metaJSON []byte

	err := s.Pool.QueryRow(ctx, "SELECT content_type, metadata FROM blobs WHERE path = $1", path).
		Scan(&info.ContentType, &metaJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrBlobNotFound
		}

		return nil, fmt.Errorf("querying blob metadata: %w", err)
	}

	if err := json.Unmarshal(metaJSON, &info.CustomMetadata); err != nil {
		return nil, fmt.Errorf("unmarshalling blob metadata: %w", err)
	}

	return &info, nil
}

// Fetch returns the blob bytes and content type for serving.
func (s *BlobStore) Fetch(ctx context.Context, path string) ([]byte, string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var data []byte
	var contentType string

	err := s.Pool.QueryRow(ctx, "SELECT data, content_type FROM blobs WHERE path = $1", path).
		Scan(&data, &contentType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", models.ErrBlobNotFound
		}

		return nil, "", fmt.Errorf("querying blob: %w", err)
	}

	return data, contentType, nil
}

// Delete removes a blob by path.
func (s *BlobStore) Delete(ctx context.Context, path string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx, "DELETE FROM blobs WHERE path = $1", path)
	if err != nil {
		return fmt.Errorf("executing blob delete: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return models.ErrBlobNotFound
	}

	return nil
}

// escapePath URL-escapes each segment of a storage path while keeping
// the slashes that separate them.
func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}

	return strings.Join(segments, "/")
}
