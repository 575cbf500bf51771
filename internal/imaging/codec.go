// Package imaging handles photo compression, upload, and metadata
// resolution for record images and signature images.
package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"time"

	_ "image/gif" // register GIF decoding
	_ "image/png" // register PNG decoding

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/obralog/obralog/internal/domain"
	"github.com/obralog/obralog/internal/metrics"
	"github.com/obralog/obralog/internal/models"
)

// jpegQuality is the re-encode quality for uploaded photos. Site photos
// arrive from phone cameras at full quality; reports only need screen
// resolution.
const jpegQuality = 75

// Codec compresses images and writes them to blob storage under a path
// prefix, returning the stable storage path.
type Codec struct {
	blobs  domain.BlobStore
	prefix string
	log    *logrus.Logger
}

// NewCodec creates a Codec storing blobs under the given path prefix
// (e.g. "images" or "signatures").
func NewCodec(blobs domain.BlobStore, prefix string, log *logrus.Logger) *Codec {
	return &Codec{blobs: blobs, prefix: prefix, log: log}
}

// Compile-time check: *Codec must satisfy domain.ImageUploader.
var _ domain.ImageUploader = (*Codec)(nil)

// Upload compresses the image, attaches the custom metadata, and writes
// the result to blob storage. The returned path is the stable reference
// stored in the record's image slot.
func (c *Codec) Upload(ctx context.Context, upload models.ImageUpload, meta models.ImageMetadata) (string, error) {
	compressed, err := compress(upload.Data)
	if err != nil {
		return "", fmt.Errorf("compressing image: %w", err)
	}

	path := fmt.Sprintf("%s/%s/%s.jpg", c.prefix, time.Now().UTC().Format("2006-01-02"), uuid.New().String())

	if err := c.blobs.Put(ctx, path, compressed, "image/jpeg", meta.Map()); err != nil {
		return "", fmt.Errorf("storing image: %w", err)
	}

	metrics.ImageUploadBytes.Observe(float64(len(compressed)))

	c.log.WithFields(logrus.Fields{
		"path":     path,
		"in_size":  len(upload.Data),
		"out_size": len(compressed),
	}).Debug("image uploaded")

	return path, nil
}

// compress decodes the image and re-encodes it as JPEG. GIF and PNG
// inputs lose animation/transparency, which is acceptable for report
// embedding.
func compress(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encoding jpeg: %w", err)
	}

	return buf.Bytes(), nil
}
