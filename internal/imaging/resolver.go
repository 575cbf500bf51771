package imaging

import (
	"context"
	"fmt"
	"net/url"

	"github.com/obralog/obralog/internal/domain"
	"github.com/obralog/obralog/internal/models"
)

// mapQueryURL is the map search endpoint embedded in reports for images
// that carry coordinates.
const mapQueryURL = "https://www.google.com/maps/search/?api=1&query="

// Resolver turns stored image paths into display URLs plus the custom
// metadata (coordinates, note) needed for report embedding.
type Resolver struct {
	blobs domain.BlobStore
}

// NewResolver creates a Resolver backed by the given blob store.
func NewResolver(blobs domain.BlobStore) *Resolver {
	return &Resolver{blobs: blobs}
}

// Compile-time check: *Resolver must satisfy domain.ImageResolver.
var _ domain.ImageResolver = (*Resolver)(nil)

// Resolve returns the display URL, map link, and note for a stored
// image. The map link is present only when both coordinates exist.
func (r *Resolver) Resolve(ctx context.Context, path string) (*models.ResolvedImage, error) {
	displayURL, err := r.blobs.GetURL(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("resolving image URL: %w", err)
	}

	info, err := r.blobs.GetMetadata(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("resolving image metadata: %w", err)
	}

	meta := models.MetadataFromMap(info.CustomMetadata)

	resolved := &models.ResolvedImage{
		DisplayURL: displayURL,
		Note:       meta.Note,
	}

	if meta.Latitude != "" && meta.Longitude != "" {
		resolved.MapLink = mapQueryURL + url.QueryEscape(meta.Latitude+","+meta.Longitude)
	}

	return resolved, nil
}
