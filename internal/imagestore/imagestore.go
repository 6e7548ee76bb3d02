// Package imagestore is the boundary to the external image host where
// product pictures and avatars live.
package imagestore

import (
	"context"
)

// Asset identifies an uploaded image: the provider-side public ID used
// for later destruction plus the servable URL.
type Asset struct {
	PublicID string
	URL      string
}

// Store defines the interface for image hosting operations.
type Store interface {
	// Upload stores an image (base64 data URI or remote URL, as the
	// provider accepts) under the given folder.
	Upload(ctx context.Context, data, folder string) (*Asset, error)

	// Destroy removes an uploaded image by its public ID.
	Destroy(ctx context.Context, publicID string) error
}
