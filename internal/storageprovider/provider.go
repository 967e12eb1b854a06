// Package storageprovider abstracts over the three places a photo library
// can live (§4.A): an S3-compatible bucket, a GitHub repository, or a local
// directory. The interface shape follows the teacher's
// internal/storage.Storage interface (context-scoped Get/Exists/GetURL
// methods over an opaque path) generalized from "one uploaded file" to
// "list the whole bucket and fetch any key", which is what an incremental
// manifest build needs instead of a single-file upload handler.
package storageprovider

import (
	"context"

	"github.com/lumilio-gallery/manifest-builder/internal/manifest"
)

// Provider lists and fetches photo bytes from one storage backend, and
// resolves the public URLs the gallery frontend will use.
type Provider interface {
	// List enumerates every object under the configured prefix/path,
	// applying the configured exclude pattern and file limit (§4.A).
	List(ctx context.Context) ([]manifest.StorageObject, error)

	// Fetch downloads one object's full bytes.
	Fetch(ctx context.Context, key string) ([]byte, error)

	// PublicURL resolves the URL the gallery frontend will request the
	// original asset from.
	PublicURL(key string) string

	// ThumbnailURL resolves the URL for a generated thumbnail by photo id.
	// Thumbnails always live under the configured local outputDir
	// regardless of where the originals are stored.
	ThumbnailURL(photoID string) string

	// ThumbnailExists reports whether a thumbnail file already exists at
	// the given local path, used by the incremental gate (§4.D).
	ThumbnailExists(path string) bool
}
