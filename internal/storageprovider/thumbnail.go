package storageprovider

import (
	"os"
	"path"
)

// ThumbnailConfig is the thumbnail URL base and local directory shared by
// every Provider variant, since thumbnails always live under the builder's
// local outputDir regardless of where originals are stored (§4.A). It is
// threaded explicitly through each provider constructor rather than held as
// package state, so a Builder value fully determines its providers'
// behavior (§9).
type ThumbnailConfig struct {
	BaseURL string
	LocalDir string
}

func (t ThumbnailConfig) url(photoID string) string {
	base := t.BaseURL
	if base == "" {
		base = "/thumbnails"
	}
	return path.Join(base, photoID+".webp")
}

func (t ThumbnailConfig) exists(p string) bool {
	if p == "" {
		return false
	}
	_, err := os.Stat(p)
	return err == nil
}
