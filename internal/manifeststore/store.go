// Package manifeststore loads and atomically persists photos-manifest.json
// (§4.C), and reconciles deletions once a run's final item set is known.
package manifeststore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lumilio-gallery/manifest-builder/internal/builderrors"
	"github.com/lumilio-gallery/manifest-builder/internal/manifest"
)

// Path returns the canonical manifest file path under outputDir.
func Path(outputDir string) string {
	return filepath.Join(outputDir, "photos-manifest.json")
}

// Load reads the prior manifest. A missing file, invalid JSON, or a
// version lower than manifest.CurrentVersion all return an empty manifest
// rather than an error (§4.C) — there is nothing to carry forward, not a
// fatal condition.
func Load(path string) manifest.Manifest {
	empty := manifest.Manifest{Version: manifest.CurrentVersion}

	data, err := os.ReadFile(path)
	if err != nil {
		return empty
	}
	var m manifest.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return empty
	}
	if m.Version != manifest.CurrentVersion {
		return empty
	}
	return m
}

// Save serializes m and writes it atomically: a temp file in the same
// directory, fsync, then rename over the destination (§4.C, §7 WriteError).
func Save(path string, m manifest.Manifest) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create manifest dir %s: %v", builderrors.ErrWrite, dir, err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal manifest: %v", builderrors.ErrWrite, err)
	}

	tmp, err := os.CreateTemp(dir, ".manifest-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp manifest file: %v", builderrors.ErrWrite, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write temp manifest: %v", builderrors.ErrWrite, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: sync temp manifest: %v", builderrors.ErrWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close temp manifest: %v", builderrors.ErrWrite, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("%w: rename manifest into place: %v", builderrors.ErrWrite, err)
	}
	return nil
}

// ReconcileDeletions removes any item whose S3Key is absent from liveKeys,
// deletes its orphaned thumbnail file under thumbnailDir, and returns the
// count of items removed (§4.C).
func ReconcileDeletions(items []manifest.PhotoManifestItem, liveKeys map[string]bool, thumbnailDir string) ([]manifest.PhotoManifestItem, int) {
	kept := make([]manifest.PhotoManifestItem, 0, len(items))
	deleted := 0
	for _, item := range items {
		if liveKeys[item.S3Key] {
			kept = append(kept, item)
			continue
		}
		deleted++
		thumbPath := filepath.Join(thumbnailDir, item.ID+".webp")
		_ = os.Remove(thumbPath)
	}
	return kept, deleted
}
