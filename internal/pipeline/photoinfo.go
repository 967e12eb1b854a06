package pipeline

import (
	"path"
	"strings"

	"github.com/lumilio-gallery/manifest-builder/internal/manifest"
)

// deriveTags extracts folder-path segments (excluding the filename itself)
// as tags, the convention the teacher's gallery frontend uses for its
// folder-based browsing view.
func deriveTags(key string) []string {
	dir := path.Dir(key)
	if dir == "." || dir == "/" {
		return nil
	}
	parts := strings.Split(strings.Trim(dir, "/"), "/")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// deriveEquipmentTags returns the camera model and lens model (when present,
// in that order) as short tags for the gallery's equipment filter. Makes are
// not included, and no deduplication across photos takes place.
func deriveEquipmentTags(exif *manifest.ExifSelection) []string {
	if exif == nil {
		return nil
	}
	var tags []string
	if exif.CameraModel != "" {
		tags = append(tags, strings.TrimSpace(exif.CameraModel))
	}
	if exif.LensModel != "" {
		tags = append(tags, strings.TrimSpace(exif.LensModel))
	}
	return tags
}
