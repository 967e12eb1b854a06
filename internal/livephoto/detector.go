// Package livephoto pairs an image with its paired motion file (Apple Live
// Photos, Samsung Motion Photos) so the gallery can offer a play-on-hover
// affordance for the still. Grouping is purely filename-based; there is no
// vendor metadata involved.
package livephoto

import (
	"path"
	"strings"

	"github.com/lumilio-gallery/manifest-builder/internal/manifest"
)

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".heic": true, ".heif": true,
	".png": true, ".webp": true, ".tiff": true, ".tif": true, ".bmp": true,
	".raw": true, ".cr2": true, ".cr3": true, ".nef": true, ".arw": true,
	".dng": true, ".rw2": true, ".orf": true,
}

var motionExts = map[string]bool{".mov": true, ".mp4": true}

// Detect groups objects by directory + basename-without-extension and
// pairs any group with exactly one image and exactly one motion file.
// Groups with multiple images or multiple motion files are skipped rather
// than guessed (§4.B).
func Detect(objects []manifest.StorageObject) manifest.LivePhotoMap {
	type group struct {
		images  []manifest.StorageObject
		motions []manifest.StorageObject
	}
	groups := make(map[string]*group)

	for _, obj := range objects {
		ext := strings.ToLower(path.Ext(obj.Key))
		stem := strings.TrimSuffix(obj.Key, path.Ext(obj.Key))
		g, ok := groups[stem]
		if !ok {
			g = &group{}
			groups[stem] = g
		}
		switch {
		case imageExts[ext]:
			g.images = append(g.images, obj)
		case motionExts[ext]:
			g.motions = append(g.motions, obj)
		}
	}

	result := make(manifest.LivePhotoMap)
	for _, g := range groups {
		if len(g.images) == 1 && len(g.motions) == 1 {
			result[g.images[0].Key] = g.motions[0]
		}
	}
	return result
}
