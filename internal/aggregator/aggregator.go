// Package aggregator merges per-task results with the prior manifest,
// reconciles deletions, and derives the cameras/lenses index (§4.G, §4.C).
package aggregator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jinzhu/copier"

	"github.com/lumilio-gallery/manifest-builder/internal/manifest"
	"github.com/lumilio-gallery/manifest-builder/internal/manifeststore"
)

// Aggregator accumulates one run's outcome into a final manifest.Manifest.
type Aggregator struct {
	prior        map[string]manifest.PhotoManifestItem
	thumbnailDir string
}

// New builds an Aggregator over the prior manifest's items keyed by s3Key.
func New(priorItems []manifest.PhotoManifestItem, thumbnailDir string) *Aggregator {
	prior := make(map[string]manifest.PhotoManifestItem, len(priorItems))
	for _, item := range priorItems {
		prior[item.S3Key] = item
	}
	return &Aggregator{prior: prior, thumbnailDir: thumbnailDir}
}

// Merge implements §4.G's merge step: keep new/processed/skipped results,
// drop failed, then carry forward any prior item whose key is still listed
// but absent from results (never dispatched, e.g. gated out as up to
// date). liveKeys is every key in the current listing, used both for
// carry-forward and deletion reconciliation.
func (a *Aggregator) Merge(results []manifest.Result, liveKeys []string) (manifest.Manifest, manifest.Stats, error) {
	byKey := make(map[string]manifest.PhotoManifestItem, len(results))
	var stats manifest.Stats

	for _, r := range results {
		switch r.Type {
		case manifest.ProcessNew:
			stats.New++
		case manifest.ProcessProcessed:
			stats.Processed++
		case manifest.ProcessSkipped:
			stats.Skipped++
		case manifest.ProcessFailed:
			stats.Failed++
			// Preserve the prior record so a transient fetch failure does
			// not silently drop a photo from the gallery (§7 FetchError).
			if prior, ok := a.prior[r.Key]; ok {
				byKey[r.Key] = prior
			}
			continue
		default:
			continue
		}
		if r.Item != nil {
			byKey[r.Key] = *r.Item
		}
	}

	liveSet := make(map[string]bool, len(liveKeys))
	for _, key := range liveKeys {
		liveSet[key] = true
		if _, ok := byKey[key]; ok {
			continue
		}
		if prior, ok := a.prior[key]; ok {
			var carried manifest.PhotoManifestItem
			if err := copier.Copy(&carried, &prior); err != nil {
				return manifest.Manifest{}, stats, fmt.Errorf("carry forward %s: %w", key, err)
			}
			byKey[key] = carried
		}
	}

	// Prior items whose key left the listing enter the candidate set so
	// ReconcileDeletions drops them, removes their thumbnails and counts them.
	for key, prior := range a.prior {
		if _, ok := byKey[key]; !ok && !liveSet[key] {
			byKey[key] = prior
		}
	}

	items := make([]manifest.PhotoManifestItem, 0, len(byKey))
	for _, item := range byKey {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].S3Key < items[j].S3Key })

	items, deleted := manifeststore.ReconcileDeletions(items, liveSet, a.thumbnailDir)
	stats.Deleted = deleted
	stats.HasUpdates = stats.New > 0 || stats.Processed > 0 || stats.Deleted > 0

	m := manifest.Manifest{
		Version: manifest.CurrentVersion,
		Data:    items,
		Cameras: deriveCameras(items),
		Lenses:  deriveLenses(items),
	}
	return m, stats, nil
}

func deriveCameras(items []manifest.PhotoManifestItem) []manifest.CameraInfo {
	seen := make(map[string]manifest.CameraInfo)
	for _, item := range items {
		if item.Exif == nil || (item.Exif.CameraMake == "" && item.Exif.CameraModel == "") {
			continue
		}
		display := strings.TrimSpace(item.Exif.CameraMake + " " + item.Exif.CameraModel)
		if display == "" {
			continue
		}
		seen[display] = manifest.CameraInfo{Make: item.Exif.CameraMake, Model: item.Exif.CameraModel, DisplayName: display}
	}
	return sortedCameraValues(seen)
}

func sortedCameraValues(seen map[string]manifest.CameraInfo) []manifest.CameraInfo {
	out := make([]manifest.CameraInfo, 0, len(seen))
	for _, v := range seen {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayName < out[j].DisplayName })
	return out
}

func deriveLenses(items []manifest.PhotoManifestItem) []manifest.LensInfo {
	seen := make(map[string]manifest.LensInfo)
	for _, item := range items {
		if item.Exif == nil || (item.Exif.LensMake == "" && item.Exif.LensModel == "") {
			continue
		}
		lensMake := item.Exif.LensMake
		if lensMake == item.Exif.CameraMake {
			lensMake = ""
		}
		display := strings.TrimSpace(lensMake + " " + item.Exif.LensModel)
		if display == "" {
			continue
		}
		seen[display] = manifest.LensInfo{Make: lensMake, Model: item.Exif.LensModel, DisplayName: display}
	}
	out := make([]manifest.LensInfo, 0, len(seen))
	for _, v := range seen {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayName < out[j].DisplayName })
	return out
}
