// Package gate implements the incremental-processing decision of §4.D as a
// pure function of (prior item, flags, disk probes) — no implicit global
// state, per the redesign note in §9 that replaces an ad hoc per-photo
// reuse cache with an explicit, testable decision function.
package gate

import "github.com/lumilio-gallery/manifest-builder/internal/manifest"

// Reason names why a photo was (or was not) selected for processing.
type Reason string

const (
	ReasonForced          Reason = "forced"
	ReasonNew             Reason = "new"
	ReasonStale           Reason = "stale"
	ReasonThumbnailMissing Reason = "thumbnail-missing"
	ReasonUpToDate        Reason = "up-to-date"
)

// Flags are the force-mode switches from §6.
type Flags struct {
	Force           bool
	ForceManifest   bool
	ForceThumbnails bool
}

// Decide applies the five-priority rule from §4.D. thumbnailExists reports
// whether the thumbnail file for this photo id is already present on disk.
func Decide(prior *manifest.PhotoManifestItem, obj manifest.StorageObject, flags Flags, thumbnailExists bool) (shouldProcess bool, reason Reason) {
	if flags.Force {
		return true, ReasonForced
	}
	if prior == nil {
		return true, ReasonNew
	}
	if flags.ForceManifest || prior.LastModified != obj.LastModified {
		return true, ReasonStale
	}
	if flags.ForceThumbnails || !thumbnailExists {
		return true, ReasonThumbnailMissing
	}
	return false, ReasonUpToDate
}
