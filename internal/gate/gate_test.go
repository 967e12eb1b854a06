package gate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumilio-gallery/manifest-builder/internal/gate"
	"github.com/lumilio-gallery/manifest-builder/internal/manifest"
)

func TestDecide(t *testing.T) {
	prior := &manifest.PhotoManifestItem{LastModified: "2026-01-01T00:00:00Z"}
	sameTimeObj := manifest.StorageObject{LastModified: "2026-01-01T00:00:00Z"}
	changedTimeObj := manifest.StorageObject{LastModified: "2026-02-01T00:00:00Z"}

	t.Run("force overrides everything", func(t *testing.T) {
		should, reason := gate.Decide(prior, sameTimeObj, gate.Flags{Force: true}, true)
		assert.True(t, should)
		assert.Equal(t, gate.ReasonForced, reason)
	})

	t.Run("no prior item is always new", func(t *testing.T) {
		should, reason := gate.Decide(nil, sameTimeObj, gate.Flags{}, false)
		assert.True(t, should)
		assert.Equal(t, gate.ReasonNew, reason)
	})

	t.Run("lastModified mismatch is stale", func(t *testing.T) {
		should, reason := gate.Decide(prior, changedTimeObj, gate.Flags{}, true)
		assert.True(t, should)
		assert.Equal(t, gate.ReasonStale, reason)
	})

	t.Run("forceManifest forces stale even when unchanged", func(t *testing.T) {
		should, reason := gate.Decide(prior, sameTimeObj, gate.Flags{ForceManifest: true}, true)
		assert.True(t, should)
		assert.Equal(t, gate.ReasonStale, reason)
	})

	t.Run("missing thumbnail reprocesses", func(t *testing.T) {
		should, reason := gate.Decide(prior, sameTimeObj, gate.Flags{}, false)
		assert.True(t, should)
		assert.Equal(t, gate.ReasonThumbnailMissing, reason)
	})

	t.Run("forceThumbnails forces thumbnail-missing even when present", func(t *testing.T) {
		should, reason := gate.Decide(prior, sameTimeObj, gate.Flags{ForceThumbnails: true}, true)
		assert.True(t, should)
		assert.Equal(t, gate.ReasonThumbnailMissing, reason)
	})

	t.Run("unchanged with a thumbnail on disk is up to date", func(t *testing.T) {
		should, reason := gate.Decide(prior, sameTimeObj, gate.Flags{}, true)
		assert.False(t, should)
		assert.Equal(t, gate.ReasonUpToDate, reason)
	})
}
