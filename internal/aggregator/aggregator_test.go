package aggregator

import (
	"testing"

	"github.com/lumilio-gallery/manifest-builder/internal/manifest"
)

func TestMergeClassifiesAndCountsResults(t *testing.T) {
	prior := []manifest.PhotoManifestItem{
		{S3Key: "album/failed.jpg", ID: "failed"},
		{S3Key: "album/untouched.jpg", ID: "untouched"},
	}
	agg := New(prior, t.TempDir())

	results := []manifest.Result{
		{Type: manifest.ProcessNew, Key: "album/new.jpg", Item: &manifest.PhotoManifestItem{S3Key: "album/new.jpg", ID: "new"}},
		{Type: manifest.ProcessFailed, Key: "album/failed.jpg", Err: errDummy{}},
	}
	liveKeys := []string{"album/new.jpg", "album/failed.jpg", "album/untouched.jpg"}

	m, stats, err := agg.Merge(results, liveKeys)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if stats.New != 1 || stats.Failed != 1 || !stats.HasUpdates {
		t.Fatalf("got stats %+v, want New=1 Failed=1 HasUpdates=true", stats)
	}
	if len(m.Data) != 3 {
		t.Fatalf("got %d items, want 3 (new, carried-forward failed, carried-forward untouched)", len(m.Data))
	}

	byKey := make(map[string]manifest.PhotoManifestItem)
	for _, item := range m.Data {
		byKey[item.S3Key] = item
	}
	if _, ok := byKey["album/failed.jpg"]; !ok {
		t.Fatal("expected the prior record for a failed photo to be preserved")
	}
	if _, ok := byKey["album/untouched.jpg"]; !ok {
		t.Fatal("expected a never-dispatched but still-listed key to be carried forward")
	}
}

func TestMergeReconcilesDeletions(t *testing.T) {
	prior := []manifest.PhotoManifestItem{{S3Key: "album/gone.jpg", ID: "gone"}}
	agg := New(prior, t.TempDir())

	m, stats, err := agg.Merge(nil, nil)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if stats.Deleted != 1 || len(m.Data) != 0 {
		t.Fatalf("got stats=%+v data=%+v, want one deletion and an empty manifest", stats, m.Data)
	}
}

func TestDeriveCamerasDedupesByDisplayName(t *testing.T) {
	items := []manifest.PhotoManifestItem{
		{Exif: &manifest.ExifSelection{CameraMake: "Fujifilm", CameraModel: "X-T5"}},
		{Exif: &manifest.ExifSelection{CameraMake: "Fujifilm", CameraModel: "X-T5"}},
		{Exif: &manifest.ExifSelection{CameraMake: "Sony", CameraModel: "A7IV"}},
		{Exif: nil},
	}
	cameras := deriveCameras(items)
	if len(cameras) != 2 {
		t.Fatalf("got %d cameras, want 2 deduplicated entries", len(cameras))
	}
	if cameras[0].DisplayName != "Fujifilm X-T5" || cameras[1].DisplayName != "Sony A7IV" {
		t.Fatalf("got %+v, want sorted [Fujifilm X-T5, Sony A7IV]", cameras)
	}
}

type errDummy struct{}

func (errDummy) Error() string { return "dummy failure" }
