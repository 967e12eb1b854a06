package livephoto

import (
	"testing"

	"github.com/lumilio-gallery/manifest-builder/internal/manifest"
)

func objs(keys ...string) []manifest.StorageObject {
	out := make([]manifest.StorageObject, len(keys))
	for i, k := range keys {
		out[i] = manifest.StorageObject{Key: k}
	}
	return out
}

func TestDetectPairsExactMatch(t *testing.T) {
	got := Detect(objs("album/IMG_0001.heic", "album/IMG_0001.mov", "album/IMG_0002.jpg"))
	if len(got) != 1 {
		t.Fatalf("got %d pairs, want 1", len(got))
	}
	pair, ok := got["album/IMG_0001.heic"]
	if !ok || pair.Key != "album/IMG_0001.mov" {
		t.Fatalf("got %+v, ok=%v, want album/IMG_0001.mov paired", pair, ok)
	}
}

func TestDetectSkipsAmbiguousGroups(t *testing.T) {
	got := Detect(objs(
		"album/IMG_0001.heic", "album/IMG_0001.jpg", "album/IMG_0001.mov",
	))
	if len(got) != 0 {
		t.Fatalf("got %d pairs, want 0 for a group with two images", len(got))
	}
}

func TestDetectRequiresSameDirectory(t *testing.T) {
	got := Detect(objs("album/a/IMG_0001.heic", "album/b/IMG_0001.mov"))
	if len(got) != 0 {
		t.Fatalf("got %d pairs, want 0 across differing directories", len(got))
	}
}

func TestDetectIgnoresUnrelatedExtensions(t *testing.T) {
	got := Detect(objs("album/IMG_0001.heic", "album/IMG_0001.txt"))
	if len(got) != 0 {
		t.Fatalf("got %d pairs, want 0 (sidecar file isn't a motion file)", len(got))
	}
}
