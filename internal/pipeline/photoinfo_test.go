package pipeline

import (
	"testing"

	"github.com/lumilio-gallery/manifest-builder/internal/manifest"
)

func TestDeriveTagsFromNestedPath(t *testing.T) {
	got := deriveTags("albums/2026/summer-trip/IMG_0001.jpg")
	want := []string{"albums", "2026", "summer-trip"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestDeriveTagsTopLevelFileHasNoTags(t *testing.T) {
	if got := deriveTags("IMG_0001.jpg"); got != nil {
		t.Fatalf("got %v, want nil for a top-level file", got)
	}
}

func TestDeriveEquipmentTagsNilExif(t *testing.T) {
	if got := deriveEquipmentTags(nil); got != nil {
		t.Fatalf("got %v, want nil", got)
	}
}

func TestDeriveEquipmentTagsCombinesCameraAndLens(t *testing.T) {
	exif := &manifest.ExifSelection{CameraModel: "X-T5", LensModel: "XF 35mm f/1.4"}
	got := deriveEquipmentTags(exif)
	if len(got) != 2 || got[0] != "X-T5" || got[1] != "XF 35mm f/1.4" {
		t.Fatalf("got %v, want [X-T5, XF 35mm f/1.4]", got)
	}
}
