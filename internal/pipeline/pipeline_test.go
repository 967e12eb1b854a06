package pipeline

import (
	"testing"

	"github.com/lumilio-gallery/manifest-builder/internal/manifest"
)

func TestRelativeKeyStripsPrefix(t *testing.T) {
	got := relativeKey("photos/albums/2026/IMG_0001.jpg", "photos")
	if got != "albums/2026/IMG_0001.jpg" {
		t.Fatalf("got %q, want %q", got, "albums/2026/IMG_0001.jpg")
	}
}

func TestRelativeKeyNoPrefixIsUnchanged(t *testing.T) {
	got := relativeKey("albums/2026/IMG_0001.jpg", "")
	if got != "albums/2026/IMG_0001.jpg" {
		t.Fatalf("got %q, want input unchanged", got)
	}
}

func TestTitleCaseCapitalizesEachWord(t *testing.T) {
	if got := titleCase("sunset over the bay"); got != "Sunset Over The Bay" {
		t.Fatalf("got %q", got)
	}
}

func TestDerivePhotoInfoTitleAndDateStripsTokens(t *testing.T) {
	title, date := derivePhotoInfoTitleAndDate("albums/beach-trip-2026-03-14-120-views.jpg", nil)
	if title != "Beach Trip" {
		t.Fatalf("got title %q, want %q", title, "Beach Trip")
	}
	if date != "2026-03-14T00:00:00Z" {
		t.Fatalf("got date %q, want filename date token", date)
	}
}

func TestDerivePhotoInfoTitleAndDatePrefersExif(t *testing.T) {
	exif := &manifest.ExifSelection{DateTimeOriginal: "2025-12-25T08:00:00Z"}
	title, date := derivePhotoInfoTitleAndDate("albums/2026-03-14-beach.jpg", exif)
	if date != exif.DateTimeOriginal {
		t.Fatalf("got date %q, want exif DateTimeOriginal %q", date, exif.DateTimeOriginal)
	}
	if title == "" {
		t.Fatal("expected a non-empty derived title")
	}
}

func TestLooksLikeHEIFDetectsBrand(t *testing.T) {
	raw := make([]byte, 16)
	copy(raw[4:8], "ftyp")
	copy(raw[8:12], "heic")
	if !looksLikeHEIF(raw) {
		t.Fatal("expected heic brand to be detected")
	}
}

func TestLooksLikeHEIFRejectsShortInput(t *testing.T) {
	if looksLikeHEIF([]byte{1, 2, 3}) {
		t.Fatal("expected short input to be rejected, not panic or misdetect")
	}
}
