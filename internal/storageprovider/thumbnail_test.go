package storageprovider

import (
	"os"
	"path/filepath"
	"testing"
)

func TestThumbnailConfigURL(t *testing.T) {
	tc := ThumbnailConfig{BaseURL: "/cdn/thumbs"}
	if got := tc.url("IMG_0001"); got != "/cdn/thumbs/IMG_0001.webp" {
		t.Fatalf("got %q, want /cdn/thumbs/IMG_0001.webp", got)
	}
}

func TestThumbnailConfigURLDefaultsWhenBaseEmpty(t *testing.T) {
	tc := ThumbnailConfig{}
	if got := tc.url("x"); got != "/thumbnails/x.webp" {
		t.Fatalf("got %q, want /thumbnails/x.webp", got)
	}
}

func TestThumbnailConfigExists(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "present.webp")
	if err := os.WriteFile(present, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	tc := ThumbnailConfig{LocalDir: dir}
	if !tc.exists(present) {
		t.Fatal("expected existing file to report true")
	}
	if tc.exists(filepath.Join(dir, "missing.webp")) {
		t.Fatal("expected missing file to report false")
	}
	if tc.exists("") {
		t.Fatal("expected empty path to report false")
	}
}
