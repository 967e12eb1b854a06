package manifeststore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lumilio-gallery/manifest-builder/internal/manifest"
)

func TestLoadMissingFileReturnsEmpty(t *testing.T) {
	m := Load(filepath.Join(t.TempDir(), "missing.json"))
	if m.Version != manifest.CurrentVersion || len(m.Data) != 0 {
		t.Fatalf("got %+v, want empty manifest at current version", m)
	}
}

func TestLoadCorruptFileReturnsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photos-manifest.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	m := Load(path)
	if m.Version != manifest.CurrentVersion || len(m.Data) != 0 {
		t.Fatalf("got %+v, want empty manifest for corrupt input", m)
	}
}

func TestLoadStaleVersionReturnsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photos-manifest.json")
	if err := os.WriteFile(path, []byte(`{"version":"1","data":[{"id":"x"}]}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	m := Load(path)
	if len(m.Data) != 0 {
		t.Fatalf("got %d items, want 0 for a stale manifest version", len(m.Data))
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "photos-manifest.json")
	want := manifest.Manifest{
		Version: manifest.CurrentVersion,
		Data:    []manifest.PhotoManifestItem{{ID: "IMG_0001", S3Key: "album/IMG_0001.jpg"}},
	}
	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got := Load(path)
	if len(got.Data) != 1 || got.Data[0].ID != "IMG_0001" {
		t.Fatalf("got %+v, want round-tripped item", got)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Fatalf("leftover temp file %s after a successful save", e.Name())
		}
	}
}

func TestReconcileDeletionsRemovesOrphans(t *testing.T) {
	thumbDir := t.TempDir()
	thumbPath := filepath.Join(thumbDir, "orphan.webp")
	if err := os.WriteFile(thumbPath, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	items := []manifest.PhotoManifestItem{
		{ID: "kept", S3Key: "album/kept.jpg"},
		{ID: "orphan", S3Key: "album/orphan.jpg"},
	}
	liveKeys := map[string]bool{"album/kept.jpg": true}

	kept, deleted := ReconcileDeletions(items, liveKeys, thumbDir)
	if deleted != 1 || len(kept) != 1 || kept[0].S3Key != "album/kept.jpg" {
		t.Fatalf("got kept=%+v deleted=%d, want one kept item and one deletion", kept, deleted)
	}
	if _, err := os.Stat(thumbPath); !os.IsNotExist(err) {
		t.Fatal("expected orphaned thumbnail file to be removed")
	}
}
