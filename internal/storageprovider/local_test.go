package storageprovider

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/lumilio-gallery/manifest-builder/internal/config"
)

func newTestLocalProvider(t *testing.T) (*LocalProvider, string) {
	t.Helper()
	dir := t.TempDir()
	p, err := NewLocalProvider(config.LocalConfig{BasePath: dir}, nil, ThumbnailConfig{})
	if err != nil {
		t.Fatalf("NewLocalProvider: %v", err)
	}
	return p, dir
}

func TestLocalProviderResolveRejectsTraversal(t *testing.T) {
	p, _ := newTestLocalProvider(t)
	if _, err := p.resolve("../../etc/passwd"); err == nil {
		t.Fatal("expected resolve to reject a path escaping basePath")
	}
}

func TestLocalProviderResolveAllowsNested(t *testing.T) {
	p, dir := newTestLocalProvider(t)
	got, err := p.resolve("album/2026/IMG_0001.jpg")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := filepath.Join(dir, "album", "2026", "IMG_0001.jpg")
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestLocalProviderListReturnsSortedKeys(t *testing.T) {
	p, dir := newTestLocalProvider(t)
	for _, rel := range []string{"b.jpg", "a/inner.jpg"} {
		full := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
		if err := os.WriteFile(full, []byte("x"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	objects, err := p.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(objects) != 2 || objects[0].Key != "a/inner.jpg" || objects[1].Key != "b.jpg" {
		t.Fatalf("got %+v, want sorted [a/inner.jpg b.jpg]", objects)
	}
}

func TestLocalProviderFetchRoundTrips(t *testing.T) {
	p, dir := newTestLocalProvider(t)
	if err := os.WriteFile(filepath.Join(dir, "photo.jpg"), []byte("bytes"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := p.Fetch(context.Background(), "photo.jpg")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(data) != "bytes" {
		t.Fatalf("got %q, want %q", data, "bytes")
	}
}
