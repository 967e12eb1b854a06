package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsValidate(t *testing.T) {
	if err := Validate(Defaults()); err != nil {
		t.Fatalf("Validate(Defaults()): %v", err)
	}
}

func TestLoadFileMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlDoc := "outputDir: ./dist\nstorage:\n  kind: s3\n  s3:\n    bucket: my-bucket\n    maxFileLimit: 5000\n"
	if err := os.WriteFile(path, []byte(yamlDoc), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadFile(Defaults(), path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.OutputDir != "./dist" {
		t.Fatalf("got outputDir %q, want ./dist", cfg.OutputDir)
	}
	if cfg.Storage.Kind != StorageS3 || cfg.Storage.S3.Bucket != "my-bucket" {
		t.Fatalf("got storage %+v, want s3/my-bucket", cfg.Storage)
	}
	if cfg.Options.ThumbnailEdge != 800 {
		t.Fatalf("got thumbnailEdge %d, want default 800 preserved", cfg.Options.ThumbnailEdge)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoadFileMissingPathIsNotError(t *testing.T) {
	cfg, err := LoadFile(Defaults(), filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.OutputDir != Defaults().OutputDir {
		t.Fatalf("got %+v, want unchanged defaults", cfg)
	}
}

func TestApplyEnvOverridesFlags(t *testing.T) {
	t.Setenv("FORCE_MODE", "true")
	t.Setenv("FORCE_MANIFEST", "1")
	t.Setenv("GIT_TOKEN", "abc123")

	cfg := ApplyEnv(Defaults())
	if !cfg.Flags.Force || !cfg.Flags.ForceManifest || cfg.Repo.Token != "abc123" {
		t.Fatalf("got %+v, want env overrides applied", cfg.Flags)
	}
	if cfg.Flags.ForceThumbnails {
		t.Fatal("FORCE_THUMBNAILS was not set, should remain false")
	}
}

func TestIsClusterWorker(t *testing.T) {
	t.Setenv("CLUSTER_WORKER", "true")
	t.Setenv("WORKER_ID", "3")

	isWorker, id := IsClusterWorker()
	if !isWorker || id != 3 {
		t.Fatalf("got (%v, %d), want (true, 3)", isWorker, id)
	}
}

func TestValidateRejectsMissingBucket(t *testing.T) {
	cfg := Defaults()
	cfg.Storage.Kind = StorageS3
	cfg.Storage.S3.MaxFileLimit = 1000
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for missing bucket")
	}
}

func TestValidateRejectsRepoEnabledWithoutURL(t *testing.T) {
	cfg := Defaults()
	cfg.Repo.Enable = true
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for repo.enable without repo.url")
	}
}
