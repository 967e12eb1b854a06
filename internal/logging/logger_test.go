package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lumilio-gallery/manifest-builder/internal/config"
)

func TestNewConsoleOnlyLogger(t *testing.T) {
	log, err := New(config.LoggingConfig{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if log == nil {
		t.Fatal("expected a non-nil logger")
	}
	log.Info("smoke test")
	_ = log.Sync()
}

func TestNewFileLoggerCreatesRotatorFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "builder.log")
	log, err := New(config.LoggingConfig{OutputToFile: true, LogFilePath: path, Verbose: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Debug("written to file and console")
	_ = log.Sync()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected log file at %s: %v", path, err)
	}
}
