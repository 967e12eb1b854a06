package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/h2non/bimg"
)

// thumbnailOptions mirrors the single-size case of the teacher's
// StreamThumbnails helper: scale to fit within edge×edge preserving aspect
// ratio, never upscale, encode as WebP.
func thumbnailOptions(h *handle, edge, quality int) bimg.Options {
	width, height := h.width, h.height
	if width > height {
		if width > edge {
			height = int(float64(height) * float64(edge) / float64(width))
			width = edge
		}
	} else {
		if height > edge {
			width = int(float64(width) * float64(edge) / float64(height))
			height = edge
		}
	}
	return bimg.Options{
		Width:   width,
		Height:  height,
		Crop:    false,
		Enlarge: false,
		Quality: quality,
		Type:    bimg.WEBP,
	}
}

// writeThumbnail renders h to a WebP thumbnail and atomically writes it to
// destPath (§4.E step 4, §7 write errors).
func writeThumbnail(h *handle, destPath string, edge, quality int) error {
	out, err := bimg.NewImage(h.raw).Process(thumbnailOptions(h, edge, quality))
	if err != nil {
		return fmt.Errorf("render thumbnail: %w", err)
	}

	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create thumbnail dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".thumb-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp thumbnail file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp thumbnail: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp thumbnail: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp thumbnail: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("rename thumbnail into place: %w", err)
	}
	return nil
}
