// Package pipeline implements the per-photo processing steps of §4.E:
// normalize, measure, thumbnail, hash, tone-analyze, and assemble a
// manifest.PhotoManifestItem. Image decode/resize is built directly on
// bimg, the same library the teacher's internal/utils/imaging package
// wraps; this package generalizes that wrapper from a multi-size thumbnail
// stream into the fixed single-thumbnail + perceptual-hash pipeline the
// gallery manifest needs.
package pipeline

import (
	"fmt"

	"github.com/h2non/bimg"
)

// handle owns a decoded source image's raw bytes for the lifetime of one
// photo's processing. bimg re-reads the same buffer for every operation
// rather than keeping a decoded pixel buffer resident, so "owning" here
// just means the byte slice outlives the steps that need it; no cgo handle
// needs explicit closing.
type handle struct {
	raw   []byte
	width int
	height int
}

func newHandle(raw []byte) (*handle, error) {
	size, err := bimg.NewImage(raw).Size()
	if err != nil {
		return nil, fmt.Errorf("read image size: %w", err)
	}
	if size.Width == 0 || size.Height == 0 {
		return nil, fmt.Errorf("image has zero dimension")
	}
	return &handle{raw: raw, width: size.Width, height: size.Height}, nil
}

func (h *handle) aspectRatio() float64 {
	if h.height == 0 {
		return 0
	}
	return float64(h.width) / float64(h.height)
}
