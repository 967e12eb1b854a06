package pipeline

import (
	"bytes"
	"fmt"
	"image/png"
	"math"

	"github.com/h2non/bimg"
	"github.com/lumilio-gallery/manifest-builder/internal/manifest"
)

// analyzeTone builds a 256-bucket luminance histogram over a small
// grayscale render of the image and classifies it into the tags the
// gallery's placeholder styling uses (§4.E step 9).
func analyzeTone(h *handle) (*manifest.ToneAnalysis, error) {
	out, err := bimg.NewImage(h.raw).Process(bimg.Options{
		Width:          64,
		Height:         64,
		Force:          true,
		Enlarge:        true,
		Type:           bimg.PNG,
		Interpretation: bimg.InterpretationBW,
	})
	if err != nil {
		return nil, fmt.Errorf("render tone-analysis thumbnail: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("decode tone-analysis thumbnail: %w", err)
	}

	bounds := img.Bounds()
	var histogram [256]int
	total := 0
	sum := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gr, _, _, _ := img.At(x, y).RGBA()
			bucket := int(gr >> 8)
			histogram[bucket]++
			sum += float64(bucket)
			total++
		}
	}
	if total == 0 {
		return nil, fmt.Errorf("tone-analysis render produced no pixels")
	}

	meanLuminance := sum / float64(total) / 255
	dark, bright := 0, 0
	for i := 0; i < 64; i++ {
		dark += histogram[i]
	}
	for i := 192; i < 256; i++ {
		bright += histogram[i]
	}
	darkFraction := float64(dark) / float64(total)
	brightFraction := float64(bright) / float64(total)

	variance := 0.0
	for v, count := range histogram {
		d := float64(v)/255 - meanLuminance
		variance += d * d * float64(count)
	}
	variance /= float64(total)
	contrastScore := math.Sqrt(variance)

	return &manifest.ToneAnalysis{
		Tag:            toneTag(meanLuminance, darkFraction, brightFraction),
		MeanLuminance:  round3(meanLuminance),
		DarkFraction:   round3(darkFraction),
		BrightFraction: round3(brightFraction),
		ContrastScore:  round3(contrastScore),
	}, nil
}

func toneTag(mean, dark, bright float64) string {
	switch {
	case dark > 0.6:
		return "dark"
	case bright > 0.6:
		return "bright"
	case mean < 0.35:
		return "low-key"
	case mean > 0.65:
		return "high-key"
	default:
		return "balanced"
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
