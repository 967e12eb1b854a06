package pipeline

import (
	"bytes"
	"fmt"
	"image/jpeg"

	"github.com/gabriel-vasile/mimetype"
	"github.com/h2non/bimg"
	"golang.org/x/image/bmp"
)

// normalize converts formats bimg/libvips cannot decode directly (BMP) into
// a JPEG-equivalent buffer bimg can then process like any other source.
// HEIC/HEIF needs no special-casing here: libvips already decodes it, so
// bimg.NewImage(raw) handles it for free once the bimg build has heif
// support, the same assumption the teacher's imaging package makes.
func normalize(raw []byte) ([]byte, error) {
	mt := mimetype.Detect(raw)
	if mt.Is("image/bmp") {
		img, err := bmp.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("decode bmp: %w", err)
		}
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
			return nil, fmt.Errorf("re-encode bmp as jpeg: %w", err)
		}
		return buf.Bytes(), nil
	}
	return raw, nil
}

// autoOrient applies the EXIF orientation tag destructively so width/height
// and the thumbnail both reflect the displayed orientation rather than the
// sensor's native orientation (§4.E step 2).
func autoOrient(raw []byte) ([]byte, error) {
	out, err := bimg.NewImage(raw).AutoRotate()
	if err != nil {
		// Some formats (already-normalized BMP-derived JPEGs, grayscale
		// TIFFs) have no orientation tag; AutoRotate then just echoes back.
		return raw, nil
	}
	return out, nil
}
