// Package exifselect extracts the fixed set of EXIF tags the gallery needs
// (§3 ExifSelection) from a decoded image byte stream. Tag decoding itself
// is delegated to goexif; the maker-note walk for vendor recipe fields has
// no equivalent library in the corpus and is hand-rolled, matching the
// degree of custom parsing the teacher's own exif package already does for
// tags goexif's public API does not expose directly.
package exifselect

import (
	"bytes"
	"fmt"

	"github.com/lumilio-gallery/manifest-builder/internal/manifest"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
)

func init() {
	exif.RegisterParsers(mknote.All...)
}

// Extract decodes the EXIF segment from raw image bytes and projects it onto
// manifest.ExifSelection. A nil, nil return means the image carried no EXIF
// segment at all (not an error, §7); a non-nil error means the segment was
// present but malformed and the caller should record an ErrExif warning
// while still producing the photo with exif == nil.
func Extract(raw []byte) (*manifest.ExifSelection, error) {
	// The gain-map marker lives in the MPF/XMP segment, not the EXIF IFD, so
	// it is scanned independent of whether EXIF decoding succeeds at all.
	mp := mpImageType(raw)

	x, err := exif.Decode(bytes.NewReader(raw))
	if err != nil {
		if mp != "" {
			return &manifest.ExifSelection{MPImageType: mp}, nil
		}
		if exif.IsCriticalError(err) {
			return nil, fmt.Errorf("decode exif: %w", err)
		}
		// A non-critical error (an unreadable field, a missing segment)
		// leaves nothing usable to project.
		return nil, nil
	}

	sel := &manifest.ExifSelection{}
	sel.CameraMake = stringTag(x, exif.Make)
	sel.CameraModel = stringTag(x, exif.Model)
	sel.LensMake = stringTag(x, exif.LensMake)
	sel.LensModel = stringTag(x, exif.LensModel)
	sel.ExposureTime = ratioTag(x, exif.ExposureTime)
	sel.FNumber = floatTag(x, exif.FNumber)
	sel.ISO = intTag(x, exif.ISOSpeedRatings)
	sel.FocalLength = floatTag(x, exif.FocalLength)
	sel.FocalLength35mm = floatTag(x, exif.FocalLengthIn35mmFilm)
	sel.Orientation = intTag(x, exif.Orientation)
	sel.WhiteBalance = whiteBalanceTag(x)

	if dt, err := x.DateTime(); err == nil {
		sel.DateTimeOriginal = dt.UTC().Format("2006-01-02T15:04:05Z")
	}

	if lat, long, err := x.LatLong(); err == nil {
		sel.GPSLatitude = &manifest.GPSCoordinate{Value: lat, Ref: latRef(lat)}
		sel.GPSLongitude = &manifest.GPSCoordinate{Value: long, Ref: longRef(long)}
	}
	if alt := floatTag(x, exif.GPSAltitude); alt != 0 {
		sel.GPSAltitude = &manifest.GPSCoordinate{Value: alt}
	}

	sel.MPImageType = mp
	sel.Fuji = fujiRecipe(x)
	sel.Sony = sonyRecipe(x)

	if isBlank(sel) {
		return nil, nil
	}
	return sel, nil
}

func latRef(v float64) string {
	if v < 0 {
		return "S"
	}
	return "N"
}

func longRef(v float64) string {
	if v < 0 {
		return "W"
	}
	return "E"
}

func isBlank(s *manifest.ExifSelection) bool {
	return s.CameraMake == "" && s.CameraModel == "" && s.ExposureTime == "" &&
		s.FNumber == 0 && s.ISO == 0 && s.FocalLength == 0 &&
		s.DateTimeOriginal == "" && s.GPSLatitude == nil && s.Fuji == nil && s.Sony == nil &&
		s.MPImageType == ""
}
