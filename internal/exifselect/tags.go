package exifselect

import (
	"strconv"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
)

func stringTag(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return strings.Trim(tag.String(), `"`)
	}
	return strings.TrimSpace(s)
}

func intTag(x *exif.Exif, name exif.FieldName) int {
	tag, err := x.Get(name)
	if err != nil {
		return 0
	}
	v, err := tag.Int(0)
	if err != nil {
		return 0
	}
	return v
}

func floatTag(x *exif.Exif, name exif.FieldName) float64 {
	tag, err := x.Get(name)
	if err != nil {
		return 0
	}
	num, denom, err := tag.Rat2(0)
	if err != nil {
		if iv, err2 := tag.Int(0); err2 == nil {
			return float64(iv)
		}
		return 0
	}
	if denom == 0 {
		return 0
	}
	return float64(num) / float64(denom)
}

// ratioTag renders a rational tag (exposure time) as "1/250" the way the
// gallery's display layer expects rather than a decimal fraction.
func ratioTag(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	num, denom, err := tag.Rat2(0)
	if err != nil || denom == 0 {
		return ""
	}
	if num >= denom {
		// Exposures of 1 second or longer are shown as decimal seconds.
		return strconv.FormatFloat(float64(num)/float64(denom), 'f', 2, 64) + "s"
	}
	g := gcdInt64(num, denom)
	if num/g != 1 {
		return strconv.FormatInt(num/g, 10) + "/" + strconv.FormatInt(denom/g, 10)
	}
	return "1/" + strconv.FormatInt(denom/g, 10)
}

func gcdInt64(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func whiteBalanceTag(x *exif.Exif) string {
	tag, err := x.Get(exif.WhiteBalance)
	if err != nil {
		return ""
	}
	v, err := tag.Int(0)
	if err != nil {
		return ""
	}
	if v == 0 {
		return "auto"
	}
	return "manual"
}
