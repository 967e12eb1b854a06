package exifselect

import (
	"encoding/binary"
	"bytes"

	"github.com/lumilio-gallery/manifest-builder/internal/manifest"
	"github.com/rwcarlsen/goexif/exif"
)

// Fujifilm and Sony store their film-simulation / picture-profile settings
// in a proprietary maker-note IFD that goexif's mknote package does not
// decode (it only registers Nikon and Canon). There is no third-party
// parser for these vendor tables in the corpus, so this is a direct,
// minimal walk of the maker-note TIFF sub-IFD: assume little-endian byte
// order, read the entry count, then the (tag, type, count, value) records for the tag ids
// we care about. Unknown or malformed maker notes yield a nil recipe
// rather than an error, matching the "exif never aborts a photo" rule (§7).

const (
	fujiTagFilmMode       = 0x1401
	fujiTagDynamicRange   = 0x1403
	fujiTagWhiteBalance   = 0x2000
	fujiTagHighlightTone  = 0x1041
	fujiTagShadowTone     = 0x1040
	fujiTagColor          = 0x1045
	fujiTagSharpness      = 0x1001
	fujiTagNoiseReduction = 0x100e
	fujiTagGrainEffect    = 0x104c
	fujiTagColorChrome    = 0x104e

	sonyTagCreativeStyle  = 0xb020
	sonyTagPictureProfile = 0xb025
	sonyTagContrast       = 0xb021
	sonyTagSaturation     = 0xb022
	sonyTagSharpness      = 0xb023
)

func fujiRecipe(x *exif.Exif) *manifest.FujiRecipe {
	mk := stringTag(x, exif.Make)
	if !bytes.HasPrefix([]byte(mk), []byte("FUJIFILM")) {
		return nil
	}
	mn := makerNoteBytes(x)
	if mn == nil {
		return nil
	}
	entries, order := parseFujiIFD(mn)
	if entries == nil {
		return nil
	}
	r := &manifest.FujiRecipe{
		FilmSimulation: fujiFilmSimName(lookupUint16(entries, order, fujiTagFilmMode)),
		DynamicRange:   fujiDynamicRangeName(lookupUint16(entries, order, fujiTagDynamicRange)),
		WhiteBalance:   fujiWhiteBalanceName(lookupUint16(entries, order, fujiTagWhiteBalance)),
		HighlightTone:  fujiToneName(lookupInt16(entries, order, fujiTagHighlightTone)),
		ShadowTone:     fujiToneName(lookupInt16(entries, order, fujiTagShadowTone)),
		Color:          fujiLevelName(lookupInt16(entries, order, fujiTagColor)),
		Sharpness:      fujiLevelName(lookupInt16(entries, order, fujiTagSharpness)),
		NoiseReduction: fujiLevelName(lookupInt16(entries, order, fujiTagNoiseReduction)),
		GrainEffect:    fujiGrainName(lookupUint16(entries, order, fujiTagGrainEffect)),
		ColorChromeEffect: fujiLevelName(lookupInt16(entries, order, fujiTagColorChrome)),
	}
	if isFujiRecipeEmpty(r) {
		return nil
	}
	return r
}

func sonyRecipe(x *exif.Exif) *manifest.SonyRecipe {
	mk := stringTag(x, exif.Make)
	if !bytes.HasPrefix([]byte(mk), []byte("SONY")) {
		return nil
	}
	mn := makerNoteBytes(x)
	if mn == nil {
		return nil
	}
	entries, order := parseFujiIFD(mn) // same TIFF sub-IFD shape, vendor-agnostic walk
	if entries == nil {
		return nil
	}
	r := &manifest.SonyRecipe{
		CreativeStyle:  sonyStyleName(lookupUint16(entries, order, sonyTagCreativeStyle)),
		PictureProfile: sonyProfileName(lookupUint16(entries, order, sonyTagPictureProfile)),
		Contrast:       fujiLevelName(lookupInt16(entries, order, sonyTagContrast)),
		Saturation:     fujiLevelName(lookupInt16(entries, order, sonyTagSaturation)),
		Sharpness:      fujiLevelName(lookupInt16(entries, order, sonyTagSharpness)),
	}
	if r.CreativeStyle == "" && r.PictureProfile == "" && r.Contrast == "" &&
		r.Saturation == "" && r.Sharpness == "" {
		return nil
	}
	return r
}

func isFujiRecipeEmpty(r *manifest.FujiRecipe) bool {
	return r.FilmSimulation == "" && r.DynamicRange == "" && r.WhiteBalance == "" &&
		r.HighlightTone == "" && r.ShadowTone == "" && r.Color == "" &&
		r.Sharpness == "" && r.NoiseReduction == "" && r.GrainEffect == "" &&
		r.ColorChromeEffect == ""
}

// makerNoteBytes returns the raw bytes of the MakerNote tag, if present.
func makerNoteBytes(x *exif.Exif) []byte {
	tag, err := x.Get(exif.MakerNote)
	if err != nil {
		return nil
	}
	return tag.Val
}

type ifdEntry struct {
	tag      uint16
	typ      uint16
	count    uint32
	valueOff []byte
}

// parseFujiIFD walks a little-endian TIFF-style maker-note IFD: 2-byte entry
// count, then 12-byte entries of (tag uint16, type uint16, count uint32,
// value/offset 4 bytes). It intentionally ignores the string/offset
// indirection for values wider than 4 bytes, since every tag consulted here
// is a short or signed-short stored inline.
func parseFujiIFD(mn []byte) (map[uint16]ifdEntry, binary.ByteOrder) {
	if len(mn) < 14 {
		return nil, nil
	}
	order := binary.ByteOrder(binary.LittleEndian)
	offset := 0
	// A maker note that starts with the "FUJIFILM" or "SONY CAM" signature
	// has a 12-byte header before the IFD; any other maker note is read as
	// beginning directly with the entry count.
	for _, sig := range [][]byte{[]byte("FUJIFILM"), []byte("SONY CAM")} {
		if bytes.HasPrefix(mn, sig) {
			offset = 12
			break
		}
	}
	if offset+2 > len(mn) {
		return nil, nil
	}
	count := order.Uint16(mn[offset : offset+2])
	offset += 2

	entries := make(map[uint16]ifdEntry, count)
	for i := 0; i < int(count); i++ {
		if offset+12 > len(mn) {
			break
		}
		e := ifdEntry{
			tag:      order.Uint16(mn[offset : offset+2]),
			typ:      order.Uint16(mn[offset+2 : offset+4]),
			count:    order.Uint32(mn[offset+4 : offset+8]),
			valueOff: mn[offset+8 : offset+12],
		}
		entries[e.tag] = e
		offset += 12
	}
	return entries, order
}

func lookupUint16(entries map[uint16]ifdEntry, order binary.ByteOrder, tag uint16) (uint16, bool) {
	e, ok := entries[tag]
	if !ok || order == nil {
		return 0, false
	}
	return order.Uint16(e.valueOff[:2]), true
}

func lookupInt16(entries map[uint16]ifdEntry, order binary.ByteOrder, tag uint16) (int16, bool) {
	v, ok := lookupUint16(entries, order, tag)
	return int16(v), ok
}
